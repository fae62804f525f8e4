package e

import "errors"

var (
	ErrNotFound              = errors.New("not found")
	ErrAlreadyExists         = errors.New("already exists")
	ErrInvalidRange          = errors.New("invalid range header")
	ErrRangeNotSatisfiable   = errors.New("range not satisfiable")
	ErrCacheMiss             = errors.New("cache miss")
	ErrCacheWrite            = errors.New("cache write failure")
	ErrNetworkUnavailable    = errors.New("network unavailable")
	ErrInvalidTransitionTime = errors.New("transition time must be between 1000 and 60000 ms")
	ErrInvalidAssignment     = errors.New("invalid media assignment")
	ErrUnsupportedMediaType  = errors.New("unsupported media type")
)
