package byterange

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/terrycain/station-tv-server/pkg/e"
)

// Only the first range of a multi-range header is honoured.
var rangeRegex = regexp.MustCompile(`^\s*bytes=(\d+)-(\d*)`)

// Request is a parsed Range request header. End is -1 when the range is open ended.
type Request struct {
	Start int64
	End   int64
}

// RangeSpec is a request resolved against a known total length, 0 <= Start <= End < Total.
type RangeSpec struct {
	Start int64
	End   int64
	Total int64
}

// Parse parses a `bytes=start-end` header. Suffix ranges (bytes=-500) are not supported and
// return e.ErrInvalidRange like any other malformed value.
func Parse(header string) (Request, error) {
	parts := rangeRegex.FindStringSubmatch(header)
	if parts == nil {
		return Request{}, e.ErrInvalidRange
	}

	start, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Request{}, e.ErrInvalidRange
	}

	end := int64(-1)
	if parts[2] != "" {
		if end, err = strconv.ParseInt(parts[2], 10, 64); err != nil {
			return Request{}, e.ErrInvalidRange
		}
	}

	return Request{Start: start, End: end}, nil
}

// Resolve clamps the request against total bytes.
func (r Request) Resolve(total int64) (RangeSpec, error) {
	if r.Start < 0 || r.Start >= total {
		return RangeSpec{}, e.ErrRangeNotSatisfiable
	}

	end := r.End
	if end < 0 || end > total-1 {
		end = total - 1
	}
	if end < r.Start {
		return RangeSpec{}, e.ErrRangeNotSatisfiable
	}

	return RangeSpec{Start: r.Start, End: end, Total: total}, nil
}

func (r RangeSpec) Length() int64 {
	return r.End - r.Start + 1
}

func (r RangeSpec) ContentRange() string {
	return fmt.Sprintf("bytes %d-%d/%d", r.Start, r.End, r.Total)
}

// Unsatisfiable is the Content-Range value sent alongside a 416.
func Unsatisfiable(total int64) string {
	return fmt.Sprintf("bytes */%d", total)
}
