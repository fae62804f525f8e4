package byterange

// Looted from https://github.com/gregberge/content-range, all credit for the tests goes to @gregberge

import (
	"errors"
	"regexp"
	"strconv"

	"github.com/rs/zerolog/log"
)

type ContentRange struct {
	Unit  string
	Start int64
	End   int64
	Size  int64
}

var (
	contentRangeRegex = regexp.MustCompile(`(?m)(\w+) ((\d+)-(\d+)|\*)/(\d+|\*)`)
	ErrContentRange   = errors.New("invalid content-range header")
)

// ParseContentRange parses a Content-Range response header. Unknown parts are reported as -1.
func ParseContentRange(value string) (ContentRange, error) {
	result := ContentRange{}

	parts := contentRangeRegex.FindStringSubmatch(value)
	if parts == nil {
		return ContentRange{}, ErrContentRange
	}
	if len(parts) != 6 { // Should never satisfy this but I'm paranoid
		log.Error().Msg("Failed to parse Content-Range header, parts regexed is not 6")
		return ContentRange{}, ErrContentRange
	}

	result.Unit = parts[1]
	result.Start = atoiOrNegative(parts[3])
	result.End = atoiOrNegative(parts[4])
	result.Size = atoiOrNegative(parts[5])

	if result.Size == -1 && result.Start == -1 && result.End == -1 {
		return ContentRange{}, ErrContentRange
	}

	return result, nil
}

// Complete reports whether the header describes the whole object, e.g. bytes 0-99/100.
func (c ContentRange) Complete() bool {
	return c.Size > 0 && c.Start == 0 && c.End == c.Size-1
}

func atoiOrNegative(value string) int64 {
	i, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return -1
	}
	return i
}
