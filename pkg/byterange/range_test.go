package byterange

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/terrycain/station-tv-server/pkg/e"
)

func TestParse(t *testing.T) {
	tables := []struct {
		name     string
		header   string
		expected Request
		err      error
	}{
		{"closed range", "bytes=0-99", Request{0, 99}, nil},
		{"open range", "bytes=500-", Request{500, -1}, nil},
		{"first of many", "bytes=0-1,5-6", Request{0, 1}, nil},
		{"suffix range", "bytes=-500", Request{}, e.ErrInvalidRange},
		{"not a number", "bytes=abc-10", Request{}, e.ErrInvalidRange},
		{"wrong unit", "items=0-10", Request{}, e.ErrInvalidRange},
		{"empty", "", Request{}, e.ErrInvalidRange},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			result, err := Parse(table.header)
			if !errors.Is(err, table.err) {
				t.Fatalf("Parse() error = %v, want %v", err, table.err)
			}
			if diff := cmp.Diff(table.expected, result); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	tables := []struct {
		name     string
		request  Request
		total    int64
		expected RangeSpec
		err      error
	}{
		{"inside", Request{200, 299}, 1000, RangeSpec{200, 299, 1000}, nil},
		{"open end", Request{10, -1}, 100, RangeSpec{10, 99, 100}, nil},
		{"end clamped", Request{10, 5000}, 100, RangeSpec{10, 99, 100}, nil},
		{"last byte", Request{99, 99}, 100, RangeSpec{99, 99, 100}, nil},
		{"start at size", Request{100, -1}, 100, RangeSpec{}, e.ErrRangeNotSatisfiable},
		{"start past size", Request{150, 200}, 100, RangeSpec{}, e.ErrRangeNotSatisfiable},
		{"end before start", Request{50, 10}, 100, RangeSpec{}, e.ErrRangeNotSatisfiable},
		{"empty object", Request{0, -1}, 0, RangeSpec{}, e.ErrRangeNotSatisfiable},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			result, err := table.request.Resolve(table.total)
			if !errors.Is(err, table.err) {
				t.Fatalf("Resolve() error = %v, want %v", err, table.err)
			}
			if diff := cmp.Diff(table.expected, result); diff != "" {
				t.Errorf("Resolve() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRangeSpecHeaders(t *testing.T) {
	r := RangeSpec{Start: 200, End: 299, Total: 1000}
	if diff := cmp.Diff(int64(100), r.Length()); diff != "" {
		t.Error(diff)
	}
	if diff := cmp.Diff("bytes 200-299/1000", r.ContentRange()); diff != "" {
		t.Error(diff)
	}
	if diff := cmp.Diff("bytes */1000", Unsatisfiable(1000)); diff != "" {
		t.Error(diff)
	}
}
