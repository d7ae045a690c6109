// Package dates provides inclusive date-range arithmetic for project
// planning data. Ranges are half-agnostic about time-of-day: callers are
// expected to supply date-valued UTC times, and a single-day range
// (Start == End) is valid and non-empty.
package dates

import (
	"fmt"
	"time"

	"github.com/agentstation/utc"

	"github.com/planstack/importsync/pkg/errors"
)

// Range is an inclusive [Start, End] date interval.
type Range struct {
	Start utc.Time `json:"start" yaml:"start"`
	End   utc.Time `json:"end" yaml:"end"`
}

// NewRange creates a Range, rejecting inverted intervals.
func NewRange(start, end utc.Time) (Range, error) {
	r := Range{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return Range{}, err
	}
	return r, nil
}

// Date returns a date-valued UTC time, a convenience for constructing ranges.
func Date(year int, month time.Month, day int) utc.Time {
	return utc.New(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// Validate reports ErrInvalidRange for an inverted interval. Callers must
// not feed inverted ranges into Overlaps or Intersect.
func (r Range) Validate() error {
	if r.End.Before(r.Start) {
		return errors.NewInvalidRangeError("", "",
			r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"))
	}
	return nil
}

// IsZero reports whether both endpoints are unset.
func (r Range) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// Overlaps reports whether two inclusive ranges share at least one day.
func (r Range) Overlaps(other Range) bool {
	return !r.Start.After(other.End) && !other.Start.After(r.End)
}

// Intersect returns the intersection of two inclusive ranges and whether it
// is non-empty. Touching endpoints count as a one-day intersection.
func (r Range) Intersect(other Range) (Range, bool) {
	if !r.Overlaps(other) {
		return Range{}, false
	}

	start := r.Start
	if other.Start.After(start) {
		start = other.Start
	}

	end := r.End
	if other.End.Before(end) {
		end = other.End
	}

	return Range{Start: start, End: end}, true
}

// Contains reports whether t falls within the inclusive range.
func (r Range) Contains(t utc.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Days returns the number of calendar days covered by the range, inclusive.
// A single-day range returns 1.
func (r Range) Days() int {
	if r.End.Before(r.Start) {
		return 0
	}
	return int(r.End.Time.Sub(r.Start.Time).Hours()/24) + 1
}

// String renders the range as "YYYY-MM-DD..YYYY-MM-DD".
func (r Range) String() string {
	return fmt.Sprintf("%s..%s", r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"))
}
