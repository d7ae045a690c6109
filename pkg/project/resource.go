package project

import (
	"github.com/planstack/importsync/pkg/dates"
)

// Assignment allocates a resource to a task over a date range.
// AllocationPercent is within [0,100] per assignment; the combined
// allocation over an overlapping window may exceed 100 — that is
// detectable, not structurally forbidden.
type Assignment struct {
	TaskID            string      `json:"task_id" yaml:"task_id"`
	AllocationPercent float64     `json:"allocation_percent" yaml:"allocation_percent"`
	Range             dates.Range `json:"range" yaml:"range"`
}

// Resource represents a person or capacity pool assigned to tasks.
type Resource struct {
	ID          string       `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	Role        string       `json:"role,omitempty" yaml:"role,omitempty"`
	Region      string       `json:"region,omitempty" yaml:"region,omitempty"`
	Assignments []Assignment `json:"assignments,omitempty" yaml:"assignments,omitempty"`
}

// NormalizedName returns the resource's matching key.
func (r *Resource) NormalizedName() string {
	return NormalizeName(r.Name)
}

// Span returns the hull of the resource's valid assignment ranges and
// whether the resource has any dated assignment at all. Assignments with
// inverted ranges are skipped; the detector logs them separately.
func (r *Resource) Span() (dates.Range, bool) {
	var span dates.Range
	found := false
	for _, a := range r.Assignments {
		if a.Range.Validate() != nil {
			continue
		}
		if !found {
			span = a.Range
			found = true
			continue
		}
		if a.Range.Start.Before(span.Start) {
			span.Start = a.Range.Start
		}
		if a.Range.End.After(span.End) {
			span.End = a.Range.End
		}
	}
	return span, found
}

// AllocationIn sums the resource's allocation over assignments whose range
// intersects the window, returning the combined percentage and the
// contributing task IDs in assignment order.
func (r *Resource) AllocationIn(window dates.Range) (float64, []string) {
	var total float64
	var tasks []string
	for _, a := range r.Assignments {
		if a.Range.Validate() != nil {
			continue
		}
		if a.Range.Overlaps(window) {
			total += a.AllocationPercent
			tasks = append(tasks, a.TaskID)
		}
	}
	return total, tasks
}
