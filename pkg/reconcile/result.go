package reconcile

import (
	"fmt"
	"strings"

	"github.com/planstack/importsync/pkg/project"
)

// Summary holds the conflict counts surfaced alongside the conflict list.
// It is computed as a single fold over that list, so counts can never
// diverge from the records.
type Summary struct {
	Total      int
	BySeverity map[Severity]int
	ByType     map[project.EntityType]int
}

// Result is the outcome of conflict detection: the ordered conflict list
// plus its summary, and any malformed intervals that were skipped.
type Result struct {
	Conflicts   []Conflict
	Summary     Summary
	RangeErrors []error
}

// summarize folds the conflict list into summary counts.
func summarize(conflicts []Conflict) Summary {
	s := Summary{
		BySeverity: make(map[Severity]int),
		ByType:     make(map[project.EntityType]int),
	}
	for _, c := range conflicts {
		s.Total++
		s.BySeverity[c.Severity()]++
		s.ByType[c.EntityType()]++
	}
	return s
}

// HasConflicts reports whether any conflict was detected.
func (r *Result) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

// HasErrors reports whether any conflict carries error severity.
func (r *Result) HasErrors() bool {
	return r.Summary.BySeverity[SeverityError] > 0
}

// String returns a one-line summary of the detection outcome.
func (r *Result) String() string {
	if !r.HasConflicts() {
		return "No conflicts detected"
	}

	var parts []string
	for _, t := range project.EntityTypes() {
		if n := r.Summary.ByType[t]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, t))
		}
	}

	return fmt.Sprintf("%d conflicts (%d errors, %d warnings): %s",
		r.Summary.Total,
		r.Summary.BySeverity[SeverityError],
		r.Summary.BySeverity[SeverityWarning],
		strings.Join(parts, ", "))
}

// Report renders the full conflict list for review, one conflict per
// block, in detection order.
func (r *Result) Report() string {
	var b strings.Builder
	b.WriteString(r.String())
	b.WriteString("\n")

	for _, c := range r.Conflicts {
		fmt.Fprintf(&b, "\n[%s] %s\n", c.Severity(), c.ID())
		fmt.Fprintf(&b, "  %s\n", c.Message())
		fmt.Fprintf(&b, "  suggestion: %s\n", c.SuggestedResolution())
	}

	if len(r.RangeErrors) > 0 {
		fmt.Fprintf(&b, "\nSkipped %d comparisons with invalid date ranges:\n", len(r.RangeErrors))
		for _, err := range r.RangeErrors {
			fmt.Fprintf(&b, "  - %v\n", err)
		}
	}

	return b.String()
}
