// Package reconcile implements the import reconciliation engine: pairing
// existing and incoming planning entities, detecting conflicts between
// them, turning a user decision into a mutation plan, and applying that
// plan atomically.
package reconcile

import (
	"fmt"
	"strings"

	"github.com/agentstation/utc"

	"github.com/planstack/importsync/pkg/dates"
	"github.com/planstack/importsync/pkg/project"
)

// Severity grades a conflict for the review UI.
type Severity string

// Conflict severities.
const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// String returns the string representation of a severity.
func (s Severity) String() string {
	return string(s)
}

// Conflict is a detected collision between an existing and incoming (or two
// incoming) entities sharing identity and overlapping in time or capacity.
// The variant set is closed: each conflict kind carries its own concrete
// detail structure, so consumers switch on type instead of casting dynamic
// payloads.
type Conflict interface {
	// ID is derived from the entity kind and the participating entity IDs,
	// stable across reruns on identical inputs.
	ID() string

	// EntityType reports which entity kind the conflict concerns.
	EntityType() project.EntityType

	// Severity grades the conflict.
	Severity() Severity

	// Message is the user-facing conflict description.
	Message() string

	// SuggestedResolution is deterministic guidance for the review UI.
	SuggestedResolution() string

	// IncomingID identifies the incoming participant, the entity a merge
	// plan renames.
	IncomingID() string

	// startDate is the ordering key within a type group.
	startDate() utc.Time

	// sealed marks the variant set as closed.
	sealed()
}

// ResourceConflict reports over-committed capacity: both sides assign the
// same resource inside an overlapping window.
type ResourceConflict struct {
	Name               string      // resource display name
	ExistingID         string      // existing resource ID
	IncomingResourceID string      // incoming resource ID
	Overlap            dates.Range // intersection of the two sides' spans
	ExistingAllocation float64     // percent committed by existing assignments in the overlap
	ImportedAllocation float64     // percent committed by imported assignments in the overlap
	TotalAllocation    float64     // ExistingAllocation + ImportedAllocation
	ExistingTasks      []string    // contributing task names on the existing side
	ImportedTasks      []string    // contributing task names on the imported side

	existingStart utc.Time
}

// ID is derived from the entity kind and the matched pair's IDs.
func (c *ResourceConflict) ID() string {
	return fmt.Sprintf("resource:%s:%s", c.ExistingID, c.IncomingResourceID)
}

// EntityType reports the resource kind.
func (c *ResourceConflict) EntityType() project.EntityType { return project.EntityTypeResource }

// Severity escalates to error when combined allocation exceeds 100 percent.
func (c *ResourceConflict) Severity() Severity {
	if c.TotalAllocation > 100 {
		return SeverityError
	}
	return SeverityWarning
}

// Message describes the overlapping allocation.
func (c *ResourceConflict) Message() string {
	return fmt.Sprintf("resource %q is allocated %.0f%% during %s (%.0f%% existing + %.0f%% imported)",
		c.Name, c.TotalAllocation, c.Overlap, c.ExistingAllocation, c.ImportedAllocation)
}

// SuggestedResolution returns deterministic guidance.
func (c *ResourceConflict) SuggestedResolution() string {
	if c.TotalAllocation > 100 {
		return fmt.Sprintf("reduce allocations within %s or rename the imported resource to track capacity separately", c.Overlap)
	}
	return "review the overlapping assignments; merge will rename the imported resource"
}

// IncomingID identifies the incoming resource.
func (c *ResourceConflict) IncomingID() string { return c.IncomingResourceID }

func (c *ResourceConflict) startDate() utc.Time { return c.existingStart }
func (c *ResourceConflict) sealed()             {}

// PhaseConflict reports two phases sharing a name over overlapping dates.
// Matched phases with disjoint ranges are independent label reuses and do
// not produce a conflict.
type PhaseConflict struct {
	Name              string      // phase display name
	ExistingID        string      // existing phase ID
	IncomingPhaseID   string      // incoming phase ID
	ExistingRange     dates.Range // existing phase dates
	IncomingRange     dates.Range // incoming phase dates
	ExistingTaskCount int         // tasks owned by the existing phase
	IncomingTaskCount int         // tasks owned by the incoming phase
}

// ID is derived from the entity kind and the matched pair's IDs.
func (c *PhaseConflict) ID() string {
	return fmt.Sprintf("phase:%s:%s", c.ExistingID, c.IncomingPhaseID)
}

// EntityType reports the phase kind.
func (c *PhaseConflict) EntityType() project.EntityType { return project.EntityTypePhase }

// Severity is always warning for phase conflicts.
func (c *PhaseConflict) Severity() Severity { return SeverityWarning }

// Message describes the overlapping phases.
func (c *PhaseConflict) Message() string {
	return fmt.Sprintf("phase %q overlaps an existing phase of the same name (existing %s with %d tasks, imported %s with %d tasks)",
		c.Name, c.ExistingRange, c.ExistingTaskCount, c.IncomingRange, c.IncomingTaskCount)
}

// SuggestedResolution returns deterministic guidance.
func (c *PhaseConflict) SuggestedResolution() string {
	return "merge will keep both phases and rename the imported one"
}

// IncomingID identifies the incoming phase.
func (c *PhaseConflict) IncomingID() string { return c.IncomingPhaseID }

func (c *PhaseConflict) startDate() utc.Time { return c.ExistingRange.Start }
func (c *PhaseConflict) sealed()             {}

// TaskConflict reports two tasks sharing a name and an owning phase over
// overlapping dates.
type TaskConflict struct {
	Name           string      // task display name
	PhaseName      string      // owning phase display name
	ExistingID     string      // existing task ID
	IncomingTaskID string      // incoming task ID
	ExistingRange  dates.Range // existing task dates
	IncomingRange  dates.Range // incoming task dates
}

// ID is derived from the entity kind and the matched pair's IDs.
func (c *TaskConflict) ID() string {
	return fmt.Sprintf("task:%s:%s", c.ExistingID, c.IncomingTaskID)
}

// EntityType reports the task kind.
func (c *TaskConflict) EntityType() project.EntityType { return project.EntityTypeTask }

// Severity is always warning for task conflicts.
func (c *TaskConflict) Severity() Severity { return SeverityWarning }

// Message describes the overlapping tasks.
func (c *TaskConflict) Message() string {
	return fmt.Sprintf("task %q in phase %q overlaps an existing task of the same name (existing %s, imported %s)",
		c.Name, c.PhaseName, c.ExistingRange, c.IncomingRange)
}

// SuggestedResolution returns deterministic guidance.
func (c *TaskConflict) SuggestedResolution() string {
	return "merge will keep both tasks and rename the imported one"
}

// IncomingID identifies the incoming task.
func (c *TaskConflict) IncomingID() string { return c.IncomingTaskID }

func (c *TaskConflict) startDate() utc.Time { return c.ExistingRange.Start }
func (c *TaskConflict) sealed()             {}

// DuplicateNameConflict reports a self-collision: two entities within the
// incoming payload share a normalized name. One record is emitted per extra
// occurrence.
type DuplicateNameConflict struct {
	Type        project.EntityType // entity kind of the colliding pair
	Name        string             // display name of the duplicate occurrence
	FirstID     string             // incoming entity that claimed the name first
	DuplicateID string             // incoming entity colliding with it

	duplicateStart utc.Time
}

// ID is derived from the entity kind and the duplicate occurrence's ID.
func (c *DuplicateNameConflict) ID() string {
	return fmt.Sprintf("%s:dup:%s", c.Type, c.DuplicateID)
}

// EntityType reports the colliding entity kind.
func (c *DuplicateNameConflict) EntityType() project.EntityType { return c.Type }

// Severity is always warning for self-collisions.
func (c *DuplicateNameConflict) Severity() Severity { return SeverityWarning }

// Message describes the duplicate name within the imported payload.
func (c *DuplicateNameConflict) Message() string {
	return fmt.Sprintf("imported %ss %s and %s share the name %q",
		c.Type, c.FirstID, c.DuplicateID, strings.TrimSpace(c.Name))
}

// SuggestedResolution returns deterministic guidance.
func (c *DuplicateNameConflict) SuggestedResolution() string {
	return "merge will rename the later duplicate to keep names unique"
}

// IncomingID identifies the duplicate occurrence.
func (c *DuplicateNameConflict) IncomingID() string { return c.DuplicateID }

func (c *DuplicateNameConflict) startDate() utc.Time { return c.duplicateStart }
func (c *DuplicateNameConflict) sealed()             {}
