package project

import (
	"github.com/planstack/importsync/pkg/dates"
)

// Task is a unit of work owned by a phase. Its range may lie within or
// overlap the owning phase's range; dependency acyclicity is assumed to be
// enforced upstream of this engine.
type Task struct {
	ID            string      `json:"id" yaml:"id"`
	Name          string      `json:"name" yaml:"name"`
	PhaseID       string      `json:"phase_id" yaml:"phase_id"`
	Range         dates.Range `json:"range" yaml:"range"`
	DependencyIDs []string    `json:"dependency_ids,omitempty" yaml:"dependency_ids,omitempty"`
}

// NormalizedName returns the task's matching key.
func (t *Task) NormalizedName() string {
	return NormalizeName(t.Name)
}
