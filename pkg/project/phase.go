package project

import (
	"github.com/planstack/importsync/pkg/dates"
)

// Phase is an ordered stage of a project plan. Its range must satisfy
// Start <= End; TaskIDs preserves task ordering within the phase.
type Phase struct {
	ID       string      `json:"id" yaml:"id"`
	Name     string      `json:"name" yaml:"name"`
	Range    dates.Range `json:"range" yaml:"range"`
	TaskIDs  []string    `json:"task_ids,omitempty" yaml:"task_ids,omitempty"`
	Category string      `json:"category,omitempty" yaml:"category,omitempty"`
}

// NormalizedName returns the phase's matching key.
func (p *Phase) NormalizedName() string {
	return NormalizeName(p.Name)
}

// TaskCount returns the number of tasks owned by the phase.
func (p *Phase) TaskCount() int {
	return len(p.TaskIDs)
}
