package project

import (
	"sort"
)

// Snapshot is an ordered value view of a project's contents. It is the
// exchange shape between the store, the import codec, and the
// reconciliation engine: both the existing project and the incoming
// payload arrive as snapshots.
type Snapshot struct {
	Resources []Resource `json:"resources,omitempty" yaml:"resources,omitempty"`
	Phases    []Phase    `json:"phases,omitempty" yaml:"phases,omitempty"`
	Tasks     []Task     `json:"tasks,omitempty" yaml:"tasks,omitempty"`
}

// Sort orders the snapshot deterministically: each collection ascending by
// start date, then normalized name, then ID. Detection and planning depend
// on this ordering for byte-identical reruns.
func (s *Snapshot) Sort() {
	sort.SliceStable(s.Resources, func(i, j int) bool {
		a, b := &s.Resources[i], &s.Resources[j]
		aSpan, aOK := a.Span()
		bSpan, bOK := b.Span()
		switch {
		case aOK && bOK && !aSpan.Start.Equal(bSpan.Start):
			return aSpan.Start.Before(bSpan.Start)
		case aOK != bOK:
			return aOK // dated resources sort before undated ones
		}
		if an, bn := a.NormalizedName(), b.NormalizedName(); an != bn {
			return an < bn
		}
		return a.ID < b.ID
	})

	sort.SliceStable(s.Phases, func(i, j int) bool {
		a, b := &s.Phases[i], &s.Phases[j]
		if !a.Range.Start.Equal(b.Range.Start) {
			return a.Range.Start.Before(b.Range.Start)
		}
		if an, bn := a.NormalizedName(), b.NormalizedName(); an != bn {
			return an < bn
		}
		return a.ID < b.ID
	})

	sort.SliceStable(s.Tasks, func(i, j int) bool {
		a, b := &s.Tasks[i], &s.Tasks[j]
		if !a.Range.Start.Equal(b.Range.Start) {
			return a.Range.Start.Before(b.Range.Start)
		}
		if an, bn := a.NormalizedName(), b.NormalizedName(); an != bn {
			return an < bn
		}
		return a.ID < b.ID
	})
}

// Copy returns a deep copy of the snapshot.
func (s *Snapshot) Copy() *Snapshot {
	out := &Snapshot{
		Resources: make([]Resource, len(s.Resources)),
		Phases:    make([]Phase, len(s.Phases)),
		Tasks:     make([]Task, len(s.Tasks)),
	}

	for i, r := range s.Resources {
		rc := r
		rc.Assignments = append([]Assignment(nil), r.Assignments...)
		out.Resources[i] = rc
	}
	for i, p := range s.Phases {
		pc := p
		pc.TaskIDs = append([]string(nil), p.TaskIDs...)
		out.Phases[i] = pc
	}
	for i, t := range s.Tasks {
		tc := t
		tc.DependencyIDs = append([]string(nil), t.DependencyIDs...)
		out.Tasks[i] = tc
	}

	return out
}

// IsEmpty reports whether the snapshot holds no entities.
func (s *Snapshot) IsEmpty() bool {
	return len(s.Resources) == 0 && len(s.Phases) == 0 && len(s.Tasks) == 0
}

// Counts returns the entity counts per type.
func (s *Snapshot) Counts() map[EntityType]int {
	return map[EntityType]int{
		EntityTypeResource: len(s.Resources),
		EntityTypePhase:    len(s.Phases),
		EntityTypeTask:     len(s.Tasks),
	}
}
