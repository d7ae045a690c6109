package reconcile

import (
	"github.com/agentstation/utc"

	"github.com/planstack/importsync/pkg/project"
)

// ResourcePair is a matched existing/incoming resource sharing a
// normalized name.
type ResourcePair struct {
	Existing *project.Resource
	Incoming *project.Resource
}

// PhasePair is a matched existing/incoming phase sharing a normalized name.
type PhasePair struct {
	Existing *project.Phase
	Incoming *project.Phase
}

// TaskPair is a matched existing/incoming task sharing a normalized name.
type TaskPair struct {
	Existing *project.Task
	Incoming *project.Task
}

// SelfCollision records a duplicate normalized name within one incoming
// collection. The duplicate occurrence stays in the incoming-only bucket;
// the detector reports it as an additional warning conflict.
type SelfCollision struct {
	Type        project.EntityType
	Name        string // display name of the duplicate occurrence
	FirstID     string // incoming entity that claimed the name first
	DuplicateID string // later occurrence colliding with it
	Start       utc.Time
}

// MatchSet buckets every entity of both snapshots: each entity appears in
// exactly one of pairs, existing-only, or incoming-only for its type.
type MatchSet struct {
	ResourcePairs         []ResourcePair
	ExistingOnlyResources []*project.Resource
	IncomingOnlyResources []*project.Resource

	PhasePairs         []PhasePair
	ExistingOnlyPhases []*project.Phase
	IncomingOnlyPhases []*project.Phase

	TaskPairs         []TaskPair
	ExistingOnlyTasks []*project.Task
	IncomingOnlyTasks []*project.Task

	SelfCollisions []SelfCollision
}

// Total returns the number of bucketed entities per side, used to assert
// the totality invariant.
func (m *MatchSet) Total() (existing, incoming int) {
	existing = len(m.ResourcePairs) + len(m.ExistingOnlyResources) +
		len(m.PhasePairs) + len(m.ExistingOnlyPhases) +
		len(m.TaskPairs) + len(m.ExistingOnlyTasks)
	incoming = len(m.ResourcePairs) + len(m.IncomingOnlyResources) +
		len(m.PhasePairs) + len(m.IncomingOnlyPhases) +
		len(m.TaskPairs) + len(m.IncomingOnlyTasks)
	return existing, incoming
}

// Match pairs existing and incoming entities by (type, normalized name).
// Inputs must be sorted snapshots; the buckets then come out in snapshot
// order, which keeps detection deterministic. Duplicate normalized names
// within the incoming payload are recorded as self-collisions, with the
// later occurrence bucketed incoming-only.
func Match(existing, incoming *project.Snapshot) *MatchSet {
	set := &MatchSet{}

	matchResources(existing.Resources, incoming.Resources, set)
	matchPhases(existing.Phases, incoming.Phases, set)
	matchTasks(existing.Tasks, incoming.Tasks, set)

	return set
}

func matchResources(existing, incoming []project.Resource, set *MatchSet) {
	byName := make(map[string]*project.Resource, len(existing))
	claimed := make(map[string]bool, len(existing))
	for i := range existing {
		name := existing[i].NormalizedName()
		if _, ok := byName[name]; !ok {
			byName[name] = &existing[i]
		}
	}

	seen := make(map[string]string, len(incoming)) // normalized name -> first incoming ID
	for i := range incoming {
		in := &incoming[i]
		name := in.NormalizedName()

		if firstID, dup := seen[name]; dup {
			start := utc.Time{}
			if span, ok := in.Span(); ok {
				start = span.Start
			}
			set.SelfCollisions = append(set.SelfCollisions, SelfCollision{
				Type:        project.EntityTypeResource,
				Name:        in.Name,
				FirstID:     firstID,
				DuplicateID: in.ID,
				Start:       start,
			})
			set.IncomingOnlyResources = append(set.IncomingOnlyResources, in)
			continue
		}
		seen[name] = in.ID

		if ex, ok := byName[name]; ok && !claimed[name] {
			claimed[name] = true
			set.ResourcePairs = append(set.ResourcePairs, ResourcePair{Existing: ex, Incoming: in})
			continue
		}
		set.IncomingOnlyResources = append(set.IncomingOnlyResources, in)
	}

	for i := range existing {
		ex := &existing[i]
		name := ex.NormalizedName()
		if claimed[name] && byName[name] == ex {
			continue
		}
		set.ExistingOnlyResources = append(set.ExistingOnlyResources, ex)
	}
}

func matchPhases(existing, incoming []project.Phase, set *MatchSet) {
	byName := make(map[string]*project.Phase, len(existing))
	claimed := make(map[string]bool, len(existing))
	for i := range existing {
		name := existing[i].NormalizedName()
		if _, ok := byName[name]; !ok {
			byName[name] = &existing[i]
		}
	}

	seen := make(map[string]string, len(incoming))
	for i := range incoming {
		in := &incoming[i]
		name := in.NormalizedName()

		if firstID, dup := seen[name]; dup {
			set.SelfCollisions = append(set.SelfCollisions, SelfCollision{
				Type:        project.EntityTypePhase,
				Name:        in.Name,
				FirstID:     firstID,
				DuplicateID: in.ID,
				Start:       in.Range.Start,
			})
			set.IncomingOnlyPhases = append(set.IncomingOnlyPhases, in)
			continue
		}
		seen[name] = in.ID

		if ex, ok := byName[name]; ok && !claimed[name] {
			claimed[name] = true
			set.PhasePairs = append(set.PhasePairs, PhasePair{Existing: ex, Incoming: in})
			continue
		}
		set.IncomingOnlyPhases = append(set.IncomingOnlyPhases, in)
	}

	for i := range existing {
		ex := &existing[i]
		name := ex.NormalizedName()
		if claimed[name] && byName[name] == ex {
			continue
		}
		set.ExistingOnlyPhases = append(set.ExistingOnlyPhases, ex)
	}
}

func matchTasks(existing, incoming []project.Task, set *MatchSet) {
	byName := make(map[string]*project.Task, len(existing))
	claimed := make(map[string]bool, len(existing))
	for i := range existing {
		name := existing[i].NormalizedName()
		if _, ok := byName[name]; !ok {
			byName[name] = &existing[i]
		}
	}

	seen := make(map[string]string, len(incoming))
	for i := range incoming {
		in := &incoming[i]
		name := in.NormalizedName()

		if firstID, dup := seen[name]; dup {
			set.SelfCollisions = append(set.SelfCollisions, SelfCollision{
				Type:        project.EntityTypeTask,
				Name:        in.Name,
				FirstID:     firstID,
				DuplicateID: in.ID,
				Start:       in.Range.Start,
			})
			set.IncomingOnlyTasks = append(set.IncomingOnlyTasks, in)
			continue
		}
		seen[name] = in.ID

		if ex, ok := byName[name]; ok && !claimed[name] {
			claimed[name] = true
			set.TaskPairs = append(set.TaskPairs, TaskPair{Existing: ex, Incoming: in})
			continue
		}
		set.IncomingOnlyTasks = append(set.IncomingOnlyTasks, in)
	}

	for i := range existing {
		ex := &existing[i]
		name := ex.NormalizedName()
		if claimed[name] && byName[name] == ex {
			continue
		}
		set.ExistingOnlyTasks = append(set.ExistingOnlyTasks, ex)
	}
}
