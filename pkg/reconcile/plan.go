package reconcile

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/planstack/importsync/pkg/errors"
	"github.com/planstack/importsync/pkg/logging"
	"github.com/planstack/importsync/pkg/project"
)

// Strategy selects how a conflict set is resolved.
type Strategy string

// Resolution strategies.
const (
	// StrategyRefresh discards all existing entities of the affected types
	// and replaces them wholesale with the incoming set.
	StrategyRefresh Strategy = "refresh"

	// StrategyMerge keeps all existing entities and adds all incoming
	// ones, renaming any that would otherwise collide.
	StrategyMerge Strategy = "merge"
)

// String returns the string representation of a strategy.
func (s Strategy) String() string {
	return string(s)
}

// ParseStrategy converts a string into a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyRefresh:
		return StrategyRefresh, nil
	case StrategyMerge:
		return StrategyMerge, nil
	default:
		return "", errors.NewValidationError("strategy", s, "must be refresh or merge")
	}
}

// Resolution is the user decision collected after the conflict list has
// been reviewed: the chosen strategy plus optional replacement names keyed
// by conflict ID (merge only).
type Resolution struct {
	Strategy    Strategy          `json:"strategy" yaml:"strategy"`
	CustomNames map[string]string `json:"custom_names,omitempty" yaml:"custom_names,omitempty"`
}

// Rename records one renamed incoming entity in a merge plan.
type Rename struct {
	Type       project.EntityType
	EntityID   string // incoming entity ID
	ConflictID string // conflict that triggered the rename
	From       string
	To         string
	Custom     bool // true when the user-supplied name was used
}

// RejectedName records a user-supplied replacement name the planner could
// not honor. The deterministic default was substituted; the rejection is
// surfaced here, never dropped silently.
type RejectedName struct {
	ConflictID string
	Name       string
	Reason     string
}

// Plan is the concrete mutation set a strategy produces. Only the apply
// gate turns a plan into storage mutations.
type Plan struct {
	Strategy Strategy

	DeleteResourceIDs []string
	DeletePhaseIDs    []string
	DeleteTaskIDs     []string

	InsertResources []project.Resource
	InsertPhases    []project.Phase
	InsertTasks     []project.Task

	Renames       []Rename
	RejectedNames []RejectedName
}

// Deletes returns the number of deletions per entity type.
func (p *Plan) Deletes() map[project.EntityType]int {
	return map[project.EntityType]int{
		project.EntityTypeResource: len(p.DeleteResourceIDs),
		project.EntityTypePhase:    len(p.DeletePhaseIDs),
		project.EntityTypeTask:     len(p.DeleteTaskIDs),
	}
}

// Inserts returns the number of insertions per entity type.
func (p *Plan) Inserts() map[project.EntityType]int {
	return map[project.EntityType]int{
		project.EntityTypeResource: len(p.InsertResources),
		project.EntityTypePhase:    len(p.InsertPhases),
		project.EntityTypeTask:     len(p.InsertTasks),
	}
}

// String returns a one-line summary of the plan.
func (p *Plan) String() string {
	deletes := len(p.DeleteResourceIDs) + len(p.DeletePhaseIDs) + len(p.DeleteTaskIDs)
	inserts := len(p.InsertResources) + len(p.InsertPhases) + len(p.InsertTasks)
	return fmt.Sprintf("%s plan: %d deletes, %d inserts, %d renames (%d custom names rejected)",
		p.Strategy, deletes, inserts, len(p.Renames), len(p.RejectedNames))
}

// Planner turns a detection result and a user decision into a mutation
// plan. Planning is pure and idempotent; recoverable problems (such as a
// rejected custom name) are flagged in the plan, never returned as errors.
type Planner struct {
	logger *zerolog.Logger
}

// PlannerOption configures a Planner.
type PlannerOption func(*Planner)

// WithPlannerLogger sets the logger used for rejected-name reporting.
func WithPlannerLogger(logger *zerolog.Logger) PlannerOption {
	return func(p *Planner) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPlanner creates a Planner.
func NewPlanner(opts ...PlannerOption) *Planner {
	p := &Planner{
		logger: logging.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// BuildPlan produces the mutation plan for the chosen strategy.
//
// Refresh deletes every existing entity and inserts the incoming set
// verbatim; it does not require the conflict list to be non-empty.
// Merge inserts the incoming set and renames every incoming entity that
// participated in a conflict or self-collision; existing entities are
// never touched. Under both strategies, no two entities of one type share
// a normalized name after application.
func (p *Planner) BuildPlan(result *Result, existing, incoming *project.Snapshot, res Resolution) *Plan {
	ex := existing.Copy()
	in := incoming.Copy()
	ex.Sort()
	in.Sort()

	switch res.Strategy {
	case StrategyRefresh:
		return p.buildRefresh(ex, in)
	default:
		return p.buildMerge(result, ex, in, res)
	}
}

// buildRefresh deletes all existing entities and inserts all incoming
// entities verbatim, with no renaming.
func (p *Planner) buildRefresh(existing, incoming *project.Snapshot) *Plan {
	plan := &Plan{Strategy: StrategyRefresh}

	for i := range existing.Resources {
		plan.DeleteResourceIDs = append(plan.DeleteResourceIDs, existing.Resources[i].ID)
	}
	for i := range existing.Phases {
		plan.DeletePhaseIDs = append(plan.DeletePhaseIDs, existing.Phases[i].ID)
	}
	for i := range existing.Tasks {
		plan.DeleteTaskIDs = append(plan.DeleteTaskIDs, existing.Tasks[i].ID)
	}

	plan.InsertResources = append(plan.InsertResources, incoming.Resources...)
	plan.InsertPhases = append(plan.InsertPhases, incoming.Phases...)
	plan.InsertTasks = append(plan.InsertTasks, incoming.Tasks...)

	return plan
}

// buildMerge inserts all incoming entities, renaming conflict
// participants. Already-claimed normalized names accumulate in a set as
// the plan is built, keeping the rename search linear under many
// collisions.
func (p *Planner) buildMerge(result *Result, existing, incoming *project.Snapshot, res Resolution) *Plan {
	plan := &Plan{Strategy: StrategyMerge}

	conflicted := conflictsByIncomingID(result)

	ledgers := map[project.EntityType]*nameLedger{
		project.EntityTypeResource: newNameLedger(existing, incoming, project.EntityTypeResource, conflicted),
		project.EntityTypePhase:    newNameLedger(existing, incoming, project.EntityTypePhase, conflicted),
		project.EntityTypeTask:     newNameLedger(existing, incoming, project.EntityTypeTask, conflicted),
	}

	for i := range incoming.Resources {
		r := incoming.Resources[i]
		ledger := ledgers[project.EntityTypeResource]
		if conflictID, rename := ledger.needsRename(r.ID); rename {
			r.Name = p.rename(plan, project.EntityTypeResource, r.ID, conflictID, r.Name,
				ledger.claimed, res.CustomNames)
		}
		plan.InsertResources = append(plan.InsertResources, r)
	}
	for i := range incoming.Phases {
		ph := incoming.Phases[i]
		ledger := ledgers[project.EntityTypePhase]
		if conflictID, rename := ledger.needsRename(ph.ID); rename {
			ph.Name = p.rename(plan, project.EntityTypePhase, ph.ID, conflictID, ph.Name,
				ledger.claimed, res.CustomNames)
		}
		plan.InsertPhases = append(plan.InsertPhases, ph)
	}
	for i := range incoming.Tasks {
		t := incoming.Tasks[i]
		ledger := ledgers[project.EntityTypeTask]
		if conflictID, rename := ledger.needsRename(t.ID); rename {
			t.Name = p.rename(plan, project.EntityTypeTask, t.ID, conflictID, t.Name,
				ledger.claimed, res.CustomNames)
		}
		plan.InsertTasks = append(plan.InsertTasks, t)
	}

	return plan
}

// rename picks the replacement name for a conflicted incoming entity: the
// validated custom name when one was supplied, otherwise the first free
// "{name} (n)" starting at n=2. The chosen name is claimed in the set.
func (p *Planner) rename(plan *Plan, t project.EntityType, entityID, conflictID, name string,
	claimed map[string]bool, customNames map[string]string) string {

	base := strings.TrimSpace(name)

	if custom, ok := customNames[conflictID]; ok {
		trimmed := strings.TrimSpace(custom)
		normalized := project.NormalizeName(custom)

		switch {
		case trimmed == "":
			p.rejectName(plan, conflictID, custom, "empty after trimming")
		case claimed[normalized]:
			p.rejectName(plan, conflictID, custom, "normalized form already claimed")
		default:
			claimed[normalized] = true
			plan.Renames = append(plan.Renames, Rename{
				Type:       t,
				EntityID:   entityID,
				ConflictID: conflictID,
				From:       name,
				To:         trimmed,
				Custom:     true,
			})
			return trimmed
		}
	}

	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s (%d)", base, n)
		normalized := project.NormalizeName(candidate)
		if claimed[normalized] {
			continue
		}
		claimed[normalized] = true
		plan.Renames = append(plan.Renames, Rename{
			Type:       t,
			EntityID:   entityID,
			ConflictID: conflictID,
			From:       name,
			To:         candidate,
		})
		return candidate
	}
}

// rejectName records a rejected custom name in the plan and logs it.
func (p *Planner) rejectName(plan *Plan, conflictID, name, reason string) {
	plan.RejectedNames = append(plan.RejectedNames, RejectedName{
		ConflictID: conflictID,
		Name:       name,
		Reason:     reason,
	})
	rejected := errors.NewAmbiguousNameError(conflictID, name, reason)
	p.logger.Warn().Err(rejected).Msg("Falling back to default rename")
}

// conflictsByIncomingID indexes, per entity type, the incoming entities
// that participated in a conflict or self-collision.
func conflictsByIncomingID(result *Result) map[project.EntityType]map[string]string {
	index := map[project.EntityType]map[string]string{
		project.EntityTypeResource: {},
		project.EntityTypePhase:    {},
		project.EntityTypeTask:     {},
	}
	if result == nil {
		return index
	}
	for _, c := range result.Conflicts {
		byID := index[c.EntityType()]
		if _, ok := byID[c.IncomingID()]; !ok {
			byID[c.IncomingID()] = c.ID()
		}
	}
	return index
}

// nameLedger tracks, for one entity type, the normalized names already
// claimed by the merged result and which incoming entities must be
// renamed. Conflict participants are always renamed; so are matched
// entities whose pair produced no conflict (disjoint ranges), since the
// uniqueness postcondition still applies to them.
type nameLedger struct {
	claimed   map[string]bool
	conflicts map[string]string // incoming ID -> conflict ID
	collides  map[string]bool   // incoming ID -> name already taken by an existing entity
}

// needsRename reports whether the incoming entity must be renamed, and
// the triggering conflict ID when one exists.
func (l *nameLedger) needsRename(incomingID string) (string, bool) {
	if conflictID, ok := l.conflicts[incomingID]; ok {
		return conflictID, true
	}
	return "", l.collides[incomingID]
}

// newNameLedger seeds the claimed-name set for one entity type: every
// existing name (merge keeps them all) plus every incoming name that
// keeps its name, so default renames can never collide with either.
func newNameLedger(existing, incoming *project.Snapshot, t project.EntityType,
	conflicted map[project.EntityType]map[string]string) *nameLedger {

	ledger := &nameLedger{
		claimed:   make(map[string]bool),
		conflicts: conflicted[t],
		collides:  make(map[string]bool),
	}

	forEachName := func(s *project.Snapshot, fn func(id, name string)) {
		switch t {
		case project.EntityTypeResource:
			for i := range s.Resources {
				fn(s.Resources[i].ID, s.Resources[i].Name)
			}
		case project.EntityTypePhase:
			for i := range s.Phases {
				fn(s.Phases[i].ID, s.Phases[i].Name)
			}
		case project.EntityTypeTask:
			for i := range s.Tasks {
				fn(s.Tasks[i].ID, s.Tasks[i].Name)
			}
		}
	}

	forEachName(existing, func(_, name string) {
		ledger.claimed[project.NormalizeName(name)] = true
	})
	forEachName(incoming, func(id, name string) {
		if _, ok := ledger.conflicts[id]; ok {
			return
		}
		normalized := project.NormalizeName(name)
		if ledger.claimed[normalized] {
			ledger.collides[id] = true
			return
		}
		ledger.claimed[normalized] = true
	})

	return ledger
}
