package reconcile

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/planstack/importsync/pkg/errors"
	"github.com/planstack/importsync/pkg/logging"
	"github.com/planstack/importsync/pkg/project"
)

// ApplyResult reports what an applied plan changed, per entity type.
type ApplyResult struct {
	Strategy Strategy

	Deleted  map[project.EntityType]int
	Inserted map[project.EntityType]int
	Renamed  map[project.EntityType]int
}

// String returns a one-line summary of the applied changes.
func (r *ApplyResult) String() string {
	var deleted, inserted, renamed int
	for _, t := range project.EntityTypes() {
		deleted += r.Deleted[t]
		inserted += r.Inserted[t]
		renamed += r.Renamed[t]
	}
	return fmt.Sprintf("applied %s plan: %d deleted, %d inserted, %d renamed",
		r.Strategy, deleted, inserted, renamed)
}

// Gate applies a plan to a project all-or-nothing. The full post-apply
// contents are staged on a copy of the project snapshot; only a staged
// result that passes verification is committed, in one atomic swap. Any
// failure leaves the project exactly as it was.
type Gate struct {
	logger *zerolog.Logger
}

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithGateLogger sets the logger used for apply reporting.
func WithGateLogger(logger *zerolog.Logger) GateOption {
	return func(g *Gate) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGate creates a Gate.
func NewGate(opts ...GateOption) *Gate {
	g := &Gate{
		logger: logging.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Apply stages the plan's deletions and insertions against a copy of the
// project contents and commits the staged result atomically. Cancellation
// is honored before commit begins; once the swap happens the apply is
// complete and will not be undone.
func (g *Gate) Apply(ctx context.Context, proj project.Project, plan *Plan) (*ApplyResult, error) {
	if proj == nil {
		return nil, errors.NewValidationError("project", nil, "project cannot be nil")
	}
	if plan == nil {
		return nil, errors.NewValidationError("plan", nil, "plan cannot be nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrCanceled, err)
	}

	staged := proj.Snapshot()

	if err := applyDeletes(staged, plan); err != nil {
		return nil, err
	}
	if err := applyInserts(staged, plan); err != nil {
		return nil, err
	}
	if err := verifyUniqueNames(staged); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrCanceled, err)
	}

	if err := proj.Commit(staged); err != nil {
		if errors.IsCommitFailed(err) {
			return nil, err
		}
		return nil, errors.WrapCommit("swap", "", "", err)
	}

	result := &ApplyResult{
		Strategy: plan.Strategy,
		Deleted:  plan.Deletes(),
		Inserted: plan.Inserts(),
		Renamed:  make(map[project.EntityType]int),
	}
	for _, rn := range plan.Renames {
		result.Renamed[rn.Type]++
	}

	g.logger.Info().
		Str("strategy", plan.Strategy.String()).
		Int("deleted", len(plan.DeleteResourceIDs)+len(plan.DeletePhaseIDs)+len(plan.DeleteTaskIDs)).
		Int("inserted", len(plan.InsertResources)+len(plan.InsertPhases)+len(plan.InsertTasks)).
		Int("renamed", len(plan.Renames)).
		Msg("Applied import plan")

	return result, nil
}

// applyDeletes removes the plan's deletions from the staged snapshot. A
// missing ID fails the whole apply: the plan was built against different
// contents than the project now holds.
func applyDeletes(staged *project.Snapshot, plan *Plan) error {
	var err error
	staged.Resources, err = deleteResources(staged.Resources, plan.DeleteResourceIDs)
	if err != nil {
		return err
	}
	staged.Phases, err = deletePhases(staged.Phases, plan.DeletePhaseIDs)
	if err != nil {
		return err
	}
	staged.Tasks, err = deleteTasks(staged.Tasks, plan.DeleteTaskIDs)
	return err
}

func deleteResources(existing []project.Resource, ids []string) ([]project.Resource, error) {
	if len(ids) == 0 {
		return existing, nil
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := existing[:0]
	for i := range existing {
		if drop[existing[i].ID] {
			delete(drop, existing[i].ID)
			continue
		}
		kept = append(kept, existing[i])
	}
	for id := range drop {
		return nil, errors.WrapCommit("delete", "resource", id, errors.ErrNotFound)
	}
	return kept, nil
}

func deletePhases(existing []project.Phase, ids []string) ([]project.Phase, error) {
	if len(ids) == 0 {
		return existing, nil
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := existing[:0]
	for i := range existing {
		if drop[existing[i].ID] {
			delete(drop, existing[i].ID)
			continue
		}
		kept = append(kept, existing[i])
	}
	for id := range drop {
		return nil, errors.WrapCommit("delete", "phase", id, errors.ErrNotFound)
	}
	return kept, nil
}

func deleteTasks(existing []project.Task, ids []string) ([]project.Task, error) {
	if len(ids) == 0 {
		return existing, nil
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := existing[:0]
	for i := range existing {
		if drop[existing[i].ID] {
			delete(drop, existing[i].ID)
			continue
		}
		kept = append(kept, existing[i])
	}
	for id := range drop {
		return nil, errors.WrapCommit("delete", "task", id, errors.ErrNotFound)
	}
	return kept, nil
}

// applyInserts adds the plan's insertions to the staged snapshot. An ID
// already present after deletions fails the whole apply.
func applyInserts(staged *project.Snapshot, plan *Plan) error {
	resourceIDs := make(map[string]bool, len(staged.Resources))
	for i := range staged.Resources {
		resourceIDs[staged.Resources[i].ID] = true
	}
	for i := range plan.InsertResources {
		r := plan.InsertResources[i]
		if resourceIDs[r.ID] {
			return errors.WrapCommit("insert", "resource", r.ID, errors.ErrAlreadyExists)
		}
		resourceIDs[r.ID] = true
		staged.Resources = append(staged.Resources, r)
	}

	phaseIDs := make(map[string]bool, len(staged.Phases))
	for i := range staged.Phases {
		phaseIDs[staged.Phases[i].ID] = true
	}
	for i := range plan.InsertPhases {
		p := plan.InsertPhases[i]
		if phaseIDs[p.ID] {
			return errors.WrapCommit("insert", "phase", p.ID, errors.ErrAlreadyExists)
		}
		phaseIDs[p.ID] = true
		staged.Phases = append(staged.Phases, p)
	}

	taskIDs := make(map[string]bool, len(staged.Tasks))
	for i := range staged.Tasks {
		taskIDs[staged.Tasks[i].ID] = true
	}
	for i := range plan.InsertTasks {
		t := plan.InsertTasks[i]
		if taskIDs[t.ID] {
			return errors.WrapCommit("insert", "task", t.ID, errors.ErrAlreadyExists)
		}
		taskIDs[t.ID] = true
		staged.Tasks = append(staged.Tasks, t)
	}

	return nil
}

// verifyUniqueNames checks the post-apply uniqueness postcondition: no two
// entities of one type share a normalized name. A violation means the plan
// was built against different contents than the project now holds.
func verifyUniqueNames(staged *project.Snapshot) error {
	names := make(map[string]string) // "type\x00name" -> first ID

	check := func(t project.EntityType, id, name string) error {
		key := string(t) + "\x00" + project.NormalizeName(name)
		if firstID, ok := names[key]; ok {
			return errors.WrapCommit("verify", string(t), id,
				fmt.Errorf("name %q already held by %s %s: %w", name, t, firstID, errors.ErrAlreadyExists))
		}
		names[key] = id
		return nil
	}

	for i := range staged.Resources {
		if err := check(project.EntityTypeResource, staged.Resources[i].ID, staged.Resources[i].Name); err != nil {
			return err
		}
	}
	for i := range staged.Phases {
		if err := check(project.EntityTypePhase, staged.Phases[i].ID, staged.Phases[i].Name); err != nil {
			return err
		}
	}
	for i := range staged.Tasks {
		if err := check(project.EntityTypeTask, staged.Tasks[i].ID, staged.Tasks[i].Name); err != nil {
			return err
		}
	}

	return nil
}
