package reconcile_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planstack/importsync/pkg/errors"
	"github.com/planstack/importsync/pkg/project"
	"github.com/planstack/importsync/pkg/reconcile"
)

func seedProject(t *testing.T, s *project.Snapshot) project.Project {
	t.Helper()
	p, err := project.New(project.WithSnapshot(s))
	require.NoError(t, err)
	return p
}

func mergePlan(t *testing.T, existing, incoming *project.Snapshot) *reconcile.Plan {
	t.Helper()
	result := reconcile.NewDetector().Detect(existing, incoming)
	return reconcile.NewPlanner().BuildPlan(result, existing, incoming,
		reconcile.Resolution{Strategy: reconcile.StrategyMerge})
}

func TestApplyRefresh(t *testing.T) {
	existing := &project.Snapshot{
		Phases: []project.Phase{
			phase("p1", "Realize", span(1, 15)),
		},
		Tasks: []project.Task{
			task("t1", "Implementation", "p1", span(10, 15)),
		},
	}
	incoming := &project.Snapshot{
		Phases: []project.Phase{
			phase("q1", "Deploy", span(16, 25)),
		},
	}

	proj := seedProject(t, existing)
	result := reconcile.NewDetector().Detect(existing, incoming)
	plan := reconcile.NewPlanner().BuildPlan(result, existing, incoming,
		reconcile.Resolution{Strategy: reconcile.StrategyRefresh})

	applied, err := reconcile.NewGate().Apply(context.Background(), proj, plan)
	require.NoError(t, err)

	assert.Equal(t, 1, applied.Deleted[project.EntityTypePhase])
	assert.Equal(t, 1, applied.Deleted[project.EntityTypeTask])
	assert.Equal(t, 1, applied.Inserted[project.EntityTypePhase])

	s := proj.Snapshot()
	require.Len(t, s.Phases, 1)
	assert.Equal(t, "q1", s.Phases[0].ID)
	assert.Empty(t, s.Tasks)
}

func TestApplyMergeKeepsBothSidesUnique(t *testing.T) {
	existing := &project.Snapshot{
		Phases: []project.Phase{
			phase("p1", "Realize", span(1, 15)),
		},
	}
	incoming := &project.Snapshot{
		Phases: []project.Phase{
			phase("q1", "Realize", span(5, 18)),
		},
	}

	proj := seedProject(t, existing)
	plan := mergePlan(t, existing, incoming)

	applied, err := reconcile.NewGate().Apply(context.Background(), proj, plan)
	require.NoError(t, err)
	assert.Equal(t, 1, applied.Renamed[project.EntityTypePhase])

	s := proj.Snapshot()
	require.Len(t, s.Phases, 2)

	names := map[string]bool{}
	for _, p := range s.Phases {
		names[project.NormalizeName(p.Name)] = true
	}
	assert.Len(t, names, 2, "no duplicate normalized names after merge")
}

func TestApplyCanceledContextTouchesNothing(t *testing.T) {
	existing := &project.Snapshot{
		Phases: []project.Phase{
			phase("p1", "Realize", span(1, 15)),
		},
	}
	incoming := &project.Snapshot{
		Phases: []project.Phase{
			phase("q1", "Deploy", span(16, 25)),
		},
	}

	proj := seedProject(t, existing)
	plan := mergePlan(t, existing, incoming)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := reconcile.NewGate().Apply(ctx, proj, plan)
	require.Error(t, err)
	assert.True(t, errors.IsCanceled(err))

	s := proj.Snapshot()
	require.Len(t, s.Phases, 1)
	assert.Equal(t, "p1", s.Phases[0].ID)
}

func TestApplyMissingDeleteIDFailsAtomically(t *testing.T) {
	existing := &project.Snapshot{
		Phases: []project.Phase{
			phase("p1", "Realize", span(1, 15)),
		},
	}

	proj := seedProject(t, existing)
	plan := &reconcile.Plan{
		Strategy:       reconcile.StrategyRefresh,
		DeletePhaseIDs: []string{"p1", "ghost"},
		InsertPhases:   []project.Phase{phase("q1", "Deploy", span(16, 25))},
	}

	_, err := reconcile.NewGate().Apply(context.Background(), proj, plan)
	require.Error(t, err)
	assert.True(t, errors.IsCommitFailed(err))
	assert.True(t, errors.IsNotFound(err))

	// Nothing was applied, including the valid parts of the plan.
	s := proj.Snapshot()
	require.Len(t, s.Phases, 1)
	assert.Equal(t, "p1", s.Phases[0].ID)
}

func TestApplyDuplicateInsertIDFailsAtomically(t *testing.T) {
	existing := &project.Snapshot{
		Tasks: []project.Task{
			task("t1", "Implementation", "p1", span(10, 15)),
		},
	}

	proj := seedProject(t, existing)
	plan := &reconcile.Plan{
		Strategy:    reconcile.StrategyMerge,
		InsertTasks: []project.Task{task("t1", "Other Work", "p1", span(16, 20))},
	}

	_, err := reconcile.NewGate().Apply(context.Background(), proj, plan)
	require.Error(t, err)
	assert.True(t, errors.IsCommitFailed(err))
	assert.True(t, errors.IsAlreadyExists(err))

	s := proj.Snapshot()
	require.Len(t, s.Tasks, 1)
	assert.Equal(t, "Implementation", s.Tasks[0].Name)
}

func TestApplyVerifiesNameUniqueness(t *testing.T) {
	existing := &project.Snapshot{
		Tasks: []project.Task{
			task("t1", "Implementation", "p1", span(10, 15)),
		},
	}

	// A hand-built plan that would create a duplicate normalized name is
	// rejected before commit.
	proj := seedProject(t, existing)
	plan := &reconcile.Plan{
		Strategy:    reconcile.StrategyMerge,
		InsertTasks: []project.Task{task("u1", "  implementation ", "q1", span(16, 20))},
	}

	_, err := reconcile.NewGate().Apply(context.Background(), proj, plan)
	require.Error(t, err)
	assert.True(t, errors.IsCommitFailed(err))

	s := proj.Snapshot()
	require.Len(t, s.Tasks, 1)
}

func TestApplyReadOnlyProject(t *testing.T) {
	existing := &project.Snapshot{
		Phases: []project.Phase{
			phase("p1", "Realize", span(1, 15)),
		},
	}
	proj, err := project.New(project.WithSnapshot(existing), project.WithReadOnly(true))
	require.NoError(t, err)

	plan := &reconcile.Plan{
		Strategy:     reconcile.StrategyMerge,
		InsertPhases: []project.Phase{phase("q1", "Deploy", span(16, 25))},
	}

	_, err = reconcile.NewGate().Apply(context.Background(), proj, plan)
	require.Error(t, err)
	assert.True(t, errors.IsCommitFailed(err))
}

func TestApplyNilPlan(t *testing.T) {
	proj := seedProject(t, &project.Snapshot{})

	_, err := reconcile.NewGate().Apply(context.Background(), proj, nil)
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestDetectPlanApplyEndToEnd(t *testing.T) {
	// Full pipeline: over-allocated resource, overlapping phase, colliding
	// task, all merged with renames, committed in one swap.
	existing := &project.Snapshot{
		Resources: []project.Resource{
			resource("r1", "Sarah Chen", assignment("t1", 60, span(10, 20))),
		},
		Phases: []project.Phase{
			phase("p1", "Realize", span(1, 25), "t1"),
		},
		Tasks: []project.Task{
			task("t1", "Implementation", "p1", span(10, 20)),
		},
	}
	incoming := &project.Snapshot{
		Resources: []project.Resource{
			resource("i1", "Sarah Chen", assignment("u1", 50, span(15, 25))),
		},
		Phases: []project.Phase{
			phase("q1", "Realize", span(5, 18), "u1"),
		},
		Tasks: []project.Task{
			task("u1", "Implementation", "q1", span(12, 18)),
		},
	}

	result := reconcile.NewDetector().Detect(existing, incoming)
	assert.True(t, result.HasErrors(), "110% allocation is an error")

	plan := reconcile.NewPlanner().BuildPlan(result, existing, incoming,
		reconcile.Resolution{Strategy: reconcile.StrategyMerge})

	proj := seedProject(t, existing)
	applied, err := reconcile.NewGate().Apply(context.Background(), proj, plan)
	require.NoError(t, err)
	assert.Equal(t, 1, applied.Renamed[project.EntityTypeResource])

	s := proj.Snapshot()
	assert.Len(t, s.Resources, 2)
	assert.Len(t, s.Phases, 2)
	assert.Len(t, s.Tasks, 2)

	seen := map[string]bool{}
	for _, r := range s.Resources {
		key := "resource:" + project.NormalizeName(r.Name)
		assert.False(t, seen[key])
		seen[key] = true
	}
	for _, p := range s.Phases {
		key := "phase:" + project.NormalizeName(p.Name)
		assert.False(t, seen[key])
		seen[key] = true
	}
	for _, tk := range s.Tasks {
		key := "task:" + project.NormalizeName(tk.Name)
		assert.False(t, seen[key])
		seen[key] = true
	}
}
