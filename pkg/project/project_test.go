package project_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planstack/importsync/pkg/dates"
	"github.com/planstack/importsync/pkg/errors"
	"github.com/planstack/importsync/pkg/project"
)

func testRange(startDay, endDay int) dates.Range {
	return dates.Range{
		Start: dates.Date(2025, time.March, startDay),
		End:   dates.Date(2025, time.March, endDay),
	}
}

func testSnapshot() *project.Snapshot {
	return &project.Snapshot{
		Resources: []project.Resource{
			{
				ID:   "r1",
				Name: "Sarah Chen",
				Role: "engineer",
				Assignments: []project.Assignment{
					{TaskID: "t1", AllocationPercent: 60, Range: testRange(10, 20)},
				},
			},
		},
		Phases: []project.Phase{
			{ID: "p1", Name: "Realize", Range: testRange(1, 15), TaskIDs: []string{"t1"}},
		},
		Tasks: []project.Task{
			{ID: "t1", Name: "Implementation", PhaseID: "p1", Range: testRange(10, 20)},
		},
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Sarah Chen", "sarah chen"},
		{"  Sarah Chen  ", "sarah chen"},
		{"SARAH CHEN", "sarah chen"},
		{"Straße", "strasse"}, // case folding, not lowercasing
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, project.NormalizeName(tt.in), "input %q", tt.in)
	}
}

func TestSnapshotSort(t *testing.T) {
	s := &project.Snapshot{
		Phases: []project.Phase{
			{ID: "p2", Name: "Deploy", Range: testRange(16, 25)},
			{ID: "p1", Name: "Realize", Range: testRange(1, 15)},
			{ID: "p3", Name: "deploy", Range: testRange(16, 25)},
		},
	}
	s.Sort()

	assert.Equal(t, "p1", s.Phases[0].ID)
	// Same start date and normalized name fall back to ID order
	assert.Equal(t, "p2", s.Phases[1].ID)
	assert.Equal(t, "p3", s.Phases[2].ID)
}

func TestSnapshotSortUndatedResourcesLast(t *testing.T) {
	s := &project.Snapshot{
		Resources: []project.Resource{
			{ID: "r1", Name: "Unassigned Pool"},
			{
				ID:   "r2",
				Name: "Sarah Chen",
				Assignments: []project.Assignment{
					{TaskID: "t1", AllocationPercent: 50, Range: testRange(10, 20)},
				},
			},
		},
	}
	s.Sort()

	assert.Equal(t, "r2", s.Resources[0].ID)
	assert.Equal(t, "r1", s.Resources[1].ID)
}

func TestSnapshotCopy(t *testing.T) {
	s := testSnapshot()
	c := s.Copy()

	c.Resources[0].Name = "changed"
	c.Resources[0].Assignments[0].AllocationPercent = 99
	c.Phases[0].TaskIDs[0] = "changed"

	assert.Equal(t, "Sarah Chen", s.Resources[0].Name)
	assert.Equal(t, float64(60), s.Resources[0].Assignments[0].AllocationPercent)
	assert.Equal(t, "t1", s.Phases[0].TaskIDs[0])
}

func TestProjectNew(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		p, err := project.New()
		require.NoError(t, err)
		assert.True(t, p.Snapshot().IsEmpty())
	})

	t.Run("seeded from snapshot", func(t *testing.T) {
		p, err := project.New(project.WithSnapshot(testSnapshot()))
		require.NoError(t, err)

		assert.Equal(t, 1, p.Resources().Len())
		assert.Equal(t, 1, p.Phases().Len())
		assert.Equal(t, 1, p.Tasks().Len())

		r, ok := p.Resources().Get("r1")
		require.True(t, ok)
		assert.Equal(t, "Sarah Chen", r.Name)
	})

	t.Run("nil snapshot rejected", func(t *testing.T) {
		_, err := project.New(project.WithSnapshot(nil))
		require.Error(t, err)
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("duplicate IDs rejected", func(t *testing.T) {
		s := testSnapshot()
		s.Tasks = append(s.Tasks, project.Task{ID: "t1", Name: "Duplicate", PhaseID: "p1"})

		_, err := project.New(project.WithSnapshot(s))
		require.Error(t, err)
		assert.True(t, errors.IsCommitFailed(err))
	})
}

func TestProjectSnapshotIsDetached(t *testing.T) {
	p, err := project.New(project.WithSnapshot(testSnapshot()))
	require.NoError(t, err)

	s := p.Snapshot()
	s.Resources[0].Name = "changed"

	again := p.Snapshot()
	assert.Equal(t, "Sarah Chen", again.Resources[0].Name)
}

func TestProjectCommit(t *testing.T) {
	t.Run("replaces contents atomically", func(t *testing.T) {
		p, err := project.New(project.WithSnapshot(testSnapshot()))
		require.NoError(t, err)

		next := &project.Snapshot{
			Tasks: []project.Task{
				{ID: "t9", Name: "New Task", PhaseID: "p9", Range: testRange(1, 5)},
			},
		}
		require.NoError(t, p.Commit(next))

		assert.Equal(t, 0, p.Resources().Len())
		assert.Equal(t, 0, p.Phases().Len())
		assert.Equal(t, 1, p.Tasks().Len())
		assert.True(t, p.Tasks().Exists("t9"))
	})

	t.Run("staging failure leaves contents untouched", func(t *testing.T) {
		p, err := project.New(project.WithSnapshot(testSnapshot()))
		require.NoError(t, err)

		bad := &project.Snapshot{
			Tasks: []project.Task{
				{ID: "dup", Name: "One"},
				{ID: "dup", Name: "Two"},
			},
		}
		err = p.Commit(bad)
		require.Error(t, err)
		assert.True(t, errors.IsCommitFailed(err))

		// Pre-commit state is still authoritative
		assert.Equal(t, 1, p.Resources().Len())
		assert.True(t, p.Tasks().Exists("t1"))
	})

	t.Run("read-only project rejects commit", func(t *testing.T) {
		p, err := project.New(project.WithSnapshot(testSnapshot()), project.WithReadOnly(true))
		require.NoError(t, err)

		err = p.Commit(&project.Snapshot{})
		require.ErrorIs(t, err, errors.ErrReadOnly)
		assert.Equal(t, 1, p.Resources().Len())
	})
}

func TestProjectCopy(t *testing.T) {
	p, err := project.New(project.WithSnapshot(testSnapshot()))
	require.NoError(t, err)

	c, err := p.Copy()
	require.NoError(t, err)

	require.NoError(t, c.Commit(&project.Snapshot{}))
	assert.True(t, c.Snapshot().IsEmpty())
	assert.Equal(t, 1, p.Resources().Len())
}

func TestProjectConcurrentAccess(t *testing.T) {
	p, err := project.New(project.WithSnapshot(testSnapshot()))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			s := p.Snapshot()
			_ = s.Counts()
		}(i)
		go func(n int) {
			defer wg.Done()
			next := &project.Snapshot{
				Tasks: []project.Task{
					{ID: fmt.Sprintf("t%d", n), Name: fmt.Sprintf("Task %d", n)},
				},
			}
			_ = p.Commit(next)
		}(i)
	}
	wg.Wait()

	// Whichever commit landed last, the store holds exactly one task.
	assert.Equal(t, 1, p.Tasks().Len())
}
