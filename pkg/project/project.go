package project

import (
	"sync"

	"github.com/planstack/importsync/pkg/errors"
)

// Project is the storage contract the reconciliation engine works against.
// Reads hand out deep copies; Commit replaces the whole contents in one
// atomic swap, which is what the apply gate builds on.
type Project interface {
	// Resources returns the resource collection.
	Resources() *Resources

	// Phases returns the phase collection.
	Phases() *Phases

	// Tasks returns the task collection.
	Tasks() *Tasks

	// Snapshot returns a deterministic, sorted deep copy of the contents.
	Snapshot() *Snapshot

	// Commit atomically replaces the project contents with the snapshot.
	// Either the whole snapshot lands or nothing changes.
	Commit(s *Snapshot) error

	// Copy returns an independent deep copy of the project.
	Copy() (Project, error)
}

// memory is the in-memory Project implementation.
type memory struct {
	mu        sync.RWMutex // guards the collection pointers across Commit swaps
	resources *Resources
	phases    *Phases
	tasks     *Tasks
	readOnly  bool
}

// Option configures a Project.
type Option func(*memory) error

// WithSnapshot seeds the project with the snapshot's contents.
func WithSnapshot(s *Snapshot) Option {
	return func(m *memory) error {
		if s == nil {
			return errors.NewValidationError("snapshot", nil, "snapshot cannot be nil")
		}
		return m.load(s)
	}
}

// WithReadOnly makes the project reject Commit.
func WithReadOnly(readOnly bool) Option {
	return func(m *memory) error {
		m.readOnly = readOnly
		return nil
	}
}

// New creates an in-memory project.
func New(opts ...Option) (Project, error) {
	m := &memory{
		resources: NewResources(),
		phases:    NewPhases(),
		tasks:     NewTasks(),
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Resources returns the resource collection.
func (m *memory) Resources() *Resources {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.resources
}

// Phases returns the phase collection.
func (m *memory) Phases() *Phases {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.phases
}

// Tasks returns the task collection.
func (m *memory) Tasks() *Tasks {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tasks
}

// Snapshot returns a deterministic, sorted deep copy of the contents.
func (m *memory) Snapshot() *Snapshot {
	s := &Snapshot{}

	m.Resources().ForEach(func(_ string, r *Resource) bool {
		rc := *r
		rc.Assignments = append([]Assignment(nil), r.Assignments...)
		s.Resources = append(s.Resources, rc)
		return true
	})
	m.Phases().ForEach(func(_ string, p *Phase) bool {
		pc := *p
		pc.TaskIDs = append([]string(nil), p.TaskIDs...)
		s.Phases = append(s.Phases, pc)
		return true
	})
	m.Tasks().ForEach(func(_ string, t *Task) bool {
		tc := *t
		tc.DependencyIDs = append([]string(nil), t.DependencyIDs...)
		s.Tasks = append(s.Tasks, tc)
		return true
	})

	s.Sort()
	return s
}

// Commit atomically replaces the project contents with the snapshot.
// The replacement collections are fully staged before the swap, so a
// failure while staging leaves the project untouched.
func (m *memory) Commit(s *Snapshot) error {
	if m.readOnly {
		return errors.ErrReadOnly
	}
	if s == nil {
		return errors.NewValidationError("snapshot", nil, "snapshot cannot be nil")
	}

	staged := &memory{
		resources: NewResources(),
		phases:    NewPhases(),
		tasks:     NewTasks(),
	}
	if err := staged.load(s); err != nil {
		return err
	}

	m.mu.Lock()
	m.resources = staged.resources
	m.phases = staged.phases
	m.tasks = staged.tasks
	m.mu.Unlock()

	return nil
}

// Copy returns an independent deep copy of the project.
func (m *memory) Copy() (Project, error) {
	return New(WithSnapshot(m.Snapshot()))
}

// load populates the collections from a snapshot, copying every entity.
// Duplicate IDs within the snapshot are rejected.
func (m *memory) load(s *Snapshot) error {
	for i := range s.Resources {
		rc := s.Resources[i]
		rc.Assignments = append([]Assignment(nil), rc.Assignments...)
		if err := m.resources.Add(&rc); err != nil {
			return errors.WrapCommit("insert", "resource", rc.ID, err)
		}
	}
	for i := range s.Phases {
		pc := s.Phases[i]
		pc.TaskIDs = append([]string(nil), pc.TaskIDs...)
		if err := m.phases.Add(&pc); err != nil {
			return errors.WrapCommit("insert", "phase", pc.ID, err)
		}
	}
	for i := range s.Tasks {
		tc := s.Tasks[i]
		tc.DependencyIDs = append([]string(nil), tc.DependencyIDs...)
		if err := m.tasks.Add(&tc); err != nil {
			return errors.WrapCommit("insert", "task", tc.ID, err)
		}
	}
	return nil
}
