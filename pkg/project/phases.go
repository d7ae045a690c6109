package project

import (
	"fmt"
	"maps"
	"sync"
)

// Phases is a concurrent safe map of phases keyed by ID.
type Phases struct {
	mu     sync.RWMutex
	phases map[string]*Phase
}

// NewPhases creates a new Phases map.
func NewPhases() *Phases {
	return &Phases{
		phases: make(map[string]*Phase),
	}
}

// Get returns a phase by id and whether it exists.
func (p *Phases) Get(id string) (*Phase, bool) {
	p.mu.RLock()
	phase, ok := p.phases[id]
	p.mu.RUnlock()
	return phase, ok
}

// Set sets a phase by id. Returns an error if phase is nil.
func (p *Phases) Set(id string, phase *Phase) error {
	if phase == nil {
		return fmt.Errorf("phase cannot be nil")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.phases[id] = phase
	return nil
}

// Add adds a phase, returning an error if it already exists.
func (p *Phases) Add(phase *Phase) error {
	if phase == nil {
		return fmt.Errorf("phase cannot be nil")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.phases[phase.ID]; exists {
		return fmt.Errorf("phase with ID %s already exists", phase.ID)
	}

	p.phases[phase.ID] = phase
	return nil
}

// Delete removes a phase by id. Returns an error if the phase doesn't exist.
func (p *Phases) Delete(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.phases[id]; !exists {
		return fmt.Errorf("phase with ID %s not found", id)
	}

	delete(p.phases, id)
	return nil
}

// Exists checks if a phase exists without returning it.
func (p *Phases) Exists(id string) bool {
	p.mu.RLock()
	_, exists := p.phases[id]
	p.mu.RUnlock()
	return exists
}

// Len returns the number of phases.
func (p *Phases) Len() int {
	p.mu.RLock()
	length := len(p.phases)
	p.mu.RUnlock()
	return length
}

// List returns a slice of all phases.
func (p *Phases) List() []*Phase {
	p.mu.RLock()
	phases := make([]*Phase, 0, len(p.phases))
	for _, phase := range p.phases {
		phases = append(phases, phase)
	}
	p.mu.RUnlock()
	return phases
}

// Map returns a copy of all phases.
func (p *Phases) Map() map[string]*Phase {
	p.mu.RLock()
	defer p.mu.RUnlock()

	result := make(map[string]*Phase, len(p.phases))
	maps.Copy(result, p.phases)
	return result
}

// ForEach applies a function to each phase. The function should not modify
// the phase. If the function returns false, iteration stops early.
func (p *Phases) ForEach(fn func(id string, phase *Phase) bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for id, phase := range p.phases {
		if !fn(id, phase) {
			break
		}
	}
}

// Clear removes all phases.
func (p *Phases) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for k := range p.phases {
		delete(p.phases, k)
	}
}
