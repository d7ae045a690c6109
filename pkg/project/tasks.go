package project

import (
	"fmt"
	"maps"
	"sync"
)

// Tasks is a concurrent safe map of tasks keyed by ID.
type Tasks struct {
	mu    sync.RWMutex
	tasks map[string]*Task
}

// NewTasks creates a new Tasks map.
func NewTasks() *Tasks {
	return &Tasks{
		tasks: make(map[string]*Task),
	}
}

// Get returns a task by id and whether it exists.
func (t *Tasks) Get(id string) (*Task, bool) {
	t.mu.RLock()
	task, ok := t.tasks[id]
	t.mu.RUnlock()
	return task, ok
}

// Set sets a task by id. Returns an error if task is nil.
func (t *Tasks) Set(id string, task *Task) error {
	if task == nil {
		return fmt.Errorf("task cannot be nil")
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.tasks[id] = task
	return nil
}

// Add adds a task, returning an error if it already exists.
func (t *Tasks) Add(task *Task) error {
	if task == nil {
		return fmt.Errorf("task cannot be nil")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.tasks[task.ID]; exists {
		return fmt.Errorf("task with ID %s already exists", task.ID)
	}

	t.tasks[task.ID] = task
	return nil
}

// Delete removes a task by id. Returns an error if the task doesn't exist.
func (t *Tasks) Delete(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.tasks[id]; !exists {
		return fmt.Errorf("task with ID %s not found", id)
	}

	delete(t.tasks, id)
	return nil
}

// Exists checks if a task exists without returning it.
func (t *Tasks) Exists(id string) bool {
	t.mu.RLock()
	_, exists := t.tasks[id]
	t.mu.RUnlock()
	return exists
}

// Len returns the number of tasks.
func (t *Tasks) Len() int {
	t.mu.RLock()
	length := len(t.tasks)
	t.mu.RUnlock()
	return length
}

// List returns a slice of all tasks.
func (t *Tasks) List() []*Task {
	t.mu.RLock()
	tasks := make([]*Task, 0, len(t.tasks))
	for _, task := range t.tasks {
		tasks = append(tasks, task)
	}
	t.mu.RUnlock()
	return tasks
}

// Map returns a copy of all tasks.
func (t *Tasks) Map() map[string]*Task {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make(map[string]*Task, len(t.tasks))
	maps.Copy(result, t.tasks)
	return result
}

// ForEach applies a function to each task. The function should not modify
// the task. If the function returns false, iteration stops early.
func (t *Tasks) ForEach(fn func(id string, task *Task) bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for id, task := range t.tasks {
		if !fn(id, task) {
			break
		}
	}
}

// Clear removes all tasks.
func (t *Tasks) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for k := range t.tasks {
		delete(t.tasks, k)
	}
}
