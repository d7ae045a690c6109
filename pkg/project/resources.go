package project

import (
	"fmt"
	"maps"
	"sync"
)

// Resources is a concurrent safe map of resources keyed by ID.
type Resources struct {
	mu        sync.RWMutex
	resources map[string]*Resource
}

// NewResources creates a new Resources map.
func NewResources() *Resources {
	return &Resources{
		resources: make(map[string]*Resource),
	}
}

// Get returns a resource by id and whether it exists.
func (r *Resources) Get(id string) (*Resource, bool) {
	r.mu.RLock()
	resource, ok := r.resources[id]
	r.mu.RUnlock()
	return resource, ok
}

// Set sets a resource by id. Returns an error if resource is nil.
func (r *Resources) Set(id string, resource *Resource) error {
	if resource == nil {
		return fmt.Errorf("resource cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.resources[id] = resource
	return nil
}

// Add adds a resource, returning an error if it already exists.
func (r *Resources) Add(resource *Resource) error {
	if resource == nil {
		return fmt.Errorf("resource cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.resources[resource.ID]; exists {
		return fmt.Errorf("resource with ID %s already exists", resource.ID)
	}

	r.resources[resource.ID] = resource
	return nil
}

// Delete removes a resource by id. Returns an error if the resource doesn't exist.
func (r *Resources) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.resources[id]; !exists {
		return fmt.Errorf("resource with ID %s not found", id)
	}

	delete(r.resources, id)
	return nil
}

// Exists checks if a resource exists without returning it.
func (r *Resources) Exists(id string) bool {
	r.mu.RLock()
	_, exists := r.resources[id]
	r.mu.RUnlock()
	return exists
}

// Len returns the number of resources.
func (r *Resources) Len() int {
	r.mu.RLock()
	length := len(r.resources)
	r.mu.RUnlock()
	return length
}

// List returns a slice of all resources.
func (r *Resources) List() []*Resource {
	r.mu.RLock()
	resources := make([]*Resource, 0, len(r.resources))
	for _, resource := range r.resources {
		resources = append(resources, resource)
	}
	r.mu.RUnlock()
	return resources
}

// Map returns a copy of all resources.
func (r *Resources) Map() map[string]*Resource {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]*Resource, len(r.resources))
	maps.Copy(result, r.resources)
	return result
}

// ForEach applies a function to each resource. The function should not
// modify the resource. If the function returns false, iteration stops early.
func (r *Resources) ForEach(fn func(id string, resource *Resource) bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for id, resource := range r.resources {
		if !fn(id, resource) {
			break
		}
	}
}

// Clear removes all resources.
func (r *Resources) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k := range r.resources {
		delete(r.resources, k)
	}
}
