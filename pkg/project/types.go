// Package project defines the project-planning data model (resources,
// phases, tasks) and an in-memory project store with snapshot and
// atomic-commit support.
package project

import (
	"strings"

	"golang.org/x/text/cases"
)

// EntityType identifies the kind of planning entity.
type EntityType string

// Entity types subject to reconciliation.
const (
	EntityTypeResource EntityType = "resource"
	EntityTypePhase    EntityType = "phase"
	EntityTypeTask     EntityType = "task"
)

// String returns the string representation of an entity type.
func (t EntityType) String() string {
	return string(t)
}

// EntityTypes returns all entity types in detection order.
func EntityTypes() []EntityType {
	return []EntityType{EntityTypeResource, EntityTypePhase, EntityTypeTask}
}

var nameFolder = cases.Fold()

// NormalizeName returns the matching and uniqueness key for an entity name:
// surrounding whitespace trimmed, then case folded.
func NormalizeName(name string) string {
	return nameFolder.String(strings.TrimSpace(name))
}
