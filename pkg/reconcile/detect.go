package reconcile

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/planstack/importsync/pkg/dates"
	"github.com/planstack/importsync/pkg/errors"
	"github.com/planstack/importsync/pkg/logging"
	"github.com/planstack/importsync/pkg/project"
)

// Detector applies the per-type conflict rules to matched entities.
// Detection is a pure function of its inputs: identical snapshots produce
// an identical ordered conflict list and identical summary counts, so it
// is safe to rerun while the user deliberates.
type Detector struct {
	logger *zerolog.Logger
}

// DetectorOption configures a Detector.
type DetectorOption func(*Detector)

// WithDetectorLogger sets the logger used for skipped-range reporting.
func WithDetectorLogger(logger *zerolog.Logger) DetectorOption {
	return func(d *Detector) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDetector creates a Detector.
func NewDetector(opts ...DetectorOption) *Detector {
	d := &Detector{
		logger: logging.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect evaluates every matched pair and self-collision, returning the
// ordered conflict list and its summary. Neither snapshot is mutated.
func (d *Detector) Detect(existing, incoming *project.Snapshot) *Result {
	ex := existing.Copy()
	in := incoming.Copy()
	ex.Sort()
	in.Sort()

	result := &Result{}
	set := Match(ex, in)

	d.detectResourceConflicts(ex, in, set, result)
	d.detectPhaseConflicts(set, result)
	d.detectTaskConflicts(ex, in, set, result)
	d.detectSelfCollisions(set, result)

	orderConflicts(result.Conflicts)
	result.Summary = summarize(result.Conflicts)

	return result
}

// detectResourceConflicts raises one conflict per matched resource pair
// whose assignment spans intersect. Severity escalates to error when the
// combined allocation inside the overlap exceeds 100 percent.
func (d *Detector) detectResourceConflicts(ex, in *project.Snapshot, set *MatchSet, result *Result) {
	exTaskNames := taskNameIndex(ex)
	inTaskNames := taskNameIndex(in)

	for _, pair := range set.ResourcePairs {
		d.logInvalidAssignments(pair.Existing)
		d.logInvalidAssignments(pair.Incoming)

		exSpan, exOK := pair.Existing.Span()
		inSpan, inOK := pair.Incoming.Span()
		if !exOK || !inOK {
			continue
		}

		overlap, ok := exSpan.Intersect(inSpan)
		if !ok {
			continue
		}

		exAlloc, exTasks := pair.Existing.AllocationIn(overlap)
		inAlloc, inTasks := pair.Incoming.AllocationIn(overlap)

		result.Conflicts = append(result.Conflicts, &ResourceConflict{
			Name:               pair.Existing.Name,
			ExistingID:         pair.Existing.ID,
			IncomingResourceID: pair.Incoming.ID,
			Overlap:            overlap,
			ExistingAllocation: exAlloc,
			ImportedAllocation: inAlloc,
			TotalAllocation:    exAlloc + inAlloc,
			ExistingTasks:      resolveTaskNames(exTasks, exTaskNames),
			ImportedTasks:      resolveTaskNames(inTasks, inTaskNames),
			existingStart:      exSpan.Start,
		})
	}
}

// detectPhaseConflicts raises a warning per matched phase pair with
// overlapping ranges. Matched phases with disjoint ranges are independent
// reuses of a label and produce nothing.
func (d *Detector) detectPhaseConflicts(set *MatchSet, result *Result) {
	for _, pair := range set.PhasePairs {
		if !d.validRange(pair.Existing.Range, "phase", pair.Existing.ID, result) {
			continue
		}
		if !d.validRange(pair.Incoming.Range, "phase", pair.Incoming.ID, result) {
			continue
		}
		if !pair.Existing.Range.Overlaps(pair.Incoming.Range) {
			continue
		}

		result.Conflicts = append(result.Conflicts, &PhaseConflict{
			Name:              pair.Existing.Name,
			ExistingID:        pair.Existing.ID,
			IncomingPhaseID:   pair.Incoming.ID,
			ExistingRange:     pair.Existing.Range,
			IncomingRange:     pair.Incoming.Range,
			ExistingTaskCount: pair.Existing.TaskCount(),
			IncomingTaskCount: pair.Incoming.TaskCount(),
		})
	}
}

// detectTaskConflicts raises a warning per matched task pair owned by
// same-named phases with overlapping ranges.
func (d *Detector) detectTaskConflicts(ex, in *project.Snapshot, set *MatchSet, result *Result) {
	exPhases := phaseIndex(ex)
	inPhases := phaseIndex(in)

	for _, pair := range set.TaskPairs {
		exPhase := exPhases[pair.Existing.PhaseID]
		inPhase := inPhases[pair.Incoming.PhaseID]
		if exPhase == nil || inPhase == nil {
			continue
		}
		if exPhase.NormalizedName() != inPhase.NormalizedName() {
			continue
		}

		if !d.validRange(pair.Existing.Range, "task", pair.Existing.ID, result) {
			continue
		}
		if !d.validRange(pair.Incoming.Range, "task", pair.Incoming.ID, result) {
			continue
		}
		if !pair.Existing.Range.Overlaps(pair.Incoming.Range) {
			continue
		}

		result.Conflicts = append(result.Conflicts, &TaskConflict{
			Name:           pair.Existing.Name,
			PhaseName:      exPhase.Name,
			ExistingID:     pair.Existing.ID,
			IncomingTaskID: pair.Incoming.ID,
			ExistingRange:  pair.Existing.Range,
			IncomingRange:  pair.Incoming.Range,
		})
	}
}

// detectSelfCollisions converts the matcher's self-collision records into
// warning conflicts.
func (d *Detector) detectSelfCollisions(set *MatchSet, result *Result) {
	for _, sc := range set.SelfCollisions {
		result.Conflicts = append(result.Conflicts, &DuplicateNameConflict{
			Type:           sc.Type,
			Name:           sc.Name,
			FirstID:        sc.FirstID,
			DuplicateID:    sc.DuplicateID,
			duplicateStart: sc.Start,
		})
	}
}

// validRange records and logs a malformed interval, so it is skipped
// rather than silently treated as "no overlap".
func (d *Detector) validRange(r dates.Range, entity, id string, result *Result) bool {
	if r.Validate() == nil {
		return true
	}

	err := errors.NewInvalidRangeError(entity, id,
		r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"))
	result.RangeErrors = append(result.RangeErrors, err)
	d.logger.Warn().
		Str("entity", entity).
		Str("id", id).
		Msg("Skipping comparison for invalid date range")
	return false
}

// logInvalidAssignments surfaces inverted assignment ranges, which Span
// and AllocationIn skip.
func (d *Detector) logInvalidAssignments(r *project.Resource) {
	for _, a := range r.Assignments {
		if a.Range.Validate() != nil {
			d.logger.Warn().
				Str("resource", r.ID).
				Str("task", a.TaskID).
				Msg("Skipping assignment with invalid date range")
		}
	}
}

// orderConflicts sorts type-grouped (resource, phase, task), then
// ascending by the existing entity's start date, then by conflict ID for a
// total order.
func orderConflicts(conflicts []Conflict) {
	group := map[project.EntityType]int{
		project.EntityTypeResource: 0,
		project.EntityTypePhase:    1,
		project.EntityTypeTask:     2,
	}

	sort.SliceStable(conflicts, func(i, j int) bool {
		gi, gj := group[conflicts[i].EntityType()], group[conflicts[j].EntityType()]
		if gi != gj {
			return gi < gj
		}
		si, sj := conflicts[i].startDate(), conflicts[j].startDate()
		if !si.Equal(sj) {
			return si.Before(sj)
		}
		return conflicts[i].ID() < conflicts[j].ID()
	})
}

// taskNameIndex maps task IDs to display names for one snapshot side.
func taskNameIndex(s *project.Snapshot) map[string]string {
	index := make(map[string]string, len(s.Tasks))
	for i := range s.Tasks {
		index[s.Tasks[i].ID] = s.Tasks[i].Name
	}
	return index
}

// resolveTaskNames converts contributing task IDs to names, falling back
// to the ID when the task is not in the snapshot.
func resolveTaskNames(ids []string, names map[string]string) []string {
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		if name, ok := names[id]; ok {
			out[i] = name
			continue
		}
		out[i] = id
	}
	return out
}

// phaseIndex maps phase IDs to phases for one snapshot side.
func phaseIndex(s *project.Snapshot) map[string]*project.Phase {
	index := make(map[string]*project.Phase, len(s.Phases))
	for i := range s.Phases {
		index[s.Phases[i].ID] = &s.Phases[i]
	}
	return index
}
