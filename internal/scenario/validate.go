package scenario

import (
	"fmt"
	"sort"
)

// Invariant identifies which domain rule a document violated.
type Invariant string

const (
	InvariantNoScenes       Invariant = "no_scenes"
	InvariantSceneCount     Invariant = "scene_count_mismatch"
	InvariantOrdinalGap     Invariant = "ordinal_gap"
	InvariantTimelineAlign  Invariant = "timeline_scene_mismatch"
	InvariantTimeAxis       Invariant = "time_axis"
	InvariantDurationDrift  Invariant = "duration_drift"
	InvariantBadEnumeration Invariant = "bad_enumeration"
	InvariantUnbalancedTag  Invariant = "unbalanced_tag"
)

// ValidationError reports a single violated invariant with enough detail to
// diagnose which part of the document broke it.
type ValidationError struct {
	Invariant Invariant
	Detail    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invariant violation (%s): %s", e.Invariant, e.Detail)
}

func violation(inv Invariant, format string, args ...any) error {
	return &ValidationError{Invariant: inv, Detail: fmt.Sprintf(format, args...)}
}

// ValidateOptions carries the caller's requested constraints so duration
// drift can be reconciled against them.
type ValidateOptions struct {
	// RequestedSeconds is the total duration the user asked for. Zero skips
	// the drift check.
	RequestedSeconds int
	// CutSeconds is the requested average cut length; it widens the drift
	// tolerance so a single cut of slack never fails a short video.
	CutSeconds int
	// CutCount is the number of scenes the user asked for. Zero skips the
	// scene-count check.
	CutCount int
	// DriftRatio is the fractional tolerance on total duration. Zero means
	// the default of 0.10.
	DriftRatio float64
}

const defaultDriftRatio = 0.10

func (o ValidateOptions) tolerance() int {
	ratio := o.DriftRatio
	if ratio <= 0 {
		ratio = defaultDriftRatio
	}
	byRatio := int(float64(o.RequestedSeconds) * ratio)
	if o.CutSeconds > byRatio {
		return o.CutSeconds
	}
	return byRatio
}

// Validate enforces every domain invariant against a structurally decoded
// document. On success it returns the accepted document with optional arrays
// normalized to empty slices; on failure it returns a *ValidationError naming
// the violated invariant. Validation is pure and idempotent: re-validating an
// accepted document yields the same acceptance with no field changes.
func Validate(doc *Document, opts ValidateOptions) (*Document, error) {
	if doc == nil {
		return nil, violation(InvariantNoScenes, "document is nil")
	}
	if len(doc.Scenes) == 0 {
		return nil, violation(InvariantNoScenes, "document contains no scenes")
	}
	if opts.CutCount > 0 && len(doc.Scenes) != opts.CutCount {
		return nil, violation(InvariantSceneCount,
			"document contains %d scenes but %d cuts were requested", len(doc.Scenes), opts.CutCount)
	}

	if err := checkOrdinals(doc.Scenes); err != nil {
		return nil, err
	}
	if err := checkEnumerations(doc.Scenes); err != nil {
		return nil, err
	}
	if err := checkTags(doc); err != nil {
		return nil, err
	}
	if err := checkTimelineAlignment(doc); err != nil {
		return nil, err
	}
	if err := checkTimeAxis(doc.Timeline); err != nil {
		return nil, err
	}
	if err := checkDurationDrift(doc, opts); err != nil {
		return nil, err
	}

	accepted := *doc
	if accepted.Characters == nil {
		accepted.Characters = []Character{}
	}
	if accepted.NarrationScript == nil {
		accepted.NarrationScript = []NarrationSegment{}
	}
	return &accepted, nil
}

// checkOrdinals requires scene numbers to be exactly the contiguous run 1..N.
// Order of appearance is irrelevant to the check and preserved for display.
func checkOrdinals(scenes []Scene) error {
	seen := make(map[int]struct{}, len(scenes))
	for _, scene := range scenes {
		if scene.Number < 1 {
			return violation(InvariantOrdinalGap, "scene ordinal %d is not positive", scene.Number)
		}
		if scene.Number > len(scenes) {
			return violation(InvariantOrdinalGap, "scene ordinal %d exceeds scene count %d", scene.Number, len(scenes))
		}
		if _, dup := seen[scene.Number]; dup {
			return violation(InvariantOrdinalGap, "scene ordinal %d appears more than once", scene.Number)
		}
		seen[scene.Number] = struct{}{}
		if scene.DurationSeconds <= 0 {
			return violation(InvariantTimeAxis, "scene %d has non-positive duration %d", scene.Number, scene.DurationSeconds)
		}
	}
	for ordinal := 1; ordinal <= len(scenes); ordinal++ {
		if _, ok := seen[ordinal]; !ok {
			return violation(InvariantOrdinalGap, "scene ordinal %d is missing", ordinal)
		}
	}
	return nil
}

func checkEnumerations(scenes []Scene) error {
	for _, scene := range scenes {
		if !scene.DialogueStruct.Known() {
			return violation(InvariantBadEnumeration,
				"scene %d dialogue structure %q is not one of the known values", scene.Number, scene.DialogueStruct)
		}
	}
	return nil
}

func checkTags(doc *Document) error {
	for _, scene := range doc.Scenes {
		if err := scanBrackets(scene.Dialogue); err != nil {
			return violation(InvariantUnbalancedTag, "scene %d dialogue: %v", scene.Number, err)
		}
	}
	for _, entry := range doc.Timeline {
		if err := scanBrackets(entry.Dialogue); err != nil {
			return violation(InvariantUnbalancedTag, "timeline entry %d dialogue: %v", entry.ID, err)
		}
	}
	if err := scanBrackets(doc.Narration.VoiceTags); err != nil {
		return violation(InvariantUnbalancedTag, "narration voice tags: %v", err)
	}
	return nil
}

// checkTimelineAlignment requires a one-to-one mapping between scenes and
// timeline entries with verbatim dialogue agreement.
func checkTimelineAlignment(doc *Document) error {
	entries := make(map[int]TimelineEntry, len(doc.Timeline))
	for _, entry := range doc.Timeline {
		if _, dup := entries[entry.ID]; dup {
			return violation(InvariantTimelineAlign, "timeline entry id %d appears more than once", entry.ID)
		}
		entries[entry.ID] = entry
	}
	for _, scene := range doc.Scenes {
		entry, ok := entries[scene.Number]
		if !ok {
			return violation(InvariantTimelineAlign, "scene %d has no timeline entry", scene.Number)
		}
		if entry.Dialogue != scene.Dialogue {
			return violation(InvariantTimelineAlign,
				"timeline entry %d dialogue does not match scene dialogue", scene.Number)
		}
		delete(entries, scene.Number)
	}
	for id := range entries {
		return violation(InvariantTimelineAlign, "timeline entry %d has no matching scene", id)
	}
	return nil
}

// checkTimeAxis requires every span to run forward and spans to be
// non-overlapping and non-decreasing when ordered by id.
func checkTimeAxis(timeline []TimelineEntry) error {
	ordered := make([]TimelineEntry, len(timeline))
	copy(ordered, timeline)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	previousEnd := -1
	for _, entry := range ordered {
		if entry.StartTime < 0 {
			return violation(InvariantTimeAxis, "timeline entry %d starts before 0s", entry.ID)
		}
		if entry.EndTime <= entry.StartTime {
			return violation(InvariantTimeAxis,
				"timeline entry %d ends at %ds, not after its start %ds", entry.ID, entry.EndTime, entry.StartTime)
		}
		if previousEnd >= 0 && entry.StartTime < previousEnd {
			return violation(InvariantTimeAxis,
				"timeline entry %d starts at %ds, overlapping the previous entry ending at %ds",
				entry.ID, entry.StartTime, previousEnd)
		}
		previousEnd = entry.EndTime
	}
	return nil
}

func checkDurationDrift(doc *Document, opts ValidateOptions) error {
	if opts.RequestedSeconds <= 0 {
		return nil
	}
	total := doc.TimelineSeconds()
	tolerance := opts.tolerance()
	drift := total - opts.RequestedSeconds
	if drift < 0 {
		drift = -drift
	}
	if drift > tolerance {
		return violation(InvariantDurationDrift,
			"timeline spans %ds but %ds was requested (tolerance %ds)", total, opts.RequestedSeconds, tolerance)
	}
	return nil
}
