package scenario_test

import (
	"errors"
	"reflect"
	"testing"

	"storyreel/internal/scenario"
)

func acceptedDocument(t *testing.T) *scenario.Document {
	t.Helper()
	doc, err := scenario.Decode(samplePayload)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	return doc
}

func defaultOptions() scenario.ValidateOptions {
	return scenario.ValidateOptions{RequestedSeconds: 30, CutSeconds: 10, CutCount: 3}
}

// appendScene extends the sample document with a well-formed fourth scene
// and its matching timeline entry.
func appendScene(doc *scenario.Document) {
	doc.Scenes = append(doc.Scenes, scenario.Scene{
		Number:          4,
		Timeline:        "30s-40s",
		VisualPrompt:    "The beam sweeps the empty sea.",
		CameraMovement:  "Static",
		Dialogue:        "None",
		DialogueStruct:  scenario.DialogueNarration,
		DurationSeconds: 10,
	})
	doc.Timeline = append(doc.Timeline, scenario.TimelineEntry{
		ID: 4, StartTime: 30, EndTime: 40, Prompt: "The beam sweeps the empty sea.", Dialogue: "None",
	})
}

func mustInvariant(t *testing.T, err error, want scenario.Invariant) {
	t.Helper()
	var verr *scenario.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Invariant != want {
		t.Fatalf("expected invariant %s, got %s (%s)", want, verr.Invariant, verr.Detail)
	}
}

func TestValidateAcceptsWellFormedDocument(t *testing.T) {
	doc := acceptedDocument(t)
	accepted, err := scenario.Validate(doc, defaultOptions())
	if err != nil {
		t.Fatalf("Validate rejected a well-formed document: %v", err)
	}
	if len(accepted.Scenes) != 3 {
		t.Fatalf("expected 3 scenes, got %d", len(accepted.Scenes))
	}
}

func TestValidateIsIdempotent(t *testing.T) {
	doc := acceptedDocument(t)
	first, err := scenario.Validate(doc, defaultOptions())
	if err != nil {
		t.Fatalf("first Validate failed: %v", err)
	}
	second, err := scenario.Validate(first, defaultOptions())
	if err != nil {
		t.Fatalf("second Validate failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("re-validation mutated the document")
	}
}

func TestValidateRejectsEmptySceneList(t *testing.T) {
	doc := acceptedDocument(t)
	doc.Scenes = nil
	_, err := scenario.Validate(doc, defaultOptions())
	mustInvariant(t, err, scenario.InvariantNoScenes)
}

func TestValidateSceneCountMismatch(t *testing.T) {
	t.Run("fewer scenes than requested", func(t *testing.T) {
		doc := acceptedDocument(t)
		opts := defaultOptions()
		opts.CutCount = 4
		_, err := scenario.Validate(doc, opts)
		mustInvariant(t, err, scenario.InvariantSceneCount)
	})

	t.Run("more scenes than requested", func(t *testing.T) {
		doc := acceptedDocument(t)
		appendScene(doc)
		_, err := scenario.Validate(doc, defaultOptions())
		mustInvariant(t, err, scenario.InvariantSceneCount)
	})

	t.Run("skipped without requested count", func(t *testing.T) {
		doc := acceptedDocument(t)
		appendScene(doc)
		opts := scenario.ValidateOptions{RequestedSeconds: 40, CutSeconds: 10}
		if _, err := scenario.Validate(doc, opts); err != nil {
			t.Fatalf("expected acceptance, got %v", err)
		}
	})
}

func TestValidateOrdinalGap(t *testing.T) {
	doc := acceptedDocument(t)
	doc.Scenes[2].Number = 4
	_, err := scenario.Validate(doc, defaultOptions())
	mustInvariant(t, err, scenario.InvariantOrdinalGap)
}

func TestValidateDuplicateOrdinal(t *testing.T) {
	doc := acceptedDocument(t)
	doc.Scenes[2].Number = 2
	_, err := scenario.Validate(doc, defaultOptions())
	mustInvariant(t, err, scenario.InvariantOrdinalGap)
}

func TestValidateOrdinalOrderOfAppearanceIsIrrelevant(t *testing.T) {
	doc := acceptedDocument(t)
	doc.Scenes[0], doc.Scenes[2] = doc.Scenes[2], doc.Scenes[0]
	accepted, err := scenario.Validate(doc, defaultOptions())
	if err != nil {
		t.Fatalf("Validate rejected reordered scenes: %v", err)
	}
	if accepted.Scenes[0].Number != 3 {
		t.Fatal("validation must preserve order of appearance")
	}
}

func TestValidateTimelineMismatch(t *testing.T) {
	t.Run("missing entry", func(t *testing.T) {
		doc := acceptedDocument(t)
		doc.Timeline = doc.Timeline[:2]
		_, err := scenario.Validate(doc, defaultOptions())
		mustInvariant(t, err, scenario.InvariantTimelineAlign)
	})

	t.Run("orphan entry", func(t *testing.T) {
		doc := acceptedDocument(t)
		doc.Timeline = append(doc.Timeline, scenario.TimelineEntry{
			ID: 9, StartTime: 30, EndTime: 35, Prompt: "extra", Dialogue: "None",
		})
		_, err := scenario.Validate(doc, defaultOptions())
		mustInvariant(t, err, scenario.InvariantTimelineAlign)
	})

	t.Run("dialogue disagreement", func(t *testing.T) {
		doc := acceptedDocument(t)
		doc.Timeline[1].Dialogue = "Hello"
		_, err := scenario.Validate(doc, defaultOptions())
		mustInvariant(t, err, scenario.InvariantTimelineAlign)
	})
}

func TestValidateTimeAxis(t *testing.T) {
	t.Run("inverted span", func(t *testing.T) {
		doc := acceptedDocument(t)
		doc.Timeline[1].EndTime = doc.Timeline[1].StartTime
		_, err := scenario.Validate(doc, defaultOptions())
		mustInvariant(t, err, scenario.InvariantTimeAxis)
	})

	t.Run("overlapping spans", func(t *testing.T) {
		doc := acceptedDocument(t)
		doc.Timeline[2].StartTime = 15
		_, err := scenario.Validate(doc, defaultOptions())
		mustInvariant(t, err, scenario.InvariantTimeAxis)
	})
}

func TestValidateDurationDrift(t *testing.T) {
	t.Run("within tolerance", func(t *testing.T) {
		doc := acceptedDocument(t)
		// 28s against a requested 30s with a 10s cut length tolerance.
		doc.Timeline[2].EndTime = 28
		if _, err := scenario.Validate(doc, defaultOptions()); err != nil {
			t.Fatalf("expected acceptance, got %v", err)
		}
	})

	t.Run("beyond tolerance", func(t *testing.T) {
		doc := acceptedDocument(t)
		opts := scenario.ValidateOptions{RequestedSeconds: 60, CutSeconds: 5}
		_, err := scenario.Validate(doc, opts)
		mustInvariant(t, err, scenario.InvariantDurationDrift)
	})

	t.Run("58s against 60s accepted", func(t *testing.T) {
		doc := acceptedDocument(t)
		doc.Timeline[0].EndTime = 20
		doc.Timeline[1].StartTime = 20
		doc.Timeline[1].EndTime = 40
		doc.Timeline[2].StartTime = 40
		doc.Timeline[2].EndTime = 58
		opts := scenario.ValidateOptions{RequestedSeconds: 60, CutSeconds: 5}
		if _, err := scenario.Validate(doc, opts); err != nil {
			t.Fatalf("expected acceptance at 58s/60s, got %v", err)
		}
	})

	t.Run("skipped without requested total", func(t *testing.T) {
		doc := acceptedDocument(t)
		if _, err := scenario.Validate(doc, scenario.ValidateOptions{}); err != nil {
			t.Fatalf("expected acceptance, got %v", err)
		}
	})
}

func TestValidateBadEnumeration(t *testing.T) {
	doc := acceptedDocument(t)
	doc.Scenes[0].DialogueStruct = "Soliloquy"
	_, err := scenario.Validate(doc, defaultOptions())
	mustInvariant(t, err, scenario.InvariantBadEnumeration)
}

func TestValidateUnbalancedTags(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*scenario.Document)
	}{
		{"scene dialogue", func(d *scenario.Document) {
			d.Scenes[1].Dialogue = "Elias: [weary One more night."
			d.Timeline[1].Dialogue = d.Scenes[1].Dialogue
		}},
		{"voice tags", func(d *scenario.Document) {
			d.Narration.VoiceTags = "[calm male voice [light reverb]"
		}},
		{"stray closer", func(d *scenario.Document) {
			d.Scenes[0].Dialogue = "whispered] None"
			d.Timeline[0].Dialogue = d.Scenes[0].Dialogue
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := acceptedDocument(t)
			tc.mutate(doc)
			_, err := scenario.Validate(doc, defaultOptions())
			mustInvariant(t, err, scenario.InvariantUnbalancedTag)
		})
	}
}

func TestDialogueStructureDisplayNames(t *testing.T) {
	if got := scenario.DialogueOneOnOne.DisplayName(); got != "One-on-One Conversation" {
		t.Fatalf("unexpected display name %q", got)
	}
	if got := scenario.DialogueStructure("Soliloquy").DisplayName(); got != "Soliloquy" {
		t.Fatalf("unknown values should render as-is, got %q", got)
	}
}

func TestSceneHasDialogue(t *testing.T) {
	if (scenario.Scene{Dialogue: "None"}).HasDialogue() {
		t.Fatal("the None sentinel is not dialogue")
	}
	if !(scenario.Scene{Dialogue: "[calm] Hello."}).HasDialogue() {
		t.Fatal("expected dialogue to be detected")
	}
}
