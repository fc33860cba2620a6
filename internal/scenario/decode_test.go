package scenario_test

import (
	"errors"
	"strings"
	"testing"

	"storyreel/internal/scenario"
)

const samplePayload = `{
  "title": "The Last Night",
  "logline": "A lighthouse keeper faces his final shift.",
  "characters": [
    {"name": "Elias", "description": "An aging lighthouse keeper."}
  ],
  "scenes": [
    {
      "scene": 1,
      "timeline": "0s-10s",
      "visualPrompt": "Waves crash against a rocky shore at dusk.",
      "cameraMovement": "Slow aerial push-in toward the lighthouse.",
      "dialogue": "None",
      "dialogueStructure": "Narration",
      "duration": 10
    },
    {
      "scene": 2,
      "timeline": "10s-20s",
      "visualPrompt": "Elias climbs the spiral staircase, lantern in hand.",
      "cameraMovement": "Handheld follow shot.",
      "dialogue": "Elias: [weary] One more night, old friend.",
      "dialogueStructure": "Monologue",
      "duration": 10
    },
    {
      "scene": 3,
      "timeline": "20s-30s",
      "visualPrompt": "The beam sweeps across a calm sea at dawn.",
      "cameraMovement": "Static wide shot.",
      "dialogue": "None",
      "dialogueStructure": "Narration",
      "duration": 10
    }
  ],
  "narration": {
    "script": "For forty years the light never failed.",
    "voiceTags": "[calm male voice] [slow pace] [light reverb]"
  },
  "narrationScriptJson": [
    {"id": 1, "script_segment": "For forty years"},
    {"id": 2, "script_segment": "the light never failed."}
  ],
  "timelineJson": [
    {"id": 1, "start_time": 0, "end_time": 10, "prompt": "Waves crash against a rocky shore at dusk. Slow aerial push-in toward the lighthouse.", "dialogue": "None"},
    {"id": 2, "start_time": 10, "end_time": 20, "prompt": "Elias climbs the spiral staircase, lantern in hand. Handheld follow shot.", "dialogue": "Elias: [weary] One more night, old friend."},
    {"id": 3, "start_time": 20, "end_time": 30, "prompt": "The beam sweeps across a calm sea at dawn. Static wide shot.", "dialogue": "None"}
  ],
  "bgm": {
    "style": "Cinematic Ambient",
    "instruments": "Piano, strings, distant foghorn",
    "mood": "Melancholic, hopeful"
  }
}`

func TestDecodeWellFormedPayload(t *testing.T) {
	doc, err := scenario.Decode(samplePayload)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if doc.Title != "The Last Night" {
		t.Fatalf("unexpected title %q", doc.Title)
	}
	if len(doc.Scenes) != 3 {
		t.Fatalf("expected 3 scenes, got %d", len(doc.Scenes))
	}
	if doc.Scenes[1].DialogueStruct != scenario.DialogueMonologue {
		t.Fatalf("unexpected dialogue structure %q", doc.Scenes[1].DialogueStruct)
	}
	if len(doc.Timeline) != 3 {
		t.Fatalf("expected 3 timeline entries, got %d", len(doc.Timeline))
	}
	if got := doc.TimelineSeconds(); got != 30 {
		t.Fatalf("expected 30 timeline seconds, got %d", got)
	}
}

func TestDecodeEmptyPayloadIsDistinctFailure(t *testing.T) {
	for _, raw := range []string{"", "   ", "\n\t"} {
		if _, err := scenario.Decode(raw); !errors.Is(err, scenario.ErrEmptyPayload) {
			t.Fatalf("expected ErrEmptyPayload for %q, got %v", raw, err)
		}
	}
}

func TestDecodeMalformedPayload(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"not json", "the provider apologized instead of answering"},
		{"missing title", `{"logline":"x","scenes":[],"narration":{"script":"","voiceTags":""},"bgm":{"style":"","instruments":"","mood":""}}`},
		{"missing narration", `{"title":"x","logline":"x","scenes":[],"bgm":{"style":"","instruments":"","mood":""}}`},
		{"scene missing duration", `{"title":"x","logline":"x","narration":{"script":"","voiceTags":""},"bgm":{"style":"","instruments":"","mood":""},"scenes":[{"scene":1,"timeline":"0s-5s","visualPrompt":"v","cameraMovement":"c","dialogue":"None","dialogueStructure":"Narration"}]}`},
		{"timeline missing end", `{"title":"x","logline":"x","narration":{"script":"","voiceTags":""},"bgm":{"style":"","instruments":"","mood":""},"scenes":[],"timelineJson":[{"id":1,"start_time":0,"prompt":"p","dialogue":"None"}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := scenario.Decode(tc.raw); !errors.Is(err, scenario.ErrMalformedPayload) {
				t.Fatalf("expected ErrMalformedPayload, got %v", err)
			}
		})
	}
}

func TestDecodeStripsCodeFence(t *testing.T) {
	fenced := "```json\n" + samplePayload + "\n```"
	doc, err := scenario.Decode(fenced)
	if err != nil {
		t.Fatalf("Decode failed on fenced payload: %v", err)
	}
	if doc.Title != "The Last Night" {
		t.Fatalf("unexpected title %q", doc.Title)
	}
}

func TestDecodeDefaultsOptionalArrays(t *testing.T) {
	raw := `{"title":"x","logline":"y","scenes":[],"narration":{"script":"s","voiceTags":"[calm]"},"bgm":{"style":"a","instruments":"b","mood":"c"}}`
	doc, err := scenario.Decode(raw)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if doc.NarrationScript == nil || len(doc.NarrationScript) != 0 {
		t.Fatalf("expected empty narration script slice, got %#v", doc.NarrationScript)
	}
	if doc.Timeline == nil || len(doc.Timeline) != 0 {
		t.Fatalf("expected empty timeline slice, got %#v", doc.Timeline)
	}
	if doc.Characters == nil {
		t.Fatal("expected empty characters slice")
	}
}

func TestDecodeIgnoresUnknownFields(t *testing.T) {
	raw := strings.Replace(samplePayload, `"title":`, `"modelNotes": "extra", "title":`, 1)
	if _, err := scenario.Decode(raw); err != nil {
		t.Fatalf("unknown fields should be ignored: %v", err)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	doc, err := scenario.Decode(samplePayload)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	encoded, err := scenario.Encode(doc)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	decoded, err := scenario.Decode(encoded)
	if err != nil {
		t.Fatalf("Decode of encoded document failed: %v", err)
	}
	reencoded, err := scenario.Encode(decoded)
	if err != nil {
		t.Fatalf("second Encode failed: %v", err)
	}
	if encoded != reencoded {
		t.Fatal("round trip changed the document")
	}
}
