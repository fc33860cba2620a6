package testsupport

import (
	"testing"

	"storyreel/internal/scenario"
)

// SampleDocument returns a fully valid three-scene document spanning 30
// seconds. Tests mutate the copy freely.
func SampleDocument(t testing.TB) *scenario.Document {
	t.Helper()

	doc, err := scenario.Decode(SampleDocumentJSON)
	if err != nil {
		t.Fatalf("decode sample document: %v", err)
	}
	return doc
}

// SampleDocumentJSON is the interchange form of SampleDocument. It decodes
// cleanly and passes validation with a requested total of 30 seconds and a
// cut length of 10.
const SampleDocumentJSON = `{
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
