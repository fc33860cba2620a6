package scenario

import "strings"

// DialogueStructure classifies how many speakers participate in a scene's
// dialogue. The wire values form a closed set; anything else fails
// validation rather than being coerced.
type DialogueStructure string

const (
	DialogueNarration   DialogueStructure = "Narration"
	DialogueMonologue   DialogueStructure = "Monologue"
	DialogueOneOnOne    DialogueStructure = "1-on-1 Conversation"
	DialogueMultiPerson DialogueStructure = "Multi-person Conversation"
)

// NoDialogue is the literal sentinel the provider must use when a scene has
// no speech.
const NoDialogue = "None"

var dialogueStructures = []DialogueStructure{
	DialogueNarration,
	DialogueMonologue,
	DialogueOneOnOne,
	DialogueMultiPerson,
}

// DialogueStructures returns the ordered list of valid wire values.
func DialogueStructures() []DialogueStructure {
	cp := make([]DialogueStructure, len(dialogueStructures))
	copy(cp, dialogueStructures)
	return cp
}

// Known reports whether the value is a member of the closed enumeration.
func (d DialogueStructure) Known() bool {
	for _, known := range dialogueStructures {
		if d == known {
			return true
		}
	}
	return false
}

// DisplayName returns the human-facing label for the structure. Unknown
// values render as-is so diagnostics stay readable.
func (d DialogueStructure) DisplayName() string {
	switch d {
	case DialogueNarration:
		return "Narration"
	case DialogueMonologue:
		return "Monologue"
	case DialogueOneOnOne:
		return "One-on-One Conversation"
	case DialogueMultiPerson:
		return "Multi-person Conversation"
	default:
		return string(d)
	}
}

// Character is a named participant in the scenario.
type Character struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Scene is one discrete time-boxed cut of the video with its own visual,
// camera, and dialogue description.
type Scene struct {
	Number          int               `json:"scene"`
	Timeline        string            `json:"timeline"`
	VisualPrompt    string            `json:"visualPrompt"`
	CameraMovement  string            `json:"cameraMovement"`
	Dialogue        string            `json:"dialogue"`
	DialogueStruct  DialogueStructure `json:"dialogueStructure"`
	DurationSeconds int               `json:"duration"`
}

// HasDialogue reports whether the scene carries actual speech.
func (s Scene) HasDialogue() bool {
	trimmed := strings.TrimSpace(s.Dialogue)
	return trimmed != "" && trimmed != NoDialogue
}

// Narration holds the full narration script and the compact voice-tag string
// for AI audio tools.
type Narration struct {
	Script    string `json:"script"`
	VoiceTags string `json:"voiceTags"`
}

// NarrationSegment is one fragment of the narration script, keyed to a cut.
type NarrationSegment struct {
	ID      int    `json:"id"`
	Segment string `json:"script_segment"`
}

// TimelineEntry is the machine-readable counterpart of a Scene with absolute
// start/end times for downstream video tools.
type TimelineEntry struct {
	ID        int    `json:"id"`
	StartTime int    `json:"start_time"`
	EndTime   int    `json:"end_time"`
	Prompt    string `json:"prompt"`
	Dialogue  string `json:"dialogue"`
}

// Span returns the entry length in seconds.
func (t TimelineEntry) Span() int {
	return t.EndTime - t.StartTime
}

// BGM is the background-music brief generated for the whole piece.
type BGM struct {
	Style       string `json:"style"`
	Instruments string `json:"instruments"`
	Mood        string `json:"mood"`
}

// Document is the complete scenario produced by one pipeline run. The JSON
// field names are the interchange format persisted by the history store, so
// changing them is a breaking change for saved documents.
type Document struct {
	Title           string             `json:"title"`
	Logline         string             `json:"logline"`
	Characters      []Character        `json:"characters"`
	Scenes          []Scene            `json:"scenes"`
	Narration       Narration          `json:"narration"`
	NarrationScript []NarrationSegment `json:"narrationScriptJson"`
	Timeline        []TimelineEntry    `json:"timelineJson"`
	BGM             BGM                `json:"bgm"`
}

// TimelineSeconds sums the spans of all timeline entries.
func (d *Document) TimelineSeconds() int {
	total := 0
	for _, entry := range d.Timeline {
		total += entry.Span()
	}
	return total
}
