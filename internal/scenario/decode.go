package scenario

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyPayload indicates the provider returned no usable text. It is kept
// distinct from ErrMalformedPayload because an empty body points at a
// provider-side failure rather than a contract violation.
var ErrEmptyPayload = errors.New("empty provider payload")

// ErrMalformedPayload indicates a non-empty payload that could not be decoded
// into the expected document shape.
var ErrMalformedPayload = errors.New("malformed provider payload")

// rawDocument mirrors the wire shape with pointer fields so absent required
// members can be told apart from present-but-zero ones.
type rawDocument struct {
	Title           *string            `json:"title"`
	Logline         *string            `json:"logline"`
	Characters      []Character        `json:"characters"`
	Scenes          []rawScene         `json:"scenes"`
	Narration       *Narration         `json:"narration"`
	NarrationScript []NarrationSegment `json:"narrationScriptJson"`
	Timeline        []rawTimelineEntry `json:"timelineJson"`
	BGM             *BGM               `json:"bgm"`
}

type rawScene struct {
	Number          *int    `json:"scene"`
	Timeline        *string `json:"timeline"`
	VisualPrompt    *string `json:"visualPrompt"`
	CameraMovement  *string `json:"cameraMovement"`
	Dialogue        *string `json:"dialogue"`
	DialogueStruct  *string `json:"dialogueStructure"`
	DurationSeconds *int    `json:"duration"`
}

type rawTimelineEntry struct {
	ID        *int    `json:"id"`
	StartTime *int    `json:"start_time"`
	EndTime   *int    `json:"end_time"`
	Prompt    *string `json:"prompt"`
	Dialogue  *string `json:"dialogue"`
}

// Decode turns raw provider text into a structurally typed Document. It
// performs no semantic validation: required fields must be present, optional
// arrays default to empty, and everything else is left for Validate. Code
// fences around the JSON body are tolerated since some providers wrap their
// output even when asked not to.
func Decode(raw string) (*Document, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, ErrEmptyPayload
	}

	body := stripCodeFence(trimmed)
	var decoded rawDocument
	if err := json.Unmarshal([]byte(body), &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v (payload snippet: %s)", ErrMalformedPayload, err, payloadSnippet(body))
	}

	if decoded.Title == nil {
		return nil, missingField("title")
	}
	if decoded.Logline == nil {
		return nil, missingField("logline")
	}
	if decoded.Scenes == nil {
		return nil, missingField("scenes")
	}
	if decoded.Narration == nil {
		return nil, missingField("narration")
	}
	if decoded.BGM == nil {
		return nil, missingField("bgm")
	}

	doc := &Document{
		Title:           *decoded.Title,
		Logline:         *decoded.Logline,
		Characters:      decoded.Characters,
		Narration:       *decoded.Narration,
		NarrationScript: decoded.NarrationScript,
		BGM:             *decoded.BGM,
	}
	if doc.Characters == nil {
		doc.Characters = []Character{}
	}
	if doc.NarrationScript == nil {
		doc.NarrationScript = []NarrationSegment{}
	}

	doc.Scenes = make([]Scene, 0, len(decoded.Scenes))
	for i, raw := range decoded.Scenes {
		scene, err := buildScene(i, raw)
		if err != nil {
			return nil, err
		}
		doc.Scenes = append(doc.Scenes, scene)
	}

	doc.Timeline = make([]TimelineEntry, 0, len(decoded.Timeline))
	for i, raw := range decoded.Timeline {
		entry, err := buildTimelineEntry(i, raw)
		if err != nil {
			return nil, err
		}
		doc.Timeline = append(doc.Timeline, entry)
	}

	return doc, nil
}

func buildScene(index int, raw rawScene) (Scene, error) {
	var empty Scene
	switch {
	case raw.Number == nil:
		return empty, missingField(fmt.Sprintf("scenes[%d].scene", index))
	case raw.Timeline == nil:
		return empty, missingField(fmt.Sprintf("scenes[%d].timeline", index))
	case raw.VisualPrompt == nil:
		return empty, missingField(fmt.Sprintf("scenes[%d].visualPrompt", index))
	case raw.CameraMovement == nil:
		return empty, missingField(fmt.Sprintf("scenes[%d].cameraMovement", index))
	case raw.Dialogue == nil:
		return empty, missingField(fmt.Sprintf("scenes[%d].dialogue", index))
	case raw.DialogueStruct == nil:
		return empty, missingField(fmt.Sprintf("scenes[%d].dialogueStructure", index))
	case raw.DurationSeconds == nil:
		return empty, missingField(fmt.Sprintf("scenes[%d].duration", index))
	}
	return Scene{
		Number:          *raw.Number,
		Timeline:        *raw.Timeline,
		VisualPrompt:    *raw.VisualPrompt,
		CameraMovement:  *raw.CameraMovement,
		Dialogue:        *raw.Dialogue,
		DialogueStruct:  DialogueStructure(*raw.DialogueStruct),
		DurationSeconds: *raw.DurationSeconds,
	}, nil
}

func buildTimelineEntry(index int, raw rawTimelineEntry) (TimelineEntry, error) {
	var empty TimelineEntry
	switch {
	case raw.ID == nil:
		return empty, missingField(fmt.Sprintf("timelineJson[%d].id", index))
	case raw.StartTime == nil:
		return empty, missingField(fmt.Sprintf("timelineJson[%d].start_time", index))
	case raw.EndTime == nil:
		return empty, missingField(fmt.Sprintf("timelineJson[%d].end_time", index))
	case raw.Prompt == nil:
		return empty, missingField(fmt.Sprintf("timelineJson[%d].prompt", index))
	case raw.Dialogue == nil:
		return empty, missingField(fmt.Sprintf("timelineJson[%d].dialogue", index))
	}
	return TimelineEntry{
		ID:        *raw.ID,
		StartTime: *raw.StartTime,
		EndTime:   *raw.EndTime,
		Prompt:    *raw.Prompt,
		Dialogue:  *raw.Dialogue,
	}, nil
}

func missingField(path string) error {
	return fmt.Errorf("%w: missing required field %q", ErrMalformedPayload, path)
}

// Encode serializes the document to the interchange format. Decoding the
// result with Decode yields an equal document.
func Encode(doc *Document) (string, error) {
	if doc == nil {
		return "", errors.New("nil document")
	}
	encoded, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	return string(encoded), nil
}

func stripCodeFence(content string) string {
	if !strings.HasPrefix(content, "```") {
		return content
	}
	body := strings.TrimLeft(content[3:], " \t\r\n")
	if len(body) >= 4 && strings.EqualFold(body[:4], "json") {
		body = strings.TrimLeft(body[4:], " \t\r\n")
	}
	if idx := strings.LastIndex(body, "```"); idx >= 0 {
		body = body[:idx]
	}
	return strings.TrimSpace(body)
}

func payloadSnippet(content string) string {
	clean := strings.Join(strings.Fields(content), " ")
	const limit = 160
	runes := []rune(clean)
	if len(runes) > limit {
		clean = string(runes[:limit]) + "..."
	}
	if clean == "" {
		return "<empty>"
	}
	return clean
}
