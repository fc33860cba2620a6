package prompt

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"storyreel/internal/brief"
)

// Sampling carries the generation parameters sent with every request.
type Sampling struct {
	Temperature float32
	TopP        float32
}

// DefaultSampling favors creative variety while keeping the structured
// output stable.
var DefaultSampling = Sampling{Temperature: 0.8, TopP: 0.95}

// Request is a complete, provider-agnostic generation request.
type Request struct {
	Instruction string
	System      string
	SchemaName  string
	Schema      json.RawMessage
	Sampling    Sampling
}

const systemRules = `You are an expert prompt engineer and creative writer for AI video and audio generation tools. Your output must be a single, valid JSON object adhering to the provided schema.

Key instructions:
- As a world-class film score composer, generate a BGM (background music) prompt covering the entire scenario: style/genre, key instruments, and overall mood.
- narration.script: write a full, cohesive narration script for the entire video's duration, ready for a text-to-speech engine.
- narrationScriptJson: split the narration script into per-cut segments keyed by cut number.
- scenes.dialogue: generate relevant dialogue for each scene and embed voice and emotion tags directly in the dialogue string using square brackets, like 'Character A: [shouting angrily] I can't believe it!'. If a scene has no dialogue, use the string 'None'.
- scenes.dialogueStructure: classify each scene's dialogue as one of 'Narration', 'Monologue', '1-on-1 Conversation', or 'Multi-person Conversation'.
- scenes: create a human-readable breakdown for each scene. The number of scenes must exactly match the user's request.
- narration.voiceTags: from the voice parameters, generate a compact tag string for an AI audio tool.
- timelineJson: create a machine-readable array for AI video tools. Combine visualPrompt and cameraMovement into the single prompt field, copy each scene's dialogue verbatim into the matching entry, and compute start_time and end_time so the cuts tile the total duration without gaps or overlaps.

The entire JSON output, including all text values, must be in %s.`

// Build renders the provider request for a canonical brief.
func Build(b *brief.Brief) (*Request, error) {
	if b == nil {
		return nil, errors.New("nil brief")
	}
	return &Request{
		Instruction: buildInstruction(b),
		System:      fmt.Sprintf(systemRules, brief.LanguageName(b.Locale)),
		SchemaName:  SchemaName,
		Schema:      json.RawMessage(responseSchema),
		Sampling:    DefaultSampling,
	}, nil
}

func buildInstruction(b *brief.Brief) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Generate a short-form video scenario based on the following prompt: %q.\n\n", b.Prompt)

	fmt.Fprintf(&sb, "Constraints:\n")
	fmt.Fprintf(&sb, "- Total Video Length: %d seconds\n", b.TotalSeconds)
	fmt.Fprintf(&sb, "- Number of Scenes/Cuts: %d\n", b.CutCount)
	fmt.Fprintf(&sb, "- Average Cut Duration: %d seconds\n\n", b.CutSeconds)

	fmt.Fprintf(&sb, "Setting:\n")
	fmt.Fprintf(&sb, "- Historical Background: %s\n", b.Era)
	fmt.Fprintf(&sb, "- National/Regional Background: %s\n\n", b.Region)

	fmt.Fprintf(&sb, "Narration Voice Parameters:\n")
	fmt.Fprintf(&sb, "- Tone: %s\n", b.Voice.Tone)
	fmt.Fprintf(&sb, "- Gender: %s\n", b.Voice.Gender)
	fmt.Fprintf(&sb, "- Emotion: %s\n", b.Voice.Emotion)
	fmt.Fprintf(&sb, "- Reverb: %s\n", b.Voice.Reverb)

	if len(b.Characters) > 0 {
		fmt.Fprintf(&sb, "\nCharacters (use these exactly as given):\n")
		for _, c := range b.Characters {
			if c.Description != "" {
				fmt.Fprintf(&sb, "- %s: %s\n", c.Name, c.Description)
			} else {
				fmt.Fprintf(&sb, "- %s\n", c.Name)
			}
		}
	}

	sb.WriteString("\nAuto-generate a full narration script and scene-by-scene dialogues from the core scenario. Produce a detailed, prompt-ready structure for each cut, a complete narration script, a background music prompt, and a machine-readable JSON timeline.")
	return sb.String()
}
