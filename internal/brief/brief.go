package brief

import (
	"errors"
	"fmt"
	"strings"

	"storyreel/internal/scenario"
)

// Defaults applied when the caller leaves a numeric constraint unset.
const (
	DefaultTotalSeconds = 60
	DefaultCutSeconds   = 5
	DefaultCutCount     = 12
)

// Unspecified is the literal rendered into the provider instruction for any
// style field the user left blank, so the instruction text stays
// deterministic for a given brief.
const Unspecified = "Not specified"

// ErrEmptyPrompt rejects input whose creative prompt is empty or whitespace.
var ErrEmptyPrompt = errors.New("creative prompt is empty")

// VoiceParams describe the requested narration voice. All fields are
// optional free text.
type VoiceParams struct {
	Tone    string
	Gender  string
	Emotion string
	Reverb  string
}

// RawInput holds user input exactly as a flag or form surface produces it:
// strings possibly blank, numbers possibly zero meaning "use the default".
type RawInput struct {
	Prompt       string
	TotalSeconds int
	CutSeconds   int
	CutCount     int
	Era          string
	Region       string
	Voice        VoiceParams
	Characters   []scenario.Character
	Locale       string
}

// Brief is the canonical parameter set. Every field is populated: numeric
// constraints are positive, style fields carry Unspecified when the user
// gave nothing, and Locale is a supported BCP 47 tag.
type Brief struct {
	Prompt       string
	TotalSeconds int
	CutSeconds   int
	CutCount     int
	Era          string
	Region       string
	Voice        VoiceParams
	Characters   []scenario.Character
	Locale       string
}

// Assemble validates and canonicalizes raw input. A blank prompt returns
// ErrEmptyPrompt; negative numeric constraints are rejected; zero means the
// default. Characters with blank names are dropped.
func Assemble(raw RawInput) (*Brief, error) {
	promptText := strings.TrimSpace(raw.Prompt)
	if promptText == "" {
		return nil, ErrEmptyPrompt
	}

	total, err := resolveConstraint("total duration", raw.TotalSeconds, DefaultTotalSeconds)
	if err != nil {
		return nil, err
	}
	cutLen, err := resolveConstraint("cut length", raw.CutSeconds, DefaultCutSeconds)
	if err != nil {
		return nil, err
	}
	cuts, err := resolveConstraint("cut count", raw.CutCount, DefaultCutCount)
	if err != nil {
		return nil, err
	}

	b := &Brief{
		Prompt:       promptText,
		TotalSeconds: total,
		CutSeconds:   cutLen,
		CutCount:     cuts,
		Era:          styleField(raw.Era),
		Region:       styleField(raw.Region),
		Voice: VoiceParams{
			Tone:    styleField(raw.Voice.Tone),
			Gender:  styleField(raw.Voice.Gender),
			Emotion: styleField(raw.Voice.Emotion),
			Reverb:  styleField(raw.Voice.Reverb),
		},
		Characters: canonicalCharacters(raw.Characters),
		Locale:     NormalizeLocale(raw.Locale),
	}
	return b, nil
}

func resolveConstraint(name string, value, fallback int) (int, error) {
	if value < 0 {
		return 0, fmt.Errorf("%s must be positive, got %d", name, value)
	}
	if value == 0 {
		return fallback, nil
	}
	return value, nil
}

func styleField(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Unspecified
	}
	return trimmed
}

func canonicalCharacters(characters []scenario.Character) []scenario.Character {
	kept := make([]scenario.Character, 0, len(characters))
	for _, c := range characters {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			continue
		}
		kept = append(kept, scenario.Character{
			Name:        name,
			Description: strings.TrimSpace(c.Description),
		})
	}
	return kept
}
