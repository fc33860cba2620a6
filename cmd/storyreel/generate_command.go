package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"storyreel/internal/brief"
	"storyreel/internal/config"
	"storyreel/internal/history"
	"storyreel/internal/logging"
	"storyreel/internal/pipeline"
	"storyreel/internal/scenario"
	"storyreel/internal/session"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var (
		duration     int
		cutLength    int
		cuts         int
		era          string
		region       string
		voiceTone    string
		voiceGender  string
		voiceEmotion string
		voiceReverb  string
		characters   []string
		locale       string
		jsonOut      bool
		noSave       bool
	)

	cmd := &cobra.Command{
		Use:   "generate <prompt>...",
		Short: "Generate a video scenario from a free-text prompt",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("configure logging: %w", err)
			}

			roster, err := parseCharacters(characters)
			if err != nil {
				return err
			}

			raw := brief.RawInput{
				Prompt:       strings.Join(args, " "),
				TotalSeconds: duration,
				CutSeconds:   cutLength,
				CutCount:     cuts,
				Era:          era,
				Region:       region,
				Voice: brief.VoiceParams{
					Tone:    voiceTone,
					Gender:  voiceGender,
					Emotion: voiceEmotion,
					Reverb:  voiceReverb,
				},
				Characters: roster,
				Locale:     locale,
			}
			applyGenerationDefaults(&raw, cfg.Generation)

			generator, err := ctx.newGenerator(cfg, logger)
			if err != nil {
				return err
			}

			lock, err := session.New(cfg.LockPath())
			if err != nil {
				return err
			}
			if err := lock.Acquire(); err != nil {
				if errors.Is(err, session.ErrBusy) {
					return fmt.Errorf("another generation run is already in flight (lock: %s)", lock.Path())
				}
				return err
			}
			defer lock.Release()

			result, err := generator.Generate(cmd.Context(), raw)
			if err != nil {
				return describeFailure(err)
			}

			var stored *history.Entry
			if !noSave {
				store, err := ctx.openStore(cfg)
				if err != nil {
					return fmt.Errorf("open history store: %w", err)
				}
				defer store.Close()

				stored, err = store.Add(cmd.Context(), &history.Entry{
					RunID:        result.RunID,
					Prompt:       result.Brief.Prompt,
					Locale:       result.Brief.Locale,
					TotalSeconds: result.Brief.TotalSeconds,
					CutSeconds:   result.Brief.CutSeconds,
					CutCount:     result.Brief.CutCount,
					Document:     result.Document,
				})
				if err != nil {
					return fmt.Errorf("save scenario: %w", err)
				}
			}

			if jsonOut {
				payload := map[string]any{
					"runId":    result.RunID,
					"document": result.Document,
				}
				if stored != nil {
					payload["id"] = stored.ID
					payload["createdAt"] = stored.CreatedAt
				}
				return writeJSON(cmd, payload)
			}

			out := cmd.OutOrStdout()
			renderDocument(out, result.Document, shouldColorize(out))
			if stored != nil {
				fmt.Fprintf(out, "\nSaved as %s (run %s, %s elapsed)\n", stored.ID, result.RunID, result.Elapsed.Round(time.Millisecond))
			} else {
				fmt.Fprintf(out, "\nRun %s completed in %s (not saved)\n", result.RunID, result.Elapsed.Round(time.Millisecond))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&duration, "duration", "d", 0, "Target video length in seconds (0 uses the configured default)")
	cmd.Flags().IntVar(&cutLength, "cut-length", 0, "Length of a single cut in seconds")
	cmd.Flags().IntVar(&cuts, "cuts", 0, "Number of cuts to request")
	cmd.Flags().StringVar(&era, "era", "", "Historical period for the scenario")
	cmd.Flags().StringVar(&region, "region", "", "Regional setting for the scenario")
	cmd.Flags().StringVar(&voiceTone, "voice-tone", "", "Narrator voice tone")
	cmd.Flags().StringVar(&voiceGender, "voice-gender", "", "Narrator voice gender")
	cmd.Flags().StringVar(&voiceEmotion, "voice-emotion", "", "Narrator voice emotion")
	cmd.Flags().StringVar(&voiceReverb, "voice-reverb", "", "Narrator voice reverb")
	cmd.Flags().StringArrayVar(&characters, "character", nil, "Character as name:description (repeatable)")
	cmd.Flags().StringVarP(&locale, "locale", "l", "", "Output language tag, e.g. en or ko")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the accepted document as JSON")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Skip persisting the accepted document to history")
	return cmd
}

// applyGenerationDefaults fills unset constraints from the configured
// generation defaults before the brief applies its own built-ins.
func applyGenerationDefaults(raw *brief.RawInput, defaults config.Generation) {
	if raw.TotalSeconds == 0 {
		raw.TotalSeconds = defaults.TotalSeconds
	}
	if raw.CutSeconds == 0 {
		raw.CutSeconds = defaults.CutSeconds
	}
	if raw.CutCount == 0 {
		raw.CutCount = defaults.CutCount
	}
	if raw.Locale == "" {
		raw.Locale = defaults.Locale
	}
}

// parseCharacters converts repeated name:description flags into a roster.
// The description is optional.
func parseCharacters(values []string) ([]scenario.Character, error) {
	if len(values) == 0 {
		return nil, nil
	}
	roster := make([]scenario.Character, 0, len(values))
	for _, value := range values {
		name, description, _ := strings.Cut(value, ":")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("invalid --character value %q: name is required", value)
		}
		roster = append(roster, scenario.Character{
			Name:        name,
			Description: strings.TrimSpace(description),
		})
	}
	return roster, nil
}

// describeFailure turns a pipeline failure into a message the operator can
// act on. The run id lets them correlate with logs.
func describeFailure(err error) error {
	var perr *pipeline.Error
	if !errors.As(err, &perr) {
		return err
	}
	switch perr.Kind {
	case pipeline.FailureInputRejected:
		return fmt.Errorf("request rejected before generation: %v", perr.Err)
	case pipeline.FailureProviderUnavailable:
		return fmt.Errorf("provider unavailable (run %s): %v", perr.RunID, perr.Err)
	case pipeline.FailureEmptyResponse:
		return fmt.Errorf("provider returned no usable payload (run %s); retrying may succeed", perr.RunID)
	case pipeline.FailureMalformedPayload:
		return fmt.Errorf("provider payload could not be decoded (run %s): %v", perr.RunID, perr.Err)
	case pipeline.FailureInvariantViolation:
		if invariant, ok := perr.Invariant(); ok {
			return fmt.Errorf("generated document rejected (%s, run %s): %v", invariant, perr.RunID, perr.Err)
		}
		return fmt.Errorf("generated document rejected (run %s): %v", perr.RunID, perr.Err)
	default:
		return err
	}
}
