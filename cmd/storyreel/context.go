package main

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"storyreel/internal/brief"
	"storyreel/internal/config"
	"storyreel/internal/history"
	"storyreel/internal/pipeline"
	"storyreel/internal/prompt"
	"storyreel/internal/services/genai"
)

// documentGenerator is the slice of the pipeline the CLI needs. Tests swap
// in a stub via the context's generator factory.
type documentGenerator interface {
	Generate(ctx context.Context, raw brief.RawInput) (*pipeline.Result, error)
}

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	newGenerator func(cfg *config.Config, logger *slog.Logger) (documentGenerator, error)
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		newGenerator: buildGenerator,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

func (c *commandContext) openStore(cfg *config.Config) (*history.Store, error) {
	return history.Open(cfg.HistoryDBPath())
}

func buildGenerator(cfg *config.Config, logger *slog.Logger) (documentGenerator, error) {
	client, err := genai.NewClient(genai.Config{
		APIKey:         cfg.Provider.APIKey,
		BaseURL:        cfg.Provider.BaseURL,
		Model:          cfg.Provider.Model,
		TimeoutSeconds: cfg.Provider.TimeoutSeconds,
	})
	if err != nil {
		return nil, err
	}
	return pipeline.NewGenerator(client, logger, pipeline.Options{
		DriftRatio: cfg.Validation.DurationDriftRatio,
		Sampling: prompt.Sampling{
			Temperature: float32(cfg.Provider.Temperature),
			TopP:        float32(cfg.Provider.TopP),
		},
	}), nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
