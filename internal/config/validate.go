package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks cross-field constraints after normalization. It reports
// every problem at once so users fix their config in one pass.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Paths.DataDir) == "" {
		problems = append(problems, "paths.data_dir must be set")
	}
	if strings.TrimSpace(c.Paths.APIBind) == "" {
		problems = append(problems, "paths.api_bind must be set")
	}

	if c.Provider.Temperature < 0 || c.Provider.Temperature > 2 {
		problems = append(problems, fmt.Sprintf(
			"provider.temperature must be between 0 and 2, got %g", c.Provider.Temperature))
	}
	if c.Provider.TopP < 0 || c.Provider.TopP > 1 {
		problems = append(problems, fmt.Sprintf(
			"provider.top_p must be between 0 and 1, got %g", c.Provider.TopP))
	}
	if c.Provider.TimeoutSeconds <= 0 {
		problems = append(problems, "provider.timeout_seconds must be positive")
	}

	if c.Validation.DurationDriftRatio < 0 || c.Validation.DurationDriftRatio >= 1 {
		problems = append(problems, fmt.Sprintf(
			"validation.duration_drift_ratio must be in [0, 1), got %g", c.Validation.DurationDriftRatio))
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("logging.level: unsupported value %q", c.Logging.Level))
	}

	if len(problems) > 0 {
		return errors.New("invalid configuration:\n  - " + strings.Join(problems, "\n  - "))
	}
	return nil
}
