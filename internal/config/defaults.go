package config

const (
	defaultDataDir            = "~/.local/share/storyreel"
	defaultLogDir             = "~/.local/share/storyreel/logs"
	defaultAPIBind            = "127.0.0.1:8642"
	defaultProviderModel      = "gpt-4o-mini"
	defaultProviderTimeout    = 120
	defaultTemperature        = 0.8
	defaultTopP               = 0.95
	defaultTotalSeconds       = 60
	defaultCutSeconds         = 5
	defaultCutCount           = 12
	defaultLocale             = "en"
	defaultDurationDriftRatio = 0.10
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Provider: Provider{
			Model:          defaultProviderModel,
			TimeoutSeconds: defaultProviderTimeout,
			Temperature:    defaultTemperature,
			TopP:           defaultTopP,
		},
		Generation: Generation{
			TotalSeconds: defaultTotalSeconds,
			CutSeconds:   defaultCutSeconds,
			CutCount:     defaultCutCount,
			Locale:       defaultLocale,
		},
		Validation: Validation{
			DurationDriftRatio: defaultDurationDriftRatio,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
