package config

const (
	defaultDataDir             = "~/.local/share/planttracker"
	defaultLogDir              = "~/.local/share/planttracker/logs"
	defaultTokenFile           = "~/.config/planttracker/session.json"
	defaultBackendMode         = BackendRemote
	defaultBackendBaseURL      = "http://localhost:8000"
	defaultBackendTimeout      = 30
	defaultPlantNetBaseURL     = "https://my-api.plantnet.org"
	defaultPlantNetProject     = "all"
	defaultPlantNetTimeout     = 30
	defaultThreshold           = 0.01
	defaultLocationTimeoutMS   = 2000
	defaultStaleResponses      = StaleApply
	defaultHistoryLocale       = "en"
	defaultSessionCacheSeconds = 300
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			LogDir:    defaultLogDir,
			TokenFile: defaultTokenFile,
		},
		Backend: Backend{
			Mode:           defaultBackendMode,
			BaseURL:        defaultBackendBaseURL,
			TimeoutSeconds: defaultBackendTimeout,
		},
		PlantNet: PlantNet{
			BaseURL:        defaultPlantNetBaseURL,
			Project:        defaultPlantNetProject,
			TimeoutSeconds: defaultPlantNetTimeout,
		},
		Identify: Identify{
			Threshold:         defaultThreshold,
			LocationTimeoutMS: defaultLocationTimeoutMS,
			StaleResponses:    defaultStaleResponses,
		},
		History: History{
			Locale: defaultHistoryLocale,
		},
		Session: Session{
			CacheTTLSeconds: defaultSessionCacheSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
