package config

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Path:       "~/.config/linktrack",
			SQLiteFile: "links.db",
		},
		Scan: ScanConfig{
			IntervalMinutes:      15,
			LookbackHours:        24,
			MaxItems:             1000,
			Workers:              4,
			SourceTimeoutSeconds: 60,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Pretty: false,
		},
	}
}
