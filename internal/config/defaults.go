package config

import "time"

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Path:              "~/.config/diary",
			SQLiteFile:        "diary.db",
			SQLiteJournalMode: "wal",
			Key:               "diary",
			OnMalformed:       "fail",
		},
		Diary: DiaryConfig{
			InitialID: 5,
			IDSeed:    "largest",
		},
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            8722,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
