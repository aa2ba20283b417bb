package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

// Default config file path.
const DefaultConfigPath = "~/.config/diary/config.yaml"

// ErrCreateConfig marks failures to locate or write the default config
// file. Errors reading an existing file are not wrapped with it.
var ErrCreateConfig = errors.New("cannot create config file")

// Config holds all diary configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Diary   DiaryConfig   `yaml:"diary"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

type StorageConfig struct {
	Path              string `yaml:"path"                env:"DIARY_STORAGE_PATH"`
	SQLiteFile        string `yaml:"sqlite_file"         env:"DIARY_SQLITE_FILE"`
	SQLiteJournalMode string `yaml:"sqlite_journal_mode" env:"DIARY_SQLITE_JOURNAL_MODE"`
	Key               string `yaml:"key"                 env:"DIARY_STORAGE_KEY"`
	// OnMalformed is "fail" or "reset".
	OnMalformed string `yaml:"on_malformed" env:"DIARY_ON_MALFORMED"`
}

type DiaryConfig struct {
	InitialID int `yaml:"initial_id" env:"DIARY_INITIAL_ID"`
	// IDSeed is "largest" or "smallest".
	IDSeed string `yaml:"id_seed" env:"DIARY_ID_SEED"`
}

type ServerConfig struct {
	Host            string        `yaml:"host"             env:"DIARY_SERVER_HOST"`
	Port            int           `yaml:"port"             env:"DIARY_SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"DIARY_SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"DIARY_SERVER_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"DIARY_SERVER_SHUTDOWN_TIMEOUT"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"  env:"DIARY_LOG_LEVEL"`
	Format string `yaml:"format" env:"DIARY_LOG_FORMAT"`
}

// Addr returns host:port for the HTTP listener.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DBPath returns the SQLite database file path with ~ expanded.
func (s StorageConfig) DBPath() (string, error) {
	dir, err := expandPath(s.Path)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, s.SQLiteFile), nil
}

// Load reads a YAML config file at path and merges it over defaults, then
// applies DIARY_* environment overrides. Returns an error if the file
// cannot be read, contains invalid YAML, or fails validation.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// FromEnv returns defaults with DIARY_* environment overrides applied.
func FromEnv() (*Config, error) {
	cfg := DefaultConfig()
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch c.Storage.OnMalformed {
	case "fail", "reset":
	default:
		return fmt.Errorf("storage.on_malformed must be fail or reset, got %q", c.Storage.OnMalformed)
	}

	switch c.Diary.IDSeed {
	case "largest", "smallest":
	default:
		return fmt.Errorf("diary.id_seed must be largest or smallest, got %q", c.Diary.IDSeed)
	}

	if strings.TrimSpace(c.Storage.Key) == "" {
		return fmt.Errorf("storage.key must not be empty")
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}

	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}

	return nil
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// LoadOrCreate loads the config from the default path. If the file does
// not exist, it creates the directory structure and writes defaults.
// Failures to create the file wrap ErrCreateConfig.
func LoadOrCreate() (*Config, error) {
	path, err := expandPath(DefaultConfigPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCreateConfig, err)
	}
	return LoadOrCreateAt(path)
}

// LoadOrCreateAt loads the config from the given path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreateAt(path string) (*Config, error) {
	_, err := os.Stat(path)
	if err != nil && !os.IsNotExist(err) {
		// e.g. a parent path component is a regular file.
		return nil, fmt.Errorf("%w: %v", ErrCreateConfig, err)
	}
	if os.IsNotExist(err) {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("%w: creating config directory: %v", ErrCreateConfig, err)
		}

		data, err := yaml.Marshal(DefaultConfig())
		if err != nil {
			return nil, fmt.Errorf("marshaling default config: %w", err)
		}

		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("%w: writing default config: %v", ErrCreateConfig, err)
		}
	}

	return Load(path)
}
