package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "~/.config/diary", cfg.Storage.Path)
	assert.Equal(t, "diary.db", cfg.Storage.SQLiteFile)
	assert.Equal(t, "wal", cfg.Storage.SQLiteJournalMode)
	assert.Equal(t, "diary", cfg.Storage.Key)
	assert.Equal(t, "fail", cfg.Storage.OnMalformed)
	assert.Equal(t, 5, cfg.Diary.InitialID)
	assert.Equal(t, "largest", cfg.Diary.IDSeed)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8722, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.NoError(t, cfg.Validate())
}

func TestLoadValidYAMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	yamlContent := `
storage:
  key: "journal"
  on_malformed: "reset"
diary:
  initial_id: 1
  id_seed: "smallest"
server:
  port: 9999
  read_timeout: 5s
logging:
  level: "debug"
`
	err := os.WriteFile(cfgPath, []byte(yamlContent), 0644)
	require.NoError(t, err)

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	// Overridden values
	assert.Equal(t, "journal", cfg.Storage.Key)
	assert.Equal(t, "reset", cfg.Storage.OnMalformed)
	assert.Equal(t, 1, cfg.Diary.InitialID)
	assert.Equal(t, "smallest", cfg.Diary.IDSeed)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Non-overridden values keep defaults
	assert.Equal(t, "diary.db", cfg.Storage.SQLiteFile)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoadEnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("server:\n  port: 9999\n"), 0644))

	t.Setenv("DIARY_SERVER_PORT", "7000")
	t.Setenv("DIARY_STORAGE_PATH", "/tmp/diary-env")

	cfg, err := Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "/tmp/diary-env", cfg.Storage.Path)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("DIARY_ID_SEED", "smallest")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "smallest", cfg.Diary.IDSeed)
	assert.Equal(t, "diary", cfg.Storage.Key)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("storage: [unclosed"), 0644))

	_, err := Load(cfgPath)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalidEnums(t *testing.T) {
	cases := map[string]string{
		"on_malformed": "storage:\n  on_malformed: ignore\n",
		"id_seed":      "diary:\n  id_seed: random\n",
		"format":       "logging:\n  format: xml\n",
		"key":          "storage:\n  key: \"  \"\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			cfgPath := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0644))

			_, err := Load(cfgPath)
			assert.Error(t, err)
		})
	}
}

func TestLoadOrCreateAtWritesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "nested", "config.yaml")

	cfg, err := LoadOrCreateAt(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	_, err = os.Stat(cfgPath)
	require.NoError(t, err, "config file should be created")

	// Second load reads the written file back
	again, err := LoadOrCreateAt(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestStorageDBPathExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	p, err := DefaultConfig().Storage.DBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "diary", "diary.db"), p)

	abs := StorageConfig{Path: "/var/lib/diary", SQLiteFile: "d.db"}
	p, err = abs.DBPath()
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/diary/d.db", p)
}

func TestServerAddr(t *testing.T) {
	assert.Equal(t, "127.0.0.1:8722", DefaultConfig().Server.Addr())
}

func TestLoadOrCreateAtUnwritableDirWrapsErrCreateConfig(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	_, err := LoadOrCreateAt(filepath.Join(blocker, "config.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCreateConfig)
}

func TestLoadOrCreateAtInvalidFileIsNotCreateError(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("diary:\n  id_seed: sideways\n"), 0644))

	_, err := LoadOrCreateAt(cfgPath)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCreateConfig)
}
