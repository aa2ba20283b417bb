package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/runnerr0/diary/internal/config"
	"github.com/runnerr0/diary/internal/diary"
	"github.com/runnerr0/diary/internal/storage"
)

// session bundles everything a command needs to talk to the diary.
type session struct {
	cfg     *config.Config
	dbPath  string
	db      *sql.DB
	kv      *storage.SQLiteKV
	store   *storage.DiaryStore
	manager *diary.Manager
	logger  *slog.Logger
}

// openSession resolves config, opens and migrates the database, and wires
// the store and manager. The manager is not bootstrapped yet.
func openSession(globals *GlobalFlags) (*session, error) {
	cfg, err := resolveConfig(globals)
	if err != nil {
		return nil, err
	}

	dbPath, err := resolveDBPath(globals, cfg)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sess, err := newSession(cfg, db, dbPath, newLogger(cfg.Logging, globals.Verbose, os.Stderr))
	if err != nil {
		db.Close()
		return nil, err
	}
	return sess, nil
}

// newSession migrates db and builds the store and manager on top of it.
func newSession(cfg *config.Config, db *sql.DB, dbPath string, logger *slog.Logger) (*session, error) {
	runner := storage.NewMigrationRunner(db).WithJournalMode(cfg.Storage.SQLiteJournalMode)
	if err := runner.Run(); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	kv, err := storage.NewSQLiteKV(db)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	store := storage.NewDiaryStore(kv, cfg.Storage.Key)
	return &session{
		cfg:     cfg,
		dbPath:  dbPath,
		db:      db,
		kv:      kv,
		store:   store,
		manager: diary.NewManager(store, managerOptions(cfg, logger)...),
		logger:  logger,
	}, nil
}

// openBootstrapped opens a session and hydrates the diary from storage.
func openBootstrapped(ctx context.Context, globals *GlobalFlags) (*session, error) {
	sess, err := openSession(globals)
	if err != nil {
		return nil, err
	}
	if err := sess.manager.Bootstrap(ctx); err != nil {
		sess.Close()
		return nil, err
	}
	return sess, nil
}

// Close releases the store's statements and the database.
func (s *session) Close() {
	s.kv.Close()
	s.db.Close()
}

func managerOptions(cfg *config.Config, logger *slog.Logger) []diary.Option {
	return []diary.Option{
		diary.WithLogger(logger),
		diary.WithInitialID(cfg.Diary.InitialID),
		diary.WithSeedPolicy(diary.SeedPolicy(cfg.Diary.IDSeed)),
		diary.WithMalformedReset(cfg.Storage.OnMalformed == "reset"),
	}
}

// resolveConfig loads --config if given, else the default config file,
// falling back to defaults plus environment only when that file cannot be
// created. An existing file that fails to load is an error.
func resolveConfig(globals *GlobalFlags) (*config.Config, error) {
	if globals.Config != "" {
		cfg, err := config.Load(globals.Config)
		if err != nil {
			return nil, err
		}
		return cfg, nil
	}

	cfg, err := config.LoadOrCreate()
	if err != nil {
		if errors.Is(err, config.ErrCreateConfig) {
			return config.FromEnv()
		}
		return nil, fmt.Errorf("loading %s: %w", config.DefaultConfigPath, err)
	}
	return cfg, nil
}

// resolveDBPath determines the SQLite database file path.
// Priority: --db flag > config file > default config.
func resolveDBPath(globals *GlobalFlags, cfg *config.Config) (string, error) {
	if globals.DBPath != "" {
		return globals.DBPath, nil
	}
	return cfg.Storage.DBPath()
}

// newLogger builds the process logger. --verbose forces debug level.
func newLogger(cfg config.LoggingConfig, verbose bool, w io.Writer) *slog.Logger {
	level := parseLevel(cfg.Level)
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// parseDate accepts YYYY-MM-DD or YYYYMMDD (UTC midnight), RFC3339 or
// epoch milliseconds of at least ten digits. Empty means now.
func parseDate(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return now, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("20060102", s); err == nil {
		return t, nil
	}
	// Shorter digit runs are typos, not 1970 timestamps.
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil && len(s) >= 10 {
		return time.UnixMilli(ms), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD, YYYYMMDD, RFC3339 or epoch milliseconds)", s)
}

// readContent returns inline text or the contents of file. They are
// mutually exclusive.
func readContent(inline, file string) (string, error) {
	if inline != "" && file != "" {
		return "", fmt.Errorf("--content and --content-file are mutually exclusive")
	}
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading content file: %w", err)
		}
		return string(data), nil
	}
	return inline, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatDate renders an entry date as YYYY-MM-DD in UTC.
func formatDate(e diary.Entry) string {
	return e.Time().Format("2006-01-02")
}

// preview shortens content to a single line of at most n runes.
func preview(content string, n int) string {
	line := strings.Join(strings.Fields(content), " ")
	runes := []rune(line)
	if len(runes) <= n {
		return line
	}
	return string(runes[:n-3]) + "..."
}
