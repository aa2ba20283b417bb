package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/runnerr0/diary/internal/diary"
	"github.com/runnerr0/diary/internal/storage"
)

// statusJSON is the JSON output structure for the status command.
type statusJSON struct {
	Version           string         `json:"version"`
	DatabasePath      string         `json:"database_path"`
	DatabaseSizeBytes int64          `json:"database_size_bytes"`
	StorageKey        string         `json:"storage_key"`
	StoredBytes       int64          `json:"stored_bytes"`
	LastWrite         string         `json:"last_write,omitempty"`
	TotalEntries      int            `json:"total_entries"`
	NextID            int            `json:"next_id"`
	IDSeed            string         `json:"id_seed"`
	OldestEntry       string         `json:"oldest_entry,omitempty"`
	NewestEntry       string         `json:"newest_entry,omitempty"`
	Emotions          []emotionCount `json:"emotions"`
}

type emotionCount struct {
	Emotion int    `json:"emotion"`
	Label   string `json:"label"`
	Count   int    `json:"count"`
}

// statusReport is everything status prints.
type statusReport struct {
	dbPath   string
	dbSize   int64
	key      string
	slot     *storage.SlotInfo
	entries  []diary.Entry
	nextID   int
	idSeed   string
	emotions []emotionCount
}

// Execute implements the go-flags Commander interface for StatusCommand.
func (c *StatusCommand) Execute(args []string) error {
	sess, err := openBootstrapped(context.Background(), c.globals)
	if err != nil {
		return err
	}
	defer sess.Close()

	return c.executeWithSession(sess)
}

// executeWithSession runs status against a provided session (for testing).
func (c *StatusCommand) executeWithSession(sess *session) error {
	ctx := context.Background()

	slot, err := sess.store.Stat(ctx)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("stat diary: %w", err)
	}

	entries := sess.manager.Entries()
	report := statusReport{
		dbPath:   sess.dbPath,
		dbSize:   getDatabaseSize(sess.db, sess.dbPath),
		key:      sess.store.Key(),
		slot:     slot,
		entries:  entries,
		nextID:   sess.manager.NextID(),
		idSeed:   sess.cfg.Diary.IDSeed,
		emotions: countEmotions(entries),
	}

	if c.globals != nil && c.globals.JSON {
		return c.printStatusJSON(report)
	}
	return c.printStatusHuman(report)
}

// countEmotions tallies entries per emotion code, known codes first.
func countEmotions(entries []diary.Entry) []emotionCount {
	counts := map[diary.Emotion]int{}
	for _, e := range entries {
		counts[e.Emotion]++
	}

	var out []emotionCount
	for code := diary.EmotionGreat; code <= diary.EmotionTerrible; code++ {
		out = append(out, emotionCount{Emotion: int(code), Label: code.String(), Count: counts[code]})
		delete(counts, code)
	}
	other := 0
	for _, n := range counts {
		other += n
	}
	if other > 0 {
		out = append(out, emotionCount{Emotion: 0, Label: "unknown", Count: other})
	}
	return out
}

// dateRange returns the oldest and newest entry dates.
func dateRange(entries []diary.Entry) (oldest, newest time.Time) {
	for i, e := range entries {
		t := e.Time()
		if i == 0 || t.Before(oldest) {
			oldest = t
		}
		if i == 0 || t.After(newest) {
			newest = t
		}
	}
	return oldest, newest
}

func (c *StatusCommand) printStatusHuman(r statusReport) error {
	fmt.Println("Diary Status")
	fmt.Println("============")
	fmt.Printf("Version:       %s\n", c.version)
	fmt.Printf("Database:      %s (%s)\n", r.dbPath, formatBytes(r.dbSize))
	if r.slot != nil {
		fmt.Printf("Storage key:   %s (%s, written %s)\n", r.key, formatBytes(r.slot.Bytes), r.slot.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
	} else {
		fmt.Printf("Storage key:   %s (empty)\n", r.key)
	}
	fmt.Printf("Entries:       %s\n", formatNumber(int64(len(r.entries))))
	fmt.Printf("Next ID:       %d (seed: %s)\n", r.nextID, r.idSeed)

	if len(r.entries) > 0 {
		oldest, newest := dateRange(r.entries)
		fmt.Printf("Oldest:        %s\n", oldest.Format("2006-01-02"))
		fmt.Printf("Newest:        %s\n", newest.Format("2006-01-02"))

		fmt.Println()
		fmt.Println("Emotions:")
		for _, e := range r.emotions {
			fmt.Printf("  %-10s %s\n", e.Label, formatNumber(int64(e.Count)))
		}
	}

	return nil
}

func (c *StatusCommand) printStatusJSON(r statusReport) error {
	out := statusJSON{
		Version:           c.version,
		DatabasePath:      r.dbPath,
		DatabaseSizeBytes: r.dbSize,
		StorageKey:        r.key,
		TotalEntries:      len(r.entries),
		NextID:            r.nextID,
		IDSeed:            r.idSeed,
		Emotions:          r.emotions,
	}

	if r.slot != nil {
		out.StoredBytes = r.slot.Bytes
		out.LastWrite = r.slot.UpdatedAt.UTC().Format(time.RFC3339)
	}

	if len(r.entries) > 0 {
		oldest, newest := dateRange(r.entries)
		out.OldestEntry = oldest.Format("2006-01-02")
		out.NewestEntry = newest.Format("2006-01-02")
	}

	return printJSON(out)
}

// getDatabaseSize returns the database file size in bytes.
// For on-disk databases, it uses os.Stat. For in-memory databases,
// it queries page_count * page_size.
func getDatabaseSize(db *sql.DB, dbPath string) int64 {
	// Try file stat first
	if info, err := os.Stat(dbPath); err == nil {
		return info.Size()
	}

	// Fallback: query SQLite for in-memory or unavailable file
	var pageCount, pageSize int64
	if err := db.QueryRow("PRAGMA page_count").Scan(&pageCount); err != nil {
		return 0
	}
	if err := db.QueryRow("PRAGMA page_size").Scan(&pageSize); err != nil {
		return 0
	}
	return pageCount * pageSize
}

// formatBytes formats a byte count into a human-readable string.
func formatBytes(b int64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(b)/float64(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/float64(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// formatNumber formats an int64 with comma separators.
func formatNumber(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if i > 0 {
			result.WriteString(",")
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}
