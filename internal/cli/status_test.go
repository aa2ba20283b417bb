package cli

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/diary/internal/diary"
)

func TestStatus_EmptyDB(t *testing.T) {
	sess := testSession(t)

	cmd := &StatusCommand{
		globals: &GlobalFlags{},
		version: "dev",
	}

	output := captureOutput(t, func() {
		err := cmd.executeWithSession(sess)
		require.NoError(t, err)
	})

	assert.Contains(t, output, "Diary Status")
	assert.Contains(t, output, "Version:       dev")
	assert.Contains(t, output, "Storage key:   diary (empty)")
	assert.Contains(t, output, "Entries:       0")
	assert.Contains(t, output, "Next ID:       5 (seed: largest)")
	assert.NotContains(t, output, "Emotions:")
}

func TestStatus_WithData(t *testing.T) {
	sess := testSession(t)
	ctx := context.Background()

	dates := []time.Time{
		time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.February, 9, 0, 0, 0, 0, time.UTC),
	}
	emotions := []diary.Emotion{diary.EmotionGreat, diary.EmotionGreat, diary.EmotionBad}
	for i := range dates {
		_, err := sess.manager.Create(ctx, dates[i], "entry", emotions[i])
		require.NoError(t, err)
	}

	cmd := &StatusCommand{globals: &GlobalFlags{}, version: "dev"}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithSession(sess))
	})

	assert.Contains(t, output, "Entries:       3")
	assert.Contains(t, output, "Next ID:       8")
	assert.Contains(t, output, "Oldest:        2024-01-15")
	assert.Contains(t, output, "Newest:        2024-03-02")
	assert.Contains(t, output, "Emotions:")
	assert.Regexp(t, `great\s+2`, output)
	assert.Regexp(t, `bad\s+1`, output)
	assert.Contains(t, output, "written")
}

func TestStatus_JSONOutput(t *testing.T) {
	sess := testSession(t)
	_, err := sess.manager.Create(context.Background(), time.UnixMilli(1700000000000), "one", diary.EmotionOkay)
	require.NoError(t, err)

	cmd := &StatusCommand{globals: &GlobalFlags{JSON: true}, version: "1.0.0"}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithSession(sess))
	})

	var result statusJSON
	require.NoError(t, json.Unmarshal([]byte(output), &result))

	assert.Equal(t, "1.0.0", result.Version)
	assert.Equal(t, "diary", result.StorageKey)
	assert.Equal(t, 1, result.TotalEntries)
	assert.Equal(t, 6, result.NextID)
	assert.Equal(t, "largest", result.IDSeed)
	assert.Equal(t, "2023-11-14", result.OldestEntry)
	assert.Positive(t, result.StoredBytes)
	assert.NotEmpty(t, result.LastWrite)
	require.Len(t, result.Emotions, 5)
	assert.Equal(t, emotionCount{Emotion: 3, Label: "okay", Count: 1}, result.Emotions[2])
}

func TestStatus_DatabaseSizeReported(t *testing.T) {
	sess := testSession(t)

	cmd := &StatusCommand{globals: &GlobalFlags{JSON: true}, version: "dev"}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithSession(sess))
	})

	var result statusJSON
	require.NoError(t, json.Unmarshal([]byte(output), &result))
	assert.Greater(t, result.DatabaseSizeBytes, int64(0), "in-memory DB should report non-zero size via PRAGMA")
}

func TestCountEmotions_UnknownCodesGrouped(t *testing.T) {
	got := countEmotions([]diary.Entry{{Emotion: 1}, {Emotion: 9}, {Emotion: 0}})

	require.Len(t, got, 6)
	assert.Equal(t, 1, got[0].Count)
	assert.Equal(t, emotionCount{Emotion: 0, Label: "unknown", Count: 2}, got[5])
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "1.5 KB", formatBytes(1536))
	assert.Equal(t, "2.0 MB", formatBytes(2<<20))
	assert.Equal(t, "1.0 GB", formatBytes(1<<30))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "0", formatNumber(0))
	assert.Equal(t, "999", formatNumber(999))
	assert.Equal(t, "1,000", formatNumber(1000))
	assert.Equal(t, "123,456", formatNumber(123456))
	assert.Equal(t, "1,234,567", formatNumber(1234567))
}
