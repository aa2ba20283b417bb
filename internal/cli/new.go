package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/runnerr0/diary/internal/diary"
)

// Execute implements the go-flags Commander interface for NewCommand.
func (c *NewCommand) Execute(args []string) error {
	content, date, err := c.resolve(args, time.Now())
	if err != nil {
		return err
	}

	ctx := context.Background()
	sess, err := openBootstrapped(ctx, c.globals)
	if err != nil {
		return err
	}
	defer sess.Close()

	return c.executeWithManager(ctx, sess.manager, date, content)
}

// resolve validates flags and returns the entry text and date.
func (c *NewCommand) resolve(args []string, now time.Time) (string, time.Time, error) {
	inline := c.Content
	if inline == "" && len(args) > 0 {
		inline = strings.Join(args, " ")
	}

	content, err := readContent(inline, c.ContentFile)
	if err != nil {
		return "", time.Time{}, err
	}
	if strings.TrimSpace(content) == "" {
		return "", time.Time{}, fmt.Errorf("entry text is required (--content, --content-file or arguments)")
	}

	date, err := parseDate(c.Date, now)
	if err != nil {
		return "", time.Time{}, err
	}
	return content, date, nil
}

// executeWithManager creates the entry (used by tests).
func (c *NewCommand) executeWithManager(ctx context.Context, m *diary.Manager, date time.Time, content string) error {
	entry, err := m.Create(ctx, date, content, diary.Emotion(c.Emotion))
	if err != nil {
		return fmt.Errorf("storing entry: %w", err)
	}

	if c.globals.JSON {
		return printJSON(entry)
	}

	fmt.Printf("Added entry %d (%s)\n", entry.ID, formatDate(entry))
	fmt.Printf("  Emotion: %d (%s)\n", entry.Emotion, entry.Emotion)
	fmt.Printf("  Content: %s\n", preview(entry.Content, 60))
	return nil
}
