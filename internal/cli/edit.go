package cli

import (
	"context"
	"fmt"

	"github.com/runnerr0/diary/internal/diary"
)

// Execute implements the go-flags Commander interface for EditCommand.
func (c *EditCommand) Execute(args []string) error {
	if c.ID == 0 {
		return fmt.Errorf("--id is required for edit command")
	}

	ctx := context.Background()
	sess, err := openBootstrapped(ctx, c.globals)
	if err != nil {
		return err
	}
	defer sess.Close()

	return c.executeWithManager(ctx, sess.manager)
}

// executeWithManager merges the flags over the current entry and applies
// the edit (used by tests).
func (c *EditCommand) executeWithManager(ctx context.Context, m *diary.Manager) error {
	current, ok := m.Entry(c.ID)
	if !ok {
		return fmt.Errorf("entry not found: %d", c.ID)
	}

	content, err := readContent(c.Content, c.ContentFile)
	if err != nil {
		return err
	}
	if content == "" {
		content = current.Content
	}

	emotion := current.Emotion
	if c.Emotion != 0 {
		emotion = diary.Emotion(c.Emotion)
	}

	date, err := parseDate(c.Date, current.Time())
	if err != nil {
		return err
	}

	if err := m.Edit(ctx, c.ID, content, emotion, date); err != nil {
		return fmt.Errorf("storing entry: %w", err)
	}

	updated, _ := m.Entry(c.ID)
	if c.globals.JSON {
		return printJSON(updated)
	}

	fmt.Printf("Updated entry %d (%s)\n", updated.ID, formatDate(updated))
	fmt.Printf("  Emotion: %d (%s)\n", updated.Emotion, updated.Emotion)
	fmt.Printf("  Content: %s\n", preview(updated.Content, 60))
	return nil
}
