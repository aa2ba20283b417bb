package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/runnerr0/diary/internal/storage"
)

// Execute implements the go-flags Commander interface for ExportCommand.
// It reads the slot directly so malformed data can still be recovered.
func (c *ExportCommand) Execute(args []string) error {
	sess, err := openSession(c.globals)
	if err != nil {
		return err
	}
	defer sess.Close()

	return c.executeWithStore(context.Background(), sess.store)
}

// executeWithStore prints the stored JSON, or [] when nothing is stored.
func (c *ExportCommand) executeWithStore(ctx context.Context, store *storage.DiaryStore) error {
	raw, err := store.Raw(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("read diary: %w", err)
		}
		raw = "[]"
	}
	fmt.Println(raw)
	return nil
}
