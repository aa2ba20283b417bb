package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/runnerr0/diary/internal/storage"
)

// setKV allows tests to inject a key-value store.
func (c *PurgeCommand) setKV(kv storage.KV) {
	c.kv = kv
}

// Execute implements the go-flags Commander interface for PurgeCommand.
func (c *PurgeCommand) Execute(args []string) error {
	if !c.All {
		return fmt.Errorf("purge requires --all flag for safety")
	}

	// Confirmation prompt unless --force
	if !c.Force {
		fmt.Println("⚠ WARNING: This will permanently delete ALL diary entries.")
		fmt.Println()
		fmt.Println("This action cannot be undone.")
		fmt.Println()
		fmt.Print(`Type "PURGE" to confirm: `)

		scanner := bufio.NewScanner(os.Stdin)
		if !scanner.Scan() {
			return fmt.Errorf("aborted: no input received")
		}
		input := strings.TrimSpace(scanner.Text())
		if input != "PURGE" {
			return fmt.Errorf("aborted: confirmation text did not match")
		}
	}

	// Open or use injected store. The diary is not bootstrapped, so a
	// malformed slot can still be purged.
	kv := c.kv
	key := storage.DefaultDiaryKey
	if kv == nil {
		sess, err := openSession(c.globals)
		if err != nil {
			return err
		}
		defer sess.Close()
		kv = sess.kv
		key = sess.store.Key()
	}

	ctx := context.Background()
	if err := storage.NewDiaryStore(kv, key).Purge(ctx); err != nil {
		return fmt.Errorf("purge failed: %w", err)
	}

	// Output
	if c.globals.JSON {
		return printJSON(map[string]interface{}{
			"purged":  true,
			"message": "all data deleted",
		})
	}

	fmt.Println("Purged all data. The diary is empty.")
	return nil
}
