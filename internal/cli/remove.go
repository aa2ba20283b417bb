package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/runnerr0/diary/internal/diary"
)

// Execute implements the go-flags Commander interface for RemoveCommand.
func (c *RemoveCommand) Execute(args []string) error {
	if c.ID == 0 {
		return fmt.Errorf("--id is required for remove command")
	}

	ctx := context.Background()
	sess, err := openBootstrapped(ctx, c.globals)
	if err != nil {
		return err
	}
	defer sess.Close()

	return c.executeWithManager(ctx, sess.manager, os.Stdin)
}

// executeWithManager confirms unless --force and removes the entry (used by
// tests). A missing id is reported but still dispatched.
func (c *RemoveCommand) executeWithManager(ctx context.Context, m *diary.Manager, in io.Reader) error {
	_, existed := m.Entry(c.ID)

	if existed && !c.Force {
		fmt.Printf("Delete entry %d? This cannot be undone. [y/N]: ", c.ID)
		scanner := bufio.NewScanner(in)
		if !scanner.Scan() {
			return fmt.Errorf("aborted: no input received")
		}
		answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if answer != "y" && answer != "yes" {
			return fmt.Errorf("aborted")
		}
	}

	if err := m.Remove(ctx, c.ID); err != nil {
		return fmt.Errorf("removing entry: %w", err)
	}

	if c.globals.JSON {
		return printJSON(map[string]interface{}{
			"id":      c.ID,
			"removed": existed,
		})
	}

	if existed {
		fmt.Printf("Removed entry %d\n", c.ID)
	} else {
		fmt.Printf("No entry %d; nothing removed\n", c.ID)
	}
	return nil
}
