package cli

import (
	"context"
	"fmt"

	"github.com/runnerr0/diary/internal/diary"
)

// Execute implements the go-flags Commander interface for ShowCommand.
func (c *ShowCommand) Execute(args []string) error {
	if c.ID == 0 {
		return fmt.Errorf("--id is required for show command")
	}

	sess, err := openBootstrapped(context.Background(), c.globals)
	if err != nil {
		return err
	}
	defer sess.Close()

	return c.executeWithManager(sess.manager)
}

// executeWithManager prints the entry in the requested format (used by tests).
func (c *ShowCommand) executeWithManager(m *diary.Manager) error {
	entry, ok := m.Entry(c.ID)
	if !ok {
		return fmt.Errorf("entry not found: %d", c.ID)
	}

	if c.globals.JSON {
		return printJSON(entry)
	}

	switch c.Format {
	case "json":
		return printJSON(entry)
	case "md":
		c.outputMarkdown(entry)
	default: // "full"
		c.outputFull(entry)
	}
	return nil
}

func (c *ShowCommand) outputFull(e diary.Entry) {
	fmt.Printf("Entry %d\n", e.ID)
	fmt.Printf("Date:      %s\n", formatDate(e))
	fmt.Printf("Emotion:   %d (%s)\n", e.Emotion, e.Emotion)
	fmt.Println()
	fmt.Println(e.Content)
}

func (c *ShowCommand) outputMarkdown(e diary.Entry) {
	fmt.Println("---")
	fmt.Printf("id: %d\n", e.ID)
	fmt.Printf("date: %s\n", formatDate(e))
	fmt.Printf("emotion: %d\n", e.Emotion)
	fmt.Println("---")
	fmt.Println()
	fmt.Println(e.Content)
}
