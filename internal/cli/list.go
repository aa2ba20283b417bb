package cli

import (
	"context"
	"fmt"

	"github.com/runnerr0/diary/internal/diary"
)

// Execute implements the go-flags Commander interface for ListCommand.
func (c *ListCommand) Execute(args []string) error {
	query, err := c.query()
	if err != nil {
		return err
	}

	sess, err := openBootstrapped(context.Background(), c.globals)
	if err != nil {
		return err
	}
	defer sess.Close()

	return c.executeWithManager(sess.manager, query)
}

func (c *ListCommand) query() (diary.Query, error) {
	order, err := diary.ParseOrder(c.Order)
	if err != nil {
		return diary.Query{}, err
	}
	mood, err := diary.ParseMood(c.Mood)
	if err != nil {
		return diary.Query{}, err
	}
	month, err := diary.ParseMonth(c.Month)
	if err != nil {
		return diary.Query{}, err
	}
	return diary.Query{Order: order, Mood: mood, Month: month}, nil
}

// executeWithManager prints the matching entries (used by tests).
func (c *ListCommand) executeWithManager(m *diary.Manager, query diary.Query) error {
	entries := query.Apply(m.Entries())

	if c.globals.JSON {
		return printJSON(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No entries.")
		return nil
	}

	for _, e := range entries {
		fmt.Printf("%4d  %s  %-8s  %s\n", e.ID, formatDate(e), e.Emotion, preview(e.Content, 60))
	}
	fmt.Printf("\n%d entries\n", len(entries))
	return nil
}
