package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/runnerr0/diary/internal/server"
)

// Execute implements the go-flags Commander interface for ServeCommand.
func (c *ServeCommand) Execute(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess, err := openBootstrapped(ctx, c.globals)
	if err != nil {
		return err
	}
	defer sess.Close()

	cfg := sess.cfg.Server
	if c.Host != "" {
		cfg.Host = c.Host
	}
	if c.Port != 0 {
		cfg.Port = c.Port
	}

	sess.logger.Info("serving diary", "version", c.version, "db", sess.dbPath, "key", sess.store.Key())
	return server.New(sess.manager, cfg, sess.logger).ListenAndServe(ctx)
}
