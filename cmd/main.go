package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/okian/wordscore/internal/config"
	"github.com/okian/wordscore/pkg/logger"
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// cli carries state shared by the subcommands once PersistentPreRunE ran.
type cli struct {
	cfg *config.Config
	log logger.Logger
}

func newRootCommand() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:          "wordscore",
		Short:        "Letter scoring and leaderboard service",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd.Context())
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), c.cfg, c.log)
		},
	}

	rootCmd.AddCommand(
		serveCommand(c),
		migrateCommand(c),
		scoreCommand(),
		rulesCommand(),
	)
	return rootCmd
}

// setup loads configuration (defaults -> optional file -> env) and
// initializes the global logger from it.
func (c *cli) setup(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		return err
	}
	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	c.cfg = cfg
	c.log = log
	return nil
}
