// Command qsched solves meeting-scheduling problems from JSON files: run a
// single problem, batch a directory of them through a worker pool, or
// generate random problems for load testing.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/okian/qsched/internal/config"
	"github.com/okian/qsched/pkg/logger"
)

func main() {
	logger.Init(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel))
		_ = logger.SetLevelString("info")
	}

	root := &cobra.Command{
		Use:           "qsched",
		Short:         "meeting scheduler with classical, quantum-inspired, and hybrid solvers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(cfg), newBatchCmd(cfg), newGenerateCmd())

	if err := root.ExecuteContext(ctx); err != nil {
		logger.Get().Error(ctx, "command failed", logger.Error(err))
		os.Exit(1)
	}
}
