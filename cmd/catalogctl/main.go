// Command catalogctl runs operational tasks against the catalog database.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/light-bringer/procat-web/internal/config"
	"github.com/light-bringer/procat-web/internal/pkg/logging"
)

var (
	cfg     *config.Config
	logger  *zap.Logger
	verbose bool
	timeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:           "catalogctl",
	Short:         "Operational tasks for the product catalog",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		logger, err = logging.New(level)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "Operation timeout")

	rootCmd.AddCommand(migrateCmd, seedConfigCmd, exportCmd, setPasswordCmd, pruneAuditCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// commandContext bounds a command by --timeout.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), timeout)
}

func spannerClient(ctx context.Context) (*spanner.Client, error) {
	if cfg.SpannerDatabase == "" {
		return nil, config.ErrMissingDatabase
	}
	client, err := spanner.NewClient(ctx, cfg.SpannerDatabase)
	if err != nil {
		return nil, fmt.Errorf("failed to create Spanner client: %w", err)
	}
	return client, nil
}
