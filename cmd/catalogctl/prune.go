package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	auditrepo "github.com/light-bringer/procat-web/internal/app/audit/repo"
)

var (
	retentionDays int
	dryRun        bool
)

var pruneAuditCmd = &cobra.Command{
	Use:   "prune-audit",
	Short: "Delete audit log entries older than the retention period",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if retentionDays <= 0 {
			return errors.New("--retention-days must be positive")
		}
		cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)

		ctx, cancel := commandContext(cmd)
		defer cancel()
		client, err := spannerClient(ctx)
		if err != nil {
			return err
		}
		defer client.Close()

		logger.Info("pruning audit log",
			zap.Time("cutoff", cutoff),
			zap.Int("retention_days", retentionDays),
			zap.Bool("dry_run", dryRun),
		)
		n, err := auditrepo.NewAuditRepo(client).Prune(ctx, cutoff, dryRun)
		if err != nil {
			return err
		}

		if dryRun {
			fmt.Fprintf(cmd.OutOrStdout(), "would delete %d entries\n", n)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %d entries\n", n)
		return nil
	},
}

func init() {
	pruneAuditCmd.Flags().IntVar(&retentionDays, "retention-days", 365, "Keep entries newer than this many days")
	pruneAuditCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Count matching entries without deleting them")
}
