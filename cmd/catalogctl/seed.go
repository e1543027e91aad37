package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	siteconfigrepo "github.com/light-bringer/procat-web/internal/app/siteconfig/repo"
	"github.com/light-bringer/procat-web/internal/app/siteconfig/usecases/seed_config"
	"github.com/light-bringer/procat-web/internal/pkg/committer"
)

var seedFile string

var seedConfigCmd = &cobra.Command{
	Use:   "seed-config",
	Short: "Insert missing site configuration keys from a YAML file",
	Long:  `Existing values are never overwritten, so the command is safe to re-run after every deploy.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		f, err := os.Open(seedFile)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", seedFile, err)
		}
		defer f.Close()

		defaults, err := seed_config.Parse(f)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", seedFile, err)
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()
		client, err := spannerClient(ctx)
		if err != nil {
			return err
		}
		defer client.Close()

		uc := seed_config.NewInteractor(siteconfigrepo.NewConfigRepo(client), committer.NewCommitter(client), logger)
		inserted, err := uc.Execute(ctx, defaults)
		if err != nil {
			return err
		}
		logger.Info("site config seeded", zap.Strings("inserted", inserted))
		fmt.Fprintf(cmd.OutOrStdout(), "%d key(s) inserted\n", len(inserted))
		return nil
	},
}

func init() {
	seedConfigCmd.Flags().StringVarP(&seedFile, "file", "f", "configs/site_config.yaml", "YAML file of key: value defaults")
}
