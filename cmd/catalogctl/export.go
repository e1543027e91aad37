package main

import (
	"github.com/spf13/cobra"

	"github.com/light-bringer/procat-web/internal/app/catalog/queries/export_products"
	catalogrepo "github.com/light-bringer/procat-web/internal/app/catalog/repo"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every product to stdout as JSON or CSV",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		client, err := spannerClient(ctx)
		if err != nil {
			return err
		}
		defer client.Close()

		return export_products.NewQuery(catalogrepo.NewReadModel(client)).Execute(ctx, exportFormat, cmd.OutOrStdout())
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "Output format: json or csv")
}
