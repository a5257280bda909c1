package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	indexinguc "github.com/kailas-cloud/catalogsearch/internal/usecase/indexing"
)

func newSchemaCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the search index mapping of the configured catalog as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := indexinguc.New(a.catalog, a.registry, nil, a.logger)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(svc.Schema()); err != nil {
				return fmt.Errorf("encode schema: %w", err)
			}
			return nil
		},
	}
}
