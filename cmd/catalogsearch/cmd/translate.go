package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/catalogsearch/internal/domain/search/request"
	searchuc "github.com/kailas-cloud/catalogsearch/internal/usecase/search"
)

func newTranslateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "translate [query-json]",
		Short: "Print the engine filter for a catalog query",
		Long: `Translate a catalog query into the engine filter DSL.

The query is a JSON object mapping catalog index names to query arguments,
read from the argument or, when omitted, from stdin:

  catalogsearch translate '{"portal_type": "Document", "path": {"query": "/plone", "depth": 1}}'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := queryInput(cmd, args)
			if err != nil {
				return err
			}
			var query map[string]any
			if err := json.Unmarshal(raw, &query); err != nil {
				return fmt.Errorf("parse query: %w", err)
			}
			req, err := request.New(query, 0, 0)
			if err != nil {
				return fmt.Errorf("invalid query: %w", err)
			}

			tr, err := searchuc.New(a.catalog, a.registry, nil, a.logger).Translate(req)
			if err != nil {
				return fmt.Errorf("translate: %w", err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(map[string]any{
				"filter":    tr.Filter,
				"relevance": tr.Relevance,
			}); err != nil {
				return fmt.Errorf("encode translation: %w", err)
			}
			return nil
		},
	}
}

func queryInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 1 {
		return []byte(args[0]), nil
	}
	raw, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("read query: %w", err)
	}
	return raw, nil
}
