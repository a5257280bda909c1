// Package cmd provides the CLI commands for catalogsearch.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogsearch/internal/adapter"
	"github.com/kailas-cloud/catalogsearch/internal/config"
	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
	logpkg "github.com/kailas-cloud/catalogsearch/internal/logger"
	"github.com/kailas-cloud/catalogsearch/internal/version"
)

// app is the state shared by every command once configuration is loaded.
type app struct {
	env      string
	cfg      config.Config
	logger   *zap.Logger
	catalog  *catalog.Static
	registry *adapter.Registry
}

// NewRootCmd creates the root command for the catalogsearch CLI.
func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "catalogsearch",
		Short: "Search index adapter for content catalogs",
		Long: `catalogsearch maps catalog indexes onto a search engine:
it declares the index schema, indexes content records and translates
catalog queries into engine filters.`,
		Version:       version.Version,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	cmd.SetVersionTemplate("catalogsearch version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&a.env, "env", config.GetEnv(), "Configuration environment (reads config/<env>.yaml)")

	cmd.AddCommand(newServeCmd(a))
	cmd.AddCommand(newSchemaCmd(a))
	cmd.AddCommand(newTranslateCmd(a))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func (a *app) load() error {
	cfg, err := config.Load(a.env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(loggerEnv(a.env), cfg.Logging.Level, version.Version)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	cat, err := cfg.NewCatalog()
	if err != nil {
		return fmt.Errorf("build catalog: %w", err)
	}

	a.cfg = cfg
	a.logger = logger
	a.catalog = cat
	a.registry = adapter.NewRegistry(logger)
	return nil
}

// loggerEnv maps configuration environments without a logger profile onto the closest one.
func loggerEnv(env string) string {
	switch env {
	case "prod", "local", "dev", "docker", "test":
		return env
	default:
		return "prod"
	}
}
