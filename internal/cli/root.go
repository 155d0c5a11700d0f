// Package cli wires the heritage commands: the web server and catalog maintenance tools.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"finitefield.org/heritage-web/internal/platform/config"
	"finitefield.org/heritage-web/internal/platform/observability"
)

// app carries state resolved once in the root pre-run and shared by subcommands.
type app struct {
	envFile string
	cfg     config.Config
	logger  *zap.Logger
}

// NewRootCmd builds the heritage command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "heritage",
		Short: "Browse the cultural heritage of India",
		Long: `Heritage serves a website and JSON API for exploring Indian monuments, festivals,
music, dance and crafts by state, region and category.

Configuration is read from HERITAGE_* environment variables and an optional .env file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Context(), config.WithEnvFile(a.envFile))
			if err != nil {
				return err
			}
			logger, err := observability.NewLogger(cfg.Logging.Level)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			a.cfg = cfg
			a.logger = logger.Named("heritage")
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "Path to a .env file; missing files are ignored")

	cmd.AddCommand(newServeCmd(a))
	cmd.AddCommand(newCatalogCmd(a))

	return cmd
}
