// Package commands implements the schoolctl command tree.
package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/contoso/university/internal/infra/config"
	"github.com/contoso/university/internal/utils/logger"
)

// CLI output formatters
var (
	SuccessColor = color.New(color.FgGreen, color.Bold)
	ErrorColor   = color.New(color.FgRed, color.Bold)
	InfoColor    = color.New(color.FgCyan)
	WarningColor = color.New(color.FgYellow)
)

// options holds the persistent flags shared by every command.
type options struct {
	contentRoot string
	environment string
	noColor     bool
}

// NewRootCmd creates the schoolctl root command with all subcommands.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "schoolctl",
		Short: "Contoso University administration tool",
		Long: `schoolctl manages the Contoso University database and access tokens.

Settings are read from appsettings.json and appsettings.{Environment}.json in
the content root, with CONTOSO_* environment variables taking precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				color.NoColor = true
			}
		},
	}

	root.PersistentFlags().StringVar(&opts.contentRoot, "content-root", config.ContentRoot(), "Directory holding appsettings files")
	root.PersistentFlags().StringVar(&opts.environment, "environment", config.Environment(), "Environment name")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	root.AddCommand(newMigrateCmd(opts))
	root.AddCommand(newSeedCmd(opts))
	root.AddCommand(newTokenCmd(opts))

	return root
}

func (o *options) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFrom(o.contentRoot, o.environment)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.NewZapLogger(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
}
