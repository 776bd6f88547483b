package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/contoso/university/internal/infra/database"
)

// ErrMigrateProvider is returned when migrations are requested for a
// provider other than postgres.
var ErrMigrateProvider = errors.New("migrations are only supported for the postgres provider")

func newMigrateCmd(opts *options) *cobra.Command {
	var databaseURL string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the PostgreSQL schema",
		Long: `Apply or roll back the embedded SQL migrations.

The connection string defaults to ConnectionStrings:DefaultConnection and may be
given in URL or keyword/value form.`,
	}
	cmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "Override the configured connection string")

	resolve := func() (string, error) {
		dsn := databaseURL
		if dsn == "" {
			cfg, err := opts.loadConfig()
			if err != nil {
				return "", err
			}
			provider, err := database.ParseProvider(cfg.Database.Provider)
			if err != nil {
				return "", err
			}
			if provider != database.ProviderPostgres {
				return "", fmt.Errorf("%w (configured: %s)", ErrMigrateProvider, provider)
			}
			dsn = cfg.ConnectionStrings.DefaultConnection
		}
		return database.MigrationURL(dsn)
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			url, err := resolve()
			if err != nil {
				return err
			}
			if err := database.MigrateUp(url); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), SuccessColor.Sprint("Migrations applied"))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back all migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			url, err := resolve()
			if err != nil {
				return err
			}
			if err := database.MigrateDown(url); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), WarningColor.Sprint("Migrations rolled back"))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			url, err := resolve()
			if err != nil {
				return err
			}
			version, dirty, err := database.MigrationVersion(url)
			if err != nil {
				return err
			}
			out := fmt.Sprintf("version %d", version)
			if dirty {
				out += WarningColor.Sprint(" (dirty)")
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	})

	return cmd
}
