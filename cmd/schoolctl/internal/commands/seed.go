package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/contoso/university/internal/infra/database"
	"github.com/contoso/university/internal/infra/seed"
)

func newSeedCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the database if needed and load the sample data",
		Long: `Create the school tables when they are missing and insert the sample
students, courses and enrollments unless students already exist. Unlike server
startup, any failure is reported and the command exits non-zero.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			factory, err := database.New(cfg, log)
			if err != nil {
				return err
			}
			defer func() { _ = factory.Close() }()

			fmt.Fprintln(cmd.OutOrStdout(), InfoColor.Sprintf("Seeding %s database...", factory.Provider()))
			if err := seed.CreateDbIfNotExists(cmd.Context(), factory, seed.NewDbInitializer(log), seed.PolicyFatal, log, nil); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), SuccessColor.Sprint("Database ready"))
			return nil
		},
	}
}
