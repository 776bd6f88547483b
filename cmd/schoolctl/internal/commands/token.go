package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/contoso/university/internal/adapter/outbound/token"
)

// ErrMissingSecret is returned when auth.jwt_secret is not configured.
var ErrMissingSecret = errors.New("auth.jwt_secret is not configured")

func newTokenCmd(opts *options) *cobra.Command {
	var (
		subject string
		roles   []string
		expiry  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the Students pages",
		Example: `  schoolctl token --subject registrar --role admin
  schoolctl token --subject auditor --expiry 1h`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if cfg.Auth.JWTSecret == "" {
				return ErrMissingSecret
			}
			if expiry <= 0 {
				expiry = cfg.Auth.TokenExpiry
			}

			tokens := token.NewJWTManager(&token.Config{
				Secret: cfg.Auth.JWTSecret,
				Issuer: cfg.Auth.Issuer,
				Expiry: expiry,
			})
			tok, err := tokens.Issue(subject, roles)
			if err != nil {
				return fmt.Errorf("issue token: %w", err)
			}

			if !cfg.Auth.Enabled {
				fmt.Fprintln(cmd.ErrOrStderr(), WarningColor.Sprint("auth.enabled is false; the server ignores tokens"))
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "Token subject")
	cmd.Flags().StringSliceVar(&roles, "role", nil, "Role to grant (repeatable)")
	cmd.Flags().DurationVar(&expiry, "expiry", 0, "Token lifetime (defaults to auth.token_expiry)")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}
