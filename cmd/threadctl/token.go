package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/olafwrieden/azurechat-v3/pkg/auth"
)

// newTokenCmd signs a development token with the API's JWT secret
func newTokenCmd(cfg *cliConfig) *cobra.Command {
	var (
		userID string
		email  string
		roles  []string
		expiry time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a development bearer token (needs JWT_SECRET)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfg.JWTSecret == "" {
				return errors.New("JWT_SECRET is not set")
			}
			gen, err := auth.NewJWTGenerator(cfg.JWTSecret, cfg.JWTIssuer, nil, expiry)
			if err != nil {
				return err
			}
			token, err := gen.GenerateToken(userID, email, roles)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&userID, "user", "dev-user", "subject user id")
	flags.StringVar(&email, "email", "", "email claim")
	flags.StringSliceVar(&roles, "role", nil, "role claim, repeatable")
	flags.DurationVar(&expiry, "expiry", time.Hour, "token lifetime")
	return cmd
}
