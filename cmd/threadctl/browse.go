package main

import (
	"github.com/spf13/cobra"

	"github.com/olafwrieden/azurechat-v3/interfaces/client"
	"github.com/olafwrieden/azurechat-v3/interfaces/tui"
)

func newBrowseCmd(cfg *cliConfig) *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse threads interactively",
		Args:  cobra.NoArgs,
		RunE: withClient(cfg, func(cmd *cobra.Command, c *client.Client, _ []string) error {
			return tui.Run(c, tui.Options{
				UserID:  userID,
				Timeout: cfg.Timeout,
			})
		}),
	}
	cmd.Flags().StringVar(&userID, "user", "", "owner user id for threads created with n")
	return cmd
}
