package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/olafwrieden/azurechat-v3/application/queries"
	"github.com/olafwrieden/azurechat-v3/interfaces/client"
)

// withClient builds the API client and runs fn with it
func withClient(cfg *cliConfig, fn func(cmd *cobra.Command, c *client.Client, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		logger := newLogger(cfg)
		defer func() { _ = logger.Sync() }()

		c, err := newClient(cfg, logger)
		if err != nil {
			return err
		}
		return fn(cmd, c, args)
	}
}

func newCreateCmd(cfg *cliConfig) *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a thread",
		Args:  cobra.NoArgs,
		RunE: withClient(cfg, func(cmd *cobra.Command, c *client.Client, _ []string) error {
			t, err := c.CreateThread(cmd.Context(), userID)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), t)
		}),
	}
	cmd.Flags().StringVar(&userID, "user", "", "owner user id stored in the thread metadata")
	return cmd
}

func newListCmd(cfg *cliConfig) *cobra.Command {
	var (
		query      queries.ListThreadsQuery
		bookmarked string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List threads",
		Args:  cobra.NoArgs,
		RunE: withClient(cfg, func(cmd *cobra.Command, c *client.Client, _ []string) error {
			if bookmarked != "" {
				b, err := strconv.ParseBool(bookmarked)
				if err != nil {
					return fmt.Errorf("invalid --bookmarked value %q", bookmarked)
				}
				query.Bookmarked = &b
			}
			threads, err := c.ListThreads(cmd.Context(), query)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), threads)
		}),
	}
	flags := cmd.Flags()
	flags.IntVar(&query.Limit, "limit", 0, "maximum number of threads to fetch")
	flags.StringVar(&query.Order, "order", "", "sort by creation time: asc or desc")
	flags.StringVar(&bookmarked, "bookmarked", "", "only bookmarked (true) or unbookmarked (false) threads")
	flags.StringVar(&query.UserID, "user", "", "only threads owned by this user")
	return cmd
}

func newGetCmd(cfg *cliConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "get <thread-id>",
		Short: "Show a thread",
		Args:  cobra.ExactArgs(1),
		RunE: withClient(cfg, func(cmd *cobra.Command, c *client.Client, args []string) error {
			t, err := c.GetThread(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), t)
		}),
	}
}

func newBookmarkCmd(cfg *cliConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "bookmark <thread-id>",
		Short: "Toggle the bookmark flag of a thread",
		Args:  cobra.ExactArgs(1),
		RunE: withClient(cfg, func(cmd *cobra.Command, c *client.Client, args []string) error {
			t, err := c.ToggleBookmark(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), t)
		}),
	}
}

func newRenameCmd(cfg *cliConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <thread-id> <title>",
		Short: "Set the title of a thread",
		Args:  cobra.MinimumNArgs(2),
		RunE: withClient(cfg, func(cmd *cobra.Command, c *client.Client, args []string) error {
			t, err := c.RenameThread(cmd.Context(), args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), t)
		}),
	}
}

func newDeleteCmd(cfg *cliConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <thread-id>",
		Short: "Delete a thread",
		Args:  cobra.ExactArgs(1),
		RunE: withClient(cfg, func(cmd *cobra.Command, c *client.Client, args []string) error {
			result, err := c.DeleteThread(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := printJSON(cmd.OutOrStdout(), result); err != nil {
				return err
			}
			if !result.Success {
				return fmt.Errorf("thread %s was not deleted", args[0])
			}
			return nil
		}),
	}
}
