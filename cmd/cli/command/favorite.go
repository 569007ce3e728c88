package command

import "github.com/spf13/cobra"

func newFavCmd(opts *options) *cobra.Command {
	favCmd := &cobra.Command{
		Use:   "fav",
		Short: "Manage your favorite mess list",
	}

	toggleCmd := &cobra.Command{
		Use:   "toggle [mess-id]",
		Short: "Add or remove a mess from favorites",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.authenticatedClient()
			if err != nil {
				return err
			}
			resp, err := c.ToggleFavorite(args[0])
			if err != nil {
				return checkAuth(err)
			}
			success(cmd.OutOrStdout(), "%s", resp.Message)
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List your favorites",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.authenticatedClient()
			if err != nil {
				return err
			}
			favorites, err := c.Favorites()
			if err != nil {
				return checkAuth(err)
			}
			printMessList(cmd.OutOrStdout(), favorites)
			return nil
		},
	}

	favCmd.AddCommand(toggleCmd, listCmd)
	return favCmd
}
