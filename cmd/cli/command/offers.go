package command

import (
	"fmt"

	"campusmess/internal/microservices/http-api/dto"

	"github.com/spf13/cobra"
)

func newOffersCmd(opts *options) *cobra.Command {
	offersCmd := &cobra.Command{
		Use:   "offers",
		Short: "Special offers",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List offers that are still valid",
		RunE: func(cmd *cobra.Command, args []string) error {
			offers, err := opts.newClient(opts).Offers()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(offers) == 0 {
				fmt.Fprintln(out, "No active offers right now.")
				return nil
			}
			for _, o := range offers {
				fmt.Fprintf(out, "%s  %s at %s, until %s [mess %s]\n",
					o.ID, o.Title, o.MessName, o.ValidUntil.Format("2006-01-02"), o.MessID)
			}
			return nil
		},
	}

	claimCmd := &cobra.Command{
		Use:   "claim [mess-id] [offer-id]",
		Short: "Claim an offer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.authenticatedClient()
			if err != nil {
				return err
			}
			message, err := c.ClaimOffer(dto.ClaimOfferRequest{MessID: args[0], OfferID: args[1]})
			if err != nil {
				return checkAuth(err)
			}
			success(cmd.OutOrStdout(), "%s", message)
			return nil
		},
	}

	offersCmd.AddCommand(listCmd, claimCmd)
	return offersCmd
}
