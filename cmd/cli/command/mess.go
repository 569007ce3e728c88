package command

import (
	"fmt"
	"io"
	"strings"

	"campusmess/cmd/cli/command/client"
	"campusmess/internal/microservices/http-api/models"

	"github.com/spf13/cobra"
)

func newMessCmd(opts *options) *cobra.Command {
	messCmd := &cobra.Command{
		Use:   "mess",
		Short: "Find mess options",
	}
	messCmd.AddCommand(newNearbyCmd(opts), newShowCmd(opts))
	return messCmd
}

func newNearbyCmd(opts *options) *cobra.Command {
	var (
		lat, lng float64
		params   client.NearbyParams
	)
	cmd := &cobra.Command{
		Use:   "nearby",
		Short: "List mess near a point or on a campus",
		Example: `  campusmess mess nearby --campus engineering
  campusmess mess nearby --lat 28.6139 --lng 77.2090 --max-distance 1.5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			latSet, lngSet := cmd.Flags().Changed("lat"), cmd.Flags().Changed("lng")
			if latSet != lngSet {
				return fmt.Errorf("--lat and --lng must be given together")
			}
			if latSet {
				params.Latitude, params.Longitude = &lat, &lng
			}

			messes, err := opts.newClient(opts).Nearby(params)
			if err != nil {
				return err
			}
			printMessList(cmd.OutOrStdout(), messes)
			return nil
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude")
	cmd.Flags().Float64Var(&lng, "lng", 0, "longitude")
	cmd.Flags().StringVar(&params.Campus, "campus", "", "campus name")
	cmd.Flags().Float64Var(&params.MaxDistance, "max-distance", 0, "radius in km (server default 2)")
	return cmd
}

func newShowCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show [mess-id]",
		Short: "Show a mess with its latest reviews",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			detail, err := opts.newClient(opts).Mess(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			m := detail.Mess
			heading(out, "%s  %s", m.Name, m.Pricing)
			fmt.Fprintf(out, "%s (%s campus, %.0f m)\n", m.Address, m.Campus, m.DistanceFromCampus)
			fmt.Fprintf(out, "Rating: %.1f from %d reviews\n", m.Rating, m.ReviewCount)
			if len(m.Specialties) > 0 {
				fmt.Fprintf(out, "Specialties: %s\n", strings.Join(m.Specialties, ", "))
			}
			for _, offer := range m.SpecialOffers {
				fmt.Fprintf(out, "Offer: %s until %s [%s]\n", offer.Title, offer.ValidUntil.Format("2006-01-02"), offer.ID)
			}
			if len(detail.Reviews) == 0 {
				fmt.Fprintln(out, "No reviews yet.")
				return nil
			}
			fmt.Fprintln(out, "Latest reviews:")
			for _, r := range detail.Reviews {
				fmt.Fprintf(out, "  %d/5 by %s on %s: %s\n", r.Rating, r.User.Name, r.CreatedAt.Format("2006-01-02"), r.Comment)
			}
			return nil
		},
	}
}

func printMessList(out io.Writer, messes []models.Mess) {
	if len(messes) == 0 {
		fmt.Fprintln(out, "No mess found.")
		return
	}
	for _, m := range messes {
		fmt.Fprintf(out, "%s  %-24s %.1f★ (%d)  %s  %s\n", m.ID, m.Name, m.Rating, m.ReviewCount, m.Pricing, m.Campus)
	}
}
