package command

import (
	"fmt"
	"strconv"

	"campusmess/internal/microservices/http-api/dto"

	"github.com/spf13/cobra"
)

func newReviewCmd(opts *options) *cobra.Command {
	reviewCmd := &cobra.Command{
		Use:   "review",
		Short: "Review commands",
	}

	var req dto.CreateReviewRequest
	addCmd := &cobra.Command{
		Use:   "add [mess-id] [rating]",
		Short: "Rate a mess (1-5)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rating, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid rating: %w", err)
			}
			if rating < dto.MinRating || rating > dto.MaxRating {
				return fmt.Errorf("rating must be between %d and %d", dto.MinRating, dto.MaxRating)
			}
			req.MessID, req.Rating = args[0], rating

			c, err := opts.authenticatedClient()
			if err != nil {
				return err
			}
			review, err := c.AddReview(req)
			if err != nil {
				return checkAuth(err)
			}
			success(cmd.OutOrStdout(), "Review submitted successfully!")
			fmt.Fprintf(cmd.OutOrStdout(), "Review ID: %s\nYour Rating: %d/5\n", review.ID, review.Rating)
			return nil
		},
	}
	addCmd.Flags().StringVarP(&req.Comment, "comment", "m", "", "review text")
	addCmd.Flags().StringSliceVar(&req.Photos, "photo", nil, "photo URL, may be repeated")

	reviewCmd.AddCommand(addCmd)
	return reviewCmd
}
