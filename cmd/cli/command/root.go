package command

// root.go defines the root command of the campusmess CLI and the global flags.

import (
	"errors"
	"fmt"
	"os"

	"campusmess/cmd/cli/authentication"
	"campusmess/cmd/cli/command/client"

	"github.com/spf13/cobra"
)

const defaultAPIURL = "http://localhost:3000/api"

// options are the global flags shared by every subcommand.
type options struct {
	apiURL string
	demo   bool

	// newClient is swapped by tests
	newClient func(o *options) client.API
}

func defaultClient(o *options) client.API {
	if o.demo {
		return client.NewDemoClient()
	}
	return client.NewHTTPClient(o.apiURL)
}

// NewRootCmd builds the full command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&options{newClient: defaultClient})
}

func newRootCmd(opts *options) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "campusmess",
		Short: "campusmess - CampusMess command line client",
		Long: `campusmess lets you find mess options near your campus from the terminal:
- Register and log in (the session is kept in the OS keyring)
- Search nearby mess by campus or location
- Review a mess and keep a list of favorites
- Browse and claim special offers

Use "campusmess [command] --help" to see all available commands.`,
		SilenceUsage: true,
	}

	// Global persistent flags = available to all subcommands
	rootCmd.PersistentFlags().StringVar(&opts.apiURL, "api", defaultAPIURL, "API server URL")
	rootCmd.PersistentFlags().BoolVar(&opts.demo, "demo", false, "use the offline demo client (demo@campusmess.com / password123)")

	rootCmd.AddCommand(
		newAuthCmd(opts),
		newMessCmd(opts),
		newReviewCmd(opts),
		newFavCmd(opts),
		newOffersCmd(opts),
	)
	return rootCmd
}

// Execute is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err) // Print error to standard error
		os.Exit(1)
	}
}

// authenticatedClient returns a client carrying the stored token.
func (o *options) authenticatedClient() (client.API, error) {
	session, err := authentication.LoadSession()
	if errors.Is(err, authentication.ErrNoSession) {
		return nil, errors.New(`you are not logged in, run "campusmess auth login" first`)
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	c := o.newClient(o)
	c.SetToken(session.Token)
	return c, nil
}

// checkAuth drops the stored session when the server rejects its token.
func checkAuth(err error) error {
	if err == nil {
		return nil
	}
	if client.IsAuthFailure(err) {
		_ = authentication.DeleteSession()
		return fmt.Errorf("%w (session cleared, please log in again)", err)
	}
	return err
}
