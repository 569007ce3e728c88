package command

import (
	"errors"
	"fmt"

	"campusmess/cmd/cli/authentication"
	"campusmess/internal/microservices/http-api/dto"

	"github.com/spf13/cobra"
)

// auth.go handles register, login, logout and whoami.

func newAuthCmd(opts *options) *cobra.Command {
	authCmd := &cobra.Command{
		Use:   "auth",
		Short: "Authentication commands",
		Long:  `Authenticate with the CampusMess API server. Supports register, login, logout and whoami.`,
	}
	authCmd.AddCommand(
		newRegisterCmd(opts),
		newLoginCmd(opts),
		newLogoutCmd(),
		newWhoamiCmd(opts),
	)
	return authCmd
}

func newRegisterCmd(opts *options) *cobra.Command {
	var req dto.RegisterRequest
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a CampusMess account and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(req.Password) < 8 {
				return errors.New("password must be at least 8 characters")
			}
			response, err := opts.newClient(opts).Register(req)
			if err != nil {
				return fmt.Errorf("registration failed: %w", err)
			}
			if err := storeSession(response); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Registration successful! Welcome, %s.", response.User.Name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&req.Name, "name", "n", "", "Full name")
	cmd.Flags().StringVarP(&req.Email, "email", "e", "", "Email address")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "Password (at least 8 characters)")
	cmd.Flags().StringVarP(&req.College, "college", "c", "", "College or campus")
	for _, name := range []string{"name", "email", "password", "college"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newLoginCmd(opts *options) *cobra.Command {
	var req dto.LoginRequest
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to your CampusMess account",
		RunE: func(cmd *cobra.Command, args []string) error {
			response, err := opts.newClient(opts).Login(req)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			if err := storeSession(response); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Logged in as %s <%s>", response.User.Name, response.User.Email)
			return nil
		},
	}
	cmd.Flags().StringVarP(&req.Email, "email", "e", "", "Email address")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "Password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := authentication.DeleteSession(); err != nil {
				return fmt.Errorf("clear session: %w", err)
			}
			success(cmd.OutOrStdout(), "Successfully logged out.")
			return nil
		},
	}
}

func newWhoamiCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := authentication.LoadSession()
			if errors.Is(err, authentication.ErrNoSession) {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
				return nil
			}
			if err != nil {
				return err
			}

			// demo sessions are never known to a server
			if opts.demo {
				printUser(cmd, session.Name, session.Email, session.College)
				return nil
			}

			c := opts.newClient(opts)
			c.SetToken(session.Token)
			user, err := c.Profile()
			if err != nil {
				return checkAuth(err)
			}
			printUser(cmd, user.Name, user.Email, user.College)
			fmt.Fprintf(cmd.OutOrStdout(), "Favorites: %d  Reviews: %d\n", len(user.Favorites), len(user.Reviews))
			return nil
		},
	}
}

func storeSession(response *dto.AuthResponse) error {
	err := authentication.SaveSession(&authentication.Session{
		ID:      response.User.ID,
		Name:    response.User.Name,
		Email:   response.User.Email,
		College: response.User.College,
		Token:   response.Token,
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func printUser(cmd *cobra.Command, name, email, college string) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\nCollege: %s\n", name, email, college)
}
