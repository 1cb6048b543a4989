package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Dosada05/club-admin/access"
	"github.com/Dosada05/club-admin/client"
)

const loginFailedMessage = "invalid email or password"

func newRegisterCmd(a *app) *cobra.Command {
	var req client.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Email == "" || req.Password == "" {
				return errors.New("--email and --password are required")
			}

			if _, err := a.gateway.SignUp(cmd.Context(), req); err != nil {
				var apiErr *client.APIError
				if errors.As(err, &apiErr) && len(apiErr.Fields) > 0 {
					a.logger.Debug("registration rejected", slog.Any("fields", apiErr.Fields))
				}
				return a.fail("could not create the account", err)
			}
			return printSessionUser(a, cmd)
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "Email (required)")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password, at least 6 characters (required)")
	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&req.Phone, "phone", "", "Phone")
	return cmd
}

func newLoginCmd(a *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || password == "" {
				return errors.New("--email and --password are required")
			}
			if _, err := a.gateway.SignIn(cmd.Context(), email, password); err != nil {
				a.logger.Debug("sign in failed", slog.Any("error", err))
				return errors.New(loginFailedMessage)
			}
			return printSessionUser(a, cmd)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email (required)")
	cmd.Flags().StringVar(&password, "password", "", "Password (required)")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.gateway.SignOut(cmd.Context()); err != nil {
				a.logger.Warn("token was not revoked on the server", slog.Any("error", err))
			}
			a.out(cmd).PrintMessage("Signed out")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printSessionUser(a, cmd)
		},
	}
}

func newOpenCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "open <route>",
		Short: "Show which view a route renders for the current user",
		Long: fmt.Sprintf(`Evaluates the access guard for a route.

Known routes: %s, %s, %s, %s, %s, %s, %s`,
			access.PathHome, access.PathLogin, access.PathRegister, access.PathCreateTeam,
			access.PathAssignRoles, access.PathAddPlayer, access.PathViewTeams),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := a.session.Wait(cmd.Context())
			if err != nil {
				return err
			}
			target, decision := access.Navigate(state, args[0])

			out := a.out(cmd)
			if decision == access.Allow {
				out.Print(map[string]string{"route": target, "decision": decision.String()})
				return nil
			}
			out.Redirect(target)
			return nil
		},
	}
}

// printSessionUser печатает пользователя сессии после того, как она готова.
func printSessionUser(a *app, cmd *cobra.Command) error {
	state, err := a.session.Wait(cmd.Context())
	if err != nil {
		return err
	}
	if state.User == nil {
		a.out(cmd).PrintMessage("Not signed in")
		return nil
	}
	a.out(cmd).Print(state.User)
	return nil
}
