// Package cli implements clubctl, the command-line front end of club-admin.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Dosada05/club-admin/access"
	"github.com/Dosada05/club-admin/client"
	"github.com/Dosada05/club-admin/clock"
	"github.com/Dosada05/club-admin/session"
)

// app is shared by every command of one clubctl invocation. The session is
// created once per process and closed when the command finishes.
type app struct {
	cfg     *Config
	clock   clock.Clock
	logger  *slog.Logger
	api     *client.Client
	gateway *client.Gateway
	session *session.Context
}

func NewRootCmd() *cobra.Command {
	a := &app{cfg: DefaultConfig(), clock: clock.New()}

	rootCmd := &cobra.Command{
		Use:   "clubctl",
		Short: "CLI for the club-admin API",
		Long: `clubctl manages teams, rosters and role assignments of a football club.

Every screen command checks the signed-in user's role first and prints the
redirect target when access is denied.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.start(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.stop()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&a.cfg.ServerURL, "server", a.cfg.ServerURL, "Server URL (env: CLUBCTL_SERVER)")
	rootCmd.PersistentFlags().StringVar(&a.cfg.TokenFile, "token-file", a.cfg.TokenFile, "Token file path (env: CLUBCTL_TOKEN_FILE)")
	rootCmd.PersistentFlags().StringVarP(&a.cfg.Output, "output", "o", a.cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&a.cfg.Verbose, "verbose", "v", a.cfg.Verbose, "Verbose output")

	rootCmd.AddCommand(newRegisterCmd(a))
	rootCmd.AddCommand(newLoginCmd(a))
	rootCmd.AddCommand(newLogoutCmd(a))
	rootCmd.AddCommand(newWhoamiCmd(a))
	rootCmd.AddCommand(newOpenCmd(a))
	rootCmd.AddCommand(newTeamCmd(a))
	rootCmd.AddCommand(newRolesCmd(a))
	rootCmd.AddCommand(newPlayerCmd(a))
	rootCmd.AddCommand(newCountriesCmd(a))

	return rootCmd
}

func Execute() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func (a *app) start(cmd *cobra.Command) error {
	if a.cfg.Output != "text" && a.cfg.Output != "json" {
		return fmt.Errorf("unknown output format %q", a.cfg.Output)
	}

	level := slog.LevelWarn
	if a.cfg.Verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	a.api = client.New(a.cfg.ServerURL, nil)
	a.gateway = client.NewGateway(a.api, client.NewFileTokenStore(a.cfg.TokenFile), a.logger)
	a.session = session.New(a.gateway, a.api, a.logger)

	// Сбой восстановления не фатален: сессия просто остаётся без пользователя.
	if err := a.gateway.Restore(cmd.Context()); err != nil {
		a.logger.Warn("could not restore session", slog.Any("error", err))
	}
	return nil
}

func (a *app) stop() {
	if a.session != nil {
		a.session.Close()
	}
}

func (a *app) out(cmd *cobra.Command) *Output {
	return NewOutput(a.cfg.Output, cmd.OutOrStdout())
}

// enter runs the access guard for path. When access is denied the redirect
// target is printed and ok is false.
func (a *app) enter(cmd *cobra.Command, path string) (user *session.User, ok bool, err error) {
	state, err := a.session.Wait(cmd.Context())
	if err != nil {
		return nil, false, err
	}

	target, decision := access.Navigate(state, path)
	if decision != access.Allow {
		a.logger.Debug("navigation redirected",
			slog.String("path", path), slog.String("target", target), slog.String("decision", decision.String()))
		a.out(cmd).Redirect(target)
		return nil, false, nil
	}
	return state.User, true, nil
}

// fail logs err and returns the single message shown to the user.
func (a *app) fail(message string, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	a.logger.Error(message, slog.Any("error", err))
	return errors.New(message)
}
