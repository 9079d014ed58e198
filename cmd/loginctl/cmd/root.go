package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/nfrund/loginpage/internal/app"
	"github.com/nfrund/loginpage/internal/config"
	"github.com/nfrund/loginpage/internal/logging"
)

// errLoginRejected signals a failed login whose status line was already printed.
var errLoginRejected = errors.New("login rejected")

// env is what every subcommand shares once the root command has loaded the
// configuration.
type env struct {
	cfg      *config.Config
	injector do.Injector
}

// shutdown releases whatever the injector created. It runs after the command
// whether or not it failed.
func (e *env) shutdown(ctx context.Context) error {
	if e.injector == nil {
		return nil
	}
	err := app.Shutdown(ctx, e.injector)
	e.injector = nil
	return err
}

// newRootCmd builds the loginctl command tree.
func newRootCmd() (*cobra.Command, *env) {
	e := &env{}

	rootCmd := &cobra.Command{
		Use:   "loginctl",
		Short: "Terminal login form",
		Long: `loginctl drives the login form from the terminal.

It shares the server's configuration (.env and environment variables), so the
remembered user and the credential verifier are the same ones the web form uses.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			e.cfg = config.New()
			// Logs go to stderr so stdout carries only the form's output.
			logging.NewWithWriter(cmd.ErrOrStderr(), e.cfg.GetLogFormat(), e.cfg.GetLogLevel())
			if err := e.cfg.Validate(); err != nil {
				return err
			}
			e.injector = app.New(cmd.Context(), e.cfg)
			return nil
		},
	}

	rootCmd.AddCommand(
		newLoginCmd(e),
		newRememberedCmd(e),
		newForgetCmd(e),
		newVersionCmd(),
	)
	return rootCmd, e
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	rootCmd, e := newRootCmd()

	err := rootCmd.ExecuteContext(ctx)
	err = errors.Join(err, e.shutdown(context.Background()))
	stop()

	if err != nil {
		if !errors.Is(err, errLoginRejected) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
