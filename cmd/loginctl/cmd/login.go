package cmd

import (
	"bufio"
	"fmt"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/nfrund/loginpage/internal/domain"
	"github.com/nfrund/loginpage/internal/loginform"
	"github.com/nfrund/loginpage/internal/notify"
)

func newLoginCmd(e *env) *cobra.Command {
	var (
		email    string
		remember bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Fill in and submit the login form",
		Long: `Prompts for any value not given as a flag, submits the form and prints the
status line. On success it waits for the redirect notice before exiting.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			verify, err := do.Invoke[domain.CredentialVerifier](e.injector)
			if err != nil {
				return err
			}
			rememberStore, err := do.Invoke[*loginform.RememberStore](e.injector)
			if err != nil {
				return err
			}
			redirect := notify.NewWriter(out)

			form := loginform.New(loginform.Dependencies{
				Verifier: verify,
				Remember: rememberStore,
				Notifier: redirect,
			}, loginform.WithRedirectDelay(e.cfg.GetRedirectDelay()))
			defer form.Close()

			if e.cfg.GetRememberPrefill() && email == "" {
				if err := form.Restore(ctx); err != nil {
					return fmt.Errorf("failed to restore remembered user: %w", err)
				}
			}

			reader := bufio.NewReader(cmd.InOrStdin())
			if email != "" {
				form.SetEmail(email)
			} else if form.State().Email == "" {
				value, err := promptLine(reader, out, "Email: ")
				if err != nil {
					return fmt.Errorf("failed to read email: %w", err)
				}
				form.SetEmail(value)
			}

			password, err := promptPassword(cmd.InOrStdin(), reader, out)
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			form.SetPassword(password)

			if cmd.Flags().Changed("remember") {
				form.SetRememberMe(remember)
			}

			outcome := form.Submit(ctx)
			fmt.Fprintln(out, form.State().StatusMessage)
			if !outcome.OK() {
				return errLoginRejected
			}

			select {
			case <-redirect.Done():
			case <-ctx.Done():
				return ctx.Err()
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address (prompted when empty)")
	cmd.Flags().BoolVar(&remember, "remember", false, "remember the email on this machine")
	return cmd
}
