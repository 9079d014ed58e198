package cmd

import (
	"errors"
	"fmt"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/nfrund/loginpage/internal/domain"
	"github.com/nfrund/loginpage/internal/loginform"
)

func newRememberedCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "remembered",
		Short: "Print the remembered email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := do.Invoke[*loginform.RememberStore](e.injector)
			if err != nil {
				return err
			}
			user, err := store.Load(cmd.Context())
			if errors.Is(err, domain.ErrNotFound) {
				fmt.Fprintln(cmd.OutOrStdout(), "no remembered user")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), user.Email)
			return nil
		},
	}
}

func newForgetCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "forget",
		Short: "Delete the remembered email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := do.Invoke[*loginform.RememberStore](e.injector)
			if err != nil {
				return err
			}
			if err := store.Forget(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "remembered user removed")
			return nil
		},
	}
}
