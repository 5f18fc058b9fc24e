package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"mathrush/internal/client"
)

func newRegisterCmd() *cobra.Command {
	var username, password, confirm string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := client.NewAPI(baseURL)
			if err != nil {
				return err
			}
			auth := client.NewAuthController(api, NewTerm(os.Stdout))
			if !auth.Register(cmd.Context(), username, password, confirm) {
				return errors.New("registration failed")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "desired username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (at least 6 characters)")
	cmd.Flags().StringVar(&confirm, "confirm", "", "password confirmation")
	return cmd
}
