package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/artem13815/portfolio/pkg/auth"
)

var identityCmd = &cobra.Command{
	Use:   "identity",
	Short: "Manage identities that resumes are attached to",
}

var (
	identityName     string
	identityEmail    string
	identityPassword string
)

var identityAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create an identity",
	Long:  "Creates an identity. The password can be passed with --password or the IDENTITY_PASSWORD env var.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		password := identityPassword
		if password == "" {
			password = os.Getenv("IDENTITY_PASSWORD")
		}

		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		user, err := a.identities().Register(cmd.Context(), identityName, identityEmail, password)
		switch {
		case errors.Is(err, auth.ErrUserAlreadyExists):
			return fmt.Errorf("identity %s already exists", identityEmail)
		case errors.Is(err, auth.ErrInvalidCredentials):
			return errors.New("name, a valid email and a password of at least 8 characters are required")
		case err != nil:
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created identity %s <%s> (%s)\n", user.Name, user.Email, user.ID)
		return nil
	},
}

func init() {
	identityAddCmd.Flags().StringVar(&identityName, "name", "", "Display name")
	identityAddCmd.Flags().StringVar(&identityEmail, "email", "", "Email address")
	identityAddCmd.Flags().StringVar(&identityPassword, "password", "", "Password (min 8 characters)")
	_ = identityAddCmd.MarkFlagRequired("name")
	_ = identityAddCmd.MarkFlagRequired("email")

	identityCmd.AddCommand(identityAddCmd)
	rootCmd.AddCommand(identityCmd)
}
