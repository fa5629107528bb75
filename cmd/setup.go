package cmd

import (
	"fmt"

	"github.com/bnema/autumn-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newSetupCmd(app *app) *cobra.Command {
	var secret string
	var skipVerify bool

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Store the Autumn secret API key",
		Long:  "setup stores the Autumn secret key used for every request. Without --key it reads AU_API_KEY, then prompts without echo.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if secret == "" {
				secret = envOrDefault("AU_API_KEY", "")
			}
			if secret == "" {
				read, err := readSecret(cmd.InOrStdin(), cmd.ErrOrStderr(), "Autumn secret key: ")
				if err != nil {
					return err
				}
				secret = read
			}

			if err := app.credentials.Save(ctx, secret); err != nil {
				if domain.KindOf(err) == domain.KindValidation {
					return fmt.Errorf("please enter your API key: %w", err)
				}
				return err
			}

			if skipVerify {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "API key saved.")
				return err
			}

			org, err := app.sync.Organization(ctx)
			if err != nil {
				return describe(err)
			}

			name := org.Name
			if name == "" {
				name = org.ID
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "API key saved. Connected to %s.\n", name)
			return err
		},
	}

	cmd.Flags().StringVar(&secret, "key", "", "Secret key (default: $AU_API_KEY or prompt)")
	cmd.Flags().BoolVar(&skipVerify, "skip-verify", false, "Store the key without checking it against the API")

	return cmd
}

func newLogoutCmd(app *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored API key and cached data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				ok, err := confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), "Clear the stored API key?")
				if err != nil {
					return err
				}
				if !ok {
					_, err := fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return err
				}
			}

			if err := app.sync.ClearSession(cmd.Context()); err != nil {
				return err
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), "API key cleared.")
			return err
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
