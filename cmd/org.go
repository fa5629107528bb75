package cmd

import (
	billingrender "github.com/bnema/autumn-cli/internal/adapters/render/billing"
	"github.com/spf13/cobra"
)

func newOrgCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "org",
		Aliases: []string{"organization"},
		Short:   "Show the organization the API key belongs to",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := app.requireSession(ctx); err != nil {
				return err
			}

			org, err := loadWithProgress(cmd, app, "Loading organization...", asJSON, app.sync.Organization)
			if err != nil {
				return describe(err)
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), toOrganizationJSON(org))
			}

			rendered, err := billingrender.RenderOrganization(org, app.renderOptions(ctx))
			return writeRendered(cmd.OutOrStdout(), rendered, err)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}
