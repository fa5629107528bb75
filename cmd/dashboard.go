package cmd

import (
	billingrender "github.com/bnema/autumn-cli/internal/adapters/render/billing"
	"github.com/spf13/cobra"
)

func newDashboardCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show customer totals and the most recent customers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := app.requireSession(ctx); err != nil {
				return err
			}

			summary, err := loadWithProgress(cmd, app, "Loading dashboard...", asJSON, app.sync.Dashboard)
			if err != nil {
				return describe(err)
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), toDashboardJSON(summary))
			}

			rendered, err := billingrender.RenderDashboard(summary, app.renderOptions(ctx))
			return writeRendered(cmd.OutOrStdout(), rendered, err)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}
