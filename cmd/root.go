package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bnema/autumn-cli/internal/adapters/tui"
	"github.com/spf13/cobra"
)

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "au",
		Short:         "Autumn billing console (au): customers, subscriptions and invoices",
		Long:          "au is a terminal console for an Autumn billing account. Run it without arguments for the interactive dashboard, or use the subcommands for one-shot output and scripting.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return runConsole(cmd, app)
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newSetupCmd(app),
		newLogoutCmd(app),
		newDashboardCmd(app),
		newCustomersCmd(app),
		newOrgCmd(app),
		newSettingsCmd(app),
	)

	return rootCmd
}

func runConsole(cmd *cobra.Command, app *app) error {
	ctx := cmd.Context()

	route, err := app.gate.Resolve(ctx)
	if err != nil {
		app.logger.Warn("read stored api key failed, starting setup", "error", err)
	}

	return tui.Run(ctx, tui.Options{
		Billing:         app.sync,
		Credentials:     app.credentials,
		Preferences:     app.preferences,
		Route:           route,
		Theme:           app.theme(ctx),
		RefreshInterval: app.cfg.RefreshInterval,
		Now:             app.now,
	})
}
