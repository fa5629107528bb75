package cmd

import (
	"fmt"

	"github.com/bnema/autumn-cli/internal/application"
	"github.com/spf13/cobra"
)

func newSettingsCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage local console preferences",
	}

	cmd.AddCommand(newSettingsThemeCmd(app))

	return cmd
}

func newSettingsThemeCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|toggle]",
		Short:     "Show or change the color theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(application.ThemeModeLight), string(application.ThemeModeDark), string(application.ThemeModeToggle)},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if len(args) == 0 {
				prefs, err := app.preferences.Load(ctx)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "theme: %s\n", prefs.Theme)
				return err
			}

			mode, err := application.ParseThemeMode(args[0])
			if err != nil {
				return err
			}

			theme, err := app.preferences.ApplyTheme(ctx, mode)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "theme: %s\n", theme)
			return err
		},
	}
}
