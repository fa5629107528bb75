package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	billingrender "github.com/bnema/autumn-cli/internal/adapters/render/billing"
	"github.com/bnema/autumn-cli/internal/application"
	"github.com/bnema/autumn-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newCustomersCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "customers",
		Aliases: []string{"customer"},
		Short:   "List, inspect, edit and delete customers",
	}

	cmd.AddCommand(
		newCustomersListCmd(app),
		newCustomersGetCmd(app),
		newCustomersUpdateCmd(app),
		newCustomersDeleteCmd(app),
	)

	return cmd
}

func newCustomersListCmd(app *app) *cobra.Command {
	var limit int
	var asJSON bool
	var watch bool
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List customers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := app.requireSession(ctx); err != nil {
				return err
			}
			if limit < 0 {
				return errors.New("--limit must not be negative")
			}

			if watch {
				if interval <= 0 {
					interval = app.cfg.RefreshInterval
				}
				return watchCustomers(cmd, app, interval, limit, asJSON)
			}

			page, err := loadWithProgress(cmd, app, "Loading customers...", asJSON, app.sync.Customers)
			if err != nil {
				return describe(err)
			}

			return writeCustomerPage(cmd, app, truncatePage(page, limit), asJSON)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Show at most N customers (the fetch size is customers.limit)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")
	cmd.Flags().BoolVar(&watch, "watch", false, "Keep refreshing the list until interrupted")
	cmd.Flags().DurationVar(&interval, "interval", 0, "Refresh interval for --watch (default: customers.refresh_interval)")

	return cmd
}

func watchCustomers(cmd *cobra.Command, app *app, interval time.Duration, limit int, asJSON bool) error {
	err := app.sync.WatchCustomers(cmd.Context(), interval, func(page domain.CustomerPage, err error) {
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "refresh failed: %v\n", describe(err))
			return
		}
		if err := writeCustomerPage(cmd, app, truncatePage(page, limit), asJSON); err != nil {
			app.logger.Warn("write customer list failed", "error", err)
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}

	return describe(err)
}

func writeCustomerPage(cmd *cobra.Command, app *app, page domain.CustomerPage, asJSON bool) error {
	if asJSON {
		return writeJSON(cmd.OutOrStdout(), toCustomerListJSON(page))
	}

	rendered, err := billingrender.RenderCustomers(page, app.renderOptions(cmd.Context()))
	return writeRendered(cmd.OutOrStdout(), rendered, err)
}

// truncatePage keeps the first limit customers. The total still reports the
// remote count.
func truncatePage(page domain.CustomerPage, limit int) domain.CustomerPage {
	if limit <= 0 || len(page.Customers) <= limit {
		return page
	}

	if page.Total < len(page.Customers) {
		page.Total = len(page.Customers)
	}
	page.Customers = page.Customers[:limit]
	return page
}

func newCustomersGetCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "get <customer-id>",
		Short: "Show a customer with products, entities and recent invoices",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.requireSession(ctx); err != nil {
				return err
			}

			id := domain.CustomerID(args[0])
			view, err := loadWithProgress(cmd, app, "Loading customer...", asJSON, func(ctx context.Context) (domain.CustomerView, error) {
				return app.sync.Customer(ctx, id)
			})
			if err != nil {
				if errors.Is(err, domain.ErrCustomerNotFound) {
					return fmt.Errorf("customer %s not found", id)
				}
				return describe(err)
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), toCustomerViewJSON(view))
			}

			rendered, err := billingrender.RenderCustomer(view, app.renderOptions(ctx))
			return writeRendered(cmd.OutOrStdout(), rendered, err)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newCustomersUpdateCmd(app *app) *cobra.Command {
	var name string
	var email string

	cmd := &cobra.Command{
		Use:   "update <customer-id>",
		Short: "Change a customer's name or email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.requireSession(ctx); err != nil {
				return err
			}

			update := application.UpdateCustomerCommand{ID: domain.CustomerID(args[0])}
			if cmd.Flags().Changed("name") {
				update.Name = &name
			}
			if cmd.Flags().Changed("email") {
				update.Email = &email
			}

			view, err := app.sync.UpdateCustomer(ctx, update)
			if err != nil {
				return describe(err)
			}

			customer := view.Profile()
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Updated %s: %s <%s>\n", customer.ID, customer.DisplayName(), customer.DisplayEmail())
			return err
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New customer name")
	cmd.Flags().StringVar(&email, "email", "", "New customer email")

	return cmd
}

func newCustomersDeleteCmd(app *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <customer-id>",
		Short: "Delete a customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.requireSession(ctx); err != nil {
				return err
			}

			id := domain.CustomerID(args[0])
			if !yes {
				ok, err := confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), fmt.Sprintf("Delete customer %s? This cannot be undone.", id))
				if err != nil {
					return err
				}
				if !ok {
					_, err := fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return err
				}
			}

			if err := app.sync.DeleteCustomer(ctx, id); err != nil {
				return describe(err)
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s.\n", id)
			return err
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
