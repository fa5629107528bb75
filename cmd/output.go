package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/bnema/autumn-cli/internal/domain"
)

type productJSON struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Group            string     `json:"group,omitempty"`
	Status           string     `json:"status"`
	StartedAt        *time.Time `json:"started_at,omitempty"`
	CurrentPeriodEnd *time.Time `json:"current_period_end,omitempty"`
	CanceledAt       *time.Time `json:"canceled_at,omitempty"`
}

type invoiceJSON struct {
	ID         string     `json:"id"`
	ProductIDs []string   `json:"product_ids,omitempty"`
	Total      int64      `json:"total"`
	Amount     string     `json:"amount"`
	Currency   string     `json:"currency"`
	Status     string     `json:"status"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
}

type entityJSON struct {
	ID        string     `json:"id"`
	Name      string     `json:"name,omitempty"`
	FeatureID string     `json:"feature_id,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

type customerJSON struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Env       string        `json:"env,omitempty"`
	CreatedAt *time.Time    `json:"created_at,omitempty"`
	Active    bool          `json:"active"`
	Products  []productJSON `json:"products"`
	Invoices  []invoiceJSON `json:"invoices,omitempty"`
	Entities  []entityJSON  `json:"entities,omitempty"`
}

type customerListJSON struct {
	Total     int            `json:"total"`
	Customers []customerJSON `json:"customers"`
}

type dashboardJSON struct {
	TotalCustomers      int            `json:"total_customers"`
	ActiveSubscriptions int            `json:"active_subscriptions"`
	Recent              []customerJSON `json:"recent"`
}

type organizationJSON struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Slug      string     `json:"slug,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

func writeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

func writeRendered(w io.Writer, rendered string, err error) error {
	if err != nil {
		return fmt.Errorf("render output: %w", err)
	}
	_, err = fmt.Fprintln(w, rendered)
	return err
}

func timePtr(value time.Time) *time.Time {
	if value.IsZero() {
		return nil
	}
	utc := value.UTC()
	return &utc
}

func toCustomerJSON(customer domain.Customer) customerJSON {
	products := make([]productJSON, 0, len(customer.Products))
	for _, product := range customer.Products {
		products = append(products, productJSON{
			ID:               product.ID,
			Name:             product.DisplayName(),
			Group:            product.Group,
			Status:           product.StatusLabel(),
			StartedAt:        timePtr(product.StartedAt),
			CurrentPeriodEnd: timePtr(product.CurrentPeriodEnd),
			CanceledAt:       timePtr(product.CanceledAt),
		})
	}

	return customerJSON{
		ID:        string(customer.ID),
		Name:      customer.Name,
		Email:     customer.Email,
		Env:       customer.Env,
		CreatedAt: timePtr(customer.CreatedAt),
		Active:    customer.HasActiveProduct(),
		Products:  products,
	}
}

func toCustomerViewJSON(view domain.CustomerView) customerJSON {
	out := toCustomerJSON(view.Profile())

	for _, invoice := range domain.ViewInvoices(view) {
		out.Invoices = append(out.Invoices, invoiceJSON{
			ID:         invoice.ID,
			ProductIDs: invoice.ProductIDs,
			Total:      invoice.Total,
			Amount:     invoice.FormatAmount(),
			Currency:   invoice.Currency,
			Status:     invoice.Status,
			CreatedAt:  timePtr(invoice.CreatedAt),
		})
	}
	for _, entity := range domain.ViewEntities(view) {
		out.Entities = append(out.Entities, entityJSON{
			ID:        entity.ID,
			Name:      entity.Name,
			FeatureID: entity.FeatureID,
			CreatedAt: timePtr(entity.CreatedAt),
		})
	}

	return out
}

func toCustomerListJSON(page domain.CustomerPage) customerListJSON {
	total := page.Total
	if total < len(page.Customers) {
		total = len(page.Customers)
	}

	customers := make([]customerJSON, 0, len(page.Customers))
	for _, customer := range page.Customers {
		customers = append(customers, toCustomerJSON(customer))
	}

	return customerListJSON{Total: total, Customers: customers}
}

func toDashboardJSON(summary domain.DashboardSummary) dashboardJSON {
	recent := make([]customerJSON, 0, len(summary.Recent))
	for _, customer := range summary.Recent {
		recent = append(recent, toCustomerJSON(customer))
	}

	return dashboardJSON{
		TotalCustomers:      summary.TotalCustomers,
		ActiveSubscriptions: summary.ActiveSubscriptions,
		Recent:              recent,
	}
}

func toOrganizationJSON(org domain.Organization) organizationJSON {
	return organizationJSON{
		ID:        org.ID,
		Name:      org.Name,
		Slug:      org.Slug,
		CreatedAt: timePtr(org.CreatedAt),
	}
}
