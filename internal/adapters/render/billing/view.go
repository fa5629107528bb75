package billing

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bnema/autumn-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const dateLayout = "02 Jan 2006"

type RenderOptions struct {
	Now   time.Time
	Theme domain.Theme
}

func RenderDashboard(summary domain.DashboardSummary, opts RenderOptions) (string, error) {
	return run(func(s styles) string { return dashboardView(summary, opts, s) }, opts)
}

func RenderCustomers(page domain.CustomerPage, opts RenderOptions) (string, error) {
	return run(func(s styles) string { return customerListView(page, s) }, opts)
}

func RenderCustomer(view domain.CustomerView, opts RenderOptions) (string, error) {
	return run(func(s styles) string { return customerView(view, opts, s) }, opts)
}

func RenderOrganization(org domain.Organization, opts RenderOptions) (string, error) {
	return run(func(s styles) string { return organizationView(org, s) }, opts)
}

// Dashboard, Customer and Organization return the screen bodies without
// running a program, for embedding in the interactive screens.
func Dashboard(summary domain.DashboardSummary, opts RenderOptions) string {
	return dashboardView(summary, opts, newStyles(opts.Theme))
}

func Customer(view domain.CustomerView, opts RenderOptions) string {
	return customerView(view, opts, newStyles(opts.Theme))
}

func Organization(org domain.Organization, opts RenderOptions) string {
	return organizationView(org, newStyles(opts.Theme))
}

// DashboardStats is the dashboard title and counters without the recent
// customers section.
func DashboardStats(summary domain.DashboardSummary, opts RenderOptions) string {
	s := newStyles(opts.Theme)
	return lipgloss.JoinVertical(lipgloss.Left,
		s.title.Render("Autumn Dashboard"),
		s.section.Render(statsBlock(summary, s)),
	)
}

func dashboardView(summary domain.DashboardSummary, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Autumn Dashboard"),
		s.header.Render(fmt.Sprintf("customers: %d", summary.TotalCustomers)),
		s.section.Render(statsBlock(summary, s)),
		s.section.Render(s.label.Render("Recent customers")),
	}

	if len(summary.Recent) == 0 {
		lines = append(lines, s.empty.Render("No customers yet."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, customer := range summary.Recent {
		lines = append(lines, customerRow(customer, s))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func statsBlock(summary domain.DashboardSummary, s styles) string {
	activePercent := 0.0
	if summary.TotalCustomers > 0 {
		activePercent = float64(summary.ActiveSubscriptions) / float64(summary.TotalCustomers) * 100
	}

	total := lipgloss.JoinHorizontal(lipgloss.Top,
		s.label.Render("Total customers: "),
		s.statValue.Render(fmt.Sprintf("%d", summary.TotalCustomers)),
	)
	active := lipgloss.JoinHorizontal(lipgloss.Top,
		s.label.Render("Active subscriptions: "),
		s.statValue.Render(fmt.Sprintf("%d", summary.ActiveSubscriptions)),
		" ",
		renderProgressBar(activePercent, 20, s),
		" ",
		s.header.Render(fmt.Sprintf("%.0f%%", clampPercent(activePercent))),
	)

	return lipgloss.JoinVertical(lipgloss.Left, total, active)
}

func customerListView(page domain.CustomerPage, s styles) string {
	total := page.Total
	if total < len(page.Customers) {
		total = len(page.Customers)
	}

	lines := []string{
		s.title.Render("Customers"),
		s.header.Render(fmt.Sprintf("showing %d of %d", len(page.Customers), total)),
	}

	if len(page.Customers) == 0 {
		lines = append(lines, s.empty.Render("No customers yet."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, customer := range page.Customers {
		lines = append(lines, customerRow(customer, s))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// CustomerRow is the one-line summary used in lists.
func CustomerRow(customer domain.Customer, theme domain.Theme) string {
	return customerRow(customer, newStyles(theme))
}

func customerRow(customer domain.Customer, s styles) string {
	parts := []string{
		s.name.Render(fmt.Sprintf("%-2s", customer.Initials())),
		" ",
		s.detail.Render(customer.DisplayName()),
		" ",
		s.header.Render(customer.DisplayEmail()),
		" ",
		s.empty.Render(string(customer.ID)),
	}
	if customer.HasActiveProduct() {
		parts = append(parts, " ", s.chip(string(domain.ProductStatusActive), domain.ToneSuccess))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func customerView(view domain.CustomerView, opts RenderOptions, s styles) string {
	if view == nil {
		return s.empty.Render("Customer not found")
	}

	customer := view.Profile()
	profile := lipgloss.JoinHorizontal(lipgloss.Center,
		s.avatar.Render(customer.Initials()),
		" ",
		lipgloss.JoinVertical(lipgloss.Left,
			s.title.Render(customer.DisplayName()),
			s.header.Render(customer.DisplayEmail()),
			s.empty.Render(string(customer.ID)),
		),
	)

	lines := []string{profile}
	if !customer.CreatedAt.IsZero() {
		lines = append(lines, s.header.Render("customer since "+formatDate(customer.CreatedAt)))
	}

	lines = append(lines, s.section.Render(s.label.Render("Products")))
	lines = append(lines, productLines(customer.Products, opts, s)...)

	switch v := view.(type) {
	case domain.WithEntities:
		lines = append(lines, entitySection(v.Entities, s)...)
	case domain.WithBoth:
		lines = append(lines, entitySection(v.Entities, s)...)
	}

	switch v := view.(type) {
	case domain.WithInvoices:
		lines = append(lines, invoiceSection(v.Invoices, s)...)
	case domain.WithBoth:
		lines = append(lines, invoiceSection(v.Invoices, s)...)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func productLines(products []domain.Product, opts RenderOptions, s styles) []string {
	if len(products) == 0 {
		return []string{s.empty.Render("No products")}
	}

	lines := make([]string, 0, len(products))
	for _, product := range products {
		parts := []string{
			s.chip(product.StatusLabel(), product.Status.Tone()),
			" ",
			s.detail.Render(product.DisplayName()),
			" ",
			s.header.Render(product.DisplayGroup()),
		}
		if period := formatPeriodEnd(product, opts.Now); period != "" {
			parts = append(parts, " ", s.header.Render("("+period+")"))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, parts...))
	}

	return lines
}

func entitySection(entities []domain.Entity, s styles) []string {
	lines := []string{s.section.Render(s.label.Render("Entities"))}
	if len(entities) == 0 {
		return append(lines, s.empty.Render("No entities"))
	}

	for _, entity := range entities {
		name := entity.Name
		if name == "" {
			name = entity.ID
		}
		line := s.detail.Render(name) + " " + s.empty.Render(entity.ID)
		if entity.FeatureID != "" {
			line += " " + s.header.Render(entity.FeatureID)
		}
		lines = append(lines, line)
	}

	return lines
}

func invoiceSection(invoices []domain.Invoice, s styles) []string {
	lines := []string{s.section.Render(s.label.Render("Recent invoices"))}
	if len(invoices) == 0 {
		return append(lines, s.empty.Render("No invoices"))
	}

	for _, invoice := range domain.RecentInvoices(invoices, domain.RecentInvoicesLimit) {
		date := "unknown date"
		if !invoice.CreatedAt.IsZero() {
			date = formatDate(invoice.CreatedAt)
		}
		status := invoice.Status
		if status == "" {
			status = "unknown"
		}

		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			s.statValue.Render(fmt.Sprintf("%12s", invoice.FormatAmount())),
			" ",
			s.header.Render(date),
			" ",
			s.chip(status, invoice.Tone()),
		))
	}

	return lines
}

func organizationView(org domain.Organization, s styles) string {
	name := org.Name
	if name == "" {
		name = "Unknown organization"
	}

	lines := []string{
		s.title.Render(name),
		s.header.Render(org.ID),
	}
	if org.Slug != "" {
		lines = append(lines, s.label.Render("slug: ")+s.detail.Render(org.Slug))
	}
	if !org.CreatedAt.IsZero() {
		lines = append(lines, s.label.Render("created: ")+s.detail.Render(formatDate(org.CreatedAt)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderProgressBar(percent float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	fraction := clampPercent(percent) / 100.0
	filled := int(math.Round(float64(width) * fraction))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}

	empty := width - filled
	fillSegment := s.barFill.Render(strings.Repeat("=", filled))
	emptySegment := s.barEmpty.Render(strings.Repeat("-", empty))

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		fillSegment,
		emptySegment,
		s.barBracket.Render("]"),
	)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func formatDate(value time.Time) string {
	return value.Local().Format(dateLayout)
}

// formatPeriodEnd describes when the current billing period of a product
// ends, relative to now when it is known.
func formatPeriodEnd(product domain.Product, now time.Time) string {
	end := product.CurrentPeriodEnd
	verb := "renews"
	if !product.CanceledAt.IsZero() {
		verb = "ends"
	}
	if end.IsZero() {
		if !product.CanceledAt.IsZero() {
			return "canceled " + formatDate(product.CanceledAt)
		}
		return ""
	}
	if now.IsZero() {
		return verb + " " + formatDate(end)
	}
	if end.Before(now) {
		return "period ended " + formatDate(end)
	}

	remaining := end.Sub(now)
	if remaining < 24*time.Hour {
		hours := int(math.Ceil(remaining.Hours()))
		if hours < 1 {
			hours = 1
		}
		suffix := "hours"
		if hours == 1 {
			suffix = "hour"
		}
		return fmt.Sprintf("%s in %d %s", verb, hours, suffix)
	}

	days := int(math.Ceil(remaining.Hours() / 24))
	suffix := "days"
	if days == 1 {
		suffix = "day"
	}

	return fmt.Sprintf("%s in %d %s (%s)", verb, days, suffix, formatDate(end))
}
