package domain

const (
	DefaultCustomerListLimit = 100
	RecentCustomersLimit     = 3
	RecentInvoicesLimit      = 5
)

// CustomerPage is one page of the remote customer list.
type CustomerPage struct {
	Customers []Customer
	Total     int
	Limit     int
	Offset    int
}

type DashboardSummary struct {
	TotalCustomers      int
	ActiveSubscriptions int
	Recent              []Customer
}

func SummarizeCustomers(page CustomerPage) DashboardSummary {
	total := page.Total
	if total < len(page.Customers) {
		total = len(page.Customers)
	}

	return DashboardSummary{
		TotalCustomers:      total,
		ActiveSubscriptions: CountActive(page.Customers),
		Recent:              RecentCustomers(page.Customers, RecentCustomersLimit),
	}
}

// CountActive counts customers holding at least one active product.
func CountActive(customers []Customer) int {
	count := 0
	for _, customer := range customers {
		if customer.HasActiveProduct() {
			count++
		}
	}
	return count
}

// RecentCustomers keeps the first n customers in list order.
func RecentCustomers(customers []Customer, n int) []Customer {
	return firstN(customers, n)
}

func RecentInvoices(invoices []Invoice, n int) []Invoice {
	return firstN(invoices, n)
}

func firstN[T any](items []T, n int) []T {
	if n <= 0 {
		return []T{}
	}
	if len(items) < n {
		n = len(items)
	}

	out := make([]T, n)
	copy(out, items[:n])
	return out
}

// WithoutCustomer drops id from the page, adjusting the total.
func (p CustomerPage) WithoutCustomer(id CustomerID) CustomerPage {
	filtered := make([]Customer, 0, len(p.Customers))
	removed := 0
	for _, customer := range p.Customers {
		if customer.ID == id {
			removed++
			continue
		}
		filtered = append(filtered, customer)
	}

	p.Customers = filtered
	if removed > 0 && p.Total >= removed {
		p.Total -= removed
	}
	return p
}
