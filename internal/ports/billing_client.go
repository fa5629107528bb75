package ports

import (
	"context"

	"github.com/bnema/autumn-cli/internal/domain"
)

type ListCustomersParams struct {
	Limit  int
	Offset int
}

type Expansion string

const (
	ExpandInvoices Expansion = "invoices"
	ExpandEntities Expansion = "entities"
)

// BillingClient is the remote billing API as consumed by the app.
type BillingClient interface {
	ListCustomers(ctx context.Context, params ListCustomersParams) (domain.CustomerPage, error)
	GetCustomer(ctx context.Context, id domain.CustomerID, expand ...Expansion) (domain.CustomerView, error)
	UpdateCustomer(ctx context.Context, id domain.CustomerID, patch domain.CustomerPatch) (domain.Customer, error)
	DeleteCustomer(ctx context.Context, id domain.CustomerID) error
	GetOrganization(ctx context.Context) (domain.Organization, error)
}

// BillingClientFactory builds a client bound to one secret key.
type BillingClientFactory func(secretKey string) BillingClient
