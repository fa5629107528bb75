package application

import "github.com/bnema/autumn-cli/internal/domain"

// Semantic cache keys, one per remote read.
const (
	KeyCustomers    = "customers"
	KeyOrganization = "organization"
)

func CustomerKey(id domain.CustomerID) string {
	return "customer:" + string(id)
}
