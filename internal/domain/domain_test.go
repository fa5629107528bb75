package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeCustomersCountsActiveSubscriptions(t *testing.T) {
	page := CustomerPage{
		Total: 2,
		Customers: []Customer{
			{ID: "c1", Products: []Product{{Status: ProductStatusActive}}},
			{ID: "c2", Products: []Product{{Status: ProductStatusExpired}}},
		},
	}

	summary := SummarizeCustomers(page)

	assert.Equal(t, 2, summary.TotalCustomers)
	assert.Equal(t, 1, summary.ActiveSubscriptions)
	require.Len(t, summary.Recent, 2)
	assert.Equal(t, CustomerID("c1"), summary.Recent[0].ID)
}

func TestCountActiveCountsCustomersNotProducts(t *testing.T) {
	customers := []Customer{
		{ID: "c1", Products: []Product{{Status: ProductStatusActive}, {Status: ProductStatusActive}}},
		{ID: "c2", Products: []Product{{Status: ProductStatusTrialing}, {Status: ProductStatusActive}}},
		{ID: "c3", Products: []Product{{Status: ProductStatusPastDue}}},
		{ID: "c4"},
	}

	assert.Equal(t, 2, CountActive(customers))
}

func TestRecentCustomersKeepsListOrder(t *testing.T) {
	tests := []struct {
		name string
		size int
		want []CustomerID
	}{
		{name: "empty", size: 0, want: []CustomerID{}},
		{name: "fewer than limit", size: 2, want: []CustomerID{"c0", "c1"}},
		{name: "exactly limit", size: 3, want: []CustomerID{"c0", "c1", "c2"}},
		{name: "more than limit", size: 7, want: []CustomerID{"c0", "c1", "c2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			customers := make([]Customer, 0, tt.size)
			for i := 0; i < tt.size; i++ {
				customers = append(customers, Customer{ID: CustomerID(fmt.Sprintf("c%d", i))})
			}

			got := RecentCustomers(customers, RecentCustomersLimit)
			ids := make([]CustomerID, 0, len(got))
			for _, customer := range got {
				ids = append(ids, customer.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestRecentInvoicesCapsAtFive(t *testing.T) {
	for _, n := range []int{0, 1, 5, 6, 12} {
		invoices := make([]Invoice, n)
		got := RecentInvoices(invoices, RecentInvoicesLimit)
		assert.Len(t, got, min(5, n), "invoice count %d", n)
	}
}

func TestProductStatusTone(t *testing.T) {
	tests := []struct {
		raw  string
		want Tone
	}{
		{raw: "active", want: ToneSuccess},
		{raw: "trialing", want: ToneWarning},
		{raw: "past_due", want: ToneDanger},
		{raw: "expired", want: ToneDefault},
		{raw: "scheduled", want: ToneDefault},
		{raw: "", want: ToneDefault},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseProductStatus(tt.raw).Tone())
		})
	}
}

func TestParseProductStatusMapsUnknownToOther(t *testing.T) {
	assert.Equal(t, ProductStatusOther, ParseProductStatus("scheduled"))
	assert.Equal(t, ProductStatusPastDue, ParseProductStatus("past_due"))
}

func TestCustomerInitials(t *testing.T) {
	assert.Equal(t, "?", Customer{}.Initials())
	assert.Equal(t, "AL", Customer{Name: "ada lovelace"}.Initials())
	assert.Equal(t, "GV", Customer{Name: "Guido van Rossum"}.Initials())
	assert.Equal(t, "Z", Customer{Name: "zoe"}.Initials())
}

func TestCustomerDisplayFallbacks(t *testing.T) {
	customer := Customer{ID: "c1"}
	assert.Equal(t, "Unknown", customer.DisplayName())
	assert.Equal(t, "No email", customer.DisplayEmail())
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		minor    int64
		currency string
		want     string
	}{
		{minor: 1250, currency: "usd", want: "$12.50"},
		{minor: 0, currency: "", want: "$0.00"},
		{minor: 123456789, currency: "eur", want: "€1,234,567.89"},
		{minor: 300, currency: "chf", want: "CHF 3.00"},
		{minor: -500, currency: "usd", want: "-$5.00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMoney(tt.minor, tt.currency))
		})
	}
}

func TestInvoiceTone(t *testing.T) {
	assert.Equal(t, ToneSuccess, Invoice{Status: "paid"}.Tone())
	assert.Equal(t, ToneWarning, Invoice{Status: "open"}.Tone())
}

func TestNewCustomerViewPicksVariant(t *testing.T) {
	base := Customer{ID: "c1"}
	invoices := []Invoice{{ID: "inv-1"}}
	entities := []Entity{{ID: "ent-1"}}

	assert.IsType(t, BaseView{}, NewCustomerView(base, nil, nil))
	assert.IsType(t, WithInvoices{}, NewCustomerView(base, invoices, nil))
	assert.IsType(t, WithEntities{}, NewCustomerView(base, nil, entities))
	assert.IsType(t, WithBoth{}, NewCustomerView(base, invoices, entities))
	assert.IsType(t, WithBoth{}, NewCustomerView(base, []Invoice{}, []Entity{}))

	view := NewCustomerView(base, invoices, entities)
	assert.Equal(t, invoices, ViewInvoices(view))
	assert.Equal(t, entities, ViewEntities(view))
	assert.Nil(t, ViewInvoices(NewCustomerView(base, nil, entities)))
	assert.Equal(t, base, view.Profile())
}

func TestWithProfileKeepsExpansions(t *testing.T) {
	view := NewCustomerView(Customer{ID: "c1", Name: "Old"}, []Invoice{{ID: "inv-1"}}, nil)

	updated := WithProfile(view, Customer{ID: "c1", Name: "New"})

	assert.Equal(t, "New", updated.Profile().Name)
	assert.Len(t, ViewInvoices(updated), 1)
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{name: "nil", err: nil, want: KindNone},
		{name: "invalid secret key", err: &RemoteError{Status: http.StatusUnauthorized, Code: RemoteCodeInvalidSecretKey}, want: KindCredentialInvalid},
		{name: "wrapped invalid secret key", err: fmt.Errorf("list customers: %w", &RemoteError{Code: RemoteCodeInvalidSecretKey}), want: KindCredentialInvalid},
		{name: "session expired", err: ErrSessionExpired, want: KindCredentialInvalid},
		{name: "other remote code", err: &RemoteError{Status: http.StatusBadRequest, Code: "invalid_inputs"}, want: KindRemote},
		{name: "network", err: errors.New("dial tcp: connection refused"), want: KindRemote},
		{name: "empty credential", err: ErrEmptyCredential, want: KindValidation},
		{name: "empty patch", err: fmt.Errorf("update: %w", ErrEmptyPatch), want: KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestRemoteErrorMatchesCustomerNotFoundOn404(t *testing.T) {
	assert.ErrorIs(t, &RemoteError{Status: http.StatusNotFound, Code: "customer_not_found"}, ErrCustomerNotFound)
	assert.NotErrorIs(t, &RemoteError{Status: http.StatusBadRequest}, ErrCustomerNotFound)
}

func TestRouteRoundTrip(t *testing.T) {
	routes := []Route{RouteSetup, RouteDashboard, RouteSettings, CustomerRoute("cus_123")}
	for _, route := range routes {
		t.Run(route.Path(), func(t *testing.T) {
			parsed, err := ParseRoute(route.Path())
			require.NoError(t, err)
			assert.Equal(t, route, parsed)
		})
	}

	assert.Equal(t, "/customer/cus_123", CustomerRoute("cus_123").Path())
}

func TestParseRouteRejectsUnknownPaths(t *testing.T) {
	for _, path := range []string{"", "/", "/customer", "/customer/", "/billing", "/customer/a/b"} {
		_, err := ParseRoute(path)
		assert.ErrorIs(t, err, ErrInvalidRoute, "path %q", path)
	}
}

func TestThemeToggleAndParse(t *testing.T) {
	assert.Equal(t, ThemeDark, ThemeLight.Toggle())
	assert.Equal(t, ThemeLight, ThemeDark.Toggle())
	assert.Equal(t, ThemeDark, Theme("").Toggle())

	theme, err := ParseTheme(" Dark ")
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, theme)

	_, err = ParseTheme("sepia")
	assert.ErrorContains(t, err, "unsupported theme")
}

func TestCustomerPageWithoutCustomer(t *testing.T) {
	page := CustomerPage{Total: 3, Customers: []Customer{{ID: "c1"}, {ID: "c2"}, {ID: "c3"}}}

	filtered := page.WithoutCustomer("c2")

	assert.Equal(t, 2, filtered.Total)
	assert.Len(t, filtered.Customers, 2)
	assert.Len(t, page.Customers, 3)
}
