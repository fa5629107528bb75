package application

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bnema/autumn-cli/internal/domain"
	"github.com/bnema/autumn-cli/internal/ports"
	"github.com/stretchr/testify/mock"
)

func mockAnyContext() interface{} {
	return mock.MatchedBy(func(context.Context) bool { return true })
}

type memorySecretStore struct {
	mu      sync.Mutex
	secrets map[string]string
}

func newMemorySecretStore() *memorySecretStore {
	return &memorySecretStore{secrets: map[string]string{}}
}

func (s *memorySecretStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.secrets[key]
	if !ok {
		return "", fmt.Errorf("memory secret %q: %w", key, domain.ErrSecretNotFound)
	}
	return value, nil
}

func (s *memorySecretStore) Put(_ context.Context, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.secrets[key] = value
	return nil
}

func (s *memorySecretStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.secrets, key)
	return nil
}

// fakeBilling is an in-memory remote. Only validKey is accepted; any other
// key gets the invalid_secret_key error.
type fakeBilling struct {
	mu        sync.Mutex
	validKey  string
	customers []domain.Customer
	invoices  map[domain.CustomerID][]domain.Invoice
	org       domain.Organization

	// staleList keeps serving the list captured before deletes.
	staleList []domain.Customer

	// gate, when set, blocks list reads until it is closed.
	gate chan struct{}

	listCalls   atomic.Int32
	getCalls    atomic.Int32
	updateCalls atomic.Int32
	deleteCalls atomic.Int32
	orgCalls    atomic.Int32
	keysSeen    []string
}

func newFakeBilling(validKey string, customers ...domain.Customer) *fakeBilling {
	return &fakeBilling{
		validKey:  validKey,
		customers: customers,
		invoices:  map[domain.CustomerID][]domain.Invoice{},
		org:       domain.Organization{ID: "org_1", Name: "Acme", Slug: "acme"},
	}
}

func (f *fakeBilling) factory() ports.BillingClientFactory {
	return func(secretKey string) ports.BillingClient {
		f.mu.Lock()
		f.keysSeen = append(f.keysSeen, secretKey)
		f.mu.Unlock()
		return &fakeBillingClient{remote: f, key: secretKey}
	}
}

func (f *fakeBilling) setCustomers(customers ...domain.Customer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.customers = customers
}

type fakeBillingClient struct {
	remote *fakeBilling
	key    string
}

func (c *fakeBillingClient) authorize() error {
	if c.key != c.remote.validKey {
		return &domain.RemoteError{Status: 401, Code: domain.RemoteCodeInvalidSecretKey, Message: "Invalid secret key"}
	}
	return nil
}

func (c *fakeBillingClient) ListCustomers(ctx context.Context, params ports.ListCustomersParams) (domain.CustomerPage, error) {
	c.remote.listCalls.Add(1)

	c.remote.mu.Lock()
	gate := c.remote.gate
	c.remote.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return domain.CustomerPage{}, ctx.Err()
		case <-time.After(5 * time.Second):
			return domain.CustomerPage{}, fmt.Errorf("gate never opened")
		}
	}

	if err := c.authorize(); err != nil {
		return domain.CustomerPage{}, err
	}

	c.remote.mu.Lock()
	defer c.remote.mu.Unlock()

	source := c.remote.customers
	if c.remote.staleList != nil {
		source = c.remote.staleList
	}
	customers := append([]domain.Customer(nil), source...)
	if params.Limit > 0 && len(customers) > params.Limit {
		customers = customers[:params.Limit]
	}

	return domain.CustomerPage{Customers: customers, Total: len(source), Limit: params.Limit}, nil
}

func (c *fakeBillingClient) GetCustomer(_ context.Context, id domain.CustomerID, expand ...ports.Expansion) (domain.CustomerView, error) {
	c.remote.getCalls.Add(1)
	if err := c.authorize(); err != nil {
		return nil, err
	}

	c.remote.mu.Lock()
	defer c.remote.mu.Unlock()

	for _, customer := range c.remote.customers {
		if customer.ID != id {
			continue
		}
		invoices := c.remote.invoices[id]
		if invoices == nil {
			invoices = []domain.Invoice{}
		}
		return domain.NewCustomerView(customer, invoices, []domain.Entity{}), nil
	}

	return nil, &domain.RemoteError{Status: 404, Code: "customer_not_found", Message: "Customer not found"}
}

func (c *fakeBillingClient) UpdateCustomer(_ context.Context, id domain.CustomerID, patch domain.CustomerPatch) (domain.Customer, error) {
	c.remote.updateCalls.Add(1)
	if err := c.authorize(); err != nil {
		return domain.Customer{}, err
	}

	c.remote.mu.Lock()
	defer c.remote.mu.Unlock()

	for i, customer := range c.remote.customers {
		if customer.ID != id {
			continue
		}
		if patch.Name != nil {
			customer.Name = *patch.Name
		}
		if patch.Email != nil {
			customer.Email = *patch.Email
		}
		c.remote.customers[i] = customer
		return customer, nil
	}

	return domain.Customer{}, &domain.RemoteError{Status: 404, Code: "customer_not_found", Message: "Customer not found"}
}

func (c *fakeBillingClient) DeleteCustomer(_ context.Context, id domain.CustomerID) error {
	c.remote.deleteCalls.Add(1)
	if err := c.authorize(); err != nil {
		return err
	}

	c.remote.mu.Lock()
	defer c.remote.mu.Unlock()

	kept := c.remote.customers[:0:0]
	found := false
	for _, customer := range c.remote.customers {
		if customer.ID == id {
			found = true
			continue
		}
		kept = append(kept, customer)
	}
	if !found {
		return &domain.RemoteError{Status: 404, Code: "customer_not_found", Message: "Customer not found"}
	}
	c.remote.customers = kept
	return nil
}

func (c *fakeBillingClient) GetOrganization(_ context.Context) (domain.Organization, error) {
	c.remote.orgCalls.Add(1)
	if err := c.authorize(); err != nil {
		return domain.Organization{}, err
	}

	c.remote.mu.Lock()
	defer c.remote.mu.Unlock()
	return c.remote.org, nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type syncFixture struct {
	store   *memorySecretStore
	creds   *CredentialService
	remote  *fakeBilling
	clock   *fakeClock
	cache   *QueryCache
	service *SyncService
}

const testAPIKey = "am_sk_test"

func newSyncFixture(customers ...domain.Customer) *syncFixture {
	store := newMemorySecretStore()
	_ = store.Put(context.Background(), CredentialKey, testAPIKey)

	creds := NewCredentialService(store)
	remote := newFakeBilling(testAPIKey, customers...)
	clock := newFakeClock()
	cache := NewQueryCache(clock, DefaultStaleAfter)
	service := NewSyncService(NewClientFactory(creds, remote.factory()), creds, cache, SyncOptions{})

	return &syncFixture{store: store, creds: creds, remote: remote, clock: clock, cache: cache, service: service}
}

func activeCustomer(id domain.CustomerID, name string) domain.Customer {
	return domain.Customer{
		ID:       id,
		Name:     name,
		Email:    string(id) + "@example.com",
		Products: []domain.Product{{ID: "pro", Status: domain.ProductStatusActive}},
	}
}

func trialingCustomer(id domain.CustomerID, name string) domain.Customer {
	return domain.Customer{
		ID:       id,
		Name:     name,
		Products: []domain.Product{{ID: "pro", Status: domain.ProductStatusTrialing}},
	}
}

func strPtr(value string) *string {
	return &value
}
