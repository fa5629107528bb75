package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/bnema/autumn-cli/internal/domain"
	"github.com/bnema/autumn-cli/internal/ports"
)

const DefaultRefreshInterval = 60 * time.Second

type SyncOptions struct {
	CustomersLimit int
	Logger         *slog.Logger
}

// SyncService is the read/write surface screens use. Reads go through the
// QueryCache; writes invalidate the keys they affect. A rejected API key
// clears the stored credential and surfaces domain.ErrSessionExpired.
type SyncService struct {
	clients     *ClientFactory
	credentials *CredentialService
	cache       *QueryCache
	limit       int
	logger      *slog.Logger

	mu         sync.Mutex
	tombstones map[domain.CustomerID]struct{}
}

func NewSyncService(clients *ClientFactory, credentials *CredentialService, cache *QueryCache, opts SyncOptions) *SyncService {
	limit := opts.CustomersLimit
	if limit <= 0 || limit > domain.DefaultCustomerListLimit {
		limit = domain.DefaultCustomerListLimit
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &SyncService{
		clients:     clients,
		credentials: credentials,
		cache:       cache,
		limit:       limit,
		logger:      logger,
		tombstones:  map[domain.CustomerID]struct{}{},
	}
}

func (s *SyncService) Cache() *QueryCache {
	return s.cache
}

func (s *SyncService) Customers(ctx context.Context) (domain.CustomerPage, error) {
	return s.customers(ctx, false)
}

// RefreshCustomers bypasses the stale window.
func (s *SyncService) RefreshCustomers(ctx context.Context) (domain.CustomerPage, error) {
	return s.customers(ctx, true)
}

func (s *SyncService) PeekCustomers() (domain.CustomerPage, bool) {
	page, ok := Peek[domain.CustomerPage](s.cache, KeyCustomers)
	if !ok {
		return domain.CustomerPage{}, false
	}
	return s.withoutTombstoned(page), true
}

func (s *SyncService) Dashboard(ctx context.Context) (domain.DashboardSummary, error) {
	page, err := s.Customers(ctx)
	if err != nil {
		return domain.DashboardSummary{}, err
	}
	return domain.SummarizeCustomers(page), nil
}

func (s *SyncService) customers(ctx context.Context, force bool) (domain.CustomerPage, error) {
	page, err := fetchAs(ctx, s.cache, KeyCustomers, force, func(ctx context.Context) (domain.CustomerPage, error) {
		client, err := s.clients.Client(ctx)
		if err != nil {
			return domain.CustomerPage{}, err
		}

		page, err := client.ListCustomers(ctx, ports.ListCustomersParams{Limit: s.limit})
		if err != nil {
			return domain.CustomerPage{}, err
		}

		s.pruneTombstones(page)
		return page, nil
	})
	if err != nil {
		return domain.CustomerPage{}, s.handle(ctx, err)
	}

	return s.withoutTombstoned(page), nil
}

func (s *SyncService) Customer(ctx context.Context, id domain.CustomerID) (domain.CustomerView, error) {
	return s.customer(ctx, id, false)
}

func (s *SyncService) RefreshCustomer(ctx context.Context, id domain.CustomerID) (domain.CustomerView, error) {
	return s.customer(ctx, id, true)
}

func (s *SyncService) PeekCustomer(id domain.CustomerID) (domain.CustomerView, bool) {
	if s.isTombstoned(id) {
		return nil, false
	}
	return Peek[domain.CustomerView](s.cache, CustomerKey(id))
}

func (s *SyncService) customer(ctx context.Context, id domain.CustomerID, force bool) (domain.CustomerView, error) {
	if id == "" {
		return nil, domain.ErrMissingCustomer
	}
	if s.isTombstoned(id) {
		return nil, fmt.Errorf("customer %q: %w", id, domain.ErrCustomerNotFound)
	}

	view, err := fetchAs(ctx, s.cache, CustomerKey(id), force, func(ctx context.Context) (domain.CustomerView, error) {
		client, err := s.clients.Client(ctx)
		if err != nil {
			return nil, err
		}
		return client.GetCustomer(ctx, id, ports.ExpandInvoices, ports.ExpandEntities)
	})
	if err != nil {
		return nil, s.handle(ctx, err)
	}

	return view, nil
}

func (s *SyncService) Organization(ctx context.Context) (domain.Organization, error) {
	org, err := fetchAs(ctx, s.cache, KeyOrganization, false, func(ctx context.Context) (domain.Organization, error) {
		client, err := s.clients.Client(ctx)
		if err != nil {
			return domain.Organization{}, err
		}
		return client.GetOrganization(ctx)
	})
	if err != nil {
		return domain.Organization{}, s.handle(ctx, err)
	}

	return org, nil
}

func (s *SyncService) PeekOrganization() (domain.Organization, bool) {
	return Peek[domain.Organization](s.cache, KeyOrganization)
}

// UpdateCustomer applies cmd remotely, then re-reads the customer and the
// list so both cache entries reflect the edit when it returns.
func (s *SyncService) UpdateCustomer(ctx context.Context, cmd UpdateCustomerCommand) (domain.CustomerView, error) {
	patch, err := cmd.Patch()
	if err != nil {
		return nil, err
	}

	client, err := s.clients.Client(ctx)
	if err != nil {
		return nil, err
	}

	updated, err := client.UpdateCustomer(ctx, cmd.ID, patch)
	if err != nil {
		return nil, s.handle(ctx, err)
	}

	previous, hadPrevious := s.PeekCustomer(cmd.ID)
	s.cache.Invalidate(CustomerKey(cmd.ID), KeyCustomers)

	view, err := s.Customer(ctx, cmd.ID)
	if err != nil {
		if domain.KindOf(err) == domain.KindCredentialInvalid {
			return nil, err
		}
		s.logger.Warn("re-read customer after update failed", "customer_id", cmd.ID, "error", err)
		if hadPrevious {
			view = domain.WithProfile(previous, updated)
		} else {
			view = domain.NewCustomerView(updated, nil, nil)
		}
	}

	if _, err := s.Customers(ctx); err != nil {
		if domain.KindOf(err) == domain.KindCredentialInvalid {
			return nil, err
		}
		s.logger.Warn("re-read customers after update failed", "error", err)
	}

	return view, nil
}

// DeleteCustomer removes the customer remotely and hides it from every
// later list read, even one served by a briefly stale remote list.
func (s *SyncService) DeleteCustomer(ctx context.Context, id domain.CustomerID) error {
	if id == "" {
		return domain.ErrMissingCustomer
	}

	client, err := s.clients.Client(ctx)
	if err != nil {
		return err
	}

	if err := client.DeleteCustomer(ctx, id); err != nil {
		return s.handle(ctx, err)
	}

	s.mu.Lock()
	s.tombstones[id] = struct{}{}
	s.mu.Unlock()

	s.cache.Invalidate(CustomerKey(id), KeyCustomers)
	s.logger.Debug("customer deleted", "customer_id", id)

	return nil
}

// WatchCustomers refreshes the customer list immediately and then on every
// interval tick until ctx is done. fn receives each result, errors
// included. An expired session stops the watch.
func (s *SyncService) WatchCustomers(ctx context.Context, interval time.Duration, fn func(domain.CustomerPage, error)) error {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		page, err := s.RefreshCustomers(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		fn(page, err)
		if errors.Is(err, domain.ErrSessionExpired) {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// ClearSession removes the stored credential and drops all cached data.
func (s *SyncService) ClearSession(ctx context.Context) error {
	s.cache.Reset()

	s.mu.Lock()
	s.tombstones = map[domain.CustomerID]struct{}{}
	s.mu.Unlock()

	return s.credentials.Clear(ctx)
}

func (s *SyncService) handle(ctx context.Context, err error) error {
	if domain.KindOf(err) != domain.KindCredentialInvalid {
		return err
	}
	if errors.Is(err, domain.ErrSessionExpired) {
		return err
	}

	s.logger.Warn("api key rejected, clearing stored credential", "error", err)

	if clearErr := s.ClearSession(context.WithoutCancel(ctx)); clearErr != nil {
		return fmt.Errorf("%w: %w", domain.ErrSessionExpired, errors.Join(err, clearErr))
	}

	return fmt.Errorf("%w: %w", domain.ErrSessionExpired, err)
}

func (s *SyncService) isTombstoned(id domain.CustomerID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.tombstones[id]
	return ok
}

func (s *SyncService) withoutTombstoned(page domain.CustomerPage) domain.CustomerPage {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range s.tombstones {
		page = page.WithoutCustomer(id)
	}
	return page
}

// pruneTombstones forgets deletions the remote list no longer reports.
func (s *SyncService) pruneTombstones(page domain.CustomerPage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.tombstones) == 0 {
		return
	}

	present := make(map[domain.CustomerID]struct{}, len(page.Customers))
	for _, customer := range page.Customers {
		present[customer.ID] = struct{}{}
	}
	for id := range s.tombstones {
		if _, ok := present[id]; !ok {
			delete(s.tombstones, id)
		}
	}
}
