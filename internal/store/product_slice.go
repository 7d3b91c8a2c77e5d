package store

import (
	"context"
	"sync"
	"time"

	"github.com/Poojan2107/Product-Nexus/internal/client"
	"github.com/Poojan2107/Product-Nexus/internal/models"
)

// ProductState is the product list slice: one fetched page plus the filters
// and pagination that produced it.
type ProductState struct {
	Items         []models.Product
	TotalProducts int64
	CurrentPage   int
	TotalPages    int
	Loading       bool
	Err           string
	Filters       client.ProductFilters
}

// SetFilters replaces the listing filters. Any filter change resets
// pagination to page 1.
func (s *Store) SetFilters(f client.ProductFilters) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Products.Filters = f
	s.Products.CurrentPage = 1
}

func (s *Store) SetPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if page < 1 {
		page = 1
	}
	s.Products.CurrentPage = page
}

// SetFiltersDebounced coalesces rapid filter changes (the search box) into
// one fetch after delay. Each call resets the pending timer; done is invoked
// with the fetch result when it finally fires.
func (s *Store) SetFiltersDebounced(f client.ProductFilters, delay time.Duration, done func(error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.searchTimer != nil {
		s.searchTimer.Stop()
	}
	s.searchTimer = time.AfterFunc(delay, func() {
		s.SetFilters(f)
		err := s.FetchProducts(context.Background())
		if done != nil {
			done(err)
		}
	})
}

// FetchProducts loads the current page from the backend. An in-flight fetch
// is aborted when a newer one starts.
func (s *Store) FetchProducts(ctx context.Context) error {
	s.mu.Lock()
	if s.listCancel != nil {
		s.listCancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	s.listCancel = cancel
	s.Products.Loading = true
	s.Products.Err = ""
	page := s.Products.CurrentPage
	filters := s.Products.Filters
	s.mu.Unlock()

	result, err := s.client.FetchProducts(ctx, page, 10, filters)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.Products.Loading = false
	if err != nil {
		s.Products.Err = err.Error()
		return err
	}
	s.Products.Items = result.Products
	s.Products.TotalProducts = result.TotalProducts
	s.Products.TotalPages = result.TotalPages
	s.Products.CurrentPage = result.CurrentPage
	return nil
}

// RemoveProductOptimistic drops the product from the visible list before the
// backend delete has run.
func (s *Store) RemoveProductOptimistic(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.Products.Items[:0]
	for _, item := range s.Products.Items {
		if item.ID.Hex() != id {
			items = append(items, item)
		}
	}
	s.Products.Items = items
	if s.Products.TotalProducts > 0 {
		s.Products.TotalProducts--
	}
}

// PendingDelete is an optimistic delete waiting out its undo window.
type PendingDelete struct {
	store *Store
	id    string
	timer *time.Timer
	once  sync.Once
}

// DeleteProductWithUndo removes the product from view immediately and fires
// the backend delete after grace unless Undo is called first.
func (s *Store) DeleteProductWithUndo(id string, grace time.Duration) *PendingDelete {
	s.RemoveProductOptimistic(id)

	p := &PendingDelete{store: s, id: id}
	p.timer = time.AfterFunc(grace, func() {
		if err := s.client.DeleteProduct(context.Background(), id); err != nil {
			s.mu.Lock()
			s.Products.Err = err.Error()
			s.mu.Unlock()
		}
	})
	return p
}

// Undo cancels the pending backend delete and re-fetches the authoritative
// list. Calling it after the delete has fired does nothing.
func (p *PendingDelete) Undo() {
	p.once.Do(func() {
		if p.timer.Stop() {
			_ = p.store.FetchProducts(context.Background())
		}
	})
}
