// Package store holds the client-side application state: the product list
// with its filters and pagination, the shopping cart, and derived dashboard
// statistics. Each slice is an explicit state struct mutated through reducer
// methods on Store; the mutex is there because undo timers and debounced
// fetches fire on their own goroutines.
package store

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/Poojan2107/Product-Nexus/internal/client"
)

type Store struct {
	mu     sync.Mutex
	client *client.Client

	Products  ProductState
	Cart      CartState
	Dashboard DashboardState

	cartPath    string
	searchTimer *time.Timer
	listCancel  context.CancelFunc
}

// New builds a store around an API client. cartPath is where the cart
// survives between runs; the previous cart is loaded when the file exists.
func New(c *client.Client, cartPath string) *Store {
	s := &Store{
		client:   c,
		cartPath: cartPath,
		Products: ProductState{
			CurrentPage: 1,
			TotalPages:  1,
			Filters:     client.ProductFilters{SortBy: "name"},
		},
		Dashboard: DashboardState{Stats: emptyStats()},
	}
	s.loadCart()
	return s
}

func (s *Store) loadCart() {
	if s.cartPath == "" {
		return
	}
	data, err := os.ReadFile(s.cartPath)
	if err != nil {
		return
	}
	var cart CartState
	if err := json.Unmarshal(data, &cart); err != nil {
		return
	}
	s.Cart = cart
}

// persistCart is called with the lock held after every cart mutation.
func (s *Store) persistCart() {
	if s.cartPath == "" {
		return
	}
	data, err := json.MarshalIndent(s.Cart, "", "  ")
	if err != nil {
		return
	}
	_ = os.WriteFile(s.cartPath, data, 0o644)
}
