package store

import (
	"context"
	"fmt"
	"math"

	"github.com/Poojan2107/Product-Nexus/internal/models"
	"github.com/Poojan2107/Product-Nexus/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Checkout pricing rules.
const (
	FreeShippingThreshold = 10000.0
	FlatShippingPrice     = 500.0
	TaxRate               = 0.18
)

// CartItem is a product snapshot held in the cart.
type CartItem struct {
	Product string  `json:"product"`
	Name    string  `json:"name"`
	Image   string  `json:"image,omitempty"`
	Price   float64 `json:"price"`
	Qty     int     `json:"qty"`
}

// CartState is the shopping cart slice, persisted client-side.
type CartState struct {
	Items           []CartItem             `json:"cartItems"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod"`
}

// CartPrices is the computed checkout summary.
type CartPrices struct {
	ItemsPrice    float64 `json:"itemsPrice"`
	ShippingPrice float64 `json:"shippingPrice"`
	TaxPrice      float64 `json:"taxPrice"`
	TotalPrice    float64 `json:"totalPrice"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ComputeCartPrices applies the checkout rules: free shipping above the
// threshold, flat rate below it, 18% tax on the item total.
func ComputeCartPrices(items []CartItem) CartPrices {
	itemsPrice := 0.0
	for _, item := range items {
		itemsPrice += item.Price * float64(item.Qty)
	}
	itemsPrice = round2(itemsPrice)

	shipping := FlatShippingPrice
	if itemsPrice > FreeShippingThreshold {
		shipping = 0
	}
	tax := round2(TaxRate * itemsPrice)

	return CartPrices{
		ItemsPrice:    itemsPrice,
		ShippingPrice: shipping,
		TaxPrice:      tax,
		TotalPrice:    round2(itemsPrice + shipping + tax),
	}
}

// AddToCart upserts by product id; adding an existing product replaces its
// quantity.
func (s *Store) AddToCart(item CartItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.Cart.Items {
		if s.Cart.Items[i].Product == item.Product {
			s.Cart.Items[i] = item
			s.persistCart()
			return
		}
	}
	s.Cart.Items = append(s.Cart.Items, item)
	s.persistCart()
}

func (s *Store) RemoveFromCart(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.Cart.Items[:0]
	for _, item := range s.Cart.Items {
		if item.Product != productID {
			items = append(items, item)
		}
	}
	s.Cart.Items = items
	s.persistCart()
}

func (s *Store) UpdateCartQty(productID string, qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.Cart.Items {
		if s.Cart.Items[i].Product == productID {
			s.Cart.Items[i].Qty = qty
			break
		}
	}
	s.persistCart()
}

func (s *Store) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Cart.Items = nil
	s.persistCart()
}

func (s *Store) SetShippingAddress(addr models.ShippingAddress) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Cart.ShippingAddress = addr
	s.persistCart()
}

func (s *Store) SetPaymentMethod(method string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Cart.PaymentMethod = method
	s.persistCart()
}

// CartPricesNow computes the checkout summary for the current cart.
func (s *Store) CartPricesNow() CartPrices {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ComputeCartPrices(s.Cart.Items)
}

// Checkout places an order from the current cart snapshot and clears the
// cart on success.
func (s *Store) Checkout(ctx context.Context) (models.Order, error) {
	s.mu.Lock()
	if len(s.Cart.Items) == 0 {
		s.mu.Unlock()
		return models.Order{}, fmt.Errorf("%w: cart is empty", services.ErrValidation)
	}

	prices := ComputeCartPrices(s.Cart.Items)
	input := models.OrderInput{
		ShippingAddress: s.Cart.ShippingAddress,
		PaymentMethod:   s.Cart.PaymentMethod,
		ItemsPrice:      prices.ItemsPrice,
		ShippingPrice:   prices.ShippingPrice,
		TaxPrice:        prices.TaxPrice,
		TotalPrice:      prices.TotalPrice,
	}
	for _, item := range s.Cart.Items {
		productID, err := primitive.ObjectIDFromHex(item.Product)
		if err != nil {
			s.mu.Unlock()
			return models.Order{}, fmt.Errorf("%w: bad product id in cart", services.ErrValidation)
		}
		input.OrderItems = append(input.OrderItems, models.OrderItem{
			Product: productID,
			Name:    item.Name,
			Image:   item.Image,
			Price:   item.Price,
			Qty:     item.Qty,
		})
	}
	s.mu.Unlock()

	order, err := s.client.CreateOrder(ctx, input)
	if err != nil {
		return models.Order{}, err
	}

	s.ClearCart()
	return order, nil
}
