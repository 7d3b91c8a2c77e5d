package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order status labels. isPaid/isDelivered are monotonic: once true they are
// never reverted by any visible flow.
const (
	OrderStatusCreated   = "created"
	OrderStatusPaid      = "paid"
	OrderStatusDelivered = "delivered"
)

// OrderItem is a snapshot of a product at order time; it does not track the
// live product document.
type OrderItem struct {
	Product primitive.ObjectID `bson:"product" json:"product"`
	Name    string             `bson:"name" json:"name"`
	Image   string             `bson:"image,omitempty" json:"image,omitempty"`
	Price   float64            `bson:"price" json:"price"`
	Qty     int                `bson:"qty" json:"qty"`
}

type ShippingAddress struct {
	Address    string `bson:"address" json:"address"`
	City       string `bson:"city" json:"city"`
	PostalCode string `bson:"postal_code" json:"postalCode"`
	Country    string `bson:"country" json:"country"`
}

// PaymentResult is the confirmation blob recorded from the payment provider
// callback.
type PaymentResult struct {
	ProviderID string `bson:"id" json:"id"`
	Status     string `bson:"status" json:"status"`
	UpdateTime string `bson:"update_time" json:"update_time"`
	Email      string `bson:"email_address" json:"email_address"`
}

type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User            primitive.ObjectID `bson:"user" json:"user"`
	OrderItems      []OrderItem        `bson:"order_items" json:"orderItems"`
	ShippingAddress ShippingAddress    `bson:"shipping_address" json:"shippingAddress"`
	PaymentMethod   string             `bson:"payment_method" json:"paymentMethod"`
	PaymentResult   *PaymentResult     `bson:"payment_result,omitempty" json:"paymentResult,omitempty"`
	ItemsPrice      float64            `bson:"items_price" json:"itemsPrice"`
	ShippingPrice   float64            `bson:"shipping_price" json:"shippingPrice"`
	TaxPrice        float64            `bson:"tax_price" json:"taxPrice"`
	TotalPrice      float64            `bson:"total_price" json:"totalPrice"`
	IsPaid          bool               `bson:"is_paid" json:"isPaid"`
	PaidAt          *time.Time         `bson:"paid_at,omitempty" json:"paidAt,omitempty"`
	IsDelivered     bool               `bson:"is_delivered" json:"isDelivered"`
	DeliveredAt     *time.Time         `bson:"delivered_at,omitempty" json:"deliveredAt,omitempty"`
	Status          string             `bson:"status" json:"status"`
	CreatedAt       time.Time          `bson:"created_at" json:"createdAt"`
}

// OrderInput is the checkout payload; prices are the client-computed snapshot
// and are stored as given, never recalculated from live products.
type OrderInput struct {
	OrderItems      []OrderItem     `json:"orderItems"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	ItemsPrice      float64         `json:"itemsPrice"`
	ShippingPrice   float64         `json:"shippingPrice"`
	TaxPrice        float64         `json:"taxPrice"`
	TotalPrice      float64         `json:"totalPrice"`
}

// OrderUser is the minimal owner projection joined into order reads.
type OrderUser struct {
	ID    primitive.ObjectID `bson:"_id" json:"id"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email,omitempty" json:"email,omitempty"`
}

// OrderWithUser is an order joined with its owner's name/email.
type OrderWithUser struct {
	Order    `bson:",inline"`
	UserInfo OrderUser `bson:"user_info" json:"userInfo"`
}
