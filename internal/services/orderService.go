package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Poojan2107/Product-Nexus/internal/db"
	"github.com/Poojan2107/Product-Nexus/internal/models"
	"github.com/Poojan2107/Product-Nexus/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateOrder stores a checkout snapshot. Item prices are captured as given
// and never recalculated from live products.
func CreateOrder(ctx context.Context, userID string, input models.OrderInput) (models.Order, error) {
	owner, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return models.Order{}, fmt.Errorf("%w: user", ErrNotFound)
	}

	if len(input.OrderItems) == 0 {
		return models.Order{}, fmt.Errorf("%w: no order items", ErrValidation)
	}
	for _, item := range input.OrderItems {
		if item.Qty <= 0 || item.Price < 0 {
			return models.Order{}, fmt.Errorf("%w: invalid order item", ErrValidation)
		}
	}

	order := models.Order{
		ID:              primitive.NewObjectID(),
		User:            owner,
		OrderItems:      input.OrderItems,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   input.PaymentMethod,
		ItemsPrice:      input.ItemsPrice,
		ShippingPrice:   input.ShippingPrice,
		TaxPrice:        input.TaxPrice,
		TotalPrice:      input.TotalPrice,
		Status:          models.OrderStatusCreated,
		CreatedAt:       time.Now(),
	}

	if _, err := db.GetCollection("orders").InsertOne(ctx, order); err != nil {
		return models.Order{}, fmt.Errorf("failed to save order: %w", err)
	}
	return order, nil
}

// MyOrders lists the requester's own orders.
func MyOrders(ctx context.Context, userID string) ([]models.Order, error) {
	owner, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}

	cursor, err := db.GetCollection("orders").Find(ctx, bson.M{"user": owner},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("error decoding orders: %w", err)
	}
	return orders, nil
}

// orderUserPipeline joins the owning user into an order read.
func orderUserPipeline(match bson.M, emailInProjection bool) mongo.Pipeline {
	userProjection := bson.M{"_id": 1, "name": 1}
	if emailInProjection {
		userProjection["email"] = 1
	}
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "user",
			"foreignField": "_id",
			"as":           "user_info",
			"pipeline":     mongo.Pipeline{{{Key: "$project", Value: userProjection}}},
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$user_info", "preserveNullAndEmptyArrays": true}}},
	}
}

// GetOrder returns the order with the owner's name/email joined in. Only the
// owner and admins may read it.
func GetOrder(ctx context.Context, orderID, requesterID, role string) (models.OrderWithUser, error) {
	objID, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return models.OrderWithUser{}, fmt.Errorf("%w: order", ErrNotFound)
	}

	cursor, err := db.GetCollection("orders").Aggregate(ctx, orderUserPipeline(bson.M{"_id": objID}, true))
	if err != nil {
		return models.OrderWithUser{}, fmt.Errorf("failed to fetch order: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.OrderWithUser
	if err := cursor.All(ctx, &results); err != nil {
		return models.OrderWithUser{}, fmt.Errorf("error decoding order: %w", err)
	}
	if len(results) == 0 {
		return models.OrderWithUser{}, fmt.Errorf("%w: order", ErrNotFound)
	}

	order := results[0]
	if order.User.Hex() != requesterID && role != models.RoleAdmin {
		return models.OrderWithUser{}, fmt.Errorf("%w: order belongs to another user", ErrForbidden)
	}
	return order, nil
}

// ListOrders returns all orders with a minimal owner projection, for admins.
func ListOrders(ctx context.Context) ([]models.OrderWithUser, error) {
	cursor, err := db.GetCollection("orders").Aggregate(ctx, orderUserPipeline(bson.M{}, false))
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := []models.OrderWithUser{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("error decoding orders: %w", err)
	}
	return orders, nil
}

// paidUpdate is the $set applied by the paid transition. It only ever sets
// is_paid to true; nothing reverts it.
func paidUpdate(result models.PaymentResult, now time.Time) bson.M {
	return bson.M{"$set": bson.M{
		"is_paid":        true,
		"paid_at":        now,
		"payment_result": result,
		"status":         models.OrderStatusPaid,
	}}
}

// deliveredUpdate is the $set applied by the delivered transition.
func deliveredUpdate(now time.Time) bson.M {
	return bson.M{"$set": bson.M{
		"is_delivered": true,
		"delivered_at": now,
		"status":       models.OrderStatusDelivered,
	}}
}

// deliverable reports whether an order may take the delivered transition.
func deliverable(order models.Order) error {
	if !order.IsPaid {
		return fmt.Errorf("%w: order is not paid", ErrValidation)
	}
	return nil
}

// MarkOrderPaid records a verified payment confirmation. The update filter
// matches only unpaid orders, so concurrent callbacks race for a single
// transition and the first one's payment_result is authoritative; later
// callbacks see the already-paid order back as a no-op.
func MarkOrderPaid(ctx context.Context, orderID string, result models.PaymentResult) (models.Order, error) {
	objID, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return models.Order{}, fmt.Errorf("%w: order", ErrNotFound)
	}

	collection := db.GetCollection("orders")

	var order models.Order
	err = collection.FindOneAndUpdate(ctx,
		bson.M{"_id": objID, "is_paid": false},
		paidUpdate(result, time.Now()),
		afterUpdate()).Decode(&order)
	if err == nil {
		return order, nil
	}
	if err != mongo.ErrNoDocuments {
		return models.Order{}, fmt.Errorf("failed to mark order paid: %w", err)
	}

	// No unpaid order matched: either already paid (no-op) or missing.
	if err := collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&order); err != nil {
		return models.Order{}, fmt.Errorf("%w: order", ErrNotFound)
	}
	return order, nil
}

// MarkOrderDelivered is the terminal transition; it requires a paid order and
// is idempotent once delivered.
func MarkOrderDelivered(ctx context.Context, orderID string) (models.Order, error) {
	objID, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return models.Order{}, fmt.Errorf("%w: order", ErrNotFound)
	}

	collection := db.GetCollection("orders")

	var order models.Order
	if err := collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&order); err != nil {
		return models.Order{}, fmt.Errorf("%w: order", ErrNotFound)
	}

	if order.IsDelivered {
		return order, nil
	}
	if err := deliverable(order); err != nil {
		return models.Order{}, err
	}

	err = collection.FindOneAndUpdate(ctx, bson.M{"_id": objID},
		deliveredUpdate(time.Now()), afterUpdate()).Decode(&order)
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to mark order delivered: %w", err)
	}
	return order, nil
}

// DailySale is one point of the revenue time series.
type DailySale struct {
	Date  string  `bson:"_id" json:"date"`
	Sales float64 `bson:"sales" json:"sales"`
	Count int     `bson:"count" json:"count"`
}

// OrderAnalytics is the admin revenue report.
type OrderAnalytics struct {
	TotalOrders  int64       `json:"totalOrders"`
	TotalRevenue float64     `json:"totalRevenue"`
	DailySales   []DailySale `json:"dailySales"`
}

// revenuePipeline sums every order total.
func revenuePipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$total_price"},
		}}},
	}
}

// dailySalesPipeline groups by calendar day and keeps the most recent 7
// groups in ascending order.
func dailySalesPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$created_at"}},
			"sales": bson.M{"$sum": "$total_price"},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: -1}}}},
		{{Key: "$limit", Value: 7}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
}

// GetOrderAnalytics computes the admin revenue report. The three queries run
// in parallel.
func GetOrderAnalytics(ctx context.Context) (OrderAnalytics, error) {
	collection := db.GetCollection("orders")

	results, errs := utils.RunParallelTasks([]utils.ParallelTask{
		func() (interface{}, error) {
			return collection.CountDocuments(ctx, bson.M{})
		},
		func() (interface{}, error) {
			cursor, err := collection.Aggregate(ctx, revenuePipeline())
			if err != nil {
				return nil, err
			}
			defer cursor.Close(ctx)
			var rows []struct {
				Total float64 `bson:"total"`
			}
			if err := cursor.All(ctx, &rows); err != nil {
				return nil, err
			}
			if len(rows) == 0 {
				return float64(0), nil
			}
			return rows[0].Total, nil
		},
		func() (interface{}, error) {
			cursor, err := collection.Aggregate(ctx, dailySalesPipeline())
			if err != nil {
				return nil, err
			}
			defer cursor.Close(ctx)
			sales := []DailySale{}
			if err := cursor.All(ctx, &sales); err != nil {
				return nil, err
			}
			return sales, nil
		},
	})
	if err := utils.FirstError(errs); err != nil {
		return OrderAnalytics{}, fmt.Errorf("failed to compute analytics: %w", err)
	}

	return OrderAnalytics{
		TotalOrders:  results[0].(int64),
		TotalRevenue: results[1].(float64),
		DailySales:   results[2].([]DailySale),
	}, nil
}
