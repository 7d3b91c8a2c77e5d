package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Poojan2107/Product-Nexus/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateOrderRejectsEmptyItems(t *testing.T) {
	userID := primitive.NewObjectID().Hex()

	_, err := CreateOrder(context.Background(), userID, models.OrderInput{})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("empty item list should be a validation error, got %v", err)
	}
}

func TestCreateOrderRejectsBadItems(t *testing.T) {
	userID := primitive.NewObjectID().Hex()

	_, err := CreateOrder(context.Background(), userID, models.OrderInput{
		OrderItems: []models.OrderItem{{Name: "Widget", Price: 10, Qty: 0}},
	})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("zero quantity should be a validation error, got %v", err)
	}

	_, err = CreateOrder(context.Background(), userID, models.OrderInput{
		OrderItems: []models.OrderItem{{Name: "Widget", Price: -1, Qty: 1}},
	})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("negative price should be a validation error, got %v", err)
	}
}

func TestCreateOrderRejectsMalformedUser(t *testing.T) {
	_, err := CreateOrder(context.Background(), "not-an-object-id", models.OrderInput{
		OrderItems: []models.OrderItem{{Name: "Widget", Price: 10, Qty: 1}},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("malformed user id should be not-found, got %v", err)
	}
}

func TestDeliverRequiresPaidOrder(t *testing.T) {
	err := deliverable(models.Order{Status: models.OrderStatusCreated})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("delivering an unpaid order should be a validation error, got %v", err)
	}

	if err := deliverable(models.Order{IsPaid: true, Status: models.OrderStatusPaid}); err != nil {
		t.Errorf("paid order should be deliverable, got %v", err)
	}
}

// Both lifecycle updates only ever set their flag to true; nothing in either
// $set can revert isPaid or isDelivered.
func TestLifecycleUpdatesAreMonotonic(t *testing.T) {
	now := time.Now()
	result := models.PaymentResult{ProviderID: "pay_123", Status: "COMPLETED"}

	paid := paidUpdate(result, now)["$set"].(bson.M)
	if paid["is_paid"] != true {
		t.Errorf("paid update should set is_paid true, got %v", paid["is_paid"])
	}
	if paid["status"] != models.OrderStatusPaid {
		t.Errorf("paid update status = %v, want paid", paid["status"])
	}
	if paid["payment_result"].(models.PaymentResult).ProviderID != "pay_123" {
		t.Errorf("paid update should record the provider result, got %v", paid["payment_result"])
	}
	if _, touched := paid["is_delivered"]; touched {
		t.Error("paid update must not touch is_delivered")
	}

	delivered := deliveredUpdate(now)["$set"].(bson.M)
	if delivered["is_delivered"] != true {
		t.Errorf("delivered update should set is_delivered true, got %v", delivered["is_delivered"])
	}
	if delivered["status"] != models.OrderStatusDelivered {
		t.Errorf("delivered update status = %v, want delivered", delivered["status"])
	}
	if _, touched := delivered["is_paid"]; touched {
		t.Error("delivered update must not touch is_paid")
	}
}

func TestMarkOrderPaidRejectsMalformedID(t *testing.T) {
	_, err := MarkOrderPaid(context.Background(), "not-an-object-id", models.PaymentResult{})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("malformed order id should be not-found, got %v", err)
	}

	_, err = MarkOrderDelivered(context.Background(), "not-an-object-id")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("malformed order id should be not-found, got %v", err)
	}
}

// The daily series is capped at 7 groups and returned ascending even though
// the cap keeps the most recent days.
func TestDailySalesPipelineShape(t *testing.T) {
	pipeline := dailySalesPipeline()
	if len(pipeline) != 4 {
		t.Fatalf("expected 4 stages, got %d", len(pipeline))
	}

	if pipeline[0][0].Key != "$group" {
		t.Errorf("stage 0 should group by day, got %s", pipeline[0][0].Key)
	}
	group := pipeline[0][0].Value.(bson.M)
	dateExpr := group["_id"].(bson.M)["$dateToString"].(bson.M)
	if dateExpr["format"] != "%Y-%m-%d" {
		t.Errorf("grouping key should be the calendar day, got %v", dateExpr["format"])
	}

	if pipeline[1][0].Key != "$sort" || pipeline[1][0].Value.(bson.D)[0].Value != -1 {
		t.Error("stage 1 should sort descending to keep the most recent days")
	}
	if pipeline[2][0].Key != "$limit" || pipeline[2][0].Value != 7 {
		t.Errorf("stage 2 should cap the series at 7, got %v", pipeline[2][0].Value)
	}
	if pipeline[3][0].Key != "$sort" || pipeline[3][0].Value.(bson.D)[0].Value != 1 {
		t.Error("stage 3 should re-sort ascending for the response")
	}
}

func TestRevenuePipelineSumsTotals(t *testing.T) {
	pipeline := revenuePipeline()
	if len(pipeline) != 1 || pipeline[0][0].Key != "$group" {
		t.Fatalf("expected a single $group stage, got %v", pipeline)
	}
	group := pipeline[0][0].Value.(bson.M)
	if group["total"].(bson.M)["$sum"] != "$total_price" {
		t.Errorf("revenue should sum order totals, got %v", group["total"])
	}
}
