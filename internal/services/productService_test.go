package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Poojan2107/Product-Nexus/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func floatPtr(v float64) *float64 { return &v }

func TestBuildProductFilterScopesToOwner(t *testing.T) {
	owner := primitive.NewObjectID()
	filter := buildProductFilter(owner, ProductListParams{})

	if filter["user"] != owner {
		t.Errorf("expected filter scoped to owner %v, got %v", owner, filter["user"])
	}
	if _, ok := filter["$or"]; ok {
		t.Error("no search term given, $or should be absent")
	}
	if _, ok := filter["price"]; ok {
		t.Error("no price bounds given, price clause should be absent")
	}
}

func TestBuildProductFilterSearch(t *testing.T) {
	owner := primitive.NewObjectID()
	filter := buildProductFilter(owner, ProductListParams{Search: "Wid(get"})

	or, ok := filter["$or"].(bson.A)
	if !ok {
		t.Fatalf("expected $or clause, got %v", filter["$or"])
	}
	if len(or) != 3 {
		t.Fatalf("search should match name/category/subcategory, got %d clauses", len(or))
	}
	name := or[0].(bson.M)["name"].(primitive.Regex)
	if name.Options != "i" {
		t.Errorf("search must be case-insensitive, got options %q", name.Options)
	}
	if name.Pattern == "Wid(get" {
		t.Error("regex metacharacters in the search term must be quoted")
	}
}

func TestBuildProductFilterPriceBounds(t *testing.T) {
	owner := primitive.NewObjectID()

	filter := buildProductFilter(owner, ProductListParams{MinPrice: floatPtr(10), MaxPrice: floatPtr(99.5)})
	price := filter["price"].(bson.M)
	if price["$gte"] != 10.0 || price["$lte"] != 99.5 {
		t.Errorf("unexpected price clause: %v", price)
	}

	filter = buildProductFilter(owner, ProductListParams{MinPrice: floatPtr(5)})
	price = filter["price"].(bson.M)
	if _, ok := price["$lte"]; ok {
		t.Error("no max given, $lte should be absent")
	}
}

func TestBuildProductSort(t *testing.T) {
	cases := []struct {
		sortBy string
		key    string
		dir    int
	}{
		{"name", "name", 1},
		{"price-asc", "price", 1},
		{"price-desc", "price", -1},
		{"newest", "created_at", -1},
		{"", "created_at", -1},
	}
	for _, tc := range cases {
		sort := buildProductSort(tc.sortBy)
		if len(sort) != 1 || sort[0].Key != tc.key || sort[0].Value != tc.dir {
			t.Errorf("sortBy=%q: expected {%s:%d}, got %v", tc.sortBy, tc.key, tc.dir, sort)
		}
	}
}

func TestCreateProductValidation(t *testing.T) {
	userID := primitive.NewObjectID().Hex()

	_, err := CreateProduct(context.Background(), userID, models.ProductInput{
		Name:        "Widget",
		Description: "A widget",
		Price:       -5,
		Category:    "Tools",
		Subcategory: "Hand",
	}, nil)
	if !errors.Is(err, ErrValidation) {
		t.Errorf("negative price should be a validation error, got %v", err)
	}

	_, err = CreateProduct(context.Background(), userID, models.ProductInput{
		Name:  "Widget",
		Price: 10,
	}, nil)
	if !errors.Is(err, ErrValidation) {
		t.Errorf("missing required fields should be a validation error, got %v", err)
	}
}

func TestGetProductMalformedID(t *testing.T) {
	_, err := GetProduct(context.Background(), "definitely-not-an-id", primitive.NewObjectID().Hex())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("malformed id should map to not-found, got %v", err)
	}
}

func TestTotalPages(t *testing.T) {
	cases := []struct {
		total int64
		limit int
		want  int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{95, 10, 10},
		{7, 3, 3},
	}
	for _, tc := range cases {
		if got := totalPages(tc.total, tc.limit); got != tc.want {
			t.Errorf("totalPages(%d, %d) = %d, want %d", tc.total, tc.limit, got, tc.want)
		}
	}
}
