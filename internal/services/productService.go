package services

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"time"

	"github.com/Poojan2107/Product-Nexus/internal/db"
	"github.com/Poojan2107/Product-Nexus/internal/models"
	"github.com/Poojan2107/Product-Nexus/internal/storage"
	"github.com/Poojan2107/Product-Nexus/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProductListParams are the listing query controls. Results are always
// constrained to the requesting user's own products.
type ProductListParams struct {
	Page     int
	Limit    int
	Search   string
	MinPrice *float64
	MaxPrice *float64
	SortBy   string
}

// ProductListResult is one page of products plus pagination totals.
type ProductListResult struct {
	Products      []models.Product `json:"products"`
	CurrentPage   int              `json:"currentPage"`
	TotalPages    int              `json:"totalPages"`
	TotalProducts int64            `json:"totalProducts"`
}

func afterUpdate() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}

// buildProductFilter composes the Mongo filter for a user-scoped listing.
func buildProductFilter(userID primitive.ObjectID, p ProductListParams) bson.M {
	filter := bson.M{"user": userID}

	if p.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(p.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"category": pattern},
			bson.M{"subcategory": pattern},
		}
	}

	if p.MinPrice != nil || p.MaxPrice != nil {
		price := bson.M{}
		if p.MinPrice != nil {
			price["$gte"] = *p.MinPrice
		}
		if p.MaxPrice != nil {
			price["$lte"] = *p.MaxPrice
		}
		filter["price"] = price
	}

	return filter
}

// buildProductSort maps a sort key onto a Mongo sort document.
func buildProductSort(sortBy string) bson.D {
	switch sortBy {
	case "name":
		return bson.D{{Key: "name", Value: 1}}
	case "price-asc":
		return bson.D{{Key: "price", Value: 1}}
	case "price-desc":
		return bson.D{{Key: "price", Value: -1}}
	default:
		return bson.D{{Key: "created_at", Value: -1}}
	}
}

// totalPages is ceil(total/limit), never below 1 page of math weirdness.
func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}

// ListProducts returns one page of the user's products with filters applied.
func ListProducts(ctx context.Context, userID string, p ProductListParams) (ProductListResult, error) {
	owner, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return ProductListResult{}, fmt.Errorf("%w: user", ErrNotFound)
	}

	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}

	filter := buildProductFilter(owner, p)
	findOpts := options.Find().
		SetSort(buildProductSort(p.SortBy)).
		SetSkip(int64((p.Page - 1) * p.Limit)).
		SetLimit(int64(p.Limit))

	collection := db.GetCollection("products")

	cursor, err := collection.Find(ctx, filter, findOpts)
	if err != nil {
		return ProductListResult{}, fmt.Errorf("failed to list products: %w", err)
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return ProductListResult{}, fmt.Errorf("error decoding products: %w", err)
	}

	total, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		return ProductListResult{}, fmt.Errorf("failed to count products: %w", err)
	}

	return ProductListResult{
		Products:      products,
		CurrentPage:   p.Page,
		TotalPages:    totalPages(total, p.Limit),
		TotalProducts: total,
	}, nil
}

// ListAllProducts returns every product of the user, for exports.
func ListAllProducts(ctx context.Context, userID string) ([]models.Product, error) {
	owner, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}

	collection := db.GetCollection("products")
	cursor, err := collection.Find(ctx, bson.M{"user": owner}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("error decoding products: %w", err)
	}
	return products, nil
}

// GetProduct fetches a product by id with an ownership check. A malformed or
// unknown id is not-found; someone else's product is an authorization error.
func GetProduct(ctx context.Context, productID, userID string) (models.Product, error) {
	objID, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return models.Product{}, fmt.Errorf("%w: product", ErrNotFound)
	}

	var product models.Product
	err = db.GetCollection("products").FindOne(ctx, bson.M{"_id": objID}).Decode(&product)
	if err != nil {
		return models.Product{}, fmt.Errorf("%w: product", ErrNotFound)
	}

	if product.User.Hex() != userID {
		return models.Product{}, fmt.Errorf("%w: product belongs to another user", ErrForbidden)
	}

	return product, nil
}

// CreateProduct validates the input and inserts the document. When an image
// is attached, the MinIO upload and the Mongo insert run in parallel.
func CreateProduct(ctx context.Context, userID string, input models.ProductInput, image *models.ImageUpload) (models.Product, error) {
	owner, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return models.Product{}, fmt.Errorf("%w: user", ErrNotFound)
	}

	if err := validate.Struct(input); err != nil {
		return models.Product{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	now := time.Now()
	product := models.Product{
		ID:          primitive.NewObjectID(),
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		Subcategory: input.Subcategory,
		Image:       input.Image,
		User:        owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	collection := db.GetCollection("products")

	if image == nil {
		if _, err := collection.InsertOne(ctx, product); err != nil {
			return models.Product{}, fmt.Errorf("failed to save product: %w", err)
		}
		return product, nil
	}

	objectName := storage.ObjectNameFor(image.Filename)
	product.Image = storage.ImageURL(objectName)

	_, errs := utils.RunParallelTasks([]utils.ParallelTask{
		func() (interface{}, error) {
			return storage.PutImage(ctx, objectName, image.Data, image.ContentType)
		},
		func() (interface{}, error) {
			return collection.InsertOne(ctx, product)
		},
	})

	if errs[0] != nil {
		return models.Product{}, fmt.Errorf("failed to upload image: %w", errs[0])
	}
	if errs[1] != nil {
		// Metadata failed; drop the orphaned object.
		go storage.RemoveImage(context.Background(), objectName)
		return models.Product{}, fmt.Errorf("failed to save product: %w", errs[1])
	}

	return product, nil
}

// UpdateProduct applies a partial update after the ownership check.
func UpdateProduct(ctx context.Context, productID, userID string, upd models.ProductUpdate, image *models.ImageUpload) (models.Product, error) {
	existing, err := GetProduct(ctx, productID, userID)
	if err != nil {
		return models.Product{}, err
	}

	set := bson.M{"updated_at": time.Now()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Category != nil {
		set["category"] = *upd.Category
	}
	if upd.Subcategory != nil {
		set["subcategory"] = *upd.Subcategory
	}
	if upd.Price != nil {
		if *upd.Price < 0 {
			return models.Product{}, fmt.Errorf("%w: price must be non-negative", ErrValidation)
		}
		set["price"] = *upd.Price
	}
	if upd.Image != nil && *upd.Image != "" {
		set["image"] = *upd.Image
	}

	if image != nil {
		objectName := storage.ObjectNameFor(image.Filename)
		url, err := storage.PutImage(ctx, objectName, image.Data, image.ContentType)
		if err != nil {
			return models.Product{}, fmt.Errorf("failed to upload image: %w", err)
		}
		set["image"] = url
	}

	var product models.Product
	err = db.GetCollection("products").
		FindOneAndUpdate(ctx, bson.M{"_id": existing.ID}, bson.M{"$set": set}, afterUpdate()).
		Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Product{}, fmt.Errorf("%w: product", ErrNotFound)
		}
		return models.Product{}, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}

// DeleteProduct removes the document and its stored image in parallel after
// the ownership check.
func DeleteProduct(ctx context.Context, productID, userID string) error {
	product, err := GetProduct(ctx, productID, userID)
	if err != nil {
		return err
	}

	collection := db.GetCollection("products")

	tasks := []utils.ParallelTask{
		func() (interface{}, error) {
			return collection.DeleteOne(ctx, bson.M{"_id": product.ID})
		},
	}
	if product.Image != "" {
		objectName := storage.ObjectNameFromURL(product.Image)
		tasks = append(tasks, func() (interface{}, error) {
			return nil, storage.RemoveImage(ctx, objectName)
		})
	}

	_, errs := utils.RunParallelTasks(tasks)
	if errs[0] != nil {
		return fmt.Errorf("failed to delete product: %w", errs[0])
	}
	// A failed image removal leaves an orphan object, not a broken record.
	return nil
}
