package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is owned by exactly one user; the user field is set at creation and
// never reassigned.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"`
	Category    string             `bson:"category" json:"category"`
	Subcategory string             `bson:"subcategory" json:"subcategory"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	User        primitive.ObjectID `bson:"user" json:"user"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// ProductInput is the payload for product creation.
type ProductInput struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price" validate:"gte=0"`
	Category    string  `json:"category" validate:"required"`
	Subcategory string  `json:"subcategory" validate:"required"`
	Image       string  `json:"image"`
}

// ProductUpdate carries a partial update; nil fields are left untouched.
type ProductUpdate struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Subcategory *string  `json:"subcategory"`
	Image       *string  `json:"image"`
}

// ImageUpload is a decoded multipart image file.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}
