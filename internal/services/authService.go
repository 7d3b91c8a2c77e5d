package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Poojan2107/Product-Nexus/internal/config"
	"github.com/Poojan2107/Product-Nexus/internal/db"
	"github.com/Poojan2107/Product-Nexus/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

var validate = validator.New()

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// VerifyPassword compares a plain password with a hashed password
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GenerateJWT generates a JWT token with user ID and role
func GenerateJWT(userID string, role string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(time.Hour * 4).Unix(), // Token expires in 4 hours
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(config.JWTSecret())
}

type registerInput struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

// RegisterUser registers a new user. The role is always "user"; promotion to
// admin happens out-of-band via the setadmin command.
func RegisterUser(ctx context.Context, name, email, password string) (models.User, error) {
	if err := validate.Struct(registerInput{Name: name, Email: email, Password: password}); err != nil {
		return models.User{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	collection := db.GetCollection("users")

	// Check if user already exists
	var existingUser models.User
	err := collection.FindOne(ctx, bson.M{"email": email}).Decode(&existingUser)
	if err == nil {
		return models.User{}, fmt.Errorf("%w: email already in use", ErrValidation)
	}

	hashedPassword, err := HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Email:     email,
		Password:  hashedPassword,
		Role:      models.RoleUser,
		CreatedAt: time.Now(),
	}
	if _, err := collection.InsertOne(ctx, user); err != nil {
		return models.User{}, err
	}

	user.Password = ""
	return user, nil
}

// LoginUser authenticates a user and returns a JWT with the user projection.
func LoginUser(ctx context.Context, email, password string) (string, models.User, error) {
	collection := db.GetCollection("users")

	var user models.User
	err := collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return "", models.User{}, fmt.Errorf("%w: invalid credentials", ErrForbidden)
	}

	if !VerifyPassword(password, user.Password) {
		return "", models.User{}, fmt.Errorf("%w: invalid credentials", ErrForbidden)
	}

	token, err := GenerateJWT(user.ID.Hex(), user.Role)
	if err != nil {
		return "", models.User{}, err
	}

	user.Password = ""
	return token, user, nil
}

// ProfileUpdate carries a partial profile change.
type ProfileUpdate struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// UpdateProfile applies a partial update to the requester's own profile.
func UpdateProfile(ctx context.Context, requesterID, targetID string, upd ProfileUpdate) (models.User, error) {
	if requesterID != targetID {
		return models.User{}, fmt.Errorf("%w: cannot update another user's profile", ErrForbidden)
	}

	objID, err := primitive.ObjectIDFromHex(targetID)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: user", ErrNotFound)
	}

	collection := db.GetCollection("users")

	set := bson.M{}
	if upd.Name != nil {
		if *upd.Name == "" {
			return models.User{}, fmt.Errorf("%w: name cannot be empty", ErrValidation)
		}
		set["name"] = *upd.Name
	}
	if upd.Email != nil {
		if err := validate.Var(*upd.Email, "required,email"); err != nil {
			return models.User{}, fmt.Errorf("%w: invalid email", ErrValidation)
		}
		// Email stays unique across users.
		var other models.User
		err := collection.FindOne(ctx, bson.M{"email": *upd.Email, "_id": bson.M{"$ne": objID}}).Decode(&other)
		if err == nil {
			return models.User{}, fmt.Errorf("%w: email already in use", ErrValidation)
		}
		set["email"] = *upd.Email
	}
	if upd.Password != nil {
		if len(*upd.Password) < 6 {
			return models.User{}, fmt.Errorf("%w: password too short", ErrValidation)
		}
		hashed, err := HashPassword(*upd.Password)
		if err != nil {
			return models.User{}, err
		}
		set["password"] = hashed
	}
	if len(set) == 0 {
		return models.User{}, fmt.Errorf("%w: nothing to update", ErrValidation)
	}

	var user models.User
	err = collection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$set": set}, afterUpdate()).Decode(&user)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: user", ErrNotFound)
	}

	user.Password = ""
	return user, nil
}
