// Command setadmin promotes an existing user to admin by email. It is run
// out-of-band against the same database as the server:
//
//	setadmin user@example.com
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/Poojan2107/Product-Nexus/internal/config"
	"github.com/Poojan2107/Product-Nexus/internal/db"
	"github.com/Poojan2107/Product-Nexus/internal/models"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading it, using environment variables")
	}

	if len(os.Args) < 2 {
		log.Fatal("Please provide an email address.")
	}
	email := os.Args[1]

	db.ConnectMongoDB(config.Getenv("MONGO_URI", "mongodb://localhost:27017/product_nexus"), "product_nexus")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	if err := db.GetCollection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		log.Fatal("User not found")
	}

	_, err := db.GetCollection("users").UpdateOne(ctx,
		bson.M{"_id": user.ID},
		bson.M{"$set": bson.M{"role": models.RoleAdmin}})
	if err != nil {
		log.Fatalf("Failed to promote user: %v", err)
	}

	log.Printf("User %s (%s) is now an ADMIN.", user.Name, user.Email)
}
