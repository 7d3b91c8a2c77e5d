package config

import "os"

// Getenv returns the value of key or fallback when unset/empty.
func Getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// JWTSecret is read per call so values loaded by godotenv in main are seen.
func JWTSecret() []byte {
	return []byte(Getenv("JWT_SECRET", "product_nexus_dev_secret"))
}

// PaymentWebhookSecret signs payment provider callbacks.
func PaymentWebhookSecret() []byte {
	return []byte(Getenv("PAYMENT_WEBHOOK_SECRET", "product_nexus_payment_secret"))
}

// CORSOrigins is the comma-separated allow-list of frontend origins.
func CORSOrigins() string {
	return Getenv("CORS_ORIGINS", "http://localhost:5173")
}
