package storage

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var MinioClient *minio.Client

// BucketName holds product images referenced by product documents.
const BucketName = "product-images"

func InitMinio() {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		endpoint = "localhost:9000" // Default fallback
	}

	accessKey := os.Getenv("MINIO_ACCESS_KEY")
	if accessKey == "" {
		accessKey = "minioadmin" // Default fallback
	}

	secretKey := os.Getenv("MINIO_SECRET_KEY")
	if secretKey == "" {
		secretKey = "minioadmin" // Default fallback
	}

	useSSL := false // Set to true if using HTTPS

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})

	if err != nil {
		log.Fatalf("Failed to connect to MinIO: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, BucketName)
	if err != nil {
		log.Printf("Warning: Failed to check bucket existence: %v", err)
	} else if !exists {
		err = client.MakeBucket(ctx, BucketName, minio.MakeBucketOptions{})
		if err != nil {
			log.Printf("Warning: Failed to create bucket: %v", err)
		} else {
			log.Printf("Created bucket: %s", BucketName)
		}
	}

	MinioClient = client
	fmt.Println("✅ Connected to MinIO")
}

// ObjectNameFor prefixes an uploaded filename with a random id so repeated
// uploads of the same file never collide.
func ObjectNameFor(filename string) string {
	return fmt.Sprintf("%s_%s", uuid.New().String(), filename)
}

// ImageURL is the public address of a stored object.
func ImageURL(objectName string) string {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		endpoint = "localhost:9000"
	}
	return fmt.Sprintf("http://%s/%s/%s", endpoint, BucketName, objectName)
}

// ObjectNameFromURL recovers the stored object name from an image URL.
func ObjectNameFromURL(url string) string {
	idx := strings.LastIndex(url, "/")
	if idx < 0 {
		return url
	}
	return url[idx+1:]
}

// PutImage stores image bytes and returns the public URL.
func PutImage(ctx context.Context, objectName string, data []byte, contentType string) (string, error) {
	_, err := MinioClient.PutObject(
		ctx,
		BucketName,
		objectName,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return "", err
	}
	return ImageURL(objectName), nil
}

// RemoveImage deletes a stored image object.
func RemoveImage(ctx context.Context, objectName string) error {
	return MinioClient.RemoveObject(ctx, BucketName, objectName, minio.RemoveObjectOptions{})
}
