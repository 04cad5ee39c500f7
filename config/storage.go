package config

import (
	"context"
	"io"
	"log"
	"os"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Storage is the object-storage client holding uploaded documents.
var Storage *minio.Client

func storageBucket() string {
	bucket := os.Getenv("S3_BUCKET")
	if bucket == "" {
		bucket = "drone-permit-documents"
	}
	return bucket
}

// InitStorage connects to the S3-compatible store and ensures the document
// bucket exists.
func InitStorage() {
	endpoint := os.Getenv("S3_ENDPOINT")
	accessKey := os.Getenv("S3_ACCESS_KEY")
	secretKey := os.Getenv("S3_SECRET_KEY")
	useSSL := os.Getenv("S3_USE_SSL") == "true"

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		log.Fatal("Failed to connect to object storage:", err)
	}

	ctx := context.Background()
	bucket := storageBucket()
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		log.Fatal("Failed to check document bucket:", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			log.Fatal("Failed to create document bucket:", err)
		}
	}

	Storage = client
	log.Println("Object storage connected successfully")
}

// PutDocument stores an uploaded document body under key.
func PutDocument(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	_, err := Storage.PutObject(ctx, storageBucket(), key, body, size,
		minio.PutObjectOptions{ContentType: contentType})
	return err
}

// GetDocument opens a stored document body for reading.
func GetDocument(ctx context.Context, key string) (io.ReadCloser, error) {
	return Storage.GetObject(ctx, storageBucket(), key, minio.GetObjectOptions{})
}
