package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"gamemarket/pkg/logger"
)

// Folders group uploads by purpose. Receipts and account credentials stay
// private; listing images and avatars are public.
const (
	FolderListings = "listings"
	FolderReceipts = "receipts"
	FolderAvatars  = "avatars"
	FolderChat     = "chat"
)

type CloudStorageClient struct {
	client     *storage.Client
	bucketName string
}

func NewCloudStorageClient(ctx context.Context, bucketName, credentialsPath string) (*CloudStorageClient, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	c := &CloudStorageClient{
		client:     client,
		bucketName: bucketName,
	}

	if err := c.ensureBucketCORS(ctx); err != nil {
		logger.Warn("Failed to set bucket CORS configuration: %v", err)
	}

	return c, nil
}

func (c *CloudStorageClient) ensureBucketCORS(ctx context.Context) error {
	bucket := c.client.Bucket(c.bucketName)

	attrs, err := bucket.Attrs(ctx)
	if err != nil {
		return fmt.Errorf("failed to get bucket attributes: %w", err)
	}
	if len(attrs.CORS) > 0 {
		return nil
	}

	_, err = bucket.Update(ctx, storage.BucketAttrsToUpdate{
		CORS: []storage.CORS{{
			MaxAge:          time.Hour,
			Methods:         []string{"GET", "POST", "PUT", "OPTIONS"},
			Origins:         []string{"*"},
			ResponseHeaders: []string{"Content-Type", "x-goog-resumable"},
		}},
	})
	if err != nil {
		return fmt.Errorf("failed to update bucket CORS: %w", err)
	}
	return nil
}

func objectName(folder, contentType string, public bool) string {
	visibility := "private"
	if public {
		visibility = "public"
	}

	name := fmt.Sprintf("%s/%s/%s-%s", visibility, folder, uuid.New().String(), time.Now().Format("20060102150405"))

	switch contentType {
	case "image/jpeg", "image/jpg":
		name += ".jpg"
	case "image/png":
		name += ".png"
	case "image/gif":
		name += ".gif"
	case "image/webp":
		name += ".webp"
	case "application/pdf":
		name += ".pdf"
	default:
		name += ".bin"
	}
	return name
}

// UploadFile streams the reader into the bucket and returns the object URL.
func (c *CloudStorageClient) UploadFile(ctx context.Context, file io.Reader, contentType, folder string, public bool) (string, string, error) {
	name := objectName(folder, contentType, public)

	obj := c.client.Bucket(c.bucketName).Object(name)
	wc := obj.NewWriter(ctx)
	wc.ContentType = contentType
	wc.CacheControl = "public, max-age=86400"

	if _, err := io.Copy(wc, file); err != nil {
		return "", "", fmt.Errorf("failed to copy file to bucket: %w", err)
	}
	if err := wc.Close(); err != nil {
		return "", "", fmt.Errorf("failed to close writer: %w", err)
	}

	if public {
		if err := obj.ACL().Set(ctx, storage.AllUsers, storage.RoleReader); err != nil {
			return "", "", fmt.Errorf("failed to set ACL: %w", err)
		}
	}

	url := fmt.Sprintf("https://storage.googleapis.com/%s/%s", c.bucketName, name)
	return url, name, nil
}

func (c *CloudStorageClient) DeleteFile(ctx context.Context, fileURL string) error {
	prefix := fmt.Sprintf("https://storage.googleapis.com/%s/", c.bucketName)
	if !strings.HasPrefix(fileURL, prefix) {
		return fmt.Errorf("URL does not belong to bucket %s", c.bucketName)
	}

	name := fileURL[len(prefix):]
	if err := c.client.Bucket(c.bucketName).Object(name).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// SignedDownloadURL grants time-limited read access to a private object.
func (c *CloudStorageClient) SignedDownloadURL(objectName string, expiry time.Duration) (string, error) {
	return c.client.Bucket(c.bucketName).SignedURL(objectName, &storage.SignedURLOptions{
		Method:  http.MethodGet,
		Expires: time.Now().Add(expiry),
	})
}

func (c *CloudStorageClient) Close() error {
	return c.client.Close()
}
