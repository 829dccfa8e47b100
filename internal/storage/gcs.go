// Package storage reads transaction reports from and publishes results to
// Google Cloud Storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
)

const uriScheme = "gs://"

// IsGCSURI reports whether s looks like "gs://bucket/object".
func IsGCSURI(s string) bool {
	return strings.HasPrefix(s, uriScheme)
}

// ParseGCSURI splits "gs://bucket/path/to/file.csv" into bucket and object.
func ParseGCSURI(uri string) (bucket, object string, err error) {
	if !IsGCSURI(uri) {
		return "", "", fmt.Errorf("invalid GCS URI: %s", uri)
	}

	trimmed := strings.TrimPrefix(uri, uriScheme)
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid GCS URI (no object path): %s", uri)
	}

	return parts[0], parts[1], nil
}

// ExtractFilename extracts the filename from a GCS URI.
// e.g., "gs://bucket/folder/file.csv" → "file.csv"
func ExtractFilename(uri string) string {
	trimmed := strings.TrimPrefix(uri, uriScheme)

	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) < 2 {
		return trimmed
	}

	return path.Base(parts[1])
}

// GCSService is the Cloud Storage implementation used by the pipeline and the
// local engine. It assumes Application Default Credentials are configured.
type GCSService struct{}

// NewGCSService creates a new instance of GCSService.
func NewGCSService() *GCSService {
	return &GCSService{}
}

// Exists reports whether the object named by uri exists.
func (s *GCSService) Exists(ctx context.Context, uri string) (bool, error) {
	bucket, object, err := ParseGCSURI(uri)
	if err != nil {
		return false, err
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return false, fmt.Errorf("Exists: create storage client: %w", err)
	}
	defer client.Close()

	_, err = client.Bucket(bucket).Object(object).Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("Exists: reading attrs of %s: %w", uri, err)
	}
	return true, nil
}

// Open streams the object named by uri. Closing the reader releases the client.
func (s *GCSService) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	bucket, object, err := ParseGCSURI(uri)
	if err != nil {
		return nil, err
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("Open: create storage client: %w", err)
	}

	r, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("Open: reading object %s/%s: %w", bucket, object, err)
	}

	return &objectReader{Reader: r, client: client}, nil
}

type objectReader struct {
	*storage.Reader
	client *storage.Client
}

func (r *objectReader) Close() error {
	err := r.Reader.Close()
	if cerr := r.client.Close(); err == nil {
		err = cerr
	}
	return err
}

// UploadFile uploads a local file to a GCS bucket under the given object name.
func (s *GCSService) UploadFile(ctx context.Context, bucketName, objectName, filePath string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("open file %q: %w", filePath, err)
	}
	defer f.Close()

	client, err := storage.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("create storage client: %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := client.Bucket(bucketName).Object(objectName).NewWriter(ctx)
	w.ContentType = contentType(filePath)

	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return fmt.Errorf("copy file to GCS writer: %w", err)
	}

	// Close finalizes the upload.
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize upload of %s: %w", objectName, err)
	}

	return nil
}

func contentType(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".csv":
		return "text/csv; charset=utf-8"
	case ".txt":
		return "text/plain; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}
