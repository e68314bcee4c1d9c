package gcp

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
)

// ReportStore holds raw report PDFs in a GCS bucket. Writes carry no
// precondition: a report re-delivered within the same second overwrites
// the earlier object rather than erroring.
type ReportStore struct {
	bucket     *storage.BucketHandle
	bucketName string
}

func NewReportStore(client *storage.Client, bucketName string) *ReportStore {
	return &ReportStore{
		bucket:     client.Bucket(bucketName),
		bucketName: bucketName,
	}
}

func (s *ReportStore) Write(ctx context.Context, objectName string, data []byte) error {
	w := s.bucket.Object(objectName).NewWriter(ctx)
	w.ContentType = "application/pdf"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write to GCS object %s: %w", objectName, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize GCS write for %s: %w", objectName, err)
	}
	return nil
}

func (s *ReportStore) Read(ctx context.Context, objectName string) ([]byte, error) {
	r, err := s.bucket.Object(objectName).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open GCS object %s: %w", objectName, err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read GCS object %s: %w", objectName, err)
	}
	return data, nil
}

// URI returns the gs:// reference the model uses to read an object.
func (s *ReportStore) URI(objectName string) string {
	return fmt.Sprintf("gs://%s/%s", s.bucketName, objectName)
}
