package bucket

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"
)

// Put uploads one object and returns its public URL.
func (s *implStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("storage client not configured")
	}
	if s.bucket == "" {
		return "", fmt.Errorf("storage bucket not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write object %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close object writer %s: %w", key, err)
	}

	url := fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, key)
	s.logger.Debug(ctx, "Uploaded %d bytes to %s", len(data), url)
	return url, nil
}
