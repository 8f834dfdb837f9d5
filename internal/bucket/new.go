package bucket

import (
	"cloud.google.com/go/storage"

	"github.com/nguyentantai21042004/courseflow/internal/logger"
)

type implStore struct {
	client *storage.Client
	bucket string
	logger logger.Logger
}

// New creates a Store writing to the named GCS bucket.
func New(client *storage.Client, bucketName string, log logger.Logger) Store {
	return &implStore{
		client: client,
		bucket: bucketName,
		logger: log.With("bucket"),
	}
}
