package storage

import (
	"context"
	"io"
)

// UploadOptions conveys upload destination metadata.
type UploadOptions struct {
	Bucket        string
	KeyPrefix     string
	Region        string
	Endpoint      string
	PublicBaseURL string
}

// Service writes objects to remote object storage and reports where they
// can be fetched from.
type Service interface {
	PutObject(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}
