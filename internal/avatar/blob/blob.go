// Package blob issues upload credentials for and deletes avatar objects.
package blob

import (
	"context"
	"time"
)

// UploadForm is a one-time, time-limited credential to write exactly one
// object. The client performs the upload out of band.
type UploadForm struct {
	Key       string            `json:"key"`
	URL       string            `json:"url"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers,omitempty"`
	ExpiresAt time.Time         `json:"expiresAt"`
}

// Store is a blob storage provider.
type Store interface {
	IssueUpload(ctx context.Context, key string) (*UploadForm, error)
	Delete(ctx context.Context, key string) error
}
