package storage

import (
	"context"
	"time"
)

// Service exposes presigned access to user-uploaded objects (profile
// images). Clients upload directly to object storage; the API only hands
// out short-lived URLs.
type Service interface {
	PresignUpload(ctx context.Context, key, contentType string, expires time.Duration) (string, error)
	PresignGet(ctx context.Context, key string, expires time.Duration) (string, error)
	DeleteObject(ctx context.Context, key string) error
}
