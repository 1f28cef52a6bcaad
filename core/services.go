package core

import (
	"context"
	"mime/multipart"
	"time"
)

// LoginGuard counts failed logins per key (client IP + email) and locks keys that fail too often.
// Implementations never fail a login because of their own errors.
type LoginGuard interface {
	// Locked returns how long key stays locked, 0 when it is not.
	Locked(ctx context.Context, key string) time.Duration
	Failed(ctx context.Context, key string)
	Succeeded(ctx context.Context, key string)
}

// FileStore keeps uploaded files and returns the name they are served under.
type FileStore interface {
	Save(file *multipart.FileHeader) (string, error)
}
