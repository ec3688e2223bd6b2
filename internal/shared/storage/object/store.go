package object

import (
	"context"
	"io"
)

// ObjectStore defines the contract for storing uploaded resume files.
type ObjectStore interface {
	// Save stores the reader contents under a collision-resistant key derived
	// from fileName and returns a publicly reachable URL for the object.
	Save(ctx context.Context, fileName string, contentType string, r io.Reader) (publicURL string, err error)
	// Open retrieves a stored object by the key embedded in its URL.
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}
