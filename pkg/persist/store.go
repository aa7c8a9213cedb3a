package persist

import (
	"context"

	kiterrors "github.com/vango-dev/groupkit/internal/errors"
)

// Store defines the interface for snapshot persistence backends.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save persists data under key, overwriting any previous value.
	Save(ctx context.Context, key string, data []byte) error

	// Load retrieves the data stored under key.
	// Returns (nil, nil) if the key doesn't exist.
	Load(ctx context.Context, key string) ([]byte, error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the store.
	Close() error
}

// ErrStoreClosed is returned when operations are attempted on a closed store.
var ErrStoreClosed error = kiterrors.New("G021")

// storeError wraps a backend I/O failure.
func storeError(op string, err error) error {
	if err == nil {
		return nil
	}
	return kiterrors.New("G022").WithDetail(op).Wrap(err)
}

// migrateError wraps a schema migration failure.
func migrateError(dialect string, err error) error {
	if err == nil {
		return nil
	}
	return kiterrors.New("G023").WithDetailf("migrate %s", dialect).Wrap(err)
}
