package ports

import "context"

// StateBag defines the shared key/value state written by commands.
// Values must be JSON-encodable; last write wins.
type StateBag interface {
	// Set stores value under key.
	Set(ctx context.Context, key string, value any) error

	// Get retrieves a value.
	// Returns domain.ErrKeyNotFound if the key does not exist.
	Get(ctx context.Context, key string) (any, error)

	// Delete removes the key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys lists the stored keys.
	Keys(ctx context.Context) ([]string, error)
}
