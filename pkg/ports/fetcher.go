package ports

import "context"

// Fetcher retrieves and decodes a JSON document.
type Fetcher interface {
	FetchJSON(ctx context.Context, url string) (any, error)
}
