package catalog

import (
	"context"

	domcat "github.com/kailas-cloud/bookqa/internal/domain/catalog"
)

// Provider fetches catalog metadata from an external source.
type Provider interface {
	Search(ctx context.Context, q domcat.Query) ([]domcat.Book, error)
	GetBook(ctx context.Context, bookID string) (domcat.Book, error)
}
