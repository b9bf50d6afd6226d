package favorites

import (
	"context"

	domcat "github.com/kailas-cloud/bookqa/internal/domain/catalog"
)

// Repository persists per-user favorite book ids.
type Repository interface {
	List(userID string) ([]string, error)
	Add(userID, bookID string) error
	Remove(userID, bookID string) error
	Clear(userID string) error
}

// BookResolver resolves a catalog book id to its metadata.
type BookResolver interface {
	GetBook(ctx context.Context, bookID string) (domcat.Book, error)
}
