package qa

import (
	"context"

	"github.com/kailas-cloud/bookqa/internal/domain"
)

// BookReader reads registered books for target resolution.
type BookReader interface {
	GetBook(id int) (domain.Book, error)
	ListBooks() []domain.Book
	SectionsForBook(bookID int) []domain.Section
}

// EmbeddingCache ensures a book's sections carry embeddings before ranking.
type EmbeddingCache interface {
	EnsureEmbeddings(ctx context.Context, bookID int) error
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Generator produces an answer from an assembled prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (domain.GenerationResult, error)
}
