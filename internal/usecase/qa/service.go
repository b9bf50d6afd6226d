// Package qa answers questions about registered books. Retrieval ranks the
// book's summary sections by cosine similarity to the question, the best
// sections feed a copyright-safe prompt, and the generation provider writes
// the final answer.
package qa

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/bookqa/internal/domain"
	"github.com/kailas-cloud/bookqa/internal/logger"
)

// Service orchestrates retrieval-augmented question answering.
type Service struct {
	books      BookReader
	embeddings EmbeddingCache
	embedder   Embedder
	generator  Generator
}

// New creates a QA service.
func New(books BookReader, embeddings EmbeddingCache, embedder Embedder, generator Generator) *Service {
	return &Service{
		books:      books,
		embeddings: embeddings,
		embedder:   embedder,
		generator:  generator,
	}
}

// Ask answers a question about one registered book.
//
// The target book resolves in priority order: explicit BookID, then TitleHint
// as a case-insensitive substring over registration order, then the first
// registered book. An explicit id or hint that resolves to nothing fails with
// ErrBookNotFound rather than falling back.
func (s *Service) Ask(ctx context.Context, req domain.QARequest) (domain.QAAnswer, error) {
	if strings.TrimSpace(req.Question) == "" {
		return domain.QAAnswer{}, fmt.Errorf("question is required: %w", domain.ErrValidation)
	}

	book, err := s.resolveBook(req)
	if err != nil {
		return domain.QAAnswer{}, err
	}

	log := logger.FromContext(ctx)

	if len(s.books.SectionsForBook(book.ID())) == 0 {
		return domain.QAAnswer{}, fmt.Errorf("book %d: %w", book.ID(), domain.ErrNoSections)
	}

	if err := s.embeddings.EnsureEmbeddings(ctx, book.ID()); err != nil {
		return domain.QAAnswer{}, fmt.Errorf("ensure embeddings: %w", err)
	}

	var embedded []domain.Section
	for _, sec := range s.books.SectionsForBook(book.ID()) {
		if sec.HasVector() {
			embedded = append(embedded, sec)
		}
	}
	if len(embedded) == 0 {
		return domain.QAAnswer{}, fmt.Errorf("book %d has no embedded sections: %w", book.ID(), domain.ErrNoSections)
	}

	queryResult, err := s.embedder.Embed(ctx, req.Question)
	if err != nil {
		return domain.QAAnswer{}, fmt.Errorf("embed question: %w", err)
	}

	ranked := domain.RankSections(queryResult.Embedding, embedded, req.TopK)

	excerpts := make([]string, len(ranked))
	for i, r := range ranked {
		excerpts[i] = r.Section.Text()
	}
	prompt := buildPrompt(req.Question, book.Title(), excerpts)

	genResult, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return domain.QAAnswer{}, fmt.Errorf("generate answer: %w", err)
	}

	log.Debug("Answered question",
		zap.Int("book_id", book.ID()),
		zap.Int("sections_used", len(ranked)),
		zap.Int("total_tokens", genResult.TotalTokens),
	)

	return domain.QAAnswer{
		Answer:     genResult.Text,
		BookID:     book.ID(),
		BookTitle:  book.Title(),
		Confidence: clamp01(ranked[0].Score),
		SourceNote: domain.SourceNote,
	}, nil
}

func (s *Service) resolveBook(req domain.QARequest) (domain.Book, error) {
	if req.BookID != nil {
		return s.books.GetBook(*req.BookID)
	}

	books := s.books.ListBooks()
	if len(books) == 0 {
		return domain.Book{}, fmt.Errorf("no books registered: %w", domain.ErrBookNotFound)
	}

	if req.TitleHint != "" {
		hint := strings.ToLower(req.TitleHint)
		for _, b := range books {
			if strings.Contains(strings.ToLower(b.Title()), hint) {
				return b, nil
			}
		}
		return domain.Book{}, fmt.Errorf("no book matches title hint %q: %w", req.TitleHint, domain.ErrBookNotFound)
	}

	return books[0], nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
