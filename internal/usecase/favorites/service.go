// Package favorites manages per-user favorite catalog books.
package favorites

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/bookqa/internal/domain"
	domcat "github.com/kailas-cloud/bookqa/internal/domain/catalog"
	"github.com/kailas-cloud/bookqa/internal/logger"
)

// Service handles favorite management.
type Service struct {
	repo     Repository
	resolver BookResolver
}

// New creates a favorites service.
func New(repo Repository, resolver BookResolver) *Service {
	return &Service{repo: repo, resolver: resolver}
}

// List returns the user's favorite books resolved to full catalog metadata.
// Ids that no longer resolve are skipped, so a removed upstream work does not
// break the whole list.
func (s *Service) List(ctx context.Context, userID string) ([]domcat.Book, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	ids, err := s.repo.List(userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}

	log := logger.FromContext(ctx)

	books := make([]domcat.Book, 0, len(ids))
	for _, id := range ids {
		book, err := s.resolver.GetBook(ctx, id)
		if err != nil {
			log.Warn("Skipping unresolvable favorite", zap.String("book_id", id), zap.Error(err))
			continue
		}
		books = append(books, book)
	}
	return books, nil
}

// Add stores a book id in the user's favorites. Duplicates are ignored.
func (s *Service) Add(ctx context.Context, userID, bookID string) error {
	if err := validateUserID(userID); err != nil {
		return err
	}
	if strings.TrimSpace(bookID) == "" {
		return fmt.Errorf("book_id is required: %w", domain.ErrValidation)
	}

	if err := s.repo.Add(userID, bookID); err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}
	return nil
}

// Remove deletes a book id from the user's favorites.
func (s *Service) Remove(ctx context.Context, userID, bookID string) error {
	if err := validateUserID(userID); err != nil {
		return err
	}
	if strings.TrimSpace(bookID) == "" {
		return fmt.Errorf("book_id is required: %w", domain.ErrValidation)
	}

	if err := s.repo.Remove(userID, bookID); err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}

// Clear removes all favorites for the user.
func (s *Service) Clear(ctx context.Context, userID string) error {
	if err := validateUserID(userID); err != nil {
		return err
	}

	if err := s.repo.Clear(userID); err != nil {
		return fmt.Errorf("clear favorites: %w", err)
	}
	return nil
}

func validateUserID(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("user id is required: %w", domain.ErrValidation)
	}
	return nil
}
