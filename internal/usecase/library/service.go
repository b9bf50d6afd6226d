// Package library manages the registered books that question answering
// retrieves from. Books carry derived summary sections, never original text.
package library

import (
	"fmt"

	"github.com/kailas-cloud/bookqa/internal/domain"
)

// Service handles book registration and lookup.
type Service struct {
	repo Repository
}

// New creates a library service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// AddBookInput carries the fields for registering a book.
type AddBookInput struct {
	Title       string
	Author      string
	Year        int
	Genre       string
	Description string
	Sections    []string
}

// AddBook registers a book with its summary sections. The combined section
// size cap is enforced before anything is stored.
func (s *Service) AddBook(in AddBookInput) (domain.Book, error) {
	book, err := domain.NewBook(in.Title, in.Author, in.Year, in.Genre, in.Description)
	if err != nil {
		return domain.Book{}, fmt.Errorf("new book: %w", err)
	}

	stored, err := s.repo.AddBook(book, in.Sections)
	if err != nil {
		return domain.Book{}, err
	}
	return stored, nil
}

// GetBook returns a registered book by id.
func (s *Service) GetBook(id int) (domain.Book, error) {
	return s.repo.GetBook(id)
}

// ListBooks returns all registered books in registration order.
func (s *Service) ListBooks() []domain.Book {
	return s.repo.ListBooks()
}

// SectionCount returns how many sections a book carries.
func (s *Service) SectionCount(bookID int) int {
	return len(s.repo.SectionsForBook(bookID))
}
