// Package registry is the process-wide in-memory store of books and their
// derived-summary sections. It is injected into the usecase services so tests
// and a future persistent backend can swap it out without touching retrieval
// logic.
package registry

import (
	"fmt"
	"sync"

	"github.com/kailas-cloud/bookqa/internal/domain"
)

// Registry holds books and sections with monotonically assigned ids.
// All methods are safe for concurrent use.
type Registry struct {
	mu            sync.RWMutex
	books         []domain.Book
	sections      []domain.Section
	nextBookID    int
	nextSectionID int
}

// New creates an empty registry. IDs start at 1.
func New() *Registry {
	return &Registry{nextBookID: 1, nextSectionID: 1}
}

// AddBook persists a book together with its sections. The section size cap is
// checked first, so a violation stores neither the book nor any section.
func (r *Registry) AddBook(book domain.Book, sectionTexts []string) (domain.Book, error) {
	if err := domain.ValidateSectionTexts(sectionTexts); err != nil {
		return domain.Book{}, fmt.Errorf("add book: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := domain.ReconstructBook(
		r.nextBookID, book.Title(), book.Author(), book.Year(), book.Genre(), book.Description(),
	)
	r.books = append(r.books, stored)
	r.nextBookID++

	for _, text := range sectionTexts {
		r.sections = append(r.sections, domain.ReconstructSection(r.nextSectionID, stored.ID(), text, nil))
		r.nextSectionID++
	}

	return stored, nil
}

// GetBook returns the book with the given id.
func (r *Registry) GetBook(id int) (domain.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, b := range r.books {
		if b.ID() == id {
			return b, nil
		}
	}
	return domain.Book{}, fmt.Errorf("book %d: %w", id, domain.ErrBookNotFound)
}

// ListBooks returns all books in registration order.
func (r *Registry) ListBooks() []domain.Book {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Book, len(r.books))
	copy(out, r.books)
	return out
}

// SectionsForBook returns the book's sections in creation order.
func (r *Registry) SectionsForBook(bookID int) []domain.Section {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.Section
	for _, s := range r.sections {
		if s.BookID() == bookID {
			out = append(out, s)
		}
	}
	return out
}

// SetSectionVector stores a computed embedding on a section. Overwriting an
// existing vector is allowed; with a deterministic embedder the assignment is
// idempotent.
func (r *Registry) SetSectionVector(sectionID int, vector []float32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, s := range r.sections {
		if s.ID() == sectionID {
			r.sections[i] = s.WithVector(vector)
			return nil
		}
	}
	// A section id only comes from this registry, so a miss is an internal
	// inconsistency, not a client-facing not-found.
	return fmt.Errorf("section %d not found", sectionID)
}

// Len returns the number of stored books.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.books)
}
