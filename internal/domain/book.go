package domain

import (
	"fmt"
	"unicode/utf8"
)

// MaxSectionsTotalChars is the combined character ceiling for all derived-summary
// sections supplied at book creation. The cap exists so that callers submit
// synthetic summaries, not full book text.
const MaxSectionsTotalChars = 20000

// Book is a registry book (immutable value object). Year, genre and description
// are optional; a zero Year means unknown.
type Book struct {
	id          int
	title       string
	author      string
	year        int
	genre       string
	description string
}

// NewBook validates book fields. The id is assigned by the registry on Add.
func NewBook(title, author string, year int, genre, description string) (Book, error) {
	if title == "" {
		return Book{}, fmt.Errorf("title is required: %w", ErrValidation)
	}
	if author == "" {
		return Book{}, fmt.Errorf("author is required: %w", ErrValidation)
	}
	return Book{title: title, author: author, year: year, genre: genre, description: description}, nil
}

// ReconstructBook creates a Book without validation (registry hydration).
func ReconstructBook(id int, title, author string, year int, genre, description string) Book {
	return Book{id: id, title: title, author: author, year: year, genre: genre, description: description}
}

// ID returns the book identifier.
func (b *Book) ID() int { return b.id }

// Title returns the book title.
func (b *Book) Title() string { return b.title }

// Author returns the book author.
func (b *Book) Author() string { return b.author }

// Year returns the publication year, 0 when unknown.
func (b *Book) Year() int { return b.year }

// Genre returns the genre, empty when unknown.
func (b *Book) Genre() string { return b.genre }

// Description returns the description, empty when unknown.
func (b *Book) Description() string { return b.description }

// Section is one derived-summary text unit of a book, the atomic retrieval unit
// for question answering. The vector is unset until the first retrieval request
// touching the owning book.
type Section struct {
	id     int
	bookID int
	text   string
	vector []float32
}

// ReconstructSection creates a Section (registry hydration).
func ReconstructSection(id, bookID int, text string, vector []float32) Section {
	return Section{id: id, bookID: bookID, text: text, vector: vector}
}

// ID returns the section identifier.
func (s *Section) ID() int { return s.id }

// BookID returns the owning book identifier.
func (s *Section) BookID() int { return s.bookID }

// Text returns the derived-summary text.
func (s *Section) Text() string { return s.text }

// Vector returns the embedding vector, nil when not yet computed.
func (s *Section) Vector() []float32 { return s.vector }

// HasVector reports whether the embedding has been computed.
func (s *Section) HasVector() bool { return len(s.vector) > 0 }

// WithVector returns a copy with the given vector set.
func (s *Section) WithVector(v []float32) Section {
	return Section{id: s.id, bookID: s.bookID, text: s.text, vector: v}
}

// ValidateSectionTexts enforces the combined size ceiling before a book and its
// sections are persisted. Violations abort creation atomically. The ceiling is
// measured in characters, so multi-byte French text is not penalized.
func ValidateSectionTexts(texts []string) error {
	total := 0
	for _, t := range texts {
		total += utf8.RuneCountInString(t)
	}
	if total > MaxSectionsTotalChars {
		return fmt.Errorf(
			"combined section length %d exceeds %d characters, provide synthetic summaries rather than full text: %w",
			total, MaxSectionsTotalChars, ErrValidation,
		)
	}
	return nil
}
