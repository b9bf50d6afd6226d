package library

import "github.com/kailas-cloud/bookqa/internal/domain"

// Repository defines the storage contract for registered books.
type Repository interface {
	AddBook(book domain.Book, sectionTexts []string) (domain.Book, error)
	GetBook(id int) (domain.Book, error)
	ListBooks() []domain.Book
	SectionsForBook(bookID int) []domain.Section
}
