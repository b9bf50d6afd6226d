package registry

import (
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/bookqa/internal/domain"
)

func mustBook(t *testing.T, title string) domain.Book {
	t.Helper()
	b, err := domain.NewBook(title, "Author", 0, "", "")
	if err != nil {
		t.Fatalf("NewBook: %v", err)
	}
	return b
}

func TestAddBook_AssignsSequentialIDs(t *testing.T) {
	r := New()

	first, err := r.AddBook(mustBook(t, "First"), []string{"s1", "s2"})
	if err != nil {
		t.Fatalf("AddBook: %v", err)
	}
	second, err := r.AddBook(mustBook(t, "Second"), nil)
	if err != nil {
		t.Fatalf("AddBook: %v", err)
	}

	if first.ID() != 1 || second.ID() != 2 {
		t.Errorf("ids = %d, %d, want 1, 2", first.ID(), second.ID())
	}

	sections := r.SectionsForBook(first.ID())
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	if sections[0].ID() != 1 || sections[1].ID() != 2 {
		t.Errorf("section ids = %d, %d, want 1, 2", sections[0].ID(), sections[1].ID())
	}
	if sections[0].Text() != "s1" {
		t.Errorf("section order lost: first text %q", sections[0].Text())
	}
}

func TestAddBook_SizeCapIsAtomic(t *testing.T) {
	r := New()

	over := []string{strings.Repeat("x", domain.MaxSectionsTotalChars), "y"}
	if _, err := r.AddBook(mustBook(t, "Too big"), over); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("got %v, want ErrValidation", err)
	}

	// Nothing stored, next id untouched.
	if r.Len() != 0 {
		t.Errorf("registry has %d books after rejected add", r.Len())
	}
	ok, err := r.AddBook(mustBook(t, "Fits"), []string{"s"})
	if err != nil {
		t.Fatalf("AddBook: %v", err)
	}
	if ok.ID() != 1 {
		t.Errorf("id after rejected add = %d, want 1", ok.ID())
	}
	if secs := r.SectionsForBook(ok.ID()); len(secs) != 1 || secs[0].ID() != 1 {
		t.Errorf("unexpected sections after rejected add: %+v", secs)
	}
}

func TestGetBook_NotFound(t *testing.T) {
	r := New()
	if _, err := r.GetBook(42); !errors.Is(err, domain.ErrBookNotFound) {
		t.Errorf("got %v, want ErrBookNotFound", err)
	}
}

func TestListBooks_RegistrationOrder(t *testing.T) {
	r := New()
	for _, title := range []string{"A", "B", "C"} {
		if _, err := r.AddBook(mustBook(t, title), nil); err != nil {
			t.Fatalf("AddBook: %v", err)
		}
	}

	books := r.ListBooks()
	if len(books) != 3 {
		t.Fatalf("expected 3 books, got %d", len(books))
	}
	for i, want := range []string{"A", "B", "C"} {
		if books[i].Title() != want {
			t.Errorf("position %d: got %q, want %q", i, books[i].Title(), want)
		}
	}
}

func TestSetSectionVector(t *testing.T) {
	r := New()
	book, err := r.AddBook(mustBook(t, "Book"), []string{"s1"})
	if err != nil {
		t.Fatalf("AddBook: %v", err)
	}

	sec := r.SectionsForBook(book.ID())[0]
	if err := r.SetSectionVector(sec.ID(), []float32{0.5}); err != nil {
		t.Fatalf("SetSectionVector: %v", err)
	}

	got := r.SectionsForBook(book.ID())[0]
	if !got.HasVector() {
		t.Error("vector not stored")
	}

	err = r.SetSectionVector(999, []float32{1})
	if err == nil {
		t.Error("expected error for unknown section")
	}
	if errors.Is(err, domain.ErrBookNotFound) {
		t.Errorf("unknown section must not surface as a book lookup failure: %v", err)
	}
}
