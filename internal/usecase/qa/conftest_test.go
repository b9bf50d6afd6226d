package qa

import (
	"context"

	"github.com/kailas-cloud/bookqa/internal/domain"
)

// --- Mocks ---

type mockBooks struct {
	books    []domain.Book
	sections map[int][]domain.Section
}

func (m *mockBooks) GetBook(id int) (domain.Book, error) {
	for _, b := range m.books {
		if b.ID() == id {
			return b, nil
		}
	}
	return domain.Book{}, domain.ErrBookNotFound
}

func (m *mockBooks) ListBooks() []domain.Book {
	return m.books
}

func (m *mockBooks) SectionsForBook(bookID int) []domain.Section {
	return m.sections[bookID]
}

type mockEmbeddingCache struct {
	err    error
	called int
	lastID int
}

func (m *mockEmbeddingCache) EnsureEmbeddings(_ context.Context, bookID int) error {
	m.called++
	m.lastID = bookID
	return m.err
}

type mockEmbedder struct {
	vec []float32
	err error
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec}, nil
}

type mockGenerator struct {
	text       string
	err        error
	lastPrompt string
}

func (m *mockGenerator) Generate(_ context.Context, prompt string) (domain.GenerationResult, error) {
	m.lastPrompt = prompt
	if m.err != nil {
		return domain.GenerationResult{}, m.err
	}
	return domain.GenerationResult{Text: m.text}, nil
}

// --- Fixtures ---

func bookID(id int) *int {
	return &id
}

func bookFixture(id int, title string) domain.Book {
	return domain.ReconstructBook(id, title, "Author", 0, "", "")
}

func embeddedSection(id, bookID int, text string, vec []float32) domain.Section {
	return domain.ReconstructSection(id, bookID, text, vec)
}

// twoBookLibrary returns two books where book 1 has embedded sections aligned
// with the x axis and book 2 with the y axis.
func twoBookLibrary() *mockBooks {
	return &mockBooks{
		books: []domain.Book{
			bookFixture(1, "Le Petit Prince"),
			bookFixture(2, "Vingt mille lieues sous les mers"),
		},
		sections: map[int][]domain.Section{
			1: {
				embeddedSection(1, 1, "le renard et la rose", []float32{1, 0}),
				embeddedSection(2, 1, "le serpent et le désert", []float32{0.9, 0.1}),
			},
			2: {
				embeddedSection(3, 2, "le Nautilus plonge", []float32{0, 1}),
			},
		},
	}
}

func newTestService(books *mockBooks) (*Service, *mockEmbeddingCache, *mockGenerator) {
	cache := &mockEmbeddingCache{}
	gen := &mockGenerator{text: "réponse"}
	svc := New(books, cache, &mockEmbedder{vec: []float32{1, 0}}, gen)
	return svc, cache, gen
}
