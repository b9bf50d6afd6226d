package openlibrary

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/bookqa/internal/domain"
	"github.com/kailas-cloud/bookqa/internal/domain/catalog"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(&Config{
		BaseURL:   srv.URL,
		CoversURL: "https://covers.test",
		Logger:    zap.NewNop(),
	})
}

func TestSearch_MapsDocs(t *testing.T) {
	var requests int
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Path != "/search.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "voltaire subject:Philosophy" {
			t.Errorf("q = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"docs": [
			{
				"key": "/works/OL1W",
				"title": "Candide",
				"author_name": ["Voltaire"],
				"cover_i": 123,
				"subject": ["Philosophy", "Satire"],
				"language": ["fre"],
				"first_publish_year": 1759,
				"ratings_average": 4.2,
				"ratings_count": 17
			},
			{"key": "", "title": "skipped"}
		]}`))
	}))

	books, err := client.Search(context.Background(), catalog.Query{
		Text:     "voltaire",
		Category: "Philosophy",
		Page:     1,
		PageSize: 12,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(books) != 1 {
		t.Fatalf("got %d books, want 1", len(books))
	}

	b := books[0]
	if b.ID != "OL1W" || b.Title != "Candide" || b.Author != "Voltaire" {
		t.Errorf("mapped book: %+v", b)
	}
	if b.CoverURL != "https://covers.test/b/id/123-L.jpg" {
		t.Errorf("cover url = %q", b.CoverURL)
	}
	if b.Language != "fr" {
		t.Errorf("language = %q, want fr", b.Language)
	}
	if b.Year != 1759 || b.Rating != 4.2 || b.RatingsCount != 17 {
		t.Errorf("year/rating: %+v", b)
	}

	// Second identical query is served from the cache.
	if _, err := client.Search(context.Background(), catalog.Query{
		Text:     "voltaire",
		Category: "Philosophy",
		Page:     1,
		PageSize: 12,
	}); err != nil {
		t.Fatalf("cached Search: %v", err)
	}
	if requests != 1 {
		t.Errorf("upstream hit %d times, want 1", requests)
	}
}

func TestGetBook_ResolvesAuthorsAndDescription(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/works/OL1W.json":
			_, _ = w.Write([]byte(`{
				"title": "Candide",
				"description": {"value": "Un conte philosophique."},
				"authors": [{"author": {"key": "/authors/OL2A"}}],
				"covers": [77],
				"subjects": ["Philosophy"],
				"languages": [{"key": "/languages/fre"}],
				"first_publish_date": "1759-01-15"
			}`))
		case "/authors/OL2A.json":
			_, _ = w.Write([]byte(`{"name": "Voltaire"}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	book, err := client.GetBook(context.Background(), "/works/OL1W")
	if err != nil {
		t.Fatalf("GetBook: %v", err)
	}

	if book.ID != "OL1W" || book.Title != "Candide" {
		t.Errorf("book: %+v", book)
	}
	if book.Author != "Voltaire" {
		t.Errorf("author = %q", book.Author)
	}
	if book.ShortDescription != "Un conte philosophique." {
		t.Errorf("description = %q", book.ShortDescription)
	}
	if book.CoverURL != "https://covers.test/b/id/77-L.jpg" {
		t.Errorf("cover url = %q", book.CoverURL)
	}
	if book.Year != 1759 || book.Language != "fr" {
		t.Errorf("year=%d lang=%q", book.Year, book.Language)
	}
}

func TestGetBook_NotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.GetBook(context.Background(), "OL404W")
	if !errors.Is(err, domain.ErrBookNotFound) {
		t.Fatalf("got %v, want ErrBookNotFound", err)
	}
}

func TestGetBook_UpstreamFailure(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := client.GetBook(context.Background(), "OL1W")
	if !errors.Is(err, domain.ErrCatalogUnavailable) {
		t.Fatalf("got %v, want ErrCatalogUnavailable", err)
	}
}

func TestConvertLanguage(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", "fr"},
		{"fr", "fr"},
		{"fre", "fr"},
		{"eng", "en"},
		{"ENG", "en"},
		{"xyz", "xy"},
	}
	for _, tt := range tests {
		if got := convertLanguage(tt.in); got != tt.want {
			t.Errorf("convertLanguage(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGenerateTags(t *testing.T) {
	tags := generateTags("The Little Prince", []string{"French literature", "The desert"})

	want := []string{"little", "prince", "french", "literature", "desert"}
	if len(tags) != len(want) {
		t.Fatalf("tags = %v, want %v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("tag %d = %q, want %q", i, tags[i], want[i])
		}
	}
}

func TestParseYear(t *testing.T) {
	if got := parseYear("1759-01-15"); got != 1759 {
		t.Errorf("parseYear = %d, want 1759", got)
	}
	if got := parseYear("unknown"); got != 0 {
		t.Errorf("parseYear = %d, want 0", got)
	}
}
