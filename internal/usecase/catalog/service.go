// Package catalog serves public book metadata for browsing. The provider
// returns candidate results; filters, sorting and pagination are applied
// locally so the response stays consistent whatever the provider returned.
package catalog

import (
	"context"
	"sort"
	"strings"

	domcat "github.com/kailas-cloud/bookqa/internal/domain/catalog"
)

const (
	defaultPageSize = 12
	maxPageSize     = 200
)

// Loose language matching: a requested code accepts regional and ISO 639-2
// variants of the same language.
var langAliases = map[string][]string{
	"fr": {"fr", "fra", "fre", "fr-fr", "fr_ca", "fr-ca"},
	"en": {"en", "eng", "en-us", "en_us", "en-gb", "en_gb"},
	"ar": {"ar", "ara", "ar-sa", "ar_sa", "ar-ma", "ar_ma"},
}

// Service handles catalog browsing.
type Service struct {
	provider Provider
}

// New creates a catalog service.
func New(provider Provider) *Service {
	return &Service{provider: provider}
}

// ListBooks searches the provider, then filters, sorts and paginates locally.
// Pagination metadata is computed after filtering.
func (s *Service) ListBooks(ctx context.Context, q domcat.Query) (domcat.Page, error) {
	q = normalizeQuery(q)

	found, err := s.provider.Search(ctx, q)
	if err != nil {
		return domcat.Page{}, err
	}

	// Copy before filtering and sorting: the provider may serve the same
	// slice to concurrent callers from its cache.
	books := make([]domcat.Book, len(found))
	copy(books, found)

	books = filterBooks(books, q)
	sortBooks(books, q.Sort)

	total := len(books)
	totalPages := 1
	if total > 0 {
		totalPages = (total + q.PageSize - 1) / q.PageSize
	}
	page := q.Page
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * q.PageSize
	end := start + q.PageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	items := books[start:end]
	if items == nil {
		items = []domcat.Book{}
	}

	return domcat.Page{
		Page:       page,
		PageSize:   q.PageSize,
		Total:      total,
		TotalPages: totalPages,
		Items:      items,
	}, nil
}

// GetBook returns detailed metadata for one catalog book.
func (s *Service) GetBook(ctx context.Context, bookID string) (domcat.Book, error) {
	return s.provider.GetBook(ctx, bookID)
}

func normalizeQuery(q domcat.Query) domcat.Query {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = defaultPageSize
	}
	if q.PageSize > maxPageSize {
		q.PageSize = maxPageSize
	}
	if q.Sort == "" {
		q.Sort = domcat.SortRelevance
	}
	return q
}

func filterBooks(books []domcat.Book, q domcat.Query) []domcat.Book {
	ncat := norm(q.Category)
	ntag := norm(q.Tag)

	out := books[:0]
	for _, b := range books {
		if ncat != "" && !containsNorm(b.Categories, ncat) {
			continue
		}
		if ntag != "" && !containsNorm(b.Tags, ntag) {
			continue
		}
		if q.Language != "" && !langMatches(b.Language, q.Language) {
			continue
		}
		out = append(out, b)
	}
	return out
}

func sortBooks(books []domcat.Book, field domcat.SortField) {
	switch field {
	case domcat.SortTitle:
		sort.SliceStable(books, func(i, j int) bool {
			if ti, tj := norm(books[i].Title), norm(books[j].Title); ti != tj {
				return ti < tj
			}
			return norm(books[i].Author) < norm(books[j].Author)
		})
	case domcat.SortAuthor:
		sort.SliceStable(books, func(i, j int) bool {
			if ai, aj := norm(books[i].Author), norm(books[j].Author); ai != aj {
				return ai < aj
			}
			return norm(books[i].Title) < norm(books[j].Title)
		})
	case domcat.SortYear:
		sort.SliceStable(books, func(i, j int) bool {
			return books[i].Year > books[j].Year
		})
	case domcat.SortRating:
		sort.SliceStable(books, func(i, j int) bool {
			return books[i].Rating > books[j].Rating
		})
	case domcat.SortRelevance:
		// provider order
	}
}

func norm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func containsNorm(values []string, target string) bool {
	for _, v := range values {
		if norm(v) == target {
			return true
		}
	}
	return false
}

func langMatches(bookLang, requested string) bool {
	bl := norm(bookLang)
	if bl == "" {
		return true
	}
	req := norm(requested)

	aliases, ok := langAliases[req]
	if !ok {
		aliases = []string{req}
	}
	for _, alias := range aliases {
		if bl == alias || strings.HasPrefix(bl, alias) || strings.Contains(bl, alias) {
			return true
		}
	}
	return false
}
