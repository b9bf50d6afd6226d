// Package catalog defines records exchanged with the external book catalog
// provider. These are mapped provider records, not registry aggregates, so
// fields stay exported.
package catalog

import "fmt"

// Book is one catalog entry as rendered to clients.
type Book struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Author           string   `json:"author"`
	ShortDescription string   `json:"short_description"`
	CoverURL         string   `json:"cover_url"`
	Categories       []string `json:"categories"`
	Tags             []string `json:"tags"`
	Language         string   `json:"language"`
	Year             int      `json:"year,omitempty"`
	Rating           float64  `json:"rating,omitempty"`
	RatingsCount     int      `json:"ratings_count"`
}

// Page bundles a result page with pagination metadata.
type Page struct {
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	Total      int    `json:"total"`
	TotalPages int    `json:"total_pages"`
	Items      []Book `json:"items"`
}

// SortField selects the ordering of catalog listings.
type SortField string

const (
	SortRelevance SortField = "relevance"
	SortTitle     SortField = "title"
	SortAuthor    SortField = "author"
	SortYear      SortField = "year"
	SortRating    SortField = "rating"
)

// ParseSortField validates a sort parameter, defaulting to relevance.
func ParseSortField(s string) (SortField, error) {
	switch SortField(s) {
	case "", SortRelevance:
		return SortRelevance, nil
	case SortTitle, SortAuthor, SortYear, SortRating:
		return SortField(s), nil
	default:
		return "", fmt.Errorf("unknown sort field %q", s)
	}
}

// Query holds catalog search parameters. Page is 1-indexed.
type Query struct {
	Text     string
	Category string
	Tag      string
	Language string
	Sort     SortField
	Page     int
	PageSize int
}
