// Package openlibrary fetches catalog metadata from the Open Library API.
// Requests are anonymous. Search results, work details and author names are
// cached in memory so repeated browsing does not hammer the upstream.
package openlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/bookqa/internal/domain"
	"github.com/kailas-cloud/bookqa/internal/domain/catalog"
)

const defaultTimeout = 10 * time.Second

// Client talks to the Open Library HTTP API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	coversURL  string
	logger     *zap.Logger

	mu          sync.Mutex
	searchCache map[string][]catalog.Book
	workCache   map[string]catalog.Book
	authorCache map[string]string
}

// Config holds the Open Library client settings.
type Config struct {
	BaseURL   string
	CoversURL string
	Timeout   time.Duration
	Logger    *zap.Logger
}

// New creates an Open Library client.
func New(cfg *Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	coversURL := cfg.CoversURL
	if coversURL == "" {
		coversURL = "https://covers.openlibrary.org"
	}

	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		coversURL:   strings.TrimRight(coversURL, "/"),
		logger:      cfg.Logger,
		searchCache: make(map[string][]catalog.Book),
		workCache:   make(map[string]catalog.Book),
		authorCache: make(map[string]string),
	}
}

type searchResponse struct {
	Docs []searchDoc `json:"docs"`
}

type searchDoc struct {
	Key             string   `json:"key"`
	Title           string   `json:"title"`
	AuthorName      []string `json:"author_name"`
	CoverID         int      `json:"cover_i"`
	CoverEditionKey string   `json:"cover_edition_key"`
	Subject         []string `json:"subject"`
	Language        []string `json:"language"`
	FirstPublish    int      `json:"first_publish_year"`
	RatingsAverage  float64  `json:"ratings_average"`
	RatingsCount    int      `json:"ratings_count"`
}

// Search queries Open Library for works matching the query. Category and tag
// filters become subject terms; final filtering, sorting and pagination happen
// in the catalog usecase.
func (c *Client) Search(ctx context.Context, q catalog.Query) ([]catalog.Book, error) {
	cacheKey := fmt.Sprintf("%s|%s|%s|%s|%d|%d", q.Text, q.Category, q.Tag, q.Language, q.Page, q.PageSize)
	if books, ok := c.cachedSearch(cacheKey); ok {
		return books, nil
	}

	var terms []string
	if q.Text != "" {
		terms = append(terms, q.Text)
	}
	if q.Category != "" {
		terms = append(terms, "subject:"+q.Category)
	}
	if q.Tag != "" {
		terms = append(terms, "subject:"+q.Tag)
	}

	params := url.Values{}
	params.Set("q", strings.Join(terms, " "))
	params.Set("limit", strconv.Itoa(maxInt(1, q.PageSize)))
	params.Set("page", strconv.Itoa(maxInt(1, q.Page)))
	if q.Language != "" {
		params.Set("lang", q.Language)
	}

	var resp searchResponse
	if err := c.getJSON(ctx, c.baseURL+"/search.json?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	books := make([]catalog.Book, 0, len(resp.Docs))
	for _, doc := range resp.Docs {
		if doc.Key == "" {
			continue
		}
		books = append(books, c.docToBook(doc))
	}

	c.storeSearch(cacheKey, books)
	return books, nil
}

func (c *Client) docToBook(doc searchDoc) catalog.Book {
	workID := lastPathSegment(doc.Key)

	lang := "fr"
	if len(doc.Language) > 0 {
		lang = convertLanguage(doc.Language[0])
	}

	return catalog.Book{
		ID:           workID,
		Title:        doc.Title,
		Author:       strings.Join(doc.AuthorName, ", "),
		CoverURL:     c.coverURL(doc.CoverID, doc.CoverEditionKey),
		Categories:   doc.Subject,
		Tags:         generateTags(doc.Title, doc.Subject),
		Language:     lang,
		Year:         doc.FirstPublish,
		Rating:       doc.RatingsAverage,
		RatingsCount: doc.RatingsCount,
	}
}

type workResponse struct {
	Title       string          `json:"title"`
	Description json.RawMessage `json:"description"`
	Authors     []struct {
		Author struct {
			Key string `json:"key"`
		} `json:"author"`
	} `json:"authors"`
	Excerpts []struct {
		Excerpt string `json:"excerpt"`
	} `json:"excerpts"`
	Covers    []int    `json:"covers"`
	Subjects  []string `json:"subjects"`
	Languages []struct {
		Key string `json:"key"`
	} `json:"languages"`
	FirstPublishDate string `json:"first_publish_date"`
	Created          struct {
		Value string `json:"value"`
	} `json:"created"`
	RatingsAverage float64 `json:"ratings_average"`
	RatingsCount   int     `json:"ratings_count"`
}

// GetBook returns detailed metadata for an Open Library work id.
func (c *Client) GetBook(ctx context.Context, bookID string) (catalog.Book, error) {
	workID := lastPathSegment(strings.TrimSpace(bookID))
	if workID == "" {
		return catalog.Book{}, fmt.Errorf("empty book id: %w", domain.ErrBookNotFound)
	}

	if book, ok := c.cachedWork(workID); ok {
		return book, nil
	}

	var resp workResponse
	endpoint := c.baseURL + "/works/" + url.PathEscape(workID) + ".json"
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return catalog.Book{}, err
	}

	var authorNames []string
	for _, entry := range resp.Authors {
		if name := c.authorName(ctx, entry.Author.Key); name != "" {
			authorNames = append(authorNames, name)
		}
	}

	description := parseDescription(resp.Description)
	if description == "" {
		for _, ex := range resp.Excerpts {
			if ex.Excerpt != "" {
				description = strings.TrimSpace(ex.Excerpt)
				break
			}
		}
	}

	var coverURL string
	if len(resp.Covers) > 0 {
		coverURL = c.coverURL(resp.Covers[0], "")
	}

	lang := "fr"
	if len(resp.Languages) > 0 {
		lang = convertLanguage(lastPathSegment(resp.Languages[0].Key))
	}

	year := parseYear(resp.FirstPublishDate)
	if year == 0 {
		year = parseYear(resp.Created.Value)
	}

	book := catalog.Book{
		ID:               workID,
		Title:            resp.Title,
		Author:           strings.Join(authorNames, ", "),
		ShortDescription: description,
		CoverURL:         coverURL,
		Categories:       resp.Subjects,
		Tags:             generateTags(resp.Title, resp.Subjects),
		Language:         lang,
		Year:             year,
		Rating:           resp.RatingsAverage,
		RatingsCount:     resp.RatingsCount,
	}

	c.storeWork(workID, book)
	return book, nil
}

// authorName resolves an author key to a display name. Failures are logged and
// the author is skipped rather than failing the whole lookup.
func (c *Client) authorName(ctx context.Context, key string) string {
	authorID := lastPathSegment(strings.TrimSpace(key))
	if authorID == "" {
		return ""
	}

	c.mu.Lock()
	name, ok := c.authorCache[authorID]
	c.mu.Unlock()
	if ok {
		return name
	}

	var resp struct {
		Name string `json:"name"`
	}
	endpoint := c.baseURL + "/authors/" + url.PathEscape(authorID) + ".json"
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		c.logger.Warn("Failed to resolve author", zap.String("author_id", authorID), zap.Error(err))
		return ""
	}

	c.mu.Lock()
	c.authorCache[authorID] = resp.Name
	c.mu.Unlock()
	return resp.Name
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", domain.ErrCatalogUnavailable)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "bookqa/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("open library request: %v: %w", err, domain.ErrCatalogUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("open library %s: %w", endpoint, domain.ErrBookNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("open library status %d: %w", resp.StatusCode, domain.ErrCatalogUnavailable)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode open library response: %v: %w", err, domain.ErrCatalogUnavailable)
	}
	return nil
}

func (c *Client) coverURL(coverID int, editionKey string) string {
	if coverID > 0 {
		return fmt.Sprintf("%s/b/id/%d-L.jpg", c.coversURL, coverID)
	}
	if editionKey != "" {
		return fmt.Sprintf("%s/b/olid/%s-L.jpg", c.coversURL, editionKey)
	}
	return ""
}

func (c *Client) cachedSearch(key string) ([]catalog.Book, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	books, ok := c.searchCache[key]
	return books, ok
}

func (c *Client) storeSearch(key string, books []catalog.Book) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.searchCache[key] = books
}

func (c *Client) cachedWork(workID string) (catalog.Book, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	book, ok := c.workCache[workID]
	return book, ok
}

func (c *Client) storeWork(workID string, book catalog.Book) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.workCache[workID] = book
}

func parseDescription(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if json.Unmarshal(raw, &s) == nil {
		return strings.TrimSpace(s)
	}

	var obj struct {
		Value string `json:"value"`
	}
	if json.Unmarshal(raw, &obj) == nil {
		return strings.TrimSpace(obj.Value)
	}
	return ""
}

func lastPathSegment(s string) string {
	if idx := strings.LastIndex(s, "/"); idx >= 0 {
		return s[idx+1:]
	}
	return s
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
