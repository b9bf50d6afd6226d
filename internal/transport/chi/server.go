// Package chi exposes the HTTP API: book registration, question answering,
// catalog browsing and favorites.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/bookqa/internal/domain"
	domcat "github.com/kailas-cloud/bookqa/internal/domain/catalog"
	cataloguc "github.com/kailas-cloud/bookqa/internal/usecase/catalog"
	favoritesuc "github.com/kailas-cloud/bookqa/internal/usecase/favorites"
	healthuc "github.com/kailas-cloud/bookqa/internal/usecase/health"
	libraryuc "github.com/kailas-cloud/bookqa/internal/usecase/library"
	qauc "github.com/kailas-cloud/bookqa/internal/usecase/qa"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server wires the usecase services into HTTP handlers.
type Server struct {
	library       *libraryuc.Service
	qa            *qauc.Service
	catalog       *cataloguc.Service
	favorites     *favoritesuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	library *libraryuc.Service,
	qa *qauc.Service,
	catalog *cataloguc.Service,
	favorites *favoritesuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		library:   library,
		qa:        qa,
		catalog:   catalog,
		favorites: favorites,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrValidation, http.StatusBadRequest, "validation_failed"),
		sentinelHandler(domain.ErrBookNotFound, http.StatusNotFound, "book_not_found"),
		sentinelHandler(domain.ErrNoSections, http.StatusNotFound, "no_sections"),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, "embedding_provider_error"),
		sentinelHandler(domain.ErrGenerationProviderError, http.StatusBadGateway, "generation_provider_error"),
		sentinelHandler(domain.ErrCatalogUnavailable, http.StatusServiceUnavailable, "catalog_unavailable"),
	}
	return s
}

// Routes mounts all handlers on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/books", s.addBook)
		r.Get("/books", s.listBooks)
		r.Get("/books/{id}", s.getBook)
		r.Post("/ask", s.ask)

		r.Get("/catalog/books", s.listCatalogBooks)
		r.Get("/catalog/books/{id}", s.getCatalogBook)

		r.Route("/favorites/{userID}", func(r chi.Router) {
			r.Get("/", s.listFavorites)
			r.Post("/", s.addFavorite)
			r.Delete("/", s.clearFavorites)
			r.Delete("/{bookID}", s.removeFavorite)
		})
	})

	r.Get("/health", s.healthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

// addBook handles POST /api/v1/books.
func (s *Server) addBook(w http.ResponseWriter, r *http.Request) {
	var req addBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	book, err := s.library.AddBook(libraryuc.AddBookInput{
		Title:       req.Title,
		Author:      req.Author,
		Year:        req.Year,
		Genre:       req.Genre,
		Description: req.Description,
		Sections:    req.Sections,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, bookToResponse(book, s.library.SectionCount(book.ID())))
}

// listBooks handles GET /api/v1/books.
func (s *Server) listBooks(w http.ResponseWriter, r *http.Request) {
	books := s.library.ListBooks()

	items := make([]bookResponse, len(books))
	for i, b := range books {
		items[i] = bookToResponse(b, s.library.SectionCount(b.ID()))
	}

	writeJSON(w, http.StatusOK, bookListResponse{Items: items, Total: len(items)})
}

// getBook handles GET /api/v1/books/{id}.
func (s *Server) getBook(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "Book id must be an integer")
		return
	}

	book, err := s.library.GetBook(id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, bookToResponse(book, s.library.SectionCount(book.ID())))
}

// ask handles POST /api/v1/ask.
func (s *Server) ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	answer, err := s.qa.Ask(r.Context(), qaRequestFromDTO(req))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, answerToResponse(answer))
}

// listCatalogBooks handles GET /api/v1/catalog/books.
func (s *Server) listCatalogBooks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	sortField, err := domcat.ParseSortField(q.Get("sort"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	query := domcat.Query{
		Text:     q.Get("q"),
		Category: q.Get("category"),
		Tag:      q.Get("tag"),
		Language: q.Get("language"),
		Sort:     sortField,
		Page:     intParam(q.Get("page"), 1),
		PageSize: intParam(q.Get("page_size"), 12),
	}

	page, err := s.catalog.ListBooks(r.Context(), query)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// getCatalogBook handles GET /api/v1/catalog/books/{id}.
func (s *Server) getCatalogBook(w http.ResponseWriter, r *http.Request) {
	book, err := s.catalog.GetBook(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, book)
}

// listFavorites handles GET /api/v1/favorites/{userID}.
func (s *Server) listFavorites(w http.ResponseWriter, r *http.Request) {
	books, err := s.favorites.List(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	if books == nil {
		books = []domcat.Book{}
	}
	writeJSON(w, http.StatusOK, books)
}

// addFavorite handles POST /api/v1/favorites/{userID}.
func (s *Server) addFavorite(w http.ResponseWriter, r *http.Request) {
	var req addFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	if err := s.favorites.Add(r.Context(), chi.URLParam(r, "userID"), req.BookID); err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

// removeFavorite handles DELETE /api/v1/favorites/{userID}/{bookID}.
func (s *Server) removeFavorite(w http.ResponseWriter, r *http.Request) {
	if err := s.favorites.Remove(r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "bookID")); err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

// clearFavorites handles DELETE /api/v1/favorites/{userID}.
func (s *Server) clearFavorites(w http.ResponseWriter, r *http.Request) {
	if err := s.favorites.Clear(r.Context(), chi.URLParam(r, "userID")); err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

// healthCheck handles GET /health.
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

func intParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrValidation,
		domain.ErrBookNotFound,
		domain.ErrNoSections,
		domain.ErrEmbeddingProviderError,
		domain.ErrGenerationProviderError,
		domain.ErrCatalogUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}
