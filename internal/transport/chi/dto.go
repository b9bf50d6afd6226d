package chi

import (
	"github.com/kailas-cloud/bookqa/internal/domain"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type addBookRequest struct {
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Year        int      `json:"year,omitempty"`
	Genre       string   `json:"genre,omitempty"`
	Description string   `json:"description,omitempty"`
	Sections    []string `json:"sections"`
}

type bookResponse struct {
	ID           int    `json:"id"`
	Title        string `json:"title"`
	Author       string `json:"author"`
	Year         int    `json:"year,omitempty"`
	Genre        string `json:"genre,omitempty"`
	Description  string `json:"description,omitempty"`
	SectionCount int    `json:"section_count"`
}

type bookListResponse struct {
	Items []bookResponse `json:"items"`
	Total int            `json:"total"`
}

// askRequest uses pointers for book_id and top_k so an absent field is
// distinguishable from an explicit zero.
type askRequest struct {
	Question  string `json:"question"`
	BookID    *int   `json:"book_id"`
	TitleHint string `json:"title_hint"`
	TopK      *int   `json:"top_k"`
}

type askResponse struct {
	Answer     string  `json:"answer"`
	BookID     int     `json:"book_id"`
	BookTitle  string  `json:"book_title"`
	Confidence float64 `json:"confidence"`
	SourceNote string  `json:"source_note"`
}

type addFavoriteRequest struct {
	BookID string `json:"book_id"`
}

type statusResponse struct {
	Status string `json:"status"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func bookToResponse(b domain.Book, sectionCount int) bookResponse {
	return bookResponse{
		ID:           b.ID(),
		Title:        b.Title(),
		Author:       b.Author(),
		Year:         b.Year(),
		Genre:        b.Genre(),
		Description:  b.Description(),
		SectionCount: sectionCount,
	}
}

func qaRequestFromDTO(req askRequest) domain.QARequest {
	out := domain.QARequest{
		Question:  req.Question,
		BookID:    req.BookID,
		TitleHint: req.TitleHint,
		TopK:      domain.DefaultTopK,
	}
	if req.TopK != nil {
		out.TopK = *req.TopK
	}
	return out
}

func answerToResponse(a domain.QAAnswer) askResponse {
	return askResponse{
		Answer:     a.Answer,
		BookID:     a.BookID,
		BookTitle:  a.BookTitle,
		Confidence: a.Confidence,
		SourceNote: a.SourceNote,
	}
}
