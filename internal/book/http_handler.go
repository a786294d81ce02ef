package book

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"booksapi/internal/httpx"

	"github.com/rs/zerolog/log"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Create handles POST /books
// @Summary Create a book
// @Description Store one book. publishedDate is a Buddhist Era date (yyyy-MM-dd).
// @Tags books
// @Accept json
// @Produce json
// @Param book body Submission true "Book to create"
// @Success 201 {object} Created
// @Failure 400 {object} httpx.ErrorResponse
// @Router /books [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var sub Submission
	if !decodeJSON(w, r, &sub) {
		return
	}

	id, err := h.service.IngestOne(r.Context(), sub)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, Created{ID: id})
}

// CreateBulk handles POST /books/bulk
// @Summary Create books in bulk
// @Description Store a list of books. Either every book is stored or none is.
// @Tags books
// @Accept json
// @Produce json
// @Param books body []Submission true "Books to create"
// @Success 201 {array} Created
// @Failure 400 {object} httpx.ErrorResponse
// @Router /books/bulk [post]
func (h *HTTPHandler) CreateBulk(w http.ResponseWriter, r *http.Request) {
	var subs []Submission
	if !decodeJSON(w, r, &subs) {
		return
	}

	ids, err := h.service.IngestMany(r.Context(), subs)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := make([]Created, len(ids))
	for i, id := range ids {
		resp[i] = Created{ID: id}
	}
	httpx.JSONSuccessCreated(w, resp)
}

// ListByAuthor handles GET /books
// @Summary List books by author
// @Description Page through one author's books, matched ignoring case.
// @Tags books
// @Produce json
// @Param author query string true "Author name"
// @Param page query int false "Zero-based page" default(0)
// @Param size query int false "Page size" default(20)
// @Param sort query string false "property[,asc|desc]" default(publishedDate,asc)
// @Success 200 {object} Page[Book]
// @Failure 400 {object} httpx.ErrorResponse
// @Router /books [get]
func (h *HTTPHandler) ListByAuthor(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	p, err := ParsePageRequest(query)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	page, err := h.service.ByAuthor(r.Context(), query.Get("author"), p)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, page)
}

// ListAll handles GET /books/all
// @Summary List all books
// @Tags books
// @Produce json
// @Param page query int false "Zero-based page" default(0)
// @Param size query int false "Page size" default(20)
// @Param sort query string false "property[,asc|desc]" default(id,asc)
// @Success 200 {object} Page[Book]
// @Router /books/all [get]
func (h *HTTPHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	p, err := ParsePageRequest(r.URL.Query())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	page, err := h.service.All(r.Context(), p)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, page)
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErrs ValidationErrors
		missing        *MissingParameterError
		badSort        *InvalidSortError
	)
	switch {
	case errors.As(err, &validationErrs):
		details := make([]httpx.ErrorDetail, len(validationErrs))
		for i, fe := range validationErrs {
			details[i] = httpx.ErrorDetail{Field: fe.Field, Message: fe.Message}
		}
		httpx.JSONError(w, r, http.StatusBadRequest, "validation failed", details)
	case errors.As(err, &missing):
		httpx.JSONError(w, r, http.StatusBadRequest, missing.Error(), []httpx.ErrorDetail{
			{Field: missing.Name, Message: missing.Error()},
		})
	case errors.As(err, &badSort):
		httpx.JSONError(w, r, http.StatusBadRequest, badSort.Error(), []httpx.ErrorDetail{
			{Field: "sort", Message: badSort.Error()},
		})
	default:
		log.Error().Err(err).
			Str("request_id", httpx.RequestIDFrom(r)).
			Str("path", r.URL.Path).
			Msg("book request failed")
		httpx.JSONError(w, r, http.StatusInternalServerError, "internal server error", nil)
	}
}

// decodeJSON reads exactly one JSON value from the request body into dst,
// writing a 400 or 413 and returning false on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	err := dec.Decode(dst)
	if err == nil {
		if err = dec.Decode(&struct{}{}); err == io.EOF {
			return true
		}
		if err == nil {
			err = errors.New("trailing data after JSON body")
		}
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		httpx.JSONError(w, r, http.StatusRequestEntityTooLarge, "request body too large", nil)
		return false
	}
	httpx.JSONError(w, r, http.StatusBadRequest, "malformed JSON request body", nil)
	return false
}
