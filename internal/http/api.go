package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/booktracker/internal/database/books"
)

// BooksListResponse is returned by GET /api/books.
type BooksListResponse struct {
	Books []BookView `json:"books"`
	Total int        `json:"total"`
}

// BooksAPIController serves read-only JSON views of the catalogue.
type BooksAPIController struct {
	service BookService
	logger  *zap.Logger
}

func NewBooksAPIController(service BookService, logger *zap.Logger) *BooksAPIController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BooksAPIController{service: service, logger: logger}
}

// List returns every book, newest first.
// GET /api/books
func (ac *BooksAPIController) List(c *gin.Context) {
	list, err := ac.service.List(c.Request.Context())
	if err != nil {
		ac.logger.Error("Failed to list books", zap.Error(err))
		respondInternalError(c)
		return
	}

	views := make([]BookView, 0, len(list))
	for _, b := range list {
		views = append(views, NewBookView(b))
	}
	c.JSON(http.StatusOK, BooksListResponse{Books: views, Total: len(views)})
}

// Get returns a single book.
// GET /api/books/:id
func (ac *BooksAPIController) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		respondNotFound(c, "book")
		return
	}

	book, err := ac.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, books.ErrNotFound) {
			respondNotFound(c, "book")
			return
		}
		ac.logger.Error("Failed to get book", zap.Uint("id", id), zap.Error(err))
		respondInternalError(c)
		return
	}
	c.JSON(http.StatusOK, NewBookView(*book))
}
