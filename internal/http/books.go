package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/booktracker/internal/database/books"
	"github.com/mrlokans/booktracker/internal/entities"
	"github.com/mrlokans/booktracker/internal/security"
	"github.com/mrlokans/booktracker/internal/services"
	"github.com/mrlokans/booktracker/internal/sessions"
)

// BookService is what the HTTP surface needs from the service layer.
type BookService interface {
	List(ctx context.Context) ([]entities.Book, error)
	Get(ctx context.Context, id uint) (*entities.Book, error)
	Add(ctx context.Context, in services.BookInput) (*entities.Book, error)
	Edit(ctx context.Context, id uint, in services.BookInput) (*entities.Book, error)
	Delete(ctx context.Context, id uint) (*entities.Book, error)
	Count(ctx context.Context) (int64, error)
}

// Flasher stores notices for the next rendered page.
type Flasher interface {
	Flash(ctx context.Context, notice sessions.Notice)
	PopFlashes(ctx context.Context) []sessions.Notice
}

type BooksController struct {
	service BookService
	flash   Flasher
	logger  *zap.Logger
}

func NewBooksController(service BookService, flash Flasher, logger *zap.Logger) *BooksController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BooksController{service: service, flash: flash, logger: logger}
}

// Index lists all books, newest first.
// GET /
func (bc *BooksController) Index(c *gin.Context) {
	list, err := bc.service.List(c.Request.Context())
	if err != nil {
		bc.logger.Error("Failed to load books", zap.Error(err))
		bc.render(c, http.StatusOK, "index", gin.H{"Books": []entities.Book{}},
			sessions.Notice{Category: sessions.CategoryDanger, Message: "Error loading books."})
		return
	}
	bc.render(c, http.StatusOK, "index", gin.H{"Books": list})
}

// AddForm renders an empty add form.
// GET /add
func (bc *BooksController) AddForm(c *gin.Context) {
	bc.renderAddForm(c, http.StatusOK, bookForm{})
}

// Add validates and stores a new book.
// POST /add
func (bc *BooksController) Add(c *gin.Context) {
	in := readBookInput(c)

	book, err := bc.service.Add(c.Request.Context(), in)
	if err != nil {
		var vErr *services.ValidationError
		if errors.As(err, &vErr) {
			bc.renderAddForm(c, http.StatusUnprocessableEntity, formFromInput(in),
				sessions.Notice{Category: sessions.CategoryWarning, Message: vErr.Message()})
			return
		}
		bc.logger.Error("Failed to add book", zap.Error(err))
		bc.renderAddForm(c, http.StatusInternalServerError, formFromInput(in),
			sessions.Notice{Category: sessions.CategoryDanger, Message: "Error adding book."})
		return
	}

	bc.logger.Info("Book added", zap.Uint("id", book.ID), zap.Stringer("book", book))
	bc.redirectToIndex(c, sessions.Notice{
		Category: sessions.CategorySuccess,
		Message:  `Book "` + book.Title + `" added successfully!`,
	})
}

// EditForm renders the edit form pre-filled with the stored book.
// GET /edit/:id
func (bc *BooksController) EditForm(c *gin.Context) {
	book, ok := bc.loadBook(c)
	if !ok {
		return
	}
	bc.renderEditForm(c, http.StatusOK, book, formFromBook(book))
}

// Edit validates the submission and overwrites the stored book.
// POST /edit/:id
func (bc *BooksController) Edit(c *gin.Context) {
	book, ok := bc.loadBook(c)
	if !ok {
		return
	}

	in := readBookInput(c)
	updated, err := bc.service.Edit(c.Request.Context(), book.ID, in)
	if err != nil {
		var vErr *services.ValidationError
		switch {
		case errors.As(err, &vErr):
			bc.renderEditForm(c, http.StatusUnprocessableEntity, book, formFromInput(in),
				sessions.Notice{Category: sessions.CategoryWarning, Message: vErr.Message()})
		case errors.Is(err, books.ErrNotFound):
			bc.notFound(c)
		default:
			bc.logger.Error("Failed to update book", zap.Uint("id", book.ID), zap.Error(err))
			bc.renderEditForm(c, http.StatusInternalServerError, book, formFromInput(in),
				sessions.Notice{Category: sessions.CategoryDanger, Message: "Error updating book."})
		}
		return
	}

	bc.logger.Info("Book updated", zap.Uint("id", updated.ID), zap.Stringer("book", updated))
	bc.redirectToIndex(c, sessions.Notice{
		Category: sessions.CategorySuccess,
		Message:  `Book "` + updated.Title + `" updated successfully!`,
	})
}

// Delete permanently removes a book. Only reachable through POST.
// POST /delete/:id
func (bc *BooksController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		bc.notFound(c)
		return
	}

	book, err := bc.service.Delete(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, books.ErrNotFound) {
			bc.notFound(c)
			return
		}
		bc.logger.Error("Failed to delete book", zap.Uint("id", id), zap.Error(err))
		bc.redirectToIndex(c, sessions.Notice{Category: sessions.CategoryDanger, Message: "Error deleting book."})
		return
	}

	bc.logger.Info("Book deleted", zap.Uint("id", id), zap.Stringer("book", book))
	bc.redirectToIndex(c, sessions.Notice{
		Category: sessions.CategorySuccess,
		Message:  `Book "` + book.Title + `" deleted successfully!`,
	})
}

// loadBook resolves the :id parameter, rendering the not-found page when
// the id is malformed or unknown.
func (bc *BooksController) loadBook(c *gin.Context) (*entities.Book, bool) {
	id, ok := parseID(c, "id")
	if !ok {
		bc.notFound(c)
		return nil, false
	}

	book, err := bc.service.Get(c.Request.Context(), id)
	if err != nil {
		if !errors.Is(err, books.ErrNotFound) {
			bc.logger.Error("Failed to load book", zap.Uint("id", id), zap.Error(err))
		}
		bc.notFound(c)
		return nil, false
	}
	return book, true
}

func readBookInput(c *gin.Context) services.BookInput {
	return services.BookInput{
		Title:         c.PostForm("title"),
		Author:        c.PostForm("author"),
		Genre:         c.PostForm("genre"),
		YearPublished: c.PostForm("year_published"),
		Description:   c.PostForm("description"),
	}
}

func (bc *BooksController) renderAddForm(c *gin.Context, status int, form bookForm, notices ...sessions.Notice) {
	bc.render(c, status, "add_book", gin.H{
		"PageTitle":   "Add Book",
		"Action":      "/add",
		"SubmitLabel": "Add Book",
		"Form":        form,
	}, notices...)
}

func (bc *BooksController) renderEditForm(c *gin.Context, status int, book *entities.Book, form bookForm, notices ...sessions.Notice) {
	bc.render(c, status, "edit_book", gin.H{
		"PageTitle":   "Edit Book",
		"Action":      "/edit/" + formatID(book.ID),
		"SubmitLabel": "Update Book",
		"Book":        book,
		"Form":        form,
	}, notices...)
}

func (bc *BooksController) notFound(c *gin.Context) {
	bc.render(c, http.StatusNotFound, "not_found", gin.H{
		"PageTitle": "Not Found",
		"Message":   "The requested book does not exist.",
	})
}

func (bc *BooksController) redirectToIndex(c *gin.Context, notice sessions.Notice) {
	if bc.flash != nil {
		bc.flash.Flash(c.Request.Context(), notice)
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// render executes a page template with queued flashes followed by notices.
func (bc *BooksController) render(c *gin.Context, status int, name string, data gin.H, notices ...sessions.Notice) {
	var all []sessions.Notice
	if bc.flash != nil {
		all = bc.flash.PopFlashes(c.Request.Context())
	}
	data["Notices"] = append(all, notices...)
	data["CSRFField"] = security.CSRFTokenField(c)
	c.HTML(status, name, data)
}
