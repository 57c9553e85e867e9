package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/booktracker/internal/config"
	"github.com/mrlokans/booktracker/internal/database"
	"github.com/mrlokans/booktracker/internal/database/books"
	"github.com/mrlokans/booktracker/internal/entities"
	"github.com/mrlokans/booktracker/internal/services"
	"github.com/mrlokans/booktracker/internal/sessions"
)

type testApp struct {
	router  *gin.Engine
	service *services.BookService
	db      *database.Database
	cookies []*http.Cookie
}

func setupBooksTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "books.db"), database.Options{LogLevel: logger.Silent})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	service := services.NewBookService(books.NewRepository(db.DB))
	sm, err := sessions.NewSessionManager(nil, config.Security{})
	require.NoError(t, err)

	router := NewRouter(RouterConfig{
		BookService: service,
		Sessions:    sm,
		Database:    db,
		Version:     "test",
	})
	return &testApp{router: router, service: service, db: db}
}

// do sends a request, carrying and refreshing the session cookie.
func (a *testApp) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range a.cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	if cookies := w.Result().Cookies(); len(cookies) > 0 {
		a.cookies = cookies
	}
	return w
}

func duneForm() url.Values {
	return url.Values{
		"title":          {"Dune"},
		"author":         {"Herbert"},
		"genre":          {"SciFi"},
		"year_published": {"1965"},
		"description":    {""},
	}
}

func TestBooksController_Index(t *testing.T) {
	t.Run("shows empty state", func(t *testing.T) {
		app := setupBooksTestApp(t)

		w := app.do(http.MethodGet, "/", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "No books yet")
	})

	t.Run("lists books newest first", func(t *testing.T) {
		app := setupBooksTestApp(t)
		ctx := context.Background()
		for _, title := range []string{"Older", "Newer"} {
			in := services.BookInput{Title: title, Author: "A", Genre: "G", YearPublished: "2000"}
			_, err := app.service.Add(ctx, in)
			require.NoError(t, err)
		}

		w := app.do(http.MethodGet, "/", nil)

		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Less(t, strings.Index(body, "Newer"), strings.Index(body, "Older"))
	})
}

func TestBooksController_AddFlow(t *testing.T) {
	app := setupBooksTestApp(t)

	w := app.do(http.MethodGet, "/add", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `action="/add"`)

	w = app.do(http.MethodPost, "/add", duneForm())
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = app.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Book &#34;Dune&#34; added successfully!")
	assert.Contains(t, w.Body.String(), "Herbert")

	list, err := app.service.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Dune", list[0].Title)
	assert.Nil(t, list[0].Description)

	// Flash is shown once.
	w = app.do(http.MethodGet, "/", nil)
	assert.NotContains(t, w.Body.String(), "added successfully")
}

func TestBooksController_AddValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(form url.Values)
		message string
	}{
		{"missing title", func(f url.Values) { f.Set("title", "  ") }, "All fields except description are required!"},
		{"bad year", func(f url.Values) { f.Set("year_published", "abc") }, "Year must be a valid number!"},
		{"future year", func(f url.Values) { f.Set("year_published", "99999") }, "Please enter a valid year!"},
		{"overflowing year", func(f url.Values) { f.Set("year_published", "99999999999999999999") }, "Please enter a valid year!"},
		{"long genre", func(f url.Values) { f.Set("genre", strings.Repeat("g", entities.MaxGenreLength+1)) }, "Genre is too long (max 50 characters)."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := setupBooksTestApp(t)
			form := duneForm()
			form.Set("description", "kept text")
			tt.mutate(form)

			w := app.do(http.MethodPost, "/add", form)

			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			assert.Contains(t, w.Body.String(), tt.message)
			assert.Contains(t, w.Body.String(), "kept text")
			assert.Contains(t, w.Body.String(), "alert-warning")

			count, err := app.service.Count(context.Background())
			require.NoError(t, err)
			assert.Zero(t, count)
		})
	}
}

func TestBooksController_EditFlow(t *testing.T) {
	app := setupBooksTestApp(t)
	created, err := app.service.Add(context.Background(), services.BookInput{
		Title: "Dune", Author: "Herbert", Genre: "SciFi", YearPublished: "1965",
	})
	require.NoError(t, err)
	editPath := "/edit/" + formatID(created.ID)

	t.Run("form is prefilled", func(t *testing.T) {
		w := app.do(http.MethodGet, editPath, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `value="Dune"`)
		assert.Contains(t, w.Body.String(), `value="1965"`)
	})

	t.Run("invalid submission keeps input and record", func(t *testing.T) {
		form := duneForm()
		form.Set("title", "Dune Messiah")
		form.Set("year_published", "soon")

		w := app.do(http.MethodPost, editPath, form)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), `value="Dune Messiah"`)
		stored, err := app.service.Get(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Dune", stored.Title)
	})

	t.Run("valid submission updates and redirects", func(t *testing.T) {
		form := duneForm()
		form.Set("genre", "Science Fiction")

		w := app.do(http.MethodPost, editPath, form)
		require.Equal(t, http.StatusSeeOther, w.Code)

		w = app.do(http.MethodGet, "/", nil)
		assert.Contains(t, w.Body.String(), "updated successfully!")
		assert.Contains(t, w.Body.String(), "Science Fiction")
	})

	t.Run("unknown or malformed id is 404", func(t *testing.T) {
		for _, path := range []string{"/edit/9999", "/edit/abc", "/edit/0"} {
			w := app.do(http.MethodGet, path, nil)
			assert.Equal(t, http.StatusNotFound, w.Code, path)

			w = app.do(http.MethodPost, path, duneForm())
			assert.Equal(t, http.StatusNotFound, w.Code, path)
		}
	})
}

func TestBooksController_Delete(t *testing.T) {
	app := setupBooksTestApp(t)
	created, err := app.service.Add(context.Background(), services.BookInput{
		Title: "Dune", Author: "Herbert", Genre: "SciFi", YearPublished: "1965",
	})
	require.NoError(t, err)
	deletePath := "/delete/" + formatID(created.ID)

	t.Run("GET is not routed", func(t *testing.T) {
		w := app.do(http.MethodGet, deletePath, nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		_, err := app.service.Get(context.Background(), created.ID)
		assert.NoError(t, err)
	})

	t.Run("POST removes the book", func(t *testing.T) {
		w := app.do(http.MethodPost, deletePath, url.Values{})
		require.Equal(t, http.StatusSeeOther, w.Code)

		w = app.do(http.MethodGet, "/", nil)
		assert.Contains(t, w.Body.String(), "deleted successfully!")

		_, err := app.service.Get(context.Background(), created.ID)
		assert.ErrorIs(t, err, books.ErrNotFound)
	})

	t.Run("POST for a missing book is 404", func(t *testing.T) {
		w := app.do(http.MethodPost, deletePath, url.Values{})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

// failingService reports storage failures for every operation.
type failingService struct {
	err error
}

func (f *failingService) List(ctx context.Context) ([]entities.Book, error) { return nil, f.err }
func (f *failingService) Get(ctx context.Context, id uint) (*entities.Book, error) {
	return &entities.Book{ID: id, Title: "Dune", Author: "Herbert", Genre: "SciFi", YearPublished: 1965}, nil
}
func (f *failingService) Add(ctx context.Context, in services.BookInput) (*entities.Book, error) {
	return nil, f.err
}
func (f *failingService) Edit(ctx context.Context, id uint, in services.BookInput) (*entities.Book, error) {
	return nil, f.err
}
func (f *failingService) Delete(ctx context.Context, id uint) (*entities.Book, error) {
	return nil, f.err
}
func (f *failingService) Count(ctx context.Context) (int64, error) { return 0, f.err }

func setupFailingRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sm, err := sessions.NewSessionManager(nil, config.Security{})
	require.NoError(t, err)
	router := NewRouter(RouterConfig{
		BookService: &failingService{err: errors.New("books: unavailable")},
		Sessions:    sm,
	})
	return router
}

func TestBooksController_StorageFailures(t *testing.T) {
	router := setupFailingRouter(t)

	t.Run("list shows danger notice", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Error loading books.")
		assert.Contains(t, w.Body.String(), "alert-danger")
	})

	t.Run("add re-renders with 500", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/add", strings.NewReader(duneForm().Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "Error adding book.")
		assert.Contains(t, w.Body.String(), `value="Dune"`)
	})

	t.Run("edit re-renders with 500", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/edit/1", strings.NewReader(duneForm().Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "Error updating book.")
	})

	t.Run("delete redirects with danger flash", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/delete/1", nil))
		require.Equal(t, http.StatusSeeOther, w.Code)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		for _, c := range w.Result().Cookies() {
			req.AddCookie(c)
		}
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Contains(t, w.Body.String(), "Error deleting book.")
	})
}
