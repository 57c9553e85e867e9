package sessions

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/booktracker/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupSQLiteSessionManager(t *testing.T) *SessionManager {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "sessions.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	sm, err := NewSessionManager(sqlDB, config.Security{SessionLifetime: time.Hour})
	require.NoError(t, err)
	// Cleanups run last-in first-out, so the store stops before the database closes.
	t.Cleanup(sm.Close)
	return sm
}

// flashRouter queues a notice on POST /flash and pops notices on GET /show.
func flashRouter(sm *SessionManager) *gin.Engine {
	router := gin.New()
	router.Use(sm.LoadAndSave())
	router.POST("/flash", func(c *gin.Context) {
		sm.Flash(c.Request.Context(), Notice{Category: CategorySuccess, Message: "saved"})
		sm.Flash(c.Request.Context(), Notice{Category: CategoryWarning, Message: "check input"})
		c.Redirect(http.StatusSeeOther, "/show")
	})
	router.GET("/show", func(c *gin.Context) {
		flashes := sm.PopFlashes(c.Request.Context())
		messages := make([]string, 0, len(flashes))
		for _, f := range flashes {
			messages = append(messages, string(f.Category)+":"+f.Message)
		}
		c.JSON(http.StatusOK, messages)
	})
	return router
}

func TestNewSessionManager_CookieSettings(t *testing.T) {
	sm, err := NewSessionManager(nil, config.Security{SecureCookies: true})
	require.NoError(t, err)

	assert.Equal(t, "booktracker_session", sm.Cookie.Name)
	assert.True(t, sm.Cookie.HttpOnly)
	assert.True(t, sm.Cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, sm.Cookie.SameSite)
	assert.Equal(t, 24*time.Hour, sm.Lifetime)
}

func TestFlash_ShownOnceAfterRedirect(t *testing.T) {
	managers := map[string]*SessionManager{
		"sqlite": setupSQLiteSessionManager(t),
	}
	memory, err := NewSessionManager(nil, config.Security{})
	require.NoError(t, err)
	managers["memory"] = memory

	for name, sm := range managers {
		t.Run(name, func(t *testing.T) {
			router := flashRouter(sm)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/flash", nil))
			require.Equal(t, http.StatusSeeOther, w.Code)

			cookies := w.Result().Cookies()
			require.NotEmpty(t, cookies, "session cookie must be set on redirect")

			show := func() string {
				req := httptest.NewRequest(http.MethodGet, "/show", nil)
				for _, c := range cookies {
					req.AddCookie(c)
				}
				w := httptest.NewRecorder()
				router.ServeHTTP(w, req)
				require.Equal(t, http.StatusOK, w.Code)
				return w.Body.String()
			}

			assert.JSONEq(t, `["success:saved","warning:check input"]`, show())
			assert.JSONEq(t, `[]`, show())
		})
	}
}

func TestPopFlashes_EmptySession(t *testing.T) {
	sm, err := NewSessionManager(nil, config.Security{})
	require.NoError(t, err)

	router := flashRouter(sm)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/show", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestSessionManager_CloseStopsCleanup(t *testing.T) {
	memory, err := NewSessionManager(nil, config.Security{})
	require.NoError(t, err)

	managers := map[string]*SessionManager{
		"sqlite": setupSQLiteSessionManager(t),
		"memory": memory,
	}

	for name, sm := range managers {
		t.Run(name, func(t *testing.T) {
			done := make(chan struct{})
			go func() {
				sm.Close()
				sm.Close()
				close(done)
			}()

			select {
			case <-done:
			case <-time.After(5 * time.Second):
				t.Fatal("Close blocked")
			}
		})
	}
}

func TestLoadAndSave_WritesCookieWithoutBody(t *testing.T) {
	sm, err := NewSessionManager(nil, config.Security{})
	require.NoError(t, err)
	t.Cleanup(sm.Close)

	router := gin.New()
	router.Use(sm.LoadAndSave())
	router.POST("/flash", func(c *gin.Context) {
		sm.Flash(c.Request.Context(), Notice{Category: CategorySuccess, Message: "saved"})
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/flash", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	require.Len(t, w.Result().Cookies(), 1)
	assert.Equal(t, "booktracker_session", w.Result().Cookies()[0].Name)
}
