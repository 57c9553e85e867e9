// Package sessions keeps per-browser state between requests. The application
// only stores one-time notices (flashes) in it.
package sessions

import (
	"context"
	"database/sql"
	"encoding/gob"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"

	"github.com/mrlokans/booktracker/internal/config"
)

// Category is the severity of a notice.
type Category string

const (
	CategorySuccess Category = "success"
	CategoryWarning Category = "warning"
	CategoryDanger  Category = "danger"
)

// Notice is a status message shown once on the next rendered page.
type Notice struct {
	Category Category
	Message  string
}

const sessionKeyFlashes = "flashes"

func init() {
	gob.Register([]Notice{})
}

// SessionManager wraps scs.SessionManager with flash helpers.
type SessionManager struct {
	*scs.SessionManager
	closeOnce sync.Once
}

// NewSessionManager creates a session manager persisting to SQLite when sqlDB
// is non-nil and to process memory otherwise.
func NewSessionManager(sqlDB *sql.DB, cfg config.Security) (*SessionManager, error) {
	sm := scs.New()

	if sqlDB != nil {
		_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
			token TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			expiry REAL NOT NULL
		);
		CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
		if err != nil {
			return nil, fmt.Errorf("create sessions table: %w", err)
		}
		sm.Store = sqlite3store.New(sqlDB)
	} else {
		sm.Store = memstore.New()
	}

	lifetime := cfg.SessionLifetime
	if lifetime <= 0 {
		lifetime = 24 * time.Hour
	}
	sm.Lifetime = lifetime

	sm.Cookie.Name = "booktracker_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	// Lax so the session survives the redirect after a form post.
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"

	return &SessionManager{SessionManager: sm}, nil
}

// cleaner is implemented by stores that expire sessions in a background goroutine.
type cleaner interface {
	StopCleanup()
}

// Close stops the store's expiry goroutine. Call it before closing the
// database the store writes to. Safe to call more than once.
func (sm *SessionManager) Close() {
	sm.closeOnce.Do(func() {
		if c, ok := sm.Store.(cleaner); ok {
			c.StopCleanup()
		}
	})
}

// Flash queues a notice for the next rendered page.
func (sm *SessionManager) Flash(ctx context.Context, notice Notice) {
	flashes, _ := sm.Get(ctx, sessionKeyFlashes).([]Notice)
	sm.Put(ctx, sessionKeyFlashes, append(flashes, notice))
}

// PopFlashes returns and clears the queued notices.
func (sm *SessionManager) PopFlashes(ctx context.Context) []Notice {
	flashes, _ := sm.Pop(ctx, sessionKeyFlashes).([]Notice)
	return flashes
}
