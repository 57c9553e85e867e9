package http

import (
	"go.uber.org/zap"

	"github.com/mrlokans/booktracker/internal/sessions"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	BookService BookService
	Sessions    *sessions.SessionManager
	Database    Pinger
	Logger      *zap.Logger

	// CSRF protection; nil disables it
	CSRFKey       []byte
	SecureCookies bool

	// Per-client rate limiting; zero disables it
	RateLimitRPS   float64
	RateLimitBurst int

	// UI templates on disk; empty uses the embedded set
	TemplatesPath string

	// Application info
	Version string
}
