package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/booktracker/internal/database"
	"github.com/mrlokans/booktracker/internal/database/books"
	"github.com/mrlokans/booktracker/internal/http"
	"github.com/mrlokans/booktracker/internal/services"
	"github.com/mrlokans/booktracker/internal/sessions"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// BookStore implementations
var _ services.BookStore = (*books.Repository)(nil)

// Pinger implementations
var _ http.Pinger = (*database.Database)(nil)

// =============================================================================
// HTTP Surface
// =============================================================================

// BookService implementations
var _ http.BookService = (*services.BookService)(nil)

// Flasher implementations
var _ http.Flasher = (*sessions.SessionManager)(nil)
