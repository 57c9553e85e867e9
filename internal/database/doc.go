// Package database provides the data access layer for the application.
//
// # Architecture
//
//	database/
//	├── database.go      # Dialect selection, connection setup, migrations
//	└── books/           # Book CRUD operations
//
// DATABASE_URL picks the driver: postgres:// and postgresql:// URLs open
// PostgreSQL, anything else is a SQLite file path.
//
// # Using Sub-packages
//
//	// Initialize database connection (migrates the schema)
//	db, err := database.NewDatabase("./booktracker.db", database.Options{})
//
//	// Create domain-specific repositories
//	booksRepo := books.NewRepository(db.DB)
//
//	// Use repositories
//	book, err := booksRepo.GetByID(ctx, 123)
//
// Repository errors are classified with errors.Is against books.ErrNotFound
// and books.ErrUnavailable.
package database
