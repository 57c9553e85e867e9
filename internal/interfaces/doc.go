// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - BookStore: Book persistence used by the service layer (internal/services/interfaces.go)
//   - Pinger: Database reachability for the health check (internal/http/health.go)
//
// ## HTTP Interfaces
//
//   - BookService: Validated catalogue operations used by controllers (internal/http/books.go)
//   - Flasher: One-shot notices carried across a redirect (internal/http/books.go)
//
// # Adding a New Book Field
//
//  1. Add the column to entities.Book with its gorm tags; AutoMigrate adds it
//     on the next start or `migrate` run.
//
//  2. Extend books.Fields and the Updates map in books.Repository.Update.
//
//  3. Validate and normalize it in services.BookService.Validate.
//
//  4. Add the form input to the "book_form" template and to bookForm,
//     and the JSON field to BookView.
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
