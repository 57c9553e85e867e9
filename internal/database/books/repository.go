// Package books provides persistence for book records.
//
// Every write runs inside a single transaction, so a failure part way
// through leaves the table unchanged.
//
// # Usage
//
//	repo := books.NewRepository(db.DB)
//	book, err := repo.GetByID(ctx, 123)
package books

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/booktracker/internal/entities"
)

var (
	// ErrNotFound is returned when no book has the requested id.
	ErrNotFound = errors.New("book not found")

	// ErrUnavailable wraps failures talking to the database.
	ErrUnavailable = errors.New("book store unavailable")
)

// Fields are the mutable attributes of a book.
type Fields struct {
	Title         string
	Author        string
	Genre         string
	YearPublished int
	Description   *string
}

// Repository handles all book database operations.
type Repository struct {
	db  *gorm.DB
	now func() time.Time
}

type Option func(*Repository)

// WithClock replaces the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		r.now = now
	}
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB, opts ...Option) *Repository {
	r := &Repository{db: db, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ListNewestFirst returns every book, most recently created first.
func (r *Repository) ListNewestFirst(ctx context.Context) ([]entities.Book, error) {
	books := []entities.Book{}
	err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&books).Error
	if err != nil {
		return nil, unavailable("list books", err)
	}
	return books, nil
}

// GetByID retrieves a book by its ID.
func (r *Repository) GetByID(ctx context.Context, id uint) (*entities.Book, error) {
	var book entities.Book
	if err := r.db.WithContext(ctx).First(&book, id).Error; err != nil {
		return nil, translate("get book", err)
	}
	return &book, nil
}

// Insert stores a new book and returns it with its generated ID.
func (r *Repository) Insert(ctx context.Context, fields Fields) (*entities.Book, error) {
	now := r.now().UTC()
	book := &entities.Book{
		Title:         fields.Title,
		Author:        fields.Author,
		Genre:         fields.Genre,
		YearPublished: fields.YearPublished,
		Description:   fields.Description,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(book).Error
	})
	if err != nil {
		return nil, unavailable("insert book", err)
	}
	return book, nil
}

// Update overwrites the mutable fields of a book and refreshes UpdatedAt.
// CreatedAt is never written.
func (r *Repository) Update(ctx context.Context, id uint, fields Fields) (*entities.Book, error) {
	var book entities.Book

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.lockForUpdate(tx).First(&book, id).Error; err != nil {
			return err
		}

		updatedAt := r.now().UTC()
		if updatedAt.Before(book.CreatedAt) {
			updatedAt = book.CreatedAt
		}

		changes := map[string]any{
			"title":          fields.Title,
			"author":         fields.Author,
			"genre":          fields.Genre,
			"year_published": fields.YearPublished,
			"description":    fields.Description,
			"updated_at":     updatedAt,
		}
		if err := tx.Model(&book).Updates(changes).Error; err != nil {
			return err
		}

		book.Title = fields.Title
		book.Author = fields.Author
		book.Genre = fields.Genre
		book.YearPublished = fields.YearPublished
		book.Description = fields.Description
		book.UpdatedAt = updatedAt
		return nil
	})
	if err != nil {
		return nil, translate("update book", err)
	}
	return &book, nil
}

// Delete permanently removes a book and returns the removed record.
func (r *Repository) Delete(ctx context.Context, id uint) (*entities.Book, error) {
	var book entities.Book

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.lockForUpdate(tx).First(&book, id).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.Book{}, id).Error
	})
	if err != nil {
		return nil, translate("delete book", err)
	}
	return &book, nil
}

// Count returns the number of stored books.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.Book{}).Count(&count).Error; err != nil {
		return 0, unavailable("count books", err)
	}
	return count, nil
}

// lockForUpdate takes a row lock on databases that support it.
// SQLite serializes writers on its own and rejects FOR UPDATE.
func (r *Repository) lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func translate(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return unavailable(op, err)
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}
