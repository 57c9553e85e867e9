package services

import (
	"context"

	"github.com/mrlokans/booktracker/internal/database/books"
	"github.com/mrlokans/booktracker/internal/entities"
)

// BookStore is the persistence contract the service delegates to.
// Implemented by books.Repository.
type BookStore interface {
	ListNewestFirst(ctx context.Context) ([]entities.Book, error)
	GetByID(ctx context.Context, id uint) (*entities.Book, error)
	Insert(ctx context.Context, fields books.Fields) (*entities.Book, error)
	Update(ctx context.Context, id uint, fields books.Fields) (*entities.Book, error)
	Delete(ctx context.Context, id uint) (*entities.Book, error)
	Count(ctx context.Context) (int64, error)
}

