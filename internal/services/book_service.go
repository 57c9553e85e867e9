package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mrlokans/booktracker/internal/database/books"
	"github.com/mrlokans/booktracker/internal/entities"
)

// BookInput is the raw, untrimmed form submission for a book.
type BookInput struct {
	Title         string
	Author        string
	Genre         string
	YearPublished string
	Description   string
}

// BookService applies the cataloguing rules before anything reaches the store.
type BookService struct {
	store BookStore
	now   func() time.Time
}

// NewBookService creates a service backed by store.
func NewBookService(store BookStore) *BookService {
	return &BookService{store: store, now: time.Now}
}

// SetClock replaces the clock used to compute the current year.
func (s *BookService) SetClock(now func() time.Time) {
	s.now = now
}

// Validate trims and checks the input, returning store-ready fields or a
// *ValidationError.
func (s *BookService) Validate(in BookInput) (books.Fields, error) {
	title := strings.TrimSpace(in.Title)
	author := strings.TrimSpace(in.Author)
	genre := strings.TrimSpace(in.Genre)
	yearStr := strings.TrimSpace(in.YearPublished)
	description := strings.TrimSpace(in.Description)

	if title == "" || author == "" || genre == "" || yearStr == "" {
		return books.Fields{}, &ValidationError{Code: CodeMissingFields}
	}

	// SQLite ignores VARCHAR sizes, so column limits are enforced here
	// instead of surfacing as storage errors on PostgreSQL only.
	limits := []struct {
		name  string
		value string
		max   int
	}{
		{"Title", title, entities.MaxTitleLength},
		{"Author", author, entities.MaxAuthorLength},
		{"Genre", genre, entities.MaxGenreLength},
	}
	for _, l := range limits {
		if utf8.RuneCountInString(l.value) > l.max {
			return books.Fields{}, &ValidationError{Code: CodeFieldTooLong, Field: l.name, Limit: l.max}
		}
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil {
		// A well-formed integer too large for int is still a number.
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && numErr.Err == strconv.ErrRange {
			return books.Fields{}, &ValidationError{Code: CodeYearOutOfRange}
		}
		return books.Fields{}, &ValidationError{Code: CodeInvalidYearFormat}
	}
	if year < 0 || year > s.now().Year()+1 {
		return books.Fields{}, &ValidationError{Code: CodeYearOutOfRange}
	}

	fields := books.Fields{
		Title:         title,
		Author:        author,
		Genre:         genre,
		YearPublished: year,
	}
	if description != "" {
		fields.Description = &description
	}
	return fields, nil
}

// Add validates the input and stores a new book.
func (s *BookService) Add(ctx context.Context, in BookInput) (*entities.Book, error) {
	fields, err := s.Validate(in)
	if err != nil {
		return nil, err
	}
	book, err := s.store.Insert(ctx, fields)
	if err != nil {
		return nil, fmt.Errorf("add book: %w", err)
	}
	return book, nil
}

// Edit validates the input and overwrites the book with the given id.
func (s *BookService) Edit(ctx context.Context, id uint, in BookInput) (*entities.Book, error) {
	fields, err := s.Validate(in)
	if err != nil {
		return nil, err
	}
	book, err := s.store.Update(ctx, id, fields)
	if err != nil {
		return nil, fmt.Errorf("edit book %d: %w", id, err)
	}
	return book, nil
}

// List returns all books, newest first.
func (s *BookService) List(ctx context.Context) ([]entities.Book, error) {
	return s.store.ListNewestFirst(ctx)
}

// Get returns the book with the given id.
func (s *BookService) Get(ctx context.Context, id uint) (*entities.Book, error) {
	return s.store.GetByID(ctx, id)
}

// Delete permanently removes the book with the given id.
func (s *BookService) Delete(ctx context.Context, id uint) (*entities.Book, error) {
	book, err := s.store.Delete(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delete book %d: %w", id, err)
	}
	return book, nil
}

// Count returns the number of books.
func (s *BookService) Count(ctx context.Context) (int64, error) {
	return s.store.Count(ctx)
}
