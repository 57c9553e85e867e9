package entities

import (
	"fmt"
	"time"
)

// Column limits for the books table. The service layer enforces them so
// SQLite (which ignores varchar sizes) behaves like PostgreSQL.
const (
	MaxTitleLength  = 200
	MaxAuthorLength = 100
	MaxGenreLength  = 50
)

// Book is a single catalogued book. Records are hard-deleted.
type Book struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"size:200;not null" json:"title"`
	Author        string    `gorm:"size:100;not null" json:"author"`
	Genre         string    `gorm:"size:50;not null" json:"genre"`
	YearPublished int       `gorm:"not null" json:"year_published"`
	Description   *string   `gorm:"type:text" json:"description"`
	CreatedAt     time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`
}

func (Book) TableName() string {
	return "books"
}

func (b Book) String() string {
	return fmt.Sprintf("<Book %s by %s>", b.Title, b.Author)
}

// DescriptionText returns the description or an empty string when absent.
func (b Book) DescriptionText() string {
	if b.Description == nil {
		return ""
	}
	return *b.Description
}
