package http

import (
	"strconv"

	"github.com/mrlokans/booktracker/internal/entities"
	"github.com/mrlokans/booktracker/internal/services"
)

const viewTimeFormat = "2006-01-02 15:04:05"

// BookView is the JSON projection of a book.
type BookView struct {
	ID            uint    `json:"id"`
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	Genre         string  `json:"genre"`
	YearPublished int     `json:"year_published"`
	Description   *string `json:"description"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

// NewBookView projects a book for API responses.
func NewBookView(b entities.Book) BookView {
	return BookView{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		Genre:         b.Genre,
		YearPublished: b.YearPublished,
		Description:   b.Description,
		CreatedAt:     b.CreatedAt.Format(viewTimeFormat),
		UpdatedAt:     b.UpdatedAt.Format(viewTimeFormat),
	}
}

// bookForm holds the values shown in the add and edit forms.
type bookForm struct {
	Title         string
	Author        string
	Genre         string
	YearPublished string
	Description   string
}

func formFromInput(in services.BookInput) bookForm {
	return bookForm{
		Title:         in.Title,
		Author:        in.Author,
		Genre:         in.Genre,
		YearPublished: in.YearPublished,
		Description:   in.Description,
	}
}

func formFromBook(b *entities.Book) bookForm {
	return bookForm{
		Title:         b.Title,
		Author:        b.Author,
		Genre:         b.Genre,
		YearPublished: strconv.Itoa(b.YearPublished),
		Description:   b.DescriptionText(),
	}
}
