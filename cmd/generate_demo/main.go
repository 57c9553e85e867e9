// Command generate_demo creates a demo database with a catalogue of public domain books.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db]
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"gorm.io/gorm/logger"

	"github.com/mrlokans/booktracker/internal/database"
	"github.com/mrlokans/booktracker/internal/database/books"
	"github.com/mrlokans/booktracker/internal/services"
)

const defaultDemoDatabasePath = "./demo/demo.db"

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	log.Printf("Generating demo database at %s...", *dbPath)

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}

	db, err := database.NewDatabase(*dbPath, database.Options{LogLevel: logger.Silent})
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	// Going through the service applies the same validation as the web form.
	service := services.NewBookService(books.NewRepository(db.DB))
	ctx := context.Background()

	saved := 0
	for _, in := range publicDomainBooks() {
		book, err := service.Add(ctx, in)
		if err != nil {
			log.Printf("Failed to save book %s: %v", in.Title, err)
			continue
		}
		saved++
		log.Printf("Saved: %s", book)
	}

	log.Printf("Demo database generated successfully with %d books!", saved)
}

// publicDomainBooks is listed oldest first so the newest-first index shows
// the last entry at the top.
func publicDomainBooks() []services.BookInput {
	return []services.BookInput{
		{
			Title:         "Meditations",
			Author:        "Marcus Aurelius",
			Genre:         "Philosophy",
			YearPublished: "180",
			Description:   "Private notes on Stoic practice written by a Roman emperor.",
		},
		{
			Title:         "Pride and Prejudice",
			Author:        "Jane Austen",
			Genre:         "Novel",
			YearPublished: "1813",
			Description:   "Elizabeth Bennet and Mr Darcy misjudge each other.",
		},
		{
			Title:         "Frankenstein",
			Author:        "Mary Shelley",
			Genre:         "Gothic",
			YearPublished: "1818",
		},
		{
			Title:         "Walden",
			Author:        "Henry David Thoreau",
			Genre:         "Essays",
			YearPublished: "1854",
			Description:   "Two years in a cabin by Walden Pond.",
		},
		{
			Title:         "On the Origin of Species",
			Author:        "Charles Darwin",
			Genre:         "Science",
			YearPublished: "1859",
		},
		{
			Title:         "The Time Machine",
			Author:        "H. G. Wells",
			Genre:         "SciFi",
			YearPublished: "1895",
			Description:   "A traveller visits the year 802,701.",
		},
	}
}
