// Command generate_demo creates a demo database with a shelf of public domain books.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db]
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/entities"
)

const defaultDemoDatabasePath = "./demo/demo.db"

type demoBook struct {
	Title    string
	Author   string
	Rating   int
	Category string
	DateRead string
	Notes    string
}

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	log.Printf("Generating demo database at %s...", *dbPath)

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(*dbPath), 0o755); err != nil {
		log.Fatalf("Failed to create demo directory: %v", err)
	}

	db, err := database.NewSQLiteDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	repo := books.NewRepository(db.DB)
	ctx := context.Background()

	saved := 0
	for _, demo := range getPublicDomainBooks() {
		book, err := demo.toEntity()
		if err != nil {
			log.Printf("Skipping %s: %v", demo.Title, err)
			continue
		}
		if err := repo.CreateBook(ctx, book); err != nil {
			log.Printf("Failed to save book %s: %v", demo.Title, err)
			continue
		}
		saved++
		log.Printf("Saved: %s by %s", book.Title, book.Author)
	}

	log.Printf("Demo database generated successfully with %d books!", saved)
}

func (d demoBook) toEntity() (*entities.Book, error) {
	dateRead, err := time.Parse(entities.DateLayout, d.DateRead)
	if err != nil {
		return nil, err
	}
	book := &entities.Book{
		Title:    d.Title,
		Author:   d.Author,
		Rating:   d.Rating,
		DateRead: dateRead,
		Notes:    d.Notes,
	}
	if d.Category != "" {
		category := d.Category
		book.Category = &category
	}
	return book, nil
}

// Fourteen books fill the first page and spill onto a second one.
func getPublicDomainBooks() []demoBook {
	return []demoBook{
		{
			Title:    "Meditations",
			Author:   "Marcus Aurelius",
			Rating:   10,
			Category: "Philosophy",
			DateRead: "2024-01-14",
			Notes:    "You have power over your mind, not outside events. Realize this, and you will find strength.",
		},
		{
			Title:    "Pride and Prejudice",
			Author:   "Jane Austen",
			Rating:   9,
			Category: "Fiction",
			DateRead: "2024-02-03",
			Notes:    "Sharper and funnier than I remembered. Mr. Collins steals every scene he is in.",
		},
		{
			Title:    "On the Origin of Species",
			Author:   "Charles Darwin",
			Rating:   8,
			Category: "Science",
			DateRead: "2024-03-22",
			Notes:    "Slow going in the middle chapters, but the closing paragraph is worth the whole book.",
		},
		{
			Title:    "The Art of War",
			Author:   "Sun Tzu",
			Rating:   7,
			Category: "Philosophy",
			DateRead: "2024-04-10",
			Notes:    "Short enough to read in one sitting. Supreme excellence is breaking resistance without fighting.",
		},
		{
			Title:    "Frankenstein",
			Author:   "Mary Shelley",
			Rating:   9,
			Category: "Fiction",
			DateRead: "2024-05-01",
			Notes:    "The creature is far more eloquent than the films suggest.",
		},
		{
			Title:    "The Autobiography of Benjamin Franklin",
			Author:   "Benjamin Franklin",
			Rating:   7,
			Category: "Biography",
			DateRead: "2024-05-28",
			Notes:    "The thirteen virtues chart is still a useful habit tracker.",
		},
		{
			Title:    "The History of the Peloponnesian War",
			Author:   "Thucydides",
			Rating:   8,
			Category: "History",
			DateRead: "2024-06-19",
			Notes:    "The Melian dialogue alone justifies the read.",
		},
		{
			Title:    "Walden",
			Author:   "Henry David Thoreau",
			Rating:   6,
			Category: "Philosophy",
			DateRead: "2024-07-07",
			Notes:    "Beautiful passages about the pond, a lot of lecturing in between.",
		},
		{
			Title:    "The Adventures of Sherlock Holmes",
			Author:   "Arthur Conan Doyle",
			Rating:   9,
			Category: "Fiction",
			DateRead: "2024-08-15",
			Notes:    "A Scandal in Bohemia and The Red-Headed League are the highlights.",
		},
		{
			Title:    "Self-Help",
			Author:   "Samuel Smiles",
			Rating:   5,
			Category: "Self-Help",
			DateRead: "2024-09-02",
			Notes:    "The book that named a genre. Heavy on Victorian anecdotes.",
		},
		{
			Title:    "The Time Machine",
			Author:   "H. G. Wells",
			Rating:   8,
			Category: "Science Fiction",
			DateRead: "2024-10-11",
			Notes:    "Custom category. The Eloi and Morlocks still land as social commentary.",
		},
		{
			Title:    "Relativity: The Special and General Theory",
			Author:   "Albert Einstein",
			Rating:   7,
			Category: "Science",
			DateRead: "2024-11-20",
			Notes:    "Written for a general audience and mostly succeeds at it.",
		},
		{
			Title:    "The Odyssey",
			Author:   "Homer",
			Rating:   10,
			Category: "Fantasy",
			DateRead: "2025-01-05",
			Notes:    "Read the Butler prose translation this time.",
		},
		{
			Title:    "Leaves of Grass",
			Author:   "Walt Whitman",
			Rating:   6,
			DateRead: "2025-02-16",
			Notes:    "No category on purpose, to show uncategorized books in the listing.",
		},
	}
}
