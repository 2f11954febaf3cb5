// Package database provides the data access layer for the application.
//
// # Architecture
//
//	database/
//	├── database.go      # Connection setup (sqlite or postgres) and migrations
//	└── books/           # Book listing, search, pagination and CRUD
//
// # Usage
//
//	db, err := database.NewDatabase(cfg.Database)
//	repo := books.NewRepository(db.DB)
//
//	page, err := repo.ListBooks(ctx, books.ListParams{Sort: books.SortByRating, Page: 2})
//
// The sqlite driver is the default and is what the tests run against.
// Postgres is selected with DATABASE_DRIVER=postgres and DATABASE_URL.
package database
