package http

import (
	"context"
	"mime/multipart"

	"github.com/mrlokans/bookshelf/internal/covers"
	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// BookStore is everything the book pages need from persistence.
// *books.Repository satisfies it.
type BookStore interface {
	ListBooks(ctx context.Context, params books.ListParams) (*books.Page, error)
	GetCategories(ctx context.Context) ([]string, error)
	GetBookByID(ctx context.Context, id uint) (*entities.Book, error)
	CreateBook(ctx context.Context, book *entities.Book) error
	UpdateBook(ctx context.Context, id uint, book *entities.Book) error
	DeleteBook(ctx context.Context, id uint) error
}

// CoverUploader stores an uploaded cover file. *covers.Uploader satisfies it.
type CoverUploader interface {
	Store(ctx context.Context, fh *multipart.FileHeader) (*covers.Upload, error)
}

var (
	_ BookStore     = (*books.Repository)(nil)
	_ CoverUploader = (*covers.Uploader)(nil)
)
