// Package books provides database operations for the books table.
//
// The listing, search and filter pages all go through ListBooks, which
// counts matching rows before fetching a page of them.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	page, err := repo.ListBooks(ctx, books.ListParams{MinRating: 4, Page: 1})
//	if errors.Is(err, books.ErrNoResults) {
//		// nothing matched, the data query was never run
//	}
package books

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/entities"
)

var (
	// ErrNotFound is returned when no book has the requested id.
	ErrNotFound = errors.New("book not found")

	// ErrNoResults is returned by ListBooks when the count query matched nothing.
	ErrNoResults = errors.New("no books matched")
)

// Page is one page of a listing plus the metadata needed to render pagination.
type Page struct {
	Books       []entities.Book
	Total       int64
	TotalPages  int
	CurrentPage int
	PageSize    int
}

func (p *Page) HasPrev() bool {
	return p.CurrentPage > 1
}

func (p *Page) HasNext() bool {
	return p.CurrentPage < p.TotalPages
}

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListBooks counts the books matching params and, if any match, fetches the
// requested page ordered by the resolved sort key.
func (r *Repository) ListBooks(ctx context.Context, params ListParams) (*Page, error) {
	params = params.Normalize()
	filter := params.Filter()

	var total int64
	err := r.db.WithContext(ctx).
		Model(&entities.Book{}).
		Scopes(filter.Scope()).
		Count(&total).Error
	if err != nil {
		return nil, fmt.Errorf("count books: %w", err)
	}
	if total == 0 {
		return nil, ErrNoResults
	}

	var books []entities.Book
	err = r.db.WithContext(ctx).
		Scopes(filter.Scope()).
		Order(params.Sort.OrderBy()).
		Limit(PageSize).
		Offset(params.Offset()).
		Find(&books).Error
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	return &Page{
		Books:       books,
		Total:       total,
		TotalPages:  TotalPages(total, PageSize),
		CurrentPage: params.Page,
		PageSize:    PageSize,
	}, nil
}

// GetCategories returns the distinct categories in use, alphabetically.
func (r *Repository) GetCategories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).
		Model(&entities.Book{}).
		Where("category IS NOT NULL AND category <> ''").
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// GetBookByID retrieves a single book, returning ErrNotFound if it does not exist.
func (r *Repository) GetBookByID(ctx context.Context, id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.WithContext(ctx).First(&book, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get book %d: %w", id, err)
	}
	return &book, nil
}

// CreateBook inserts a new row; the assigned id is written back to book.ID.
func (r *Repository) CreateBook(ctx context.Context, book *entities.Book) error {
	book.ID = 0
	if err := r.db.WithContext(ctx).Create(book).Error; err != nil {
		return fmt.Errorf("create book: %w", err)
	}
	return nil
}

// UpdateBook overwrites every mutable column of the book with the given id.
func (r *Repository) UpdateBook(ctx context.Context, id uint, book *entities.Book) error {
	result := r.db.WithContext(ctx).
		Model(&entities.Book{}).
		Where("id = ?", id).
		Select("title", "author", "rating", "notes", "date_read", "cover_id", "cover_blurhash", "category").
		Updates(book)
	if result.Error != nil {
		return fmt.Errorf("update book %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	book.ID = id
	return nil
}

// DeleteBook hard deletes a book. Deleting a missing id is not an error.
func (r *Repository) DeleteBook(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&entities.Book{}, id).Error; err != nil {
		return fmt.Errorf("delete book %d: %w", id, err)
	}
	return nil
}
