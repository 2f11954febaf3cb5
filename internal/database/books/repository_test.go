package books

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/entities"
)

func setupTestRepo(t *testing.T) (*Repository, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(database.SQLiteDialector(filepath.Join(t.TempDir(), "books.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.Book{}))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return NewRepository(db), db
}

// countQueries counts SELECT statements issued through gorm.
func countQueries(t *testing.T, db *gorm.DB) *int {
	t.Helper()
	n := 0
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("test:count_queries", func(*gorm.DB) {
		n++
	}))
	return &n
}

func strPtr(s string) *string { return &s }

func day(n int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func seedBook(t *testing.T, repo *Repository, book entities.Book) *entities.Book {
	t.Helper()
	require.NoError(t, repo.CreateBook(context.Background(), &book))
	return &book
}

// seedElevenBooks inserts ratings 1..11 with distinct titles and dates.
func seedElevenBooks(t *testing.T, repo *Repository) {
	t.Helper()
	for i := 1; i <= 11; i++ {
		seedBook(t, repo, entities.Book{
			Title:    fmt.Sprintf("Book %02d", 12-i),
			Author:   fmt.Sprintf("Author %d", i),
			Rating:   i,
			DateRead: day(i),
		})
	}
}

func TestListBooks_Pagination(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupTestRepo(t)
	seedElevenBooks(t, repo)

	page1, err := repo.ListBooks(ctx, ListParams{Sort: SortByRating, Page: 1})
	require.NoError(t, err)
	assert.Len(t, page1.Books, 10)
	assert.Equal(t, int64(11), page1.Total)
	assert.Equal(t, 2, page1.TotalPages)
	assert.Equal(t, 1, page1.CurrentPage)
	assert.False(t, page1.HasPrev())
	assert.True(t, page1.HasNext())
	assert.Equal(t, 11, page1.Books[0].Rating)
	assert.Equal(t, 2, page1.Books[9].Rating)

	page2, err := repo.ListBooks(ctx, ListParams{Sort: SortByRating, Page: 2})
	require.NoError(t, err)
	require.Len(t, page2.Books, 1)
	assert.Equal(t, 1, page2.Books[0].Rating)
	assert.Equal(t, 2, page2.TotalPages)
	assert.True(t, page2.HasPrev())
	assert.False(t, page2.HasNext())
}

func TestListBooks_PageBeyondEndIsEmpty(t *testing.T) {
	repo, _ := setupTestRepo(t)
	seedElevenBooks(t, repo)

	page, err := repo.ListBooks(context.Background(), ListParams{Page: 5})
	require.NoError(t, err)
	assert.Empty(t, page.Books)
	assert.Equal(t, 2, page.TotalPages)
}

func TestListBooks_SortOrders(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupTestRepo(t)
	seedElevenBooks(t, repo)

	t.Run("rating is non-increasing", func(t *testing.T) {
		page, err := repo.ListBooks(ctx, ListParams{Sort: SortByRating})
		require.NoError(t, err)
		for i := 1; i < len(page.Books); i++ {
			assert.GreaterOrEqual(t, page.Books[i-1].Rating, page.Books[i].Rating)
		}
	})

	t.Run("title is non-decreasing", func(t *testing.T) {
		page, err := repo.ListBooks(ctx, ListParams{Sort: SortByTitle})
		require.NoError(t, err)
		titles := make([]string, 0, len(page.Books))
		for _, b := range page.Books {
			titles = append(titles, b.Title)
		}
		assert.True(t, sort.StringsAreSorted(titles), titles)
		assert.Equal(t, "Book 01", titles[0])
	})

	t.Run("date is non-increasing and the default", func(t *testing.T) {
		for _, key := range []SortKey{SortByDate, "", "unknown"} {
			page, err := repo.ListBooks(ctx, ListParams{Sort: key})
			require.NoError(t, err)
			for i := 1; i < len(page.Books); i++ {
				assert.False(t, page.Books[i-1].DateRead.Before(page.Books[i].DateRead))
			}
			assert.Equal(t, day(11).Format(entities.DateLayout), page.Books[0].DateReadString())
		}
	})
}

func TestListBooks_Filters(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupTestRepo(t)

	seedBook(t, repo, entities.Book{Title: "Dune", Author: "Frank Herbert", Rating: 9, Category: strPtr("Fiction"), DateRead: day(1)})
	seedBook(t, repo, entities.Book{Title: "Sapiens", Author: "Yuval Noah Harari", Rating: 7, Category: strPtr("History"), DateRead: day(2)})
	seedBook(t, repo, entities.Book{Title: "Emma", Author: "Jane Austen", Rating: 5, Category: strPtr("Fiction"), DateRead: day(3)})
	seedBook(t, repo, entities.Book{Title: "Untitled", Author: "Anon", Rating: 8, DateRead: day(4)})

	t.Run("rating threshold is inclusive", func(t *testing.T) {
		page, err := repo.ListBooks(ctx, ListParams{MinRating: 7})
		require.NoError(t, err)
		assert.Equal(t, int64(3), page.Total)
		for _, b := range page.Books {
			assert.GreaterOrEqual(t, b.Rating, 7)
		}
	})

	t.Run("category is an exact match", func(t *testing.T) {
		page, err := repo.ListBooks(ctx, ListParams{Category: "Fiction"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.Total)
		for _, b := range page.Books {
			assert.Equal(t, "Fiction", b.CategoryName())
		}

		_, err = repo.ListBooks(ctx, ListParams{Category: "fiction"})
		assert.ErrorIs(t, err, ErrNoResults)
	})

	t.Run("rating and category intersect", func(t *testing.T) {
		page, err := repo.ListBooks(ctx, ListParams{MinRating: 6, Category: "Fiction"})
		require.NoError(t, err)
		require.Len(t, page.Books, 1)
		assert.Equal(t, "Dune", page.Books[0].Title)
	})

	t.Run("search matches title or author ignoring case", func(t *testing.T) {
		page, err := repo.ListBooks(ctx, ListParams{Search: "AUSTEN"})
		require.NoError(t, err)
		require.Len(t, page.Books, 1)
		assert.Equal(t, "Emma", page.Books[0].Title)

		page, err = repo.ListBooks(ctx, ListParams{Search: "un"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.Total) // "Dune", "Untitled"
	})

	t.Run("search treats wildcards literally", func(t *testing.T) {
		_, err := repo.ListBooks(ctx, ListParams{Search: "%"})
		assert.ErrorIs(t, err, ErrNoResults)
	})
}

func TestListBooks_SearchFoldsNonASCII(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupTestRepo(t)
	seedBook(t, repo, entities.Book{Title: "Über die Freiheit", Author: "John Stuart Mill", DateRead: day(1)})
	seedBook(t, repo, entities.Book{Title: "Germinal", Author: "Émile Zola", DateRead: day(2)})

	for term, want := range map[string]string{
		"über":     "Über die Freiheit",
		"ÜBER":     "Über die Freiheit",
		"émile":    "Germinal",
		"ÉMILE":    "Germinal",
		"FREIHEIT": "Über die Freiheit",
	} {
		page, err := repo.ListBooks(ctx, ListParams{Search: term})
		require.NoError(t, err, term)
		require.Len(t, page.Books, 1, term)
		assert.Equal(t, want, page.Books[0].Title, term)
	}
}

func TestListBooks_NoResultsSkipsDataQuery(t *testing.T) {
	repo, db := setupTestRepo(t)
	seedBook(t, repo, entities.Book{Title: "Dune", Author: "Frank Herbert", Rating: 9})

	queries := countQueries(t, db)

	page, err := repo.ListBooks(context.Background(), ListParams{Search: "nonexistent"})
	assert.ErrorIs(t, err, ErrNoResults)
	assert.Nil(t, page)
	assert.Equal(t, 1, *queries, "only the count query should run")

	*queries = 0
	_, err = repo.ListBooks(context.Background(), ListParams{Search: "dune"})
	require.NoError(t, err)
	assert.Equal(t, 2, *queries)
}

func TestListBooks_EmptyTable(t *testing.T) {
	repo, _ := setupTestRepo(t)

	_, err := repo.ListBooks(context.Background(), ListParams{})
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestGetCategories(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupTestRepo(t)

	seedBook(t, repo, entities.Book{Title: "A", Author: "X", Category: strPtr("History")})
	seedBook(t, repo, entities.Book{Title: "B", Author: "X", Category: strPtr("Fiction")})
	seedBook(t, repo, entities.Book{Title: "C", Author: "X", Category: strPtr("Fiction")})
	seedBook(t, repo, entities.Book{Title: "D", Author: "X"})
	seedBook(t, repo, entities.Book{Title: "E", Author: "X", Category: strPtr("")})

	categories, err := repo.GetCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Fiction", "History"}, categories)
}

func TestGetBookByID(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupTestRepo(t)
	created := seedBook(t, repo, entities.Book{Title: "Dune", Author: "Frank Herbert", Rating: 9, DateRead: day(5)})

	book, err := repo.GetBookByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", book.Title)
	assert.Equal(t, day(5).Format(entities.DateLayout), book.DateReadString())

	_, err = repo.GetBookByID(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateBook_AssignsFreshIDs(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupTestRepo(t)

	first := seedBook(t, repo, entities.Book{Title: "A", Author: "X"})
	require.NoError(t, repo.DeleteBook(ctx, first.ID))
	second := seedBook(t, repo, entities.Book{Title: "B", Author: "Y"})

	assert.NotZero(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestUpdateBook_OverwritesAllFields(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupTestRepo(t)
	created := seedBook(t, repo, entities.Book{
		Title:    "Old",
		Author:   "Someone",
		Rating:   3,
		Notes:    "meh",
		CoverID:  "/uploads/old.jpg",
		Category: strPtr("Fiction"),
		DateRead: day(1),
	})

	err := repo.UpdateBook(ctx, created.ID, &entities.Book{
		Title:    "New",
		Author:   "Someone Else",
		Rating:   0,
		Notes:    "",
		CoverID:  "12345",
		Category: nil,
		DateRead: day(9),
	})
	require.NoError(t, err)

	book, err := repo.GetBookByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", book.Title)
	assert.Equal(t, "Someone Else", book.Author)
	assert.Equal(t, 0, book.Rating)
	assert.Equal(t, "", book.Notes)
	assert.Equal(t, "12345", book.CoverID)
	assert.Nil(t, book.Category)
	assert.Equal(t, day(9).Format(entities.DateLayout), book.DateReadString())
}

func TestUpdateBook_MissingID(t *testing.T) {
	repo, _ := setupTestRepo(t)

	err := repo.UpdateBook(context.Background(), 42, &entities.Book{Title: "X", Author: "Y"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteBook_Idempotent(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupTestRepo(t)
	created := seedBook(t, repo, entities.Book{Title: "A", Author: "X"})

	require.NoError(t, repo.DeleteBook(ctx, created.ID))
	require.NoError(t, repo.DeleteBook(ctx, created.ID))
	require.NoError(t, repo.DeleteBook(ctx, 12345))

	_, err := repo.GetBookByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
