package http

import (
	"strconv"
	"strings"
	"time"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// bookForm is the multipart payload of the add and edit forms.
type bookForm struct {
	Title         string `form:"title" binding:"required"`
	Author        string `form:"author" binding:"required"`
	Rating        string `form:"rating"`
	Notes         string `form:"notes"`
	DateRead      string `form:"date_read"`
	CoverID       string `form:"cover_id"`
	Category      string `form:"category"`
	CategoryOther string `form:"category_other"`
}

// formError carries the notice shown for a rejected submission.
type formError struct {
	msg string
}

func (e *formError) Error() string {
	return e.msg
}

// toBook validates the form and converts it into a book without a cover
// upload applied.
func (f bookForm) toBook() (*entities.Book, error) {
	title := strings.TrimSpace(f.Title)
	author := strings.TrimSpace(f.Author)
	if title == "" || author == "" {
		return nil, &formError{msg: MsgTitleAuthorEmpty}
	}

	rating, err := parseRating(f.Rating)
	if err != nil {
		return nil, &formError{msg: MsgInvalidBook}
	}

	var dateRead time.Time
	if s := strings.TrimSpace(f.DateRead); s != "" {
		dateRead, err = time.Parse(entities.DateLayout, s)
		if err != nil {
			return nil, &formError{msg: MsgInvalidBook}
		}
	}

	return &entities.Book{
		Title:         title,
		Author:        author,
		Rating:        rating,
		Notes:         f.Notes,
		DateRead:      dateRead,
		CoverID:       strings.TrimSpace(f.CoverID),
		Category:      resolveCategory(f.Category, f.CategoryOther),
	}, nil
}

// parseRating accepts an empty value as 0 and rejects negatives.
func parseRating(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	rating, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if rating < 0 {
		return 0, strconv.ErrRange
	}
	return rating, nil
}

// resolveCategory applies the "Other" free-text override. An empty
// selection stores no category.
func resolveCategory(category, other string) *string {
	category = strings.TrimSpace(category)
	if category == config.CategoryOther {
		if override := strings.TrimSpace(other); override != "" {
			category = override
		}
	}
	if category == "" {
		return nil
	}
	return &category
}
