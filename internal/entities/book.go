package entities

import (
	"strings"
	"time"
)

// DateLayout is the format of date_read in forms and templates.
const DateLayout = "2006-01-02"

// openLibraryCoverURL resolves bare cover ids against the Open Library covers API.
const openLibraryCoverURL = "https://covers.openlibrary.org/b/id/%s-M.jpg"

type Book struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"not null;size:512" json:"title"`
	Author        string    `gorm:"not null;size:256" json:"author"`
	Rating        int       `gorm:"index" json:"rating"`
	Notes         string    `gorm:"type:text" json:"notes,omitempty"`
	DateRead      time.Time `gorm:"type:date;index" json:"date_read"`
	CoverID       string    `gorm:"size:2048" json:"cover_id,omitempty"`
	CoverBlurHash string    `gorm:"column:cover_blurhash;size:64" json:"cover_blurhash,omitempty"`
	Category      *string   `gorm:"index;size:100" json:"category,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Book) TableName() string {
	return "books"
}

// CategoryName returns the category or an empty string when unset.
func (b *Book) CategoryName() string {
	if b.Category == nil {
		return ""
	}
	return *b.Category
}

// DateReadString formats DateRead for date inputs; zero dates render empty.
func (b *Book) DateReadString() string {
	if b.DateRead.IsZero() {
		return ""
	}
	return b.DateRead.Format(DateLayout)
}

// CoverURL turns the stored cover reference into something an <img> can load.
// Uploaded paths and absolute URLs pass through, anything else is treated
// as an Open Library cover id.
func (b *Book) CoverURL() string {
	ref := strings.TrimSpace(b.CoverID)
	switch {
	case ref == "":
		return ""
	case strings.HasPrefix(ref, "/"),
		strings.HasPrefix(ref, "http://"),
		strings.HasPrefix(ref, "https://"):
		return ref
	default:
		return strings.Replace(openLibraryCoverURL, "%s", ref, 1)
	}
}
