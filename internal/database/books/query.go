package books

import (
	"strings"

	"gorm.io/gorm"
)

// PageSize is the fixed number of books per listing page.
const PageSize = 10

type SortKey string

const (
	SortByDate   SortKey = "date"
	SortByRating SortKey = "rating"
	SortByTitle  SortKey = "title"
)

// ParseSortKey accepts the ?sort= value; anything unknown falls back to date.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortByRating:
		return SortByRating
	case SortByTitle:
		return SortByTitle
	default:
		return SortByDate
	}
}

// OrderBy returns the ORDER BY expression. id breaks ties so pages never overlap.
func (k SortKey) OrderBy() string {
	switch k {
	case SortByRating:
		return "rating DESC, id ASC"
	case SortByTitle:
		return "title ASC, id ASC"
	default:
		return "date_read DESC, id DESC"
	}
}

// Predicate is one WHERE condition together with its bind values.
type Predicate struct {
	SQL  string
	Args []any
}

// Filter is an ordered list of predicates joined with AND.
// The same Filter feeds the count and the data statement, so both
// always bind the same values in the same order.
type Filter struct {
	predicates []Predicate
}

func NewFilter() *Filter {
	return &Filter{}
}

func (f *Filter) add(sql string, args ...any) *Filter {
	f.predicates = append(f.predicates, Predicate{SQL: sql, Args: args})
	return f
}

// MinRating keeps books rated at least r. Non-positive values are ignored.
func (f *Filter) MinRating(r int) *Filter {
	if r <= 0 {
		return f
	}
	return f.add("rating >= ?", r)
}

// Category keeps books whose category matches exactly.
func (f *Filter) Category(c string) *Filter {
	if c == "" {
		return f
	}
	return f.add("category = ?", c)
}

// Search keeps books whose title or author contains term, ignoring case.
func (f *Filter) Search(term string) *Filter {
	if term == "" {
		return f
	}
	// The term is folded here; the columns rely on a Unicode aware LOWER.
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	return f.add(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(author) LIKE ? ESCAPE '\')`, pattern, pattern)
}

func (f *Filter) Empty() bool {
	return len(f.predicates) == 0
}

// Where renders the conjunction with "?" placeholders and the flattened binds.
func (f *Filter) Where() (string, []any) {
	if f.Empty() {
		return "", nil
	}
	parts := make([]string, 0, len(f.predicates))
	var args []any
	for _, p := range f.predicates {
		parts = append(parts, p.SQL)
		args = append(args, p.Args...)
	}
	return strings.Join(parts, " AND "), args
}

// Scope applies the filter to a gorm query.
func (f *Filter) Scope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		where, args := f.Where()
		if where == "" {
			return db
		}
		return db.Where(where, args...)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// ListParams are the view parameters of the listing and search pages.
type ListParams struct {
	Sort      SortKey
	MinRating int
	Category  string
	Search    string
	Page      int
}

// Normalize clamps the page to 1 and resolves an unknown sort key.
func (p ListParams) Normalize() ListParams {
	if p.Page < 1 {
		p.Page = 1
	}
	p.Sort = ParseSortKey(string(p.Sort))
	p.Search = strings.TrimSpace(p.Search)
	return p
}

// Filter builds the predicates in a fixed order: rating, category, search.
func (p ListParams) Filter() *Filter {
	return NewFilter().
		MinRating(p.MinRating).
		Category(p.Category).
		Search(p.Search)
}

// Filtered reports whether any predicate narrows the listing.
func (p ListParams) Filtered() bool {
	return !p.Filter().Empty()
}

func (p ListParams) Offset() int {
	return Offset(p.Page, PageSize)
}

// Offset is (page-1)*limit with page clamped to 1.
func Offset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}

// TotalPages is ceil(count/limit).
func TotalPages(count int64, limit int) int {
	if count <= 0 || limit <= 0 {
		return 0
	}
	return int((count + int64(limit) - 1) / int64(limit))
}
