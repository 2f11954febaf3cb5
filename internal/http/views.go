package http

import (
	"html/template"
	"net/url"
	"path/filepath"
	"slices"
	"strconv"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/covers"
	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/session"
	"github.com/mrlokans/bookshelf/web"
)

// layout carries what every page renders around its content.
type layout struct {
	Title      string
	SearchTerm string
	Flashes    session.Flashes
	CSRFField  template.HTML
}

type indexView struct {
	layout
	Books        []entities.Book
	Sort         string
	FilterRating int
	Category     string
	Categories   []string
	Pagination   pagination
}

type formView struct {
	layout
	Book   *entities.Book
	Action string
	Submit string
}

type bookView struct {
	layout
	Book *entities.Book
}

type pageLink struct {
	Number  int
	URL     string
	Current bool
}

type pagination struct {
	TotalPages int
	Prev       string
	Next       string
	First      string
	Links      []pageLink
	// PastEnd is set when the requested page lies beyond the last one.
	PastEnd bool
}

// newPagination builds page links that keep the current query parameters.
func newPagination(path string, query url.Values, page *books.Page) pagination {
	p := pagination{TotalPages: page.TotalPages}

	link := func(n int) string {
		q := url.Values{}
		for k, v := range query {
			q[k] = v
		}
		q.Set("page", strconv.Itoa(n))
		return path + "?" + q.Encode()
	}

	p.PastEnd = page.TotalPages > 0 && page.CurrentPage > page.TotalPages
	if p.PastEnd {
		p.First = link(1)
	}
	if page.TotalPages <= 1 {
		return p
	}

	for n := 1; n <= page.TotalPages; n++ {
		p.Links = append(p.Links, pageLink{Number: n, URL: link(n), Current: n == page.CurrentPage})
	}
	if page.HasPrev() {
		p.Prev = link(min(page.CurrentPage-1, page.TotalPages))
	}
	if page.HasNext() {
		p.Next = link(page.CurrentPage + 1)
	}
	return p
}

func newIndexView(params books.ListParams, page *books.Page, categories []string) indexView {
	view := indexView{
		layout:       layout{SearchTerm: params.Search},
		Sort:         string(params.Sort),
		FilterRating: params.MinRating,
		Category:     params.Category,
		Categories:   categories,
	}
	if page == nil {
		return view
	}
	view.Books = page.Books

	path, query := "/", url.Values{}
	if params.Search != "" {
		path = "/search"
		query.Set("q", params.Search)
	}
	if params.Sort != books.SortByDate {
		query.Set("sort", string(params.Sort))
	}
	if params.MinRating > 0 {
		query.Set("filterRating", strconv.Itoa(params.MinRating))
	}
	if params.Category != "" {
		query.Set("category", params.Category)
	}
	view.Pagination = newPagination(path, query, page)
	return view
}

// ratingOptions are the thresholds offered by the rating filter.
var ratingOptions = []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"ratingOptions":   func() []int { return ratingOptions },
		"categoryPresets": func() []string { return config.BookCategories },
		"isPresetCategory": func(category string) bool {
			return slices.Contains(config.BookCategories, category)
		},
		"truncate":         truncate,
		"coverPlaceholder": coverPlaceholder,
	}
}

// coverPlaceholder renders a stored BlurHash as an inline image, or nothing
// for covers without one.
func coverPlaceholder(hash string) template.URL {
	if hash == "" {
		return ""
	}
	uri, err := covers.Placeholder(hash)
	if err != nil {
		log.Warn().Err(err).Str("blurhash", hash).Msg("Skipping cover placeholder")
		return ""
	}
	return template.URL(uri)
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "…"
}

// loadTemplates parses templates from dir, or the embedded set when dir is empty.
func loadTemplates(dir string) (*template.Template, error) {
	tmpl := template.New("").Funcs(templateFuncs())
	if dir != "" {
		return tmpl.ParseGlob(filepath.Join(dir, "*.html"))
	}
	return tmpl.ParseFS(web.Templates(), "*.html")
}
