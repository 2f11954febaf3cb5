package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/session"
)

// BooksController serves the server rendered book pages. Every failure
// ends in a flash notice and a redirect to the listing.
type BooksController struct {
	store    BookStore
	uploader CoverUploader
	sessions *session.Manager
}

func NewBooksController(store BookStore, uploader CoverUploader, sessions *session.Manager) *BooksController {
	return &BooksController{
		store:    store,
		uploader: uploader,
		sessions: sessions,
	}
}

// Index lists books with optional rating and category filters.
func (bc *BooksController) Index(c *gin.Context) {
	ctx := c.Request.Context()
	params := books.ListParams{
		Sort:      books.SortKey(c.Query("sort")),
		MinRating: queryInt(c, "filterRating"),
		Category:  strings.TrimSpace(c.Query("category")),
		Page:      queryInt(c, "page"),
	}.Normalize()

	page, err := bc.store.ListBooks(ctx, params)
	switch {
	case errors.Is(err, books.ErrNoResults):
		// Only a filtered listing bounces back; an empty shelf just renders.
		if params.Filtered() {
			bc.redirectWithFlash(c, session.FlashError, MsgNoFilterMatches, "/")
			return
		}
		page = nil
	case err != nil:
		bc.renderListingError(c, params, err)
		return
	}

	categories, err := bc.store.GetCategories(ctx)
	if err != nil {
		bc.renderListingError(c, params, err)
		return
	}

	view := newIndexView(params, page, categories)
	view.layout = bc.baseLayout(c, "")
	c.HTML(http.StatusOK, "index", view)
}

// renderListingError shows the listing page itself with the error notice,
// since redirecting "/" to "/" would loop.
func (bc *BooksController) renderListingError(c *gin.Context, params books.ListParams, err error) {
	log.Error().Err(err).Msg("Failed to load books")

	view := newIndexView(params, nil, nil)
	view.layout = withError(bc.baseLayout(c, ""), MsgLoadBooksError)
	c.HTML(http.StatusInternalServerError, "index", view)
}

// Search lists books whose title or author contains q, ignoring case.
func (bc *BooksController) Search(c *gin.Context) {
	ctx := c.Request.Context()
	term := strings.TrimSpace(c.Query("q"))
	if term == "" {
		redirect(c, "/")
		return
	}

	params := books.ListParams{
		Sort:   books.SortKey(c.Query("sort")),
		Search: term,
		Page:   queryInt(c, "page"),
	}.Normalize()

	page, err := bc.store.ListBooks(ctx, params)
	if errors.Is(err, books.ErrNoResults) {
		bc.redirectWithFlash(c, session.FlashError, noSearchMatches(term), "/")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("query", term).Msg("Failed to search books")
		bc.redirectWithFlash(c, session.FlashError, MsgSearchError, "/")
		return
	}

	categories, err := bc.store.GetCategories(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load categories")
		bc.redirectWithFlash(c, session.FlashError, MsgSearchError, "/")
		return
	}

	view := newIndexView(params, page, categories)
	view.layout = bc.baseLayout(c, "Search")
	view.SearchTerm = term
	c.HTML(http.StatusOK, "index", view)
}

// Show renders a single book with its notes.
func (bc *BooksController) Show(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		bc.redirectWithFlash(c, session.FlashError, MsgBookNotFound, "/")
		return
	}

	book, err := bc.store.GetBookByID(c.Request.Context(), id)
	if errors.Is(err, books.ErrNotFound) {
		bc.redirectWithFlash(c, session.FlashError, MsgBookNotFound, "/")
		return
	}
	if err != nil {
		log.Error().Err(err).Uint("book_id", id).Msg("Failed to load book")
		bc.redirectWithFlash(c, session.FlashError, MsgReviewError, "/")
		return
	}

	c.HTML(http.StatusOK, "book", bookView{
		layout: bc.baseLayout(c, book.Title),
		Book:   book,
	})
}

// New renders the empty add form.
func (bc *BooksController) New(c *gin.Context) {
	c.HTML(http.StatusOK, "add", formView{
		layout: bc.baseLayout(c, "Add a book"),
		Book:   &entities.Book{},
		Action: "/add",
		Submit: "Add book",
	})
}

// Create inserts a book from the add form.
func (bc *BooksController) Create(c *gin.Context) {
	book, ok := bc.bindBook(c)
	if !ok {
		return
	}

	if err := bc.store.CreateBook(c.Request.Context(), book); err != nil {
		log.Error().Err(err).Str("title", book.Title).Msg("Failed to add book")
		bc.redirectWithFlash(c, session.FlashError, MsgAddError, "/")
		return
	}

	log.Info().Uint("book_id", book.ID).Str("title", book.Title).Msg("Book added")
	bc.redirectWithFlash(c, session.FlashSuccess, MsgBookAdded, "/")
}

// Edit renders the edit form prefilled with the stored book.
func (bc *BooksController) Edit(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		bc.redirectWithFlash(c, session.FlashError, MsgBookNotFound, "/")
		return
	}

	book, err := bc.store.GetBookByID(c.Request.Context(), id)
	if errors.Is(err, books.ErrNotFound) {
		bc.redirectWithFlash(c, session.FlashError, MsgBookNotFound, "/")
		return
	}
	if err != nil {
		log.Error().Err(err).Uint("book_id", id).Msg("Failed to load book for editing")
		bc.redirectWithFlash(c, session.FlashError, MsgLoadBookErr, "/")
		return
	}

	c.HTML(http.StatusOK, "edit", formView{
		layout: bc.baseLayout(c, "Edit "+book.Title),
		Book:   book,
		Action: "/edit/" + c.Param("id"),
		Submit: "Save changes",
	})
}

// Update overwrites every editable field of the book.
func (bc *BooksController) Update(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseIDParam(c, "id")
	if !ok {
		bc.redirectWithFlash(c, session.FlashError, MsgBookNotFound, "/")
		return
	}

	stored, err := bc.store.GetBookByID(ctx, id)
	if errors.Is(err, books.ErrNotFound) {
		bc.redirectWithFlash(c, session.FlashError, MsgBookNotFound, "/")
		return
	}
	if err != nil {
		log.Error().Err(err).Uint("book_id", id).Msg("Failed to load book for update")
		bc.redirectWithFlash(c, session.FlashError, MsgUpdateError, "/")
		return
	}

	book, ok := bc.bindBook(c)
	if !ok {
		return
	}
	keepPlaceholder(book, stored)

	err = bc.store.UpdateBook(ctx, id, book)
	if errors.Is(err, books.ErrNotFound) {
		bc.redirectWithFlash(c, session.FlashError, MsgBookNotFound, "/")
		return
	}
	if err != nil {
		log.Error().Err(err).Uint("book_id", id).Msg("Failed to update book")
		bc.redirectWithFlash(c, session.FlashError, MsgUpdateError, "/")
		return
	}

	log.Info().Uint("book_id", id).Msg("Book updated")
	bc.redirectWithFlash(c, session.FlashSuccess, MsgBookUpdated, "/")
}

// keepPlaceholder carries the stored BlurHash over when the edit kept the
// same uploaded cover. A new upload brings its own hash; any other cover
// reference has none.
func keepPlaceholder(book, stored *entities.Book) {
	if book.CoverBlurHash == "" && book.CoverID != "" && book.CoverID == stored.CoverID {
		book.CoverBlurHash = stored.CoverBlurHash
	}
}

// Delete removes the book. Deleting an id that is already gone succeeds.
func (bc *BooksController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		bc.redirectWithFlash(c, session.FlashError, MsgBookNotFound, "/")
		return
	}

	if err := bc.store.DeleteBook(c.Request.Context(), id); err != nil {
		log.Error().Err(err).Uint("book_id", id).Msg("Failed to delete book")
		bc.redirectWithFlash(c, session.FlashError, MsgDeleteError, "/")
		return
	}

	log.Info().Uint("book_id", id).Msg("Book deleted")
	bc.redirectWithFlash(c, session.FlashSuccess, MsgBookDeleted, "/")
}

// bindBook parses the submitted form and applies an uploaded cover.
// On failure it has already flashed and redirected.
func (bc *BooksController) bindBook(c *gin.Context) (*entities.Book, bool) {
	var form bookForm
	// Required-field errors are reported by toBook with a friendlier notice.
	bindErr := c.ShouldBind(&form)

	book, err := form.toBook()
	if err == nil && bindErr != nil {
		err = &formError{msg: MsgInvalidBook}
	}
	if err != nil {
		log.Warn().Err(err).AnErr("bind_error", bindErr).Msg("Rejected book form")
		var fe *formError
		msg := MsgInvalidBook
		if errors.As(err, &fe) {
			msg = fe.msg
		}
		bc.redirectWithFlash(c, session.FlashError, msg, "/")
		return nil, false
	}

	fh, err := c.FormFile("cover_file")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return book, true
	case err != nil:
		log.Error().Err(err).Msg("Failed to read cover upload")
		bc.redirectWithFlash(c, session.FlashError, MsgUploadError, "/")
		return nil, false
	}

	if bc.uploader == nil {
		log.Error().Msg("Cover upload received but no storage is configured")
		bc.redirectWithFlash(c, session.FlashError, MsgUploadError, "/")
		return nil, false
	}

	upload, err := bc.uploader.Store(c.Request.Context(), fh)
	if err != nil {
		log.Error().Err(err).Str("file", fh.Filename).Msg("Failed to store cover")
		bc.redirectWithFlash(c, session.FlashError, MsgUploadError, "/")
		return nil, false
	}

	// An uploaded file always wins over a typed cover reference.
	book.CoverID = upload.URL
	book.CoverBlurHash = upload.BlurHash
	return book, true
}
