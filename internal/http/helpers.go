package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/security"
)

// --- Parameter Parsing ---

// parseIDParam extracts an unsigned integer ID from URL parameters.
// Anything that is not a positive number is reported as not ok, which
// handlers treat like a missing book.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(paramName), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// queryInt reads an integer query parameter; missing or malformed values are 0.
func queryInt(c *gin.Context, name string) int {
	n, err := strconv.Atoi(strings.TrimSpace(c.Query(name)))
	if err != nil {
		return 0
	}
	return n
}

// --- Flash + Redirect ---

// redirectWithFlash queues msg under kind and redirects. POSTs answer with
// 303 so the browser follows with a GET.
func (bc *BooksController) redirectWithFlash(c *gin.Context, kind, msg, location string) {
	bc.sessions.AddFlash(c.Request.Context(), kind, msg)
	redirect(c, location)
}

func redirect(c *gin.Context, location string) {
	status := http.StatusFound
	if c.Request.Method == http.MethodPost {
		status = http.StatusSeeOther
	}
	c.Redirect(status, location)
}

// --- Rendering ---

// baseLayout pops pending flashes and attaches the CSRF field.
func (bc *BooksController) baseLayout(c *gin.Context, title string) layout {
	return layout{
		Title:     title,
		Flashes:   bc.sessions.Flashes(c.Request.Context()),
		CSRFField: security.CSRFField(c),
	}
}

// withError appends an error notice rendered on this response only.
func withError(l layout, msg string) layout {
	l.Flashes.Error = append(l.Flashes.Error, msg)
	return l
}
