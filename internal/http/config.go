package http

import (
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/session"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Books    BookStore
	Covers   CoverUploader
	Sessions *session.Manager
	Database *database.Database

	// UI paths; empty means the embedded copies
	TemplatesPath string
	StaticPath    string

	// UploadsDir is served under /uploads when covers are stored locally
	UploadsDir string

	// CSRF protection is enabled when a secret is set
	CSRFSecret    []byte
	SecureCookies bool

	// Application info
	Version string
}
