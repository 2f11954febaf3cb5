package session

import (
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/mrlokans/bookshelf/internal/config"
)

// CookieName is the name of the session cookie.
const CookieName = "session"

// Manager wraps scs.SessionManager with flash helpers.
type Manager struct {
	*scs.SessionManager
}

// NewManager configures cookie and lifetime settings around the given store.
// A nil store falls back to scs's in-memory store.
func NewManager(store scs.Store, cfg config.Session) *Manager {
	sm := scs.New()
	if store != nil {
		sm.Store = store
	}

	if cfg.Lifetime > 0 {
		sm.Lifetime = cfg.Lifetime
		sm.IdleTimeout = cfg.Lifetime / 2
	}

	sm.Cookie.Name = CookieName
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	// Lax so the flash cookie survives the redirect after a form post.
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"

	return &Manager{SessionManager: sm}
}
