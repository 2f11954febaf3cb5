package session

import (
	"bufio"
	"net"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// LoadAndSave loads the session for every request and persists it before
// the response headers leave. Flash messages are queued right before a
// redirect, so waiting for c.Next to return would be too late to set the
// cookie that carries them to the next page.
func (m *Manager) LoadAndSave() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, err := m.Load(c.Request.Context(), m.token(c.Request))
		if err != nil {
			log.Error().Err(err).Msg("Failed to load session")
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.Request = c.Request.WithContext(ctx)

		w := &committingWriter{ResponseWriter: c.Writer, manager: m, request: c.Request}
		c.Writer = w
		c.Next()

		// Handlers that never wrote (an aborted request) still save.
		w.commitOnce()
	}
}

func (m *Manager) token(r *http.Request) string {
	cookie, err := r.Cookie(m.Cookie.Name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// committingWriter saves the session the first time anything is written.
type committingWriter struct {
	gin.ResponseWriter
	manager   *Manager
	request   *http.Request
	committed bool
}

func (w *committingWriter) commitOnce() {
	if w.committed {
		return
	}
	w.committed = true

	ctx := w.request.Context()
	switch w.manager.Status(ctx) {
	case scs.Unmodified:
		// Nothing queued, no cookie needed.
	case scs.Modified:
		token, expiry, err := w.manager.Commit(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Failed to commit session, pending flashes are lost")
			return
		}
		w.manager.WriteSessionCookie(ctx, w.ResponseWriter, token, expiry)
	case scs.Destroyed:
		w.manager.WriteSessionCookie(ctx, w.ResponseWriter, "", time.Time{})
	}
}

func (w *committingWriter) WriteHeader(code int) {
	w.commitOnce()
	w.ResponseWriter.WriteHeader(code)
}

func (w *committingWriter) WriteHeaderNow() {
	w.commitOnce()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *committingWriter) Write(b []byte) (int, error) {
	w.commitOnce()
	return w.ResponseWriter.Write(b)
}

func (w *committingWriter) WriteString(s string) (int, error) {
	w.commitOnce()
	return w.ResponseWriter.WriteString(s)
}

func (w *committingWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return w.ResponseWriter.Hijack()
}
