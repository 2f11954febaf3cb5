package security

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

// csrfFieldKey holds the hidden form input set by CSRFMiddleware.
const csrfFieldKey = "csrf_field"

// CSRFMiddleware protects every unsafe request with gorilla/csrf.
// When secure is false the requests are marked as plain HTTP so the
// Referer checks meant for TLS do not reject local development.
func CSRFMiddleware(secret []byte, secure bool) gin.HandlerFunc {
	csrfProtect := csrf.Protect(
		secret,
		csrf.Secure(secure),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.Path("/"),
		csrf.ErrorHandler(http.HandlerFunc(csrfErrorHandler)),
	)

	return func(c *gin.Context) {
		if !secure {
			c.Request = csrf.PlaintextHTTPRequest(c.Request)
		}

		passed := false
		handler := csrfProtect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Set(csrfFieldKey, csrf.TemplateField(r))
			// Session middleware runs after this and builds on r's context.
			c.Request = r
			c.Next()
		}))

		handler.ServeHTTP(c.Writer, c.Request)
		// The error handler already responded; keep gin from running the route.
		if !passed {
			c.Abort()
		}
	}
}

func csrfErrorHandler(w http.ResponseWriter, r *http.Request) {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"CSRF token invalid or missing"}`))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Form Expired</title></head>
<body style="font-family: system-ui; max-width: 400px; margin: 100px auto; text-align: center;">
<h1>Form Expired</h1>
<p>The form submission could not be verified.</p>
<p><a href="/">Back to your books</a></p>
</body>
</html>`))
}

// CSRFField returns the hidden input to embed in forms, or nothing when
// CSRF protection is off.
func CSRFField(c *gin.Context) template.HTML {
	if field, ok := c.Get(csrfFieldKey); ok {
		if html, ok := field.(template.HTML); ok {
			return html
		}
	}
	return ""
}
