package http

import (
	"bytes"
	"html"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/covers"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testApp struct {
	router     *gin.Engine
	db         *database.Database
	repo       *books.Repository
	uploadsDir string
}

func setupTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := database.NewSQLiteDatabase(filepath.Join(t.TempDir(), "books.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	uploadsDir := filepath.Join(t.TempDir(), "uploads")
	storage, err := covers.NewLocalStorage(uploadsDir)
	require.NoError(t, err)

	repo := books.NewRepository(db.DB)
	router, err := NewRouter(RouterConfig{
		Books:      repo,
		Covers:     covers.NewUploader(storage, covers.NewProcessor(config.DefaultUploadMaxBytes)),
		Sessions:   session.NewManager(nil, config.Session{Lifetime: time.Hour}),
		Database:   db,
		UploadsDir: uploadsDir,
		Version:    "test",
	})
	require.NoError(t, err)

	return &testApp{router: router, db: db, repo: repo, uploadsDir: uploadsDir}
}

func setupAppWithStore(t *testing.T, store BookStore) *gin.Engine {
	t.Helper()
	router, err := NewRouter(RouterConfig{
		Books:    store,
		Sessions: session.NewManager(nil, config.Session{Lifetime: time.Hour}),
	})
	require.NoError(t, err)
	return router
}

// client carries the session cookie between requests like a browser would.
type client struct {
	t      *testing.T
	router *gin.Engine
	cookie *http.Cookie
}

func newClient(t *testing.T, router *gin.Engine) *client {
	return &client{t: t, router: router}
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	c.t.Helper()
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == session.CookieName {
			c.cookie = cookie
		}
	}
	return w
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *client) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

type upload struct {
	filename string
	data     []byte
}

func (c *client) postMultipart(path string, fields map[string]string, file *upload) *httptest.ResponseRecorder {
	c.t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(c.t, mw.WriteField(k, v))
	}
	if file != nil {
		part, err := mw.CreateFormFile("cover_file", file.filename)
		require.NoError(c.t, err)
		_, err = io.Copy(part, bytes.NewReader(file.data))
		require.NoError(c.t, err)
	}
	require.NoError(c.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req)
}

// follow issues a GET to the redirect target of w.
func (c *client) follow(w *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	c.t.Helper()
	location := w.Header().Get("Location")
	require.NotEmpty(c.t, location, "response is not a redirect (status %d)", w.Code)
	return c.get(location)
}

// escaped is msg as html/template renders it.
func escaped(msg string) string {
	return html.EscapeString(msg)
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 30, 45))
	for y := 0; y < 45; y++ {
		for x := 0; x < 30; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 5), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func countBooks(body string) int {
	return strings.Count(body, `<li class="book">`)
}
