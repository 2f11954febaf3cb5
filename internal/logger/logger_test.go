package logger

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("nonsense"))
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" warn "))
}

func TestMiddleware_LogsRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	InitWithWriter("production", "info", &buf)
	defer InitWithWriter("production", "info", &bytes.Buffer{})

	router := gin.New()
	router.Use(RequestID(), Middleware())
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/ping", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	assert.Contains(t, buf.String(), `"path":"/ping"`)
	assert.Contains(t, buf.String(), `"status":200`)
	assert.Contains(t, buf.String(), w.Header().Get(RequestIDHeader))
}

func TestRequestID_ReusesIncomingHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	router.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Body.String())
}

func TestRecovery_Returns500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	InitWithWriter("production", "error", &bytes.Buffer{})

	router := gin.New()
	router.Use(Recovery())
	router.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/boom", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
