package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestID_Generated(t *testing.T) {
	router := gin.New()
	router.Use(RequestID(zerolog.Nop()))

	var seen string
	router.GET("/", func(c *gin.Context) {
		seen = RequestIDFromContext(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get(RequestIDHeader))
}

func TestRequestID_Propagated(t *testing.T) {
	router := gin.New()
	router.Use(RequestID(zerolog.Nop()))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestAccessLog(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	router := gin.New()
	router.Use(RequestID(logger), AccessLog())
	router.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.Header.Set(RequestIDHeader, "rid-1")
	router.ServeHTTP(httptest.NewRecorder(), req)

	line := buf.String()
	assert.Contains(t, line, `"level":"warn"`)
	assert.Contains(t, line, `"request_id":"rid-1"`)
	assert.Contains(t, line, `"path":"/missing"`)
	assert.Contains(t, line, `"status":404`)
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name       string
		allowed    []string
		origin     string
		wantOrigin string
		wantCreds  string
	}{
		{name: "listed origin", allowed: []string{"https://hug.test"}, origin: "https://hug.test", wantOrigin: "https://hug.test", wantCreds: "true"},
		{name: "unlisted origin", allowed: []string{"https://hug.test"}, origin: "https://evil.test"},
		{name: "open when unconfigured", origin: "https://any.test", wantOrigin: "*"},
		{name: "no origin header", allowed: []string{"https://hug.test"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(CORS(tt.allowed))
			router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.wantOrigin, w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.wantCreds, w.Header().Get("Access-Control-Allow-Credentials"))
		})
	}
}

func TestCORS_Preflight(t *testing.T) {
	router := gin.New()
	router.Use(CORS([]string{"https://hug.test"}))
	called := false
	router.POST("/api/create-image", func(c *gin.Context) { called = true })

	req := httptest.NewRequest(http.MethodOptions, "/api/create-image", nil)
	req.Header.Set("Origin", "https://hug.test")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.False(t, called)
	assert.Equal(t, "GET,POST,OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
}
