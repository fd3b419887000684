package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Olliveer/happy-2.0-backend-deploy/internal/apperror"
	"github.com/Olliveer/happy-2.0-backend-deploy/internal/config"
	"github.com/Olliveer/happy-2.0-backend-deploy/internal/security"
	"github.com/Olliveer/happy-2.0-backend-deploy/internal/service"
	"github.com/Olliveer/happy-2.0-backend-deploy/internal/storage/storagetest"
)

const testSecret = "middleware-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), Recovery(zerolog.Nop()), Errors(zerolog.Nop()))
	r.Use(handlers...)
	return r
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func TestAuth(t *testing.T) {
	r := newEngine(Auth(testSecret))
	r.GET("/me", func(c *gin.Context) {
		id, ok := UserID(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": id})
	})

	valid, err := security.GenerateAccessToken(testSecret, 42, time.Hour)
	require.NoError(t, err)
	expired, err := security.GenerateAccessToken(testSecret, 42, -time.Minute)
	require.NoError(t, err)
	foreign, err := security.GenerateAccessToken("other-secret", 42, time.Hour)
	require.NoError(t, err)

	cases := []struct {
		name    string
		header  string
		status  int
		message string
	}{
		{"missing header", "", http.StatusForbidden, "No token provided"},
		{"wrong scheme", "Basic " + valid, http.StatusForbidden, "Invalid token"},
		{"bare token", valid, http.StatusForbidden, "Invalid token"},
		{"bad signature", "Bearer " + foreign, http.StatusForbidden, "Invalid token"},
		{"expired", "Bearer " + expired, http.StatusForbidden, "Invalid token"},
		{"garbage", "Bearer not.a.jwt", http.StatusForbidden, "Invalid token"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.message, decode(t, w)["message"])
		})
	}

	for _, scheme := range []string{"Bearer", "bearer", "BEARER"} {
		t.Run("valid token "+scheme, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			req.Header.Set("Authorization", scheme+" "+valid)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			assert.EqualValues(t, 42, decode(t, w)["id"])
		})
	}
}

func TestErrors(t *testing.T) {
	r := newEngine()
	r.GET("/app", func(c *gin.Context) { _ = c.Error(apperror.NotFound("Orphanage not found")) })
	r.GET("/validation", func(c *gin.Context) {
		_ = c.Error(apperror.Validation([]apperror.FieldError{
			{Field: "name", Message: "name is a required field"},
			{Field: "about", Message: "about is a required field"},
		}))
	})
	r.GET("/boom", func(c *gin.Context) { _ = c.Error(errors.New("connection refused")) })
	r.GET("/panic", func(c *gin.Context) { panic("kaboom") })

	t.Run("application error", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/app", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"message":"Orphanage not found"}`, w.Body.String())
	})

	t.Run("validation lists every field", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/validation", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decode(t, w)
		assert.Equal(t, "name is a required field", body["message"])
		assert.Len(t, body["errors"], 2)
	})

	t.Run("unexpected error", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"status":"Error","message":"Internal server error connection refused"}`, w.Body.String())
	})

	t.Run("panic", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Internal server error kaboom", decode(t, w)["message"])
	})
}

func TestRequestID(t *testing.T) {
	r := newEngine()
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, RequestIDFrom(c)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get("X-Request-Id")
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-Id"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", strings.Repeat("x", 200))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Len(t, w.Header().Get("X-Request-Id"), 36)
}

func TestCORS(t *testing.T) {
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }

	t.Run("all origins by default", func(t *testing.T) {
		r := newEngine(CORS(nil))
		r.GET("/orphanages", ok)

		req := httptest.NewRequest(http.MethodGet, "/orphanages", nil)
		req.Header.Set("Origin", "https://web.example.com")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		r := newEngine(CORS(nil))
		r.GET("/orphanages", ok)

		req := httptest.NewRequest(http.MethodOptions, "/orphanages", nil)
		req.Header.Set("Origin", "https://web.example.com")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("restricted", func(t *testing.T) {
		r := newEngine(CORS([]string{"https://web.example.com"}))
		r.GET("/orphanages", ok)

		for origin, want := range map[string]string{
			"https://web.example.com":  "https://web.example.com",
			"https://evil.example.com": "",
		} {
			req := httptest.NewRequest(http.MethodGet, "/orphanages", nil)
			req.Header.Set("Origin", origin)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, want, w.Header().Get("Access-Control-Allow-Origin"), origin)
		}
	})
}

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")

func multipartRequest(t *testing.T, contentType string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("name", "Casa Feliz"))
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="images"; filename="front door.png"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/orphanages", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestUpload(t *testing.T) {
	setup := func(maxSize int64, handler gin.HandlerFunc) (*gin.Engine, *storagetest.Memory) {
		store := storagetest.NewMemory()
		uploads := service.NewUploadService(store, config.UploadConfig{
			MaxFileSize:  maxSize,
			AllowedMimes: []string{"image/jpeg", "image/pjpeg", "image/png", "image/gif"},
		}, zerolog.Nop())
		r := newEngine()
		r.POST("/orphanages", Upload(uploads), handler)
		return r, store
	}

	t.Run("handler sees stored files", func(t *testing.T) {
		var seen []service.StoredFile
		r, store := setup(1024, func(c *gin.Context) {
			seen = StoredFiles(c)
			c.Status(http.StatusCreated)
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, multipartRequest(t, "image/png", pngBytes))

		require.Equal(t, http.StatusCreated, w.Code)
		require.Len(t, seen, 1)
		assert.True(t, strings.HasSuffix(seen[0].Key, "-front-door.png"))
		assert.True(t, store.Has(seen[0].Key))
	})

	t.Run("rejected before the handler", func(t *testing.T) {
		called := false
		handler := func(c *gin.Context) { called = true }

		r, store := setup(1024, handler)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, multipartRequest(t, "text/plain", []byte("hello")))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid file type.", decode(t, w)["message"])

		r, _ = setup(int64(len(pngBytes)-1), handler)
		w = httptest.NewRecorder()
		r.ServeHTTP(w, multipartRequest(t, "image/png", pngBytes))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "File too large", decode(t, w)["message"])

		assert.False(t, called)
		assert.Zero(t, store.Len())
	})

	t.Run("handler failure discards blobs", func(t *testing.T) {
		r, store := setup(1024, func(c *gin.Context) {
			_ = c.Error(apperror.New("Orphanage already exists"))
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, multipartRequest(t, "image/png", pngBytes))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Zero(t, store.Len())
		assert.Len(t, store.Deletes(), 1)
	})

	t.Run("json passes through", func(t *testing.T) {
		r, _ := setup(1024, func(c *gin.Context) {
			assert.Nil(t, StoredFiles(c))
			c.Status(http.StatusNoContent)
		})

		req := httptest.NewRequest(http.MethodPost, "/orphanages", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestHTTPMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	m, err := NewHTTPMetrics(registry)
	require.NoError(t, err)

	_, err = NewHTTPMetrics(registry)
	assert.Error(t, err, "registering twice must fail")

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/orphanages/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/orphanages/1", nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `happy_http_requests_total{method="GET",route="/orphanages/:id",status="200"} 1`)
	assert.Contains(t, w.Body.String(), "happy_http_request_duration_seconds")
}
