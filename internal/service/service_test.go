package service

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Olliveer/happy-2.0-backend-deploy/internal/apperror"
	"github.com/Olliveer/happy-2.0-backend-deploy/internal/config"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")

type testFile struct {
	name        string
	contentType string
	data        []byte
}

// fileHeaders encodes files as a multipart form and parses it back, so
// the headers carry sizes and open like real uploads.
func fileHeaders(t *testing.T, files ...testFile) []*multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="images"; filename="%s"`, f.name))
		h.Set("Content-Type", f.contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["images"]
}

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		AppURL: "http://localhost:3333",
		Upload: config.UploadConfig{
			MaxFileSize:  5 * 1024 * 1024,
			AllowedMimes: []string{"image/jpeg", "image/pjpeg", "image/png", "image/gif"},
		},
		Security: config.SecurityConfig{
			JWTSecret:     "test-secret",
			JWTTTL:        time.Hour,
			ResetTokenTTL: time.Hour,
		},
		Mail: config.MailConfig{
			Subject:   "RESET",
			ResetLink: "https://happy.example.com/reset",
		},
	}
}

func requireAppError(t *testing.T, err error, status int, message string) {
	t.Helper()
	appErr, ok := apperror.As(err)
	require.True(t, ok, "want apperror, got %v", err)
	assert.Equal(t, status, appErr.Status)
	assert.Equal(t, message, appErr.Message)
}
