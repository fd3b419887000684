package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Olliveer/happy-2.0-backend-deploy/internal/apperror"
	"github.com/Olliveer/happy-2.0-backend-deploy/internal/service"
)

const (
	// UploadField is the multipart field carrying image files.
	UploadField    = "images"
	storedFilesKey = "stored_files"
)

// Upload stores the files of a multipart request before the handler runs
// and exposes them via StoredFiles. Non-multipart requests pass through.
// When the handler records an error, the stored blobs are discarded.
func Upload(uploads *service.UploadService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isMultipart(c.Request) {
			c.Next()
			return
		}

		form, err := c.MultipartForm()
		if err != nil {
			abort(c, apperror.Wrap(err, http.StatusBadRequest, "Invalid multipart body"))
			return
		}

		files, err := uploads.Store(c.Request.Context(), form.File[UploadField])
		if err != nil {
			abort(c, err)
			return
		}
		c.Set(storedFilesKey, files)

		c.Next()

		if len(c.Errors) > 0 && len(files) > 0 {
			uploads.Discard(context.WithoutCancel(c.Request.Context()), files)
		}
	}
}

// StoredFiles returns the files Upload stored for this request.
func StoredFiles(c *gin.Context) []service.StoredFile {
	v, ok := c.Get(storedFilesKey)
	if !ok {
		return nil
	}
	files, _ := v.([]service.StoredFile)
	return files
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}
