// Package sniffer works out the content type of uploaded blobs from their
// leading bytes.
package sniffer

import (
	"fmt"
	"io"
	"mime"
	"net/textproto"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ContentType detects the MIME type of r and rewinds it. Unless the bytes
// are recognised as an image the declared type is kept, so a permitted
// upload is never stored as text or octet-stream.
func ContentType(r io.ReadSeeker, declared string) (string, error) {
	detected, err := mimetype.DetectReader(r)
	if err != nil {
		return "", fmt.Errorf("detect type: %w", err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind: %w", err)
	}

	if declared != "" && !strings.HasPrefix(detected.String(), "image/") {
		return declared, nil
	}
	return detected.String(), nil
}

// MimeTypeFromHTTP returns the media type of a multipart part's
// Content-Type header without parameters.
func MimeTypeFromHTTP(header textproto.MIMEHeader) string {
	contentType := header.Get("Content-Type")
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		if idx := strings.Index(contentType, ";"); idx >= 0 {
			return strings.TrimSpace(contentType[:idx])
		}
		return strings.TrimSpace(contentType)
	}
	return mediaType
}
