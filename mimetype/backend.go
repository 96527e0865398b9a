// Package mimetype provides a contentobj.DetectionBackend built on
// gabriel-vasile/mimetype for media types and gogs/chardet for encodings
// the content itself does not declare.
package mimetype

import (
	"errors"
	"fmt"
	"mime"
	"strings"

	"github.com/fwojciec/contentobj"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gogs/chardet"
)

// Ensure Backend implements contentobj.DetectionBackend at compile time.
var _ contentobj.DetectionBackend = (*Backend)(nil)

// Backend classifies bytes by content signature.
type Backend struct {
	text *chardet.Detector
}

// NewBackend creates a new Backend. It must be initialized with Init.
func NewBackend() *Backend {
	return &Backend{}
}

// Init builds the charset detector and checks both libraries against known
// inputs.
func (b *Backend) Init() error {
	if m := mimetype.Detect([]byte("%PDF-1.4\n%\xE2\xE3\xCF\xD3\n")); !m.Is("application/pdf") {
		return fmt.Errorf("mimetype self-test: got %s for a PDF header", m.String())
	}
	b.text = chardet.NewTextDetector()
	if _, err := b.text.DetectBest([]byte("self-test input for charset detection")); err != nil {
		return fmt.Errorf("chardet self-test: %w", err)
	}
	return nil
}

// MediaType returns the media type of data without parameters.
func (b *Backend) MediaType(data []byte) (string, error) {
	mediaType, _ := split(mimetype.Detect(data).String())
	return mediaType, nil
}

// Encoding returns the charset declared by the detected media type, or the
// best chardet guess when there is none.
func (b *Backend) Encoding(data []byte) (string, error) {
	if _, charset := split(mimetype.Detect(data).String()); charset != "" {
		return strings.ToLower(charset), nil
	}
	if b.text == nil {
		return "", errors.New("backend not initialized")
	}
	result, err := b.text.DetectBest(data)
	if err != nil {
		return "", err
	}
	return strings.ToLower(result.Charset), nil
}

func split(full string) (mediaType, charset string) {
	mediaType, params, err := mime.ParseMediaType(full)
	if err != nil {
		mediaType, _, _ = strings.Cut(full, ";")
		return strings.TrimSpace(mediaType), ""
	}
	return mediaType, params["charset"]
}
