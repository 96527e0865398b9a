// Package detect classifies files and byte buffers by media type and text
// encoding. A Detector prefers a richer contentobj.DetectionBackend and falls
// back to a fixed, deterministic rule set when the backend is absent, fails
// to initialize, or fails on a particular input.
package detect

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fwojciec/contentobj"
)

// DefaultSampleSize is how many leading bytes of a file are inspected.
const DefaultSampleSize = 64 * 1024

// State is the initialization state of a Detector's backend.
type State int

// Backend states. A backend that fails to initialize is never retried.
const (
	StateUntried State = iota
	StateAvailable
	StateUnavailable
)

func (s State) String() string {
	switch s {
	case StateAvailable:
		return "available"
	case StateUnavailable:
		return "unavailable"
	}
	return "untried"
}

// Ensure Detector implements contentobj.Detector at compile time.
var _ contentobj.Detector = (*Detector)(nil)

// Detector implements contentobj.Detector.
type Detector struct {
	backend    contentobj.DetectionBackend
	sampleSize int

	once  sync.Once
	state State
}

// Option configures a Detector.
type Option func(*Detector)

// WithSampleSize sets how many leading bytes of a file are read.
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleSize = n
		}
	}
}

// NewDetector returns a Detector using backend when it initializes.
// A nil backend means the fallback rules are always used.
func NewDetector(backend contentobj.DetectionBackend, opts ...Option) *Detector {
	d := &Detector{
		backend:    backend,
		sampleSize: DefaultSampleSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// State returns the backend state without triggering initialization.
func (d *Detector) State() State {
	return d.state
}

// Probe initializes the backend on first call and reports whether it is
// available.
func (d *Detector) Probe() bool {
	d.once.Do(func() {
		if d.backend == nil || safeInit(d.backend) != nil {
			d.state = StateUnavailable
			return
		}
		d.state = StateAvailable
	})
	return d.state == StateAvailable
}

// DetectFile classifies the file at path from its name and leading bytes.
// A missing path, or one that is not a regular file, fails with ENOTFOUND.
// Read failures degrade to classification by name.
func (d *Detector) DetectFile(path string) (*contentobj.Detection, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, contentobj.Errorf(contentobj.ENOTFOUND, "file not found: %s", path)
	} else if err == nil && !info.Mode().IsRegular() {
		return nil, contentobj.Errorf(contentobj.ENOTFOUND, "not a regular file: %s", path)
	}

	sample, _ := readSample(path, d.sampleSize)
	if d.Probe() {
		if det, ok := d.primary(sample, path, contentobj.MethodPrimaryFile); ok {
			return det, nil
		}
	}
	return Fallback(sample, path, contentobj.MethodFallbackFile), nil
}

// DetectBytes classifies data. nameHint may be empty.
func (d *Detector) DetectBytes(data []byte, nameHint string) *contentobj.Detection {
	if d.Probe() {
		if det, ok := d.primary(data, nameHint, contentobj.MethodPrimaryBytes); ok {
			return det
		}
	}
	return Fallback(data, nameHint, contentobj.MethodFallbackBytes)
}

func (d *Detector) primary(data []byte, name, method string) (det *contentobj.Detection, ok bool) {
	defer func() {
		if recover() != nil {
			det, ok = nil, false
		}
	}()

	mediaType, err := d.backend.MediaType(data)
	if err != nil || mediaType == "" {
		return nil, false
	}
	mediaType = normalizeMediaType(mediaType)

	// Content sniffing cannot tell markdown or CSV from plain text; the
	// extension can.
	if mediaType == "text/plain" {
		if t, ok := byExtension(name); ok && IsTextType(t) {
			mediaType = t
		}
	}

	det = &contentobj.Detection{MediaType: mediaType, Method: method}
	if !IsTextType(mediaType) {
		det.IsBinary = true
		return det, true
	}
	det.IsText = true
	if enc, err := d.backend.Encoding(data); err == nil && enc != "" {
		det.Encoding = NormalizeEncoding(enc)
	} else {
		det.Encoding = SniffEncoding(data)
	}
	return det, true
}

func safeInit(b contentobj.DetectionBackend) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New("backend panicked during init")
		}
	}()
	return b.Init()
}

func readSample(path string, n int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, n)
	read, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return buf[:read], nil
}

func byExtension(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	t, ok := extensionTypes[strings.ToLower(filepath.Ext(name))]
	return t, ok
}

func normalizeMediaType(t string) string {
	t, _, _ = strings.Cut(t, ";")
	return strings.ToLower(strings.TrimSpace(t))
}

// IsTextType reports whether a media type denotes text.
func IsTextType(mediaType string) bool {
	t := normalizeMediaType(mediaType)
	switch {
	case strings.HasPrefix(t, "text/"):
		return true
	case strings.HasSuffix(t, "+json"), strings.HasSuffix(t, "+xml"):
		return true
	}
	return textApplicationTypes[t]
}

var textApplicationTypes = map[string]bool{
	"application/json":       true,
	"application/xml":        true,
	"application/javascript": true,
	"application/x-sh":       true,
	"application/x-yaml":     true,
	"application/yaml":       true,
}
