// Package fs provides a contentobj.Driver for files on the local filesystem.
package fs

import (
	"context"
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/contentobj"
	"github.com/fwojciec/contentobj/detect"
)

// Ensure Driver implements contentobj.Driver at compile time.
var _ contentobj.Driver = (*Driver)(nil)

// Driver reads one local file.
type Driver struct {
	path     string
	detector contentobj.Detector

	info map[string]any
}

// NewDriver creates a Driver for path. A nil detector uses the
// deterministic fallback rules only.
func NewDriver(path string, detector contentobj.Detector) *Driver {
	if detector == nil {
		detector = detect.NewDetector(nil)
	}
	return &Driver{path: path, detector: detector}
}

// CanHandle reports whether source is the path of an existing regular file.
func CanHandle(source any) bool {
	path, ok := source.(string)
	if !ok || path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// CanHandle reports whether source is the path of an existing regular file.
func (d *Driver) CanHandle(source any) bool { return CanHandle(source) }

// Path returns the file path.
func (d *Driver) Path() string { return d.path }

// Available reports whether the file exists and is a regular file.
func (d *Driver) Available(ctx context.Context) bool { return CanHandle(d.path) }

// Content reads the whole file.
func (d *Driver) Content(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(d.path)
	if errors.Is(err, iofs.ErrNotExist) {
		return nil, contentobj.Errorf(contentobj.ENOTFOUND, "file not found: %s", d.path)
	} else if err != nil {
		return nil, err
	}
	return data, nil
}

// Text reads the file and decodes it with the detected encoding. Binary
// files fail with EINVALID.
func (d *Driver) Text(ctx context.Context) (string, error) {
	info, err := d.FileInfo()
	if err != nil {
		return "", err
	}
	if isText, _ := info["is_text"].(bool); !isText {
		return "", contentobj.Errorf(contentobj.EINVALID, "%s is %v, not text", d.path, info["media_type"])
	}
	data, err := d.Content(ctx)
	if err != nil {
		return "", err
	}
	encoding, _ := info["encoding"].(string)
	return detect.Decode(data, encoding), nil
}

// Metadata returns FileInfo.
func (d *Driver) Metadata(ctx context.Context) (map[string]any, error) {
	return d.FileInfo()
}

// FileInfo returns the detection result merged with file stat fields. It is
// computed once per Driver.
func (d *Driver) FileInfo() (map[string]any, error) {
	if d.info != nil {
		return d.info, nil
	}

	stat, err := os.Stat(d.path)
	if errors.Is(err, iofs.ErrNotExist) {
		return nil, contentobj.Errorf(contentobj.ENOTFOUND, "file not found: %s", d.path)
	} else if err != nil {
		return nil, err
	}

	det, err := d.detector.DetectFile(d.path)
	if err != nil {
		return nil, err
	}

	d.info = map[string]any{
		"media_type": det.MediaType,
		"encoding":   det.Encoding,
		"is_text":    det.IsText,
		"is_binary":  det.IsBinary,
		"method":     det.Method,
		"path":       d.path,
		"name":       stat.Name(),
		"extension":  strings.ToLower(filepath.Ext(d.path)),
		"size":       stat.Size(),
		"modified":   stat.ModTime().UTC().Format(time.RFC3339),
	}
	return d.info, nil
}
