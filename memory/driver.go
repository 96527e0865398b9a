// Package memory provides a contentobj.Driver over bytes already in memory.
package memory

import (
	"context"

	"github.com/fwojciec/contentobj"
	"github.com/fwojciec/contentobj/detect"
)

// Ensure Driver implements contentobj.Driver at compile time.
var _ contentobj.Driver = (*Driver)(nil)

// Driver serves a fixed byte slice. It is always available.
type Driver struct {
	data  []byte
	extra map[string]any
}

// NewDriver creates a Driver over data. extra is merged into Metadata.
func NewDriver(data []byte, extra map[string]any) *Driver {
	return &Driver{data: data, extra: extra}
}

// NewStringDriver creates a Driver over the UTF-8 bytes of s.
func NewStringDriver(s string, extra map[string]any) *Driver {
	return NewDriver([]byte(s), extra)
}

// CanHandle reports whether source is a string or byte slice.
func CanHandle(source any) bool {
	switch source.(type) {
	case string, []byte:
		return true
	}
	return false
}

// CanHandle reports whether source is a string or byte slice.
func (d *Driver) CanHandle(source any) bool { return CanHandle(source) }

// Content returns the wrapped bytes.
func (d *Driver) Content(ctx context.Context) ([]byte, error) {
	return d.data, nil
}

// Text decodes the bytes using their byte-order mark or UTF-8 validity.
func (d *Driver) Text(ctx context.Context) (string, error) {
	return detect.Decode(d.data, detect.SniffEncoding(d.data)), nil
}

// Metadata returns the size, the "inline" type tag and the caller's extras.
// Extras win over the synthesized keys.
func (d *Driver) Metadata(ctx context.Context) (map[string]any, error) {
	meta := map[string]any{
		"size": len(d.data),
		"type": "inline",
	}
	for k, v := range d.extra {
		meta[k] = v
	}
	return meta, nil
}

// Available always reports true.
func (d *Driver) Available(ctx context.Context) bool { return true }
