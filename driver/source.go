package driver

import (
	"context"
	"path/filepath"

	"github.com/fwojciec/contentobj"
	"github.com/fwojciec/contentobj/fs"
	cohttp "github.com/fwojciec/contentobj/http"
)

// Ensure Source implements contentobj.RawSource at compile time.
var _ contentobj.RawSource = (*Source)(nil)

// Source adapts a Driver into a RawSource. The declared media type is read
// from driver metadata when Bytes runs, so MediaType is empty before that
// unless set explicitly.
type Source struct {
	name      string
	mediaType string
	driver    contentobj.Driver
}

// NewSource wraps d under the given name.
func NewSource(name string, d contentobj.Driver) *Source {
	return &Source{name: name, driver: d}
}

// WithMediaType returns s with a fixed declared media type that metadata
// will not override.
func (s *Source) WithMediaType(mediaType string) *Source {
	s.mediaType = mediaType
	return s
}

// Source returns a RawSource for source using the factory's driver choice.
// URLs are named by the URL, files by their base name.
func (f *Factory) Source(source any) *Source {
	d := f.Driver(source)
	name := "inline"
	switch drv := d.(type) {
	case *cohttp.Driver:
		name = drv.URL()
	case *fs.Driver:
		name = filepath.Base(drv.Path())
	}
	return NewSource(name, d)
}

func (s *Source) Name() string      { return s.name }
func (s *Source) MediaType() string { return s.mediaType }

// Driver returns the wrapped driver.
func (s *Source) Driver() contentobj.Driver { return s.driver }

// Bytes reads the content and records the media type the driver declares.
func (s *Source) Bytes(ctx context.Context) ([]byte, error) {
	data, err := s.driver.Content(ctx)
	if err != nil {
		return nil, err
	}
	if s.mediaType == "" {
		if meta, err := s.driver.Metadata(ctx); err == nil {
			s.mediaType = declaredType(meta)
		}
	}
	return data, nil
}

func declaredType(meta map[string]any) string {
	for _, key := range []string{"content_type", "media_type", "mime_type"} {
		if v, ok := meta[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
