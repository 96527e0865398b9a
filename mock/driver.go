package mock

import (
	"context"

	"github.com/fwojciec/contentobj"
)

var _ contentobj.Driver = (*Driver)(nil)

// Driver is a mock implementation of contentobj.Driver.
type Driver struct {
	CanHandleFn func(source any) bool
	ContentFn   func(ctx context.Context) ([]byte, error)
	TextFn      func(ctx context.Context) (string, error)
	MetadataFn  func(ctx context.Context) (map[string]any, error)
	AvailableFn func(ctx context.Context) bool
}

func (d *Driver) CanHandle(source any) bool {
	return d.CanHandleFn(source)
}

func (d *Driver) Content(ctx context.Context) ([]byte, error) {
	return d.ContentFn(ctx)
}

func (d *Driver) Text(ctx context.Context) (string, error) {
	return d.TextFn(ctx)
}

func (d *Driver) Metadata(ctx context.Context) (map[string]any, error) {
	return d.MetadataFn(ctx)
}

func (d *Driver) Available(ctx context.Context) bool {
	return d.AvailableFn(ctx)
}

var _ contentobj.DriverFactory = (*DriverFactory)(nil)

// DriverFactory is a mock implementation of contentobj.DriverFactory.
type DriverFactory struct {
	DriverFn       func(source any) contentobj.Driver
	URLDriverFn    func(rawURL string) contentobj.Driver
	FileDriverFn   func(path string) contentobj.Driver
	InlineDriverFn func(data []byte, extra map[string]any) contentobj.Driver
}

func (f *DriverFactory) Driver(source any) contentobj.Driver {
	return f.DriverFn(source)
}

func (f *DriverFactory) URLDriver(rawURL string) contentobj.Driver {
	return f.URLDriverFn(rawURL)
}

func (f *DriverFactory) FileDriver(path string) contentobj.Driver {
	return f.FileDriverFn(path)
}

func (f *DriverFactory) InlineDriver(data []byte, extra map[string]any) contentobj.Driver {
	return f.InlineDriverFn(data, extra)
}

var _ contentobj.RawSource = (*RawSource)(nil)

// RawSource is a mock implementation of contentobj.RawSource.
type RawSource struct {
	NameFn      func() string
	MediaTypeFn func() string
	BytesFn     func(ctx context.Context) ([]byte, error)
}

func (s *RawSource) Name() string {
	return s.NameFn()
}

func (s *RawSource) MediaType() string {
	return s.MediaTypeFn()
}

func (s *RawSource) Bytes(ctx context.Context) ([]byte, error) {
	return s.BytesFn(ctx)
}
