// Package driver picks a contentobj.Driver for an arbitrary source and
// adapts drivers into contentobj.RawSource values.
package driver

import (
	"fmt"

	"github.com/fwojciec/contentobj"
	"github.com/fwojciec/contentobj/fs"
	cohttp "github.com/fwojciec/contentobj/http"
	"github.com/fwojciec/contentobj/memory"
)

// Ensure Factory implements contentobj.DriverFactory at compile time.
var _ contentobj.DriverFactory = (*Factory)(nil)

// Factory builds drivers that share a detector and HTTP options.
type Factory struct {
	detector contentobj.Detector
	httpOpts []cohttp.Option
}

// NewFactory creates a Factory. A nil detector leaves local files to the
// fallback detection rules.
func NewFactory(detector contentobj.Detector, httpOpts ...cohttp.Option) *Factory {
	return &Factory{detector: detector, httpOpts: httpOpts}
}

// Driver returns a remote driver for http(s) URLs, a local driver for paths
// of existing files, and an inline driver for anything else.
func (f *Factory) Driver(source any) contentobj.Driver {
	switch {
	case cohttp.CanHandle(source):
		return f.URLDriver(source.(string))
	case fs.CanHandle(source):
		return f.FileDriver(source.(string))
	}
	switch s := source.(type) {
	case []byte:
		return f.InlineDriver(s, nil)
	case string:
		return f.InlineDriver([]byte(s), nil)
	}
	return f.InlineDriver([]byte(fmt.Sprint(source)), nil)
}

// URLDriver returns a remote driver for rawURL.
func (f *Factory) URLDriver(rawURL string) contentobj.Driver {
	return cohttp.NewDriver(rawURL, f.httpOpts...)
}

// FileDriver returns a local driver for path.
func (f *Factory) FileDriver(path string) contentobj.Driver {
	return fs.NewDriver(path, f.detector)
}

// InlineDriver returns a driver over data.
func (f *Factory) InlineDriver(data []byte, extra map[string]any) contentobj.Driver {
	return memory.NewDriver(data, extra)
}
