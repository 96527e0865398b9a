package contentobj

import "context"

// Driver reads raw bytes from one source, independent of what they mean.
// Failing to reach the source is the only error a Driver reports; codes are
// ENOTFOUND for missing files and EUNAVAILABLE for unreachable URLs.
type Driver interface {
	// CanHandle reports whether this kind of driver can read source.
	CanHandle(source any) bool

	// Content returns the raw bytes.
	Content(ctx context.Context) ([]byte, error)

	// Text returns the content decoded to a string. Bytes that do not
	// match the encoding are replaced, not reported.
	Text(ctx context.Context) (string, error)

	// Metadata returns a description of the source.
	Metadata(ctx context.Context) (map[string]any, error)

	// Available reports whether the source can currently be read.
	Available(ctx context.Context) bool
}

// DriverFactory builds drivers for sources.
type DriverFactory interface {
	// Driver picks a driver for source: remote URL, then local file, then
	// in-memory content.
	Driver(source any) Driver

	URLDriver(rawURL string) Driver
	FileDriver(path string) Driver
	InlineDriver(data []byte, extra map[string]any) Driver
}

// RawSource is an opaque document: a name, a declared media type and bytes.
type RawSource interface {
	Name() string
	MediaType() string
	Bytes(ctx context.Context) ([]byte, error)
}
