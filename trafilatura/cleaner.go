// Package trafilatura reduces HTML pages to their main content with
// go-trafilatura.
package trafilatura

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/fwojciec/contentobj"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Cleaner implements contentobj.Cleaner.
var _ contentobj.Cleaner = (*Cleaner)(nil)

// Cleaner extracts the main content of a page, falling back to
// go-trafilatura's secondary extractors when the primary one finds little.
type Cleaner struct {
	opts trafilatura.Options
}

// Option configures a Cleaner.
type Option func(*Cleaner)

// WithPageURL sets the address of the page.
func WithPageURL(u *url.URL) Option {
	return func(c *Cleaner) {
		c.opts.OriginalURL = u
	}
}

// WithLinks keeps hyperlinks in the cleaned content.
func WithLinks() Option {
	return func(c *Cleaner) {
		c.opts.IncludeLinks = true
	}
}

// WithImages keeps images in the cleaned content.
func WithImages() Option {
	return func(c *Cleaner) {
		c.opts.IncludeImages = true
	}
}

// NewCleaner creates a Cleaner with fallback extraction enabled.
func NewCleaner(opts ...Option) *Cleaner {
	c := &Cleaner{opts: trafilatura.Options{EnableFallback: true}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Clean returns the page title and main content of rawHTML.
func (c *Cleaner) Clean(rawHTML string) (*contentobj.CleanResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, contentobj.Errorf(contentobj.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), c.opts)
	if err != nil {
		return nil, contentobj.Errorf(contentobj.EINVALID, "trafilatura: %v", err)
	}

	var buf bytes.Buffer
	if result.ContentNode != nil {
		if err := html.Render(&buf, result.ContentNode); err != nil {
			return nil, contentobj.Errorf(contentobj.EINTERNAL, "render content: %v", err)
		}
	}

	return &contentobj.CleanResult{
		Title:       result.Metadata.Title,
		ContentHTML: buf.String(),
	}, nil
}
