// Package readability reduces HTML pages to their main content with
// go-readability.
package readability

import (
	"net/url"
	"strings"

	"github.com/fwojciec/contentobj"
	"github.com/go-shiori/go-readability"
)

// Ensure Cleaner implements contentobj.Cleaner.
var _ contentobj.Cleaner = (*Cleaner)(nil)

// Cleaner strips navigation, sidebars and other boilerplate from a page.
type Cleaner struct {
	pageURL *url.URL
}

// Option configures a Cleaner.
type Option func(*Cleaner)

// WithPageURL sets the address of the page, used to resolve relative links
// in the cleaned content.
func WithPageURL(u *url.URL) Option {
	return func(c *Cleaner) {
		c.pageURL = u
	}
}

// NewCleaner creates a Cleaner.
func NewCleaner(opts ...Option) *Cleaner {
	c := &Cleaner{}
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

	article, err := readability.FromReader(strings.NewReader(rawHTML), c.pageURL)
	if err != nil {
		return nil, contentobj.Errorf(contentobj.EINVALID, "readability: %v", err)
	}

	return &contentobj.CleanResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
