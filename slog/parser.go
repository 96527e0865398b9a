package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/contentobj"
)

// Ensure LoggingHTMLParser implements contentobj.HTMLParser.
var _ contentobj.HTMLParser = (*LoggingHTMLParser)(nil)

// LoggingHTMLParser wraps an HTMLParser with debug logging.
type LoggingHTMLParser struct {
	next   contentobj.HTMLParser
	logger *slog.Logger
}

// NewLoggingHTMLParser creates a new LoggingHTMLParser.
func NewLoggingHTMLParser(next contentobj.HTMLParser, logger *slog.Logger) *LoggingHTMLParser {
	return &LoggingHTMLParser{next: next, logger: logger}
}

// Parse delegates to the wrapped parser and logs the node count.
func (p *LoggingHTMLParser) Parse(html string, opts contentobj.ParseOptions) (nodes []contentobj.Node, err error) {
	defer func(begin time.Time) {
		p.logger.Info("parse html",
			"bytes", len(html),
			"base_url", opts.BaseURL,
			"nodes", len(nodes),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.Parse(html, opts)
}

// Ensure LoggingCleaner implements contentobj.Cleaner.
var _ contentobj.Cleaner = (*LoggingCleaner)(nil)

// LoggingCleaner wraps a Cleaner with debug logging.
type LoggingCleaner struct {
	next   contentobj.Cleaner
	logger *slog.Logger
}

// NewLoggingCleaner creates a new LoggingCleaner.
func NewLoggingCleaner(next contentobj.Cleaner, logger *slog.Logger) *LoggingCleaner {
	return &LoggingCleaner{next: next, logger: logger}
}

// Clean delegates to the wrapped cleaner and logs how much content remained.
func (c *LoggingCleaner) Clean(html string) (res *contentobj.CleanResult, err error) {
	defer func(begin time.Time) {
		kept := 0
		if res != nil {
			kept = len(res.ContentHTML)
		}
		c.logger.Info("clean html",
			"bytes", len(html),
			"kept", kept,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Clean(html)
}
