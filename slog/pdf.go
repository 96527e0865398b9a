package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/contentobj"
)

// Ensure LoggingPDFAnalyzer implements contentobj.PDFAnalyzer.
var _ contentobj.PDFAnalyzer = (*LoggingPDFAnalyzer)(nil)

// LoggingPDFAnalyzer wraps a PDFAnalyzer with debug logging.
type LoggingPDFAnalyzer struct {
	next   contentobj.PDFAnalyzer
	logger *slog.Logger
}

// NewLoggingPDFAnalyzer creates a new LoggingPDFAnalyzer.
func NewLoggingPDFAnalyzer(next contentobj.PDFAnalyzer, logger *slog.Logger) *LoggingPDFAnalyzer {
	return &LoggingPDFAnalyzer{next: next, logger: logger}
}

// Analyze delegates to the wrapped analyzer. Each provider attempt is logged
// at debug level, followed by a summary of the analysis.
func (a *LoggingPDFAnalyzer) Analyze(ctx context.Context, data []byte, opts contentobj.PDFOptions) *contentobj.PDFDocument {
	begin := time.Now()
	doc := a.next.Analyze(ctx, data, opts)

	for _, at := range doc.Attempts {
		a.logger.Debug("pdf provider attempt",
			"provider", at.Provider,
			"mode", at.Mode,
			"status", string(at.Status),
			"err", at.Err,
		)
	}

	attrs := []any{
		"bytes", len(data),
		"provider", doc.Provider,
		"pages", len(doc.Pages),
		"duration", time.Since(begin),
	}
	if doc.Metadata != nil {
		attrs = append(attrs, "type", string(doc.Metadata.PDFType))
	}
	a.logger.Info("analyze pdf", attrs...)
	return doc
}
