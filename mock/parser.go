package mock

import (
	"context"

	"github.com/fwojciec/contentobj"
)

var _ contentobj.HTMLParser = (*HTMLParser)(nil)

// HTMLParser is a mock implementation of contentobj.HTMLParser.
type HTMLParser struct {
	ParseFn func(html string, opts contentobj.ParseOptions) ([]contentobj.Node, error)
}

func (p *HTMLParser) Parse(html string, opts contentobj.ParseOptions) ([]contentobj.Node, error) {
	return p.ParseFn(html, opts)
}

var _ contentobj.PDFAnalyzer = (*PDFAnalyzer)(nil)

// PDFAnalyzer is a mock implementation of contentobj.PDFAnalyzer.
type PDFAnalyzer struct {
	AnalyzeFn func(ctx context.Context, data []byte, opts contentobj.PDFOptions) *contentobj.PDFDocument
}

func (a *PDFAnalyzer) Analyze(ctx context.Context, data []byte, opts contentobj.PDFOptions) *contentobj.PDFDocument {
	return a.AnalyzeFn(ctx, data, opts)
}
