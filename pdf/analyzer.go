// Package pdf extracts pages and metadata from PDF documents through an
// ordered list of providers.
package pdf

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/fwojciec/contentobj"
)

// Ensure Analyzer implements contentobj.PDFAnalyzer.
var _ contentobj.PDFAnalyzer = (*Analyzer)(nil)

// Attempt modes.
const (
	ModeStream = "stream"
	ModeFile   = "file"
)

// signature starts every PDF, after optional leading whitespace.
var signature = []byte("%PDF")

var versionRe = regexp.MustCompile(`^%PDF-(\d+\.\d+)`)

// ProviderStatus is the availability of a provider, probed at construction.
type ProviderStatus struct {
	Name      string
	Available bool
	Err       string
}

// Analyzer runs PDF providers in order until one serves the document.
type Analyzer struct {
	providers []Provider
	status    []ProviderStatus
	tempDir   string
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithProviders replaces the default provider order.
func WithProviders(providers ...Provider) Option {
	return func(a *Analyzer) {
		a.providers = providers
	}
}

// WithTempDir sets the directory for temporary files handed to file-based
// providers. The default is the system temporary directory.
func WithTempDir(dir string) Option {
	return func(a *Analyzer) {
		a.tempDir = dir
	}
}

// NewAnalyzer creates an Analyzer and probes every provider once.
// The default order is ledongthuc, pdftotext, stream.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		providers: []Provider{NewLedongthuc(), NewPdftotext(), NewStream()},
	}
	for _, opt := range opts {
		opt(a)
	}

	a.status = make([]ProviderStatus, len(a.providers))
	for i, p := range a.providers {
		a.status[i] = probe(p)
	}
	return a
}

func probe(p Provider) (status ProviderStatus) {
	status.Name = p.Name()
	defer func() {
		if r := recover(); r != nil {
			status.Available = false
			status.Err = fmt.Sprintf("probe panicked: %v", r)
		}
	}()
	if err := p.Probe(); err != nil {
		status.Err = err.Error()
		return status
	}
	status.Available = true
	return status
}

// Providers returns the probed availability of each provider, in order.
func (a *Analyzer) Providers() []ProviderStatus {
	return append([]ProviderStatus(nil), a.status...)
}

// Mode returns the name of the first available provider, or
// contentobj.ProviderNone when none is.
func (a *Analyzer) Mode() string {
	for _, s := range a.status {
		if s.Available {
			return s.Name
		}
	}
	return contentobj.ProviderNone
}

// Analyze extracts metadata, pages and, when asked, sections from data.
// Input that no provider can read yields a document without pages.
func (a *Analyzer) Analyze(ctx context.Context, data []byte, opts contentobj.PDFOptions) *contentobj.PDFDocument {
	meta := &contentobj.PDFMetadata{
		PDFType:    contentobj.PDFUnknown,
		PDFVersion: headerVersion(data),
		Method:     contentobj.ProviderNone,
	}
	doc := &contentobj.PDFDocument{Metadata: meta, Provider: contentobj.ProviderNone}
	if !looksLikePDF(data) {
		return doc
	}

	for i, p := range a.providers {
		if !a.status[i].Available {
			doc.Attempts = append(doc.Attempts, contentobj.Attempt{
				Provider: p.Name(),
				Status:   contentobj.AttemptUnavailable,
				Err:      a.status[i].Err,
			})
			continue
		}
		if ctx.Err() != nil {
			break
		}

		ex, attempts := a.try(ctx, p, data, opts)
		doc.Attempts = append(doc.Attempts, attempts...)
		if ex == nil {
			continue
		}

		doc.Provider = p.Name()
		doc.Pages = ex.pages
		fillMetadata(meta, ex)
		meta.Method = p.Name()
		if opts.DetectSections {
			doc.Sections = Sections(doc.Pages)
		}
		break
	}
	return doc
}

// Pages returns the pages of data.
func (a *Analyzer) Pages(ctx context.Context, data []byte, opts contentobj.PDFOptions) []*contentobj.PDFPage {
	return a.Analyze(ctx, data, opts).Pages
}

// Metadata returns the metadata of data, reading only the first page.
func (a *Analyzer) Metadata(ctx context.Context, data []byte) *contentobj.PDFMetadata {
	return a.Analyze(ctx, data, contentobj.PDFOptions{MaxPages: 1}).Metadata
}

// Classify returns the type of data, judged by its first page.
func (a *Analyzer) Classify(ctx context.Context, data []byte) contentobj.PDFType {
	return a.Metadata(ctx, data).PDFType
}

type extraction struct {
	numPages int
	pages    []*contentobj.PDFPage
	info     Info
}

// try runs one provider: from the buffer first, then from a temporary file.
func (a *Analyzer) try(ctx context.Context, p Provider, data []byte, opts contentobj.PDFOptions) (*extraction, []contentobj.Attempt) {
	var attempts []contentobj.Attempt
	record := func(mode string, err error) {
		attempt := contentobj.Attempt{Provider: p.Name(), Mode: mode, Status: contentobj.AttemptOK}
		if err != nil {
			attempt.Status = contentobj.AttemptFailed
			attempt.Err = err.Error()
		}
		attempts = append(attempts, attempt)
	}

	if so, ok := p.(StreamOpener); ok {
		ex, err := extractStream(ctx, so, data, opts)
		record(ModeStream, err)
		if err == nil {
			return ex, attempts
		}
	}
	if fo, ok := p.(FileOpener); ok {
		ex, err := a.extractFile(ctx, fo, data, opts)
		record(ModeFile, err)
		if err == nil {
			return ex, attempts
		}
	}
	return nil, attempts
}

func extractStream(ctx context.Context, so StreamOpener, data []byte, opts contentobj.PDFOptions) (ex *extraction, err error) {
	defer recoverPanic(&err)
	d, err := so.Open(ctx, data)
	if err != nil {
		return nil, err
	}
	defer d.Close()
	return extract(d, opts), nil
}

func (a *Analyzer) extractFile(ctx context.Context, fo FileOpener, data []byte, opts contentobj.PDFOptions) (ex *extraction, err error) {
	f, err := os.CreateTemp(a.tempDir, "contentobj-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.Write(data); err != nil {
		f.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	defer recoverPanic(&err)
	d, err := fo.OpenFile(ctx, path)
	if err != nil {
		return nil, err
	}
	defer d.Close()
	return extract(d, opts), nil
}

func recoverPanic(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("provider panicked: %v", r)
	}
}

// extract reads up to opts.MaxPages pages. A page that fails to read is
// kept as an empty page so numbering stays intact.
func extract(d Document, opts contentobj.PDFOptions) *extraction {
	n := d.NumPages()
	limit := n
	if opts.MaxPages > 0 && opts.MaxPages < n {
		limit = opts.MaxPages
	}

	ex := &extraction{numPages: n, info: d.Info()}
	for i := 1; i <= limit; i++ {
		raw, err := readPage(d, i)
		page := contentobj.NewPDFPage(i, "")
		if err == nil {
			page = contentobj.NewPDFPage(i, raw.Text)
			page.Blocks = raw.Blocks
			page.HasImages = raw.HasImages
		}
		ex.pages = append(ex.pages, page)
	}
	return ex
}

func readPage(d Document, n int) (page Page, err error) {
	defer recoverPanic(&err)
	return d.Page(n)
}

func fillMetadata(meta *contentobj.PDFMetadata, ex *extraction) {
	meta.Title = ex.info.Title
	meta.Author = ex.info.Author
	meta.Subject = ex.info.Subject
	meta.Producer = ex.info.Producer
	meta.CreationDate = NormalizeDate(ex.info.CreationDate)
	meta.ModificationDate = NormalizeDate(ex.info.ModDate)
	meta.Encrypted = ex.info.Encrypted
	meta.PagesCount = ex.numPages
	if ex.info.Version != "" {
		meta.PDFVersion = ex.info.Version
	}

	switch {
	case ex.numPages == 0:
		meta.PDFType = contentobj.PDFEmpty
	case len(ex.pages) > 0:
		first := ex.pages[0]
		meta.PDFType = contentobj.ClassifyPage(!first.IsEmpty(), first.HasImages)
	}
}

// AnalyzeString analyzes a PDF held in a string. A base64-encoded PDF,
// recognised by the encoding of "%PDF" ("JVBER"), is decoded first.
func (a *Analyzer) AnalyzeString(ctx context.Context, s string, opts contentobj.PDFOptions) *contentobj.PDFDocument {
	return a.Analyze(ctx, unwrapBase64(s), opts)
}

func unwrapBase64(s string) []byte {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "JVBER") {
		return []byte(s)
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(trimmed), ""))
	if err != nil {
		return []byte(s)
	}
	return decoded
}

func looksLikePDF(data []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n\f"), signature)
}

func headerVersion(data []byte) string {
	if !looksLikePDF(data) {
		return ""
	}
	data = bytes.TrimLeft(data, " \t\r\n\f")
	if m := versionRe.FindSubmatch(data[:min(len(data), 16)]); m != nil {
		return string(m[1])
	}
	return ""
}
