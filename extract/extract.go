// Package extract routes raw sources to the HTML parser or the PDF analyzer
// and returns the resulting content nodes.
package extract

import (
	"bytes"
	"context"
	"mime"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/fwojciec/contentobj"
	"github.com/fwojciec/contentobj/detect"
	"golang.org/x/net/html/charset"
)

// Format is the kind of content a source was routed as.
type Format string

// Formats.
const (
	FormatHTML   Format = "html"
	FormatPDF    Format = "pdf"
	FormatText   Format = "text"
	FormatBinary Format = "binary"
)

// Options controls a single extraction.
type Options struct {
	Parse contentobj.ParseOptions
	PDF   contentobj.PDFOptions

	// Clean reduces HTML to its main content before parsing when the
	// Extractor has a Cleaner.
	Clean bool

	// AssignIDs stamps every node with a deterministic id.
	AssignIDs bool
}

// DefaultOptions returns the default parse and PDF options.
func DefaultOptions() Options {
	return Options{
		Parse: contentobj.DefaultParseOptions(),
		PDF:   contentobj.DefaultPDFOptions(),
	}
}

// Result is the outcome of extracting one source.
type Result struct {
	Name      string
	Format    Format
	MediaType string

	// Detection is set when the format had to be detected from content.
	Detection *contentobj.Detection

	// Title is the page title reported by the Cleaner, if any.
	Title string
	Nodes []contentobj.Node

	// PDF is the analysis of a PDF source.
	PDF *contentobj.PDFDocument

	// Warnings describe problems that did not stop extraction.
	Warnings []string
}

// Extractor turns raw sources into content nodes.
type Extractor struct {
	detector contentobj.Detector
	html     contentobj.HTMLParser
	pdf      contentobj.PDFAnalyzer
	cleaner  contentobj.Cleaner
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithCleaner sets the Cleaner used when Options.Clean is set.
func WithCleaner(c contentobj.Cleaner) Option {
	return func(e *Extractor) {
		e.cleaner = c
	}
}

// NewExtractor creates an Extractor.
func NewExtractor(detector contentobj.Detector, html contentobj.HTMLParser, pdf contentobj.PDFAnalyzer, opts ...Option) *Extractor {
	e := &Extractor{detector: detector, html: html, pdf: pdf}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract reads src and converts it. Only failures to read src are
// returned; malformed content yields fewer nodes and a warning.
func (e *Extractor) Extract(ctx context.Context, src contentobj.RawSource, opts Options) (*Result, error) {
	data, err := src.Bytes(ctx)
	if err != nil {
		return nil, err
	}

	// The declared media type is only known once the bytes have been read.
	res := &Result{Name: src.Name(), MediaType: baseType(src.MediaType())}
	res.Format = routeDeclared(res.MediaType, src.Name())
	if res.Format == "" {
		det := e.detector.DetectBytes(data, nameHint(src.Name()))
		res.Detection = det
		res.MediaType = det.MediaType
		res.Format = routeDetected(det)
	}

	switch res.Format {
	case FormatHTML:
		e.extractHTML(res, data, src, opts)
	case FormatPDF:
		res.PDF = e.pdf.Analyze(ctx, data, opts.PDF)
		res.Nodes = res.PDF.Nodes()
	case FormatText:
		if text := detect.Decode(data, res.Detection.Encoding); strings.TrimSpace(text) != "" {
			res.Nodes = []contentobj.Node{contentobj.NewText(text)}
		}
	}

	if opts.AssignIDs {
		AssignIDs(res.Nodes)
	}
	return res, nil
}

func (e *Extractor) extractHTML(res *Result, data []byte, src contentobj.RawSource, opts Options) {
	page := DecodeHTML(data, src.MediaType())

	if opts.Clean && e.cleaner != nil {
		cleaned, err := e.cleaner.Clean(page)
		switch {
		case err != nil:
			res.Warnings = append(res.Warnings, "clean: "+err.Error())
		case strings.TrimSpace(cleaned.ContentHTML) == "":
			res.Warnings = append(res.Warnings, "clean: no main content found")
		default:
			res.Title = cleaned.Title
			page = cleaned.ContentHTML
		}
	}

	parseOpts := opts.Parse
	if parseOpts.BaseURL == "" && isURL(src.Name()) {
		parseOpts.BaseURL = src.Name()
	}
	nodes, err := e.html.Parse(page, parseOpts)
	if err != nil {
		res.Warnings = append(res.Warnings, "parse: "+err.Error())
		return
	}
	res.Nodes = nodes
}

// DecodeHTML decodes an HTML document using the charset of contentType, a
// byte order mark or a meta declaration, defaulting to windows-1252 as
// browsers do.
func DecodeHTML(data []byte, contentType string) string {
	enc, _, _ := charset.DetermineEncoding(data, contentType)
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return detect.Decode(data, "")
	}
	decoded = bytes.TrimPrefix(decoded, []byte("\xEF\xBB\xBF"))
	return strings.TrimPrefix(strings.ToValidUTF8(string(decoded), "\uFFFD"), "\uFEFF")
}

func routeDeclared(mediaType, name string) Format {
	switch mediaType {
	case "text/html", "application/xhtml+xml":
		return FormatHTML
	case "application/pdf":
		return FormatPDF
	}
	switch strings.ToLower(extension(name)) {
	case ".html", ".htm", ".xhtml":
		return FormatHTML
	case ".pdf":
		return FormatPDF
	}
	return ""
}

func routeDetected(det *contentobj.Detection) Format {
	switch det.MediaType {
	case "text/html", "application/xhtml+xml":
		return FormatHTML
	case "application/pdf":
		return FormatPDF
	}
	if det.IsText {
		return FormatText
	}
	return FormatBinary
}

// baseType strips parameters and lower-cases a media type.
func baseType(mediaType string) string {
	if mediaType == "" {
		return ""
	}
	if t, _, err := mime.ParseMediaType(mediaType); err == nil {
		return t
	}
	t, _, _ := strings.Cut(mediaType, ";")
	return strings.ToLower(strings.TrimSpace(t))
}

func isURL(name string) bool {
	u, err := url.Parse(name)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// nameHint returns the file name part of a source name.
func nameHint(name string) string {
	if isURL(name) {
		u, _ := url.Parse(name)
		if base := path.Base(u.Path); base != "/" && base != "." {
			return base
		}
		return ""
	}
	return name
}

func extension(name string) string {
	return filepath.Ext(nameHint(name))
}
