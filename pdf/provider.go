package pdf

import (
	"context"

	"github.com/fwojciec/contentobj"
)

// Provider is a PDF reading backend. A provider opens documents from bytes
// (StreamOpener), from a file on disk (FileOpener), or both.
type Provider interface {
	// Name identifies the provider in attempts and metadata.
	Name() string

	// Probe reports whether the provider can run in this environment.
	// It is called once, when the Analyzer is constructed.
	Probe() error
}

// StreamOpener opens a document from an in-memory buffer.
type StreamOpener interface {
	Open(ctx context.Context, data []byte) (Document, error)
}

// FileOpener opens a document from a file path.
type FileOpener interface {
	OpenFile(ctx context.Context, path string) (Document, error)
}

// Document is an opened PDF.
type Document interface {
	NumPages() int

	// Page returns page n, 1-based.
	Page(n int) (Page, error)
	Info() Info
	Close() error
}

// Page is the content a provider extracted from one page.
type Page struct {
	Text      string
	Blocks    []contentobj.TextBlock
	HasImages bool
}

// Info is document-level information as stored in the PDF.
// Dates are raw PDF date strings.
type Info struct {
	Title        string
	Author       string
	Subject      string
	Producer     string
	CreationDate string
	ModDate      string
	Version      string
	Encrypted    bool
}

// textDocument is a Document over already extracted page texts.
type textDocument struct {
	pages []string
	info  Info
}

func (d *textDocument) NumPages() int { return len(d.pages) }

func (d *textDocument) Page(n int) (Page, error) {
	if n < 1 || n > len(d.pages) {
		return Page{}, contentobj.Errorf(contentobj.ENOTFOUND, "page %d out of range", n)
	}
	return Page{Text: d.pages[n-1]}, nil
}

func (d *textDocument) Info() Info   { return d.info }
func (d *textDocument) Close() error { return nil }
