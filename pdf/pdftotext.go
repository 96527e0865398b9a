package pdf

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

var _ FileOpener = (*Pdftotext)(nil)

// DefaultPdftotextBinary is the poppler tool the Pdftotext provider runs.
const DefaultPdftotextBinary = "pdftotext"

// Pdftotext reads PDFs by running poppler's pdftotext on a file. It
// extracts text only: no geometry, images or document info.
type Pdftotext struct {
	binary string
	path   string
}

// PdftotextOption configures a Pdftotext provider.
type PdftotextOption func(*Pdftotext)

// WithBinary sets the executable name or path.
func WithBinary(binary string) PdftotextOption {
	return func(p *Pdftotext) {
		p.binary = binary
	}
}

// NewPdftotext creates the pdftotext provider.
func NewPdftotext(opts ...PdftotextOption) *Pdftotext {
	p := &Pdftotext{binary: DefaultPdftotextBinary}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pdftotext) Name() string { return "pdftotext" }

// Probe looks the binary up on PATH.
func (p *Pdftotext) Probe() error {
	path, err := exec.LookPath(p.binary)
	if err != nil {
		return fmt.Errorf("%s not installed: %w", p.binary, err)
	}
	p.path = path
	return nil
}

// OpenFile runs pdftotext with layout preservation and splits its output
// into pages at form feeds.
func (p *Pdftotext) OpenFile(ctx context.Context, path string) (Document, error) {
	bin := p.path
	if bin == "" {
		bin = p.binary
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "-layout", path, "-")
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("pdftotext: %w: %s", err, msg)
		}
		return nil, fmt.Errorf("pdftotext: %w", err)
	}
	return &textDocument{pages: splitPages(string(out))}, nil
}

// splitPages splits pdftotext output. Every page, the last included, ends
// with a form feed.
func splitPages(out string) []string {
	if out == "" {
		return nil
	}
	pages := strings.Split(out, "\f")
	if len(pages) > 1 && strings.TrimSpace(pages[len(pages)-1]) == "" {
		pages = pages[:len(pages)-1]
	}
	return pages
}
