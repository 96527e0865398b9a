package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/fwojciec/contentobj"
	lpdf "github.com/ledongthuc/pdf"
)

var (
	_ StreamOpener = (*Ledongthuc)(nil)
	_ FileOpener   = (*Ledongthuc)(nil)
)

// Ledongthuc reads PDFs with github.com/ledongthuc/pdf. It is pure Go and
// always available.
type Ledongthuc struct{}

// NewLedongthuc creates the ledongthuc provider.
func NewLedongthuc() *Ledongthuc {
	return &Ledongthuc{}
}

func (*Ledongthuc) Name() string { return "ledongthuc" }
func (*Ledongthuc) Probe() error { return nil }

// Open reads the document from memory.
func (*Ledongthuc) Open(_ context.Context, data []byte) (Document, error) {
	r, err := lpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	return &ledongthucDocument{r: r}, nil
}

// OpenFile reads the document from path. The file stays open until the
// document is closed.
func (*Ledongthuc) OpenFile(_ context.Context, path string) (Document, error) {
	f, r, err := lpdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf file: %w", err)
	}
	return &ledongthucDocument{r: r, closer: f}, nil
}

type ledongthucDocument struct {
	r      *lpdf.Reader
	closer io.Closer
}

func (d *ledongthucDocument) NumPages() int { return d.r.NumPage() }

func (d *ledongthucDocument) Page(n int) (Page, error) {
	p := d.r.Page(n)
	if p.V.IsNull() {
		return Page{}, contentobj.Errorf(contentobj.ENOTFOUND, "page %d not found", n)
	}

	text, err := p.GetPlainText(nil)
	if err != nil {
		return Page{}, fmt.Errorf("page %d text: %w", n, err)
	}
	page := Page{Text: text, HasImages: hasImages(p.V.Key("Resources"))}

	// Row geometry is optional; pages whose rows fail keep their text.
	if rows, err := p.GetTextByRow(); err == nil {
		for _, row := range rows {
			if block, ok := rowBlock(row); ok {
				page.Blocks = append(page.Blocks, block)
			}
		}
	}
	return page, nil
}

// rowBlock joins the runs of a text row and bounds them.
func rowBlock(row *lpdf.Row) (contentobj.TextBlock, bool) {
	if row == nil || len(row.Content) == 0 {
		return contentobj.TextBlock{}, false
	}
	var buf bytes.Buffer
	first := row.Content[0]
	box := contentobj.BBox{X0: first.X, Y0: first.Y, X1: first.X + first.W, Y1: first.Y + first.FontSize}
	for _, t := range row.Content {
		buf.WriteString(t.S)
		box.X0 = min(box.X0, t.X)
		box.Y0 = min(box.Y0, t.Y)
		box.X1 = max(box.X1, t.X+t.W)
		box.Y1 = max(box.Y1, t.Y+t.FontSize)
	}
	text := buf.String()
	if len(bytes.TrimSpace(buf.Bytes())) == 0 {
		return contentobj.TextBlock{}, false
	}
	return contentobj.TextBlock{Text: text, BBox: &box}, true
}

// hasImages reports whether a resource dictionary holds image XObjects.
func hasImages(resources lpdf.Value) bool {
	xobjects := resources.Key("XObject")
	if xobjects.Kind() != lpdf.Dict {
		return false
	}
	for _, name := range xobjects.Keys() {
		if xobjects.Key(name).Key("Subtype").Name() == "Image" {
			return true
		}
	}
	return false
}

func (d *ledongthucDocument) Info() Info {
	trailer := d.r.Trailer()
	info := trailer.Key("Info")
	return Info{
		Title:        info.Key("Title").Text(),
		Author:       info.Key("Author").Text(),
		Subject:      info.Key("Subject").Text(),
		Producer:     info.Key("Producer").Text(),
		CreationDate: info.Key("CreationDate").Text(),
		ModDate:      info.Key("ModDate").Text(),
		Encrypted:    !trailer.Key("Encrypt").IsNull(),
	}
}

func (d *ledongthucDocument) Close() error {
	if d.closer == nil {
		return nil
	}
	return d.closer.Close()
}
