package contentobj

import (
	"context"
	"strconv"
	"strings"
	"unicode/utf8"
)

// PDFType classifies a PDF by what its first page contains.
type PDFType string

// PDF types.
const (
	PDFTextBased  PDFType = "text_based"
	PDFImageBased PDFType = "image_based"
	PDFMixed      PDFType = "mixed"
	PDFEmpty      PDFType = "empty"
	PDFUnknown    PDFType = "unknown"
)

// ClassifyPage returns the PDF type implied by a page's text and images.
func ClassifyPage(hasText, hasImages bool) PDFType {
	switch {
	case hasText && hasImages:
		return PDFMixed
	case hasText:
		return PDFTextBased
	case hasImages:
		return PDFImageBased
	}
	return PDFEmpty
}

// ProviderNone names the degraded mode in which no PDF provider served.
const ProviderNone = "none"

// BBox is a bounding box in PDF user space.
type BBox struct {
	X0, Y0, X1, Y1 float64
}

// TextBlock is a run of text on a page. BBox is nil when the provider that
// extracted it exposes no geometry.
type TextBlock struct {
	Text string
	BBox *BBox
}

// PDFPage is the text of one PDF page.
type PDFPage struct {
	BaseNode

	// PageNumber is 1-based.
	PageNumber int
	Content    string
	WordCount  int
	CharCount  int
	Blocks     []TextBlock

	// HasImages reports whether the page embeds image XObjects.
	HasImages bool
}

// NewPDFPage returns a page with word and character counts computed from text.
func NewPDFPage(number int, text string) *PDFPage {
	return &PDFPage{
		PageNumber: number,
		Content:    text,
		WordCount:  len(strings.Fields(text)),
		CharCount:  utf8.RuneCountInString(text),
	}
}

func (p *PDFPage) Kind() Kind          { return KindPDFPage }
func (p *PDFPage) TextContent() string { return p.Content }

// IsEmpty reports whether the page has no visible text.
func (p *PDFPage) IsEmpty() bool { return strings.TrimSpace(p.Content) == "" }

// Preview returns the first n runes of the trimmed page text, with "..."
// appended when the text was cut.
func (p *PDFPage) Preview(n int) string {
	text := []rune(strings.TrimSpace(p.Content))
	if len(text) <= n {
		return string(text)
	}
	return string(text[:n]) + "..."
}

// Sentences splits the page text at sentence punctuation.
func (p *PDFPage) Sentences() []string {
	var out []string
	for _, s := range strings.FieldsFunc(p.Content, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	}) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// searchContext is the number of bytes of context kept around a match.
const searchContext = 50

// Match is an occurrence of a query in a page. Start and End are byte
// offsets into the page text.
type Match struct {
	Start      int
	End        int
	Context    string
	PageNumber int
}

// Search returns the non-overlapping occurrences of query in the page text.
func (p *PDFPage) Search(query string, caseSensitive bool) []Match {
	if query == "" {
		return nil
	}
	text := p.Content
	if !caseSensitive {
		text = strings.ToLower(text)
		query = strings.ToLower(query)
	}
	var matches []Match
	for offset := 0; ; {
		i := strings.Index(text[offset:], query)
		if i < 0 {
			break
		}
		start := offset + i
		end := start + len(query)
		matches = append(matches, Match{
			Start:      start,
			End:        end,
			Context:    strings.ToValidUTF8(text[max(0, start-searchContext):min(len(text), end+searchContext)], ""),
			PageNumber: p.PageNumber,
		})
		offset = end
	}
	return matches
}

func (p *PDFPage) RawData() map[string]any {
	blocks := make([]map[string]any, 0, len(p.Blocks))
	for _, b := range p.Blocks {
		block := map[string]any{"text": b.Text, "bbox": nil}
		if b.BBox != nil {
			block["bbox"] = []float64{b.BBox.X0, b.BBox.Y0, b.BBox.X1, b.BBox.Y1}
		}
		blocks = append(blocks, block)
	}
	return map[string]any{
		"page_number":  p.PageNumber,
		"text_content": p.Content,
		"word_count":   p.WordCount,
		"char_count":   p.CharCount,
		"has_images":   p.HasImages,
		"text_blocks":  blocks,
	}
}

// PDFMetadata is document-level PDF information. Unknown fields are empty.
type PDFMetadata struct {
	BaseNode
	Title            string
	Author           string
	Subject          string
	PagesCount       int
	CreationDate     string
	ModificationDate string
	Producer         string
	PDFVersion       string
	Encrypted        bool
	PDFType          PDFType

	// Method names the provider that read the document.
	Method string
}

func (m *PDFMetadata) Kind() Kind { return KindPDFMetadata }

func (m *PDFMetadata) TextContent() string {
	var lines []string
	add := func(label, value string) {
		if value != "" {
			lines = append(lines, label+": "+value)
		}
	}
	add("Title", m.Title)
	add("Author", m.Author)
	add("Subject", m.Subject)
	lines = append(lines, "Pages: "+strconv.Itoa(m.PagesCount))
	add("Created", m.CreationDate)
	add("Modified", m.ModificationDate)
	add("Producer", m.Producer)
	add("PDF version", m.PDFVersion)
	if m.Encrypted {
		lines = append(lines, "Encrypted: yes")
	}
	return strings.Join(lines, "\n")
}

// Summary renders the title, author, page count and encryption in one line.
func (m *PDFMetadata) Summary() string {
	var parts []string
	if m.Title != "" {
		parts = append(parts, strconv.Quote(m.Title))
	}
	if m.Author != "" {
		parts = append(parts, "by "+m.Author)
	}
	parts = append(parts, strconv.Itoa(m.PagesCount)+" page(s)")
	if m.Encrypted {
		parts = append(parts, "(encrypted)")
	}
	return strings.Join(parts, " - ")
}

func (m *PDFMetadata) RawData() map[string]any {
	return map[string]any{
		"title":             m.Title,
		"author":            m.Author,
		"subject":           m.Subject,
		"pages_count":       m.PagesCount,
		"creation_date":     m.CreationDate,
		"modification_date": m.ModificationDate,
		"producer":          m.Producer,
		"pdf_version":       m.PDFVersion,
		"encrypted":         m.Encrypted,
		"pdf_type":          string(m.PDFType),
		"extraction_method": m.Method,
	}
}

// PDFSection is a titled span of PDF text, possibly across pages.
type PDFSection struct {
	BaseNode
	SectionTitle string
	Level        int
	PageStart    int
	PageEnd      int
	Content      string
}

func (s *PDFSection) Kind() Kind { return KindPDFSection }

func (s *PDFSection) TextContent() string {
	if s.SectionTitle == "" {
		return s.Content
	}
	return "[SECTION: " + s.SectionTitle + "]\n" + s.Content
}

// PageSpan returns the number of pages the section covers.
func (s *PDFSection) PageSpan() int { return s.PageEnd - s.PageStart + 1 }

func (s *PDFSection) RawData() map[string]any {
	return map[string]any{
		"section_title": s.SectionTitle,
		"level":         s.Level,
		"page_start":    s.PageStart,
		"page_end":      s.PageEnd,
		"content":       s.Content,
		"page_span":     s.PageSpan(),
	}
}

// AttemptStatus is the outcome of trying one PDF provider.
type AttemptStatus string

// Attempt statuses.
const (
	AttemptOK          AttemptStatus = "ok"
	AttemptUnavailable AttemptStatus = "unavailable"
	AttemptFailed      AttemptStatus = "failed"
)

// Attempt records one provider's outcome for a single analysis.
type Attempt struct {
	Provider string

	// Mode is "stream" or "file".
	Mode   string
	Status AttemptStatus
	Err    string
}

// PDFOptions controls PDF analysis.
type PDFOptions struct {
	// MaxPages limits the pages extracted. Zero means all.
	MaxPages int

	// IncludePageBreaks separates pages in combined text with page markers.
	IncludePageBreaks bool

	// DetectSections splits page text into PDFSections.
	DetectSections bool
}

// DefaultPDFOptions returns all pages with page breaks in combined text.
func DefaultPDFOptions() PDFOptions {
	return PDFOptions{IncludePageBreaks: true}
}

// PDFDocument is the result of analyzing a PDF.
type PDFDocument struct {
	Metadata *PDFMetadata
	Pages    []*PDFPage
	Sections []*PDFSection

	// Provider names the provider that served the request, or ProviderNone.
	Provider string
	Attempts []Attempt
}

// Text joins the page texts. With page breaks, each page after the first
// is preceded by a "--- Page N ---" marker line.
func (d *PDFDocument) Text(includePageBreaks bool) string {
	var sb strings.Builder
	for i, p := range d.Pages {
		if i > 0 {
			if includePageBreaks {
				sb.WriteString("\n\n--- Page " + strconv.Itoa(p.PageNumber) + " ---\n\n")
			} else {
				sb.WriteString("\n\n")
			}
		}
		sb.WriteString(p.Content)
	}
	return sb.String()
}

// Nodes returns the metadata, pages and sections as a flat node list.
func (d *PDFDocument) Nodes() []Node {
	var nodes []Node
	if d.Metadata != nil {
		nodes = append(nodes, d.Metadata)
	}
	for _, p := range d.Pages {
		nodes = append(nodes, p)
	}
	for _, s := range d.Sections {
		nodes = append(nodes, s)
	}
	return nodes
}

// PDFAnalyzer extracts pages and metadata from PDF bytes.
// Malformed input yields an empty document, never an error.
type PDFAnalyzer interface {
	Analyze(ctx context.Context, data []byte, opts PDFOptions) *PDFDocument
}
