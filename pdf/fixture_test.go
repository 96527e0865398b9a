package pdf_test

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"strings"
)

// fixturePage describes one page of a generated PDF.
type fixturePage struct {
	lines []string
	image bool
}

// fixture describes a generated PDF.
type fixture struct {
	title    string
	author   string
	created  string
	compress bool
	pages    []fixturePage
}

// build renders the fixture as a PDF 1.4 file with a valid cross-reference
// table. Text is set in Helvetica, one Tj per line.
func (f fixture) build() []byte {
	var objects []string
	add := func(body string) int {
		objects = append(objects, body)
		return len(objects)
	}

	catalog := add("") // filled in once the page tree exists
	pagesID := add("")
	font := add("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	var kids []string
	for _, p := range f.pages {
		var content strings.Builder
		for i, line := range p.lines {
			fmt.Fprintf(&content, "BT /F1 12 Tf 72 %d Td (%s) Tj ET\n", 720-14*i, line)
		}
		contents := add(f.stream(content.String()))

		resources := fmt.Sprintf("/Font << /F1 %d 0 R >>", font)
		if p.image {
			img := add("<< /Type /XObject /Subtype /Image /Width 1 /Height 1 /ColorSpace /DeviceGray /BitsPerComponent 8 /Length 1 >>\nstream\n\x00\nendstream")
			resources += fmt.Sprintf(" /XObject << /Im1 %d 0 R >>", img)
		}
		page := add(fmt.Sprintf("<< /Type /Page /Parent %d 0 R /MediaBox [0 0 612 792] /Resources << %s >> /Contents %d 0 R >>",
			pagesID, resources, contents))
		kids = append(kids, fmt.Sprintf("%d 0 R", page))
	}
	objects[catalog-1] = fmt.Sprintf("<< /Type /Catalog /Pages %d 0 R >>", pagesID)
	objects[pagesID-1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(kids))

	info := add(fmt.Sprintf("<< /Title (%s) /Author (%s) /CreationDate (%s) /Producer (fixture) >>", f.title, f.author, f.created))

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, body := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root %d 0 R /Info %d 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(objects)+1, catalog, info, xref)
	return buf.Bytes()
}

func (f fixture) stream(content string) string {
	if !f.compress {
		return fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content)
	}
	var z bytes.Buffer
	w := zlib.NewWriter(&z)
	_, _ = w.Write([]byte(content))
	_ = w.Close()
	return fmt.Sprintf("<< /Length %d /Filter /FlateDecode >>\nstream\n%s\nendstream", z.Len(), z.String())
}

func sample() fixture {
	return fixture{
		title:   "Annual Report",
		author:  "Jane Doe",
		created: "D:20240131120000+01'00'",
		pages: []fixturePage{
			{lines: []string{"1. Introduction", "Hello page one"}},
			{lines: []string{"Second page text", "2. Results", "It worked"}, image: true},
			{lines: []string{"Closing words"}},
		},
	}
}
