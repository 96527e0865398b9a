package pdf

import (
	"bytes"
	"compress/zlib"
	"context"
	"io"
	"regexp"
	"strings"

	"github.com/fwojciec/contentobj"
)

var _ StreamOpener = (*Stream)(nil)

var (
	streamRe  = regexp.MustCompile(`(?s)\bstream\r?\n(.*?)\n?endstream`)
	pageRe    = regexp.MustCompile(`/Type\s*/Page\b`)
	textObjRe = regexp.MustCompile(`(?s)\bBT\b(.*?)\bET\b`)
)

// infoKeys are the Info dictionary entries the Stream provider reads.
var infoKeys = []string{"Title", "Author", "Subject", "Producer", "CreationDate", "ModDate"}

// Stream is a minimal scanner over the raw PDF bytes. It inflates Flate
// streams, decodes text-showing operators and counts page objects. It
// needs no cross-reference table and serves damaged files the other
// providers reject.
type Stream struct{}

// NewStream creates the stream provider.
func NewStream() *Stream {
	return &Stream{}
}

func (*Stream) Name() string { return "stream" }
func (*Stream) Probe() error { return nil }

// Open scans data. Text streams are assigned to pages in order when their
// count matches the page count; otherwise all text goes on the first page.
func (*Stream) Open(_ context.Context, data []byte) (Document, error) {
	if !looksLikePDF(data) {
		return nil, contentobj.Errorf(contentobj.EINVALID, "missing %%PDF header")
	}

	var texts []string
	for _, m := range streamRe.FindAllSubmatch(data, -1) {
		content := m[1]
		if inflated, err := inflate(content); err == nil {
			content = inflated
		}
		if text := contentText(content); strings.TrimSpace(text) != "" {
			texts = append(texts, text)
		}
	}

	n := len(pageRe.FindAll(data, -1))
	if n == 0 && len(texts) > 0 {
		n = 1
	}
	pages := make([]string, n)
	switch {
	case n == 0:
	case len(texts) == n:
		copy(pages, texts)
	default:
		pages[0] = strings.Join(texts, "\n")
	}

	info := Info{Encrypted: bytes.Contains(data, []byte("/Encrypt"))}
	for _, key := range infoKeys {
		value := infoString(data, key)
		switch key {
		case "Title":
			info.Title = value
		case "Author":
			info.Author = value
		case "Subject":
			info.Subject = value
		case "Producer":
			info.Producer = value
		case "CreationDate":
			info.CreationDate = value
		case "ModDate":
			info.ModDate = value
		}
	}
	return &textDocument{pages: pages, info: info}, nil
}

func inflate(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// infoString returns the literal string value of /key, or "".
func infoString(data []byte, key string) string {
	i := bytes.Index(data, []byte("/"+key))
	if i < 0 {
		return ""
	}
	rest := bytes.TrimLeft(data[i+1+len(key):], " \t\r\n")
	if len(rest) == 0 || rest[0] != '(' {
		return ""
	}
	s, _ := literalString(rest)
	return s
}

// contentText decodes the strings shown by Tj, TJ, ' and " inside the text
// objects of a content stream. Line moves become newlines.
func contentText(content []byte) string {
	var sb strings.Builder
	for _, m := range textObjRe.FindAllSubmatch(content, -1) {
		var pending []string
		block := m[1]
		for len(block) > 0 {
			switch c := block[0]; {
			case c == '(':
				s, n := literalString(block)
				pending = append(pending, s)
				block = block[n:]
			case c == '<' && len(block) > 1 && block[1] != '<':
				s, n := hexString(block)
				pending = append(pending, s)
				block = block[n:]
			case isSpace(c) || c == '[' || c == ']':
				block = block[1:]
			default:
				op, n := token(block)
				block = block[n:]
				switch op {
				case "Tj", "TJ":
					sb.WriteString(strings.Join(pending, ""))
				case "'", `"`:
					sb.WriteString("\n")
					sb.WriteString(strings.Join(pending, ""))
				case "Td", "TD", "T*", "Tm":
					if sb.Len() > 0 {
						sb.WriteString("\n")
					}
				}
				if op != "" && !isNumber(op) {
					pending = pending[:0]
				}
			}
		}
		sb.WriteString("\n")
	}
	return collapseLines(sb.String())
}

// collapseLines trims every line and drops empty ones.
func collapseLines(s string) string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// literalString decodes a parenthesized string at the start of b and
// returns it with the number of bytes consumed.
func literalString(b []byte) (string, int) {
	var sb strings.Builder
	depth := 0
	for i := 0; i < len(b); i++ {
		c := b[i]
		switch {
		case c == '\\' && i+1 < len(b):
			i++
			switch e := b[i]; e {
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			case 'b', 'f':
			case '\r', '\n':
			default:
				if e >= '0' && e <= '7' {
					v, j := 0, 0
					for j < 3 && i+j < len(b) && b[i+j] >= '0' && b[i+j] <= '7' {
						v = v*8 + int(b[i+j]-'0')
						j++
					}
					sb.WriteRune(rune(byte(v)))
					i += j - 1
				} else {
					sb.WriteByte(e)
				}
			}
		case c == '(':
			if depth > 0 {
				sb.WriteByte(c)
			}
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				return sb.String(), i + 1
			}
			sb.WriteByte(c)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String(), len(b)
}

// hexString decodes a <...> string at the start of b. Two-byte code units
// are assumed when the string starts with a UTF-16 byte order mark.
func hexString(b []byte) (string, int) {
	end := bytes.IndexByte(b, '>')
	if end < 0 {
		return "", len(b)
	}
	var digits []byte
	for _, c := range b[1:end] {
		if !isSpace(c) {
			digits = append(digits, c)
		}
	}
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	raw := make([]byte, 0, len(digits)/2)
	for i := 0; i+1 < len(digits); i += 2 {
		hi, ok1 := unhex(digits[i])
		lo, ok2 := unhex(digits[i+1])
		if !ok1 || !ok2 {
			return "", end + 1
		}
		raw = append(raw, hi<<4|lo)
	}
	if len(raw) >= 2 && raw[0] == 0xFE && raw[1] == 0xFF {
		var sb strings.Builder
		for i := 2; i+1 < len(raw); i += 2 {
			sb.WriteRune(rune(raw[i])<<8 | rune(raw[i+1]))
		}
		return sb.String(), end + 1
	}
	var sb strings.Builder
	for _, c := range raw {
		sb.WriteRune(rune(c))
	}
	return sb.String(), end + 1
}

func unhex(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// token returns the run of regular characters at the start of b. Every
// call consumes at least one byte.
func token(b []byte) (string, int) {
	n := 0
	for n < len(b) && !isSpace(b[n]) && !strings.ContainsRune("()<>[]/", rune(b[n])) {
		n++
	}
	if n == 0 {
		return "", 1
	}
	return string(b[:n]), n
}

func isNumber(s string) bool {
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' && r != '-' && r != '+' {
			return false
		}
	}
	return s != ""
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}
