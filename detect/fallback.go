package detect

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/contentobj"
)

// Encoding labels produced by the fallback rules.
const (
	EncodingUTF8        = "utf-8"
	EncodingUTF16LE     = "utf-16le"
	EncodingUTF16BE     = "utf-16be"
	EncodingWindows1252 = "windows-1252"
)

const (
	mediaTypeText   = "text/plain"
	mediaTypeBinary = "application/octet-stream"

	// textProbeSize is how many leading bytes must be UTF-8 for unknown
	// content to count as text.
	textProbeSize = 100
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

var extensionTypes = map[string]string{
	".html":  "text/html",
	".htm":   "text/html",
	".xhtml": "application/xhtml+xml",
	".txt":   "text/plain",
	".text":  "text/plain",
	".md":    "text/markdown",
	".csv":   "text/csv",
	".tsv":   "text/tab-separated-values",
	".css":   "text/css",
	".js":    "application/javascript",
	".mjs":   "application/javascript",
	".json":  "application/json",
	".xml":   "application/xml",
	".yaml":  "application/yaml",
	".yml":   "application/yaml",
	".svg":   "image/svg+xml",
	".pdf":   "application/pdf",
	".png":   "image/png",
	".jpg":   "image/jpeg",
	".jpeg":  "image/jpeg",
	".gif":   "image/gif",
	".webp":  "image/webp",
	".ico":   "image/x-icon",
	".zip":   "application/zip",
	".gz":    "application/gzip",
	".mp3":   "audio/mpeg",
	".wav":   "audio/wav",
	".ogg":   "audio/ogg",
	".mp4":   "video/mp4",
	".webm":  "video/webm",
	".mov":   "video/quicktime",
	".avi":   "video/x-msvideo",
	".doc":   "application/msword",
	".docx":  "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xlsx":  "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

var signatures = []struct {
	prefix    []byte
	mediaType string
}{
	{[]byte("%PDF"), "application/pdf"},
	{[]byte{0xFF, 0xD8, 0xFF}, "image/jpeg"},
	{[]byte("\x89PNG"), "image/png"},
	{[]byte("GIF8"), "image/gif"},
	{[]byte("PK\x03\x04"), "application/zip"},
	{[]byte{0x00, 0x00, 0x01, 0x00}, "image/x-icon"},
}

// Fallback classifies data with fixed rules only: the extension of name,
// then magic-byte signatures, then a UTF-8 probe of the leading bytes.
// It is deterministic and never fails.
func Fallback(data []byte, name, method string) *contentobj.Detection {
	mediaType, ok := byExtension(name)
	if !ok {
		mediaType = SniffMediaType(data)
	}

	det := &contentobj.Detection{MediaType: mediaType, Method: method}
	if IsTextType(mediaType) {
		det.IsText = true
		det.Encoding = SniffEncoding(data)
	} else {
		det.IsBinary = true
	}
	return det
}

// SniffMediaType guesses a media type from leading bytes. Buffers shorter
// than four bytes are treated as text.
func SniffMediaType(data []byte) string {
	if len(data) < 4 {
		return mediaTypeText
	}
	for _, sig := range signatures {
		if bytes.HasPrefix(data, sig.prefix) {
			return sig.mediaType
		}
	}
	if bytes.HasPrefix(data, bomUTF16LE) || bytes.HasPrefix(data, bomUTF16BE) {
		return mediaTypeText
	}
	if validUTF8(data[:min(len(data), textProbeSize)], len(data) > textProbeSize) {
		return mediaTypeText
	}
	return mediaTypeBinary
}

// SniffEncoding guesses the encoding of text: a byte-order mark wins, then
// UTF-8 if the bytes validate, else windows-1252.
func SniffEncoding(data []byte) string {
	switch {
	case bytes.HasPrefix(data, bomUTF16LE):
		return EncodingUTF16LE
	case bytes.HasPrefix(data, bomUTF16BE):
		return EncodingUTF16BE
	case bytes.HasPrefix(data, bomUTF8):
		return EncodingUTF8
	case validUTF8(data, false):
		return EncodingUTF8
	}
	return EncodingWindows1252
}

// validUTF8 reports whether b is UTF-8. When b was cut from a longer
// buffer, an incomplete rune at the end is ignored.
func validUTF8(b []byte, truncated bool) bool {
	if utf8.Valid(b) {
		return true
	}
	if !truncated {
		return false
	}
	for i := 1; i <= utf8.UTFMax-1 && i < len(b); i++ {
		if utf8.Valid(b[:len(b)-i]) {
			return true
		}
	}
	return false
}

// NormalizeEncoding lower-cases an encoding label and maps common aliases
// onto the labels used by this package.
func NormalizeEncoding(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "utf8", "utf-8-sig", "ascii", "us-ascii":
		return EncodingUTF8
	case "utf-16 le", "utf16le":
		return EncodingUTF16LE
	case "utf-16 be", "utf16be":
		return EncodingUTF16BE
	case "cp1252":
		return EncodingWindows1252
	}
	return n
}
