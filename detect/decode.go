package detect

import (
	"bytes"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// Decode converts data in the named encoding to a string. A leading
// byte-order mark is dropped and invalid sequences become U+FFFD. Unknown
// labels decode as windows-1252. Decode never fails.
func Decode(data []byte, name string) string {
	label := NormalizeEncoding(name)
	if label == "" || label == EncodingUTF8 {
		data = bytes.TrimPrefix(data, bomUTF8)
		return strings.ToValidUTF8(string(data), "\uFFFD")
	}

	out, err := lookup(label).NewDecoder().Bytes(data)
	if err != nil {
		out, _ = charmap.Windows1252.NewDecoder().Bytes(data)
	}
	return strings.TrimPrefix(string(out), "\uFEFF")
}

func lookup(label string) encoding.Encoding {
	switch label {
	case EncodingUTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	case EncodingUTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	}
	if enc, err := htmlindex.Get(label); err == nil {
		return enc
	}
	return charmap.Windows1252
}
