// Package encoding normalizes uploaded statement files to UTF-8.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Charset names the encoding a file was detected as.
type Charset string

const (
	UTF8        Charset = "UTF-8"
	UTF16LE     Charset = "UTF-16LE"
	UTF16BE     Charset = "UTF-16BE"
	Windows1252 Charset = "windows-1252"
	ISO8859_15  Charset = "ISO-8859-15"
)

// sniffSize is how much of the input is inspected.
const sniffSize = 4096

var boms = []struct {
	prefix  []byte
	charset Charset
}{
	{[]byte{0xEF, 0xBB, 0xBF}, UTF8},
	{[]byte{0xFF, 0xFE}, UTF16LE},
	{[]byte{0xFE, 0xFF}, UTF16BE},
}

var decoders = map[Charset]encoding.Encoding{
	UTF16LE:     unicode.UTF16(unicode.LittleEndian, unicode.UseBOM),
	UTF16BE:     unicode.UTF16(unicode.BigEndian, unicode.UseBOM),
	Windows1252: charmap.Windows1252,
	ISO8859_15:  charmap.ISO8859_15,
}

// chardet reports Latin-1 for most western single-byte files; Windows-1252
// is a superset that also covers the euro sign and curly quotes.
var chardetNames = map[string]Charset{
	"UTF-8":        UTF8,
	"ISO-8859-1":   Windows1252,
	"windows-1252": Windows1252,
	"ISO-8859-15":  ISO8859_15,
	"UTF-16LE":     UTF16LE,
	"UTF-16BE":     UTF16BE,
}

// Detect guesses the charset of a file prefix: byte order mark first, then
// UTF-8 validity, then chardet, falling back to Windows-1252.
func Detect(prefix []byte) Charset {
	for _, b := range boms {
		if bytes.HasPrefix(prefix, b.prefix) {
			return b.charset
		}
	}

	if utf8.Valid(trimPartialRune(prefix)) {
		return UTF8
	}

	if res, err := chardet.NewTextDetector().DetectBest(prefix); err == nil {
		if cs, ok := chardetNames[res.Charset]; ok {
			return cs
		}
	}

	return Windows1252
}

// trimPartialRune drops a multi-byte sequence cut off at the end of a sniffed
// prefix so a valid UTF-8 file is not misread as invalid.
func trimPartialRune(b []byte) []byte {
	for i := 1; i < utf8.UTFMax && i <= len(b); i++ {
		if utf8.RuneStart(b[len(b)-i]) {
			if !utf8.FullRune(b[len(b)-i:]) {
				return b[:len(b)-i]
			}

			break
		}
	}

	return b
}

// NewUTF8Reader returns a reader yielding r's content as UTF-8, with any
// UTF-8 byte order mark removed.
func NewUTF8Reader(r io.Reader) (io.Reader, Charset, error) {
	br := bufio.NewReaderSize(r, sniffSize)

	prefix, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", fmt.Errorf("peek: %w", err)
	}

	cs := Detect(prefix)

	if cs == UTF8 {
		if bytes.HasPrefix(prefix, boms[0].prefix) {
			_, _ = br.Discard(len(boms[0].prefix))
		}

		return br, cs, nil
	}

	return transform.NewReader(br, decoders[cs].NewDecoder()), cs, nil
}
