package encoding_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/MrJamesThe3rd/fintrack/internal/encoding"
)

const statement = "date;description;amount\n2025-01-03;Café Müller;-4,50\n"

func readAll(t *testing.T, input []byte) (string, encoding.Charset) {
	t.Helper()

	r, cs, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(got), cs
}

func TestNewUTF8Reader(t *testing.T) {
	latin1, err := charmap.Windows1252.NewEncoder().String(statement)
	require.NoError(t, err)

	utf16le, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String(statement)
	require.NoError(t, err)

	tests := []struct {
		name        string
		input       []byte
		wantCharset encoding.Charset
	}{
		{name: "PlainUTF8", input: []byte(statement), wantCharset: encoding.UTF8},
		{name: "UTF8WithBOM", input: append([]byte{0xEF, 0xBB, 0xBF}, statement...), wantCharset: encoding.UTF8},
		{name: "Windows1252", input: []byte(latin1), wantCharset: encoding.Windows1252},
		{name: "UTF16LEWithBOM", input: []byte(utf16le), wantCharset: encoding.UTF16LE},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, cs := readAll(t, tt.input)

			assert.Equal(t, tt.wantCharset, cs)
			assert.Equal(t, statement, got)
		})
	}
}

func TestNewUTF8Reader_LargeUTF8SplitAtSniffBoundary(t *testing.T) {
	// pad so a two-byte rune straddles the sniffed prefix
	input := strings.Repeat("a", 4095) + "é" + strings.Repeat("b", 10)

	got, cs := readAll(t, []byte(input))

	assert.Equal(t, encoding.UTF8, cs)
	assert.Equal(t, input, got)
}

func TestDetect_Empty(t *testing.T) {
	assert.Equal(t, encoding.UTF8, encoding.Detect(nil))
}
