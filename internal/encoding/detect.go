package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	xencoding "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	CharsetUTF8        = "UTF-8"
	CharsetUTF16LE     = "UTF-16LE"
	CharsetUTF16BE     = "UTF-16BE"
	CharsetWindows1252 = "windows-1252"
	CharsetWindows1256 = "windows-1256"
	CharsetISO8859_6   = "ISO-8859-6"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// legacy maps chardet results to the single-byte code pages roster files arrive in.
var legacy = map[string]xencoding.Encoding{
	"ISO-8859-1":   charmap.Windows1252,
	"windows-1252": charmap.Windows1252,
	"windows-1256": charmap.Windows1256,
	"ISO-8859-6":   charmap.ISO8859_6,
}

// Reader yields UTF-8 text and remembers which charset the input was decoded from.
type Reader struct {
	io.Reader
	Charset string
}

// NewUTF8Reader detects the encoding of the input and returns a reader
// that decodes the content to UTF-8.
//
// Detection order:
//  1. Check for BOM (UTF-8 BOM is stripped; UTF-16 LE/BE is decoded)
//  2. Validate if the content is valid UTF-8 and return as-is
//  3. Heuristic detection via chardet (Latin and Arabic code pages)
//  4. Fallback to Windows-1252
func NewUTF8Reader(r io.Reader) (*Reader, error) {
	br := bufio.NewReader(r)

	buf, err := br.Peek(4096)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("peek: %w", err)
	}

	switch {
	case bytes.HasPrefix(buf, bomUTF8):
		_, _ = br.Discard(len(bomUTF8))
		return &Reader{Reader: br, Charset: CharsetUTF8}, nil
	case bytes.HasPrefix(buf, bomUTF16LE):
		return decode(br, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), CharsetUTF16LE), nil
	case bytes.HasPrefix(buf, bomUTF16BE):
		return decode(br, unicode.UTF16(unicode.BigEndian, unicode.UseBOM), CharsetUTF16BE), nil
	}

	if utf8.Valid(buf) {
		return &Reader{Reader: br, Charset: CharsetUTF8}, nil
	}

	result, detectErr := chardet.NewTextDetector().DetectBest(buf)
	if detectErr == nil {
		if result.Charset == CharsetUTF8 {
			return &Reader{Reader: br, Charset: CharsetUTF8}, nil
		}

		if enc, ok := legacy[result.Charset]; ok {
			return decode(br, enc, result.Charset), nil
		}
	}

	return decode(br, charmap.Windows1252, CharsetWindows1252), nil
}

func decode(r io.Reader, enc xencoding.Encoding, charset string) *Reader {
	return &Reader{Reader: transform.NewReader(r, enc.NewDecoder()), Charset: charset}
}
