package fileio

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decoded wraps r so that it yields UTF-8, detecting the source charset
// from the first 2 KB.
func decoded(r io.Reader) io.Reader {
	br := bufio.NewReader(r)

	peek, _ := br.Peek(2048)
	if bytes.HasPrefix(peek, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
		return br
	}

	if validUTF8(peek) {
		return br
	}

	cs := ""
	if det, err := chardet.NewTextDetector().DetectBest(peek); err == nil && det != nil {
		cs = strings.ToLower(det.Charset)
	}
	dec := decoderFor(cs)
	if dec == nil {
		// not UTF-8 and nothing we know: lists typed on Windows are cp1252
		dec = charmap.Windows1252
	}
	return transform.NewReader(br, dec.NewDecoder())
}

// validUTF8 ignores a multi-byte sequence cut by the peek window.
func validUTF8(b []byte) bool {
	for i := 0; i < utf8.UTFMax && len(b) > 0; i++ {
		if utf8.Valid(b) {
			return true
		}
		b = b[:len(b)-1]
	}
	return utf8.Valid(b)
}

func decoderFor(charset string) encoding.Encoding {
	switch charset {
	case "windows-1252", "cp1252":
		return charmap.Windows1252
	case "iso-8859-1", "latin1":
		return charmap.ISO8859_1
	case "iso-8859-9":
		return charmap.ISO8859_9
	case "iso-8859-15":
		return charmap.ISO8859_15
	default:
		return nil
	}
}

func readText(r io.Reader) (string, error) {
	b, err := io.ReadAll(decoded(r))
	if err != nil {
		return "", err
	}
	return string(b), nil
}
