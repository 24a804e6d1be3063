// Package encoding converts webhook response bodies to UTF-8 before they are
// parsed. Spreadsheet-backed automation flows occasionally answer in UTF-16 or
// a legacy Windows code page.
package encoding

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const sniffSize = 4096

// MaxBodySize caps the raw bytes DecodeBody reads.
const MaxBodySize = 10 << 20

var ErrBodyTooLarge = errors.New("body too large")

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// DecodeBody reads r to the end and returns its content as UTF-8. Input
// longer than MaxBodySize fails with ErrBodyTooLarge.
func DecodeBody(r io.Reader) ([]byte, error) {
	lr := &io.LimitedReader{R: r, N: MaxBodySize + 1}

	ur, err := NewUTF8Reader(lr)
	if err != nil {
		return nil, err
	}

	body, err := io.ReadAll(ur)
	if err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}

	if lr.N == 0 {
		return nil, fmt.Errorf("decode body: %w", ErrBodyTooLarge)
	}

	return body, nil
}

// NewUTF8Reader sniffs the start of r and returns a reader yielding UTF-8.
//
// Detection order:
//  1. BOM (UTF-8 BOM is stripped; UTF-16 LE/BE is decoded)
//  2. Valid UTF-8 is returned as-is
//  3. chardet heuristics
//  4. Windows-1252
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReaderSize(r, sniffSize)

	buf, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("peek: %w", err)
	}

	switch {
	case bytes.HasPrefix(buf, bomUTF8):
		_, _ = br.Discard(len(bomUTF8))
		return br, nil
	case bytes.HasPrefix(buf, bomUTF16LE):
		return transform.NewReader(br, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()), nil
	case bytes.HasPrefix(buf, bomUTF16BE):
		return transform.NewReader(br, unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()), nil
	}

	if len(buf) == 0 || utf8.Valid(completeRunes(buf, len(buf) == sniffSize)) {
		return br, nil
	}

	result, err := chardet.NewTextDetector().DetectBest(buf)
	if err == nil {
		switch result.Charset {
		case "UTF-8":
			return br, nil
		case "ISO-8859-1", "windows-1252":
			return transform.NewReader(br, charmap.Windows1252.NewDecoder()), nil
		case "ISO-8859-9":
			return transform.NewReader(br, charmap.ISO8859_9.NewDecoder()), nil
		}
	}

	return transform.NewReader(br, charmap.Windows1252.NewDecoder()), nil
}

// completeRunes drops a rune split by the end of the sniff window.
func completeRunes(buf []byte, truncated bool) []byte {
	if !truncated {
		return buf
	}

	for i := 1; i < utf8.UTFMax && i <= len(buf); i++ {
		if utf8.RuneStart(buf[len(buf)-i]) {
			if !utf8.FullRune(buf[len(buf)-i:]) {
				return buf[:len(buf)-i]
			}

			break
		}
	}

	return buf
}
