// Package textenc reads source files whose encoding is not known in
// advance. It favors UTF-8, falls back to UTF-16 (with or without BOM),
// Shift-JIS/CP932, and finally Latin-1, and reports the encoding it
// settled on so callers can surface it alongside analysis results.
package textenc

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"

	"github.com/termfx/scry/core"
)

// Canonical encoding names reported by ReadFileSafe.
const (
	EncodingUTF8     = "utf-8"
	EncodingUTF8BOM  = "utf-8-sig"
	EncodingUTF16LE  = "utf-16-le"
	EncodingUTF16BE  = "utf-16-be"
	EncodingShiftJIS = "shift_jis"
	EncodingLatin1   = "latin-1"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// ReadFileSafe reads path and decodes its content, returning the text
// and the canonical name of the detected encoding.
func ReadFileSafe(path string) (string, string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return "", "", fmt.Errorf("%s: %w", path, core.ErrFileNotFound)
		case errors.Is(err, fs.ErrPermission):
			return "", "", fmt.Errorf("%s: %w", path, core.ErrPermissionDenied)
		default:
			return "", "", err
		}
	}
	return Decode(raw)
}

// Decode detects the encoding of raw bytes and returns the decoded text.
// A file consisting only of a BOM decodes to the empty string with the
// matching encoding name.
func Decode(raw []byte) (string, string, error) {
	if len(raw) == 0 {
		return "", EncodingUTF8, nil
	}

	switch {
	case bytes.HasPrefix(raw, bomUTF8):
		body := raw[len(bomUTF8):]
		if !utf8.Valid(body) {
			return "", "", fmt.Errorf("utf-8 BOM with invalid body: %w", core.ErrEncodingUndetectable)
		}
		return string(body), EncodingUTF8BOM, nil
	case bytes.HasPrefix(raw, bomUTF16LE):
		text, err := decodeUTF16(raw, unicode.LittleEndian, unicode.ExpectBOM)
		if err != nil {
			return "", "", err
		}
		return text, EncodingUTF16LE, nil
	case bytes.HasPrefix(raw, bomUTF16BE):
		text, err := decodeUTF16(raw, unicode.BigEndian, unicode.ExpectBOM)
		if err != nil {
			return "", "", err
		}
		return text, EncodingUTF16BE, nil
	}

	// BOM-less UTF-16 shows up as a high density of NUL bytes in one
	// byte position of each pair. ASCII-range UTF-16 is also valid
	// UTF-8, so this check runs before the UTF-8 one.
	if enc, endian := sniffUTF16(raw); enc != "" {
		text, err := decodeUTF16(raw, endian, unicode.IgnoreBOM)
		if err == nil {
			return text, enc, nil
		}
	}

	if utf8.Valid(raw) {
		return string(raw), EncodingUTF8, nil
	}

	if text, ok := decodeWith(japanese.ShiftJIS.NewDecoder().Bytes, raw); ok {
		return text, EncodingShiftJIS, nil
	}

	// Latin-1 maps every byte; this is the last resort, not a detection.
	if text, ok := decodeWith(charmap.ISO8859_1.NewDecoder().Bytes, raw); ok {
		return text, EncodingLatin1, nil
	}

	return "", "", core.ErrEncodingUndetectable
}

func decodeUTF16(raw []byte, endian unicode.Endianness, bom unicode.BOMPolicy) (string, error) {
	dec := unicode.UTF16(endian, bom).NewDecoder()
	out, err := dec.Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("utf-16 decode: %w", core.ErrEncodingUndetectable)
	}
	return string(out), nil
}

// sniffUTF16 guesses BOM-less UTF-16 from NUL-byte distribution over the
// first kilobyte. ASCII-heavy UTF-16 text has a NUL in nearly every pair.
func sniffUTF16(raw []byte) (string, unicode.Endianness) {
	if len(raw) < 4 || len(raw)%2 != 0 {
		return "", unicode.LittleEndian
	}
	window := raw
	if len(window) > 1024 {
		window = window[:1024]
	}
	var evenNul, oddNul int
	for i, b := range window {
		if b != 0 {
			continue
		}
		if i%2 == 0 {
			evenNul++
		} else {
			oddNul++
		}
	}
	pairs := len(window) / 2
	switch {
	case oddNul*10 >= pairs*7:
		return EncodingUTF16LE, unicode.LittleEndian
	case evenNul*10 >= pairs*7:
		return EncodingUTF16BE, unicode.BigEndian
	}
	return "", unicode.LittleEndian
}

// decodeWith rejects decodes that only succeeded by substituting
// replacement runes; x/text decoders replace rather than error.
func decodeWith(decode func([]byte) ([]byte, error), raw []byte) (string, bool) {
	out, err := decode(raw)
	if err != nil {
		return "", false
	}
	if !utf8.Valid(out) || bytes.ContainsRune(out, utf8.RuneError) {
		return "", false
	}
	return string(out), true
}
