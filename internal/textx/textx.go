// Package textx decodes user-supplied text files whose encoding is not
// declared.
package textx

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ErrEncoding is returned when the bytes are neither UTF-8 nor Windows-1251.
var ErrEncoding = errors.New("unsupported text encoding")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode returns b as a string. UTF-8 is tried first, then the legacy
// Windows-1251 Cyrillic code page. A leading UTF-8 byte order mark is dropped.
func Decode(b []byte) (string, error) {
	b = bytes.TrimPrefix(b, utf8BOM)
	if utf8.Valid(b) {
		return string(b), nil
	}

	out, err := charmap.Windows1251.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	// 0x98 has no mapping in Windows-1251 and comes back as U+FFFD.
	if bytes.ContainsRune(out, utf8.RuneError) {
		return "", ErrEncoding
	}
	return string(out), nil
}
