package protocol

import (
	"strings"
	"unicode/utf8"
)

// DecodeLossy turns raw request bytes into text. Every invalid byte becomes
// its own U+FFFD, so two bad bytes read as two replacement characters.
func DecodeLossy(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}

	var b strings.Builder
	b.Grow(len(raw) + 8)
	for len(raw) > 0 {
		r, size := utf8.DecodeRune(raw)
		if r == utf8.RuneError && size == 1 {
			b.WriteRune(utf8.RuneError)
		} else {
			b.Write(raw[:size])
		}
		raw = raw[size:]
	}
	return b.String()
}
