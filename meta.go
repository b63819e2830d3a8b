package gemini

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MetaMaxLen is the maximum permitted UTF-8 byte length of a Meta.
const MetaMaxLen = 1024

// Meta is the validated text portion of a response header. It never
// contains '\n' and its UTF-8 encoding never exceeds MetaMaxLen bytes.
type Meta struct {
	s string
}

// NewMeta validates s against the Meta invariants, failing if it contains
// a newline or exceeds MetaMaxLen bytes.
func NewMeta(s string) (Meta, error) {
	if strings.ContainsRune(s, '\n') {
		return Meta{}, newError(KindInvalidMeta, fmt.Errorf("meta must not contain a newline"))
	}
	if len(s) > MetaMaxLen {
		return Meta{}, newError(KindInvalidMeta, fmt.Errorf("meta exceeds %d bytes", MetaMaxLen))
	}
	return Meta{s: s}, nil
}

// NewMetaLossy coerces s into a valid Meta: it truncates at the first
// embedded '\n', or at the last whole rune whose inclusive end fits within
// MetaMaxLen bytes, whichever comes first. It never fails.
func NewMetaLossy(s string) Meta {
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[:nl]
	}
	if len(s) <= MetaMaxLen {
		return Meta{s: s}
	}
	// Walk rune boundaries, keeping the longest valid prefix that fits.
	end := 0
	for i, r := range s {
		w := utf8.RuneLen(r)
		if w < 0 {
			w = 1
		}
		if i+w > MetaMaxLen {
			break
		}
		end = i + w
	}
	return Meta{s: s[:end]}
}

// EmptyMeta is the zero-value Meta ("").
var EmptyMeta = Meta{}

// String returns the underlying meta string.
func (m Meta) String() string {
	return m.s
}
