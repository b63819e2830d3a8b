package gemini

import (
	"bytes"
	"io"
)

// Body is a tagged union of an in-memory byte sequence or a streaming byte
// source. A Response owns its Body exclusively until it is taken by the
// serializer.
type Body struct {
	bytes  []byte
	reader io.Reader
}

// BytesBody wraps an in-memory byte sequence as a Body.
func BytesBody(b []byte) Body {
	return Body{bytes: b}
}

// StringBody wraps a string as a Body.
func StringBody(s string) Body {
	return Body{bytes: []byte(s)}
}

// ReaderBody wraps a streaming byte source as a Body. The reader is owned
// by the Response until TakeBody is called and the body is written to the
// wire; the caller must not read from it concurrently.
func ReaderBody(r io.Reader) Body {
	return Body{reader: r}
}

// DocumentBody serializes doc to its text/gemini form and wraps the result
// as an in-memory Body.
func DocumentBody(doc *Document) Body {
	return StringBody(doc.String())
}

// IsStreaming reports whether the Body is backed by a reader rather than an
// in-memory byte slice.
func (b Body) IsStreaming() bool {
	return b.reader != nil
}

// asReader returns an io.Reader over the body's contents, regardless of which
// arm is populated.
func (b Body) asReader() io.Reader {
	if b.reader != nil {
		return b.reader
	}
	return bytes.NewReader(b.bytes)
}

// Reader returns an io.Reader over the body's contents, regardless of
// whether it is backed by an in-memory byte slice or a stream. Callers
// outside the package use this to inspect a Response's body, typically in
// tests.
func (b Body) Reader() io.Reader {
	return b.asReader()
}
