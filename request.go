package gemini

import (
	"crypto/x509"
	"fmt"
	"net/url"
	"strings"
)

// Request is the single parsed request carried by a Gemini connection. It
// is owned by exactly one handler invocation.
type Request struct {
	uri         URIReference
	input       *string
	certificate *x509.Certificate

	// trailingSegments is set by the dispatcher after routing; accessing it
	// before that happens is a programmer error (spec.md §4.4).
	trailingSegments []string
	trailingSet      bool
}

// NewRequest parses raw as a normalized URI reference and builds a Request
// with no attached certificate. Fails with KindInvalidURI if raw does not
// parse, or KindInvalidRequest if its query component is not valid UTF-8
// after percent-decoding.
func NewRequest(raw string) (*Request, error) {
	return NewRequestWithCertificate(raw, nil)
}

// NewRequestWithCertificate is NewRequest, additionally attaching cert (the
// first certificate of the TLS peer chain, if any).
func NewRequestWithCertificate(raw string, cert *x509.Certificate) (*Request, error) {
	uri, err := ParseURIReference(raw)
	if err != nil {
		return nil, err
	}

	r := &Request{uri: uri, certificate: cert}

	if rawQuery, present := uri.Query(); present {
		decoded, err := url.PathUnescape(rawQuery)
		if err != nil {
			return nil, newError(KindInvalidRequest, err)
		}
		if !isValidUTF8(decoded) {
			return nil, newError(KindInvalidRequest, fmt.Errorf("query is not valid utf-8 after percent-decoding"))
		}
		r.input = &decoded
	}

	return r, nil
}

// URI returns the normalized URI reference of the request.
func (r *Request) URI() URIReference {
	return r.uri
}

// Input returns the percent-decoded query string, or (  "", false) if the
// request had no query component.
func (r *Request) Input() (string, bool) {
	if r.input == nil {
		return "", false
	}
	return *r.input, true
}

// Certificate returns the client's first TLS certificate, if one was
// presented.
func (r *Request) Certificate() (*x509.Certificate, bool) {
	if r.certificate == nil {
		return nil, false
	}
	return r.certificate, true
}

// PathSegments returns every non-empty path segment, each percent-decoded
// with lossy replacement of invalid UTF-8 (the path is rendered for human
// inspection and routing, not machine-exact transport, per spec.md §4.4).
// Splitting happens against the still-escaped path so that a percent-
// encoded reserved byte inside a segment (e.g. %2F) is decoded as part of
// that segment rather than mistaken for a real separator.
func (r *Request) PathSegments() []string {
	return splitSegments(r.uri.EscapedPath())
}

func splitSegments(p string) []string {
	parts := strings.Split(p, "/")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		decoded, err := url.PathUnescape(part)
		if err != nil {
			decoded = part
		}
		out = append(out, strings.ToValidUTF8(decoded, "�"))
	}
	return out
}

// SetTrailingSegments is called by a router once it has matched a route,
// recording the path segments that followed the matched prefix. A Server
// calls it with the full path before invoking its Handler; a router such as
// mux.TreeHandler calls it again with the refined trailing segments once it
// has matched a more specific route.
func (r *Request) SetTrailingSegments(segs []string) {
	r.trailingSegments = segs
	r.trailingSet = true
}

// TrailingSegments returns the path segments following the matched route
// prefix. Calling it before a router has set it is a programmer error and
// panics, per spec.md §4.4.
func (r *Request) TrailingSegments() []string {
	if !r.trailingSet {
		panic("gemini: TrailingSegments called before routing")
	}
	return r.trailingSegments
}
