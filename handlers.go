package gemini

import (
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
)

// NotFoundHandler returns a handler that always responds with a 51 status.
func NotFoundHandler() Handler {
	return HandlerFunc(func(r *Request) *Response {
		return ResponseNotFound()
	})
}

// RedirectTemporaryHandler returns a handler that always responds with a
// 30 status pointing at to.
func RedirectTemporaryHandler(to string) Handler {
	return HandlerFunc(func(r *Request) *Response {
		return NewResponse(RedirectTemporaryLossy(to))
	})
}

// RedirectPermanentHandler returns a handler that always responds with a
// 31 status pointing at to.
func RedirectPermanentHandler(to string) Handler {
	return HandlerFunc(func(r *Request) *Response {
		return NewResponse(RedirectPermanentLossy(to))
	})
}

// Authoriser decides whether cert may access a certificate-gated handler.
// fingerprint is the hex-encoded SHA-256 hash of cert's DER encoding, a
// stable identity to store in an allow-list independent of any particular
// certificate field.
type Authoriser func(fingerprint string, cert *x509.Certificate) bool

// AuthoriserAllowAll authorizes any presented certificate.
func AuthoriserAllowAll(fingerprint string, cert *x509.Certificate) bool {
	return true
}

// CertificateFingerprint returns the hex-encoded SHA-256 hash of cert's raw
// DER encoding.
func CertificateFingerprint(cert *x509.Certificate) string {
	sum := sha256.Sum256(cert.Raw)
	return hex.EncodeToString(sum[:])
}

// RequireCertificateHandler wraps h so that it is only invoked once the
// client has presented a certificate that authoriser accepts. A nil
// authoriser defaults to AuthoriserAllowAll, accepting any presented
// certificate.
func RequireCertificateHandler(h Handler, authoriser Authoriser) Handler {
	if authoriser == nil {
		authoriser = AuthoriserAllowAll
	}
	return HandlerFunc(func(r *Request) *Response {
		cert, ok := r.Certificate()
		if !ok {
			return ResponseClientCertificateRequired()
		}
		if !authoriser(CertificateFingerprint(cert), cert) {
			return ResponseCertificateNotAuthorized()
		}
		return h.ServeGemini(r)
	})
}
