package gemini

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"testing"
	"time"
)

func generateTestCertificate(t *testing.T) *x509.Certificate {
	t.Helper()
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "test"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &priv.PublicKey, priv)
	if err != nil {
		t.Fatalf("failed to create certificate: %v", err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatalf("failed to parse certificate: %v", err)
	}
	return cert
}

func TestNotFoundHandler(t *testing.T) {
	r, _ := NewRequest("gemini://example.com/")
	resp := NotFoundHandler().ServeGemini(r)
	if resp.Header.Status != StatusNotFound {
		t.Errorf("expected StatusNotFound, got %v", resp.Header.Status)
	}
}

func TestRedirectTemporaryHandler(t *testing.T) {
	r, _ := NewRequest("gemini://example.com/")
	resp := RedirectTemporaryHandler("gemini://example.com/new").ServeGemini(r)
	if resp.Header.Status != StatusRedirectTemporary {
		t.Errorf("expected StatusRedirectTemporary, got %v", resp.Header.Status)
	}
	if resp.Header.Meta.String() != "gemini://example.com/new" {
		t.Errorf("unexpected meta: %q", resp.Header.Meta.String())
	}
}

func TestRedirectPermanentHandler(t *testing.T) {
	r, _ := NewRequest("gemini://example.com/")
	resp := RedirectPermanentHandler("gemini://example.com/new").ServeGemini(r)
	if resp.Header.Status != StatusRedirectPermanent {
		t.Errorf("expected StatusRedirectPermanent, got %v", resp.Header.Status)
	}
}

func TestRequireCertificateHandlerNoCertificate(t *testing.T) {
	r, _ := NewRequest("gemini://example.com/")
	inner := HandlerFunc(func(r *Request) *Response { return ResponseSuccessGemini(NewDocument()) })
	resp := RequireCertificateHandler(inner, nil).ServeGemini(r)
	if resp.Header.Status != StatusClientCertificateRequired {
		t.Errorf("expected StatusClientCertificateRequired, got %v", resp.Header.Status)
	}
}

func TestRequireCertificateHandlerRejectedByAuthoriser(t *testing.T) {
	cert := generateTestCertificate(t)
	r, err := NewRequestWithCertificate("gemini://example.com/", cert)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	inner := HandlerFunc(func(r *Request) *Response { return ResponseSuccessGemini(NewDocument()) })
	reject := func(fingerprint string, cert *x509.Certificate) bool { return false }
	resp := RequireCertificateHandler(inner, reject).ServeGemini(r)
	if resp.Header.Status != StatusCertificateNotAuthorized {
		t.Errorf("expected StatusCertificateNotAuthorized, got %v", resp.Header.Status)
	}
}

func TestRequireCertificateHandlerAccepted(t *testing.T) {
	cert := generateTestCertificate(t)
	r, err := NewRequestWithCertificate("gemini://example.com/", cert)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	called := false
	inner := HandlerFunc(func(r *Request) *Response {
		called = true
		return ResponseSuccessGemini(NewDocument())
	})
	resp := RequireCertificateHandler(inner, AuthoriserAllowAll).ServeGemini(r)
	if !called {
		t.Errorf("expected inner handler to be invoked")
	}
	if resp.Header.Status != StatusSuccess {
		t.Errorf("expected StatusSuccess, got %v", resp.Header.Status)
	}
}

func TestRequireCertificateHandlerNilAuthoriserDefaultsToAllowAll(t *testing.T) {
	cert := generateTestCertificate(t)
	r, err := NewRequestWithCertificate("gemini://example.com/", cert)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	inner := HandlerFunc(func(r *Request) *Response { return ResponseSuccessGemini(NewDocument()) })
	resp := RequireCertificateHandler(inner, nil).ServeGemini(r)
	if resp.Header.Status != StatusSuccess {
		t.Errorf("expected StatusSuccess, got %v", resp.Header.Status)
	}
}

func TestCertificateFingerprintDeterministic(t *testing.T) {
	cert := generateTestCertificate(t)
	a := CertificateFingerprint(cert)
	b := CertificateFingerprint(cert)
	if a != b {
		t.Errorf("expected fingerprint to be deterministic, got %q and %q", a, b)
	}
	if len(a) != 64 {
		t.Errorf("expected a 64-character hex digest, got %d characters", len(a))
	}
}

func TestCertificateFingerprintDiffersAcrossCertificates(t *testing.T) {
	a := CertificateFingerprint(generateTestCertificate(t))
	b := CertificateFingerprint(generateTestCertificate(t))
	if a == b {
		t.Errorf("expected different certificates to have different fingerprints")
	}
}
