package gemini

import (
	"crypto/tls"
	"crypto/x509"
)

// newTLSConfig builds the tls.Config used to serve Gemini connections.
//
// Gemini clients routinely present self-signed certificates with no CA
// chain, and the TOFU trust model (comparing the presented certificate
// against one pinned on a prior connection) is a concern for the handler,
// not the transport. The transport's job is only to request a certificate
// if the client has one and hand it to the handler unverified: with
// RequestClientCert the handshake asks for a client certificate without
// requiring or verifying it, and the VerifyPeerCertificate hook accepts
// whatever is presented.
func newTLSConfig(certificates []tls.Certificate) *tls.Config {
	return &tls.Config{
		MinVersion:            tls.VersionTLS12,
		Certificates:          certificates,
		ClientAuth:            tls.RequestClientCert,
		InsecureSkipVerify:    true,
		VerifyPeerCertificate: acceptAnyPeerCertificate,
	}
}

// acceptAnyPeerCertificate accepts every client certificate chain, including
// an empty one. Client certificates on Gemini are typically self-signed and
// carry no CA chain, so the only verification that makes sense happens at
// the application layer (see RequireCertificateHandler and Authoriser).
func acceptAnyPeerCertificate(rawCerts [][]byte, verifiedChains [][]*x509.Certificate) error {
	return nil
}
