package gemini

// ResponseHeader is the {status, meta} pair written as the first line of a
// Gemini response. Its named constructors enforce the sensible defaults of
// spec.md §3.
type ResponseHeader struct {
	Status Status
	Meta   Meta
}

// NewResponseHeader pairs an arbitrary Status with a Meta.
func NewResponseHeader(status Status, meta Meta) ResponseHeader {
	return ResponseHeader{Status: status, Meta: meta}
}

// Input builds a status-10 header prompting the user for input. Fails if
// prompt violates the Meta invariants.
func Input(prompt string) (ResponseHeader, error) {
	meta, err := NewMeta(prompt)
	if err != nil {
		return ResponseHeader{}, err
	}
	return ResponseHeader{Status: StatusInput, Meta: meta}, nil
}

// InputLossy builds a status-10 header, truncating prompt if necessary.
func InputLossy(prompt string) ResponseHeader {
	return ResponseHeader{Status: StatusInput, Meta: NewMetaLossy(prompt)}
}

// Success builds a status-20 header with mime as its meta, truncating a
// pathologically long MIME string rather than failing (see SPEC_FULL.md
// Open Questions).
func Success(mime string) ResponseHeader {
	return ResponseHeader{Status: StatusSuccess, Meta: NewMetaLossy(mime)}
}

// SuccessStrict builds a status-20 header, failing if mime violates the
// Meta invariants. Intended for user-supplied MIME strings.
func SuccessStrict(mime string) (ResponseHeader, error) {
	meta, err := NewMeta(mime)
	if err != nil {
		return ResponseHeader{}, err
	}
	return ResponseHeader{Status: StatusSuccess, Meta: meta}, nil
}

// NotFound builds the default status-51 header.
func NotFound() ResponseHeader {
	meta, _ := NewMeta("Not found")
	return ResponseHeader{Status: StatusNotFound, Meta: meta}
}

// ServerError builds a status-50 header. Fails if reason violates the Meta
// invariants.
func ServerError(reason string) (ResponseHeader, error) {
	meta, err := NewMeta(reason)
	if err != nil {
		return ResponseHeader{}, err
	}
	return ResponseHeader{Status: StatusPermanentFailure, Meta: meta}, nil
}

// BadRequestLossy builds a status-59 header, truncating reason if
// necessary.
func BadRequestLossy(reason string) ResponseHeader {
	return ResponseHeader{Status: StatusBadRequest, Meta: NewMetaLossy(reason)}
}

// RedirectTemporaryLossy builds a status-30 header pointing at uri. If uri
// fails to parse as a URI reference, falls back to a bad-request header
// (spec.md §3).
func RedirectTemporaryLossy(uri string) ResponseHeader {
	if _, err := ParseURIReference(uri); err != nil {
		return BadRequestLossy("invalid redirect target")
	}
	return ResponseHeader{Status: StatusRedirectTemporary, Meta: NewMetaLossy(uri)}
}

// RedirectPermanentLossy builds a status-31 header pointing at uri, with
// the same fallback behavior as RedirectTemporaryLossy.
func RedirectPermanentLossy(uri string) ResponseHeader {
	if _, err := ParseURIReference(uri); err != nil {
		return BadRequestLossy("invalid redirect target")
	}
	return ResponseHeader{Status: StatusRedirectPermanent, Meta: NewMetaLossy(uri)}
}

// ClientCertificateRequired builds the default status-60 header.
func ClientCertificateRequired() ResponseHeader {
	meta, _ := NewMeta("No certificate provided")
	return ResponseHeader{Status: StatusClientCertificateRequired, Meta: meta}
}

// CertificateNotAuthorized builds the default status-61 header.
func CertificateNotAuthorized() ResponseHeader {
	meta, _ := NewMeta("Your certificate is not authorized to view this content")
	return ResponseHeader{Status: StatusCertificateNotAuthorized, Meta: meta}
}

// CertificateNotValid builds a status-62 header, truncating reason if
// necessary.
func CertificateNotValid(reason string) ResponseHeader {
	return ResponseHeader{Status: StatusCertificateNotValid, Meta: NewMetaLossy(reason)}
}
