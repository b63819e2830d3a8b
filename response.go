package gemini

// Response is a header plus an optional body, returned by a Handler. Its
// only mutation is TakeBody, used by the serializer to move the body out
// without copying it.
type Response struct {
	Header ResponseHeader
	body   *Body
}

// NewResponse builds a Response with no body.
func NewResponse(header ResponseHeader) *Response {
	return &Response{Header: header}
}

// WithBody attaches body to the response, replacing any previously attached
// body, and returns the response for chaining.
func (r *Response) WithBody(body Body) *Response {
	r.body = &body
	return r
}

// HasBody reports whether a body is currently attached.
func (r *Response) HasBody() bool {
	return r.body != nil
}

// TakeBody moves the body out of the response, leaving it with none.
func (r *Response) TakeBody() (Body, bool) {
	if r.body == nil {
		return Body{}, false
	}
	b := *r.body
	r.body = nil
	return b, true
}

// ResponseNotFound builds a ready-to-send 51 response.
func ResponseNotFound() *Response {
	return NewResponse(NotFound())
}

// ResponseClientCertificateRequired builds a ready-to-send 60 response.
func ResponseClientCertificateRequired() *Response {
	return NewResponse(ClientCertificateRequired())
}

// ResponseCertificateNotAuthorized builds a ready-to-send 61 response.
func ResponseCertificateNotAuthorized() *Response {
	return NewResponse(CertificateNotAuthorized())
}

// ResponseSuccess builds a 20 response carrying mime and body.
func ResponseSuccess(mime string, body Body) *Response {
	return NewResponse(Success(mime)).WithBody(body)
}

// ResponseSuccessGemini builds a 20 response with MIME type text/gemini
// carrying a serialized Document.
func ResponseSuccessGemini(doc *Document) *Response {
	return ResponseSuccess(GeminiMIMEStr, DocumentBody(doc))
}

// ResponseServerError builds a 50 response with an empty meta, the shape
// produced by the engine's own panic/error isolation (spec.md §4.8, §7).
func ResponseServerError() *Response {
	return NewResponse(ResponseHeader{Status: StatusPermanentFailure, Meta: EmptyMeta})
}
