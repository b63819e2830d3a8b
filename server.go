package gemini

import (
	"bufio"
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"time"

	"golang.org/x/sync/semaphore"
)

// Handler serves a single Gemini request and returns the Response to send.
// A Handler must not retain r or the Response's Body beyond the call; the
// engine owns both.
type Handler interface {
	ServeGemini(r *Request) *Response
}

// HandlerFunc adapts a function to a Handler.
type HandlerFunc func(r *Request) *Response

// ServeGemini implements Handler.
func (f HandlerFunc) ServeGemini(r *Request) *Response {
	return f(r)
}

const (
	// defaultBaseTimeout bounds the request phase (TLS handshake plus
	// request-line read) and the header write of the response phase; for a
	// response without a complex body the same deadline also covers the
	// body. See spec.md §4.6/§4.7.
	defaultBaseTimeout = time.Second

	// defaultComplexBodyTimeout additionally bounds the body phase of a
	// successful, non-plain-text response (spec.md §4.7, REDESIGN FLAGS).
	defaultComplexBodyTimeout = 30 * time.Second
)

// ErrServerClosed is returned by Serve/ListenAndServe after Shutdown.
var ErrServerClosed = errors.New("gemini: server closed")

// Server hosts a Gemini Handler over TLS.
type Server struct {
	// Addr is the "host:port" the server listens on. Defaults to
	// fmt.Sprintf(":%d", GeminiPort) when empty.
	Addr string

	// Certificates is the TLS certificate chain presented to clients.
	Certificates []tls.Certificate

	// Handler serves every accepted request.
	Handler Handler

	// Logger receives structured lifecycle and error entries. Defaults to
	// NewDefaultLogger() when nil.
	Logger Logger

	// BaseTimeout bounds the request phase and the response header phase.
	// Defaults to defaultBaseTimeout when zero.
	BaseTimeout time.Duration

	// ComplexBodyTimeout additionally bounds the body phase of a successful
	// response whose MIME type is neither text/plain nor text/gemini.
	// Defaults to defaultComplexBodyTimeout when zero.
	ComplexBodyTimeout time.Duration

	// MaxConnections caps the number of connections served concurrently. A
	// value of 0 means unlimited.
	MaxConnections int64

	ctx    context.Context
	cancel context.CancelFunc
	sem    *semaphore.Weighted
}

// ListenAndServe listens on srv.Addr and serves accepted connections until
// Shutdown is called or the listener fails.
func (srv *Server) ListenAndServe() error {
	addr := srv.Addr
	if addr == "" {
		addr = fmt.Sprintf(":%d", GeminiPort)
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	defer ln.Close()
	return srv.Serve(ln)
}

// Serve accepts and handles connections from ln until Shutdown is called or
// Accept fails.
func (srv *Server) Serve(ln net.Listener) error {
	srv.init()
	logger := srv.logger()
	if len(srv.Certificates) == 0 {
		return errors.New("gemini: no certificates configured")
	}

	// Closing the listener on Shutdown unblocks a pending Accept.
	go func() {
		<-srv.ctx.Done()
		ln.Close()
	}()

	tlsLn := tls.NewListener(ln, newTLSConfig(srv.Certificates))
	logger.Info("server starting", String("addr", ln.Addr().String()))
	defer logger.Info("server stopped")

	for {
		if err := srv.ctx.Err(); err != nil {
			return ErrServerClosed
		}
		conn, err := tlsLn.Accept()
		if err != nil {
			if srv.ctx.Err() != nil {
				return ErrServerClosed
			}
			logger.Error("accept failed", err)
			return err
		}
		if srv.sem != nil && !srv.sem.TryAcquire(1) {
			logger.Warn("connection rejected, server at capacity", String("remote", conn.RemoteAddr().String()))
			conn.Close()
			continue
		}
		go srv.handleConnection(conn)
	}
}

// Shutdown stops Serve from accepting further connections. In-flight
// connections are not interrupted.
func (srv *Server) Shutdown() {
	srv.init()
	srv.cancel()
}

func (srv *Server) init() {
	if srv.ctx == nil {
		srv.ctx, srv.cancel = context.WithCancel(context.Background())
	}
	if srv.sem == nil && srv.MaxConnections > 0 {
		srv.sem = semaphore.NewWeighted(srv.MaxConnections)
	}
}

func (srv *Server) logger() Logger {
	if srv.Logger != nil {
		return srv.Logger
	}
	return NewDefaultLogger()
}

func (srv *Server) baseTimeout() time.Duration {
	if srv.BaseTimeout > 0 {
		return srv.BaseTimeout
	}
	return defaultBaseTimeout
}

func (srv *Server) complexBodyTimeout() time.Duration {
	if srv.ComplexBodyTimeout > 0 {
		return srv.ComplexBodyTimeout
	}
	return defaultComplexBodyTimeout
}

// handleConnection runs the full per-connection lifecycle: TLS handshake,
// bounded request-line read, routing dispatch with panic/error isolation,
// and response emission under the two-phase response deadline.
func (srv *Server) handleConnection(conn net.Conn) {
	logger := srv.logger()
	defer conn.Close()
	if srv.sem != nil {
		defer srv.sem.Release(1)
	}

	start := time.Now()
	tlsConn, ok := conn.(*tls.Conn)
	if !ok {
		logger.Error("refusing unencrypted connection", nil, String("remote", conn.RemoteAddr().String()))
		return
	}

	conn.SetDeadline(start.Add(srv.baseTimeout()))
	if err := tlsConn.Handshake(); err != nil {
		logger.Error("tls handshake failed", err, String("remote", conn.RemoteAddr().String()))
		return
	}

	reader := bufio.NewReader(tlsConn)
	line, err := readRequestLine(reader)
	if err != nil {
		srv.logRejection(err, logger)
		return
	}

	var cert *x509.Certificate
	if chain := tlsConn.ConnectionState().PeerCertificates; len(chain) > 0 {
		cert = chain[0]
	}

	req, err := NewRequestWithCertificate(line, cert)
	if err != nil {
		srv.logRejection(err, logger)
		return
	}
	req.SetTrailingSegments(req.PathSegments())
	logger.Debug("request received", String("path", req.URI().Path()), String("remote", conn.RemoteAddr().String()))

	resp := srv.dispatch(req, logger)
	if resp == nil {
		resp = ResponseServerError()
	}

	responsePhaseStart := time.Now()
	conn.SetWriteDeadline(responsePhaseStart.Add(srv.baseTimeout()))
	if err := writeResponseHeader(tlsConn, resp.Header); err != nil {
		logger.Error("failed to write response header", err, String("path", req.URI().Path()))
		return
	}

	body, hasBody := resp.TakeBody()
	if !hasBody {
		logger.Info("request served", String("path", req.URI().Path()), String("status", resp.Header.Status.String()), Duration("elapsed", time.Since(start)))
		return
	}

	if isComplexBody(resp.Header) {
		conn.SetWriteDeadline(time.Now().Add(srv.complexBodyTimeout()))
	}
	if err := writeBody(tlsConn, body); err != nil {
		logger.Error("failed to write response body", err, String("path", req.URI().Path()))
		return
	}
	logger.Info("request served", String("path", req.URI().Path()), String("status", resp.Header.Status.String()), Duration("elapsed", time.Since(start)))
}

// isComplexBody reports whether header describes a successful response
// whose body is neither text/plain nor text/gemini, and therefore earns the
// extended body-phase deadline rather than the base one (REDESIGN FLAGS:
// two-phase response timeout).
func isComplexBody(header ResponseHeader) bool {
	if !header.Status.IsSuccess() {
		return false
	}
	mime := header.Meta.String()
	return mime != GeminiMIMEStr && mime != "text/plain" && !hasPrefix(mime, "text/plain;") && !hasPrefix(mime, "text/gemini;")
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

// dispatch invokes srv.Handler, isolating the connection from a panicking
// handler: a panic becomes a PermanentFailure response with an empty meta,
// logged but never propagated (spec.md §4.8, §7). A nil Response from the
// handler is returned as is; handleConnection replaces it with the same
// PermanentFailure response, without a log entry.
func (srv *Server) dispatch(req *Request, logger Logger) (resp *Response) {
	defer func() {
		if p := recover(); p != nil {
			logger.Error("handler panicked", fmt.Errorf("%v", p), String("path", req.URI().Path()))
			resp = ResponseServerError()
		}
	}()
	return srv.Handler.ServeGemini(req)
}

// logRejection logs a failure that occurred before a Request could be built
// (malformed framing, an oversized request line, an unparseable URI, or a
// non-UTF-8 query). None of these earn a response: spec.md §8 scenario 4 is
// explicit that an oversized request line closes the connection with no
// reply, the same as the original implementation's receive_request, which
// propagates the error with nothing written to the wire.
func (srv *Server) logRejection(err error, logger Logger) {
	kind, _ := KindOf(err)
	logger.Error("request rejected before dispatch", err, String("kind", kind.String()))
}
