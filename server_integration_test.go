package gemini

import (
	"bufio"
	"crypto/tls"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/havenwire/gemini/cert"
)

func TestServerIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	keyPair, err := cert.Generate("test", "localhost", "localhost,127.0.0.1", time.Hour)
	if err != nil {
		t.Fatalf("failed to generate test certificate: %v", err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	srv := &Server{
		Certificates: []tls.Certificate{keyPair},
		Handler: HandlerFunc(func(r *Request) *Response {
			if r.URI().Path() == "/missing" {
				return ResponseNotFound()
			}
			doc := NewDocument().AddHeading(Heading1, "Hello")
			return ResponseSuccessGemini(doc)
		}),
		Logger: NopLogger{},
	}

	done := make(chan error, 1)
	go func() { done <- srv.Serve(ln) }()
	defer srv.Shutdown()

	dialAndRequest := func(uri string) (status, meta, body string, err error) {
		conn, err := tls.Dial("tcp", ln.Addr().String(), &tls.Config{InsecureSkipVerify: true})
		if err != nil {
			return "", "", "", fmt.Errorf("dial: %w", err)
		}
		defer conn.Close()
		if _, err := fmt.Fprintf(conn, "%s\r\n", uri); err != nil {
			return "", "", "", fmt.Errorf("write request: %w", err)
		}
		r := bufio.NewReader(conn)
		line, err := r.ReadString('\n')
		if err != nil {
			return "", "", "", fmt.Errorf("read header: %w", err)
		}
		line = line[:len(line)-2]
		parts := []byte(line)
		status = string(parts[:2])
		if len(parts) > 3 {
			meta = string(parts[3:])
		}
		rest := new(bytesBuilder)
		buf := make([]byte, 4096)
		for {
			n, readErr := r.Read(buf)
			rest.Write(buf[:n])
			if readErr != nil {
				break
			}
		}
		return status, meta, rest.String(), nil
	}

	t.Run("success response", func(t *testing.T) {
		status, meta, body, err := dialAndRequest("gemini://localhost/")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if status != "20" {
			t.Errorf("expected status 20, got %q", status)
		}
		if meta != GeminiMIMEStr {
			t.Errorf("expected meta %q, got %q", GeminiMIMEStr, meta)
		}
		if body != "# Hello\n" {
			t.Errorf("expected body %q, got %q", "# Hello\n", body)
		}
	})

	t.Run("not found response", func(t *testing.T) {
		status, _, _, err := dialAndRequest("gemini://localhost/missing")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if status != "51" {
			t.Errorf("expected status 51, got %q", status)
		}
	})

	t.Run("oversized request line closes with no reply", func(t *testing.T) {
		conn, err := tls.Dial("tcp", ln.Addr().String(), &tls.Config{InsecureSkipVerify: true})
		if err != nil {
			t.Fatalf("dial: %v", err)
		}
		defer conn.Close()

		oversized := "gemini://localhost/" + repeatByte('a', RequestURIMaxLen)
		if _, err := fmt.Fprintf(conn, "%s\r\n", oversized); err != nil {
			t.Fatalf("write request: %v", err)
		}

		r := bufio.NewReader(conn)
		_, err = r.ReadByte()
		if err == nil {
			t.Errorf("expected the connection to close with no reply, but a byte was read")
		}
	})
}

func repeatByte(b byte, n int) string {
	out := make([]byte, n)
	for i := range out {
		out[i] = b
	}
	return string(out)
}

type bytesBuilder struct {
	b []byte
}

func (bb *bytesBuilder) Write(p []byte) (int, error) {
	bb.b = append(bb.b, p...)
	return len(p), nil
}

func (bb *bytesBuilder) String() string {
	return string(bb.b)
}
