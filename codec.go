package gemini

import (
	"bufio"
	"fmt"
	"io"
)

// requestLineLimit is REQUEST_URI_MAX_LEN plus the trailing CRLF.
const requestLineLimit = RequestURIMaxLen + 2

// readRequestLine reads the request line from r: bytes up to and including
// the first '\n', bounded to requestLineLimit bytes. The line must end with
// CRLF. It returns the URI reference with the CRLF stripped.
//
// At most requestLineLimit bytes are taken from r, and nothing after the
// CRLF is interpreted. Bytes that follow the CRLF can still be read from r
// (the inner reader buffers up to the limit) and, through r's own
// buffering, from the underlying stream; they are dropped when the
// connection is closed.
func readRequestLine(r *bufio.Reader) (string, error) {
	limited := io.LimitReader(r, requestLineLimit)
	lr := bufio.NewReader(limited)
	line, err := lr.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", newError(KindIO, err)
	}
	if len(line) < 2 || line[len(line)-2] != '\r' || line[len(line)-1] != '\n' {
		if len(line) <= RequestURIMaxLen {
			return "", newError(KindBadFraming, fmt.Errorf("not terminated with CRLF"))
		}
		return "", newError(KindURITooLong, fmt.Errorf("request line exceeded %d bytes", RequestURIMaxLen))
	}
	return line[:len(line)-2], nil
}

// writeResponseHeader serializes header as "{status} {meta}\r\n" and writes
// it to w.
func writeResponseHeader(w io.Writer, header ResponseHeader) error {
	line := fmt.Sprintf("%s %s\r\n", header.Status.String(), header.Meta.String())
	_, err := io.WriteString(w, line)
	if err != nil {
		return newError(KindIO, err)
	}
	return nil
}

// writeBody copies body's contents to w with io.CopyBuffer and a 32 KiB
// buffer. A source that implements io.WriterTo writes itself instead; an
// in-memory body is written with a single Write call.
func writeBody(w io.Writer, body Body) error {
	buf := make([]byte, 32*1024)
	_, err := io.CopyBuffer(w, body.asReader(), buf)
	if err != nil {
		return newError(KindIO, err)
	}
	return nil
}
