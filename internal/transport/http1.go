package transport

import (
	"io"
	"strconv"

	"github.com/frankli0324/h1wire/internal/http"
)

// AppendRequest appends the wire form of r to dst, e.g.:
//
//	GET / HTTP/1.1\r\n
//	Host: www.google.com\r\n
//	X-Xx-Yy: cccccc\r\n
//	\r\n
//	<body>
func AppendRequest(dst []byte, r *http.Request) []byte {
	dst = append(dst, r.Method...)
	dst = append(dst, ' ')
	dst = append(dst, r.URL...)
	dst = append(dst, ' ')
	dst = append(dst, r.Version...)
	dst = append(dst, "\r\n"...)
	dst = appendHeader(dst, r.Header)
	return append(dst, r.Body...)
}

// AppendResponse appends the wire form of r to dst. The status code is
// written in decimal whatever its value.
func AppendResponse(dst []byte, r *http.Response) []byte {
	dst = append(dst, r.Version...)
	dst = append(dst, ' ')
	dst = strconv.AppendUint(dst, uint64(r.StatusCode), 10)
	dst = append(dst, ' ')
	dst = append(dst, r.StatusMessage...)
	dst = append(dst, "\r\n"...)
	dst = appendHeader(dst, r.Header)
	return append(dst, r.Body...)
}

func appendHeader(dst []byte, h http.Header) []byte {
	h.Range(func(name, value string) bool {
		dst = append(dst, name...)
		dst = append(dst, ": "...)
		dst = append(dst, value...)
		dst = append(dst, "\r\n"...)
		return true
	})
	return append(dst, "\r\n"...)
}

func RequestBytes(r *http.Request) []byte {
	return AppendRequest(make([]byte, 0, encodedLen(len(r.Method)+len(r.URL)+len(r.Version), r.Header, r.Body)), r)
}

func ResponseBytes(r *http.Response) []byte {
	return AppendResponse(make([]byte, 0, encodedLen(len(r.Version)+len(r.StatusMessage)+5, r.Header, r.Body)), r)
}

func encodedLen(startLine int, h http.Header, body []byte) int {
	n := startLine + 4 + 2 + len(body)
	for k, v := range h {
		n += len(k) + len(v) + 4
	}
	return n
}

// WriteRequest writes r to w in one piece and flushes. The only errors
// are those of w.
func WriteRequest(w io.Writer, r *http.Request) error {
	return writeFlush(w, RequestBytes(r))
}

func WriteResponse(w io.Writer, r *http.Response) error {
	return writeFlush(w, ResponseBytes(r))
}

func writeFlush(w io.Writer, p []byte) error {
	if _, err := w.Write(p); err != nil {
		return err
	}
	if f, ok := w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}
