package transport_test

import (
	"bufio"
	"bytes"
	"errors"
	"testing"
	"testing/iotest"

	"github.com/frankli0324/h1wire/internal/http"
	"github.com/frankli0324/h1wire/internal/transport"
)

type tCase struct {
	data []byte
	req  *http.Request
}

var reqShouldBe = map[string]tCase{
	"BasicRequest": {
		req: &http.Request{
			Method: "GET", URL: "/", Version: "HTTP/1.1",
			Header: http.Header{"Host": "example.com"},
			Body:   []byte{},
		},
		data: []byte("GET / HTTP/1.1\r\nHost: example.com\r\n\r\n"),
	},
	"NoHeaders": {
		req: &http.Request{
			Method: "DELETE", URL: "/a/b?c=d", Version: "HTTP/1.0",
			Header: http.Header{},
			Body:   []byte{},
		},
		data: []byte("DELETE /a/b?c=d HTTP/1.0\r\n\r\n"),
	},
	"HeaderNotCanonicalized": {
		req: &http.Request{
			Method: "GET", URL: "/", Version: "HTTP/1.1",
			Header: http.Header{"x-123-vv": "1", "Host": "www.example.com"},
			Body:   []byte{},
		},
		data: []byte("GET / HTTP/1.1\r\nHost: www.example.com\r\nx-123-vv: 1\r\n\r\n"),
	},
	"BodyVerbatim": {
		req: &http.Request{
			Method: "POST", URL: "/upload", Version: "HTTP/1.1",
			Header: http.Header{"Content-Type": "application/octet-stream"},
			Body:   []byte("\x00\x01\r\n\r\nraw"),
		},
		data: []byte("POST /upload HTTP/1.1\r\nContent-Type: application/octet-stream\r\n\r\n\x00\x01\r\n\r\nraw"),
	},
}

func TestRequestSerialize(t *testing.T) {
	for name, cas := range reqShouldBe {
		tCase := cas
		t.Run(name, func(t *testing.T) {
			if err := iotest.TestReader(bytes.NewReader(transport.RequestBytes(tCase.req)), tCase.data); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestRequestParse(t *testing.T) {
	for name, cas := range reqShouldBe {
		tCase := cas
		t.Run(name, func(t *testing.T) {
			req, err := transport.ParseRequestBytes(tCase.data)
			if err != nil {
				t.Fatal(err)
			}
			if !equalRequest(req, tCase.req) {
				t.Fatalf("expected %+v, got %+v", tCase.req, req)
			}
		})
	}
}

func TestWriteRequestFlushes(t *testing.T) {
	var out bytes.Buffer
	w := bufio.NewWriter(&out)
	c := reqShouldBe["BasicRequest"]
	if err := transport.WriteRequest(w, c.req); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out.Bytes(), c.data) {
		t.Fatalf("expected %q, got %q", c.data, out.Bytes())
	}
}

func TestWriteRequestError(t *testing.T) {
	w := errWriter{errors.New("broken pipe")}
	if err := transport.WriteRequest(w, reqShouldBe["NoHeaders"].req); err == nil || err.Error() != "broken pipe" {
		t.Fatalf("expected transport error, got %v", err)
	}
}

var respShouldBe = map[string]struct {
	data []byte
	resp *http.Response
}{
	"OK": {
		resp: &http.Response{
			Version: "HTTP/1.1", StatusCode: 200, StatusMessage: "OK",
			Header: http.Header{"Content-Length": "5"},
			Body:   []byte("hello"),
		},
		data: []byte("HTTP/1.1 200 OK\r\nContent-Length: 5\r\n\r\nhello"),
	},
	"MultiWordMessage": {
		resp: &http.Response{
			Version: "HTTP/1.0", StatusCode: 404, StatusMessage: "Not Found Here",
			Header: http.Header{},
			Body:   []byte{},
		},
		data: []byte("HTTP/1.0 404 Not Found Here\r\n\r\n"),
	},
	"OutOfRangeCode": {
		resp: &http.Response{
			Version: "HTTP/1.1", StatusCode: 65535, StatusMessage: "Odd",
			Header: http.Header{},
			Body:   []byte{},
		},
		data: []byte("HTTP/1.1 65535 Odd\r\n\r\n"),
	},
	"ZeroCode": {
		resp: &http.Response{
			Version: "HTTP/1.1", StatusCode: 7, StatusMessage: "Seven",
			Header: http.Header{"A": "b"},
			Body:   []byte{},
		},
		data: []byte("HTTP/1.1 7 Seven\r\nA: b\r\n\r\n"),
	},
}

func TestResponseRoundTrip(t *testing.T) {
	for name, cas := range respShouldBe {
		tCase := cas
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			if err := transport.WriteResponse(&out, tCase.resp); err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(out.Bytes(), tCase.data) {
				t.Fatalf("expected %q, got %q", tCase.data, out.Bytes())
			}
			resp, err := transport.ParseResponseBytes(out.Bytes())
			if err != nil {
				t.Fatal(err)
			}
			if !equalResponse(resp, tCase.resp) {
				t.Fatalf("expected %+v, got %+v", tCase.resp, resp)
			}
		})
	}
}

type errWriter struct{ err error }

func (w errWriter) Write([]byte) (int, error) { return 0, w.err }

func equalHeader(a, b http.Header) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if w, ok := b[k]; !ok || w != v {
			return false
		}
	}
	return true
}

func equalRequest(a, b *http.Request) bool {
	return a.Method == b.Method && a.URL == b.URL && a.Version == b.Version &&
		equalHeader(a.Header, b.Header) && bytes.Equal(a.Body, b.Body)
}

func equalResponse(a, b *http.Response) bool {
	return a.Version == b.Version && a.StatusCode == b.StatusCode && a.StatusMessage == b.StatusMessage &&
		equalHeader(a.Header, b.Header) && bytes.Equal(a.Body, b.Body)
}
