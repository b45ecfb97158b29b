package internal_test

import (
	"context"
	"net"
	"sync"
	"testing"

	"github.com/frankli0324/h1wire/internal"
	"github.com/frankli0324/h1wire/internal/http"
	"github.com/frankli0324/h1wire/internal/stream"
)

// TestDialer hands out in-memory connections whose far ends are served by
// handle, one goroutine per connection.
type TestDialer struct {
	mu     sync.Mutex
	dials  int
	handle func(req *http.Request) *http.Response
}

// Dial implements internal.Dialer.
func (t *TestDialer) Dial(ctx context.Context, addr string) (net.Conn, error) {
	t.mu.Lock()
	t.dials++
	t.mu.Unlock()
	client, server := net.Pipe()
	go t.serve(server)
	return client, nil
}

// Unwrap implements internal.Dialer.
func (t *TestDialer) Unwrap() internal.Dialer {
	return nil
}

func (t *TestDialer) Dials() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dials
}

func (t *TestDialer) serve(conn net.Conn) {
	defer conn.Close()
	s := stream.NewStream(conn, &stream.Config{Body: stream.ContentLength{Fallback: stream.NoBody{}}})
	for {
		req, err := s.RecvRequest()
		if err != nil {
			return
		}
		if err := s.SendResponse(t.handle(req)); err != nil {
			return
		}
	}
}

func ok(body string, header http.Header) *http.Response {
	if header == nil {
		header = http.Header{}
	}
	return &http.Response{
		Version: "HTTP/1.1", StatusCode: 200, StatusMessage: "OK",
		Header: header, Body: []byte(body),
	}
}

// SendSingleRequest sends req through a fresh client and returns the
// request as the server received it.
func SendSingleRequest(t *testing.T, req *http.Request) *http.Request {
	received := make(chan *http.Request, 1)
	c := &internal.Client{}
	c.UseDialer(func(internal.Dialer) internal.Dialer {
		return &TestDialer{handle: func(r *http.Request) *http.Response {
			received <- r
			return ok("", http.Header{"Content-Length": "0", "Connection": "close"})
		}}
	})
	if _, err := c.CtxDo(context.Background(), "example.com", req); err != nil {
		t.Fatal(err)
	}
	return <-received
}
