package stream_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frankli0324/h1wire/internal/http"
	"github.com/frankli0324/h1wire/internal/stream"
	"github.com/frankli0324/h1wire/internal/transport"
)

func TestRecvRequestBasic(t *testing.T) {
	conn := &scriptConn{steps: []step{data("GET / HTTP/1.1\r\nHost: example.com\r\n\r\n")}}
	req, err := stream.NewStream(conn, nil).RecvRequest()
	require.NoError(t, err)
	assert.Equal(t, &http.Request{
		Method: "GET", URL: "/", Version: "HTTP/1.1",
		Header: http.Header{"Host": "example.com"},
		Body:   []byte{},
	}, req)
}

func TestRecvRequestReassemblesAcrossWouldBlock(t *testing.T) {
	conn := &scriptConn{steps: []step{
		data("PO"), wouldBlock,
		data("ST /submit HTTP/1.1\r"), wouldBlock, wouldBlock,
		data("\nContent-"), wouldBlock,
		data("Type: text/plain\r\n"), wouldBlock,
		data("\r\nhello"), wouldBlock,
	}}
	c := &counter{}
	req, err := stream.NewStream(conn, &stream.Config{Backoff: c.backoff}).RecvRequest()
	require.NoError(t, err)
	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, "/submit", req.URL)
	assert.Equal(t, http.Header{"Content-Type": "text/plain"}, req.Header)
	assert.Equal(t, []byte("hello"), req.Body)
	assert.Equal(t, 5, c.n)
}

func TestShortReadEndsAtWouldBlock(t *testing.T) {
	conn := &scriptConn{steps: []step{
		data("PUT /x HTTP/1.1\r\n\r\n"),
		wouldBlock,
		data("late body"),
	}}
	req, err := stream.NewStream(conn, nil).RecvRequest()
	require.NoError(t, err)
	assert.Equal(t, []byte{}, req.Body)
	assert.Equal(t, "late body", conn.remaining())
}

func TestShortReadChunkBoundary(t *testing.T) {
	conn := &scriptConn{steps: []step{
		data("PUT /x HTTP/1.1\r\n\r\n"),
		data("abcd"),
		data("abcd"),
		data("ef"),
		data("GET"),
	}}
	s := stream.NewStream(conn, &stream.Config{Body: stream.ShortRead{Size: 4}})
	req, err := s.RecvRequest()
	require.NoError(t, err)
	assert.Equal(t, []byte("abcdabcdef"), req.Body)
	assert.Equal(t, "GET", conn.remaining())
}

func TestShortReadDefaultSize(t *testing.T) {
	full := make([]byte, stream.DefaultChunkSize)
	for i := range full {
		full[i] = 'a'
	}
	conn := &scriptConn{steps: []step{
		data("PUT /x HTTP/1.1\r\n\r\n"),
		data(string(full)),
		wouldBlock,
		data("never read"),
	}}
	req, err := stream.NewStream(conn, &stream.Config{ReadBufferSize: 16}).RecvRequest()
	require.NoError(t, err)
	assert.Equal(t, full, req.Body)
	assert.Equal(t, "never read", conn.remaining())
}

func TestContentLengthWaitsForBody(t *testing.T) {
	conn := &scriptConn{steps: []step{
		data("POST / HTTP/1.1\r\ncontent-length: 10\r\n\r\nabc"),
		wouldBlock, wouldBlock,
		data("defghij"),
		data("GET / HTTP/1.1\r\n\r\n"),
	}}
	c := &counter{}
	s := stream.NewStream(conn, &stream.Config{Backoff: c.backoff, Body: stream.ContentLength{}})
	req, err := s.RecvRequest()
	require.NoError(t, err)
	assert.Equal(t, []byte("abcdefghij"), req.Body)
	assert.Equal(t, "10", req.Header["content-length"])
	assert.Equal(t, 2, c.n)

	req, err = s.RecvRequest()
	require.NoError(t, err)
	assert.Equal(t, "GET", req.Method)
	assert.Equal(t, []byte{}, req.Body)
}

func TestContentLengthTruncated(t *testing.T) {
	conn := &scriptConn{steps: []step{data("POST / HTTP/1.1\r\nContent-Length: 10\r\n\r\nabc")}}
	_, err := stream.NewStream(conn, &stream.Config{Body: stream.ContentLength{}}).RecvRequest()
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestContentLengthLimit(t *testing.T) {
	conn := &scriptConn{steps: []step{data("POST / HTTP/1.1\r\nContent-Length: 100\r\n\r\n")}}
	_, err := stream.NewStream(conn, &stream.Config{Body: stream.ContentLength{Max: 10}}).RecvRequest()
	assert.ErrorIs(t, err, stream.ErrBodyTooLarge)
}

func TestContentLengthHugeDeclaration(t *testing.T) {
	for name, length := range map[string]string{
		"MaxInt64": "9223372036854775807",
		"TenGB":    "10000000000",
	} {
		length := length
		t.Run(name, func(t *testing.T) {
			conn := &scriptConn{steps: []step{data("HTTP/1.1 200 OK\r\nContent-Length: " + length + "\r\n\r\nx")}}
			_, err := stream.NewStream(conn, &stream.Config{Body: stream.ContentLength{}}).RecvResponse()
			assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
		})
	}
}

func TestContentLengthGrowsWithBody(t *testing.T) {
	full := strings.Repeat("0123456789", 20000)
	steps := []step{data("PUT /big HTTP/1.1\r\nContent-Length: 200000\r\n\r\n")}
	for rest := full; rest != ""; rest = rest[min(len(rest), 30000):] {
		steps = append(steps, data(rest[:min(len(rest), 30000)]), wouldBlock)
	}
	conn := &scriptConn{steps: steps}
	req, err := stream.NewStream(conn, &stream.Config{Body: stream.ContentLength{}}).RecvRequest()
	require.NoError(t, err)
	assert.Equal(t, full, string(req.Body))
}

func TestContentLengthDuplicates(t *testing.T) {
	conn := &scriptConn{steps: []step{
		data("HTTP/1.1 200 OK\r\nContent-Length: 2\r\ncontent-length:  2\r\n\r\nhi"),
	}}
	resp, err := stream.NewStream(conn, &stream.Config{Body: stream.ContentLength{}}).RecvResponse()
	require.NoError(t, err)
	assert.Equal(t, []byte("hi"), resp.Body)

	conn = &scriptConn{steps: []step{
		data("HTTP/1.1 200 OK\r\nContent-Length: 2\r\nContent-Length: 10\r\n\r\nhi0123456789"),
	}}
	_, err = stream.NewStream(conn, &stream.Config{Body: stream.ContentLength{}}).RecvResponse()
	assert.ErrorIs(t, err, stream.ErrConflictingLength)
	assert.EqualError(t, err, `stream: multiple differing Content-Length values "2, 10"`)
}

func TestContentLengthFallback(t *testing.T) {
	conn := &scriptConn{steps: []step{
		data("POST / HTTP/1.1\r\nContent-Length: nope\r\n\r\nbody"),
		wouldBlock,
		data("rest"),
	}}
	body := stream.ContentLength{Fallback: stream.ShortRead{Size: 8}}
	req, err := stream.NewStream(conn, &stream.Config{Body: body}).RecvRequest()
	require.NoError(t, err)
	assert.Equal(t, []byte("body"), req.Body)
}

func TestNoBodyLeavesFollowingBytes(t *testing.T) {
	conn := &scriptConn{steps: []step{
		data("GET /a HTTP/1.1\r\n\r\nGET /b HTTP/1.1\r\n\r\n"),
	}}
	s := stream.NewStream(conn, &stream.Config{Body: stream.ContentLength{Fallback: stream.NoBody{}}})
	for _, url := range []string{"/a", "/b"} {
		req, err := s.RecvRequest()
		require.NoError(t, err)
		assert.Equal(t, url, req.URL)
		assert.Equal(t, []byte{}, req.Body)
	}
}

func TestRecvEOF(t *testing.T) {
	_, err := stream.NewStream(&scriptConn{}, nil).RecvRequest()
	assert.Equal(t, io.EOF, err)

	conn := &scriptConn{steps: []step{data("GET / HT")}}
	_, err = stream.NewStream(conn, nil).RecvRequest()
	assert.Equal(t, io.ErrUnexpectedEOF, err)

	conn = &scriptConn{steps: []step{data("GET / HTTP/1.1\r\nHost: a\r\n")}}
	_, err = stream.NewStream(conn, nil).RecvRequest()
	assert.Equal(t, io.ErrUnexpectedEOF, err)
}

func TestRecvTransportError(t *testing.T) {
	reset := errors.New("connection reset by peer")
	for name, steps := range map[string][]step{
		"StartLine": {data("GET /"), wouldBlock, {err: reset}},
		"Header":    {data("GET / HTTP/1.1\r\nHo"), {err: reset}},
		"Body":      {data("GET / HTTP/1.1\r\n\r\n"), {err: reset}},
	} {
		steps := steps
		t.Run(name, func(t *testing.T) {
			_, err := stream.NewStream(&scriptConn{steps: steps}, nil).RecvRequest()
			assert.Equal(t, reset, err)
		})
	}
}

func TestRecvBackoffAborts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	conn := &scriptConn{steps: []step{data("GET"), wouldBlock, data(" / HTTP/1.1\r\n\r\n")}}
	_, err := stream.NewStream(conn, &stream.Config{Backoff: stream.WithContext(ctx, stream.Yield)}).RecvRequest()
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRecvLineLimit(t *testing.T) {
	conn := &scriptConn{steps: []step{data("GET /aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa HTTP/1.1\r\n\r\n")}}
	_, err := stream.NewStream(conn, &stream.Config{MaxLineBytes: 16}).RecvRequest()
	assert.ErrorIs(t, err, stream.ErrLineTooLong)
}

func TestRecvDecodeErrors(t *testing.T) {
	conn := &scriptConn{steps: []step{data("GET /\r\n\r\n")}}
	_, err := stream.NewStream(conn, nil).RecvRequest()
	assert.ErrorIs(t, err, transport.ErrMalformedStartLine)

	conn = &scriptConn{steps: []step{data("HTTP/1.1 OK Fine\r\n\r\n")}}
	_, err = stream.NewStream(conn, nil).RecvResponse()
	assert.ErrorIs(t, err, transport.ErrInvalidStatusCode)

	conn = &scriptConn{steps: []step{data("HTTP/1.1 200 \xff\r\n\r\n")}}
	_, err = stream.NewStream(conn, nil).RecvResponse()
	assert.ErrorIs(t, err, transport.ErrInvalidEncoding)
}

func TestRecvResponse(t *testing.T) {
	conn := &scriptConn{steps: []step{
		data("HTTP/1.1 404 Not   Found\r\nServer: x\r\nbroken line\r\n\r\n"),
		data("gone"),
		wouldBlock,
	}}
	resp, err := stream.NewStream(conn, nil).RecvResponse()
	require.NoError(t, err)
	assert.Equal(t, &http.Response{
		Version: "HTTP/1.1", StatusCode: 404, StatusMessage: "Not Found",
		Header: http.Header{"Server": "x"},
		Body:   []byte("gone"),
	}, resp)
}

func TestSendRequestRetriesPartialWrites(t *testing.T) {
	conn := &scriptConn{writeLimit: 5}
	c := &counter{}
	s := stream.NewStream(conn, &stream.Config{WriteBackoff: c.backoff})
	req := &http.Request{
		Method: "GET", URL: "/", Version: "HTTP/1.1",
		Header: http.Header{"Host": "example.com"},
		Body:   []byte{},
	}
	require.NoError(t, s.SendRequest(req))
	assert.Equal(t, "GET / HTTP/1.1\r\nHost: example.com\r\n\r\n", conn.written.String())
	assert.Equal(t, 1, conn.flushes)
	assert.Equal(t, 7, c.n)
}

func TestSendResponse(t *testing.T) {
	conn := &scriptConn{}
	resp, err := http.NewResponseDraft().
		SetVersion("HTTP/1.1").SetStatusCode(200).SetStatusMessage("OK").
		SetBody([]byte("hi")).Build()
	require.NoError(t, err)
	require.NoError(t, stream.NewStream(conn, nil).SendResponse(resp))
	assert.Equal(t, "HTTP/1.1 200 OK\r\n\r\nhi", conn.written.String())
}

func TestSendError(t *testing.T) {
	broken := errors.New("broken pipe")
	conn := &scriptConn{writeErr: broken}
	err := stream.NewStream(conn, nil).SendResponse(&http.Response{Version: "HTTP/1.1", StatusCode: 500, StatusMessage: "x"})
	assert.Equal(t, broken, err)
	assert.Equal(t, 0, conn.flushes)
}

func TestRoundTripThroughStream(t *testing.T) {
	req, err := http.NewRequestDraft().
		SetMethod("PATCH").SetURL("/items/1").SetVersion("HTTP/1.1").
		SetHeader("Host", "example.com").SetHeader("X-Trace", "abc").
		SetBody([]byte(`{"a":1}`)).Build()
	require.NoError(t, err)

	out := &scriptConn{}
	require.NoError(t, stream.NewStream(out, nil).SendRequest(req))

	in := &scriptConn{steps: []step{data(out.written.String()), wouldBlock}}
	got, err := stream.NewStream(in, nil).RecvRequest()
	require.NoError(t, err)
	assert.Equal(t, req, got)
}
