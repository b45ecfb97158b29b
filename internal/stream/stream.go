package stream

import (
	"errors"
	"io"

	"github.com/frankli0324/h1wire/internal/http"
)

// ErrStreamSplit is returned by a [Stream] after [Stream.IntoSplit] handed
// its halves away.
var ErrStreamSplit = errors.New("stream: used after IntoSplit")

// Config configures a [Stream]. The zero value (or nil) busy polls on
// would-block and ends bodies with [ShortRead].
type Config struct {
	Backoff      Backoff // retry strategy for reads, [Spin] if nil
	WriteBackoff Backoff // retry strategy for writes, Backoff if nil
	Body         BodyFramer

	ReadBufferSize  int // defaults to 4096
	WriteBufferSize int // initial capacity of the encode buffer, defaults to 4096
	MaxLineBytes    int // start and header line limit, 0 means none
}

func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	cc := *c
	return &cc
}

func (c *Config) withDefaults() *Config {
	cc := c.Clone()
	if cc == nil {
		cc = &Config{}
	}
	if cc.ReadBufferSize <= 0 {
		cc.ReadBufferSize = 4096
	}
	if cc.WriteBufferSize <= 0 {
		cc.WriteBufferSize = 4096
	}
	return cc
}

func (c *Config) backoff() Backoff {
	if c.Backoff == nil {
		return Spin
	}
	return c.Backoff
}

func (c *Config) writeBackoff() Backoff {
	if c.WriteBackoff == nil {
		return c.backoff()
	}
	return c.WriteBackoff
}

func (c *Config) body() BodyFramer {
	if c.Body == nil {
		return ShortRead{Size: DefaultChunkSize}
	}
	return c.Body
}

// Receiving is implemented by everything that can read messages off a
// stream: the [Stream] itself and both kinds of receive halves.
type Receiving interface {
	RecvRequest() (*http.Request, error)
	RecvResponse() (*http.Response, error)
}

// Transmitting is the write counterpart of [Receiving].
type Transmitting interface {
	SendRequest(req *http.Request) error
	SendResponse(resp *http.Response) error
}

// Stream frames HTTP/1.x messages over a duplex transport. Reads of the
// transport may fail with a would-block condition (see
// [github.com/frankli0324/h1wire/utils/nettools.IsWouldBlock]), which is
// retried rather than treated as an error.
//
// A Stream is meant to be used from one goroutine. To receive and send
// concurrently, split it with [Stream.IntoSplit].
type Stream struct {
	conn io.ReadWriter
	rx   *Reader
	tx   *Writer
}

// NewStream wraps conn. After this conn must only be used through the
// stream: bytes buffered by the stream would otherwise be lost.
func NewStream(conn io.ReadWriter, cfg *Config) *Stream {
	cfg = cfg.withDefaults()
	return &Stream{
		conn: conn,
		rx:   newReader(conn, cfg),
		tx:   newWriter(conn, cfg),
	}
}

func (s *Stream) RecvRequest() (*http.Request, error) {
	if s.rx == nil {
		return nil, ErrStreamSplit
	}
	return s.rx.RecvRequest()
}

func (s *Stream) RecvResponse() (*http.Response, error) {
	if s.rx == nil {
		return nil, ErrStreamSplit
	}
	return s.rx.RecvResponse()
}

func (s *Stream) SendRequest(req *http.Request) error {
	if s.tx == nil {
		return ErrStreamSplit
	}
	return s.tx.SendRequest(req)
}

func (s *Stream) SendResponse(resp *http.Response) error {
	if s.tx == nil {
		return ErrStreamSplit
	}
	return s.tx.SendResponse(resp)
}

// Close closes the transport if it is an [io.Closer].
func (s *Stream) Close() error {
	return closeConn(s.conn)
}
