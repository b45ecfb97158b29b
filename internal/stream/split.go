package stream

import (
	"io"

	"github.com/frankli0324/h1wire/internal/http"
)

// ReceiverRef borrows the receive side of a [Stream]. It shares the
// stream's buffer and must not be kept beyond the call it was handed to;
// the stream stays fully usable.
type ReceiverRef struct {
	rx *Reader
}

func (r ReceiverRef) RecvRequest() (*http.Request, error) {
	if r.rx == nil {
		return nil, ErrStreamSplit
	}
	return r.rx.RecvRequest()
}

func (r ReceiverRef) RecvResponse() (*http.Response, error) {
	if r.rx == nil {
		return nil, ErrStreamSplit
	}
	return r.rx.RecvResponse()
}

// TransmitterRef borrows the transmit side of a [Stream].
type TransmitterRef struct {
	tx *Writer
}

func (t TransmitterRef) SendRequest(req *http.Request) error {
	if t.tx == nil {
		return ErrStreamSplit
	}
	return t.tx.SendRequest(req)
}

func (t TransmitterRef) SendResponse(resp *http.Response) error {
	if t.tx == nil {
		return ErrStreamSplit
	}
	return t.tx.SendResponse(resp)
}

// SplitMut returns borrowed receive and transmit handles. Neither copies
// buffered data: a message partially buffered by the stream is finished
// by the ReceiverRef and the other way around.
func (s *Stream) SplitMut() (ReceiverRef, TransmitterRef) {
	return ReceiverRef{s.rx}, TransmitterRef{s.tx}
}

// Receiver owns the receive side of a split [Stream]. It may be moved to
// another goroutine, independently of its [Transmitter].
type Receiver struct {
	ReceiverRef
	conn io.ReadWriter
}

// Close shuts down the read direction of the transport when it supports
// CloseRead, otherwise it closes the transport.
func (r *Receiver) Close() error {
	if c, ok := r.conn.(interface{ CloseRead() error }); ok {
		return c.CloseRead()
	}
	return closeConn(r.conn)
}

// Transmitter owns the transmit side of a split [Stream].
type Transmitter struct {
	TransmitterRef
	conn io.ReadWriter
}

// Close shuts down the write direction of the transport when it supports
// CloseWrite, otherwise it closes the transport.
func (t *Transmitter) Close() error {
	if c, ok := t.conn.(interface{ CloseWrite() error }); ok {
		return c.CloseWrite()
	}
	return closeConn(t.conn)
}

// IntoSplit hands both sides of the stream over to independently owned
// halves. The stream itself is unusable afterwards, its methods return
// [ErrStreamSplit].
func (s *Stream) IntoSplit() (*Receiver, *Transmitter) {
	rx := &Receiver{ReceiverRef{s.rx}, s.conn}
	tx := &Transmitter{TransmitterRef{s.tx}, s.conn}
	s.rx, s.tx = nil, nil
	return rx, tx
}

func closeConn(c io.ReadWriter) error {
	if c, ok := c.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
