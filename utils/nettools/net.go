package nettools

import (
	"errors"
	"net"
	"os"
	"syscall"
	"time"
)

// ErrWouldBlock is returned by the conns in this package when a read or
// write could not make progress right now. It is neither a failure nor an
// end of stream, the operation may simply be retried later.
var ErrWouldBlock = errors.New("nettools: operation would block")

// ErrNoFD is returned by [NonBlocking] for conns that do not expose a file
// descriptor, e.g. [net.Pipe].
var ErrNoFD = errors.New("nettools: connection has no file descriptor")

// IsWouldBlock reports whether err is a would-block condition: either
// [ErrWouldBlock], a raw EAGAIN/EWOULDBLOCK or an expired deadline.
func IsWouldBlock(err error) bool {
	return errors.Is(err, ErrWouldBlock) ||
		errors.Is(err, syscall.EAGAIN) ||
		errors.Is(err, syscall.EWOULDBLOCK) ||
		errors.Is(err, os.ErrDeadlineExceeded)
}

// DeadlineConn turns a blocking conn into one that reports [ErrWouldBlock]
// when no data arrived within Wait. Writes are passed through untouched.
//
// It works with any [net.Conn] supporting deadlines, including [net.Pipe],
// and is the fallback when [NonBlocking] is not available.
type DeadlineConn struct {
	net.Conn
	Wait time.Duration
}

func Deadline(c net.Conn, wait time.Duration) *DeadlineConn {
	return &DeadlineConn{Conn: c, Wait: wait}
}

// Read reads with a deadline of Wait. Failing to set the deadline does not
// fail the read: a [net.Pipe] whose peer closed refuses deadlines but its
// Read still reports io.EOF.
func (c *DeadlineConn) Read(p []byte) (int, error) {
	_ = c.Conn.SetReadDeadline(time.Now().Add(c.Wait))
	n, err := c.Conn.Read(p)
	if err != nil && errors.Is(err, os.ErrDeadlineExceeded) {
		if n > 0 {
			return n, nil
		}
		return 0, ErrWouldBlock
	}
	return n, err
}

func (c *DeadlineConn) CloseRead() error {
	return closeRead(c.Conn)
}

func (c *DeadlineConn) CloseWrite() error {
	return closeWrite(c.Conn)
}

func closeRead(c net.Conn) error {
	if cr, ok := c.(interface{ CloseRead() error }); ok {
		return cr.CloseRead()
	}
	return c.Close()
}

func closeWrite(c net.Conn) error {
	if cw, ok := c.(interface{ CloseWrite() error }); ok {
		return cw.CloseWrite()
	}
	return c.Close()
}

func connToFD(raw net.Conn) syscall.RawConn {
	if c, ok := raw.(syscall.Conn); ok {
		if c, err := c.SyscallConn(); err == nil {
			return c
		}
	}
	return nil
}
