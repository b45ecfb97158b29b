//go:build darwin || linux
// +build darwin linux

package nettools

import (
	"io"
	"net"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// FDConn reads and writes the file descriptor of a conn directly, so
// EAGAIN surfaces as [ErrWouldBlock] instead of parking the goroutine in
// the runtime poller.
type FDConn struct {
	net.Conn
	raw syscall.RawConn
}

// NonBlocking wraps c, which must expose a file descriptor (TCP and unix
// sockets do), into an *[FDConn].
func NonBlocking(c net.Conn) (*FDConn, error) {
	raw := connToFD(c)
	if raw == nil {
		return nil, ErrNoFD
	}
	var serr error
	if err := raw.Control(func(fd uintptr) {
		serr = unix.SetNonblock(int(fd), true)
	}); err != nil {
		return nil, err
	}
	if serr != nil {
		return nil, serr
	}
	return &FDConn{Conn: c, raw: raw}, nil
}

func (c *FDConn) Read(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}
	var operr error
	err = c.raw.Read(func(fd uintptr) bool {
		for {
			n, operr = unix.Read(int(fd), p)
			if operr != unix.EINTR {
				return true // never wait, EAGAIN is reported to the caller
			}
		}
	})
	if err == nil {
		err = operr
	}
	if n < 0 {
		n = 0
	}
	switch {
	case err == unix.EAGAIN:
		return 0, ErrWouldBlock
	case err != nil:
		return n, err
	case n == 0:
		return 0, io.EOF
	}
	return n, nil
}

// Write writes as much of p as the socket buffer accepts. When it fills up
// the bytes written so far are returned with [ErrWouldBlock].
func (c *FDConn) Write(p []byte) (written int, err error) {
	for written < len(p) {
		var n int
		var operr error
		err = c.raw.Write(func(fd uintptr) bool {
			for {
				n, operr = unix.Write(int(fd), p[written:])
				if operr != unix.EINTR {
					return true
				}
			}
		})
		if err == nil {
			err = operr
		}
		if n > 0 {
			written += n
		}
		if err == unix.EAGAIN {
			return written, ErrWouldBlock
		}
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

func (c *FDConn) CloseRead() error {
	return closeRead(c.Conn)
}

func (c *FDConn) CloseWrite() error {
	return closeWrite(c.Conn)
}

// PollReadable returns a retry strategy that waits up to timeout for c to
// become readable, the readiness based alternative to busy polling.
func PollReadable(c net.Conn, timeout time.Duration) func(attempt int) error {
	return pollFor(c, unix.POLLIN, timeout)
}

// PollWritable is [PollReadable] for socket buffer space.
func PollWritable(c net.Conn, timeout time.Duration) func(attempt int) error {
	return pollFor(c, unix.POLLOUT, timeout)
}

func pollFor(c net.Conn, events int16, timeout time.Duration) func(int) error {
	if fc, ok := c.(*FDConn); ok {
		c = fc.Conn
	}
	raw := connToFD(c)
	if raw == nil {
		return sleepFor(timeout)
	}
	ms := int(timeout / time.Millisecond)
	if ms <= 0 {
		ms = 1
	}
	return func(int) error {
		var perr error
		err := raw.Control(func(fd uintptr) {
			s := []unix.PollFd{{Fd: int32(fd), Events: events}}
			_, perr = unix.Poll(s, ms)
		})
		if err != nil {
			return err
		}
		if perr == unix.EINTR {
			return nil
		}
		return perr
	}
}
