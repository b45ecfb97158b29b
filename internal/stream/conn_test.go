package stream_test

import (
	"bytes"
	"io"

	"github.com/frankli0324/h1wire/utils/nettools"
)

// step is one result of scriptConn.Read: either data or an error.
type step struct {
	data string
	err  error
}

func data(s string) step { return step{data: s} }

var wouldBlock = step{err: nettools.ErrWouldBlock}

// scriptConn replays a fixed sequence of read results and records writes.
// Once the script is exhausted reads return io.EOF.
type scriptConn struct {
	steps []step

	written    bytes.Buffer
	writeLimit int   // accept at most this many bytes per Write, 0 means all
	writeErr   error // returned by every Write when set
	flushes    int
}

func (c *scriptConn) Read(p []byte) (int, error) {
	if len(c.steps) == 0 {
		return 0, io.EOF
	}
	s := &c.steps[0]
	if s.err != nil {
		c.steps = c.steps[1:]
		return 0, s.err
	}
	n := copy(p, s.data)
	s.data = s.data[n:]
	if s.data == "" {
		c.steps = c.steps[1:]
	}
	return n, nil
}

func (c *scriptConn) Write(p []byte) (int, error) {
	if c.writeErr != nil {
		return 0, c.writeErr
	}
	if c.writeLimit > 0 && len(p) > c.writeLimit {
		c.written.Write(p[:c.writeLimit])
		return c.writeLimit, nettools.ErrWouldBlock
	}
	return c.written.Write(p)
}

func (c *scriptConn) Flush() error {
	c.flushes++
	return nil
}

// remaining drains what is left of the script.
func (c *scriptConn) remaining() string {
	var b bytes.Buffer
	for _, s := range c.steps {
		b.WriteString(s.data)
	}
	return b.String()
}

type counter struct{ n int }

func (c *counter) backoff(int) error {
	c.n++
	return nil
}
