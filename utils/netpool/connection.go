package netpool

import (
	"log"
	"net"
	"sync/atomic"
	"time"
)

// Conn is a pooled connection. Exactly one of Release or Close must be
// called once the caller is done with it.
type Conn interface {
	// Release hands the connection back for reuse.
	Release()
	// Close closes the connection and frees its slot.
	Close() error
	// Raw returns the connection returned by the dial function.
	Raw() net.Conn
}

type conn struct {
	net.Conn
	p        *Pool
	done     atomic.Bool
	lastIdle time.Time
}

func (c *conn) Raw() net.Conn {
	return c.Conn
}

func (c *conn) Release() {
	if c.done.Swap(true) {
		return
	}
	c.p.release(c)
}

func (c *conn) Close() error {
	if c.done.Swap(true) {
		return nil
	}
	err := c.Conn.Close()
	if err != nil {
		log.Printf("netpool: error on close. %v\n", err)
	}
	c.p.free()
	return err
}
