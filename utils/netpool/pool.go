package netpool

import (
	"context"
	"net"
	"sync"
	"time"
)

type Pool struct {
	sync.Mutex
	connTicket chan struct{}
	idle       []*conn
	maxIdle    int

	MaxIdleDuration time.Duration // 0 keeps idle connections forever
}

// NewPool returns a pool handing out at most maxConn connections at a
// time and keeping at most maxIdle of them around between uses.
func NewPool(maxIdle, maxConn uint) *Pool {
	return &Pool{
		connTicket: make(chan struct{}, maxConn),
		maxIdle:    int(maxIdle),
	}
}

// Connect returns the most recently released idle connection, or dials a
// new one. It waits for a free slot while maxConn connections are out.
func (p *Pool) Connect(ctx context.Context, dial func(ctx context.Context) (net.Conn, error)) (Conn, error) {
	select {
	case p.connTicket <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if c := p.popIdle(); c != nil {
		return c, nil
	}
	c, err := dial(ctx)
	if err != nil {
		p.free()
		return nil, err
	}
	return &conn{Conn: c, p: p}, nil
}

func (p *Pool) popIdle() *conn {
	p.Lock()
	defer p.Unlock()
	for len(p.idle) > 0 {
		c := p.idle[len(p.idle)-1]
		p.idle = p.idle[:len(p.idle)-1]
		if p.MaxIdleDuration != 0 && time.Since(c.lastIdle) > p.MaxIdleDuration {
			c.Conn.Close()
			continue
		}
		c.done.Store(false)
		return c
	}
	return nil
}

func (p *Pool) release(c *conn) {
	p.Lock()
	if len(p.idle) < p.maxIdle {
		c.lastIdle = time.Now()
		p.idle = append(p.idle, c)
		c = nil
	}
	p.Unlock()
	if c != nil {
		c.Conn.Close()
	}
	p.free()
}

func (p *Pool) free() {
	<-p.connTicket
}

// Idle returns the number of idle connections.
func (p *Pool) Idle() int {
	p.Lock()
	defer p.Unlock()
	return len(p.idle)
}

// CloseIdle closes every idle connection.
func (p *Pool) CloseIdle() {
	p.Lock()
	idle := p.idle
	p.idle = nil
	p.Unlock()
	for _, c := range idle {
		c.Conn.Close()
	}
}
