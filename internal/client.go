package internal

import (
	"context"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/frankli0324/h1wire/internal/dialer"
	"github.com/frankli0324/h1wire/internal/http"
	"github.com/frankli0324/h1wire/internal/stream"
	"github.com/frankli0324/h1wire/utils/netpool"
	"github.com/frankli0324/h1wire/utils/nettools"
)

type Dialer = dialer.Dialer

type Handler = func(ctx context.Context, addr string, req *http.Request) (*http.Response, error)
type Middleware func(next Handler) Handler

var defaultDialer Dialer = &dialer.CoreDialer{}

// Client sends requests over HTTP/1.x streams and reads back the
// responses. The zero value is ready to use.
type Client struct {
	middlewares []Middleware
	dialer      Dialer

	poolOnce sync.Once
	pool     *netpool.PoolGroup

	// Config is used for every stream the client opens. Backoffs left nil
	// wait for readiness for up to PollTimeout, a nil Body frames bodies
	// with [stream.ContentLength].
	Config      *stream.Config
	PollTimeout time.Duration // defaults to 50ms

	StrictHeaders    bool // reject requests whose header fails [http.Header.Validate]
	DisableKeepAlive bool
}

// Use appends mw to the end of the chain. The last "Use"d mw executes first
func (c *Client) Use(mws ...Middleware) {
	c.middlewares = append(c.middlewares, mws...)
}

// UseDialer replaces the dialer with the one returned by wrap, which is
// handed the current one.
func (c *Client) UseDialer(wrap func(Dialer) Dialer) {
	c.dialer = wrap(c.getDialer())
}

func (c *Client) getDialer() Dialer {
	if c.dialer != nil {
		return c.dialer
	}
	return defaultDialer
}

func (c *Client) conns() *netpool.PoolGroup {
	c.poolOnce.Do(func() {
		c.pool = netpool.NewGroup(100, 80)
	})
	return c.pool
}

// CloseIdle closes the connections kept for reuse.
func (c *Client) CloseIdle() {
	c.conns().CloseIdle()
}

func (c *Client) pollTimeout() time.Duration {
	if c.PollTimeout <= 0 {
		return 50 * time.Millisecond
	}
	return c.PollTimeout
}

// CtxDo sends req to addr ("host" or "host:port") and waits for the
// response. ctx bounds dialing as well as every wait on the connection.
func (c *Client) CtxDo(ctx context.Context, addr string, req *http.Request) (*http.Response, error) {
	next := c.roundTrip
	for i := range c.middlewares {
		next = c.middlewares[i](next)
	}
	return next(ctx, addr, req)
}

func (c *Client) roundTrip(ctx context.Context, addr string, req *http.Request) (*http.Response, error) {
	if c.StrictHeaders {
		if err := req.Header.Validate(); err != nil {
			return nil, err
		}
	}
	pc, err := c.conns().Connect(ctx, addr, func(ctx context.Context) (net.Conn, error) {
		return c.dialStream(ctx, addr)
	})
	if err != nil {
		return nil, err
	}
	cc := pc.Raw().(*clientConn)
	cc.ctx = ctx
	if err := cc.s.SendRequest(req); err != nil {
		pc.Close()
		return nil, err
	}
	resp, err := cc.s.RecvResponse()
	if err != nil {
		pc.Close()
		return nil, err
	}
	cc.ctx = nil
	if c.DisableKeepAlive || !reusable(req, resp) {
		pc.Close()
	} else {
		pc.Release()
	}
	return resp, nil
}

// clientConn is a dialed connection together with the stream framing it,
// the stream's buffers have to survive as long as the connection does.
type clientConn struct {
	net.Conn
	s   *stream.Stream
	ctx context.Context
}

func (cc *clientConn) wait(poll stream.Backoff) stream.Backoff {
	return func(attempt int) error {
		if cc.ctx != nil {
			if err := cc.ctx.Err(); err != nil {
				return err
			}
		}
		return poll(attempt)
	}
}

func (c *Client) dialStream(ctx context.Context, addr string) (net.Conn, error) {
	conn, err := c.getDialer().Dial(ctx, addr)
	if err != nil {
		return nil, err
	}
	var nb net.Conn
	if fc, err := nettools.NonBlocking(conn); err == nil {
		nb = fc
	} else {
		nb = nettools.Deadline(conn, c.pollTimeout())
	}

	cc := &clientConn{Conn: conn, ctx: ctx}
	cfg := c.Config.Clone()
	if cfg == nil {
		cfg = &stream.Config{}
	}
	if cfg.Backoff == nil {
		cfg.Backoff = nettools.PollReadable(nb, c.pollTimeout())
	}
	if cfg.WriteBackoff == nil {
		cfg.WriteBackoff = nettools.PollWritable(nb, c.pollTimeout())
	}
	cfg.Backoff, cfg.WriteBackoff = cc.wait(cfg.Backoff), cc.wait(cfg.WriteBackoff)
	if cfg.Body == nil {
		cfg.Body = stream.ContentLength{}
	}
	cc.s = stream.NewStream(nb, cfg)
	return cc, nil
}

// reusable reports whether another message may follow resp on the same
// connection: neither side asked to close and the body length was declared.
func reusable(req *http.Request, resp *http.Response) bool {
	if hasToken(req.Header, "Connection", "close") || hasToken(resp.Header, "Connection", "close") {
		return false
	}
	if strings.HasPrefix(resp.Version, "HTTP/1.0") && !hasToken(resp.Header, "Connection", "keep-alive") {
		return false
	}
	_, ok := lookup(resp.Header, "Content-Length")
	return ok
}

func lookup(h http.Header, name string) (value string, ok bool) {
	h.Range(func(k, v string) bool {
		if strings.EqualFold(k, name) {
			value, ok = v, true
		}
		return !ok
	})
	return
}

func hasToken(h http.Header, name, token string) bool {
	v, ok := lookup(h, name)
	if !ok {
		return false
	}
	for _, t := range strings.Split(v, ",") {
		if strings.EqualFold(strings.TrimSpace(t), token) {
			return true
		}
	}
	return false
}
