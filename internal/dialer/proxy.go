package dialer

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"net"
	"net/url"
	"time"

	"github.com/frankli0324/h1wire/internal/http"
	"github.com/frankli0324/h1wire/internal/stream"
	"github.com/frankli0324/h1wire/utils/nettools"
)

type ProxyConfig struct {
	ResolveLocally bool
	ResolveConfig  *ResolveConfig // overrides the resolver config for dialer for proxy
	PollTimeout    time.Duration  // readiness wait between reads of the CONNECT response
}

func (c *ProxyConfig) Clone() *ProxyConfig {
	if c == nil {
		return nil
	}
	return &ProxyConfig{
		ResolveLocally: c.ResolveLocally,
		ResolveConfig:  c.ResolveConfig.Clone(),
		PollTimeout:    c.PollTimeout,
	}
}

func (c *ProxyConfig) pollTimeout() time.Duration {
	if c == nil || c.PollTimeout <= 0 {
		return 50 * time.Millisecond
	}
	return c.PollTimeout
}

// ProxyError is returned when the proxy answered CONNECT with anything but
// a 200.
type ProxyError struct {
	Response *http.Response
}

func (e *ProxyError) Error() string {
	return fmt.Sprintf("proxy server returned error. status:%d, body:%s", e.Response.StatusCode, string(e.Response.Body))
}

// DialContextOverProxy creates a tunnel to remote through an http proxy.
// This part of logic may be reused when wrapping *[CoreDialer] into
// a new custom [Dialer]
func (d *CoreDialer) DialContextOverProxy(ctx context.Context, remote string, proxy *url.URL) (net.Conn, error) {
	if proxy.Scheme != "http" { // TODO: socks
		return nil, errors.New("unsupported proxy scheme:" + proxy.Scheme)
	}
	hp := proxy.Host
	if proxy.Port() == "" {
		hp = net.JoinHostPort(proxy.Hostname(), defaultPort)
	}

	conn, err := zeroDialer.DialContext(ctx, "tcp", hp)
	if err != nil {
		return nil, err
	}

	addr, port := splitAddr(remote)
	if d.ProxyConfig != nil && d.ProxyConfig.ResolveLocally {
		dnsCfg := d.ProxyConfig.ResolveConfig.Merge(d.ResolveConfig)
		ips, err := d.lookup(ctx, dnsCfg, addr)
		if err != nil {
			conn.Close()
			return nil, err
		}
		if len(ips) == 0 {
			conn.Close()
			return nil, &net.DNSError{Err: "no such host", Name: addr, IsNotFound: true}
		}
		addr = ips[rand.Intn(len(ips))].String()
	}
	target := net.JoinHostPort(addr, port)

	draft := http.NewRequestDraft().
		SetMethod("CONNECT").
		SetURL(target).
		SetVersion("HTTP/1.1").
		SetHeader("Host", target).
		SetBody(nil)
	if auth := proxy.User.String(); auth != "" {
		draft.SetHeader("Proxy-Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(auth)))
	}
	connReq, err := draft.Build()
	if err != nil {
		conn.Close()
		return nil, err
	}

	resp, err := connect(ctx, conn, connReq, d.ProxyConfig.pollTimeout())
	if err != nil {
		conn.Close()
		return nil, err
	}
	if resp.StatusCode != 200 {
		conn.Close()
		log.Printf("dialer: proxy %s refused CONNECT %s: %d %s", hp, target, resp.StatusCode, resp.StatusMessage)
		return nil, &ProxyError{resp}
	}
	return conn, nil
}

// connect runs the CONNECT exchange over a would-block surfacing view of
// conn. Nothing past the response is read, so conn can be handed out as
// the tunnel afterwards.
func connect(ctx context.Context, conn net.Conn, req *http.Request, wait time.Duration) (*http.Response, error) {
	var nb net.Conn
	if fc, err := nettools.NonBlocking(conn); err == nil {
		nb = fc
	} else {
		nb = nettools.Deadline(conn, wait)
		defer conn.SetReadDeadline(time.Time{})
	}
	s := stream.NewStream(byteAtATime{nb}, &stream.Config{
		Backoff:      stream.WithContext(ctx, nettools.PollReadable(nb, wait)),
		WriteBackoff: stream.WithContext(ctx, nettools.PollWritable(nb, wait)),
		Body:         stream.ContentLength{Fallback: stream.NoBody{}},
	})
	if err := s.SendRequest(req); err != nil {
		return nil, err
	}
	return s.RecvResponse()
}

// byteAtATime keeps the stream's read buffer from running ahead of the
// response into tunneled bytes.
type byteAtATime struct {
	net.Conn
}

func (c byteAtATime) Read(p []byte) (int, error) {
	if len(p) > 1 {
		p = p[:1]
	}
	return c.Conn.Read(p)
}

