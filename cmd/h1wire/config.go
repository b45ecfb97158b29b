package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/frankli0324/h1wire/internal"
	"github.com/frankli0324/h1wire/internal/dialer"
	"github.com/frankli0324/h1wire/internal/stream"
	"github.com/frankli0324/h1wire/utils/nettools"
)

// Config is the content of the file passed with --config.
type Config struct {
	ChunkSize     int               `yaml:"chunk_size"`     // ShortRead chunk size
	ContentLength bool              `yaml:"content_length"` // frame bodies by Content-Length when declared
	Backoff       string            `yaml:"backoff"`        // poll, spin, yield or sleep
	PollTimeout   time.Duration     `yaml:"poll_timeout"`
	MaxLineBytes  int               `yaml:"max_line_bytes"`
	Headers       map[string]string `yaml:"headers"` // added to every request sent
	DNSServer     string            `yaml:"dns_server"`
	Proxy         string            `yaml:"proxy"`
}

func DefaultConfig() *Config {
	return &Config{
		ChunkSize:     stream.DefaultChunkSize,
		ContentLength: true,
		Backoff:       "poll",
		PollTimeout:   50 * time.Millisecond,
		Headers:       map[string]string{},
	}
}

// LoadConfig reads path over the defaults, an empty path only yields the
// defaults. H1WIRE_PROXY and H1WIRE_DNS_SERVER override the file.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}
	if v := os.Getenv("H1WIRE_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("H1WIRE_DNS_SERVER"); v != "" {
		cfg.DNSServer = v
	}
	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	switch c.Backoff {
	case "poll", "spin", "yield", "sleep":
	default:
		return fmt.Errorf("unknown backoff %q", c.Backoff)
	}
	if c.PollTimeout <= 0 {
		return fmt.Errorf("poll_timeout must be positive, got %s", c.PollTimeout)
	}
	return nil
}

func (c *Config) body() stream.BodyFramer {
	short := stream.ShortRead{Size: c.ChunkSize}
	if c.ContentLength {
		return stream.ContentLength{Fallback: short}
	}
	return short
}

// streamConfig returns the framing setup for conn, which should already be
// wrapped by nonBlocking. ctx bounds every wait.
func (c *Config) streamConfig(ctx context.Context, conn net.Conn) *stream.Config {
	var rb, wb stream.Backoff
	switch c.Backoff {
	case "spin":
		rb = stream.Spin
	case "yield":
		rb = stream.Yield
	case "sleep":
		rb = stream.Sleep(c.PollTimeout)
	default:
		rb = nettools.PollReadable(conn, c.PollTimeout)
		wb = nettools.PollWritable(conn, c.PollTimeout)
	}
	if wb == nil {
		wb = rb
	}
	return &stream.Config{
		Backoff:      stream.WithContext(ctx, rb),
		WriteBackoff: stream.WithContext(ctx, wb),
		Body:         c.body(),
		MaxLineBytes: c.MaxLineBytes,
	}
}

// client returns a client dialing through the configured DNS server and
// proxy. The client fills in the backoffs itself.
func (c *Config) client() *internal.Client {
	cfg := &stream.Config{Body: c.body(), MaxLineBytes: c.MaxLineBytes}
	switch c.Backoff {
	case "spin":
		cfg.Backoff = stream.Spin
	case "yield":
		cfg.Backoff = stream.Yield
	case "sleep":
		cfg.Backoff = stream.Sleep(c.PollTimeout)
	}
	cl := &internal.Client{Config: cfg, PollTimeout: c.PollTimeout, DisableKeepAlive: true}
	d := &dialer.CoreDialer{ResolveConfig: &dialer.ResolveConfig{CustomDNSServer: c.DNSServer}}
	if c.Proxy != "" {
		proxy := c.Proxy
		d.GetProxy = func(context.Context, string) (string, error) { return proxy, nil }
		d.ProxyConfig = &dialer.ProxyConfig{PollTimeout: c.PollTimeout}
	}
	cl.UseDialer(func(internal.Dialer) internal.Dialer { return d })
	return cl
}

func nonBlocking(conn net.Conn, wait time.Duration) net.Conn {
	if fc, err := nettools.NonBlocking(conn); err == nil {
		return fc
	}
	return nettools.Deadline(conn, wait)
}
