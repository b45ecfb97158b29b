package dialer

import (
	"context"
	"net"
	"net/url"
	"strings"
)

const defaultPort = "80"

var zeroDialer net.Dialer
var customDnsDialer = net.Dialer{
	Resolver: &customServerResolver,
}

// splitAddr splits addr into host and port, defaulting the port to 80.
func splitAddr(addr string) (host, port string) {
	if h, p, err := net.SplitHostPort(addr); err == nil {
		return h, p
	}
	return strings.Trim(addr, "[]"), defaultPort
}

func (d *CoreDialer) Dial(ctx context.Context, addr string) (net.Conn, error) {
	if conn, err := d.tryDialProxy(ctx, addr); conn != nil || err != nil {
		return conn, err
	}

	// as of now net.Dialer could handle current DNS configurations
	host, port := splitAddr(addr)
	dialer, dialctx, dst := &zeroDialer, ctx, net.JoinHostPort(host, port)
	if static, ok := d.ResolveConfig.staticHost(host); ok {
		dst = net.JoinHostPort(static, port)
	}
	if d.ResolveConfig != nil && d.ResolveConfig.CustomDNSServer != "" {
		dialctx = dnsServerCtx{dialctx, d.ResolveConfig.CustomDNSServer}
		dialer = &customDnsDialer
	}
	return dialer.DialContext(dialctx, d.ResolveConfig.tcpNetwork(), dst)
}

func (d *CoreDialer) tryDialProxy(ctx context.Context, addr string) (net.Conn, error) {
	if d.GetProxy == nil {
		return nil, nil
	}
	proxy, err := d.GetProxy(ctx, addr)
	if err != nil || proxy == "" {
		return nil, err
	}
	proxyU, err := url.Parse(proxy)
	if err != nil {
		return nil, err
	}
	return d.DialContextOverProxy(ctx, addr, proxyU)
}
