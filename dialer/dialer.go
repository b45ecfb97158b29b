package dialer

import (
	"github.com/frankli0324/h1wire/internal/dialer"
)

// Dialers are responsible for creating the connections http messages are
// framed over. for example, opening a raw TCP connection or tunneling
// through an http proxy with CONNECT.
//
// A Dialer MUST NOT hold active connection states, which means a Dialer
// must be able to be swapped out from a [Client] without pain. It SHOULD
// hold the connection related configs like [ProxyConfig] or [ResolveConfig].
type Dialer = dialer.Dialer

// CoreDialer is the default implementation of the [Dialer] interface. It would
// be used by a zero value [Client].
type CoreDialer = dialer.CoreDialer

type ProxyConfig = dialer.ProxyConfig

// ProxyError carries the response of a proxy that refused CONNECT.
type ProxyError = dialer.ProxyError

// we need a dedicated resolver for two scenarios:
//
//  1. Resolve remote address locally in proxied requests
//  2. to customize the DNS server used for resolving hostname
//
// the standard library didn't provide a intuitive way of
// setting DNS server addresses since it only follows the
// system configuration (e.g. /etc/resolv.conf), leaving us only
// one option of using [net.Resolver.Dial] hook with a Go Resolver.
type ResolveConfig = dialer.ResolveConfig
