//go:build !darwin && !linux
// +build !darwin,!linux

package nettools

import (
	"net"
	"time"
)

type FDConn struct {
	net.Conn
}

// NonBlocking is only implemented on darwin and linux, use [Deadline]
// elsewhere.
func NonBlocking(c net.Conn) (*FDConn, error) {
	return nil, ErrNoFD
}

func PollReadable(c net.Conn, timeout time.Duration) func(attempt int) error {
	return sleepFor(timeout)
}

func PollWritable(c net.Conn, timeout time.Duration) func(attempt int) error {
	return sleepFor(timeout)
}
