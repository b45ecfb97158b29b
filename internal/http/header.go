package http

import (
	"fmt"
	"sort"

	"golang.org/x/net/http/httpguts"
)

// Header maps a header name to its value. Names are case sensitive,
// "Host" and "host" are two distinct entries.
type Header map[string]string

func (h Header) Set(name, value string) {
	h[name] = value
}

func (h Header) Get(name string) (value string, ok bool) {
	value, ok = h[name]
	return
}

func (h Header) Del(name string) {
	delete(h, name)
}

func (h Header) Len() int {
	return len(h)
}

func (h Header) Clone() Header {
	if h == nil {
		return nil
	}
	c := make(Header, len(h))
	for k, v := range h {
		c[k] = v
	}
	return c
}

// Range calls f for every field in lexical order of names until f returns
// false. The order is what the encoder writes on the wire.
func (h Header) Range(f func(name, value string) bool) {
	names := make([]string, 0, len(h))
	for k := range h {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		if !f(k, h[k]) {
			return
		}
	}
}

// Validate reports the first field whose name is not an RFC 7230 token or
// whose value contains bytes not allowed in a field value. Neither the
// drafts nor the codec call it, it is for callers wanting strict headers.
func (h Header) Validate() (err error) {
	h.Range(func(name, value string) bool {
		if !httpguts.ValidHeaderFieldName(name) {
			err = fmt.Errorf("invalid header field name %q", name)
			return false
		}
		if !httpguts.ValidHeaderFieldValue(value) {
			err = fmt.Errorf("invalid header field value %q for %q", value, name)
			return false
		}
		return true
	})
	return
}
