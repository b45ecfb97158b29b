package stream

import (
	"io"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/frankli0324/h1wire/utils/nettools"
)

// DefaultChunkSize is the read size of [ShortRead] when none is set.
const DefaultChunkSize = 512

// maxPrealloc bounds what [ContentLength] allocates ahead of the bytes
// actually received.
const maxPrealloc = 64 << 10

// FramingError reports a body whose end cannot be determined from the
// header block. Errors of the same kind match each other with [errors.Is].
type FramingError struct {
	msg   string
	Value string // offending header value, if any
}

func (e FramingError) Error() string {
	if e.Value == "" {
		return "stream: " + e.msg
	}
	return "stream: " + e.msg + " " + strconv.Quote(e.Value)
}

func (e FramingError) Is(err error) bool {
	if err, ok := err.(FramingError); ok {
		return e.msg == err.msg
	}
	return false
}

func (e FramingError) with(value string) FramingError {
	e.Value = value
	return e
}

var (
	ErrBodyTooLarge      = FramingError{msg: "declared body length exceeds limit"}
	ErrConflictingLength = FramingError{msg: "multiple differing Content-Length values"}
)

// BodyFramer decides where the body of a message ends. It is called once
// the empty line closing the header block was consumed, with the raw
// header lines of the message.
type BodyFramer interface {
	ReadBody(r *Reader, header []string) ([]byte, error)
}

// ShortRead reads chunks of Size bytes and stops at the first read that
// returns fewer bytes than asked for. A read that would block counts as a
// zero byte read and so ends the body as well, as does the end of stream.
//
// This takes "nothing more to read right now" for "message complete": a
// peer sending its body slower than the reader drains it gets the body
// truncated. Use [ContentLength] when the peer declares a length.
type ShortRead struct {
	Size int
}

func (s ShortRead) ReadBody(r *Reader, _ []string) ([]byte, error) {
	size := s.Size
	if size <= 0 {
		size = DefaultChunkSize
	}
	buf := make([]byte, size)
	body := []byte{}
	for {
		n, err := r.Read(buf)
		switch {
		case err == nil:
		case nettools.IsWouldBlock(err):
			n = 0
		case err == io.EOF:
			return append(body, buf[:n]...), nil
		default:
			return nil, err
		}
		body = append(body, buf[:n]...)
		if n < size {
			return body, nil
		}
	}
}

// ContentLength reads exactly as many bytes as the Content-Length header
// (matched case-insensitively) declares, waiting through would-block
// conditions with the stream's backoff. Messages without a usable
// Content-Length are handed to Fallback, [ShortRead] by default.
type ContentLength struct {
	Fallback BodyFramer
	Max      int64 // 0 means no limit
}

func (c ContentLength) ReadBody(r *Reader, header []string) ([]byte, error) {
	n, ok, err := declaredLength(header)
	if err != nil {
		return nil, err
	}
	if !ok {
		fallback := c.Fallback
		if fallback == nil {
			fallback = ShortRead{}
		}
		return fallback.ReadBody(r, header)
	}
	if (c.Max > 0 && n > c.Max) || n > math.MaxInt {
		return nil, ErrBodyTooLarge.with(strconv.FormatInt(n, 10))
	}
	// the buffer grows with what arrives, a declared length alone
	// allocates at most maxPrealloc
	body := make([]byte, 0, min(n, maxPrealloc))
	for attempt := 0; int64(len(body)) < n; {
		if len(body) == cap(body) {
			body = slices.Grow(body, int(min(n-int64(len(body)), int64(cap(body)))))
		}
		want := int(min(n-int64(len(body)), int64(cap(body)-len(body))))
		m, err := r.Read(body[len(body) : len(body)+want])
		body = body[:len(body)+m]
		switch {
		case err == nil:
		case nettools.IsWouldBlock(err):
			if err := r.Wait(attempt); err != nil {
				return nil, err
			}
			attempt++
		case err == io.EOF:
			if int64(len(body)) == n {
				return body, nil
			}
			return nil, io.ErrUnexpectedEOF
		default:
			return nil, err
		}
	}
	return body, nil
}

// NoBody ends every body right after the header block, as for requests
// without a Content-Length or responses to CONNECT.
type NoBody struct{}

func (NoBody) ReadBody(*Reader, []string) ([]byte, error) {
	return []byte{}, nil
}

// declaredLength returns the value of the Content-Length lines. Repeated
// lines must agree, a message declaring two lengths cannot be framed.
func declaredLength(header []string) (n int64, ok bool, err error) {
	var values []string
	for _, line := range header {
		name, value, found := strings.Cut(line, ":")
		if !found || !strings.EqualFold(strings.Trim(name, " \t"), "Content-Length") {
			continue
		}
		value = strings.Trim(value, " \t")
		if len(values) > 0 && value != values[0] {
			return 0, false, ErrConflictingLength.with(strings.Join(append(values, value), ", "))
		}
		values = append(values, value)
	}
	if len(values) == 0 {
		return 0, false, nil
	}
	u, perr := strconv.ParseUint(values[0], 10, 63)
	if perr != nil {
		return 0, false, nil
	}
	return int64(u), true, nil
}
