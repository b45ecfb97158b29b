package stream

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"sync"

	"github.com/frankli0324/h1wire/internal/http"
	"github.com/frankli0324/h1wire/internal/transport"
	"github.com/frankli0324/h1wire/utils/nettools"
)

var ErrLineTooLong = errors.New("stream: line too long")

// Reader is the receiving side of a [Stream]: a buffered reader over the
// transport that frames one message at a time.
type Reader struct {
	mu      sync.Mutex
	br      *bufio.Reader
	backoff Backoff
	body    BodyFramer
	maxLine int
}

func newReader(r io.Reader, cfg *Config) *Reader {
	return &Reader{
		br:      bufio.NewReaderSize(r, cfg.ReadBufferSize),
		backoff: cfg.backoff(),
		body:    cfg.body(),
		maxLine: cfg.MaxLineBytes,
	}
}

// Read reads once from the buffered transport. Would-block conditions are
// returned as they are, so body framers decide whether to wait.
func (r *Reader) Read(p []byte) (int, error) {
	return r.br.Read(p)
}

// Wait runs the configured backoff.
func (r *Reader) Wait(attempt int) error {
	return r.backoff(attempt)
}

// ReadLine reads through the next '\n' and returns the line without its
// terminator. Would-block is retried through the backoff and bytes read
// before it are kept. io.EOF is only returned when no byte of the line was
// read, io.ErrUnexpectedEOF otherwise.
func (r *Reader) ReadLine() ([]byte, error) {
	var line []byte
	for attempt := 0; ; {
		frag, err := r.br.ReadSlice('\n')
		line = append(line, frag...)
		if r.maxLine > 0 && len(line) > r.maxLine {
			return nil, ErrLineTooLong
		}
		switch {
		case err == nil:
			return trimEOL(line), nil
		case err == bufio.ErrBufferFull:
		case nettools.IsWouldBlock(err):
			if err := r.backoff(attempt); err != nil {
				return nil, err
			}
			attempt++
		case err == io.EOF:
			if len(line) == 0 {
				return nil, io.EOF
			}
			return nil, io.ErrUnexpectedEOF
		default:
			return nil, err
		}
	}
}

func trimEOL(line []byte) []byte {
	line = bytes.TrimSuffix(line, []byte("\n"))
	return bytes.TrimSuffix(line, []byte("\r"))
}

// readHead reads the start line and the header lines up to the empty
// line. The returned head holds them re-terminated with CRLF, header lines
// are also returned on their own for the body framer.
func (r *Reader) readHead() (head []byte, fields []string, err error) {
	start, err := r.ReadLine()
	if err != nil {
		return nil, nil, err
	}
	head = append(append(head, start...), "\r\n"...)
	for {
		line, err := r.ReadLine()
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return nil, nil, err
		}
		if len(line) == 0 {
			break
		}
		fields = append(fields, string(line))
		head = append(append(head, line...), "\r\n"...)
	}
	return append(head, "\r\n"...), fields, nil
}

func (r *Reader) readMessage() (head, body []byte, err error) {
	head, fields, err := r.readHead()
	if err != nil {
		return nil, nil, err
	}
	body, err = r.body.ReadBody(r, fields)
	if err != nil {
		return nil, nil, err
	}
	return head, body, nil
}

func (r *Reader) RecvRequest() (*http.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	head, body, err := r.readMessage()
	if err != nil {
		return nil, err
	}
	return transport.ParseRequest(head, body)
}

func (r *Reader) RecvResponse() (*http.Response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	head, body, err := r.readMessage()
	if err != nil {
		return nil, err
	}
	return transport.ParseResponse(head, body)
}
