package stream

import (
	"io"
	"sync"

	"github.com/frankli0324/h1wire/internal/http"
	"github.com/frankli0324/h1wire/internal/transport"
	"github.com/frankli0324/h1wire/utils/nettools"
)

// Writer is the transmitting side of a [Stream]. Each message is encoded
// into a reused buffer and written in full before the next one starts.
type Writer struct {
	mu      sync.Mutex
	w       io.Writer
	backoff Backoff
	buf     []byte
	size    int
}

func newWriter(w io.Writer, cfg *Config) *Writer {
	return &Writer{
		w:       w,
		backoff: cfg.writeBackoff(),
		buf:     make([]byte, 0, cfg.WriteBufferSize),
		size:    cfg.WriteBufferSize,
	}
}

func (w *Writer) SendRequest(req *http.Request) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf = transport.AppendRequest(w.buf[:0], req)
	defer w.shrink()
	return w.writeFlush(w.buf)
}

func (w *Writer) SendResponse(resp *http.Response) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf = transport.AppendResponse(w.buf[:0], resp)
	defer w.shrink()
	return w.writeFlush(w.buf)
}

// shrink drops a buffer grown past four times its configured size by an
// unusually large message.
func (w *Writer) shrink() {
	if cap(w.buf) > 4*w.size {
		w.buf = make([]byte, 0, w.size)
	}
}

// writeFlush writes p in full, retrying on would-block, then flushes the
// transport if it buffers.
func (w *Writer) writeFlush(p []byte) error {
	for attempt := 0; len(p) > 0; {
		n, err := w.w.Write(p)
		p = p[n:]
		if err == nil {
			continue
		}
		if !nettools.IsWouldBlock(err) {
			return err
		}
		if err := w.backoff(attempt); err != nil {
			return err
		}
		attempt++
	}
	if f, ok := w.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}
