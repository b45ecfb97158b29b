// Package http frames HTTP/1.x messages over byte streams that may report
// would-block conditions instead of blocking.
//
// Messages are plain values: a [Request] or [Response] is built with a
// draft, encoded by a [Stream] and decoded back by the peer's [Stream].
package http

import (
	"io"

	"github.com/frankli0324/h1wire/internal/http"
	"github.com/frankli0324/h1wire/internal/stream"
	"github.com/frankli0324/h1wire/internal/transport"
)

type Header = http.Header
type Request = http.Request
type Response = http.Response

type RequestDraft = http.RequestDraft
type ResponseDraft = http.ResponseDraft
type BuildError = http.BuildError

var (
	ErrMissingMethod        = http.ErrMissingMethod
	ErrMissingURL           = http.ErrMissingURL
	ErrMissingVersion       = http.ErrMissingVersion
	ErrMissingBody          = http.ErrMissingBody
	ErrMissingStatusCode    = http.ErrMissingStatusCode
	ErrMissingStatusMessage = http.ErrMissingStatusMessage
)

func NewRequestDraft() *RequestDraft   { return http.NewRequestDraft() }
func NewResponseDraft() *ResponseDraft { return http.NewResponseDraft() }

type DecodeError = transport.DecodeError

var (
	ErrInvalidEncoding         = transport.ErrInvalidEncoding
	ErrMalformedStartLine      = transport.ErrMalformedStartLine
	ErrInvalidStatusCode       = transport.ErrInvalidStatusCode
	ErrMissingHeaderTerminator = transport.ErrMissingHeaderTerminator
)

// EncodeRequest returns the wire form of r.
func EncodeRequest(r *Request) []byte { return transport.RequestBytes(r) }

// EncodeResponse returns the wire form of r.
func EncodeResponse(r *Response) []byte { return transport.ResponseBytes(r) }

// DecodeRequest parses a complete request, everything after the header
// block being its body.
func DecodeRequest(raw []byte) (*Request, error) { return transport.ParseRequestBytes(raw) }

// DecodeResponse is the response counterpart of [DecodeRequest].
func DecodeResponse(raw []byte) (*Response, error) { return transport.ParseResponseBytes(raw) }

type Stream = stream.Stream
type Config = stream.Config

type Receiving = stream.Receiving
type Transmitting = stream.Transmitting
type Receiver = stream.Receiver
type Transmitter = stream.Transmitter
type ReceiverRef = stream.ReceiverRef
type TransmitterRef = stream.TransmitterRef

type Backoff = stream.Backoff
type BodyFramer = stream.BodyFramer
type ShortRead = stream.ShortRead
type ContentLength = stream.ContentLength
type NoBody = stream.NoBody

type FramingError = stream.FramingError

var (
	ErrStreamSplit       = stream.ErrStreamSplit
	ErrLineTooLong       = stream.ErrLineTooLong
	ErrBodyTooLarge      = stream.ErrBodyTooLarge
	ErrConflictingLength = stream.ErrConflictingLength
)

// NewStream wraps conn, see [stream.NewStream].
func NewStream(conn io.ReadWriter, cfg *Config) *Stream { return stream.NewStream(conn, cfg) }
