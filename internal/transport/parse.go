package transport

import (
	"bytes"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/frankli0324/h1wire/internal/http"
)

var headerTerminator = []byte("\r\n\r\n")

// ParseRequest decodes a request from its header block (start line and
// header lines, with or without the terminating empty line) and the body
// bytes that followed it.
//
// The request line must consist of exactly three whitespace separated
// tokens. Header lines are split on the first ':' with spaces and tabs
// around name and value trimmed; a line without ':' is dropped.
func ParseRequest(head, body []byte) (*http.Request, error) {
	start, fields, err := splitHead(head)
	if err != nil {
		return nil, err
	}
	tokens := strings.Fields(start)
	if len(tokens) != 3 {
		return nil, ErrMalformedStartLine.at(start)
	}
	return http.NewRequestDraft().
		SetMethod(tokens[0]).
		SetURL(tokens[1]).
		SetVersion(tokens[2]).
		SetHeaders(parseHeader(fields)).
		SetBody(bytes.Clone(body)).
		Build()
}

// ParseResponse decodes a response the same way as [ParseRequest]. The
// status line needs at least three tokens, everything after the status
// code is joined with single spaces into the status message.
func ParseResponse(head, body []byte) (*http.Response, error) {
	start, fields, err := splitHead(head)
	if err != nil {
		return nil, err
	}
	tokens := strings.Fields(start)
	if len(tokens) < 3 {
		return nil, ErrMalformedStartLine.at(start)
	}
	code, err := strconv.ParseUint(tokens[1], 10, 16)
	if err != nil {
		return nil, ErrInvalidStatusCode.at(tokens[1]).Wrap(err)
	}
	return http.NewResponseDraft().
		SetVersion(tokens[0]).
		SetStatusCode(uint16(code)).
		SetStatusMessage(strings.Join(tokens[2:], " ")).
		SetHeaders(parseHeader(fields)).
		SetBody(bytes.Clone(body)).
		Build()
}

// ParseRequestBytes decodes a request held entirely in memory, split at
// the first empty line.
func ParseRequestBytes(raw []byte) (*http.Request, error) {
	head, body, err := cutHead(raw)
	if err != nil {
		return nil, err
	}
	return ParseRequest(head, body)
}

func ParseResponseBytes(raw []byte) (*http.Response, error) {
	head, body, err := cutHead(raw)
	if err != nil {
		return nil, err
	}
	return ParseResponse(head, body)
}

func cutHead(raw []byte) (head, body []byte, err error) {
	i := bytes.Index(raw, headerTerminator)
	if i == -1 {
		return nil, nil, ErrMissingHeaderTerminator
	}
	return raw[:i+2], raw[i+len(headerTerminator):], nil
}

// splitHead returns the start line and the header lines preceding the
// first empty line.
func splitHead(head []byte) (start string, fields []string, err error) {
	if !utf8.Valid(head) {
		return "", nil, ErrInvalidEncoding
	}
	lines := strings.Split(string(head), "\n")
	start = strings.TrimSuffix(lines[0], "\r")
	for _, line := range lines[1:] {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			break
		}
		fields = append(fields, line)
	}
	return start, fields, nil
}

func parseHeader(fields []string) http.Header {
	h := make(http.Header, len(fields))
	for _, line := range fields {
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		h.Set(strings.Trim(name, " \t"), strings.Trim(value, " \t"))
	}
	return h
}
