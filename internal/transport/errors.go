package transport

import "strconv"

// DecodeError reports why a header block could not be turned into a
// message. Errors of the same kind match each other with [errors.Is]
// whatever line they were raised on.
type DecodeError struct {
	msg  string
	Line string // offending line, if any
	error
}

func (e DecodeError) Error() string {
	msg := "transport: " + e.msg
	if e.Line != "" {
		msg += " " + strconv.Quote(e.Line)
	}
	if e.error != nil {
		msg += ", error: " + e.error.Error()
	}
	return msg
}

func (e DecodeError) Wrap(err error) DecodeError {
	e.error = err
	return e
}

func (e DecodeError) Unwrap() error {
	return e.error
}

func (e DecodeError) Is(err error) bool {
	if err, ok := err.(DecodeError); ok {
		return e.msg == err.msg
	}
	return false
}

func (e DecodeError) at(line string) DecodeError {
	e.Line = line
	return e
}

var (
	ErrInvalidEncoding         = DecodeError{msg: "header block is not valid UTF-8"}
	ErrMalformedStartLine      = DecodeError{msg: "malformed start line"}
	ErrInvalidStatusCode       = DecodeError{msg: "invalid status code"}
	ErrMissingHeaderTerminator = DecodeError{msg: "end of header (empty line) not found"}
)
