package http

// opt is a field that is either present or absent.
type opt[T any] struct {
	v  T
	ok bool
}

func some[T any](v T) opt[T] { return opt[T]{v, true} }

// take moves the value out, leaving the field absent.
func (o *opt[T]) take() T {
	v := o.v
	*o = opt[T]{}
	return v
}

// RequestDraft accumulates request fields until [RequestDraft.Build]
// turns them into a *[Request]. The zero value is ready to use.
//
// Setters may be called any number of times, the last write wins.
type RequestDraft struct {
	method, url, version opt[string]
	body                 opt[[]byte]
	header               Header
}

func NewRequestDraft() *RequestDraft {
	return &RequestDraft{header: Header{}}
}

// SetMethod sets the request method. An empty string leaves the method
// absent since a built request never carries an empty start line token,
// the same goes for SetURL and SetVersion.
func (d *RequestDraft) SetMethod(method string) *RequestDraft {
	d.method = opt[string]{method, method != ""}
	return d
}

func (d *RequestDraft) SetURL(url string) *RequestDraft {
	d.url = opt[string]{url, url != ""}
	return d
}

func (d *RequestDraft) SetVersion(version string) *RequestDraft {
	d.version = opt[string]{version, version != ""}
	return d
}

// SetBody sets the body, a nil body counts as an empty one. The slice is
// kept as is, not copied.
func (d *RequestDraft) SetBody(body []byte) *RequestDraft {
	if body == nil {
		body = []byte{}
	}
	d.body = some(body)
	return d
}

func (d *RequestDraft) SetHeader(name, value string) *RequestDraft {
	if d.header == nil {
		d.header = Header{}
	}
	d.header.Set(name, value)
	return d
}

// SetHeaders replaces every header set so far with a copy of h.
func (d *RequestDraft) SetHeaders(h Header) *RequestDraft {
	d.header = h.Clone()
	if d.header == nil {
		d.header = Header{}
	}
	return d
}

// Build checks method, url, version and body in that order and fails with
// the first one missing. On success every field is consumed: the scalar
// fields become absent and the header store is replaced with an empty one.
func (d *RequestDraft) Build() (*Request, error) {
	switch {
	case !d.method.ok:
		return nil, ErrMissingMethod
	case !d.url.ok:
		return nil, ErrMissingURL
	case !d.version.ok:
		return nil, ErrMissingVersion
	case !d.body.ok:
		return nil, ErrMissingBody
	}
	header := d.header
	if header == nil {
		header = Header{}
	}
	d.header = Header{}
	return &Request{
		Method:  d.method.take(),
		URL:     d.url.take(),
		Version: d.version.take(),
		Header:  header,
		Body:    d.body.take(),
	}, nil
}

// ResponseDraft is the response counterpart of [RequestDraft].
type ResponseDraft struct {
	version, statusMessage opt[string]
	statusCode             opt[uint16]
	body                   opt[[]byte]
	header                 Header
}

func NewResponseDraft() *ResponseDraft {
	return &ResponseDraft{header: Header{}}
}

func (d *ResponseDraft) SetVersion(version string) *ResponseDraft {
	d.version = opt[string]{version, version != ""}
	return d
}

func (d *ResponseDraft) SetStatusCode(code uint16) *ResponseDraft {
	d.statusCode = some(code)
	return d
}

// SetStatusMessage sets the reason phrase. Unlike the start line tokens
// an empty message is a present value.
func (d *ResponseDraft) SetStatusMessage(msg string) *ResponseDraft {
	d.statusMessage = some(msg)
	return d
}

func (d *ResponseDraft) SetBody(body []byte) *ResponseDraft {
	if body == nil {
		body = []byte{}
	}
	d.body = some(body)
	return d
}

func (d *ResponseDraft) SetHeader(name, value string) *ResponseDraft {
	if d.header == nil {
		d.header = Header{}
	}
	d.header.Set(name, value)
	return d
}

func (d *ResponseDraft) SetHeaders(h Header) *ResponseDraft {
	d.header = h.Clone()
	if d.header == nil {
		d.header = Header{}
	}
	return d
}

// Build checks version, status code, status message and body in that order.
func (d *ResponseDraft) Build() (*Response, error) {
	switch {
	case !d.version.ok:
		return nil, ErrMissingVersion
	case !d.statusCode.ok:
		return nil, ErrMissingStatusCode
	case !d.statusMessage.ok:
		return nil, ErrMissingStatusMessage
	case !d.body.ok:
		return nil, ErrMissingBody
	}
	header := d.header
	if header == nil {
		header = Header{}
	}
	d.header = Header{}
	return &Response{
		Version:       d.version.take(),
		StatusCode:    d.statusCode.take(),
		StatusMessage: d.statusMessage.take(),
		Header:        header,
		Body:          d.body.take(),
	}, nil
}
