package http

// Request is an HTTP/1.x request message.
type Request struct {
	Method  string
	URL     string
	Version string
	Header  Header
	Body    []byte
}

// Response is an HTTP/1.x response message. StatusCode is not range
// checked, 0 or 999 are carried as-is.
type Response struct {
	Version       string
	StatusCode    uint16
	StatusMessage string
	Header        Header
	Body          []byte
}

func (r *Request) GetHeader(name string) (string, bool) {
	return r.Header.Get(name)
}

func (r *Response) GetHeader(name string) (string, bool) {
	return r.Header.Get(name)
}
