// package transport contains the HTTP/1.x message syntax: serializing a
// built message to wire bytes and parsing a header block plus body bytes
// back into a message.
//
// the syntax follows RFC9112 only as far as the start line, header field
// lines and the blank line terminating them. no transfer codings are
// applied, the body is written and read back verbatim.

package transport
