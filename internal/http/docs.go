// package http contains the request and response types, which are meant
// to be exported. the package name is meant to be same with the top
// level package name so that IDEs and code editors could pick them up
//
// messages are only ever produced by a [RequestDraft] or [ResponseDraft]
// (or by the decoder, which goes through them), so a *[Request] or
// *[Response] crossing a package boundary always has every start line
// field present.
//
// a built message owns its Header: headers handed to SetHeaders are
// copied and the draft starts over with an empty store after Build, so
// nothing the caller still holds aliases it. the body slice is the one
// passed to SetBody. the fields stay exported plain values; nothing in
// this module mutates a message after it was built, and callers changing
// one do so without the draft's guarantees.
package http
