package http

// BuildError is returned by [RequestDraft.Build] and [ResponseDraft.Build]
// naming the first field that was never set.
type BuildError struct {
	field string
}

func (e *BuildError) Error() string {
	return "http: missing " + e.field
}

func (e *BuildError) Field() string {
	return e.field
}

var (
	ErrMissingMethod        = &BuildError{"method"}
	ErrMissingURL           = &BuildError{"url"}
	ErrMissingVersion       = &BuildError{"version"}
	ErrMissingBody          = &BuildError{"body"}
	ErrMissingStatusCode    = &BuildError{"status code"}
	ErrMissingStatusMessage = &BuildError{"status message"}
)
