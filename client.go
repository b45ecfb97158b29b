package http

import (
	"github.com/frankli0324/h1wire/internal"
)

type Client = internal.Client
type Handler = internal.Handler
type Middleware = internal.Middleware
