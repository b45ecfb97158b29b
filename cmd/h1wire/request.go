package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/frankli0324/h1wire/internal/http"
)

// requestFlags are shared by the commands building a request.
type requestFlags struct {
	method, url, version string
	headers              []string
	body                 string
	requestID            bool
}

func (f *requestFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.method, "method", "X", "GET", "Request method")
	cmd.Flags().StringVar(&f.url, "url", "/", "Request target")
	cmd.Flags().StringVar(&f.version, "version", "HTTP/1.1", "Protocol version")
	cmd.Flags().StringArrayVarP(&f.headers, "header", "H", nil, "Header field as name:value, repeatable")
	cmd.Flags().StringVarP(&f.body, "body", "d", "", "Request body")
	cmd.Flags().BoolVar(&f.requestID, "request-id", false, "Add a random X-Request-Id header")
}

// build assembles the request: config headers first, then host, then
// the flags, so flags win.
func (f *requestFlags) build(cfg *Config, host string) (*http.Request, error) {
	draft := http.NewRequestDraft().
		SetMethod(f.method).
		SetURL(f.url).
		SetVersion(f.version).
		SetBody([]byte(f.body))
	for k, v := range cfg.Headers {
		draft.SetHeader(k, v)
	}
	if host != "" {
		draft.SetHeader("Host", host)
	}
	if f.body != "" {
		draft.SetHeader("Content-Length", fmt.Sprint(len(f.body)))
	}
	if f.requestID {
		draft.SetHeader("X-Request-Id", uuid.New().String())
	}
	for _, h := range f.headers {
		name, value, ok := strings.Cut(h, ":")
		if !ok {
			return nil, fmt.Errorf("invalid header %q, want name:value", h)
		}
		draft.SetHeader(strings.TrimSpace(name), strings.TrimSpace(value))
	}
	return draft.Build()
}
