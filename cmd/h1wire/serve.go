package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net"
	"strconv"
	"sync"

	"github.com/spf13/cobra"

	"github.com/frankli0324/h1wire/internal/http"
	"github.com/frankli0324/h1wire/internal/stream"
)

func (a *app) newServeCmd() *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Answer every request with a 200 echoing its body",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ln, err := net.Listen("tcp", listen)
			if err != nil {
				return err
			}
			a.logger.Printf("listening on %s", ln.Addr())
			return serve(cmd.Context(), ln, a.cfg, a.logger)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "127.0.0.1:8080", "Address to listen on")
	return cmd
}

// serve accepts connections on ln until ctx is done.
func serve(ctx context.Context, ln net.Listener, cfg *Config, logger *log.Logger) error {
	go func() {
		<-ctx.Done()
		ln.Close()
	}()
	var wg sync.WaitGroup
	defer wg.Wait()
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			serveConn(ctx, conn, cfg, logger)
		}()
	}
}

// serveConn receives on one goroutine and answers on another through the
// owned halves of the connection's stream.
func serveConn(ctx context.Context, conn net.Conn, cfg *Config, logger *log.Logger) {
	defer conn.Close()
	nb := nonBlocking(conn, cfg.PollTimeout)
	rx, tx := stream.NewStream(nb, cfg.streamConfig(ctx, nb)).IntoSplit()

	reqs := make(chan *http.Request)
	done := make(chan struct{})
	go func() {
		defer close(reqs)
		for {
			req, err := rx.RecvRequest()
			if err != nil {
				if !errors.Is(err, io.EOF) && ctx.Err() == nil {
					logger.Printf("recv from %s: %v", conn.RemoteAddr(), err)
				}
				return
			}
			logger.Printf("%s %s %s from %s", req.Method, req.URL, req.Version, conn.RemoteAddr())
			select {
			case reqs <- req:
			case <-done:
				return
			}
		}
	}()
	defer close(done)

	for req := range reqs {
		if err := tx.SendResponse(echo(req)); err != nil {
			logger.Printf("send to %s: %v", conn.RemoteAddr(), err)
			return
		}
	}
	tx.Close()
}

func echo(req *http.Request) *http.Response {
	d := http.NewResponseDraft().
		SetVersion(req.Version).
		SetStatusCode(200).
		SetStatusMessage("OK").
		SetHeader("Content-Length", strconv.Itoa(len(req.Body))).
		SetBody(req.Body)
	if v, ok := req.GetHeader("Content-Type"); ok {
		d.SetHeader("Content-Type", v)
	}
	if v, ok := req.GetHeader("X-Request-Id"); ok {
		d.SetHeader("X-Request-Id", v)
	}
	resp, _ := d.Build()
	return resp
}
