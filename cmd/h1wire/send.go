package main

import (
	"net"

	"github.com/spf13/cobra"

	"github.com/frankli0324/h1wire/internal/transport"
)

func (a *app) newSendCmd() *cobra.Command {
	f := &requestFlags{}
	cmd := &cobra.Command{
		Use:   "send ADDR",
		Short: "Send a request to ADDR (host[:port]) and print the response",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr := args[0]
			host := addr
			if h, port, err := net.SplitHostPort(addr); err == nil && port == "80" {
				host = h
			}
			req, err := f.build(a.cfg, host)
			if err != nil {
				return err
			}
			a.logger.Printf("-> %s %s %s to %s", req.Method, req.URL, req.Version, addr)
			resp, err := a.cfg.client().CtxDo(cmd.Context(), addr, req)
			if err != nil {
				return err
			}
			a.logger.Printf("<- %d %s (%d bytes)", resp.StatusCode, resp.StatusMessage, len(resp.Body))
			return transport.WriteResponse(cmd.OutOrStdout(), resp)
		},
	}
	f.register(cmd)
	return cmd
}
