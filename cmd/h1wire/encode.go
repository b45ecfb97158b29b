package main

import (
	"github.com/spf13/cobra"

	"github.com/frankli0324/h1wire/internal/transport"
)

func (a *app) newEncodeCmd() *cobra.Command {
	f := &requestFlags{}
	var host string
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Print the wire bytes of a request built from flags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := f.build(a.cfg, host)
			if err != nil {
				return err
			}
			return transport.WriteRequest(cmd.OutOrStdout(), req)
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&host, "host", "", "Host header value")
	return cmd
}
