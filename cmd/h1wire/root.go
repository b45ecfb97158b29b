package main

import (
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
)

type app struct {
	configPath string
	verbose    bool

	cfg    *Config
	logger *log.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: log.New(io.Discard, "h1wire: ", log.LstdFlags)}
	root := &cobra.Command{
		Use:   "h1wire",
		Short: "h1wire - HTTP/1.x messages over non-blocking streams",
		Long: `h1wire builds, encodes, sends and serves HTTP/1.x messages framed by
the h1wire stream engine.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			if a.verbose {
				a.logger.SetOutput(cmd.ErrOrStderr())
			}
			return nil
		},
	}
	root.SetErr(os.Stderr)
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file (e.g. h1wire.yaml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log every message")

	root.AddCommand(a.newEncodeCmd(), a.newSendCmd(), a.newServeCmd())
	return root
}
