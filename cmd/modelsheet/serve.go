package main

import (
	"github.com/spf13/cobra"
	"github.com/ukaji3/modelsheet-go/internal/server"
)

var serveAddr string

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the object export and transfer API over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	cmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: server.host:server.port)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	svc, err := newService(cmd.Context(), serviceDeps{source: true, store: true}, "server")
	if err != nil {
		return err
	}

	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Addr()
	}

	handler := server.NewHandler(svc, logger)
	return server.Run(cmd.Context(), addr, handler.Init(cfg.Server.RequestTimeout), logger)
}
