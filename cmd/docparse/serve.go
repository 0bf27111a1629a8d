package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/docparse/internal/export"
	"github.com/pdiddy/docparse/internal/server"
	"github.com/pdiddy/docparse/pkg/types"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the paper collection over HTTP",
	Long: `Serve starts an HTTP server exposing the collection. Routes are
available at the root and under /api:

  GET    /papers        list paper summaries
  POST   /papers        add a paper: {"url": "..."}
  GET    /papers/{id}   full record including markdown
  DELETE /papers/{id}   remove a paper
  POST   /export        write an export file: {"format": "...", "filename": "..."}
  GET    /health        liveness and paper count`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides server.addr)")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	coll, err := openCollection(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer coll.Close()

	srv, err := newServer(coll, cfg.Server, cfg.Export.Format)
	if err != nil {
		return err
	}
	return srv.Run(ctx, cfg.Server.Addr)
}

// newServer builds the HTTP server with the configured export format
// resolved to its canonical name.
func newServer(papers server.Papers, cfg types.ServerConfig, format types.ExportFormat) (*server.Server, error) {
	canonical, err := export.ParseFormat(string(format))
	if err != nil {
		return nil, fmt.Errorf("export.format: %w", err)
	}
	return server.New(papers, cfg, canonical), nil
}
