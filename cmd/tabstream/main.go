// Command tabstream serves tabular files as chunked NDJSON streams over HTTP.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-sif/tabstream/httpserver"
	"github.com/go-sif/tabstream/logging"
)

func main() {
	addr := flag.String("addr", ":8080", "address to listen on")
	dataDir := flag.String("data-dir", "", "directory to resolve source paths inside (empty: use paths as given)")
	maxStreams := flag.Int("max-streams", 64, "maximum concurrent client connections (0: unlimited)")
	logLevel := flag.String("log-level", "info", "log level (trace|debug|info|warn|error)")
	flag.Parse()

	log := logging.CreateLogger(logging.LogLevelFromString(*logLevel), os.Stderr)
	server := httpserver.CreateServer(&httpserver.Config{
		Addr:       *addr,
		DataDir:    *dataDir,
		MaxStreams: *maxStreams,
	}, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := server.Serve(ctx); err != nil {
		log.Errorf("server stopped: %v", err)
		os.Exit(1)
	}
}
