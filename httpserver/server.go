// Package httpserver exposes the streaming pipeline over HTTP, emitting
// records as NDJSON (one JSON object per line, flushed as produced) so a
// client sees results before the source file has been fully read.
package httpserver

import (
	"context"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/netutil"
	"golang.org/x/sync/errgroup"

	"github.com/go-sif/tabstream/logging"
)

// Config configures a Server
type Config struct {
	Addr       string // Address to listen on. Defaults to :8080.
	DataDir    string // If set, source paths resolve inside this directory and cannot escape it. If empty, paths are used as given.
	MaxStreams int    // Maximum number of concurrent client connections. Defaults to 64. Zero or negative means unlimited.
}

// Server serves the streaming endpoints over HTTP
type Server struct {
	conf *Config
	log  *logging.Logger
	http *http.Server
}

// CreateServer is a factory for Servers
func CreateServer(conf *Config, log *logging.Logger) *Server {
	if conf.Addr == "" {
		conf.Addr = ":8080"
	}
	if log == nil {
		log = logging.CreateLogger(logging.InfoLevel, nil)
	}
	mux := http.NewServeMux()
	handler := &streamHandler{conf: conf, log: log}
	mux.Handle("/stream/rows", handler)
	mux.HandleFunc("/", usage)
	return &Server{
		conf: conf,
		log:  log,
		http: &http.Server{Addr: conf.Addr, Handler: mux},
	}
}

// Serve listens on the configured address and serves streams until ctx is
// cancelled, then shuts down gracefully. The listener caps concurrent
// connections so a burst of clients degrades to queueing rather than
// unbounded open file handles.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.conf.Addr)
	if err != nil {
		return err
	}
	if s.conf.MaxStreams > 0 {
		ln = netutil.LimitListener(ln, s.conf.MaxStreams)
	}
	s.log.Infof("listening on %s", ln.Addr().String())
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.http.Serve(ln); err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// usage serves a small hint document at the root path
func usage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"try":"/stream/rows?path=data/sample.csv&chunksize=50","format":"application/x-ndjson","notes":"Params: path (CSV or JSONL), chunksize, cols (comma-separated), transform (passthrough|scale|group), scale_src, scale_factor, scale_out, groupby_key"}` + "\n"))
}
