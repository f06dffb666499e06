// Package metrics serves Prometheus metrics and pprof profiles on a listener
// separate from the frontends.
package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chihaya/benc/pkg/log"
	"github.com/chihaya/benc/pkg/stop"
)

const readHeaderTimeout = time.Minute

// Server is a running metrics endpoint.
type Server struct {
	srv *http.Server
	ln  net.Listener
}

// Addr returns the address the Server is listening on.
func (s *Server) Addr() string {
	return s.ln.Addr().String()
}

// Stop shuts down the server.
func (s *Server) Stop() stop.Result {
	c := make(stop.Channel)
	go func() {
		c.Done(s.srv.Shutdown(context.Background()))
	}()

	return c.Result()
}

// Handler returns the mux served by a Server: /metrics plus the pprof
// endpoints under /debug/pprof/.
func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	for path, h := range map[string]http.HandlerFunc{
		"/debug/pprof/":        pprof.Index,
		"/debug/pprof/cmdline": pprof.Cmdline,
		"/debug/pprof/profile": pprof.Profile,
		"/debug/pprof/symbol":  pprof.Symbol,
		"/debug/pprof/trace":   pprof.Trace,
	} {
		mux.HandleFunc(path, h)
	}

	return mux
}

// NewServer binds addr and serves Handler on it in the background.
func NewServer(addr string) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	s := &Server{
		srv: &http.Server{
			Handler:           Handler(),
			ReadHeaderTimeout: readHeaderTimeout,
		},
		ln: ln,
	}

	go func() {
		log.Info("started serving metrics", log.Fields{"addr": s.Addr()})
		if err := s.srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed while serving metrics", log.Err(err))
		}
	}()

	return s, nil
}
