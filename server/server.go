package server

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/expki/go-olapcache/config"
	"github.com/expki/go-olapcache/logger"
	"github.com/expki/go-olapcache/warmer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

var index atomic.Uint64

// Server is the operational HTTP surface: metrics, health and cache administration.
type Server struct {
	ctx      context.Context
	warmer   *warmer.Warmer
	gatherer prometheus.Gatherer
	http     *http.Server
}

// New builds the server. Warm tasks started through it run under ctx, not the request context.
func New(ctx context.Context, cfg config.ConfigServer, w *warmer.Warmer, gatherer prometheus.Gatherer) *Server {
	s := &Server{
		ctx:      ctx,
		warmer:   w,
		gatherer: gatherer,
	}
	s.http = &http.Server{
		Addr:              cfg.HttpAddress,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler serves the routes over HTTP/1.1 and cleartext HTTP/2.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", s.HealthHttp)
	mux.HandleFunc("/cache/clear", s.ClearCacheHttp)
	mux.HandleFunc("/warm/tasks", s.WarmTasksHttp)
	return h2c.NewHandler(mux, &http2.Server{})
}

// Run listens until Close is called.
func (s *Server) Run() error {
	logger.Sugar().Infof("listening on %s", s.http.Addr)
	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Close(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
