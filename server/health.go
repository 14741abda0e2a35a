package server

import (
	"io"
	"net/http"

	"github.com/expki/go-olapcache/logger"
)

func (s *Server) HealthHttp(w http.ResponseWriter, r *http.Request) {
	txid := index.Add(1)
	w.Header().Set("Content-Type", "application/json")
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		logger.Sugar().Debugf("%d request method denied: %s", txid, r.Method)
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		io.WriteString(w, `{"error":"Invalid request method"}`)
		return
	}
	if s.ctx.Err() != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		io.WriteString(w, `{"status":"stopping"}`)
		return
	}
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, `{"status":"ok"}`)
}
