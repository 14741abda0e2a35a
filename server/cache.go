package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/expki/go-olapcache/logger"
)

type ClearCacheResponse struct {
	Tasks int `json:"tasks"`
}

// ClearCacheHttp drops every cached result and warms the configured views again.
func (s *Server) ClearCacheHttp(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	txid := index.Add(1)
	logger.Sugar().Debugf("%d clear cache started", txid)
	w.Header().Set("Content-Type", "application/json")

	// Ensure the request method is POST
	if r.Method != http.MethodPost {
		logger.Sugar().Debugf("%d request method denied: %s", txid, r.Method)
		w.Header().Set("Allow", http.MethodPost)
		w.WriteHeader(http.StatusMethodNotAllowed)
		io.WriteString(w, `{"error":"Invalid request method"}`)
		return
	}

	tasks := s.warmer.Reset(s.ctx)

	// Marshal response
	raw, err := json.Marshal(ClearCacheResponse{Tasks: len(tasks)})
	if err != nil {
		logger.Sugar().Errorf("%d marshal response: %v", txid, err)
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"error":"Marshal response exception"}`)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write(raw)
	logger.Sugar().Infof("%d clear cache request suceeded, %d warm tasks started (%dms)", txid, len(tasks), time.Since(start).Milliseconds())
}
