package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/expki/go-olapcache/logger"
	"github.com/expki/go-olapcache/warmer"
)

type WarmTasksResponse struct {
	Tasks []warmer.TaskInfo `json:"tasks"`
}

func (s *Server) WarmTasksHttp(w http.ResponseWriter, r *http.Request) {
	txid := index.Add(1)
	w.Header().Set("Content-Type", "application/json")

	// Ensure the request method is GET
	if r.Method != http.MethodGet {
		logger.Sugar().Debugf("%d request method denied: %s", txid, r.Method)
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		io.WriteString(w, `{"error":"Invalid request method"}`)
		return
	}

	tasks := s.warmer.Tasks()
	res := WarmTasksResponse{
		Tasks: make([]warmer.TaskInfo, len(tasks)),
	}
	for idx, task := range tasks {
		res.Tasks[idx] = task.Info()
	}

	// Marshal response
	raw, err := json.Marshal(res)
	if err != nil {
		logger.Sugar().Errorf("%d marshal response: %v", txid, err)
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"error":"Marshal response exception"}`)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write(raw)
	logger.Sugar().Debugf("%d listed %d warm tasks", txid, len(tasks))
}
