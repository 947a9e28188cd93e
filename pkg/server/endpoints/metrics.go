package endpoints

import (
	"net/http"

	"github.com/ztguard/ztguard/pkg/server"
)

// RegisterMetricsEndpoint registers the metrics endpoint
func RegisterMetricsEndpoint(s *server.Server) {
	registry := s.Registry

	// GET /metrics - Metrics snapshot (no auth required)
	s.Router.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, registry.Snapshot())
	}).Methods("GET")
}
