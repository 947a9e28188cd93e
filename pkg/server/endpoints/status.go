package endpoints

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"

	"github.com/ztguard/ztguard/pkg/server"
	"github.com/ztguard/ztguard/pkg/server/store"
)

// StatusResponse represents the response from GET /
type StatusResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Database string `json:"database"`
}

// RegisterStatusEndpoints registers the status endpoint
func RegisterStatusEndpoints(s *server.Server) {
	// GET / - Status page (no auth required)
	s.Router.HandleFunc("/", handleStatus(s.HealthStore)).Methods("GET")
}

func handleStatus(healthStore store.HealthStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version := os.Getenv("ZTGUARD_VERSION_DISPLAY")
		if version == "" {
			version = "0.1.0"
		}

		database := "ok"
		if healthStore == nil {
			database = "disabled"
		} else if err := healthStore.CheckConnectivity(); err != nil {
			database = "unreachable"
		}

		// JSON when requested via Accept header or format query param
		accept := r.Header.Get("Accept")
		format := r.URL.Query().Get("format")
		if format == "json" || strings.Contains(accept, "application/json") {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(StatusResponse{
				Status:   "ok",
				Version:  version,
				Database: database,
			})
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ztguard server is running (version " + version + ", database " + database + ")\n"))
	}
}
