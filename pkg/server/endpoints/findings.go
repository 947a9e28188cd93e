package endpoints

import (
	"net/http"

	"github.com/ztguard/ztguard/pkg/model"
	"github.com/ztguard/ztguard/pkg/server"
)

// FindingsResponse represents the response from GET /findings
type FindingsResponse struct {
	Count    int64           `json:"count"`
	Findings []model.Finding `json:"findings"`
}

// RegisterFindingsEndpoints registers the findings listing endpoint
func RegisterFindingsEndpoints(s *server.Server) {
	findingsRouter := s.Router.PathPrefix("/findings").Subrouter()
	findingsRouter.Use(s.JWTMiddleware.Middleware)

	// GET /findings?resource=...&limit=...&offset=... - List stored findings
	findingsRouter.HandleFunc("", handleListFindings(s)).Methods("GET")
}

func handleListFindings(s *server.Server) http.HandlerFunc {
	findingsStore := s.FindingsStore
	cfg := s.Config

	return func(w http.ResponseWriter, r *http.Request) {
		resource := r.URL.Query().Get("resource")
		limit, offset := listParams(r, cfg.APIListLimitMax)

		findings, err := findingsStore.ListFindings(resource, limit, offset)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to list findings")
			return
		}

		count, err := findingsStore.CountFindings(resource)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to count findings")
			return
		}

		if findings == nil {
			findings = []model.Finding{}
		}
		respondWithJSON(w, http.StatusOK, FindingsResponse{
			Count:    count,
			Findings: findings,
		})
	}
}
