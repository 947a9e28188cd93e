package endpoints

import (
	"net/http"

	"github.com/ztguard/ztguard/pkg/model"
	"github.com/ztguard/ztguard/pkg/server"
)

// DecisionsResponse represents the response from GET /decisions
type DecisionsResponse struct {
	Count     int64            `json:"count"`
	Decisions []model.Decision `json:"decisions"`
}

// RegisterDecisionsEndpoints registers the decisions listing endpoint
func RegisterDecisionsEndpoints(s *server.Server) {
	decisionsRouter := s.Router.PathPrefix("/decisions").Subrouter()
	decisionsRouter.Use(s.JWTMiddleware.Middleware)

	// GET /decisions?user=...&limit=...&offset=... - List stored decisions
	decisionsRouter.HandleFunc("", handleListDecisions(s)).Methods("GET")
}

func handleListDecisions(s *server.Server) http.HandlerFunc {
	decisionsStore := s.DecisionsStore
	cfg := s.Config

	return func(w http.ResponseWriter, r *http.Request) {
		username := r.URL.Query().Get("user")
		limit, offset := listParams(r, cfg.APIListLimitMax)

		decisions, err := decisionsStore.ListDecisions(username, limit, offset)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to list decisions")
			return
		}

		count, err := decisionsStore.CountDecisions(username)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to count decisions")
			return
		}

		if decisions == nil {
			decisions = []model.Decision{}
		}
		respondWithJSON(w, http.StatusOK, DecisionsResponse{
			Count:     count,
			Decisions: decisions,
		})
	}
}
