package endpoints

import (
	"encoding/json"
	"net/http"

	"github.com/ztguard/ztguard/pkg/decision"
	"github.com/ztguard/ztguard/pkg/model"
	"github.com/ztguard/ztguard/pkg/server"
)

// RegisterDecideEndpoints registers the decide endpoint
func RegisterDecideEndpoints(s *server.Server) {
	decideRouter := s.Router.PathPrefix("/decide").Subrouter()
	decideRouter.Use(s.JWTMiddleware.Middleware)

	// POST /decide - Evaluate an access request
	decideRouter.HandleFunc("", handleDecide(s)).Methods("POST")
}

func handleDecide(s *server.Server) http.HandlerFunc {
	enforcer := s.Enforcer
	decisionsStore := s.DecisionsStore

	return func(w http.ResponseWriter, r *http.Request) {
		var req decision.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "malformed request body")
			return
		}
		if req.User == "" || req.Action == "" || req.Resource == "" {
			respondWithError(w, http.StatusBadRequest, "user, action and resource are required")
			return
		}

		result, err := enforcer.Enforce(req)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		if decisionsStore != nil {
			record := model.Decision{
				Username:  req.User,
				Action:    req.Action,
				Resource:  req.Resource,
				ClientIP:  req.IP,
				Device:    req.Device,
				Outcome:   result.Decision.Outcome.String(),
				Reason:    result.Decision.Reason,
				Timestamp: result.Decision.Timestamp,
			}
			if err := decisionsStore.SaveDecision(&record); err != nil {
				respondWithError(w, http.StatusInternalServerError, "failed to persist decision")
				return
			}
		}

		respondWithJSON(w, http.StatusOK, result)
	}
}
