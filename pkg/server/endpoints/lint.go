package endpoints

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/ztguard/ztguard/pkg/audit"
	"github.com/ztguard/ztguard/pkg/lint"
	"github.com/ztguard/ztguard/pkg/policy"
	"github.com/ztguard/ztguard/pkg/server"
	"github.com/ztguard/ztguard/pkg/server/store"
)

// LintRequest represents the request body for POST /lint
type LintRequest struct {
	Name     string          `json:"name"`
	Document json.RawMessage `json:"document"`
}

// LintResponse represents the response from POST /lint
type LintResponse struct {
	Name     string         `json:"name"`
	Findings []lint.Finding `json:"findings"`
}

// RegisterLintEndpoints registers the lint endpoint
func RegisterLintEndpoints(s *server.Server) {
	lintRouter := s.Router.PathPrefix("/lint").Subrouter()
	lintRouter.Use(s.JWTMiddleware.Middleware)

	// POST /lint - Lint a posted policy document
	lintRouter.HandleFunc("", handleLint(s)).Methods("POST")
}

func handleLint(s *server.Server) http.HandlerFunc {
	linter := s.Linter
	findingsStore := s.FindingsStore
	registry := s.Registry

	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "failed to read request body")
			return
		}

		var req LintRequest
		if err := json.Unmarshal(body, &req); err != nil {
			respondWithError(w, http.StatusBadRequest, "malformed request body")
			return
		}
		if req.Name == "" {
			respondWithError(w, http.StatusBadRequest, "name is required")
			return
		}
		if len(req.Document) == 0 {
			respondWithError(w, http.StatusBadRequest, "document is required")
			return
		}

		doc, err := policy.ParseDocument(req.Document)
		if err != nil {
			respondWithError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		decl := &policy.Declaration{
			Name:     req.Name,
			Source:   "api",
			Document: *doc,
		}
		findings := linter.LintDeclaration(decl)

		registry.RecordEvent("lint")
		for _, f := range findings {
			audit.Log(audit.FindingEvent{
				Code:         f.Code,
				RuleSeverity: f.Severity.String(),
				ResourceType: f.ResourceType,
				ResourceName: f.ResourceName,
				ResourceARN:  f.ResourceARN,
				Detail:       f.Message,
			})
		}

		if err := saveFindings(findingsStore, findings); err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to persist findings")
			return
		}

		respondWithJSON(w, http.StatusOK, LintResponse{
			Name:     req.Name,
			Findings: findings,
		})
	}
}

func saveFindings(findingsStore store.FindingsStore, findings []lint.Finding) error {
	if findingsStore == nil || len(findings) == 0 {
		return nil
	}
	return findingsStore.SaveFindings(toModelFindings(findings))
}
