package endpoints

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ztguard/ztguard/pkg/lint"
	"github.com/ztguard/ztguard/pkg/model"
)

func respondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, status int, message string) {
	respondWithJSON(w, status, map[string]string{"error": message})
}

// listParams extracts limit/offset query parameters, capping limit at max.
func listParams(r *http.Request, max int) (limit, offset int) {
	limit = max
	if val := r.URL.Query().Get("limit"); val != "" {
		if i, err := strconv.Atoi(val); err == nil && i > 0 && i < max {
			limit = i
		}
	}
	if val := r.URL.Query().Get("offset"); val != "" {
		if i, err := strconv.Atoi(val); err == nil && i > 0 {
			offset = i
		}
	}
	return limit, offset
}

func toModelFindings(findings []lint.Finding) []model.Finding {
	out := make([]model.Finding, 0, len(findings))
	for _, f := range findings {
		out = append(out, model.Finding{
			Timestamp:    f.Timestamp,
			Code:         f.Code,
			Severity:     f.Severity.String(),
			Message:      f.Message,
			ResourceType: f.ResourceType,
			ResourceName: f.ResourceName,
			ResourceARN:  f.ResourceARN,
			Statement:    f.Statement,
		})
	}
	return out
}
