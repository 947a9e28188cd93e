package endpoints

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ztguard/ztguard/pkg/model"
)

func TestFindingsEndpoint(t *testing.T) {
	stored := []model.Finding{
		{ID: 2, Code: "full-admin", Severity: "critical", ResourceName: "admin-everything", Timestamp: time.Now()},
		{ID: 1, Code: "wildcard-resource", Severity: "high", ResourceName: "admin-everything", Timestamp: time.Now()},
	}

	findings := NewMockFindingsStore()
	findings.On("ListFindings", "admin-everything", 1000, 0).Return(stored, nil)
	findings.On("CountFindings", "admin-everything").Return(int64(2), nil)

	srv := newTestServer(t, findings, nil)
	RegisterFindingsEndpoints(srv)

	req := httptest.NewRequest("GET", "/findings?resource=admin-everything", nil)
	req.Header.Set("Authorization", testAuthHeader(t))
	w := httptest.NewRecorder()

	srv.Router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp FindingsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(2), resp.Count)
	require.Len(t, resp.Findings, 2)
	assert.Equal(t, "full-admin", resp.Findings[0].Code)
}

func TestFindingsEndpoint_LimitCapped(t *testing.T) {
	findings := NewMockFindingsStore()
	findings.On("ListFindings", "", 50, 10).Return([]model.Finding{}, nil)
	findings.On("CountFindings", "").Return(int64(0), nil)

	srv := newTestServer(t, findings, nil)
	RegisterFindingsEndpoints(srv)

	req := httptest.NewRequest("GET", "/findings?limit=50&offset=10", nil)
	req.Header.Set("Authorization", testAuthHeader(t))
	w := httptest.NewRecorder()

	srv.Router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	findings.AssertExpectations(t)
}

func TestFindingsEndpoint_RequiresAuth(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	RegisterFindingsEndpoints(srv)

	req := httptest.NewRequest("GET", "/findings", nil)
	w := httptest.NewRecorder()

	srv.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDecisionsEndpoint(t *testing.T) {
	stored := []model.Decision{
		{ID: 1, Username: "alice", Action: "s3:GetObject", Outcome: "allow", Timestamp: time.Now()},
	}

	decisions := NewMockDecisionsStore()
	decisions.On("ListDecisions", "alice", 1000, 0).Return(stored, nil)
	decisions.On("CountDecisions", "alice").Return(int64(1), nil)

	srv := newTestServer(t, nil, decisions)
	RegisterDecisionsEndpoints(srv)

	req := httptest.NewRequest("GET", "/decisions?user=alice", nil)
	req.Header.Set("Authorization", testAuthHeader(t))
	w := httptest.NewRecorder()

	srv.Router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp DecisionsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.Count)
	require.Len(t, resp.Decisions, 1)
	assert.Equal(t, "allow", resp.Decisions[0].Outcome)
}
