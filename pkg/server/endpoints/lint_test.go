package endpoints

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ztguard/ztguard/pkg/model"
)

const adminPolicyBody = `{
	"name": "admin-everything",
	"document": {
		"Version": "2012-10-17",
		"Statement": [
			{"Sid": "Admin", "Effect": "Allow", "Action": "*", "Resource": "*"}
		]
	}
}`

func TestLintEndpoint(t *testing.T) {
	findings := NewMockFindingsStore()
	findings.On("SaveFindings", mock.AnythingOfType("[]model.Finding")).Return(nil)

	srv := newTestServer(t, findings, nil)
	RegisterLintEndpoints(srv)

	req := httptest.NewRequest("POST", "/lint", strings.NewReader(adminPolicyBody))
	req.Header.Set("Authorization", testAuthHeader(t))
	w := httptest.NewRecorder()

	srv.Router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp LintResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "admin-everything", resp.Name)
	require.NotEmpty(t, resp.Findings)
	assert.Equal(t, "full-admin", resp.Findings[0].Code)

	findings.AssertCalled(t, "SaveFindings", mock.MatchedBy(func(saved []model.Finding) bool {
		return len(saved) > 0 && saved[0].Code == "full-admin"
	}))
}

func TestLintEndpoint_RequiresAuth(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	RegisterLintEndpoints(srv)

	req := httptest.NewRequest("POST", "/lint", strings.NewReader(adminPolicyBody))
	w := httptest.NewRecorder()

	srv.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLintEndpoint_MalformedDocument(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	RegisterLintEndpoints(srv)

	body := `{"name": "broken", "document": {"Statement": [{"Effect": "Maybe"}]}}`
	req := httptest.NewRequest("POST", "/lint", strings.NewReader(body))
	req.Header.Set("Authorization", testAuthHeader(t))
	w := httptest.NewRecorder()

	srv.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "malformed policy document")
}

func TestLintEndpoint_MissingName(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	RegisterLintEndpoints(srv)

	body := `{"document": {"Statement": []}}`
	req := httptest.NewRequest("POST", "/lint", strings.NewReader(body))
	req.Header.Set("Authorization", testAuthHeader(t))
	w := httptest.NewRecorder()

	srv.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "name is required")
}

func TestLintEndpoint_CleanDocumentSavesNothing(t *testing.T) {
	findings := NewMockFindingsStore()

	srv := newTestServer(t, findings, nil)
	RegisterLintEndpoints(srv)

	body := `{
		"name": "scoped-read",
		"document": {
			"Version": "2012-10-17",
			"Statement": [
				{"Effect": "Allow", "Action": "s3:GetObject", "Resource": "arn:aws:s3:::prod-data/reports/*"}
			]
		}
	}`
	req := httptest.NewRequest("POST", "/lint", strings.NewReader(body))
	req.Header.Set("Authorization", testAuthHeader(t))
	w := httptest.NewRecorder()

	srv.Router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp LintResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Findings)
	findings.AssertNotCalled(t, "SaveFindings", mock.Anything)
}
