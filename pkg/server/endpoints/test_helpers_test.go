package endpoints

import (
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/ztguard/ztguard/pkg/audit"
	"github.com/ztguard/ztguard/pkg/config"
	"github.com/ztguard/ztguard/pkg/decision"
	"github.com/ztguard/ztguard/pkg/enforce"
	"github.com/ztguard/ztguard/pkg/lint"
	"github.com/ztguard/ztguard/pkg/metrics"
	"github.com/ztguard/ztguard/pkg/server"
	"github.com/ztguard/ztguard/pkg/server/middleware"
)

const testJWTKey = "endpoint-test-key"

// newTestServer builds a server wired with mock stores and an in-memory
// decision engine, no database required.
func newTestServer(t *testing.T, findings *MockFindingsStore, decisions *MockDecisionsStore) *server.Server {
	t.Helper()

	audit.SetEnabled(false)
	t.Cleanup(func() { audit.SetEnabled(true) })

	t.Setenv("ZTGUARD_CONFIG_PATH", t.TempDir())
	cfg, err := config.Load()
	require.NoError(t, err)

	policy, err := decision.NewContextPolicy(
		[]string{"10.0.0.0/8"},
		[]string{"laptop-42"},
		0, 24,
	)
	require.NoError(t, err)

	rules := &decision.RuleSet{
		DefaultOutcome: decision.OutcomeDeny,
		Rules: []decision.Rule{
			{ID: "allow-read", Description: "Read access is always safe", Outcome: decision.OutcomeAllow,
				Conditions: decision.Conditions{Actions: []string{"s3:GetObject"}}},
		},
	}

	registry := metrics.NewRegistry()
	engine := decision.NewEngine(policy, rules)
	enforcer := enforce.NewEnforcer(engine,
		enforce.WithRegistry(registry),
		enforce.WithAuditFunc(func(audit.Event) {}),
	)

	srv := &server.Server{
		Router:        mux.NewRouter().UseEncodedPath(),
		Config:        cfg,
		Linter:        lint.NewLinter(),
		Enforcer:      enforcer,
		Registry:      registry,
		JWTMiddleware: middleware.NewJWTAuthenticator([]byte(testJWTKey)),
	}
	// Assign only non-nil mocks so handlers see a nil interface otherwise
	if findings != nil {
		srv.FindingsStore = findings
	}
	if decisions != nil {
		srv.DecisionsStore = decisions
	}
	return srv
}

// testAuthHeader issues a short-lived bearer token for test requests.
func testAuthHeader(t *testing.T) string {
	t.Helper()
	auth := middleware.NewJWTAuthenticator([]byte(testJWTKey))
	token, err := auth.IssueToken("test-client", time.Minute)
	require.NoError(t, err)
	return "Bearer " + token
}
