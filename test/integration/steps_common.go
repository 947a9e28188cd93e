package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cucumber/godog"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	response     *http.Response
	responseBody []byte
	authToken    string
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{tc: tc}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	// Background steps
	sc.Step(`^a ztguard server is running$`, s.aServerIsRunning)
	sc.Step(`^I am authenticated as "([^"]*)"$`, s.iAmAuthenticatedAs)
	sc.Step(`^I am not authenticated$`, s.iAmNotAuthenticated)
	sc.Step(`^I present an access token signed with the wrong key$`, s.iPresentABadToken)

	// Response steps
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the status response should report the database as "([^"]*)"$`, s.statusShouldReportDatabase)

	// Lint steps
	sc.Step(`^I lint the following policy document as "([^"]*)":$`, s.iLintPolicyDocument)
	sc.Step(`^the response should contain a finding with code "([^"]*)"$`, s.responseShouldContainFinding)
	sc.Step(`^the response should contain no findings$`, s.responseShouldContainNoFindings)

	// Decision steps
	sc.Step(`^"([^"]*)" requests "([^"]*)" on "([^"]*)" from IP "([^"]*)" using device "([^"]*)"$`, s.userRequestsAccess)
	sc.Step(`^the decision outcome should be "([^"]*)"$`, s.decisionOutcomeShouldBe)
	sc.Step(`^the decision reason should be "([^"]*)"$`, s.decisionReasonShouldBe)
	sc.Step(`^the response should include a remediation action for cloud "([^"]*)"$`, s.responseShouldIncludeRemediation)
	sc.Step(`^the response should include no remediation action$`, s.responseShouldIncludeNoRemediation)

	// Listing steps
	sc.Step(`^I list findings for resource "([^"]*)"$`, s.iListFindings)
	sc.Step(`^the findings count should be at least (\d+)$`, s.findingsCountShouldBeAtLeast)
	sc.Step(`^I list decisions for user "([^"]*)"$`, s.iListDecisions)
	sc.Step(`^the decisions count should be at least (\d+)$`, s.decisionsCountShouldBeAtLeast)

	// Metrics steps
	sc.Step(`^I fetch the metrics snapshot$`, s.iFetchMetrics)
	sc.Step(`^the metrics should record at least (\d+) access requests?$`, s.metricsShouldRecordRequests)
}

// Background steps

func (s *StepsContext) aServerIsRunning() error {
	// Server is already running via TestContext
	return nil
}

func (s *StepsContext) iAmAuthenticatedAs(subject string) error {
	token, err := s.tc.JWTAuth.IssueToken(subject, time.Hour)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}
	s.authToken = token
	return nil
}

func (s *StepsContext) iAmNotAuthenticated() error {
	s.authToken = ""
	return nil
}

func (s *StepsContext) iPresentABadToken() error {
	token, err := newTokenWithKey([]byte("not-the-"+testJWTKey), "intruder", time.Hour)
	if err != nil {
		return err
	}
	s.authToken = token
	return nil
}

// HTTP helpers

func (s *StepsContext) doJSON(method, path string, payload interface{}) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, s.tc.ServerURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.authToken)
	}

	s.response, err = s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	s.responseBody, err = io.ReadAll(s.response.Body)
	_ = s.response.Body.Close()
	return err
}

// Response steps

func (s *StepsContext) theResponseStatusShouldBe(expectedStatus int) error {
	if s.response == nil {
		return fmt.Errorf("no response recorded")
	}
	if s.response.StatusCode != expectedStatus {
		return fmt.Errorf("expected status %d, got %d: %s", expectedStatus, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) statusShouldReportDatabase(expected string) error {
	if err := s.doJSON(http.MethodGet, "/?format=json", nil); err != nil {
		return err
	}
	var status struct {
		Status   string `json:"status"`
		Database string `json:"database"`
	}
	if err := json.Unmarshal(s.responseBody, &status); err != nil {
		return fmt.Errorf("failed to parse status response: %w", err)
	}
	if status.Database != expected {
		return fmt.Errorf("expected database %q, got %q", expected, status.Database)
	}
	return nil
}

// Lint steps

func (s *StepsContext) iLintPolicyDocument(name string, document *godog.DocString) error {
	payload := map[string]interface{}{
		"name":     name,
		"document": json.RawMessage(document.Content),
	}
	return s.doJSON(http.MethodPost, "/lint", payload)
}

type lintResponse struct {
	Name     string `json:"name"`
	Findings []struct {
		Code     string `json:"code"`
		Severity string `json:"severity"`
		Message  string `json:"message"`
	} `json:"findings"`
}

func (s *StepsContext) responseShouldContainFinding(code string) error {
	var resp lintResponse
	if err := json.Unmarshal(s.responseBody, &resp); err != nil {
		return fmt.Errorf("failed to parse lint response: %w", err)
	}
	for _, finding := range resp.Findings {
		if finding.Code == code {
			return nil
		}
	}
	return fmt.Errorf("no finding with code %q in response: %s", code, string(s.responseBody))
}

func (s *StepsContext) responseShouldContainNoFindings() error {
	var resp lintResponse
	if err := json.Unmarshal(s.responseBody, &resp); err != nil {
		return fmt.Errorf("failed to parse lint response: %w", err)
	}
	if len(resp.Findings) != 0 {
		return fmt.Errorf("expected no findings, got %d: %s", len(resp.Findings), string(s.responseBody))
	}
	return nil
}

// Decision steps

type decideResponse struct {
	Decision struct {
		Outcome string `json:"outcome"`
		Reason  string `json:"reason"`
	} `json:"decision"`
	Remediation *struct {
		Cloud       string `json:"cloud"`
		Description string `json:"description"`
	} `json:"remediation"`
}

func (s *StepsContext) userRequestsAccess(user, action, resource, ip, device string) error {
	payload := map[string]string{
		"user":     user,
		"action":   action,
		"resource": resource,
		"ip":       ip,
		"device":   device,
	}
	return s.doJSON(http.MethodPost, "/decide", payload)
}

func (s *StepsContext) decisionOutcomeShouldBe(expected string) error {
	var resp decideResponse
	if err := json.Unmarshal(s.responseBody, &resp); err != nil {
		return fmt.Errorf("failed to parse decide response: %w", err)
	}
	if resp.Decision.Outcome != expected {
		return fmt.Errorf("expected outcome %q, got %q (reason: %s)", expected, resp.Decision.Outcome, resp.Decision.Reason)
	}
	return nil
}

func (s *StepsContext) decisionReasonShouldBe(expected string) error {
	var resp decideResponse
	if err := json.Unmarshal(s.responseBody, &resp); err != nil {
		return fmt.Errorf("failed to parse decide response: %w", err)
	}
	if resp.Decision.Reason != expected {
		return fmt.Errorf("expected reason %q, got %q", expected, resp.Decision.Reason)
	}
	return nil
}

func (s *StepsContext) responseShouldIncludeRemediation(cloud string) error {
	var resp decideResponse
	if err := json.Unmarshal(s.responseBody, &resp); err != nil {
		return fmt.Errorf("failed to parse decide response: %w", err)
	}
	if resp.Remediation == nil {
		return fmt.Errorf("expected a remediation action, got none: %s", string(s.responseBody))
	}
	if resp.Remediation.Cloud != cloud {
		return fmt.Errorf("expected remediation cloud %q, got %q", cloud, resp.Remediation.Cloud)
	}
	return nil
}

func (s *StepsContext) responseShouldIncludeNoRemediation() error {
	var resp decideResponse
	if err := json.Unmarshal(s.responseBody, &resp); err != nil {
		return fmt.Errorf("failed to parse decide response: %w", err)
	}
	if resp.Remediation != nil {
		return fmt.Errorf("expected no remediation action, got: %+v", resp.Remediation)
	}
	return nil
}

// Listing steps

func (s *StepsContext) iListFindings(resource string) error {
	return s.doJSON(http.MethodGet, "/findings?resource="+url.QueryEscape(resource), nil)
}

func (s *StepsContext) findingsCountShouldBeAtLeast(minCount int) error {
	return s.countShouldBeAtLeast("findings", minCount)
}

func (s *StepsContext) iListDecisions(user string) error {
	return s.doJSON(http.MethodGet, "/decisions?user="+url.QueryEscape(user), nil)
}

func (s *StepsContext) decisionsCountShouldBeAtLeast(minCount int) error {
	return s.countShouldBeAtLeast("decisions", minCount)
}

func (s *StepsContext) countShouldBeAtLeast(what string, minCount int) error {
	var resp struct {
		Count int64 `json:"count"`
	}
	if err := json.Unmarshal(s.responseBody, &resp); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", what, err)
	}
	if resp.Count < int64(minCount) {
		return fmt.Errorf("expected at least %d %s, got %d", minCount, what, resp.Count)
	}
	return nil
}

// Metrics steps

func (s *StepsContext) iFetchMetrics() error {
	return s.doJSON(http.MethodGet, "/metrics", nil)
}

func (s *StepsContext) metricsShouldRecordRequests(minCount int) error {
	var snapshot struct {
		TotalAccessRequests int64 `json:"total_access_requests"`
	}
	if err := json.Unmarshal(s.responseBody, &snapshot); err != nil {
		return fmt.Errorf("failed to parse metrics snapshot: %w", err)
	}
	if snapshot.TotalAccessRequests < int64(minCount) {
		return fmt.Errorf("expected at least %d access requests, got %d", minCount, snapshot.TotalAccessRequests)
	}
	return nil
}
