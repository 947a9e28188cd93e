// Package audit provides audit logging for security-relevant operations.
//
// Events are written to stdout as RFC5424 syslog lines, with structured
// data describing the subject, action and client, and optionally persisted
// to a Postgres database when AUDIT_DATABASE_URL is set.
//
// # Event Types
//
//   - FindingEvent: a policy lint finding
//   - ScanEvent: a completed declaration or infrastructure scan
//   - DecisionEvent: an evaluated access request
//   - RemediationEvent: a remediation carried out after a deny or review
//
// # Usage
//
//	audit.Log(audit.DecisionEvent{
//		User:    "alice",
//		Action:  "s3:GetObject",
//		Outcome: "allow",
//	})
package audit
