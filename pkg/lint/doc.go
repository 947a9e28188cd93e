// Package lint implements the statement validator: a rule engine that
// checks policy declarations for risky or malformed statements and reports
// findings.
//
// Each rule has a stable code; findings are deterministic, ordered by rule
// registration and statement position, with at most one finding per rule
// per statement.
package lint
