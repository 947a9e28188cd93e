// Package main provides the ztguard command line interface.
//
// ztguard is a policy validation and zero trust access decision engine. It
// lints IAM-style policy declarations for risky grants, scans Terraform
// configurations, evaluates access requests against contextual rules, and
// serves the results over HTTP.
//
// # Quick Start
//
//	# Lint a directory of policy declarations
//	ztguardctl lint policies/
//
//	# Scan Terraform configuration
//	ztguardctl scan infra/
//
//	# Evaluate an access request
//	ztguardctl decide alice s3:GetObject arn:aws:s3:::prod-data 10.1.2.3 laptop-42
//
//	# Run database migrations and start the server
//	ztguardctl db migrate
//	ztguardctl server
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - ZTGUARD_JWT_KEY: HMAC key for API bearer tokens
//   - ZTGUARD_CONFIG_PATH: Directory holding ztguard.yml
//   - ZTGUARD_LOG_LEVEL: Set to "debug" for SQL query logging
//   - ZTGUARD_AUDIT_ENABLED: Set to "false" to disable audit logging
//   - AUDIT_DATABASE_URL: Optional Postgres URL for audit persistence
package main
