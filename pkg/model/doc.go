// Package model defines the persisted records: lint findings and access
// decisions. Both tables are append-only.
package model
