package store

import "github.com/ztguard/ztguard/pkg/model"

// FindingsStore abstracts lint finding persistence
type FindingsStore interface {
	// SaveFindings persists a batch of findings
	SaveFindings(findings []model.Finding) error

	// ListFindings returns stored findings, newest first, optionally
	// filtered by resource name
	ListFindings(resourceName string, limit, offset int) ([]model.Finding, error)

	// CountFindings returns the count of findings matching the filter
	CountFindings(resourceName string) (int64, error)
}
