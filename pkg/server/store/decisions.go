package store

import "github.com/ztguard/ztguard/pkg/model"

// DecisionsStore abstracts access decision persistence
type DecisionsStore interface {
	// SaveDecision persists one decision
	SaveDecision(decision *model.Decision) error

	// ListDecisions returns stored decisions, newest first, optionally
	// filtered by username
	ListDecisions(username string, limit, offset int) ([]model.Decision, error)

	// CountDecisions returns the count of decisions matching the filter
	CountDecisions(username string) (int64, error)
}
