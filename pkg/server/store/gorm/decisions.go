package gorm

import (
	"gorm.io/gorm"

	"github.com/ztguard/ztguard/pkg/model"
	"github.com/ztguard/ztguard/pkg/server/store"
)

// Ensure DecisionsStore implements store.DecisionsStore
var _ store.DecisionsStore = (*DecisionsStore)(nil)

// DecisionsStore implements store.DecisionsStore using GORM
type DecisionsStore struct {
	db *gorm.DB
}

// NewDecisionsStore creates a new DecisionsStore
func NewDecisionsStore(db *gorm.DB) *DecisionsStore {
	return &DecisionsStore{db: db}
}

// SaveDecision persists one decision.
func (s *DecisionsStore) SaveDecision(decision *model.Decision) error {
	return s.db.Create(decision).Error
}

// ListDecisions returns stored decisions, newest first.
func (s *DecisionsStore) ListDecisions(username string, limit, offset int) ([]model.Decision, error) {
	var decisions []model.Decision
	query := s.db.Order("timestamp desc, id desc").Limit(limit).Offset(offset)
	if username != "" {
		query = query.Where("username = ?", username)
	}
	if err := query.Find(&decisions).Error; err != nil {
		return nil, err
	}
	return decisions, nil
}

// CountDecisions returns the count of decisions matching the filter.
func (s *DecisionsStore) CountDecisions(username string) (int64, error) {
	var count int64
	query := s.db.Model(&model.Decision{})
	if username != "" {
		query = query.Where("username = ?", username)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
