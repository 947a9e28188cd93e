package gorm

import (
	"gorm.io/gorm"

	"github.com/ztguard/ztguard/pkg/model"
	"github.com/ztguard/ztguard/pkg/server/store"
)

// Ensure FindingsStore implements store.FindingsStore
var _ store.FindingsStore = (*FindingsStore)(nil)

// FindingsStore implements store.FindingsStore using GORM
type FindingsStore struct {
	db *gorm.DB
}

// NewFindingsStore creates a new FindingsStore
func NewFindingsStore(db *gorm.DB) *FindingsStore {
	return &FindingsStore{db: db}
}

// SaveFindings persists a batch of findings.
func (s *FindingsStore) SaveFindings(findings []model.Finding) error {
	if len(findings) == 0 {
		return nil
	}
	return s.db.Create(&findings).Error
}

// ListFindings returns stored findings, newest first.
func (s *FindingsStore) ListFindings(resourceName string, limit, offset int) ([]model.Finding, error) {
	var findings []model.Finding
	query := s.db.Order("timestamp desc, id desc").Limit(limit).Offset(offset)
	if resourceName != "" {
		query = query.Where("resource_name = ?", resourceName)
	}
	if err := query.Find(&findings).Error; err != nil {
		return nil, err
	}
	return findings, nil
}

// CountFindings returns the count of findings matching the filter.
func (s *FindingsStore) CountFindings(resourceName string) (int64, error) {
	var count int64
	query := s.db.Model(&model.Finding{})
	if resourceName != "" {
		query = query.Where("resource_name = ?", resourceName)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
