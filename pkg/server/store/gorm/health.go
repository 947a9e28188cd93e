package gorm

import (
	"gorm.io/gorm"
)

// HealthStore probes the findings database over the shared gorm handle.
type HealthStore struct {
	db *gorm.DB
}

// NewHealthStore wraps a gorm connection in a HealthStore
func NewHealthStore(db *gorm.DB) *HealthStore {
	return &HealthStore{db: db}
}

// CheckConnectivity issues a trivial query against the database
func (s *HealthStore) CheckConnectivity() error {
	return s.db.Exec("SELECT 1").Error
}
