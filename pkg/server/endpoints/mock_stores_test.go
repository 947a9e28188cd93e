package endpoints

import (
	"github.com/stretchr/testify/mock"

	"github.com/ztguard/ztguard/pkg/model"
)

// MockFindingsStore implements store.FindingsStore for testing using testify/mock
type MockFindingsStore struct {
	mock.Mock
}

func NewMockFindingsStore() *MockFindingsStore {
	return &MockFindingsStore{}
}

func (m *MockFindingsStore) SaveFindings(findings []model.Finding) error {
	args := m.Called(findings)
	return args.Error(0)
}

func (m *MockFindingsStore) ListFindings(resourceName string, limit, offset int) ([]model.Finding, error) {
	args := m.Called(resourceName, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Finding), args.Error(1)
}

func (m *MockFindingsStore) CountFindings(resourceName string) (int64, error) {
	args := m.Called(resourceName)
	return args.Get(0).(int64), args.Error(1)
}

// MockDecisionsStore implements store.DecisionsStore for testing using testify/mock
type MockDecisionsStore struct {
	mock.Mock
}

func NewMockDecisionsStore() *MockDecisionsStore {
	return &MockDecisionsStore{}
}

func (m *MockDecisionsStore) SaveDecision(decision *model.Decision) error {
	args := m.Called(decision)
	return args.Error(0)
}

func (m *MockDecisionsStore) ListDecisions(username string, limit, offset int) ([]model.Decision, error) {
	args := m.Called(username, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Decision), args.Error(1)
}

func (m *MockDecisionsStore) CountDecisions(username string) (int64, error) {
	args := m.Called(username)
	return args.Get(0).(int64), args.Error(1)
}

// MockHealthStore implements store.HealthStore for testing using testify/mock
type MockHealthStore struct {
	mock.Mock
}

func NewMockHealthStore() *MockHealthStore {
	return &MockHealthStore{}
}

func (m *MockHealthStore) CheckConnectivity() error {
	args := m.Called()
	return args.Error(0)
}
