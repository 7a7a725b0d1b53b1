// Package memory provides an in-memory return record store for tests and
// dev mode.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jmvoss/returns-triage/internal/domain"
	"github.com/jmvoss/returns-triage/internal/storage"
)

// Store is an in-memory implementation of ReturnStore.
type Store struct {
	mu      sync.RWMutex
	records map[string]*domain.ReturnRecord
}

var _ storage.ReturnStore = (*Store)(nil)

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		records: make(map[string]*domain.ReturnRecord),
	}
}

func (s *Store) Create(ctx context.Context, rec *domain.ReturnRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[rec.ReturnID]; exists {
		return fmt.Errorf("return %s already exists", rec.ReturnID)
	}

	now := time.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	stored := *rec
	s.records[rec.ReturnID] = &stored
	return nil
}

func (s *Store) GetByID(ctx context.Context, returnID string) (*domain.ReturnRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, exists := s.records[returnID]
	if !exists {
		return nil, domain.ErrNotFound
	}

	copied := *rec
	return &copied, nil
}

func (s *Store) UpdateVerdicts(ctx context.Context, returnID string, result *domain.PipelineResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, exists := s.records[returnID]
	if !exists {
		return domain.ErrNotFound
	}

	rec.Eligibility = result.Eligibility.Verdict()
	rec.PhotoCondition = result.PhotoCondition.Verdict()
	rec.Fraud = result.Fraud.Verdict()
	rec.FinalDecision = result.FinalDecision.Verdict()
	rec.UpdatedAt = time.Now()

	return nil
}

func (s *Store) Close() error {
	return nil
}
