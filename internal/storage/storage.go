// Package storage defines the record store boundary for return records.
package storage

import (
	"context"

	"github.com/jmvoss/returns-triage/internal/domain"
)

// ReturnStore is the persistence boundary for return records. Lookups of
// unknown IDs return domain.ErrNotFound, a distinct expected outcome; any
// other error is a store fault.
type ReturnStore interface {
	// Create persists a new return record.
	Create(ctx context.Context, rec *domain.ReturnRecord) error

	// GetByID fetches the record for a return ID.
	GetByID(ctx context.Context, returnID string) (*domain.ReturnRecord, error)

	// UpdateVerdicts writes all four verdict fields of a pipeline run in one
	// update. Repeat runs for the same return ID overwrite prior verdicts
	// (last-write-wins).
	UpdateVerdicts(ctx context.Context, returnID string, result *domain.PipelineResult) error

	// Close releases underlying resources.
	Close() error
}
