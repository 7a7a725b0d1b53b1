// Package sqlite provides the SQLite-backed return record store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jmvoss/returns-triage/internal/domain"
	"github.com/jmvoss/returns-triage/internal/storage"
)

// Store is a SQLite implementation of ReturnStore.
type Store struct {
	db *sql.DB
}

var _ storage.ReturnStore = (*Store)(nil)

// New creates a new SQLite store.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	store := &Store{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *Store) initSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS returns (
			return_id TEXT PRIMARY KEY,
			order_id TEXT NOT NULL,
			customer_email TEXT NOT NULL,
			product_sku TEXT NOT NULL,
			reason TEXT,
			photos_url TEXT,
			requested_refund REAL NOT NULL DEFAULT 0,
			eligibility TEXT,
			photo_condition TEXT,
			fraud TEXT,
			final_decision TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_returns_order ON returns(order_id)`,
		`CREATE INDEX IF NOT EXISTS idx_returns_decision ON returns(final_decision)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}

	return nil
}

// Create persists a new return record.
func (s *Store) Create(ctx context.Context, rec *domain.ReturnRecord) error {
	now := time.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	query := `INSERT INTO returns (
		return_id, order_id, customer_email, product_sku, reason, photos_url,
		requested_refund, eligibility, photo_condition, fraud, final_decision,
		created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		rec.ReturnID, rec.OrderID, rec.CustomerEmail, rec.ProductSKU,
		rec.Reason, rec.PhotosURL, rec.RequestedRefund,
		rec.Eligibility, rec.PhotoCondition, rec.Fraud, rec.FinalDecision,
		rec.CreatedAt, rec.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create return record: %w", err)
	}

	return nil
}

// GetByID fetches the record for a return ID, or domain.ErrNotFound.
func (s *Store) GetByID(ctx context.Context, returnID string) (*domain.ReturnRecord, error) {
	query := `SELECT
		return_id, order_id, customer_email, product_sku, reason, photos_url,
		requested_refund, eligibility, photo_condition, fraud, final_decision,
		created_at, updated_at
	FROM returns WHERE return_id = ?`

	var rec domain.ReturnRecord
	var eligibility, photoCondition, fraud sql.NullString

	err := s.db.QueryRowContext(ctx, query, returnID).Scan(
		&rec.ReturnID, &rec.OrderID, &rec.CustomerEmail, &rec.ProductSKU,
		&rec.Reason, &rec.PhotosURL, &rec.RequestedRefund,
		&eligibility, &photoCondition, &fraud, &rec.FinalDecision,
		&rec.CreatedAt, &rec.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch return record: %w", err)
	}

	rec.Eligibility = eligibility.String
	rec.PhotoCondition = photoCondition.String
	rec.Fraud = fraud.String

	return &rec, nil
}

// UpdateVerdicts writes the four verdict fields of a pipeline run in a
// single statement, so a record is never left half-written.
func (s *Store) UpdateVerdicts(ctx context.Context, returnID string, result *domain.PipelineResult) error {
	query := `UPDATE returns SET
		eligibility = ?, photo_condition = ?, fraud = ?, final_decision = ?, updated_at = ?
	WHERE return_id = ?`

	res, err := s.db.ExecContext(ctx, query,
		result.Eligibility.Verdict(),
		result.PhotoCondition.Verdict(),
		result.Fraud.Verdict(),
		result.FinalDecision.Verdict(),
		time.Now(), returnID)

	if err != nil {
		return fmt.Errorf("failed to update return record: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
