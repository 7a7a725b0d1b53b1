package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/jmvoss/returns-triage/internal/domain"
)

func testRecord(returnID string) *domain.ReturnRecord {
	return &domain.ReturnRecord{
		ReturnRequest: domain.ReturnRequest{
			ReturnID:      returnID,
			OrderID:       "O1",
			CustomerEmail: "a@b.com",
			ProductSKU:    "SHIRT-001",
		},
		FinalDecision: domain.DecisionPendingReview.Verdict(),
	}
}

func TestStore_CreateAndGet(t *testing.T) {
	store := New()

	if err := store.Create(context.Background(), testRecord("R1")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	rec, err := store.GetByID(context.Background(), "R1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if rec.OrderID != "O1" {
		t.Errorf("OrderID = %q, want O1", rec.OrderID)
	}
	if rec.FinalDecision != "PENDING_REVIEW" {
		t.Errorf("FinalDecision = %q, want PENDING_REVIEW", rec.FinalDecision)
	}
}

func TestStore_GetNotFound(t *testing.T) {
	store := New()

	_, err := store.GetByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestStore_GetReturnsCopy(t *testing.T) {
	store := New()

	if err := store.Create(context.Background(), testRecord("R1")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	rec, _ := store.GetByID(context.Background(), "R1")
	rec.FinalDecision = "APPROVE"

	again, _ := store.GetByID(context.Background(), "R1")
	if again.FinalDecision != "PENDING_REVIEW" {
		t.Error("mutating a fetched record leaked into the store")
	}
}

func TestStore_UpdateVerdicts(t *testing.T) {
	store := New()

	if err := store.Create(context.Background(), testRecord("R1")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	result := &domain.PipelineResult{
		ReturnID:       "R1",
		Eligibility:    domain.EligibilityPendingHumanReview,
		PhotoCondition: domain.ConditionPendingReview,
		Fraud:          domain.FraudScore(0),
		FinalDecision:  domain.DecisionPendingReview,
	}
	if err := store.UpdateVerdicts(context.Background(), "R1", result); err != nil {
		t.Fatalf("UpdateVerdicts() error = %v", err)
	}

	rec, _ := store.GetByID(context.Background(), "R1")
	if rec.Eligibility != "ELIGIBLE: PENDING_HUMAN_REVIEW" {
		t.Errorf("Eligibility = %q", rec.Eligibility)
	}
	if rec.PhotoCondition != "CONDITION: PENDING_REVIEW" {
		t.Errorf("PhotoCondition = %q", rec.PhotoCondition)
	}
}

func TestStore_UpdateVerdicts_NotFound(t *testing.T) {
	store := New()

	err := store.UpdateVerdicts(context.Background(), "missing", &domain.PipelineResult{})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("UpdateVerdicts() error = %v, want ErrNotFound", err)
	}
}

func TestStore_DuplicateCreate(t *testing.T) {
	store := New()

	if err := store.Create(context.Background(), testRecord("R1")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := store.Create(context.Background(), testRecord("R1")); err == nil {
		t.Fatal("expected error on duplicate return_id")
	}
}
