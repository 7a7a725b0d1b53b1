// Package domain holds the core types of the returns triage service:
// return requests and records, the typed stage verdicts, and the canonical
// error taxonomy shared by the HTTP layer and the pipeline.
package domain

import "time"

// ReturnRequest is the caller-supplied intake payload. It is immutable once
// submitted; the pipeline never mutates it.
type ReturnRequest struct {
	ReturnID        string  `json:"return_id"`
	OrderID         string  `json:"order_id"`
	CustomerEmail   string  `json:"customer_email"`
	ProductSKU      string  `json:"product_sku"`
	Reason          string  `json:"reason"`
	PhotosURL       string  `json:"photos_url"`
	RequestedRefund float64 `json:"requested_refund"`
}

// ReturnRecord is the stored shape: the intake fields plus the verdicts
// written by the pipeline. A freshly created record has FinalDecision set to
// DecisionPendingReview and empty stage verdicts.
type ReturnRecord struct {
	ReturnRequest

	Eligibility    string    `json:"eligibility,omitempty"`
	PhotoCondition string    `json:"photo_condition,omitempty"`
	Fraud          string    `json:"fraud,omitempty"`
	FinalDecision  string    `json:"final_decision"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// EligibilityInput is the context the eligibility stage evaluates: the order
// lookup data joined with the return reason.
type EligibilityInput struct {
	PurchaseDate string `json:"purchase_date"`
	ProductSKU   string `json:"product_sku"`
	CustomerID   string `json:"customer_id"`
	Reason       string `json:"reason"`
}

// ConditionInput is the free-text description of the item's physical state.
// Currently a plain string; photo-derived metadata would slot in here.
type ConditionInput struct {
	Description string `json:"description"`
}

// FraudInput carries the customer history aggregates the fraud stage weighs.
type FraudInput struct {
	TotalReturns int `json:"total_returns"`
	TotalDenied  int `json:"total_denied"`
}

// PipelineResult is produced once per pipeline run. Every verdict field is
// always populated: stage failures substitute the stage's fallback sentinel
// before the result is assembled.
type PipelineResult struct {
	ReturnID       string
	Eligibility    Eligibility
	PhotoCondition Condition
	Fraud          FraudScore
	FinalDecision  Decision
}
