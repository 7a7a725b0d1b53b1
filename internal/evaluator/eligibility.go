package evaluator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmvoss/returns-triage/internal/domain"
)

// EligibilityResult is the eligibility stage's success-or-fallback outcome.
// Fallback is true when a classifier failure or unparseable output forced
// the pending sentinel.
type EligibilityResult struct {
	Verdict  domain.Eligibility
	Fallback bool
}

// EligibilityEvaluator checks a return against the store's return policy.
type EligibilityEvaluator struct {
	completer Completer
	logger    *slog.Logger
}

// NewEligibilityEvaluator creates the eligibility stage evaluator.
func NewEligibilityEvaluator(completer Completer, logger *slog.Logger) *EligibilityEvaluator {
	if logger == nil {
		logger = slog.Default()
	}
	return &EligibilityEvaluator{completer: completer, logger: logger}
}

// Evaluate produces the eligibility verdict for the given order context.
// It never fails: classifier errors yield ELIGIBLE: PENDING_HUMAN_REVIEW.
func (e *EligibilityEvaluator) Evaluate(ctx context.Context, in domain.EligibilityInput) EligibilityResult {
	raw, err := e.completer.Complete(ctx, eligibilityPrompt(in))
	if err != nil {
		e.logger.Warn("eligibility check failed, routing to human review",
			slog.String("error", err.Error()))
		return EligibilityResult{Verdict: domain.EligibilityPendingHumanReview, Fallback: true}
	}

	verdict, ok := domain.ParseEligibility(raw)
	if !ok {
		e.logger.Warn("unparseable eligibility verdict, routing to human review",
			slog.String("raw", raw))
		return EligibilityResult{Verdict: domain.EligibilityPendingHumanReview, Fallback: true}
	}

	return EligibilityResult{Verdict: verdict}
}

func eligibilityPrompt(in domain.EligibilityInput) string {
	return fmt.Sprintf(`You are a returns eligibility checker. Check if this return is eligible.

Order Details:
- Purchase Date: %s
- Product SKU: %s
- Customer ID: %s
- Return Reason: %s

Rules:
1. Return must be within 30 days of purchase
2. Product cannot be from excluded list
3. Customer cannot have more than 10 returns in past 12 months

Respond with ONLY: ELIGIBLE: YES or ELIGIBLE: NO`,
		in.PurchaseDate, in.ProductSKU, in.CustomerID, in.Reason)
}
