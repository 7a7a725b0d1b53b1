package evaluator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmvoss/returns-triage/internal/domain"
)

// FraudResult is the fraud stage's success-or-fallback outcome. The fallback
// score is 0, i.e. failure is treated as no fraud signal; the customer gets
// the benefit of the doubt and risk review happens downstream.
type FraudResult struct {
	Score    domain.FraudScore
	Fallback bool
}

// FraudEvaluator scores the customer's return history for abuse patterns.
type FraudEvaluator struct {
	completer Completer
	logger    *slog.Logger
}

// NewFraudEvaluator creates the fraud stage evaluator.
func NewFraudEvaluator(completer Completer, logger *slog.Logger) *FraudEvaluator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FraudEvaluator{completer: completer, logger: logger}
}

// Evaluate produces the fraud score. It never fails: classifier errors
// yield FRAUD_SCORE: 0.
func (e *FraudEvaluator) Evaluate(ctx context.Context, in domain.FraudInput) FraudResult {
	raw, err := e.completer.Complete(ctx, fraudPrompt(in))
	if err != nil {
		e.logger.Warn("fraud detection failed, scoring zero",
			slog.String("error", err.Error()))
		return FraudResult{Score: 0, Fallback: true}
	}

	score, ok := domain.ParseFraudScore(raw)
	if !ok {
		e.logger.Warn("unparseable fraud score, scoring zero",
			slog.String("raw", raw))
		return FraudResult{Score: 0, Fallback: true}
	}

	return FraudResult{Score: score}
}

func fraudPrompt(in domain.FraudInput) string {
	return fmt.Sprintf(`Analyze customer return history for fraud patterns.

Customer History:
- Total Returns: %d
- Denied Returns: %d

Red Flags:
1. More than 5 returns in 30 days
2. High return rate (>20%%)
3. Same denial reason repeated

Fraud Score (0-100): [Calculate score]
Respond with: FRAUD_SCORE: [0-100]`, in.TotalReturns, in.TotalDenied)
}
