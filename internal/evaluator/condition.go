package evaluator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmvoss/returns-triage/internal/domain"
)

// ConditionResult is the condition stage's success-or-fallback outcome.
type ConditionResult struct {
	Verdict  domain.Condition
	Fallback bool
}

// ConditionEvaluator rates the physical state of the returned item from its
// free-text description.
type ConditionEvaluator struct {
	completer Completer
	logger    *slog.Logger
}

// NewConditionEvaluator creates the condition stage evaluator.
func NewConditionEvaluator(completer Completer, logger *slog.Logger) *ConditionEvaluator {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConditionEvaluator{completer: completer, logger: logger}
}

// Evaluate produces the condition verdict. It never fails: classifier
// errors yield CONDITION: PENDING_REVIEW.
func (e *ConditionEvaluator) Evaluate(ctx context.Context, in domain.ConditionInput) ConditionResult {
	raw, err := e.completer.Complete(ctx, conditionPrompt(in))
	if err != nil {
		e.logger.Warn("condition analysis failed, routing to review",
			slog.String("error", err.Error()))
		return ConditionResult{Verdict: domain.ConditionPendingReview, Fallback: true}
	}

	verdict, ok := domain.ParseCondition(raw)
	if !ok {
		e.logger.Warn("unparseable condition verdict, routing to review",
			slog.String("raw", raw))
		return ConditionResult{Verdict: domain.ConditionPendingReview, Fallback: true}
	}

	return ConditionResult{Verdict: verdict}
}

func conditionPrompt(in domain.ConditionInput) string {
	return fmt.Sprintf(`Analyze this product return based on description. Rate the condition.

Description: %s

Respond with: CONDITION: LIKE_NEW or GOOD or USED or DAMAGED`, in.Description)
}
