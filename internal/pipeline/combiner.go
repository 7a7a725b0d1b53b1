package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmvoss/returns-triage/internal/domain"
	"github.com/jmvoss/returns-triage/internal/evaluator"
)

// Combiner reduces the three stage verdicts to one final disposition. The
// decision is delegated to the classifier, conditioned on the verdicts; the
// completion is parsed strictly and anything unrecognized becomes
// PENDING_REVIEW.
type Combiner struct {
	completer evaluator.Completer
	logger    *slog.Logger
}

// NewCombiner creates the decision combiner.
func NewCombiner(completer evaluator.Completer, logger *slog.Logger) *Combiner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Combiner{completer: completer, logger: logger}
}

// Decide produces the final decision from the three stage verdicts. It never
// fails: classifier errors and unparseable completions yield PENDING_REVIEW,
// and the caller persists that fallback like any other decision.
func (c *Combiner) Decide(ctx context.Context, eligibility domain.Eligibility, condition domain.Condition, fraud domain.FraudScore) domain.Decision {
	raw, err := c.completer.Complete(ctx, decisionPrompt(eligibility, condition, fraud))
	if err != nil {
		c.logger.Warn("decision call failed, routing to review",
			slog.String("error", err.Error()))
		return domain.DecisionPendingReview
	}

	decision, ok := domain.ParseDecision(raw)
	if !ok {
		c.logger.Warn("unparseable decision, routing to review",
			slog.String("raw", raw))
		return domain.DecisionPendingReview
	}

	return decision
}

func decisionPrompt(eligibility domain.Eligibility, condition domain.Condition, fraud domain.FraudScore) string {
	return fmt.Sprintf(`Based on this analysis, make a return decision.

Eligibility: %s
Photo Condition: %s
Fraud Score: %s

Decision: APPROVE or DENY or PENDING_REVIEW
Respond with only the decision.`,
		eligibility.Verdict(), condition.Verdict(), fraud.Verdict())
}
