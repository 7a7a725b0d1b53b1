// Package pipeline orchestrates the return decision pipeline: it fans the
// three stage evaluators out concurrently, joins on their verdicts, asks the
// combiner for the final decision, and persists the result.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jmvoss/returns-triage/internal/domain"
	"github.com/jmvoss/returns-triage/internal/evaluator"
	"github.com/jmvoss/returns-triage/internal/storage"
)

// StageInputs carries the source data for one pipeline run: the order
// context for eligibility, the item description for condition, and the
// customer history aggregates for fraud.
type StageInputs struct {
	Eligibility domain.EligibilityInput
	Condition   domain.ConditionInput
	Fraud       domain.FraudInput
}

// Runner sequences one pipeline run per call. Every dependency is injected
// at construction so tests can substitute stubs; there is no process-wide
// state, and concurrent runs for distinct return IDs are independent.
type Runner struct {
	eligibility *evaluator.EligibilityEvaluator
	condition   *evaluator.ConditionEvaluator
	fraud       *evaluator.FraudEvaluator
	combiner    *Combiner
	store       storage.ReturnStore
	logger      *slog.Logger
}

// NewRunner creates a pipeline runner.
func NewRunner(
	eligibility *evaluator.EligibilityEvaluator,
	condition *evaluator.ConditionEvaluator,
	fraud *evaluator.FraudEvaluator,
	combiner *Combiner,
	store storage.ReturnStore,
	logger *slog.Logger,
) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		eligibility: eligibility,
		condition:   condition,
		fraud:       fraud,
		combiner:    combiner,
		store:       store,
		logger:      logger,
	}
}

// Run executes the pipeline for one return. The three stage calls have no
// data dependency on one another and run concurrently; the combiner waits
// for all three. Stage failures are absorbed into fallback verdicts inside
// the evaluators, so the only error Run can return is a store fault; in
// that case evaluation completed but the result was not persisted.
func (r *Runner) Run(ctx context.Context, returnID string, inputs StageInputs) (*domain.PipelineResult, error) {
	var (
		eligRes evaluator.EligibilityResult
		condRes evaluator.ConditionResult
		frdRes  evaluator.FraudResult
	)

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		eligRes = r.eligibility.Evaluate(ctx, inputs.Eligibility)
	}()
	go func() {
		defer wg.Done()
		condRes = r.condition.Evaluate(ctx, inputs.Condition)
	}()
	go func() {
		defer wg.Done()
		frdRes = r.fraud.Evaluate(ctx, inputs.Fraud)
	}()
	wg.Wait()

	decision := r.combiner.Decide(ctx, eligRes.Verdict, condRes.Verdict, frdRes.Score)

	result := &domain.PipelineResult{
		ReturnID:       returnID,
		Eligibility:    eligRes.Verdict,
		PhotoCondition: condRes.Verdict,
		Fraud:          frdRes.Score,
		FinalDecision:  decision,
	}

	r.logger.Info("pipeline completed",
		slog.String("return_id", returnID),
		slog.String("eligibility", result.Eligibility.Verdict()),
		slog.String("photo_condition", result.PhotoCondition.Verdict()),
		slog.String("fraud", result.Fraud.Verdict()),
		slog.String("final_decision", result.FinalDecision.Verdict()),
		slog.Bool("eligibility_fallback", eligRes.Fallback),
		slog.Bool("condition_fallback", condRes.Fallback),
		slog.Bool("fraud_fallback", frdRes.Fallback),
	)

	// One store update per run, after the combiner. The four verdict fields
	// are written in a single statement; a cancelled run leaves the record
	// untouched rather than half-written.
	if err := r.store.UpdateVerdicts(ctx, returnID, result); err != nil {
		return nil, fmt.Errorf("pipeline completed but result was not persisted: %w", err)
	}

	return result, nil
}
