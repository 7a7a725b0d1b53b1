package evaluator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jmvoss/returns-triage/internal/domain"
)

// stubCompleter records prompts and returns a configured response or error.
type stubCompleter struct {
	response string
	err      error
	prompts  []string
}

func (s *stubCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func TestEligibilityEvaluator_Evaluate(t *testing.T) {
	stub := &stubCompleter{response: "ELIGIBLE: YES"}
	e := NewEligibilityEvaluator(stub, nil)

	res := e.Evaluate(context.Background(), domain.EligibilityInput{
		PurchaseDate: "2026-08-20",
		ProductSKU:   "SHIRT-001",
		CustomerID:   "C42",
		Reason:       "Too small",
	})

	if res.Verdict != domain.EligibilityYes {
		t.Errorf("verdict = %v, want YES", res.Verdict)
	}
	if res.Fallback {
		t.Error("unexpected fallback")
	}

	if len(stub.prompts) != 1 {
		t.Fatalf("prompts = %d, want 1", len(stub.prompts))
	}
	for _, want := range []string{"SHIRT-001", "2026-08-20", "C42", "Too small", "30 days"} {
		if !strings.Contains(stub.prompts[0], want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestEligibilityEvaluator_FallbackOnError(t *testing.T) {
	stub := &stubCompleter{err: errors.New("connection refused")}
	e := NewEligibilityEvaluator(stub, nil)

	res := e.Evaluate(context.Background(), domain.EligibilityInput{})

	if res.Verdict != domain.EligibilityPendingHumanReview {
		t.Errorf("verdict = %v, want PENDING_HUMAN_REVIEW", res.Verdict)
	}
	if !res.Fallback {
		t.Error("expected fallback")
	}
}

func TestEligibilityEvaluator_FallbackOnGarbage(t *testing.T) {
	stub := &stubCompleter{response: "I think it depends on several factors"}
	e := NewEligibilityEvaluator(stub, nil)

	res := e.Evaluate(context.Background(), domain.EligibilityInput{})

	if res.Verdict != domain.EligibilityPendingHumanReview || !res.Fallback {
		t.Errorf("got %+v, want pending fallback", res)
	}
}

func TestConditionEvaluator_Evaluate(t *testing.T) {
	stub := &stubCompleter{response: "CONDITION: LIKE_NEW"}
	e := NewConditionEvaluator(stub, nil)

	res := e.Evaluate(context.Background(), domain.ConditionInput{Description: "still has tags, unworn"})

	if res.Verdict != domain.ConditionLikeNew {
		t.Errorf("verdict = %v, want LIKE_NEW", res.Verdict)
	}
	if res.Fallback {
		t.Error("unexpected fallback")
	}
	if !strings.Contains(stub.prompts[0], "still has tags, unworn") {
		t.Error("prompt missing description")
	}
}

func TestConditionEvaluator_FallbackOnError(t *testing.T) {
	stub := &stubCompleter{err: errors.New("timeout")}
	e := NewConditionEvaluator(stub, nil)

	res := e.Evaluate(context.Background(), domain.ConditionInput{Description: "scuffed"})

	if res.Verdict != domain.ConditionPendingReview || !res.Fallback {
		t.Errorf("got %+v, want pending fallback", res)
	}
}

func TestFraudEvaluator_Evaluate(t *testing.T) {
	stub := &stubCompleter{response: "FRAUD_SCORE: 85"}
	e := NewFraudEvaluator(stub, nil)

	res := e.Evaluate(context.Background(), domain.FraudInput{TotalReturns: 12, TotalDenied: 6})

	if res.Score != 85 {
		t.Errorf("score = %d, want 85", res.Score)
	}
	if res.Fallback {
		t.Error("unexpected fallback")
	}
	for _, want := range []string{"Total Returns: 12", "Denied Returns: 6"} {
		if !strings.Contains(stub.prompts[0], want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestFraudEvaluator_FallbackOnError(t *testing.T) {
	stub := &stubCompleter{err: errors.New("503 service unavailable")}
	e := NewFraudEvaluator(stub, nil)

	res := e.Evaluate(context.Background(), domain.FraudInput{TotalReturns: 2})

	if res.Score != 0 || !res.Fallback {
		t.Errorf("got %+v, want zero-score fallback", res)
	}
}

func TestFraudEvaluator_FallbackOnGarbage(t *testing.T) {
	stub := &stubCompleter{response: "the risk seems moderate"}
	e := NewFraudEvaluator(stub, nil)

	res := e.Evaluate(context.Background(), domain.FraudInput{})

	if res.Score != 0 || !res.Fallback {
		t.Errorf("got %+v, want zero-score fallback", res)
	}
}
