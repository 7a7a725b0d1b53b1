package domain

import (
	"strconv"
	"strings"
)

// Eligibility is the outcome of the eligibility stage.
type Eligibility string

const (
	EligibilityYes Eligibility = "YES"
	EligibilityNo  Eligibility = "NO"

	// EligibilityPendingHumanReview is the fallback sentinel substituted when
	// the stage's classifier call fails or returns unparseable text.
	EligibilityPendingHumanReview Eligibility = "PENDING_HUMAN_REVIEW"
)

// Verdict renders the canonical wire form, e.g. "ELIGIBLE: YES".
func (e Eligibility) Verdict() string { return "ELIGIBLE: " + string(e) }

// ParseEligibility extracts an Eligibility from classifier output. It
// tolerates surrounding prose and case noise but requires the ELIGIBLE tag;
// anything else yields the pending sentinel and ok=false.
func ParseEligibility(raw string) (Eligibility, bool) {
	value, found := taggedValue(raw, "ELIGIBLE")
	if !found {
		return EligibilityPendingHumanReview, false
	}
	switch value {
	case "YES":
		return EligibilityYes, true
	case "NO":
		return EligibilityNo, true
	case "PENDING_HUMAN_REVIEW":
		return EligibilityPendingHumanReview, true
	}
	return EligibilityPendingHumanReview, false
}

// Condition is the outcome of the photo condition stage.
type Condition string

const (
	ConditionLikeNew Condition = "LIKE_NEW"
	ConditionGood    Condition = "GOOD"
	ConditionUsed    Condition = "USED"
	ConditionDamaged Condition = "DAMAGED"

	// ConditionPendingReview is the stage's fallback sentinel.
	ConditionPendingReview Condition = "PENDING_REVIEW"
)

// Verdict renders the canonical wire form, e.g. "CONDITION: GOOD".
func (c Condition) Verdict() string { return "CONDITION: " + string(c) }

// ParseCondition extracts a Condition from classifier output, falling back
// to the pending sentinel with ok=false on anything unrecognized.
func ParseCondition(raw string) (Condition, bool) {
	value, found := taggedValue(raw, "CONDITION")
	if !found {
		return ConditionPendingReview, false
	}
	switch value {
	case "LIKE_NEW":
		return ConditionLikeNew, true
	case "GOOD":
		return ConditionGood, true
	case "USED":
		return ConditionUsed, true
	case "DAMAGED":
		return ConditionDamaged, true
	case "PENDING_REVIEW":
		return ConditionPendingReview, true
	}
	return ConditionPendingReview, false
}

// FraudScore is the fraud stage's 0-100 risk score. The zero value doubles
// as the stage's fallback sentinel ("no fraud signal").
type FraudScore int

// Verdict renders the canonical wire form, e.g. "FRAUD_SCORE: 42".
func (s FraudScore) Verdict() string { return "FRAUD_SCORE: " + strconv.Itoa(int(s)) }

// ParseFraudScore extracts a FraudScore from classifier output. Scores are
// clamped to [0,100]; missing tag or non-numeric value yields 0 and ok=false.
func ParseFraudScore(raw string) (FraudScore, bool) {
	value, found := taggedValue(raw, "FRAUD_SCORE")
	if !found {
		return 0, false
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	if n < 0 {
		n = 0
	}
	if n > 100 {
		n = 100
	}
	return FraudScore(n), true
}

// Decision is the final disposition of a return.
type Decision string

const (
	DecisionApprove Decision = "APPROVE"
	DecisionDeny    Decision = "DENY"

	// DecisionPendingReview is both the initial status assigned at intake and
	// the combiner's fallback sentinel.
	DecisionPendingReview Decision = "PENDING_REVIEW"
)

// Verdict renders the decision. Unlike the stage verdicts the decision is
// stored and returned bare, matching the record's final_decision column.
func (d Decision) Verdict() string { return string(d) }

// ParseDecision extracts a Decision from classifier output. The combiner
// prompt asks for a single token, but classifiers occasionally prefix it
// (e.g. "DECISION: APPROVE"), so the tag is optional here.
func ParseDecision(raw string) (Decision, bool) {
	value, found := taggedValue(raw, "DECISION")
	if !found {
		value = strings.ToUpper(strings.TrimSpace(raw))
	}
	switch value {
	case "APPROVE", "APPROVED":
		return DecisionApprove, true
	case "DENY", "DENIED":
		return DecisionDeny, true
	case "PENDING_REVIEW":
		return DecisionPendingReview, true
	}
	return DecisionPendingReview, false
}

// taggedValue finds "TAG: VALUE" in raw and returns the uppercased first
// value token after the tag. Classifier output is matched line by line so
// prose around the verdict line is ignored.
func taggedValue(raw, tag string) (string, bool) {
	for _, line := range strings.Split(raw, "\n") {
		upper := strings.ToUpper(strings.TrimSpace(line))
		idx := strings.Index(upper, tag+":")
		if idx < 0 {
			continue
		}
		rest := strings.TrimSpace(upper[idx+len(tag)+1:])
		if rest == "" {
			continue
		}
		// First whitespace-delimited token; trailing punctuation from chatty
		// completions is stripped.
		token := strings.Fields(rest)[0]
		token = strings.Trim(token, ".,!\"'`[]")
		if token == "" {
			continue
		}
		return token, true
	}
	return "", false
}
