// Package returns exposes the return intake, lookup, and pipeline-run
// endpoints.
package returns

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jmvoss/returns-triage/internal/domain"
	"github.com/jmvoss/returns-triage/internal/pipeline"
	"github.com/jmvoss/returns-triage/internal/storage"
)

// PipelineRunner is the slice of the pipeline the handler needs; the
// concrete Runner satisfies it, tests substitute stubs.
type PipelineRunner interface {
	Run(ctx context.Context, returnID string, inputs pipeline.StageInputs) (*domain.PipelineResult, error)
}

// Handler serves the returns API.
type Handler struct {
	store  storage.ReturnStore
	runner PipelineRunner
	logger *slog.Logger
}

// NewHandler creates the returns handler.
func NewHandler(store storage.ReturnStore, runner PipelineRunner, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{store: store, runner: runner, logger: logger}
}

// Register mounts the returns routes on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/health", h.HandleHealth)
	r.Post("/api/returns", h.HandleIntake)
	r.Get("/api/returns/{return_id}", h.HandleLookup)
	r.Post("/api/returns/{return_id}/decision", h.HandleDecision)
}

type intakeResponse struct {
	ReturnID      string `json:"return_id"`
	FinalDecision string `json:"final_decision"`
	Message       string `json:"message"`
}

// HandleIntake accepts a ReturnRequest, persists it with the initial
// PENDING_REVIEW status, and acknowledges the created record.
func (h *Handler) HandleIntake(w http.ResponseWriter, r *http.Request) {
	var req domain.ReturnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := validateIntake(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec := &domain.ReturnRecord{
		ReturnRequest: req,
		FinalDecision: domain.DecisionPendingReview.Verdict(),
	}
	if err := h.store.Create(r.Context(), rec); err != nil {
		h.logger.Error("failed to create return record",
			slog.String("return_id", req.ReturnID),
			slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to store return")
		return
	}

	writeJSON(w, http.StatusOK, intakeResponse{
		ReturnID:      req.ReturnID,
		FinalDecision: rec.FinalDecision,
		Message:       "Return received",
	})
}

// HandleLookup returns the full stored record for a return ID.
func (h *Handler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	returnID := chi.URLParam(r, "return_id")

	rec, err := h.store.GetByID(r.Context(), returnID)
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "return "+returnID+" not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to fetch return record",
			slog.String("return_id", returnID),
			slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to fetch return")
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// decisionRequest carries the stage source data the caller supplies for a
// pipeline run: the order lookup context and customer history aggregates.
// SKU and reason come from the stored record, not the caller.
type decisionRequest struct {
	PurchaseDate         string `json:"purchase_date"`
	CustomerID           string `json:"customer_id"`
	ConditionDescription string `json:"condition_description"`
	TotalReturns         int    `json:"total_returns"`
	TotalDenied          int    `json:"total_denied"`
}

type decisionResponse struct {
	ReturnID      string          `json:"return_id"`
	FinalDecision string          `json:"final_decision"`
	Details       decisionDetails `json:"details"`
}

type decisionDetails struct {
	Eligibility    string `json:"eligibility"`
	PhotoCondition string `json:"photo_condition"`
	Fraud          string `json:"fraud"`
}

// HandleDecision runs the decision pipeline for a stored return. Stage
// evaluator failures never surface here; the only error paths are the store
// read and write.
func (h *Handler) HandleDecision(w http.ResponseWriter, r *http.Request) {
	returnID := chi.URLParam(r, "return_id")

	var req decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	rec, err := h.store.GetByID(r.Context(), returnID)
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "return "+returnID+" not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to fetch return record",
			slog.String("return_id", returnID),
			slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to fetch return")
		return
	}

	inputs := pipeline.StageInputs{
		Eligibility: domain.EligibilityInput{
			PurchaseDate: req.PurchaseDate,
			ProductSKU:   rec.ProductSKU,
			CustomerID:   req.CustomerID,
			Reason:       rec.Reason,
		},
		Condition: domain.ConditionInput{Description: req.ConditionDescription},
		Fraud: domain.FraudInput{
			TotalReturns: req.TotalReturns,
			TotalDenied:  req.TotalDenied,
		},
	}

	result, err := h.runner.Run(r.Context(), returnID, inputs)
	if err != nil {
		h.logger.Error("pipeline run failed",
			slog.String("return_id", returnID),
			slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to persist decision")
		return
	}

	writeJSON(w, http.StatusOK, decisionResponse{
		ReturnID:      result.ReturnID,
		FinalDecision: result.FinalDecision.Verdict(),
		Details: decisionDetails{
			Eligibility:    result.Eligibility.Verdict(),
			PhotoCondition: result.PhotoCondition.Verdict(),
			Fraud:          result.Fraud.Verdict(),
		},
	})
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// HandleHealth reports liveness.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Timestamp: time.Now()})
}

func validateIntake(req *domain.ReturnRequest) error {
	switch {
	case req.ReturnID == "":
		return errors.New("return_id is required")
	case req.OrderID == "":
		return errors.New("order_id is required")
	case req.CustomerEmail == "":
		return errors.New("customer_email is required")
	case req.ProductSKU == "":
		return errors.New("product_sku is required")
	}
	return nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
