package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/runcoach/training-planner/internal/api/validation"
	"github.com/runcoach/training-planner/internal/domain"
	"github.com/runcoach/training-planner/internal/llm"
	"github.com/runcoach/training-planner/internal/service"
	"github.com/runcoach/training-planner/pkg/problem"
)

// TrainingHandler serves the planning pipeline: signals, context, plan
// generation and plan explanation.
type TrainingHandler struct {
	signalsService    service.SignalsService
	adjustmentService service.AdjustmentService
	planService       service.PlanService
	explainService    service.ExplainService
}

func NewTrainingHandler(
	signalsService service.SignalsService,
	adjustmentService service.AdjustmentService,
	planService service.PlanService,
	explainService service.ExplainService,
) *TrainingHandler {
	return &TrainingHandler{
		signalsService:    signalsService,
		adjustmentService: adjustmentService,
		planService:       planService,
		explainService:    explainService,
	}
}

// GetSignals handles GET /v1/users/{userId}/training/signals
// @Summary Get training signals
// @Description Aggregate the workout history window into a deterministic signals snapshot
// @Tags training
// @Produce json
// @Param userId path string true "User UUID" format(uuid)
// @Param window_days query integer false "History window in days (1-365)" default(28)
// @Success 200 {object} domain.TrainingSignals
// @Failure 400 {object} problem.Problem
// @Failure 404 {object} problem.Problem
// @Failure 500 {object} problem.Problem
// @Router /users/{userId}/training/signals [get]
func (h *TrainingHandler) GetSignals(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		problem.BadRequest("Invalid user ID format").Write(w)
		return
	}

	windowDays, fieldErrors := parseWindowDays(r)
	if fieldErrors != nil {
		problem.ValidationError("Invalid query parameters", fieldErrors).Write(w)
		return
	}

	signals, err := h.signalsService.GetSignals(r.Context(), userID, windowDays)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			problem.NotFound("User not found").Write(w)
			return
		}
		problem.InternalError("Failed to compute signals").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(signals)
}

// GetContext handles GET /v1/users/{userId}/training/context
// @Summary Get training context
// @Description Merge the signals snapshot with the user's profile into an immutable planning context
// @Tags training
// @Produce json
// @Param userId path string true "User UUID" format(uuid)
// @Param window_days query integer false "History window in days (1-365)" default(28)
// @Success 200 {object} domain.TrainingContext
// @Failure 400 {object} problem.Problem
// @Failure 404 {object} problem.Problem
// @Failure 500 {object} problem.Problem
// @Router /users/{userId}/training/context [get]
func (h *TrainingHandler) GetContext(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		problem.BadRequest("Invalid user ID format").Write(w)
		return
	}

	windowDays, fieldErrors := parseWindowDays(r)
	if fieldErrors != nil {
		problem.ValidationError("Invalid query parameters", fieldErrors).Write(w)
		return
	}

	trainingCtx, err := h.signalsService.GetContext(r.Context(), userID, windowDays)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			problem.NotFound("User not found").Write(w)
			return
		}
		problem.InternalError("Failed to build training context").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(trainingCtx)
}

// GeneratePlan handles POST /v1/users/{userId}/training/plan
// @Summary Generate a weekly plan
// @Description Deterministically synthesize a 7-day plan from the training context; same history always yields the same plan
// @Tags training
// @Accept json
// @Produce json
// @Param userId path string true "User UUID" format(uuid)
// @Param request body domain.GeneratePlanRequest false "Generation options"
// @Success 200 {object} domain.GeneratePlanResponse
// @Failure 400 {object} problem.Problem
// @Failure 404 {object} problem.Problem
// @Failure 500 {object} problem.Problem "Plan failed an internal invariant"
// @Router /users/{userId}/training/plan [post]
func (h *TrainingHandler) GeneratePlan(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		problem.BadRequest("Invalid user ID format").Write(w)
		return
	}

	// The body is optional; an empty body means default window, no feedback.
	var req domain.GeneratePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		problem.BadRequest("Invalid JSON body").Write(w)
		return
	}

	if fieldErrors := validation.Validate(req); fieldErrors != nil {
		problem.ValidationError("Request body contains invalid fields", fieldErrors).Write(w)
		return
	}

	trainingCtx, err := h.signalsService.GetContext(r.Context(), userID, req.WindowDays)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			problem.NotFound("User not found").Write(w)
			return
		}
		problem.InternalError("Failed to build training context").Write(w)
		return
	}

	adjustments := h.adjustmentService.Generate(trainingCtx, req.Feedback)
	plan, err := h.planService.GeneratePlan(trainingCtx, adjustments)
	if err != nil {
		problem.InternalError("Failed to generate plan").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(domain.GeneratePlanResponse{
		Plan:        *plan,
		Adjustments: *adjustments,
	})
}

// Explain handles POST /v1/users/{userId}/training/plan/explanation
// @Summary Explain the weekly plan
// @Description Generate a natural-language explanation of the current plan. Memoized per UTC day and rate-limited per user.
// @Tags training
// @Accept json
// @Produce json
// @Param userId path string true "User UUID" format(uuid)
// @Param request body domain.TrainingWindowRequest false "Explanation options"
// @Success 200 {object} domain.ExplanationResponse
// @Failure 400 {object} problem.Problem
// @Failure 404 {object} problem.Problem
// @Failure 429 {object} problem.Problem "Daily explanation quota exceeded"
// @Failure 500 {object} problem.Problem
// @Failure 503 {object} problem.Problem "Explainer disabled or upstream unavailable"
// @Router /users/{userId}/training/plan/explanation [post]
func (h *TrainingHandler) Explain(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		problem.BadRequest("Invalid user ID format").Write(w)
		return
	}

	var req domain.TrainingWindowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		problem.BadRequest("Invalid JSON body").Write(w)
		return
	}

	if fieldErrors := validation.Validate(req); fieldErrors != nil {
		problem.ValidationError("Request body contains invalid fields", fieldErrors).Write(w)
		return
	}

	response, err := h.explainService.Explain(r.Context(), userID, req.WindowDays)
	if err != nil {
		var quotaErr *service.QuotaExceededError
		switch {
		case errors.Is(err, domain.ErrNotFound):
			problem.NotFound("User not found").Write(w)
		case errors.As(err, &quotaErr):
			problem.QuotaExceeded(
				"Daily explanation quota exceeded",
				quotaErr.Limit, quotaErr.Used, quotaErr.ResetAt,
			).Write(w)
		case errors.Is(err, domain.ErrExplainerDisabled):
			problem.ServiceUnavailable("Plan explanations are disabled").Write(w)
		case errors.Is(err, llm.ErrOpenAIUnavailable):
			problem.ServiceUnavailable("Explanation service is temporarily unavailable").Write(w)
		default:
			problem.InternalError("Failed to explain plan").Write(w)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func parseWindowDays(r *http.Request) (int, []problem.FieldError) {
	windowStr := r.URL.Query().Get("window_days")
	if windowStr == "" {
		return 0, nil
	}
	windowDays, err := strconv.Atoi(windowStr)
	if err != nil || windowDays < 1 || windowDays > 365 {
		return 0, []problem.FieldError{{
			Field:   "window_days",
			Message: "must be an integer between 1 and 365",
		}}
	}
	return windowDays, nil
}
