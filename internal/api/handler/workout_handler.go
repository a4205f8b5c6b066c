package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/runcoach/training-planner/internal/api/validation"
	"github.com/runcoach/training-planner/internal/domain"
	"github.com/runcoach/training-planner/internal/service"
	"github.com/runcoach/training-planner/pkg/problem"
)

type WorkoutLogHandler struct {
	service service.WorkoutLogService
}

func NewWorkoutLogHandler(service service.WorkoutLogService) *WorkoutLogHandler {
	return &WorkoutLogHandler{service: service}
}

// Create handles POST /v1/users/{userId}/workouts
// @Summary Record a workout
// @Description Record a running session. Use client_request_id for safe retries (idempotency). Returns 200 if duplicate request, 201 if new.
// @Tags workouts
// @Accept json
// @Produce json
// @Param userId path string true "User UUID" format(uuid) example(550e8400-e29b-41d4-a716-446655440000)
// @Param request body domain.CreateWorkoutLogRequest true "Workout data"
// @Success 201 {object} domain.WorkoutLogResponse "New workout recorded"
// @Success 200 {object} domain.WorkoutLogResponse "Existing record returned (idempotent duplicate)"
// @Failure 400 {object} problem.Problem "Invalid request body or parameters"
// @Failure 404 {object} problem.Problem "User not found"
// @Failure 422 {object} problem.Problem "Record carries no usable distance or duration"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /users/{userId}/workouts [post]
func (h *WorkoutLogHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		problem.BadRequest("Invalid user ID format").Write(w)
		return
	}

	var req domain.CreateWorkoutLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.BadRequest("Invalid JSON body").Write(w)
		return
	}

	if fieldErrors := validation.Validate(req); fieldErrors != nil {
		problem.ValidationError("Request body contains invalid fields", fieldErrors).Write(w)
		return
	}

	log, isExisting, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			problem.NotFound("User not found").Write(w)
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			problem.UnprocessableEntity("Workout must carry a positive distance or duration").Write(w)
			return
		}
		problem.InternalError("Failed to record workout").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if isExisting {
		w.WriteHeader(http.StatusOK) // Return 200 for idempotent duplicate
	} else {
		w.WriteHeader(http.StatusCreated)
	}
	json.NewEncoder(w).Encode(log.ToResponse())
}

// List handles GET /v1/users/{userId}/workouts
// @Summary List workouts
// @Description Fetch paginated workout history. Results sorted by occurrence descending (newest first).
// @Tags workouts
// @Produce json
// @Param userId path string true "User UUID" format(uuid) example(550e8400-e29b-41d4-a716-446655440000)
// @Param from query string false "Start of date range (RFC3339)" format(date-time) example(2024-01-01T00:00:00Z)
// @Param to query string false "End of date range (RFC3339)" format(date-time) example(2024-01-31T23:59:59Z)
// @Param limit query integer false "Results per page (1-100)" default(20) minimum(1) maximum(100)
// @Param cursor query string false "Cursor from previous response's next_cursor"
// @Success 200 {object} domain.WorkoutLogListResponse "Workouts with pagination"
// @Failure 400 {object} problem.Problem "Invalid query parameters"
// @Failure 404 {object} problem.Problem "User not found"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /users/{userId}/workouts [get]
func (h *WorkoutLogHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		problem.BadRequest("Invalid user ID format").Write(w)
		return
	}

	filter, fieldErrors := parseListFilter(r)
	if fieldErrors != nil {
		problem.ValidationError("Invalid query parameters", fieldErrors).Write(w)
		return
	}

	logs, nextCursor, hasMore, err := h.service.List(r.Context(), userID, filter)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			problem.NotFound("User not found").Write(w)
			return
		}
		problem.InternalError("Failed to list workouts").Write(w)
		return
	}

	data := make([]domain.WorkoutLogResponse, 0, len(logs))
	for i := range logs {
		data = append(data, logs[i].ToResponse())
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(domain.WorkoutLogListResponse{
		Data: data,
		Pagination: domain.PaginationResponse{
			NextCursor: nextCursor,
			HasMore:    hasMore,
		},
	})
}

func parseListFilter(r *http.Request) (domain.WorkoutLogFilter, []problem.FieldError) {
	var filter domain.WorkoutLogFilter
	var fieldErrors []problem.FieldError

	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			fieldErrors = append(fieldErrors, problem.FieldError{
				Field:   "from",
				Message: "must be a valid RFC3339 timestamp",
			})
		} else {
			filter.From = &from
		}
	}

	if toStr := r.URL.Query().Get("to"); toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			fieldErrors = append(fieldErrors, problem.FieldError{
				Field:   "to",
				Message: "must be a valid RFC3339 timestamp",
			})
		} else {
			filter.To = &to
		}
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			fieldErrors = append(fieldErrors, problem.FieldError{
				Field:   "limit",
				Message: "must be a positive integer",
			})
		} else {
			filter.Limit = limit
		}
	}

	filter.Cursor = r.URL.Query().Get("cursor")

	if len(fieldErrors) > 0 {
		return filter, fieldErrors
	}

	return filter, nil
}
