package service

import (
	"context"
	"math"

	"github.com/google/uuid"
	"github.com/runcoach/training-planner/internal/domain"
	"github.com/runcoach/training-planner/internal/repository"
	"github.com/runcoach/training-planner/pkg/pagination"
)

// WorkoutLogService manages recorded running sessions.
type WorkoutLogService interface {
	// Create records a workout. Returns the log and whether an existing log
	// was returned for an idempotent retry.
	Create(ctx context.Context, userID uuid.UUID, req *domain.CreateWorkoutLogRequest) (*domain.WorkoutLog, bool, error)
	List(ctx context.Context, userID uuid.UUID, filter domain.WorkoutLogFilter) ([]domain.WorkoutLog, string, bool, error)
}

type workoutLogService struct {
	workoutRepo repository.WorkoutLogRepository
	userRepo    repository.UserRepository
}

// NewWorkoutLogService creates a new WorkoutLogService.
func NewWorkoutLogService(workoutRepo repository.WorkoutLogRepository, userRepo repository.UserRepository) WorkoutLogService {
	return &workoutLogService{
		workoutRepo: workoutRepo,
		userRepo:    userRepo,
	}
}

func (s *workoutLogService) Create(ctx context.Context, userID uuid.UUID, req *domain.CreateWorkoutLogRequest) (*domain.WorkoutLog, bool, error) {
	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	if !exists {
		return nil, false, domain.ErrNotFound
	}

	// Idempotency: a retry with the same client request ID returns the
	// original record instead of recording the session twice.
	if req.ClientRequestID != nil && *req.ClientRequestID != "" {
		existing, err := s.workoutRepo.GetByClientRequestID(ctx, userID, *req.ClientRequestID)
		if err != nil {
			return nil, false, err
		}
		if existing != nil {
			return existing, true, nil
		}
	}

	if !hasUsableSummary(req) {
		return nil, false, domain.ErrInvalidInput
	}

	log := &domain.WorkoutLog{
		UserID:          userID,
		StartedAt:       req.StartedAt,
		DistanceMeters:  req.DistanceMeters,
		DurationSeconds: req.DurationSeconds,
		Zone1Seconds:    req.Zone1Seconds,
		Zone2Seconds:    req.Zone2Seconds,
		Zone3Seconds:    req.Zone3Seconds,
		Zone4Seconds:    req.Zone4Seconds,
		Zone5Seconds:    req.Zone5Seconds,
		LoadScalar:      req.LoadScalar,
		ClientRequestID: req.ClientRequestID,
	}
	if err := s.workoutRepo.Create(ctx, log); err != nil {
		return nil, false, err
	}
	return log, false, nil
}

func (s *workoutLogService) List(ctx context.Context, userID uuid.UUID, filter domain.WorkoutLogFilter) ([]domain.WorkoutLog, string, bool, error) {
	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, "", false, err
	}
	if !exists {
		return nil, "", false, domain.ErrNotFound
	}

	logs, err := s.workoutRepo.List(ctx, userID, filter)
	if err != nil {
		return nil, "", false, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	hasMore := len(logs) > limit
	if hasMore {
		logs = logs[:limit]
	}

	nextCursor := ""
	if hasMore && len(logs) > 0 {
		last := logs[len(logs)-1]
		cursor := cursorFor(&last)
		nextCursor = cursor
	}

	return logs, nextCursor, hasMore, nil
}

func cursorFor(log *domain.WorkoutLog) string {
	cursor := pagination.Cursor{ID: log.ID, OccurredAt: log.OccurredAt()}
	return cursor.Encode()
}

// hasUsableSummary rejects records that carry neither a positive finite
// distance nor a positive duration; everything else is kept and defaulted at
// aggregation time.
func hasUsableSummary(req *domain.CreateWorkoutLogRequest) bool {
	distanceOK := req.DistanceMeters > 0 && !math.IsNaN(req.DistanceMeters) && !math.IsInf(req.DistanceMeters, 0)
	return distanceOK || req.DurationSeconds > 0
}
