package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/runcoach/training-planner/internal/domain"
	"github.com/runcoach/training-planner/pkg/pagination"
	"gorm.io/gorm"
)

type WorkoutLogRepository interface {
	Create(ctx context.Context, log *domain.WorkoutLog) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkoutLog, error)
	List(ctx context.Context, userID uuid.UUID, filter domain.WorkoutLogFilter) ([]domain.WorkoutLog, error)
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]domain.WorkoutLog, error)
	GetByClientRequestID(ctx context.Context, userID uuid.UUID, clientRequestID string) (*domain.WorkoutLog, error)
}

type workoutLogRepository struct {
	db *gorm.DB
}

func NewWorkoutLogRepository(db *gorm.DB) WorkoutLogRepository {
	return &workoutLogRepository{db: db}
}

func (r *workoutLogRepository) Create(ctx context.Context, log *domain.WorkoutLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *workoutLogRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkoutLog, error) {
	var log domain.WorkoutLog
	err := r.db.WithContext(ctx).First(&log, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &log, nil
}

func (r *workoutLogRepository) List(ctx context.Context, userID uuid.UUID, filter domain.WorkoutLogFilter) ([]domain.WorkoutLog, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("COALESCE(started_at, created_at) DESC")

	// Time filters apply to the authoritative instant, not just started_at
	if filter.From != nil {
		query = query.Where("COALESCE(started_at, created_at) >= ?", filter.From)
	}
	if filter.To != nil {
		query = query.Where("COALESCE(started_at, created_at) <= ?", filter.To)
	}

	// Apply cursor pagination
	if filter.Cursor != "" {
		cursor, err := pagination.DecodeCursor(filter.Cursor)
		if err == nil && cursor != nil {
			// For DESC order: records strictly older than the cursor, or with
			// the same instant but a smaller id
			query = query.Where(
				"(COALESCE(started_at, created_at) < ?) OR (COALESCE(started_at, created_at) = ? AND id < ?)",
				cursor.OccurredAt, cursor.OccurredAt, cursor.ID,
			)
		}
	}

	// Fetch one extra to determine if there are more results
	limit := pagination.NormalizeLimit(filter.Limit)
	query = query.Limit(limit + 1)

	var logs []domain.WorkoutLog
	if err := query.Find(&logs).Error; err != nil {
		return nil, err
	}

	return logs, nil
}

// ListRecent returns up to limit records ordered newest-first by the
// authoritative instant. This is the bounded history the aggregator consumes.
func (r *workoutLogRepository) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]domain.WorkoutLog, error) {
	if limit <= 0 || limit > domain.MaxHistoryRecords {
		limit = domain.MaxHistoryRecords
	}

	var logs []domain.WorkoutLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("COALESCE(started_at, created_at) DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *workoutLogRepository) GetByClientRequestID(ctx context.Context, userID uuid.UUID, clientRequestID string) (*domain.WorkoutLog, error) {
	var log domain.WorkoutLog
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND client_request_id = ?", userID, clientRequestID).
		First(&log).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil // Not found is not an error for idempotency check
		}
		return nil, err
	}
	return &log, nil
}
