package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/runcoach/training-planner/internal/domain"
	"github.com/runcoach/training-planner/pkg/pagination"
)

func seedUser(t *testing.T, repo *MockUserRepository) uuid.UUID {
	t.Helper()
	userID := uuid.New()
	repo.users[userID] = &domain.User{
		ID:          userID,
		Timezone:    "UTC",
		RunningDays: []string{"monday", "sunday"},
	}
	return userID
}

func TestWorkoutLogServiceCreate(t *testing.T) {
	userRepo := NewMockUserRepository()
	userID := seedUser(t, userRepo)
	svc := NewWorkoutLogService(NewMockWorkoutLogRepository(), userRepo)

	started := time.Date(2024, 1, 28, 7, 0, 0, 0, time.UTC)
	log, replayed, err := svc.Create(context.Background(), userID, &domain.CreateWorkoutLogRequest{
		StartedAt:       timePtr(started),
		DistanceMeters:  10000,
		DurationSeconds: 3600,
		LoadScalar:      50,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if replayed {
		t.Fatalf("fresh create must not be flagged as a replay")
	}
	if log.ID == uuid.Nil {
		t.Fatalf("log must get an ID")
	}
	if log.OccurredAt() != started {
		t.Fatalf("occurred at = %v, want %v", log.OccurredAt(), started)
	}
}

func TestWorkoutLogServiceCreateUnknownUser(t *testing.T) {
	svc := NewWorkoutLogService(NewMockWorkoutLogRepository(), NewMockUserRepository())

	_, _, err := svc.Create(context.Background(), uuid.New(), &domain.CreateWorkoutLogRequest{
		DistanceMeters: 5000,
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestWorkoutLogServiceCreateRejectsEmptyRecord(t *testing.T) {
	userRepo := NewMockUserRepository()
	userID := seedUser(t, userRepo)
	svc := NewWorkoutLogService(NewMockWorkoutLogRepository(), userRepo)

	_, _, err := svc.Create(context.Background(), userID, &domain.CreateWorkoutLogRequest{})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestWorkoutLogServiceCreateIdempotent(t *testing.T) {
	userRepo := NewMockUserRepository()
	userID := seedUser(t, userRepo)
	workoutRepo := NewMockWorkoutLogRepository()
	svc := NewWorkoutLogService(workoutRepo, userRepo)

	req := &domain.CreateWorkoutLogRequest{
		DistanceMeters:  8000,
		DurationSeconds: 2400,
		ClientRequestID: strPtr("req-123"),
	}

	first, replayed, err := svc.Create(context.Background(), userID, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if replayed {
		t.Fatalf("first create must not be a replay")
	}

	// Same client request ID, different payload: the original record wins.
	second, replayed, err := svc.Create(context.Background(), userID, &domain.CreateWorkoutLogRequest{
		DistanceMeters:  9999,
		ClientRequestID: strPtr("req-123"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !replayed {
		t.Fatalf("retry must be flagged as a replay")
	}
	if second.ID != first.ID {
		t.Fatalf("retry returned a different record")
	}
	if second.DistanceMeters != 8000 {
		t.Fatalf("retry must return the original payload, got %v", second.DistanceMeters)
	}

	// Another user may reuse the same client request ID.
	otherID := seedUser(t, userRepo)
	third, replayed, err := svc.Create(context.Background(), otherID, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if replayed || third.ID == first.ID {
		t.Fatalf("client request IDs must be scoped per user")
	}
}

func TestWorkoutLogServiceList(t *testing.T) {
	userRepo := NewMockUserRepository()
	userID := seedUser(t, userRepo)
	workoutRepo := NewMockWorkoutLogRepository()
	svc := NewWorkoutLogService(workoutRepo, userRepo)

	base := time.Date(2024, 1, 28, 7, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		log := testWorkout(userID, base.AddDate(0, 0, -i), 10, 60, 50)
		if err := workoutRepo.Create(context.Background(), &log); err != nil {
			t.Fatalf("seed workout: %v", err)
		}
	}

	logs, nextCursor, hasMore, err := svc.List(context.Background(), userID, domain.WorkoutLogFilter{Limit: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(logs) != 3 {
		t.Fatalf("page size = %d, want 3", len(logs))
	}
	if !hasMore {
		t.Fatalf("expected more pages")
	}
	if nextCursor == "" {
		t.Fatalf("expected a next cursor")
	}

	// Newest first
	for i := 1; i < len(logs); i++ {
		if logs[i].OccurredAt().After(logs[i-1].OccurredAt()) {
			t.Fatalf("logs not newest-first: %v before %v", logs[i-1].OccurredAt(), logs[i].OccurredAt())
		}
	}

	// The cursor points at the last returned record
	cursor, err := pagination.DecodeCursor(nextCursor)
	if err != nil {
		t.Fatalf("cursor does not decode: %v", err)
	}
	last := logs[len(logs)-1]
	if cursor.ID != last.ID || !cursor.OccurredAt.Equal(last.OccurredAt()) {
		t.Fatalf("cursor = %+v, want last record %s", cursor, last.ID)
	}
}

func TestWorkoutLogServiceListLastPage(t *testing.T) {
	userRepo := NewMockUserRepository()
	userID := seedUser(t, userRepo)
	workoutRepo := NewMockWorkoutLogRepository()
	svc := NewWorkoutLogService(workoutRepo, userRepo)

	log := testWorkout(userID, time.Date(2024, 1, 28, 7, 0, 0, 0, time.UTC), 10, 60, 50)
	if err := workoutRepo.Create(context.Background(), &log); err != nil {
		t.Fatalf("seed workout: %v", err)
	}

	logs, nextCursor, hasMore, err := svc.List(context.Background(), userID, domain.WorkoutLogFilter{Limit: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(logs) != 1 || hasMore || nextCursor != "" {
		t.Fatalf("last page wrong: n=%d hasMore=%v cursor=%q", len(logs), hasMore, nextCursor)
	}
}

func TestWorkoutLogServiceListUnknownUser(t *testing.T) {
	svc := NewWorkoutLogService(NewMockWorkoutLogRepository(), NewMockUserRepository())

	_, _, _, err := svc.List(context.Background(), uuid.New(), domain.WorkoutLogFilter{})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
