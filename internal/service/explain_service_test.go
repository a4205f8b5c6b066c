package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/runcoach/training-planner/internal/domain"
	"github.com/runcoach/training-planner/pkg/daycache"
	"github.com/runcoach/training-planner/pkg/quota"
)

type explainFixture struct {
	userID      uuid.UUID
	workoutRepo *MockWorkoutLogRepository
	explainer   *MockPlanExplainer
	service     ExplainService
}

func newExplainFixture(t *testing.T, dailyLimit int) *explainFixture {
	t.Helper()

	userID := uuid.New()
	userRepo := NewMockUserRepository()
	userRepo.users[userID] = &domain.User{
		ID:          userID,
		Timezone:    "UTC",
		RunningDays: []string{"monday", "wednesday", "sunday"},
	}

	workoutRepo := NewMockWorkoutLogRepository()
	anchor := time.Date(2024, 1, 28, 7, 30, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		log := testWorkout(userID, anchor.AddDate(0, 0, -i*3), 10, 60, 50)
		if err := workoutRepo.Create(context.Background(), &log); err != nil {
			t.Fatalf("seed workout: %v", err)
		}
	}

	explainer := NewMockPlanExplainer()
	signalsService := NewSignalsService(workoutRepo, userRepo)
	service := NewExplainService(
		signalsService,
		NewAdjustmentService(),
		NewPlanService(),
		explainer,
		daycache.New(daycache.SystemClock()),
		quota.New(quota.SystemClock()),
		dailyLimit,
	)

	return &explainFixture{
		userID:      userID,
		workoutRepo: workoutRepo,
		explainer:   explainer,
		service:     service,
	}
}

func TestExplainCachesSecondCall(t *testing.T) {
	f := newExplainFixture(t, 5)

	first, err := f.service.Explain(context.Background(), f.userID, 28)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Cached {
		t.Fatalf("first call must not be cached")
	}
	if first.QuotaUsed != 1 || first.QuotaLimit != 5 {
		t.Fatalf("quota after first call: used=%d limit=%d", first.QuotaUsed, first.QuotaLimit)
	}
	if f.explainer.calls != 1 {
		t.Fatalf("explainer calls = %d, want 1", f.explainer.calls)
	}

	second, err := f.service.Explain(context.Background(), f.userID, 28)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !second.Cached {
		t.Fatalf("second call over unchanged data must be cached")
	}
	// The cache hit bypasses both the LLM and the quota.
	if f.explainer.calls != 1 {
		t.Fatalf("explainer calls = %d, want 1", f.explainer.calls)
	}
	if second.QuotaUsed != 1 {
		t.Fatalf("cached call must not consume quota, used=%d", second.QuotaUsed)
	}
	if second.InputsHash != first.InputsHash {
		t.Fatalf("hash changed without new data")
	}
}

func TestExplainRegeneratesOnNewData(t *testing.T) {
	f := newExplainFixture(t, 5)

	first, err := f.service.Explain(context.Background(), f.userID, 28)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A new workout moves the window anchor and changes the fingerprint.
	log := testWorkout(f.userID, time.Date(2024, 1, 29, 6, 0, 0, 0, time.UTC), 12, 70, 55)
	if err := f.workoutRepo.Create(context.Background(), &log); err != nil {
		t.Fatalf("seed workout: %v", err)
	}

	second, err := f.service.Explain(context.Background(), f.userID, 28)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Cached {
		t.Fatalf("stale cache entry must not be served")
	}
	if second.InputsHash == first.InputsHash {
		t.Fatalf("hash must change with new data")
	}
	if f.explainer.calls != 2 {
		t.Fatalf("explainer calls = %d, want 2", f.explainer.calls)
	}
	if second.QuotaUsed != 2 {
		t.Fatalf("regeneration must consume quota, used=%d", second.QuotaUsed)
	}
}

func TestExplainQuotaDenied(t *testing.T) {
	f := newExplainFixture(t, 1)

	if _, err := f.service.Explain(context.Background(), f.userID, 28); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Force a regeneration so the second call reaches the quota.
	log := testWorkout(f.userID, time.Date(2024, 1, 29, 6, 0, 0, 0, time.UTC), 12, 70, 55)
	if err := f.workoutRepo.Create(context.Background(), &log); err != nil {
		t.Fatalf("seed workout: %v", err)
	}

	_, err := f.service.Explain(context.Background(), f.userID, 28)
	if err == nil {
		t.Fatalf("expected quota denial")
	}

	var quotaErr *QuotaExceededError
	if !errors.As(err, &quotaErr) {
		t.Fatalf("expected QuotaExceededError, got %T: %v", err, err)
	}
	if quotaErr.Limit != 1 || quotaErr.Used != 1 {
		t.Fatalf("quota error = %+v", quotaErr)
	}
	if !errors.Is(err, domain.ErrQuotaExceeded) {
		t.Fatalf("quota error must unwrap to ErrQuotaExceeded")
	}
	if f.explainer.calls != 1 {
		t.Fatalf("denied request must not reach the explainer, calls=%d", f.explainer.calls)
	}
}

func TestExplainDisabled(t *testing.T) {
	f := newExplainFixture(t, 0)

	_, err := f.service.Explain(context.Background(), f.userID, 28)
	if !errors.Is(err, domain.ErrExplainerDisabled) {
		t.Fatalf("expected ErrExplainerDisabled, got %v", err)
	}
	if f.explainer.calls != 0 {
		t.Fatalf("disabled explainer must never be called")
	}
}

func TestExplainUnknownUser(t *testing.T) {
	f := newExplainFixture(t, 5)

	_, err := f.service.Explain(context.Background(), uuid.New(), 28)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestExplainExplainerFailureIsPropagated(t *testing.T) {
	f := newExplainFixture(t, 5)
	f.explainer.err = errors.New("upstream unavailable")

	_, err := f.service.Explain(context.Background(), f.userID, 28)
	if err == nil || err.Error() != "upstream unavailable" {
		t.Fatalf("expected explainer error, got %v", err)
	}

	// The failure must not be cached: a retry reaches the explainer again.
	f.explainer.err = nil
	res, err := f.service.Explain(context.Background(), f.userID, 28)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Cached {
		t.Fatalf("failed generation must not leave a cache entry")
	}
}
