package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/runcoach/training-planner/internal/domain"
)

// MockWorkoutLogRepository is a mock implementation of WorkoutLogRepository
type MockWorkoutLogRepository struct {
	logs            map[uuid.UUID]*domain.WorkoutLog
	clientRequestID map[string]*domain.WorkoutLog
	err             error
}

func NewMockWorkoutLogRepository() *MockWorkoutLogRepository {
	return &MockWorkoutLogRepository{
		logs:            make(map[uuid.UUID]*domain.WorkoutLog),
		clientRequestID: make(map[string]*domain.WorkoutLog),
	}
}

func (m *MockWorkoutLogRepository) Create(ctx context.Context, log *domain.WorkoutLog) error {
	if m.err != nil {
		return m.err
	}
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	m.logs[log.ID] = log
	if log.ClientRequestID != nil {
		key := log.UserID.String() + ":" + *log.ClientRequestID
		m.clientRequestID[key] = log
	}
	return nil
}

func (m *MockWorkoutLogRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkoutLog, error) {
	if m.err != nil {
		return nil, m.err
	}
	log, ok := m.logs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return log, nil
}

func (m *MockWorkoutLogRepository) List(ctx context.Context, userID uuid.UUID, filter domain.WorkoutLogFilter) ([]domain.WorkoutLog, error) {
	if m.err != nil {
		return nil, m.err
	}
	logs := m.sortedForUser(userID)
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	if len(logs) > limit+1 {
		logs = logs[:limit+1]
	}
	return logs, nil
}

func (m *MockWorkoutLogRepository) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]domain.WorkoutLog, error) {
	if m.err != nil {
		return nil, m.err
	}
	logs := m.sortedForUser(userID)
	if limit > 0 && len(logs) > limit {
		logs = logs[:limit]
	}
	return logs, nil
}

func (m *MockWorkoutLogRepository) GetByClientRequestID(ctx context.Context, userID uuid.UUID, clientRequestID string) (*domain.WorkoutLog, error) {
	if m.err != nil {
		return nil, m.err
	}
	log, ok := m.clientRequestID[userID.String()+":"+clientRequestID]
	if !ok {
		return nil, nil
	}
	return log, nil
}

// sortedForUser returns the user's logs newest-first by the authoritative
// instant, matching the real repository's ordering contract.
func (m *MockWorkoutLogRepository) sortedForUser(userID uuid.UUID) []domain.WorkoutLog {
	var logs []domain.WorkoutLog
	for _, log := range m.logs {
		if log.UserID == userID {
			logs = append(logs, *log)
		}
	}
	sort.Slice(logs, func(i, j int) bool {
		return logs[i].OccurredAt().After(logs[j].OccurredAt())
	})
	return logs
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	users map[uuid.UUID]*domain.User
	err   error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[uuid.UUID]*domain.User),
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.err != nil {
		return m.err
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	user, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if m.err != nil {
		return m.err
	}
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.users[id]
	return ok, nil
}

// MockPlanExplainer returns a fixed explanation and counts calls.
type MockPlanExplainer struct {
	calls  int
	err    error
	output domain.PlanExplanation
}

func NewMockPlanExplainer() *MockPlanExplainer {
	return &MockPlanExplainer{
		output: domain.PlanExplanation{
			Summary:    "A steady week built on your recent training.",
			Highlights: []string{"Long run on Sunday anchors the week."},
			Guidance:   []string{"Keep easy days conversational."},
		},
	}
}

func (m *MockPlanExplainer) ExplainPlan(ctx context.Context, explCtx *domain.ExplanationContext) (*domain.PlanExplanation, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	out := m.output
	return &out, nil
}

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }
