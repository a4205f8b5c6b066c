package handler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/runcoach/training-planner/internal/domain"
)

// MockUserService is a mock implementation of UserService
type MockUserService struct {
	createFunc        func(ctx context.Context, req *domain.CreateUserRequest) (*domain.User, error)
	getByIDFunc       func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	updateProfileFunc func(ctx context.Context, id uuid.UUID, req *domain.UpdateProfileRequest) (*domain.User, error)
}

func (m *MockUserService) Create(ctx context.Context, req *domain.CreateUserRequest) (*domain.User, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}
	return &domain.User{
		ID:          uuid.New(),
		Timezone:    req.Timezone,
		RunningDays: req.RunningDays,
		CreatedAt:   time.Now(),
	}, nil
}

func (m *MockUserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *MockUserService) UpdateProfile(ctx context.Context, id uuid.UUID, req *domain.UpdateProfileRequest) (*domain.User, error) {
	if m.updateProfileFunc != nil {
		return m.updateProfileFunc(ctx, id, req)
	}
	return &domain.User{
		ID:          id,
		Timezone:    req.Timezone,
		RunningDays: req.RunningDays,
		CreatedAt:   time.Now(),
	}, nil
}

// MockWorkoutLogService is a mock implementation of WorkoutLogService
type MockWorkoutLogService struct {
	createFunc func(ctx context.Context, userID uuid.UUID, req *domain.CreateWorkoutLogRequest) (*domain.WorkoutLog, bool, error)
	listFunc   func(ctx context.Context, userID uuid.UUID, filter domain.WorkoutLogFilter) ([]domain.WorkoutLog, string, bool, error)
}

func (m *MockWorkoutLogService) Create(ctx context.Context, userID uuid.UUID, req *domain.CreateWorkoutLogRequest) (*domain.WorkoutLog, bool, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, userID, req)
	}
	return &domain.WorkoutLog{
		ID:              uuid.New(),
		UserID:          userID,
		StartedAt:       req.StartedAt,
		DistanceMeters:  req.DistanceMeters,
		DurationSeconds: req.DurationSeconds,
		LoadScalar:      req.LoadScalar,
		CreatedAt:       time.Now(),
	}, false, nil
}

func (m *MockWorkoutLogService) List(ctx context.Context, userID uuid.UUID, filter domain.WorkoutLogFilter) ([]domain.WorkoutLog, string, bool, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, userID, filter)
	}
	return []domain.WorkoutLog{}, "", false, nil
}

// MockSignalsService is a mock implementation of SignalsService
type MockSignalsService struct {
	getSignalsFunc func(ctx context.Context, userID uuid.UUID, windowDays int) (*domain.TrainingSignals, error)
	getContextFunc func(ctx context.Context, userID uuid.UUID, windowDays int) (*domain.TrainingContext, error)
}

func (m *MockSignalsService) GetSignals(ctx context.Context, userID uuid.UUID, windowDays int) (*domain.TrainingSignals, error) {
	if m.getSignalsFunc != nil {
		return m.getSignalsFunc(ctx, userID, windowDays)
	}
	return &domain.TrainingSignals{
		Period: domain.Period{
			From: "2023-12-31T07:30:00.000Z",
			To:   "2024-01-28T07:30:00.000Z",
		},
	}, nil
}

func (m *MockSignalsService) GetContext(ctx context.Context, userID uuid.UUID, windowDays int) (*domain.TrainingContext, error) {
	if m.getContextFunc != nil {
		return m.getContextFunc(ctx, userID, windowDays)
	}
	if windowDays <= 0 {
		windowDays = domain.DefaultWindowDays
	}
	return &domain.TrainingContext{
		GeneratedAt: "2024-01-28T07:30:00.000Z",
		WindowDays:  windowDays,
		Signals: domain.TrainingSignals{
			Period: domain.Period{
				From: "2023-12-31T07:30:00.000Z",
				To:   "2024-01-28T07:30:00.000Z",
			},
			Volume: domain.Volume{Sessions: 8, DistanceKm: 80, DurationMin: 480},
			LongRun: domain.LongRun{
				Exists:     true,
				DistanceKm: 18,
			},
		},
		Profile: domain.Profile{
			Timezone:    "UTC",
			RunningDays: []string{"monday", "wednesday", "sunday"},
		},
	}, nil
}

// MockAdjustmentService is a mock implementation of AdjustmentService
type MockAdjustmentService struct {
	generateFunc func(trainingCtx *domain.TrainingContext, feedback *domain.FeedbackSignals) *domain.Adjustments
}

func (m *MockAdjustmentService) Generate(trainingCtx *domain.TrainingContext, feedback *domain.FeedbackSignals) *domain.Adjustments {
	if m.generateFunc != nil {
		return m.generateFunc(trainingCtx, feedback)
	}
	return &domain.Adjustments{
		GeneratedAt: trainingCtx.GeneratedAt,
		WindowDays:  trainingCtx.WindowDays,
		Items:       []domain.Adjustment{},
	}
}

// MockPlanService is a mock implementation of PlanService
type MockPlanService struct {
	generatePlanFunc func(trainingCtx *domain.TrainingContext, adjustments *domain.Adjustments) (*domain.WeeklyPlan, error)
}

func (m *MockPlanService) GeneratePlan(trainingCtx *domain.TrainingContext, adjustments *domain.Adjustments) (*domain.WeeklyPlan, error) {
	if m.generatePlanFunc != nil {
		return m.generatePlanFunc(trainingCtx, adjustments)
	}
	sessions := make([]domain.PlannedSession, 0, 7)
	for _, day := range domain.Weekdays {
		sessions = append(sessions, domain.PlannedSession{Day: day, Type: domain.SessionRest})
	}
	plan := &domain.WeeklyPlan{
		GeneratedAt: trainingCtx.GeneratedAt,
		WeekStart:   "2024-01-22T00:00:00.000Z",
		WeekEnd:     "2024-01-28T23:59:59.999Z",
		WindowDays:  trainingCtx.WindowDays,
		InputsHash:  "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08",
		Sessions:    sessions,
	}
	plan.Summary = domain.SummarizeSessions(plan.Sessions)
	return plan, nil
}

// MockExplainService is a mock implementation of ExplainService
type MockExplainService struct {
	explainFunc func(ctx context.Context, userID uuid.UUID, windowDays int) (*domain.ExplanationResponse, error)
}

func (m *MockExplainService) Explain(ctx context.Context, userID uuid.UUID, windowDays int) (*domain.ExplanationResponse, error) {
	if m.explainFunc != nil {
		return m.explainFunc(ctx, userID, windowDays)
	}
	return &domain.ExplanationResponse{
		Explanation: domain.PlanExplanation{
			Summary:    "A steady week built on your recent training.",
			Highlights: []string{"Long run on Sunday anchors the week."},
			Guidance:   []string{"Keep easy days conversational."},
		},
		InputsHash: "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08",
		QuotaLimit: 5,
		QuotaUsed:  1,
		ResetAt:    "2024-01-29T00:00:00.000Z",
	}, nil
}
