package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/runcoach/training-planner/internal/domain"
	"github.com/runcoach/training-planner/internal/llm"
	"github.com/runcoach/training-planner/pkg/daycache"
	"github.com/runcoach/training-planner/pkg/quota"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ExplainCacheNamespace scopes day-cache entries holding explanation payloads.
const ExplainCacheNamespace = "plan-explanation"

// QuotaExceededError reports a denied explanation request with the structured
// data the caller needs to render a retry time.
type QuotaExceededError struct {
	Limit   int
	Used    int
	ResetAt string
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("daily quota exceeded: used %d of %d, resets at %s", e.Used, e.Limit, e.ResetAt)
}

func (e *QuotaExceededError) Unwrap() error { return domain.ErrQuotaExceeded }

// ExplainService generates natural-language explanations of weekly plans,
// memoized per UTC day and gated by a per-user daily quota. The LLM call is
// the only externally-priced operation in the system, which is why both
// resource managers sit in front of it.
type ExplainService interface {
	Explain(ctx context.Context, userID uuid.UUID, windowDays int) (*domain.ExplanationResponse, error)
}

// cachedExplanation is the day-cache payload. The inputs hash makes same-day
// staleness detectable: new workout data changes the hash and forces a fresh
// generation even before midnight.
type cachedExplanation struct {
	Explanation domain.PlanExplanation
	InputsHash  string
	QuotaUsed   int
}

type explainService struct {
	signalsService    SignalsService
	adjustmentService AdjustmentService
	planService       PlanService
	explainer         llm.PlanExplainer
	cache             *daycache.Cache
	quota             *quota.Enforcer
	dailyLimit        int
}

// NewExplainService creates a new ExplainService.
func NewExplainService(
	signalsService SignalsService,
	adjustmentService AdjustmentService,
	planService PlanService,
	explainer llm.PlanExplainer,
	cache *daycache.Cache,
	quotaEnforcer *quota.Enforcer,
	dailyLimit int,
) ExplainService {
	return &explainService{
		signalsService:    signalsService,
		adjustmentService: adjustmentService,
		planService:       planService,
		explainer:         explainer,
		cache:             cache,
		quota:             quotaEnforcer,
		dailyLimit:        dailyLimit,
	}
}

func (s *explainService) Explain(ctx context.Context, userID uuid.UUID, windowDays int) (*domain.ExplanationResponse, error) {
	// A zero limit means the feature is switched off; the quota enforcer
	// never sees it.
	if s.dailyLimit <= 0 {
		return nil, domain.ErrExplainerDisabled
	}
	if windowDays <= 0 {
		windowDays = domain.DefaultWindowDays
	}

	tracer := otel.Tracer("training-planner-api/explain")
	ctx, span := tracer.Start(ctx, "ExplainService.Explain",
		trace.WithAttributes(
			attribute.String("user.id", userID.String()),
			attribute.Int("window.days", windowDays),
		),
	)
	defer span.End()

	trainingCtx, err := s.signalsService.GetContext(ctx, userID, windowDays)
	if err != nil {
		return nil, err
	}
	adjustments := s.adjustmentService.Generate(trainingCtx, nil)
	plan, err := s.planService.GeneratePlan(trainingCtx, adjustments)
	if err != nil {
		return nil, err
	}

	resetAt := domain.FormatInstant(s.cache.ResetAt())

	// Cache hit with a matching fingerprint skips the LLM and the quota.
	if value, ok := s.cache.Get(ExplainCacheNamespace, userID.String(), windowDays); ok {
		if cached, ok := value.(cachedExplanation); ok && cached.InputsHash == plan.InputsHash {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return &domain.ExplanationResponse{
				Explanation: cached.Explanation,
				InputsHash:  cached.InputsHash,
				Cached:      true,
				QuotaLimit:  s.dailyLimit,
				QuotaUsed:   cached.QuotaUsed,
				ResetAt:     resetAt,
			}, nil
		}
	}

	res := s.quota.Consume(userID.String(), s.dailyLimit)
	if !res.Allowed {
		return nil, &QuotaExceededError{
			Limit:   res.Limit,
			Used:    res.Used,
			ResetAt: domain.FormatInstant(res.ResetAt),
		}
	}

	explanation, err := s.explainer.ExplainPlan(ctx, &domain.ExplanationContext{
		Context:     *trainingCtx,
		Plan:        *plan,
		Adjustments: *adjustments,
	})
	if err != nil {
		return nil, err
	}

	s.cache.Set(ExplainCacheNamespace, userID.String(), windowDays, cachedExplanation{
		Explanation: *explanation,
		InputsHash:  plan.InputsHash,
		QuotaUsed:   res.Used,
	})

	return &domain.ExplanationResponse{
		Explanation: *explanation,
		InputsHash:  plan.InputsHash,
		Cached:      false,
		QuotaLimit:  s.dailyLimit,
		QuotaUsed:   res.Used,
		ResetAt:     resetAt,
	}, nil
}
