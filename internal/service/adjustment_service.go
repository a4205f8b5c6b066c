package service

import (
	"fmt"

	"github.com/runcoach/training-planner/internal/domain"
)

// AdjustmentService evaluates the deterministic rule set against a training
// context and optional feedback from the most recent session.
type AdjustmentService interface {
	// Generate produces the ordered, de-duplicated adjustment list.
	Generate(trainingCtx *domain.TrainingContext, feedback *domain.FeedbackSignals) *domain.Adjustments
}

// adjustmentRule inspects the context and either yields one adjustment or nil.
// Rules stay pure so each one is independently testable.
type adjustmentRule func(trainingCtx *domain.TrainingContext, feedback *domain.FeedbackSignals) *domain.Adjustment

type adjustmentService struct {
	rules []adjustmentRule
}

// NewAdjustmentService creates the engine with the canonical rule order. The
// order is part of the contract: it is both the application order in the
// synthesizer and the order clients see.
func NewAdjustmentService() AdjustmentService {
	return &adjustmentService{
		rules: []adjustmentRule{
			ruleFatigueReduceLoad,
			ruleMissingLongRun,
			ruleSurfaceConstraint,
			ruleFeedbackOverload,
			ruleFeedbackRecovery,
			ruleFeedbackTechnique,
		},
	}
}

func (s *adjustmentService) Generate(trainingCtx *domain.TrainingContext, feedback *domain.FeedbackSignals) *domain.Adjustments {
	out := &domain.Adjustments{
		GeneratedAt: trainingCtx.GeneratedAt,
		WindowDays:  trainingCtx.WindowDays,
		Items:       []domain.Adjustment{},
	}

	seen := make(map[domain.AdjustmentCode]bool)
	for _, rule := range s.rules {
		adj := rule(trainingCtx, feedback)
		if adj == nil {
			continue
		}
		// First writer wins per code; a later rule never overrides or
		// duplicates an earlier one.
		if seen[adj.Code] {
			continue
		}
		seen[adj.Code] = true
		out.Items = append(out.Items, *adj)
	}

	return out
}

func ruleFatigueReduceLoad(trainingCtx *domain.TrainingContext, _ *domain.FeedbackSignals) *domain.Adjustment {
	if !trainingCtx.Signals.Flags.Fatigue {
		return nil
	}
	return &domain.Adjustment{
		Code:      domain.AdjustReduceLoad,
		Severity:  domain.SeverityHigh,
		Rationale: "Recent training load is well above your 4-week baseline; easing off reduces overtraining risk.",
		Evidence: []string{
			fmt.Sprintf("weekly_load=%.2f", trainingCtx.Signals.Load.WeeklyLoad),
			fmt.Sprintf("rolling_4w_load=%.2f", trainingCtx.Signals.Load.Rolling4wLoad),
		},
	}
}

func ruleMissingLongRun(trainingCtx *domain.TrainingContext, _ *domain.FeedbackSignals) *domain.Adjustment {
	if trainingCtx.Signals.LongRun.Exists {
		return nil
	}
	return &domain.Adjustment{
		Code:      domain.AdjustAddLongRun,
		Severity:  domain.SeverityMedium,
		Rationale: "No long run was detected in the window; weekly long runs build the aerobic base.",
		Evidence: []string{
			fmt.Sprintf("window_days=%d", trainingCtx.WindowDays),
			fmt.Sprintf("sessions=%d", trainingCtx.Signals.Volume.Sessions),
		},
	}
}

func ruleSurfaceConstraint(trainingCtx *domain.TrainingContext, _ *domain.FeedbackSignals) *domain.Adjustment {
	surfaces := trainingCtx.Profile.Surfaces
	if !surfaces.AvoidAsphalt && !surfaces.AvoidTrail {
		return nil
	}
	avoided := string(domain.SurfaceTrail)
	if surfaces.AvoidAsphalt {
		avoided = string(domain.SurfaceAsphalt)
	}
	return &domain.Adjustment{
		Code:      domain.AdjustSurfaceConstraint,
		Severity:  domain.SeverityLow,
		Rationale: "Your profile avoids a surface; sessions carry surface hints that respect it.",
		Evidence:  []string{"avoided_surface=" + avoided},
	}
}

func ruleFeedbackOverload(_ *domain.TrainingContext, feedback *domain.FeedbackSignals) *domain.Adjustment {
	if feedback == nil || !feedback.Warnings.OverloadRisk {
		return nil
	}
	return &domain.Adjustment{
		Code:      domain.AdjustReduceLoad,
		Severity:  domain.SeverityHigh,
		Rationale: "Your last session flagged overload risk; cutting volume by a quarter gives room to absorb it.",
		Evidence:  []string{"feedback.overload_risk=true", "feedback.load_impact=" + string(feedback.LoadImpact)},
		Params: &domain.AdjustmentParams{
			ReductionPct: 25,
		},
	}
}

func ruleFeedbackRecovery(_ *domain.TrainingContext, feedback *domain.FeedbackSignals) *domain.Adjustment {
	if feedback == nil || !feedback.Warnings.HeartRateInstability {
		return nil
	}
	return &domain.Adjustment{
		Code:      domain.AdjustRecoveryFocus,
		Severity:  domain.SeverityMedium,
		Rationale: "Heart-rate instability in your last session suggests incomplete recovery; this week favors easy running.",
		Evidence:  []string{"feedback.heart_rate_instability=true"},
		Params: &domain.AdjustmentParams{
			ReplaceHardSessionWithEasy: true,
			LongRunReductionPct:        15,
		},
	}
}

func ruleFeedbackTechnique(_ *domain.TrainingContext, feedback *domain.FeedbackSignals) *domain.Adjustment {
	if feedback == nil || !feedback.Warnings.EconomyDrop {
		return nil
	}
	return &domain.Adjustment{
		Code:      domain.AdjustTechniqueFocus,
		Severity:  domain.SeverityLow,
		Rationale: "Running economy dropped in your last session; short strides sharpen mechanics at low cost.",
		Evidence:  []string{"feedback.economy_drop=true"},
		Params: &domain.AdjustmentParams{
			AddStrides:         true,
			StridesCount:       6,
			StridesDurationSec: 20,
		},
	}
}
