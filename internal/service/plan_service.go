package service

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/runcoach/training-planner/internal/domain"
)

const (
	// Base durations in minutes for skeleton sessions.
	defaultEasyMin = 40
	minEasyMin     = 30
	maxEasyMin     = 75

	longRunMin         = 90
	longRunFatiguedMin = 75
	qualityMin         = 50

	// Duration a demoted quality session falls back to.
	demotedEasyMin = 40

	// Applied when a reduce_load adjustment carries no explicit percentage.
	defaultReductionPct = 20

	stridesNote = "Finish with 6x20s relaxed strides"
)

// PlanService builds the deterministic weekly plan from a training context and
// an ordered adjustment list.
type PlanService interface {
	// GeneratePlan synthesizes and validates the 7-day plan. Adjustments may
	// be nil, meaning an unadjusted skeleton.
	GeneratePlan(trainingCtx *domain.TrainingContext, adjustments *domain.Adjustments) (*domain.WeeklyPlan, error)
}

type planService struct{}

// NewPlanService creates a new PlanService.
func NewPlanService() PlanService {
	return &planService{}
}

func (s *planService) GeneratePlan(trainingCtx *domain.TrainingContext, adjustments *domain.Adjustments) (*domain.WeeklyPlan, error) {
	generatedAt, err := domain.ParseInstant(trainingCtx.GeneratedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: unparseable generated_at %q", domain.ErrPlanInvariant, trainingCtx.GeneratedAt)
	}

	inputsHash, err := ComputeInputsHash(trainingCtx)
	if err != nil {
		return nil, err
	}

	weekStart := isoWeekStart(generatedAt)
	weekEnd := weekStart.AddDate(0, 0, 7).Add(-time.Millisecond)

	plan := &domain.WeeklyPlan{
		GeneratedAt: trainingCtx.GeneratedAt,
		WeekStart:   domain.FormatInstant(weekStart),
		WeekEnd:     domain.FormatInstant(weekEnd),
		WindowDays:  trainingCtx.WindowDays,
		InputsHash:  inputsHash,
	}

	branches := buildSkeleton(plan, trainingCtx)
	applyAdjustments(plan, adjustments, &branches)

	// Summary is recomputed strictly from the final sessions, never carried
	// over from synthesis state; Validate re-derives it to check integrity.
	plan.Summary = domain.SummarizeSessions(plan.Sessions)
	plan.Rationale = buildRationale(plan, adjustments, branches)

	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return plan, nil
}

// firedBranches records which synthesis branches ran, for rationale assembly.
type firedBranches struct {
	longRunDay      string
	qualityPromoted bool
	stridesSeeded   bool
	loadReducedPct  int
	hardReplaced    bool
	longRunCutPct   int
	stridesAdded    bool
}

// buildSkeleton assigns every calendar day a base session and places the long
// run, the optional quality session, and the skeleton strides note.
func buildSkeleton(plan *domain.WeeklyPlan, trainingCtx *domain.TrainingContext) firedBranches {
	var branches firedBranches

	running := make(map[string]bool, len(trainingCtx.Profile.RunningDays))
	for _, d := range trainingCtx.Profile.RunningDays {
		running[strings.ToLower(d)] = true
	}

	easyMin := baseEasyMinutes(trainingCtx)

	plan.Sessions = make([]domain.PlannedSession, 0, 7)
	for _, day := range domain.Weekdays {
		session := domain.PlannedSession{Day: day, Type: domain.SessionRest}
		if running[day] {
			session.Type = domain.SessionEasy
			session.DurationMin = easyMin
		}
		plan.Sessions = append(plan.Sessions, session)
	}

	signals := trainingCtx.Signals
	surfaces := trainingCtx.Profile.Surfaces

	// Long run: Sunday, then Saturday, then the first running day.
	if idx := longRunIndex(plan.Sessions); idx >= 0 {
		s := &plan.Sessions[idx]
		s.Type = domain.SessionLong
		s.DurationMin = longRunMin
		if signals.Flags.Fatigue {
			s.DurationMin = longRunFatiguedMin
		}
		s.IntensityHint = "Z2"
		s.SurfaceHint = longRunSurfaceHint(surfaces)
		branches.longRunDay = s.Day
	}

	// Quality session: enough volume and no fatigue promotes the first weekday
	// still marked easy.
	if signals.Volume.Sessions >= 3 && !signals.Flags.Fatigue {
		for i := 0; i < 5; i++ {
			if plan.Sessions[i].Type != domain.SessionEasy {
				continue
			}
			s := &plan.Sessions[i]
			s.Type = domain.SessionQuality
			s.DurationMin = qualityMin
			s.IntensityHint = "Z3"
			if surfaces.AvoidAsphalt {
				s.SurfaceHint = string(domain.SurfaceTrack)
			}
			branches.qualityPromoted = true
			break
		}
	}

	// With three or more running days, one easy session carries strides.
	if len(running) >= 3 {
		for i := range plan.Sessions {
			if plan.Sessions[i].Type == domain.SessionEasy {
				plan.Sessions[i].Notes = append(plan.Sessions[i].Notes, stridesNote)
				branches.stridesSeeded = true
				break
			}
		}
	}

	return branches
}

// baseEasyMinutes derives the easy-day duration from the average weekly
// minutes spread over the configured running days, rounded to the nearest 5
// and clamped to a sane range.
func baseEasyMinutes(trainingCtx *domain.TrainingContext) int {
	days := len(trainingCtx.Profile.RunningDays)
	if days == 0 {
		return defaultEasyMin
	}
	weeks := float64(trainingCtx.WindowDays) / 7.0
	if weeks <= 0 {
		return defaultEasyMin
	}
	weeklyMin := trainingCtx.Signals.Volume.DurationMin / weeks
	perDay := roundTo5(weeklyMin / float64(days))
	if perDay <= 0 {
		return defaultEasyMin
	}
	if perDay < minEasyMin {
		return minEasyMin
	}
	if perDay > maxEasyMin {
		return maxEasyMin
	}
	return perDay
}

func longRunIndex(sessions []domain.PlannedSession) int {
	// Sunday is index 6, Saturday 5 in the Monday-first layout.
	for _, idx := range []int{6, 5} {
		if sessions[idx].Type == domain.SessionEasy {
			return idx
		}
	}
	for i := range sessions {
		if sessions[i].Type == domain.SessionEasy {
			return i
		}
	}
	return -1
}

func longRunSurfaceHint(surfaces domain.SurfacePreferences) string {
	if surfaces.AvoidAsphalt {
		return string(domain.SurfaceTrail)
	}
	if surfaces.AvoidTrail {
		return string(domain.SurfaceAsphalt)
	}
	return ""
}

// applyAdjustments mutates the plan with each adjustment strictly in the order
// the rule engine produced them.
func applyAdjustments(plan *domain.WeeklyPlan, adjustments *domain.Adjustments, branches *firedBranches) {
	if adjustments == nil {
		return
	}
	for _, adj := range adjustments.Items {
		switch adj.Code {
		case domain.AdjustReduceLoad:
			applyReduceLoad(plan, adj.Params, branches)
		case domain.AdjustRecoveryFocus:
			applyRecoveryFocus(plan, adj.Params, branches)
		case domain.AdjustTechniqueFocus:
			applyTechniqueFocus(plan, adj.Params, branches)
		}
		// add_long_run and surface_constraint are satisfied by skeleton
		// construction; they contribute rationale only.
	}
}

func applyReduceLoad(plan *domain.WeeklyPlan, params *domain.AdjustmentParams, branches *firedBranches) {
	pct := defaultReductionPct
	if params != nil && params.ReductionPct > 0 {
		pct = params.ReductionPct
	}
	factor := 1.0 - float64(pct)/100.0

	for i := range plan.Sessions {
		s := &plan.Sessions[i]
		if s.Type == domain.SessionQuality {
			demoteToEasy(s)
		}
		s.DurationMin = roundTo5(float64(s.DurationMin) * factor)
		if s.DistanceKm > 0 {
			s.DistanceKm = round1(s.DistanceKm * factor)
		}
	}
	branches.loadReducedPct = pct
}

func applyRecoveryFocus(plan *domain.WeeklyPlan, params *domain.AdjustmentParams, branches *firedBranches) {
	if params == nil {
		return
	}
	if params.ReplaceHardSessionWithEasy {
		for i := range plan.Sessions {
			if plan.Sessions[i].Type == domain.SessionQuality {
				demoteToEasy(&plan.Sessions[i])
				branches.hardReplaced = true
			}
		}
	}
	if params.LongRunReductionPct > 0 {
		factor := 1.0 - float64(params.LongRunReductionPct)/100.0
		for i := range plan.Sessions {
			if plan.Sessions[i].Type == domain.SessionLong {
				plan.Sessions[i].DurationMin = roundTo5(float64(plan.Sessions[i].DurationMin) * factor)
				branches.longRunCutPct = params.LongRunReductionPct
			}
		}
	}
}

func applyTechniqueFocus(plan *domain.WeeklyPlan, params *domain.AdjustmentParams, branches *firedBranches) {
	if params == nil || !params.AddStrides {
		return
	}
	note := stridesNote
	if params.StridesCount > 0 && params.StridesDurationSec > 0 {
		note = fmt.Sprintf("Finish with %dx%ds relaxed strides", params.StridesCount, params.StridesDurationSec)
	}

	added := 0
	for i := range plan.Sessions {
		if added == 2 {
			break
		}
		s := &plan.Sessions[i]
		if s.Type != domain.SessionEasy || hasStridesNote(s) {
			continue
		}
		s.Notes = append(s.Notes, note)
		added++
	}
	if added > 0 {
		branches.stridesAdded = true
	}
}

func demoteToEasy(s *domain.PlannedSession) {
	s.Type = domain.SessionEasy
	s.DurationMin = demotedEasyMin
	s.IntensityHint = "Z2"
	s.SurfaceHint = ""
}

func hasStridesNote(s *domain.PlannedSession) bool {
	for _, n := range s.Notes {
		if strings.Contains(n, "strides") {
			return true
		}
	}
	return false
}

// buildRationale selects fixed template strings driven by which branches
// fired. No free-text generation happens here.
func buildRationale(plan *domain.WeeklyPlan, adjustments *domain.Adjustments, branches firedBranches) []string {
	rationale := []string{
		fmt.Sprintf("Plan covers the week of %s, anchored to your most recent session.", plan.WeekStart[:10]),
	}
	if branches.longRunDay != "" {
		rationale = append(rationale, fmt.Sprintf("Long run placed on %s.", branches.longRunDay))
	}
	if branches.qualityPromoted {
		rationale = append(rationale, "One quality session scheduled midweek on current volume.")
	}
	if branches.stridesSeeded {
		rationale = append(rationale, "Strides added to one easy day to maintain leg speed.")
	}
	if adjustments == nil {
		return rationale
	}
	for _, adj := range adjustments.Items {
		switch adj.Code {
		case domain.AdjustReduceLoad:
			rationale = append(rationale, fmt.Sprintf("Total load reduced by %d%% this week.", branches.loadReducedPct))
		case domain.AdjustAddLongRun:
			rationale = append(rationale, "A weekly long run was scheduled to rebuild your aerobic base.")
		case domain.AdjustSurfaceConstraint:
			rationale = append(rationale, "Surface hints respect your surface preferences.")
		case domain.AdjustRecoveryFocus:
			if branches.hardReplaced {
				rationale = append(rationale, "Hard running replaced with easy running for recovery.")
			}
			if branches.longRunCutPct > 0 {
				rationale = append(rationale, fmt.Sprintf("Long run shortened by %d%% for recovery.", branches.longRunCutPct))
			}
		case domain.AdjustTechniqueFocus:
			if branches.stridesAdded {
				rationale = append(rationale, "Extra strides added to address the recent economy drop.")
			}
		}
	}
	return rationale
}

// ComputeInputsHash returns the sha256 hex fingerprint of the canonicalized
// context. The context is marshaled, decoded into generic maps, and marshaled
// again so key order is normalized: two semantically identical contexts hash
// identically regardless of incidental field ordering.
func ComputeInputsHash(trainingCtx *domain.TrainingContext) (string, error) {
	raw, err := json.Marshal(trainingCtx)
	if err != nil {
		return "", fmt.Errorf("%w: marshal context: %v", domain.ErrPlanInvariant, err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return "", fmt.Errorf("%w: canonicalize context: %v", domain.ErrPlanInvariant, err)
	}
	canonical, err := json.Marshal(generic)
	if err != nil {
		return "", fmt.Errorf("%w: canonicalize context: %v", domain.ErrPlanInvariant, err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// roundTo5 rounds minutes to the nearest multiple of 5.
func roundTo5(v float64) int {
	return int(math.Round(v/5.0)) * 5
}
