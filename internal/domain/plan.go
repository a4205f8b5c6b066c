package domain

import (
	"fmt"
	"regexp"
)

// AdjustmentCode identifies a plan adjustment. The set is closed: the synthesizer
// only understands these codes.
// @Description Machine-readable adjustment code.
type AdjustmentCode string

const (
	AdjustReduceLoad        AdjustmentCode = "reduce_load"
	AdjustAddLongRun        AdjustmentCode = "add_long_run"
	AdjustSurfaceConstraint AdjustmentCode = "surface_constraint"
	AdjustRecoveryFocus     AdjustmentCode = "recovery_focus"
	AdjustTechniqueFocus    AdjustmentCode = "technique_focus"
)

// Severity grades how strongly an adjustment should be weighted.
// @Description Adjustment severity.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// AdjustmentParams carries the machine-readable parameters of an adjustment.
// Fields are zero-valued when the adjustment does not use them.
// @Description Adjustment parameters.
type AdjustmentParams struct {
	// Percentage to scale session durations/distances down by
	ReductionPct int `json:"reduction_pct,omitempty" example:"25"`
	// Replace the hard session with an easy one
	ReplaceHardSessionWithEasy bool `json:"replace_hard_session_with_easy,omitempty"`
	// Percentage to shorten the long run by
	LongRunReductionPct int `json:"long_run_reduction_pct,omitempty" example:"15"`
	// Add strides to easy sessions
	AddStrides bool `json:"add_strides,omitempty"`
	// Number of strides to add
	StridesCount int `json:"strides_count,omitempty" example:"6"`
	// Duration of each stride in seconds
	StridesDurationSec int `json:"strides_duration_sec,omitempty" example:"20"`
}

// Adjustment is a deterministic, rule-triggered modification instruction.
// Adjustments are generated, never mutated; list order is the application order.
// @Description Rule-triggered plan adjustment.
type Adjustment struct {
	Code      AdjustmentCode    `json:"code" example:"reduce_load"`
	Severity  Severity          `json:"severity" example:"high"`
	Rationale string            `json:"rationale" example:"Acute load is well above the 4-week average."`
	Evidence  []string          `json:"evidence" example:"weekly_load=210.5,rolling_4w_load=520"`
	Params    *AdjustmentParams `json:"params,omitempty"`
}

// Adjustments is the ordered, de-duplicated output of the rule engine.
// GeneratedAt and WindowDays are passed through from the input context unchanged.
// @Description Ordered list of plan adjustments.
type Adjustments struct {
	GeneratedAt string       `json:"generated_at" example:"2024-01-28T07:30:00.000Z"`
	WindowDays  int          `json:"window_days" example:"28"`
	Items       []Adjustment `json:"items"`
}

// SessionType is the kind of a planned session.
// @Description Planned session type.
type SessionType string

const (
	SessionRest    SessionType = "rest"
	SessionEasy    SessionType = "easy"
	SessionLong    SessionType = "long"
	SessionQuality SessionType = "quality"
	SessionStrides SessionType = "strides"
)

// Weekdays lists the plan days in canonical Monday-first order.
var Weekdays = [7]string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// PlannedSession is one day of a weekly plan. DurationMin is zero iff Type is rest.
// @Description A single planned training day.
type PlannedSession struct {
	Day         string      `json:"day" example:"sunday"`
	Type        SessionType `json:"type" example:"long"`
	DurationMin int         `json:"duration_min" example:"90"`
	DistanceKm  float64     `json:"distance_km,omitempty" example:"18.5"`
	// Target intensity zone, e.g. Z2
	IntensityHint string `json:"intensity_hint,omitempty" example:"Z2"`
	// Suggested surface, e.g. trail
	SurfaceHint string   `json:"surface_hint,omitempty" example:"trail"`
	Notes       []string `json:"notes,omitempty"`
}

// PlanSummary is recomputed strictly from the final sessions array; it is never
// carried over from intermediate synthesis state.
// @Description Summary totals recomputed from the sessions.
type PlanSummary struct {
	TotalDurationMin int `json:"total_duration_min" example:"320"`
	QualitySessions  int `json:"quality_sessions" example:"1"`
	// Day carrying the long run, empty when none is planned
	LongRunDay string `json:"long_run_day,omitempty" example:"sunday"`
}

// WeeklyPlan is the canonical 7-day plan produced by the synthesizer.
// @Description Deterministic 7-day training plan.
type WeeklyPlan struct {
	GeneratedAt string `json:"generated_at" example:"2024-01-28T07:30:00.000Z"`
	WeekStart   string `json:"week_start" example:"2024-01-22T00:00:00.000Z"`
	WeekEnd     string `json:"week_end" example:"2024-01-28T23:59:59.999Z"`
	WindowDays  int    `json:"window_days" example:"28"`
	// Content hash of the canonicalized training context; change-detection
	// fingerprint, not a security hash
	InputsHash string           `json:"inputs_hash" example:"9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08"`
	Sessions   []PlannedSession `json:"sessions"`
	Summary    PlanSummary      `json:"summary"`
	Rationale  []string         `json:"rationale"`
}

// GeneratePlanResponse pairs a plan with the adjustments that shaped it.
// @Description Weekly plan plus the adjustments applied to it.
type GeneratePlanResponse struct {
	Plan        WeeklyPlan  `json:"plan"`
	Adjustments Adjustments `json:"adjustments"`
}

var hexHashPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// Validate checks the plan's structural invariants. A failure here is a logic
// defect in the synthesizer, never user input, so callers surface it as an
// internal error.
func (p *WeeklyPlan) Validate() error {
	if len(p.Sessions) != 7 {
		return fmt.Errorf("%w: expected 7 sessions, got %d", ErrPlanInvariant, len(p.Sessions))
	}
	for i, s := range p.Sessions {
		if s.Day != Weekdays[i] {
			return fmt.Errorf("%w: session %d is %q, want %q", ErrPlanInvariant, i, s.Day, Weekdays[i])
		}
		if (s.DurationMin == 0) != (s.Type == SessionRest) {
			return fmt.Errorf("%w: %s has duration %d for type %s", ErrPlanInvariant, s.Day, s.DurationMin, s.Type)
		}
	}
	if !hexHashPattern.MatchString(p.InputsHash) {
		return fmt.Errorf("%w: malformed inputs hash %q", ErrPlanInvariant, p.InputsHash)
	}
	recomputed := SummarizeSessions(p.Sessions)
	if recomputed != p.Summary {
		return fmt.Errorf("%w: summary %+v does not match sessions %+v", ErrPlanInvariant, p.Summary, recomputed)
	}
	return nil
}

// SummarizeSessions derives summary totals from a sessions array. The synthesizer
// and the validator both use this, which is what makes the summary a checkable
// referential-integrity invariant rather than a cached value.
func SummarizeSessions(sessions []PlannedSession) PlanSummary {
	var summary PlanSummary
	for _, s := range sessions {
		summary.TotalDurationMin += s.DurationMin
		if s.Type == SessionQuality {
			summary.QualitySessions++
		}
		if s.Type == SessionLong {
			summary.LongRunDay = s.Day
		}
	}
	return summary
}
