package domain

import "time"

const (
	// InstantLayout is the wire format for all pipeline timestamps: ISO-8601 UTC
	// with fixed millisecond precision, so re-serialization is byte-identical.
	InstantLayout = "2006-01-02T15:04:05.000Z"

	// DefaultWindowDays is the default aggregation window.
	DefaultWindowDays = 28

	// MaxHistoryRecords bounds how much history the aggregator ever sees.
	MaxHistoryRecords = 500
)

// FormatInstant renders an instant in the canonical wire format.
func FormatInstant(t time.Time) string {
	return t.UTC().Format(InstantLayout)
}

// ParseInstant parses an instant in the canonical wire format.
func ParseInstant(s string) (time.Time, error) {
	return time.Parse(InstantLayout, s)
}

// Period is the observation window of a signals snapshot. To is the latest
// observed session instant, never wall-clock time.
// @Description Observation window (ISO-8601 UTC, millisecond precision).
type Period struct {
	From string `json:"from" example:"2024-01-01T00:00:00.000Z"`
	To   string `json:"to" example:"2024-01-28T07:30:00.000Z"`
}

// Volume holds additive totals over the window.
// @Description Training volume totals for the window.
type Volume struct {
	DistanceKm  float64 `json:"distance_km" example:"124.5"`
	DurationMin float64 `json:"duration_min" example:"680"`
	Sessions    int     `json:"sessions" example:"14"`
}

// Intensity holds time-in-zone totals in seconds, Z1..Z5.
// @Description Time-in-zone distribution in seconds.
type Intensity struct {
	Zone1Seconds int `json:"zone1_seconds" example:"3600"`
	Zone2Seconds int `json:"zone2_seconds" example:"18000"`
	Zone3Seconds int `json:"zone3_seconds" example:"5400"`
	Zone4Seconds int `json:"zone4_seconds" example:"1800"`
	Zone5Seconds int `json:"zone5_seconds" example:"600"`
	TotalSeconds int `json:"total_seconds" example:"29400"`
}

// LongRun describes the single longest-by-distance session in the window.
// @Description Longest session in the window, if any.
type LongRun struct {
	Exists      bool    `json:"exists" example:"true"`
	DistanceKm  float64 `json:"distance_km,omitempty" example:"21.1"`
	DurationMin float64 `json:"duration_min,omitempty" example:"110"`
	SourceID    string  `json:"source_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	OccurredAt  string  `json:"occurred_at,omitempty" example:"2024-01-21T08:00:00.000Z"`
}

// TrainingLoad holds load sums over the trailing week and the full window.
// @Description Training load sums.
type TrainingLoad struct {
	WeeklyLoad    float64 `json:"weekly_load" example:"180.5"`
	Rolling4wLoad float64 `json:"rolling_4w_load" example:"640.25"`
}

// Consistency holds frequency and streak measures.
// @Description Training consistency measures.
type Consistency struct {
	// Average sessions per week over the window, one decimal
	SessionsPerWeek float64 `json:"sessions_per_week" example:"3.5"`
	// Consecutive ISO weeks with at least one session, counted backward from
	// the week containing the window anchor
	StreakWeeks int `json:"streak_weeks" example:"6"`
}

// RiskFlags holds derived warning flags.
// @Description Derived risk flags.
type RiskFlags struct {
	InjuryRisk bool `json:"injury_risk" example:"false"`
	Fatigue    bool `json:"fatigue" example:"false"`
}

// TrainingSignals is the derived, immutable snapshot of a user's recent training.
// It is computed fresh per request and never persisted.
// @Description Aggregated training signals for a history window.
type TrainingSignals struct {
	Period      Period       `json:"period"`
	Volume      Volume       `json:"volume"`
	Intensity   Intensity    `json:"intensity"`
	LongRun     LongRun      `json:"long_run"`
	Load        TrainingLoad `json:"load"`
	Consistency Consistency  `json:"consistency"`
	Flags       RiskFlags    `json:"flags"`
}

// TrainingContext merges a signals snapshot with the user's standing profile.
// GeneratedAt always equals Signals.Period.To; downstream determinism depends on
// never substituting wall-clock time here.
// @Description Immutable planning context: signals plus profile.
type TrainingContext struct {
	GeneratedAt string          `json:"generated_at" example:"2024-01-28T07:30:00.000Z"`
	WindowDays  int             `json:"window_days" example:"28"`
	Signals     TrainingSignals `json:"signals"`
	Profile     Profile         `json:"profile"`
}

// IntensityClass classifies the overall intensity of a single session.
// @Description Session intensity class.
type IntensityClass string

const (
	IntensityEasy     IntensityClass = "easy"
	IntensityModerate IntensityClass = "moderate"
	IntensityHard     IntensityClass = "hard"
)

// LoadImpact classifies how a session moved the acute training load.
// @Description Session load impact class.
type LoadImpact string

const (
	LoadImpactLow      LoadImpact = "low"
	LoadImpactModerate LoadImpact = "moderate"
	LoadImpactHigh     LoadImpact = "high"
)

// FeedbackWarnings are boolean warning flags raised by the session analyzer.
// @Description Warning flags from the most recent session.
type FeedbackWarnings struct {
	OverloadRisk         bool `json:"overload_risk" example:"false"`
	HeartRateInstability bool `json:"heart_rate_instability" example:"false"`
	EconomyDrop          bool `json:"economy_drop" example:"false"`
}

// FeedbackSignals is a compact upstream classification of the most recent single
// session, consumed by the adjustment rule engine.
// @Description Classification of the most recent session.
type FeedbackSignals struct {
	IntensityClass  IntensityClass   `json:"intensity_class" validate:"omitempty,oneof=easy moderate hard" example:"moderate"`
	HeartRateStable bool             `json:"heart_rate_stable" example:"true"`
	EconomyOK       bool             `json:"economy_ok" example:"true"`
	LoadImpact      LoadImpact       `json:"load_impact" validate:"omitempty,oneof=low moderate high" example:"moderate"`
	Warnings        FeedbackWarnings `json:"warnings"`
}

// TrainingWindowRequest contains query parameters for signals/context endpoints.
type TrainingWindowRequest struct {
	WindowDays int `json:"window_days" validate:"omitempty,min=1,max=365"`
}

// GeneratePlanRequest is the request body for plan generation.
// @Description Request payload for generating a weekly plan.
type GeneratePlanRequest struct {
	// History window in days (defaults to 28)
	WindowDays int `json:"window_days" validate:"omitempty,min=1,max=365" example:"28"`
	// Optional classification of the most recent session
	Feedback *FeedbackSignals `json:"feedback,omitempty"`
}
