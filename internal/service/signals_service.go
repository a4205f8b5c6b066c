package service

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/runcoach/training-planner/internal/domain"
	"github.com/runcoach/training-planner/internal/repository"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	// StreakCapWeeks bounds the backward ISO-week walk. An infinite-loop
	// guard, not a product rule.
	StreakCapWeeks = 104

	// Acute:chronic load ratio thresholds for the risk flags. The ratio is
	// weekly load over a quarter of the rolling 4-week load.
	FatigueLoadRatio    = 1.30
	InjuryRiskLoadRatio = 1.50
)

// SignalsService reduces a user's workout history into training signals and
// assembles the immutable planning context.
type SignalsService interface {
	// GetSignals computes the signals snapshot over the given window.
	GetSignals(ctx context.Context, userID uuid.UUID, windowDays int) (*domain.TrainingSignals, error)
	// GetContext merges a fresh signals snapshot with the user's profile.
	GetContext(ctx context.Context, userID uuid.UUID, windowDays int) (*domain.TrainingContext, error)
}

type signalsService struct {
	workoutRepo repository.WorkoutLogRepository
	userRepo    repository.UserRepository
}

// NewSignalsService creates a new SignalsService.
func NewSignalsService(workoutRepo repository.WorkoutLogRepository, userRepo repository.UserRepository) SignalsService {
	return &signalsService{
		workoutRepo: workoutRepo,
		userRepo:    userRepo,
	}
}

func (s *signalsService) GetSignals(ctx context.Context, userID uuid.UUID, windowDays int) (*domain.TrainingSignals, error) {
	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}

	if windowDays <= 0 {
		windowDays = domain.DefaultWindowDays
	}

	tracer := otel.Tracer("training-planner-api/signals")
	ctx, span := tracer.Start(ctx, "SignalsService.GetSignals",
		trace.WithAttributes(
			attribute.String("user.id", userID.String()),
			attribute.Int("window.days", windowDays),
		),
	)
	defer span.End()

	logs, err := s.workoutRepo.ListRecent(ctx, userID, domain.MaxHistoryRecords)
	if err != nil {
		return nil, err
	}

	signals := AggregateSignals(logs, windowDays)
	span.SetAttributes(
		attribute.Int("signals.sessions", signals.Volume.Sessions),
		attribute.String("signals.period_to", signals.Period.To),
	)
	return signals, nil
}

func (s *signalsService) GetContext(ctx context.Context, userID uuid.UUID, windowDays int) (*domain.TrainingContext, error) {
	if windowDays <= 0 {
		windowDays = domain.DefaultWindowDays
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	signals, err := s.GetSignals(ctx, userID, windowDays)
	if err != nil {
		return nil, err
	}

	// GeneratedAt mirrors the window anchor, never wall-clock time: repeated
	// calls over unchanged data must produce an identical context.
	return &domain.TrainingContext{
		GeneratedAt: signals.Period.To,
		WindowDays:  windowDays,
		Signals:     *signals,
		Profile:     user.ToProfile(),
	}, nil
}

// sessionData holds the defaulted summary of a single workout record.
type sessionData struct {
	occurredAt  time.Time
	sourceID    string
	distanceKm  float64
	durationMin float64
	zoneSeconds [5]int
	load        float64
}

// extractSessionData normalizes one record, defaulting malformed numbers to
// zero. Returns false when the record carries neither a usable distance nor a
// usable duration and should be discarded.
func extractSessionData(log domain.WorkoutLog) (sessionData, bool) {
	distance := log.DistanceMeters
	if math.IsNaN(distance) || math.IsInf(distance, 0) || distance < 0 {
		distance = 0
	}
	duration := log.DurationSeconds
	if duration < 0 {
		duration = 0
	}
	if distance == 0 && duration == 0 {
		return sessionData{}, false
	}

	load := log.LoadScalar
	if math.IsNaN(load) || math.IsInf(load, 0) || load < 0 {
		load = 0
	}

	data := sessionData{
		occurredAt:  log.OccurredAt(),
		sourceID:    log.ID.String(),
		distanceKm:  distance / 1000.0,
		durationMin: float64(duration) / 60.0,
		load:        load,
	}
	for i, z := range [5]int{log.Zone1Seconds, log.Zone2Seconds, log.Zone3Seconds, log.Zone4Seconds, log.Zone5Seconds} {
		if z > 0 {
			data.zoneSeconds[i] = z
		}
	}
	return data, true
}

// AggregateSignals reduces a bounded, newest-first workout history into a
// signals snapshot. The window is anchored at the latest observed instant, or
// the Unix epoch when there is no usable history, so output never depends on
// when the call happens.
func AggregateSignals(logs []domain.WorkoutLog, windowDays int) *domain.TrainingSignals {
	var valid []sessionData
	for _, log := range logs {
		if data, ok := extractSessionData(log); ok {
			valid = append(valid, data)
		}
	}

	anchor := time.Unix(0, 0).UTC()
	for _, d := range valid {
		if d.occurredAt.After(anchor) {
			anchor = d.occurredAt
		}
	}
	from := anchor.AddDate(0, 0, -windowDays)

	var inWindow []sessionData
	for _, d := range valid {
		if !d.occurredAt.Before(from) && !d.occurredAt.After(anchor) {
			inWindow = append(inWindow, d)
		}
	}

	signals := &domain.TrainingSignals{
		Period: domain.Period{
			From: domain.FormatInstant(from),
			To:   domain.FormatInstant(anchor),
		},
	}

	weeklyFrom := anchor.AddDate(0, 0, -7)
	var weeklyLoad, rollingLoad float64
	var longRun *sessionData

	for i := range inWindow {
		d := inWindow[i]

		signals.Volume.DistanceKm += d.distanceKm
		signals.Volume.DurationMin += d.durationMin
		signals.Volume.Sessions++

		signals.Intensity.Zone1Seconds += d.zoneSeconds[0]
		signals.Intensity.Zone2Seconds += d.zoneSeconds[1]
		signals.Intensity.Zone3Seconds += d.zoneSeconds[2]
		signals.Intensity.Zone4Seconds += d.zoneSeconds[3]
		signals.Intensity.Zone5Seconds += d.zoneSeconds[4]

		rollingLoad += d.load
		// Trailing week is strictly after anchor-7d
		if d.occurredAt.After(weeklyFrom) {
			weeklyLoad += d.load
		}

		// Longest by distance; ties broken by the later instant so the result
		// does not depend on input ordering
		if longRun == nil ||
			d.distanceKm > longRun.distanceKm ||
			(d.distanceKm == longRun.distanceKm && d.occurredAt.After(longRun.occurredAt)) {
			longRun = &inWindow[i]
		}
	}

	signals.Intensity.TotalSeconds = signals.Intensity.Zone1Seconds +
		signals.Intensity.Zone2Seconds +
		signals.Intensity.Zone3Seconds +
		signals.Intensity.Zone4Seconds +
		signals.Intensity.Zone5Seconds

	if longRun != nil && longRun.distanceKm > 0 {
		signals.LongRun = domain.LongRun{
			Exists:      true,
			DistanceKm:  round2(longRun.distanceKm),
			DurationMin: round0(longRun.durationMin),
			SourceID:    longRun.sourceID,
			OccurredAt:  domain.FormatInstant(longRun.occurredAt),
		}
	}

	signals.Load.WeeklyLoad = round2(weeklyLoad)
	signals.Load.Rolling4wLoad = round2(rollingLoad)

	weeks := float64(windowDays) / 7.0
	if weeks > 0 {
		signals.Consistency.SessionsPerWeek = round1(float64(signals.Volume.Sessions) / weeks)
	}
	signals.Consistency.StreakWeeks = weekStreak(inWindow, anchor)

	signals.Flags = deriveRiskFlags(weeklyLoad, rollingLoad)

	signals.Volume.DistanceKm = round2(signals.Volume.DistanceKm)
	signals.Volume.DurationMin = round0(signals.Volume.DurationMin)

	return signals
}

// weekStreak counts consecutive ISO weeks with at least one session, walking
// backward from the Monday-anchored week containing the anchor.
func weekStreak(sessions []sessionData, anchor time.Time) int {
	if len(sessions) == 0 {
		return 0
	}

	counts := make(map[time.Time]int)
	for _, d := range sessions {
		counts[isoWeekStart(d.occurredAt)]++
	}

	streak := 0
	week := isoWeekStart(anchor)
	for streak < StreakCapWeeks {
		if counts[week] == 0 {
			break
		}
		streak++
		week = week.AddDate(0, 0, -7)
	}
	return streak
}

// isoWeekStart returns the Monday 00:00:00 UTC of the ISO week containing t.
func isoWeekStart(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7 // Monday=0 .. Sunday=6
	return day.AddDate(0, 0, -offset)
}

// deriveRiskFlags computes fatigue and injury-risk flags from the acute:chronic
// load ratio. Both stay false without a meaningful chronic baseline.
func deriveRiskFlags(weeklyLoad, rollingLoad float64) domain.RiskFlags {
	if rollingLoad <= 0 {
		return domain.RiskFlags{}
	}
	chronicWeekly := rollingLoad / 4.0
	ratio := weeklyLoad / chronicWeekly
	return domain.RiskFlags{
		Fatigue:    ratio > FatigueLoadRatio,
		InjuryRisk: ratio > InjuryRiskLoadRatio,
	}
}

// Fixed rounding keeps repeated aggregations byte-identical downstream.

func round0(v float64) float64 {
	return math.Round(v)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
