package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/runcoach/training-planner/internal/domain"
	"gorm.io/gorm"
)

const seededDays = 40

// Run seeds the database with sample users and workout logs. Safe to call multiple times.
func Run(db *gorm.DB) error {
	if err := db.AutoMigrate(&domain.User{}, &domain.WorkoutLog{}); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}

	users := []domain.User{
		{
			ID:          uuid.MustParse("11111111-1111-1111-1111-111111111111"),
			Timezone:    "Europe/Amsterdam",
			RunningDays: []string{"monday", "wednesday", "saturday", "sunday"},
		},
		{
			ID:          uuid.MustParse("22222222-2222-2222-2222-222222222222"),
			Timezone:    "America/New_York",
			RunningDays: []string{"tuesday", "thursday", "sunday"},
			Surfaces:    domain.SurfacePreferences{AvoidAsphalt: true},
		},
		{
			ID:          uuid.MustParse("33333333-3333-3333-3333-333333333333"),
			Timezone:    "Asia/Tokyo",
			RunningDays: []string{"monday", "wednesday", "friday"},
			Surfaces:    domain.SurfacePreferences{AvoidTrail: true},
		},
		{
			ID:          uuid.MustParse("44444444-4444-4444-4444-444444444444"),
			Timezone:    "Australia/Sydney",
			RunningDays: []string{"saturday", "sunday"},
		},
	}

	for _, user := range users {
		if err := db.Where("id = ?", user.ID).FirstOrCreate(&user).Error; err != nil {
			return fmt.Errorf("failed to create user %s: %w", user.ID, err)
		}
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	for _, user := range users {
		if err := seedWorkoutsForUser(db, user, rng); err != nil {
			return err
		}
	}

	log.Println("Seed completed")
	return nil
}

func seedWorkoutsForUser(db *gorm.DB, user domain.User, rng *rand.Rand) error {
	now := time.Now().UTC()
	for i := 0; i < seededDays; i++ {
		// Roughly every other day is a running day
		if rng.Float32() < 0.45 {
			continue
		}

		date := now.AddDate(0, 0, -i)
		startedAt := time.Date(date.Year(), date.Month(), date.Day(), 6+rng.Intn(3), rng.Intn(60), 0, 0, time.UTC)

		durationSec := (30 + rng.Intn(70)) * 60
		distanceM := float64(durationSec) / 60.0 * (140 + rng.Float64()*60) // 140-200 m/min pace
		easySec := int(float64(durationSec) * (0.6 + rng.Float64()*0.3))

		clientReqID := fmt.Sprintf("seed-run-%s-%d", user.ID, i)
		workout := domain.WorkoutLog{
			UserID:          user.ID,
			StartedAt:       &startedAt,
			DistanceMeters:  distanceM,
			DurationSeconds: durationSec,
			Zone1Seconds:    easySec / 2,
			Zone2Seconds:    easySec / 2,
			Zone3Seconds:    durationSec - easySec,
			LoadScalar:      float64(durationSec) / 60.0 * (0.8 + rng.Float64()*0.6),
			ClientRequestID: &clientReqID,
		}

		if err := db.Where("client_request_id = ?", clientReqID).FirstOrCreate(&workout).Error; err != nil {
			return fmt.Errorf("failed to create workout log: %w", err)
		}
	}
	return nil
}
