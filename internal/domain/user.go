package domain

import (
	"time"

	"github.com/google/uuid"
)

// Surface represents a running surface.
// @Description Running surface: asphalt, trail, or track.
type Surface string

const (
	SurfaceAsphalt Surface = "asphalt"
	SurfaceTrail   Surface = "trail"
	SurfaceTrack   Surface = "track"
)

// SurfacePreferences captures which surfaces the runner wants to avoid.
// @Description Surfaces the runner prefers to avoid.
type SurfacePreferences struct {
	// Avoid asphalt/road running where possible
	AvoidAsphalt bool `json:"avoid_asphalt" example:"false"`
	// Avoid trail running where possible
	AvoidTrail bool `json:"avoid_trail" example:"false"`
}

// ShoePreferences captures shoe rotation constraints.
// @Description Shoe rotation preferences.
type ShoePreferences struct {
	// Preferred shoe for easy mileage
	EasyShoe string `json:"easy_shoe,omitempty" example:"daily trainer"`
	// Preferred shoe for quality sessions
	QualityShoe string `json:"quality_shoe,omitempty" example:"tempo shoe"`
}

// HeartRateZones holds optional per-zone upper bounds in bpm, Z1..Z5.
// @Description Heart-rate zone upper bounds in bpm (Z1..Z5).
type HeartRateZones struct {
	Z1Max int `json:"z1_max,omitempty" example:"130"`
	Z2Max int `json:"z2_max,omitempty" example:"145"`
	Z3Max int `json:"z3_max,omitempty" example:"160"`
	Z4Max int `json:"z4_max,omitempty" example:"172"`
	Z5Max int `json:"z5_max,omitempty" example:"188"`
}

// Profile is the standing constraint data used when assembling a training context.
// It is read-only input to the planning pipeline.
// @Description Runner profile: timezone, running days, and preferences.
type Profile struct {
	// IANA timezone for local display
	Timezone string `json:"timezone" example:"Europe/Prague"`
	// Weekdays the runner trains on, lowercase English names
	RunningDays []string `json:"running_days" example:"monday,wednesday,saturday,sunday"`
	// Surface avoidance preferences
	Surfaces SurfacePreferences `json:"surfaces"`
	// Shoe rotation preferences
	Shoes ShoePreferences `json:"shoes"`
	// Optional heart-rate zone bounds
	HeartRateZones *HeartRateZones `json:"heart_rate_zones,omitempty"`
}

type User struct {
	ID          uuid.UUID          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Timezone    string             `gorm:"type:varchar(64);not null;default:'UTC'" json:"timezone"`
	RunningDays []string           `gorm:"serializer:json" json:"running_days"`
	Surfaces    SurfacePreferences `gorm:"serializer:json" json:"surfaces"`
	Shoes       ShoePreferences    `gorm:"serializer:json" json:"shoes"`
	HRZones     *HeartRateZones    `gorm:"serializer:json" json:"heart_rate_zones,omitempty"`
	CreatedAt   time.Time          `gorm:"autoCreateTime" json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

// ToProfile projects the user record onto the immutable Profile consumed by the
// planning pipeline.
func (u *User) ToProfile() Profile {
	days := make([]string, len(u.RunningDays))
	copy(days, u.RunningDays)
	return Profile{
		Timezone:       u.Timezone,
		RunningDays:    days,
		Surfaces:       u.Surfaces,
		Shoes:          u.Shoes,
		HeartRateZones: u.HRZones,
	}
}

// CreateUserRequest is the request body for creating a user
type CreateUserRequest struct {
	Timezone    string             `json:"timezone" validate:"required,timezone"`
	RunningDays []string           `json:"running_days" validate:"omitempty,max=7,dive,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	Surfaces    SurfacePreferences `json:"surfaces"`
	Shoes       ShoePreferences    `json:"shoes"`
	HRZones     *HeartRateZones    `json:"heart_rate_zones,omitempty"`
}

// UpdateProfileRequest is the request body for replacing a user's profile.
type UpdateProfileRequest struct {
	Timezone    string             `json:"timezone" validate:"required,timezone"`
	RunningDays []string           `json:"running_days" validate:"omitempty,max=7,dive,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	Surfaces    SurfacePreferences `json:"surfaces"`
	Shoes       ShoePreferences    `json:"shoes"`
	HRZones     *HeartRateZones    `json:"heart_rate_zones,omitempty"`
}

// UserResponse is the response body for user endpoints
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Profile   Profile   `json:"profile"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Profile:   u.ToProfile(),
		CreatedAt: u.CreatedAt,
	}
}
