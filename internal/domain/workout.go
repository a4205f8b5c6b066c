package domain

import (
	"time"

	"github.com/google/uuid"
)

// WorkoutLog is a single recorded running session. Summary fields are optional:
// upstream file parsing (TCX/FIT) may fail partially, and a record with a missing
// distance or duration is still kept and defaulted at aggregation time.
type WorkoutLog struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index:idx_workout_logs_user_occurred" json:"user_id"`
	// StartedAt is the recorded session start, when the source file carried one.
	StartedAt       *time.Time `gorm:"index:idx_workout_logs_user_occurred,sort:desc" json:"started_at,omitempty"`
	DistanceMeters  float64    `gorm:"not null;default:0" json:"distance_meters"`
	DurationSeconds int        `gorm:"not null;default:0" json:"duration_seconds"`
	Zone1Seconds    int        `gorm:"not null;default:0" json:"zone1_seconds"`
	Zone2Seconds    int        `gorm:"not null;default:0" json:"zone2_seconds"`
	Zone3Seconds    int        `gorm:"not null;default:0" json:"zone3_seconds"`
	Zone4Seconds    int        `gorm:"not null;default:0" json:"zone4_seconds"`
	Zone5Seconds    int        `gorm:"not null;default:0" json:"zone5_seconds"`
	// LoadScalar is the per-session training load supplied by the ingest pipeline.
	LoadScalar      float64   `gorm:"not null;default:0" json:"load_scalar"`
	ClientRequestID *string   `gorm:"type:varchar(255);uniqueIndex:idx_user_client_request,where:client_request_id IS NOT NULL" json:"client_request_id,omitempty"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Associations
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (WorkoutLog) TableName() string {
	return "workout_logs"
}

// OccurredAt returns the authoritative instant of the session: the recorded start
// time when present, otherwise the record creation time. Every window computation
// keys off this value, so the fallback must stay in this one place.
func (w *WorkoutLog) OccurredAt() time.Time {
	if w.StartedAt != nil {
		return *w.StartedAt
	}
	return w.CreatedAt
}

// CreateWorkoutLogRequest is the request body for recording a workout.
// @Description Request payload for recording a running session.
type CreateWorkoutLogRequest struct {
	// Session start time in RFC3339 format (UTC recommended); omitted when the source file had none
	StartedAt *time.Time `json:"started_at,omitempty" example:"2024-01-15T06:30:00Z"`
	// Distance covered in meters
	DistanceMeters float64 `json:"distance_meters" validate:"omitempty,min=0,max=500000" example:"10000"`
	// Moving time in seconds
	DurationSeconds int `json:"duration_seconds" validate:"omitempty,min=0,max=86400" example:"3600"`
	// Optional time-in-zone seconds, Z1..Z5
	Zone1Seconds int `json:"zone1_seconds" validate:"omitempty,min=0" example:"600"`
	Zone2Seconds int `json:"zone2_seconds" validate:"omitempty,min=0" example:"2400"`
	Zone3Seconds int `json:"zone3_seconds" validate:"omitempty,min=0" example:"600"`
	Zone4Seconds int `json:"zone4_seconds" validate:"omitempty,min=0" example:"0"`
	Zone5Seconds int `json:"zone5_seconds" validate:"omitempty,min=0" example:"0"`
	// Training load scalar computed by the ingest pipeline
	LoadScalar float64 `json:"load_scalar" validate:"omitempty,min=0,max=1000" example:"55.5"`
	// Optional client-generated ID for idempotent requests (max 255 chars)
	ClientRequestID *string `json:"client_request_id,omitempty" validate:"omitempty,max=255" example:"client-uuid-12345"`
}

// WorkoutLogResponse is the response body for workout log endpoints.
// @Description Recorded running session.
type WorkoutLogResponse struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`
	// Recorded start time, if any
	StartedAt *time.Time `json:"started_at,omitempty"`
	// Authoritative instant (started_at, else created_at)
	OccurredAt      time.Time `json:"occurred_at"`
	DistanceMeters  float64   `json:"distance_meters"`
	DurationSeconds int       `json:"duration_seconds"`
	Zone1Seconds    int       `json:"zone1_seconds"`
	Zone2Seconds    int       `json:"zone2_seconds"`
	Zone3Seconds    int       `json:"zone3_seconds"`
	Zone4Seconds    int       `json:"zone4_seconds"`
	Zone5Seconds    int       `json:"zone5_seconds"`
	LoadScalar      float64   `json:"load_scalar"`
	ClientRequestID *string   `json:"client_request_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

func (w *WorkoutLog) ToResponse() WorkoutLogResponse {
	return WorkoutLogResponse{
		ID:              w.ID,
		UserID:          w.UserID,
		StartedAt:       w.StartedAt,
		OccurredAt:      w.OccurredAt(),
		DistanceMeters:  w.DistanceMeters,
		DurationSeconds: w.DurationSeconds,
		Zone1Seconds:    w.Zone1Seconds,
		Zone2Seconds:    w.Zone2Seconds,
		Zone3Seconds:    w.Zone3Seconds,
		Zone4Seconds:    w.Zone4Seconds,
		Zone5Seconds:    w.Zone5Seconds,
		LoadScalar:      w.LoadScalar,
		ClientRequestID: w.ClientRequestID,
		CreatedAt:       w.CreatedAt,
	}
}

// WorkoutLogListResponse is the response body for listing workout logs.
// @Description Paginated list of workout logs.
type WorkoutLogListResponse struct {
	// Array of workout records
	Data []WorkoutLogResponse `json:"data"`
	// Pagination metadata
	Pagination PaginationResponse `json:"pagination"`
}

// PaginationResponse contains pagination metadata.
// @Description Cursor-based pagination info.
type PaginationResponse struct {
	// Cursor for fetching the next page (empty if no more pages)
	NextCursor string `json:"next_cursor,omitempty"`
	// True if more results are available
	HasMore bool `json:"has_more" example:"true"`
}

// WorkoutLogFilter contains filter parameters for listing workout logs
type WorkoutLogFilter struct {
	From   *time.Time
	To     *time.Time
	Limit  int
	Cursor string
}
