package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	IsAdmin      bool      `json:"is_admin" db:"is_admin"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type Video struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Filename  string    `json:"filename" db:"filename"`
	Path      string    `json:"path" db:"path"`
	SizeBytes int64     `json:"size_bytes" db:"size_bytes"`
	Duration  float64   `json:"duration" db:"duration"`
	Codec     string    `json:"codec" db:"codec"`
	Width     int       `json:"width" db:"width"`
	Height    int       `json:"height" db:"height"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Analysis struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	VideoID     uuid.UUID  `json:"video_id" db:"video_id"`
	UserID      uuid.UUID  `json:"user_id,omitempty" db:"user_id"`
	Query       string     `json:"query" db:"query"`
	Status      string     `json:"status" db:"status"`
	Progress    int        `json:"progress" db:"progress"`
	Message     string     `json:"message" db:"message"`
	OutputPath  string     `json:"output_path,omitempty" db:"output_path"`
	ClipCount   int        `json:"clip_count" db:"clip_count"`
	Error       string     `json:"error,omitempty" db:"error"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

type DetectionRecord struct {
	ID              uuid.UUID `json:"id" db:"id"`
	AnalysisID      uuid.UUID `json:"analysis_id" db:"analysis_id"`
	StartTime       float64   `json:"start_time" db:"start_time"`
	EndTime         float64   `json:"end_time" db:"end_time"`
	Confidence      int       `json:"confidence" db:"confidence"`
	CameraAngle     string    `json:"camera_angle" db:"camera_angle"`
	Description     string    `json:"description" db:"description"`
	PlayerJersey    string    `json:"player_jersey" db:"player_jersey"`
	ActionType      string    `json:"action_type" db:"action_type"`
	Verification    string    `json:"verification" db:"verification"`
	RejectionReason string    `json:"rejection_reason,omitempty" db:"rejection_reason"`
}

type Setting struct {
	Key   string `json:"key" db:"key"`
	Value string `json:"value" db:"value"`
}
