package analysis

import "time"

// ──────────────────── Detections ────────────────────

type VerificationStatus string

const (
	VerificationUnverified VerificationStatus = "unverified"
	VerificationVerified   VerificationStatus = "verified"
	VerificationRejected   VerificationStatus = "rejected"
	VerificationSkipped    VerificationStatus = "skipped"
)

// Detection is a candidate matched interval. Timestamps are segment-local
// until merged, then relative to the original source.
type Detection struct {
	StartTime          float64            `json:"start_time"`
	EndTime            float64            `json:"end_time"`
	ConfidenceScore    int                `json:"confidence_score"`
	CameraAngle        string             `json:"camera_angle"`
	PlayDescription    string             `json:"play_description"`
	PlayerJersey       string             `json:"player_jersey"`
	ActionType         string             `json:"action_type"`
	Reasoning          string             `json:"reasoning,omitempty"`
	VerificationStatus VerificationStatus `json:"verification_status,omitempty"`
	RejectionReason    string             `json:"rejection_reason,omitempty"`
}

// VerificationOutcome is the response schema of the second-stage check.
// It is consumed immediately to update a Detection and never persisted.
type VerificationOutcome struct {
	CameraAngleVerified   bool    `json:"camera_angle_verified"`
	CameraAngleReasoning  string  `json:"camera_angle_reasoning"`
	CompletePlayVerified  bool    `json:"complete_play_verified"`
	CompletePlayReasoning string  `json:"complete_play_reasoning"`
	PlayerVerified        bool    `json:"player_verified"`
	PlayerReasoning       string  `json:"player_reasoning"`
	ActionVerified        bool    `json:"action_verified"`
	ActionReasoning       string  `json:"action_reasoning"`
	AllCriteriaMet        bool    `json:"all_criteria_met"`
	OverallConfidence     float64 `json:"overall_confidence"`
	Recommendation        string  `json:"recommendation"`
	RejectionReason       *string `json:"rejection_reason"`
}

const (
	RecommendKeep   = "KEEP"
	RecommendReject = "REJECT"
)

// ──────────────────── Segments ────────────────────

// Segment is a contiguous sub-range of the source cut out for upload-size
// compliance. Start is relative to the source; segments tile [0, duration)
// exactly with no gap or overlap.
type Segment struct {
	Index    int
	Start    float64
	Duration float64
	Path     string
}

func (s Segment) End() float64 { return s.Start + s.Duration }

// ──────────────────── Progress ────────────────────

// ProgressFunc receives a fraction in [0,1] and a human-readable stage label.
type ProgressFunc func(fraction float64, message string)

// progressReporter guarantees the monotonically non-decreasing contract
// regardless of how pipeline stages interleave their reports.
type progressReporter struct {
	fn   ProgressFunc
	last float64
}

func (p *progressReporter) report(fraction float64, message string) {
	if p == nil || p.fn == nil {
		return
	}
	if fraction < p.last {
		fraction = p.last
	}
	if fraction > 1 {
		fraction = 1
	}
	p.last = fraction
	p.fn(fraction, message)
}

// scoped returns a reporter that maps [0,1] into [lo,hi] of the parent.
func (p *progressReporter) scoped(lo, hi float64) ProgressFunc {
	return func(fraction float64, message string) {
		p.report(lo+fraction*(hi-lo), message)
	}
}

// ──────────────────── Config ────────────────────

// Config holds the tunables of a pipeline run. Read-only after construction.
type Config struct {
	// Upload size compliance.
	MaxUploadBytes     int64
	TargetSegmentBytes int64
	MinSegmentSeconds  float64
	MaxSegmentSeconds  float64

	// Remote readiness polling and rate-limit backoff.
	PollInterval   time.Duration
	MaxRetries     int
	RetryBaseDelay time.Duration
	RetryMaxDelay  time.Duration

	// Accept/reject gates.
	MinConfidence int
	AcceptedAngle string
	Verify        bool

	// Clip extraction.
	DefaultPadding float64
	MaxPadding     float64

	// Base directory for per-run temp workspaces. Empty means os.TempDir.
	WorkDir string
}

// DefaultConfig mirrors the limits of the Gemini file API: 1.8GB hard cap
// with a 1.5GB per-segment target to leave margin for uneven bitrate.
func DefaultConfig() Config {
	return Config{
		MaxUploadBytes:     1800 * 1024 * 1024,
		TargetSegmentBytes: 1500 * 1024 * 1024,
		MinSegmentSeconds:  60,
		MaxSegmentSeconds:  600,
		PollInterval:       3 * time.Second,
		MaxRetries:         5,
		RetryBaseDelay:     30 * time.Second,
		RetryMaxDelay:      120 * time.Second,
		MinConfidence:      70,
		AcceptedAngle:      "sideline",
		Verify:             true,
		DefaultPadding:     2.0,
		MaxPadding:         10.0,
	}
}

// ClampPadding restricts a requested padding to the configured [0, MaxPadding]
// range, substituting the default when the value is negative.
func (c Config) ClampPadding(padding float64) float64 {
	if padding < 0 {
		padding = c.DefaultPadding
	}
	if padding > c.MaxPadding {
		padding = c.MaxPadding
	}
	return padding
}
