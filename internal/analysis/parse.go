package analysis

import (
	"encoding/json"
	"strings"
)

// stripCodeFences unwraps a response the model wrapped in a markdown code
// block, with or without a language tag.
func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, "```json"); idx >= 0 {
		text = text[idx+len("```json"):]
	} else if idx := strings.Index(text, "```"); idx >= 0 {
		text = text[idx+len("```"):]
	} else {
		return text
	}
	if end := strings.Index(text, "```"); end >= 0 {
		text = text[:end]
	}
	return strings.TrimSpace(text)
}

// rawDetection is the loose wire schema. Pointer fields distinguish
// "missing" from zero so malformed objects can be discarded.
type rawDetection struct {
	StartTime       *float64 `json:"start_time"`
	EndTime         *float64 `json:"end_time"`
	ConfidenceScore *float64 `json:"confidence_score"`
	CameraAngle     string   `json:"camera_angle"`
	PlayDescription string   `json:"play_description"`
	PlayerJersey    string   `json:"player_jersey"`
	ActionType      string   `json:"action_type"`
	Reasoning       string   `json:"reasoning"`
}

// parseDetections extracts a detection list from a model response.
// Non-JSON or non-array responses return (nil, false); objects missing the
// required numeric fields or with inverted intervals are dropped. Degraded
// recall is preferred over aborting the run.
func parseDetections(text string) ([]Detection, bool) {
	var raw []rawDetection
	if err := json.Unmarshal([]byte(stripCodeFences(text)), &raw); err != nil {
		return nil, false
	}

	detections := make([]Detection, 0, len(raw))
	for _, r := range raw {
		if r.StartTime == nil || r.EndTime == nil {
			continue
		}
		if *r.EndTime <= *r.StartTime {
			continue
		}
		d := Detection{
			StartTime:          *r.StartTime,
			EndTime:            *r.EndTime,
			CameraAngle:        strings.ToLower(strings.TrimSpace(r.CameraAngle)),
			PlayDescription:    r.PlayDescription,
			PlayerJersey:       r.PlayerJersey,
			ActionType:         r.ActionType,
			Reasoning:          r.Reasoning,
			VerificationStatus: VerificationUnverified,
		}
		if r.ConfidenceScore != nil {
			d.ConfidenceScore = int(*r.ConfidenceScore)
		}
		detections = append(detections, d)
	}
	return detections, true
}

// parseVerification decodes the single-object verification schema.
func parseVerification(text string) (*VerificationOutcome, bool) {
	var outcome VerificationOutcome
	if err := json.Unmarshal([]byte(stripCodeFences(text)), &outcome); err != nil {
		return nil, false
	}
	return &outcome, true
}
