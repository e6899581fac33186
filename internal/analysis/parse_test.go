package analysis

import "testing"

func TestParseDetections(t *testing.T) {
	valid := `[{"start_time": 12.5, "end_time": 18.0, "confidence_score": 85,
		"camera_angle": "Sideline", "play_description": "sweep left",
		"player_jersey": "22", "action_type": "run"}]`

	tests := []struct {
		name      string
		input     string
		wantOK    bool
		wantCount int
	}{
		{"plain array", valid, true, 1},
		{"json fence", "```json\n" + valid + "\n```", true, 1},
		{"bare fence", "```\n" + valid + "\n```", true, 1},
		{"fence with prose around it", "Here are the plays:\n```json\n" + valid + "\n```\nLet me know!", true, 1},
		{"empty array", `[]`, true, 0},
		{"not json", "I could not find any plays.", false, 0},
		{"object instead of array", `{"start_time": 1}`, false, 0},
		{
			"missing end_time dropped",
			`[{"start_time": 5.0, "confidence_score": 80, "camera_angle": "sideline"}]`,
			true, 0,
		},
		{
			"inverted interval dropped",
			`[{"start_time": 20.0, "end_time": 10.0, "confidence_score": 80, "camera_angle": "sideline"}]`,
			true, 0,
		},
		{
			"zero-length interval dropped",
			`[{"start_time": 10.0, "end_time": 10.0, "confidence_score": 80, "camera_angle": "sideline"}]`,
			true, 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseDetections(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("parseDetections() ok = %v, want %v", ok, tt.wantOK)
			}
			if len(got) != tt.wantCount {
				t.Fatalf("got %d detections, want %d", len(got), tt.wantCount)
			}
		})
	}
}

func TestParseDetectionsNormalizesFields(t *testing.T) {
	input := `[{"start_time": 12.5, "end_time": 18.0, "confidence_score": 85.7,
		"camera_angle": " SIDELINE ", "play_description": "sweep left"}]`

	got, ok := parseDetections(input)
	if !ok || len(got) != 1 {
		t.Fatalf("parseDetections() = %v, %v", got, ok)
	}
	d := got[0]
	if d.CameraAngle != "sideline" {
		t.Errorf("CameraAngle = %q, want %q", d.CameraAngle, "sideline")
	}
	if d.ConfidenceScore != 85 {
		t.Errorf("ConfidenceScore = %d, want 85", d.ConfidenceScore)
	}
	if d.VerificationStatus != VerificationUnverified {
		t.Errorf("VerificationStatus = %q, want %q", d.VerificationStatus, VerificationUnverified)
	}
}

func TestParseVerification(t *testing.T) {
	input := "```json\n" + `{
		"camera_angle_verified": true,
		"complete_play_verified": true,
		"player_verified": true,
		"action_verified": true,
		"all_criteria_met": true,
		"overall_confidence": 92,
		"recommendation": "KEEP",
		"rejection_reason": null
	}` + "\n```"

	outcome, ok := parseVerification(input)
	if !ok {
		t.Fatal("parseVerification() failed")
	}
	if outcome.Recommendation != RecommendKeep {
		t.Errorf("Recommendation = %q, want %q", outcome.Recommendation, RecommendKeep)
	}
	if outcome.OverallConfidence != 92 {
		t.Errorf("OverallConfidence = %v, want 92", outcome.OverallConfidence)
	}
	if outcome.RejectionReason != nil {
		t.Errorf("RejectionReason = %v, want nil", *outcome.RejectionReason)
	}

	if _, ok := parseVerification("not json at all"); ok {
		t.Error("parseVerification() accepted garbage")
	}
}
