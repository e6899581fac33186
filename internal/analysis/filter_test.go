package analysis

import (
	"strings"
	"testing"
)

func TestFilterDetections(t *testing.T) {
	tests := []struct {
		name         string
		detection    Detection
		wantAccepted bool
		wantReason   string
	}{
		{
			name:         "sideline at threshold",
			detection:    Detection{CameraAngle: "sideline", ConfidenceScore: 70},
			wantAccepted: true,
		},
		{
			name:         "sideline above threshold",
			detection:    Detection{CameraAngle: "sideline", ConfidenceScore: 95},
			wantAccepted: true,
		},
		{
			name:       "one below threshold",
			detection:  Detection{CameraAngle: "sideline", ConfidenceScore: 69},
			wantReason: "low confidence",
		},
		{
			name:       "wrong angle",
			detection:  Detection{CameraAngle: "endzone", ConfidenceScore: 95},
			wantReason: "wrong camera angle",
		},
		{
			name:       "angle gate reported before confidence",
			detection:  Detection{CameraAngle: "endzone", ConfidenceScore: 10},
			wantReason: "wrong camera angle",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accepted, rejected := FilterDetections([]Detection{tt.detection}, "sideline", 70)
			if tt.wantAccepted {
				if len(accepted) != 1 || len(rejected) != 0 {
					t.Fatalf("got %d accepted, %d rejected, want 1 accepted", len(accepted), len(rejected))
				}
				return
			}
			if len(rejected) != 1 || len(accepted) != 0 {
				t.Fatalf("got %d accepted, %d rejected, want 1 rejected", len(accepted), len(rejected))
			}
			if !strings.Contains(rejected[0].RejectionReason, tt.wantReason) {
				t.Errorf("rejection reason %q does not contain %q", rejected[0].RejectionReason, tt.wantReason)
			}
		})
	}
}

func TestFilterDetectionsOrderAndIdempotence(t *testing.T) {
	input := []Detection{
		{StartTime: 30, CameraAngle: "sideline", ConfidenceScore: 80},
		{StartTime: 10, CameraAngle: "sideline", ConfidenceScore: 75},
		{StartTime: 20, CameraAngle: "endzone", ConfidenceScore: 90},
		{StartTime: 40, CameraAngle: "sideline", ConfidenceScore: 71},
	}

	accepted, rejected := FilterDetections(input, "sideline", 70)
	if len(accepted) != 3 || len(rejected) != 1 {
		t.Fatalf("got %d accepted, %d rejected, want 3/1", len(accepted), len(rejected))
	}

	// Source order preserved, not resorted.
	wantStarts := []float64{30, 10, 40}
	for i, d := range accepted {
		if d.StartTime != wantStarts[i] {
			t.Errorf("accepted[%d].StartTime = %v, want %v", i, d.StartTime, wantStarts[i])
		}
	}

	// Filtering accepted output again changes nothing.
	again, none := FilterDetections(accepted, "sideline", 70)
	if len(again) != len(accepted) || len(none) != 0 {
		t.Errorf("second pass: got %d accepted, %d rejected, want %d/0", len(again), len(none), len(accepted))
	}
}
