package analysis

import "testing"

func TestMergeSegmentDetections(t *testing.T) {
	results := []SegmentDetections{
		{
			Segment: Segment{Index: 0, Start: 0, Duration: 300},
			Detections: []Detection{
				{StartTime: 250, EndTime: 260},
				{StartTime: 10, EndTime: 20},
			},
		},
		{
			Segment: Segment{Index: 1, Start: 300, Duration: 300},
			Detections: []Detection{
				{StartTime: 5, EndTime: 15},
			},
		},
		{
			Segment: Segment{Index: 2, Start: 600, Duration: 120},
		},
	}

	merged := MergeSegmentDetections(results)
	if len(merged) != 3 {
		t.Fatalf("got %d detections, want 3", len(merged))
	}

	// Segment-local times shifted to source-relative, sorted ascending.
	wantStarts := []float64{10, 250, 305}
	wantEnds := []float64{20, 260, 315}
	for i, d := range merged {
		if d.StartTime != wantStarts[i] || d.EndTime != wantEnds[i] {
			t.Errorf("merged[%d] = [%v, %v], want [%v, %v]",
				i, d.StartTime, d.EndTime, wantStarts[i], wantEnds[i])
		}
	}
}

func TestMergeSegmentDetectionsEmpty(t *testing.T) {
	if got := MergeSegmentDetections(nil); len(got) != 0 {
		t.Errorf("got %d detections, want 0", len(got))
	}
	if got := MergeSegmentDetections([]SegmentDetections{{Segment: Segment{Index: 0}}}); len(got) != 0 {
		t.Errorf("got %d detections from empty segment, want 0", len(got))
	}
}
