package analysis

import "sort"

// SegmentDetections pairs a segment with the detections that survived its
// per-segment filtering and verification, still in segment-local time.
type SegmentDetections struct {
	Segment    Segment
	Detections []Detection
}

// MergeSegmentDetections shifts each segment's detections by the segment's
// source-relative start offset, concatenates them all and sorts ascending
// by start time. No de-duplication is attempted across boundaries.
func MergeSegmentDetections(results []SegmentDetections) []Detection {
	var merged []Detection
	for _, r := range results {
		for _, d := range r.Detections {
			d.StartTime += r.Segment.Start
			d.EndTime += r.Segment.Start
			merged = append(merged, d)
		}
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].StartTime < merged[j].StartTime
	})
	return merged
}
