package analysis

import "fmt"

// FilterDetections partitions raw detections into accepted and rejected
// using two independent gates: the camera framing tag must equal the single
// accepted category, and the confidence score must meet the threshold.
// Source order is preserved; rejected items carry a rejection reason.
func FilterDetections(detections []Detection, acceptedAngle string, minConfidence int) (accepted, rejected []Detection) {
	for _, d := range detections {
		if d.CameraAngle != acceptedAngle {
			d.RejectionReason = fmt.Sprintf("wrong camera angle: %s", d.CameraAngle)
			rejected = append(rejected, d)
			continue
		}
		if d.ConfidenceScore < minConfidence {
			d.RejectionReason = fmt.Sprintf("low confidence: %d < %d", d.ConfidenceScore, minConfidence)
			rejected = append(rejected, d)
			continue
		}
		accepted = append(accepted, d)
	}
	return accepted, rejected
}
