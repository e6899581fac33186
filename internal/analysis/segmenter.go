package analysis

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// SegmentDuration estimates how long a chunk can run while staying within
// the byte budget, assuming roughly uniform bitrate, bounded to
// [minSec, maxSec] so segments are neither dominated by per-call overhead
// nor large enough to defeat the budget when bitrate is uneven.
func SegmentDuration(sizeBytes, targetBytes int64, durationSec, minSec, maxSec float64) float64 {
	d := (float64(targetBytes) / float64(sizeBytes)) * durationSec
	if d < minSec {
		d = minSec
	}
	if d > maxSec {
		d = maxSec
	}
	return d
}

// PlanSegments walks the source from t=0 in steps of segmentSec. The final
// step absorbs the remainder, so the plan tiles [0, totalSec) exactly.
func PlanSegments(totalSec, segmentSec float64) []Segment {
	var plan []Segment
	for start := 0.0; start < totalSec; start += segmentSec {
		end := start + segmentSec
		if end > totalSec {
			end = totalSec
		}
		plan = append(plan, Segment{
			Index:    len(plan),
			Start:    start,
			Duration: end - start,
		})
	}
	return plan
}

// Segmenter materialises planned segments as stream-copied files.
type Segmenter struct {
	cutter Cutter
	log    *logrus.Entry
}

func NewSegmenter(cutter Cutter, log *logrus.Entry) *Segmenter {
	return &Segmenter{cutter: cutter, log: log}
}

// Split cuts the source into files under dir following the plan for
// segmentSec. Cancellation is checked before each segment; on cancellation
// the caller removes any partially produced files along with dir.
func (s *Segmenter) Split(ctx context.Context, source string, totalSec, segmentSec float64, dir string, progress ProgressFunc) ([]Segment, error) {
	plan := PlanSegments(totalSec, segmentSec)

	for i := range plan {
		if err := checkCancelled(ctx); err != nil {
			return nil, err
		}

		seg := &plan[i]
		seg.Path = filepath.Join(dir, fmt.Sprintf("segment_%03d.mp4", seg.Index))

		if progress != nil {
			progress(seg.Start/totalSec, fmt.Sprintf("Splitting video: segment %d of %d...", seg.Index+1, len(plan)))
		}
		s.log.WithFields(logrus.Fields{
			"segment": seg.Index,
			"start":   fmt.Sprintf("%.1f", seg.Start),
			"end":     fmt.Sprintf("%.1f", seg.End()),
		}).Info("cutting segment")

		if err := s.cutter.CutCopy(ctx, source, seg.Start, seg.Duration, seg.Path); err != nil {
			return nil, fmt.Errorf("cut segment %d: %w", seg.Index, err)
		}
	}
	return plan, nil
}
