// Package clipper cuts padded, clamped intervals out of a source video and
// joins them into a single output file using stream-copy semantics.
package clipper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// ErrNoValidClips means the interval list was empty or every interval
// degenerated after padding and clamping.
var ErrNoValidClips = errors.New("no valid clips to extract")

// Span is a source-relative interval in seconds.
type Span struct {
	Start float64
	End   float64
}

// Plan is a span expanded by padding and clamped to the source bounds.
type Plan struct {
	Start    float64
	Duration float64
}

// ProgressFunc receives a fraction in [0,1] and a stage label.
type ProgressFunc func(fraction float64, message string)

// BuildPlans expands each span by padding seconds on both sides, clamps the
// result to [0, sourceDuration] and drops degenerate intervals. Input order
// is preserved.
func BuildPlans(spans []Span, padding, sourceDuration float64) []Plan {
	plans := make([]Plan, 0, len(spans))
	for _, s := range spans {
		start := s.Start - padding
		if start < 0 {
			start = 0
		}
		end := s.End + padding
		if end > sourceDuration {
			end = sourceDuration
		}
		if end-start <= 0 {
			continue
		}
		plans = append(plans, Plan{Start: start, Duration: end - start})
	}
	return plans
}

// Cutter is the media tool surface the extractor needs: lossless cuts and
// lossless concatenation of clips sharing codec parameters.
type Cutter interface {
	CutCopy(ctx context.Context, input string, startSec, durationSec float64, output string) error
	ConcatCopy(ctx context.Context, clips []string, output string) error
}

type Extractor struct {
	cutter  Cutter
	workDir string
	log     *logrus.Entry
}

// NewExtractor creates an extractor whose temp clip directories live under
// workDir (os.TempDir when empty).
func NewExtractor(cutter Cutter, workDir string, log *logrus.Logger) *Extractor {
	return &Extractor{cutter: cutter, workDir: workDir, log: log.WithField("component", "clipper")}
}

// Extract cuts each padded span from source and writes the joined result to
// outputPath. A single surviving clip is copied directly; multiple clips go
// through the concat demuxer. The temp clip directory is removed on every
// exit path. Cutting is from the original source, so all clips share codec
// parameters and the lossless join is valid.
func (e *Extractor) Extract(ctx context.Context, source string, spans []Span, padding, sourceDuration float64, outputPath string, progress ProgressFunc) error {
	plans := BuildPlans(spans, padding, sourceDuration)
	if len(plans) == 0 {
		return ErrNoValidClips
	}

	dir, err := os.MkdirTemp(e.workDir, "video_clips_")
	if err != nil {
		return fmt.Errorf("create clip workspace: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			e.log.WithError(err).Warn("could not remove clip workspace")
		}
	}()

	clips := make([]string, 0, len(plans))
	for i, plan := range plans {
		if err := ctx.Err(); err != nil {
			return err
		}
		if progress != nil {
			progress(float64(i)/float64(len(plans))*0.8, fmt.Sprintf("Extracting clip %d/%d...", i+1, len(plans)))
		}

		clipPath := filepath.Join(dir, fmt.Sprintf("clip_%04d.mp4", i))
		if err := e.cutter.CutCopy(ctx, source, plan.Start, plan.Duration, clipPath); err != nil {
			return fmt.Errorf("cut clip %d: %w", i, err)
		}
		clips = append(clips, clipPath)
	}

	if progress != nil {
		progress(0.85, "Concatenating clips...")
	}
	if len(clips) == 1 {
		if err := copyFile(clips[0], outputPath); err != nil {
			return fmt.Errorf("copy clip: %w", err)
		}
	} else {
		if err := e.cutter.ConcatCopy(ctx, clips, outputPath); err != nil {
			return fmt.Errorf("concat clips: %w", err)
		}
	}

	if progress != nil {
		progress(1.0, "Done")
	}
	e.log.WithFields(logrus.Fields{"clips": len(clips), "output": outputPath}).Info("extraction complete")
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}
