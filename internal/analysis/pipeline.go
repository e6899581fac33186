package analysis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/clipcutter/clipcutter/internal/clipper"
)

// Pipeline drives the full segment-analyze-verify-extract run for one
// source video. A Pipeline is stateless between runs; multiple runs may
// execute concurrently, each with its own context.
type Pipeline struct {
	prober    Prober
	cutter    Cutter
	remote    RemoteClient
	extractor *clipper.Extractor
	cfg       Config
	log       *logrus.Entry
}

func NewPipeline(prober Prober, cutter Cutter, remote RemoteClient, extractor *clipper.Extractor, cfg Config, log *logrus.Logger) *Pipeline {
	return &Pipeline{
		prober:    prober,
		cutter:    cutter,
		remote:    remote,
		extractor: extractor,
		cfg:       cfg,
		log:       log.WithField("component", "pipeline"),
	}
}

// AnalyzeAndExtract locates every moment matching query in the source
// video and writes the concatenated highlight file to outputPath (derived
// from the source when empty). It returns the output path and the merged,
// source-relative detection list. ErrNoMatches is the "nothing found"
// outcome; analysis progress occupies [0, 0.6] of the reported fraction and
// extraction [0.6, 1.0].
func (p *Pipeline) AnalyzeAndExtract(ctx context.Context, videoPath, outputPath, query string, padding float64, progressFn ProgressFunc) (string, []Detection, error) {
	prog := &progressReporter{fn: progressFn}
	padding = p.cfg.ClampPadding(padding)

	prog.report(0.01, "Probing video...")
	duration, size, err := p.prober.DurationAndSize(videoPath)
	if err != nil {
		return "", nil, &ProbeError{Path: videoPath, Err: err}
	}
	p.log.WithFields(logrus.Fields{
		"video":    filepath.Base(videoPath),
		"duration": fmt.Sprintf("%.1fs", duration),
		"size_mb":  size / (1024 * 1024),
		"query":    query,
	}).Info("starting analysis")

	detections, err := p.analyze(ctx, videoPath, duration, size, query, prog)
	if err != nil {
		return "", nil, err
	}
	if len(detections) == 0 {
		prog.report(1.0, "No matching clips found")
		return "", nil, ErrNoMatches
	}

	if outputPath == "" {
		ext := filepath.Ext(videoPath)
		outputPath = strings.TrimSuffix(videoPath, ext) + "_clips" + ext
	}

	prog.report(0.6, fmt.Sprintf("Found %d clips. Extracting...", len(detections)))
	spans := make([]clipper.Span, len(detections))
	for i, d := range detections {
		spans[i] = clipper.Span{Start: d.StartTime, End: d.EndTime}
	}
	extractProg := prog.scoped(0.6, 1.0)
	err = p.extractor.Extract(ctx, videoPath, spans, padding, duration, outputPath, clipper.ProgressFunc(extractProg))
	if err != nil {
		switch {
		case errors.Is(err, clipper.ErrNoValidClips):
			return "", nil, ErrNoMatches
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return "", nil, fmt.Errorf("%w: %v", ErrCancelled, err)
		default:
			return "", nil, fmt.Errorf("extract clips: %w", err)
		}
	}

	prog.report(1.0, fmt.Sprintf("Extracted %d clips", len(detections)))
	return outputPath, detections, nil
}

// analyze runs detection over the whole file, or over size-compliant
// segments when the source exceeds the upload budget.
func (p *Pipeline) analyze(ctx context.Context, videoPath string, duration float64, size int64, query string, prog *progressReporter) ([]Detection, error) {
	if size <= p.cfg.MaxUploadBytes {
		whole := Segment{Index: 0, Start: 0, Duration: duration, Path: videoPath}
		prog.report(0.05, "Uploading video...")
		dets, err := p.analyzeSegment(ctx, whole, query, prog.scoped(0.05, 0.58))
		if err != nil {
			return nil, err
		}
		return MergeSegmentDetections([]SegmentDetections{{Segment: whole, Detections: dets}}), nil
	}

	segmentSec := SegmentDuration(size, p.cfg.TargetSegmentBytes, duration, p.cfg.MinSegmentSeconds, p.cfg.MaxSegmentSeconds)
	p.log.WithFields(logrus.Fields{
		"size_gb":     float64(size) / (1024 * 1024 * 1024),
		"segment_sec": fmt.Sprintf("%.0f", segmentSec),
	}).Info("source exceeds upload budget, segmenting")

	dir, err := os.MkdirTemp(p.cfg.WorkDir, "video_segments_")
	if err != nil {
		return nil, fmt.Errorf("create segment workspace: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			p.log.WithError(err).Warn("could not remove segment workspace")
		}
	}()

	segmenter := NewSegmenter(p.cutter, p.log)
	segments, err := segmenter.Split(ctx, videoPath, duration, segmentSec, dir, prog.scoped(0.02, 0.10))
	if err != nil {
		return nil, err
	}

	results := make([]SegmentDetections, 0, len(segments))
	for i, seg := range segments {
		if err := checkCancelled(ctx); err != nil {
			return nil, err
		}
		base := 0.10 + (float64(i)/float64(len(segments)))*0.48
		next := 0.10 + (float64(i+1)/float64(len(segments)))*0.48
		prog.report(base, fmt.Sprintf("Analyzing segment %d/%d...", i+1, len(segments)))

		dets, err := p.analyzeSegment(ctx, seg, query, prog.scoped(base, next))
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", seg.Index, err)
		}
		p.log.WithFields(logrus.Fields{"segment": seg.Index, "found": len(dets)}).Info("segment analyzed")
		results = append(results, SegmentDetections{Segment: seg, Detections: dets})
	}
	return MergeSegmentDetections(results), nil
}

// analyzeSegment uploads one segment, runs the detection prompt, filters
// by confidence and camera angle, and optionally verifies each accepted
// detection. Returned timestamps are segment-local.
func (p *Pipeline) analyzeSegment(ctx context.Context, seg Segment, query string, progress ProgressFunc) ([]Detection, error) {
	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}
	slog := p.log.WithField("segment", seg.Index)

	artifact, err := p.uploadAndWait(ctx, seg.Path)
	if err != nil {
		return nil, err
	}
	defer p.deleteArtifact(artifact)

	if progress != nil {
		progress(0.4, "Analyzing video...")
	}
	text, err := p.generateWithRetry(ctx, artifact, detectionPrompt(query))
	if err != nil {
		return nil, fmt.Errorf("detection call: %w", err)
	}

	detections, ok := parseDetections(text)
	if !ok {
		// Malformed responses degrade to an empty result, never abort.
		slog.WithField("response_head", head(text, 200)).Warn("malformed detection response, treating as no matches")
		return nil, nil
	}
	slog.WithField("raw", len(detections)).Info("detections returned")

	accepted, rejected := FilterDetections(detections, p.cfg.AcceptedAngle, p.cfg.MinConfidence)
	for _, d := range rejected {
		slog.WithFields(logrus.Fields{
			"interval": fmt.Sprintf("%.1fs-%.1fs", d.StartTime, d.EndTime),
			"reason":   d.RejectionReason,
		}).Info("detection filtered")
	}
	if len(accepted) == 0 {
		return nil, nil
	}

	if !p.cfg.Verify {
		for i := range accepted {
			accepted[i].VerificationStatus = VerificationSkipped
		}
		return accepted, nil
	}

	if progress != nil {
		progress(0.7, fmt.Sprintf("Verifying %d clips...", len(accepted)))
	}
	verified := make([]Detection, 0, len(accepted))
	for _, d := range accepted {
		if err := checkCancelled(ctx); err != nil {
			return nil, err
		}
		outcome, err := p.verifyDetection(ctx, artifact, query, d)
		if err != nil {
			return nil, err
		}
		if outcome.Recommendation == RecommendKeep {
			d.VerificationStatus = VerificationVerified
			if outcome.OverallConfidence > 0 {
				d.ConfidenceScore = int(outcome.OverallConfidence)
			}
			verified = append(verified, d)
			slog.WithField("interval", fmt.Sprintf("%.1fs-%.1fs", d.StartTime, d.EndTime)).Info("detection verified")
		} else {
			reason := "failed verification"
			if outcome.RejectionReason != nil && *outcome.RejectionReason != "" {
				reason = *outcome.RejectionReason
			}
			slog.WithFields(logrus.Fields{
				"interval": fmt.Sprintf("%.1fs-%.1fs", d.StartTime, d.EndTime),
				"reason":   reason,
			}).Info("detection rejected by verification")
		}
	}
	return verified, nil
}

// verifyDetection runs the second-stage check. Fail-closed: any remote or
// parse failure other than cancellation counts as REJECT.
func (p *Pipeline) verifyDetection(ctx context.Context, artifact *Artifact, query string, d Detection) (*VerificationOutcome, error) {
	text, err := p.generateWithRetry(ctx, artifact, verificationPrompt(query, d))
	if err != nil {
		if errors.Is(err, ErrCancelled) {
			return nil, err
		}
		p.log.WithError(err).Warn("verification call failed, rejecting detection")
		return rejectOutcome("verification error: " + err.Error()), nil
	}
	outcome, ok := parseVerification(text)
	if !ok {
		return rejectOutcome("failed to parse verification response"), nil
	}
	return outcome, nil
}

func rejectOutcome(reason string) *VerificationOutcome {
	return &VerificationOutcome{Recommendation: RecommendReject, RejectionReason: &reason}
}

// uploadAndWait submits the file and polls until the remote artifact is
// ready. Cancellation is observed before the upload and at every poll tick;
// on cancellation or processing failure the artifact is deleted best-effort.
func (p *Pipeline) uploadAndWait(ctx context.Context, path string) (*Artifact, error) {
	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}

	artifact, err := p.remote.Upload(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}
	p.log.WithField("artifact", artifact.Name).Info("upload started")

	for artifact.State == ArtifactProcessing {
		if err := checkCancelled(ctx); err != nil {
			p.deleteArtifact(artifact)
			return nil, err
		}
		if err := sleepCancellable(ctx, p.cfg.PollInterval); err != nil {
			p.deleteArtifact(artifact)
			return nil, err
		}
		next, err := p.remote.Poll(ctx, artifact)
		if err != nil {
			// The upload still exists remotely; the last known handle is
			// enough to delete it.
			p.deleteArtifact(artifact)
			return nil, fmt.Errorf("poll artifact: %w", err)
		}
		artifact = next
	}

	if artifact.State == ArtifactFailed {
		p.deleteArtifact(artifact)
		return nil, fmt.Errorf("%w: artifact %s", ErrRemoteProcessing, artifact.Name)
	}
	return artifact, nil
}

// deleteArtifact removes the remote upload best-effort. Runs on its own
// context so cleanup still happens after the run's context is cancelled.
func (p *Pipeline) deleteArtifact(artifact *Artifact) {
	if artifact == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := p.remote.Delete(ctx, artifact); err != nil {
		p.log.WithError(err).WithField("artifact", artifact.Name).Warn("could not delete remote artifact")
	}
}

func head(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
