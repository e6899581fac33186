package jobs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/clipcutter/clipcutter/internal/analysis"
	"github.com/clipcutter/clipcutter/internal/clipper"
	"github.com/clipcutter/clipcutter/internal/models"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type fakeProber struct{ duration float64 }

func (p *fakeProber) DurationAndSize(path string) (float64, int64, error) {
	return p.duration, 1024, nil
}

type fakeMedia struct{}

func (fakeMedia) CutCopy(ctx context.Context, input string, start, duration float64, output string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.WriteFile(output, []byte("clip"), 0o644)
}

func (fakeMedia) ConcatCopy(ctx context.Context, clips []string, output string) error {
	return os.WriteFile(output, []byte("joined"), 0o644)
}

type fakeRemote struct {
	mu         sync.Mutex
	detections string
	neverReady bool
}

func (r *fakeRemote) Upload(ctx context.Context, path string) (*analysis.Artifact, error) {
	state := analysis.ArtifactReady
	if r.neverReady {
		state = analysis.ArtifactProcessing
	}
	return &analysis.Artifact{Name: "files/test", State: state}, nil
}

func (r *fakeRemote) Poll(ctx context.Context, a *analysis.Artifact) (*analysis.Artifact, error) {
	return a, nil
}

func (r *fakeRemote) Generate(ctx context.Context, a *analysis.Artifact, prompt string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.detections, nil
}

func (r *fakeRemote) Delete(ctx context.Context, a *analysis.Artifact) error { return nil }

func newTestManager(t *testing.T, remote analysis.RemoteClient) (*Manager, *models.Video) {
	dir := t.TempDir()
	source := filepath.Join(dir, "game.mp4")
	if err := os.WriteFile(source, []byte("video"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := analysis.DefaultConfig()
	cfg.Verify = false
	cfg.PollInterval = time.Millisecond
	cfg.WorkDir = dir

	media := fakeMedia{}
	extractor := clipper.NewExtractor(media, dir, testLogger())
	pipeline := analysis.NewPipeline(&fakeProber{duration: 600}, media, remote, extractor, cfg, testLogger())

	video := &models.Video{ID: uuid.New(), Path: source, Filename: "game.mp4", Duration: 600}
	return NewManager(pipeline, nil, testLogger()), video
}

func waitForTerminal(t *testing.T, m *Manager, id uuid.UUID) *Job {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job := m.Get(id)
		if job == nil {
			t.Fatal("job disappeared")
		}
		switch job.Status {
		case StatusComplete, StatusError, StatusCancelled:
			return job
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("job did not reach a terminal state")
	return nil
}

func TestManagerJobCompletes(t *testing.T) {
	remote := &fakeRemote{detections: `[{"start_time": 30, "end_time": 40,
		"confidence_score": 85, "camera_angle": "sideline"}]`}
	m, video := newTestManager(t, remote)

	job := m.Start(video, "runs by #22", -1)
	if job.Status != StatusPending && job.Status != StatusUploading && job.Status != StatusAnalyzing {
		t.Errorf("initial status = %q", job.Status)
	}

	final := waitForTerminal(t, m, job.ID)
	if final.Status != StatusComplete {
		t.Fatalf("status = %q (error %q), want complete", final.Status, final.Error)
	}
	if final.ClipCount != 1 {
		t.Errorf("ClipCount = %d, want 1", final.ClipCount)
	}
	if final.OutputPath == "" {
		t.Error("OutputPath is empty")
	}
	if final.Progress != 100 {
		t.Errorf("Progress = %d, want 100", final.Progress)
	}
}

func TestManagerNoMatchesIsComplete(t *testing.T) {
	remote := &fakeRemote{detections: `[]`}
	m, video := newTestManager(t, remote)

	job := m.Start(video, "triple plays", -1)
	final := waitForTerminal(t, m, job.ID)

	if final.Status != StatusComplete {
		t.Fatalf("status = %q, want complete", final.Status)
	}
	if final.ClipCount != 0 {
		t.Errorf("ClipCount = %d, want 0", final.ClipCount)
	}
	if final.Message != "No matching clips found" {
		t.Errorf("Message = %q, want no-matches message", final.Message)
	}
}

func TestManagerCancel(t *testing.T) {
	remote := &fakeRemote{neverReady: true}
	m, video := newTestManager(t, remote)

	job := m.Start(video, "runs", -1)
	// Give the run a moment to reach the poll loop.
	time.Sleep(5 * time.Millisecond)

	if !m.Cancel(job.ID) {
		t.Fatal("Cancel() = false for a running job")
	}

	final := waitForTerminal(t, m, job.ID)
	if final.Status != StatusCancelled {
		t.Fatalf("status = %q, want cancelled", final.Status)
	}

	// A finished job cannot be cancelled again.
	if m.Cancel(job.ID) {
		t.Error("Cancel() = true for a finished job")
	}
}

func TestManagerUnknownJob(t *testing.T) {
	m, _ := newTestManager(t, &fakeRemote{})
	if m.Get(uuid.New()) != nil {
		t.Error("Get() returned a job for an unknown id")
	}
	if m.Cancel(uuid.New()) {
		t.Error("Cancel() = true for an unknown id")
	}
}

func TestManagerSubscribe(t *testing.T) {
	remote := &fakeRemote{detections: `[{"start_time": 30, "end_time": 40,
		"confidence_score": 85, "camera_angle": "sideline"}]`}
	m, video := newTestManager(t, remote)

	job := m.Start(video, "runs", -1)
	updates, unsubscribe := m.Subscribe(job.ID)
	defer unsubscribe()

	sawProgress := false
	for update := range updates {
		if update.JobID != job.ID {
			t.Errorf("update for job %s, want %s", update.JobID, job.ID)
		}
		sawProgress = true
	}

	// Channel closes at the terminal state; job may have finished before we
	// subscribed, in which case zero updates is acceptable.
	final := waitForTerminal(t, m, job.ID)
	if final.Status != StatusComplete {
		t.Fatalf("status = %q, want complete", final.Status)
	}
	_ = sawProgress
}

func TestManagerList(t *testing.T) {
	remote := &fakeRemote{detections: `[]`}
	m, video := newTestManager(t, remote)

	first := m.Start(video, "first", -1)
	waitForTerminal(t, m, first.ID)
	second := m.Start(video, "second", -1)
	waitForTerminal(t, m, second.ID)

	jobs := m.List()
	if len(jobs) != 2 {
		t.Fatalf("got %d jobs, want 2", len(jobs))
	}
	if jobs[0].ID != second.ID {
		t.Errorf("jobs not sorted newest first: %v", []string{jobs[0].Query, jobs[1].Query})
	}

	m.Remove(first.ID)
	if len(m.List()) != 1 {
		t.Error("Remove() did not drop the job")
	}
}

func TestManagerProgressMapping(t *testing.T) {
	remote := &fakeRemote{detections: fmt.Sprintf(`[{"start_time": %d, "end_time": %d,
		"confidence_score": 85, "camera_angle": "sideline"}]`, 30, 40)}
	m, video := newTestManager(t, remote)

	job := m.Start(video, "runs", -1)
	updates, unsubscribe := m.Subscribe(job.ID)
	defer unsubscribe()

	last := -1
	for update := range updates {
		if update.Progress < last {
			t.Errorf("progress decreased: %d -> %d", last, update.Progress)
		}
		last = update.Progress
		if update.Status == StatusExtracting && update.Progress < 60 {
			t.Errorf("extracting reported at %d%%, want >= 60", update.Progress)
		}
	}
}
