package clipper

import (
	"context"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestBuildPlans(t *testing.T) {
	tests := []struct {
		name     string
		spans    []Span
		padding  float64
		duration float64
		want     []Plan
	}{
		{
			name:     "padding applied both sides",
			spans:    []Span{{Start: 10, End: 20}},
			padding:  2,
			duration: 100,
			want:     []Plan{{Start: 8, Duration: 14}},
		},
		{
			name:     "clamped at zero",
			spans:    []Span{{Start: 0.5, End: 1.0}},
			padding:  2,
			duration: 100,
			want:     []Plan{{Start: 0, Duration: 3}},
		},
		{
			name:     "clamped at source end",
			spans:    []Span{{Start: 95, End: 99}},
			padding:  2,
			duration: 100,
			want:     []Plan{{Start: 93, Duration: 7}},
		},
		{
			name:     "degenerate span dropped",
			spans:    []Span{{Start: 150, End: 160}},
			padding:  2,
			duration: 100,
			want:     []Plan{},
		},
		{
			name:     "order preserved, not sorted",
			spans:    []Span{{Start: 50, End: 55}, {Start: 10, End: 15}},
			padding:  0,
			duration: 100,
			want:     []Plan{{Start: 50, Duration: 5}, {Start: 10, Duration: 5}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildPlans(tt.spans, tt.padding, tt.duration)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d plans, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if math.Abs(got[i].Start-tt.want[i].Start) > 1e-9 ||
					math.Abs(got[i].Duration-tt.want[i].Duration) > 1e-9 {
					t.Errorf("plan[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

type fakeCutter struct {
	mu      sync.Mutex
	cuts    []Plan
	concats [][]string
	cutErr  error
}

func (c *fakeCutter) CutCopy(ctx context.Context, input string, start, duration float64, output string) error {
	if c.cutErr != nil {
		return c.cutErr
	}
	c.mu.Lock()
	c.cuts = append(c.cuts, Plan{Start: start, Duration: duration})
	c.mu.Unlock()
	return os.WriteFile(output, []byte("clip"), 0o644)
}

func (c *fakeCutter) ConcatCopy(ctx context.Context, clips []string, output string) error {
	c.mu.Lock()
	c.concats = append(c.concats, clips)
	c.mu.Unlock()
	return os.WriteFile(output, []byte("joined"), 0o644)
}

func TestExtractSingleClipCopiesDirectly(t *testing.T) {
	dir := t.TempDir()
	cutter := &fakeCutter{}
	e := NewExtractor(cutter, dir, testLogger())

	output := filepath.Join(dir, "out.mp4")
	err := e.Extract(context.Background(), "game.mp4", []Span{{Start: 10, End: 20}}, 2, 100, output, nil)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(cutter.concats) != 0 {
		t.Errorf("concat used for a single clip")
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("output missing: %v", err)
	}
	if string(data) != "clip" {
		t.Errorf("output = %q, want the single clip's bytes", data)
	}
}

func TestExtractMultipleClipsConcatenated(t *testing.T) {
	dir := t.TempDir()
	cutter := &fakeCutter{}
	e := NewExtractor(cutter, dir, testLogger())

	output := filepath.Join(dir, "out.mp4")
	spans := []Span{{Start: 10, End: 20}, {Start: 40, End: 50}, {Start: 70, End: 80}}
	err := e.Extract(context.Background(), "game.mp4", spans, 2, 100, output, nil)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(cutter.cuts) != 3 {
		t.Errorf("cuts = %d, want 3", len(cutter.cuts))
	}
	if len(cutter.concats) != 1 || len(cutter.concats[0]) != 3 {
		t.Fatalf("concats = %v, want one call with 3 clips", cutter.concats)
	}
	if _, err := os.Stat(output); err != nil {
		t.Errorf("output missing: %v", err)
	}
}

func TestExtractNoValidClips(t *testing.T) {
	e := NewExtractor(&fakeCutter{}, t.TempDir(), testLogger())

	tests := []struct {
		name  string
		spans []Span
	}{
		{"empty span list", nil},
		{"all spans past the source end", []Span{{Start: 200, End: 210}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := e.Extract(context.Background(), "game.mp4", tt.spans, 2, 100, "out.mp4", nil)
			if !errors.Is(err, ErrNoValidClips) {
				t.Fatalf("error = %v, want ErrNoValidClips", err)
			}
		})
	}
}

func TestExtractCleansWorkspaceOnFailure(t *testing.T) {
	dir := t.TempDir()
	cutter := &fakeCutter{cutErr: errors.New("cut failed")}
	e := NewExtractor(cutter, dir, testLogger())

	err := e.Extract(context.Background(), "game.mp4", []Span{{Start: 10, End: 20}}, 2, 100, filepath.Join(dir, "out.mp4"), nil)
	if err == nil {
		t.Fatal("Extract() succeeded, want failure")
	}

	entries, readErr := os.ReadDir(dir)
	if readErr != nil {
		t.Fatal(readErr)
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), "video_clips_") {
			t.Errorf("clip workspace %s not cleaned up", entry.Name())
		}
	}
}

func TestExtractCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := NewExtractor(&fakeCutter{}, t.TempDir(), testLogger())
	err := e.Extract(ctx, "game.mp4", []Span{{Start: 10, End: 20}}, 2, 100, "out.mp4", nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}
