package analysis

import "context"

// Narrow ports the pipeline depends on. Infrastructure (ffmpeg wrappers,
// the Gemini client) implements these; tests substitute fakes.

// Prober reads duration and byte size from a source file.
type Prober interface {
	DurationAndSize(path string) (durationSec float64, sizeBytes int64, err error)
}

// Cutter produces a stream-copied cut of the input. No re-encoding; the
// output's internal time axis starts at zero regardless of startSec.
type Cutter interface {
	CutCopy(ctx context.Context, input string, startSec, durationSec float64, output string) error
}

// ──────────────────── Remote model ────────────────────

type ArtifactState int

const (
	ArtifactProcessing ArtifactState = iota
	ArtifactReady
	ArtifactFailed
)

// Artifact is a handle to a file uploaded to the remote service.
type Artifact struct {
	Name     string
	URI      string
	MIMEType string
	State    ArtifactState
}

// RemoteClient is the remote analysis protocol: upload a file, poll its
// processing state, run prompts against it, delete it.
type RemoteClient interface {
	Upload(ctx context.Context, path string) (*Artifact, error)
	Poll(ctx context.Context, a *Artifact) (*Artifact, error)
	// Generate runs a text prompt against the uploaded artifact and returns
	// the raw model response. Implementations report throttling by wrapping
	// ErrRateLimited.
	Generate(ctx context.Context, a *Artifact, prompt string) (string, error)
	Delete(ctx context.Context, a *Artifact) error
}
