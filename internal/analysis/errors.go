package analysis

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrCancelled is returned when the run's context is cancelled. All
	// temp resources owned by the run are released before it propagates.
	ErrCancelled = errors.New("analysis cancelled")

	// ErrRateLimited marks a remote call rejected by the service's rate
	// limiter. The retry loop keys off this; exhausting retries wraps it.
	ErrRateLimited = errors.New("remote rate limit")

	// ErrRemoteProcessing means the uploaded artifact failed server-side
	// processing and can never become ready.
	ErrRemoteProcessing = errors.New("remote processing failed")

	// ErrNoMatches is the "nothing found" outcome: either the model
	// returned no surviving detections or every interval degenerated
	// after clamping. Not a crash.
	ErrNoMatches = errors.New("no matching clips found")
)

// ProbeError wraps a media inspection failure. Fatal for the run.
type ProbeError struct {
	Path string
	Err  error
}

func (e *ProbeError) Error() string { return fmt.Sprintf("probe %s: %v", e.Path, e.Err) }
func (e *ProbeError) Unwrap() error { return e.Err }

// checkCancelled maps context expiry onto the run's cancellation error.
func checkCancelled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCancelled, err)
	}
	return nil
}
