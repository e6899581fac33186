package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// sleepCancellable blocks for d or until the run is cancelled.
func sleepCancellable(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return checkCancelled(ctx)
	}
}

// generateWithRetry calls the remote model, retrying with exponential
// backoff when the error is a rate-limit signal. Any other remote error
// propagates immediately. Each wait is interruptible by cancellation.
func (p *Pipeline) generateWithRetry(ctx context.Context, artifact *Artifact, prompt string) (string, error) {
	delay := p.cfg.RetryBaseDelay

	for attempt := 1; attempt <= p.cfg.MaxRetries; attempt++ {
		if err := checkCancelled(ctx); err != nil {
			return "", err
		}

		text, err := p.remote.Generate(ctx, artifact, prompt)
		if err == nil {
			return text, nil
		}
		if !errors.Is(err, ErrRateLimited) {
			return "", err
		}
		if attempt == p.cfg.MaxRetries {
			break
		}

		p.log.WithFields(map[string]interface{}{
			"attempt": attempt + 1,
			"max":     p.cfg.MaxRetries,
			"wait":    delay.String(),
		}).Warn("rate limited, backing off")

		if err := sleepCancellable(ctx, delay); err != nil {
			return "", err
		}
		delay *= 2
		if delay > p.cfg.RetryMaxDelay {
			delay = p.cfg.RetryMaxDelay
		}
	}
	return "", fmt.Errorf("%w: exhausted %d retries", ErrRateLimited, p.cfg.MaxRetries)
}
