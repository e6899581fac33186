package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// FFmpeg wraps the ffmpeg binary for stream-copy cutting and concatenation.
type FFmpeg struct{ Path string }

func NewFFmpeg(path string) *FFmpeg { return &FFmpeg{Path: path} }

// CutCopy extracts [startSec, startSec+durationSec) from input without
// re-encoding. avoid_negative_ts make_zero normalises timestamps so the
// output's time axis starts at zero regardless of the source offset.
func (f *FFmpeg) CutCopy(ctx context.Context, input string, startSec, durationSec float64, output string) error {
	cmd := exec.CommandContext(ctx, f.Path,
		"-ss", fmt.Sprintf("%.3f", startSec),
		"-t", fmt.Sprintf("%.3f", durationSec),
		"-i", input,
		"-c", "copy",
		"-avoid_negative_ts", "make_zero",
		"-y",
		output,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("ffmpeg cut failed: %w: %s", err, tail(string(out), 400))
	}
	return nil
}

// ConcatCopy joins clips into output using the concat demuxer with stream
// copy. All clips must share codec parameters, which holds when they were
// cut from the same source.
func (f *FFmpeg) ConcatCopy(ctx context.Context, clips []string, output string) error {
	if len(clips) == 0 {
		return fmt.Errorf("concat: no input clips")
	}

	listPath := filepath.Join(filepath.Dir(clips[0]), "concat.txt")
	var list strings.Builder
	for _, clip := range clips {
		// The concat demuxer wants forward slashes and quoted paths.
		fmt.Fprintf(&list, "file '%s'\n", filepath.ToSlash(clip))
	}
	if err := os.WriteFile(listPath, []byte(list.String()), 0644); err != nil {
		return fmt.Errorf("write concat list: %w", err)
	}

	cmd := exec.CommandContext(ctx, f.Path,
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		"-y",
		output,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("ffmpeg concat failed: %w: %s", err, tail(string(out), 400))
	}
	return nil
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
