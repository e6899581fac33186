package ffmpeg

import (
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

type FFprobe struct{ Path string }

type ProbeResult struct {
	Format  FormatInfo   `json:"format"`
	Streams []StreamInfo `json:"streams"`
}

type FormatInfo struct {
	Filename   string `json:"filename"`
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	Bitrate    string `json:"bit_rate"`
}

type StreamInfo struct {
	CodecType  string `json:"codec_type"`
	CodecName  string `json:"codec_name"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	RFrameRate string `json:"r_frame_rate"`
}

func NewFFprobe(path string) *FFprobe { return &FFprobe{Path: path} }

func (f *FFprobe) Probe(filePath string) (*ProbeResult, error) {
	cmd := exec.Command(f.Path, "-v", "quiet", "-print_format", "json", "-show_format", "-show_streams", filePath)
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}
	var result ProbeResult
	if err := json.Unmarshal(output, &result); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}
	if result.Format.Duration == "" || result.Format.Size == "" {
		return nil, fmt.Errorf("ffprobe output missing duration or size for %s", filePath)
	}
	return &result, nil
}

// DurationAndSize returns the duration in seconds and the file size in
// bytes. This is the narrow surface the analysis pipeline depends on.
func (f *FFprobe) DurationAndSize(filePath string) (float64, int64, error) {
	result, err := f.Probe(filePath)
	if err != nil {
		return 0, 0, err
	}
	return result.GetDurationSeconds(), result.GetSizeBytes(), nil
}

func (r *ProbeResult) GetDurationSeconds() float64 {
	duration, _ := strconv.ParseFloat(r.Format.Duration, 64)
	return duration
}

func (r *ProbeResult) GetSizeBytes() int64 {
	size, _ := strconv.ParseInt(r.Format.Size, 10, 64)
	return size
}

func (r *ProbeResult) GetVideoCodec() string {
	for _, s := range r.Streams {
		if s.CodecType == "video" {
			return s.CodecName
		}
	}
	return ""
}

func (r *ProbeResult) GetDimensions() (int, int) {
	for _, s := range r.Streams {
		if s.CodecType == "video" {
			return s.Width, s.Height
		}
	}
	return 0, 0
}

// GetFPS computes the frame rate from the r_frame_rate fraction.
func (r *ProbeResult) GetFPS() float64 {
	for _, s := range r.Streams {
		if s.CodecType != "video" {
			continue
		}
		parts := strings.SplitN(s.RFrameRate, "/", 2)
		if len(parts) != 2 {
			return 0
		}
		num, _ := strconv.ParseFloat(parts[0], 64)
		den, _ := strconv.ParseFloat(parts[1], 64)
		if den == 0 {
			return 0
		}
		return num / den
	}
	return 0
}
