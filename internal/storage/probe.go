package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
)

// DurationProber reports the duration of a local media file in seconds.
type DurationProber interface {
	Probe(ctx context.Context, localPath string) (float64, error)
}

// FFProbeProber shells out to ffprobe for container-level metadata.
type FFProbeProber struct {
	ffprobePath string
}

// NewFFProbeProber creates a prober. An empty path resolves ffprobe from PATH.
func NewFFProbeProber(ffprobePath string) *FFProbeProber {
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &FFProbeProber{ffprobePath: ffprobePath}
}

type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Probe runs ffprobe and parses the format duration.
func (p *FFProbeProber) Probe(ctx context.Context, localPath string) (float64, error) {
	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		localPath,
	}

	cmd := exec.CommandContext(ctx, p.ffprobePath, args...)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}

	duration, err := ParseProbeDuration(output)
	if err != nil {
		return 0, err
	}

	return duration, nil
}

// ParseProbeDuration extracts format.duration from ffprobe JSON output.
func ParseProbeDuration(probeJSON []byte) (float64, error) {
	var probed ffprobeOutput
	if err := json.Unmarshal(probeJSON, &probed); err != nil {
		return 0, fmt.Errorf("parse ffprobe output: %w", err)
	}

	if probed.Format.Duration == "" {
		return 0, fmt.Errorf("ffprobe output missing format duration")
	}

	duration, err := strconv.ParseFloat(probed.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", probed.Format.Duration, err)
	}

	return duration, nil
}
