package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// VideoEncoder joins the frames of a run directory into video.mp4 with
// ffmpeg.
type VideoEncoder struct {
	FFmpeg    string
	Framerate float64
}

func (v VideoEncoder) binary() string {
	if v.FFmpeg == "" {
		return "ffmpeg"
	}
	return v.FFmpeg
}

// Args returns the ffmpeg arguments encoding dir into out.
func (v VideoEncoder) Args(dir, out string) []string {
	fr := strconv.FormatFloat(v.Framerate, 'f', -1, 64)
	return []string{
		"-y", "-loglevel", "error",
		"-framerate", fr,
		"-i", FramePattern(dir),
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-r", fr,
		out,
	}
}

// Encode runs ffmpeg and returns the video path.
func (v VideoEncoder) Encode(ctx context.Context, dir string) (string, error) {
	out := filepath.Join(dir, "video.mp4")
	cmd := exec.CommandContext(ctx, v.binary(), v.Args(dir, out)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("ffmpeg command failed: %w: %s", err, msg)
		}
		return "", fmt.Errorf("ffmpeg command failed: %w", err)
	}
	return out, nil
}
