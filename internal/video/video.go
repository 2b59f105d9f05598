package video

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
)

// FramePattern is the file name pattern of storyboard frames
const FramePattern = "frame_%05d.png"

// FrameName returns the file name of frame i
func FrameName(i int) string {
	return fmt.Sprintf(FramePattern, i)
}

// EncodeParams describes one frame-sequence encode
type EncodeParams struct {
	FrameDir string
	Output   string
	FPS      int
	Encoder  string
	Quality  int
}

type VideoEncoder interface {
	Encode(ctx context.Context, params EncodeParams) error
}

type FFmpegEncoder struct{}

// Encode runs ffmpeg over the PNG frames in params.FrameDir
func (e *FFmpegEncoder) Encode(ctx context.Context, params EncodeParams) error {
	args := e.buildFFmpegArgs(params)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg encode error: %w, output: %s", err, out.String())
	}
	return nil
}

func (e *FFmpegEncoder) buildFFmpegArgs(params EncodeParams) []string {
	fps := params.FPS
	if fps <= 0 {
		fps = 30
	}
	encoder := params.Encoder
	if encoder == "" {
		encoder = "libx264"
	}

	args := []string{
		"-y",
		"-framerate", fmt.Sprintf("%d", fps),
		"-i", filepath.Join(params.FrameDir, FramePattern),
		"-pix_fmt", "yuv420p",
		// yuv420p needs even dimensions
		"-vf", "pad=ceil(iw/2)*2:ceil(ih/2)*2",
		"-c:v", encoder,
	}

	switch encoder {
	case "h264_videotoolbox":
		bitrate := params.Quality * 100 // kbit/s, 75 -> 7.5 Mbit/s
		args = append(args, "-b:v", fmt.Sprintf("%dk", bitrate))
	case "h264_nvenc":
		args = append(args, "-cq", fmt.Sprintf("%d", params.Quality))
	default: // libx264
		args = append(args, "-crf", fmt.Sprintf("%d", params.Quality), "-preset", "medium")
	}

	args = append(args, params.Output)
	return args
}
