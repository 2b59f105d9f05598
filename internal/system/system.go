package system

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// GetBestH264Encoder probes ffmpeg for a hardware H.264 encoder
func GetBestH264Encoder() string {
	// Priority:
	// 1. macOS (VideoToolbox)
	// 2. NVIDIA (NVENC)
	// 3. Software (libx264)
	encoders := []string{"h264_videotoolbox", "h264_nvenc"}

	cmd := exec.Command("ffmpeg", "-hide_banner", "-encoders")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "libx264"
	}
	for _, enc := range encoders {
		if strings.Contains(string(out), enc) {
			return enc
		}
	}

	return "libx264"
}

// DefaultQuality returns a sensible quality value for an encoder
func DefaultQuality(encoder string) int {
	switch encoder {
	case "h264_videotoolbox":
		return 75 // bitrate = Q*100 kbit/s
	case "h264_nvenc":
		return 28 // CQ roughly equivalent to CRF 23
	default:
		return 23 // CRF for x264
	}
}

// HasFFmpeg reports whether ffmpeg is on PATH
func HasFFmpeg() bool {
	_, err := exec.LookPath("ffmpeg")
	return err == nil
}

// Usage is a point-in-time resource reading for the stats report
type Usage struct {
	RSS        uint64  // Resident memory of this process in bytes
	CPUPercent float64 // CPU use of this process since it started
	SystemUsed float64 // Percent of system memory in use
}

// ReadUsage samples resource use of the current process
func ReadUsage() (Usage, error) {
	var u Usage

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return u, fmt.Errorf("open process: %w", err)
	}
	mi, err := p.MemoryInfo()
	if err != nil {
		return u, fmt.Errorf("memory info: %w", err)
	}
	u.RSS = mi.RSS

	if cpu, err := p.CPUPercent(); err == nil {
		u.CPUPercent = cpu
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		u.SystemUsed = vm.UsedPercent
	}
	return u, nil
}

// FormatBytes renders a byte count in binary units
func FormatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// Timestamp returns a filesystem-friendly timestamp
func Timestamp(t time.Time) string {
	return t.Format("2006-01-02_15-04-05")
}
