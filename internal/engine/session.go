package engine

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/scrollstage/internal/config"
	"github.com/ivlev/scrollstage/internal/director"
	"github.com/ivlev/scrollstage/internal/keyframe"
	"github.com/ivlev/scrollstage/internal/system"
	"github.com/ivlev/scrollstage/internal/video"
)

// FrameWriter turns one snapshot into an image file
type FrameWriter interface {
	WriteFrame(s Snapshot, path string) error
}

// Report summarizes a storyboard run
type Report struct {
	Script     string
	Frames     int
	Simulate   time.Duration
	Render     time.Duration
	Encode     time.Duration
	Total      time.Duration
	Usage      system.Usage
	VideoPath  string
	ScriptPath string // set when a tour was generated instead of rendered
}

// FPS is the effective end-to-end frame rate
func (r *Report) FPS() float64 {
	if r.Total <= 0 {
		return 0
	}
	return float64(r.Frames) / r.Total.Seconds()
}

// Session plays a scroll script through an Orchestrator and renders the
// resulting frames, optionally encoding them into a video.
type Session struct {
	Config       *config.Config
	Choreography *config.Choreography
	Frames       FrameWriter
	Encoder      video.VideoEncoder
	Log          *log.Logger
}

func NewSession(cfg *config.Config, c *config.Choreography, fw FrameWriter, enc video.VideoEncoder) *Session {
	return &Session{
		Config:       cfg,
		Choreography: c,
		Frames:       fw,
		Encoder:      enc,
		Log:          log.New(io.Discard, "", 0),
	}
}

// poseSink is the model a headless session drives
type poseSink struct {
	pose keyframe.Pose
}

func (p *poseSink) SetPose(pose keyframe.Pose) { p.pose = pose }

func (s *Session) Run(ctx context.Context) (*Report, error) {
	startTime := time.Now()

	if s.Config.Generate {
		return s.handleGenerateScript()
	}

	scriptPath := s.Config.ScriptPath
	if scriptPath == "" {
		latest, err := director.FindLatestScript(director.ScriptsDir)
		if err != nil {
			return nil, fmt.Errorf("no script given and none found: %w", err)
		}
		scriptPath = latest
	}
	script, err := director.ReadScript(scriptPath)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	fmt.Printf("[*] Using script: %s\n", scriptPath)

	simStart := time.Now()
	snapshots, err := s.Simulate(script)
	if err != nil {
		return nil, err
	}
	simTime := time.Since(simStart)

	fmt.Println("--- [SCROLLSTAGE: STORYBOARD] ---")
	fmt.Printf("[*] Script: %s | Frames: %d\n", script.Name, len(snapshots))
	fmt.Printf("[*] Resolution: %dx%d @ %d FPS | Workers: %d\n", s.Config.Width, s.Config.Height, s.Config.FPS, s.workers())
	fmt.Println("---------------------------------")

	renderStart := time.Now()
	if err := s.renderFrames(ctx, snapshots); err != nil {
		return nil, err
	}
	renderTime := time.Since(renderStart)

	report := &Report{
		Script:   scriptPath,
		Frames:   len(snapshots),
		Simulate: simTime,
		Render:   renderTime,
	}

	if s.Config.VideoOutput != "" && s.Encoder != nil {
		fmt.Println("[*] Encoding video...")
		encodeStart := time.Now()
		err := s.Encoder.Encode(ctx, video.EncodeParams{
			FrameDir: s.Config.OutputDir,
			Output:   s.Config.VideoOutput,
			FPS:      s.Config.FPS,
			Encoder:  s.Config.VideoEncoder,
			Quality:  s.Config.Quality,
		})
		if err != nil {
			return nil, fmt.Errorf("encode video: %w", err)
		}
		report.Encode = time.Since(encodeStart)
		report.VideoPath = s.Config.VideoOutput
	}

	report.Total = time.Since(startTime)
	if s.Config.ShowStats {
		s.printReport(report)
	}
	return report, nil
}

// Simulate steps an orchestrator through script at the configured frame rate
// and returns one snapshot per frame. It runs on the calling goroutine.
func (s *Session) Simulate(script *director.Script) ([]Snapshot, error) {
	fps := s.Config.FPS
	if fps <= 0 {
		return nil, fmt.Errorf("fps must be positive, got %d", fps)
	}

	o, err := New(s.Choreography, WithLogger(s.Log))
	if err != nil {
		return nil, err
	}
	if script.ViewportUnit > 0 {
		o.OnResize(script.ViewportUnit)
	}
	o.Mount(&poseSink{})
	defer o.Unmount()

	dt := time.Second / time.Duration(fps)
	frames := int(script.Length()/dt) + 1
	snapshots := make([]Snapshot, 0, frames)

	for i := 0; i < frames; i++ {
		sample := script.SampleAt(time.Duration(i) * dt)
		o.OnScroll(sample.Scroll)
		o.OnPointer(sample.Pointer[0], sample.Pointer[1])
		if i == 0 {
			o.Tick(0)
		} else {
			o.Tick(dt)
		}
		snapshots = append(snapshots, o.Snapshot())
	}
	return snapshots, nil
}

func (s *Session) workers() int {
	if s.Config.Workers > 0 {
		return s.Config.Workers
	}
	return runtime.NumCPU()
}

func (s *Session) renderFrames(ctx context.Context, snapshots []Snapshot) error {
	if s.Frames == nil {
		return fmt.Errorf("no frame writer configured")
	}
	if err := os.MkdirAll(s.Config.OutputDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers())

	total := len(snapshots)
	for i := range snapshots {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path := filepath.Join(s.Config.OutputDir, video.FrameName(i))
			if err := s.Frames.WriteFrame(snapshots[i], path); err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
			if (i+1)%100 == 0 || i+1 == total {
				fmt.Printf("[>] Ready: %d/%d\n", i+1, total)
			}
			return nil
		})
	}
	return g.Wait()
}

func (s *Session) handleGenerateScript() (*Report, error) {
	fmt.Println("[*] Generating tour script...")

	d := director.NewDirector(s.Choreography.ViewportUnit)
	name := "tour"
	if s.Config.ChoreographyPath != "" {
		name = filepath.Base(s.Config.ChoreographyPath)
	}
	script, err := d.GenerateScript(s.Choreography.Keyframes, name, s.Config.Duration)
	if err != nil {
		return nil, fmt.Errorf("generate script: %w", err)
	}

	out := s.Config.ScriptOutput
	if out == "" {
		out = director.GenerateScriptPath()
	}
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return nil, fmt.Errorf("create script dir: %w", err)
	}
	if err := director.WriteScript(script, out); err != nil {
		return nil, fmt.Errorf("write script: %w", err)
	}

	fmt.Printf("[+++] Script written: %s\n", out)
	fmt.Printf("[*] Keyframes: %d | Duration: %.2fs\n", len(script.Keyframes), script.Duration)
	return &Report{ScriptPath: out}, nil
}

func (s *Session) printReport(r *Report) {
	if u, err := system.ReadUsage(); err == nil {
		r.Usage = u
	} else {
		fmt.Printf("[!] Could not read process stats: %v\n", err)
	}

	report := fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Total Time: %.2fs\n"+
			"Simulation: %.2fs\n"+
			"Rendering: %.2fs\n"+
			"Encoding: %.2fs\n"+
			"Effective FPS: %.2f\n"+
			"Memory (RSS): %s | CPU: %.1f%% | System memory: %.1f%%\n"+
			"----------------------------\n",
		s.Config.BuildVersion, r.Total.Seconds(), r.Simulate.Seconds(), r.Render.Seconds(), r.Encode.Seconds(), r.FPS(),
		system.FormatBytes(r.Usage.RSS), r.Usage.CPUPercent, r.Usage.SystemUsed,
	)
	fmt.Print(report)

	logEntry := fmt.Sprintf("[%s] Build: %s | Script: %s | Frames: %d | Total: %.2fs | Render: %.2fs | Encode: %.2fs | FPS: %.2f | RSS: %s\n",
		time.Now().Format("2006-01-02 15:04:05"),
		s.Config.BuildVersion,
		filepath.Base(r.Script),
		r.Frames,
		r.Total.Seconds(),
		r.Render.Seconds(),
		r.Encode.Seconds(),
		r.FPS(),
		system.FormatBytes(r.Usage.RSS),
	)

	if err := appendLog(benchmarkLog, logEntry); err != nil {
		fmt.Printf("[!] Could not write %s: %v\n", benchmarkLog, err)
	}
}

const benchmarkLog = "benchmark.log"

// appendLog appends entry to the file at path, creating it when missing
func appendLog(path, entry string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(entry); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
