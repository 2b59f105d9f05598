package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ivlev/scrollstage/internal/config"
	"github.com/ivlev/scrollstage/internal/engine"
	"github.com/ivlev/scrollstage/internal/preview"
	"github.com/ivlev/scrollstage/internal/renderer"
	"github.com/ivlev/scrollstage/internal/system"
	"github.com/ivlev/scrollstage/internal/timing"
	"github.com/ivlev/scrollstage/internal/video"
)

var buildVersion = "dev"

func main() {
	configPtr := flag.String("config", "", "Choreography YAML (built-in portfolio choreography if empty)")
	previewPtr := flag.Bool("preview", false, "Run the interactive terminal preview")
	generatePtr := flag.Bool("generate", false, "Generate a tour script instead of rendering")
	scriptOutPtr := flag.String("script-out", "", "Where -generate writes the script (default: timestamped file in scripts/)")
	durationPtr := flag.Float64("duration", 0, "Tour length in seconds for -generate (0: minimum dwell on each section)")
	scriptPtr := flag.String("script", "", "Scroll script to render (default: newest file in scripts/)")
	outputPtr := flag.String("output", "", "Frame directory (default: timestamped folder in output/)")
	videoPtr := flag.String("video", "", "Encode frames to this video file with ffmpeg")
	widthPtr := flag.Int("width", 1280, "Frame width")
	heightPtr := flag.Int("height", 720, "Frame height")
	presetPtr := flag.String("preset", "", "Frame preset: 16:9, 9:16, 4:5")
	fpsPtr := flag.Int("fps", 30, "FPS")
	workersPtr := flag.Int("workers", runtime.NumCPU(), "Render workers")
	qualityPtr := flag.Int("quality", 0, "Video quality (0: auto; x264 CRF 1-51, VideoToolbox bitrate = Q*100 kbit/s)")
	statsPtr := flag.Bool("stats", false, "Print a performance report and append it to benchmark.log")
	verbosePtr := flag.Bool("v", false, "Log orchestrator events")

	flag.Parse()

	choreography := config.Default()
	if *configPtr != "" {
		c, err := config.Load(*configPtr)
		if err != nil {
			log.Fatalf("[-] Error: %v", err)
		}
		choreography = c
		fmt.Printf("[*] Choreography: %s\n", *configPtr)
	}

	var logger *log.Logger
	if *verbosePtr {
		logger = log.New(os.Stderr, "", log.Ltime|log.Lmicroseconds)
	}

	if *previewPtr {
		runPreview(choreography, logger)
		return
	}

	width, height := *widthPtr, *heightPtr
	switch *presetPtr {
	case "16:9":
		width, height = 1280, 720
	case "9:16":
		width, height = 720, 1280
	case "4:5":
		width, height = 1080, 1350
	}

	outputDir := *outputPtr
	if outputDir == "" && !*generatePtr {
		outputDir = filepath.Join("output", fmt.Sprintf("frames_%s", system.Timestamp(time.Now())))
	}

	encoderName := ""
	quality := *qualityPtr
	if *videoPtr != "" {
		if !system.HasFFmpeg() {
			log.Fatalf("[-] Error: -video needs ffmpeg on PATH")
		}
		encoderName = system.GetBestH264Encoder()
		if encoderName != "libx264" {
			fmt.Printf("[*] Hardware encoder found: %s\n", encoderName)
		}
		if quality == 0 {
			quality = system.DefaultQuality(encoderName)
		}
	}

	cfg := &config.Config{
		ChoreographyPath: *configPtr,
		ScriptPath:       *scriptPtr,
		ScriptOutput:     *scriptOutPtr,
		OutputDir:        outputDir,
		VideoOutput:      *videoPtr,
		Width:            width,
		Height:           height,
		Duration:         *durationPtr,
		FPS:              *fpsPtr,
		Workers:          *workersPtr,
		VideoEncoder:     encoderName,
		Quality:          quality,
		Generate:         *generatePtr,
		ShowStats:        *statsPtr,
		BuildVersion:     buildVersion,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	session := engine.NewSession(cfg, choreography, renderer.NewFrameRenderer(width, height), &video.FFmpegEncoder{})
	if logger != nil {
		session.Log = logger
	}
	report, err := session.Run(ctx)
	if err != nil {
		log.Fatalf("[-] Session error: %v", err)
	}

	switch {
	case report.ScriptPath != "":
		fmt.Printf("[+++] Done! Render it with: -script %s\n", report.ScriptPath)
	case report.VideoPath != "":
		fmt.Printf("[+++] Done! Result: %s\n", report.VideoPath)
	default:
		fmt.Printf("[+++] Done! %d frames in %s\n", report.Frames, cfg.OutputDir)
	}
}

func runPreview(c *config.Choreography, logger *log.Logger) {
	var opts []engine.Option
	if logger != nil {
		// The terminal belongs to the preview; keep the event log out of it.
		f, err := os.OpenFile("preview.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Fatalf("[-] Error: %v", err)
		}
		defer f.Close()
		logger.SetOutput(f)
		opts = append(opts, engine.WithLogger(logger))
	}

	o, err := engine.New(c, opts...)
	if err != nil {
		log.Fatalf("[-] Error: %v", err)
	}

	program := tea.NewProgram(preview.New(o, c, timing.SystemTimeProvider{}), tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := program.Run(); err != nil {
		log.Fatalf("[-] Preview error: %v", err)
	}
}
