package config

import "time"

// Config holds runtime options collected by the CLI
type Config struct {
	ChoreographyPath string
	ScriptPath       string
	ScriptOutput     string
	OutputDir        string
	VideoOutput      string
	Width            int
	Height           int
	Duration         float64 // Generated tour length in seconds
	FPS              int
	Workers          int
	VideoEncoder     string
	Quality          int
	Generate         bool
	Preview          bool
	ShowStats        bool
	BuildVersion     string
}

// FrameParams describes one storyboard frame
type FrameParams struct {
	Width, Height int
	FPS           int
	Index         int
	Time          time.Duration
}
