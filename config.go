package main

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stewi1014/glmandel/programs"
	"github.com/stewi1014/glmandel/viewport"
)

const (
	BackendGTK  = "gtk"
	BackendGLFW = "glfw"
)

type Config struct {
	Backend string
	Program string
	Title   string
	Debug   bool

	Width          int
	Height         int
	RenderInterval time.Duration

	// Palette is a file path or URL; empty selects the built-in gradient.
	Palette string

	ScaleFactor float64
	X, Y        float64

	SnapshotWidth  int
	SnapshotHeight int
	SnapshotDir    string
}

func DefaultConfig() Config {
	return Config{
		Backend:        BackendGTK,
		Program:        "mandelbrot",
		Title:          "GLMandel",
		Width:          1200,
		Height:         800,
		RenderInterval: 100 * time.Millisecond,
		ScaleFactor:    viewport.DefaultScaleFactor,
		SnapshotWidth:  3840,
		SnapshotHeight: 2160,
		SnapshotDir:    ".",
	}
}

func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Backend, "backend", c.Backend, "window backend, gtk or glfw")
	fs.StringVar(&c.Program, "program", c.Program, "fractal program to run")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "log OpenGL debug messages")
	fs.IntVar(&c.Width, "width", c.Width, "initial window width")
	fs.IntVar(&c.Height, "height", c.Height, "initial window height")
	fs.DurationVar(&c.RenderInterval, "interval", c.RenderInterval, "time between redraws")
	fs.StringVar(&c.Palette, "palette", c.Palette, "palette image path or URL, empty for the built-in gradient")
	fs.Float64Var(&c.ScaleFactor, "scale", c.ScaleFactor, "initial plane units per pixel")
	fs.Float64Var(&c.X, "x", c.X, "initial real translation")
	fs.Float64Var(&c.Y, "y", c.Y, "initial imaginary translation")
	fs.IntVar(&c.SnapshotWidth, "snapshot-width", c.SnapshotWidth, "snapshot image width")
	fs.IntVar(&c.SnapshotHeight, "snapshot-height", c.SnapshotHeight, "snapshot image height")
	fs.StringVar(&c.SnapshotDir, "snapshot-dir", c.SnapshotDir, "directory snapshots are written to")
}

func (c Config) Validate() error {
	var errs []error

	if c.Backend != BackendGTK && c.Backend != BackendGLFW {
		errs = append(errs, fmt.Errorf("unknown backend %q", c.Backend))
	}
	if _, err := programs.Lookup(c.Program); err != nil {
		errs = append(errs, err)
	}
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("invalid window size %vx%v", c.Width, c.Height))
	}
	if c.RenderInterval <= 0 {
		errs = append(errs, fmt.Errorf("render interval must be positive, got %v", c.RenderInterval))
	}
	if !(c.ScaleFactor > 0) {
		errs = append(errs, fmt.Errorf("scale must be positive, got %v", c.ScaleFactor))
	}
	if c.SnapshotWidth <= 0 || c.SnapshotHeight <= 0 {
		errs = append(errs, fmt.Errorf("invalid snapshot size %vx%v", c.SnapshotWidth, c.SnapshotHeight))
	}

	return errors.Join(errs...)
}

// InitialView is the view the window opens with and resets to.
func (c Config) InitialView() viewport.State {
	return viewport.State{
		ScaleFactor: c.ScaleFactor,
		Translation: mgl64.Vec2{c.X, c.Y},
	}
}
