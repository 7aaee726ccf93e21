package main

import (
	"flag"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.RenderInterval != 100*time.Millisecond {
		t.Errorf("expected 100ms default interval, got %v", cfg.RenderInterval)
	}
}

func TestConfigFlags(t *testing.T) {
	cfg := DefaultConfig()
	fs := flag.NewFlagSet("glmandel", flag.ContinueOnError)
	cfg.RegisterFlags(fs)

	err := fs.Parse([]string{
		"-backend", "glfw",
		"-interval", "16ms",
		"-palette", "https://example.com/palette.png",
		"-scale", "0.004",
		"-x", "-0.75",
		"-y", "0.1",
	})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Backend != BackendGLFW {
		t.Errorf("expected glfw backend, got %q", cfg.Backend)
	}
	if cfg.RenderInterval != 16*time.Millisecond {
		t.Errorf("expected 16ms interval, got %v", cfg.RenderInterval)
	}
	if cfg.Palette != "https://example.com/palette.png" {
		t.Errorf("unexpected palette %q", cfg.Palette)
	}

	view := cfg.InitialView()
	if view.ScaleFactor != 0.004 || view.Translation != (mgl64.Vec2{-0.75, 0.1}) {
		t.Errorf("unexpected initial view %+v", view)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"backend", func(c *Config) { c.Backend = "sdl" }, "unknown backend"},
		{"program", func(c *Config) { c.Program = "burning ship" }, "no program named"},
		{"size", func(c *Config) { c.Width = 0 }, "invalid window size"},
		{"interval", func(c *Config) { c.RenderInterval = 0 }, "render interval"},
		{"scale", func(c *Config) { c.ScaleFactor = -1 }, "scale must be positive"},
		{"snapshot", func(c *Config) { c.SnapshotHeight = -5 }, "invalid snapshot size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected %q in %v", tt.want, err)
			}
		})
	}
}

func TestSnapshotName(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	got := snapshotName("out", "mandelbrot", now)
	if want := "out/mandelbrot-20240309-140507.png"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
