package main

import (
	"context"
	"fmt"
	"image"
	"log"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stewi1014/glmandel/gfx/gldevice"
	"github.com/stewi1014/glmandel/hud"
	"github.com/stewi1014/glmandel/palette"
	"github.com/stewi1014/glmandel/programs"
	"github.com/stewi1014/glmandel/snapshot"
)

func NewGLFWWindow(cfg Config) (*GLFWWindow, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	if cfg.Debug {
		glfw.WindowHint(glfw.OpenGLDebugContext, glfw.True)
	}

	window, err := glfw.CreateWindow(
		cfg.Width,
		cfg.Height,
		cfg.Title,
		nil,
		nil,
	)

	if err != nil {
		return nil, fmt.Errorf("glfw.CreateWindow failed: %w", err)
	}

	w := &GLFWWindow{
		Window: window,
		cfg:    cfg,
	}

	w.MakeContextCurrent()
	glfw.SwapInterval(1)

	return w, nil
}

type GLFWWindow struct {
	*glfw.Window
	cfg Config

	ctx     context.Context
	program programs.Program
	hud     *hud.Controller
	palette *image.NRGBA
}

func glfwMain(ctx context.Context, cfg Config) error {
	err := glfw.Init()
	if err != nil {
		return fmt.Errorf("glfw.Init failed: %w", err)
	}
	defer glfw.Terminate()

	w, err := NewGLFWWindow(cfg)
	if err != nil {
		return err
	}
	defer w.Destroy()

	return w.Run(ctx)
}

// Run draws every render interval until the window closes or ctx is done.
func (w *GLFWWindow) Run(ctx context.Context) error {
	var err error
	w.ctx = ctx
	w.palette = palette.Placeholder()

	w.program, err = programs.Lookup(w.cfg.Program)
	if err != nil {
		return err
	}

	dev, err := gldevice.New(w.cfg.Debug)
	if err != nil {
		return err
	}

	width, height := w.GetFramebufferSize()
	w.hud, err = hud.New(dev, hud.Options{
		Program: w.program,
		Width:   width,
		Height:  height,
		View:    w.cfg.InitialView(),
	})
	if err != nil {
		return err
	}

	w.SetFramebufferSizeCallback(w.resize)
	w.SetScrollCallback(w.scroll)
	w.SetMouseButtonCallback(w.button)
	w.SetCursorPosCallback(w.cursor)
	w.SetKeyCallback(w.key)

	pending := palette.Load(ctx, w.cfg.Palette)
	paletteDone := pending.Done()

	var lastRender time.Time
	for !w.ShouldClose() {
		if ctx.Err() != nil {
			return context.Cause(ctx)
		}

		glfw.WaitEventsTimeout(w.cfg.RenderInterval.Seconds())

		select {
		case <-paletteDone:
			paletteDone = nil
			img, err := pending.Result()
			if err != nil {
				log.Println("palette:", err)
				break
			}
			w.palette = img
			w.hud.ApplyPalette(img)
		default:
		}

		if time.Since(lastRender) >= w.cfg.RenderInterval {
			lastRender = time.Now()
			w.hud.Render()
			w.SwapBuffers()
		}
	}

	return nil
}

// pointer converts cursor coordinates to framebuffer pixels.
func (w *GLFWWindow) pointer(x, y float64) (float64, float64) {
	width, height := w.GetSize()
	fbWidth, fbHeight := w.GetFramebufferSize()
	if width == 0 || height == 0 {
		return x, y
	}
	return x * float64(fbWidth) / float64(width), y * float64(fbHeight) / float64(height)
}

func (w *GLFWWindow) resize(window *glfw.Window, width, height int) {
	if width == 0 || height == 0 {
		return
	}
	w.hud.Resize(width, height)
}

func (w *GLFWWindow) scroll(window *glfw.Window, xoff, yoff float64) {
	// GLFW reports scrolling away from the user as positive.
	w.hud.Wheel(-yoff)
}

func (w *GLFWWindow) button(window *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	if button != glfw.MouseButtonLeft {
		return
	}

	switch action {
	case glfw.Press:
		w.hud.PointerDown(w.pointer(window.GetCursorPos()))
	case glfw.Release:
		w.hud.PointerUp()
	}
}

func (w *GLFWWindow) cursor(window *glfw.Window, x, y float64) {
	w.hud.PointerMove(w.pointer(x, y))
}

func (w *GLFWWindow) key(window *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}

	switch key {
	case glfw.KeyEscape:
		window.SetShouldClose(true)
	case glfw.KeyR:
		w.hud.SetView(w.cfg.InitialView())
	case glfw.KeyS:
		w.saveSnapshot()
	}
}

func (w *GLFWWindow) saveSnapshot() {
	fbWidth, _ := w.GetFramebufferSize()
	opts := SaveOptions{
		Name:   snapshotName(w.cfg.SnapshotDir, w.cfg.Program, time.Now()),
		Width:  w.cfg.SnapshotWidth,
		Height: w.cfg.SnapshotHeight,
	}

	buf, err := snapshotImage(w.program, w.hud.View(), fbWidth, w.palette, opts)
	if err != nil {
		log.Println(err)
		return
	}

	log.Println("saving", opts.Name)
	go func() {
		err := snapshot.Save(w.ctx, opts.Name, buf)
		if err != nil {
			log.Println(err)
			return
		}
		log.Println("saved", opts.Name)
	}()
}
