package main

import (
	"context"
	"fmt"
	"image"
	"log"
	"net"
	"time"

	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"
	"github.com/stewi1014/glmandel/gfx/gldevice"
	"github.com/stewi1014/glmandel/hud"
	"github.com/stewi1014/glmandel/palette"
	"github.com/stewi1014/glmandel/programs"
	"github.com/stewi1014/glmandel/viewport"
)

func NewRenderWindow(
	app *gtk.Application,
	cfg Config,
	conn net.Conn,
	ctx context.Context,
	quit context.CancelCauseFunc,
) *RenderWindow {
	var err error
	w := &RenderWindow{
		cfg:     cfg,
		ctx:     ctx,
		quit:    quit,
		palette: palette.Placeholder(),
	}

	w.program, err = programs.Lookup(cfg.Program)
	if err != nil {
		quit(err)
		return nil
	}

	w.messenger = newMessenger(ctx, conn, quit, w.receive)

	w.ApplicationWindow, err = gtk.ApplicationWindowNew(app)
	if err != nil {
		quit(fmt.Errorf("gtk.ApplicationWindowNew: %w", err))
		return nil
	}

	w.SetDefaultSize(cfg.Width, cfg.Height)

	w.gla, err = gtk.GLAreaNew()
	if err != nil {
		quit(fmt.Errorf("gtk.GLAreaNew: %w", err))
		return nil
	}

	w.gla.SetRequiredVersion(4, 6)
	w.gla.Connect("realize", w.glaRealize)
	w.gla.Connect("render", w.glaRender)
	w.gla.Connect("resize", w.resize)

	w.gla.SetEvents(
		int(gdk.BUTTON_PRESS_MASK) |
			int(gdk.BUTTON_RELEASE_MASK) |
			int(gdk.POINTER_MOTION_MASK) |
			int(gdk.SCROLL_MASK) |
			int(gdk.SMOOTH_SCROLL_MASK),
	)
	w.gla.Connect("scroll-event", w.scroll)
	w.gla.Connect("button-press-event", w.button)
	w.gla.Connect("button-release-event", w.button)
	w.gla.Connect("motion-notify-event", w.motion)

	w.Add(w.gla)
	w.ShowAll()

	return w
}

type RenderWindow struct {
	*gtk.ApplicationWindow
	gla *gtk.GLArea
	cfg Config

	ctx  context.Context
	quit context.CancelCauseFunc

	program programs.Program
	hud     *hud.Controller
	palette *image.NRGBA
	width   int

	messenger *messenger
}

func (w *RenderWindow) glaRealize(gla *gtk.GLArea) {
	gla.MakeCurrent()
	if err := gla.GetError(); err != nil {
		w.fatal(fmt.Errorf("creating GL context: %w", err))
		return
	}

	dev, err := gldevice.New(w.cfg.Debug)
	if err != nil {
		w.fatal(err)
		return
	}

	scale := gla.GetScaleFactor()
	w.width = gla.GetAllocatedWidth() * scale
	w.hud, err = hud.New(dev, hud.Options{
		Program: w.program,
		Width:   w.width,
		Height:  gla.GetAllocatedHeight() * scale,
		View:    w.cfg.InitialView(),
	})
	if err != nil {
		w.fatal(err)
		return
	}

	w.loadPalette()
	w.sendView()

	glib.TimeoutAdd(uint(w.cfg.RenderInterval/time.Millisecond), func() bool {
		if w.ctx.Err() != nil {
			return false
		}
		gla.QueueRender()
		return true
	})
}

// fatal reports an error that leaves nothing to render and quits once the
// dialog is dismissed.
func (w *RenderWindow) fatal(err error) {
	log.Println(err)
	dialog := NewErrorDialog(w.ApplicationWindow, "Cannot draw the Mandelbrot set", err)
	dialog.Connect("response", func() {
		w.quit(err)
	})
}

func (w *RenderWindow) loadPalette() {
	pending := palette.Load(w.ctx, w.cfg.Palette)

	go func() {
		select {
		case <-pending.Done():
		case <-w.ctx.Done():
			return
		}

		img, err := pending.Result()
		if err != nil {
			log.Println("palette:", err)
			return
		}

		glib.IdleAdd(func() {
			w.palette = img
			w.withContext(func() {
				w.hud.ApplyPalette(img)
			})
		})
	}()
}

// withContext runs f with the GL area's context current.
func (w *RenderWindow) withContext(f func()) {
	if w.hud == nil {
		return
	}
	w.gla.MakeCurrent()
	f()
}

func (w *RenderWindow) glaRender(gla *gtk.GLArea) bool {
	if w.hud == nil {
		return false
	}

	gla.AttachBuffers()
	w.hud.Render()
	return true
}

func (w *RenderWindow) resize(gla *gtk.GLArea, width, height int) {
	w.width = width
	w.withContext(func() {
		w.hud.Resize(width, height)
	})
}

// pointer converts event coordinates to framebuffer pixels.
func (w *RenderWindow) pointer(x, y float64) (float64, float64) {
	scale := float64(w.gla.GetScaleFactor())
	return x * scale, y * scale
}

func (w *RenderWindow) button(gla *gtk.GLArea, event *gdk.Event) {
	button := gdk.EventButtonNewFromEvent(event)
	if button.Button() != gdk.BUTTON_PRIMARY {
		return
	}

	switch button.Type() {
	case gdk.EVENT_BUTTON_PRESS:
		x, y := w.pointer(button.X(), button.Y())
		w.withContext(func() {
			w.hud.PointerDown(x, y)
		})

	case gdk.EVENT_BUTTON_RELEASE:
		w.withContext(func() {
			w.hud.PointerUp()
		})
		w.sendView()
	}
}

func (w *RenderWindow) motion(gla *gtk.GLArea, event *gdk.Event) {
	motion := gdk.EventMotionNewFromEvent(event)
	x, y := w.pointer(motion.MotionVal())
	w.withContext(func() {
		w.hud.PointerMove(x, y)
	})
}

func (w *RenderWindow) scroll(gla *gtk.GLArea, event *gdk.Event) {
	scroll := gdk.EventScrollNewFromEvent(event)

	var deltaY float64
	switch scroll.Direction() {
	case gdk.SCROLL_UP:
		deltaY = -1
	case gdk.SCROLL_DOWN:
		deltaY = 1
	case gdk.SCROLL_SMOOTH:
		deltaY = scroll.DeltaY()
	default:
		return
	}

	w.withContext(func() {
		w.hud.Wheel(deltaY)
	})
	w.sendView()
}

func (w *RenderWindow) sendView() {
	if w.hud == nil {
		return
	}
	view := w.hud.View()
	w.messenger.Send(w.ctx, view)
}

func (w *RenderWindow) receive(msg any) {
	switch msg := msg.(type) {
	case ResetView:
		glib.IdleAdd(func() {
			w.withContext(func() {
				w.hud.SetView(msg.View)
			})
			w.sendView()
		})

	case SaveSnapshot:
		glib.IdleAdd(func() {
			if w.hud == nil {
				return
			}
			opts := SaveOptions{Name: msg.Name, Width: msg.Width, Height: msg.Height}
			buf, err := snapshotImage(w.program, w.hud.View(), w.width, w.palette, opts)
			if err != nil {
				NewErrorDialog(w.ApplicationWindow, "Could not save snapshot", err)
				return
			}
			save(w.ctx, w.ApplicationWindow, opts, buf)
		})

	case viewport.State:
		log.Println("render window received a view update")
	}
}
