package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"time"

	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"
	"github.com/stewi1014/glmandel/viewport"
)

// NewConfigWindow opens the control window. It talks to the render window
// through the first connection accepted from listener.
func NewConfigWindow(
	app *gtk.Application,
	cfg Config,
	listener net.Listener,
	ctx context.Context,
	quit context.CancelCauseFunc,
) *ConfigWindow {
	var err error
	w := &ConfigWindow{
		cfg:       cfg,
		ctx:       ctx,
		quit:      quit,
		connected: make(chan struct{}),
	}

	w.ApplicationWindow, err = gtk.ApplicationWindowNew(app)
	if err != nil {
		quit(fmt.Errorf("gtk.ApplicationWindowNew: %w", err))
		return nil
	}

	w.SetDefaultSize(280, 200)

	box, err := gtk.BoxNew(gtk.ORIENTATION_VERTICAL, 6)
	if err != nil {
		quit(fmt.Errorf("gtk.BoxNew: %w", err))
		return nil
	}
	box.SetMarginStart(12)
	box.SetMarginEnd(12)
	box.SetMarginTop(12)
	box.SetMarginBottom(12)

	w.scaleLabel, _ = gtk.LabelNew("")
	w.scaleLabel.SetSelectable(true)
	w.scaleLabel.SetXAlign(0)
	box.PackStart(w.scaleLabel, false, false, 0)

	w.centreLabel, _ = gtk.LabelNew("")
	w.centreLabel.SetSelectable(true)
	w.centreLabel.SetXAlign(0)
	box.PackStart(w.centreLabel, false, false, 0)

	reset, _ := gtk.ButtonNewWithLabel("Reset view")
	reset.Connect("clicked", func() {
		w.send(ResetView{View: cfg.InitialView()})
	})
	box.PackStart(reset, false, false, 0)

	snapshot, _ := gtk.ButtonNewWithLabel("Save snapshot")
	snapshot.Connect("clicked", func() {
		w.send(SaveSnapshot{
			Name:   snapshotName(cfg.SnapshotDir, cfg.Program, time.Now()),
			Width:  cfg.SnapshotWidth,
			Height: cfg.SnapshotHeight,
		})
	})
	box.PackStart(snapshot, false, false, 0)

	w.showView(cfg.InitialView())

	w.Add(box)
	w.ShowAll()

	go w.accept(listener)

	return w
}

type ConfigWindow struct {
	*gtk.ApplicationWindow
	cfg  Config
	ctx  context.Context
	quit context.CancelCauseFunc

	scaleLabel  *gtk.Label
	centreLabel *gtk.Label

	messenger *messenger
	connected chan struct{}
}

func (w *ConfigWindow) accept(listener net.Listener) {
	context.AfterFunc(w.ctx, func() {
		listener.Close()
	})

	conn, err := listener.Accept()
	if err != nil {
		if w.ctx.Err() == nil {
			w.quit(fmt.Errorf("accepting render window: %w", err))
		}
		return
	}

	w.messenger = newMessenger(w.ctx, conn, w.quit, w.receive)
	close(w.connected)
}

func (w *ConfigWindow) send(msg any) {
	select {
	case <-w.connected:
		w.messenger.Send(w.ctx, msg)
	default:
		log.Println("render window not connected yet")
	}
}

func (w *ConfigWindow) receive(msg any) {
	view, ok := msg.(viewport.State)
	if !ok {
		log.Printf("control window ignoring %T", msg)
		return
	}

	glib.IdleAdd(func() {
		w.showView(view)
	})
}

func (w *ConfigWindow) showView(view viewport.State) {
	w.scaleLabel.SetText(fmt.Sprintf("Scale: %.6g units/pixel", view.ScaleFactor))
	w.centreLabel.SetText(fmt.Sprintf("Centre: %.12g %+.12gi", view.Translation.X(), view.Translation.Y()))
}
