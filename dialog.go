package main

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"
)

// CatchPanicToContext must be deferred directly.
func CatchPanicToContext(cancel context.CancelCauseFunc) {
	v := recover()
	if v == nil {
		return
	}

	err, ok := v.(error)
	if !ok {
		err = fmt.Errorf("panic: %v", v)
	}
	cancel(fmt.Errorf("%w\n%s", err, debug.Stack()))
}

// NewErrorDialog shows err under a short heading. Must be called on the GTK thread.
func NewErrorDialog(parent gtk.IWindow, heading string, err error) *gtk.MessageDialog {
	dialog := gtk.MessageDialogNew(
		parent,
		gtk.DIALOG_DESTROY_WITH_PARENT,
		gtk.MESSAGE_ERROR,
		gtk.BUTTONS_CLOSE,
		"%s",
		heading,
	)
	dialog.FormatSecondaryText("%s", err.Error())
	dialog.SetKeepAbove(true)
	dialog.Connect("response", dialog.Destroy)

	// Let the user copy the driver log out of shader errors.
	if area, err := dialog.GetMessageArea(); err == nil {
		area.GetChildren().Foreach(func(item interface{}) {
			widget, ok := item.(*gtk.Widget)
			if !ok {
				return
			}
			if label, err := gtk.WidgetToLabel(widget); err == nil {
				label.SetSelectable(true)
			}
		})
	}

	dialog.Show()
	return dialog
}

// NewProgressDialog polls progress until ctx is done, then closes itself.
// Pressing Cancel calls onCancel; it does not close the dialog.
func NewProgressDialog(
	ctx context.Context,
	parent gtk.IWindow,
	title string,
	progress func() float64,
	onCancel func(),
) (*ProgressDialog, error) {
	var err error
	d := &ProgressDialog{progress: progress}

	d.Dialog, err = gtk.DialogNewWithButtons(
		title,
		parent,
		gtk.DIALOG_DESTROY_WITH_PARENT,
		[]interface{}{"Cancel", gtk.RESPONSE_CANCEL},
	)
	if err != nil {
		return nil, fmt.Errorf("gtk.DialogNewWithButtons: %w", err)
	}
	d.SetKeepAbove(true)
	d.Connect("response", func(_ *gtk.Dialog, response gtk.ResponseType) {
		if response == gtk.RESPONSE_CANCEL {
			onCancel()
		}
	})

	content, err := d.GetContentArea()
	if err != nil {
		return nil, fmt.Errorf("GetContentArea: %w", err)
	}

	d.bar, err = gtk.ProgressBarNew()
	if err != nil {
		return nil, fmt.Errorf("gtk.ProgressBarNew: %w", err)
	}
	d.bar.SetShowText(true)
	d.bar.SetSizeRequest(420, 48)
	content.Add(d.bar)

	d.ShowAll()
	go d.poll(ctx)
	return d, nil
}

type ProgressDialog struct {
	*gtk.Dialog
	bar      *gtk.ProgressBar
	progress func() float64
}

func (d *ProgressDialog) poll(ctx context.Context) {
	ticker := time.NewTicker(time.Second / 10)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			fraction := d.progress()
			glib.IdleAdd(func() {
				d.bar.SetFraction(fraction)
				d.bar.SetText(fmt.Sprintf("%.0f%%", fraction*100))
			})
		case <-ctx.Done():
			glib.IdleAdd(d.Destroy)
			return
		}
	}
}

// NewSnapshotPreview shows the PNG at name scaled into width x height, with a
// choice to keep or discard the file.
func NewSnapshotPreview(
	app *gtk.Application,
	name string,
	width, height int,
	discard func(),
) (*SnapshotPreview, error) {
	var err error
	w := &SnapshotPreview{}

	w.ApplicationWindow, err = gtk.ApplicationWindowNew(app)
	if err != nil {
		return nil, fmt.Errorf("gtk.ApplicationWindowNew: %w", err)
	}
	w.SetTitle(name)

	pixbuf, err := gdk.PixbufNewFromFileAtScale(name, width, height, true)
	if err != nil {
		return nil, fmt.Errorf("loading preview: %w", err)
	}

	preview, err := gtk.ImageNewFromPixbuf(pixbuf)
	if err != nil {
		return nil, fmt.Errorf("gtk.ImageNewFromPixbuf: %w", err)
	}
	preview.SetHExpand(true)
	preview.SetVExpand(true)

	keep, _ := gtk.ButtonNewWithLabel("Keep")
	keep.Connect("clicked", func() {
		w.Destroy()
	})

	remove, _ := gtk.ButtonNewWithLabel("Discard")
	remove.Connect("clicked", func() {
		discard()
		w.Destroy()
	})

	buttons, _ := gtk.ButtonBoxNew(gtk.ORIENTATION_HORIZONTAL)
	buttons.SetLayout(gtk.BUTTONBOX_END)
	buttons.SetSpacing(6)
	buttons.Add(remove)
	buttons.Add(keep)

	box, _ := gtk.BoxNew(gtk.ORIENTATION_VERTICAL, 6)
	box.PackStart(preview, true, true, 0)
	box.PackStart(buttons, false, false, 6)

	w.Add(box)
	w.ShowAll()

	return w, nil
}

type SnapshotPreview struct {
	*gtk.ApplicationWindow
}
