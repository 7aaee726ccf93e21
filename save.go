package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"
	"github.com/stewi1014/glmandel/programs"
	"github.com/stewi1014/glmandel/snapshot"
	"github.com/stewi1014/glmandel/viewport"
)

type SaveOptions struct {
	Name          string
	Width, Height int
}

// snapshotName is a fresh file name in dir.
func snapshotName(dir string, program string, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("%s-%s.png", program, now.Format("20060102-150405")))
}

// snapshotImage prepares view for CPU rendering at the requested size. The
// view is scaled so the snapshot shows the same region as the window.
func snapshotImage(
	program programs.Program,
	view viewport.State,
	windowWidth int,
	palette *image.NRGBA,
	opts SaveOptions,
) (*snapshot.Buffered, error) {
	if windowWidth > 0 {
		view.ScaleFactor *= float64(windowWidth) / float64(opts.Width)
	}

	img, err := program.GetImage(view, palette, opts.Width, opts.Height)
	if err != nil {
		return nil, err
	}
	return snapshot.Buffer(img), nil
}

// save writes buf to opts.Name, showing progress and then a preview.
func save(
	ctx context.Context,
	window *gtk.ApplicationWindow,
	opts SaveOptions,
	buf *snapshot.Buffered,
) {
	ctx, cancel := context.WithCancelCause(ctx)

	_, err := NewProgressDialog(
		ctx, window,
		fmt.Sprintf("Saving %v", filepath.Base(opts.Name)),
		buf.Progress,
		func() { cancel(context.Canceled) },
	)
	if err != nil {
		cancel(err)
		NewErrorDialog(window, "Could not save snapshot", err)
		return
	}

	go func() {
		err := write(ctx, cancel, opts.Name, buf)
		cancel(nil)
		if errors.Is(err, context.Canceled) {
			log.Println("snapshot cancelled")
			return
		}
		if err != nil {
			log.Println(err)
			glib.IdleAdd(func() {
				NewErrorDialog(window, "Could not save snapshot", err)
			})
			return
		}
		log.Println("saved", opts.Name)

		glib.IdleAdd(func() {
			app, err := window.GetApplication()
			if err != nil {
				log.Println(err)
				return
			}

			_, err = NewSnapshotPreview(app, opts.Name, 960, 540, func() {
				if err := os.Remove(opts.Name); err != nil {
					log.Println(err)
				}
			})
			if err != nil {
				NewErrorDialog(window, "Could not preview snapshot", err)
			}
		})
	}()
}

// write saves buf, turning a panic while rendering into an error.
func write(ctx context.Context, cancel context.CancelCauseFunc, name string, buf *snapshot.Buffered) (err error) {
	defer func() {
		if err == nil {
			err = context.Cause(ctx)
		}
	}()
	defer CatchPanicToContext(cancel)

	return snapshot.Save(ctx, name, buf)
}
