package main

import (
	"context"
	"fmt"

	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"
)

const applicationID = "com.github.stewi1014.glmandel"

func NewApplication() (*Application, error) {
	app, err := gtk.ApplicationNew(applicationID, glib.APPLICATION_FLAGS_NONE)
	if err != nil {
		return nil, fmt.Errorf("gtk.ApplicationNew failed: %w", err)
	}

	a := &Application{
		Application: app,
	}

	return a, nil
}

type Application struct {
	*gtk.Application
}

func gtkMain(ctx context.Context, cfg Config) error {
	gtk.Init(nil)

	app, err := NewApplication()
	if err != nil {
		return err
	}

	appContext, appQuit := context.WithCancelCause(ctx)
	app.Connect("activate", func() {
		client, listener := NewPipeListener()

		renderWindow := NewRenderWindow(app.Application, cfg, client, appContext, appQuit)
		if renderWindow == nil {
			return
		}
		renderWindow.Connect("destroy", func() {
			appQuit(nil)
		})
		renderWindow.SetTitle(cfg.Title)

		configWindow := NewConfigWindow(app.Application, cfg, listener, appContext, appQuit)
		if configWindow == nil {
			return
		}
		configWindow.Connect("destroy", func() {
			appQuit(nil)
		})
		configWindow.SetTitle(cfg.Title + " Control")
	})

	go func() {
		<-appContext.Done()
		glib.IdleAdd(app.Quit)
	}()
	app.Run(nil)
	appQuit(nil)

	return context.Cause(appContext)
}
