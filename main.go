package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
)

func init() {
	// GTK and GLFW both expect to stay on the thread that initialised them.
	runtime.LockOSThread()
}

func main() {
	cfg := DefaultConfig()
	cfg.RegisterFlags(flag.CommandLine)
	flag.Parse()

	if err := run(cfg); err != nil {
		log.Fatalln(err)
	}
}

func run(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	signalContext, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mainContext, mainQuit := context.WithCancelCause(signalContext)
	defer mainQuit(nil)

	var err error
	switch cfg.Backend {
	case BackendGLFW:
		err = glfwMain(mainContext, cfg)
	default:
		err = gtkMain(mainContext, cfg)
	}

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
