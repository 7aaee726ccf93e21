package main

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"reflect"
	"sync"

	"github.com/stewi1014/glmandel/viewport"
)

func init() {
	gob.Register(viewport.State{})
	gob.Register(ResetView{})
	gob.Register(SaveSnapshot{})
}

// ResetView asks the render window to show View.
type ResetView struct {
	View viewport.State
}

// SaveSnapshot asks the render window to write the current view to Name.
type SaveSnapshot struct {
	Name          string
	Width, Height int
}

func NewPipeListener() (client net.Conn, listener net.Listener) {
	clientPipe, listenerPipe := net.Pipe()
	return clientPipe, &pipeListener{
		pipe: listenerPipe,
		done: make(chan struct{}),
	}
}

// pipeListener hands out one end of a net.Pipe to the first Accept.
type pipeListener struct {
	mu     sync.Mutex
	pipe   net.Conn
	done   chan struct{}
	closed bool
}

func (p *pipeListener) Accept() (net.Conn, error) {
	p.mu.Lock()
	if !p.closed && p.pipe != nil {
		pipe := p.pipe
		p.pipe = nil
		p.mu.Unlock()
		return pipe, nil
	}
	p.mu.Unlock()

	<-p.done
	return nil, net.ErrClosed
}

func (p *pipeListener) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	close(p.done)

	if p.pipe != nil {
		return p.pipe.Close()
	}
	return nil
}

func (p *pipeListener) Addr() net.Addr {
	return pipeAddr{}
}

type pipeAddr struct{}

func (pipeAddr) Network() string { return "pipe" }
func (pipeAddr) String() string  { return "pipe" }

const sendBuffer = 16

// messenger exchanges gob encoded messages over conn until ctx is done.
// receive is called from a background goroutine.
type messenger struct {
	send chan any
}

func newMessenger(
	ctx context.Context,
	conn net.Conn,
	quit context.CancelCauseFunc,
	receive func(msg any),
) *messenger {
	m := &messenger{
		send: make(chan any, sendBuffer),
	}

	context.AfterFunc(ctx, func() {
		conn.Close()
	})

	go m.handleSend(ctx, conn, quit)
	go m.handleReceive(ctx, conn, quit, receive)
	return m
}

// Send queues msg, giving up if ctx is done first.
func (m *messenger) Send(ctx context.Context, msg any) {
	select {
	case m.send <- msg:
	case <-ctx.Done():
	}
}

func (m *messenger) handleSend(ctx context.Context, conn net.Conn, quit context.CancelCauseFunc) {
	defer CatchPanicToContext(quit)
	enc := gob.NewEncoder(conn)

	for {
		select {
		case msg := <-m.send:
			err := enc.Encode(&msg)
			if err != nil {
				if ctx.Err() == nil {
					quit(fmt.Errorf("sending %v: %w", reflect.TypeOf(msg), err))
				}
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (m *messenger) handleReceive(
	ctx context.Context,
	conn net.Conn,
	quit context.CancelCauseFunc,
	receive func(msg any),
) {
	defer CatchPanicToContext(quit)
	dec := gob.NewDecoder(conn)

	for {
		var v any
		err := dec.Decode(&v)
		if err != nil {
			if ctx.Err() == nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrClosedPipe) {
				quit(fmt.Errorf("receiving message: %w", err))
			}
			return
		}

		switch v.(type) {
		case viewport.State, ResetView, SaveSnapshot:
			receive(v)
		default:
			log.Println("unknown message received", reflect.TypeOf(v))
		}
	}
}
