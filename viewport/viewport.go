// Package viewport holds the zoom and pan state of the fractal view and the
// pure transitions that input events apply to it.
package viewport

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// ZoomStep is the fraction the scale factor changes by per wheel notch.
	ZoomStep = 0.05

	// DefaultScaleFactor is world units per pixel at startup.
	DefaultScaleFactor = 0.0025

	// MinScaleFactor keeps the scale factor positive once it reaches the shader as a float.
	MinScaleFactor = math.SmallestNonzeroFloat32
)

// State is the part of the view the shader sees.
type State struct {
	ScaleFactor float64
	Translation mgl64.Vec2
}

// Default returns the view shown at startup.
func Default() State {
	return State{
		ScaleFactor: DefaultScaleFactor,
	}
}

// Drag tracks an in-progress pointer drag.
type Drag struct {
	Active bool
	Last   mgl64.Vec2
}

// Model is everything Update needs.
type Model struct {
	State State
	Drag  Drag
}

// Change reports which uniforms a transition touched.
type Change uint8

const (
	ChangeScale Change = 1 << iota
	ChangeTranslation

	ChangeNone Change = 0
)

func (c Change) Scale() bool       { return c&ChangeScale != 0 }
func (c Change) Translation() bool { return c&ChangeTranslation != 0 }

// Event is an input stimulus.
type Event interface {
	apply(m Model) (Model, Change)
}

// Wheel is a scroll event. DeltaY follows the browser convention:
// positive scrolls toward the user and zooms out.
type Wheel struct {
	DeltaY float64
}

// PointerDown starts a drag at X, Y in window pixels.
type PointerDown struct {
	X, Y float64
}

// PointerMove moves the pointer to X, Y in window pixels.
type PointerMove struct {
	X, Y float64
}

// PointerUp ends a drag.
type PointerUp struct{}

// Update applies ev to m and returns the next model.
func Update(m Model, ev Event) (Model, Change) {
	if ev == nil {
		return m, ChangeNone
	}
	return ev.apply(m)
}

func (e Wheel) apply(m Model) (Model, Change) {
	s := sign(e.DeltaY)
	if s == 0 {
		return m, ChangeNone
	}

	m.State.ScaleFactor *= 1 + ZoomStep*s
	if m.State.ScaleFactor < MinScaleFactor {
		m.State.ScaleFactor = MinScaleFactor
	}
	return m, ChangeScale
}

func (e PointerDown) apply(m Model) (Model, Change) {
	m.Drag = Drag{
		Active: true,
		Last:   mgl64.Vec2{e.X, e.Y},
	}
	return m, ChangeNone
}

func (e PointerMove) apply(m Model) (Model, Change) {
	if !m.Drag.Active {
		return m, ChangeNone
	}

	pos := mgl64.Vec2{e.X, e.Y}
	d := pos.Sub(m.Drag.Last).Mul(m.State.ScaleFactor)
	m.Drag.Last = pos

	// Screen Y grows downward, the complex plane's imaginary axis grows upward.
	m.State.Translation = m.State.Translation.Add(mgl64.Vec2{-d.X(), d.Y()})
	return m, ChangeTranslation
}

func (e PointerUp) apply(m Model) (Model, Change) {
	m.Drag = Drag{}
	return m, ChangeNone
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
