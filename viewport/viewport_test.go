package viewport

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const epsilon = 1e-12

func TestWheelZoomIn(t *testing.T) {
	m := Model{State: Default()}

	m, change := Update(m, Wheel{DeltaY: -120})
	if !change.Scale() || change.Translation() {
		t.Errorf("wheel: expected scale change only, got %b", change)
	}

	if !mgl64.FloatEqualThreshold(m.State.ScaleFactor, 0.002375, epsilon) {
		t.Errorf("wheel up: expected 0.002375, got %v", m.State.ScaleFactor)
	}
}

func TestWheelSequence(t *testing.T) {
	tests := []struct {
		name    string
		out, in int
	}{
		{"none", 0, 0},
		{"out only", 7, 0},
		{"in only", 0, 9},
		{"balanced", 12, 12},
		{"mixed", 30, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := Default()
			m := Model{State: start}
			for i := 0; i < tt.out; i++ {
				m, _ = Update(m, Wheel{DeltaY: 1})
			}
			for i := 0; i < tt.in; i++ {
				m, _ = Update(m, Wheel{DeltaY: -3.5})
			}

			want := start.ScaleFactor * math.Pow(1.05, float64(tt.out)) * math.Pow(0.95, float64(tt.in))
			if !mgl64.FloatEqualThreshold(m.State.ScaleFactor, want, 1e-9) {
				t.Errorf("expected scale %v, got %v", want, m.State.ScaleFactor)
			}
			if m.State.Translation != start.Translation {
				t.Errorf("wheel moved translation to %v", m.State.Translation)
			}
		})
	}
}

func TestWheelIgnoresZeroAndNaN(t *testing.T) {
	m := Model{State: Default()}
	for _, dy := range []float64{0, math.NaN()} {
		next, change := Update(m, Wheel{DeltaY: dy})
		if change != ChangeNone {
			t.Errorf("deltaY %v: expected no change, got %b", dy, change)
		}
		if next != m {
			t.Errorf("deltaY %v: model changed to %+v", dy, next)
		}
	}
}

func TestWheelKeepsScalePositive(t *testing.T) {
	m := Model{State: State{ScaleFactor: MinScaleFactor}}
	for i := 0; i < 100; i++ {
		m, _ = Update(m, Wheel{DeltaY: -1})
	}
	if m.State.ScaleFactor <= 0 {
		t.Fatalf("scale factor reached %v", m.State.ScaleFactor)
	}
	if m.State.ScaleFactor != MinScaleFactor {
		t.Errorf("expected scale to clamp at %v, got %v", MinScaleFactor, m.State.ScaleFactor)
	}
}

func TestDragExample(t *testing.T) {
	m := Model{State: Default()}

	m, _ = Update(m, PointerDown{X: 100, Y: 100})
	m, change := Update(m, PointerMove{X: 120, Y: 90})
	if !change.Translation() || change.Scale() {
		t.Errorf("move: expected translation change only, got %b", change)
	}
	m, _ = Update(m, PointerUp{})

	want := mgl64.Vec2{-0.05, -0.025}
	if !m.State.Translation.ApproxEqualThreshold(want, epsilon) {
		t.Errorf("expected translation %v, got %v", want, m.State.Translation)
	}
	if m.Drag.Active {
		t.Error("drag still active after pointer up")
	}
	if m.Drag.Last != (mgl64.Vec2{}) {
		t.Errorf("pointer up left last position %v", m.Drag.Last)
	}
}

func TestDragScalesWithZoom(t *testing.T) {
	tests := []struct {
		scale  float64
		dx, dy float64
	}{
		{0.0025, 10, 0},
		{0.0025, 0, 10},
		{1e-6, -40, 25},
		{3, 7, -7},
	}

	for _, tt := range tests {
		m := Model{State: State{ScaleFactor: tt.scale, Translation: mgl64.Vec2{0.5, -0.25}}}
		m, _ = Update(m, PointerDown{X: 300, Y: 200})
		m, _ = Update(m, PointerMove{X: 300 + tt.dx, Y: 200 + tt.dy})

		want := mgl64.Vec2{0.5 - tt.dx*tt.scale, -0.25 + tt.dy*tt.scale}
		if !m.State.Translation.ApproxEqualThreshold(want, epsilon) {
			t.Errorf("scale %v drag (%v, %v): expected %v, got %v", tt.scale, tt.dx, tt.dy, want, m.State.Translation)
		}
	}
}

func TestDragRoundTrip(t *testing.T) {
	start := State{ScaleFactor: 0.01, Translation: mgl64.Vec2{-0.7, 0.2}}
	m := Model{State: start}

	path := [][2]float64{{50, 50}, {75, 20}, {10, 90}, {400, 300}, {50, 50}}
	m, _ = Update(m, PointerDown{X: path[0][0], Y: path[0][1]})
	for _, p := range path[1:] {
		m, _ = Update(m, PointerMove{X: p[0], Y: p[1]})
	}
	m, _ = Update(m, PointerUp{})

	if !m.State.Translation.ApproxEqualThreshold(start.Translation, 1e-9) {
		t.Errorf("closed drag moved translation from %v to %v", start.Translation, m.State.Translation)
	}
}

func TestMoveWithoutDrag(t *testing.T) {
	m := Model{State: Default()}

	next, change := Update(m, PointerMove{X: 500, Y: 500})
	if change != ChangeNone || next != m {
		t.Errorf("move while idle changed model: %+v (%b)", next, change)
	}

	m, _ = Update(m, PointerDown{X: 0, Y: 0})
	m, _ = Update(m, PointerUp{})
	next, _ = Update(m, PointerMove{X: 10, Y: 10})
	if next.State.Translation != m.State.Translation {
		t.Errorf("move after pointer up changed translation to %v", next.State.Translation)
	}
}

func TestUpdateNilEvent(t *testing.T) {
	m := Model{State: Default()}
	if next, change := Update(m, nil); next != m || change != ChangeNone {
		t.Errorf("nil event changed model: %+v (%b)", next, change)
	}
}
