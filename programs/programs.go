// Package programs holds the fractal shader programs and their CPU counterparts.
package programs

import (
	_ "embed"
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stewi1014/glmandel/viewport"
)

var ErrNoCPUImplementation = errors.New("fractal does not have a CPU implementation")

// NullColour is drawn for points that never escape.
var NullColour = color.NRGBA{A: 0xff}

// MaxIterations must match MAX_ITERATIONS in the fragment shaders.
const MaxIterations = 256

//go:embed shaders/default.vert
var defaultVertexShader string

func NumPrograms() int {
	return len(programs)
}

func GetProgram(i int) Program {
	return programs[i]
}

// Lookup finds a program by name.
func Lookup(name string) (Program, error) {
	for _, p := range programs {
		if p.Name == name {
			return p, nil
		}
	}
	return Program{}, fmt.Errorf("no program named %q", name)
}

func NewProgram(p Program) error {
	if _, err := Lookup(p.Name); err == nil {
		return fmt.Errorf("program %q already registered", p.Name)
	}
	programs = append(programs, p)
	return nil
}

var programs []Program

// PixelFunc colours the point c of the complex plane using palette.
type PixelFunc func(c complex128, palette *image.NRGBA) color.NRGBA

type Program struct {
	Name           string
	VertexShader   string
	FragmentShader string
	GetPixel       PixelFunc
}

// GetImage renders view at width x height on the CPU, using the same
// pixel-to-plane mapping as the fragment shader.
func (p *Program) GetImage(view viewport.State, palette *image.NRGBA, width, height int) (image.Image, error) {
	if p.GetPixel == nil {
		return nil, ErrNoCPUImplementation
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid image size %vx%v", width, height)
	}
	if palette == nil || palette.Bounds().Empty() {
		return nil, errors.New("empty palette")
	}

	return &programImage{
		view:      view,
		palette:   palette,
		bounds:    image.Rect(0, 0, width, height),
		pixelFunc: p.GetPixel,
	}, nil
}

type programImage struct {
	view      viewport.State
	palette   *image.NRGBA
	bounds    image.Rectangle
	pixelFunc PixelFunc
}

// Point returns the plane coordinate at the centre of pixel x, y.
func (i *programImage) Point(x, y int) complex128 {
	// gl_FragCoord has its origin at the bottom left.
	frag := mgl64.Vec2{
		float64(x) + .5,
		float64(i.bounds.Dy()-y) - .5,
	}
	half := mgl64.Vec2{float64(i.bounds.Dx()), float64(i.bounds.Dy())}.Mul(.5)

	c := frag.Sub(half).Mul(i.view.ScaleFactor).Add(i.view.Translation)
	return complex(c.X(), c.Y())
}

func (i *programImage) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(i.bounds)) {
		return color.NRGBA{}
	}
	return i.pixelFunc(i.Point(x, y), i.palette)
}

func (i *programImage) Bounds() image.Rectangle {
	return i.bounds
}

func (i *programImage) ColorModel() color.Model {
	return color.NRGBAModel
}

func (i *programImage) Opaque() bool {
	return true
}

// PaletteAt returns the palette colour for normalized position t in [0, 1].
func PaletteAt(palette *image.NRGBA, t float64) color.NRGBA {
	b := palette.Bounds()
	x := int(t * float64(b.Dx()))
	if x < 0 {
		x = 0
	}
	if x >= b.Dx() {
		x = b.Dx() - 1
	}
	return palette.NRGBAAt(b.Min.X+x, b.Min.Y)
}
