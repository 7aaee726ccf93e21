// Package hud ties pointer and wheel input to the fractal shader's uniforms.
package hud

import (
	"image"
	"log"

	"github.com/stewi1014/glmandel/gfx"
	"github.com/stewi1014/glmandel/palette"
	"github.com/stewi1014/glmandel/programs"
	"github.com/stewi1014/glmandel/shader"
	"github.com/stewi1014/glmandel/viewport"
)

const (
	uniformResolution  = "u_resolution"
	uniformScale       = "scale_factor"
	uniformTranslation = "translation"
	uniformSampler     = "u_sampler"

	attribPosition = "a_position"

	paletteUnit = 0
)

// Quad is two triangles covering clip space.
var Quad = []float32{
	-1, -1,
	1, -1,
	-1, 1,
	-1, 1,
	1, -1,
	1, 1,
}

type Options struct {
	Program programs.Program
	Width   int
	Height  int
	View    viewport.State
}

// Controller owns the view state and the GPU objects drawing it.
// It is not safe for concurrent use; call it from the GL thread.
type Controller struct {
	dev      gfx.Device
	program  gfx.Program
	binding  *shader.Binding
	quad     gfx.VertexArray
	texture  gfx.Texture
	uniforms programs.Uniforms
	model    viewport.Model
}

// New builds the shader pipeline and GPU resources. Shader errors are
// returned as *shader.CompileError or *shader.LinkError.
func New(dev gfx.Device, opts Options) (*Controller, error) {
	program, err := shader.Build(dev, opts.Program.VertexShader, opts.Program.FragmentShader)
	if err != nil {
		return nil, err
	}

	if opts.View.ScaleFactor <= 0 {
		opts.View = viewport.Default()
	}

	c := &Controller{
		dev:     dev,
		program: program,
		model:   viewport.Model{State: opts.View},
	}
	c.binding = shader.Bind(dev, program, &c.uniforms)

	attrib := dev.AttribLocation(program, attribPosition)
	if attrib < 0 {
		log.Printf("program %q has no %s attribute", opts.Program.Name, attribPosition)
		attrib = 0
	}
	c.quad = dev.NewVertexArray(uint32(attrib), 2, Quad)

	c.texture = dev.NewTexture()
	dev.TexImage(c.texture, palette.Placeholder())

	c.uniforms.Sampler = paletteUnit
	c.uniforms.SetView(c.model.State)
	c.uniforms.SetResolution(opts.Width, opts.Height)
	dev.Viewport(opts.Width, opts.Height)
	c.binding.Push(dev, &c.uniforms)

	return c, nil
}

// Handle applies an input event and pushes whichever uniform it changed.
func (c *Controller) Handle(ev viewport.Event) {
	var change viewport.Change
	c.model, change = viewport.Update(c.model, ev)
	c.push(change)
}

func (c *Controller) push(change viewport.Change) {
	if change == viewport.ChangeNone {
		return
	}

	c.uniforms.SetView(c.model.State)

	var names []string
	if change.Scale() {
		names = append(names, uniformScale)
	}
	if change.Translation() {
		names = append(names, uniformTranslation)
	}
	c.binding.Push(c.dev, &c.uniforms, names...)
}

// Wheel zooms out for positive deltaY and in for negative.
func (c *Controller) Wheel(deltaY float64) {
	c.Handle(viewport.Wheel{DeltaY: deltaY})
}

func (c *Controller) PointerDown(x, y float64) {
	c.Handle(viewport.PointerDown{X: x, Y: y})
}

func (c *Controller) PointerMove(x, y float64) {
	c.Handle(viewport.PointerMove{X: x, Y: y})
}

func (c *Controller) PointerUp() {
	c.Handle(viewport.PointerUp{})
}

// Dragging reports whether a drag is in progress.
func (c *Controller) Dragging() bool {
	return c.model.Drag.Active
}

func (c *Controller) View() viewport.State {
	return c.model.State
}

// SetView replaces the view, ending any drag.
func (c *Controller) SetView(view viewport.State) {
	if view.ScaleFactor <= 0 {
		log.Printf("ignoring view with scale factor %v", view.ScaleFactor)
		return
	}
	c.model = viewport.Model{State: view}
	c.push(viewport.ChangeScale | viewport.ChangeTranslation)
}

// Resize matches the GL viewport and u_resolution to a new surface size.
func (c *Controller) Resize(width, height int) {
	c.dev.Viewport(width, height)
	c.uniforms.SetResolution(width, height)
	c.binding.Push(c.dev, &c.uniforms, uniformResolution)
}

// ApplyPalette replaces the colour lookup texture's contents.
func (c *Controller) ApplyPalette(img *image.NRGBA) {
	if img == nil || img.Bounds().Empty() {
		return
	}
	c.dev.TexImage(c.texture, img)
}

// Render draws the quad with the current uniforms.
func (c *Controller) Render() {
	c.dev.Clear()
	c.dev.UseProgram(c.program)
	c.dev.BindTexture(paletteUnit, c.texture)
	c.dev.BindVertexArray(c.quad)
	c.dev.DrawTriangles(0, int32(len(Quad)/2))
}
