// Package gfxtest provides a gfx.Device that records calls instead of drawing.
package gfxtest

import (
	"image"
	"image/draw"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stewi1014/glmandel/gfx"
)

var _ gfx.Device = (*Device)(nil)

// FailMarker in a shader source makes it fail to compile.
const FailMarker = "#error"

// Draw is one recorded DrawTriangles call.
type Draw struct {
	Program     gfx.Program
	VertexArray gfx.VertexArray
	Texture     gfx.Texture
	First       int32
	Count       int32
}

// Device is a fake GL device. Uniform and attribute names resolve to stable
// locations in the order they are first asked for, unless listed in Missing.
type Device struct {
	// LinkError, when set, makes every link fail with this log.
	LinkError string
	// Missing names resolve to -1.
	Missing map[string]bool

	Shaders  map[gfx.Shader]*Shader
	Programs map[gfx.Program][]gfx.Shader
	Deleted  []gfx.Shader

	Locations map[string]int32
	Floats    map[int32]float32
	Vec2s     map[int32]mgl32.Vec2
	Ints      map[int32]int32
	Pushes    int

	VertexArrays map[gfx.VertexArray][]float32
	Attributes   map[gfx.VertexArray]uint32
	Textures     map[gfx.Texture]*image.NRGBA
	Units        map[int32]gfx.Texture

	Width, Height int
	Clears        int
	Draws         []Draw

	next    uint32
	program gfx.Program
	vao     gfx.VertexArray
}

type Shader struct {
	Stage    gfx.ShaderStage
	Source   string
	Compiled bool
}

func New() *Device {
	return &Device{
		Missing:      make(map[string]bool),
		Shaders:      make(map[gfx.Shader]*Shader),
		Programs:     make(map[gfx.Program][]gfx.Shader),
		Locations:    make(map[string]int32),
		Floats:       make(map[int32]float32),
		Vec2s:        make(map[int32]mgl32.Vec2),
		Ints:         make(map[int32]int32),
		VertexArrays: make(map[gfx.VertexArray][]float32),
		Attributes:   make(map[gfx.VertexArray]uint32),
		Textures:     make(map[gfx.Texture]*image.NRGBA),
		Units:        make(map[int32]gfx.Texture),
	}
}

func (d *Device) id() uint32 {
	d.next++
	return d.next
}

func (d *Device) CreateShader(stage gfx.ShaderStage) gfx.Shader {
	s := gfx.Shader(d.id())
	d.Shaders[s] = &Shader{Stage: stage}
	return s
}

func (d *Device) ShaderSource(shader gfx.Shader, source string) {
	d.Shaders[shader].Source = source
}

func (d *Device) CompileShader(shader gfx.Shader) {
	s := d.Shaders[shader]
	s.Compiled = !strings.Contains(s.Source, FailMarker)
}

func (d *Device) ShaderCompiled(shader gfx.Shader) bool {
	return d.Shaders[shader].Compiled
}

func (d *Device) ShaderInfoLog(shader gfx.Shader) string {
	if d.Shaders[shader].Compiled {
		return ""
	}
	return "0:1(1): error: " + FailMarker + " directive"
}

func (d *Device) DeleteShader(shader gfx.Shader) {
	d.Deleted = append(d.Deleted, shader)
}

func (d *Device) CreateProgram() gfx.Program {
	p := gfx.Program(d.id())
	d.Programs[p] = nil
	return p
}

func (d *Device) AttachShader(program gfx.Program, shader gfx.Shader) {
	d.Programs[program] = append(d.Programs[program], shader)
}

func (d *Device) LinkProgram(program gfx.Program) {}

func (d *Device) ProgramLinked(program gfx.Program) bool {
	return d.LinkError == ""
}

func (d *Device) ProgramInfoLog(program gfx.Program) string {
	return d.LinkError
}

func (d *Device) UseProgram(program gfx.Program) {
	d.program = program
}

func (d *Device) location(name string) int32 {
	if d.Missing[name] {
		return -1
	}
	if loc, ok := d.Locations[name]; ok {
		return loc
	}
	loc := int32(len(d.Locations))
	d.Locations[name] = loc
	return loc
}

func (d *Device) UniformLocation(program gfx.Program, name string) int32 {
	return d.location(name)
}

func (d *Device) AttribLocation(program gfx.Program, name string) int32 {
	return d.location(name)
}

func (d *Device) Uniform1f(location int32, v float32) {
	if location < 0 {
		return
	}
	d.Pushes++
	d.Floats[location] = v
}

func (d *Device) Uniform2f(location int32, v mgl32.Vec2) {
	if location < 0 {
		return
	}
	d.Pushes++
	d.Vec2s[location] = v
}

func (d *Device) Uniform1i(location int32, v int32) {
	if location < 0 {
		return
	}
	d.Pushes++
	d.Ints[location] = v
}

// Float returns the value last pushed to the named float uniform.
func (d *Device) Float(name string) float32 {
	return d.Floats[d.Locations[name]]
}

// Vec2 returns the value last pushed to the named vec2 uniform.
func (d *Device) Vec2(name string) mgl32.Vec2 {
	return d.Vec2s[d.Locations[name]]
}

// Int returns the value last pushed to the named int uniform.
func (d *Device) Int(name string) int32 {
	return d.Ints[d.Locations[name]]
}

func (d *Device) NewVertexArray(location uint32, size int32, data []float32) gfx.VertexArray {
	vao := gfx.VertexArray(d.id())
	d.VertexArrays[vao] = append([]float32(nil), data...)
	d.Attributes[vao] = location
	d.vao = vao
	return vao
}

func (d *Device) BindVertexArray(vao gfx.VertexArray) {
	d.vao = vao
}

func (d *Device) NewTexture() gfx.Texture {
	t := gfx.Texture(d.id())
	d.Textures[t] = nil
	return t
}

func (d *Device) TexImage(texture gfx.Texture, img *image.NRGBA) {
	cp := image.NewNRGBA(img.Bounds())
	draw.Draw(cp, cp.Bounds(), img, img.Bounds().Min, draw.Src)
	d.Textures[texture] = cp
}

func (d *Device) BindTexture(unit int32, texture gfx.Texture) {
	d.Units[unit] = texture
}

func (d *Device) Viewport(width, height int) {
	d.Width, d.Height = width, height
}

func (d *Device) Clear() {
	d.Clears++
}

func (d *Device) DrawTriangles(first, count int32) {
	d.Draws = append(d.Draws, Draw{
		Program:     d.program,
		VertexArray: d.vao,
		Texture:     d.Units[0],
		First:       first,
		Count:       count,
	})
}
