// Package gldevice implements gfx.Device with OpenGL 4.6 core.
package gldevice

import (
	"fmt"
	"image"
	"log"
	"runtime"
	"strings"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stewi1014/glmandel/gfx"
)

var _ gfx.Device = (*Device)(nil)

type Device struct{}

// New loads the GL function pointers for the current context.
// With debug set, driver messages are logged.
func New(debug bool) (*Device, error) {
	err := gl.Init()
	if err != nil {
		return nil, fmt.Errorf("gl.Init: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	log.Println("OpenGL version", version)

	if debug {
		gl.DebugMessageCallback(debugMessage, nil)
		gl.Enable(gl.DEBUG_OUTPUT)
	}

	gl.ClearColor(0, 0, 0, 1)
	return &Device{}, nil
}

func (d *Device) CreateShader(stage gfx.ShaderStage) gfx.Shader {
	switch stage {
	case gfx.VertexShader:
		return gfx.Shader(gl.CreateShader(gl.VERTEX_SHADER))
	case gfx.FragmentShader:
		return gfx.Shader(gl.CreateShader(gl.FRAGMENT_SHADER))
	}
	return 0
}

func (d *Device) ShaderSource(shader gfx.Shader, source string) {
	defer runtime.KeepAlive(source)
	cstring, free := gl.Strs(source + "\x00")
	defer free()

	gl.ShaderSource(uint32(shader), 1, cstring, nil)
}

func (d *Device) CompileShader(shader gfx.Shader) {
	gl.CompileShader(uint32(shader))
}

func (d *Device) ShaderCompiled(shader gfx.Shader) bool {
	var status int32
	gl.GetShaderiv(uint32(shader), gl.COMPILE_STATUS, &status)
	return status != gl.FALSE
}

func (d *Device) ShaderInfoLog(shader gfx.Shader) string {
	var l int32
	gl.GetShaderiv(uint32(shader), gl.INFO_LOG_LENGTH, &l)

	log := strings.Repeat("\x00", int(l+1))
	gl.GetShaderInfoLog(uint32(shader), l, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (d *Device) DeleteShader(shader gfx.Shader) {
	gl.DeleteShader(uint32(shader))
}

func (d *Device) CreateProgram() gfx.Program {
	return gfx.Program(gl.CreateProgram())
}

func (d *Device) AttachShader(program gfx.Program, shader gfx.Shader) {
	gl.AttachShader(uint32(program), uint32(shader))
}

func (d *Device) LinkProgram(program gfx.Program) {
	gl.LinkProgram(uint32(program))
}

func (d *Device) ProgramLinked(program gfx.Program) bool {
	var status int32
	gl.GetProgramiv(uint32(program), gl.LINK_STATUS, &status)
	return status != gl.FALSE
}

func (d *Device) ProgramInfoLog(program gfx.Program) string {
	var l int32
	gl.GetProgramiv(uint32(program), gl.INFO_LOG_LENGTH, &l)

	log := strings.Repeat("\x00", int(l+1))
	gl.GetProgramInfoLog(uint32(program), l, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (d *Device) UseProgram(program gfx.Program) {
	gl.UseProgram(uint32(program))
}

func (d *Device) UniformLocation(program gfx.Program, name string) int32 {
	return gl.GetUniformLocation(uint32(program), gl.Str(name+"\x00"))
}

func (d *Device) AttribLocation(program gfx.Program, name string) int32 {
	return gl.GetAttribLocation(uint32(program), gl.Str(name+"\x00"))
}

func (d *Device) Uniform1f(location int32, v float32) {
	gl.Uniform1f(location, v)
}

func (d *Device) Uniform2f(location int32, v mgl32.Vec2) {
	gl.Uniform2fv(location, 1, &v[0])
}

func (d *Device) Uniform1i(location int32, v int32) {
	gl.Uniform1i(location, v)
}

func (d *Device) NewVertexArray(location uint32, size int32, data []float32) gfx.VertexArray {
	var vao, vbo uint32

	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)

	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)

	gl.EnableVertexAttribArray(location)
	gl.VertexAttribPointerWithOffset(location, size, gl.FLOAT, false, 0, 0)

	return gfx.VertexArray(vao)
}

func (d *Device) BindVertexArray(vao gfx.VertexArray) {
	gl.BindVertexArray(uint32(vao))
}

func (d *Device) NewTexture() gfx.Texture {
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	return gfx.Texture(id)
}

func (d *Device) TexImage(texture gfx.Texture, img *image.NRGBA) {
	b := img.Bounds()
	if b.Empty() {
		return
	}

	gl.BindTexture(gl.TEXTURE_2D, uint32(texture))
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		gl.RGBA8,
		int32(b.Dx()),
		int32(b.Dy()),
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		gl.Ptr(img.Pix[img.PixOffset(b.Min.X, b.Min.Y):]),
	)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
}

func (d *Device) BindTexture(unit int32, texture gfx.Texture) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, uint32(texture))
}

func (d *Device) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (d *Device) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (d *Device) DrawTriangles(first, count int32) {
	gl.DrawArrays(gl.TRIANGLES, first, count)
}
