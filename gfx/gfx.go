// Package gfx is the set of graphics calls the renderer makes.
//
// Device is implemented over OpenGL by gfx/gldevice and by a recording fake in
// gfx/gfxtest. All methods must be called from the thread owning the context.
package gfx

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

type ShaderStage int

const (
	VertexShader ShaderStage = iota
	FragmentShader
)

func (s ShaderStage) String() string {
	switch s {
	case VertexShader:
		return "vertex"
	case FragmentShader:
		return "fragment"
	}
	return "unknown"
}

type (
	Shader      uint32
	Program     uint32
	VertexArray uint32
	Texture     uint32
)

type Device interface {
	CreateShader(stage ShaderStage) Shader
	ShaderSource(shader Shader, source string)
	CompileShader(shader Shader)
	ShaderCompiled(shader Shader) bool
	ShaderInfoLog(shader Shader) string
	DeleteShader(shader Shader)

	CreateProgram() Program
	AttachShader(program Program, shader Shader)
	LinkProgram(program Program)
	ProgramLinked(program Program) bool
	ProgramInfoLog(program Program) string
	UseProgram(program Program)

	UniformLocation(program Program, name string) int32
	AttribLocation(program Program, name string) int32
	Uniform1f(location int32, v float32)
	Uniform2f(location int32, v mgl32.Vec2)
	Uniform1i(location int32, v int32)

	// NewVertexArray uploads data as a static buffer and feeds it to the
	// attribute at location, size floats per vertex, tightly packed.
	NewVertexArray(location uint32, size int32, data []float32) VertexArray
	BindVertexArray(vao VertexArray)

	NewTexture() Texture
	// TexImage replaces the contents of texture with img.
	TexImage(texture Texture, img *image.NRGBA)
	BindTexture(unit int32, texture Texture)

	Viewport(width, height int)
	Clear()
	DrawTriangles(first, count int32)
}
