// Package shader compiles and links GLSL programs and binds uniform structs to them.
package shader

import (
	"fmt"

	"github.com/stewi1014/glmandel/gfx"
)

// CompileError is returned when a shader stage fails to compile.
type CompileError struct {
	Stage gfx.ShaderStage
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%v shader failed to compile: %v", e.Stage, e.Log)
}

// LinkError is returned when a program fails to link.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("failed to link program: %v", e.Log)
}

// Compile compiles source for stage.
func Compile(dev gfx.Device, source string, stage gfx.ShaderStage) (gfx.Shader, error) {
	shader := dev.CreateShader(stage)
	dev.ShaderSource(shader, source)
	dev.CompileShader(shader)

	if !dev.ShaderCompiled(shader) {
		log := dev.ShaderInfoLog(shader)
		dev.DeleteShader(shader)
		return 0, &CompileError{Stage: stage, Log: log}
	}

	return shader, nil
}

// Link links a vertex and fragment shader into a program.
func Link(dev gfx.Device, vertex, fragment gfx.Shader) (gfx.Program, error) {
	program := dev.CreateProgram()
	dev.AttachShader(program, vertex)
	dev.AttachShader(program, fragment)
	dev.LinkProgram(program)

	if !dev.ProgramLinked(program) {
		return 0, &LinkError{Log: dev.ProgramInfoLog(program)}
	}

	return program, nil
}

// Build compiles both stages and links them. The stage objects are released
// once the program is linked.
func Build(dev gfx.Device, vertexSource, fragmentSource string) (gfx.Program, error) {
	vertex, err := Compile(dev, vertexSource, gfx.VertexShader)
	if err != nil {
		return 0, err
	}
	defer dev.DeleteShader(vertex)

	fragment, err := Compile(dev, fragmentSource, gfx.FragmentShader)
	if err != nil {
		return 0, err
	}
	defer dev.DeleteShader(fragment)

	return Link(dev, vertex, fragment)
}
