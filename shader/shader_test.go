package shader

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stewi1014/glmandel/gfx"
	"github.com/stewi1014/glmandel/gfx/gfxtest"
)

const (
	vertexSource   = "in vec2 a_position;\nvoid main() { gl_Position = vec4(a_position, 0, 1); }"
	fragmentSource = "out vec4 c;\nvoid main() { c = vec4(1); }"
)

func TestBuild(t *testing.T) {
	dev := gfxtest.New()

	program, err := Build(dev, vertexSource, fragmentSource)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	shaders := dev.Programs[program]
	if len(shaders) != 2 {
		t.Fatalf("expected 2 attached shaders, got %d", len(shaders))
	}
	if dev.Shaders[shaders[0]].Stage != gfx.VertexShader || dev.Shaders[shaders[1]].Stage != gfx.FragmentShader {
		t.Errorf("shaders attached in wrong order")
	}
	if dev.Shaders[shaders[0]].Source != vertexSource {
		t.Errorf("vertex source not passed through unchanged")
	}
	if len(dev.Deleted) != 2 {
		t.Errorf("expected both stage objects released, got %v", dev.Deleted)
	}
}

func TestCompileError(t *testing.T) {
	tests := []struct {
		name     string
		vertex   string
		fragment string
		stage    gfx.ShaderStage
	}{
		{"vertex", gfxtest.FailMarker, fragmentSource, gfx.VertexShader},
		{"fragment", vertexSource, "void main() {}\n" + gfxtest.FailMarker, gfx.FragmentShader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := gfxtest.New()

			_, err := Build(dev, tt.vertex, tt.fragment)
			var compileErr *CompileError
			if !errors.As(err, &compileErr) {
				t.Fatalf("expected CompileError, got %v", err)
			}
			if compileErr.Stage != tt.stage {
				t.Errorf("expected %v stage, got %v", tt.stage, compileErr.Stage)
			}
			if !strings.Contains(compileErr.Log, gfxtest.FailMarker) {
				t.Errorf("driver log not carried: %q", compileErr.Log)
			}
			if len(dev.Programs) != 0 {
				t.Errorf("program created after compile failure")
			}
		})
	}
}

func TestLinkError(t *testing.T) {
	dev := gfxtest.New()
	dev.LinkError = "error: vertex output 'v_uv' not read by fragment shader"

	_, err := Build(dev, vertexSource, fragmentSource)
	var linkErr *LinkError
	if !errors.As(err, &linkErr) {
		t.Fatalf("expected LinkError, got %v", err)
	}
	if linkErr.Log != dev.LinkError {
		t.Errorf("expected log %q, got %q", dev.LinkError, linkErr.Log)
	}
	if !strings.Contains(err.Error(), "v_uv") {
		t.Errorf("error message dropped the driver log: %v", err)
	}
}

type testUniforms struct {
	Scale   float32    `uniform:"scale"`
	Offset  mgl32.Vec2 `uniform:"offset"`
	Sampler int32      `uniform:"sampler"`
	Skipped float32
}

func TestBindingPush(t *testing.T) {
	dev := gfxtest.New()
	program, err := Build(dev, vertexSource, fragmentSource)
	if err != nil {
		t.Fatal(err)
	}

	u := testUniforms{Scale: 2, Offset: mgl32.Vec2{3, 4}, Sampler: 1, Skipped: 9}
	b := Bind(dev, program, &u)

	if len(dev.Locations) != 3 {
		t.Errorf("expected 3 resolved uniforms, got %v", dev.Locations)
	}
	if b.Location("Skipped") != -1 || b.Location("nope") != -1 {
		t.Errorf("untagged fields should not resolve")
	}

	b.Push(dev, &u)
	if dev.Float("scale") != 2 || dev.Vec2("offset") != (mgl32.Vec2{3, 4}) || dev.Int("sampler") != 1 {
		t.Errorf("push all: got scale %v offset %v sampler %v", dev.Float("scale"), dev.Vec2("offset"), dev.Int("sampler"))
	}
	if dev.Pushes != 3 {
		t.Errorf("expected 3 uniform uploads, got %d", dev.Pushes)
	}

	u.Scale = 5
	u.Offset = mgl32.Vec2{-1, -1}
	b.Push(dev, u, "scale")
	if dev.Float("scale") != 5 {
		t.Errorf("expected scale 5, got %v", dev.Float("scale"))
	}
	if dev.Vec2("offset") != (mgl32.Vec2{3, 4}) {
		t.Errorf("offset pushed without being named")
	}
	if dev.Pushes != 4 {
		t.Errorf("expected 4 uniform uploads, got %d", dev.Pushes)
	}
}

func TestBindingResolvesOnce(t *testing.T) {
	dev := gfxtest.New()
	dev.Missing["offset"] = true
	program, err := Build(dev, vertexSource, fragmentSource)
	if err != nil {
		t.Fatal(err)
	}

	u := testUniforms{Offset: mgl32.Vec2{1, 1}}
	b := Bind(dev, program, u)
	if b.Location("offset") != -1 {
		t.Errorf("missing uniform resolved to %d", b.Location("offset"))
	}

	delete(dev.Missing, "offset")
	b.Push(dev, u, "offset")
	if _, ok := dev.Locations["offset"]; ok {
		t.Errorf("uniform location re-resolved on push")
	}
}
