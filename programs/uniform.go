package programs

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stewi1014/glmandel/viewport"
)

// Uniforms is the uniform block every program's fragment shader declares.
type Uniforms struct {
	Resolution  mgl32.Vec2 `uniform:"u_resolution"`
	ScaleFactor float32    `uniform:"scale_factor"`
	Translation mgl32.Vec2 `uniform:"translation"`
	Sampler     int32      `uniform:"u_sampler"`
}

// SetView copies view into the uniforms at shader precision.
func (u *Uniforms) SetView(view viewport.State) {
	u.ScaleFactor = float32(view.ScaleFactor)
	u.Translation = mgl32.Vec2{
		float32(view.Translation.X()),
		float32(view.Translation.Y()),
	}
}

func (u *Uniforms) SetResolution(width, height int) {
	u.Resolution = mgl32.Vec2{float32(width), float32(height)}
}
