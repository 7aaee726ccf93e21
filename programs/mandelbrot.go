package programs

import (
	_ "embed"
	"image"
	"image/color"
)

//go:embed shaders/mandelbrot.frag
var mandelbrotFragment string

func init() {
	NewProgram(Program{
		Name:           "mandelbrot",
		VertexShader:   defaultVertexShader,
		FragmentShader: mandelbrotFragment,
		GetPixel: func(c complex128, palette *image.NRGBA) color.NRGBA {
			var z complex128

			iterations := 0
			for ; iterations < MaxIterations; iterations++ {
				z = z*z + c
				if real(z)*real(z)+imag(z)*imag(z) > 4 {
					break
				}
			}

			if iterations == MaxIterations {
				return NullColour
			}
			return PaletteAt(palette, float64(iterations)/MaxIterations)
		},
	})
}
