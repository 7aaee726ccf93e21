// Package palette loads the colour lookup strip sampled by the fractal shaders.
//
// Decoding happens off the GL thread; the caller uploads the result once
// Pending.Done is closed.
package palette

import (
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strings"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// MaxWidth bounds the strip width so it fits any GL texture size limit.
const MaxWidth = 4096

// Placeholder is shown until a palette has been loaded.
func Placeholder() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, color.NRGBA{B: 0xff, A: 0xff})
	return img
}

// Pending is a palette load in progress.
type Pending struct {
	done chan struct{}
	img  *image.NRGBA
	err  error
}

// Load starts loading source, which is an http(s) URL, a file path,
// or empty for the built-in gradient.
func Load(ctx context.Context, source string) *Pending {
	p := &Pending{
		done: make(chan struct{}),
	}

	go func() {
		defer close(p.done)
		p.img, p.err = load(ctx, source)
	}()

	return p
}

// Done is closed once Result is ready.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Result blocks until the load finishes.
func (p *Pending) Result() (*image.NRGBA, error) {
	<-p.done
	return p.img, p.err
}

func load(ctx context.Context, source string) (*image.NRGBA, error) {
	if source == "" {
		return Gradient(256), nil
	}

	r, err := open(ctx, source)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding palette %v: %w", source, err)
	}
	if ctx.Err() != nil {
		return nil, context.Cause(ctx)
	}

	strip := Strip(img)
	if strip == nil {
		return nil, fmt.Errorf("palette %v (%v) is empty", source, format)
	}
	return strip, nil
}

func open(ctx context.Context, source string) (io.ReadCloser, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("opening palette: %w", err)
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("palette request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching palette: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetching palette %v: %v", source, resp.Status)
	}
	return resp.Body, nil
}

// Strip reduces img to a single row, averaging each column and narrowing to MaxWidth.
// It returns nil for an empty image.
func Strip(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if b.Empty() {
		return nil
	}

	width := b.Dx()
	if width > MaxWidth {
		width = MaxWidth
	}

	dst := image.NewNRGBA(image.Rect(0, 0, width, 1))
	if b.Dy() == 1 && width == b.Dx() {
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
		return dst
	}

	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Gradient is the built-in palette: a dark blue through white to orange ramp.
func Gradient(width int) *image.NRGBA {
	stops := []struct {
		at float64
		c  color.NRGBA
	}{
		{0, color.NRGBA{0, 7, 100, 255}},
		{0.16, color.NRGBA{32, 107, 203, 255}},
		{0.42, color.NRGBA{237, 255, 255, 255}},
		{0.6425, color.NRGBA{255, 170, 0, 255}},
		{0.8575, color.NRGBA{0, 2, 0, 255}},
		{1, color.NRGBA{0, 7, 100, 255}},
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, 1))
	for x := 0; x < width; x++ {
		t := float64(x) / float64(width)

		i := 1
		for i < len(stops)-1 && stops[i].at < t {
			i++
		}
		a, b := stops[i-1], stops[i]
		f := (t - a.at) / (b.at - a.at)

		img.SetNRGBA(x, 0, color.NRGBA{
			R: lerp(a.c.R, b.c.R, f),
			G: lerp(a.c.G, b.c.G, f),
			B: lerp(a.c.B, b.c.B, f),
			A: 0xff,
		})
	}
	return img
}

func lerp(a, b uint8, f float64) uint8 {
	return uint8(float64(a)*(1-f) + float64(b)*f + .5)
}
