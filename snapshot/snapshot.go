// Package snapshot renders a view on the CPU and writes it as PNG.
package snapshot

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"sync"
	"sync/atomic"
)

const chunkSize = 50

// Buffer wraps img so its pixels can be computed up front, in parallel.
func Buffer(img image.Image) *Buffered {
	return &Buffered{
		Image:  img,
		height: img.Bounds().Dy(),
		total:  int64(img.Bounds().Dx() * img.Bounds().Dy()),
	}
}

// Buffered is an image whose pixels are computed by Render and then served from memory.
type Buffered struct {
	image.Image
	height int
	total  int64
	done   atomic.Int64
	buff   []color.Color
}

func (b *Buffered) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.Image.Bounds().Dx(), b.Image.Bounds().Dy())
}

func (b *Buffered) At(x, y int) color.Color {
	if b.buff == nil || !(image.Point{x, y}.In(b.Bounds())) {
		return color.NRGBA{}
	}
	return b.buff[x*b.height+y]
}

// Progress is the fraction of pixels rendered so far.
func (b *Buffered) Progress() float64 {
	if b.total == 0 {
		return 1
	}
	return float64(b.done.Load()) / float64(b.total)
}

// Render computes every pixel, one goroutine per column chunk.
func (b *Buffered) Render(ctx context.Context) error {
	b.buff = make([]color.Color, b.total)
	b.done.Store(0)

	min, max := b.Image.Bounds().Min, b.Image.Bounds().Max
	var wg sync.WaitGroup

	for chunkMin := min.X; chunkMin < max.X; chunkMin += chunkSize {
		chunkMax := chunkMin + chunkSize
		if chunkMax > max.X {
			chunkMax = max.X
		}

		wg.Add(1)
		go func(chunkMin, chunkMax int) {
			defer wg.Done()
			i := (chunkMin - min.X) * b.height
			for x := chunkMin; x < chunkMax; x++ {
				if ctx.Err() != nil {
					return
				}

				for y := min.Y; y < max.Y; y++ {
					b.buff[i] = b.Image.At(x, y)
					i++
				}
				b.done.Add(int64(b.height))
			}
		}(chunkMin, chunkMax)
	}

	wg.Wait()

	return context.Cause(ctx)
}

func (b *Buffered) Opaque() bool {
	return true
}

// Save renders buf and writes it to name as PNG. A partly written file is removed.
func Save(ctx context.Context, name string, buf *Buffered) (err error) {
	if err := buf.Render(ctx); err != nil {
		return fmt.Errorf("rendering snapshot: %w", err)
	}

	file, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := file.Close()
		if err == nil {
			err = closeErr
		}
		if err != nil {
			os.Remove(name)
		}
	}()

	err = png.Encode(file, buf)
	if err != nil {
		return fmt.Errorf("encoding %v: %w", name, err)
	}
	return nil
}
