package palette

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()

	name := filepath.Join(t.TempDir(), "palette.png")
	f, err := os.Create(name)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return name
}

func wait(t *testing.T, p *Pending) (*image.NRGBA, error) {
	t.Helper()

	select {
	case <-p.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("palette load did not finish")
	}
	return p.Result()
}

func TestPlaceholder(t *testing.T) {
	p := Placeholder()
	if p.Bounds() != image.Rect(0, 0, 1, 1) {
		t.Fatalf("expected 1x1 placeholder, got %v", p.Bounds())
	}
	if p.NRGBAAt(0, 0).A != 0xff {
		t.Errorf("placeholder is not opaque: %v", p.NRGBAAt(0, 0))
	}
}

func TestLoadBuiltin(t *testing.T) {
	img, err := wait(t, Load(context.Background(), ""))
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dy() != 1 || img.Bounds().Dx() != 256 {
		t.Errorf("expected 256x1 gradient, got %v", img.Bounds())
	}
}

func TestLoadFile(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	src.SetNRGBA(1, 0, color.NRGBA{G: 255, A: 255})
	src.SetNRGBA(2, 0, color.NRGBA{B: 255, A: 255})

	img, err := wait(t, Load(context.Background(), writePNG(t, src)))
	if err != nil {
		t.Fatal(err)
	}

	if img.Bounds() != image.Rect(0, 0, 3, 1) {
		t.Fatalf("expected 3x1 strip, got %v", img.Bounds())
	}
	for x := 0; x < 3; x++ {
		if img.NRGBAAt(x, 0) != src.NRGBAAt(x, 0) {
			t.Errorf("texel %d: expected %v, got %v", x, src.NRGBAAt(x, 0), img.NRGBAAt(x, 0))
		}
	}
}

func TestLoadURL(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			src.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 30), A: 255})
		}
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/palette.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		png.Encode(w, src)
	}))
	defer srv.Close()

	img, err := wait(t, Load(context.Background(), srv.URL+"/palette.png"))
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != image.Rect(0, 0, 8, 1) {
		t.Fatalf("expected 8x1 strip, got %v", img.Bounds())
	}

	_, err = wait(t, Load(context.Background(), srv.URL+"/missing.png"))
	if err == nil {
		t.Error("expected error for 404")
	}
}

func TestLoadErrors(t *testing.T) {
	notImage := filepath.Join(t.TempDir(), "palette.txt")
	if err := os.WriteFile(notImage, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, source := range []string{
		filepath.Join(t.TempDir(), "missing.png"),
		notImage,
	} {
		img, err := wait(t, Load(context.Background(), source))
		if err == nil {
			t.Errorf("%v: expected error", source)
		}
		if img != nil {
			t.Errorf("%v: expected no image on error", source)
		}
	}
}

func TestStrip(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2*MaxWidth, 4))
	for x := 0; x < src.Bounds().Dx(); x++ {
		for y := 0; y < 4; y++ {
			src.SetNRGBA(x, y, color.NRGBA{G: 200, A: 255})
		}
	}

	strip := Strip(src)
	if strip.Bounds() != image.Rect(0, 0, MaxWidth, 1) {
		t.Fatalf("expected %dx1, got %v", MaxWidth, strip.Bounds())
	}
	if c := strip.NRGBAAt(MaxWidth/2, 0); c.R != 0 || c.B != 0 || c.G < 199 || c.G > 201 || c.A < 254 {
		t.Errorf("uniform image changed colour to %v", c)
	}

	if Strip(image.NewNRGBA(image.Rectangle{})) != nil {
		t.Error("expected nil strip for empty image")
	}
}

func TestGradientEndpoints(t *testing.T) {
	g := Gradient(100)
	if got := g.NRGBAAt(0, 0); got != (color.NRGBA{0, 7, 100, 255}) {
		t.Errorf("gradient start: got %v", got)
	}
	for x := 0; x < 100; x++ {
		if g.NRGBAAt(x, 0).A != 0xff {
			t.Fatalf("texel %d not opaque", x)
		}
	}
}
