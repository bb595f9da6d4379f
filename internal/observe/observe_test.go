package observe

import (
	"image"
	"image/color"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/IllumuIll/rescue-ai/internal/config"
	"github.com/IllumuIll/rescue-ai/internal/render"
	"github.com/IllumuIll/rescue-ai/internal/sim"
)

func quietWorld(cfg config.RescueConfig) *sim.World {
	cfg.Asteroids.Count = 0
	w := sim.NewWorld(cfg)
	w.Reset(1)

	p := w.Physics()
	p.Teleport(w.Rescuer(), r2.Vec{X: 256, Y: 128})
	p.Teleport(w.Target(), r2.Vec{X: 64, Y: 448})
	p.Teleport(w.Mothership(), r2.Vec{X: 448, Y: 64})
	return w
}

func TestNumericUsesTargetBeforePickup(t *testing.T) {
	cfg := config.DefaultRescueConfig()
	w := quietWorld(cfg)
	b := NewBuilder(cfg, nil)

	got := b.Numeric(w)
	expected := [4]float64{64.0 / 512, 448.0 / 512, 256.0 / 512, 128.0 / 512}
	for i := range expected {
		if math.Abs(got[i]-expected[i]) > 1e-12 {
			t.Errorf("Numeric()[%d] = %g, expected %g", i, got[i], expected[i])
		}
	}
}

func TestNumericUsesMothershipWhileCarrying(t *testing.T) {
	cfg := config.DefaultRescueConfig()
	w := quietWorld(cfg)
	rescuer := w.Rescuer()

	// Drive the rescuer into the target
	w.Physics().Teleport(w.Target(), r2.Vec{X: rescuer.Pos.X + 40, Y: rescuer.Pos.Y})
	for i := 0; i < 5 && !rescuer.Rescuer.CarriesResource; i++ {
		w.Step()
	}
	if !rescuer.Rescuer.CarriesResource {
		t.Fatal("setup: rescuer should carry the resource")
	}

	got := NewBuilder(cfg, nil).Numeric(w)
	if math.Abs(got[0]-448.0/512) > 1e-12 || math.Abs(got[1]-64.0/512) > 1e-12 {
		t.Errorf("goal = (%g, %g), expected the mothership", got[0], got[1])
	}
}

// The y coordinates are divided by the width, not the height. On a
// non-square field this is visible in the result.
func TestNumericDividesYByWidth(t *testing.T) {
	cfg := config.DefaultRescueConfig()
	cfg.World.Width = 1024
	w := quietWorld(cfg)

	got := NewBuilder(cfg, nil).Numeric(w)
	if math.Abs(got[3]-128.0/1024) > 1e-12 {
		t.Errorf("rescuer y = %g, expected 128/1024 (width divisor)", got[3])
	}
	if math.Abs(got[3]-128.0/512) < 1e-12 {
		t.Error("rescuer y was divided by the height")
	}
}

func TestBuildImageShapeAndRange(t *testing.T) {
	cfg := config.DefaultRescueConfig()
	w := quietWorld(cfg)
	obs := NewBuilder(cfg, render.NewCanvas(512, 512)).Build(w)

	rows, cols := obs.Image.Dims()
	if rows != 300 || cols != 300 {
		t.Fatalf("image dims = %dx%d, expected 300x300", rows, cols)
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if v := obs.Image.At(i, j); v < 0 || v > 1 {
				t.Fatalf("pixel (%d, %d) = %g outside [0, 1]", i, j, v)
			}
		}
	}

	// The rescuer sits at the centre of the patch
	if v := obs.Image.At(150, 150); v == 0 {
		t.Error("patch centre should show the rescuer")
	}
	// Rescuer y = 128, so the bottom 22 rows lie below the playfield
	if v := obs.Image.At(299, 150); v != 0 {
		t.Errorf("pixel below the playfield = %g, expected 0", v)
	}
}

// stripes renders a frame whose gray level encodes the image row.
type stripes struct{ size int }

func (s stripes) Frame(*sim.World) image.Image {
	img := image.NewGray(image.Rect(0, 0, s.size, s.size))
	for y := 0; y < s.size; y++ {
		for x := 0; x < s.size; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(y % 256)})
		}
	}
	return img
}

func TestCropOrientation(t *testing.T) {
	cfg := config.DefaultRescueConfig()
	cfg.Observation.PatchSize = 4
	w := quietWorld(cfg)
	b := NewBuilder(cfg, stripes{size: 512})

	dst := b.Build(w).Image
	// Rescuer at y = 128: patch covers world rows 126..129, image rows 382..385
	for i := 0; i < 4; i++ {
		expected := float64((382+i)%256) / 255
		if got := dst.At(i, 0); math.Abs(got-expected) > 1e-12 {
			t.Errorf("row %d = %g, expected %g", i, got, expected)
		}
	}
}

func TestBuildWithoutRenderer(t *testing.T) {
	cfg := config.DefaultRescueConfig()
	obs := NewBuilder(cfg, nil).Build(quietWorld(cfg))
	if rows, cols := obs.Image.Dims(); rows != 300 || cols != 300 {
		t.Errorf("image dims = %dx%d, expected 300x300", rows, cols)
	}
}
