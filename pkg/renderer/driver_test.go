package renderer

import (
	"math"
	"testing"

	"github.com/mrigankad-go/phototrace/pkg/core"
	"github.com/mrigankad-go/phototrace/pkg/geometry"
	"github.com/mrigankad-go/phototrace/pkg/kernel"
	"github.com/mrigankad-go/phototrace/pkg/material"
	"github.com/mrigankad-go/phototrace/pkg/scene"
	"github.com/mrigankad-go/phototrace/pkg/target"
)

func whiteCubeMap(t *testing.T) *geometry.DistantCubeMap {
	t.Helper()
	white := material.NewSolidColor(core.NewVec3(1, 1, 1))
	return geometry.NewDistantCubeMap(white, white, white, white, white, white)
}

func TestRenderEmptySceneAllWhite(t *testing.T) {
	cam := scene.NewCamera(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), 40, 1, 0, 1)
	members := []scene.Member{{Static: whiteCubeMap(t)}}
	sc, world, emitters := scene.Build(cam, members, 0)

	opts := Options{Width: 8, Height: 8, Samples: 2, NumWorkers: 2, Config: kernel.DefaultConfig()}
	pixels := Render(sc, world, emitters, opts, nil, nil)

	for i, p := range pixels {
		r, g, b, a := target.Tonemap(p)
		if r != 255 || g != 255 || b != 255 || a != 255 {
			t.Fatalf("pixel %d = (%d,%d,%d,%d), want (255,255,255,255)", i, r, g, b, a)
		}
	}
}

func TestRenderRedSphereCenterPixel(t *testing.T) {
	cam := scene.NewCamera(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), 40, 1, 0, 1)
	red := material.NewSolidColor(core.NewVec3(1, 0, 0))
	mat := material.NewDescriptor(1, 0, 1)
	sphereMember := scene.Member{Sphere: &scene.SphereMember{
		Center: core.NewVec3(0, 0, 0), Radius: 1, Albedo: red, Mat: mat,
		Emissive: core.NewVec3(1, 1, 1), // stand-in light so the red sphere is actually lit
	}}
	sc, world, emitters := scene.Build(cam, []scene.Member{sphereMember}, 0)

	width, height := 64, 64
	opts := Options{Width: width, Height: height, Samples: 32, NumWorkers: 4, Config: kernel.DefaultConfig()}
	pixels := Render(sc, world, emitters, opts, nil, nil)

	center := pixels[(height/2)*width+width/2]
	if center.X <= 0 {
		t.Errorf("center pixel red channel = %f, want > 0", center.X)
	}
}

func TestRenderProgressiveMeanProperty(t *testing.T) {
	cam := scene.NewCamera(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), 40, 1, 0, 1)
	members := []scene.Member{{Static: whiteCubeMap(t)}}
	sc, world, emitters := scene.Build(cam, members, 0)

	opts := Options{Width: 4, Height: 4, Samples: 5, NumWorkers: 2, Config: kernel.DefaultConfig()}
	var lastSamplesDone int
	pixels := Render(sc, world, emitters, opts, nil, func(samplesDone int) { lastSamplesDone = samplesDone })

	if lastSamplesDone != opts.Samples {
		t.Fatalf("lastSamplesDone = %d, want %d", lastSamplesDone, opts.Samples)
	}
	for _, p := range pixels {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsNaN(p.Z) {
			t.Fatalf("pixel is NaN: %v", p)
		}
		if p.X < 0 || p.Y < 0 || p.Z < 0 {
			t.Fatalf("pixel is negative: %v", p)
		}
	}
}
