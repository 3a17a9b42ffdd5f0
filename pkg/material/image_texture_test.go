package material

import (
	"testing"

	"github.com/mrigankad-go/phototrace/pkg/core"
)

// pixelCenterUV returns the UV that lands exactly on pixel (x, y)'s center,
// where bilinear sampling degenerates to a single-pixel lookup.
func pixelCenterUV(x, y, width, height int) core.Vec2 {
	u := (float64(x) + 0.5) / float64(width)
	v := 1.0 - (float64(y)+0.5)/float64(height)
	return core.NewVec2(u, v)
}

func TestImageTextureEvaluatePixelCenters(t *testing.T) {
	// 2x2 checkerboard: row 0 = white,black; row 1 = black,white
	pixels := []core.Vec3{
		core.NewVec3(1, 1, 1), core.NewVec3(0, 0, 0),
		core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 1),
	}
	texture := NewImageTexture(2, 2, pixels)

	cases := []struct {
		x, y int
		want core.Vec3
	}{
		{0, 0, core.NewVec3(1, 1, 1)},
		{1, 0, core.NewVec3(0, 0, 0)},
		{0, 1, core.NewVec3(0, 0, 0)},
		{1, 1, core.NewVec3(1, 1, 1)},
	}

	for _, c := range cases {
		uv := pixelCenterUV(c.x, c.y, 2, 2)
		got := texture.Evaluate(uv, core.Vec3{})
		if !got.Equals(c.want) {
			t.Errorf("pixel (%d,%d) at uv %v: got %v, want %v", c.x, c.y, uv, got, c.want)
		}
	}
}

func TestImageTextureBilinearBlend(t *testing.T) {
	// 2x1 image: black then white. Sampling exactly between the two
	// pixel centers should return the average.
	pixels := []core.Vec3{core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 1)}
	texture := NewImageTexture(2, 1, pixels)

	got := texture.Evaluate(core.NewVec2(0.5, 0.5), core.Vec3{})
	want := core.NewVec3(0.5, 0.5, 0.5)
	if !got.Equals(want) {
		t.Errorf("midpoint blend: got %v, want %v", got, want)
	}
}

func TestImageTextureWrapping(t *testing.T) {
	// Simple 1x1 red texture; every UV samples the same single pixel.
	pixels := []core.Vec3{core.NewVec3(1, 0, 0)}
	texture := NewImageTexture(1, 1, pixels)
	red := core.NewVec3(1, 0, 0)

	testCases := []core.Vec2{
		core.NewVec2(0.5, 0.5),
		core.NewVec2(1.5, 0.5),
		core.NewVec2(0.5, 1.5),
		core.NewVec2(-0.5, -0.5),
		core.NewVec2(2.3, 3.7),
	}

	for _, uv := range testCases {
		result := texture.Evaluate(uv, core.Vec3{})
		if !result.Equals(red) {
			t.Errorf("UV%v: expected %v, got %v", uv, red, result)
		}
	}
}

func TestSolidColor(t *testing.T) {
	color := core.NewVec3(0.7, 0.3, 0.1)
	solid := NewSolidColor(color)

	testCases := []struct {
		uv    core.Vec2
		point core.Vec3
	}{
		{core.NewVec2(0, 0), core.NewVec3(0, 0, 0)},
		{core.NewVec2(1, 1), core.NewVec3(5, 3, -2)},
		{core.NewVec2(0.5, 0.5), core.NewVec3(-1, -1, -1)},
	}

	for _, tc := range testCases {
		result := solid.Evaluate(tc.uv, tc.point)
		if !result.Equals(color) {
			t.Errorf("SolidColor at UV%v, Point%v: expected %v, got %v",
				tc.uv, tc.point, color, result)
		}
	}
}
