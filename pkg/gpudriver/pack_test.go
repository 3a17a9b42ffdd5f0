package gpudriver

import (
	"testing"

	"github.com/mrigankad-go/phototrace/pkg/core"
	"github.com/mrigankad-go/phototrace/pkg/geometry"
	"github.com/mrigankad-go/phototrace/pkg/material"
	"github.com/mrigankad-go/phototrace/pkg/scene"
)

func TestPackCameraHasNoLeadingCount(t *testing.T) {
	cam := scene.NewCamera(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), 40, 1, 0, 5)
	origin, lowerLeft, horizontal, vertical, lensRadius := cam.Uniform()
	buf := packCamera(CameraUniform{Origin: origin, LowerLeftCorner: lowerLeft, Horizontal: horizontal, Vertical: vertical, LensRadius: lensRadius})

	// 4 vec4-padded rows of 4 floats each = 16 floats, 64 bytes; no count prefix.
	if len(buf) != 16*4 {
		t.Fatalf("len(buf) = %d, want 64 (no leading count)", len(buf))
	}
	decoded := bytesToFloat32(buf)
	if decoded[0] != float32(origin.X) {
		t.Errorf("decoded[0] = %f, want origin.X = %f", decoded[0], origin.X)
	}
}

func TestPackSceneCountsElementsByType(t *testing.T) {
	cam := scene.NewCamera(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), 40, 1, 0, 5)
	sphereMember := scene.Member{Sphere: &scene.SphereMember{
		Center: core.NewVec3(0, 0, 0), Radius: 1,
		Albedo: material.NewSolidColor(core.NewVec3(1, 0, 0)), Mat: material.NewDescriptor(1, 0, 1),
	}}
	tri := geometry.NewFreeTriangle(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0),
		material.NewSolidColor(core.NewVec3(1, 1, 1)), material.NewDescriptor(1, 0, 1))

	sc, _, _ := scene.Build(cam, []scene.Member{sphereMember, {Static: tri}}, 0)

	buffers := PackScene(sc, RenderInfoUniform{Width: 8, Height: 8, SamplesPerPixel: 1, MaxDepth: 4})

	sphereFloats := bytesToFloat32(buffers.Spheres)
	if int(sphereFloats[0]) != 13 {
		t.Errorf("packed sphere float count = %d, want 13", int(sphereFloats[0]))
	}

	triFloats := bytesToFloat32(buffers.FreeTriangles)
	if int(triFloats[0]) != 18 {
		t.Errorf("packed free triangle float count = %d, want 18", int(triFloats[0]))
	}
}
