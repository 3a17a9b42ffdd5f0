package geometry

import (
	"math/rand"
	"testing"

	"github.com/mrigankad-go/phototrace/pkg/core"
	"github.com/mrigankad-go/phototrace/pkg/material"
)

func unitMeshGroup() *MeshGroup {
	return &MeshGroup{
		MeshIndex:  0,
		GroupIndex: 0,
		Positions: []core.Vec3{
			core.NewVec3(-1, -1, 0), core.NewVec3(1, -1, 0), core.NewVec3(0, 1, 0),
		},
		Normals: []core.Vec3{
			core.NewVec3(0, 0, 1), core.NewVec3(0, 0, 1), core.NewVec3(0, 0, 1),
		},
		UVs: []core.Vec2{
			core.NewVec2(0, 0), core.NewVec2(1, 0), core.NewVec2(0.5, 1),
		},
		Indices:         []int{0, 1, 2},
		BaseColorFactor: core.NewVec3(1, 1, 1),
		Mat:             material.NewDescriptor(1, 0, 0.5),
	}
}

func TestMeshTriangleHitAndInterpolatedNormal(t *testing.T) {
	tri := NewMeshTriangle(unitMeshGroup(), 0)
	ray := core.NewRay(core.NewVec3(0, -0.5, 5), core.NewVec3(0, 0, -1))

	hit, ok := tri.Hit(ray, 0.001, 1000)
	if !ok {
		t.Fatal("expected hit")
	}

	info := tri.Info(ray, hit, rand.New(rand.NewSource(1)))
	if !info.Normal.Equals(core.NewVec3(0, 0, 1)) {
		t.Errorf("normal = %v, want flat (0,0,1)", info.Normal)
	}
}

func TestMeshTriangleBaseColorTexture(t *testing.T) {
	group := unitMeshGroup()
	group.BaseColor = material.NewSolidColor(core.NewVec3(0.5, 0.25, 0.1))
	group.BaseColorFactor = core.NewVec3(2, 2, 2)
	tri := NewMeshTriangle(group, 0)

	ray := core.NewRay(core.NewVec3(0, -0.5, 5), core.NewVec3(0, 0, -1))
	hit, _ := tri.Hit(ray, 0.001, 1000)
	info := tri.Info(ray, hit, rand.New(rand.NewSource(1)))

	want := core.NewVec3(1.0, 0.5, 0.2)
	if !info.Albedo.Equals(want) {
		t.Errorf("albedo = %v, want %v", info.Albedo, want)
	}
}

func TestMeshTriangleMetalRoughnessOverridesMaterial(t *testing.T) {
	group := unitMeshGroup()
	group.MetalRoughness = material.NewSolidColor(core.NewVec3(0, 0.3, 0.9))
	tri := NewMeshTriangle(group, 0)

	ray := core.NewRay(core.NewVec3(0, -0.5, 5), core.NewVec3(0, 0, -1))
	hit, _ := tri.Hit(ray, 0.001, 1000)
	info := tri.Info(ray, hit, rand.New(rand.NewSource(1)))

	if info.Material.Roughness != 0.3 {
		t.Errorf("roughness = %f, want 0.3", info.Material.Roughness)
	}
	if info.Material.SpecularWeight != 0.9 {
		t.Errorf("specular weight = %f, want 0.9", info.Material.SpecularWeight)
	}
}

func TestMeshTriangleBoundingBox(t *testing.T) {
	tri := NewMeshTriangle(unitMeshGroup(), 0)
	box, ok := tri.BoundingBox()
	if !ok {
		t.Fatal("mesh triangle should report a bounding box")
	}
	if box.Min.Y != -1 || box.Max.Y != 1 {
		t.Errorf("box = %v", box)
	}
}
