package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/mrigankad-go/phototrace/pkg/core"
	"github.com/mrigankad-go/phototrace/pkg/material"
)

func solidCubeMap() *DistantCubeMap {
	return NewDistantCubeMap(
		material.NewSolidColor(core.NewVec3(1, 0, 0)), // +X
		material.NewSolidColor(core.NewVec3(0, 1, 0)), // -X
		material.NewSolidColor(core.NewVec3(0, 0, 1)), // +Y
		material.NewSolidColor(core.NewVec3(1, 1, 0)), // -Y
		material.NewSolidColor(core.NewVec3(0, 1, 1)), // +Z
		material.NewSolidColor(core.NewVec3(1, 0, 1)), // -Z
	)
}

func TestDistantCubeMapAlwaysHits(t *testing.T) {
	cm := solidCubeMap()
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(1, 2, -3))
	hit, ok := cm.Hit(ray, 0.001, math.MaxFloat64)
	if !ok {
		t.Fatal("distant cube map should always hit")
	}
	if hit.T <= 1e100 {
		t.Errorf("expected an effectively-infinite T, got %f", hit.T)
	}
}

func TestDistantCubeMapFaceSelection(t *testing.T) {
	cm := solidCubeMap()
	cases := []struct {
		dir  core.Vec3
		want core.Vec3
	}{
		{core.NewVec3(1, 0, 0), core.NewVec3(1, 0, 0)},
		{core.NewVec3(-1, 0, 0), core.NewVec3(0, 1, 0)},
		{core.NewVec3(0, 1, 0), core.NewVec3(0, 0, 1)},
		{core.NewVec3(0, -1, 0), core.NewVec3(1, 1, 0)},
		{core.NewVec3(0, 0, 1), core.NewVec3(0, 1, 1)},
		{core.NewVec3(0, 0, -1), core.NewVec3(1, 0, 1)},
	}

	for _, c := range cases {
		ray := core.NewRay(core.NewVec3(0, 0, 0), c.dir)
		hit, _ := cm.Hit(ray, 0.001, math.MaxFloat64)
		info := cm.Info(ray, hit, rand.New(rand.NewSource(1)))
		if !info.Emissive.Equals(c.want) {
			t.Errorf("direction %v: emissive = %v, want %v", c.dir, info.Emissive, c.want)
		}
	}
}

func TestDistantCubeMapNeverReflects(t *testing.T) {
	cm := solidCubeMap()
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0))
	hit, _ := cm.Hit(ray, 0.001, math.MaxFloat64)
	info := cm.Info(ray, hit, rand.New(rand.NewSource(1)))
	if info.Reflects {
		t.Error("distant cube map must never reflect")
	}
}

func TestDistantCubeMapHasNoBoundingBox(t *testing.T) {
	cm := solidCubeMap()
	if _, ok := cm.BoundingBox(); ok {
		t.Error("distant cube map must report no bounding box")
	}
}
