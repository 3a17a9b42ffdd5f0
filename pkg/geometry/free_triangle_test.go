package geometry

import (
	"math/rand"
	"testing"

	"github.com/mrigankad-go/phototrace/pkg/core"
	"github.com/mrigankad-go/phototrace/pkg/material"
)

func TestFreeTriangleHit(t *testing.T) {
	tri := NewFreeTriangle(
		core.NewVec3(-1, -1, 0), core.NewVec3(1, -1, 0), core.NewVec3(0, 1, 0),
		material.NewSolidColor(core.NewVec3(1, 1, 1)), material.NewDescriptor(1, 0, 0.5))

	ray := core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1))
	hit, ok := tri.Hit(ray, 0.001, 1000)
	if !ok {
		t.Fatal("expected hit through triangle center")
	}
	if hit.T < 4.9 || hit.T > 5.1 {
		t.Errorf("T = %f, want ~5", hit.T)
	}
}

func TestFreeTriangleMissOutsideEdges(t *testing.T) {
	tri := NewFreeTriangle(
		core.NewVec3(-1, -1, 0), core.NewVec3(1, -1, 0), core.NewVec3(0, 1, 0),
		material.NewSolidColor(core.NewVec3(1, 1, 1)), material.NewDescriptor(1, 0, 0.5))

	ray := core.NewRay(core.NewVec3(5, 5, 5), core.NewVec3(0, 0, -1))
	if _, ok := tri.Hit(ray, 0.001, 1000); ok {
		t.Error("expected no hit outside the triangle")
	}
}

func TestFreeTriangleFaceNormal(t *testing.T) {
	tri := NewFreeTriangle(
		core.NewVec3(-1, -1, 0), core.NewVec3(1, -1, 0), core.NewVec3(0, 1, 0),
		material.NewSolidColor(core.NewVec3(1, 1, 1)), material.NewDescriptor(1, 0, 0.5))

	ray := core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1))
	hit, _ := tri.Hit(ray, 0.001, 1000)
	info := tri.Info(ray, hit, rand.New(rand.NewSource(1)))

	if info.Normal.Dot(core.NewVec3(0, 0, 1)) <= 0 {
		t.Errorf("normal %v should face the incoming ray", info.Normal)
	}
	if info.Reflects == false {
		t.Error("free triangle should reflect")
	}
}

func TestFreeTriangleParallelRayMisses(t *testing.T) {
	tri := NewFreeTriangle(
		core.NewVec3(-1, -1, 0), core.NewVec3(1, -1, 0), core.NewVec3(0, 1, 0),
		material.NewSolidColor(core.NewVec3(1, 1, 1)), material.NewDescriptor(1, 0, 0.5))

	ray := core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(1, 0, 0))
	if _, ok := tri.Hit(ray, 0.001, 1000); ok {
		t.Error("expected no hit for a ray parallel to the triangle's plane")
	}
}
