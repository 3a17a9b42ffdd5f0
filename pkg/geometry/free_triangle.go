package geometry

import (
	"math"
	"math/rand"

	"github.com/mrigankad-go/phototrace/pkg/core"
	"github.com/mrigankad-go/phototrace/pkg/material"
)

// FreeTriangle is a standalone triangle with a single flat face normal, as
// opposed to a MeshTriangle sourced from a glTF primitive group.
type FreeTriangle struct {
	V0, V1, V2 core.Vec3
	Normal     core.Vec3 // unit face normal, cross(edge1, edge2) direction
	Albedo     material.ColorSource
	Mat        material.Descriptor
	bbox       core.AABB
}

// NewFreeTriangle builds a triangle from three vertices, deriving the face
// normal from winding order.
func NewFreeTriangle(v0, v1, v2 core.Vec3, albedo material.ColorSource, mat material.Descriptor) *FreeTriangle {
	normal := v1.Subtract(v0).Cross(v2.Subtract(v0)).Normalize()
	return &FreeTriangle{
		V0: v0, V1: v1, V2: v2,
		Normal: normal,
		Albedo: albedo,
		Mat:    mat,
		bbox:   core.NewAABBFromPoints(v0, v1, v2),
	}
}

// Hit implements Möller–Trumbore with Cramer's rule.
func (t *FreeTriangle) Hit(ray core.Ray, tMin, tMax float64) (Hit, bool) {
	return intersectTriangle(ray, t.V0, t.V1, t.V2, tMin, tMax)
}

// Info returns the flat face normal and the albedo sampled at the
// barycentric coordinates carried by hit (a free triangle has no
// per-vertex UV channel, so barycentrics double as UV).
func (t *FreeTriangle) Info(ray core.Ray, hit Hit, random *rand.Rand) Info {
	point := ray.At(hit.T)
	uv := core.NewVec2(hit.U, hit.V)

	return Info{
		Point:       point,
		Normal:      faceNormal(ray, t.Normal),
		Albedo:      t.Albedo.Evaluate(uv, point),
		Material:    t.Mat,
		Seed:        t.Mat.GenerateSeed(random),
		DLSEligible: false,
		Reflects:    true,
	}
}

// BoundingBox returns the triangle's axis-aligned bounding box.
func (t *FreeTriangle) BoundingBox() (core.AABB, bool) {
	return t.bbox, true
}

// intersectTriangle implements Möller–Trumbore via Cramer's rule, rejecting
// a near-parallel ray (|det| < ε), barycentrics outside the triangle, and a
// ray parameter outside [tMin, tMax].
func intersectTriangle(ray core.Ray, v0, v1, v2 core.Vec3, tMin, tMax float64) (Hit, bool) {
	const epsilon = 1e-8

	edge1 := v1.Subtract(v0)
	edge2 := v2.Subtract(v0)

	h := ray.Direction.Cross(edge2)
	det := edge1.Dot(h)
	if math.Abs(det) < epsilon {
		return Hit{}, false
	}
	invDet := 1.0 / det

	s := ray.Origin.Subtract(v0)
	u := invDet * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return Hit{}, false
	}

	q := s.Cross(edge1)
	v := invDet * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return Hit{}, false
	}

	l := invDet * edge2.Dot(q)
	lo := math.Max(tMin, hitEpsilon)
	if l < lo || l > tMax {
		return Hit{}, false
	}

	return Hit{T: l, U: u, V: v}, true
}
