package geometry

import (
	"math"
	"math/rand"

	"github.com/mrigankad-go/phototrace/pkg/core"
	"github.com/mrigankad-go/phototrace/pkg/material"
)

// cubeFace identifies one of the six faces of a DistantCubeMap.
type cubeFace int

const (
	facePosX cubeFace = iota
	faceNegX
	facePosY
	faceNegY
	facePosZ
	faceNegZ
)

// DistantCubeMap is a six-face environment emitter at infinite distance: it
// always hits, at the lowest possible priority, and is never a reflector.
type DistantCubeMap struct {
	Faces [6]material.ColorSource // indexed by cubeFace
}

// NewDistantCubeMap builds a cube map from six face textures in
// +X, -X, +Y, -Y, +Z, -Z order.
func NewDistantCubeMap(posX, negX, posY, negY, posZ, negZ material.ColorSource) *DistantCubeMap {
	return &DistantCubeMap{Faces: [6]material.ColorSource{posX, negX, posY, negY, posZ, negZ}}
}

// farT is the ray parameter DistantCubeMap always reports: +Inf minus one
// ULP, so every finite-distance primitive outranks it but a scene with
// nothing else still resolves to the sky.
var farT = math.Nextafter(math.Inf(1), 0)

// Hit always succeeds if farT lies within [tMin, tMax]; a DistantCubeMap
// never occludes anything closer.
func (c *DistantCubeMap) Hit(ray core.Ray, tMin, tMax float64) (Hit, bool) {
	if farT < tMin || farT > tMax {
		return Hit{}, false
	}
	return Hit{T: farT}, true
}

// Info looks up the emitted color by direction: the face is the axis with
// the largest |d|, and the face UV is the remaining two components mapped
// into [0,1]².
func (c *DistantCubeMap) Info(ray core.Ray, hit Hit, random *rand.Rand) Info {
	d := ray.Direction.Normalize()
	face, uv := cubeMapFaceUV(d)

	return Info{
		Point:       ray.At(hit.T),
		Normal:      d.Negate(),
		Emissive:    c.Faces[face].Evaluate(uv, ray.Origin),
		Material:    material.NewDescriptor(0, 0, 1), // continuation probability is always 0
		DLSEligible: true,
		Reflects:    false,
	}
}

// BoundingBox reports no bound: a DistantCubeMap lives on the
// accelerator's unconditional list and is tested against every ray.
func (c *DistantCubeMap) BoundingBox() (core.AABB, bool) {
	return core.AABB{}, false
}

// cubeMapFaceUV selects the dominant axis of d and maps the other two
// components into a [0,1]² face UV.
func cubeMapFaceUV(d core.Vec3) (cubeFace, core.Vec2) {
	ax, ay, az := math.Abs(d.X), math.Abs(d.Y), math.Abs(d.Z)

	switch {
	case ax >= ay && ax >= az:
		if d.X > 0 {
			return facePosX, core.NewVec2(faceCoord(-d.Z, ax), faceCoord(-d.Y, ax))
		}
		return faceNegX, core.NewVec2(faceCoord(d.Z, ax), faceCoord(-d.Y, ax))
	case ay >= ax && ay >= az:
		if d.Y > 0 {
			return facePosY, core.NewVec2(faceCoord(d.X, ay), faceCoord(d.Z, ay))
		}
		return faceNegY, core.NewVec2(faceCoord(d.X, ay), faceCoord(-d.Z, ay))
	default:
		if d.Z > 0 {
			return facePosZ, core.NewVec2(faceCoord(d.X, az), faceCoord(-d.Y, az))
		}
		return faceNegZ, core.NewVec2(faceCoord(-d.X, az), faceCoord(-d.Y, az))
	}
}

// faceCoord maps a component c, scaled by the dominant-axis magnitude axis,
// from [-1, 1] into [0, 1].
func faceCoord(c, axis float64) float64 {
	return (c/axis + 1.0) * 0.5
}
