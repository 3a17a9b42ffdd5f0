// Package geometry implements the primitives, spatial accelerator, and scene
// decomposition that turn a Scheme's scene members into a hit-testable
// world: spheres, free triangles, mesh-sourced triangles, and the distant
// cube map, plus the KD-tree that indexes the bounded ones.
package geometry

import (
	"math/rand"

	"github.com/mrigankad-go/phototrace/pkg/core"
	"github.com/mrigankad-go/phototrace/pkg/material"
)

// Hit is the cheap result of a successful ray-element intersection: the
// ray parameter plus whatever intersection intermediate the element needs
// to rebuild shading information without re-intersecting. U, V hold
// barycentric coordinates for triangle elements and are unused otherwise.
type Hit struct {
	T    float64
	U, V float64
}

// Info is the shading information the radiance kernel needs once an
// element has won the nearest-hit race.
type Info struct {
	Point       core.Vec3
	Normal      core.Vec3 // front-facing: points against the incoming ray
	Albedo      core.Vec3
	Emissive    core.Vec3
	Material    material.Descriptor
	Seed        material.Seed
	DLSEligible bool
	Reflects    bool // false for elements that never continue a path (the distant cube map)
}

// Element is a leaf primitive: Sphere, FreeTriangle, MeshTriangle, or
// DistantCubeMap.
type Element interface {
	// Hit tests the ray against the [tMin, tMax] parameter range.
	Hit(ray core.Ray, tMin, tMax float64) (Hit, bool)

	// Info builds shading information for a hit this element just returned
	// from Hit. random is consumed to draw the material's per-hit seed.
	Info(ray core.Ray, hit Hit, random *rand.Rand) Info

	// BoundingBox reports the element's world-space extent. ok is false
	// for elements with no finite bound (DistantCubeMap), which the
	// accelerator keeps on an unconditional list instead of in the tree.
	BoundingBox() (core.AABB, bool)
}

// hitEpsilon is the minimum accepted ray parameter, applied uniformly
// across primitive intersection tests to reject self-intersection.
const hitEpsilon = 1e-4

// faceNormal returns outwardNormal, flipped to face against ray so shading
// always sees a front-facing normal.
func faceNormal(ray core.Ray, outwardNormal core.Vec3) core.Vec3 {
	if ray.Direction.Dot(outwardNormal) < 0 {
		return outwardNormal
	}
	return outwardNormal.Negate()
}
