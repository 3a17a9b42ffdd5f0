package geometry

import (
	"math"
	"math/rand"

	"github.com/mrigankad-go/phototrace/pkg/core"
	"github.com/mrigankad-go/phototrace/pkg/material"
)

// Sphere is a center/radius primitive with optional emission, and
// optionally an animation track applied by the scene before each frame.
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Albedo   material.ColorSource
	Emissive core.Vec3
	Mat      material.Descriptor
}

// NewSphere creates a sphere with the given albedo source and material.
func NewSphere(center core.Vec3, radius float64, albedo material.ColorSource, mat material.Descriptor) *Sphere {
	return &Sphere{Center: center, Radius: radius, Albedo: albedo, Mat: mat}
}

// WithEmissive sets the sphere's emitted radiance and returns the sphere for chaining.
func (s *Sphere) WithEmissive(emissive core.Vec3) *Sphere {
	s.Emissive = emissive
	return s
}

// Hit solves the ray/sphere quadratic and returns the smaller root > ε.
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64) (Hit, bool) {
	oc := ray.Origin.Subtract(s.Center)

	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return Hit{}, false
	}
	sqrtD := math.Sqrt(discriminant)

	lo := math.Max(tMin, hitEpsilon)
	root := (-halfB - sqrtD) / a
	if root < lo || root > tMax {
		root = (-halfB + sqrtD) / a
		if root < lo || root > tMax {
			return Hit{}, false
		}
	}
	return Hit{T: root}, true
}

// Info reconstructs the hit position, normal, spherical UV, and albedo,
// and draws the material's continuation seed.
func (s *Sphere) Info(ray core.Ray, hit Hit, random *rand.Rand) Info {
	point := ray.At(hit.T)
	outward := point.Subtract(s.Center).Multiply(1.0 / s.Radius)
	normal := faceNormal(ray, outward)

	theta := math.Acos(math.Min(1, math.Max(-1, -outward.Y)))
	phi := math.Atan2(-outward.Z, outward.X) + math.Pi
	uv := core.NewVec2(phi/(2.0*math.Pi), theta/math.Pi)

	return Info{
		Point:       point,
		Normal:      normal,
		Albedo:      s.Albedo.Evaluate(uv, point),
		Emissive:    s.Emissive,
		Material:    s.Mat,
		Seed:        s.Mat.GenerateSeed(random),
		DLSEligible: !s.Emissive.IsZero(),
		Reflects:    true,
	}
}

// SamplePoint draws a uniform point on the sphere's surface, for direct
// light sampling from a shading point that may be outside the sphere.
func (s *Sphere) SamplePoint(from core.Vec3, random *rand.Rand) (point, normal core.Vec3, pdfArea float64) {
	z := 1.0 - 2.0*random.Float64()
	r := math.Sqrt(math.Max(0, 1.0-z*z))
	phi := 2.0 * math.Pi * random.Float64()
	localDir := core.NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)

	point = s.Center.Add(localDir.Multiply(s.Radius))
	normal = localDir
	pdfArea = 1.0 / (4.0 * math.Pi * s.Radius * s.Radius)
	return point, normal, pdfArea
}

// BoundingBox returns the sphere's axis-aligned bounding box.
func (s *Sphere) BoundingBox() (core.AABB, bool) {
	r := core.NewVec3(s.Radius, s.Radius, s.Radius)
	return core.NewAABB(s.Center.Subtract(r), s.Center.Add(r)), true
}
