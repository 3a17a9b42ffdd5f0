// Package material implements the diffuse/specular mixture material
// described by the radiance kernel's capability set: GenerateSeed and
// GenNewRay. A material never carries its own base color — the owning
// primitive supplies albedo (solid or textured via ColorSource) and
// multiplies it into the radiance contribution itself.
package material

import (
	"math"
	"math/rand"

	"github.com/mrigankad-go/phototrace/pkg/core"
)

// Seed is a fixed record of uniform random numbers drawn once when a hit is
// registered and consumed by GenNewRay, so the continuation ray is a pure
// function of the seed. The kernel's direct-light sample at the same hit
// draws its own random numbers and does not read the seed.
type Seed struct {
	BranchU float64 // selects specular vs. diffuse lobe
	LobeU   float64 // first lobe-direction uniform
	LobeV   float64 // second lobe-direction uniform
}

// Descriptor is the reference diffuse/specular mixture material.
type Descriptor struct {
	DiffuseWeight  float64
	SpecularWeight float64
	Roughness      float64 // lobe width around the ideal reflection direction
}

// NewDescriptor creates a material descriptor. Weights need not sum to one;
// only their ratio determines the specular-selection probability.
func NewDescriptor(diffuseWeight, specularWeight, roughness float64) Descriptor {
	return Descriptor{
		DiffuseWeight:  diffuseWeight,
		SpecularWeight: specularWeight,
		Roughness:      roughness,
	}
}

// specularProb returns the probability of choosing the specular lobe.
func (d Descriptor) specularProb() float64 {
	total := d.DiffuseWeight + d.SpecularWeight
	if total <= 0 {
		return 0
	}
	return d.SpecularWeight / total
}

// lobeExponent converts a [0,1] roughness into a Phong-style lobe exponent;
// roughness 0 is a mirror (very tight lobe), roughness 1 is near-diffuse.
func (d Descriptor) lobeExponent() float64 {
	r := max(d.Roughness, 1e-4)
	return 2.0/(r*r) - 2.0
}

// GenerateSeed draws the three uniform numbers GenNewRay consumes for a hit.
func (d Descriptor) GenerateSeed(random *rand.Rand) Seed {
	return Seed{
		BranchU: random.Float64(),
		LobeU:   random.Float64(),
		LobeV:   random.Float64(),
	}
}

// GenNewRay produces a continuation ray given the incoming ray, the hit
// normal and position, and a previously drawn seed. It returns the
// continuation ray and the probability the ray was sampled with; a
// probability of zero means the path should terminate here.
func (d Descriptor) GenNewRay(rayIn core.Ray, normal, point core.Vec3, seed Seed) (core.Ray, float64) {
	ws := d.specularProb()
	if seed.BranchU < ws {
		ideal := core.Reflect(rayIn.Direction.Normalize(), normal)
		exponent := d.lobeExponent()
		dir := sampleLobeWithUV(ideal, exponent, seed.LobeU, seed.LobeV)
		cosTheta := dir.Dot(ideal)
		if dir.Dot(normal) <= 0 || cosTheta <= 0 {
			return core.Ray{}, 0
		}
		pdf := core.LobePDF(exponent, cosTheta)
		return core.NewRay(point, dir), pdf
	}

	dir := sampleCosineWithUV(normal, seed.LobeU, seed.LobeV)
	cosTheta := dir.Dot(normal)
	if cosTheta <= 0 {
		return core.Ray{}, 0
	}
	return core.NewRay(point, dir), cosTheta / math.Pi
}

// sampleCosineWithUV is RandomCosineDirection but driven by the two fixed
// uniforms u, v instead of a live *rand.Rand, so the same seed always
// produces the same direction.
func sampleCosineWithUV(normal core.Vec3, u, v float64) core.Vec3 {
	phi := 2 * math.Pi * u
	sinTheta := math.Sqrt(v)
	cosTheta := math.Sqrt(1 - v)
	x := math.Cos(phi) * sinTheta
	y := math.Sin(phi) * sinTheta

	t, b := onb(normal)
	dir := t.Multiply(x).Add(b.Multiply(y)).Add(normal.Multiply(cosTheta))
	return dir.Normalize()
}

func sampleLobeWithUV(axis core.Vec3, exponent, u, v float64) core.Vec3 {
	cosTheta := math.Pow(1-v, 1/(exponent+1))
	sinTheta := math.Sqrt(max(0, 1-cosTheta*cosTheta))
	phi := 2 * math.Pi * u
	x := math.Cos(phi) * sinTheta
	y := math.Sin(phi) * sinTheta

	t, b := onb(axis)
	dir := t.Multiply(x).Add(b.Multiply(y)).Add(axis.Multiply(cosTheta))
	return dir.Normalize()
}

// onb builds a right-handed basis around n (Duff et al. branchless ONB).
func onb(n core.Vec3) (t, b core.Vec3) {
	sign := math.Copysign(1.0, n.Z)
	a := -1.0 / (sign + n.Z)
	c := n.X * n.Y * a
	t = core.Vec3{X: 1.0 + sign*n.X*n.X*a, Y: sign * c, Z: -sign * n.X}
	b = core.Vec3{X: c, Y: sign + n.Y*n.Y*a, Z: -n.Y}
	return t, b
}
