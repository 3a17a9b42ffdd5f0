// Package kernel implements the Monte-Carlo radiance estimator that turns
// a camera ray and a geometry.World into a pixel color.
package kernel

import (
	"math"
	"math/rand"

	"github.com/mrigankad-go/phototrace/pkg/core"
	"github.com/mrigankad-go/phototrace/pkg/geometry"
)

const hitEpsilon = 1e-4

// throughputCap bounds the path's accumulated weight against fireflies from
// near-zero-probability samples; radiance above this is clamped before being
// carried into the next bounce.
const throughputCap = 100.0

// Config tunes the radiance estimator's termination and sampling policy.
type Config struct {
	MaxDepth       int     // hard bounce limit regardless of Russian roulette
	RRStartDepth   int     // bounces below this always continue
	RRSurvivalProb float64 // clamp on the roulette survival probability
	DLSEnabled     bool    // sample emitters directly at each diffuse bounce
}

// DefaultConfig mirrors the reference renderer's defaults: eight bounces,
// roulette starting after the third, a generous 0.95 survival floor, and
// direct light sampling off (the stock estimator relies on pure material
// sampling; DLS is an opt-in variance-reduction path).
func DefaultConfig() Config {
	return Config{
		MaxDepth:       8,
		RRStartDepth:   3,
		RRSurvivalProb: 0.95,
		DLSEnabled:     false,
	}
}

// Emitter is one candidate for direct light sampling: a bounded, emissive
// element the kernel can sample a point on directly instead of waiting for
// material sampling to find it by chance.
type Emitter interface {
	geometry.Element
	SamplePoint(from core.Vec3, random *rand.Rand) (point, normal core.Vec3, pdfArea float64)
}

// Radiance estimates the incoming radiance along ray through world,
// optionally direct-light-sampling against emitters. random must not be
// shared across goroutines. A NaN or infinite estimate is returned as black.
func Radiance(ray core.Ray, world *geometry.World, emitters []Emitter, cfg Config, random *rand.Rand) core.Vec3 {
	result := radiance(ray, world, emitters, cfg, random, 0, false)
	if !result.IsFinite() {
		return core.Vec3{}
	}
	return result
}

func radiance(ray core.Ray, world *geometry.World, emitters []Emitter, cfg Config, random *rand.Rand, depth int, specularBounce bool) core.Vec3 {
	hit, elem, ok := world.Intersect(ray, hitEpsilon, math.Inf(1))
	if !ok {
		return core.Vec3{}
	}

	info := elem.Info(ray, hit, random)
	result := info.Emissive

	if depth >= cfg.MaxDepth {
		return result
	}

	survival := 1.0
	if depth >= cfg.RRStartDepth {
		survival = math.Min(cfg.RRSurvivalProb, 1.0)
		if random.Float64() >= survival {
			return result
		}
	}

	if !info.Reflects {
		return result
	}

	allowDLS := cfg.DLSEnabled && depth > 0 && !specularBounce && len(emitters) > 0
	if allowDLS {
		result = result.Add(sampleDirectLight(ray, info, world, emitters, random))
	}

	scattered, pdf := info.Material.GenNewRay(ray, info.Normal, info.Point, info.Seed)
	if pdf <= 0 {
		return result
	}

	if info.Albedo.IsZero() {
		return result
	}

	childSpecular := isSpecularSample(info, ray, scattered)
	child := radiance(scattered, world, emitters, cfg, random, depth+1, childSpecular)
	child = info.Albedo.MultiplyVec(child)
	contribution := child.Multiply(1.0 / (pdf * survival))
	contribution = contribution.Clamp(0, throughputCap)

	return result.Add(contribution)
}

// isSpecularSample reports whether the generated continuation ray came from
// the specular lobe, by checking it against the ideal reflection direction
// the material would have produced with the same incoming ray and normal.
func isSpecularSample(info geometry.Info, rayIn core.Ray, scattered core.Ray) bool {
	ideal := core.Reflect(rayIn.Direction.Normalize(), info.Normal)
	return scattered.Direction.Normalize().Dot(ideal) > 1-1e-6
}

// sampleDirectLight picks one emitter uniformly, samples a point on it, and
// adds its contribution if the shadow ray is unoccluded. Cube maps are never
// emitters here (Reflects is already false and excluded upstream), so the
// environment's contribution only ever arrives via an escaping path ray,
// never doubly via both DLS and a chance material-sampled hit.
func sampleDirectLight(ray core.Ray, info geometry.Info, world *geometry.World, emitters []Emitter, random *rand.Rand) core.Vec3 {
	light := emitters[random.Intn(len(emitters))]
	lightPoint, lightNormal, pdfArea := light.SamplePoint(info.Point, random)
	if pdfArea <= 0 {
		return core.Vec3{}
	}

	toLight := lightPoint.Subtract(info.Point)
	dist := toLight.Length()
	if dist < hitEpsilon {
		return core.Vec3{}
	}
	dir := toLight.Multiply(1 / dist)

	cosSurface := dir.Dot(info.Normal)
	if cosSurface <= 0 {
		return core.Vec3{}
	}
	cosLight := -dir.Dot(lightNormal)
	if cosLight <= 0 {
		return core.Vec3{}
	}

	shadowRay := core.NewRay(info.Point, dir)
	if _, _, blocked := world.Intersect(shadowRay, hitEpsilon, dist-hitEpsilon); blocked {
		return core.Vec3{}
	}

	lightInfo := light.Info(core.NewRay(lightPoint, dir.Negate()), geometry.Hit{T: 0}, random)
	solidAnglePdf := pdfArea * dist * dist / cosLight
	solidAnglePdf /= float64(len(emitters))
	if solidAnglePdf <= 0 {
		return core.Vec3{}
	}

	brdf := info.Albedo.Multiply(1 / math.Pi)
	contribution := brdf.MultiplyVec(lightInfo.Emissive).Multiply(cosSurface / solidAnglePdf)
	return contribution.Clamp(0, throughputCap)
}
