package scene

import (
	"math"

	"github.com/mrigankad-go/phototrace/pkg/core"
)

// Camera is an immutable thin-lens camera: an orthonormal basis derived from
// origin/lookAt/worldUp, a viewport sized by vertical field of view and
// aspect ratio, and an aperture disk for depth-of-field jitter.
type Camera struct {
	origin     core.Vec3
	right      core.Vec3
	up         core.Vec3
	lowerLeft  core.Vec3
	horizontal core.Vec3
	vertical   core.Vec3
	lensRadius float64
}

// NewCamera builds a Camera from the Scheme's cam block. vfovDeg is the
// vertical field of view in degrees; aspectRatio is width/height.
func NewCamera(origin, lookAt, worldUp core.Vec3, vfovDeg, aspectRatio, aperture, focusDist float64) Camera {
	forward := lookAt.Subtract(origin).Normalize()
	right := forward.Cross(worldUp).Normalize()
	up := right.Cross(forward)

	theta := vfovDeg * math.Pi / 180
	halfHeight := math.Tan(theta / 2)
	halfWidth := aspectRatio * halfHeight

	horizontal := right.Multiply(2 * halfWidth * focusDist)
	vertical := up.Multiply(2 * halfHeight * focusDist)
	lowerLeft := origin.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Add(forward.Multiply(focusDist))

	return Camera{
		origin:     origin,
		right:      right,
		up:         up,
		lowerLeft:  lowerLeft,
		horizontal: horizontal,
		vertical:   vertical,
		lensRadius: aperture / 2,
	}
}

// GetRay returns a ray through normalized viewport coordinates (s, t), both
// in [0,1], jittered across the aperture disk when lensRadius > 0. random
// must not be shared across goroutines.
func (c Camera) GetRay(s, t float64, random core.Sampler) core.Ray {
	origin := c.origin
	if c.lensRadius > 0 {
		disk := core.RandomInUnitDisk(random)
		offset := c.right.Multiply(disk.X * c.lensRadius).Add(c.up.Multiply(disk.Y * c.lensRadius))
		origin = origin.Add(offset)
	}
	target := c.lowerLeft.Add(c.horizontal.Multiply(s)).Add(c.vertical.Multiply(t))
	return core.NewRay(origin, target.Subtract(origin).Normalize())
}

// Translated returns a copy of the camera with origin and lookAt shifted by
// delta, used when a camera itself rides an animation track.
func (c Camera) Translated(delta core.Vec3) Camera {
	c.origin = c.origin.Add(delta)
	c.lowerLeft = c.lowerLeft.Add(delta)
	return c
}

// Uniform exposes the basis the GPU driver packs into its camera uniform
// buffer; the fields themselves stay private so GetRay's contract can't be
// bypassed from outside the package.
func (c Camera) Uniform() (origin, lowerLeft, horizontal, vertical core.Vec3, lensRadius float64) {
	return c.origin, c.lowerLeft, c.horizontal, c.vertical, c.lensRadius
}
