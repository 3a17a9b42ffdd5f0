package scene

import (
	"math"
	"math/rand"
	"testing"

	"github.com/mrigankad-go/phototrace/pkg/core"
)

func approxVec3(t *testing.T, name string, got, want core.Vec3, tol float64) {
	t.Helper()
	if math.Abs(got.X-want.X) > tol || math.Abs(got.Y-want.Y) > tol || math.Abs(got.Z-want.Z) > tol {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func TestCameraGetRayCenterPixelPointsAtLookAt(t *testing.T) {
	origin := core.NewVec3(0, 0, 5)
	lookAt := core.NewVec3(0, 0, 0)
	cam := NewCamera(origin, lookAt, core.NewVec3(0, 1, 0), 40, 1, 0, 5)

	random := rand.New(rand.NewSource(1))
	ray := cam.GetRay(0.5, 0.5, random)

	want := lookAt.Subtract(origin).Normalize()
	approxVec3(t, "ray direction", ray.Direction, want, 1e-9)
}

func TestCameraGetRayNoJitterWithoutAperture(t *testing.T) {
	cam := NewCamera(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), 40, 1, 0, 5)
	random := rand.New(rand.NewSource(1))

	ray := cam.GetRay(0.3, 0.7, random)
	if ray.Origin.X != 0 || ray.Origin.Y != 0 || ray.Origin.Z != 5 {
		t.Errorf("ray origin = %v, want camera origin with lensRadius=0", ray.Origin)
	}
}

func TestCameraTranslatedShiftsOriginAndViewport(t *testing.T) {
	cam := NewCamera(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), 40, 1, 0, 5)
	delta := core.NewVec3(1, 2, 3)
	moved := cam.Translated(delta)

	origin, lowerLeft, _, _, _ := cam.Uniform()
	movedOrigin, movedLowerLeft, _, _, _ := moved.Uniform()

	approxVec3(t, "translated origin", movedOrigin, origin.Add(delta), 1e-9)
	approxVec3(t, "translated lowerLeft", movedLowerLeft, lowerLeft.Add(delta), 1e-9)
}
