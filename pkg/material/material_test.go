package material

import (
	"math"
	"math/rand"
	"testing"

	"github.com/mrigankad-go/phototrace/pkg/core"
)

func TestGenNewRayDiffuse(t *testing.T) {
	d := NewDescriptor(1.0, 0.0, 0.5) // pure diffuse
	random := rand.New(rand.NewSource(1))
	normal := core.NewVec3(0, 1, 0)
	point := core.NewVec3(0, 0, 0)
	rayIn := core.NewRay(core.NewVec3(0, 5, 0), core.NewVec3(0, -1, 0))

	for i := 0; i < 100; i++ {
		seed := d.GenerateSeed(random)
		scattered, pdf := d.GenNewRay(rayIn, normal, point, seed)
		if pdf <= 0 {
			continue // occasionally grazing; acceptable
		}
		if scattered.Direction.Dot(normal) < -1e-9 {
			t.Errorf("diffuse scatter direction below hemisphere: %v", scattered.Direction)
		}
		wantPdf := scattered.Direction.Normalize().Dot(normal) / math.Pi
		if math.Abs(pdf-wantPdf) > 1e-6 {
			t.Errorf("pdf = %f, want %f", pdf, wantPdf)
		}
	}
}

func TestGenNewRaySpecular(t *testing.T) {
	d := NewDescriptor(0.0, 1.0, 0.01) // near-mirror
	random := rand.New(rand.NewSource(2))
	normal := core.NewVec3(0, 1, 0)
	point := core.NewVec3(0, 0, 0)
	rayIn := core.NewRay(core.NewVec3(0, 5, 0), core.NewVec3(0, -1, 0))

	seed := d.GenerateSeed(random)
	scattered, pdf := d.GenNewRay(rayIn, normal, point, seed)
	if pdf <= 0 {
		t.Fatalf("expected nonzero pdf for near-mirror reflection")
	}
	// Perfect mirror reflection of straight-down ray off an up-normal is straight up.
	if scattered.Direction.Dot(core.NewVec3(0, 1, 0)) < 0.9 {
		t.Errorf("reflection direction too far from ideal: %v", scattered.Direction)
	}
}

func TestSeedDeterminism(t *testing.T) {
	d := NewDescriptor(0.5, 0.5, 0.3)
	normal := core.NewVec3(0, 1, 0)
	point := core.NewVec3(1, 2, 3)
	rayIn := core.NewRay(core.NewVec3(1, 5, 3), core.NewVec3(0, -1, 0))
	seed := Seed{BranchU: 0.9, LobeU: 0.2, LobeV: 0.4}

	r1, p1 := d.GenNewRay(rayIn, normal, point, seed)
	r2, p2 := d.GenNewRay(rayIn, normal, point, seed)
	if r1 != r2 || p1 != p2 {
		t.Errorf("GenNewRay is not deterministic given the same seed")
	}
}
