package core

import (
	"math"
	"math/rand"
	"testing"
)

func TestVec3Basics(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, -1, 2)

	if got := a.Add(b); !got.Equals(NewVec3(5, 1, 5)) {
		t.Errorf("Add = %v, want {5,1,5}", got)
	}
	if got := a.Subtract(b); !got.Equals(NewVec3(-3, 3, 1)) {
		t.Errorf("Subtract = %v, want {-3,3,1}", got)
	}
	if got := a.Dot(b); got != 4-2+6 {
		t.Errorf("Dot = %v, want 8", got)
	}
	if got := a.Cross(b); !got.Equals(NewVec3(2*2-3*(-1), 3*4-1*2, 1*(-1)-2*4)) {
		t.Errorf("Cross mismatch: %v", got)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := NewVec3(3, 0, 4)
	n := v.Normalize()
	if math.Abs(n.Length()-1) > 1e-9 {
		t.Errorf("Normalize length = %f, want 1", n.Length())
	}
	if NewVec3(0, 0, 0).Normalize() != (Vec3{}) {
		t.Errorf("Normalize of zero vector should be zero")
	}
}

func TestRandomCosineDirection(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	normal := NewVec3(0, 0, 1)

	const numSamples = 10000
	var totalCosine float64
	belowHemisphere := 0

	for i := 0; i < numSamples; i++ {
		dir := RandomCosineDirection(normal, random)

		length := dir.Length()
		if math.Abs(length-1.0) > 1e-3 {
			t.Errorf("Generated direction not unit length: %f", length)
		}

		cosTheta := dir.Dot(normal)
		if cosTheta < 0 {
			belowHemisphere++
		}
		totalCosine += math.Max(0, cosTheta)
	}

	if belowHemisphere > 0 {
		t.Errorf("Found %d rays below hemisphere out of %d", belowHemisphere, numSamples)
	}

	avgCosine := totalCosine / float64(numSamples)
	expectedAvgCosine := 2.0 / math.Pi
	if math.Abs(avgCosine-expectedAvgCosine) > 0.05 {
		t.Errorf("Average cosine %f doesn't match expected %f", avgCosine, expectedAvgCosine)
	}
}

func TestRandomCosineDirection_OrthonormalBasis(t *testing.T) {
	random := rand.New(rand.NewSource(42))

	testNormals := []Vec3{
		NewVec3(0, 0, 1),
		NewVec3(0, 1, 0),
		NewVec3(1, 0, 0),
		NewVec3(0.577, 0.577, 0.577),
	}

	for _, normal := range testNormals {
		for i := 0; i < 100; i++ {
			dir := RandomCosineDirection(normal, random)
			if math.Abs(dir.Length()-1.0) > 1e-3 {
				t.Errorf("Non-unit direction for normal %v: length=%f", normal, dir.Length())
			}
			cosTheta := dir.Dot(normal)
			if cosTheta < -1e-10 {
				t.Errorf("Direction below hemisphere for normal %v: cos0=%f", normal, cosTheta)
			}
		}
	}
}

func TestRandomInUnitDisk(t *testing.T) {
	random := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		p := RandomInUnitDisk(random)
		if p.X*p.X+p.Y*p.Y >= 1 {
			t.Errorf("point %v outside unit disk", p)
		}
	}
}

func TestReflect(t *testing.T) {
	v := NewVec3(1, -1, 0)
	n := NewVec3(0, 1, 0)
	got := Reflect(v, n)
	want := NewVec3(1, 1, 0)
	if !got.Equals(want) {
		t.Errorf("Reflect = %v, want %v", got, want)
	}
}
