package geometry

import (
	"math/rand"

	"github.com/mrigankad-go/phototrace/pkg/core"
	"github.com/mrigankad-go/phototrace/pkg/material"
)

// MeshGroup is the shared data for one glTF primitive group: positions,
// per-vertex normals, optional tangents, a flattened triangle index list,
// and the PBR texture references every triangle in the group samples.
// Many MeshTriangle values index into the same MeshGroup so shading never
// duplicates texture or vertex data per triangle.
type MeshGroup struct {
	MeshIndex  int
	GroupIndex int

	Positions []core.Vec3
	Normals   []core.Vec3
	Tangents  []core.Vec3 // nil if the source mesh carried none
	UVs       []core.Vec2
	Indices   []int // triangle index triples, len(Indices)%3 == 0

	BaseColor       material.ColorSource
	BaseColorFactor core.Vec3
	NormalMap       material.ColorSource // nil if the primitive has none
	NormalScale     float64
	MetalRoughness  material.ColorSource // nil if the primitive has none

	Mat material.Descriptor
}

// MeshTriangle is one triangle of a MeshGroup, identified by its index into
// Indices/3. Shading looks up vertex attributes and shared textures through
// the group rather than carrying its own copies.
type MeshTriangle struct {
	Group    *MeshGroup
	TriIndex int
	bbox     core.AABB
}

// NewMeshTriangle builds a MeshTriangle over triIndex's three vertices of
// group, precomputing its bounding box.
func NewMeshTriangle(group *MeshGroup, triIndex int) *MeshTriangle {
	v0, v1, v2 := group.vertices(triIndex)
	return &MeshTriangle{
		Group:    group,
		TriIndex: triIndex,
		bbox:     core.NewAABBFromPoints(v0, v1, v2),
	}
}

func (g *MeshGroup) vertices(triIndex int) (v0, v1, v2 core.Vec3) {
	i0, i1, i2 := g.indexTriple(triIndex)
	return g.Positions[i0], g.Positions[i1], g.Positions[i2]
}

func (g *MeshGroup) indexTriple(triIndex int) (i0, i1, i2 int) {
	base := triIndex * 3
	return g.Indices[base], g.Indices[base+1], g.Indices[base+2]
}

// Hit implements Möller–Trumbore against the triangle's three positions.
func (t *MeshTriangle) Hit(ray core.Ray, tMin, tMax float64) (Hit, bool) {
	v0, v1, v2 := t.Group.vertices(t.TriIndex)
	return intersectTriangle(ray, v0, v1, v2, tMin, tMax)
}

// Info barycentric-interpolates the vertex normal and UV, samples the
// base-color texture, and perturbs the normal by a sampled normal map when
// the group carries one, reconstructing tangent and bitangent from UV
// derivatives when per-vertex tangents are absent.
func (t *MeshTriangle) Info(ray core.Ray, hit Hit, random *rand.Rand) Info {
	g := t.Group
	i0, i1, i2 := g.indexTriple(t.TriIndex)
	w := 1.0 - hit.U - hit.V

	n0, n1, n2 := g.Normals[i0], g.Normals[i1], g.Normals[i2]
	shadingNormal := n0.Multiply(w).Add(n1.Multiply(hit.U)).Add(n2.Multiply(hit.V)).Normalize()

	uv0, uv1, uv2 := g.UVs[i0], g.UVs[i1], g.UVs[i2]
	uv := uv0.Multiply(w).Add(uv1.Multiply(hit.U)).Add(uv2.Multiply(hit.V))

	point := ray.At(hit.T)
	normal := faceNormal(ray, shadingNormal)

	if g.NormalMap != nil {
		tangent, bitangent := g.tangentFrame(i0, i1, i2, uv0, uv1, uv2, shadingNormal)
		sample := g.NormalMap.Evaluate(uv, point)
		nx := (2*sample.X - 1) * g.NormalScale
		ny := (2*sample.Y - 1) * g.NormalScale
		nz := 2*sample.Z - 1
		perturbed := tangent.Multiply(nx).Add(bitangent.Multiply(ny)).Add(shadingNormal.Multiply(nz)).Normalize()
		normal = faceNormal(ray, perturbed)
	}

	albedo := g.BaseColorFactor
	if g.BaseColor != nil {
		albedo = albedo.MultiplyVec(g.BaseColor.Evaluate(uv, point))
	}

	mat := g.Mat
	if g.MetalRoughness != nil {
		sample := g.MetalRoughness.Evaluate(uv, point)
		// glTF convention: roughness in G, metalness in B.
		roughness := sample.Y
		metalness := sample.Z
		mat = material.NewDescriptor(1-metalness, metalness, roughness)
	}

	return Info{
		Point:       point,
		Normal:      normal,
		Albedo:      albedo,
		Material:    mat,
		Seed:        mat.GenerateSeed(random),
		DLSEligible: false,
		Reflects:    true,
	}
}

// tangentFrame returns the triangle's tangent and bitangent, read from
// per-vertex tangents if the group carries them, otherwise derived from
// the position and UV deltas of this triangle.
func (g *MeshGroup) tangentFrame(i0, i1, i2 int, uv0, uv1, uv2 core.Vec2, normal core.Vec3) (tangent, bitangent core.Vec3) {
	if g.Tangents != nil {
		t := g.Tangents[i0].Add(g.Tangents[i1]).Add(g.Tangents[i2]).Normalize()
		b := normal.Cross(t).Normalize()
		return t, b
	}

	v0, v1, v2 := g.Positions[i0], g.Positions[i1], g.Positions[i2]
	edge1 := v1.Subtract(v0)
	edge2 := v2.Subtract(v0)
	duv1 := uv1.Add(uv0.Multiply(-1))
	duv2 := uv2.Add(uv0.Multiply(-1))

	det := duv1.X*duv2.Y - duv2.X*duv1.Y
	if det == 0 {
		// Degenerate UV mapping: fall back to an arbitrary basis.
		t := edge1.Normalize()
		return t, normal.Cross(t).Normalize()
	}
	f := 1.0 / det
	t := edge1.Multiply(duv2.Y).Subtract(edge2.Multiply(duv1.Y)).Multiply(f).Normalize()
	b := normal.Cross(t).Normalize()
	return t, b
}

// BoundingBox returns the triangle's axis-aligned bounding box.
func (t *MeshTriangle) BoundingBox() (core.AABB, bool) {
	return t.bbox, true
}
