package gpudriver

import (
	"github.com/mrigankad-go/phototrace/pkg/core"
	"github.com/mrigankad-go/phototrace/pkg/geometry"
	"github.com/mrigankad-go/phototrace/pkg/material"
	"github.com/mrigankad-go/phototrace/pkg/scene"
)

// cubeFaceResolution is the fixed resolution every cube-map face is
// resampled to before upload, since the storage buffer layout needs a
// known stride per face.
const cubeFaceResolution = 64

// PackScene flattens a resolved scene.Scene's elements into the buffer
// layout pkg/gpudriver/shaders/pathtrace.wgsl's binding contract expects.
// Sphere and FreeTriangle albedo is sampled once at a representative UV
// (the center of the texture) rather than carrying a full texture buffer,
// since the shader stub does not yet declare a texture-sampling binding —
// scenes using only solid-color materials round-trip exactly; image-textured
// spheres/triangles lose spatial variation on the GPU path (see DESIGN.md).
func PackScene(sc *scene.Scene, renderUniform RenderInfoUniform) SceneBuffers {
	origin, lowerLeft, horizontal, vertical, lensRadius := sc.Camera.Uniform()
	camUniform := CameraUniform{
		Origin:          origin,
		LensRadius:      lensRadius,
		LowerLeftCorner: lowerLeft,
		Horizontal:      horizontal,
		Vertical:        vertical,
	}

	var spheres, freeTris, meshTris []float32
	var meshVertexLists [][]float32
	var cubeMap []float32

	for _, elem := range sc.Elements {
		switch e := elem.(type) {
		case *geometry.Sphere:
			spheres = append(spheres, packSphere(e)...)
		case *geometry.FreeTriangle:
			freeTris = append(freeTris, packFreeTriangle(e)...)
		case *geometry.MeshTriangle:
			meshTris = append(meshTris, packMeshTriangle(e)...)
		case *geometry.DistantCubeMap:
			cubeMap = packCubeMap(e)
		}
	}

	meshGroups := collectMeshGroups(sc.Elements)
	for _, g := range meshGroups {
		meshVertexLists = append(meshVertexLists, packMeshVertices(g))
	}
	chunks := packMeshChunks(meshVertexLists)
	var meshBuffers [GPUNumMeshBuffers][]byte
	for i, c := range chunks {
		meshBuffers[i] = packCounted(c.Vertices)
	}

	return SceneBuffers{
		Camera:        packCamera(camUniform),
		RenderInfo:    packRenderInfo(renderUniform),
		Spheres:       packCounted(spheres),
		FreeTriangles: packCounted(freeTris),
		CubeMap:       packCounted(cubeMap),
		MeshTriangles: packCounted(meshTris),
		MeshBuffers:   meshBuffers,
	}
}

// CameraUniform mirrors the WGSL CameraUniform struct.
type CameraUniform struct {
	Origin          core.Vec3
	LensRadius      float64
	LowerLeftCorner core.Vec3
	Horizontal      core.Vec3
	Vertical        core.Vec3
}

// RenderInfoUniform mirrors the WGSL RenderInfoUniform struct.
type RenderInfoUniform struct {
	Width, Height   uint32
	SamplesPerPixel uint32
	MaxDepth        uint32
	FrameIndex      uint32
	SampleOffset    uint32
}

// packCamera/packRenderInfo carry no leading count: uniform buffers are
// fixed-size structs, not variable-length lists, so the "first float is a
// count" convention is storage-buffer-only.
func packCamera(c CameraUniform) []byte {
	return float32sToBytes([]float32{
		float32(c.Origin.X), float32(c.Origin.Y), float32(c.Origin.Z), float32(c.LensRadius),
		float32(c.LowerLeftCorner.X), float32(c.LowerLeftCorner.Y), float32(c.LowerLeftCorner.Z), 0,
		float32(c.Horizontal.X), float32(c.Horizontal.Y), float32(c.Horizontal.Z), 0,
		float32(c.Vertical.X), float32(c.Vertical.Y), float32(c.Vertical.Z), 0,
	})
}

func packRenderInfo(r RenderInfoUniform) []byte {
	return float32sToBytes([]float32{
		float32(r.Width), float32(r.Height), float32(r.SamplesPerPixel), float32(r.MaxDepth),
		float32(r.FrameIndex), float32(r.SampleOffset), 0, 0,
	})
}

func representativeColor(src material.ColorSource) core.Vec3 {
	if src == nil {
		return core.Vec3{}
	}
	return src.Evaluate(core.NewVec2(0.5, 0.5), core.Vec3{})
}

// packSphere flattens a sphere to [center3, radius, albedo3, diffuseW,
// specularW, roughness, emissive3] = 13 floats.
func packSphere(s *geometry.Sphere) []float32 {
	albedo := representativeColor(s.Albedo)
	return []float32{
		float32(s.Center.X), float32(s.Center.Y), float32(s.Center.Z), float32(s.Radius),
		float32(albedo.X), float32(albedo.Y), float32(albedo.Z),
		float32(s.Mat.DiffuseWeight), float32(s.Mat.SpecularWeight), float32(s.Mat.Roughness),
		float32(s.Emissive.X), float32(s.Emissive.Y), float32(s.Emissive.Z),
	}
}

// packFreeTriangle flattens a free triangle to [v0_3, v1_3, v2_3, normal3,
// albedo3, diffuseW, specularW, roughness] = 18 floats.
func packFreeTriangle(t *geometry.FreeTriangle) []float32 {
	albedo := representativeColor(t.Albedo)
	return []float32{
		float32(t.V0.X), float32(t.V0.Y), float32(t.V0.Z),
		float32(t.V1.X), float32(t.V1.Y), float32(t.V1.Z),
		float32(t.V2.X), float32(t.V2.Y), float32(t.V2.Z),
		float32(t.Normal.X), float32(t.Normal.Y), float32(t.Normal.Z),
		float32(albedo.X), float32(albedo.Y), float32(albedo.Z),
		float32(t.Mat.DiffuseWeight), float32(t.Mat.SpecularWeight), float32(t.Mat.Roughness),
	}
}

// packMeshTriangle flattens a triangle to [meshIndex, groupIndex, triIndex],
// the first two matching MeshVertexFloats' mesh/group id fields. The index
// of the mesh chunk its group was packed into is not recorded.
func packMeshTriangle(t *geometry.MeshTriangle) []float32 {
	return []float32{
		float32(t.Group.MeshIndex), float32(t.Group.GroupIndex), float32(t.TriIndex),
	}
}

func packMeshVertices(g *geometry.MeshGroup) []float32 {
	out := make([]float32, 0, len(g.Positions)*MeshVertexFloats)
	for i, p := range g.Positions {
		var n core.Vec3
		if i < len(g.Normals) {
			n = g.Normals[i]
		}
		var uv core.Vec2
		if i < len(g.UVs) {
			uv = g.UVs[i]
		}
		out = append(out,
			float32(p.X), float32(p.Y), float32(p.Z),
			float32(n.X), float32(n.Y), float32(n.Z),
			float32(uv.X), float32(uv.Y),
			float32(g.MeshIndex), float32(g.GroupIndex),
		)
	}
	return out
}

func collectMeshGroups(elements []geometry.Element) []*geometry.MeshGroup {
	seen := make(map[*geometry.MeshGroup]bool)
	var groups []*geometry.MeshGroup
	for _, e := range elements {
		if t, ok := e.(*geometry.MeshTriangle); ok && !seen[t.Group] {
			seen[t.Group] = true
			groups = append(groups, t.Group)
		}
	}
	return groups
}

// packCubeMap resamples each face to cubeFaceResolution^2 and flattens to
// one [faceIndex, r, g, b] row per texel, faces in order and texels row by
// row within a face; a coarse but shader-contract-stable
// representation of the six ColorSource faces.
func packCubeMap(c *geometry.DistantCubeMap) []float32 {
	var out []float32
	for face := 0; face < 6; face++ {
		for y := 0; y < cubeFaceResolution; y++ {
			for x := 0; x < cubeFaceResolution; x++ {
				u := (float64(x) + 0.5) / cubeFaceResolution
				v := (float64(y) + 0.5) / cubeFaceResolution
				color := c.Faces[face].Evaluate(core.NewVec2(u, v), core.Vec3{})
				out = append(out, float32(face), float32(color.X), float32(color.Y), float32(color.Z))
			}
		}
	}
	return out
}
