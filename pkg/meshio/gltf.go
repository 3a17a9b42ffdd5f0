package meshio

import (
	"bytes"
	"fmt"
	"image"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/mrigankad-go/phototrace/pkg/core"
	"github.com/mrigankad-go/phototrace/pkg/geometry"
	"github.com/mrigankad-go/phototrace/pkg/material"
	"github.com/mrigankad-go/phototrace/pkg/rterr"
)

// Model is a loaded glTF asset flattened to mesh triangles, keyed by
// (mesh index, primitive-group index, triangle index) through the
// MeshGroup each triangle references, without duplicating shared data.
type Model struct {
	Triangles []*geometry.MeshTriangle
}

// LoadGLTF opens a .gltf or .glb document at path and decomposes every mesh
// found on the nodes listed in nodeIndices and their descendants (nil/empty
// means every root node of the default scene — the default, replacing a
// fixed node index with an explicit, validated selection).
func LoadGLTF(path string, nodeIndices []int) (*Model, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, rterr.Wrap(rterr.AssetIoError, fmt.Sprintf("open gltf %q", path), err)
	}
	dir := filepath.Dir(path)

	textures, err := loadTextures(doc, dir)
	if err != nil {
		return nil, err
	}
	materials := convertMaterials(doc, textures)

	groups, err := buildMeshGroups(doc, materials)
	if err != nil {
		return nil, err
	}

	selected := nodeIndices
	if len(selected) == 0 {
		selected = defaultRootNodesWithMesh(doc)
	}

	model := &Model{}
	for _, idx := range selected {
		if idx < 0 || idx >= len(doc.Nodes) {
			return nil, rterr.New(rterr.AssetIoError, fmt.Sprintf("node index %d out of range (have %d nodes)", idx, len(doc.Nodes)))
		}
		walkNode(doc, idx, identityTransform(), groups, model)
	}
	return model, nil
}

// defaultRootNodesWithMesh returns the root nodes of the default scene (or,
// lacking one, every parentless node), whether or not they carry a mesh
// themselves; LoadGLTF walks each one's descendants for meshes. This
// replaces a hardcoded single-node selection with a scan of the whole
// default scene graph.
func defaultRootNodesWithMesh(doc *gltf.Document) []int {
	var roots []int
	if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) {
		roots = append(roots, intSlice(doc.Scenes[*doc.Scene].Nodes)...)
	} else {
		hasParent := make([]bool, len(doc.Nodes))
		for _, gn := range doc.Nodes {
			for _, c := range gn.Children {
				if int(c) < len(hasParent) {
					hasParent[int(c)] = true
				}
			}
		}
		for i := range doc.Nodes {
			if !hasParent[i] {
				roots = append(roots, i)
			}
		}
	}
	return roots
}

func intSlice(idx []uint32) []int {
	out := make([]int, len(idx))
	for i, v := range idx {
		out[i] = int(v)
	}
	return out
}

// walkNode recurses the node hierarchy rooted at nodeIdx, instantiating
// every mesh it (or a descendant) carries into model, transformed into
// world space by the accumulated parent transform.
func walkNode(doc *gltf.Document, nodeIdx int, parent nodeTransform, groups [][]*geometry.MeshGroup, model *Model) {
	gn := doc.Nodes[nodeIdx]
	local := nodeTransform{
		translation: vec3From(gn.TranslationOrDefault()),
		rotation:    gn.RotationOrDefault(),
		scale:       vec3From(gn.ScaleOrDefault()),
	}
	world := parent.compose(local)

	if gn.Mesh != nil {
		for _, group := range groups[*gn.Mesh] {
			transformed := transformGroup(group, world)
			for tri := 0; tri*3 < len(transformed.Indices); tri++ {
				model.Triangles = append(model.Triangles, geometry.NewMeshTriangle(transformed, tri))
			}
		}
	}

	for _, child := range gn.Children {
		walkNode(doc, int(child), world, groups, model)
	}
}

func vec3From(a [3]float64) core.Vec3 {
	return core.NewVec3(a[0], a[1], a[2])
}

// transformGroup bakes a node's world transform into a fresh MeshGroup,
// so MeshTriangle hit-testing never needs to carry a transform of its own.
func transformGroup(g *geometry.MeshGroup, t nodeTransform) *geometry.MeshGroup {
	positions := make([]core.Vec3, len(g.Positions))
	for i, p := range g.Positions {
		positions[i] = t.applyPoint(p)
	}
	normals := make([]core.Vec3, len(g.Normals))
	for i, n := range g.Normals {
		normals[i] = t.applyDirection(n).Normalize()
	}
	var tangents []core.Vec3
	if g.Tangents != nil {
		tangents = make([]core.Vec3, len(g.Tangents))
		for i, tg := range g.Tangents {
			tangents[i] = t.applyDirection(tg).Normalize()
		}
	}

	out := *g
	out.Positions = positions
	out.Normals = normals
	out.Tangents = tangents
	return &out
}

func loadTextures(doc *gltf.Document, dir string) ([]*material.ImageTexture, error) {
	textures := make([]*material.ImageTexture, len(doc.Textures))
	srgbByImage := make(map[int]bool)
	markSRGB(doc, srgbByImage)

	for i, gt := range doc.Textures {
		if gt.Source == nil {
			continue
		}
		srcIdx := int(*gt.Source)
		img := doc.Images[srcIdx]
		srgb := srgbByImage[srcIdx]

		var decoded image.Image
		var err error
		if img.BufferView != nil {
			raw, rerr := modeler.ReadBufferView(doc, doc.BufferViews[*img.BufferView])
			if rerr != nil {
				return nil, rterr.Wrap(rterr.AssetIoError, fmt.Sprintf("image %d buffer view", srcIdx), rerr)
			}
			decoded, _, err = image.Decode(bytes.NewReader(raw))
		} else if img.URI != "" && !img.IsEmbeddedResource() {
			decoded, err = decodeImageFile(filepath.Join(dir, img.URI))
		}
		if err != nil {
			return nil, rterr.Wrap(rterr.AssetIoError, fmt.Sprintf("decode image %d", srcIdx), err)
		}
		if decoded == nil {
			continue
		}
		tex, terr := DecodeTexture(decoded, srgb)
		if terr != nil {
			return nil, terr
		}
		textures[i] = tex
	}
	return textures, nil
}

// markSRGB flags which image indices feed a base-color slot, the only
// slot whose texture is gamma-encoded per the glTF convention; normal and
// metallic-roughness textures are linear.
func markSRGB(doc *gltf.Document, srgb map[int]bool) {
	for _, gm := range doc.Materials {
		if gm.PBRMetallicRoughness == nil || gm.PBRMetallicRoughness.BaseColorTexture == nil {
			continue
		}
		texIdx := gm.PBRMetallicRoughness.BaseColorTexture.Index
		if int(texIdx) < len(doc.Textures) {
			if src := doc.Textures[texIdx].Source; src != nil {
				srgb[int(*src)] = true
			}
		}
	}
}

func convertMaterials(doc *gltf.Document, textures []*material.ImageTexture) []convertedMaterial {
	out := make([]convertedMaterial, len(doc.Materials))
	for i, gm := range doc.Materials {
		cm := convertedMaterial{
			baseColorFactor: core.NewVec3(1, 1, 1),
			mat:             material.NewDescriptor(1, 0, 0.9),
			normalScale:     1,
		}
		if pbr := gm.PBRMetallicRoughness; pbr != nil {
			cf := pbr.BaseColorFactorOrDefault()
			cm.baseColorFactor = core.NewVec3(cf[0], cf[1], cf[2])
			if pbr.BaseColorTexture != nil {
				idx := pbr.BaseColorTexture.Index
				if int(idx) < len(textures) {
					cm.baseColor = textures[idx]
				}
			}
			roughness := pbr.RoughnessFactorOrDefault()
			metallic := pbr.MetallicFactorOrDefault()
			cm.mat = material.NewDescriptor(1-metallic, metallic, roughness)
			if pbr.MetallicRoughnessTexture != nil {
				idx := pbr.MetallicRoughnessTexture.Index
				if int(idx) < len(textures) {
					cm.metalRoughness = textures[idx]
				}
			}
		}
		if gm.NormalTexture != nil && gm.NormalTexture.Index != nil {
			idx := *gm.NormalTexture.Index
			if int(idx) < len(textures) {
				cm.normalMap = textures[idx]
				cm.normalScale = gm.NormalTexture.ScaleOrDefault()
			}
		}
		out[i] = cm
	}
	return out
}

type convertedMaterial struct {
	baseColor       *material.ImageTexture
	baseColorFactor core.Vec3
	normalMap       *material.ImageTexture
	normalScale     float64
	metalRoughness  *material.ImageTexture
	mat             material.Descriptor
}

// buildMeshGroups converts every glTF mesh primitive into a MeshGroup,
// indexed [meshIndex][groupIndex] to mirror the source document's layout.
func buildMeshGroups(doc *gltf.Document, materials []convertedMaterial) ([][]*geometry.MeshGroup, error) {
	groups := make([][]*geometry.MeshGroup, len(doc.Meshes))
	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			group, err := buildMeshGroup(doc, mi, pi, prim, materials)
			if err != nil {
				return nil, err
			}
			groups[mi] = append(groups[mi], group)
		}
	}
	return groups, nil
}

func buildMeshGroup(doc *gltf.Document, meshIdx, groupIdx int, prim *gltf.Primitive, materials []convertedMaterial) (*geometry.MeshGroup, error) {
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, rterr.New(rterr.AssetIoError, fmt.Sprintf("mesh %d primitive %d: no POSITION attribute", meshIdx, groupIdx))
	}
	rawPos, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, rterr.Wrap(rterr.AssetIoError, fmt.Sprintf("mesh %d primitive %d positions", meshIdx, groupIdx), err)
	}
	positions := make([]core.Vec3, len(rawPos))
	for i, p := range rawPos {
		positions[i] = core.NewVec3(float64(p[0]), float64(p[1]), float64(p[2]))
	}

	normals := make([]core.Vec3, len(positions))
	if idx, ok := prim.Attributes["NORMAL"]; ok {
		rawN, rerr := modeler.ReadNormal(doc, doc.Accessors[idx], nil)
		if rerr == nil {
			for i, n := range rawN {
				normals[i] = core.NewVec3(float64(n[0]), float64(n[1]), float64(n[2]))
			}
		}
	} else {
		for i := range normals {
			normals[i] = core.NewVec3(0, 1, 0)
		}
	}

	uvs := make([]core.Vec2, len(positions))
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		rawUV, rerr := modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
		if rerr == nil {
			for i, uv := range rawUV {
				uvs[i] = core.NewVec2(float64(uv[0]), float64(uv[1]))
			}
		}
	}

	// Per-vertex tangents are not read from the source accessor; MeshGroup
	// reconstructs a tangent frame from UV derivatives when needed.
	var tangents []core.Vec3

	var indices []int
	if prim.Indices != nil {
		rawIdx, rerr := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if rerr != nil {
			return nil, rterr.Wrap(rterr.AssetIoError, fmt.Sprintf("mesh %d primitive %d indices", meshIdx, groupIdx), rerr)
		}
		indices = make([]int, len(rawIdx))
		for i, v := range rawIdx {
			indices[i] = int(v)
		}
	} else {
		indices = make([]int, len(positions))
		for i := range indices {
			indices[i] = i
		}
	}

	group := &geometry.MeshGroup{
		MeshIndex:       meshIdx,
		GroupIndex:      groupIdx,
		Positions:       positions,
		Normals:         normals,
		Tangents:        tangents,
		UVs:             uvs,
		Indices:         indices,
		BaseColorFactor: core.NewVec3(1, 1, 1),
		Mat:             material.NewDescriptor(1, 0, 0.9),
		NormalScale:     1,
	}

	if prim.Material != nil && int(*prim.Material) < len(materials) {
		cm := materials[*prim.Material]
		group.BaseColor = colorSourceOrNil(cm.baseColor)
		group.BaseColorFactor = cm.baseColorFactor
		group.NormalMap = colorSourceOrNil(cm.normalMap)
		group.NormalScale = cm.normalScale
		group.MetalRoughness = colorSourceOrNil(cm.metalRoughness)
		group.Mat = cm.mat
	}

	return group, nil
}

func colorSourceOrNil(tex *material.ImageTexture) material.ColorSource {
	if tex == nil {
		return nil
	}
	return tex
}
