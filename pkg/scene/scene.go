// Package scene assembles a Scheme's camera and scene members into a
// hit-testable geometry.World plus the emitter list the radiance kernel
// direct-light-samples against, and expands animated members into
// independent per-frame copies.
package scene

import (
	"github.com/mrigankad-go/phototrace/pkg/core"
	"github.com/mrigankad-go/phototrace/pkg/geometry"
	"github.com/mrigankad-go/phototrace/pkg/kernel"
	"github.com/mrigankad-go/phototrace/pkg/material"
)

// SphereMember is a sphere scene member, optionally carrying a translation
// track (the animation rides on its center).
type SphereMember struct {
	Center   core.Vec3
	Radius   float64
	Albedo   material.ColorSource
	Mat      material.Descriptor
	Emissive core.Vec3 // zero if non-emissive
	Track    *AnimationTrack
}

// Resolve builds the sphere at time, translating its center by the track's
// value when one is present.
func (m SphereMember) Resolve(time float64) geometry.Element {
	center := m.Center
	if m.Track != nil {
		center = center.Add(m.Track.TranslationAt(time))
	}
	s := geometry.NewSphere(center, m.Radius, m.Albedo, m.Mat)
	if !m.Emissive.IsZero() {
		return s.WithEmissive(m.Emissive)
	}
	return s
}

// MeshMember is a set of pre-decomposed mesh groups (one per glTF
// primitive), optionally riding a translation-only track applied to every
// vertex of every group.
type MeshMember struct {
	Groups []*geometry.MeshGroup
	Track  *AnimationTrack
}

// Resolve emits one geometry.Element per triangle across every group,
// translating vertex positions by the track's value at time when present.
func (m MeshMember) Resolve(time float64) []geometry.Element {
	var out []geometry.Element
	for _, g := range m.Groups {
		group := g
		if m.Track != nil {
			offset := m.Track.TranslationAt(time)
			group = translateMeshGroup(g, offset)
		}
		triCount := len(group.Indices) / 3
		for i := 0; i < triCount; i++ {
			out = append(out, geometry.NewMeshTriangle(group, i))
		}
	}
	return out
}

func translateMeshGroup(g *geometry.MeshGroup, offset core.Vec3) *geometry.MeshGroup {
	translated := *g
	translated.Positions = make([]core.Vec3, len(g.Positions))
	for i, p := range g.Positions {
		translated.Positions[i] = p.Add(offset)
	}
	return &translated
}

// Member is one scene-description entry: a static leaf element (free
// triangle, distant cube map), an animatable sphere, or an animatable mesh.
type Member struct {
	Static geometry.Element
	Sphere *SphereMember
	Mesh   *MeshMember
}

// Scene is one frame's fully-resolved, immutable render input.
type Scene struct {
	Camera   Camera
	Elements []geometry.Element
}

// Build resolves members at the given animation time (0 for a static scene)
// into a geometry.World (using the package's default KD-tree depth) and the
// list of Emitters the kernel direct-light samples against.
func Build(camera Camera, members []Member, time float64) (*Scene, *geometry.World, []kernel.Emitter) {
	return BuildWithKDDepth(camera, members, time, 0)
}

// BuildWithKDDepth is Build with an explicit KD-tree depth bound, letting
// render_info.kd_tree_depth override the package default.
func BuildWithKDDepth(camera Camera, members []Member, time float64, kdTreeDepth int) (*Scene, *geometry.World, []kernel.Emitter) {
	var elements []geometry.Element
	for _, m := range members {
		switch {
		case m.Sphere != nil:
			elements = append(elements, m.Sphere.Resolve(time))
		case m.Mesh != nil:
			elements = append(elements, m.Mesh.Resolve(time)...)
		case m.Static != nil:
			elements = append(elements, m.Static)
		}
	}

	var emitters []kernel.Emitter
	for _, e := range elements {
		if emitter, ok := e.(kernel.Emitter); ok {
			emitters = append(emitters, emitter)
		}
	}

	world := geometry.NewWorldMaxDepth(elements, kdTreeDepth)
	return &Scene{Camera: camera, Elements: elements}, world, emitters
}
