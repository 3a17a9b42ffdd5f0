package scheme

import (
	"fmt"

	"github.com/mrigankad-go/phototrace/pkg/core"
	"github.com/mrigankad-go/phototrace/pkg/geometry"
	"github.com/mrigankad-go/phototrace/pkg/material"
	"github.com/mrigankad-go/phototrace/pkg/meshio"
	"github.com/mrigankad-go/phototrace/pkg/scene"
)

// BuildCamera converts the Scheme's camera block into a scene.Camera sized
// for the given aspect ratio.
func (s *Scheme) BuildCamera(aspectRatio float64) scene.Camera {
	c := s.Cam
	return scene.NewCamera(vec3(c.Origin), vec3(c.LookAt), vec3(c.Up), c.VfovDeg, aspectRatio, c.Aperture, c.FocusDist)
}

// BuildMembers resolves every scene_members entry into a scene.Member,
// importing glTF models through pkg/meshio along the way.
func (s *Scheme) BuildMembers() ([]scene.Member, error) {
	var members []scene.Member
	for _, m := range s.SceneMembers {
		switch {
		case m.Sphere != nil:
			member, err := buildSphereMember(m.Sphere)
			if err != nil {
				return nil, err
			}
			members = append(members, member)
		case m.FreeTriangle != nil:
			members = append(members, buildFreeTriangleMember(m.FreeTriangle))
		case m.DistantCubeMap != nil:
			member, err := buildCubeMapMember(m.DistantCubeMap)
			if err != nil {
				return nil, err
			}
			members = append(members, member)
		case m.Model != nil:
			member, err := buildModelMember(m.Model)
			if err != nil {
				return nil, err
			}
			members = append(members, member)
		}
	}
	return members, nil
}

func vec3(a [3]float64) core.Vec3 {
	return core.NewVec3(a[0], a[1], a[2])
}

func buildAnimTrack(spec *AnimSpec) (*scene.AnimationTrack, error) {
	if spec == nil {
		return nil, nil
	}
	keyframes := make([]scene.Keyframe, len(spec.Keyframes))
	for i, k := range spec.Keyframes {
		easing, err := parseEasing(k.Easing)
		if err != nil {
			return nil, err
		}
		keyframes[i] = scene.Keyframe{Time: k.Time, Translation: vec3(k.Translation), Easing: easing}
	}
	return &scene.AnimationTrack{Keyframes: keyframes}, nil
}

func parseEasing(name string) (scene.Easing, error) {
	switch name {
	case "", "linear":
		return scene.EaseLinear, nil
	case "ease-in":
		return scene.EaseIn, nil
	case "ease-out":
		return scene.EaseOut, nil
	case "ease-in-out":
		return scene.EaseInOut, nil
	case "step":
		return scene.EaseStep, nil
	default:
		return 0, fmt.Errorf("unknown easing kind %q", name)
	}
}

func buildSphereMember(spec *SphereSpec) (scene.Member, error) {
	mat := material.NewDescriptor(spec.DiffuseWeight, spec.SpecularWeight, spec.Roughness)
	albedo := material.NewSolidColor(vec3(spec.Albedo))
	var emissive core.Vec3
	if spec.Emissive != nil {
		emissive = vec3(*spec.Emissive)
	}
	track, err := buildAnimTrack(spec.Animation)
	if err != nil {
		return scene.Member{}, err
	}
	return scene.Member{Sphere: &scene.SphereMember{
		Center:   vec3(spec.Center),
		Radius:   spec.Radius,
		Albedo:   albedo,
		Mat:      mat,
		Emissive: emissive,
		Track:    track,
	}}, nil
}

func buildFreeTriangleMember(spec *FreeTriangleSpec) scene.Member {
	mat := material.NewDescriptor(spec.DiffuseWeight, spec.SpecularWeight, spec.Roughness)
	albedo := material.NewSolidColor(vec3(spec.Albedo))
	tri := geometry.NewFreeTriangle(vec3(spec.V0), vec3(spec.V1), vec3(spec.V2), albedo, mat)
	return scene.Member{Static: tri}
}

func buildCubeMapMember(spec *DistantCubeMapSpec) (scene.Member, error) {
	faces := [6]string{spec.PosX, spec.NegX, spec.PosY, spec.NegY, spec.PosZ, spec.NegZ}
	sources := [6]material.ColorSource{}
	for i, path := range faces {
		tex, err := meshio.LoadFaceTexture(path)
		if err != nil {
			return scene.Member{}, err
		}
		sources[i] = tex
	}
	cubeMap := geometry.NewDistantCubeMap(sources[0], sources[1], sources[2], sources[3], sources[4], sources[5])
	return scene.Member{Static: cubeMap}, nil
}

func buildModelMember(spec *ModelSpec) (scene.Member, error) {
	var nodeIndices []int
	if spec.NodeIndex != 0 {
		nodeIndices = []int{spec.NodeIndex}
	}

	model, err := meshio.LoadGLTF(spec.Path, nodeIndices)
	if err != nil {
		return scene.Member{}, err
	}

	groups := uniqueGroups(model.Triangles)
	scale := spec.UniformScale
	if scale == 0 {
		scale = 1
	}
	if scale != 1 {
		for i, g := range groups {
			groups[i] = scaleMeshGroup(g, scale)
		}
	}

	track, err := buildAnimTrack(spec.Animation)
	if err != nil {
		return scene.Member{}, err
	}

	return scene.Member{Mesh: &scene.MeshMember{Groups: groups, Track: track}}, nil
}

// uniqueGroups collects the distinct MeshGroup pointers referenced by
// triangles, preserving first-seen order.
func uniqueGroups(triangles []*geometry.MeshTriangle) []*geometry.MeshGroup {
	seen := make(map[*geometry.MeshGroup]bool)
	var groups []*geometry.MeshGroup
	for _, t := range triangles {
		if !seen[t.Group] {
			seen[t.Group] = true
			groups = append(groups, t.Group)
		}
	}
	return groups
}

func scaleMeshGroup(g *geometry.MeshGroup, scale float64) *geometry.MeshGroup {
	scaled := *g
	scaled.Positions = make([]core.Vec3, len(g.Positions))
	for i, p := range g.Positions {
		scaled.Positions[i] = p.Multiply(scale)
	}
	return &scaled
}
