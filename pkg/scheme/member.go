package scheme

import (
	"encoding/json"
	"fmt"
)

// Member is one scene_members entry, externally tagged the way a Rust
// serde enum serializes: a single-key object whose key names the variant
// ("Sphere", "FreeTriangle", "DistantCubeMap", "Model").
type Member struct {
	Sphere         *SphereSpec         `json:"-"`
	FreeTriangle   *FreeTriangleSpec   `json:"-"`
	DistantCubeMap *DistantCubeMapSpec `json:"-"`
	Model          *ModelSpec          `json:"-"`
}

// SphereSpec describes a Sphere scene member.
type SphereSpec struct {
	Center         [3]float64  `json:"center"`
	Radius         float64     `json:"radius"`
	Albedo         [3]float64  `json:"albedo"`
	DiffuseWeight  float64     `json:"diffuse_weight"`
	SpecularWeight float64     `json:"specular_weight"`
	Roughness      float64     `json:"roughness"`
	Emissive       *[3]float64 `json:"emissive,omitempty"`
	Animation      *AnimSpec   `json:"animation,omitempty"`
}

// FreeTriangleSpec describes a FreeTriangle scene member.
type FreeTriangleSpec struct {
	V0             [3]float64 `json:"v0"`
	V1             [3]float64 `json:"v1"`
	V2             [3]float64 `json:"v2"`
	Albedo         [3]float64 `json:"albedo"`
	DiffuseWeight  float64    `json:"diffuse_weight"`
	SpecularWeight float64    `json:"specular_weight"`
	Roughness      float64    `json:"roughness"`
}

// DistantCubeMapSpec names the six face texture paths, in ±X,±Y,±Z order.
type DistantCubeMapSpec struct {
	PosX string `json:"pos_x"`
	NegX string `json:"neg_x"`
	PosY string `json:"pos_y"`
	NegY string `json:"neg_y"`
	PosZ string `json:"pos_z"`
	NegZ string `json:"neg_z"`
}

// ModelSpec names a glTF file to import, scaled uniformly.
type ModelSpec struct {
	Path         string    `json:"path"`
	UniformScale float64   `json:"uniform_scale"`
	NodeIndex    int       `json:"node_index,omitempty"`
	Animation    *AnimSpec `json:"animation,omitempty"`
}

// AnimSpec is the JSON shape of an animation track.
type AnimSpec struct {
	Keyframes []KeyframeSpec `json:"keyframes"`
}

// KeyframeSpec is one keyframe: time in seconds, translation, and the
// easing kind governing the segment starting at it.
type KeyframeSpec struct {
	Time        float64    `json:"time"`
	Translation [3]float64 `json:"translation"`
	Easing      string     `json:"easing"`
}

// UnmarshalJSON decodes the single-key tagged-union object into exactly one
// of the Member's variant fields.
func (m *Member) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 1 {
		return fmt.Errorf("scene member must have exactly one tag, got %d", len(raw))
	}

	for tag, payload := range raw {
		switch tag {
		case "Sphere":
			m.Sphere = &SphereSpec{}
			return json.Unmarshal(payload, m.Sphere)
		case "FreeTriangle":
			m.FreeTriangle = &FreeTriangleSpec{}
			return json.Unmarshal(payload, m.FreeTriangle)
		case "DistantCubeMap":
			m.DistantCubeMap = &DistantCubeMapSpec{}
			return json.Unmarshal(payload, m.DistantCubeMap)
		case "Model":
			m.Model = &ModelSpec{}
			return json.Unmarshal(payload, m.Model)
		default:
			return fmt.Errorf("unknown scene member tag %q", tag)
		}
	}
	return nil
}
