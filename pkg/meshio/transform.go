package meshio

import (
	"github.com/mrigankad-go/phototrace/pkg/core"
)

// nodeTransform is a node's local TRS, composed down from the glTF node
// hierarchy to a single transform applied to every vertex of its mesh.
type nodeTransform struct {
	translation core.Vec3
	rotation    [4]float64 // x, y, z, w
	scale       core.Vec3
}

func identityTransform() nodeTransform {
	return nodeTransform{scale: core.NewVec3(1, 1, 1), rotation: [4]float64{0, 0, 0, 1}}
}

// compose returns the transform equivalent to applying t first, then parent.
func (parent nodeTransform) compose(t nodeTransform) nodeTransform {
	return nodeTransform{
		translation: parent.applyPoint(t.translation),
		rotation:    quatMul(parent.rotation, t.rotation),
		scale:       core.NewVec3(parent.scale.X*t.scale.X, parent.scale.Y*t.scale.Y, parent.scale.Z*t.scale.Z),
	}
}

func (t nodeTransform) applyPoint(p core.Vec3) core.Vec3 {
	scaled := core.NewVec3(p.X*t.scale.X, p.Y*t.scale.Y, p.Z*t.scale.Z)
	rotated := quatRotate(t.rotation, scaled)
	return rotated.Add(t.translation)
}

// applyDirection transforms a normal/tangent direction: rotation and scale,
// no translation. Non-uniform scale is not inverse-transposed here since
// glTF meshes in this ingest path use uniform or near-uniform node scale.
func (t nodeTransform) applyDirection(d core.Vec3) core.Vec3 {
	scaled := core.NewVec3(d.X*t.scale.X, d.Y*t.scale.Y, d.Z*t.scale.Z)
	return quatRotate(t.rotation, scaled)
}

func quatMul(a, b [4]float64) [4]float64 {
	return [4]float64{
		a[3]*b[0] + a[0]*b[3] + a[1]*b[2] - a[2]*b[1],
		a[3]*b[1] - a[0]*b[2] + a[1]*b[3] + a[2]*b[0],
		a[3]*b[2] + a[0]*b[1] - a[1]*b[0] + a[2]*b[3],
		a[3]*b[3] - a[0]*b[0] - a[1]*b[1] - a[2]*b[2],
	}
}

func quatRotate(q [4]float64, v core.Vec3) core.Vec3 {
	qv := core.NewVec3(q[0], q[1], q[2])
	uv := qv.Cross(v)
	uuv := qv.Cross(uv)
	return v.Add(uv.Multiply(2 * q[3])).Add(uuv.Multiply(2))
}
