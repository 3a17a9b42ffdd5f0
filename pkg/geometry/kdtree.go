package geometry

import (
	"github.com/mrigankad-go/phototrace/pkg/core"
)

// kdLeafThreshold is the leaf size at or below which recursion stops.
const kdLeafThreshold = 4

// kdMaxDepth bounds recursion when the leaf threshold alone would let a
// pathological distribution of primitives (many sharing a centroid) recurse
// forever.
const kdMaxDepth = 24

// kdNode is one pointer-linked tree node, mirroring the engine's BVH node
// shape: an internal node carries Left/Right children, a leaf carries its
// own primitive slice directly. There is no arena/index scheme to get
// wrong — a node's children are exactly the pointers it holds.
type kdNode struct {
	bounds core.AABB

	axis  int // -1 marks a leaf
	split float64
	left  *kdNode
	right *kdNode

	prims []Element // non-nil only on a leaf
}

// KDTree indexes every Element that reports a bounding box; elements that
// don't (the distant cube map) are tracked separately by the caller as an
// unconditional list and are always tested alongside the tree.
type KDTree struct {
	root     *kdNode
	maxDepth int
}

// BuildKDTree constructs a KD-tree over prims by recursive median split
// along the longest bounding-box axis, bounded by the package default
// depth. Construction never fails: a primitive with a degenerate
// (zero-extent) box is inflated by ε before use so it still participates
// in a split.
func BuildKDTree(prims []Element) *KDTree {
	return BuildKDTreeMaxDepth(prims, kdMaxDepth)
}

// BuildKDTreeMaxDepth is BuildKDTree with an explicit recursion bound,
// letting a render_info.kd_tree_depth override trade tree depth against
// per-ray traversal cost. maxDepth <= 0 falls back to the package default.
func BuildKDTreeMaxDepth(prims []Element, maxDepth int) *KDTree {
	if maxDepth <= 0 {
		maxDepth = kdMaxDepth
	}
	t := &KDTree{maxDepth: maxDepth}
	if len(prims) == 0 {
		return t
	}

	boxes := make([]core.AABB, len(prims))
	for i, p := range prims {
		box, ok := p.BoundingBox()
		if !ok {
			// Shouldn't happen: callers keep unbounded primitives off this
			// list. Treat as a point box so the tree still builds.
			box = core.AABB{}
		}
		boxes[i] = inflateDegenerate(box)
	}

	t.root = t.build(prims, boxes, 0)
	return t
}

const kdDegenerateEps = 1e-4

// inflateDegenerate expands a zero- or near-zero-extent box by ε on every
// axis so the slab test and median split never divide by zero.
func inflateDegenerate(box core.AABB) core.AABB {
	size := box.Size()
	if size.X > kdDegenerateEps && size.Y > kdDegenerateEps && size.Z > kdDegenerateEps {
		return box
	}
	return box.Expand(kdDegenerateEps)
}

// build recursively partitions prims/boxes (kept in lockstep by index) and
// returns the node it created. Left and right are real pointers to whatever
// subtrees recursion produced, so there is no index arithmetic that can
// drift out of sync with the actual arrangement of nodes.
func (t *KDTree) build(prims []Element, boxes []core.AABB, depth int) *kdNode {
	bounds := boxes[0]
	for _, b := range boxes[1:] {
		bounds = bounds.Union(b)
	}

	if len(prims) <= kdLeafThreshold || depth >= t.maxDepth {
		return &kdNode{bounds: bounds, axis: -1, prims: prims}
	}

	axis := bounds.LongestAxis()
	split := axisValue(bounds.Center(), axis)

	var leftPrims, rightPrims []Element
	var leftBoxes, rightBoxes []core.AABB
	for i, p := range prims {
		box := boxes[i]
		lo, hi := axisValue(box.Min, axis), axisValue(box.Max, axis)
		// Primitives straddling the split plane are referenced by both
		// children rather than duplicated.
		if lo <= split {
			leftPrims = append(leftPrims, p)
			leftBoxes = append(leftBoxes, box)
		}
		if hi >= split {
			rightPrims = append(rightPrims, p)
			rightBoxes = append(rightBoxes, box)
		}
	}

	// A degenerate split (everything fell on one side) becomes a leaf
	// instead of recursing forever.
	if len(leftPrims) == 0 || len(rightPrims) == 0 || (len(leftPrims) == len(prims) && len(rightPrims) == len(prims)) {
		return &kdNode{bounds: bounds, axis: -1, prims: prims}
	}

	return &kdNode{
		bounds: bounds,
		axis:   axis,
		split:  split,
		left:   t.build(leftPrims, leftBoxes, depth+1),
		right:  t.build(rightPrims, rightBoxes, depth+1),
	}
}

func axisValue(v core.Vec3, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// Intersect recursively descends the tree, returning the closest hit across
// every visited leaf and its winning Element.
func (t *KDTree) Intersect(ray core.Ray, tMin, tMax float64) (Hit, Element, bool) {
	if t.root == nil {
		return Hit{}, nil, false
	}
	return t.root.intersect(ray, tMin, tMax)
}

func (n *kdNode) intersect(ray core.Ray, tMin, tMax float64) (Hit, Element, bool) {
	if !n.bounds.Hit(ray, tMin, tMax) {
		return Hit{}, nil, false
	}

	if n.axis < 0 {
		var bestHit Hit
		var bestElem Element
		found := false
		closest := tMax
		for _, prim := range n.prims {
			if hit, ok := prim.Hit(ray, tMin, closest); ok {
				closest = hit.T
				bestHit = hit
				bestElem = prim
				found = true
			}
		}
		return bestHit, bestElem, found
	}

	closest := tMax
	var bestHit Hit
	var bestElem Element
	found := false

	if hit, elem, ok := n.left.intersect(ray, tMin, closest); ok {
		bestHit, bestElem, found = hit, elem, true
		closest = hit.T
	}
	if hit, elem, ok := n.right.intersect(ray, tMin, closest); ok {
		bestHit, bestElem, found = hit, elem, true
	}

	return bestHit, bestElem, found
}
