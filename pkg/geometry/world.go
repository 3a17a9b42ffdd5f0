package geometry

import "github.com/mrigankad-go/phototrace/pkg/core"

// World is the hit-testable union of a KD-tree over bounded primitives and
// an unconditional list of primitives with no finite bound (the distant
// cube map), tested against every ray regardless of the tree's traversal.
type World struct {
	Tree          *KDTree
	Unconditional []Element
}

// NewWorld partitions prims into a KD-tree (for those reporting a bounding
// box) and an unconditional list (for those that don't), using the
// package's default tree depth bound.
func NewWorld(prims []Element) *World {
	return NewWorldMaxDepth(prims, 0)
}

// NewWorldMaxDepth is NewWorld with an explicit KD-tree depth bound
// (render_info.kd_tree_depth); maxDepth <= 0 falls back to the default.
func NewWorldMaxDepth(prims []Element, maxDepth int) *World {
	var bounded, unconditional []Element
	for _, p := range prims {
		if _, ok := p.BoundingBox(); ok {
			bounded = append(bounded, p)
		} else {
			unconditional = append(unconditional, p)
		}
	}
	return &World{Tree: BuildKDTreeMaxDepth(bounded, maxDepth), Unconditional: unconditional}
}

// Intersect tests the ray against both the unconditional list and the
// KD-tree, returning the closer hit.
func (w *World) Intersect(ray core.Ray, tMin, tMax float64) (Hit, Element, bool) {
	closest := tMax
	var bestHit Hit
	var bestElem Element
	found := false

	for _, p := range w.Unconditional {
		if hit, ok := p.Hit(ray, tMin, closest); ok {
			closest = hit.T
			bestHit = hit
			bestElem = p
			found = true
		}
	}

	if hit, elem, ok := w.Tree.Intersect(ray, tMin, closest); ok {
		bestHit, bestElem, found = hit, elem, true
	}

	return bestHit, bestElem, found
}
