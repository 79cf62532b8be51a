package geometry

import (
	"fmt"
	"math"
	"sort"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// DefaultLeafSize is the number of shapes at or below which a node becomes a leaf
const DefaultLeafSize = 2

// maxBVHShapes keeps node and primitive indices addressable as int32
const maxBVHShapes = math.MaxInt32 / 2

// maxTraversalDepth bounds the traversal stack. Median splits halve the shape count at
// every level, so the tree depth never exceeds log2(maxBVHShapes)+1.
const maxTraversalDepth = 64

// bvhNode is one entry of the node arena. Interior nodes reference their children by index;
// leaves reference a [start, start+count) range of the primitive slice.
type bvhNode struct {
	bounds core.AABB
	left   int32
	right  int32
	start  int32
	count  int32 // > 0 for leaves
}

func (n *bvhNode) isLeaf() bool {
	return n.count > 0
}

// bvhPrimitive caches what the builder needs to know about a shape
type bvhPrimitive struct {
	shape  Shape
	index  int // position in the slice given to NewBVH
	bounds core.AABB
	center core.Vec3
}

// BVH represents a Bounding Volume Hierarchy for fast ray-object intersection.
// It is immutable after construction and safe for concurrent queries.
type BVH struct {
	nodes      []bvhNode
	primitives []bvhPrimitive
	leafSize   int
}

// BVHOption configures BVH construction
type BVHOption func(*BVH)

// WithLeafSize sets the maximum number of shapes stored in a leaf
func WithLeafSize(n int) BVHOption {
	return func(b *BVH) {
		if n > 0 {
			b.leafSize = n
		}
	}
}

// NewBVH constructs a BVH from a slice of shapes. The input slice is not modified.
func NewBVH(shapes []Shape, opts ...BVHOption) (*BVH, error) {
	bvh := &BVH{leafSize: DefaultLeafSize}
	for _, opt := range opts {
		opt(bvh)
	}

	if len(shapes) > maxBVHShapes {
		return nil, fmt.Errorf("bvh over %d shapes: %w", len(shapes), core.ErrResourceExhaustion)
	}
	if len(shapes) == 0 {
		return bvh, nil
	}

	bvh.primitives = make([]bvhPrimitive, len(shapes))
	for i, s := range shapes {
		box := s.BoundingBox()
		bvh.primitives[i] = bvhPrimitive{
			shape: s,
			index: i,
			// Shapes accept rays within grazingTolerance of their size, so leaves must too
			bounds: box.Expand(grazingTolerance * (1 + box.Size().Length())),
			center: box.Center(),
		}
	}

	bvh.nodes = make([]bvhNode, 0, 2*len(shapes)-1)
	bvh.build(0, len(shapes))
	return bvh, nil
}

// build partitions primitives[start:end] and appends its subtree to the arena,
// returning the index of the subtree root
func (bvh *BVH) build(start, end int) int32 {
	bounds := core.EmptyAABB()
	for _, p := range bvh.primitives[start:end] {
		bounds = bounds.Union(p.bounds)
	}

	nodeIndex := int32(len(bvh.nodes))
	bvh.nodes = append(bvh.nodes, bvhNode{bounds: bounds})

	count := end - start
	if count <= bvh.leafSize {
		bvh.nodes[nodeIndex].start = int32(start)
		bvh.nodes[nodeIndex].count = int32(count)
		return nodeIndex
	}

	// Median split along the longest axis of the combined box
	axis := bounds.LongestAxis()
	prims := bvh.primitives[start:end]
	sort.SliceStable(prims, func(i, j int) bool {
		return prims[i].center.Axis(axis) < prims[j].center.Axis(axis)
	})
	mid := start + count/2

	left := bvh.build(start, mid)
	right := bvh.build(mid, end)
	bvh.nodes[nodeIndex].left = left
	bvh.nodes[nodeIndex].right = right
	return nodeIndex
}

// Hit tests if a ray intersects any shape in the BVH
func (bvh *BVH) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	hit, _, ok := bvh.HitShape(ray, tMin, tMax)
	return hit, ok
}

// HitShape returns the closest intersection and the index, in the slice given to NewBVH,
// of the shape that produced it. Ties in t go to the lower index, matching ShapeList.
func (bvh *BVH) HitShape(ray core.Ray, tMin, tMax float64) (*material.HitRecord, int, bool) {
	if len(bvh.nodes) == 0 {
		return nil, -1, false
	}

	var closest *material.HitRecord
	closestIndex := -1
	closestSoFar := tMax

	var stack [maxTraversalDepth]int32
	top := 0
	stack[top] = 0
	top++

	for top > 0 {
		top--
		node := &bvh.nodes[stack[top]]

		// Shapes exactly at closestSoFar still matter for the tie-break
		limit := closestSoFar
		if closest != nil {
			limit = math.Nextafter(closestSoFar, math.Inf(1))
		}
		if !node.bounds.Hit(ray, tMin, limit) {
			continue
		}

		if node.isLeaf() {
			for _, p := range bvh.primitives[node.start : node.start+node.count] {
				hit, ok := p.shape.Hit(ray, tMin, limit)
				if !ok {
					continue
				}
				if closest == nil || hit.T < closestSoFar || (hit.T == closestSoFar && p.index < closestIndex) {
					closest = hit
					closestIndex = p.index
					closestSoFar = hit.T
					limit = math.Nextafter(closestSoFar, math.Inf(1))
				}
			}
			continue
		}

		stack[top] = node.right
		top++
		stack[top] = node.left
		top++
	}

	return closest, closestIndex, closest != nil
}

// BoundingBox returns the bounds of the whole hierarchy
func (bvh *BVH) BoundingBox() core.AABB {
	if len(bvh.nodes) == 0 {
		return core.EmptyAABB()
	}
	return bvh.nodes[0].bounds
}

// Len returns the number of shapes in the hierarchy
func (bvh *BVH) Len() int {
	return len(bvh.primitives)
}

// bvhStats contains statistics about the BVH structure
type bvhStats struct {
	totalNodes  int
	leafNodes   int
	maxDepth    int
	avgDepth    float64
	totalShapes int
}

// getStats returns statistics about the BVH structure
func (bvh *BVH) getStats() bvhStats {
	stats := bvhStats{}
	if len(bvh.nodes) == 0 {
		return stats
	}

	type entry struct {
		node  int32
		depth int
	}
	pending := []entry{{node: 0, depth: 0}}
	for len(pending) > 0 {
		e := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		node := &bvh.nodes[e.node]

		stats.totalNodes++
		stats.maxDepth = max(stats.maxDepth, e.depth)
		if node.isLeaf() {
			stats.leafNodes++
			stats.totalShapes += int(node.count)
			stats.avgDepth += float64(e.depth)
			continue
		}
		pending = append(pending, entry{node.left, e.depth + 1}, entry{node.right, e.depth + 1})
	}

	if stats.leafNodes > 0 {
		stats.avgDepth /= float64(stats.leafNodes)
	}
	return stats
}
