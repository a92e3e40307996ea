package geometry

import (
	"fmt"
	"sort"

	"github.com/df07/go-sphere-tracer/pkg/core"
)

// AddBVH builds a BVH over the given node indices and returns the index of
// its root. Every input node must have a bounding box.
//
// Each node splits on a uniformly random axis: one item becomes the only
// child, two items are ordered by box minimum, larger groups are sorted by
// box minimum and split at the median.
func (s *Scene) AddBVH(items []int, sampler core.Sampler) int {
	if len(items) == 0 {
		panic("geometry: AddBVH with no items")
	}

	work := make([]int, len(items))
	copy(work, items)
	return s.buildBVH(work, sampler)
}

func (s *Scene) buildBVH(items []int, sampler core.Sampler) int {
	axis := sampler.Intn(3)
	less := func(a, b int) bool {
		return s.boxMin(a, axis) < s.boxMin(b, axis)
	}

	node := Node{Kind: BVHNode, Right: -1}
	switch len(items) {
	case 1:
		node.Left = items[0]
	case 2:
		if less(items[0], items[1]) {
			node.Left, node.Right = items[0], items[1]
		} else {
			node.Left, node.Right = items[1], items[0]
		}
	default:
		sort.Slice(items, func(i, j int) bool { return less(items[i], items[j]) })
		mid := len(items) / 2
		node.Left = s.buildBVH(items[:mid], sampler)
		node.Right = s.buildBVH(items[mid:], sampler)
	}

	node.Box, node.HasBox = s.NodeBoundingBox(node.Left)
	if node.Right >= 0 {
		box, ok := s.NodeBoundingBox(node.Right)
		node.Box, node.HasBox = unionBoxes(node.Box, node.HasBox, box, ok)
	}

	s.Nodes = append(s.Nodes, node)
	return len(s.Nodes) - 1
}

func (s *Scene) boxMin(i, axis int) float64 {
	box, ok := s.NodeBoundingBox(i)
	if !ok {
		panic(fmt.Sprintf("geometry: BVH item %d has no bounding box", i))
	}
	return box.Min.Index(axis)
}

// Stats describes the shape of the node tree reachable from the root
type Stats struct {
	Spheres    int
	TotalNodes int
	LeafNodes  int
	MaxDepth   int
}

// Stats walks the scene from the root and collects node statistics
func (s *Scene) Stats() Stats {
	stats := Stats{Spheres: len(s.Spheres)}
	s.collectStats(s.Root, 0, &stats)
	return stats
}

func (s *Scene) collectStats(i, depth int, stats *Stats) {
	stats.TotalNodes++
	stats.MaxDepth = max(stats.MaxDepth, depth)

	node := &s.Nodes[i]
	switch node.Kind {
	case LeafNode:
		stats.LeafNodes++
	case ListNode:
		for _, child := range node.Children {
			s.collectStats(child, depth+1, stats)
		}
	case BVHNode:
		s.collectStats(node.Left, depth+1, stats)
		if node.Right >= 0 {
			s.collectStats(node.Right, depth+1, stats)
		}
	}
}
