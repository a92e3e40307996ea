package geometry

import (
	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/material"
)

// BVHThreshold is the primitive count above which BuildScene builds a BVH
// instead of a flat list.
const BVHThreshold = 10

// NodeKind tags the variant stored in a Node
type NodeKind uint8

const (
	LeafNode NodeKind = iota // a single sphere
	ListNode                 // a flat list of child nodes
	BVHNode                  // a BVH node with one or two children
)

// Node is one entry of the scene arena. Children are referenced by index.
type Node struct {
	Kind   NodeKind
	Box    core.AABB
	HasBox bool

	Sphere   int   // LeafNode: index into Scene.Spheres
	Children []int // ListNode
	Left     int   // BVHNode
	Right    int   // BVHNode, -1 when there is no sibling
}

// Scene owns every primitive and node of a render. It is built once and is
// read-only afterwards, so a single instance is shared by all workers.
type Scene struct {
	Spheres []Sphere
	Nodes   []Node
	Root    int
}

// NewScene creates an arena holding the given spheres and an empty root list
func NewScene(spheres []Sphere) *Scene {
	s := &Scene{Spheres: make([]Sphere, len(spheres))}
	copy(s.Spheres, spheres)
	s.Root = s.NewList()
	return s
}

// BuildScene builds the scene root: a BVH when there are more than
// BVHThreshold spheres, a flat list otherwise. The sampler drives the BVH
// axis choice.
func BuildScene(spheres []Sphere, sampler core.Sampler) *Scene {
	if len(spheres) > BVHThreshold {
		return NewBVHScene(spheres, sampler)
	}
	return NewListScene(spheres)
}

// NewListScene creates a scene whose root is a flat list of all spheres
func NewListScene(spheres []Sphere) *Scene {
	s := NewScene(spheres)
	for i := range s.Spheres {
		s.AppendChild(s.Root, s.AddLeaf(i))
	}
	return s
}

// NewBVHScene creates a scene whose root is a BVH over all spheres.
// An empty input falls back to an empty list.
func NewBVHScene(spheres []Sphere, sampler core.Sampler) *Scene {
	s := NewScene(spheres)
	if len(spheres) == 0 {
		return s
	}
	leaves := make([]int, len(s.Spheres))
	for i := range s.Spheres {
		leaves[i] = s.AddLeaf(i)
	}
	s.Root = s.AddBVH(leaves, sampler)
	return s
}

// AddLeaf adds a leaf node for the sphere at index i and returns its node index
func (s *Scene) AddLeaf(i int) int {
	s.Nodes = append(s.Nodes, Node{
		Kind:   LeafNode,
		Sphere: i,
		Box:    s.Spheres[i].BoundingBox(),
		HasBox: true,
		Right:  -1,
	})
	return len(s.Nodes) - 1
}

// NewList adds an empty list node and returns its index. An empty list has
// no bounding box.
func (s *Scene) NewList() int {
	s.Nodes = append(s.Nodes, Node{Kind: ListNode, Right: -1})
	return len(s.Nodes) - 1
}

// AppendChild adds child to the list node and grows the list's bounding box
func (s *Scene) AppendChild(list, child int) {
	if s.Nodes[list].Kind != ListNode {
		panic("geometry: AppendChild on a non-list node")
	}
	box, ok := s.NodeBoundingBox(child)
	node := &s.Nodes[list]
	node.Children = append(node.Children, child)
	node.Box, node.HasBox = unionBoxes(node.Box, node.HasBox, box, ok)
}

// NodeBoundingBox returns the bounding box of the node at index i, if it has one
func (s *Scene) NodeBoundingBox(i int) (core.AABB, bool) {
	node := &s.Nodes[i]
	return node.Box, node.HasBox
}

// BoundingBox returns the bounding box of the scene root, if it has one
func (s *Scene) BoundingBox() (core.AABB, bool) {
	return s.NodeBoundingBox(s.Root)
}

// Hit returns the nearest intersection of ray with the scene in [tMin, tMax)
func (s *Scene) Hit(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	return s.hitNode(s.Root, ray, tMin, tMax)
}

// hitNode dispatches on the node kind
func (s *Scene) hitNode(i int, ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	node := &s.Nodes[i]

	switch node.Kind {
	case LeafNode:
		return s.Spheres[node.Sphere].Hit(ray, tMin, tMax)

	case ListNode:
		var closest material.HitRecord
		hitAnything := false
		closestSoFar := tMax
		for _, child := range node.Children {
			if hit, ok := s.hitNode(child, ray, tMin, closestSoFar); ok {
				hitAnything = true
				closestSoFar = hit.T
				closest = hit
			}
		}
		return closest, hitAnything

	case BVHNode:
		// Boxless nodes are always entered
		if node.HasBox && !node.Box.Hit(ray, tMin, tMax) {
			return material.HitRecord{}, false
		}

		left, leftHit := s.hitNode(node.Left, ray, tMin, tMax)
		if node.Right < 0 {
			return left, leftHit
		}

		// The right branch may only beat the left hit
		limit := tMax
		if leftHit {
			limit = left.T
		}
		if right, ok := s.hitNode(node.Right, ray, tMin, limit); ok {
			return right, true
		}
		return left, leftHit
	}

	panic("geometry: unknown node kind")
}

// unionBoxes merges two optional boxes
func unionBoxes(a core.AABB, aOK bool, b core.AABB, bOK bool) (core.AABB, bool) {
	switch {
	case aOK && bOK:
		return core.Merge(a, b), true
	case aOK:
		return a, true
	case bOK:
		return b, true
	}
	return core.AABB{}, false
}
