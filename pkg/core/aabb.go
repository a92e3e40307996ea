package core

import "math"

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min Vec3 // Minimum corner
	Max Vec3 // Maximum corner
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// Hit tests if a ray intersects with this AABB using the slab method.
// The interval [tMin, tMax] is narrowed axis by axis and the test fails as
// soon as it collapses.
func (aabb AABB) Hit(ray Ray, tMin, tMax float64) bool {
	for axis := 0; axis < 3; axis++ {
		invD := 1.0 / ray.Direction.Index(axis)
		origin := ray.Origin.Index(axis)
		t0 := (aabb.Min.Index(axis) - origin) * invD
		t1 := (aabb.Max.Index(axis) - origin) * invD
		if invD < 0 {
			t0, t1 = t1, t0
		}

		tMin = math.Max(tMin, t0)
		tMax = math.Min(tMax, t1)

		if tMax <= tMin {
			return false
		}
	}

	return true
}

// Merge returns the smallest AABB containing both boxes
func Merge(a, b AABB) AABB {
	return a.Expand(b)
}

// Expand returns this AABB grown to contain other
func (aabb AABB) Expand(other AABB) AABB {
	return AABB{
		Min: aabb.Min.Min(other.Min),
		Max: aabb.Max.Max(other.Max),
	}
}

// IsValid returns true if min <= max on every axis
func (aabb AABB) IsValid() bool {
	return aabb.Min.X <= aabb.Max.X &&
		aabb.Min.Y <= aabb.Max.Y &&
		aabb.Min.Z <= aabb.Max.Z
}
