package geometry

import (
	"math"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/material"
)

// Sphere represents a sphere shape. Its bounding box is computed once at
// construction.
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material material.Material
	box      core.AABB
}

// NewSphere creates a new sphere. Radius must be positive.
func NewSphere(center core.Vec3, radius float64, mat material.Material) Sphere {
	r := core.Splat(radius)
	return Sphere{
		Center:   center,
		Radius:   radius,
		Material: mat,
		box:      core.NewAABB(center.Subtract(r), center.Add(r)),
	}
}

// Hit tests if a ray intersects with the sphere within [tMin, tMax)
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic a*t^2 + 2b*t + c = 0
	a := ray.Direction.Dot(ray.Direction)
	b := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := b*b - a*c
	if discriminant <= 0 {
		return material.HitRecord{}, false
	}
	sqrtD := math.Sqrt(discriminant)

	// Try the closer intersection point first
	root := (-b - sqrtD) / a
	if root < tMin || root >= tMax {
		root = (-b + sqrtD) / a
		if root < tMin || root >= tMax {
			return material.HitRecord{}, false
		}
	}

	point := ray.At(root)
	return material.HitRecord{
		T:        root,
		Point:    point,
		Normal:   point.Subtract(s.Center).Divide(s.Radius),
		Material: &s.Material,
	}, true
}

// BoundingBox returns the axis-aligned bounding box for this sphere
func (s *Sphere) BoundingBox() core.AABB {
	return s.box
}
