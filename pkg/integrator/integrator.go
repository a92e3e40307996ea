package integrator

import (
	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/material"
)

// Hitter is anything a ray can be intersected against. The geometry scene
// satisfies it; tests substitute their own.
type Hitter interface {
	Hit(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool)
}

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor computes the radiance carried back along a camera ray
	RayColor(ray core.Ray, world Hitter, sampler core.Sampler) core.Vec3
}
