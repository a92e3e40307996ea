package integrator

import (
	"math"

	"github.com/df07/go-sphere-tracer/pkg/core"
)

const (
	// MaxDepth is the hard bounce limit. A hit at this depth contributes black.
	MaxDepth = 16

	// Epsilon is the minimum hit distance, excluding the surface a ray leaves from
	Epsilon = 0.001
)

var (
	skyWhite = core.NewVec3(1.0, 1.0, 1.0)
	skyBlue  = core.NewVec3(0.5, 0.7, 1.0)
)

// PathTracer implements unidirectional path tracing against a sky gradient
type PathTracer struct {
	SkyboxScale float64
}

// NewPathTracer creates a path tracer with the given sky brightness
func NewPathTracer(skyboxScale float64) *PathTracer {
	return &PathTracer{SkyboxScale: skyboxScale}
}

// RayColor computes the color for a camera ray
func (pt *PathTracer) RayColor(ray core.Ray, world Hitter, sampler core.Sampler) core.Vec3 {
	return pt.CastRay(ray, world, 0, sampler)
}

// CastRay traces ray into world at the given bounce depth
func (pt *PathTracer) CastRay(ray core.Ray, world Hitter, depth int, sampler core.Sampler) core.Vec3 {
	hit, isHit := world.Hit(ray, Epsilon, math.Inf(1))
	if !isHit {
		return pt.background(ray)
	}

	// If we've reached the ray bounce limit, no more light is gathered
	if depth >= MaxDepth {
		return core.Vec3{}
	}

	scatter, ok := hit.Material.Scatter(ray, hit, sampler)
	if !ok {
		// Absorbed
		return core.Vec3{}
	}
	if !scatter.HasRay {
		// Emitted radiance ends the path
		return scatter.Attenuation
	}

	incoming := pt.CastRay(scatter.Scattered, world, depth+1, sampler)
	return scatter.Attenuation.MultiplyVec(incoming)
}

// background returns the sky gradient for a ray that escaped the scene
func (pt *PathTracer) background(ray core.Ray) core.Vec3 {
	t := 0.5 * (ray.Direction.Unit().Y + 1.0)
	return skyWhite.Multiply(1.0 - t).Add(skyBlue.Multiply(t)).Multiply(pt.SkyboxScale)
}
