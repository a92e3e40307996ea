package material

import (
	"github.com/df07/go-sphere-tracer/pkg/core"
)

// NewLambertian creates a perfectly diffuse material
func NewLambertian(albedo core.Vec3) Material {
	return Material{Kind: Lambertian, Albedo: albedo}
}

// scatterLambertian bounces towards normal + a random point in the unit
// sphere, which approximates a cosine-weighted distribution.
func (m *Material) scatterLambertian(hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	direction := hit.Normal.Add(core.RandomInUnitSphere(sampler))

	return ScatterResult{
		Attenuation: m.Albedo,
		Scattered:   core.NewRay(hit.Point, direction),
		HasRay:      true,
	}, true
}
