package material

import (
	"github.com/df07/go-sphere-tracer/pkg/core"
)

// NewMetal creates a new metal material. Roughness 0 is a perfect mirror,
// 1 is very fuzzy.
func NewMetal(albedo core.Vec3, roughness float64) Material {
	return Material{Kind: Metal, Albedo: albedo, Roughness: roughness}
}

func (m *Material) scatterMetal(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	reflected := core.Reflect(rayIn.Direction.Unit(), hit.Normal)

	if m.Roughness > 0 {
		reflected = reflected.Add(core.RandomInUnitSphere(sampler).Multiply(m.Roughness))
	}

	// Reflections that point into the surface are absorbed
	if reflected.Dot(hit.Normal) <= 0 {
		return ScatterResult{}, false
	}

	return ScatterResult{
		Attenuation: m.Albedo,
		Scattered:   core.NewRay(hit.Point, reflected),
		HasRay:      true,
	}, true
}
