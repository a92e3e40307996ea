package material

import (
	"github.com/df07/go-sphere-tracer/pkg/core"
)

// NewDielectric creates a transparent material like glass (refractive index > 1)
func NewDielectric(refractiveIndex float64) Material {
	return Material{Kind: Dielectric, RefractiveIndex: refractiveIndex}
}

// scatterDielectric either reflects or refracts. Clear glass never tints.
func (m *Material) scatterDielectric(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	direction := rayIn.Direction
	reflected := core.Reflect(direction, hit.Normal)

	// The sign of d.n tells whether the ray is leaving or entering the material
	var outwardNormal core.Vec3
	var niOverNt, cosine float64
	dn := direction.Dot(hit.Normal)
	if dn > 0 {
		outwardNormal = hit.Normal.Negate()
		niOverNt = m.RefractiveIndex
		cosine = m.RefractiveIndex * dn / direction.Length()
	} else {
		outwardNormal = hit.Normal
		niOverNt = 1.0 / m.RefractiveIndex
		cosine = -dn / direction.Length()
	}

	outgoing := reflected
	if refracted, ok := core.Refract(direction, outwardNormal, niOverNt); ok {
		if sampler.Get1D() >= core.Schlick(cosine, m.RefractiveIndex) {
			outgoing = refracted
		}
	}

	return ScatterResult{
		Attenuation: core.Splat(1),
		Scattered:   core.NewRay(hit.Point, outgoing),
		HasRay:      true,
	}, true
}
