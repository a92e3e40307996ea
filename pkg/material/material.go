package material

import (
	"fmt"

	"github.com/df07/go-sphere-tracer/pkg/core"
)

// Kind identifies one of the supported scattering models
type Kind uint8

const (
	Lambertian Kind = iota
	Metal
	Dielectric
	Emissive
)

func (k Kind) String() string {
	switch k {
	case Lambertian:
		return "lambertian"
	case Metal:
		return "metal"
	case Dielectric:
		return "dielectric"
	case Emissive:
		return "emissive"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Material is a closed tagged variant over the supported scattering models.
// Only the fields relevant to Kind are meaningful. Materials are immutable
// values owned by the primitive they are attached to.
type Material struct {
	Kind            Kind
	Albedo          core.Vec3 // Lambertian and Metal
	Roughness       float64   // Metal, 0 = perfect mirror
	RefractiveIndex float64   // Dielectric
	Emittance       core.Vec3 // Emissive
}

// HitRecord contains information about a ray-object intersection.
// Normal is the outward unit normal of the surface; it may face away from the ray.
type HitRecord struct {
	T        float64   // Parameter t along the ray
	Point    core.Vec3 // Point of intersection
	Normal   core.Vec3 // Outward surface normal
	Material *Material // Material of the hit object
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Attenuation core.Vec3 // Color attenuation, or emitted light when HasRay is false
	Scattered   core.Ray  // The outgoing ray, valid when HasRay is true
	HasRay      bool
}

// Scatter computes the response of the material to rayIn at hit.
// It returns false when the ray is absorbed and the path ends in black.
func (m *Material) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	switch m.Kind {
	case Lambertian:
		return m.scatterLambertian(hit, sampler)
	case Metal:
		return m.scatterMetal(rayIn, hit, sampler)
	case Dielectric:
		return m.scatterDielectric(rayIn, hit, sampler)
	case Emissive:
		return m.emit()
	}
	panic(fmt.Sprintf("material: unknown kind %v", m.Kind))
}
