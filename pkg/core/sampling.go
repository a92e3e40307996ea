package core

import (
	"math"

	"pgregory.net/rand"
)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get3D() Vec3
	Intn(n int) int
}

// RandomSampler wraps a seeded pgregory.net/rand generator. It is not safe for
// concurrent use; every worker owns its own.
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler seeded with the given values
func NewRandomSampler(seed ...uint64) *RandomSampler {
	return &RandomSampler{random: rand.New(seed...)}
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get3D returns three random float64 values in [0, 1)
func (r *RandomSampler) Get3D() Vec3 {
	return NewVec3(r.random.Float64(), r.random.Float64(), r.random.Float64())
}

// Intn returns a random int in [0, n)
func (r *RandomSampler) Intn(n int) int {
	return r.random.Intn(n)
}

// RandomInUnitSphere returns a point inside the unit sphere by rejection sampling
func RandomInUnitSphere(sampler Sampler) Vec3 {
	for {
		p := sampler.Get3D().Multiply(2).Subtract(Splat(1))
		if p.LengthSquared() < 1.0 {
			return p
		}
	}
}

// RandomInUnitDisk returns a point inside the unit disk on the z=0 plane
func RandomInUnitDisk(sampler Sampler) Vec3 {
	for {
		p := NewVec3(2*sampler.Get1D()-1, 2*sampler.Get1D()-1, 0)
		if p.LengthSquared() < 1.0 {
			return p
		}
	}
}

// Schlick approximates Fresnel reflectance for the given cosine and index of refraction
func Schlick(cosine, refractionIndex float64) float64 {
	r0 := (1 - refractionIndex) / (1 + refractionIndex)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
