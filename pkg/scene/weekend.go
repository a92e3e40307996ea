package scene

import (
	"pgregory.net/rand"
)

const weekendSeed = 1

// NewWeekendScene generates the random sphere field: a large ground sphere,
// a grid of small randomized spheres and three large feature spheres. The
// same seed always yields the same scene.
func NewWeekendScene(seed uint64) *Description {
	r := rand.New(seed)

	d := &Description{
		Name:    "weekend",
		Width:   600,
		Height:  400,
		Samples: 64,
		Skybox:  1.0,
		Seed:    seed,
		Camera: CameraSpec{
			LookFrom:      Vector{X: 13, Y: 2, Z: 3},
			LookAt:        Vector{},
			Up:            Vector{Y: 1},
			VFov:          20,
			Aperture:      0.1,
			FocusDistance: 10,
		},
	}

	d.Spheres = append(d.Spheres, SphereSpec{
		Center:   Vector{Y: -1000},
		Radius:   1000,
		Material: MaterialSpec{Type: "lambertian", Albedo: Vector{X: 0.5, Y: 0.5, Z: 0.5}},
	})

	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			choose := r.Float64()
			center := Vector{X: float64(a) + 0.9*r.Float64(), Y: 0.2, Z: float64(b) + 0.9*r.Float64()}

			// Keep clear of the big metal sphere
			if center.Vec3().Subtract(Vector{X: 4, Y: 0.2}.Vec3()).Length() <= 0.9 {
				continue
			}

			var mat MaterialSpec
			switch {
			case choose < 0.8:
				mat = MaterialSpec{Type: "lambertian", Albedo: Vector{
					X: r.Float64() * r.Float64(),
					Y: r.Float64() * r.Float64(),
					Z: r.Float64() * r.Float64(),
				}}
			case choose < 0.95:
				mat = MaterialSpec{Type: "metal", Albedo: Vector{
					X: 0.5 * (1 + r.Float64()),
					Y: 0.5 * (1 + r.Float64()),
					Z: 0.5 * (1 + r.Float64()),
				}, Roughness: 0.5 * r.Float64()}
			default:
				mat = MaterialSpec{Type: "dielectric", RefractiveIndex: 1.5}
			}
			d.Spheres = append(d.Spheres, SphereSpec{Center: center, Radius: 0.2, Material: mat})
		}
	}

	d.Spheres = append(d.Spheres,
		SphereSpec{
			Center:   Vector{Y: 1},
			Radius:   1,
			Material: MaterialSpec{Type: "dielectric", RefractiveIndex: 1.5},
		},
		SphereSpec{
			Center:   Vector{X: -4, Y: 1},
			Radius:   1,
			Material: MaterialSpec{Type: "lambertian", Albedo: Vector{X: 0.4, Y: 0.2, Z: 0.1}},
		},
		SphereSpec{
			Center:   Vector{X: 4, Y: 1},
			Radius:   1,
			Material: MaterialSpec{Type: "metal", Albedo: Vector{X: 0.7, Y: 0.6, Z: 0.5}},
		},
	)

	return d
}
