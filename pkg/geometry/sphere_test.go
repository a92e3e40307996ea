package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/material"
)

func TestSphere_Hit(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, material.NewLambertian(core.Splat(0.5)))

	tests := []struct {
		name           string
		ray            core.Ray
		tMin           float64
		shouldHit      bool
		expectedT      float64
		expectedPoint  core.Vec3
		expectedNormal core.Vec3
	}{
		{
			name:           "front face",
			ray:            core.NewRay(core.NewVec3(0, 0, -2), core.NewVec3(0, 0, 1)),
			tMin:           0,
			shouldHit:      true,
			expectedT:      1.0,
			expectedPoint:  core.NewVec3(0, 0, -1),
			expectedNormal: core.NewVec3(0, 0, -1),
		},
		{
			name:           "far root when near root is below tMin",
			ray:            core.NewRay(core.NewVec3(0, 0, -2), core.NewVec3(0, 0, 1)),
			tMin:           1.5,
			shouldHit:      true,
			expectedT:      3.0,
			expectedPoint:  core.NewVec3(0, 0, 1),
			expectedNormal: core.NewVec3(0, 0, 1),
		},
		{
			name:      "ray misses",
			ray:       core.NewRay(core.NewVec3(0, 0, -2), core.NewVec3(0, 1, 0)),
			shouldHit: false,
		},
		{
			name:      "ray pointing away",
			ray:       core.NewRay(core.NewVec3(0, 0, -2), core.NewVec3(0, 0, -1)),
			shouldHit: false,
		},
		{
			name:      "tangent ray",
			ray:       core.NewRay(core.NewVec3(1, 0, -2), core.NewVec3(0, 0, 1)),
			shouldHit: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, isHit := sphere.Hit(tt.ray, tt.tMin, 100)

			if isHit != tt.shouldHit {
				t.Fatalf("expected hit=%v, got %v", tt.shouldHit, isHit)
			}
			if !tt.shouldHit {
				return
			}

			if math.Abs(hit.T-tt.expectedT) > 1e-9 {
				t.Errorf("expected t=%v, got %v", tt.expectedT, hit.T)
			}
			if hit.Point.Subtract(tt.expectedPoint).Length() > 1e-9 {
				t.Errorf("expected point %v, got %v", tt.expectedPoint, hit.Point)
			}
			if hit.Normal.Subtract(tt.expectedNormal).Length() > 1e-9 {
				t.Errorf("expected normal %v, got %v", tt.expectedNormal, hit.Normal)
			}
			if hit.Material != &sphere.Material {
				t.Error("hit record should reference the sphere's material")
			}
		})
	}
}

func TestSphere_HitRangeIsHalfOpen(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, material.NewLambertian(core.Splat(0.5)))
	ray := core.NewRay(core.NewVec3(0, 0, -2), core.NewVec3(0, 0, 1))

	// t=1 is excluded by tMax=1, t=3 lies beyond it
	if _, ok := sphere.Hit(ray, 0, 1); ok {
		t.Error("tMax should be exclusive")
	}
	// tMin is inclusive
	if hit, ok := sphere.Hit(ray, 1, 100); !ok || hit.T != 1 {
		t.Errorf("tMin should be inclusive, got hit=%v t=%v", ok, hit.T)
	}
}

func TestSphere_NormalIsUnitLength(t *testing.T) {
	sphere := NewSphere(core.NewVec3(1, 2, 3), 2.5, material.NewMetal(core.Splat(0.8), 0))
	sampler := core.NewRandomSampler(11)

	for i := 0; i < 200; i++ {
		origin := core.NewVec3(1, 2, 3).Add(core.RandomInUnitSphere(sampler).Unit().Multiply(10))
		target := core.NewVec3(1, 2, 3).Add(core.RandomInUnitSphere(sampler))
		ray := core.NewRay(origin, target.Subtract(origin))

		hit, ok := sphere.Hit(ray, 0.001, math.Inf(1))
		if !ok {
			t.Fatalf("ray %d aimed inside the sphere should hit", i)
		}
		if math.Abs(hit.Normal.Length()-1) > 1e-9 {
			t.Fatalf("normal %v is not unit length", hit.Normal)
		}
	}
}

func TestSphere_BoundingBox(t *testing.T) {
	sphere := NewSphere(core.NewVec3(1, 2, 3), 0.5, material.NewLambertian(core.Splat(0.5)))
	want := core.NewAABB(core.NewVec3(0.5, 1.5, 2.5), core.NewVec3(1.5, 2.5, 3.5))

	if got := sphere.BoundingBox(); got != want {
		t.Errorf("BoundingBox = %v, want %v", got, want)
	}
}
