package material

import (
	"math"
	"testing"

	"github.com/df07/go-sphere-tracer/pkg/core"
)

func TestDielectricBasicBehavior(t *testing.T) {
	glass := NewDielectric(1.5)

	rayDirection := core.NewVec3(1, -1, 0).Unit() // 45-degree angle
	ray := core.NewRay(core.NewVec3(0, 1, 0), rayDirection)
	hit := HitRecord{
		Point:    core.NewVec3(0, 0, 0),
		Normal:   core.NewVec3(0, 1, 0),
		T:        1.0,
		Material: &glass,
	}

	result, scattered := glass.Scatter(ray, hit, core.NewRandomSampler(42))
	if !scattered || !result.HasRay {
		t.Fatal("Dielectric should always scatter")
	}

	if expected := core.NewVec3(1, 1, 1); result.Attenuation != expected {
		t.Errorf("Expected attenuation %v, got %v", expected, result.Attenuation)
	}

	// Both branches must show up over enough samples. Reflection goes up, refraction down.
	hasReflection := false
	hasRefraction := false
	for seed := uint64(0); seed < 2000 && (!hasReflection || !hasRefraction); seed++ {
		result, _ := glass.Scatter(ray, hit, core.NewRandomSampler(seed))
		if result.Scattered.Direction.Y > 0 {
			hasReflection = true
		} else {
			hasRefraction = true
		}
	}

	if !hasRefraction {
		t.Error("Expected to see refraction in at least some cases")
	}
	if !hasReflection {
		t.Error("Expected to see Schlick reflection in at least some cases")
	}
}

func TestDielectricTotalInternalReflection(t *testing.T) {
	glass := NewDielectric(1.5)

	// Leaving the glass at a shallow angle: the ray travels along the outward normal side
	rayDirection := core.NewVec3(1, 0.1, 0).Unit()
	ray := core.NewRay(core.NewVec3(0, 0, 0), rayDirection)
	hit := HitRecord{
		Point:    core.NewVec3(0, 0, 0),
		Normal:   core.NewVec3(0, 1, 0),
		T:        1.0,
		Material: &glass,
	}

	cosTheta := rayDirection.Dot(hit.Normal)
	sinTheta := math.Sqrt(1.0 - cosTheta*cosTheta)
	if 1.5*sinTheta <= 1.0 {
		t.Fatalf("Test setup error: this angle should cause total internal reflection")
	}

	for seed := uint64(0); seed < 10; seed++ {
		result, scattered := glass.Scatter(ray, hit, core.NewRandomSampler(seed))
		if !scattered {
			t.Fatal("Dielectric should always scatter")
		}
		// Reflected back into the glass, i.e. below the surface
		if result.Scattered.Direction.Y >= 0 {
			t.Errorf("Expected total internal reflection, got %v", result.Scattered.Direction)
		}
	}
}

func TestDielectricNormalIncidenceMostlyRefracts(t *testing.T) {
	glass := NewDielectric(1.5)
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))
	hit := HitRecord{Point: core.NewVec3(0, 0, 0), Normal: core.NewVec3(0, 1, 0), Material: &glass}

	reflections := 0
	const n = 10000
	for seed := uint64(0); seed < n; seed++ {
		result, _ := glass.Scatter(ray, hit, core.NewRandomSampler(seed))
		if result.Scattered.Direction.Y > 0 {
			reflections++
		}
	}

	// Schlick gives 4% at normal incidence
	if ratio := float64(reflections) / n; math.Abs(ratio-0.04) > 0.01 {
		t.Errorf("Expected ~4%% reflections, got %.3f", ratio)
	}
}
