package scene

import (
	"bytes"
	"io"
	"math"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
	"github.com/df07/go-sphere-tracer/pkg/material"
	"github.com/df07/go-sphere-tracer/pkg/renderer"
)

// Description is a complete render request: image settings, camera and spheres
type Description struct {
	Name       string       `yaml:"name,omitempty"`
	Width      int          `yaml:"width"`
	Height     int          `yaml:"height"`
	Samples    int          `yaml:"samples"`
	Threads    int          `yaml:"threads,omitempty"`
	Skybox     float64      `yaml:"skybox"`
	Seed       uint64       `yaml:"seed,omitempty"`
	FlushEvery int          `yaml:"flush_every,omitempty"`
	Camera     CameraSpec   `yaml:"camera"`
	Spheres    []SphereSpec `yaml:"spheres"`
}

// CameraSpec describes the camera. Aspect 0 means width/height.
type CameraSpec struct {
	LookFrom      Vector  `yaml:"look_from"`
	LookAt        Vector  `yaml:"look_at"`
	Up            Vector  `yaml:"up"`
	VFov          float64 `yaml:"vfov"`
	Aspect        float64 `yaml:"aspect,omitempty"`
	Aperture      float64 `yaml:"aperture,omitempty"`
	FocusDistance float64 `yaml:"focus_distance,omitempty"`
}

// SphereSpec describes one sphere
type SphereSpec struct {
	Center   Vector       `yaml:"center"`
	Radius   float64      `yaml:"radius"`
	Material MaterialSpec `yaml:"material"`
}

// MaterialSpec describes a material. Type selects which fields apply.
type MaterialSpec struct {
	Type            string  `yaml:"type"`
	Albedo          Vector  `yaml:"albedo,omitempty"`
	Roughness       float64 `yaml:"roughness,omitempty"`
	RefractiveIndex float64 `yaml:"refractive_index,omitempty"`
	Emittance       Vector  `yaml:"emittance,omitempty"`
}

// defaults are applied before decoding so missing keys keep them
func defaults() Description {
	return Description{
		Width:   400,
		Height:  200,
		Samples: 64,
		Skybox:  1.0,
		Camera: CameraSpec{
			LookAt: Vector{Z: -1},
			Up:     Vector{Y: 1},
			VFov:   90,
		},
	}
}

// Parse decodes and validates a YAML scene description. Unknown keys are
// rejected.
func Parse(data []byte) (*Description, error) {
	d := defaults()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "decoding scene")
	}

	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Load reads and parses the scene description at path
func Load(path string) (*Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading scene %s", path)
	}

	d, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "scene %s", path)
	}
	return d, nil
}

// Encode writes d as YAML
func Encode(w io.Writer, d *Description) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return errors.Wrap(err, "encoding scene")
	}
	return enc.Close()
}

// Validate checks the description for values the renderer cannot handle
func (d *Description) Validate() error {
	switch {
	case d.Width <= 0 || d.Height <= 0:
		return errors.Errorf("image size must be positive, got %dx%d", d.Width, d.Height)
	case d.Samples <= 0:
		return errors.Errorf("samples must be positive, got %d", d.Samples)
	case d.Threads < 0:
		return errors.Errorf("threads must not be negative, got %d", d.Threads)
	case d.FlushEvery < 0:
		return errors.Errorf("flush_every must not be negative, got %d", d.FlushEvery)
	case d.Skybox < 0:
		return errors.Errorf("skybox must not be negative, got %v", d.Skybox)
	}

	if err := d.Camera.validate(); err != nil {
		return errors.Wrap(err, "camera")
	}
	for i, s := range d.Spheres {
		if err := s.validate(); err != nil {
			return errors.Wrapf(err, "sphere %d", i)
		}
	}
	return nil
}

func (c *CameraSpec) validate() error {
	switch {
	case c.VFov <= 0 || c.VFov >= 180:
		return errors.Errorf("vfov must be in (0, 180), got %v", c.VFov)
	case c.Aspect < 0:
		return errors.Errorf("aspect must not be negative, got %v", c.Aspect)
	case c.Aperture < 0:
		return errors.Errorf("aperture must not be negative, got %v", c.Aperture)
	case c.LookFrom == c.LookAt:
		return errors.New("look_from and look_at must differ")
	}

	forward := c.LookAt.Vec3().Subtract(c.LookFrom.Vec3())
	if c.Up.Vec3().Cross(forward).LengthSquared() == 0 {
		return errors.New("up must not be parallel to the view direction")
	}
	return nil
}

func (s *SphereSpec) validate() error {
	if !(s.Radius > 0) || math.IsInf(s.Radius, 0) {
		return errors.Errorf("radius must be positive, got %v", s.Radius)
	}
	if !s.Center.Vec3().IsFinite() {
		return errors.Errorf("center must be finite, got %v", s.Center)
	}
	_, err := s.Material.Build()
	return err
}

// Build converts the spec into a material
func (m MaterialSpec) Build() (material.Material, error) {
	switch m.Type {
	case "lambertian":
		return material.NewLambertian(m.Albedo.Vec3()), nil
	case "metal":
		if m.Roughness < 0 || m.Roughness > 1 {
			return material.Material{}, errors.Errorf("metal roughness must be in [0, 1], got %v", m.Roughness)
		}
		return material.NewMetal(m.Albedo.Vec3(), m.Roughness), nil
	case "dielectric":
		if !(m.RefractiveIndex > 1) {
			return material.Material{}, errors.Errorf("dielectric refractive_index must be > 1, got %v", m.RefractiveIndex)
		}
		return material.NewDielectric(m.RefractiveIndex), nil
	case "emissive":
		return material.NewEmissive(m.Emittance.Vec3()), nil
	case "":
		return material.Material{}, errors.New("material type is required")
	}
	return material.Material{}, errors.Errorf("unknown material type %q", m.Type)
}

// CameraConfig returns the renderer camera configuration
func (d *Description) CameraConfig() renderer.CameraConfig {
	aspect := d.Camera.Aspect
	if aspect == 0 {
		aspect = float64(d.Width) / float64(d.Height)
	}
	return renderer.CameraConfig{
		LookFrom:      d.Camera.LookFrom.Vec3(),
		LookAt:        d.Camera.LookAt.Vec3(),
		Up:            d.Camera.Up.Vec3(),
		VFov:          d.Camera.VFov,
		AspectRatio:   aspect,
		Aperture:      d.Camera.Aperture,
		FocusDistance: d.Camera.FocusDistance,
	}
}

// BuildSpheres converts every sphere spec. The description must be valid.
func (d *Description) BuildSpheres() []geometry.Sphere {
	spheres := make([]geometry.Sphere, 0, len(d.Spheres))
	for _, s := range d.Spheres {
		mat, err := s.Material.Build()
		if err != nil {
			panic(err)
		}
		spheres = append(spheres, geometry.NewSphere(s.Center.Vec3(), s.Radius, mat))
	}
	return spheres
}

// World builds the scene root. The BVH axis choices are seeded from Seed.
func (d *Description) World() *geometry.Scene {
	return geometry.BuildScene(d.BuildSpheres(), core.NewRandomSampler(d.Seed))
}

// RenderOptions returns the renderer options described by d
func (d *Description) RenderOptions() renderer.Options {
	return renderer.Options{
		Width:       d.Width,
		Height:      d.Height,
		Samples:     d.Samples,
		Threads:     d.Threads,
		SkyboxScale: d.Skybox,
		Seed:        d.Seed,
		FlushEvery:  d.FlushEvery,
	}
}
