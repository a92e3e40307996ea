package renderer

import (
	"math"

	"github.com/df07/go-sphere-tracer/pkg/core"
)

// CameraConfig contains all camera configuration parameters
type CameraConfig struct {
	LookFrom      core.Vec3 // Camera position
	LookAt        core.Vec3 // Point the camera is looking at
	Up            core.Vec3 // Up direction (usually (0,1,0))
	VFov          float64   // Vertical field of view in degrees
	AspectRatio   float64   // Width / height
	Aperture      float64   // Lens diameter, 0 for a pinhole camera
	FocusDistance float64   // Distance to the focal plane, 0 = |LookFrom - LookAt|
}

// Camera generates rays for rendering. It holds only values and is shared
// freely between workers.
type Camera struct {
	origin     core.Vec3
	lowerLeft  core.Vec3
	horizontal core.Vec3
	vertical   core.Vec3
	u, v       core.Vec3
	lensRadius float64
}

// NewCamera derives the viewport basis from cfg
func NewCamera(cfg CameraConfig) *Camera {
	halfHeight := math.Tan(cfg.VFov * math.Pi / 360.0)
	halfWidth := cfg.AspectRatio * halfHeight

	w := cfg.LookFrom.Subtract(cfg.LookAt).Unit()
	u := cfg.Up.Cross(w).Unit()
	v := w.Cross(u)

	// A pinhole has no focal plane; the unit viewport gives the same directions
	focus := 1.0
	if cfg.Aperture > 0 {
		focus = cfg.FocusDistance
		if focus <= 0 {
			focus = cfg.LookFrom.Subtract(cfg.LookAt).Length()
		}
	}

	origin := cfg.LookFrom
	lowerLeft := origin.
		Subtract(u.Multiply(halfWidth * focus)).
		Subtract(v.Multiply(halfHeight * focus)).
		Subtract(w.Multiply(focus))

	return &Camera{
		origin:     origin,
		lowerLeft:  lowerLeft,
		horizontal: u.Multiply(2 * halfWidth * focus),
		vertical:   v.Multiply(2 * halfHeight * focus),
		u:          u,
		v:          v,
		lensRadius: cfg.Aperture / 2,
	}
}

// GetRay returns a ray through viewport coordinates (s, t) in [0,1], with
// (0,0) at the bottom left. The direction is unit length. The sampler is
// only drawn from when the camera has an aperture.
func (c *Camera) GetRay(s, t float64, sampler core.Sampler) core.Ray {
	origin := c.origin
	if c.lensRadius > 0 {
		rd := core.RandomInUnitDisk(sampler).Multiply(c.lensRadius)
		origin = origin.Add(c.u.Multiply(rd.X)).Add(c.v.Multiply(rd.Y))
	}

	target := c.lowerLeft.Add(c.horizontal.Multiply(s)).Add(c.vertical.Multiply(t))
	return core.NewRay(origin, target.Subtract(origin).Unit())
}
