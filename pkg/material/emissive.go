package material

import (
	"github.com/df07/go-sphere-tracer/pkg/core"
)

// NewEmissive creates a light-emitting material
func NewEmissive(emittance core.Vec3) Material {
	return Material{Kind: Emissive, Emittance: emittance}
}

// emit ends the path: the attenuation carries the emitted light and there is
// no outgoing ray.
func (m *Material) emit() (ScatterResult, bool) {
	return ScatterResult{Attenuation: m.Emittance}, true
}
