package material

import (
	"github.com/df07/go-metropolis-raytracer/pkg/core"
	"seehuhn.de/go/geom/vec"
)

// Emissive represents a light-emitting material. Emission is one-sided:
// only the front face emits.
type Emissive struct {
	Emission core.Vec3 // Emitted radiance
}

// NewEmissive creates a new emissive material
func NewEmissive(emission core.Vec3) *Emissive {
	return &Emissive{Emission: emission}
}

// Scatter implements the Material interface for emissive materials
// Emissive materials don't scatter rays - they only emit light
func (e *Emissive) Scatter(wi core.Vec3, hit HitRecord, sample vec.Vec2) (ScatterResult, bool) {
	return ScatterResult{}, false
}

// Emit returns the emitted light for this material
func (e *Emissive) Emit(hit HitRecord, wo core.Vec3) core.Vec3 {
	if !hit.FrontFace || wo.Dot(hit.Normal) <= 0 {
		return core.Vec3{}
	}
	return e.Emission
}

// EvaluateBRDF evaluates the BRDF for specific incoming/outgoing directions
func (e *Emissive) EvaluateBRDF(wi, wo, normal core.Vec3) core.Vec3 {
	// Lights don't reflect - they only emit
	return core.Vec3{}
}

func (e *Emissive) PDF(wi, wo, normal core.Vec3) (float64, bool) {
	return 0, false
}

func (e *Emissive) Reflectance() core.Vec3 { return core.Vec3{} }

func (e *Emissive) Specular() bool { return false }
