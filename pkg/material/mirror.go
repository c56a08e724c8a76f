package material

import (
	"github.com/df07/go-metropolis-raytracer/pkg/core"
	"seehuhn.de/go/geom/vec"
)

// Mirror is a perfectly specular reflector
type Mirror struct {
	Albedo core.Vec3
}

// NewMirror creates a new mirror material
func NewMirror(albedo core.Vec3) *Mirror {
	return &Mirror{Albedo: albedo}
}

// Scatter reflects wi about the normal. The sample is unused.
func (m *Mirror) Scatter(wi core.Vec3, hit HitRecord, sample vec.Vec2) (ScatterResult, bool) {
	if wi.Dot(hit.Normal) <= 0 {
		return ScatterResult{}, false
	}
	return ScatterResult{
		Direction:   reflect(wi, hit.Normal),
		Attenuation: m.Albedo, // No π factor for specular
		PDF:         0,
	}, true
}

// EvaluateBRDF is zero everywhere: a delta BRDF can't be hit by a chosen direction
func (m *Mirror) EvaluateBRDF(wi, wo, normal core.Vec3) core.Vec3 {
	return core.Vec3{}
}

// PDF reports the delta distribution
func (m *Mirror) PDF(wi, wo, normal core.Vec3) (float64, bool) {
	return 0, true
}

func (m *Mirror) Reflectance() core.Vec3 { return m.Albedo }

func (m *Mirror) Specular() bool { return true }

// reflect mirrors the outward direction w about n
func reflect(w, n core.Vec3) core.Vec3 {
	return n.Multiply(2 * w.Dot(n)).Subtract(w)
}
