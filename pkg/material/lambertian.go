package material

import (
	"math"

	"github.com/df07/go-metropolis-raytracer/pkg/core"
	"seehuhn.de/go/geom/vec"
)

// Lambertian represents a perfectly diffuse material
type Lambertian struct {
	Albedo core.Vec3
}

// NewLambertian creates a new lambertian material
func NewLambertian(albedo core.Vec3) *Lambertian {
	return &Lambertian{Albedo: albedo}
}

// Scatter implements the Material interface for lambertian scattering
func (l *Lambertian) Scatter(wi core.Vec3, hit HitRecord, sample vec.Vec2) (ScatterResult, bool) {
	if wi.Dot(hit.Normal) <= 0 {
		return ScatterResult{}, false
	}

	// Generate cosine-weighted random direction in hemisphere around normal
	direction := core.SampleCosineHemisphere(hit.Normal, sample).Normalize()
	pdf := core.CosineHemispherePDF(hit.Normal, direction)
	if pdf <= 0 {
		return ScatterResult{}, false
	}

	return ScatterResult{
		Direction:   direction,
		Attenuation: l.Albedo.Multiply(1.0 / math.Pi),
		PDF:         pdf,
	}, true
}

// EvaluateBRDF evaluates the BRDF for specific incoming/outgoing directions
func (l *Lambertian) EvaluateBRDF(wi, wo, normal core.Vec3) core.Vec3 {
	if wi.Dot(normal) <= 0 || wo.Dot(normal) <= 0 {
		return core.Vec3{}
	}
	return l.Albedo.Multiply(1.0 / math.Pi)
}

// PDF calculates the probability density function for specific incoming/outgoing directions
func (l *Lambertian) PDF(wi, wo, normal core.Vec3) (float64, bool) {
	if wi.Dot(normal) <= 0 {
		return 0, false
	}
	return core.CosineHemispherePDF(normal, wo), false
}

func (l *Lambertian) Reflectance() core.Vec3 { return l.Albedo }

func (l *Lambertian) Specular() bool { return false }
