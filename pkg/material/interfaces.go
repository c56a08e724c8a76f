package material

import (
	"github.com/df07/go-metropolis-raytracer/pkg/core"
	"seehuhn.de/go/geom/vec"
)

// Material describes how light scatters at a surface.
//
// Directions passed to a material always point away from the surface: wi is
// the direction back toward where the path arrived from, wo is the direction
// the path leaves in. This makes every method usable for both eye and light
// subpaths.
type Material interface {
	// Scatter samples an outgoing direction for a path that arrived from wi
	Scatter(wi core.Vec3, hit HitRecord, sample vec.Vec2) (ScatterResult, bool)

	// EvaluateBRDF evaluates the BRDF for a specific pair of directions
	EvaluateBRDF(wi, wo, normal core.Vec3) core.Vec3

	// PDF returns the solid angle density of Scatter choosing wo given wi.
	// isDelta reports a Dirac delta distribution, in which case pdf is meaningless.
	PDF(wi, wo, normal core.Vec3) (pdf float64, isDelta bool)

	// Reflectance is the hemispherical albedo, used for Russian roulette
	Reflectance() core.Vec3

	// Specular reports whether the material only scatters through delta distributions
	Specular() bool
}

// Emitter interface for materials that emit light
type Emitter interface {
	// Emit returns the radiance leaving hit toward wo
	Emit(hit HitRecord, wo core.Vec3) core.Vec3
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Direction   core.Vec3 // Sampled outgoing direction, unit length
	Attenuation core.Vec3 // BRDF value, or the reflectance for specular scattering
	PDF         float64   // Solid angle density (0 for specular materials)
}

// IsSpecular returns true if this is specular scattering (no PDF)
func (s ScatterResult) IsSpecular() bool {
	return s.PDF <= 0
}

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Surface normal, facing the incoming ray
	T         float64   // Parameter t along the ray
	FrontFace bool      // Whether ray hit the front face
	Material  Material  // Material of the hit object
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}
