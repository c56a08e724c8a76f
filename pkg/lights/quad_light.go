package lights

import (
	"github.com/df07/go-metropolis-raytracer/pkg/core"
	"github.com/df07/go-metropolis-raytracer/pkg/geometry"
	"github.com/df07/go-metropolis-raytracer/pkg/material"
)

// QuadLight represents a rectangular area light. It emits from the front
// face only (the side U × V points to).
type QuadLight struct {
	*geometry.Quad                    // Embed quad for hit testing
	Area           float64            // Cached area for PDF calculations
	Emissive       *material.Emissive // Emission of the quad
}

// EmissionSample is a point sampled on a light surface
type EmissionSample struct {
	Point    core.Vec3 // Point on the light surface
	Normal   core.Vec3 // Front-face normal at the point
	Radiance core.Vec3 // Emitted radiance
	AreaPDF  float64   // Density per unit area
}

// NewQuadLight creates a new quad light
func NewQuadLight(corner, u, v core.Vec3, emissive *material.Emissive) *QuadLight {
	quad := geometry.NewQuad(corner, u, v, emissive)
	return &QuadLight{
		Quad:     quad,
		Area:     quad.Area(),
		Emissive: emissive,
	}
}

// SampleEmission samples a point uniformly on the quad surface
func (ql *QuadLight) SampleEmission(a, b float64) EmissionSample {
	return EmissionSample{
		Point:    ql.PointAt(a, b),
		Normal:   ql.Normal,
		Radiance: ql.Emissive.Emission,
		AreaPDF:  1.0 / ql.Area,
	}
}

// AreaPDF returns the area density of SampleEmission producing point
func (ql *QuadLight) AreaPDF(point core.Vec3) float64 {
	if !ql.Contains(point) {
		return 0
	}
	return 1.0 / ql.Area
}

// Power is the total emitted flux, used to weight light selection
func (ql *QuadLight) Power() float64 {
	return ql.Emissive.Emission.Luminance() * ql.Area
}
