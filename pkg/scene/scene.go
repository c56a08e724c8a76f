package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-metropolis-raytracer/pkg/core"
	"github.com/df07/go-metropolis-raytracer/pkg/geometry"
	"github.com/df07/go-metropolis-raytracer/pkg/lights"
	"github.com/df07/go-metropolis-raytracer/pkg/material"
	"github.com/df07/go-metropolis-raytracer/pkg/pathspace"
)

// ErrNoEmission is returned by Preprocess for a scene nothing lights
var ErrNoEmission = errors.New("scene: no lights and no emitting background")

// ErrUnknownLightSelection is returned by Preprocess for a light selection
// it doesn't know
var ErrUnknownLightSelection = errors.New("scene: unknown light selection")

// LightSelection decides how a light subpath picks its emitter
type LightSelection string

const (
	SelectByPower LightSelection = "power"   // in proportion to emitted power
	SelectUniform LightSelection = "uniform" // every light equally
)

// shadowEpsilon keeps shadow rays off the surfaces they connect
const shadowEpsilon = 1e-4

// Scene contains all the elements needed for rendering. It implements
// pathspace.PathInfo.
type Scene struct {
	Name            string
	Camera          *geometry.Camera
	CameraConfig    geometry.CameraConfig
	Shapes          []geometry.Shape    // Objects in the scene, lights included
	Lights          []*lights.QuadLight // Lights in the scene
	LightSet        *lights.Set         // Light selection
	LightSelection  LightSelection      // How LightSet is built (by power if empty)
	BackgroundColor core.Vec3           // Radiance of escaped eye rays
}

// NewGroundQuad creates a large horizontal quad centered at the given point,
// facing up.
func NewGroundQuad(center core.Vec3, size float64, mat material.Material) *geometry.Quad {
	corner := core.NewVec3(center.X-size/2, center.Y, center.Z-size/2)
	// (0,0,size) × (size,0,0) points up
	u := core.NewVec3(0, 0, size)
	v := core.NewVec3(size, 0, 0)
	return geometry.NewQuad(corner, u, v, mat)
}

// AddQuadLight adds a rectangular area light to the scene. It emits toward
// u × v.
func (s *Scene) AddQuadLight(corner, u, v core.Vec3, emission core.Vec3) *lights.QuadLight {
	quadLight := lights.NewQuadLight(corner, u, v, material.NewEmissive(emission))
	s.Lights = append(s.Lights, quadLight)
	s.Shapes = append(s.Shapes, quadLight.Quad)
	return quadLight
}

// Preprocess prepares the scene for rendering
func (s *Scene) Preprocess() error {
	if s.Camera == nil {
		s.Camera = geometry.NewCamera(s.CameraConfig)
	}
	if s.LightSet == nil {
		switch s.LightSelection {
		case "", SelectByPower:
			s.LightSet = lights.NewSet(s.Lights)
		case SelectUniform:
			s.LightSet = lights.NewUniformSet(s.Lights)
		default:
			return fmt.Errorf("%w: %q", ErrUnknownLightSelection, s.LightSelection)
		}
	}
	if s.LightSet.Len() == 0 && s.BackgroundColor.Luminance() <= 0 {
		return ErrNoEmission
	}
	return nil
}

// Light returns the light subpath sampler
func (s *Scene) Light() pathspace.Light {
	return pathspace.Emitters{Set: s.LightSet}
}

// Lens returns the eye subpath sampler
func (s *Scene) Lens() pathspace.Lens {
	return pathspace.Pinhole{Camera: s.Camera}
}

// Background returns the radiance seen by rays that leave the scene
func (s *Scene) Background() core.Vec3 {
	return s.BackgroundColor
}

// Intersect finds the closest hit along ray in [tMin, tMax]
func (s *Scene) Intersect(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	var closest *material.HitRecord
	for _, shape := range s.Shapes {
		if hit, ok := shape.Hit(ray, tMin, tMax); ok {
			closest = hit
			tMax = hit.T
		}
	}
	return closest, closest != nil
}

// Visible reports whether the segment between a and b is unobstructed
func (s *Scene) Visible(a, b core.Vec3) bool {
	d := b.Subtract(a)
	dist := d.Length()
	if dist <= 2*shadowEpsilon {
		return true
	}
	ray := core.NewRay(a, d.Multiply(1/dist))
	_, hit := s.Intersect(ray, shadowEpsilon, dist-shadowEpsilon)
	return !hit
}
