package scene

import (
	"github.com/df07/go-metropolis-raytracer/pkg/core"
	"github.com/df07/go-metropolis-raytracer/pkg/geometry"
	"github.com/df07/go-metropolis-raytracer/pkg/material"
)

// NewSkyScene is an open scene: a ground plane with two spheres under an
// emitting sky, plus a small warm quad light. Eye paths that escape see the
// sky, which puts vertices at infinity on the eye side.
func NewSkyScene(aspectRatio float64) *Scene {
	s := &Scene{
		Name: "sky",
		CameraConfig: geometry.CameraConfig{
			Center:      core.NewVec3(0, 1.5, 6),
			LookAt:      core.NewVec3(0, 0.8, 0),
			Up:          core.NewVec3(0, 1, 0),
			AspectRatio: aspectRatio,
			VFov:        45,
		},
		BackgroundColor: core.NewVec3(0.5, 0.7, 1.0),
	}

	s.Shapes = append(s.Shapes,
		NewGroundQuad(core.NewVec3(0, 0, 0), 40, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))),
		geometry.NewSphere(core.NewVec3(-1.1, 1, 0), 1, material.NewLambertian(core.NewVec3(0.8, 0.3, 0.3))),
		geometry.NewSphere(core.NewVec3(1.1, 1, 0), 1, material.NewMirror(core.NewVec3(0.8, 0.8, 0.8))),
	)

	// Overhead light facing down
	s.AddQuadLight(
		core.NewVec3(-0.5, 4, -0.5),
		core.NewVec3(1, 0, 0),
		core.NewVec3(0, 0, 1),
		core.NewVec3(20, 16, 10),
	)

	s.Camera = geometry.NewCamera(s.CameraConfig)
	return s
}
