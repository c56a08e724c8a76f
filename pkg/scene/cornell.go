package scene

import (
	"github.com/df07/go-metropolis-raytracer/pkg/core"
	"github.com/df07/go-metropolis-raytracer/pkg/geometry"
	"github.com/df07/go-metropolis-raytracer/pkg/material"
)

// boxSize is the side of the standard Cornell box
const boxSize = 555.0

// NewCornellScene creates the classic Cornell box with a mirror sphere and a
// diffuse sphere, lit by a quad under the ceiling.
func NewCornellScene(aspectRatio float64) *Scene {
	s := newCornellBox("cornell", aspectRatio)

	mirror := geometry.NewSphere(
		core.NewVec3(185, 82.5, 169),
		82.5,
		material.NewMirror(core.NewVec3(0.9, 0.9, 0.9)),
	)
	diffuse := geometry.NewSphere(
		core.NewVec3(370, 90, 351),
		90,
		material.NewLambertian(core.NewVec3(0.73, 0.73, 0.73)),
	)
	s.Shapes = append(s.Shapes, mirror, diffuse)
	return s
}

// NewDiffuseCornellScene is the Cornell box with two diffuse spheres. Every
// vertex is connectable, which exercises all bidirectional strategies.
func NewDiffuseCornellScene(aspectRatio float64) *Scene {
	s := newCornellBox("cornell-diffuse", aspectRatio)

	s.Shapes = append(s.Shapes,
		geometry.NewSphere(core.NewVec3(185, 82.5, 169), 82.5, material.NewLambertian(core.NewVec3(0.8, 0.8, 0.3))),
		geometry.NewSphere(core.NewVec3(370, 90, 351), 90, material.NewLambertian(core.NewVec3(0.3, 0.5, 0.8))),
	)
	return s
}

func newCornellBox(name string, aspectRatio float64) *Scene {
	s := &Scene{
		Name: name,
		CameraConfig: geometry.CameraConfig{
			Center:      core.NewVec3(278, 278, -800), // outside the box looking in
			LookAt:      core.NewVec3(278, 278, 0),
			Up:          core.NewVec3(0, 1, 0),
			AspectRatio: aspectRatio,
			VFov:        40.0,
		},
	}

	white := material.NewLambertian(core.NewVec3(0.73, 0.73, 0.73))
	red := material.NewLambertian(core.NewVec3(0.65, 0.05, 0.05))
	green := material.NewLambertian(core.NewVec3(0.12, 0.45, 0.15))

	s.Shapes = append(s.Shapes,
		// floor, ceiling and back wall
		geometry.NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(boxSize, 0, 0), core.NewVec3(0, 0, boxSize), white),
		geometry.NewQuad(core.NewVec3(0, boxSize, 0), core.NewVec3(boxSize, 0, 0), core.NewVec3(0, 0, boxSize), white),
		geometry.NewQuad(core.NewVec3(0, 0, boxSize), core.NewVec3(boxSize, 0, 0), core.NewVec3(0, boxSize, 0), white),
		// left and right walls
		geometry.NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, boxSize), core.NewVec3(0, boxSize, 0), red),
		geometry.NewQuad(core.NewVec3(boxSize, 0, 0), core.NewVec3(0, boxSize, 0), core.NewVec3(0, 0, boxSize), green),
	)

	// Ceiling light, slightly below the ceiling, facing down
	lightSize := 130.0
	lightOffset := (boxSize - lightSize) / 2.0
	s.AddQuadLight(
		core.NewVec3(lightOffset, boxSize-1, lightOffset),
		core.NewVec3(lightSize, 0, 0),
		core.NewVec3(0, 0, lightSize),
		core.NewVec3(15.0, 15.0, 15.0),
	)

	s.Camera = geometry.NewCamera(s.CameraConfig)
	return s
}
