package geometry

import (
	"math"

	"github.com/df07/go-metropolis-raytracer/pkg/core"
	"seehuhn.de/go/geom/vec"
)

// CameraConfig contains all camera configuration parameters
type CameraConfig struct {
	Center      core.Vec3 // Camera position
	LookAt      core.Vec3 // Point the camera is looking at
	Up          core.Vec3 // Up direction (usually (0,1,0))
	AspectRatio float64   // Width / height
	VFov        float64   // Vertical field of view in degrees
}

// Camera is a pinhole camera. Film coordinates are in the unit square with
// (0,0) at the top-left corner of the image.
type Camera struct {
	center  core.Vec3
	forward core.Vec3
	right   core.Vec3
	up      core.Vec3

	halfWidth  float64
	halfHeight float64
	filmArea   float64 // area of the image plane at unit distance
}

// NewCamera creates a camera from the given configuration
func NewCamera(config CameraConfig) *Camera {
	forward := config.LookAt.Subtract(config.Center).Normalize()
	right := forward.Cross(config.Up).Normalize()
	up := right.Cross(forward)

	halfHeight := math.Tan(config.VFov * math.Pi / 360)
	halfWidth := config.AspectRatio * halfHeight

	return &Camera{
		center:     config.Center,
		forward:    forward,
		right:      right,
		up:         up,
		halfWidth:  halfWidth,
		halfHeight: halfHeight,
		filmArea:   4 * halfWidth * halfHeight,
	}
}

// Center returns the pinhole position
func (c *Camera) Center() core.Vec3 { return c.center }

// Forward returns the unit viewing direction
func (c *Camera) Forward() core.Vec3 { return c.forward }

// Direction returns the unit direction through a film point
func (c *Camera) Direction(film vec.Vec2) core.Vec3 {
	x := (2*film.X - 1) * c.halfWidth
	y := (1 - 2*film.Y) * c.halfHeight
	return c.forward.Add(c.right.Multiply(x)).Add(c.up.Multiply(y)).Normalize()
}

// Project maps a direction leaving the pinhole back to its film point.
// Returns false if the direction misses the film.
func (c *Camera) Project(direction core.Vec3) (vec.Vec2, bool) {
	cos := direction.Dot(c.forward)
	if cos <= 0 {
		return vec.Vec2{}, false
	}
	p := direction.Multiply(1 / cos)
	x := p.Dot(c.right) / c.halfWidth
	y := p.Dot(c.up) / c.halfHeight
	film := vec.Vec2{X: (x + 1) / 2, Y: (1 - y) / 2}
	if film.X < 0 || film.X >= 1 || film.Y < 0 || film.Y >= 1 {
		return vec.Vec2{}, false
	}
	return film, true
}

// DirectionPDF returns the solid angle density of generating direction by
// sampling the film uniformly: 1 / (A cos³θ).
func (c *Camera) DirectionPDF(direction core.Vec3) float64 {
	if _, ok := c.Project(direction); !ok {
		return 0
	}
	cos := direction.Dot(c.forward)
	return 1 / (c.filmArea * cos * cos * cos)
}

// Importance returns the emitted importance We toward direction,
// normalized so that one unit of film area integrates to one: 1 / (A cos⁴θ).
func (c *Camera) Importance(direction core.Vec3) float64 {
	if _, ok := c.Project(direction); !ok {
		return 0
	}
	cos := direction.Dot(c.forward)
	return 1 / (c.filmArea * cos * cos * cos * cos)
}
