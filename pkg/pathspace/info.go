package pathspace

import (
	"math"

	"github.com/df07/go-metropolis-raytracer/pkg/core"
	"github.com/df07/go-metropolis-raytracer/pkg/geometry"
	"github.com/df07/go-metropolis-raytracer/pkg/lights"
	"github.com/df07/go-metropolis-raytracer/pkg/material"
	"seehuhn.de/go/geom/vec"
)

// PathInfo gives path construction access to the scene
type PathInfo interface {
	Light() Light
	Lens() Lens
	Intersect(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool)
	Visible(a, b core.Vec3) bool
	Background() core.Vec3
}

// Light samples light subpath roots
type Light interface {
	// Sample starts a light subpath from three canonical random numbers
	Sample(info PathInfo, r1, r2, r3 float64) (Subpath, bool)

	// PDF returns the area density, including light selection, of sampling
	// node as a light subpath root. Zero if node is not on an emitter.
	PDF(node *Node) float64
}

// Lens samples eye subpath roots
type Lens interface {
	// Sample starts an eye subpath that will leave through film
	Sample(film vec.Vec2, info PathInfo, r1, r2, r3 float64) (Subpath, bool)
}

// Emitters samples light subpath roots on a set of area lights.
// r1 selects the light, r2 and r3 the point on it.
type Emitters struct {
	Set *lights.Set
}

func (e Emitters) Sample(info PathInfo, r1, r2, r3 float64) (Subpath, bool) {
	light, selection, ok := e.Set.Select(r1)
	if !ok {
		return Subpath{}, false
	}
	sample := light.SampleEmission(r2, r3)
	pdf := sample.AreaPDF * selection
	if pdf <= 0 {
		return Subpath{}, false
	}

	root := Node{
		Kind:      KindLight,
		Side:      LightSide,
		Parent:    -1,
		Point:     sample.Point,
		Normal:    sample.Normal,
		FrontFace: true,
		Material:  light.Emissive,
		// Le = Le0·Le1 with Le1 = 1/π folded into the first edge
		Weight: sample.Radiance.Multiply(math.Pi / pdf),
		pdf:    pdf,
		geom:   1,
		cont:   1,
	}
	return Subpath{info: info, side: LightSide, nodes: []Node{root}}, true
}

func (e Emitters) PDF(node *Node) float64 {
	switch node.Kind {
	case KindLight:
		return node.pdf
	case KindSurface:
		if !node.FrontFace {
			return 0
		}
		light, selection, ok := e.Set.Lookup(node.Material)
		if !ok {
			return 0
		}
		return light.AreaPDF(node.Point) * selection
	}
	return 0
}

// Pinhole samples eye subpath roots at a pinhole camera. The position is a
// delta, so the random numbers are unused.
type Pinhole struct {
	Camera *geometry.Camera
}

func (p Pinhole) Sample(film vec.Vec2, info PathInfo, r1, r2, r3 float64) (Subpath, bool) {
	root := Node{
		Kind:   KindLens,
		Side:   EyeSide,
		Parent: -1,
		Point:  p.Camera.Center(),
		Normal: p.Camera.Forward(),
		Film:   film,
		Weight: core.NewVec3(1, 1, 1),
		pdf:    1,
		geom:   1,
		cont:   1,
		camera: p.Camera,
	}
	return Subpath{info: info, side: EyeSide, nodes: []Node{root}}, true
}
