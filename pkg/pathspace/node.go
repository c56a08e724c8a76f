package pathspace

import (
	"github.com/df07/go-metropolis-raytracer/pkg/core"
	"github.com/df07/go-metropolis-raytracer/pkg/geometry"
	"github.com/df07/go-metropolis-raytracer/pkg/material"
	"seehuhn.de/go/geom/vec"
)

// Kind classifies a path vertex
type Kind uint8

const (
	KindLens       Kind = iota // eye subpath root on the camera
	KindLight                  // light subpath root on an emitter
	KindSurface                // scattering vertex on a surface
	KindBackground             // escaped eye ray, at infinity
)

func (k Kind) String() string {
	switch k {
	case KindLens:
		return "lens"
	case KindLight:
		return "light"
	case KindSurface:
		return "surface"
	case KindBackground:
		return "background"
	}
	return "unknown"
}

// Side tells which subpath a vertex was generated on
type Side uint8

const (
	LightSide Side = iota
	EyeSide
)

// Node is a vertex of a subpath. Nodes are created by the samplers and by
// Subpath.Expand and never change afterwards.
type Node struct {
	Kind   Kind
	Side   Side
	Depth  int // index in the subpath, 0 at the root
	Parent int // index of the previous vertex, -1 at the root

	Point     core.Vec3
	Normal    core.Vec3 // faces the incoming ray; emitter normal or camera forward at roots
	In        core.Vec3 // unit direction toward the parent
	FrontFace bool
	Material  material.Material
	Film      vec.Vec2 // lens roots only
	Specular  bool

	Weight         core.Vec3 // cumulative throughput (light side) or importance (eye side)
	SourceRadiance core.Vec3 // radiance emitted toward the parent, eye side only

	pdf    float64 // forward density: solid angle, or area at roots
	delta  bool    // pdf is a Dirac delta
	geom   float64 // |cos|/d² relative to the parent
	cont   float64 // Russian roulette continuation probability
	camera *geometry.Camera
}

// IsSpecular reports a delta scattering distribution at this vertex
func (n *Node) IsSpecular() bool { return n.Specular }

// IsOnLightPath reports whether the vertex belongs to a light subpath
func (n *Node) IsOnLightPath() bool { return n.Side == LightSide }

// IsOnEyePath reports whether the vertex belongs to an eye subpath
func (n *Node) IsOnEyePath() bool { return n.Side == EyeSide }

// IsAtInfinity reports an escaped ray
func (n *Node) IsAtInfinity() bool { return n.Kind == KindBackground }

// IsRoot reports a subpath root
func (n *Node) IsRoot() bool { return n.Parent < 0 }

// PDF returns the density this node was sampled with: area density for
// roots, solid angle density from the parent otherwise. The second result is
// false when the density is a Dirac delta and has no finite value.
func (n *Node) PDF() (float64, bool) {
	return n.pdf, !n.delta
}

// AreaPDF returns PDF converted to area measure. Nodes at infinity keep the
// solid angle density.
func (n *Node) AreaPDF() (float64, bool) {
	if n.delta {
		return 0, false
	}
	if n.IsRoot() {
		return n.pdf, true
	}
	return n.pdf * n.geom, true
}

// GeometricFactor returns |cosθ|/d² at this node relative to its parent,
// the conversion factor from solid angle to area density.
func (n *Node) GeometricFactor() float64 {
	return n.geom
}

// PDFToward returns the solid angle density of this node choosing dir as its
// next direction, given the parent it was reached from.
func (n *Node) PDFToward(dir core.Vec3) (float64, bool) {
	switch n.Kind {
	case KindLens:
		return n.camera.DirectionPDF(dir), true
	case KindLight:
		return core.CosineHemispherePDF(n.Normal, dir), true
	case KindSurface:
		if n.Specular {
			return 0, false
		}
		pdf, isDelta := n.Material.PDF(n.In, dir, n.Normal)
		if isDelta {
			return 0, false
		}
		return pdf * n.cont, true
	}
	return 0, true
}

// ReversePDF returns the solid angle density of this node choosing the
// direction toward its parent, had it been reached from dir instead.
func (n *Node) ReversePDF(dir core.Vec3) (float64, bool) {
	if n.Kind != KindSurface {
		return 0, true
	}
	if n.Specular {
		return 0, false
	}
	pdf, isDelta := n.Material.PDF(dir, n.In, n.Normal)
	if isDelta {
		return 0, false
	}
	return pdf * n.cont, true
}

// Emits reports whether the node lies on the emitting side of a light.
func (n *Node) Emits() bool {
	switch n.Kind {
	case KindLight:
		return true
	case KindSurface:
		_, ok := n.Material.(material.Emitter)
		return ok && n.FrontFace
	}
	return false
}

// Same is the path identity test: two nodes are the same vertex if they were
// generated at the same place, on the same side, at the same depth. Lens
// roots of one pinhole are a single point and always compare equal.
func (n *Node) Same(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.Kind != other.Kind || n.Side != other.Side || n.Depth != other.Depth {
		return false
	}
	if n.Kind == KindLens {
		return n.camera == other.camera && n.Point == other.Point
	}
	return n.Point == other.Point && n.Material == other.Material
}

func (n *Node) hitRecord() material.HitRecord {
	return material.HitRecord{
		Point:     n.Point,
		Normal:    n.Normal,
		FrontFace: n.FrontFace,
		Material:  n.Material,
	}
}

// continuation is the Russian roulette survival probability at a surface
func continuation(m material.Material) float64 {
	return min(1, m.Reflectance().MaxComponent())
}
