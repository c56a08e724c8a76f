package pathspace

import (
	"math"

	"github.com/df07/go-metropolis-raytracer/pkg/core"
)

// Connectable reports whether the tails of two non-empty subpaths can be
// joined by a single edge: neither is at infinity and nothing blocks it.
func Connectable(light, eye Subpath) bool {
	lt, et := light.Tail(), eye.Tail()
	if lt == nil || et == nil || lt.IsAtInfinity() || et.IsAtInfinity() {
		return false
	}
	return light.info.Visible(lt.Point, et.Point)
}

// Connect joins the tails of a light subpath and an eye subpath and returns
// the unweighted contribution αL·fL·G·fE·αE of the resulting path. Returns
// false when the tails can't be joined or the contribution is zero.
func Connect(light, eye Subpath) (core.Vec3, bool) {
	lt, et := light.Tail(), eye.Tail()
	if lt == nil || et == nil || lt.IsAtInfinity() || et.IsAtInfinity() {
		return core.Vec3{}, false
	}

	d := et.Point.Subtract(lt.Point)
	dist2 := d.LengthSquared()
	if dist2 < rayEpsilon*rayEpsilon {
		return core.Vec3{}, false
	}
	dir := d.Multiply(1 / math.Sqrt(dist2))

	fl := lt.scatterToward(dir)
	fe := et.scatterToward(dir.Negate())
	g := lt.cosine(dir) * et.cosine(dir.Negate()) / dist2

	c := lt.Weight.MultiplyVec(fl).MultiplyVec(fe).MultiplyVec(et.Weight).Multiply(g)
	if c.Luminance() <= 0 {
		return core.Vec3{}, false
	}
	if !light.info.Visible(lt.Point, et.Point) {
		return core.Vec3{}, false
	}
	return c, true
}

// scatterToward evaluates the directional factor at a subpath tail for
// leaving toward dir: the BRDF at surfaces, the cosine lobe at an emitter
// root and the importance at the lens.
func (n *Node) scatterToward(dir core.Vec3) core.Vec3 {
	switch n.Kind {
	case KindLens:
		we := n.camera.Importance(dir)
		return core.NewVec3(we, we, we)
	case KindLight:
		if n.Normal.Dot(dir) <= 0 {
			return core.Vec3{}
		}
		return core.NewVec3(1/math.Pi, 1/math.Pi, 1/math.Pi)
	case KindSurface:
		return n.Material.EvaluateBRDF(n.In, dir, n.Normal)
	}
	return core.Vec3{}
}

func (n *Node) cosine(dir core.Vec3) float64 {
	if n.Kind == KindLens {
		return max(0, dir.Dot(n.Normal))
	}
	return math.Abs(dir.Dot(n.Normal))
}

// direction returns the unit vector from one vertex toward another,
// taking vertices at infinity into account.
func direction(from, to *Node) core.Vec3 {
	switch {
	case to.IsAtInfinity():
		return to.In.Negate()
	case from.IsAtInfinity():
		return from.In
	}
	return to.Point.Subtract(from.Point).Normalize()
}

// geometricFactor returns |cosθ|/d² at node for an edge arriving from other
func geometricFactor(node, other *Node) float64 {
	if node.IsAtInfinity() || other.IsAtInfinity() {
		return 1
	}
	d := node.Point.Subtract(other.Point)
	dist2 := d.LengthSquared()
	if dist2 == 0 {
		return 0
	}
	return math.Abs(node.Normal.Dot(d)) / (math.Sqrt(dist2) * dist2)
}
