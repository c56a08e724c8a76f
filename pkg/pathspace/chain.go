package pathspace

import "github.com/df07/go-metropolis-raytracer/pkg/core"

// Chain is the linear view x_0 … x_{n-1} of a path, light end first, used to
// evaluate the density of generating the same vertices with a different
// split between the light and eye subpaths.
type Chain struct {
	nodes []*Node
	light Light
}

// Chain returns the linear view of the path
func (p *Path) Chain() Chain {
	return Chain{nodes: p.Nodes(), light: p.info.Light()}
}

// Len returns the number of vertices
func (c Chain) Len() int { return len(c.nodes) }

// Node returns x_i
func (c Chain) Node(i int) *Node { return c.nodes[i] }

// LightPDF returns the area density of generating x_i as a light subpath
// vertex, continuing from x_{i-1} and x_{i-2}. At i == 0 it is the density
// of sampling x_0 as a light root. The lens has no area, so a light subpath
// can never land on it: that density is zero. The second result is false for
// a Dirac delta.
func (c Chain) LightPDF(i int) (float64, bool) {
	x := c.nodes[i]
	if i == 0 {
		return c.light.PDF(x), true
	}
	if x.Kind == KindLens {
		return 0, true
	}

	prev := c.nodes[i-1]
	dir := direction(prev, x)

	var pdf float64
	var defined bool
	switch {
	case i == 1:
		pdf, defined = emissionPDF(prev, dir), true
	case prev.Side == LightSide:
		pdf, defined = prev.PDFToward(dir)
	default:
		pdf, defined = prev.ReversePDF(direction(prev, c.nodes[i-2]))
	}
	if !defined {
		return 0, false
	}
	return pdf * geometricFactor(x, prev), true
}

// EyePDF returns the area density of generating x_i as an eye subpath
// vertex, continuing from x_{i+1} and x_{i+2}. At i == n-1 it is the
// density of x_{n-1} as a lens root.
func (c Chain) EyePDF(i int) (float64, bool) {
	n := len(c.nodes)
	x := c.nodes[i]
	if i == n-1 {
		if x.Kind == KindLens {
			return 1, true
		}
		return 0, true
	}

	next := c.nodes[i+1]
	dir := direction(next, x)

	var pdf float64
	var defined bool
	switch {
	case i+1 == n-1:
		if next.Kind != KindLens {
			return 0, true
		}
		pdf, defined = next.PDFToward(dir)
	case next.Side == EyeSide:
		pdf, defined = next.PDFToward(dir)
	default:
		pdf, defined = next.ReversePDF(direction(next, c.nodes[i+2]))
	}
	if !defined {
		return 0, false
	}
	return pdf * geometricFactor(x, next), true
}

// ForwardPDF returns the area density x_i was actually generated with on
// its own subpath.
func (c Chain) ForwardPDF(i int) (float64, bool) {
	return c.nodes[i].AreaPDF()
}

// CanConnect reports whether the edge between x_{cut-1} and x_cut can be the
// connecting edge, i.e. the path with cut light vertices is a valid
// bidirectional sample. Specular vertices can't be connected to.
func (c Chain) CanConnect(cut int) bool {
	if cut < 0 || cut > len(c.nodes) {
		return false
	}
	if cut > 0 && c.nodes[cut-1].Specular {
		return false
	}
	if cut < len(c.nodes) && c.nodes[cut].Specular {
		return false
	}
	return true
}

// emissionPDF is the density of an emitting vertex sending light toward dir
func emissionPDF(n *Node, dir core.Vec3) float64 {
	if !n.Emits() {
		return 0
	}
	return core.CosineHemispherePDF(n.Normal, dir)
}
