package pathspace

import (
	"fmt"
	"math"

	"github.com/df07/go-metropolis-raytracer/pkg/core"
	"github.com/df07/go-metropolis-raytracer/pkg/material"
	"seehuhn.de/go/geom/vec"
)

const (
	rayEpsilon = 1e-4
	farAway    = 1e8 // distance used to place background vertices
)

// Subpath is an immutable arena of vertices indexed by depth. The root is
// at index 0 and every other node's Parent is the index before it.
//
// Subpaths are shared between paths, so every operation that grows or
// shrinks one returns a new value and never writes into the old backing
// array.
type Subpath struct {
	info  PathInfo
	side  Side
	nodes []Node
}

// EmptySubpath returns a subpath with no vertices
func EmptySubpath(info PathInfo, side Side) Subpath {
	return Subpath{info: info, side: side}
}

// Len returns the number of vertices
func (sp Subpath) Len() int { return len(sp.nodes) }

// Empty reports a subpath with no vertices
func (sp Subpath) Empty() bool { return len(sp.nodes) == 0 }

// Side returns the side the subpath was traced from
func (sp Subpath) Side() Side { return sp.side }

// Info returns the scene the subpath was traced in
func (sp Subpath) Info() PathInfo { return sp.info }

// Node returns the vertex at depth
func (sp Subpath) Node(depth int) *Node { return &sp.nodes[depth] }

// Tail returns the deepest vertex, or nil for an empty subpath
func (sp Subpath) Tail() *Node {
	if len(sp.nodes) == 0 {
		return nil
	}
	return &sp.nodes[len(sp.nodes)-1]
}

// Truncate keeps the first n vertices
func (sp Subpath) Truncate(n int) Subpath {
	if n < 0 || n > len(sp.nodes) {
		panic(fmt.Sprintf("pathspace: truncate %d of %d vertices", n, len(sp.nodes)))
	}
	sp.nodes = sp.nodes[:n:n]
	return sp
}

// SpecularCount returns the number of specular vertices
func (sp Subpath) SpecularCount() int {
	count := 0
	for i := range sp.nodes {
		if sp.nodes[i].Specular {
			count++
		}
	}
	return count
}

// Expand extends the subpath by one vertex. r1 and r2 choose the direction,
// r3 decides Russian roulette. Returns false when the path terminates: the
// tail absorbs, roulette kills it, or the ray escapes with nothing to see.
func (sp Subpath) Expand(r1, r2, r3 float64) (Subpath, bool) {
	p := sp.Tail()
	if p == nil {
		return sp, false
	}

	var (
		dir        core.Vec3
		pdf        float64
		delta      bool
		throughput core.Vec3
	)
	white := core.NewVec3(1, 1, 1)

	switch p.Kind {
	case KindLens:
		// We·cos/pdf is one for a pinhole
		dir = p.camera.Direction(p.Film)
		pdf = p.camera.DirectionPDF(dir)
		throughput = white
	case KindLight:
		// (1/π)·cos/pdf is one for cosine sampling
		dir = core.SampleCosineHemisphere(p.Normal, vec.Vec2{X: r1, Y: r2}).Normalize()
		pdf = core.CosineHemispherePDF(p.Normal, dir)
		throughput = white
	case KindSurface:
		if r3 >= p.cont {
			return sp, false
		}
		result, ok := p.Material.Scatter(p.In, p.hitRecord(), vec.Vec2{X: r1, Y: r2})
		if !ok {
			return sp, false
		}
		dir = result.Direction
		if result.IsSpecular() {
			delta = true
			throughput = result.Attenuation.Multiply(1 / p.cont)
		} else {
			pdf = result.PDF * p.cont
			throughput = result.Attenuation.Multiply(math.Abs(dir.Dot(p.Normal)) / pdf)
		}
	default:
		return sp, false
	}
	if !delta && pdf <= 0 {
		return sp, false
	}

	next := Node{
		Side:   p.Side,
		Depth:  p.Depth + 1,
		Parent: p.Depth,
		In:     dir.Negate(),
		Weight: p.Weight.MultiplyVec(throughput),
		pdf:    pdf,
		delta:  delta,
	}

	hit, ok := sp.info.Intersect(core.NewRay(p.Point, dir), rayEpsilon, math.Inf(1))
	if !ok {
		background := sp.info.Background()
		if p.Side == LightSide || background.Luminance() <= 0 {
			return sp, false
		}
		next.Kind = KindBackground
		next.Point = p.Point.Add(dir.Multiply(farAway))
		next.Normal = dir.Negate()
		next.SourceRadiance = background
		next.geom = 1
		return sp.push(next), true
	}

	next.Kind = KindSurface
	next.Point = hit.Point
	next.Normal = hit.Normal
	next.FrontFace = hit.FrontFace
	next.Material = hit.Material
	next.Specular = hit.Material.Specular()
	next.geom = math.Abs(hit.Normal.Dot(dir)) / (hit.T * hit.T)
	next.cont = continuation(hit.Material)
	if p.Side == EyeSide {
		if emitter, ok := hit.Material.(material.Emitter); ok {
			next.SourceRadiance = emitter.Emit(*hit, next.In)
		}
	}
	return sp.push(next), true
}

func (sp Subpath) push(n Node) Subpath {
	sp.nodes = append(sp.nodes[:len(sp.nodes):len(sp.nodes)], n)
	return sp
}
