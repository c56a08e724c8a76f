package pathspace

import (
	"seehuhn.de/go/geom/vec"
)

// Path is a light subpath and an eye subpath joined by one connecting edge.
// When one side is empty the other side connects to the emitter or the lens
// boundary directly, so the connecting edge is always counted.
type Path struct {
	info  PathInfo
	light Subpath
	eye   Subpath
}

// NewPath joins two subpaths without any visibility check
func NewPath(info PathInfo, light, eye Subpath) *Path {
	return &Path{info: info, light: light, eye: eye}
}

// Info returns the scene the path lives in
func (p *Path) Info() PathInfo { return p.info }

// Light returns the light subpath
func (p *Path) Light() Subpath { return p.light }

// Eye returns the eye subpath
func (p *Path) Eye() Subpath { return p.eye }

// LightLength returns the number of light subpath vertices
func (p *Path) LightLength() int { return p.light.Len() }

// EyeLength returns the number of eye subpath vertices
func (p *Path) EyeLength() int { return p.eye.Len() }

// Vertices returns the number of vertices on the path
func (p *Path) Vertices() int { return p.light.Len() + p.eye.Len() }

// Length returns the number of edges, counting the connecting edge.
// Zero for a path with no vertices.
func (p *Path) Length() int {
	n := p.Vertices()
	if n == 0 {
		return 0
	}
	return n + 1
}

// LightTail returns the deepest light subpath vertex, or nil
func (p *Path) LightTail() *Node { return p.light.Tail() }

// EyeTail returns the deepest eye subpath vertex, or nil
func (p *Path) EyeTail() *Node { return p.eye.Tail() }

// Slice keeps the first s light vertices and t eye vertices. Returns false
// when either count exceeds the subpath or the new tails can't see each other.
func (p *Path) Slice(s, t int) (*Path, bool) {
	if s < 0 || t < 0 || s > p.light.Len() || t > p.eye.Len() {
		return nil, false
	}
	light, eye := p.light.Truncate(s), p.eye.Truncate(t)
	if s > 0 && t > 0 && !Connectable(light, eye) {
		return nil, false
	}
	return NewPath(p.info, light, eye), true
}

// Nodes returns the vertices in order from the light end to the eye end:
// the light subpath root first, the eye subpath root last.
func (p *Path) Nodes() []*Node {
	nodes := make([]*Node, 0, p.Vertices())
	for i := 0; i < p.light.Len(); i++ {
		nodes = append(nodes, p.light.Node(i))
	}
	for i := p.eye.Len() - 1; i >= 0; i-- {
		nodes = append(nodes, p.eye.Node(i))
	}
	return nodes
}

// FilmPoint returns where the path crosses the film, found by projecting
// the direction that leaves the lens.
func (p *Path) FilmPoint() (vec.Vec2, bool) {
	if p.eye.Empty() {
		return vec.Vec2{}, false
	}
	lens := p.eye.Node(0)
	if lens.Kind != KindLens {
		return vec.Vec2{}, false
	}

	var next *Node
	switch {
	case p.eye.Len() > 1:
		next = p.eye.Node(1)
	case !p.light.Empty():
		next = p.light.Tail()
	default:
		return vec.Vec2{}, false
	}
	return lens.camera.Project(direction(lens, next))
}
