// Package strategy decides how eye and light subpaths are traced and how
// much of a connection's contribution each bidirectional sample claims.
package strategy

import (
	"errors"
	"fmt"

	"github.com/df07/go-metropolis-raytracer/pkg/core"
	"github.com/df07/go-metropolis-raytracer/pkg/pathspace"
	"seehuhn.de/go/geom/vec"
)

// ErrUnknownStrategy is returned by New for an unrecognized kind
var ErrUnknownStrategy = errors.New("strategy: unknown path strategy")

// PathStrategy traces subpaths and weights their connections. An empty
// subpath stands for "no subpath" and has length zero.
type PathStrategy interface {
	TraceEyePath(lens pathspace.Lens, film vec.Vec2, info pathspace.PathInfo, s core.Sampler) pathspace.Subpath
	TraceLightPath(light pathspace.Light, info pathspace.PathInfo, s core.Sampler) pathspace.Subpath
	Weight(light, eye pathspace.Subpath) float64
}

// Kinds lists the names accepted by New
var Kinds = []string{"path", "light", "uniform"}

// New creates a strategy by name
func New(kind string, maxEyeDepth, maxLightDepth int) (PathStrategy, error) {
	switch kind {
	case "path":
		return PathTracing{MaxDepth: maxEyeDepth}, nil
	case "light":
		return LightTracing{MaxDepth: maxLightDepth}, nil
	case "uniform":
		return UniformWeighted{MaxEyeDepth: maxEyeDepth, MaxLightDepth: maxLightDepth}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, kind)
}

// PathTracing builds eye subpaths only and claims every connection that
// uses no light subpath vertex.
type PathTracing struct {
	MaxDepth int
}

func (p PathTracing) TraceEyePath(lens pathspace.Lens, film vec.Vec2, info pathspace.PathInfo, s core.Sampler) pathspace.Subpath {
	return traceEye(lens, film, info, s, p.MaxDepth)
}

func (p PathTracing) TraceLightPath(light pathspace.Light, info pathspace.PathInfo, s core.Sampler) pathspace.Subpath {
	return pathspace.EmptySubpath(info, pathspace.LightSide)
}

func (p PathTracing) Weight(light, eye pathspace.Subpath) float64 {
	if light.Empty() {
		return 1
	}
	return 0
}

// LightTracing connects light subpaths straight to the lens. It claims paths
// whose light subpath has exactly one diffuse bounce, so light reaching the
// camera after one diffuse reflection (possibly behind mirrors) is found from
// the light side.
type LightTracing struct {
	MaxDepth int
}

func (l LightTracing) TraceEyePath(lens pathspace.Lens, film vec.Vec2, info pathspace.PathInfo, s core.Sampler) pathspace.Subpath {
	return traceEye(lens, film, info, s, 0)
}

func (l LightTracing) TraceLightPath(light pathspace.Light, info pathspace.PathInfo, s core.Sampler) pathspace.Subpath {
	return traceLight(light, info, s, l.MaxDepth)
}

func (l LightTracing) Weight(light, eye pathspace.Subpath) float64 {
	if eye.Len() != 1 || light.Empty() {
		return 0
	}
	// vertices past the emitter root that scatter diffusely
	diffuse := light.Len() - 1 - light.SpecularCount()
	if diffuse != 1 {
		return 0
	}
	return 1
}

// UniformWeighted grows both subpaths and splits every path evenly among
// the connections that could have produced it. Specular vertices can't be
// connected to, so they don't count.
type UniformWeighted struct {
	MaxEyeDepth   int
	MaxLightDepth int
}

func (u UniformWeighted) TraceEyePath(lens pathspace.Lens, film vec.Vec2, info pathspace.PathInfo, s core.Sampler) pathspace.Subpath {
	return traceEye(lens, film, info, s, u.MaxEyeDepth)
}

func (u UniformWeighted) TraceLightPath(light pathspace.Light, info pathspace.PathInfo, s core.Sampler) pathspace.Subpath {
	return traceLight(light, info, s, u.MaxLightDepth)
}

func (u UniformWeighted) Weight(light, eye pathspace.Subpath) float64 {
	if u.MaxEyeDepth == 0 && u.MaxLightDepth == 0 {
		return 0
	}
	k := light.Len() + eye.Len() + 1 - light.SpecularCount() - eye.SpecularCount()
	if k <= 0 {
		return 0
	}
	return 1 / float64(k)
}

func traceEye(lens pathspace.Lens, film vec.Vec2, info pathspace.PathInfo, s core.Sampler, maxDepth int) pathspace.Subpath {
	r1, r2, r3 := core.Canonical3(s)
	path, ok := lens.Sample(film, info, r1, r2, r3)
	if !ok {
		return pathspace.EmptySubpath(info, pathspace.EyeSide)
	}
	return extend(path, s, maxDepth)
}

func traceLight(light pathspace.Light, info pathspace.PathInfo, s core.Sampler, maxDepth int) pathspace.Subpath {
	r1, r2, r3 := core.Canonical3(s)
	path, ok := light.Sample(info, r1, r2, r3)
	if !ok {
		return pathspace.EmptySubpath(info, pathspace.LightSide)
	}
	return extend(path, s, maxDepth)
}

// extend adds up to maxDepth bounces, stopping at the first termination or
// at a vertex at infinity.
func extend(path pathspace.Subpath, s core.Sampler, maxDepth int) pathspace.Subpath {
	for depth := 0; depth < maxDepth; depth++ {
		next, ok := path.Expand(core.Canonical3(s))
		if !ok {
			break
		}
		path = next
		if path.Tail().IsAtInfinity() {
			break
		}
	}
	return path
}
