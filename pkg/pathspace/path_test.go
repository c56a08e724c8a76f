package pathspace_test

import (
	"testing"

	"github.com/df07/go-metropolis-raytracer/pkg/core"
	"github.com/df07/go-metropolis-raytracer/pkg/material"
	"github.com/df07/go-metropolis-raytracer/pkg/pathspace"
	"github.com/df07/go-metropolis-raytracer/pkg/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"seehuhn.de/go/geom/vec"
)

func newTestScene(t *testing.T, name string) *scene.Scene {
	t.Helper()
	sc, err := scene.New(name, 1)
	require.NoError(t, err)
	return sc
}

// growTo expands sp until it has n vertices
func growTo(sp pathspace.Subpath, n int, s core.Sampler) (pathspace.Subpath, bool) {
	for sp.Len() < n {
		next, ok := sp.Expand(core.Canonical3(s))
		if !ok || next.Tail().IsAtInfinity() {
			return sp, false
		}
		sp = next
	}
	return sp, true
}

// scatters reports whether every vertex past the root reflects light
func scatters(sp pathspace.Subpath) bool {
	for i := 1; i < sp.Len(); i++ {
		if _, ok := sp.Node(i).Material.(*material.Emissive); ok {
			return false
		}
	}
	return true
}

// buildPath traces random subpaths of exactly lightLen and eyeLen vertices
// whose tails see each other.
func buildPath(t *testing.T, sc *scene.Scene, lightLen, eyeLen int, seed int64) *pathspace.Path {
	t.Helper()
	s := core.NewSeededSampler(seed)
	for attempt := 0; attempt < 10000; attempt++ {
		light := pathspace.EmptySubpath(sc, pathspace.LightSide)
		if lightLen > 0 {
			r1, r2, r3 := core.Canonical3(s)
			root, ok := sc.Light().Sample(sc, r1, r2, r3)
			if !ok {
				continue
			}
			if light, ok = growTo(root, lightLen, s); !ok {
				continue
			}
		}

		eye := pathspace.EmptySubpath(sc, pathspace.EyeSide)
		if eyeLen > 0 {
			r1, r2, r3 := core.Canonical3(s)
			root, ok := sc.Lens().Sample(core.Canonical2(s), sc, r1, r2, r3)
			if !ok {
				continue
			}
			if eye, ok = growTo(root, eyeLen, s); !ok {
				continue
			}
		}

		if !scatters(light) || !scatters(eye) {
			continue
		}
		if lightLen > 0 && eyeLen > 0 && !pathspace.Connectable(light, eye) {
			continue
		}
		return pathspace.NewPath(sc, light, eye)
	}
	t.Fatalf("no %d+%d path found", lightLen, eyeLen)
	return nil
}

func TestExpandFromLens(t *testing.T) {
	sc := newTestScene(t, "cornell-diffuse")

	root, ok := sc.Lens().Sample(vec.Vec2{X: 0.5, Y: 0.5}, sc, 0, 0, 0)
	require.True(t, ok)
	assert.Equal(t, pathspace.KindLens, root.Tail().Kind)
	assert.True(t, root.Tail().IsRoot())

	eye, ok := root.Expand(0.3, 0.3, 0.3)
	require.True(t, ok)
	require.Equal(t, 2, eye.Len())

	tail := eye.Tail()
	assert.Equal(t, pathspace.KindSurface, tail.Kind)
	assert.True(t, tail.IsOnEyePath())
	assert.Equal(t, 1, tail.Depth)
	assert.Equal(t, 0, tail.Parent)
	assert.InDelta(t, 555.0, tail.Point.Z, 1e-6, "center ray hits the back wall")
	assert.InDelta(t, 1.0, tail.Weight.X, 1e-12)
	assert.Less(t, tail.In.Z, 0.0, "In points back toward the camera")
}

func TestTruncateDoesNotAlias(t *testing.T) {
	sc := newTestScene(t, "cornell-diffuse")
	path := buildPath(t, sc, 0, 3, 1)

	original := *path.Eye().Node(1)
	short := path.Eye().Truncate(1)
	s := core.NewSeededSampler(99)
	for i := 0; i < 20; i++ {
		if _, ok := short.Expand(core.Canonical3(s)); ok {
			break
		}
	}
	assert.Equal(t, original, *path.Eye().Node(1))
	assert.Equal(t, 3, path.EyeLength())
	assert.Panics(t, func() { path.Eye().Truncate(4) })
}

func TestPathLengthAndOrder(t *testing.T) {
	sc := newTestScene(t, "cornell-diffuse")
	path := buildPath(t, sc, 2, 2, 3)

	assert.Equal(t, 4, path.Vertices())
	assert.Equal(t, 5, path.Length())

	nodes := path.Nodes()
	require.Len(t, nodes, 4)
	assert.Equal(t, pathspace.KindLight, nodes[0].Kind)
	assert.True(t, nodes[1].IsOnLightPath())
	assert.True(t, nodes[2].IsOnEyePath())
	assert.Equal(t, pathspace.KindLens, nodes[3].Kind)

	empty := pathspace.NewPath(sc, pathspace.EmptySubpath(sc, pathspace.LightSide), pathspace.EmptySubpath(sc, pathspace.EyeSide))
	assert.Equal(t, 0, empty.Length())

	eyeOnly := pathspace.NewPath(sc, pathspace.EmptySubpath(sc, pathspace.LightSide), path.Eye())
	assert.Equal(t, 3, eyeOnly.Length(), "one-sided paths count the edge to the boundary")
}

func TestSlice(t *testing.T) {
	sc := newTestScene(t, "cornell-diffuse")
	path := buildPath(t, sc, 3, 2, 5)

	_, ok := path.Slice(4, 1)
	assert.False(t, ok)
	_, ok = path.Slice(1, 3)
	assert.False(t, ok)

	sliced, ok := path.Slice(0, 2)
	require.True(t, ok)
	assert.Equal(t, 0, sliced.LightLength())
	assert.Equal(t, 2, sliced.EyeLength())
	assert.True(t, sliced.EyeTail().Same(path.EyeTail()))
}

// Every vertex of a sampled path must be reproduced by the chain densities
// for the split it was sampled with.
func TestChainDensitiesMatchSampling(t *testing.T) {
	sc := newTestScene(t, "cornell-diffuse")

	tests := []struct {
		name string
		s, t int
	}{
		{"light only", 3, 0},
		{"eye only", 0, 4},
		{"both sides", 3, 3},
		{"single light vertex", 1, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := buildPath(t, sc, tt.s, tt.t, 11)
			ch := path.Chain()
			require.Equal(t, tt.s+tt.t, ch.Len())

			for i := 0; i < ch.Len(); i++ {
				forward, ok := ch.ForwardPDF(i)
				require.True(t, ok)

				var got float64
				if i < tt.s {
					got, ok = ch.LightPDF(i)
				} else {
					got, ok = ch.EyePDF(i)
				}
				require.True(t, ok)
				assert.InEpsilon(t, forward, got, 1e-6, "vertex %d", i)
			}
		})
	}
}

func TestChainLensHasNoLightDensity(t *testing.T) {
	sc := newTestScene(t, "cornell-diffuse")
	path := buildPath(t, sc, 1, 2, 13)
	ch := path.Chain()

	pdf, ok := ch.LightPDF(ch.Len() - 1)
	assert.True(t, ok)
	assert.Zero(t, pdf)

	pdf, ok = ch.EyePDF(ch.Len() - 1)
	assert.True(t, ok)
	assert.Equal(t, 1.0, pdf)
}

func TestCanConnectSkipsSpecular(t *testing.T) {
	sc := newTestScene(t, "cornell")

	for attempt := 0; attempt < 10000; attempt++ {
		path := buildPath(t, sc, 0, 3, int64(attempt))
		if !path.Eye().Node(1).IsSpecular() {
			continue
		}
		ch := path.Chain()
		// x_1 is the mirror vertex, at index n-2
		mirror := ch.Len() - 2
		assert.False(t, ch.CanConnect(mirror))
		assert.False(t, ch.CanConnect(mirror+1))
		assert.True(t, ch.CanConnect(0))
		return
	}
	t.Fatal("no mirror path found")
}

func TestSameIgnoresFilmPoint(t *testing.T) {
	sc := newTestScene(t, "cornell")

	a, ok := sc.Lens().Sample(vec.Vec2{X: 0.1, Y: 0.2}, sc, 0, 0, 0)
	require.True(t, ok)
	b, ok := sc.Lens().Sample(vec.Vec2{X: 0.8, Y: 0.6}, sc, 0, 0, 0)
	require.True(t, ok)
	assert.True(t, a.Tail().Same(b.Tail()))

	ea, ok := a.Expand(0, 0, 0)
	require.True(t, ok)
	eb, ok := b.Expand(0, 0, 0)
	require.True(t, ok)
	assert.False(t, ea.Tail().Same(eb.Tail()))
	assert.True(t, ea.Tail().Same(ea.Tail()))
}

func TestFilmPoint(t *testing.T) {
	sc := newTestScene(t, "cornell")
	film := vec.Vec2{X: 0.3, Y: 0.7}

	root, ok := sc.Lens().Sample(film, sc, 0, 0, 0)
	require.True(t, ok)
	eye, ok := root.Expand(0, 0, 0)
	require.True(t, ok)

	got, ok := pathspace.NewPath(sc, pathspace.EmptySubpath(sc, pathspace.LightSide), eye).FilmPoint()
	require.True(t, ok)
	assert.InDelta(t, film.X, got.X, 1e-9)
	assert.InDelta(t, film.Y, got.Y, 1e-9)

	_, ok = pathspace.NewPath(sc, pathspace.EmptySubpath(sc, pathspace.LightSide), root).FilmPoint()
	assert.False(t, ok, "a lone lens has no direction")
}

func TestEscapedEyeRayReachesBackground(t *testing.T) {
	sc := newTestScene(t, "sky")

	// near the top of the film the camera looks into the sky
	root, ok := sc.Lens().Sample(vec.Vec2{X: 0.5, Y: 0.02}, sc, 0, 0, 0)
	require.True(t, ok)
	eye, ok := root.Expand(0, 0, 0)
	require.True(t, ok)

	tail := eye.Tail()
	assert.True(t, tail.IsAtInfinity())
	assert.Equal(t, sc.Background(), tail.SourceRadiance)

	_, ok = eye.Expand(0.5, 0.5, 0.5)
	assert.False(t, ok, "nothing continues from infinity")
}

func TestLightSubpathDoesNotEscape(t *testing.T) {
	sc := newTestScene(t, "sky")
	s := core.NewSeededSampler(23)

	for i := 0; i < 200; i++ {
		r1, r2, r3 := core.Canonical3(s)
		light, ok := sc.Light().Sample(sc, r1, r2, r3)
		require.True(t, ok)
		for {
			next, ok := light.Expand(core.Canonical3(s))
			if !ok {
				break
			}
			require.False(t, next.Tail().IsAtInfinity())
			light = next
		}
	}
}
