package mutation

import (
	"fmt"
	"testing"

	"github.com/df07/go-metropolis-raytracer/pkg/core"
	"github.com/df07/go-metropolis-raytracer/pkg/measure"
	"github.com/df07/go-metropolis-raytracer/pkg/pathspace"
	"github.com/df07/go-metropolis-raytracer/pkg/scene"
	"github.com/df07/go-metropolis-raytracer/pkg/strategy"
	"github.com/stretchr/testify/require"
	"seehuhn.de/go/geom/vec"
)

// testSampler hands out predetermined values and panics when it runs out
type testSampler struct {
	values []float64
	next   int
}

func newTestSampler(values ...float64) *testSampler {
	return &testSampler{values: values}
}

func (s *testSampler) Get1D() float64 {
	if s.next >= len(s.values) {
		panic(fmt.Sprintf("testSampler exhausted after %d values", len(s.values)))
	}
	u := s.values[s.next]
	s.next++
	return u
}

func (s *testSampler) Get2D() vec.Vec2 {
	return vec.Vec2{X: s.Get1D(), Y: s.Get1D()}
}

func (s *testSampler) Get3D() core.Vec3 {
	return core.NewVec3(s.Get1D(), s.Get1D(), s.Get1D())
}

// stubMutator proposes a fixed path with a fixed density
type stubMutator struct {
	path  *pathspace.Path
	pdf   float64
	calls int
}

func (m *stubMutator) Mutate(x *pathspace.Path, s core.Sampler) (*pathspace.Path, bool) {
	m.calls++
	return m.path, m.path != nil
}

func (m *stubMutator) TransitionPDF(from, to *pathspace.Path) float64 {
	return m.pdf
}

func newScene(t *testing.T, name string) *scene.Scene {
	t.Helper()
	sc, err := scene.New(name, 1)
	require.NoError(t, err)
	return sc
}

// ceilingLightFilm looks straight at the Cornell box light
var ceilingLightFilm = vec.Vec2{X: 0.5, Y: 0.148}

var centerFilm = vec.Vec2{X: 0.5, Y: 0.5}

// eyePath traces the lens and one bounce through film
func eyePath(t *testing.T, sc *scene.Scene, film vec.Vec2) *pathspace.Path {
	t.Helper()
	root, ok := sc.Lens().Sample(film, sc, 0, 0, 0)
	require.True(t, ok)
	eye, ok := root.Expand(0, 0, 0)
	require.True(t, ok)
	return pathspace.NewPath(sc, pathspace.EmptySubpath(sc, pathspace.LightSide), eye)
}

// contributingPaths samples n paths with nonzero contribution, using every
// split of bidirectionally traced subpaths.
func contributingPaths(t *testing.T, sc *scene.Scene, n int, seed int64) []*pathspace.Path {
	t.Helper()
	s := core.NewSeededSampler(seed)
	u := strategy.UniformWeighted{MaxEyeDepth: 4, MaxLightDepth: 4}

	var paths []*pathspace.Path
	for attempt := 0; attempt < 100000 && len(paths) < n; attempt++ {
		light := u.TraceLightPath(sc.Light(), sc, s)
		eye := u.TraceEyePath(sc.Lens(), core.Canonical2(s), sc, s)
		for si := 0; si <= light.Len() && len(paths) < n; si++ {
			for ti := 1; ti <= eye.Len() && len(paths) < n; ti++ {
				l, e := light.Truncate(si), eye.Truncate(ti)
				if measure.Luminance(measure.Radiometric{}, l, e) <= 0 {
					continue
				}
				paths = append(paths, pathspace.NewPath(sc, l, e))
			}
		}
	}
	require.Len(t, paths, n)
	return paths
}

func luminance(p *pathspace.Path) float64 {
	return measure.Luminance(measure.Radiometric{}, p.Light(), p.Eye())
}
