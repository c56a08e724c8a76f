package mutation

import (
	"math"

	"github.com/df07/go-metropolis-raytracer/pkg/core"
	"github.com/df07/go-metropolis-raytracer/pkg/measure"
	"github.com/df07/go-metropolis-raytracer/pkg/pathspace"
)

// contributionEpsilon is the smallest contribution a cut needs to count
const contributionEpsilon = 1e-10

// deletion removes the vertices strictly between x_l and x_m, keeping l+1
// light vertices and n-m eye vertices of an n vertex path.
type deletion struct {
	l, m int
}

func (d deletion) kd() int { return d.m - d.l }

// deletions is the categorical distribution over the subpaths a
// bidirectional mutation may delete from one path.
type deletions struct {
	candidates []deletion
	index      map[deletion]int
	dist       *core.Categorical
}

// deletionProbability is the base probability of deleting kd edges
func deletionProbability(kd int) float64 {
	switch kd {
	case 1:
		return 0.25
	case 2:
		return 0.5
	}
	return math.Ldexp(1, -kd)
}

// newDeletions enumerates every pair -1 ≤ l < m ≤ n for a path with n
// vertices. Each pair is weighted by the base probability for its length
// times Σ 1/C_c over the cuts c the regrown path could be connected at, so
// that deletions around hard-to-sample connections are favored.
//
// Deletions are only possible where the kept prefixes are prefixes of the
// existing subpaths, and never remove the lens: regrowing a pinhole gives
// back the same point.
func newDeletions(x *pathspace.Path, m measure.PathMeasure) deletions {
	ch := x.Chain()
	n := ch.Len()
	s, t := x.LightLength(), x.EyeLength()
	inv := inverseContributions(x, ch, m)

	prefix := make([]float64, n+2)
	for c := 0; c <= n; c++ {
		prefix[c+1] = prefix[c] + inv[c]
	}

	d := deletions{index: make(map[deletion]int)}
	var weights []float64
	for l := -1; l < n; l++ {
		for mm := l + 1; mm <= n; mm++ {
			del := deletion{l: l, m: mm}
			keepLight, keepEye := l+1, n-mm

			w := 0.0
			if keepLight <= s && keepEye <= t && (t == 0 || keepEye > 0) {
				w = deletionProbability(del.kd()) * (prefix[mm+1] - prefix[l+1])
			}
			d.index[del] = len(d.candidates)
			d.candidates = append(d.candidates, del)
			weights = append(weights, w)
		}
	}
	d.dist = core.NewCategorical(weights)
	return d
}

func (d deletions) probability(l, m int) float64 {
	i, ok := d.index[deletion{l: l, m: m}]
	if !ok {
		return 0
	}
	return d.dist.Probability(i)
}

func (d deletions) sample(u float64) (deletion, bool) {
	i := d.dist.Sample(u)
	if i < 0 {
		return deletion{}, false
	}
	return d.candidates[i], true
}

// inverseContributions returns 1/C_c for every cut c in [0, n], where C_c is
// the luminance of x's unweighted contribution had it been sampled with c
// light vertices. Cuts that can't be connected or contribute at most
// contributionEpsilon are zero.
func inverseContributions(x *pathspace.Path, ch pathspace.Chain, m measure.PathMeasure) []float64 {
	n := ch.Len()
	inv := make([]float64, n+1)

	cs := measure.Luminance(m, x.Light(), x.Eye())
	if cs <= contributionEpsilon {
		return inv
	}

	// C_c = f/p_c, so C_c = C_s·p_s/p_c
	r := splitRatios(ch, x.LightLength(), 0, n)
	for c := 0; c <= n; c++ {
		if !ch.CanConnect(c) || r[c] <= 0 {
			continue
		}
		cc := cs / r[c]
		if cc <= contributionEpsilon || math.IsInf(cc, 0) {
			continue
		}
		inv[c] = 1 / cc
	}
	return inv
}
