package mutation

import (
	"github.com/df07/go-metropolis-raytracer/pkg/core"
	"github.com/df07/go-metropolis-raytracer/pkg/measure"
	"github.com/df07/go-metropolis-raytracer/pkg/pathspace"
)

// Bidirectional is the bidirectional mutation: delete a contiguous run of
// edges from the path, then regrow a random number of edges from both
// sides and reconnect them.
type Bidirectional struct {
	// Measure weighs the cuts when choosing what to delete
	Measure measure.PathMeasure

	// MaxVertices rejects proposals with more vertices. Zero means no limit.
	MaxVertices int
}

// NewBidirectional creates a bidirectional mutator. A nil measure uses the
// radiometric measure.
func NewBidirectional(m measure.PathMeasure, maxVertices int) *Bidirectional {
	if m == nil {
		m = measure.Radiometric{}
	}
	return &Bidirectional{Measure: m, MaxVertices: maxVertices}
}

func (b *Bidirectional) measure() measure.PathMeasure {
	if b.Measure == nil {
		return measure.Radiometric{}
	}
	return b.Measure
}

// Mutate deletes a subpath of x chosen by newDeletions and regrows a ladder
// sampled number of edges in its place. It returns false when the proposal
// is a no-op or the regrown subpaths can't be joined.
func (b *Bidirectional) Mutate(x *pathspace.Path, s core.Sampler) (*pathspace.Path, bool) {
	if x.Vertices() == 0 {
		return nil, false
	}
	del, ok := newDeletions(x, b.measure()).sample(core.Canonical(s))
	if !ok {
		return nil, false
	}

	ka := sampleLadder(del.kd(), core.Canonical(s))
	return b.propose(x, del, ka, s)
}

// propose applies one deletion and regrows ka edges in its place
func (b *Bidirectional) propose(x *pathspace.Path, del deletion, ka int, s core.Sampler) (*pathspace.Path, bool) {
	if ka == 1 && del.kd() == 1 {
		// the same edge would be put back
		return nil, false
	}

	// ka edges join ka-1 new vertices, split between the two sides
	lightAdd := core.Discrete(0, ka-1, s)
	eyeAdd := ka - 1 - lightAdd

	info := x.Info()
	light, ok := regrowLight(info, x.Light().Truncate(del.l+1), lightAdd, s)
	if !ok {
		return nil, false
	}
	eye, ok := regrowEye(info, x.Eye().Truncate(x.Vertices()-del.m), eyeAdd, s)
	if !ok {
		return nil, false
	}

	if light.Empty() && eye.Empty() {
		return nil, false
	}
	if b.MaxVertices > 0 && light.Len()+eye.Len() > b.MaxVertices {
		return nil, false
	}
	if !light.Empty() && !eye.Empty() && !pathspace.Connectable(light, eye) {
		return nil, false
	}
	return pathspace.NewPath(info, light, eye), true
}

// TransitionPDF returns the density of Mutate proposing y from x. The
// deletion is the maximal one implied by the prefixes x and y share, and the
// regrown vertices are counted under every split between the two sides.
func (b *Bidirectional) TransitionPDF(x, y *pathspace.Path) float64 {
	if x.Vertices() == 0 || y.Vertices() == 0 {
		return 0
	}
	sc, tc := commonPrefixes(x, y)

	pd := newDeletions(x, b.measure()).probability(sc-1, x.Vertices()-tc)
	if pd <= 0 {
		return 0
	}

	ka := y.Length() - (sc + tc)
	kd := x.Length() - (sc + tc)
	pa := ladderProbability(ka, kd) / float64(ka)
	if pa <= 0 {
		return 0
	}
	if ka == 1 {
		return pd * pa
	}
	return pd * pa * splitDensity(y, sc, tc)
}

// regrowLight adds count vertices to a light subpath, starting a new one at
// the light if it is empty.
func regrowLight(info pathspace.PathInfo, light pathspace.Subpath, count int, s core.Sampler) (pathspace.Subpath, bool) {
	if count > 0 && light.Empty() {
		r1, r2, r3 := core.Canonical3(s)
		root, ok := info.Light().Sample(info, r1, r2, r3)
		if !ok {
			return light, false
		}
		light = root
		count--
	}
	return grow(light, count, s)
}

// regrowEye adds count vertices to an eye subpath. A subpath that is empty,
// or that kept only the lens, restarts at the lens through a fresh film point.
func regrowEye(info pathspace.PathInfo, eye pathspace.Subpath, count int, s core.Sampler) (pathspace.Subpath, bool) {
	if count > 0 && eye.Len() <= 1 {
		if eye.Empty() {
			count--
		}
		film := core.Canonical2(s)
		r1, r2, r3 := core.Canonical3(s)
		root, ok := info.Lens().Sample(film, info, r1, r2, r3)
		if !ok {
			return eye, false
		}
		eye = root
	}
	return grow(eye, count, s)
}

// grow expands a subpath count times. Reaching infinity fails the mutation.
func grow(sp pathspace.Subpath, count int, s core.Sampler) (pathspace.Subpath, bool) {
	for ; count > 0; count-- {
		next, ok := sp.Expand(core.Canonical3(s))
		if !ok || next.Tail().IsAtInfinity() {
			return sp, false
		}
		sp = next
	}
	return sp, true
}
