package mutation

import "github.com/df07/go-metropolis-raytracer/pkg/pathspace"

// splitRatios returns r[c-lo] = p_c / p_s for every cut c in [lo, hi]. p_c is
// the density of generating all vertices of the chain with c of them on the
// light subpath; s is the cut the chain was actually sampled with and must
// lie in [lo, hi].
//
// Moving the cut up by one turns x_c from an eye vertex into a light vertex,
// so consecutive densities differ by LightPDF(c)/EyePDF(c).
func splitRatios(ch pathspace.Chain, s, lo, hi int) []float64 {
	r := make([]float64, hi-lo+1)
	r[s-lo] = 1
	for c := s; c < hi; c++ {
		num, numDefined := ch.LightPDF(c)
		den, denDefined := ch.EyePDF(c)
		r[c+1-lo] = r[c-lo] * ratio(num, numDefined, den, denDefined)
	}
	for c := s; c > lo; c-- {
		num, numDefined := ch.EyePDF(c - 1)
		den, denDefined := ch.LightPDF(c - 1)
		r[c-1-lo] = r[c-lo] * ratio(num, numDefined, den, denDefined)
	}
	return r
}

// ratio divides two densities. A Dirac delta on either side stands in as one,
// since the same delta appears in every split of the path. A zero
// denominator leaves the ratio undefined, and an undefined ratio contributes
// nothing.
func ratio(num float64, numDefined bool, den float64, denDefined bool) float64 {
	if !numDefined {
		num = 1
	}
	if !denDefined {
		den = 1
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// splitDensity returns the density of regrowing the vertices of y between a
// kept light prefix of sc vertices and a kept eye prefix of tc vertices,
// summed over every split of the regrown vertices between the two sides.
func splitDensity(y *pathspace.Path, sc, tc int) float64 {
	ch := y.Chain()
	first, last := sc, ch.Len()-1-tc

	// the split y was actually sampled with
	p := 1.0
	for i := first; i <= last; i++ {
		pdf, defined := ch.ForwardPDF(i)
		if !defined {
			continue
		}
		p *= pdf
	}
	if p <= 0 {
		return 0
	}

	r := splitRatios(ch, y.LightLength(), first, last+1)
	sum := 0.0
	for c := first; c <= last+1; c++ {
		if ch.CanConnect(c) {
			sum += r[c-first]
		}
	}
	return p * sum
}

// commonPrefixes returns the number of light subpath vertices and eye
// subpath vertices x and y share, scanning from each end of the path.
func commonPrefixes(x, y *pathspace.Path) (int, int) {
	xn, yn := x.Nodes(), y.Nodes()

	sc := 0
	for sc < len(xn) && sc < len(yn) && xn[sc].IsOnLightPath() && xn[sc].Same(yn[sc]) {
		sc++
	}

	tc := 0
	for tc < len(xn)-sc && tc < len(yn)-sc {
		a, b := xn[len(xn)-1-tc], yn[len(yn)-1-tc]
		if !a.IsOnEyePath() || !a.Same(b) {
			break
		}
		tc++
	}
	return sc, tc
}
