package mutation

import (
	"testing"

	"github.com/df07/go-metropolis-raytracer/pkg/pathspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// splitProduct computes p_c directly from the chain densities
func splitProduct(ch pathspace.Chain, c int) float64 {
	p := 1.0
	for i := 0; i < ch.Len(); i++ {
		var pdf float64
		if i < c {
			pdf, _ = ch.LightPDF(i)
		} else {
			pdf, _ = ch.EyePDF(i)
		}
		p *= pdf
	}
	return p
}

func TestSplitRatiosMatchDirectProducts(t *testing.T) {
	sc := newScene(t, "cornell-diffuse")

	for _, x := range contributingPaths(t, sc, 30, 5) {
		ch := x.Chain()
		s := x.LightLength()
		ps := splitProduct(ch, s)
		require.Greater(t, ps, 0.0)

		r := splitRatios(ch, s, 0, ch.Len())
		for c := 0; c <= ch.Len(); c++ {
			expected := splitProduct(ch, c) / ps
			if expected == 0 {
				assert.Zero(t, r[c], "cut %d of %d (s=%d)", c, ch.Len(), s)
				continue
			}
			assert.InEpsilon(t, expected, r[c], 1e-9, "cut %d of %d (s=%d)", c, ch.Len(), s)
		}
	}
}

func TestRatio(t *testing.T) {
	tests := []struct {
		name     string
		num, den float64
		numOK    bool
		denOK    bool
		expected float64
	}{
		{"defined", 2, 4, true, true, 0.5},
		{"zero denominator", 2, 0, true, true, 0},
		{"delta numerator", 0, 4, false, true, 0.25},
		{"delta denominator", 3, 0, true, false, 3},
		{"both delta", 0, 0, false, false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ratio(tt.num, tt.numOK, tt.den, tt.denOK))
		})
	}
}

func TestCommonPrefixes(t *testing.T) {
	sc := newScene(t, "cornell-diffuse")
	x := contributingPaths(t, sc, 1, 8)[0]

	sc0, tc0 := commonPrefixes(x, x)
	assert.Equal(t, x.LightLength(), sc0)
	assert.Equal(t, x.EyeLength(), tc0)

	y := eyePath(t, sc, ceilingLightFilm)
	sc1, tc1 := commonPrefixes(x, y)
	assert.Zero(t, sc1)
	assert.Equal(t, 1, tc1, "the lens is shared")
}
