package lights

import (
	"github.com/df07/go-metropolis-raytracer/pkg/core"
	"github.com/df07/go-metropolis-raytracer/pkg/material"
)

// Set is the collection of emitters in a scene together with the
// distribution used to pick one when starting a light subpath.
type Set struct {
	lights       []*QuadLight
	distribution *core.Categorical
	byMaterial   map[material.Material]int
}

// NewSet creates a set that selects lights in proportion to their power
func NewSet(lights []*QuadLight) *Set {
	weights := make([]float64, len(lights))
	for i, light := range lights {
		weights[i] = light.Power()
	}
	return newSet(lights, weights)
}

// NewUniformSet creates a set that selects every light with equal probability
func NewUniformSet(lights []*QuadLight) *Set {
	weights := make([]float64, len(lights))
	for i := range weights {
		weights[i] = 1
	}
	return newSet(lights, weights)
}

func newSet(lights []*QuadLight, weights []float64) *Set {
	s := &Set{
		lights:       lights,
		distribution: core.NewCategorical(weights),
		byMaterial:   make(map[material.Material]int, len(lights)),
	}
	for i, light := range lights {
		s.byMaterial[light.Emissive] = i
	}
	return s
}

// Len returns the number of lights
func (s *Set) Len() int {
	return len(s.lights)
}

// Select picks a light with u in [0, 1). Returns false if no light emits.
func (s *Set) Select(u float64) (*QuadLight, float64, bool) {
	i := s.distribution.Sample(u)
	if i < 0 {
		return nil, 0, false
	}
	return s.lights[i], s.distribution.Probability(i), true
}

// Lookup finds the light whose surface uses mat, together with its
// selection probability.
func (s *Set) Lookup(mat material.Material) (*QuadLight, float64, bool) {
	i, ok := s.byMaterial[mat]
	if !ok {
		return nil, 0, false
	}
	return s.lights[i], s.distribution.Probability(i), true
}
