package lights

import (
	"testing"

	"github.com/df07/go-metropolis-raytracer/pkg/core"
	"github.com/df07/go-metropolis-raytracer/pkg/material"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLights() []*QuadLight {
	return []*QuadLight{
		// 1x1 at emission 1, facing down
		NewQuadLight(core.NewVec3(0, 1, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1), material.NewEmissive(core.NewVec3(1, 1, 1))),
		// 1x1 at emission 3, facing down
		NewQuadLight(core.NewVec3(2, 1, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1), material.NewEmissive(core.NewVec3(3, 3, 3))),
	}
}

func TestQuadLight_SampleEmission(t *testing.T) {
	light := newTestLights()[0]

	sample := light.SampleEmission(0.5, 0.25)
	assert.InDelta(t, 1.0, sample.AreaPDF, 1e-12)
	assert.True(t, light.Contains(sample.Point))
	assert.InDelta(t, -1.0, sample.Normal.Y, 1e-12, "front face points down")
	assert.InDelta(t, 1.0, light.AreaPDF(sample.Point), 1e-12)
	assert.Zero(t, light.AreaPDF(core.NewVec3(5, 1, 5)))
}

func TestSet_PowerWeightedSelection(t *testing.T) {
	lights := newTestLights()
	set := NewSet(lights)
	require.Equal(t, 2, set.Len())

	light, prob, ok := set.Select(0.1)
	require.True(t, ok)
	assert.Same(t, lights[0], light)
	assert.InDelta(t, 0.25, prob, 1e-12)

	light, prob, ok = set.Select(0.9)
	require.True(t, ok)
	assert.Same(t, lights[1], light)
	assert.InDelta(t, 0.75, prob, 1e-12)
}

func TestSet_UniformSelection(t *testing.T) {
	set := NewUniformSet(newTestLights())
	_, prob, ok := set.Select(0.9)
	require.True(t, ok)
	assert.InDelta(t, 0.5, prob, 1e-12)
}

func TestSet_Lookup(t *testing.T) {
	lights := newTestLights()
	set := NewSet(lights)

	light, prob, ok := set.Lookup(lights[1].Emissive)
	require.True(t, ok)
	assert.Same(t, lights[1], light)
	assert.InDelta(t, 0.75, prob, 1e-12)

	_, _, ok = set.Lookup(material.NewLambertian(core.NewVec3(1, 1, 1)))
	assert.False(t, ok)
}

func TestSet_Empty(t *testing.T) {
	set := NewSet(nil)
	_, _, ok := set.Select(0.5)
	assert.False(t, ok)
}
