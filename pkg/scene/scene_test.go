package scene

import (
	"testing"

	"github.com/df07/go-metropolis-raytracer/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKnownScenes(t *testing.T) {
	for _, info := range List() {
		t.Run(info.Name, func(t *testing.T) {
			s, err := New(info.Name, 1.5)
			require.NoError(t, err)
			assert.Equal(t, info.Name, s.Name)
			assert.NotNil(t, s.Camera)
			assert.NotZero(t, s.LightSet.Len())
			assert.NotEmpty(t, info.Description)
		})
	}
}

func TestNewUnknownScene(t *testing.T) {
	_, err := New("dragon", 1)
	assert.ErrorIs(t, err, ErrUnknownScene)
}

func TestPreprocessNeedsEmission(t *testing.T) {
	s := &Scene{}
	assert.ErrorIs(t, s.Preprocess(), ErrNoEmission)

	s = &Scene{BackgroundColor: core.NewVec3(1, 1, 1)}
	assert.NoError(t, s.Preprocess())
}

func newTwoLightScene(selection LightSelection) *Scene {
	s := &Scene{LightSelection: selection}
	s.AddQuadLight(core.NewVec3(0, 1, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1), core.NewVec3(1, 1, 1))
	s.AddQuadLight(core.NewVec3(2, 1, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1), core.NewVec3(3, 3, 3))
	return s
}

func TestLightSelection(t *testing.T) {
	tests := []struct {
		selection LightSelection
		expected  float64 // probability of picking the brighter light
	}{
		{"", 0.75},
		{SelectByPower, 0.75},
		{SelectUniform, 0.5},
	}
	for _, tt := range tests {
		t.Run(string(tt.selection), func(t *testing.T) {
			s := newTwoLightScene(tt.selection)
			require.NoError(t, s.Preprocess())

			light, prob, ok := s.LightSet.Select(0.9)
			require.True(t, ok)
			assert.Same(t, s.Lights[1], light)
			assert.InDelta(t, tt.expected, prob, 1e-12)
		})
	}
}

func TestLightSelectionOption(t *testing.T) {
	s, err := New("cornell", 1, WithLightSelection(SelectUniform))
	require.NoError(t, err)
	assert.Equal(t, SelectUniform, s.LightSelection)

	_, err = New("cornell", 1, WithLightSelection("brightest"))
	assert.ErrorIs(t, err, ErrUnknownLightSelection)
}

func TestIntersectFindsClosest(t *testing.T) {
	s := NewCornellScene(1)
	require.NoError(t, s.Preprocess())

	ray := core.NewRay(core.NewVec3(278, 278, -800), core.NewVec3(0, 0, 1))
	hit, ok := s.Intersect(ray, 1e-4, 1e9)
	require.True(t, ok)
	assert.InDelta(t, 555.0, hit.Point.Z, 1e-6)

	// straight down from the light onto the floor
	ray = core.NewRay(core.NewVec3(278, 500, 278), core.NewVec3(0, -1, 0))
	hit, ok = s.Intersect(ray, 1e-4, 1e9)
	require.True(t, ok)
	assert.InDelta(t, 0.0, hit.Point.Y, 1e-6)
}

func TestVisible(t *testing.T) {
	s := NewCornellScene(1)
	require.NoError(t, s.Preprocess())

	assert.True(t, s.Visible(core.NewVec3(100, 400, 100), core.NewVec3(400, 400, 400)))
	// through the diffuse sphere at (370, 90, 351)
	assert.False(t, s.Visible(core.NewVec3(370, 90, 200), core.NewVec3(370, 90, 500)))
	// points on surfaces still see each other
	assert.True(t, s.Visible(core.NewVec3(278, 0, 100), core.NewVec3(278, 555, 100)))
}

func TestLightFacesIntoBox(t *testing.T) {
	s := NewCornellScene(1)
	require.Len(t, s.Lights, 1)
	assert.InDelta(t, -1.0, s.Lights[0].Normal.Y, 1e-12)
}
