package renderer

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/df07/go-metropolis-raytracer/pkg/core"
	"github.com/df07/go-metropolis-raytracer/pkg/geometry"
	"github.com/df07/go-metropolis-raytracer/pkg/mutation"
	"github.com/df07/go-metropolis-raytracer/pkg/scene"
	"github.com/df07/go-metropolis-raytracer/pkg/strategy"
)

func newMLTConfig() MLTConfig {
	return MLTConfig{
		Width: 8, Height: 8,
		Chains:            3,
		MutationsPerPixel: 8,
		BootstrapSamples:  2000,
		Seed:              1,
		Strategy:          strategy.UniformWeighted{MaxEyeDepth: 4, MaxLightDepth: 4},
		Mutator:           mutation.NewBidirectional(nil, 10),
	}
}

func TestMLTRenderMatchesBootstrapBrightness(t *testing.T) {
	sc := newTestScene(t, "cornell-diffuse")
	r, err := NewMLTRenderer(sc, newMLTConfig(), testLogger)
	if err != nil {
		t.Fatal(err)
	}

	img, stats, err := r.Render(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	checkFinite(t, img)

	if stats.Bootstrap <= 0 || stats.Candidates == 0 {
		t.Fatalf("Expected the bootstrap to find light, got %+v", stats)
	}
	if got := img.MeanLuminance(); math.Abs(got-stats.Bootstrap) > 1e-6*stats.Bootstrap {
		t.Errorf("Expected mean luminance %g, got %g", stats.Bootstrap, got)
	}

	total := stats.Total()
	if len(stats.Chains) != 3 {
		t.Fatalf("Expected 3 chains, got %d", len(stats.Chains))
	}
	// 512 mutations split over 3 chains, rounded up
	if total.Proposed != 3*171 {
		t.Errorf("Expected %d proposals, got %d", 3*171, total.Proposed)
	}
	if total.Accepted+total.Rejected+total.Invalid != total.Proposed {
		t.Errorf("Outcomes don't add up: %+v", total)
	}
	if total.Accepted == 0 {
		t.Error("Expected some accepted mutations")
	}
}

func TestMLTDarkSceneRendersBlack(t *testing.T) {
	// a light facing away from the camera into empty space
	sc := &scene.Scene{
		CameraConfig: geometry.CameraConfig{
			Center:      core.NewVec3(0, 0, 5),
			LookAt:      core.NewVec3(0, 0, 0),
			Up:          core.NewVec3(0, 1, 0),
			AspectRatio: 1,
			VFov:        40,
		},
	}
	// u × v points toward -z
	sc.AddQuadLight(core.NewVec3(-0.5, -0.5, 0), core.NewVec3(0, 1, 0), core.NewVec3(1, 0, 0), core.NewVec3(5, 5, 5))
	if err := sc.Preprocess(); err != nil {
		t.Fatal(err)
	}

	r, err := NewMLTRenderer(sc, newMLTConfig(), testLogger)
	if err != nil {
		t.Fatal(err)
	}
	img, stats, err := r.Render(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Bootstrap != 0 || len(stats.Chains) != 0 {
		t.Errorf("Expected no chains, got %+v", stats)
	}
	if img.MeanLuminance() != 0 {
		t.Error("Expected a black image")
	}
}

func TestMLTCanceled(t *testing.T) {
	sc := newTestScene(t, "cornell-diffuse")
	config := newMLTConfig()
	config.BootstrapSamples = 200
	r, err := NewMLTRenderer(sc, config, testLogger)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := r.Render(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestNewMLTRendererValidates(t *testing.T) {
	sc := newTestScene(t, "cornell")
	mutate := []func(*MLTConfig){
		func(c *MLTConfig) { c.Chains = 0 },
		func(c *MLTConfig) { c.MutationsPerPixel = -1 },
		func(c *MLTConfig) { c.BootstrapSamples = 0 },
		func(c *MLTConfig) { c.Mutator = nil },
		func(c *MLTConfig) { c.Strategy = nil },
		func(c *MLTConfig) { c.Height = 0 },
	}
	for i, m := range mutate {
		config := newMLTConfig()
		m(&config)
		if _, err := NewMLTRenderer(sc, config, testLogger); !errors.Is(err, ErrInvalidOptions) {
			t.Errorf("Case %d: expected ErrInvalidOptions, got %v", i, err)
		}
	}
}
