package renderer

import (
	"context"
	"fmt"
	"time"

	"github.com/df07/go-metropolis-raytracer/pkg/core"
	"github.com/df07/go-metropolis-raytracer/pkg/log"
	"github.com/df07/go-metropolis-raytracer/pkg/measure"
	"github.com/df07/go-metropolis-raytracer/pkg/mutation"
	"github.com/df07/go-metropolis-raytracer/pkg/pathspace"
	"github.com/df07/go-metropolis-raytracer/pkg/strategy"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

// cancelCheckInterval is the number of mutations between context checks
const cancelCheckInterval = 1024

// MLTConfig contains configuration for Metropolis rendering
type MLTConfig struct {
	Width, Height     int
	Chains            int // Independent Markov chains
	MutationsPerPixel int
	BootstrapSamples  int // Subpath pairs used to estimate the image brightness
	NumWorkers        int // Chains running at once (0 = all)
	Seed              int64
	Strategy          strategy.PathStrategy // Samples and weights bootstrap paths
	Measure           measure.PathMeasure   // Radiometric if nil
	Mutator           mutation.PathMutator
}

func (c MLTConfig) validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: image size %dx%d", ErrInvalidOptions, c.Width, c.Height)
	case c.Chains <= 0:
		return fmt.Errorf("%w: %d chains", ErrInvalidOptions, c.Chains)
	case c.MutationsPerPixel <= 0:
		return fmt.Errorf("%w: %d mutations per pixel", ErrInvalidOptions, c.MutationsPerPixel)
	case c.BootstrapSamples <= 0:
		return fmt.Errorf("%w: %d bootstrap samples", ErrInvalidOptions, c.BootstrapSamples)
	case c.Strategy == nil:
		return fmt.Errorf("%w: no path strategy", ErrInvalidOptions)
	case c.Mutator == nil:
		return fmt.Errorf("%w: no mutator", ErrInvalidOptions)
	}
	return nil
}

// MLTRenderer renders with Metropolis light transport: Markov chains of
// mutated paths whose stationary density is proportional to luminance.
type MLTRenderer struct {
	info   pathspace.PathInfo
	config MLTConfig
	logger log.Logger
}

// NewMLTRenderer creates a Metropolis renderer for a scene
func NewMLTRenderer(info pathspace.PathInfo, config MLTConfig, logger log.Logger) (*MLTRenderer, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	if config.Measure == nil {
		config.Measure = measure.Radiometric{}
	}
	return &MLTRenderer{info: info, config: config, logger: logger}, nil
}

// seed is a path found during bootstrap, a candidate chain start
type seed struct {
	path *pathspace.Path
}

// Render runs the bootstrap and all chains and returns the image, scaled so
// its mean luminance matches the bootstrap estimate.
func (r *MLTRenderer) Render(ctx context.Context) (*Image, MLTStats, error) {
	ctx, span := getTracer().Start(ctx, "renderer.MLT")
	defer span.End()

	start := time.Now()
	var stats MLTStats

	b, seeds, weights := r.bootstrap(ctx)
	stats.Bootstrap = b
	stats.Candidates = len(seeds)
	span.SetAttributes(attribute.Float64("bootstrap", b), attribute.Int("candidates", len(seeds)))

	img := NewImage(r.config.Width, r.config.Height)
	if b <= 0 || len(seeds) == 0 {
		r.logger.Warningf("bootstrap found no light in %d samples, the image is black", r.config.BootstrapSamples)
		return img, stats, nil
	}
	r.logger.Infof("bootstrap: mean luminance %.5g from %d contributing paths", b, len(seeds))

	total := r.config.MutationsPerPixel * r.config.Width * r.config.Height
	perChain := (total + r.config.Chains - 1) / r.config.Chains
	starts := core.NewCategorical(weights)

	images := make([]*Image, r.config.Chains)
	stats.Chains = make([]ChainStats, r.config.Chains)

	g, gctx := errgroup.WithContext(ctx)
	if r.config.NumWorkers > 0 {
		g.SetLimit(r.config.NumWorkers)
	}
	for i := 0; i < r.config.Chains; i++ {
		g.Go(func() error {
			s := core.NewSeededSampler(r.config.Seed*104729 + int64(i) + 1)
			x := seeds[starts.Sample(core.Canonical(s))].path

			chainImg, chainStats, err := r.runChain(gctx, i, x, perChain, s)
			images[i] = chainImg
			stats.Chains[i] = chainStats
			return err
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "chain failed")
		return nil, stats, fmt.Errorf("running chains: %w", err)
	}

	mutations := 0
	for i, chainImg := range images {
		img.Merge(chainImg)
		mutations += stats.Chains[i].Proposed
	}
	// every mutation deposits unit luminance in total
	img.Scale(b * float64(r.config.Width*r.config.Height) / float64(mutations))

	totals := stats.Total()
	r.logger.Infof("metropolis render finished in %s: %d mutations, %.1f%% accepted",
		time.Since(start).Round(time.Millisecond), totals.Proposed, 100*totals.AcceptanceRate())
	return img, stats, nil
}

// bootstrap samples subpath pairs through random film points. It returns
// the mean weighted luminance, which is the mean luminance of the image,
// and every contributing path with its weighted luminance.
func (r *MLTRenderer) bootstrap(ctx context.Context) (float64, []seed, []float64) {
	_, span := getTracer().Start(ctx, "renderer.MLT.bootstrap")
	defer span.End()

	s := core.NewSeededSampler(r.config.Seed)
	st := r.config.Strategy

	var seeds []seed
	var weights []float64
	sum := 0.0
	for i := 0; i < r.config.BootstrapSamples; i++ {
		fp := core.Canonical2(s)
		eye := st.TraceEyePath(r.info.Lens(), fp, r.info, s)
		light := st.TraceLightPath(r.info.Light(), r.info, s)

		for t := 1; t <= eye.Len(); t++ {
			e := eye.Truncate(t)
			for si := 0; si <= light.Len(); si++ {
				l := light.Truncate(si)
				w := st.Weight(l, e)
				if w <= 0 {
					continue
				}
				lum := measure.Luminance(r.config.Measure, l, e)
				if lum <= 0 {
					continue
				}
				sum += w * lum
				seeds = append(seeds, seed{path: pathspace.NewPath(r.info, l, e)})
				weights = append(weights, w*lum)
			}
		}
	}
	return sum / float64(r.config.BootstrapSamples), seeds, weights
}

// runChain runs one Markov chain from x. Each step splats the expected
// value of the accept/reject decision rather than its outcome.
func (r *MLTRenderer) runChain(ctx context.Context, id int, x *pathspace.Path, mutations int, s core.Sampler) (*Image, ChainStats, error) {
	ctx, span := getTracer().Start(ctx, "renderer.MLT.chain")
	defer span.End()
	span.SetAttributes(attribute.Int("chain", id), attribute.Int("mutations", mutations))

	start := time.Now()
	defer func() { chainDuration.Observe(time.Since(start).Seconds()) }()

	img := NewImage(r.config.Width, r.config.Height)
	stats := ChainStats{Chain: id}
	film := Film{Width: r.config.Width, Height: r.config.Height}
	mutator := r.config.Mutator

	cx, _ := r.config.Measure.Evaluate(x.Light(), x.Eye())
	px := cx.Luminance()

	splat := func(p *pathspace.Path, c core.Vec3, weight float64) {
		if weight <= 0 {
			return
		}
		fp, ok := p.FilmPoint()
		if !ok {
			return
		}
		if fx, fy, ok := film.PixelAt(fp); ok {
			img.Add(fx, fy, c.Multiply(weight))
		}
	}

	for i := 0; i < mutations; i++ {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return img, stats, err
			}
		}
		stats.Proposed++

		y, ok := mutator.Mutate(x, s)
		if !ok {
			stats.Invalid++
			mutationsTotal.WithLabelValues("invalid").Inc()
			splat(x, cx, 1/px)
			continue
		}

		var py float64
		cy, ok := r.config.Measure.Evaluate(y.Light(), y.Eye())
		if ok {
			py = cy.Luminance()
		}
		a := mutation.Acceptance(mutator, x, y, px, py)
		acceptanceProbability.Observe(a)

		splat(x, cx, (1-a)/px)
		if py > 0 {
			splat(y, cy, a/py)
		}

		if core.Canonical(s) < a {
			x, cx, px = y, cy, py
			stats.Accepted++
			mutationsTotal.WithLabelValues("accepted").Inc()
		} else {
			stats.Rejected++
			mutationsTotal.WithLabelValues("rejected").Inc()
		}
	}

	r.logger.Debugf("chain %d: %d proposals, %d accepted, %d rejected, %d invalid",
		id, stats.Proposed, stats.Accepted, stats.Rejected, stats.Invalid)
	return img, stats, nil
}
