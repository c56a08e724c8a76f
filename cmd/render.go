package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"time"

	"github.com/df07/go-metropolis-raytracer/pkg/config"
	"github.com/df07/go-metropolis-raytracer/pkg/log"
	"github.com/df07/go-metropolis-raytracer/pkg/mutation"
	"github.com/df07/go-metropolis-raytracer/pkg/renderer"
	"github.com/df07/go-metropolis-raytracer/pkg/scene"
	"github.com/df07/go-metropolis-raytracer/pkg/strategy"
	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli"
)

// Render renders a single frame with the selected integrator.
func Render(ctx *cli.Context) error {
	setupLogging(ctx)

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := renderer.CheckFormat(cfg.Output); err != nil {
		return err
	}

	if addr := ctx.String("metrics-addr"); addr != "" {
		srv := serveMetrics(addr)
		defer srv.Close()
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	img, err := render(runCtx, cfg)
	if err != nil {
		return err
	}
	if err := renderer.WriteImage(cfg.Output, img); err != nil {
		return err
	}
	logger.Noticef("wrote %s", cfg.Output)
	return nil
}

// loadConfig reads the optional config file and applies flag overrides.
func loadConfig(ctx *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := ctx.String("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}

	if ctx.IsSet("scene") {
		cfg.Scene = ctx.String("scene")
	}
	if ctx.IsSet("width") {
		cfg.Width = ctx.Int("width")
	}
	if ctx.IsSet("height") {
		cfg.Height = ctx.Int("height")
	}
	if ctx.IsSet("integrator") {
		cfg.Integrator = ctx.String("integrator")
	}
	if ctx.IsSet("spp") {
		cfg.SamplesPerPixel = ctx.Int("spp")
	}
	if ctx.IsSet("workers") {
		cfg.Workers = ctx.Int("workers")
	}
	if ctx.IsSet("seed") {
		cfg.Seed = ctx.Int64("seed")
	}
	if ctx.IsSet("lights") {
		cfg.Lights = ctx.String("lights")
	}
	if ctx.IsSet("out") {
		cfg.Output = ctx.String("out")
	}
	if ctx.IsSet("strategy") {
		cfg.Strategy.Kind = ctx.String("strategy")
	}
	if ctx.IsSet("max-depth") {
		cfg.Strategy.MaxEyeDepth = ctx.Int("max-depth")
		cfg.Strategy.MaxLightDepth = ctx.Int("max-depth")
	}
	if ctx.IsSet("chains") {
		cfg.MLT.Chains = ctx.Int("chains")
	}
	if ctx.IsSet("mpp") {
		cfg.MLT.MutationsPerPixel = ctx.Int("mpp")
	}
	if ctx.IsSet("bootstrap") {
		cfg.MLT.BootstrapSamples = ctx.Int("bootstrap")
	}
	return cfg, nil
}

func serveMetrics(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("metrics server: %v", err)
		}
	}()
	logger.Infof("serving metrics on %s/metrics", addr)
	return srv
}

// render builds the scene and runs the configured integrator
func render(ctx context.Context, cfg config.Config) (*renderer.Image, error) {
	sc, err := scene.New(cfg.Scene, float64(cfg.Width)/float64(cfg.Height),
		scene.WithLightSelection(scene.LightSelection(cfg.Lights)))
	if err != nil {
		return nil, err
	}
	st, err := strategy.New(cfg.Strategy.Kind, cfg.Strategy.MaxEyeDepth, cfg.Strategy.MaxLightDepth)
	if err != nil {
		return nil, err
	}
	workers := cfg.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}

	logger.Noticef("rendering %s at %dx%d with %s (%s strategy)", cfg.Scene, cfg.Width, cfg.Height, cfg.Integrator, cfg.Strategy.Kind)
	start := time.Now()

	switch cfg.Integrator {
	case config.IntegratorMLT:
		specs := make([]mutation.Spec, len(cfg.MLT.Mutators))
		for i, m := range cfg.MLT.Mutators {
			specs[i] = mutation.Spec{Kind: m.Kind, Weight: m.Weight}
		}
		mutator, err := mutation.New(specs, nil, cfg.MLT.MaxVertices)
		if err != nil {
			return nil, err
		}
		r, err := renderer.NewMLTRenderer(sc, renderer.MLTConfig{
			Width:             cfg.Width,
			Height:            cfg.Height,
			Chains:            cfg.MLT.Chains,
			MutationsPerPixel: cfg.MLT.MutationsPerPixel,
			BootstrapSamples:  cfg.MLT.BootstrapSamples,
			NumWorkers:        workers,
			Seed:              cfg.Seed,
			Strategy:          st,
			Mutator:           mutator,
		}, log.New("mlt"))
		if err != nil {
			return nil, err
		}
		img, stats, err := r.Render(ctx)
		if err != nil {
			return nil, err
		}
		displayMLTStats(stats, time.Since(start))
		return img, nil

	default:
		r, err := renderer.NewBDPTRenderer(sc, renderer.BDPTConfig{
			Width:           cfg.Width,
			Height:          cfg.Height,
			SamplesPerPixel: cfg.SamplesPerPixel,
			NumWorkers:      workers,
			Seed:            cfg.Seed,
			Strategy:        st,
		}, log.New("bdpt"))
		if err != nil {
			return nil, err
		}
		img, stats, err := r.Render(ctx)
		if err != nil {
			return nil, err
		}
		displayBDPTStats(stats, time.Since(start))
		return img, nil
	}
}

func displayBDPTStats(stats renderer.BDPTStats, elapsed time.Duration) {
	techniques := make([]renderer.Technique, 0, len(stats.Contributions))
	total := 0
	for technique, n := range stats.Contributions {
		techniques = append(techniques, technique)
		total += n
	}
	sort.Slice(techniques, func(i, j int) bool {
		a, b := techniques[i], techniques[j]
		if a.S+a.T != b.S+b.T {
			return a.S+a.T < b.S+b.T
		}
		return a.S < b.S
	})

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Light vertices", "Eye vertices", "Contributions", "% of total"})
	for _, technique := range techniques {
		n := stats.Contributions[technique]
		table.Append([]string{
			fmt.Sprintf("%d", technique.S),
			fmt.Sprintf("%d", technique.T),
			fmt.Sprintf("%d", n),
			fmt.Sprintf("%02.1f %%", 100*float64(n)/float64(max(total, 1))),
		})
	}
	table.SetFooter([]string{fmt.Sprintf("%d samples", stats.Samples), fmt.Sprintf("%d splats", stats.Splats), "TOTAL", elapsed.Round(time.Millisecond).String()})

	table.Render()
	logger.Noticef("render statistics\n%s", buf.String())
}

func displayMLTStats(stats renderer.MLTStats, elapsed time.Duration) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Chain", "Proposed", "Accepted", "Rejected", "Invalid", "Acceptance"})
	for _, c := range stats.Chains {
		table.Append(chainRow(fmt.Sprintf("%d", c.Chain), c))
	}
	table.SetFooter(chainRow(fmt.Sprintf("TOTAL (%s)", elapsed.Round(time.Millisecond)), stats.Total()))

	table.Render()
	logger.Noticef("bootstrap luminance %.5g from %d candidate paths\n%s", stats.Bootstrap, stats.Candidates, buf.String())
}

func chainRow(label string, c renderer.ChainStats) []string {
	return []string{
		label,
		fmt.Sprintf("%d", c.Proposed),
		fmt.Sprintf("%d", c.Accepted),
		fmt.Sprintf("%d", c.Rejected),
		fmt.Sprintf("%d", c.Invalid),
		fmt.Sprintf("%02.1f %%", 100*c.AcceptanceRate()),
	}
}
