// Package renderer turns path samples into images: a bidirectional renderer
// that weights every connection of independently traced subpaths, and a
// Metropolis renderer that explores path space with mutations.
package renderer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/df07/go-metropolis-raytracer/pkg/core"
	"github.com/df07/go-metropolis-raytracer/pkg/log"
	"github.com/df07/go-metropolis-raytracer/pkg/measure"
	"github.com/df07/go-metropolis-raytracer/pkg/pathspace"
	"github.com/df07/go-metropolis-raytracer/pkg/strategy"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"seehuhn.de/go/geom/vec"
)

// ErrInvalidOptions is returned when a renderer is configured with values it
// can't render with
var ErrInvalidOptions = errors.New("renderer: invalid options")

// BDPTConfig contains configuration for bidirectional rendering
type BDPTConfig struct {
	Width, Height   int
	SamplesPerPixel int
	TileSize        int // Size of each tile (32x32 if zero)
	NumWorkers      int // Number of parallel workers (0 = use CPU count)
	Seed            int64
	Strategy        strategy.PathStrategy
	Measure         measure.PathMeasure // Radiometric if nil
}

func (c BDPTConfig) validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: image size %dx%d", ErrInvalidOptions, c.Width, c.Height)
	case c.SamplesPerPixel <= 0:
		return fmt.Errorf("%w: %d samples per pixel", ErrInvalidOptions, c.SamplesPerPixel)
	case c.Strategy == nil:
		return fmt.Errorf("%w: no path strategy", ErrInvalidOptions)
	}
	return nil
}

// BDPTRenderer traces an eye subpath and a light subpath per sample and
// adds the weighted contribution of every way to connect them.
type BDPTRenderer struct {
	info   pathspace.PathInfo
	config BDPTConfig
	logger log.Logger
}

// NewBDPTRenderer creates a bidirectional renderer for a scene
func NewBDPTRenderer(info pathspace.PathInfo, config BDPTConfig, logger log.Logger) (*BDPTRenderer, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	if config.TileSize <= 0 {
		config.TileSize = 32
	}
	if config.Measure == nil {
		config.Measure = measure.Radiometric{}
	}
	return &BDPTRenderer{info: info, config: config, logger: logger}, nil
}

// Render renders the full image
func (r *BDPTRenderer) Render(ctx context.Context) (*Image, BDPTStats, error) {
	ctx, span := getTracer().Start(ctx, "renderer.BDPT")
	defer span.End()
	span.SetAttributes(
		attribute.Int("width", r.config.Width),
		attribute.Int("height", r.config.Height),
		attribute.Int("spp", r.config.SamplesPerPixel),
	)

	start := time.Now()
	film := NewFilm(r.config.Width, r.config.Height)
	splats := NewSplatQueue(r.config.Width * r.config.Height)
	tiles := NewTileGrid(r.config.Width, r.config.Height, r.config.TileSize, r.config.Seed)

	pool := NewWorkerPool(r.config.NumWorkers, len(tiles), func(ctx context.Context, tile *Tile) (BDPTStats, error) {
		return r.renderTile(ctx, tile, film, splats)
	})
	r.logger.Infof("rendering %dx%d at %d spp: %d tiles on %d workers",
		r.config.Width, r.config.Height, r.config.SamplesPerPixel, len(tiles), pool.GetNumWorkers())

	pool.Start(ctx)
	for i, tile := range tiles {
		pool.SubmitTask(TileTask{Tile: tile, TaskID: i})
	}
	pool.Stop()

	stats := BDPTStats{Contributions: make(map[Technique]int)}
	var renderErr error
	for {
		result, ok := pool.GetResult()
		if !ok {
			break
		}
		if result.Error != nil && renderErr == nil {
			renderErr = result.Error
		}
		stats.add(result.Stats)
	}
	if renderErr != nil {
		span.RecordError(renderErr)
		span.SetStatus(codes.Error, "render failed")
		return nil, stats, fmt.Errorf("rendering tiles: %w", renderErr)
	}

	film.AddSplats(splats.Splats())
	img := film.Resolve()

	span.SetAttributes(attribute.Int("samples", stats.Samples), attribute.Int("splats", stats.Splats))
	r.logger.Infof("bidirectional render finished in %s: %d samples, %d splats",
		time.Since(start).Round(time.Millisecond), stats.Samples, stats.Splats)
	return img, stats, nil
}

// renderTile samples every pixel of a tile. Tiles don't overlap, so writes
// to the film's own samples need no locking; splats go through the queue.
func (r *BDPTRenderer) renderTile(ctx context.Context, tile *Tile, film *Film, splats *SplatQueue) (BDPTStats, error) {
	stats := BDPTStats{Contributions: make(map[Technique]int)}
	s := tile.Sampler

	for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
			ps := film.Pixel(x, y)
			for i := 0; i < r.config.SamplesPerPixel; i++ {
				fp := film.FilmPoint(x, y, core.Canonical2(s))
				ps.AddSample(r.sample(fp, s, film, splats, &stats))
			}
		}
	}
	bdptSamples.Add(float64(stats.Samples))
	bdptSplats.Add(float64(stats.Splats))
	return stats, nil
}

// sample traces one subpath pair through film point fp and returns the
// contribution that belongs to its own pixel.
func (r *BDPTRenderer) sample(fp vec.Vec2, s core.Sampler, film *Film, splats *SplatQueue, stats *BDPTStats) core.Vec3 {
	st := r.config.Strategy
	eye := st.TraceEyePath(r.info.Lens(), fp, r.info, s)
	light := st.TraceLightPath(r.info.Light(), r.info, s)
	stats.Samples++

	var own core.Vec3
	for t := 1; t <= eye.Len(); t++ {
		e := eye.Truncate(t)
		for si := 0; si <= light.Len(); si++ {
			l := light.Truncate(si)
			w := st.Weight(l, e)
			if w <= 0 {
				continue
			}
			c, ok := r.config.Measure.Evaluate(l, e)
			if !ok || c.Luminance() <= 0 {
				continue
			}
			c = c.Multiply(w)
			stats.Contributions[Technique{S: si, T: t}]++

			if t > 1 {
				own = own.Add(c)
				continue
			}
			// the lens alone doesn't know its pixel; the connection does
			p, ok := pathspace.NewPath(r.info, l, e).FilmPoint()
			if !ok {
				continue
			}
			if px, py, ok := film.PixelAt(p); ok {
				splats.AddSplat(px, py, c)
				stats.Splats++
			}
		}
	}
	return own
}
