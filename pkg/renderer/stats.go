package renderer

import "github.com/df07/go-metropolis-raytracer/pkg/core"

// PixelStats accumulates the estimates that land on one pixel
type PixelStats struct {
	ColorAccum  core.Vec3 // Sum of the pixel's own samples
	SplatAccum  core.Vec3 // Sum of contributions splatted from other pixels
	SampleCount int       // Number of samples taken
}

// AddSample adds one estimate traced through this pixel
func (ps *PixelStats) AddSample(color core.Vec3) {
	ps.ColorAccum = ps.ColorAccum.Add(color)
	ps.SampleCount++
}

// GetColor returns the pixel value: own samples plus splats, divided by the
// number of samples per pixel.
func (ps *PixelStats) GetColor() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{}
	}
	return ps.ColorAccum.Add(ps.SplatAccum).Multiply(1.0 / float64(ps.SampleCount))
}

// Technique identifies a bidirectional sampling technique by the number of
// light and eye subpath vertices it uses.
type Technique struct {
	S, T int
}

// BDPTStats contains statistics about a bidirectional render
type BDPTStats struct {
	Samples       int               // Eye and light subpath pairs traced
	Splats        int               // Contributions splatted to another pixel
	Contributions map[Technique]int // Nonzero weighted contributions per technique
}

func (s *BDPTStats) add(other BDPTStats) {
	s.Samples += other.Samples
	s.Splats += other.Splats
	for k, v := range other.Contributions {
		if s.Contributions == nil {
			s.Contributions = make(map[Technique]int)
		}
		s.Contributions[k] += v
	}
}

// ChainStats counts what happened to the proposals of one Markov chain
type ChainStats struct {
	Chain    int
	Proposed int
	Accepted int
	Rejected int // proposals turned down by the acceptance test
	Invalid  int // mutations that failed to produce a path
}

// AcceptanceRate returns the fraction of proposals accepted
func (c ChainStats) AcceptanceRate() float64 {
	if c.Proposed == 0 {
		return 0
	}
	return float64(c.Accepted) / float64(c.Proposed)
}

// MLTStats contains statistics about a Metropolis render
type MLTStats struct {
	Bootstrap  float64 // Estimated mean image luminance
	Candidates int     // Bootstrap paths with nonzero contribution
	Chains     []ChainStats
}

// Total sums the statistics of all chains
func (s MLTStats) Total() ChainStats {
	total := ChainStats{Chain: -1}
	for _, c := range s.Chains {
		total.Proposed += c.Proposed
		total.Accepted += c.Accepted
		total.Rejected += c.Rejected
		total.Invalid += c.Invalid
	}
	return total
}
