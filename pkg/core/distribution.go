package core

import (
	"math"
	"sort"
)

// Categorical is a discrete distribution over a fixed list of non-negative
// weights. Weights do not need to be normalized.
type Categorical struct {
	weights []float64
	cdf     []float64
	total   float64
}

// NewCategorical builds the cumulative distribution for weights. Negative and
// non-finite weights are treated as zero.
func NewCategorical(weights []float64) *Categorical {
	c := &Categorical{
		weights: make([]float64, len(weights)),
		cdf:     make([]float64, len(weights)),
	}
	for i, w := range weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			w = 0
		}
		c.weights[i] = w
		c.total += w
		c.cdf[i] = c.total
	}
	return c
}

// Probability returns the normalized probability of outcome i
func (c *Categorical) Probability(i int) float64 {
	if i < 0 || i >= len(c.weights) || c.total <= 0 {
		return 0
	}
	return c.weights[i] / c.total
}

// Sample maps u in [0, 1) to an outcome index. Zero-weight outcomes are never
// returned. Returns -1 if the distribution is empty.
func (c *Categorical) Sample(u float64) int {
	if c.total <= 0 {
		return -1
	}
	target := u * c.total
	i := sort.Search(len(c.cdf), func(i int) bool { return c.cdf[i] > target })
	if i == len(c.cdf) {
		// u rounded up to the total; take the last outcome with weight
		for i = len(c.weights) - 1; c.weights[i] == 0; i-- {
		}
	}
	return i
}
