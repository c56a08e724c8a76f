package mutation

import (
	"sync"

	"github.com/df07/go-metropolis-raytracer/pkg/core"
	"github.com/df07/go-metropolis-raytracer/pkg/pathspace"
)

// Weighted pairs a mutator with its mixture weight
type Weighted struct {
	Weight  float64
	Mutator PathMutator
}

// Composite is a mixture of mutators. Each proposal comes from one child
// chosen by weight; the transition density is the mixture density.
type Composite struct {
	children []Weighted

	once sync.Once
	dist *core.Categorical
}

// NewComposite creates a mixture of the given mutators
func NewComposite(children ...Weighted) *Composite {
	return &Composite{children: children}
}

func (c *Composite) distribution() *core.Categorical {
	c.once.Do(func() {
		weights := make([]float64, len(c.children))
		for i, child := range c.children {
			weights[i] = child.Weight
		}
		c.dist = core.NewCategorical(weights)
	})
	return c.dist
}

// Mutate delegates to one child picked by weight
func (c *Composite) Mutate(x *pathspace.Path, s core.Sampler) (*pathspace.Path, bool) {
	i := c.distribution().Sample(core.Canonical(s))
	if i < 0 {
		return nil, false
	}
	return c.children[i].Mutator.Mutate(x, s)
}

// TransitionPDF returns the weighted sum of the children's densities
func (c *Composite) TransitionPDF(from, to *pathspace.Path) float64 {
	dist := c.distribution()
	pdf := 0.0
	for i, child := range c.children {
		if p := dist.Probability(i); p > 0 {
			pdf += p * child.Mutator.TransitionPDF(from, to)
		}
	}
	return pdf
}
