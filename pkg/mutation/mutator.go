// Package mutation implements Metropolis path mutations together with the
// exact transition densities the acceptance ratio needs.
package mutation

import (
	"errors"
	"fmt"

	"github.com/df07/go-metropolis-raytracer/pkg/core"
	"github.com/df07/go-metropolis-raytracer/pkg/measure"
	"github.com/df07/go-metropolis-raytracer/pkg/pathspace"
)

// ErrUnknownMutator is returned by New for an unrecognized kind
var ErrUnknownMutator = errors.New("mutation: unknown mutator")

// PathMutator proposes a new path from the current one. A false result is a
// rejected proposal: the chain stays where it is.
type PathMutator interface {
	Mutate(x *pathspace.Path, s core.Sampler) (*pathspace.Path, bool)

	// TransitionPDF returns the density of Mutate proposing to given from
	TransitionPDF(from, to *pathspace.Path) float64
}

// Spec names one mutator in a mixture
type Spec struct {
	Kind   string
	Weight float64
}

// New builds the mutator for a list of specs. A single spec yields the
// mutator itself, several yield a Composite.
func New(specs []Spec, m measure.PathMeasure, maxVertices int) (PathMutator, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: empty mutator list", ErrUnknownMutator)
	}
	children := make([]Weighted, 0, len(specs))
	for _, spec := range specs {
		switch spec.Kind {
		case "bidirectional":
			children = append(children, Weighted{Weight: spec.Weight, Mutator: NewBidirectional(m, maxVertices)})
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownMutator, spec.Kind)
		}
	}
	if len(children) == 1 {
		return children[0].Mutator, nil
	}
	return NewComposite(children...), nil
}

// Acceptance returns the Metropolis-Hastings acceptance probability for a
// move from x to y, given the target values π(x), π(y).
func Acceptance(m PathMutator, x, y *pathspace.Path, px, py float64) float64 {
	if py <= 0 {
		return 0
	}
	if px <= 0 {
		return 1
	}
	forward := m.TransitionPDF(x, y)
	if forward <= 0 {
		return 0
	}
	backward := m.TransitionPDF(y, x)
	return min(1, py*backward/(px*forward))
}
