// Package measure evaluates the measurement contribution of a path.
package measure

import (
	"github.com/df07/go-metropolis-raytracer/pkg/core"
	"github.com/df07/go-metropolis-raytracer/pkg/pathspace"
)

// PathMeasure returns the unweighted contribution of the path formed by a
// light subpath and an eye subpath, or false if the pair contributes nothing.
type PathMeasure interface {
	Evaluate(light, eye pathspace.Subpath) (core.Vec3, bool)
}

// Radiometric is the radiance measurement: joined subpaths contribute
// through the connecting edge, and an eye subpath alone contributes the
// emission it landed on.
type Radiometric struct{}

func (Radiometric) Evaluate(light, eye pathspace.Subpath) (core.Vec3, bool) {
	switch {
	case !light.Empty() && !eye.Empty():
		return pathspace.Connect(light, eye)
	case light.Empty() && !eye.Empty():
		tail := eye.Tail()
		if tail.SourceRadiance.IsZero() {
			return core.Vec3{}, false
		}
		c := tail.Weight.MultiplyVec(tail.SourceRadiance)
		return c, c.Luminance() > 0
	}
	return core.Vec3{}, false
}

// Luminance evaluates m and returns the scalar luminance of the result,
// zero when there is no contribution.
func Luminance(m PathMeasure, light, eye pathspace.Subpath) float64 {
	c, ok := m.Evaluate(light, eye)
	if !ok {
		return 0
	}
	return c.Luminance()
}
