package core

import (
	"fmt"
	"math"
	"math/rand"

	"seehuhn.de/go/geom/vec"
)

// Sampler provides random sampling for rendering algorithms.
// All randomness used by path construction and mutation is drawn through a
// Sampler supplied by the caller; nothing reads a global generator.
type Sampler interface {
	Get1D() float64
	Get2D() vec.Vec2
	Get3D() Vec3
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler from a fixed seed
func NewSeededSampler(seed int64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewSource(seed)))
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() vec.Vec2 {
	return vec.Vec2{X: r.random.Float64(), Y: r.random.Float64()}
}

// Get3D returns three random float64 values in [0, 1)
func (r *RandomSampler) Get3D() Vec3 {
	return NewVec3(r.random.Float64(), r.random.Float64(), r.random.Float64())
}

// Canonical draws one number in [0, 1) and panics if the sampler produced
// something that is not a canonical random number.
func Canonical(s Sampler) float64 {
	u := s.Get1D()
	mustCanonical(u)
	return u
}

// Canonical2 draws a point in the unit square, e.g. a film position.
func Canonical2(s Sampler) vec.Vec2 {
	p := s.Get2D()
	mustCanonical(p.X)
	mustCanonical(p.Y)
	return p
}

// Canonical3 draws the three numbers consumed by one path vertex.
func Canonical3(s Sampler) (float64, float64, float64) {
	p := s.Get3D()
	mustCanonical(p.X)
	mustCanonical(p.Y)
	mustCanonical(p.Z)
	return p.X, p.Y, p.Z
}

// Discrete returns an integer uniformly distributed in [lo, hi].
func Discrete(lo, hi int, s Sampler) int {
	if hi < lo {
		panic(fmt.Sprintf("core: empty discrete range [%d, %d]", lo, hi))
	}
	n := hi - lo + 1
	i := int(Canonical(s) * float64(n))
	return lo + min(i, n-1)
}

func mustCanonical(u float64) {
	if math.IsNaN(u) || math.IsInf(u, 0) || u < 0 || u >= 1 {
		panic(fmt.Sprintf("core: invalid random number %v", u))
	}
}

// Basis builds an orthonormal basis (tangent, bitangent) around a unit normal
func Basis(normal Vec3) (Vec3, Vec3) {
	var nt Vec3
	if math.Abs(normal.X) > 0.1 {
		nt = NewVec3(0, 1, 0)
	} else {
		nt = NewVec3(1, 0, 0)
	}
	tangent := nt.Cross(normal).Normalize()
	bitangent := normal.Cross(tangent)
	return tangent, bitangent
}

// SampleCosineHemisphere generates a cosine-weighted random direction in hemisphere around normal
func SampleCosineHemisphere(normal Vec3, sample vec.Vec2) Vec3 {
	a := 2.0 * math.Pi * sample.X
	r := math.Sqrt(sample.Y)

	x := r * math.Cos(a)
	y := r * math.Sin(a)
	z := math.Sqrt(math.Max(0, 1.0-sample.Y))

	tangent, bitangent := Basis(normal)
	return tangent.Multiply(x).Add(bitangent.Multiply(y)).Add(normal.Multiply(z))
}

// CosineHemispherePDF is the solid angle density of SampleCosineHemisphere
func CosineHemispherePDF(normal, direction Vec3) float64 {
	cos := normal.Dot(direction)
	if cos <= 0 {
		return 0
	}
	return cos / math.Pi
}
