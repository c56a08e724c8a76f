package geometry

import (
	"math"

	"github.com/df07/go-metropolis-raytracer/pkg/core"
	"github.com/df07/go-metropolis-raytracer/pkg/material"
)

// Quad represents a rectangular surface defined by a corner and two edge vectors
type Quad struct {
	Corner   core.Vec3         // One corner of the quad
	U        core.Vec3         // First edge vector
	V        core.Vec3         // Second edge vector
	Normal   core.Vec3         // Normal vector (computed from U × V)
	Material material.Material // Material of the quad
	D        float64           // Plane equation constant: ax + by + cz = d
	W        core.Vec3         // Cached cross product for barycentric coordinates
}

// NewQuad creates a new quad from a corner point and two edge vectors
func NewQuad(corner, u, v core.Vec3, mat material.Material) *Quad {
	cross := u.Cross(v)
	normal := cross.Normalize()

	return &Quad{
		Corner:   corner,
		U:        u,
		V:        v,
		Normal:   normal,
		Material: mat,
		D:        normal.Dot(corner),
		W:        cross.Multiply(1.0 / cross.Dot(cross)),
	}
}

// Area returns the surface area of the quad
func (q *Quad) Area() float64 {
	return q.U.Cross(q.V).Length()
}

// PointAt maps (a, b) in the unit square onto the quad
func (q *Quad) PointAt(a, b float64) core.Vec3 {
	return q.Corner.Add(q.U.Multiply(a)).Add(q.V.Multiply(b))
}

// Contains reports whether point lies on the quad, within a small tolerance
func (q *Quad) Contains(point core.Vec3) bool {
	if math.Abs(q.Normal.Dot(point)-q.D) > 1e-6 {
		return false
	}
	alpha, beta := q.barycentric(point)
	return alpha >= 0 && alpha <= 1 && beta >= 0 && beta <= 1
}

func (q *Quad) barycentric(point core.Vec3) (float64, float64) {
	hitVector := point.Subtract(q.Corner)
	return q.W.Dot(hitVector.Cross(q.V)), q.W.Dot(q.U.Cross(hitVector))
}

// Hit tests if a ray intersects with the quad
func (q *Quad) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	denominator := ray.Direction.Dot(q.Normal)

	// Parallel to the plane
	if math.Abs(denominator) < 1e-8 {
		return nil, false
	}

	t := (q.D - ray.Origin.Dot(q.Normal)) / denominator
	if t < tMin || t > tMax {
		return nil, false
	}

	hitPoint := ray.At(t)
	alpha, beta := q.barycentric(hitPoint)
	if alpha < 0 || alpha > 1 || beta < 0 || beta > 1 {
		return nil, false
	}

	hitRecord := &material.HitRecord{
		T:        t,
		Point:    hitPoint,
		Material: q.Material,
	}
	hitRecord.SetFaceNormal(ray, q.Normal)

	return hitRecord, true
}
