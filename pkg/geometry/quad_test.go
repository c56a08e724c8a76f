package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-metropolis-raytracer/pkg/core"
	"github.com/df07/go-metropolis-raytracer/pkg/material"
)

var white = material.NewLambertian(core.NewVec3(0.7, 0.7, 0.7))

func TestQuad_Hit_BasicIntersection(t *testing.T) {
	// 1x1 quad in the XZ plane at y=0
	quad := NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1), white)

	ray := core.NewRay(core.NewVec3(0.5, 1, 0.5), core.NewVec3(0, -1, 0))
	hit, isHit := quad.Hit(ray, 0.001, 1000.0)
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}

	if math.Abs(hit.T-1.0) > 1e-9 {
		t.Errorf("Expected t=1, got t=%f", hit.T)
	}
	if hit.Point.Subtract(core.NewVec3(0.5, 0, 0.5)).Length() > 1e-9 {
		t.Errorf("Unexpected hit point %v", hit.Point)
	}
	if hit.Material != white {
		t.Error("Hit record should carry the quad material")
	}
}

func TestQuad_Hit_OutsideBounds(t *testing.T) {
	quad := NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1), white)

	tests := []struct {
		name      string
		rayOrigin core.Vec3
		rayDir    core.Vec3
	}{
		{"outside X bounds (negative)", core.NewVec3(-0.5, 1, 0.5), core.NewVec3(0, -1, 0)},
		{"outside X bounds (positive)", core.NewVec3(1.5, 1, 0.5), core.NewVec3(0, -1, 0)},
		{"outside Z bounds", core.NewVec3(0.5, 1, 1.5), core.NewVec3(0, -1, 0)},
		{"parallel to plane", core.NewVec3(0.5, 1, 0.5), core.NewVec3(1, 0, 0)},
		{"behind origin", core.NewVec3(0.5, 1, 0.5), core.NewVec3(0, 1, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, isHit := quad.Hit(core.NewRay(tt.rayOrigin, tt.rayDir), 0.001, 1000.0); isHit {
				t.Error("Expected miss, but got hit")
			}
		})
	}
}

func TestQuad_AreaAndContains(t *testing.T) {
	quad := NewQuad(core.NewVec3(0, 2, 0), core.NewVec3(2, 0, 0), core.NewVec3(0, 0, 3), white)

	if math.Abs(quad.Area()-6) > 1e-12 {
		t.Errorf("Expected area 6, got %f", quad.Area())
	}
	if !quad.Contains(quad.PointAt(0.25, 0.75)) {
		t.Error("PointAt should lie on the quad")
	}
	if quad.Contains(core.NewVec3(1, 2.5, 1)) {
		t.Error("Point off the plane should not be contained")
	}
	if quad.Contains(core.NewVec3(3, 2, 1)) {
		t.Error("Point outside the edges should not be contained")
	}
}

func TestSphere_Hit_FrontAndBackFace(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, white)

	tests := []struct {
		name           string
		rayOrigin      core.Vec3
		rayDirection   core.Vec3
		expectedT      float64
		expectedFront  bool
		expectedNormal core.Vec3
	}{
		{"front face hit", core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1), 1.0, true, core.NewVec3(0, 0, 1)},
		{"back face hit", core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), 1.0, false, core.NewVec3(0, 0, -1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, isHit := sphere.Hit(core.NewRay(tt.rayOrigin, tt.rayDirection), 0.001, 1000.0)
			if !isHit {
				t.Fatal("Expected hit")
			}
			if math.Abs(hit.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got %f", tt.expectedT, hit.T)
			}
			if hit.FrontFace != tt.expectedFront {
				t.Errorf("Expected front face %v, got %v", tt.expectedFront, hit.FrontFace)
			}
			if hit.Normal.Subtract(tt.expectedNormal).Length() > 1e-9 {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.Normal)
			}
		})
	}

	if _, isHit := sphere.Hit(core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0)), 0.001, 1000.0); isHit {
		t.Error("Expected miss")
	}
}
