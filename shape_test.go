package kinetic2d

import (
	"math"
	"testing"
)

func TestCircleShapeMass(t *testing.T) {
	c := &CircleShape{Center: Vec2{0, 0}, Radius: 2.0}
	md := c.ComputeMass(1.0)
	wantMass := math.Pi * 4.0
	if !almostEqual(md.Mass, wantMass, 1e-9) {
		t.Errorf("mass = %v, want %v", md.Mass, wantMass)
	}
	wantI := md.Mass * 0.5 * 4.0
	if !almostEqual(md.I, wantI, 1e-9) {
		t.Errorf("I = %v, want %v", md.I, wantI)
	}
}

func TestCircleShapeTestPoint(t *testing.T) {
	c := &CircleShape{Center: Vec2{0, 0}, Radius: 1.0}
	xf := IdentityTransform()
	if !c.TestPoint(xf, Vec2{0.5, 0}) {
		t.Error("point inside circle should test true")
	}
	if c.TestPoint(xf, Vec2{2, 0}) {
		t.Error("point outside circle should test false")
	}
}

func TestBoxShapeMassMatchesClosedForm(t *testing.T) {
	box := NewBoxShape(1, 0.5)
	md := box.ComputeMass(2.0)
	wantMass := 2.0 * 2.0 * 1.0
	if !almostEqual(md.Mass, wantMass, 1e-6) {
		t.Errorf("mass = %v, want %v", md.Mass, wantMass)
	}
	if !vecClose(md.Center, Vec2{0, 0}, 1e-6) {
		t.Errorf("centroid = %v, want origin", md.Center)
	}
}

func TestBoxShapeAABB(t *testing.T) {
	box := NewBoxShape(1, 2)
	xf := IdentityTransform()
	aabb := box.ComputeAABB(xf)
	if !almostEqual(aabb.Lower[0], -1-polygonRadius, 1e-9) {
		t.Errorf("aabb.Lower.X = %v", aabb.Lower[0])
	}
	if !almostEqual(aabb.Upper[1], 2+polygonRadius, 1e-9) {
		t.Errorf("aabb.Upper.Y = %v", aabb.Upper[1])
	}
}

func TestBoxShapeTestPoint(t *testing.T) {
	box := NewBoxShape(1, 1)
	xf := Transform{P: Vec2{5, 5}, Q: IdentityRot()}
	if !box.TestPoint(xf, Vec2{5, 5}) {
		t.Error("box center should test inside")
	}
	if box.TestPoint(xf, Vec2{10, 10}) {
		t.Error("far point should test outside")
	}
}

func TestCapsuleShapeMassDegeneratesTowardCircle(t *testing.T) {
	// A capsule with coincident endpoints is just a circle of the given
	// radius; mass should match the circle closed form.
	cap := &CapsuleShape{Vertex1: Vec2{0, 0}, Vertex2: Vec2{0, 0}, Radius: 1.0}
	md := cap.ComputeMass(1.0)
	wantMass := math.Pi * 1.0
	if !almostEqual(md.Mass, wantMass, 1e-9) {
		t.Errorf("degenerate capsule mass = %v, want %v", md.Mass, wantMass)
	}
}

func TestCapsuleShapeTestPoint(t *testing.T) {
	cap := &CapsuleShape{Vertex1: Vec2{-1, 0}, Vertex2: Vec2{1, 0}, Radius: 0.5}
	xf := IdentityTransform()
	if !cap.TestPoint(xf, Vec2{0, 0.4}) {
		t.Error("point near the segment within radius should test inside")
	}
	if cap.TestPoint(xf, Vec2{0, 2}) {
		t.Error("point far from the segment should test outside")
	}
}

func TestConvexHullOrdering(t *testing.T) {
	pts := []Vec2{{0, 0}, {2, 0}, {2, 2}, {0, 2}, {1, 1}}
	hull := convexHull(pts)
	if len(hull) != 4 {
		t.Fatalf("hull of a square plus an interior point should have 4 vertices, got %d", len(hull))
	}
}
