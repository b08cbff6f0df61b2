package kinetic2d

import "testing"

func TestAABBOverlap(t *testing.T) {
	a := AABB{Lower: Vec2{0, 0}, Upper: Vec2{1, 1}}
	b := AABB{Lower: Vec2{0.5, 0.5}, Upper: Vec2{2, 2}}
	c := AABB{Lower: Vec2{5, 5}, Upper: Vec2{6, 6}}

	if !Overlap(a, b) {
		t.Error("expected a and b to overlap")
	}
	if Overlap(a, c) {
		t.Error("expected a and c not to overlap")
	}
}

func TestAABBCombineEnclosesBoth(t *testing.T) {
	a := AABB{Lower: Vec2{0, 0}, Upper: Vec2{1, 1}}
	b := AABB{Lower: Vec2{-1, 2}, Upper: Vec2{0.5, 3}}
	combined := Combine(a, b)

	if !combined.Contains(a) || !combined.Contains(b) {
		t.Errorf("Combine(%v, %v) = %v does not contain both inputs", a, b, combined)
	}
}

func TestAABBContains(t *testing.T) {
	outer := AABB{Lower: Vec2{-5, -5}, Upper: Vec2{5, 5}}
	inner := AABB{Lower: Vec2{-1, -1}, Upper: Vec2{1, 1}}
	if !outer.Contains(inner) {
		t.Error("expected outer to contain inner")
	}
	if inner.Contains(outer) {
		t.Error("expected inner not to contain outer")
	}
}

func TestAABBRayCastHitsFace(t *testing.T) {
	box := AABB{Lower: Vec2{-1, -1}, Upper: Vec2{1, 1}}
	input := RayCastInput{P1: Vec2{-5, 0}, P2: Vec2{5, 0}, MaxFraction: 1.0}
	out := box.RayCast(input)
	if !out.Hit {
		t.Fatal("expected ray through the box center to hit")
	}
	if !vecClose(out.Normal, Vec2{-1, 0}, 1e-9) {
		t.Errorf("normal = %v, want {-1,0}", out.Normal)
	}
}

func TestAABBRayCastMisses(t *testing.T) {
	box := AABB{Lower: Vec2{-1, -1}, Upper: Vec2{1, 1}}
	input := RayCastInput{P1: Vec2{-5, 5}, P2: Vec2{5, 5}, MaxFraction: 1.0}
	out := box.RayCast(input)
	if out.Hit {
		t.Error("expected ray passing above the box to miss")
	}
}

func TestAABBValidAndZeroValue(t *testing.T) {
	var zero AABB
	if zero != (AABB{}) {
		t.Fatal("sanity: zero-value AABB should equal AABB{}")
	}
	degenerate := AABB{Lower: Vec2{3, 3}, Upper: Vec2{3, 3}}
	if !degenerate.Valid() {
		t.Error("a zero-area box at a non-origin point is still a valid (degenerate) AABB")
	}
}
