package kinetic2d

import "math"

// AABB is an axis-aligned bounding box, the broad-phase's coarse bound for
// every shape and tree node.
type AABB struct {
	Lower, Upper Vec2
}

func (a AABB) Valid() bool {
	return a.Lower[0] <= a.Upper[0] && a.Lower[1] <= a.Upper[1]
}

func (a AABB) Center() Vec2 {
	return a.Lower.Add(a.Upper).Mul(0.5)
}

func (a AABB) Extents() Vec2 {
	return a.Upper.Sub(a.Lower).Mul(0.5)
}

func (a AABB) Perimeter() float64 {
	wx := a.Upper[0] - a.Lower[0]
	wy := a.Upper[1] - a.Lower[1]
	return 2.0 * (wx + wy)
}

// Combine returns the tight union of a and b.
func Combine(a, b AABB) AABB {
	return AABB{
		Lower: Vec2{math.Min(a.Lower[0], b.Lower[0]), math.Min(a.Lower[1], b.Lower[1])},
		Upper: Vec2{math.Max(a.Upper[0], b.Upper[0]), math.Max(a.Upper[1], b.Upper[1])},
	}
}

// Contains reports whether a fully contains b.
func (a AABB) Contains(b AABB) bool {
	return a.Lower[0] <= b.Lower[0] && a.Lower[1] <= b.Lower[1] &&
		b.Upper[0] <= a.Upper[0] && b.Upper[1] <= a.Upper[1]
}

func Overlap(a, b AABB) bool {
	d1 := Vec2{b.Lower[0] - a.Upper[0], b.Lower[1] - a.Upper[1]}
	d2 := Vec2{a.Lower[0] - b.Upper[0], a.Lower[1] - b.Upper[1]}
	if d1[0] > 0.0 || d1[1] > 0.0 {
		return false
	}
	if d2[0] > 0.0 || d2[1] > 0.0 {
		return false
	}
	return true
}

// RayCastInput is the query for a single-ray cast against a shape or tree.
type RayCastInput struct {
	P1, P2      Vec2
	MaxFraction float64
}

// RayCastOutput reports the hit, if any, as a fraction along the ray plus
// the surface normal there.
type RayCastOutput struct {
	Normal   Vec2
	Fraction float64
	Hit      bool
}

// RayCast performs a slab test of the input ray against the AABB, the same
// technique used by every shape's own RayCast before refining against the
// actual geometry.
func (a AABB) RayCast(input RayCastInput) RayCastOutput {
	tmin := -maxFloat
	tmax := maxFloat

	p := input.P1
	d := input.P2.Sub(input.P1)
	absD := Vec2{math.Abs(d[0]), math.Abs(d[1])}

	var normal Vec2

	for i := 0; i < 2; i++ {
		if absD[i] < epsilon {
			if p[i] < a.Lower[i] || a.Upper[i] < p[i] {
				return RayCastOutput{}
			}
			continue
		}

		inv := 1.0 / d[i]
		t1 := (a.Lower[i] - p[i]) * inv
		t2 := (a.Upper[i] - p[i]) * inv
		s := -1.0

		if t1 > t2 {
			t1, t2 = t2, t1
			s = 1.0
		}

		if t1 > tmin {
			var n Vec2
			n[i] = s
			normal = n
			tmin = t1
		}
		tmax = math.Min(tmax, t2)

		if tmin > tmax {
			return RayCastOutput{}
		}
	}

	if tmin < 0.0 || input.MaxFraction < tmin {
		return RayCastOutput{}
	}

	return RayCastOutput{Normal: normal, Fraction: tmin, Hit: true}
}
