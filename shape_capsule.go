package kinetic2d

import "math"

// CapsuleShape is a stadium: a segment between Vertex1 and Vertex2 swept by
// Radius. It has no box2d counterpart; the vertex-pair-plus-radius layout
// and its Support/mass/AABB/TestPoint behavior are grounded on the original
// engine's capsule shape.
type CapsuleShape struct {
	Vertex1, Vertex2 Vec2
	Radius           float64
}

func (s *CapsuleShape) Type() ShapeType { return ShapeCapsuleType }

func (s *CapsuleShape) ComputeAABB(xf Transform) AABB {
	v1 := MulTV(xf, s.Vertex1)
	v2 := MulTV(xf, s.Vertex2)
	lower := Vec2{math.Min(v1[0], v2[0]), math.Min(v1[1], v2[1])}
	upper := Vec2{math.Max(v1[0], v2[0]), math.Max(v1[1], v2[1])}
	r := Vec2{s.Radius, s.Radius}
	return AABB{Lower: lower.Sub(r), Upper: upper.Add(r)}
}

// ComputeMass treats the capsule as a rectangle (length x 2*radius) plus
// two half-circle end caps, combined via the parallel-axis theorem twice:
// once to slide each half circle's own centroid out to the segment end,
// once to shift the combined inertia from the segment midpoint to the
// local origin.
func (s *CapsuleShape) ComputeMass(density float64) MassData {
	r := s.Radius
	rr := r * r
	axis := s.Vertex2.Sub(s.Vertex1)
	length := axis.Len()
	ll := length * length
	h := 0.5 * length

	circleMass := density * math.Pi * rr
	boxMass := density * (2.0 * r * length)

	// Semicircle centroid distance from its own flat edge.
	lc := 4.0 * r / (3.0 * math.Pi)

	circleInertia := circleMass * (0.5*rr + h*h + 2.0*h*lc)
	boxInertia := boxMass * (4.0*rr + ll) / 12.0

	center := s.Vertex1.Add(s.Vertex2).Mul(0.5)
	mass := circleMass + boxMass
	i := circleInertia + boxInertia + mass*center.Dot(center)

	return MassData{Mass: mass, Center: center, I: i}
}

func (s *CapsuleShape) TestPoint(xf Transform, p Vec2) bool {
	local := MulTTV(xf, p)
	d := closestPointOnSegment(s.Vertex1, s.Vertex2, local)
	diff := local.Sub(d)
	return diff.Dot(diff) <= s.Radius*s.Radius
}

func (s *CapsuleShape) RayCast(input RayCastInput, xf Transform) RayCastOutput {
	// Tests the ray against the capsule's two flat sides (the segment
	// offset by +/-Radius along its normal) and keeps the nearer hit. The
	// rounded end caps are not tested, so a ray that only crosses a cap
	// reports no hit.
	p1 := MulTTV(xf, input.P1)
	p2 := MulTTV(xf, input.P2)
	d := p2.Sub(p1)

	best := RayCastOutput{}
	bestFraction := input.MaxFraction

	segDir := s.Vertex2.Sub(s.Vertex1)
	segLen := segDir.Len()
	if segLen < epsilon {
		return best
	}
	n := Perp(segDir).Normalize()

	for _, side := range [2]float64{1, -1} {
		offset := n.Mul(side * s.Radius)
		a1 := s.Vertex1.Add(offset)
		a2 := s.Vertex2.Add(offset)

		denom := Cross2(d, a2.Sub(a1))
		if math.Abs(denom) < epsilon {
			continue
		}
		t := Cross2(a1.Sub(p1), a2.Sub(a1)) / denom
		if t < 0.0 || t > bestFraction {
			continue
		}
		hit := p1.Add(d.Mul(t))
		u := hit.Sub(a1).Dot(a2.Sub(a1)) / (segLen * segLen)
		if u < 0.0 || u > 1.0 {
			continue
		}
		normal := n.Mul(side)
		if d.Dot(normal) > 0 {
			normal = normal.Mul(-1)
		}
		bestFraction = t
		best = RayCastOutput{Normal: MulRV(xf.Q, normal), Fraction: t, Hit: true}
	}

	return best
}

func (s *CapsuleShape) Proxy() DistanceProxy {
	return DistanceProxy{Vertices: []Vec2{s.Vertex1, s.Vertex2}, Radius: s.Radius}
}

func (s *CapsuleShape) VertexCount() int { return 2 }

func (s *CapsuleShape) LocalVertex(i int) Vec2 {
	if i == 0 {
		return s.Vertex1
	}
	return s.Vertex2
}

// LocalNormal returns the single face normal a capsule exposes; both
// indices map to it since there is only one edge.
func (s *CapsuleShape) LocalNormal(int) Vec2 {
	edge := s.Vertex2.Sub(s.Vertex1)
	return Perp(edge).Normalize()
}

func (s *CapsuleShape) CoreRadius() float64 { return s.Radius }

func closestPointOnSegment(a, b, p Vec2) Vec2 {
	ab := b.Sub(a)
	denom := ab.Dot(ab)
	if denom < epsilon {
		return a
	}
	t := p.Sub(a).Dot(ab) / denom
	t = FloatClamp(t, 0.0, 1.0)
	return a.Add(ab.Mul(t))
}
