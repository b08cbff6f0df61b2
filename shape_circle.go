package kinetic2d

import "math"

// CircleShape is a disc of Radius centered at Center in the collider's
// local frame.
type CircleShape struct {
	Center Vec2
	Radius float64
}

func (s *CircleShape) Type() ShapeType { return ShapeCircleType }

func (s *CircleShape) ComputeAABB(xf Transform) AABB {
	p := MulTV(xf, s.Center)
	r := Vec2{s.Radius, s.Radius}
	return AABB{Lower: p.Sub(r), Upper: p.Add(r)}
}

func (s *CircleShape) ComputeMass(density float64) MassData {
	mass := density * math.Pi * s.Radius * s.Radius
	// I about the local origin: the centroid inertia shifted out from the
	// center via the parallel-axis theorem (plus mass*center^2).
	i := mass * (0.5*s.Radius*s.Radius + s.Center.Dot(s.Center))
	return MassData{Mass: mass, Center: s.Center, I: i}
}

func (s *CircleShape) TestPoint(xf Transform, p Vec2) bool {
	center := MulTV(xf, s.Center)
	d := p.Sub(center)
	return d.Dot(d) <= s.Radius*s.Radius
}

func (s *CircleShape) RayCast(input RayCastInput, xf Transform) RayCastOutput {
	position := MulTV(xf, s.Center)
	s1 := input.P1.Sub(position)
	d := input.P2.Sub(input.P1)

	a := d.Dot(d)
	b := 2.0 * s1.Dot(d)
	c := s1.Dot(s1) - s.Radius*s.Radius

	sigma := b*b - 4.0*a*c
	if sigma < 0.0 || a < epsilon {
		return RayCastOutput{}
	}

	t := -(b + math.Sqrt(sigma)) / (2.0 * a)
	if t < 0.0 || input.MaxFraction < t {
		return RayCastOutput{}
	}

	hit := s1.Add(d.Mul(t))
	return RayCastOutput{Normal: hit.Normalize(), Fraction: t, Hit: true}
}

func (s *CircleShape) Proxy() DistanceProxy {
	return DistanceProxy{Vertices: []Vec2{s.Center}, Radius: s.Radius}
}
