package kinetic2d

import "math"

// PolygonShape is a convex polygon of up to maxPolygonVertices vertices,
// stored with outward unit normals precomputed per edge and a thin skin
// radius matching the teacher's polygonRadius convention.
type PolygonShape struct {
	Vertices []Vec2
	Normals  []Vec2
	Centroid Vec2
	Radius   float64
}

// NewPolygonShape builds a polygon from a convex hull of points, computing
// the convex hull itself (matching the teacher's Set(), which silently
// hulls whatever point set it's given rather than requiring a pre-hulled
// caller).
func NewPolygonShape(points []Vec2) *PolygonShape {
	hull := convexHull(points)
	n := len(hull)
	normals := make([]Vec2, n)
	for i := 0; i < n; i++ {
		edge := hull[(i+1)%n].Sub(hull[i])
		normals[i] = Perp(edge).Normalize().Mul(-1)
	}
	return &PolygonShape{
		Vertices: hull,
		Normals:  normals,
		Centroid: polygonCentroid(hull),
		Radius:   polygonRadius,
	}
}

// NewBoxShape builds an axis-aligned box centered on the origin.
func NewBoxShape(hx, hy float64) *PolygonShape {
	return NewPolygonShape([]Vec2{
		{-hx, -hy}, {hx, -hy}, {hx, hy}, {-hx, hy},
	})
}

func (s *PolygonShape) Type() ShapeType { return ShapePolygonType }

func (s *PolygonShape) ComputeAABB(xf Transform) AABB {
	lower := MulTV(xf, s.Vertices[0])
	upper := lower
	for i := 1; i < len(s.Vertices); i++ {
		v := MulTV(xf, s.Vertices[i])
		lower = Vec2{math.Min(lower[0], v[0]), math.Min(lower[1], v[1])}
		upper = Vec2{math.Max(upper[0], v[0]), math.Max(upper[1], v[1])}
	}
	r := Vec2{s.Radius, s.Radius}
	return AABB{Lower: lower.Sub(r), Upper: upper.Add(r)}
}

// ComputeMass triangulates the polygon from its first vertex, accumulating
// area/centroid/inertia per triangle — the standard polygon mass-property
// decomposition.
func (s *PolygonShape) ComputeMass(density float64) MassData {
	n := len(s.Vertices)
	center := Vec2{0, 0}
	area := 0.0
	i := 0.0

	origin := s.Vertices[0]
	const inv3 = 1.0 / 3.0

	for k := 1; k < n-1; k++ {
		e1 := s.Vertices[k].Sub(origin)
		e2 := s.Vertices[k+1].Sub(origin)

		d := Cross2(e1, e2)
		triArea := 0.5 * d
		area += triArea

		center = center.Add(e1.Add(e2).Mul(triArea * inv3))

		ex1, ey1 := e1[0], e1[1]
		ex2, ey2 := e2[0], e2[1]
		intx2 := ex1*ex1 + ex2*ex1 + ex2*ex2
		inty2 := ey1*ey1 + ey2*ey1 + ey2*ey2
		i += (0.25 * inv3 * d) * (intx2 + inty2)
	}

	mass := density * area
	if area > epsilon {
		center = center.Mul(1.0 / area)
	}
	center = center.Add(origin)

	i = density * i
	// Shift from the decomposition origin (the first vertex) to the shape's
	// local origin, via the centroid.
	i += mass * (center.Dot(center) - center.Sub(origin).Dot(center.Sub(origin)))

	return MassData{Mass: mass, Center: center, I: i}
}

func (s *PolygonShape) TestPoint(xf Transform, p Vec2) bool {
	local := MulTTV(xf, p)
	for i := range s.Vertices {
		if s.Normals[i].Dot(local.Sub(s.Vertices[i])) > 0.0 {
			return false
		}
	}
	return true
}

func (s *PolygonShape) RayCast(input RayCastInput, xf Transform) RayCastOutput {
	p1 := MulTTV(xf, input.P1)
	p2 := MulTTV(xf, input.P2)
	d := p2.Sub(p1)

	lower, upper := 0.0, input.MaxFraction
	index := -1

	for i := range s.Vertices {
		numerator := s.Normals[i].Dot(s.Vertices[i].Sub(p1))
		denominator := s.Normals[i].Dot(d)

		if denominator == 0.0 {
			if numerator < 0.0 {
				return RayCastOutput{}
			}
			continue
		}

		if denominator < 0.0 && numerator < lower*denominator {
			lower = numerator / denominator
			index = i
		} else if denominator > 0.0 && numerator < upper*denominator {
			upper = numerator / denominator
		}

		if upper < lower {
			return RayCastOutput{}
		}
	}

	if index < 0 {
		return RayCastOutput{}
	}

	return RayCastOutput{
		Normal:   MulRV(xf.Q, s.Normals[index]),
		Fraction: lower,
		Hit:      true,
	}
}

func (s *PolygonShape) Proxy() DistanceProxy {
	return DistanceProxy{Vertices: s.Vertices, Radius: s.Radius}
}

func (s *PolygonShape) VertexCount() int        { return len(s.Vertices) }
func (s *PolygonShape) LocalVertex(i int) Vec2  { return s.Vertices[i] }
func (s *PolygonShape) LocalNormal(i int) Vec2  { return s.Normals[i] }
func (s *PolygonShape) CoreRadius() float64     { return s.Radius }

func polygonCentroid(vertices []Vec2) Vec2 {
	n := len(vertices)
	c := Vec2{0, 0}
	area := 0.0
	origin := vertices[0]
	const inv3 = 1.0 / 3.0

	for i := 1; i < n-1; i++ {
		e1 := vertices[i].Sub(origin)
		e2 := vertices[i+1].Sub(origin)
		d := Cross2(e1, e2)
		triArea := 0.5 * d
		area += triArea
		c = c.Add(e1.Add(e2).Mul(triArea * inv3))
	}
	if area > epsilon {
		c = c.Mul(1.0 / area)
	}
	return c.Add(origin)
}

// convexHull computes the counter-clockwise convex hull via a gift-wrap
// scan, matching the teacher's polygon Set() behavior of hulling its input
// rather than trusting it's pre-hulled.
func convexHull(points []Vec2) []Vec2 {
	n := len(points)
	if n <= 2 {
		return append([]Vec2(nil), points...)
	}

	// Find the leftmost-lowest point to start from.
	i0 := 0
	for i := 1; i < n; i++ {
		if points[i][0] < points[i0][0] ||
			(points[i][0] == points[i0][0] && points[i][1] < points[i0][1]) {
			i0 = i
		}
	}

	hull := make([]int, 0, n)
	ih := i0

	for {
		hull = append(hull, ih)
		ie := 0
		for j := 1; j < n; j++ {
			if ie == ih {
				ie = j
				continue
			}
			r := points[ie].Sub(points[hull[len(hull)-1]])
			v := points[j].Sub(points[hull[len(hull)-1]])
			c := Cross2(r, v)
			if c < 0.0 {
				ie = j
			}
			if c == 0.0 && v.Dot(v) > r.Dot(r) {
				ie = j
			}
		}
		ih = ie
		if ie == i0 {
			break
		}
	}

	result := make([]Vec2, len(hull))
	for i, idx := range hull {
		result[i] = points[idx]
	}
	return result
}
