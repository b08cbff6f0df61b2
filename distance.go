package kinetic2d

import "math"

// simplexVertex is one support pair in a GJK simplex: the witness points on
// each proxy, their Minkowski difference, and the barycentric weight found
// by the last Solve call.
type simplexVertex struct {
	wA, wB Vec2
	w      Vec2
	a      float64
	indexA, indexB int
}

type simplex struct {
	v      [3]simplexVertex
	count  int
}

// SimplexCache lets a contact warm-start its next GJK call from the vertex
// indices the previous call settled on, avoiding a cold search most steps.
type SimplexCache struct {
	Count    int
	IndexA   [3]int
	IndexB   [3]int
	Metric   float64
}

func (s *simplex) readCache(cache *SimplexCache, proxyA *DistanceProxy, xfA Transform, proxyB *DistanceProxy, xfB Transform) {
	s.count = cache.Count
	for i := 0; i < s.count; i++ {
		v := &s.v[i]
		v.indexA = cache.IndexA[i]
		v.indexB = cache.IndexB[i]
		wALocal := proxyA.Vertex(v.indexA)
		wBLocal := proxyB.Vertex(v.indexB)
		v.wA = MulTV(xfA, wALocal)
		v.wB = MulTV(xfB, wBLocal)
		v.w = v.wB.Sub(v.wA)
		v.a = -1.0
	}

	if s.count == 0 {
		v := &s.v[0]
		v.indexA = 0
		v.indexB = 0
		wALocal := proxyA.Vertex(0)
		wBLocal := proxyB.Vertex(0)
		v.wA = MulTV(xfA, wALocal)
		v.wB = MulTV(xfB, wBLocal)
		v.w = v.wB.Sub(v.wA)
		v.a = 1.0
		s.count = 1
	}
}

func (s *simplex) writeCache(cache *SimplexCache) {
	cache.Count = s.count
	for i := 0; i < s.count; i++ {
		cache.IndexA[i] = s.v[i].indexA
		cache.IndexB[i] = s.v[i].indexB
	}
}

func (s *simplex) searchDirection() Vec2 {
	switch s.count {
	case 1:
		return s.v[0].w.Mul(-1)
	case 2:
		e12 := s.v[1].w.Sub(s.v[0].w)
		sgn := Cross2(e12, s.v[0].w.Mul(-1))
		if sgn > 0.0 {
			return Perp(e12)
		}
		return Perp(e12).Mul(-1)
	default:
		return Vec2{0, 0}
	}
}

func (s *simplex) closestPoint() Vec2 {
	switch s.count {
	case 1:
		return s.v[0].w
	case 2:
		return s.v[0].w.Mul(s.v[0].a).Add(s.v[1].w.Mul(s.v[1].a))
	default:
		return Vec2{0, 0}
	}
}

func (s *simplex) witnessPoints() (pA, pB Vec2) {
	switch s.count {
	case 1:
		return s.v[0].wA, s.v[0].wB
	case 2:
		pA = s.v[0].wA.Mul(s.v[0].a).Add(s.v[1].wA.Mul(s.v[1].a))
		pB = s.v[0].wB.Mul(s.v[0].a).Add(s.v[1].wB.Mul(s.v[1].a))
		return
	default:
		pA = s.v[0].wA.Mul(s.v[0].a).Add(s.v[1].wA.Mul(s.v[1].a)).Add(s.v[2].wA.Mul(s.v[2].a))
		pB = pA
		return
	}
}

// solve2 finds the closest point to the origin on the segment v0v1, via the
// three Voronoi regions: v0, v1, or the interior of the edge.
func (s *simplex) solve2() {
	w1 := s.v[0].w
	w2 := s.v[1].w
	e12 := w2.Sub(w1)

	d12_2 := -w1.Dot(e12)
	if d12_2 <= 0.0 {
		s.v[0].a = 1.0
		s.count = 1
		return
	}

	d12_1 := w2.Dot(e12)
	if d12_1 <= 0.0 {
		s.v[1].a = 1.0
		s.count = 1
		s.v[0] = s.v[1]
		return
	}

	inv := 1.0 / (d12_1 + d12_2)
	s.v[0].a = d12_1 * inv
	s.v[1].a = d12_2 * inv
	s.count = 2
}

// solve3 finds the closest point to the origin among the triangle's three
// vertices, three edges, and interior, via the standard barycentric region
// test against each sub-determinant.
func (s *simplex) solve3() {
	w1 := s.v[0].w
	w2 := s.v[1].w
	w3 := s.v[2].w

	e12 := w2.Sub(w1)
	w1e12 := w1.Dot(e12)
	w2e12 := w2.Dot(e12)
	d12_1 := w2e12
	d12_2 := -w1e12

	e13 := w3.Sub(w1)
	w1e13 := w1.Dot(e13)
	w3e13 := w3.Dot(e13)
	d13_1 := w3e13
	d13_2 := -w1e13

	e23 := w3.Sub(w2)
	w2e23 := w2.Dot(e23)
	w3e23 := w3.Dot(e23)
	d23_1 := w3e23
	d23_2 := -w2e23

	n123 := Cross2(e12, e13)

	d123_1 := n123 * Cross2(w2, w3)
	d123_2 := n123 * Cross2(w3, w1)
	d123_3 := n123 * Cross2(w1, w2)

	if d12_2 <= 0.0 && d13_2 <= 0.0 {
		s.v[0].a = 1.0
		s.count = 1
		return
	}

	if d12_1 > 0.0 && d12_2 > 0.0 && d123_3 <= 0.0 {
		inv := 1.0 / (d12_1 + d12_2)
		s.v[0].a = d12_1 * inv
		s.v[1].a = d12_2 * inv
		s.count = 2
		return
	}

	if d13_1 > 0.0 && d13_2 > 0.0 && d123_2 <= 0.0 {
		inv := 1.0 / (d13_1 + d13_2)
		s.v[0].a = d13_1 * inv
		s.v[2].a = d13_2 * inv
		s.count = 2
		s.v[1] = s.v[2]
		return
	}

	if d12_1 <= 0.0 && d23_2 <= 0.0 {
		s.v[1].a = 1.0
		s.count = 1
		s.v[0] = s.v[1]
		return
	}

	if d13_1 <= 0.0 && d23_1 <= 0.0 {
		s.v[2].a = 1.0
		s.count = 1
		s.v[0] = s.v[2]
		return
	}

	if d23_1 > 0.0 && d23_2 > 0.0 && d123_1 <= 0.0 {
		inv := 1.0 / (d23_1 + d23_2)
		s.v[1].a = d23_1 * inv
		s.v[2].a = d23_2 * inv
		s.count = 2
		s.v[0] = s.v[2]
		return
	}

	inv := 1.0 / (d123_1 + d123_2 + d123_3)
	s.v[0].a = d123_1 * inv
	s.v[1].a = d123_2 * inv
	s.v[2].a = d123_3 * inv
	s.count = 3
}

func (s *simplex) solve() {
	switch s.count {
	case 2:
		s.solve2()
	case 3:
		s.solve3()
	}
}

// DistanceInput bundles the two proxies, their transforms, and whether the
// radii should be included in the reported distance (false keeps the
// "core shape" distance that EPA needs when the shapes already overlap).
type DistanceInput struct {
	ProxyA, ProxyB   *DistanceProxy
	TransformA, TransformB Transform
	UseRadii         bool
}

type DistanceOutput struct {
	PointA, PointB Vec2
	Distance       float64
	Iterations     int
}

// Distance runs GJK to find the closest points between two convex proxies,
// warm-starting from cache and writing the settled simplex back into it.
func Distance(input DistanceInput, cache *SimplexCache) DistanceOutput {
	proxyA := input.ProxyA
	proxyB := input.ProxyB
	xfA := input.TransformA
	xfB := input.TransformB

	var s simplex
	s.readCache(cache, proxyA, xfA, proxyB, xfB)

	saveA := [3]int{}
	saveB := [3]int{}

	const maxIters = 20
	iter := 0

	for iter < maxIters {
		saveCount := s.count
		for i := 0; i < saveCount; i++ {
			saveA[i] = s.v[i].indexA
			saveB[i] = s.v[i].indexB
		}

		switch s.count {
		case 1:
		case 2:
			s.solve2()
		case 3:
			s.solve3()
		}

		if s.count == 3 {
			break
		}

		d := s.searchDirection()

		if d.Dot(d) < epsilon*epsilon {
			break
		}

		var vertex *simplexVertex
		vertex = &s.v[s.count]
		vertex.indexA = proxyA.Support(MulTRV(xfA.Q, d.Mul(-1)))
		vertex.wA = MulTV(xfA, proxyA.Vertex(vertex.indexA))
		vertex.indexB = proxyB.Support(MulTRV(xfB.Q, d))
		vertex.wB = MulTV(xfB, proxyB.Vertex(vertex.indexB))
		vertex.w = vertex.wB.Sub(vertex.wA)

		iter++

		duplicate := false
		for i := 0; i < saveCount; i++ {
			if vertex.indexA == saveA[i] && vertex.indexB == saveB[i] {
				duplicate = true
				break
			}
		}
		if duplicate {
			break
		}

		s.count++
	}

	pA, pB := s.witnessPoints()
	distance := pA.Sub(pB).Len()

	s.writeCache(cache)

	if input.UseRadii {
		if distance < epsilon {
			mid := pA.Add(pB).Mul(0.5)
			return DistanceOutput{PointA: mid, PointB: mid, Distance: 0, Iterations: iter}
		}
		rA := proxyA.Radius
		rB := proxyB.Radius
		distance = math.Max(0.0, distance-rA-rB)
		normal := pB.Sub(pA).Normalize()
		pA = pA.Add(normal.Mul(rA))
		pB = pB.Sub(normal.Mul(rB))
	}

	return DistanceOutput{PointA: pA, PointB: pB, Distance: distance, Iterations: iter}
}

// ShapeCastInput bundles two proxies, their transforms at the start of the
// sweep, and the linear translation each is swept along over t in [0,1].
type ShapeCastInput struct {
	ProxyA, ProxyB             *DistanceProxy
	TransformA, TransformB     Transform
	TranslationA, TranslationB Vec2
}

type ShapeCastOutput struct {
	Hit    bool
	T      float64
	Point  Vec2
	Normal Vec2
}

// ShapeCast finds the earliest t at which proxyA and proxyB, translating
// by TranslationA/TranslationB respectively, first come within touching
// distance. Each iteration runs GJK at the current t, reads the
// separating normal off the settled simplex, and advances t by however
// far the relative motion must travel along that normal to close the
// remaining gap — conservative advancement, grounded on the teacher's
// B2TimeOfImpact (CollisionB2TimeOfImpact.go), simplified to translation
// -only sweeps since this engine's ShapeCast never sweeps a rotation.
func ShapeCast(input ShapeCastInput) ShapeCastOutput {
	target := math.Max(linearSlop, input.ProxyA.Radius+input.ProxyB.Radius-3.0*linearSlop)
	tolerance := 0.25 * linearSlop
	relTranslation := input.TranslationB.Sub(input.TranslationA)

	cache := &SimplexCache{}
	t := 0.0

	const maxIterations = 20
	for iter := 0; iter < maxIterations; iter++ {
		xfA := input.TransformA
		xfA.P = xfA.P.Add(input.TranslationA.Mul(t))
		xfB := input.TransformB
		xfB.P = xfB.P.Add(input.TranslationB.Mul(t))

		out := Distance(DistanceInput{
			ProxyA: input.ProxyA, TransformA: xfA,
			ProxyB: input.ProxyB, TransformB: xfB,
		}, cache)

		if out.Distance < epsilon {
			return ShapeCastOutput{Hit: true, T: t}
		}

		normal := out.PointA.Sub(out.PointB).Mul(1.0 / out.Distance)

		if out.Distance <= target+tolerance {
			return ShapeCastOutput{
				Hit:    true,
				T:      t,
				Point:  out.PointB.Add(normal.Mul(input.ProxyB.Radius)),
				Normal: normal,
			}
		}

		rate := relTranslation.Dot(normal)
		if rate <= epsilon {
			return ShapeCastOutput{T: 1.0}
		}

		dt := (out.Distance - target) / rate
		t += dt
		if t >= 1.0 {
			return ShapeCastOutput{T: 1.0}
		}
	}

	return ShapeCastOutput{T: 1.0}
}
