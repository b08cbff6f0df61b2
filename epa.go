package kinetic2d

import "math"

// epaEdge is one edge of the expanding polytope: the two Minkowski-space
// vertices, the witness points on each proxy that produced them, and the
// edge's outward normal/distance from the origin.
type epaEdge struct {
	a, b     Vec2
	wA1, wB1 Vec2
	wA2, wB2 Vec2
	normal   Vec2
	distance float64
}

// epaResult is the penetration depth and separating normal/witness points
// EPA converges on when two proxies overlap.
type epaResult struct {
	Normal   Vec2
	Depth    float64
	PointA   Vec2
	PointB   Vec2
	Converged bool
}

const epaMaxIterations = 32
const epaTolerance = 1e-5

// newEpaEdge computes an edge's normal (pointing away from the origin)
// and its distance from the origin — the same "closest feature" query a
// face-based 3D EPA runs per face, specialized to a 2D edge.
func newEpaEdge(a, b, wA1, wB1, wA2, wB2 Vec2) epaEdge {
	e := b.Sub(a)
	n := Perp(e).Normalize()
	if n.Dot(a) < 0 {
		n = n.Mul(-1)
	}
	return epaEdge{
		a: a, b: b,
		wA1: wA1, wB1: wB1,
		wA2: wA2, wB2: wB2,
		normal:   n,
		distance: n.Dot(a),
	}
}

// epaPenetrationDepth expands the GJK-terminating simplex (which must
// already enclose the origin, i.e. the shapes overlap) into a polytope
// until the closest edge's support point stops improving on the edge's own
// distance, within epaTolerance. This is the same loop structure as a
// face-expansion 3D EPA (find closest feature to origin, get a support
// point along its normal, stop if it doesn't improve, otherwise split the
// feature and insert the new point), adapted from a face polytope to an
// edge polytope since the problem is 2D.
func epaPenetrationDepth(proxyA *DistanceProxy, xfA Transform, proxyB *DistanceProxy, xfB Transform, s *simplex) epaResult {
	if s.count < 3 {
		return epaResult{}
	}

	edges := make([]epaEdge, 0, 8)
	for i := 0; i < 3; i++ {
		j := (i + 1) % 3
		edges = append(edges, newEpaEdge(
			s.v[i].w, s.v[j].w,
			s.v[i].wA, s.v[i].wB,
			s.v[j].wA, s.v[j].wB,
		))
	}

	for iter := 0; iter < epaMaxIterations; iter++ {
		closest := 0
		closestDist := edges[0].distance
		for i := 1; i < len(edges); i++ {
			if edges[i].distance < closestDist {
				closest = i
				closestDist = edges[i].distance
			}
		}

		e := edges[closest]
		dirA := MulTRV(xfA.Q, e.normal.Mul(-1))
		dirB := MulTRV(xfB.Q, e.normal)

		idxA := proxyA.Support(dirA)
		idxB := proxyB.Support(dirB)
		wA := MulTV(xfA, proxyA.Vertex(idxA))
		wB := MulTV(xfB, proxyB.Vertex(idxB))
		p := wB.Sub(wA)

		support := e.normal.Dot(p)

		if support-e.distance < epaTolerance {
			return epaResult{
				Normal:    e.normal,
				Depth:     e.distance,
				PointA:    closestPointOnSegment(e.wA1, e.wA2, e.a),
				PointB:    closestPointOnSegment(e.wB1, e.wB2, e.b),
				Converged: true,
			}
		}

		newEdge1 := newEpaEdge(e.a, p, e.wA1, e.wB1, wA, wB)
		newEdge2 := newEpaEdge(p, e.b, wA, wB, e.wA2, e.wB2)

		edges[closest] = newEdge1
		edges = append(edges, newEdge2)
	}

	// Exceeded the iteration budget: report the best edge found so far
	// rather than failing outright, matching the teacher's posture of
	// resolving numerical degeneracies to a sentinel/best-effort value
	// instead of propagating an error across Step's boundary.
	closest := 0
	for i := 1; i < len(edges); i++ {
		if edges[i].distance < edges[closest].distance {
			closest = i
		}
	}
	e := edges[closest]
	return epaResult{
		Normal:    e.normal,
		Depth:     math.Max(0, e.distance),
		PointA:    e.wA1,
		PointB:    e.wB1,
		Converged: false,
	}
}
