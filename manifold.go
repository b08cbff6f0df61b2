package kinetic2d

// ManifoldType distinguishes how Manifold.LocalPoint/LocalNormal should be
// interpreted when the solver reconstructs world-space contact points.
type ManifoldType int

const (
	ManifoldCircles ManifoldType = iota
	ManifoldFaceA
	ManifoldFaceB
)

// ContactID packs which feature pair produced a contact point, letting the
// contact manager correlate points across steps for warm starting even as
// the point count or ordering changes.
type ContactID struct {
	IndexA, IndexB   uint8
	TypeA, TypeB     uint8
}

type ManifoldPoint struct {
	LocalPoint Vec2
	NormalImpulse, TangentImpulse float64
	ID ContactID
}

// Manifold is the solver-ready description of a contact between two
// shapes: up to maxManifoldPoints points plus enough local-frame data to
// regenerate world points after either body moves.
type Manifold struct {
	Type        ManifoldType
	LocalNormal Vec2
	LocalPoint  Vec2
	Points      []ManifoldPoint
}

// WorldManifold is a manifold resolved to world space: the normal (pointing
// from A to B) plus each point and its separation, used directly by the
// contact solver.
type WorldManifold struct {
	Normal      Vec2
	Points      []Vec2
	Separations []float64
}

// ComputeWorldManifold expands a local Manifold into world space given the
// two bodies' current transforms and shape radii.
func ComputeWorldManifold(m *Manifold, xfA Transform, radiusA float64, xfB Transform, radiusB float64) WorldManifold {
	wm := WorldManifold{
		Points:      make([]Vec2, len(m.Points)),
		Separations: make([]float64, len(m.Points)),
	}
	if len(m.Points) == 0 {
		return wm
	}

	switch m.Type {
	case ManifoldCircles:
		pointA := MulTV(xfA, m.LocalPoint)
		pointB := MulTV(xfB, m.Points[0].LocalPoint)
		normal := Vec2{1, 0}
		if pointB.Sub(pointA).Len() > epsilon*epsilon {
			normal = pointB.Sub(pointA).Normalize()
		}
		cA := pointA.Add(normal.Mul(radiusA))
		cB := pointB.Sub(normal.Mul(radiusB))
		wm.Normal = normal
		wm.Points[0] = cA.Add(cB).Mul(0.5)
		wm.Separations[0] = cB.Sub(cA).Dot(normal)

	case ManifoldFaceA:
		normal := MulRV(xfA.Q, m.LocalNormal)
		planePoint := MulTV(xfA, m.LocalPoint)
		wm.Normal = normal
		for i, p := range m.Points {
			clip := MulTV(xfB, p.LocalPoint)
			cA := clip.Add(normal.Mul(radiusA - normal.Dot(clip.Sub(planePoint))))
			cB := clip.Sub(normal.Mul(radiusB))
			wm.Points[i] = cA.Add(cB).Mul(0.5)
			wm.Separations[i] = cB.Sub(cA).Dot(normal)
		}

	case ManifoldFaceB:
		normal := MulRV(xfB.Q, m.LocalNormal)
		planePoint := MulTV(xfB, m.LocalPoint)
		wm.Normal = normal.Mul(-1)
		for i, p := range m.Points {
			clip := MulTV(xfA, p.LocalPoint)
			cB := clip.Add(normal.Mul(radiusB - normal.Dot(clip.Sub(planePoint))))
			cA := clip.Sub(normal.Mul(radiusA))
			wm.Points[i] = cA.Add(cB).Mul(0.5)
			wm.Separations[i] = cA.Sub(cB).Dot(normal)
		}
	}

	return wm
}

// CollideCircles is the closed-form circle/circle manifold.
func CollideCircles(a *CircleShape, xfA Transform, b *CircleShape, xfB Transform) Manifold {
	pA := MulTV(xfA, a.Center)
	pB := MulTV(xfB, b.Center)
	d := pB.Sub(pA)
	distSqr := d.Dot(d)
	rSum := a.Radius + b.Radius

	if distSqr > rSum*rSum {
		return Manifold{}
	}

	return Manifold{
		Type:        ManifoldCircles,
		LocalPoint:  a.Center,
		LocalNormal: Vec2{0, 0},
		Points: []ManifoldPoint{
			{LocalPoint: b.Center},
		},
	}
}

// CollideCircleEdged is the closed-form circle-vs-edged-shape manifold
// (polygon or capsule), reducing to the closest point on the shape's
// boundary to the circle's center.
func CollideCircleEdged(circle *CircleShape, xfA Transform, edged edgedShape, xfB Transform) Manifold {
	c := MulTV(xfA, circle.Center)
	localC := MulTTV(xfB, c)

	n := edged.VertexCount()
	var bestEdge int
	separation := -maxFloat
	for i := 0; i < n; i++ {
		s := edged.LocalNormal(i).Dot(localC.Sub(edged.LocalVertex(i)))
		if s > separation {
			separation = s
			bestEdge = i
		}
	}

	rSum := circle.Radius + edged.CoreRadius()
	if separation > rSum {
		return Manifold{}
	}

	v1 := edged.LocalVertex(bestEdge)
	v2 := edged.LocalVertex((bestEdge + 1) % n)

	var localNormal Vec2
	var localPoint Vec2

	if separation < epsilon {
		localNormal = edged.LocalNormal(bestEdge)
		localPoint = v1.Add(v2).Mul(0.5)
	} else {
		u1 := localC.Sub(v1).Dot(v2.Sub(v1))
		u2 := localC.Sub(v2).Dot(v1.Sub(v2))

		switch {
		case u1 <= 0.0:
			if localC.Sub(v1).Dot(localC.Sub(v1)) > rSum*rSum {
				return Manifold{}
			}
			localNormal = localC.Sub(v1).Normalize()
			localPoint = v1
		case u2 <= 0.0:
			if localC.Sub(v2).Dot(localC.Sub(v2)) > rSum*rSum {
				return Manifold{}
			}
			localNormal = localC.Sub(v2).Normalize()
			localPoint = v2
		default:
			localNormal = edged.LocalNormal(bestEdge)
			localPoint = v1.Add(v2).Mul(0.5)
		}
	}

	return Manifold{
		Type:        ManifoldFaceA,
		LocalNormal: localNormal,
		LocalPoint:  localPoint,
		Points:      []ManifoldPoint{{LocalPoint: circle.Center}},
	}
}

// findMaxSeparation returns the edge of A with the greatest separation
// from B's support along that edge's normal, the SAT test that either
// proves disjointness or picks the reference face.
func findMaxSeparation(a edgedShape, xfA Transform, b edgedShape, xfB Transform) (edge int, separation float64) {
	xf := MulTTransforms(xfB, xfA)

	bestSeparation := -maxFloat
	bestEdge := 0

	nA := a.VertexCount()
	nB := b.VertexCount()

	for i := 0; i < nA; i++ {
		n := MulRV(xf.Q, a.LocalNormal(i))
		v1 := MulTV(xf, a.LocalVertex(i))

		minSep := maxFloat
		for j := 0; j < nB; j++ {
			sep := n.Dot(b.LocalVertex(j).Sub(v1))
			if sep < minSep {
				minSep = sep
			}
		}

		if minSep > bestSeparation {
			bestSeparation = minSep
			bestEdge = i
		}
	}

	return bestEdge, bestSeparation
}

func findIncidentEdge(refEdge int, ref edgedShape, xfRef Transform, inc edgedShape, xfInc Transform) int {
	normal := MulRV(xfRef.Q, ref.LocalNormal(refEdge))
	localNormal := MulTRV(xfInc.Q, normal)

	best := 0
	minDot := maxFloat
	n := inc.VertexCount()
	for i := 0; i < n; i++ {
		d := localNormal.Dot(inc.LocalNormal(i))
		if d < minDot {
			minDot = d
			best = i
		}
	}
	return best
}

type clipVertex struct {
	v  Vec2
	id ContactID
}

func clipSegmentToLine(vIn [2]clipVertex, normal Vec2, offset float64, edgeIndex uint8) ([2]clipVertex, int) {
	var vOut [2]clipVertex
	count := 0

	dist0 := normal.Dot(vIn[0].v) - offset
	dist1 := normal.Dot(vIn[1].v) - offset

	if dist0 <= 0.0 {
		vOut[count] = vIn[0]
		count++
	}
	if dist1 <= 0.0 {
		vOut[count] = vIn[1]
		count++
	}

	if dist0*dist1 < 0.0 {
		interp := dist0 / (dist0 - dist1)
		vOut[count] = clipVertex{
			v:  vIn[0].v.Add(vIn[1].v.Sub(vIn[0].v).Mul(interp)),
			id: ContactID{IndexA: edgeIndex, IndexB: vIn[0].id.IndexB, TypeA: 1},
		}
		count++
	}

	return vOut, count
}

// CollideEdged builds the manifold between two edged shapes (polygon or
// capsule in any pairing) via SAT reference-face selection followed by
// Sutherland-Hodgman clipping of the incident edge against the reference
// edge's side planes — the same generic path regardless of which concrete
// edged shapes are involved, since both only ever expose
// {vertices, normals, radius}.
func CollideEdged(a edgedShape, xfA Transform, b edgedShape, xfB Transform) Manifold {
	edgeA, sepA := findMaxSeparation(a, xfA, b, xfB)
	totalRadius := a.CoreRadius() + b.CoreRadius()
	if sepA > totalRadius {
		return Manifold{}
	}

	edgeB, sepB := findMaxSeparation(b, xfB, a, xfA)
	if sepB > totalRadius {
		return Manifold{}
	}

	var ref, inc edgedShape
	var xfRef, xfInc Transform
	var refEdge int
	var flip bool
	const relativeTol = 0.98
	const absoluteTol = 0.001

	if sepB > relativeTol*sepA+absoluteTol {
		ref, inc = b, a
		xfRef, xfInc = xfB, xfA
		refEdge = edgeB
		flip = true
	} else {
		ref, inc = a, b
		xfRef, xfInc = xfA, xfB
		refEdge = edgeA
		flip = false
	}

	incEdge := findIncidentEdge(refEdge, ref, xfRef, inc, xfInc)
	i1 := incEdge
	i2 := (incEdge + 1) % inc.VertexCount()

	incident := [2]clipVertex{
		{v: MulTV(xfInc, inc.LocalVertex(i1)), id: ContactID{IndexB: uint8(i1)}},
		{v: MulTV(xfInc, inc.LocalVertex(i2)), id: ContactID{IndexB: uint8(i2)}},
	}

	r1 := refEdge
	r2 := (refEdge + 1) % ref.VertexCount()
	v11 := MulTV(xfRef, ref.LocalVertex(r1))
	v12 := MulTV(xfRef, ref.LocalVertex(r2))

	localTangent := v12.Sub(v11).Normalize()
	tangent := localTangent
	normal := CrossVS(tangent, 1.0)

	frontOffset := normal.Dot(v11)
	sideOffset1 := -tangent.Dot(v11) + totalRadius
	sideOffset2 := tangent.Dot(v12) + totalRadius

	clip1, count1 := clipSegmentToLine(incident, tangent.Mul(-1), sideOffset1, uint8(r1))
	if count1 < 2 {
		return Manifold{}
	}
	clip2, count2 := clipSegmentToLine(clip1, tangent, sideOffset2, uint8(r2))
	if count2 < 2 {
		return Manifold{}
	}

	manifold := Manifold{}
	points := make([]ManifoldPoint, 0, 2)

	for i := 0; i < 2; i++ {
		separation := normal.Dot(clip2[i].v) - frontOffset
		if separation <= totalRadius {
			local := clip2[i].v
			if flip {
				local = MulTTV(xfA, local)
			} else {
				local = MulTTV(xfB, local)
			}
			points = append(points, ManifoldPoint{LocalPoint: local, ID: clip2[i].id})
		}
	}

	if len(points) == 0 {
		return Manifold{}
	}

	manifold.Points = points
	if flip {
		manifold.Type = ManifoldFaceB
		manifold.LocalNormal = MulTRV(xfB.Q, normal)
		manifold.LocalPoint = MulTTV(xfB, v11)
	} else {
		manifold.Type = ManifoldFaceA
		manifold.LocalNormal = MulTRV(xfA.Q, normal)
		manifold.LocalPoint = MulTTV(xfA, v11)
	}

	return manifold
}

// Collide dispatches to the appropriate manifold function for a shape
// pair. The circle always takes CollideCircleEdged's first slot in a
// circle/edged pairing, and the result is tagged so the manifold keeps the
// caller's A/B order: the world normal points from shapeA to shapeB, so it
// is negated when the two shapes are swapped.
func Collide(shapeA Shape, xfA Transform, shapeB Shape, xfB Transform) Manifold {
	circleA, isCircleA := shapeA.(*CircleShape)
	circleB, isCircleB := shapeB.(*CircleShape)

	switch {
	case isCircleA && isCircleB:
		return CollideCircles(circleA, xfA, circleB, xfB)
	case isCircleA:
		// CollideCircleEdged always expresses LocalNormal/LocalPoint in its
		// second (edged) argument's frame. Here that's shapeB, so the result
		// belongs to B's face, not A's, even though the helper itself always
		// returns ManifoldFaceA for its own internal (circle, edged) layout.
		edgedB := shapeB.(edgedShape)
		m := CollideCircleEdged(circleA, xfA, edgedB, xfB)
		m.Type = ManifoldFaceB
		return m
	case isCircleB:
		// Passing shapeA as the edged argument puts shapeA's frame in
		// CollideCircleEdged's second-argument slot, which is exactly where
		// the outer A/B layout expects face A's data to live, so the
		// helper's own ManifoldFaceA tag is already correct here.
		return CollideCircleEdged(circleB, xfB, shapeA.(edgedShape), xfA)
	default:
		return CollideEdged(shapeA.(edgedShape), xfA, shapeB.(edgedShape), xfB)
	}
}
