package kinetic2d

import "math"

// velocityConstraintPoint mirrors one manifold point's solver-local data:
// the lever arms from each body's center, effective masses, restitution
// bias velocity, and the accumulated impulses warm starting reuses.
type velocityConstraintPoint struct {
	rA, rB Vec2
	normalImpulse, tangentImpulse float64
	normalMass, tangentMass      float64
	velocityBias                 float64
}

type contactVelocityConstraint struct {
	points      [maxManifoldPoints]velocityConstraintPoint
	pointCount  int
	normal      Vec2
	normalMass  Mat22
	k           Mat22
	friction    float64
	restitution float64
	invMassA, invMassB float64
	invIA, invIB       float64
	indexA, indexB     int
	contact            *Contact
}

type contactPositionConstraint struct {
	localPoints [maxManifoldPoints]Vec2
	localNormal Vec2
	localPoint  Vec2
	indexA, indexB int
	invMassA, invMassB float64
	localCenterA, localCenterB Vec2
	invIA, invIB float64
	manifoldType ManifoldType
	radiusA, radiusB float64
	pointCount int
}

// contactSolver runs the per-step constraint stack over a batch of
// contacts belonging to one island: warm start, velocity iterations
// (tangent pass, then normal pass with the 2-point block solver), and
// split-impulse position iterations afterward.
type contactSolver struct {
	velocityConstraints []contactVelocityConstraint
	positionConstraints []contactPositionConstraint
	contacts            []*Contact
	positions           []*islandPosition
	velocities          []*islandVelocity
	dt                  float64
	settings            Settings
}

type islandPosition struct {
	c Vec2
	a float64
}

type islandVelocity struct {
	v Vec2
	w float64
}

func newContactSolver(contacts []*Contact, positions []*islandPosition, velocities []*islandVelocity, dt float64, settings Settings, indexOf func(*RigidBody) int) *contactSolver {
	s := &contactSolver{
		contacts:   contacts,
		positions:  positions,
		velocities: velocities,
		dt:         dt,
		settings:   settings,
	}

	s.velocityConstraints = make([]contactVelocityConstraint, len(contacts))
	s.positionConstraints = make([]contactPositionConstraint, len(contacts))

	for i, c := range contacts {
		bodyA := c.ColliderA.body
		bodyB := c.ColliderB.body
		wm := ComputeWorldManifold(&c.manifold, bodyA.transform, shapeRadius(c.ColliderA.shape), bodyB.transform, shapeRadius(c.ColliderB.shape))

		vc := &s.velocityConstraints[i]
		vc.contact = c
		vc.friction = c.friction
		vc.restitution = c.restitution
		vc.pointCount = len(c.manifold.Points)
		vc.normal = wm.Normal
		vc.invMassA = bodyA.invMass
		vc.invMassB = bodyB.invMass
		vc.invIA = bodyA.invI
		vc.invIB = bodyB.invI
		vc.indexA = indexOf(bodyA)
		vc.indexB = indexOf(bodyB)

		pc := &s.positionConstraints[i]
		pc.indexA = vc.indexA
		pc.indexB = vc.indexB
		pc.invMassA = vc.invMassA
		pc.invMassB = vc.invMassB
		pc.localCenterA = bodyA.sweep.LocalCenter
		pc.localCenterB = bodyB.sweep.LocalCenter
		pc.invIA = vc.invIA
		pc.invIB = vc.invIB
		pc.localNormal = c.manifold.LocalNormal
		pc.localPoint = c.manifold.LocalPoint
		pc.manifoldType = c.manifold.Type
		pc.radiusA = shapeRadius(c.ColliderA.shape)
		pc.radiusB = shapeRadius(c.ColliderB.shape)
		pc.pointCount = vc.pointCount

		for j := 0; j < vc.pointCount; j++ {
			pc.localPoints[j] = c.manifold.Points[j].LocalPoint

			vp := &vc.points[j]
			vp.rA = wm.Points[j].Sub(bodyA.sweep.C)
			vp.rB = wm.Points[j].Sub(bodyB.sweep.C)
			vp.normalImpulse = c.manifold.Points[j].NormalImpulse
			vp.tangentImpulse = c.manifold.Points[j].TangentImpulse

			rnA := Cross2(vp.rA, vc.normal)
			rnB := Cross2(vp.rB, vc.normal)
			kNormal := vc.invMassA + vc.invMassB + vc.invIA*rnA*rnA + vc.invIB*rnB*rnB
			if kNormal > 0.0 {
				vp.normalMass = 1.0 / kNormal
			}

			tangent := CrossVS(vc.normal, 1.0)
			rtA := Cross2(vp.rA, tangent)
			rtB := Cross2(vp.rB, tangent)
			kTangent := vc.invMassA + vc.invMassB + vc.invIA*rtA*rtA + vc.invIB*rtB*rtB
			if kTangent > 0.0 {
				vp.tangentMass = 1.0 / kTangent
			}

			vA := velocities[vc.indexA].v
			wA := velocities[vc.indexA].w
			vB := velocities[vc.indexB].v
			wB := velocities[vc.indexB].w

			dv := vB.Add(CrossSV(wB, vp.rB)).Sub(vA).Sub(CrossSV(wA, vp.rA))
			vRel := vc.normal.Dot(dv)
			vp.velocityBias = 0.0
			if vRel < -s.settings.RestitutionSlop {
				vp.velocityBias = -vc.restitution * vRel
			}

			// Baumgarte term substitutes for the split position solver when
			// it's turned off, folding a fraction of the penetration depth
			// directly into the velocity bias instead.
			if !s.settings.PositionCorrection && s.dt > 0.0 {
				depth := -wm.Separations[j]
				over := depth - s.settings.PenetrationSlop
				if over > 0.0 {
					vp.velocityBias += s.settings.PositionCorrectionBeta * over / s.dt
				}
			}
		}

		if vc.pointCount == 2 {
			s.setupBlockSolver(vc)
		}
	}

	return s
}

func shapeRadius(s Shape) float64 {
	switch sh := s.(type) {
	case *CircleShape:
		return sh.Radius
	case *CapsuleShape:
		return sh.Radius
	case *PolygonShape:
		return sh.Radius
	default:
		return 0
	}
}

// setupBlockSolver precomputes the 2x2 normal mass matrix used when both
// manifold points are solved simultaneously, guarding against a
// near-singular K (nearly parallel rA/rB lever arms) by dropping to a
// single point (only the first manifold point is solved), matching the
// teacher's conditioning check.
func (s *contactSolver) setupBlockSolver(vc *contactVelocityConstraint) {
	p1 := &vc.points[0]
	p2 := &vc.points[1]

	rn1A := Cross2(p1.rA, vc.normal)
	rn1B := Cross2(p1.rB, vc.normal)
	rn2A := Cross2(p2.rA, vc.normal)
	rn2B := Cross2(p2.rB, vc.normal)

	k11 := vc.invMassA + vc.invMassB + vc.invIA*rn1A*rn1A + vc.invIB*rn1B*rn1B
	k22 := vc.invMassA + vc.invMassB + vc.invIA*rn2A*rn2A + vc.invIB*rn2B*rn2B
	k12 := vc.invMassA + vc.invMassB + vc.invIA*rn1A*rn2A + vc.invIB*rn1B*rn2B

	const maxConditionNumber = 1000.0
	if k11*k11 < maxConditionNumber*(k11*k22-k12*k12) {
		vc.k = Mat22{k11, k12, k12, k22}
		vc.normalMass = invertMat22(vc.k)
	} else {
		vc.pointCount = 1
	}
}

func invertMat22(m Mat22) Mat22 {
	a, b, c, d := m[0], m[2], m[1], m[3]
	det := a*d - b*c
	if det != 0.0 {
		det = 1.0 / det
	}
	return Mat22{det * d, -det * c, -det * b, det * a}
}

func (s *contactSolver) warmStart() {
	for i := range s.velocityConstraints {
		vc := &s.velocityConstraints[i]
		vA := &s.velocities[vc.indexA].v
		wA := &s.velocities[vc.indexA].w
		vB := &s.velocities[vc.indexB].v
		wB := &s.velocities[vc.indexB].w

		tangent := CrossVS(vc.normal, 1.0)

		for j := 0; j < vc.pointCount; j++ {
			p := &vc.points[j]
			impulse := vc.normal.Mul(p.normalImpulse).Add(tangent.Mul(p.tangentImpulse))
			*vA = vA.Sub(impulse.Mul(vc.invMassA))
			*wA -= vc.invIA * Cross2(p.rA, impulse)
			*vB = vB.Add(impulse.Mul(vc.invMassB))
			*wB += vc.invIB * Cross2(p.rB, impulse)
		}
	}
}

// solveVelocityConstraints runs one Gauss-Seidel iteration: tangent
// (friction) impulses first, clamped to mu*normalImpulse, then normal
// impulses — via the 2-point block solve when available, otherwise
// sequential per-point solving.
func (s *contactSolver) solveVelocityConstraints() {
	for i := range s.velocityConstraints {
		vc := &s.velocityConstraints[i]
		vA := &s.velocities[vc.indexA].v
		wA := &s.velocities[vc.indexA].w
		vB := &s.velocities[vc.indexB].v
		wB := &s.velocities[vc.indexB].w

		tangent := CrossVS(vc.normal, 1.0)

		for j := 0; j < vc.pointCount; j++ {
			p := &vc.points[j]

			dv := vB.Add(CrossSV(*wB, p.rB)).Sub(*vA).Sub(CrossSV(*wA, p.rA))
			vt := dv.Dot(tangent)
			lambda := p.tangentMass * (-vt)

			maxFriction := vc.friction * p.normalImpulse
			newImpulse := FloatClamp(p.tangentImpulse+lambda, -maxFriction, maxFriction)
			lambda = newImpulse - p.tangentImpulse
			p.tangentImpulse = newImpulse

			impulse := tangent.Mul(lambda)
			*vA = vA.Sub(impulse.Mul(vc.invMassA))
			*wA -= vc.invIA * Cross2(p.rA, impulse)
			*vB = vB.Add(impulse.Mul(vc.invMassB))
			*wB += vc.invIB * Cross2(p.rB, impulse)
		}

		if vc.pointCount == 1 || !s.settings.BlockSolve {
			for j := 0; j < vc.pointCount; j++ {
				p := &vc.points[j]
				dv := vB.Add(CrossSV(*wB, p.rB)).Sub(*vA).Sub(CrossSV(*wA, p.rA))
				vn := dv.Dot(vc.normal)
				lambda := -p.normalMass * (vn - p.velocityBias)

				newImpulse := math.Max(p.normalImpulse+lambda, 0.0)
				lambda = newImpulse - p.normalImpulse
				p.normalImpulse = newImpulse

				impulse := vc.normal.Mul(lambda)
				*vA = vA.Sub(impulse.Mul(vc.invMassA))
				*wA -= vc.invIA * Cross2(p.rA, impulse)
				*vB = vB.Add(impulse.Mul(vc.invMassB))
				*wB += vc.invIB * Cross2(p.rB, impulse)
			}
		} else {
			s.solveBlock(vc, vA, wA, vB, wB)
		}
	}
}

// solveBlock enumerates the four cases of the 2-point normal LCP in the
// teacher's fixed order: both active, only point 1 active, only point 2
// active, both zero — accepting the first case whose resulting impulses
// and post-impulse relative velocities are both non-negative.
func (s *contactSolver) solveBlock(vc *contactVelocityConstraint, vA *Vec2, wA *float64, vB *Vec2, wB *float64) {
	p1 := &vc.points[0]
	p2 := &vc.points[1]

	a := Vec2{p1.normalImpulse, p2.normalImpulse}

	dv1 := vB.Add(CrossSV(*wB, p1.rB)).Sub(*vA).Sub(CrossSV(*wA, p1.rA))
	dv2 := vB.Add(CrossSV(*wB, p2.rB)).Sub(*vA).Sub(CrossSV(*wA, p2.rA))

	vn1 := dv1.Dot(vc.normal)
	vn2 := dv2.Dot(vc.normal)

	b := Vec2{vn1 - p1.velocityBias, vn2 - p2.velocityBias}
	b = b.Sub(MulMV(vc.k, a))

	const epsilonLCP = 1e-5

	// Case 1: both points active.
	x := MulMV(vc.normalMass, b).Mul(-1)
	if x[0] >= 0.0 && x[1] >= 0.0 {
		d := x.Sub(a)
		applyBlockImpulse(vc, vA, wA, vB, wB, p1, p2, d)
		p1.normalImpulse, p2.normalImpulse = x[0], x[1]
		return
	}

	// Case 2: only point 1 active.
	x0 := -p1.normalMass * b[0]
	if x0 >= 0.0 && vc.k[1]*x0+b[1] >= 0.0 {
		d := Vec2{x0, 0}.Sub(a)
		applyBlockImpulse(vc, vA, wA, vB, wB, p1, p2, d)
		p1.normalImpulse, p2.normalImpulse = x0, 0
		return
	}

	// Case 3: only point 2 active.
	x1 := -p2.normalMass * b[1]
	if x1 >= 0.0 && vc.k[2]*x1+b[0] >= 0.0 {
		d := Vec2{0, x1}.Sub(a)
		applyBlockImpulse(vc, vA, wA, vB, wB, p1, p2, d)
		p1.normalImpulse, p2.normalImpulse = 0, x1
		return
	}

	// Case 4: neither point active, or the LCP is degenerate — settle on
	// zero impulses rather than risk oscillation.
	if b[0] >= -epsilonLCP && b[1] >= -epsilonLCP {
		d := Vec2{0, 0}.Sub(a)
		applyBlockImpulse(vc, vA, wA, vB, wB, p1, p2, d)
	}
	p1.normalImpulse, p2.normalImpulse = 0, 0
}

func applyBlockImpulse(vc *contactVelocityConstraint, vA *Vec2, wA *float64, vB *Vec2, wB *float64, p1, p2 *velocityConstraintPoint, d Vec2) {
	impulse1 := vc.normal.Mul(d[0])
	impulse2 := vc.normal.Mul(d[1])
	impulse := impulse1.Add(impulse2)

	*vA = vA.Sub(impulse.Mul(vc.invMassA))
	*wA -= vc.invIA * (Cross2(p1.rA, impulse1) + Cross2(p2.rA, impulse2))
	*vB = vB.Add(impulse.Mul(vc.invMassB))
	*wB += vc.invIB * (Cross2(p1.rB, impulse1) + Cross2(p2.rB, impulse2))
}

func (s *contactSolver) storeImpulses() {
	for i := range s.velocityConstraints {
		vc := &s.velocityConstraints[i]
		c := s.contacts[i]
		for j := 0; j < vc.pointCount; j++ {
			c.manifold.Points[j].NormalImpulse = vc.points[j].normalImpulse
			c.manifold.Points[j].TangentImpulse = vc.points[j].tangentImpulse
		}
	}
}

// solvePositionConstraints runs one split-impulse position-correction
// iteration directly on the position buffer (not velocity), returning
// whether every contact's penetration is within 3*settings.PenetrationSlop.
func (s *contactSolver) solvePositionConstraints(settings Settings) bool {
	minSeparation := 0.0

	for i := range s.positionConstraints {
		pc := &s.positionConstraints[i]

		posA := s.positions[pc.indexA]
		posB := s.positions[pc.indexB]

		for j := 0; j < pc.pointCount; j++ {
			point, normal, separation := positionSolverInputs(pc, posA, posB, j)

			rA := point.Sub(posA.c)
			rB := point.Sub(posB.c)

			minSeparation = math.Min(minSeparation, separation)

			c := FloatClamp(settings.PositionCorrectionBeta*(separation+settings.PenetrationSlop), -maxLinearCorrection, 0.0)

			rnA := Cross2(rA, normal)
			rnB := Cross2(rB, normal)
			k := pc.invMassA + pc.invMassB + pc.invIA*rnA*rnA + pc.invIB*rnB*rnB

			var impulse float64
			if k > 0.0 {
				impulse = -c / k
			}

			p := normal.Mul(impulse)

			posA.c = posA.c.Sub(p.Mul(pc.invMassA))
			posA.a -= pc.invIA * Cross2(rA, p)
			posB.c = posB.c.Add(p.Mul(pc.invMassB))
			posB.a += pc.invIB * Cross2(rB, p)
		}
	}

	return minSeparation >= -3.0*settings.PenetrationSlop
}

// positionSolverInputs reconstructs the world-space contact point, normal,
// and separation for one manifold point at the position buffer's current
// (not velocity-integrated) pose, mirroring the teacher's
// b2PositionSolverManifold.
func positionSolverInputs(pc *contactPositionConstraint, posA, posB *islandPosition, j int) (point, normal Vec2, separation float64) {
	xfA := Transform{Q: MakeRot(posA.a), P: posA.c.Sub(MulRV(MakeRot(posA.a), pc.localCenterA))}
	xfB := Transform{Q: MakeRot(posB.a), P: posB.c.Sub(MulRV(MakeRot(posB.a), pc.localCenterB))}

	switch pc.manifoldType {
	case ManifoldCircles:
		pointA := MulTV(xfA, pc.localPoint)
		pointB := MulTV(xfB, pc.localPoints[0])
		normal = Vec2{1, 0}
		if pointB.Sub(pointA).Len() > epsilon*epsilon {
			normal = pointB.Sub(pointA).Normalize()
		}
		point = pointA.Add(pointB).Mul(0.5)
		separation = pointB.Sub(pointA).Dot(normal) - pc.radiusA - pc.radiusB

	case ManifoldFaceA:
		normal = MulRV(xfA.Q, pc.localNormal)
		planePoint := MulTV(xfA, pc.localPoint)
		clip := MulTV(xfB, pc.localPoints[j])
		separation = clip.Sub(planePoint).Dot(normal) - pc.radiusA - pc.radiusB
		point = clip.Sub(normal.Mul(pc.radiusB))

	default: // ManifoldFaceB
		normal = MulRV(xfB.Q, pc.localNormal)
		planePoint := MulTV(xfB, pc.localPoint)
		clip := MulTV(xfA, pc.localPoints[j])
		separation = clip.Sub(planePoint).Dot(normal) - pc.radiusA - pc.radiusB
		point = clip.Sub(normal.Mul(pc.radiusA))
		normal = normal.Mul(-1)
	}

	return point, normal, separation
}
