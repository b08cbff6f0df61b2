package kinetic2d

// RevoluteJoint pins two bodies together at a shared point, the pure
// point-to-point constraint (no motor, no angle limit — Motor is its own
// joint type in this engine, see joint_motor.go).
type RevoluteJoint struct {
	jointBase

	localAnchorA, localAnchorB Vec2

	rA, rB Vec2
	mass   Mat22
	impulse Vec2

	invMassA, invMassB float64
	invIA, invIB       float64
}

type RevoluteJointDef struct {
	BodyA, BodyB               *RigidBody
	LocalAnchorA, LocalAnchorB Vec2
}

// NewRevoluteJointDefFromWorldPoint derives both local anchors from a
// shared world-space pivot point.
func NewRevoluteJointDefFromWorldPoint(a, b *RigidBody, anchor Vec2) RevoluteJointDef {
	return RevoluteJointDef{
		BodyA: a, BodyB: b,
		LocalAnchorA: MulTTV(a.transform, anchor),
		LocalAnchorB: MulTTV(b.transform, anchor),
	}
}

func NewRevoluteJoint(def RevoluteJointDef) *RevoluteJoint {
	j := &RevoluteJoint{
		jointBase:    jointBase{bodyA: def.BodyA, bodyB: def.BodyB, collideConnected: false},
		localAnchorA: def.LocalAnchorA,
		localAnchorB: def.LocalAnchorB,
	}
	linkJoint(j, def.BodyA, def.BodyB)
	return j
}

func (j *RevoluteJoint) initVelocityConstraints(data SolverData) {
	a, b := j.bodyA, j.bodyB
	j.invMassA, j.invMassB = a.invMass, b.invMass
	j.invIA, j.invIB = a.invI, b.invI

	j.rA = MulRV(a.transform.Q, j.localAnchorA.Sub(a.sweep.LocalCenter))
	j.rB = MulRV(b.transform.Q, j.localAnchorB.Sub(b.sweep.LocalCenter))

	k11 := j.invMassA + j.invMassB + j.invIA*j.rA[1]*j.rA[1] + j.invIB*j.rB[1]*j.rB[1]
	k12 := -j.invIA*j.rA[0]*j.rA[1] - j.invIB*j.rB[0]*j.rB[1]
	k22 := j.invMassA + j.invMassB + j.invIA*j.rA[0]*j.rA[0] + j.invIB*j.rB[0]*j.rB[0]
	j.mass = invertMat22(Mat22{k11, k12, k12, k22})
}

func (j *RevoluteJoint) warmStart(data SolverData) {
	vA, wA := data.velocity(j.bodyA)
	vB, wB := data.velocity(j.bodyB)

	*vA = vA.Sub(j.impulse.Mul(j.invMassA))
	*wA -= j.invIA * Cross2(j.rA, j.impulse)
	*vB = vB.Add(j.impulse.Mul(j.invMassB))
	*wB += j.invIB * Cross2(j.rB, j.impulse)
}

func (j *RevoluteJoint) solveVelocityConstraints(data SolverData) {
	vA, wA := data.velocity(j.bodyA)
	vB, wB := data.velocity(j.bodyB)

	cdot := vB.Add(CrossSV(*wB, j.rB)).Sub(*vA).Sub(CrossSV(*wA, j.rA))
	impulse := MulMV(j.mass, cdot.Mul(-1))
	j.impulse = j.impulse.Add(impulse)

	*vA = vA.Sub(impulse.Mul(j.invMassA))
	*wA -= j.invIA * Cross2(j.rA, impulse)
	*vB = vB.Add(impulse.Mul(j.invMassB))
	*wB += j.invIB * Cross2(j.rB, impulse)
}

func (j *RevoluteJoint) solvePositionConstraints(data SolverData) bool {
	a, b := j.bodyA, j.bodyB
	posA, angA := data.position(a)
	posB, angB := data.position(b)

	rA := MulRV(MakeRot(*angA), j.localAnchorA.Sub(a.sweep.LocalCenter))
	rB := MulRV(MakeRot(*angB), j.localAnchorB.Sub(b.sweep.LocalCenter))

	c := posB.Add(rB).Sub(*posA).Sub(rA)
	positionError := c.Len()

	k11 := j.invMassA + j.invMassB + j.invIA*rA[1]*rA[1] + j.invIB*rB[1]*rB[1]
	k12 := -j.invIA*rA[0]*rA[1] - j.invIB*rB[0]*rB[1]
	k22 := j.invMassA + j.invMassB + j.invIA*rA[0]*rA[0] + j.invIB*rB[0]*rB[0]
	mass := invertMat22(Mat22{k11, k12, k12, k22})

	impulse := MulMV(mass, c).Mul(-1)

	*posA = posA.Sub(impulse.Mul(j.invMassA))
	*angA -= j.invIA * Cross2(rA, impulse)
	*posB = posB.Add(impulse.Mul(j.invMassB))
	*angB += j.invIB * Cross2(rB, impulse)

	return positionError < linearSlop
}
