package kinetic2d

// PrismaticJoint constrains BodyB to slide along a fixed axis relative to
// BodyA while keeping their relative angle fixed: the point-to-point
// constraint orthogonal to the axis, plus the angle lock (2-DOF). No
// motor, no translation limit — Motor is its own joint type in this
// engine, and a limited prismatic is out of scope for the same reason the
// revolute joint dropped its limit (see DESIGN.md).
type PrismaticJoint struct {
	jointBase

	localAnchorA, localAnchorB Vec2
	localAxisA                 Vec2

	invMassA, invMassB float64
	invIA, invIB       float64

	s1, s2 float64
	perp   Vec2

	k       Mat22
	impulse Vec2
}

type PrismaticJointDef struct {
	BodyA, BodyB               *RigidBody
	LocalAnchorA, LocalAnchorB Vec2
	LocalAxisA                 Vec2
}

func NewPrismaticJointDefFromWorld(a, b *RigidBody, anchor, axis Vec2) PrismaticJointDef {
	return PrismaticJointDef{
		BodyA: a, BodyB: b,
		LocalAnchorA: MulTTV(a.transform, anchor),
		LocalAnchorB: MulTTV(b.transform, anchor),
		LocalAxisA:   MulTRV(a.transform.Q, axis).Normalize(),
	}
}

func NewPrismaticJoint(def PrismaticJointDef) *PrismaticJoint {
	j := &PrismaticJoint{
		jointBase:    jointBase{bodyA: def.BodyA, bodyB: def.BodyB, collideConnected: false},
		localAnchorA: def.LocalAnchorA,
		localAnchorB: def.LocalAnchorB,
		localAxisA:   def.LocalAxisA,
	}
	linkJoint(j, def.BodyA, def.BodyB)
	return j
}

func (j *PrismaticJoint) initVelocityConstraints(data SolverData) {
	a, b := j.bodyA, j.bodyB
	j.invMassA, j.invMassB = a.invMass, b.invMass
	j.invIA, j.invIB = a.invI, b.invI

	rA := MulRV(a.transform.Q, j.localAnchorA.Sub(a.sweep.LocalCenter))
	rB := MulRV(b.transform.Q, j.localAnchorB.Sub(b.sweep.LocalCenter))
	d := b.sweep.C.Add(rB).Sub(a.sweep.C).Sub(rA)

	axis := MulRV(a.transform.Q, j.localAxisA)
	j.perp = Perp(axis)
	j.s1 = Cross2(d.Add(rA), j.perp)
	j.s2 = Cross2(rB, j.perp)

	k11 := j.invMassA + j.invMassB + j.invIA*j.s1*j.s1 + j.invIB*j.s2*j.s2
	k12 := j.invIA*j.s1 + j.invIB*j.s2
	k22 := j.invIA + j.invIB
	if k22 == 0.0 {
		k22 = 1.0
	}
	j.k = Mat22{k11, k12, k12, k22}
}

func (j *PrismaticJoint) warmStart(data SolverData) {
	vA, wA := data.velocity(j.bodyA)
	vB, wB := data.velocity(j.bodyB)

	p := j.perp.Mul(j.impulse[0])
	la := j.impulse[0]*j.s1 + j.impulse[1]
	lb := j.impulse[0]*j.s2 + j.impulse[1]

	*vA = vA.Sub(p.Mul(j.invMassA))
	*wA -= j.invIA * la
	*vB = vB.Add(p.Mul(j.invMassB))
	*wB += j.invIB * lb
}

func (j *PrismaticJoint) solveVelocityConstraints(data SolverData) {
	vA, wA := data.velocity(j.bodyA)
	vB, wB := data.velocity(j.bodyB)

	cdot1 := j.perp.Dot(vB.Sub(*vA)) + j.s2*(*wB) - j.s1*(*wA)
	cdot2 := *wB - *wA
	cdot := Vec2{cdot1, cdot2}

	impulse := MulMV(invertMat22(j.k), cdot.Mul(-1))
	j.impulse = j.impulse.Add(impulse)

	p := j.perp.Mul(impulse[0])
	la := impulse[0]*j.s1 + impulse[1]
	lb := impulse[0]*j.s2 + impulse[1]

	*vA = vA.Sub(p.Mul(j.invMassA))
	*wA -= j.invIA * la
	*vB = vB.Add(p.Mul(j.invMassB))
	*wB += j.invIB * lb
}

func (j *PrismaticJoint) solvePositionConstraints(data SolverData) bool {
	a, b := j.bodyA, j.bodyB
	posA, angA := data.position(a)
	posB, angB := data.position(b)

	rotA := MakeRot(*angA)
	rotB := MakeRot(*angB)
	rA := MulRV(rotA, j.localAnchorA.Sub(a.sweep.LocalCenter))
	rB := MulRV(rotB, j.localAnchorB.Sub(b.sweep.LocalCenter))
	d := posB.Add(rB).Sub(*posA).Sub(rA)

	axis := MulRV(rotA, j.localAxisA)
	perp := Perp(axis)
	s1 := Cross2(d.Add(rA), perp)
	s2 := Cross2(rB, perp)

	c1 := perp.Dot(d)
	c2 := *angB - *angA

	k11 := j.invMassA + j.invMassB + j.invIA*s1*s1 + j.invIB*s2*s2
	k12 := j.invIA*s1 + j.invIB*s2
	k22 := j.invIA + j.invIB
	if k22 == 0.0 {
		k22 = 1.0
	}
	k := invertMat22(Mat22{k11, k12, k12, k22})

	impulse := MulMV(k, Vec2{c1, c2}).Mul(-1)

	p := perp.Mul(impulse[0])
	la := impulse[0]*s1 + impulse[1]
	lb := impulse[0]*s2 + impulse[1]

	*posA = posA.Sub(p.Mul(j.invMassA))
	*angA -= j.invIA * la
	*posB = posB.Add(p.Mul(j.invMassB))
	*angB += j.invIB * lb

	return (c1*c1 + c2*c2) < linearSlop*linearSlop
}
