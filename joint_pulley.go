package kinetic2d

import "math"

// PulleyJoint conserves length1 + ratio*length2 across two ground-anchor
// pairs, the classic pulley: shortening one side lengthens the other by
// Ratio, with no soft mode (box2d's pulley has none either).
type PulleyJoint struct {
	jointBase

	groundAnchorA, groundAnchorB Vec2
	localAnchorA, localAnchorB   Vec2
	lengthA, lengthB             float64
	ratio                        float64
	constant                     float64

	uA, uB Vec2
	rA, rB Vec2
	mass   float64
	impulse float64

	invMassA, invMassB float64
	invIA, invIB       float64
}

type PulleyJointDef struct {
	BodyA, BodyB                 *RigidBody
	GroundAnchorA, GroundAnchorB Vec2
	LocalAnchorA, LocalAnchorB   Vec2
	Ratio                        float64
}

func NewPulleyJointDefFromWorld(a, b *RigidBody, groundA, groundB, anchorA, anchorB Vec2, ratio float64) PulleyJointDef {
	return PulleyJointDef{
		BodyA: a, BodyB: b,
		GroundAnchorA: groundA, GroundAnchorB: groundB,
		LocalAnchorA: MulTTV(a.transform, anchorA),
		LocalAnchorB: MulTTV(b.transform, anchorB),
		Ratio:        ratio,
	}
}

func NewPulleyJoint(def PulleyJointDef) *PulleyJoint {
	lengthA := def.GroundAnchorA.Sub(MulTV(def.BodyA.transform, def.LocalAnchorA)).Len()
	lengthB := def.GroundAnchorB.Sub(MulTV(def.BodyB.transform, def.LocalAnchorB)).Len()

	j := &PulleyJoint{
		jointBase:     jointBase{bodyA: def.BodyA, bodyB: def.BodyB, collideConnected: true},
		groundAnchorA: def.GroundAnchorA,
		groundAnchorB: def.GroundAnchorB,
		localAnchorA:  def.LocalAnchorA,
		localAnchorB:  def.LocalAnchorB,
		lengthA:       lengthA,
		lengthB:       lengthB,
		ratio:         def.Ratio,
	}
	j.constant = lengthA + def.Ratio*lengthB
	linkJoint(j, def.BodyA, def.BodyB)
	return j
}

func (j *PulleyJoint) initVelocityConstraints(data SolverData) {
	a, b := j.bodyA, j.bodyB
	j.invMassA, j.invMassB = a.invMass, b.invMass
	j.invIA, j.invIB = a.invI, b.invI

	j.rA = MulRV(a.transform.Q, j.localAnchorA.Sub(a.sweep.LocalCenter))
	j.rB = MulRV(b.transform.Q, j.localAnchorB.Sub(b.sweep.LocalCenter))

	pA := a.sweep.C.Add(j.rA)
	pB := b.sweep.C.Add(j.rB)

	lengthA := pA.Sub(j.groundAnchorA).Len()
	lengthB := pB.Sub(j.groundAnchorB).Len()

	if lengthA > 10.0*linearSlop {
		j.uA = j.groundAnchorA.Sub(pA).Mul(1.0 / lengthA)
	} else {
		j.uA = Vec2{0, 0}
	}
	if lengthB > 10.0*linearSlop {
		j.uB = j.groundAnchorB.Sub(pB).Mul(1.0 / lengthB)
	} else {
		j.uB = Vec2{0, 0}
	}

	ruA := Cross2(j.rA, j.uA)
	ruB := Cross2(j.rB, j.uB)

	mA := j.invMassA + j.invIA*ruA*ruA
	mB := j.invMassB + j.invIB*ruB*ruB

	k := mA + j.ratio*j.ratio*mB
	if k > 0.0 {
		j.mass = 1.0 / k
	}
}

func (j *PulleyJoint) warmStart(data SolverData) {
	vA, wA := data.velocity(j.bodyA)
	vB, wB := data.velocity(j.bodyB)

	pA := j.uA.Mul(-j.impulse)
	pB := j.uB.Mul(-j.ratio * j.impulse)

	*vA = vA.Add(pA.Mul(j.invMassA))
	*wA += j.invIA * Cross2(j.rA, pA)
	*vB = vB.Add(pB.Mul(j.invMassB))
	*wB += j.invIB * Cross2(j.rB, pB)
}

func (j *PulleyJoint) solveVelocityConstraints(data SolverData) {
	vA, wA := data.velocity(j.bodyA)
	vB, wB := data.velocity(j.bodyB)

	vpA := vA.Add(CrossSV(*wA, j.rA))
	vpB := vB.Add(CrossSV(*wB, j.rB))

	cdot := -j.uA.Dot(vpA) - j.ratio*j.uB.Dot(vpB)
	impulse := -j.mass * cdot
	j.impulse += impulse

	pA := j.uA.Mul(-impulse)
	pB := j.uB.Mul(-j.ratio * impulse)

	*vA = vA.Add(pA.Mul(j.invMassA))
	*wA += j.invIA * Cross2(j.rA, pA)
	*vB = vB.Add(pB.Mul(j.invMassB))
	*wB += j.invIB * Cross2(j.rB, pB)
}

func (j *PulleyJoint) solvePositionConstraints(data SolverData) bool {
	a, b := j.bodyA, j.bodyB
	posA, angA := data.position(a)
	posB, angB := data.position(b)

	rA := MulRV(MakeRot(*angA), j.localAnchorA.Sub(a.sweep.LocalCenter))
	rB := MulRV(MakeRot(*angB), j.localAnchorB.Sub(b.sweep.LocalCenter))

	pA := posA.Add(rA)
	pB := posB.Add(rB)

	lengthA := pA.Sub(j.groundAnchorA).Len()
	lengthB := pB.Sub(j.groundAnchorB).Len()

	var uA, uB Vec2
	if lengthA > 10.0*linearSlop {
		uA = j.groundAnchorA.Sub(pA).Mul(1.0 / lengthA)
	}
	if lengthB > 10.0*linearSlop {
		uB = j.groundAnchorB.Sub(pB).Mul(1.0 / lengthB)
	}

	c := j.constant - lengthA - j.ratio*lengthB
	linearError := math.Abs(c)

	ruA := Cross2(rA, uA)
	ruB := Cross2(rB, uB)

	mA := j.invMassA + j.invIA*ruA*ruA
	mB := j.invMassB + j.invIB*ruB*ruB

	k := mA + j.ratio*j.ratio*mB
	var impulse float64
	if k > 0.0 {
		impulse = c / k
	}

	pAi := uA.Mul(-impulse)
	pBi := uB.Mul(-j.ratio * impulse)

	*posA = posA.Add(pAi.Mul(j.invMassA))
	*angA += j.invIA * Cross2(rA, pAi)
	*posB = posB.Add(pBi.Mul(j.invMassB))
	*angB += j.invIB * Cross2(rB, pBi)

	return linearError < linearSlop
}
