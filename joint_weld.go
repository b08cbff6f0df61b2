package kinetic2d

// WeldJoint fuses two bodies at a shared point and angle: a 3-DOF
// constraint (2 linear + 1 angular) solved as a single 3x3 block, with the
// angular row softened when FrequencyHz > 0.
type WeldJoint struct {
	jointBase

	localAnchorA, localAnchorB Vec2
	referenceAngle             float64
	frequencyHz, dampingRatio  float64

	gamma, bias float64

	rA, rB Vec2
	mass   [9]float64 // row-major 3x3
	impulse Vec3

	invMassA, invMassB float64
	invIA, invIB       float64
}

type Vec3 struct {
	X, Y, Z float64
}

type WeldJointDef struct {
	BodyA, BodyB               *RigidBody
	LocalAnchorA, LocalAnchorB Vec2
	ReferenceAngle             float64
	FrequencyHz, DampingRatio  float64
}

func NewWeldJointDefFromWorldPoint(a, b *RigidBody, anchor Vec2) WeldJointDef {
	return WeldJointDef{
		BodyA: a, BodyB: b,
		LocalAnchorA:   MulTTV(a.transform, anchor),
		LocalAnchorB:   MulTTV(b.transform, anchor),
		ReferenceAngle: b.sweep.A - a.sweep.A,
	}
}

func NewWeldJoint(def WeldJointDef) *WeldJoint {
	j := &WeldJoint{
		jointBase:      jointBase{bodyA: def.BodyA, bodyB: def.BodyB, collideConnected: false},
		localAnchorA:   def.LocalAnchorA,
		localAnchorB:   def.LocalAnchorB,
		referenceAngle: def.ReferenceAngle,
		frequencyHz:    def.FrequencyHz,
		dampingRatio:   def.DampingRatio,
	}
	linkJoint(j, def.BodyA, def.BodyB)
	return j
}

func (j *WeldJoint) initVelocityConstraints(data SolverData) {
	a, b := j.bodyA, j.bodyB
	j.invMassA, j.invMassB = a.invMass, b.invMass
	j.invIA, j.invIB = a.invI, b.invI

	j.rA = MulRV(a.transform.Q, j.localAnchorA.Sub(a.sweep.LocalCenter))
	j.rB = MulRV(b.transform.Q, j.localAnchorB.Sub(b.sweep.LocalCenter))

	mA, mB := j.invMassA, j.invMassB
	iA, iB := j.invIA, j.invIB

	k11 := mA + mB + j.rA[1]*j.rA[1]*iA + j.rB[1]*j.rB[1]*iB
	k12 := -j.rA[1]*j.rA[0]*iA - j.rB[1]*j.rB[0]*iB
	k13 := -j.rA[1]*iA - j.rB[1]*iB
	k22 := mA + mB + j.rA[0]*j.rA[0]*iA + j.rB[0]*j.rB[0]*iB
	k23 := j.rA[0]*iA + j.rB[0]*iB
	k33 := iA + iB

	if j.frequencyHz > 0.0 {
		mass := 0.0
		if k33 > 0 {
			mass = 1.0 / k33
		}
		gamma, beta := softConstraintCoefficients(mass, j.frequencyHz, j.dampingRatio, data.Dt)
		j.gamma = gamma
		c := b.sweep.A - a.sweep.A - j.referenceAngle
		j.bias = c * beta * data.InvDt
		k33 += j.gamma
	} else {
		j.gamma = 0.0
		j.bias = 0.0
	}

	if k33 != 0.0 {
		k33 = 1.0 / k33
	}

	j.mass = invert3x3(k11, k12, k13, k22, k23, k33)
}

// invert3x3 inverts the symmetric 3x3 matrix
//   [k11 k12 k13]
//   [k12 k22 k23]
//   [k13 k23 k33]
// returning it row-major, mirroring the teacher's b2Mat33 inverse.
func invert3x3(k11, k12, k13, k22, k23, k33 float64) [9]float64 {
	a := Vec3{k11, k12, k13}
	b := Vec3{k12, k22, k23}
	c := Vec3{k13, k23, k33}

	det := a.X*(b.Y*c.Z-b.Z*c.Y) - a.Y*(b.X*c.Z-b.Z*c.X) + a.Z*(b.X*c.Y-b.Y*c.X)
	if det != 0.0 {
		det = 1.0 / det
	}

	return [9]float64{
		det * (b.Y*c.Z - b.Z*c.Y), det * (a.Z*c.Y - a.Y*c.Z), det * (a.Y*b.Z - a.Z*b.Y),
		det * (b.Z*c.X - b.X*c.Z), det * (a.X*c.Z - a.Z*c.X), det * (a.Z*b.X - a.X*b.Z),
		det * (b.X*c.Y - b.Y*c.X), det * (a.Y*c.X - a.X*c.Y), det * (a.X*b.Y - a.Y*b.X),
	}
}

func mulMat33(m [9]float64, v Vec3) Vec3 {
	return Vec3{
		X: m[0]*v.X + m[1]*v.Y + m[2]*v.Z,
		Y: m[3]*v.X + m[4]*v.Y + m[5]*v.Z,
		Z: m[6]*v.X + m[7]*v.Y + m[8]*v.Z,
	}
}

func (j *WeldJoint) warmStart(data SolverData) {
	vA, wA := data.velocity(j.bodyA)
	vB, wB := data.velocity(j.bodyB)

	p := Vec2{j.impulse.X, j.impulse.Y}

	*vA = vA.Sub(p.Mul(j.invMassA))
	*wA -= j.invIA * (Cross2(j.rA, p) + j.impulse.Z)
	*vB = vB.Add(p.Mul(j.invMassB))
	*wB += j.invIB * (Cross2(j.rB, p) + j.impulse.Z)
}

func (j *WeldJoint) solveVelocityConstraints(data SolverData) {
	vA, wA := data.velocity(j.bodyA)
	vB, wB := data.velocity(j.bodyB)

	if j.frequencyHz > 0.0 {
		cdotZ := *wB - *wA
		impulseZ := -j.gammaSolve(cdotZ)
		j.impulse.Z += impulseZ
		*wA -= j.invIA * impulseZ
		*wB += j.invIB * impulseZ

		cdot1 := vB.Add(CrossSV(*wB, j.rB)).Sub(*vA).Sub(CrossSV(*wA, j.rA))
		impulse := mulMat33(j.mass, Vec3{-cdot1[0], -cdot1[1], 0})
		p := Vec2{impulse.X, impulse.Y}
		j.impulse.X += impulse.X
		j.impulse.Y += impulse.Y

		*vA = vA.Sub(p.Mul(j.invMassA))
		*wA -= j.invIA * Cross2(j.rA, p)
		*vB = vB.Add(p.Mul(j.invMassB))
		*wB += j.invIB * Cross2(j.rB, p)
		return
	}

	cdot1 := vB.Add(CrossSV(*wB, j.rB)).Sub(*vA).Sub(CrossSV(*wA, j.rA))
	cdot2 := *wB - *wA
	cdot := Vec3{cdot1[0], cdot1[1], cdot2}

	impulse := mulMat33(j.mass, Vec3{-cdot.X, -cdot.Y, -cdot.Z})
	j.impulse.X += impulse.X
	j.impulse.Y += impulse.Y
	j.impulse.Z += impulse.Z

	p := Vec2{impulse.X, impulse.Y}
	*vA = vA.Sub(p.Mul(j.invMassA))
	*wA -= j.invIA * (Cross2(j.rA, p) + impulse.Z)
	*vB = vB.Add(p.Mul(j.invMassB))
	*wB += j.invIB * (Cross2(j.rB, p) + impulse.Z)
}

func (j *WeldJoint) gammaSolve(cdotZ float64) float64 {
	k33 := j.invIA + j.invIB + j.gamma
	if k33 == 0.0 {
		return 0.0
	}
	return (cdotZ + j.bias + j.gamma*j.impulse.Z) / k33
}

func (j *WeldJoint) solvePositionConstraints(data SolverData) bool {
	a, b := j.bodyA, j.bodyB
	posA, angA := data.position(a)
	posB, angB := data.position(b)

	rA := MulRV(MakeRot(*angA), j.localAnchorA.Sub(a.sweep.LocalCenter))
	rB := MulRV(MakeRot(*angB), j.localAnchorB.Sub(b.sweep.LocalCenter))

	mA, mB := j.invMassA, j.invMassB
	iA, iB := j.invIA, j.invIB

	c1 := posB.Add(rB).Sub(*posA).Sub(rA)
	var positionError, angularError float64

	if j.frequencyHz > 0.0 {
		positionError = c1.Len()
		k11 := mA + mB + rA[1]*rA[1]*iA + rB[1]*rB[1]*iB
		k12 := -rA[1]*rA[0]*iA - rB[1]*rB[0]*iB
		k22 := mA + mB + rA[0]*rA[0]*iA + rB[0]*rB[0]*iB
		m := invertMat22(Mat22{k11, k12, k12, k22})
		impulse := MulMV(m, c1).Mul(-1)

		*posA = posA.Sub(impulse.Mul(mA))
		*angA -= iA * Cross2(rA, impulse)
		*posB = posB.Add(impulse.Mul(mB))
		*angB += iB * Cross2(rB, impulse)
		return positionError < linearSlop
	}

	c2 := *angB - *angA - j.referenceAngle
	angularError = absFloat(c2)
	positionError = c1.Len()

	k11 := mA + mB + rA[1]*rA[1]*iA + rB[1]*rB[1]*iB
	k12 := -rA[1]*rA[0]*iA - rB[1]*rB[0]*iB
	k13 := -rA[1]*iA - rB[1]*iB
	k22 := mA + mB + rA[0]*rA[0]*iA + rB[0]*rB[0]*iB
	k23 := rA[0]*iA + rB[0]*iB
	k33 := iA + iB

	m := invert3x3(k11, k12, k13, k22, k23, k33)
	impulse := mulMat33(m, Vec3{-c1[0], -c1[1], -c2})

	p := Vec2{impulse.X, impulse.Y}
	*posA = posA.Sub(p.Mul(mA))
	*angA -= iA * (Cross2(rA, p) + impulse.Z)
	*posB = posB.Add(p.Mul(mB))
	*angB += iB * (Cross2(rB, p) + impulse.Z)

	return positionError < linearSlop && angularError < angularSlop
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
