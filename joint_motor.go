package kinetic2d

// MotorJoint drives BodyB toward a target linear offset and target angular
// offset from BodyA, clamped to MaxForce/MaxTorque per step — a velocity
// servo rather than a spring, with CorrectionFactor feeding position error
// back into the velocity bias instead of a separate position solve.
type MotorJoint struct {
	jointBase

	linearOffset  Vec2
	angularOffset float64

	maxForce, maxTorque float64
	correctionFactor    float64

	linearMass Mat22
	angularMass float64
	linearImpulse Vec2
	angularImpulse float64

	invMassA, invMassB float64
	invIA, invIB       float64
}

type MotorJointDef struct {
	BodyA, BodyB         *RigidBody
	LinearOffset         Vec2
	AngularOffset        float64
	MaxForce, MaxTorque  float64
	CorrectionFactor     float64
}

func NewMotorJointDef(a, b *RigidBody) MotorJointDef {
	return MotorJointDef{
		BodyA: a, BodyB: b,
		LinearOffset:     MulTTV(a.transform, b.transform.P),
		AngularOffset:    b.sweep.A - a.sweep.A,
		MaxForce:         1.0,
		MaxTorque:        1.0,
		CorrectionFactor: 0.3,
	}
}

func NewMotorJoint(def MotorJointDef) *MotorJoint {
	j := &MotorJoint{
		jointBase:        jointBase{bodyA: def.BodyA, bodyB: def.BodyB, collideConnected: true},
		linearOffset:     def.LinearOffset,
		angularOffset:    def.AngularOffset,
		maxForce:         def.MaxForce,
		maxTorque:        def.MaxTorque,
		correctionFactor: def.CorrectionFactor,
	}
	linkJoint(j, def.BodyA, def.BodyB)
	return j
}

func (j *MotorJoint) initVelocityConstraints(data SolverData) {
	a, b := j.bodyA, j.bodyB
	j.invMassA, j.invMassB = a.invMass, b.invMass
	j.invIA, j.invIB = a.invI, b.invI

	k := j.invIA + j.invIB
	if k != 0.0 {
		j.angularMass = 1.0 / k
	}

	k11 := j.invMassA + j.invMassB
	k22 := j.invMassA + j.invMassB
	j.linearMass = invertMat22(Mat22{k11, 0, 0, k22})
}

func (j *MotorJoint) warmStart(data SolverData) {
	vA, wA := data.velocity(j.bodyA)
	vB, wB := data.velocity(j.bodyB)

	*vA = vA.Sub(j.linearImpulse.Mul(j.invMassA))
	*wA -= j.invIA * j.angularImpulse
	*vB = vB.Add(j.linearImpulse.Mul(j.invMassB))
	*wB += j.invIB * j.angularImpulse
}

func (j *MotorJoint) solveVelocityConstraints(data SolverData) {
	a, b := j.bodyA, j.bodyB
	vA, wA := data.velocity(a)
	vB, wB := data.velocity(b)

	angularError := b.sweep.A - a.sweep.A - j.angularOffset
	cdotAngular := *wB - *wA + j.correctionFactor*data.InvDt*angularError
	impulseAngular := -j.angularMass * cdotAngular
	oldAngular := j.angularImpulse
	maxTorque := j.maxTorque * data.Dt
	j.angularImpulse = FloatClamp(oldAngular+impulseAngular, -maxTorque, maxTorque)
	impulseAngular = j.angularImpulse - oldAngular
	*wA -= j.invIA * impulseAngular
	*wB += j.invIB * impulseAngular

	positionError := b.sweep.C.Sub(a.sweep.C).Sub(j.linearOffset)
	cdotLinear := vB.Sub(*vA).Add(positionError.Mul(j.correctionFactor * data.InvDt))
	impulseLinear := MulMV(j.linearMass, cdotLinear.Mul(-1))

	oldImpulse := j.linearImpulse
	j.linearImpulse = j.linearImpulse.Add(impulseLinear)
	maxLinear := j.maxForce * data.Dt
	if j.linearImpulse.Dot(j.linearImpulse) > maxLinear*maxLinear {
		j.linearImpulse = j.linearImpulse.Mul(maxLinear / j.linearImpulse.Len())
	}
	impulseLinear = j.linearImpulse.Sub(oldImpulse)

	*vA = vA.Sub(impulseLinear.Mul(j.invMassA))
	*vB = vB.Add(impulseLinear.Mul(j.invMassB))
}

func (j *MotorJoint) solvePositionConstraints(data SolverData) bool { return true }
