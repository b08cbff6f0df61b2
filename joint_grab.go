package kinetic2d

// GrabJoint drives a single point on BodyB toward a world-space Target,
// the soft point constraint used for mouse/cursor dragging. Named Grab
// rather than Mouse since nothing in this engine is mouse-specific — any
// controller (AI, input, scripted path) can drive Target.
type GrabJoint struct {
	jointBase

	localAnchorB Vec2
	target       Vec2

	maxForce     float64
	frequencyHz  float64
	dampingRatio float64

	gamma  float64
	beta   float64
	impulse Vec2
	invMassB, invIB float64
	mass Mat22
	rB Vec2
	c Vec2
}

type GrabJointDef struct {
	BodyA, BodyB *RigidBody
	Target       Vec2
	MaxForce     float64
	FrequencyHz  float64
	DampingRatio float64
}

func NewGrabJointDef() GrabJointDef {
	return GrabJointDef{FrequencyHz: 5.0, DampingRatio: 0.7}
}

func NewGrabJoint(def GrabJointDef) *GrabJoint {
	j := &GrabJoint{
		jointBase: jointBase{bodyA: def.BodyA, bodyB: def.BodyB, collideConnected: true},
		target:    def.Target,
		maxForce:  def.MaxForce,
		frequencyHz: def.FrequencyHz,
		dampingRatio: def.DampingRatio,
	}
	j.localAnchorB = MulTTV(def.BodyB.transform, def.Target)
	linkJoint(j, def.BodyA, def.BodyB)
	return j
}

func (j *GrabJoint) SetTarget(target Vec2) {
	j.target = target
	j.bodyB.SetAwake(true)
}

func (j *GrabJoint) initVelocityConstraints(data SolverData) {
	b := j.bodyB
	j.invMassB = b.invMass
	j.invIB = b.invI

	j.rB = MulRV(b.transform.Q, j.localAnchorB.Sub(b.sweep.LocalCenter))
	j.c = b.sweep.C.Add(j.rB).Sub(j.target)

	mass := 1.0 / (j.invMassB + 1e-9)
	j.gamma, j.beta = softConstraintCoefficients(mass, j.frequencyHz, j.dampingRatio, data.Dt)

	k11 := j.invMassB + j.invIB*j.rB[1]*j.rB[1] + j.gamma
	k12 := -j.invIB * j.rB[0] * j.rB[1]
	k22 := j.invMassB + j.invIB*j.rB[0]*j.rB[0] + j.gamma
	j.mass = invertMat22(Mat22{k11, k12, k12, k22})
}

func (j *GrabJoint) warmStart(data SolverData) {
	vB, wB := data.velocity(j.bodyB)
	*vB = vB.Add(j.impulse.Mul(j.invMassB))
	*wB += j.invIB * Cross2(j.rB, j.impulse)
}

func (j *GrabJoint) solveVelocityConstraints(data SolverData) {
	vB, wB := data.velocity(j.bodyB)

	vel := vB.Add(CrossSV(*wB, j.rB))
	cdot := vel.Add(j.c.Mul(j.beta).Mul(data.InvDt)).Add(j.impulse.Mul(j.gamma))

	impulse := MulMV(j.mass, cdot.Mul(-1))

	oldImpulse := j.impulse
	j.impulse = j.impulse.Add(impulse)
	maxImpulse := j.maxForce * data.Dt
	if j.impulse.Dot(j.impulse) > maxImpulse*maxImpulse {
		j.impulse = j.impulse.Mul(maxImpulse / j.impulse.Len())
	}
	impulse = j.impulse.Sub(oldImpulse)

	*vB = vB.Add(impulse.Mul(j.invMassB))
	*wB += j.invIB * Cross2(j.rB, impulse)
}

func (j *GrabJoint) solvePositionConstraints(data SolverData) bool { return true }
