package kinetic2d

// AngleJoint locks the relative angle between two bodies without
// constraining their relative position at all — the angular-only row of
// WeldJoint's 3-DOF block, split out as its own joint because the original
// engine this was distilled from exposes it standalone (see DESIGN.md).
type AngleJoint struct {
	jointBase

	referenceAngle            float64
	frequencyHz, dampingRatio float64

	gamma, bias float64
	mass        float64
	impulse     float64

	invIA, invIB float64
}

type AngleJointDef struct {
	BodyA, BodyB               *RigidBody
	ReferenceAngle             float64
	FrequencyHz, DampingRatio  float64
}

func NewAngleJointDef(a, b *RigidBody) AngleJointDef {
	return AngleJointDef{BodyA: a, BodyB: b, ReferenceAngle: b.sweep.A - a.sweep.A}
}

func NewAngleJoint(def AngleJointDef) *AngleJoint {
	j := &AngleJoint{
		jointBase:      jointBase{bodyA: def.BodyA, bodyB: def.BodyB, collideConnected: false},
		referenceAngle: def.ReferenceAngle,
		frequencyHz:    def.FrequencyHz,
		dampingRatio:   def.DampingRatio,
	}
	linkJoint(j, def.BodyA, def.BodyB)
	return j
}

func (j *AngleJoint) initVelocityConstraints(data SolverData) {
	j.invIA = j.bodyA.invI
	j.invIB = j.bodyB.invI

	k := j.invIA + j.invIB

	if j.frequencyHz > 0.0 {
		mass := 0.0
		if k > 0 {
			mass = 1.0 / k
		}
		gamma, beta := softConstraintCoefficients(mass, j.frequencyHz, j.dampingRatio, data.Dt)
		j.gamma = gamma
		c := j.bodyB.sweep.A - j.bodyA.sweep.A - j.referenceAngle
		j.bias = c * beta * data.InvDt
		k += j.gamma
	} else {
		j.gamma = 0.0
		j.bias = 0.0
	}

	if k != 0.0 {
		j.mass = 1.0 / k
	}
}

func (j *AngleJoint) warmStart(data SolverData) {
	_, wA := data.velocity(j.bodyA)
	_, wB := data.velocity(j.bodyB)
	*wA -= j.invIA * j.impulse
	*wB += j.invIB * j.impulse
}

func (j *AngleJoint) solveVelocityConstraints(data SolverData) {
	_, wA := data.velocity(j.bodyA)
	_, wB := data.velocity(j.bodyB)

	cdot := *wB - *wA
	impulse := -j.mass * (cdot + j.bias + j.gamma*j.impulse)
	j.impulse += impulse

	*wA -= j.invIA * impulse
	*wB += j.invIB * impulse
}

func (j *AngleJoint) solvePositionConstraints(data SolverData) bool {
	if j.frequencyHz > 0.0 {
		return true
	}

	_, angA := data.position(j.bodyA)
	_, angB := data.position(j.bodyB)

	c := *angB - *angA - j.referenceAngle
	k := j.invIA + j.invIB
	var impulse float64
	if k != 0.0 {
		impulse = -c / k
	}

	*angA -= j.invIA * impulse
	*angB += j.invIB * impulse

	return absFloat(c) < angularSlop
}
