package kinetic2d

import "math"

// DistanceJoint holds two anchor points at a fixed Length apart, with an
// optional soft (spring) mode when FrequencyHz > 0 and a hard
// scalar-constraint fallback otherwise. MinLength/MaxLength additionally
// bound how far the anchors may separate regardless of the spring/rest
// constraint, each disabled by its own zero value (MinLength <= 0 means no
// lower bound, MaxLength <= 0 means no upper bound) the same way
// Settings.ValidRegion's zero value disables that check.
type DistanceJoint struct {
	jointBase

	localAnchorA, localAnchorB Vec2
	length                     float64
	minLength, maxLength       float64
	frequencyHz, dampingRatio  float64

	gamma, bias float64
	impulse     float64
	mass        float64

	currentLength              float64
	lowerImpulse, upperImpulse float64

	u          Vec2
	rA, rB     Vec2
	invMassA, invMassB float64
	invIA, invIB       float64
}

type DistanceJointDef struct {
	BodyA, BodyB               *RigidBody
	LocalAnchorA, LocalAnchorB Vec2
	Length                     float64
	MinLength, MaxLength       float64
	FrequencyHz, DampingRatio  float64
}

// NewDistanceJointDefFromWorldPoints derives LocalAnchorA/B and Length
// from two world-space anchor points, the common construction path. Min/Max
// length limits are left disabled; set them on the returned def before
// calling NewDistanceJoint if bounded slack is wanted.
func NewDistanceJointDefFromWorldPoints(a, b *RigidBody, anchorA, anchorB Vec2) DistanceJointDef {
	return DistanceJointDef{
		BodyA: a, BodyB: b,
		LocalAnchorA: MulTTV(a.transform, anchorA),
		LocalAnchorB: MulTTV(b.transform, anchorB),
		Length:       anchorB.Sub(anchorA).Len(),
	}
}

func NewDistanceJoint(def DistanceJointDef) *DistanceJoint {
	j := &DistanceJoint{
		jointBase:    jointBase{bodyA: def.BodyA, bodyB: def.BodyB, collideConnected: false},
		localAnchorA: def.LocalAnchorA,
		localAnchorB: def.LocalAnchorB,
		length:       def.Length,
		minLength:    def.MinLength,
		maxLength:    def.MaxLength,
		frequencyHz:  def.FrequencyHz,
		dampingRatio: def.DampingRatio,
	}
	linkJoint(j, def.BodyA, def.BodyB)
	return j
}

func (j *DistanceJoint) initVelocityConstraints(data SolverData) {
	a, b := j.bodyA, j.bodyB
	j.invMassA, j.invMassB = a.invMass, b.invMass
	j.invIA, j.invIB = a.invI, b.invI

	j.rA = MulRV(a.transform.Q, j.localAnchorA.Sub(a.sweep.LocalCenter))
	j.rB = MulRV(b.transform.Q, j.localAnchorB.Sub(b.sweep.LocalCenter))

	d := b.sweep.C.Add(j.rB).Sub(a.sweep.C).Sub(j.rA)
	length := d.Len()
	j.currentLength = length
	if length > linearSlop {
		j.u = d.Mul(1.0 / length)
	} else {
		j.u = Vec2{0, 0}
	}

	crA := Cross2(j.rA, j.u)
	crB := Cross2(j.rB, j.u)
	invMass := j.invMassA + j.invIA*crA*crA + j.invMassB + j.invIB*crB*crB
	if invMass != 0.0 {
		j.mass = 1.0 / invMass
	}

	if j.frequencyHz > 0.0 {
		c := length - j.length
		gamma, beta := softConstraintCoefficients(j.mass, j.frequencyHz, j.dampingRatio, data.Dt)
		j.gamma = gamma
		j.bias = c * beta * data.InvDt

		invMass += j.gamma
		if invMass != 0.0 {
			j.mass = 1.0 / invMass
		}
	} else {
		j.gamma = 0.0
		j.bias = 0.0
	}
}

func (j *DistanceJoint) warmStart(data SolverData) {
	vA, wA := data.velocity(j.bodyA)
	vB, wB := data.velocity(j.bodyB)

	p := j.u.Mul(j.impulse + j.lowerImpulse + j.upperImpulse)
	*vA = vA.Sub(p.Mul(j.invMassA))
	*wA -= j.invIA * Cross2(j.rA, p)
	*vB = vB.Add(p.Mul(j.invMassB))
	*wB += j.invIB * Cross2(j.rB, p)
}

func (j *DistanceJoint) solveVelocityConstraints(data SolverData) {
	vA, wA := data.velocity(j.bodyA)
	vB, wB := data.velocity(j.bodyB)

	vpA := vA.Add(CrossSV(*wA, j.rA))
	vpB := vB.Add(CrossSV(*wB, j.rB))
	cdot := j.u.Dot(vpB.Sub(vpA))

	impulse := -j.mass * (cdot + j.bias + j.gamma*j.impulse)
	j.impulse += impulse

	p := j.u.Mul(impulse)
	*vA = vA.Sub(p.Mul(j.invMassA))
	*wA -= j.invIA * Cross2(j.rA, p)
	*vB = vB.Add(p.Mul(j.invMassB))
	*wB += j.invIB * Cross2(j.rB, p)

	j.solveLimits(data)
}

// solveLimits enforces the optional MinLength/MaxLength bounds as two
// unilateral rows on top of the main length constraint, the same
// predictive-Cdot trick as B2RopeJoint's single upper-only limit, mirrored
// for a lower bound.
func (j *DistanceJoint) solveLimits(data SolverData) {
	vA, wA := data.velocity(j.bodyA)
	vB, wB := data.velocity(j.bodyB)

	if j.minLength > 0.0 {
		vpA := vA.Add(CrossSV(*wA, j.rA))
		vpB := vB.Add(CrossSV(*wB, j.rB))
		c := j.currentLength - j.minLength
		cdot := j.u.Dot(vpB.Sub(vpA))
		if c > 0.0 {
			cdot += data.InvDt * c
		}
		impulse := -j.mass * cdot
		old := j.lowerImpulse
		j.lowerImpulse = math.Max(0.0, old+impulse)
		impulse = j.lowerImpulse - old

		p := j.u.Mul(impulse)
		*vA = vA.Sub(p.Mul(j.invMassA))
		*wA -= j.invIA * Cross2(j.rA, p)
		*vB = vB.Add(p.Mul(j.invMassB))
		*wB += j.invIB * Cross2(j.rB, p)
	}

	if j.maxLength > 0.0 {
		vpA := vA.Add(CrossSV(*wA, j.rA))
		vpB := vB.Add(CrossSV(*wB, j.rB))
		c := j.currentLength - j.maxLength
		cdot := j.u.Dot(vpB.Sub(vpA))
		if c < 0.0 {
			cdot += data.InvDt * c
		}
		impulse := -j.mass * cdot
		old := j.upperImpulse
		j.upperImpulse = math.Min(0.0, old+impulse)
		impulse = j.upperImpulse - old

		p := j.u.Mul(impulse)
		*vA = vA.Sub(p.Mul(j.invMassA))
		*wA -= j.invIA * Cross2(j.rA, p)
		*vB = vB.Add(p.Mul(j.invMassB))
		*wB += j.invIB * Cross2(j.rB, p)
	}
}

func (j *DistanceJoint) solvePositionConstraints(data SolverData) bool {
	if j.frequencyHz > 0.0 {
		// Soft distance joints rely on the velocity bias alone, the
		// teacher's own behavior for a spring rather than a hard rod.
		return true
	}

	a, b := j.bodyA, j.bodyB
	posA, angA := data.position(a)
	posB, angB := data.position(b)

	rA := MulRV(MakeRot(*angA), j.localAnchorA.Sub(a.sweep.LocalCenter))
	rB := MulRV(MakeRot(*angB), j.localAnchorB.Sub(b.sweep.LocalCenter))

	d := posB.Add(rB).Sub(*posA).Sub(rA)
	length := d.Len()
	var u Vec2
	if length > epsilon {
		u = d.Mul(1.0 / length)
	}
	c := length - j.length
	switch {
	case j.minLength > 0.0 && length < j.minLength:
		c = length - j.minLength
	case j.maxLength > 0.0 && length > j.maxLength:
		c = length - j.maxLength
	}
	c = FloatClamp(c, -maxLinearCorrection, maxLinearCorrection)

	crA := Cross2(rA, u)
	crB := Cross2(rB, u)
	invMass := j.invMassA + j.invIA*crA*crA + j.invMassB + j.invIB*crB*crB
	var impulse float64
	if invMass != 0.0 {
		impulse = -c / invMass
	}

	p := u.Mul(impulse)
	*posA = posA.Sub(p.Mul(j.invMassA))
	*angA -= j.invIA * Cross2(rA, p)
	*posB = posB.Add(p.Mul(j.invMassB))
	*angB += j.invIB * Cross2(rB, p)

	return math.Abs(c) < linearSlop
}
