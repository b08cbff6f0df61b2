package kinetic2d

// SolverData is the per-island state every joint's constraint methods
// read and write, threaded through instead of a package-level solver
// object so islands can be solved independently.
type SolverData struct {
	Dt, InvDt  float64
	Positions  []*islandPosition
	Velocities []*islandVelocity
	IndexOf    func(*RigidBody) int
}

func (d SolverData) velocity(b *RigidBody) (*Vec2, *float64) {
	v := d.Velocities[d.IndexOf(b)]
	return &v.v, &v.w
}

func (d SolverData) position(b *RigidBody) (*Vec2, *float64) {
	p := d.Positions[d.IndexOf(b)]
	return &p.c, &p.a
}

// jointEdge links a body into the joint graph the island solver
// flood-fills over, mirroring contactEdge.
type jointEdge struct {
	other *RigidBody
	joint Joint
}

// Joint is the capability set every constraint type implements: velocity
// and position constraint solving against a shared SolverData, and the
// island/collision-filtering bookkeeping the world needs regardless of
// joint kind.
type Joint interface {
	BodyA() *RigidBody
	BodyB() *RigidBody
	CollideConnected() bool

	initVelocityConstraints(data SolverData)
	warmStart(data SolverData)
	solveVelocityConstraints(data SolverData)
	solvePositionConstraints(data SolverData) bool

	hasIslandFlag() bool
	setIslandFlag()
	clearIslandFlag()
}

// jointBase factors the bookkeeping common to every joint type so each
// concrete joint only implements the constraint math.
type jointBase struct {
	bodyA, bodyB      *RigidBody
	collideConnected  bool
	islandFlag        bool
}

func (j *jointBase) BodyA() *RigidBody         { return j.bodyA }
func (j *jointBase) BodyB() *RigidBody         { return j.bodyB }
func (j *jointBase) CollideConnected() bool    { return j.collideConnected }
func (j *jointBase) hasIslandFlag() bool       { return j.islandFlag }
func (j *jointBase) setIslandFlag()            { j.islandFlag = true }
func (j *jointBase) clearIslandFlag()          { j.islandFlag = false }

// softConstraintCoefficients derives (gamma, beta) from a soft constraint's
// frequency and damping ratio, the formula shared by grab, distance, weld,
// and angle: omega = 2*pi*f, k = m*omega^2, c = 2*m*zeta*omega,
// gamma = 1/(h*(c+h*k)), beta = h*k*gamma.
func softConstraintCoefficients(mass, frequencyHz, dampingRatio, h float64) (gamma, beta float64) {
	if frequencyHz <= 0.0 {
		return 0.0, 0.0
	}
	omega := 2.0 * 3.14159265358979323846 * frequencyHz
	k := mass * omega * omega
	c := 2.0 * mass * dampingRatio * omega

	gamma = h * (c + h*k)
	if gamma != 0.0 {
		gamma = 1.0 / gamma
	}
	beta = h * k * gamma
	return gamma, beta
}

func linkJoint(j Joint, a, b *RigidBody) {
	a.jointEdges = append(a.jointEdges, &jointEdge{other: b, joint: j})
	b.jointEdges = append(b.jointEdges, &jointEdge{other: a, joint: j})
}

func unlinkJoint(j Joint, a, b *RigidBody) {
	removeJointEdge(&a.jointEdges, j)
	removeJointEdge(&b.jointEdges, j)
}

func removeJointEdge(edges *[]*jointEdge, j Joint) {
	for i, e := range *edges {
		if e.joint == j {
			(*edges)[i] = (*edges)[len(*edges)-1]
			*edges = (*edges)[:len(*edges)-1]
			return
		}
	}
}
