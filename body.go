package kinetic2d

import "math"

type BodyType int

const (
	StaticBody BodyType = iota
	KinematicBody
	DynamicBody
)

// BodyDef is the constructor-time configuration for a RigidBody, following
// the teacher's "def struct with a constructor that fills in defaults"
// convention.
type BodyDef struct {
	Type             BodyType
	Position         Vec2
	Angle            float64
	LinearVelocity   Vec2
	AngularVelocity  float64
	LinearDamping    float64
	AngularDamping   float64
	GravityScale     float64
	FixedRotation    bool
	AllowSleep       bool
	Awake            bool
	UserData         interface{}
}

func NewBodyDef() BodyDef {
	return BodyDef{
		Type:         StaticBody,
		GravityScale: 1.0,
		AllowSleep:   true,
		Awake:        true,
	}
}

const (
	flagIsland = 1 << iota
	flagAwake
	flagAutoSleep
	flagFixedRotation
)

// RigidBody is one simulated body: a pose (Transform/Sweep), a velocity
// pair, accumulated mass properties over its colliders, and bookkeeping
// for island assignment and sleeping.
type RigidBody struct {
	world *World

	bodyType BodyType

	transform Transform
	sweep     Sweep

	linearVelocity  Vec2
	angularVelocity float64

	force  Vec2
	torque float64

	linearDamping  float64
	angularDamping float64
	gravityScale   float64

	mass, invMass float64
	i, invI       float64

	sleepTime float64
	flags     uint32

	colliders     []*Collider
	contactEdges  []*contactEdge
	jointEdges    []*jointEdge

	islandIndex int

	userData interface{}
}

func newBody(world *World, def BodyDef) *RigidBody {
	b := &RigidBody{
		world:           world,
		bodyType:        def.Type,
		linearVelocity:  def.LinearVelocity,
		angularVelocity: def.AngularVelocity,
		linearDamping:   def.LinearDamping,
		angularDamping:  def.AngularDamping,
		gravityScale:    def.GravityScale,
		userData:        def.UserData,
	}
	b.transform.P = def.Position
	b.transform.Q = MakeRot(def.Angle)
	b.sweep.C0 = def.Position
	b.sweep.C = def.Position
	b.sweep.A0 = def.Angle
	b.sweep.A = def.Angle

	if def.FixedRotation {
		b.flags |= flagFixedRotation
	}
	if def.AllowSleep {
		b.flags |= flagAutoSleep
	}
	if def.Awake || def.Type != StaticBody {
		b.flags |= flagAwake
	}

	b.resetMassData()
	return b
}

func (b *RigidBody) Type() BodyType        { return b.bodyType }
func (b *RigidBody) Position() Vec2        { return b.transform.P }
func (b *RigidBody) Angle() float64        { return b.sweep.A }
func (b *RigidBody) Transform() Transform  { return b.transform }
func (b *RigidBody) LinearVelocity() Vec2  { return b.linearVelocity }
func (b *RigidBody) AngularVelocity() float64 { return b.angularVelocity }
func (b *RigidBody) Mass() float64         { return b.mass }
func (b *RigidBody) InertiaInv() float64   { return b.invI }
func (b *RigidBody) WorldCenter() Vec2     { return b.sweep.C }
func (b *RigidBody) UserData() interface{} { return b.userData }

func (b *RigidBody) IsAwake() bool { return b.flags&flagAwake != 0 }

func (b *RigidBody) SetAwake(awake bool) {
	if awake {
		b.flags |= flagAwake
		b.sleepTime = 0
	} else {
		b.flags &^= flagAwake
		b.sleepTime = 0
		b.linearVelocity = Vec2{0, 0}
		b.angularVelocity = 0
		b.force = Vec2{0, 0}
		b.torque = 0
	}
}

func (b *RigidBody) SetLinearVelocity(v Vec2) {
	if b.bodyType == StaticBody {
		return
	}
	if v.Dot(v) > 0.0 {
		b.SetAwake(true)
	}
	b.linearVelocity = v
}

func (b *RigidBody) SetAngularVelocity(w float64) {
	if b.bodyType == StaticBody {
		return
	}
	if w*w > 0.0 {
		b.SetAwake(true)
	}
	b.angularVelocity = w
}

func (b *RigidBody) ApplyForce(force, point Vec2, wake bool) {
	if b.bodyType != DynamicBody {
		return
	}
	if wake && !b.IsAwake() {
		b.SetAwake(true)
	}
	if !b.IsAwake() {
		return
	}
	b.force = b.force.Add(force)
	b.torque += Cross2(point.Sub(b.sweep.C), force)
}

func (b *RigidBody) ApplyForceToCenter(force Vec2, wake bool) {
	if b.bodyType != DynamicBody {
		return
	}
	if wake && !b.IsAwake() {
		b.SetAwake(true)
	}
	if !b.IsAwake() {
		return
	}
	b.force = b.force.Add(force)
}

func (b *RigidBody) ApplyTorque(torque float64, wake bool) {
	if b.bodyType != DynamicBody {
		return
	}
	if wake && !b.IsAwake() {
		b.SetAwake(true)
	}
	if !b.IsAwake() {
		return
	}
	b.torque += torque
}

func (b *RigidBody) ApplyLinearImpulse(impulse, point Vec2, wake bool) {
	if b.bodyType != DynamicBody {
		return
	}
	if wake && !b.IsAwake() {
		b.SetAwake(true)
	}
	if !b.IsAwake() {
		return
	}
	b.linearVelocity = b.linearVelocity.Add(impulse.Mul(b.invMass))
	b.angularVelocity += b.invI * Cross2(point.Sub(b.sweep.C), impulse)
}

func (b *RigidBody) ApplyAngularImpulse(impulse float64, wake bool) {
	if b.bodyType != DynamicBody {
		return
	}
	if wake && !b.IsAwake() {
		b.SetAwake(true)
	}
	if !b.IsAwake() {
		return
	}
	b.angularVelocity += b.invI * impulse
}

// CreateCollider attaches a new Collider to the body and inserts its
// broad-phase proxy.
func (b *RigidBody) CreateCollider(def ColliderDef) *Collider {
	c := newCollider(b, def)
	b.colliders = append(b.colliders, c)

	aabb := c.shape.ComputeAABB(b.transform)
	c.aabb = aabb
	c.proxyID = b.world.broadPhase.CreateProxy(aabb, c)

	b.resetMassData()
	return c
}

func (b *RigidBody) DestroyCollider(c *Collider) {
	for i, other := range b.colliders {
		if other == c {
			b.colliders[i] = b.colliders[len(b.colliders)-1]
			b.colliders = b.colliders[:len(b.colliders)-1]
			break
		}
	}
	b.world.broadPhase.DestroyProxy(c.proxyID)
	b.resetMassData()
}

// resetMassData recomputes mass/center/inertia from every attached
// collider's ComputeMass output, falling back to unit mass for dynamic
// bodies with no colliders yet (matching the teacher's guard against a
// zero-mass dynamic body).
func (b *RigidBody) resetMassData() {
	b.mass = 0
	b.invMass = 0
	b.i = 0
	b.invI = 0
	b.sweep.LocalCenter = Vec2{0, 0}

	if b.bodyType == StaticBody || b.bodyType == KinematicBody {
		b.sweep.C0 = b.transform.P
		b.sweep.C = b.transform.P
		return
	}

	localCenter := Vec2{0, 0}
	for _, c := range b.colliders {
		if c.density == 0 {
			continue
		}
		md := c.shape.ComputeMass(c.density)
		b.mass += md.Mass
		localCenter = localCenter.Add(md.Center.Mul(md.Mass))
		b.i += md.I
	}

	if b.mass > 0.0 {
		b.invMass = 1.0 / b.mass
		localCenter = localCenter.Mul(b.invMass)
	} else {
		b.mass = 1.0
		b.invMass = 1.0
	}

	if b.i > 0.0 && b.flags&flagFixedRotation == 0 {
		b.i -= b.mass * localCenter.Dot(localCenter)
		b.invI = 1.0 / b.i
	} else {
		b.i = 0
		b.invI = 0
	}

	oldCenter := b.sweep.C
	b.sweep.LocalCenter = localCenter
	b.sweep.C = MulTV(b.transform, localCenter)
	b.sweep.C0 = b.sweep.C

	b.linearVelocity = b.linearVelocity.Add(CrossSV(b.angularVelocity, b.sweep.C.Sub(oldCenter)))
}

// synchronizeTransform recomputes the transform's rotation/position from
// the sweep's current angle/center, called after every position
// integration step.
func (b *RigidBody) synchronizeTransform() {
	b.transform.Q = MakeRot(b.sweep.A)
	b.transform.P = b.sweep.C.Sub(MulRV(b.transform.Q, b.sweep.LocalCenter))
}

func (b *RigidBody) synchronizeColliders() {
	xf1 := Transform{
		Q: MakeRot(b.sweep.A0),
	}
	xf1.P = b.sweep.C0.Sub(MulRV(xf1.Q, b.sweep.LocalCenter))

	for _, c := range b.colliders {
		c.synchronize(b.world.broadPhase, xf1, b.transform)
	}
}

func (b *RigidBody) shouldCollide(other *RigidBody) bool {
	if b.bodyType != DynamicBody && other.bodyType != DynamicBody {
		return false
	}
	for _, je := range b.jointEdges {
		if je.other == other && !je.joint.CollideConnected() {
			return false
		}
	}
	return true
}

func (b *RigidBody) updateSleep(dt float64, settings Settings) {
	if !settings.Sleeping || b.flags&flagAutoSleep == 0 || b.bodyType == StaticBody {
		b.sleepTime = 0
		return
	}

	linTolSqr := settings.SleepLinearTol * settings.SleepLinearTol
	if b.linearVelocity.Dot(b.linearVelocity) > linTolSqr ||
		math.Abs(b.angularVelocity) > settings.SleepAngularTol {
		b.sleepTime = 0
		return
	}

	b.sleepTime += dt
}
