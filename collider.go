package kinetic2d

// Filter controls which collider pairs the broad phase lets reach the
// narrow phase: two colliders collide only if their category/mask bits
// intersect, unless a shared non-zero group index overrides that.
type Filter struct {
	CategoryBits uint16
	MaskBits     uint16
	GroupIndex   int16
}

func DefaultFilter() Filter {
	return Filter{CategoryBits: 0x0001, MaskBits: 0xFFFF, GroupIndex: 0}
}

// ShouldCollide applies the category/mask/group policy, mirroring the
// teacher's B2ContactFilter default behavior.
func (f Filter) ShouldCollide(other Filter) bool {
	if f.GroupIndex == other.GroupIndex && f.GroupIndex != 0 {
		return f.GroupIndex > 0
	}
	return f.CategoryBits&other.MaskBits != 0 && other.CategoryBits&f.MaskBits != 0
}

// ColliderDef is the constructor-time configuration for a Collider,
// matching the teacher's "populated struct, constructed via a New*
// function with defaults" convention.
type ColliderDef struct {
	Shape       Shape
	Density     float64
	Friction    float64
	Restitution float64
	IsSensor    bool
	Filter      Filter
}

func NewColliderDef(shape Shape) ColliderDef {
	return ColliderDef{
		Shape:       shape,
		Density:     1.0,
		Friction:    0.3,
		Restitution: 0.0,
		Filter:      DefaultFilter(),
	}
}

// Collider attaches a Shape to a RigidBody with material and filtering
// properties, and owns that shape's broad-phase proxy.
type Collider struct {
	body *RigidBody
	shape Shape

	density     float64
	friction    float64
	restitution float64
	isSensor    bool
	filter      Filter

	proxyID int
	aabb    AABB

	userData interface{}
}

func newCollider(body *RigidBody, def ColliderDef) *Collider {
	return &Collider{
		body:        body,
		shape:       def.Shape,
		density:     def.Density,
		friction:    def.Friction,
		restitution: def.Restitution,
		isSensor:    def.IsSensor,
		filter:      def.Filter,
		proxyID:     nullNode,
	}
}

func (c *Collider) Shape() Shape     { return c.shape }
func (c *Collider) Body() *RigidBody { return c.body }
func (c *Collider) Density() float64 { return c.density }
func (c *Collider) Friction() float64 { return c.friction }
func (c *Collider) Restitution() float64 { return c.restitution }
func (c *Collider) IsSensor() bool   { return c.isSensor }
func (c *Collider) Filter() Filter   { return c.filter }
func (c *Collider) AABB() AABB       { return c.aabb }

func (c *Collider) SetFilter(f Filter) {
	c.filter = f
}

func (c *Collider) synchronize(tree *DynamicTree, xf1, xf2 Transform) {
	aabb1 := c.shape.ComputeAABB(xf1)
	aabb2 := c.shape.ComputeAABB(xf2)
	c.aabb = Combine(aabb1, aabb2)
	displacement := xf2.P.Sub(xf1.P)
	tree.MoveProxy(c.proxyID, c.aabb, displacement)
}

func (c *Collider) TestPoint(p Vec2) bool {
	return c.shape.TestPoint(c.body.transform, p)
}
