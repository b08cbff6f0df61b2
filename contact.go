package kinetic2d

import "math"

// contactEdge links a body into the contact graph the island solver
// flood-fills over.
type contactEdge struct {
	other   *RigidBody
	contact *Contact
	prev    *contactEdge
	next    *contactEdge
}

const (
	contactFlagTouching = 1 << iota
	contactFlagEnabled
	contactFlagIsland
)

// Contact tracks the persistent narrow-phase state between two colliders
// whose fat AABBs overlap: the current manifold, accumulated impulses for
// warm starting, and touching/enabled flags the listener transitions key
// off of.
type Contact struct {
	ColliderA, ColliderB *Collider

	manifold Manifold
	flags    uint32

	friction    float64
	restitution float64

	edgeA, edgeB contactEdge

	toiCount int
}

func newContact(a, b *Collider) *Contact {
	c := &Contact{
		ColliderA: a,
		ColliderB: b,
		flags:     contactFlagEnabled,
	}
	c.friction = mixFriction(a.friction, b.friction)
	c.restitution = mixRestitution(a.restitution, b.restitution)
	c.edgeA = contactEdge{other: b.body, contact: c}
	c.edgeB = contactEdge{other: a.body, contact: c}
	return c
}

func mixFriction(a, b float64) float64 {
	return math.Sqrt(a * b)
}

func mixRestitution(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func (c *Contact) IsTouching() bool { return c.flags&contactFlagTouching != 0 }
func (c *Contact) Manifold() Manifold { return c.manifold }

func (c *Contact) SetEnabled(enabled bool) {
	if enabled {
		c.flags |= contactFlagEnabled
	} else {
		c.flags &^= contactFlagEnabled
	}
}

// update runs the teacher's five-step contact refresh: save old touching
// state, compute the new manifold, clear accumulated impulses for points
// that disappeared, carry warm-start impulses over for points that
// persisted (matched by feature ID), and fire the listener transition.
func (c *Contact) update(listener ContactListener) {
	oldManifold := c.manifold
	wasTouching := c.IsTouching()

	touching := false
	if c.flags&contactFlagEnabled != 0 {
		xfA := c.ColliderA.body.transform
		xfB := c.ColliderB.body.transform
		m := Collide(c.ColliderA.shape, xfA, c.ColliderB.shape, xfB)
		touching = len(m.Points) > 0

		for i := range m.Points {
			m.Points[i].NormalImpulse = 0
			m.Points[i].TangentImpulse = 0
			for _, old := range oldManifold.Points {
				if old.ID == m.Points[i].ID {
					m.Points[i].NormalImpulse = old.NormalImpulse
					m.Points[i].TangentImpulse = old.TangentImpulse
					break
				}
			}
		}

		c.manifold = m
	} else {
		c.manifold = Manifold{}
	}

	if touching {
		c.flags |= contactFlagTouching
	} else {
		c.flags &^= contactFlagTouching
	}

	if listener == nil {
		return
	}
	if !wasTouching && touching {
		listener.BeginContact(c)
	} else if wasTouching && !touching {
		listener.EndContact(c)
	}
	if touching {
		listener.PreSolve(c, oldManifold)
	}
}
