package kinetic2d

import "github.com/rs/zerolog"

// World owns every body, collider, contact, and joint in one simulation
// and drives the Step pipeline: broad-phase pair discovery, narrow-phase
// manifold refresh, island assembly, integrate-and-solve, then broad-phase
// housekeeping — the same six stages the teacher's World.Step runs, with
// TOI solving dropped (a shape-cast primitive is offered for the
// occasional fast-body query instead of continuous collision every step).
type World struct {
	settings Settings

	bodies []*RigidBody
	joints []Joint

	broadPhase     *DynamicTree
	contactManager *contactManager
	scratch        *scratch

	locked bool

	logger zerolog.Logger
}

// NewWorld constructs a World with the given settings. A zero-value
// zerolog.Logger disables lifecycle logging entirely; pass a configured
// one via SetLogger to observe body/joint create and destroy events.
func NewWorld(settings Settings) *World {
	tree := NewDynamicTree()
	w := &World{
		settings:       settings,
		broadPhase:     tree,
		contactManager: newContactManager(tree),
		scratch:        newScratch(),
	}
	return w
}

func (w *World) SetLogger(logger zerolog.Logger) { w.logger = logger }
func (w *World) SetContactListener(l ContactListener) { w.contactManager.listener = l }
func (w *World) Settings() Settings { return w.settings }
func (w *World) SetSettings(s Settings) { w.settings = s }

func (w *World) CreateBody(def BodyDef) *RigidBody {
	if w.locked {
		panic("kinetic2d: CreateBody called during Step")
	}
	b := newBody(w, def)
	w.bodies = append(w.bodies, b)
	w.logger.Debug().Msg("body created")
	return b
}

func (w *World) DestroyBody(b *RigidBody) {
	if w.locked {
		panic("kinetic2d: DestroyBody called during Step")
	}

	for len(b.jointEdges) > 0 {
		je := b.jointEdges[0]
		w.DestroyJoint(je.joint)
	}

	for len(b.contactEdges) > 0 {
		ce := b.contactEdges[0]
		w.contactManager.destroy(ce.contact)
	}

	for _, c := range b.colliders {
		w.broadPhase.DestroyProxy(c.proxyID)
	}

	for i, other := range w.bodies {
		if other == b {
			w.bodies[i] = w.bodies[len(w.bodies)-1]
			w.bodies = w.bodies[:len(w.bodies)-1]
			break
		}
	}
	w.logger.Debug().Msg("body destroyed")
}

func (w *World) CreateJoint(j Joint) {
	w.joints = append(w.joints, j)
	w.logger.Debug().Msg("joint created")
}

func (w *World) DestroyJoint(j Joint) {
	unlinkJoint(j, j.BodyA(), j.BodyB())
	for i, other := range w.joints {
		if other == j {
			w.joints[i] = w.joints[len(w.joints)-1]
			w.joints = w.joints[:len(w.joints)-1]
			break
		}
	}
	w.logger.Debug().Msg("joint destroyed")
}

// Step advances the simulation by dt: broad-phase pair discovery, narrow
// phase, island solve (integrate + velocity iterations + position
// iterations + sleep), then collider re-synchronization against the
// broad phase.
func (w *World) Step(dt float64) {
	w.locked = true
	defer func() { w.locked = false }()

	w.contactManager.findNewContacts()
	w.contactManager.collide()

	if dt > 0.0 {
		w.solveIslands(dt)
	}

	for _, b := range w.bodies {
		if b.bodyType == StaticBody {
			continue
		}
		b.synchronizeColliders()
	}

	w.pruneOutOfBounds()
}

// pruneOutOfBounds destroys any body whose AABB has left settings.ValidRegion,
// when a non-zero region is configured.
func (w *World) pruneOutOfBounds() {
	region := w.settings.ValidRegion
	if region == (AABB{}) {
		return
	}

	var toRemove []*RigidBody
	for _, b := range w.bodies {
		for _, c := range b.colliders {
			if !Overlap(c.aabb, region) {
				toRemove = append(toRemove, b)
				break
			}
		}
	}

	w.locked = false
	for _, b := range toRemove {
		w.DestroyBody(b)
	}
	w.locked = true
}

// Query invokes callback for every collider whose fat AABB overlaps aabb.
func (w *World) Query(aabb AABB, callback func(c *Collider) bool) {
	w.broadPhase.Query(aabb, func(id int) bool {
		return callback(w.broadPhase.GetUserData(id).(*Collider))
	})
}

// RayCast invokes callback for every collider the segment p1->p2 might
// intersect, refining the broad-phase hit against the collider's actual
// shape before calling back.
func (w *World) RayCast(p1, p2 Vec2, callback func(c *Collider, point, normal Vec2, fraction float64) float64) {
	input := RayCastInput{P1: p1, P2: p2, MaxFraction: 1.0}
	w.broadPhase.RayCast(input, func(id int, in RayCastInput) float64 {
		c := w.broadPhase.GetUserData(id).(*Collider)
		out := c.shape.RayCast(in, c.body.transform)
		if !out.Hit {
			return in.MaxFraction
		}
		point := in.P1.Add(in.P2.Sub(in.P1).Mul(out.Fraction))
		return callback(c, point, out.Normal, out.Fraction)
	})
}

// ComputeDistance runs GJK between two colliders' current world poses,
// exposed directly since it's useful outside of contact generation (e.g.
// broad-phase-adjacent gameplay queries).
func (w *World) ComputeDistance(a, b *Collider) DistanceOutput {
	proxyA := a.shape.Proxy()
	proxyB := b.shape.Proxy()
	cache := &SimplexCache{}
	return Distance(DistanceInput{
		ProxyA: &proxyA, ProxyB: &proxyB,
		TransformA: a.body.transform, TransformB: b.body.transform,
		UseRadii: true,
	}, cache)
}

// ShapeCast sweeps a Collider's shape along displacement and reports the
// first collider it would hit, if any. The broad phase narrows candidates
// by their swept fat AABB; each candidate is then resolved with the
// package-level ShapeCast GJK sweep, the continuous-collision primitive
// this engine offers in place of full per-step TOI solving.
func (w *World) ShapeCast(c *Collider, displacement Vec2) (hit *Collider, out ShapeCastOutput) {
	proxy := c.shape.Proxy()
	fatAABB := c.shape.ComputeAABB(c.body.transform)
	sweptAABB := Combine(fatAABB, AABB{
		Lower: fatAABB.Lower.Add(displacement),
		Upper: fatAABB.Upper.Add(displacement),
	})

	best := ShapeCastOutput{T: 1.0}
	var bestCollider *Collider

	w.broadPhase.Query(sweptAABB, func(id int) bool {
		other := w.broadPhase.GetUserData(id).(*Collider)
		if other == c {
			return true
		}
		otherProxy := other.shape.Proxy()

		candidate := ShapeCast(ShapeCastInput{
			ProxyA: &proxy, TransformA: c.body.transform, TranslationA: displacement,
			ProxyB: &otherProxy, TransformB: other.body.transform,
		})
		if candidate.Hit && candidate.T < best.T {
			best = candidate
			bestCollider = other
		}
		return true
	})

	if bestCollider == nil {
		return nil, ShapeCastOutput{T: 1.0}
	}
	return bestCollider, best
}
