package kinetic2d

import "math"

// solveIslands flood-fills the body/contact/joint graph into independent
// islands (bodies connected by a touching contact or an active joint) and
// solves each one, exactly the seeding/propagation loop the teacher's
// World.Solve runs with an explicit DFS stack over bodies.
func (w *World) solveIslands(dt float64) {
	w.scratch.reset()

	for _, b := range w.bodies {
		b.flags &^= flagIsland
	}
	for _, c := range w.contactManager.contacts {
		c.flags &^= contactFlagIsland
	}
	for _, j := range w.joints {
		j.clearIslandFlag()
	}

	stack := make([]*RigidBody, 0, len(w.bodies))

	for _, seed := range w.bodies {
		if seed.flags&flagIsland != 0 {
			continue
		}
		if seed.bodyType == StaticBody || !seed.IsAwake() {
			continue
		}

		var island struct {
			bodies   []*RigidBody
			contacts []*Contact
			joints   []Joint
		}

		stack = stack[:0]
		stack = append(stack, seed)
		seed.flags |= flagIsland

		for len(stack) > 0 {
			b := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			island.bodies = append(island.bodies, b)

			if b.bodyType == StaticBody {
				continue
			}
			if !b.IsAwake() {
				b.SetAwake(true)
			}

			for _, edge := range b.contactEdges {
				c := edge.contact
				if c.flags&contactFlagIsland != 0 {
					continue
				}
				if !c.IsTouching() || c.flags&contactFlagEnabled == 0 {
					continue
				}
				if c.ColliderA.isSensor || c.ColliderB.isSensor {
					continue
				}
				c.flags |= contactFlagIsland
				island.contacts = append(island.contacts, c)

				other := edge.other
				if other.flags&flagIsland == 0 {
					other.flags |= flagIsland
					stack = append(stack, other)
				}
			}

			for _, edge := range b.jointEdges {
				j := edge.joint
				if j.hasIslandFlag() {
					continue
				}
				j.setIslandFlag()
				island.joints = append(island.joints, j)

				other := edge.other
				if other.flags&flagIsland == 0 {
					other.flags |= flagIsland
					stack = append(stack, other)
				}
			}
		}

		solveIsland(island.bodies, island.contacts, island.joints, dt, w.settings, w.scratch)

		// Static bodies may touch several islands; release them so the
		// next island's fill can include them too.
		for _, b := range island.bodies {
			if b.bodyType == StaticBody {
				b.flags &^= flagIsland
			}
		}
	}
}

// solveIsland runs the per-island pipeline: seed velocities from external
// forces and gravity, prepare constraints, iterate velocity solving,
// integrate positions, iterate position solving, then update sleep
// bookkeeping across the whole island (an island sleeps only when every
// body in it is below the velocity thresholds for the required duration).
func solveIsland(bodies []*RigidBody, contacts []*Contact, joints []Joint, dt float64, settings Settings, buf *scratch) {
	n := len(bodies)

	// Borrow this island's slot of the step-scoped scratch buffers rather
	// than allocating a fresh slice per island; positions/velocities point
	// into buf's backing array for the rest of this island's solve.
	base := len(buf.positions)
	buf.positions = append(buf.positions, make([]islandPosition, n)...)
	buf.velocities = append(buf.velocities, make([]islandVelocity, n)...)

	positions := make([]*islandPosition, n)
	velocities := make([]*islandVelocity, n)
	indices := make(map[*RigidBody]int, n)

	for i, b := range bodies {
		indices[b] = i
		positions[i] = &buf.positions[base+i]
		velocities[i] = &buf.velocities[base+i]

		*positions[i] = islandPosition{c: b.sweep.C, a: b.sweep.A}
		*velocities[i] = islandVelocity{v: b.linearVelocity, w: b.angularVelocity}

		if b.bodyType == DynamicBody {
			v := velocities[i]
			gravity := Vec2{0, 0}
			if settings.ApplyGravity {
				gravity = settings.Gravity.Mul(b.gravityScale)
			}
			v.v = v.v.Add(gravity.Add(b.force.Mul(b.invMass)).Mul(dt))
			v.w += dt * b.invI * b.torque

			v.v = v.v.Mul(1.0 / (1.0 + dt*b.linearDamping))
			v.w *= 1.0 / (1.0 + dt*b.angularDamping)
		}
	}

	indexOf := func(b *RigidBody) int { return indices[b] }

	solver := newContactSolver(contacts, positions, velocities, dt, settings, indexOf)

	jointSolverData := SolverData{Dt: dt, InvDt: safeInv(dt), Positions: positions, Velocities: velocities, IndexOf: indexOf}
	for _, j := range joints {
		j.initVelocityConstraints(jointSolverData)
	}

	if settings.WarmStarting {
		solver.warmStart()
	}
	for _, j := range joints {
		j.warmStart(jointSolverData)
	}

	for iter := 0; iter < settings.VelocityIterations; iter++ {
		for _, j := range joints {
			j.solveVelocityConstraints(jointSolverData)
		}
		solver.solveVelocityConstraints()
	}

	solver.storeImpulses()

	for i := range bodies {
		positions[i].c = positions[i].c.Add(velocities[i].v.Mul(dt))
		positions[i].a += velocities[i].w * dt
	}

	for iter := 0; iter < settings.PositionIterations; iter++ {
		contactsOK := true
		if settings.PositionCorrection {
			contactsOK = solver.solvePositionConstraints(settings)
		}
		jointsOK := true
		for _, j := range joints {
			ok := j.solvePositionConstraints(jointSolverData)
			jointsOK = jointsOK && ok
		}
		if contactsOK && jointsOK {
			break
		}
	}

	for i, b := range bodies {
		b.sweep.C = positions[i].c
		b.sweep.A = positions[i].a
		b.linearVelocity = velocities[i].v
		b.angularVelocity = velocities[i].w
		b.synchronizeTransform()
	}

	if settings.Sleeping {
		minSleepTime := math.MaxFloat64
		for _, b := range bodies {
			if b.bodyType == StaticBody {
				continue
			}
			b.updateSleep(dt, settings)
			minSleepTime = math.Min(minSleepTime, b.sleepTime)
		}

		if minSleepTime >= settings.SleepTimeThreshold {
			for _, b := range bodies {
				b.SetAwake(false)
			}
		}
	}
}

func safeInv(dt float64) float64 {
	if dt > 0.0 {
		return 1.0 / dt
	}
	return 0.0
}
