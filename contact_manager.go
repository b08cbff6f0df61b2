package kinetic2d

// contactPairKey identifies a collider pair independent of A/B ordering,
// used to dedupe candidate pairs the broad phase reports more than once.
type contactPairKey struct {
	a, b *Collider
}

// contactManager owns the contact set and the broad-phase query that
// discovers new candidate pairs, mirroring the teacher's split between
// FindNewContacts (new pairs) and Collide (narrow-phase refresh of
// existing pairs).
type contactManager struct {
	broadPhase *DynamicTree
	contacts   map[contactPairKey]*Contact
	listener   ContactListener
}

func newContactManager(tree *DynamicTree) *contactManager {
	return &contactManager{
		broadPhase: tree,
		contacts:   make(map[contactPairKey]*Contact),
	}
}

func orderedPair(a, b *Collider) contactPairKey {
	if a.proxyID <= b.proxyID {
		return contactPairKey{a, b}
	}
	return contactPairKey{b, a}
}

// addPair creates a Contact for a newly discovered candidate pair unless
// one already exists, the two colliders belong to the same body, the
// bodies are joined with collision disabled, or the filter rejects them.
func (m *contactManager) addPair(a, b *Collider) {
	if a == b || a.body == b.body {
		return
	}
	key := orderedPair(a, b)
	if _, ok := m.contacts[key]; ok {
		return
	}
	if !a.filter.ShouldCollide(b.filter) {
		return
	}
	if !a.body.shouldCollide(b.body) {
		return
	}

	c := newContact(key.a, key.b)
	m.contacts[key] = c

	key.a.body.contactEdges = append(key.a.body.contactEdges, &c.edgeA)
	key.b.body.contactEdges = append(key.b.body.contactEdges, &c.edgeB)
}

// findNewContacts asks the broad phase for every pair of overlapping fat
// AABBs and lets addPair filter/dedupe them.
func (m *contactManager) findNewContacts() {
	// The teacher queries per-moved-proxy; this repo's broad phase
	// doesn't track a separate "moved" buffer, so findNewContacts instead
	// does a full pairwise AABB sweep restricted to overlapping leaves,
	// acceptable at this engine's scale since it still only pays for
	// candidate pairs the tree reports as overlapping, not all N^2 pairs.
	seen := make(map[contactPairKey]bool)
	m.broadPhase.Query(AABB{Lower: Vec2{-maxFloat, -maxFloat}, Upper: Vec2{maxFloat, maxFloat}}, func(idA int) bool {
		colliderA := m.broadPhase.GetUserData(idA).(*Collider)
		aabbA := m.broadPhase.GetFatAABB(idA)
		m.broadPhase.Query(aabbA, func(idB int) bool {
			if idA == idB {
				return true
			}
			colliderB := m.broadPhase.GetUserData(idB).(*Collider)
			key := orderedPair(colliderA, colliderB)
			if seen[key] {
				return true
			}
			seen[key] = true
			m.addPair(colliderA, colliderB)
			return true
		})
		return true
	})
}

// destroy removes a contact (broad-phase loss or manual teardown),
// unlinking it from both bodies' contact edge lists and firing EndContact
// if it was touching.
func (m *contactManager) destroy(c *Contact) {
	if c.IsTouching() && m.listener != nil {
		m.listener.EndContact(c)
	}

	removeEdge(&c.ColliderA.body.contactEdges, &c.edgeA)
	removeEdge(&c.ColliderB.body.contactEdges, &c.edgeB)

	key := orderedPair(c.ColliderA, c.ColliderB)
	delete(m.contacts, key)
}

func removeEdge(edges *[]*contactEdge, target *contactEdge) {
	for i, e := range *edges {
		if e == target {
			(*edges)[i] = (*edges)[len(*edges)-1]
			*edges = (*edges)[:len(*edges)-1]
			return
		}
	}
}

// collide refreshes every contact's manifold and destroys any whose
// colliders' fat AABBs no longer overlap.
func (m *contactManager) collide() {
	for _, c := range m.contacts {
		bodyA := c.ColliderA.body
		bodyB := c.ColliderB.body

		activeA := bodyA.bodyType != StaticBody && bodyA.IsAwake()
		activeB := bodyB.bodyType != StaticBody && bodyB.IsAwake()
		if !activeA && !activeB {
			continue
		}

		if !Overlap(m.broadPhase.GetFatAABB(c.ColliderA.proxyID), m.broadPhase.GetFatAABB(c.ColliderB.proxyID)) {
			m.destroy(c)
			continue
		}

		c.update(m.listener)
	}
}
