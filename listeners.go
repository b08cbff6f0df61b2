package kinetic2d

// ContactListener receives touching-state transitions and a pre-solve hook
// for each contact. A World with no listener registered skips all of
// these calls.
type ContactListener interface {
	BeginContact(c *Contact)
	EndContact(c *Contact)
	PreSolve(c *Contact, oldManifold Manifold)
}

// JointDestroyCallback is the notification interface for a joint destroyed
// as a side effect of one of its bodies being destroyed. World has no
// registration point for it and never calls SayGoodbye.
type JointDestroyCallback interface {
	SayGoodbye(j Joint)
}
