package kinetic2d

import "testing"

func TestCollideCirclesOverlapping(t *testing.T) {
	a := &CircleShape{Center: Vec2{0, 0}, Radius: 1.0}
	b := &CircleShape{Center: Vec2{0, 0}, Radius: 1.0}
	xfA := IdentityTransform()
	xfB := Transform{P: Vec2{1.5, 0}, Q: IdentityRot()}

	m := Collide(a, xfA, b, xfB)
	if len(m.Points) != 1 {
		t.Fatalf("expected one manifold point for overlapping circles, got %d", len(m.Points))
	}
}

func TestCollideCirclesSeparated(t *testing.T) {
	a := &CircleShape{Center: Vec2{0, 0}, Radius: 1.0}
	b := &CircleShape{Center: Vec2{0, 0}, Radius: 1.0}
	xfA := IdentityTransform()
	xfB := Transform{P: Vec2{10, 0}, Q: IdentityRot()}

	m := Collide(a, xfA, b, xfB)
	if len(m.Points) != 0 {
		t.Fatalf("expected no manifold points for far-apart circles, got %d", len(m.Points))
	}
}

func TestCollideEdgedBoxesOverlapping(t *testing.T) {
	boxA := NewBoxShape(1, 1)
	boxB := NewBoxShape(1, 1)
	xfA := IdentityTransform()
	xfB := Transform{P: Vec2{1.5, 0}, Q: IdentityRot()}

	m := Collide(boxA, xfA, boxB, xfB)
	if len(m.Points) == 0 {
		t.Fatal("expected overlapping boxes to produce manifold points")
	}
	if m.Type != ManifoldFaceA && m.Type != ManifoldFaceB {
		t.Errorf("box/box manifold type = %v, want FaceA or FaceB", m.Type)
	}
}

func TestCollideEdgedBoxesSeparated(t *testing.T) {
	boxA := NewBoxShape(1, 1)
	boxB := NewBoxShape(1, 1)
	xfA := IdentityTransform()
	xfB := Transform{P: Vec2{10, 0}, Q: IdentityRot()}

	m := Collide(boxA, xfA, boxB, xfB)
	if len(m.Points) != 0 {
		t.Fatalf("expected no contact for far-apart boxes, got %d points", len(m.Points))
	}
}

func TestCollideCircleCapsule(t *testing.T) {
	circle := &CircleShape{Center: Vec2{0, 0}, Radius: 0.5}
	capsule := &CapsuleShape{Vertex1: Vec2{-1, 0}, Vertex2: Vec2{1, 0}, Radius: 0.5}

	xfCircle := Transform{P: Vec2{0, 0.8}, Q: IdentityRot()}
	xfCapsule := IdentityTransform()

	m := Collide(circle, xfCircle, capsule, xfCapsule)
	if len(m.Points) != 1 {
		t.Fatalf("expected circle resting on capsule to produce one contact point, got %d", len(m.Points))
	}
}

func TestCollideOrderIndependence(t *testing.T) {
	circle := &CircleShape{Center: Vec2{0, 0}, Radius: 0.5}
	box := NewBoxShape(1, 1)

	xfCircle := Transform{P: Vec2{0, 1.2}, Q: IdentityRot()}
	xfBox := IdentityTransform()

	mAB := Collide(circle, xfCircle, box, xfBox)
	mBA := Collide(box, xfBox, circle, xfCircle)

	if len(mAB.Points) != len(mBA.Points) {
		t.Fatalf("swapping collide order changed point count: %d vs %d", len(mAB.Points), len(mBA.Points))
	}
	// The box always owns the reference face regardless of which side of
	// Collide's argument list it's passed on, so the local normal (expressed
	// in the box's own frame either way) should come out identical, not
	// negated, under a swap.
	if !vecClose(mAB.LocalNormal, mBA.LocalNormal, 1e-9) && len(mAB.Points) > 0 {
		t.Errorf("swapping collide order changed the box-frame normal: %v vs %v", mAB.LocalNormal, mBA.LocalNormal)
	}
	if mAB.Type == mBA.Type {
		t.Errorf("swapping collide order should swap which side owns the reference face tag: both got %v", mAB.Type)
	}

	worldA := ComputeWorldManifold(&mAB, xfCircle, circle.Radius, xfBox, box.CoreRadius())
	worldB := ComputeWorldManifold(&mBA, xfBox, box.CoreRadius(), xfCircle, circle.Radius)
	if !vecClose(worldA.Normal, worldB.Normal.Mul(-1), 1e-9) {
		t.Errorf("world normal points from A to B, so swapping collide order should negate it: %v vs %v", worldA.Normal, worldB.Normal)
	}
}

// TestCollideCircleEdgedRotatedBody guards against a regression where a
// circle body's own rotation leaked into the contact normal even though a
// circle is rotationally symmetric about its center: the manifold's
// LocalNormal is expressed in the edged shape's frame and must be rotated by
// the edged shape's transform, never the circle's.
func TestCollideCircleEdgedRotatedBody(t *testing.T) {
	circle := &CircleShape{Center: Vec2{0, 0}, Radius: 0.5}
	box := NewBoxShape(1, 1)
	xfBox := IdentityTransform()

	upright := Transform{P: Vec2{0, 1.2}, Q: IdentityRot()}
	spun := Transform{P: Vec2{0, 1.2}, Q: MakeRot(1.7)}

	mUpright := Collide(circle, upright, box, xfBox)
	mSpun := Collide(circle, spun, box, xfBox)

	worldUpright := ComputeWorldManifold(&mUpright, upright, circle.Radius, xfBox, box.CoreRadius())
	worldSpun := ComputeWorldManifold(&mSpun, spun, circle.Radius, xfBox, box.CoreRadius())

	if !vecClose(worldUpright.Normal, worldSpun.Normal, 1e-9) {
		t.Errorf("a circle body's own rotation must not affect the contact normal: %v vs %v", worldUpright.Normal, worldSpun.Normal)
	}
}
