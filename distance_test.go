package kinetic2d

import "testing"

func TestDistanceSeparatedCircles(t *testing.T) {
	proxyA := DistanceProxy{Vertices: []Vec2{{0, 0}}, Radius: 0.5}
	proxyB := DistanceProxy{Vertices: []Vec2{{0, 0}}, Radius: 0.5}

	xfA := IdentityTransform()
	xfB := Transform{P: Vec2{5, 0}, Q: IdentityRot()}

	cache := &SimplexCache{}
	out := Distance(DistanceInput{ProxyA: &proxyA, ProxyB: &proxyB, TransformA: xfA, TransformB: xfB, UseRadii: true}, cache)

	want := 5.0 - 0.5 - 0.5
	if !almostEqual(out.Distance, want, 1e-6) {
		t.Errorf("Distance = %v, want %v", out.Distance, want)
	}
}

func TestDistanceTouchingBoxes(t *testing.T) {
	box := NewBoxShape(1, 1)
	proxyA := box.Proxy()
	proxyB := box.Proxy()

	xfA := IdentityTransform()
	xfB := Transform{P: Vec2{2, 0}, Q: IdentityRot()}

	cache := &SimplexCache{}
	out := Distance(DistanceInput{ProxyA: &proxyA, ProxyB: &proxyB, TransformA: xfA, TransformB: xfB, UseRadii: false}, cache)

	if !almostEqual(out.Distance, 0.0, 1e-6) {
		t.Errorf("two unit boxes 2 apart should just touch core-to-core, got distance %v", out.Distance)
	}
}

func TestDistanceCacheWarmStartStable(t *testing.T) {
	box := NewBoxShape(1, 1)
	proxyA := box.Proxy()
	proxyB := box.Proxy()

	xfA := IdentityTransform()
	xfB := Transform{P: Vec2{3, 0}, Q: IdentityRot()}

	cache := &SimplexCache{}
	first := Distance(DistanceInput{ProxyA: &proxyA, ProxyB: &proxyB, TransformA: xfA, TransformB: xfB, UseRadii: false}, cache)
	second := Distance(DistanceInput{ProxyA: &proxyA, ProxyB: &proxyB, TransformA: xfA, TransformB: xfB, UseRadii: false}, cache)

	if !almostEqual(first.Distance, second.Distance, 1e-9) {
		t.Errorf("re-running Distance with an already-settled cache should reproduce the same result: %v vs %v", first.Distance, second.Distance)
	}
}
