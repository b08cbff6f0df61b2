package kinetic2d

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func vecClose(a, b Vec2, tol float64) bool {
	return almostEqual(a[0], b[0], tol) && almostEqual(a[1], b[1], tol)
}

func TestMakeRotAngleRoundTrip(t *testing.T) {
	for _, angle := range []float64{0, 0.3, -1.2, math.Pi / 2, -math.Pi + 0.01} {
		q := MakeRot(angle)
		if !almostEqual(q.Angle(), angle, 1e-9) {
			t.Errorf("MakeRot(%v).Angle() = %v", angle, q.Angle())
		}
	}
}

func TestMulRVInverseIsMulTRV(t *testing.T) {
	q := MakeRot(0.7)
	v := Vec2{3, -2}
	rotated := MulRV(q, v)
	back := MulTRV(q, rotated)
	if !vecClose(back, v, 1e-9) {
		t.Errorf("MulTRV(MulRV(q, v)) = %v, want %v", back, v)
	}
}

func TestTransformInverseRoundTrip(t *testing.T) {
	xf := Transform{P: Vec2{1, 2}, Q: MakeRot(0.5)}
	local := Vec2{4, -1}
	world := MulTV(xf, local)
	back := MulTTV(xf, world)
	if !vecClose(back, local, 1e-9) {
		t.Errorf("MulTTV(MulTV(xf, local)) = %v, want %v", back, local)
	}
}

func TestCross2Perpendicularity(t *testing.T) {
	a := Vec2{1, 0}
	b := Vec2{0, 1}
	if Cross2(a, b) != 1 {
		t.Errorf("Cross2(x,y) = %v, want 1", Cross2(a, b))
	}
	if Cross2(b, a) != -1 {
		t.Errorf("Cross2(y,x) = %v, want -1", Cross2(b, a))
	}
}

func TestSweepTransformInterpolates(t *testing.T) {
	s := Sweep{C0: Vec2{0, 0}, C: Vec2{10, 0}, A0: 0, A: 0}
	xf := s.Transform(0.5)
	if !vecClose(xf.P, Vec2{5, 0}, 1e-9) {
		t.Errorf("Sweep.Transform(0.5).P = %v, want {5,0}", xf.P)
	}
}

func TestFloatClamp(t *testing.T) {
	if FloatClamp(5, 0, 3) != 3 {
		t.Error("FloatClamp should cap at hi")
	}
	if FloatClamp(-5, 0, 3) != 0 {
		t.Error("FloatClamp should floor at lo")
	}
	if FloatClamp(1, 0, 3) != 1 {
		t.Error("FloatClamp should pass through in-range values")
	}
}
