package kinetic2d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec2 and Mat22 are built directly on mgl64's 2D types rather than a
// hand-rolled vector package: the distilled core spec places math
// primitives out of scope ("implementers use any correct library"), and
// mgl64 is the 2D-capable vector library a sibling engine in this problem
// space already depends on.
type Vec2 = mgl64.Vec2
type Mat22 = mgl64.Mat2

func NewVec2(x, y float64) Vec2 { return Vec2{x, y} }

// Cross2 is the 2D scalar cross product, absent from mgl64 because a 2D
// cross product yields a scalar rather than a vector.
func Cross2(a, b Vec2) float64 {
	return a[0]*b[1] - a[1]*b[0]
}

// CrossSV returns s × v, a vector perpendicular to v scaled by s.
func CrossSV(s float64, v Vec2) Vec2 {
	return Vec2{-s * v[1], s * v[0]}
}

// CrossVS returns v × s, the mirror of CrossSV.
func CrossVS(v Vec2, s float64) Vec2 {
	return Vec2{s * v[1], -s * v[0]}
}

// Perp returns the left perpendicular of v (rotate +90 degrees).
func Perp(v Vec2) Vec2 {
	return Vec2{-v[1], v[0]}
}

func MulMV(m Mat22, v Vec2) Vec2 {
	return m.Mul2x1(v)
}

// Rot is a 2D rotation represented by its sine and cosine, avoiding
// repeated trig calls once constructed.
type Rot struct {
	S, C float64
}

func MakeRot(angle float64) Rot {
	return Rot{S: math.Sin(angle), C: math.Cos(angle)}
}

func IdentityRot() Rot { return Rot{S: 0, C: 1} }

func (q Rot) Angle() float64 { return math.Atan2(q.S, q.C) }

func MulRot(a, b Rot) Rot {
	return Rot{
		S: a.S*b.C + a.C*b.S,
		C: a.C*b.C - a.S*b.S,
	}
}

func MulTRot(a, b Rot) Rot {
	return Rot{
		S: a.C*b.S - a.S*b.C,
		C: a.C*b.C + a.S*b.S,
	}
}

func MulRV(q Rot, v Vec2) Vec2 {
	return Vec2{q.C*v[0] - q.S*v[1], q.S*v[0] + q.C*v[1]}
}

func MulTRV(q Rot, v Vec2) Vec2 {
	return Vec2{q.C*v[0] + q.S*v[1], -q.S*v[0] + q.C*v[1]}
}

// Transform composes a rotation and a translation, the rigid-body pose
// used to move shapes from local to world space.
type Transform struct {
	P Vec2
	Q Rot
}

func IdentityTransform() Transform {
	return Transform{P: Vec2{0, 0}, Q: IdentityRot()}
}

func MulTV(t Transform, v Vec2) Vec2 {
	return t.P.Add(MulRV(t.Q, v))
}

func MulTTV(t Transform, v Vec2) Vec2 {
	return MulTRV(t.Q, v.Sub(t.P))
}

func MulTransforms(a, b Transform) Transform {
	return Transform{
		Q: MulRot(a.Q, b.Q),
		P: a.P.Add(MulRV(a.Q, b.P)),
	}
}

func MulTTransforms(a, b Transform) Transform {
	return Transform{
		Q: MulTRot(a.Q, b.Q),
		P: MulTRV(a.Q, b.P.Sub(a.P)),
	}
}

// Sweep describes the motion of a body's center of mass over a step,
// interpolating between the previous and current angle/position so the
// position solver can recompute transforms at any fraction alpha in [0,1].
type Sweep struct {
	LocalCenter Vec2
	C0, C       Vec2
	A0, A       float64
}

func (s Sweep) Transform(alpha float64) Transform {
	var xf Transform
	xf.P = s.C0.Mul(1 - alpha).Add(s.C.Mul(alpha))
	angle := (1-alpha)*s.A0 + alpha*s.A
	xf.Q = MakeRot(angle)
	xf.P = xf.P.Sub(MulRV(xf.Q, s.LocalCenter))
	return xf
}

// Normalize shifts A0 and A by the same whole number of turns so that A0
// lies in [0, 2*pi); the difference between the two angles is unchanged.
func (s *Sweep) Normalize() {
	twoPi := 2.0 * math.Pi
	d := twoPi * math.Floor(s.A0/twoPi)
	s.A0 -= d
	s.A -= d
}

func FloatClamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
