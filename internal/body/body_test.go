package body

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/artdyn/internal/frame"
	"github.com/san-kum/artdyn/internal/spatial"
)

var _ Entity = (*RigidBody)(nil)

func spinningBox() *RigidBody {
	b := NewBox("box", 2, mgl64.Vec3{1, 2, 3})
	b.SetPosition(mgl64.Vec3{1, -2, 0.5})
	b.SetOrientation(spatial.AxisRotation(mgl64.Vec3{1, 1, 0}, 0.7))
	b.SetVelocity(mgl64.Vec3{0.3, 0, -1})
	b.SetAngularVelocity(mgl64.Vec3{0.1, 2, -0.4})
	return b
}

func TestRigidBody_StateRoundTrip(t *testing.T) {
	b := spinningBox()
	pos, rot := b.Position(), b.Orientation()
	v, w := b.Velocity(), b.AngularVelocity()

	buf := make([]float64, b.StateSize())
	if n := b.WriteState(buf); n != RigidStateSize {
		t.Fatalf("WriteState wrote %d values, want %d", n, RigidStateSize)
	}
	if n := b.ReadState(buf); n != RigidStateSize {
		t.Fatalf("ReadState read %d values, want %d", n, RigidStateSize)
	}

	if b.Position() != pos || b.Orientation() != rot {
		t.Error("pose changed after round trip")
	}
	if b.Velocity() != v || b.AngularVelocity() != w {
		t.Error("velocity changed after round trip")
	}
}

func TestRigidBody_VelocityDerivedFromMomentum(t *testing.T) {
	b := spinningBox()

	b.P = mgl64.Vec3{4, 0, 0}
	if got := b.Velocity(); !got.ApproxEqualThreshold(mgl64.Vec3{2, 0, 0}, 1e-12) {
		t.Errorf("Velocity() = %v, want P/m", got)
	}

	w := mgl64.Vec3{0.5, -1, 2}
	b.SetAngularVelocity(w)
	if got := b.AngularVelocity(); !got.ApproxEqualThreshold(w, 1e-9) {
		t.Errorf("AngularVelocity() = %v, want %v", got, w)
	}
}

func TestRigidBody_WriteDelta(t *testing.T) {
	b := spinningBox()
	b.AddForce(mgl64.Vec3{0, 0, -3})
	b.AddTorque(mgl64.Vec3{1, 0, 0})

	d := make([]float64, RigidStateSize)
	b.WriteDelta(d)

	v := b.Velocity()
	for i := 0; i < 3; i++ {
		if d[i] != v[i] {
			t.Errorf("position rate[%d] = %f, want %f", i, d[i], v[i])
		}
	}
	if d[14] != -3 || d[15] != 1 {
		t.Errorf("momentum rates = %v, want force and torque", d[12:18])
	}

	rdot := spatial.Skew(b.AngularVelocity()).Mul3(b.Orientation())
	for i := 0; i < 9; i++ {
		if math.Abs(d[3+i]-rdot[i]) > 1e-12 {
			t.Fatalf("orientation rate[%d] = %f, want %f", i, d[3+i], rdot[i])
		}
	}

	b.InitState()
	if b.F != (mgl64.Vec3{}) || b.T != (mgl64.Vec3{}) {
		t.Error("InitState did not clear accumulators")
	}
}

func TestRigidBody_ResponseMatchesImpulse(t *testing.T) {
	b := spinningBox()
	p := b.Position().Add(mgl64.Vec3{0.5, 0.2, -0.4})
	q := b.Position().Add(mgl64.Vec3{-0.3, 0.1, 0.6})
	dir := mgl64.Vec3{0, 0, 1}

	before := b.PointVelocity(q)
	want := b.Response(p, dir, q)
	b.ApplyImpulse(p, dir)
	got := b.PointVelocity(q).Sub(before)

	if !got.ApproxEqualThreshold(want, 1e-9) {
		t.Errorf("velocity change = %v, Response = %v", got, want)
	}
}

func TestRigidBody_AddForceAtPoint(t *testing.T) {
	b := NewSphere("ball", 1, 1)
	b.AddForceAtPoint(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{1, 0, 0})

	if b.F != (mgl64.Vec3{0, 1, 0}) {
		t.Errorf("F = %v", b.F)
	}
	if !b.T.ApproxEqualThreshold(mgl64.Vec3{0, 0, 1}, 1e-12) {
		t.Errorf("T = %v, want r x f = (0,0,1)", b.T)
	}
}

func TestEntityBase_Forces(t *testing.T) {
	b := NewSphere("ball", 1, 1)
	g := StandardGravity()
	d := &Drag{Linear: 1}

	b.AttachForce(g)
	b.AttachForce(d)
	if !b.DetachForce(d) {
		t.Error("DetachForce(drag) = false")
	}
	if b.DetachForce(d) {
		t.Error("second DetachForce(drag) = true")
	}

	ApplyForces(b, 0)
	if !b.F.ApproxEqualThreshold(mgl64.Vec3{0, 0, -9.81}, 1e-12) {
		t.Errorf("F = %v, want gravity only", b.F)
	}
}

func TestEntityBase_Flags(t *testing.T) {
	b := NewSphere("ball", 1, 1)
	b.SetFlags(Frozen | ExcludeFromRewind)
	b.ClearFlags(Frozen)

	if b.Has(Frozen) {
		t.Error("Frozen still set")
	}
	if !b.Has(ExcludeFromRewind) {
		t.Error("ExcludeFromRewind cleared")
	}
}

func TestForces(t *testing.T) {
	tests := []struct {
		name  string
		force Force
		setup func(b *RigidBody)
		wantF mgl64.Vec3
		wantT mgl64.Vec3
	}{
		{
			name:  "gravity",
			force: &Gravity{G: mgl64.Vec3{0, 0, -10}},
			wantF: mgl64.Vec3{0, 0, -20},
		},
		{
			name:  "drag",
			force: &Drag{Linear: 0.5, Angular: 2},
			setup: func(b *RigidBody) {
				b.SetVelocity(mgl64.Vec3{2, 0, 0})
				b.SetAngularVelocity(mgl64.Vec3{0, 1, 0})
			},
			wantF: mgl64.Vec3{-1, 0, 0},
			wantT: mgl64.Vec3{0, -2, 0},
		},
		{
			name:  "well",
			force: &Well{Center: mgl64.Vec3{0, 0, 2}, Strength: 4},
			wantF: mgl64.Vec3{0, 0, 2},
		},
		{
			name:  "torque",
			force: &ConstantTorque{Torque: mgl64.Vec3{1, 2, 3}},
			wantT: mgl64.Vec3{1, 2, 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewSphere("ball", 2, 1)
			if tt.setup != nil {
				tt.setup(b)
			}
			tt.force.Apply(b, 0)
			if !b.F.ApproxEqualThreshold(tt.wantF, 1e-9) {
				t.Errorf("F = %v, want %v", b.F, tt.wantF)
			}
			if !b.T.ApproxEqualThreshold(tt.wantT, 1e-9) {
				t.Errorf("T = %v, want %v", b.T, tt.wantT)
			}
		})
	}
}

func TestConstantForce_BodyFrame(t *testing.T) {
	b := NewSphere("rocket", 1, 1)
	b.SetOrientation(spatial.AxisRotation(mgl64.Vec3{0, 0, 1}, math.Pi/2))
	thrust := &ConstantForce{Frame: b.Frame, Force: mgl64.Vec3{1, 0, 0}}

	thrust.Apply(b, 0)
	if !b.F.ApproxEqualThreshold(mgl64.Vec3{0, 1, 0}, 1e-12) {
		t.Errorf("F = %v, want body x axis rotated to world y", b.F)
	}

	b.InitState()
	world := &ConstantForce{Frame: frame.Universe(), Force: mgl64.Vec3{1, 0, 0}, Point: mgl64.Vec3{0, 1, 0}}
	world.Apply(b, 0)
	// body y is world -x, so the lever arm is (-1,0,0)
	if !b.T.ApproxEqualThreshold(mgl64.Vec3{0, 0, 0}, 1e-12) {
		t.Errorf("T = %v, want zero for a force along its lever arm", b.T)
	}
}

func TestSpring_PerEnd(t *testing.T) {
	a := NewSphere("a", 1, 0.1)
	b := NewSphere("b", 1, 0.1)
	b.SetPosition(mgl64.Vec3{3, 0, 0})
	s := &Spring{A: a, B: b, Stiffness: 2, Rest: 1}

	s.Apply(a, 0)
	if !a.F.ApproxEqualThreshold(mgl64.Vec3{4, 0, 0}, 1e-12) || b.F != (mgl64.Vec3{}) {
		t.Errorf("applying to A: A.F = %v, B.F = %v", a.F, b.F)
	}
	s.Apply(b, 0)
	if !b.F.ApproxEqualThreshold(mgl64.Vec3{-4, 0, 0}, 1e-12) {
		t.Errorf("B.F = %v, want (-4,0,0)", b.F)
	}

	e := s.PotentialEnergy(a) + s.PotentialEnergy(b)
	if math.Abs(e-4) > 1e-12 {
		t.Errorf("spring energy = %f, want 4", e)
	}

	s.Cap = 1
	if got := s.Tension(); !got.ApproxEqualThreshold(mgl64.Vec3{1, 0, 0}, 1e-12) {
		t.Errorf("capped tension = %v, want magnitude 1", got)
	}
}

func TestNBodyWell_EqualAndOpposite(t *testing.T) {
	a := NewSphere("a", 1, 0.1)
	b := NewSphere("b", 3, 0.1)
	b.SetPosition(mgl64.Vec3{0, 2, 0})
	n := &NBodyWell{G: 1, Bodies: []*RigidBody{a, b}}

	n.Apply(a, 0)
	n.Apply(b, 0)

	if !a.F.Add(b.F).ApproxEqualThreshold(mgl64.Vec3{}, 1e-12) {
		t.Errorf("forces not opposite: %v, %v", a.F, b.F)
	}
	if math.Abs(a.F.Y()-0.75) > 1e-12 {
		t.Errorf("a.F.y = %f, want G*m1*m2/r^2 = 0.75", a.F.Y())
	}
	if e := n.PotentialEnergy(a) + n.PotentialEnergy(b); math.Abs(e+1.5) > 1e-12 {
		t.Errorf("potential = %f, want -1.5", e)
	}
}
