package scenario

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/artdyn/internal/articulated"
	"github.com/san-kum/artdyn/internal/body"
	"github.com/san-kum/artdyn/internal/config"
	"github.com/san-kum/artdyn/internal/contact"
	"github.com/san-kum/artdyn/internal/metrics"
	"github.com/san-kum/artdyn/internal/world"
)

const (
	bobRadius  = 0.1
	rodLength  = 1.0
	ballRadius = 0.3
	linkRadius = 0.1
	linkPitch  = 0.4
)

var (
	yAxis = mgl64.Vec3{0, 1, 0}
	xAxis = mgl64.Vec3{1, 0, 0}
)

func buildFallingBody(cfg *config.Config, w *world.World) (*Scene, error) {
	p := cfg.Params
	b := body.NewRigidBody("body", 1, mgl64.Ident3())
	b.SetPosition(mgl64.Vec3{0, 0, p.Height})
	b.SetVelocity(mgl64.Vec3{p.Speed, 0, 0})
	b.SetAngularVelocity(mgl64.Vec3{p.Omega, 0, 0.5 * p.Omega})
	if err := w.AddEntity(b); err != nil {
		return nil, err
	}
	return &Scene{Metrics: metrics.Set{metrics.NewEnergy(), metrics.NewEnergyDrift()}}, nil
}

// hangingChain returns a grounded chain of n bobs on rods, each joint rotating
// about Y and starting at the given angles.
func hangingChain(name string, angles []float64, omega float64) (*articulated.ArticulatedBody, error) {
	chain := articulated.New(name, body.NewSphere("pivot", 1, bobRadius), articulated.Grounded)
	parent := articulated.Root
	for i, q := range angles {
		id, err := chain.AddLink(parent, body.NewSphere(fmt.Sprintf("bob%d", i+1), 1, bobRadius), articulated.Joint{
			Kind:        articulated.Revolute,
			Axis:        yAxis,
			ChildOffset: mgl64.Vec3{0, 0, -rodLength},
		})
		if err != nil {
			return nil, err
		}
		qv := 0.0
		if i == 0 {
			qv = omega
		}
		if err := chain.SetJoint(id, q, qv); err != nil {
			return nil, err
		}
		parent = id
	}
	return chain, nil
}

func buildPendulum(cfg *config.Config, w *world.World) (*Scene, error) {
	chain, err := hangingChain("pendulum", []float64{cfg.Params.Angle}, cfg.Params.Omega)
	if err != nil {
		return nil, err
	}
	if err := w.AddEntity(chain); err != nil {
		return nil, err
	}
	return &Scene{Metrics: metrics.Set{metrics.NewEnergy(), metrics.NewEnergyDrift()}}, nil
}

func buildDoublePendulum(cfg *config.Config, w *world.World) (*Scene, error) {
	p := cfg.Params
	chain, err := hangingChain("double_pendulum", []float64{p.Angle, p.Angle2}, p.Omega)
	if err != nil {
		return nil, err
	}
	if err := w.AddEntity(chain); err != nil {
		return nil, err
	}
	return &Scene{Metrics: metrics.Set{metrics.NewEnergy(), metrics.NewEnergyDrift()}}, nil
}

func buildSpringPair(cfg *config.Config, w *world.World) (*Scene, error) {
	p := cfg.Params
	a := body.NewSphere("a", 1, 0.2)
	b := body.NewSphere("b", 2, 0.2)
	a.SetPosition(mgl64.Vec3{-0.75, 0, 0})
	b.SetPosition(mgl64.Vec3{0.75, 0, 0})
	a.SetVelocity(mgl64.Vec3{0, p.Speed, 0})
	b.SetVelocity(mgl64.Vec3{0, -p.Speed, 0})

	s := &body.Spring{A: a, B: b, Stiffness: p.Stiffness, Damping: p.Damping, Rest: 1}
	a.AttachForce(s)
	b.AttachForce(s)
	for _, e := range []body.Entity{a, b} {
		if err := w.AddEntity(e); err != nil {
			return nil, err
		}
	}
	return &Scene{Metrics: metrics.Set{metrics.NewEnergyDrift(), metrics.NewMomentumDrift()}}, nil
}

// buildNBody places equal unit masses on the unit circle with the tangential
// speed of a rigidly rotating ring.
func buildNBody(cfg *config.Config, w *world.World) (*Scene, error) {
	n := cfg.Params.Bodies
	if n < 2 {
		return nil, fmt.Errorf("nbody needs at least 2 bodies, got %d", n)
	}
	const g = 1.0
	sum := 0.0
	for k := 1; k < n; k++ {
		sum += 1 / (4 * math.Sin(math.Pi*float64(k)/float64(n)))
	}
	speed := math.Sqrt(g * sum)

	well := &body.NBodyWell{G: g, Softening: 1e-3}
	for i := 0; i < n; i++ {
		phi := 2 * math.Pi * float64(i) / float64(n)
		b := body.NewSphere(fmt.Sprintf("body%d", i+1), 1, 0.05)
		b.SetPosition(mgl64.Vec3{math.Cos(phi), math.Sin(phi), 0})
		b.SetVelocity(mgl64.Vec3{-math.Sin(phi), math.Cos(phi), 0}.Mul(speed))
		if err := w.AddEntity(b); err != nil {
			return nil, err
		}
		well.Bodies = append(well.Bodies, b)
	}
	w.AddEnviroForce(well)
	return &Scene{Metrics: metrics.Set{metrics.NewEnergyDrift(), metrics.NewMomentumDrift()}}, nil
}

func buildBouncingBalls(cfg *config.Config, w *world.World) (*Scene, error) {
	p := cfg.Params
	ground := contact.NewGroundPlane(0, p.Restitution)
	balls := &contact.SphereSet{Restitution: p.Restitution, Slop: ground.Slop}
	for i := 0; i < p.Bodies; i++ {
		b := body.NewSphere(fmt.Sprintf("ball%d", i+1), 1, ballRadius)
		b.SetPosition(mgl64.Vec3{float64(i) - 0.5*float64(p.Bodies-1), 0, p.Height + 0.5*float64(i)})
		if err := w.AddEntity(b); err != nil {
			return nil, err
		}
		ground.AddProbe(b, ballRadius)
		balls.Add(b, ballRadius)
	}

	mgr := contact.NewManager("contacts", contact.Detectors{ground, balls}, contact.DefaultOptions())
	w.RegisterCatastropheManager(mgr)
	w.AddForceSource(mgr)
	return &Scene{
		Ground:  ground,
		Metrics: metrics.Set{metrics.NewEnergy(), metrics.NewPenetration(ground), metrics.NewRewinds()},
	}, nil
}

// buildChainDrop drops a floating chain of spheres joined by Y hinges. Every
// link touches the floor through its own probe.
func buildChainDrop(cfg *config.Config, w *world.World) (*Scene, error) {
	p := cfg.Params
	if p.Links < 1 {
		return nil, fmt.Errorf("chain_drop needs at least 1 link, got %d", p.Links)
	}
	chain := articulated.New("chain", body.NewSphere("link0", 0.3, linkRadius), articulated.Floating)
	chain.SetRootPose(mgl64.Vec3{0, 0, p.Height}, mgl64.Ident3())

	ids := []articulated.LinkID{articulated.Root}
	for i := 1; i < p.Links; i++ {
		id, err := chain.AddLink(ids[i-1], body.NewSphere(fmt.Sprintf("link%d", i), 0.3, linkRadius), articulated.Joint{
			Kind:         articulated.Revolute,
			Axis:         yAxis,
			ParentOffset: mgl64.Vec3{0.5 * linkPitch, 0, 0},
			ChildOffset:  mgl64.Vec3{0.5 * linkPitch, 0, 0},
		})
		if err != nil {
			return nil, err
		}
		if err := chain.SetJoint(id, 0.3, 0); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := w.AddEntity(chain); err != nil {
		return nil, err
	}

	ground := contact.NewGroundPlane(0, p.Restitution)
	for _, id := range ids {
		ref, err := chain.Ref(id)
		if err != nil {
			return nil, err
		}
		ground.AddProbe(ref, linkRadius)
	}
	mgr := contact.NewManager("ground", ground, contact.DefaultOptions())
	w.RegisterCatastropheManager(mgr)
	w.AddForceSource(mgr)
	return &Scene{
		Ground:  ground,
		Metrics: metrics.Set{metrics.NewEnergy(), metrics.NewPenetration(ground), metrics.NewRewinds()},
	}, nil
}

// buildVehicleArm hangs an arm of alternating X and Y hinges from a mount that
// drives along X while turning about Z.
func buildVehicleArm(cfg *config.Config, w *world.World) (*Scene, error) {
	p := cfg.Params
	if p.Links < 1 {
		return nil, fmt.Errorf("vehicle_arm needs at least 1 link, got %d", p.Links)
	}
	motion := &articulated.PrescribedMotion{
		Origin:          mgl64.Vec3{0, 0, 3},
		Orientation:     mgl64.Ident3(),
		Velocity:        mgl64.Vec3{p.Speed, 0, 0},
		AngularVelocity: mgl64.Vec3{0, 0, p.Omega},
	}
	arm := articulated.NewAttached("arm", body.NewBox("mount", 5, mgl64.Vec3{0.4, 0.4, 0.2}), motion)

	parent := articulated.Root
	offset := mgl64.Vec3{0, 0, -0.1}
	for i := 0; i < p.Links; i++ {
		axis := xAxis
		if i%2 == 1 {
			axis = yAxis
		}
		id, err := arm.AddLink(parent, body.NewBox(fmt.Sprintf("segment%d", i+1), 1, mgl64.Vec3{0.1, 0.1, 0.6}), articulated.Joint{
			Kind:         articulated.Revolute,
			Axis:         axis,
			ParentOffset: offset,
			ChildOffset:  mgl64.Vec3{0, 0, -0.3},
		})
		if err != nil {
			return nil, err
		}
		parent = id
		offset = mgl64.Vec3{0, 0, -0.3}
	}
	if err := w.AddEntity(arm); err != nil {
		return nil, err
	}
	return &Scene{Metrics: metrics.Set{metrics.NewEnergy(), metrics.NewStability(20)}}, nil
}
