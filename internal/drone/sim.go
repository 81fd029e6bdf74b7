// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package drone

import (
	"fmt"
	"log/slog"

	"github.com/gviegas/physcene/camera"
	"github.com/gviegas/physcene/compound"
	"github.com/gviegas/physcene/config"
	"github.com/gviegas/physcene/linear"
	"github.com/gviegas/physcene/material"
	"github.com/gviegas/physcene/node"
	"github.com/gviegas/physcene/physics"
	"github.com/gviegas/physcene/physics/rigid"
	"github.com/gviegas/physcene/render"
	"github.com/gviegas/physcene/scene"
)

// Opaque handles of the demo geometry and programs.
// A real renderer would map them to uploaded resources.
const (
	MeshBox render.Handle = iota + 1
	MeshSphere
	MeshPlane
)

const (
	ProgBasic render.Handle = iota + 1
	ProgEmissive
	ProgTextured
	ProgLines
)

const TexHull render.Handle = 1

// Masses of the parts of the quadcopter.
const (
	BaseMass  = 0.06
	RotorMass = 0.05
)

// RotorOffsets are the positions of the rotors relative
// to the base.
var RotorOffsets = [4]linear.V3{
	{-1.7, 1, 2.7},
	{-1.7, 1, -2.7},
	{1.7, 1, -2.7},
	{1.7, 1, 2.7},
}

// Options configure a Sim.
type Options struct {
	Config   config.Config
	Renderer render.Renderer
	Logger   *slog.Logger
	// Input, if not nil, drives the quadcopter when the
	// chase camera is active and the free camera
	// otherwise.
	Input camera.Input
}

// gate passes input through only while on is set.
type gate struct {
	in camera.Input
	on *bool
	is bool
}

func (g gate) Pressed(k camera.Key) bool {
	return g.in != nil && *g.on == g.is && g.in.Pressed(k)
}

// Sim is a quadcopter flying over a lemniscate track.
type Sim struct {
	Scene *scene.Scene
	World *rigid.World
	Quad  *Quad
	Free  *camera.Camera
	Chase *camera.Camera
	chase bool
}

// New creates a new Sim.
func New(o Options) (*Sim, error) {
	cfg := o.Config
	sc := cfg.Scene()
	sc.Logger = o.Logger
	w := rigid.New()
	w.LinearDamping = 0.1
	w.AngularDamping = 0.5
	s := scene.New(w, o.Renderer, sc)
	s.SetEnvironment(cfg.Environment())
	sim := &Sim{Scene: s, World: w}

	var shapes [3]physics.Shape
	for i, d := range [...]physics.ShapeDesc{
		{Kind: physics.Box, Extent: linear.V3{50, 0.05, 50}},
		{Kind: physics.Box, Extent: linear.V3{1.5, 0.5, 2.5}},
		{Kind: physics.Sphere, Extent: linear.V3{0.6}},
	} {
		var err error
		if shapes[i], err = w.CreateShape(d); err != nil {
			return nil, err
		}
	}
	groundShape, hullShape, rotorShape := shapes[0], shapes[1], shapes[2]

	basic, err := material.NewBasic(&material.Basic{Program: ProgBasic})
	if err != nil {
		return nil, err
	}
	lines, err := material.NewBasic(&material.Basic{
		Program:  ProgLines,
		Settings: &render.Settings{Style: render.Lines, LineWidth: 2, PointSize: 1},
	})
	if err != nil {
		return nil, err
	}
	glow, err := material.NewEmissive(&material.Emissive{Program: ProgEmissive, Color: [3]float32{0.2, 0.2, 0.2}})
	if err != nil {
		return nil, err
	}
	hull, err := material.NewTextured(&material.Textured{
		Program:   ProgTextured,
		Texture:   material.TexRef{Texture: TexHull},
		Lighting:  true,
		Shininess: 32,
		Ambient:   [3]float32{1, 1, 1},
		Diffuse:   [3]float32{1, 1, 1},
		Specular:  [3]float32{0.5, 0.5, 0.5},
	})
	if err != nil {
		return nil, err
	}

	ground := newNode("ground", MeshPlane, 6, basic)
	if err := s.Root().Insert(ground); err != nil {
		return nil, err
	}
	if err := s.AddBody(ground, groundShape, 0); err != nil {
		return nil, err
	}

	for i, p := range Lemniscate(30, 0.2, 40) {
		n := newNode(fmt.Sprintf("track%02d", i), MeshBox, 36, lines)
		n.SetPose(p, node.FromUser)
		if err := s.Root().Insert(n); err != nil {
			return nil, err
		}
	}

	base := newNode("drone", MeshBox, 36, hull)
	base.SetPosition(linear.V3{0, 10, 0})
	if err := s.Root().Insert(base); err != nil {
		return nil, err
	}
	links := make([]compound.LinkSpec, 0, 5)
	for i, off := range RotorOffsets {
		n := newNode(fmt.Sprintf("rotor%d", i+1), MeshSphere, 384, glow)
		n.SetPosition(off)
		if err := base.Insert(n); err != nil {
			return nil, err
		}
		links = append(links, compound.LinkFromNode(n, RotorMass, rotorShape))
	}

	fov, near, far, aspect := cfg.Camera.FOV, cfg.Camera.Near, cfg.Camera.Far, cfg.Aspect()
	if sim.Chase, err = camera.New(fov, aspect, near, far); err != nil {
		return nil, err
	}
	sim.Chase.Name = "chase"
	sim.Chase.SetPosition(linear.V3{0, 3, -9})
	sim.Chase.RotateX(0.25, true)
	if err := base.Insert(sim.Chase.Node); err != nil {
		return nil, err
	}
	links = append(links, compound.LinkFromNode(sim.Chase.Node, 0, rotorShape))

	b, err := s.AddCompound(compound.BaseSpec{Node: base, Mass: BaseMass, Shape: hullShape}, links)
	if err != nil {
		return nil, err
	}
	if sim.Quad, err = NewQuad(b, BaseMass+4*RotorMass); err != nil {
		return nil, err
	}
	sim.Quad.Input = gate{o.Input, &sim.chase, true}
	s.AddController(sim.Quad)

	if sim.Free, err = camera.New(fov, aspect, near, far); err != nil {
		return nil, err
	}
	sim.Free.Name = "free"
	sim.Free.SetPosition(linear.V3{0, 25, -55})
	var r linear.M3
	r.FromEuler(0, 0.35, 0)
	sim.Free.SetRotation(&r)
	sim.Free.SetController(camera.NewFly(sim.Free, gate{o.Input, &sim.chase, false}))
	s.SetCamera(sim.Free)

	if err := sim.Resize(cfg.Width, cfg.Height); err != nil {
		return nil, err
	}
	return sim, nil
}

func newNode(name string, mesh render.Handle, count int, m *material.Material) *node.Node {
	n := node.New()
	n.Name = name
	n.Drawable = &node.Drawable{Mesh: render.Mesh{Buffer: mesh, Count: count}, Material: m}
	return n
}

// ToggleCamera switches between the free and the chase
// camera. Input follows the active camera.
func (sim *Sim) ToggleCamera() {
	sim.chase = !sim.chase
	if sim.chase {
		sim.Scene.SetCamera(sim.Chase)
	} else {
		sim.Scene.SetCamera(sim.Free)
	}
}

// Chasing returns whether the chase camera is active.
func (sim *Sim) Chasing() bool { return sim.chase }

// Resize sets the aspect ratio of both cameras.
func (sim *Sim) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	aspect := float32(width) / float32(height)
	if err := sim.Free.SetAspect(aspect); err != nil {
		return err
	}
	return sim.Chase.SetAspect(aspect)
}

// Step advances the simulation by one frame.
func (sim *Sim) Step(dt float32) error { return sim.Scene.OnFrame(dt) }

// Status describes the state of the simulation in one line.
func (sim *Sim) Status() string {
	p := sim.Quad.Body().Base().WorldPosition()
	cam := "free"
	if sim.chase {
		cam = "chase"
	}
	return fmt.Sprintf("t=%.2f alt=%.2f/%.2f pos=(%.1f, %.1f) cam=%s",
		sim.Scene.Clock().Time(), p[1], sim.Quad.TargetAltitude, p[0], p[2], cam)
}

// NodeInfo is a snapshot of a node.
type NodeInfo struct {
	Name    string
	Caps    node.Caps
	Visible bool
	Pos     linear.V3
}

// Snapshot returns the state of every node of the scene.
func (sim *Sim) Snapshot() []NodeInfo {
	var s []NodeInfo
	sim.Scene.Root().ForEach(func(n *node.Node) {
		s = append(s, NodeInfo{n.Name, n.Caps(), n.Visible(), n.WorldPosition()})
	})
	return s
}
