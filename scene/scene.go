// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package scene keeps a scene graph in sync with a
// physics world and renders it.
package scene

import (
	"log/slog"
	"slices"

	"github.com/pkg/errors"

	"github.com/gviegas/physcene/camera"
	"github.com/gviegas/physcene/compound"
	"github.com/gviegas/physcene/node"
	"github.com/gviegas/physcene/physics"
	"github.com/gviegas/physcene/render"
)

// Config is used to configure a scene.
type Config struct {
	// Whether a dangling body aborts the frame.
	// If not set, the node keeps its last pose and a
	// warning is logged.
	//
	// Default is Debug.
	Strict bool

	// The longest step handed to the physics world.
	// Zero means no limit.
	//
	// Default is 0.25.
	MaxDelta float32

	// Where warnings go.
	// If nil, slog.Default is used.
	Logger *slog.Logger
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Strict:   Debug,
		MaxDelta: 0.25,
	}
}

// Controller is run once per frame, after poses were
// pulled from the physics world. Forces it applies take
// effect in the next step.
type Controller interface {
	Control(s *Scene) error
}

// ControllerFunc is a function that implements Controller.
type ControllerFunc func(s *Scene) error

// Control implements Controller.
func (f ControllerFunc) Control(s *Scene) error { return f(s) }

// Stats counts what happened in the last frame.
type Stats struct {
	Drawn    int
	Hidden   int
	Failed   int
	Dangling int
}

// Scene defines a scene graph driven by a physics world.
// It is not safe for concurrent use.
type Scene struct {
	strict    bool
	log       *slog.Logger
	world     physics.World
	rend      render.Renderer
	table     render.Table
	env       Environment
	clock     Clock
	root      *node.Node
	cam       *camera.Camera
	bodies    []*node.Node
	compounds []*compound.Body
	ctrls     []Controller
	stats     Stats
	pending   []pulled
}

// New creates a new scene that steps w and draws
// through r.
func New(w physics.World, r render.Renderer, cfg Config) *Scene {
	s := &Scene{
		strict: cfg.Strict,
		log:    cfg.Logger,
		world:  w,
		rend:   r,
		table:  render.NewTable(),
		env:    DefaultEnvironment(),
		clock:  Clock{MaxDelta: cfg.MaxDelta},
		root:   node.New(),
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	s.root.Name = "root"
	return s
}

// Root returns the root of the scene graph.
// Only its descendants are drawn.
func (s *Scene) Root() *node.Node { return s.root }

// World returns the physics world of s.
func (s *Scene) World() physics.World { return s.world }

// Clock returns the clock of s.
func (s *Scene) Clock() *Clock { return &s.clock }

// Table returns the uniform binding table of s.
// Entries can be added or replaced.
func (s *Scene) Table() render.Table { return s.table }

// Environment returns the environment of s.
func (s *Scene) Environment() Environment { return s.env }

// SetEnvironment replaces the environment of s.
// It takes effect in the next frame.
func (s *Scene) SetEnvironment(env Environment) { s.env = env }

// Stats returns the counts of the last frame.
func (s *Scene) Stats() Stats { return s.stats }

// Camera returns the active camera, or nil.
func (s *Scene) Camera() *camera.Camera { return s.cam }

// SetCamera sets the active camera.
// If c has no parent, it is inserted under the root.
func (s *Scene) SetCamera(c *camera.Camera) {
	s.cam = c
	if c != nil && c.Parent() == nil {
		// Cannot fail: c is parentless and not the root.
		_ = s.root.Insert(c.Node)
	}
}

// Resize sets the aspect ratio of the active camera to
// match a viewport.
func (s *Scene) Resize(width, height int) error {
	if s.cam == nil || width <= 0 || height <= 0 {
		return nil
	}
	return s.cam.SetAspect(float32(width) / float32(height))
}

// AddController appends c to the controllers of s.
// Controllers run in the order they were added.
func (s *Scene) AddController(c Controller) { s.ctrls = append(s.ctrls, c) }

// AddBody creates a single body for n at its current
// world pose and binds n to it.
func (s *Scene) AddBody(n *node.Node, shape physics.Shape, mass float32) error {
	if _, ok := n.Body(); ok {
		return errors.New(prefix + "node " + n.Name + " is already bound")
	}
	id, err := s.world.CreateBody(shape, mass, n.WorldPose())
	if err != nil {
		return errors.Wrapf(err, prefix+"add body %q", n.Name)
	}
	n.Bind(s.world, id, mass)
	s.bodies = append(s.bodies, n)
	return nil
}

// Track registers a node that was bound elsewhere, so its
// pose is pulled on every frame.
func (s *Scene) Track(n *node.Node) error {
	if _, ok := n.Body(); !ok {
		return errors.New(prefix + "node " + n.Name + " is not bound")
	}
	if !slices.Contains(s.bodies, n) {
		s.bodies = append(s.bodies, n)
	}
	return nil
}

// RemoveBody removes the body bound to n from the
// physics world and stops tracking n.
func (s *Scene) RemoveBody(n *node.Node) error {
	i := slices.Index(s.bodies, n)
	if i < 0 {
		return errors.New(prefix + "node " + n.Name + " is not tracked")
	}
	s.bodies = slices.Delete(s.bodies, i, i+1)
	id, ok := n.Body()
	n.Unbind()
	if !ok {
		return nil
	}
	return s.world.RemoveBody(id)
}

// AddCompound builds a compound body and registers it.
// The error, if any, is a *compound.BodyCreationError.
func (s *Scene) AddCompound(base compound.BaseSpec, links []compound.LinkSpec) (*compound.Body, error) {
	b, err := compound.Build(s.world, base, links)
	if err != nil {
		return nil, err
	}
	s.compounds = append(s.compounds, b)
	return b, nil
}

// RemoveCompound removes b from the physics world and
// stops tracking it.
func (s *Scene) RemoveCompound(b *compound.Body) error {
	i := slices.Index(s.compounds, b)
	if i < 0 {
		return errors.New(prefix + "compound is not tracked")
	}
	s.compounds = slices.Delete(s.compounds, i, i+1)
	return b.Remove()
}

// OnFrame advances the scene by one frame that lasted dt
// seconds.
//
// The physics world is stepped exactly once, then the
// poses of every tracked body and compound are copied to
// their nodes. Those copies are never written back.
// Controllers run next, then the camera moves and is
// updated. Finally, every visible node with a drawable
// is submitted to the renderer.
//
// Render failures are logged and skipped. A dangling
// body is returned as a *DanglingBodyError if the scene
// is strict, and is logged otherwise.
func (s *Scene) OnFrame(dt float32) error {
	s.stats = Stats{}
	step := s.clock.Advance(dt)
	s.world.SetGravity(s.env.Gravity)
	s.world.Step(step)

	if err := s.pull(); err != nil {
		return err
	}

	for _, c := range s.ctrls {
		if err := c.Control(s); err != nil {
			s.log.Warn(prefix+"controller failed", "err", err)
		}
	}

	if s.cam != nil {
		s.cam.Move(step)
		if err := s.cam.Update(); err != nil {
			s.log.Warn(prefix+"camera not updated", "node", s.cam.Name, "err", err)
		}
	}

	s.draw()
	return nil
}

// pulled is a pose read from the physics world, waiting
// to be applied to its node.
type pulled struct {
	n     *node.Node
	p     physics.Pose
	depth int
}

// pull copies physics poses to nodes.
// Every pose is read before any is applied. Poses are
// then applied from the root down, so a node's parent
// already holds this frame's pose when the node's local
// transform is derived from it.
func (s *Scene) pull() error {
	ps := s.pending[:0]
	add := func(n *node.Node, p physics.Pose) {
		d := 0
		for a := n.Parent(); a != nil; a = a.Parent() {
			d++
		}
		ps = append(ps, pulled{n, p, d})
	}

	for _, n := range s.bodies {
		id, ok := n.Body()
		if !ok {
			if err := s.dangling(n, id, physics.Base, nil); err != nil {
				return err
			}
			continue
		}
		p, err := s.world.Pose(id)
		if err != nil {
			if err := s.dangling(n, id, physics.Base, err); err != nil {
				return err
			}
			continue
		}
		add(n, p)
	}

	for _, b := range s.compounds {
		p, err := s.world.Pose(b.ID())
		if err != nil {
			if err := s.dangling(b.Base(), b.ID(), physics.Base, err); err != nil {
				return err
			}
			continue
		}
		add(b.Base(), p)
		for l, n := range b.Links() {
			p, err := s.world.LinkPose(b.ID(), l)
			if err != nil {
				if err := s.dangling(n, b.ID(), l, err); err != nil {
					return err
				}
				continue
			}
			add(n, p)
		}
	}

	slices.SortStableFunc(ps, func(a, b pulled) int { return a.depth - b.depth })
	for i := range ps {
		ps[i].n.SetWorldPose(ps[i].p, node.FromPhysics)
	}
	clear(ps)
	s.pending = ps[:0]
	return nil
}

func (s *Scene) dangling(n *node.Node, id physics.BodyID, l physics.LinkID, err error) error {
	s.stats.Dangling++
	e := &DanglingBodyError{Node: n.Name, Body: id, Link: l, Err: err}
	if s.strict {
		return errors.WithStack(e)
	}
	s.log.Warn(prefix+"dangling body", "node", n.Name, "body", id, "link", l, "err", err)
	return nil
}

// frame returns the per-frame values of the binding table.
func (s *Scene) frame() (f render.Frame) {
	f.Light = s.env.Light
	if s.cam == nil {
		f.Projection.I()
		f.View.I()
		return
	}
	f.Projection = s.cam.Projection()
	f.View = s.cam.View()
	f.ViewPos = s.cam.Eye()
	return
}

func (s *Scene) draw() {
	fr, _ := s.rend.(render.FrameRenderer)
	if fr != nil {
		if err := fr.BeginFrame(); err != nil {
			s.log.Warn(prefix+"frame not rendered", "err", err)
			return
		}
	}

	f := s.frame()
	s.root.ForEach(func(n *node.Node) {
		d := n.Drawable
		if d == nil || d.Material == nil {
			return
		}
		if !n.Visible() {
			s.stats.Hidden++
			return
		}
		model := n.World()
		mat := d.Material
		u, err := s.table.Resolve(mat.Requires(), &f, &model, mat)
		if err != nil {
			s.stats.Failed++
			s.log.Warn(prefix+"draw skipped", "node", n.Name, "err", err)
			return
		}
		dc := render.DrawCall{
			Buffer:   d.Mesh.Buffer,
			Program:  mat.Program(),
			Count:    d.Mesh.Count,
			Settings: mat.Settings(),
			Uniforms: u,
			Name:     n.Name,
		}
		if err := s.rend.Submit(&dc); err != nil {
			s.stats.Failed++
			s.log.Warn(prefix+"draw failed", "node", n.Name, "err", err)
			return
		}
		s.stats.Drawn++
	})

	if fr != nil {
		if err := fr.EndFrame(); err != nil {
			s.log.Warn(prefix+"frame not presented", "err", err)
		}
	}
}
