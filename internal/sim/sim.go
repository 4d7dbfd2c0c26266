// Package sim runs a decoded puzzle/solution pair through the
// deterministic cycle loop: arms move, movements are collision
// checked as a batch, glyphs transform, outputs count. Cycles execute
// strictly in sequence and parts tick in placement order, because
// downstream state depends on that exact order.
package sim

import (
	"fmt"

	"github.com/daniacca/alchesim/internal/chem"
	"github.com/daniacca/alchesim/internal/codec"
	"github.com/daniacca/alchesim/internal/collision"
	"github.com/daniacca/alchesim/internal/hexgrid"
)

// DefaultMaxCycles bounds a run that never completes.
const DefaultMaxCycles = 100000

// Status is the run state.
type Status int

const (
	Running Status = iota
	Succeeded
	Failed
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Config tunes a run. Zero values select the defaults.
type Config struct {
	MaxCycles      int
	CollisionSteps int
	Logger         Logger
}

// Sim owns the live molecules and parts for one run. It is
// single-threaded; independent runs may execute in parallel on
// separate instances.
type Sim struct {
	log            Logger
	maxCycles      int
	collisionSteps int

	cycle     int
	status    Status
	failure   *SimulationError
	parts     []Part
	arms      []*Arm
	outputs   []*Output
	molecules []*SimMolecule

	// Per-cycle scratch state.
	colliders  []collision.Collider
	commits    []func()
	moving     map[*SimMolecule]bool
	produced   map[hexgrid.HexIndex]bool
	teleported map[*SimMolecule]bool
}

// New validates the solution against the puzzle and builds a run.
// A *ValidationError is returned before any simulation state exists
// when the solution is semantically illegal.
func New(puzzle *codec.Puzzle, solution *codec.Solution, cfg Config) (*Sim, error) {
	if err := validateSolution(puzzle, solution); err != nil {
		return nil, err
	}

	s := &Sim{
		log:            cfg.Logger,
		maxCycles:      cfg.MaxCycles,
		collisionSteps: cfg.CollisionSteps,
		parts:          buildParts(puzzle, solution),
		produced:       make(map[hexgrid.HexIndex]bool),
	}
	if s.log == nil {
		s.log = NewNoOpLogger()
	}
	if s.maxCycles <= 0 {
		s.maxCycles = DefaultMaxCycles
	}
	if s.collisionSteps <= 0 {
		s.collisionSteps = collision.DefaultSteps
	}

	conduits := make(map[int]*Conduit)
	for _, p := range s.parts {
		switch part := p.(type) {
		case *Arm:
			s.arms = append(s.arms, part)
		case *Output:
			s.outputs = append(s.outputs, part)
		case *Conduit:
			if other, ok := conduits[part.id]; ok {
				other.partner, part.partner = part, other
			} else {
				conduits[part.id] = part
			}
		}
	}
	return s, nil
}

// Clone deep-copies the run, parts and molecules included.
func (s *Sim) Clone() *Sim {
	out := &Sim{
		log:            s.log,
		maxCycles:      s.maxCycles,
		collisionSteps: s.collisionSteps,
		cycle:          s.cycle,
		status:         s.status,
		failure:        s.failure,
		produced:       make(map[hexgrid.HexIndex]bool, len(s.produced)),
	}
	for pos := range s.produced {
		out.produced[pos] = true
	}
	conduits := make(map[int]*Conduit)
	for _, p := range s.parts {
		clone := p.Clone()
		out.parts = append(out.parts, clone)
		switch part := clone.(type) {
		case *Arm:
			out.arms = append(out.arms, part)
		case *Output:
			out.outputs = append(out.outputs, part)
		case *Conduit:
			if other, ok := conduits[part.id]; ok {
				other.partner, part.partner = part, other
			} else {
				conduits[part.id] = part
			}
		}
	}
	for _, m := range s.molecules {
		out.molecules = append(out.molecules, m.Clone())
	}
	return out
}

// Cycle returns the current cycle number.
func (s *Sim) Cycle() int {
	return s.cycle
}

// Status returns the run state.
func (s *Sim) Status() Status {
	return s.status
}

// Failure returns the terminating error of a failed run.
func (s *Sim) Failure() *SimulationError {
	return s.failure
}

// Molecules returns the live molecules, for reporting.
func (s *Sim) Molecules() []*SimMolecule {
	return s.molecules
}

// Run executes cycles until success, failure or the cycle bound.
func (s *Sim) Run() error {
	for s.status == Running {
		if err := s.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Step advances the run by one cycle.
func (s *Sim) Step() error {
	if s.status != Running {
		return nil
	}
	if s.cycle >= s.maxCycles {
		return s.fail(&SimulationError{
			Cycle:  s.cycle,
			Kind:   FailIncomplete,
			Detail: fmt.Sprintf("outputs unfinished after %d cycles", s.maxCycles),
		})
	}

	// Movement half: arms execute their instructions in placement
	// order, registering intended movements and their colliders.
	s.colliders = s.colliders[:0]
	s.commits = s.commits[:0]
	s.moving = make(map[*SimMolecule]bool)
	s.teleported = make(map[*SimMolecule]bool)

	for _, p := range s.parts {
		if err := p.Tick(s, true); err != nil {
			if serr, ok := err.(*SimulationError); ok {
				return s.fail(serr)
			}
			return err
		}
	}
	s.addStationaryColliders()

	// The whole batch is checked before anything commits.
	if hit, collided := collision.Check(s.colliders, s.collisionSteps); collided {
		return s.fail(&SimulationError{
			Cycle:  s.cycle,
			Kind:   FailCollision,
			Entity: describeHit(hit),
		})
	}
	for _, commit := range s.commits {
		commit()
	}
	// Atoms produced last cycle have settled to full size by now.
	s.produced = make(map[hexgrid.HexIndex]bool)

	// Settle half: glyphs transform, conduits transfer, inputs spawn
	// and outputs consume, again in placement order.
	for _, p := range s.parts {
		if err := p.Tick(s, false); err != nil {
			if serr, ok := err.(*SimulationError); ok {
				return s.fail(serr)
			}
			return err
		}
	}
	s.recomputeConnectivity()

	if s.outputsComplete() {
		s.status = Succeeded
		s.log.Infof("cycle %d: all outputs complete", s.cycle)
	}
	s.cycle++
	return nil
}

func (s *Sim) fail(serr *SimulationError) error {
	s.status = Failed
	s.failure = serr
	s.log.Errorf("%v", serr)
	return serr
}

func (s *Sim) outputsComplete() bool {
	if len(s.outputs) == 0 {
		return false
	}
	for _, o := range s.outputs {
		if !o.Complete() {
			return false
		}
	}
	return true
}

// addCollider registers one collider for this cycle's batch.
func (s *Sim) addCollider(ty collision.Type, mv collision.Movement) {
	s.colliders = append(s.colliders, collision.Collider{Type: ty, Movement: mv})
}

// atomColliderType picks the collider type for an atom at an absolute
// position: atoms produced by a glyph on the previous cycle still
// carry the reduced radius for one movement check.
func (s *Sim) atomColliderType(pos hexgrid.HexIndex) collision.Type {
	if s.produced[pos] {
		return collision.ProducedAtom
	}
	return collision.Atom
}

// registerMoleculeSweep registers rotation colliders for every atom
// of a molecule and marks it moving.
func (s *Sim) registerMoleculeSweep(m *SimMolecule, around hexgrid.HexIndex, dir int) {
	s.moving[m] = true
	for pos := range m.Absolute().Atoms {
		s.addCollider(s.atomColliderType(pos), collision.Sweep(pos, around, dir))
	}
}

// registerMoleculeSlide registers translation colliders for every
// atom of a molecule and marks it moving.
func (s *Sim) registerMoleculeSlide(m *SimMolecule, d hexgrid.HexIndex) {
	s.moving[m] = true
	for pos := range m.Absolute().Atoms {
		s.addCollider(s.atomColliderType(pos), collision.Slide(pos, pos.Add(d)))
	}
}

// addStationaryColliders covers every atom no arm is moving this
// cycle.
func (s *Sim) addStationaryColliders() {
	for _, m := range s.molecules {
		if s.moving[m] {
			continue
		}
		for pos := range m.Absolute().Atoms {
			s.addCollider(s.atomColliderType(pos), collision.Stay(pos))
		}
	}
}

// deferCommit queues a movement commit to run after the collision
// check passes.
func (s *Sim) deferCommit(f func()) {
	s.commits = append(s.commits, f)
}

// occupied reports whether any molecule atom sits at pos.
func (s *Sim) occupied(pos hexgrid.HexIndex) bool {
	_, ok := s.moleculeAt(pos)
	return ok
}

// produceAtom spawns a fresh single-atom molecule, remembered as
// newly produced for the next collision pass.
func (s *Sim) produceAtom(pos hexgrid.HexIndex, a chem.Atom) {
	layout := chem.NewMolecule()
	layout.Atoms[hexgrid.HexIndex{}] = a
	s.addMolecule(&SimMolecule{Layout: layout, Pos: pos})
	s.produced[pos] = true
}

func describeHit(hit collision.Hit) string {
	a, b := hit.A, hit.B
	return fmt.Sprintf("%s at (%d,%d) against %s at (%d,%d)",
		a.Type, a.Movement.Start.Q, a.Movement.Start.R,
		b.Type, b.Movement.Start.Q, b.Movement.Start.R)
}
