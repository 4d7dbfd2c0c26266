package sim

import (
	"fmt"

	"github.com/daniacca/alchesim/internal/chem"
	"github.com/daniacca/alchesim/internal/codec"
	"github.com/daniacca/alchesim/internal/collision"
	"github.com/daniacca/alchesim/internal/hexgrid"
)

const maxArmLength = 3

// berloAtoms are the fixed atoms riding the six spokes of a Van Berlo
// wheel, by spoke index.
var berloAtoms = [6]chem.Atom{
	chem.Salt, chem.Water, chem.Air, chem.Salt, chem.Fire, chem.Earth,
}

// grip is one gripper's hold: the absolute position of the atom it
// grabbed. Positions rather than molecule pointers survive the
// connectivity recomputes that replace molecule instances.
type grip struct {
	active bool
	pos    hexgrid.HexIndex
}

// armHome is the state an arm returns to on a Reset instruction.
type armHome struct {
	pos      hexgrid.HexIndex
	rot      hexgrid.Rotation
	length   int
	trackIdx int
}

// Arm is the live state of any arm-family part: plain arms with one
// to six grippers, pistons, and the Van Berlo wheel.
type Arm struct {
	kind     codec.PartType
	label    string
	pos      hexgrid.HexIndex
	rot      hexgrid.Rotation
	length   int
	grips    []grip
	tape     tape
	track    []hexgrid.HexIndex
	trackIdx int
	home     armHome
}

func newArm(p codec.Part, tracks [][]hexgrid.HexIndex) *Arm {
	a := &Arm{
		kind:   p.Type,
		label:  fmt.Sprintf("%s at (%d,%d)", p.Type, p.Pos.Q, p.Pos.R),
		pos:    p.Pos,
		rot:    hexgrid.NormalizeRotation(p.Rotation),
		length: p.ArmLength,
		grips:  make([]grip, gripperCount(p.Type)),
		tape:   newTape(p.Instructions),
	}
	if a.kind == codec.PartBerlo {
		a.length = 1
	}
	for _, track := range tracks {
		for i, hex := range track {
			if hex == a.pos {
				a.track, a.trackIdx = track, i
				break
			}
		}
		if a.track != nil {
			break
		}
	}
	a.home = armHome{pos: a.pos, rot: a.rot, length: a.length, trackIdx: a.trackIdx}
	return a
}

func gripperCount(t codec.PartType) int {
	switch t {
	case codec.PartBiArm:
		return 2
	case codec.PartTriArm:
		return 3
	case codec.PartHexArm, codec.PartBerlo:
		return 6
	default:
		return 1
	}
}

// gripperPos returns the absolute position of gripper i: the grippers
// sit at even angular spacing starting from the arm's rotation.
func (a *Arm) gripperPos(i int) hexgrid.HexIndex {
	step := 6 / len(a.grips)
	dir := hexgrid.Direction(a.rot.Add(i * step))
	return a.pos.Add(dir.Scale(a.length))
}

// berloAtomAt returns the wheel atom at an absolute position, if this
// arm is a Van Berlo wheel with a spoke there.
func (a *Arm) berloAtomAt(abs hexgrid.HexIndex) (chem.Atom, bool) {
	if a.kind != codec.PartBerlo {
		return 0, false
	}
	for i := range a.grips {
		if a.gripperPos(i) == abs {
			return berloAtoms[i], true
		}
	}
	return 0, false
}

func (a *Arm) Clone() Part {
	out := *a
	out.grips = make([]grip, len(a.grips))
	copy(out.grips, a.grips)
	return &out
}

// Tick executes the instruction scheduled for the current cycle. Arms
// act in the cycle-start half; the settle half is a no-op.
func (a *Arm) Tick(s *Sim, cycleStart bool) error {
	if !cycleStart {
		return nil
	}
	instr := a.tape.at(s.cycle)

	if a.kind == codec.PartBerlo {
		switch instr {
		case codec.InstrBlank, codec.InstrRotateCW, codec.InstrRotateCCW,
			codec.InstrPeriodOverride, codec.InstrRepeat:
		default:
			return a.failf(s, "%s on a berlo wheel", instr)
		}
	}

	switch instr {
	case codec.InstrGrab:
		return a.grab(s)
	case codec.InstrDrop:
		a.drop(s)
		a.registerStatic(s)
		return nil
	case codec.InstrRotateCW:
		return a.rotate(s, 1)
	case codec.InstrRotateCCW:
		return a.rotate(s, -1)
	case codec.InstrPivotCW:
		return a.pivot(s, 1)
	case codec.InstrPivotCCW:
		return a.pivot(s, -1)
	case codec.InstrExtend:
		return a.telescope(s, 1)
	case codec.InstrRetract:
		return a.telescope(s, -1)
	case codec.InstrAdvance:
		return a.trackStep(s, 1)
	case codec.InstrRetreat:
		return a.trackStep(s, -1)
	case codec.InstrReset:
		return a.reset(s)
	default:
		// Blank, and the tape-shaping markers which execute as blanks.
		a.registerStatic(s)
		return nil
	}
}

func (a *Arm) failf(s *Sim, format string, v ...any) error {
	return &SimulationError{
		Cycle:  s.cycle,
		Kind:   FailInstruction,
		Entity: a.label,
		Detail: fmt.Sprintf(format, v...),
	}
}

// registerStatic adds the stationary colliders for the arm's base,
// grippers and wheel atoms.
func (a *Arm) registerStatic(s *Sim) {
	s.addCollider(collision.ArmBase, collision.Stay(a.pos))
	for i := range a.grips {
		ty := collision.ArmGripper
		if a.kind == codec.PartBerlo {
			ty = collision.Atom
		}
		s.addCollider(ty, collision.Stay(a.gripperPos(i)))
	}
}

// heldMolecules returns the distinct molecules currently gripped.
func (a *Arm) heldMolecules(s *Sim) []*SimMolecule {
	var out []*SimMolecule
	for _, g := range a.grips {
		if !g.active {
			continue
		}
		m, ok := s.moleculeAt(g.pos)
		if !ok {
			continue
		}
		dup := false
		for _, seen := range out {
			if seen == m {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, m)
		}
	}
	return out
}

func (a *Arm) grab(s *Sim) error {
	any := false
	for i := range a.grips {
		if a.grips[i].active {
			any = true
			continue
		}
		pos := a.gripperPos(i)
		if m, ok := s.moleculeAt(pos); ok {
			a.grips[i] = grip{active: true, pos: pos}
			m.Grabbed = true
			any = true
		}
	}
	if !any {
		return a.failf(s, "grab with nothing under any gripper")
	}
	a.registerStatic(s)
	return nil
}

func (a *Arm) drop(s *Sim) {
	for i := range a.grips {
		a.grips[i] = grip{}
	}
	s.refreshGrabs()
}

func (a *Arm) rotate(s *Sim, dir int) error {
	s.addCollider(collision.ArmBase, collision.Stay(a.pos))
	for i := range a.grips {
		ty := collision.ArmGripper
		if a.kind == codec.PartBerlo {
			ty = collision.Atom
		}
		s.addCollider(ty, collision.Sweep(a.gripperPos(i), a.pos, dir))
	}
	held := a.heldMolecules(s)
	for _, m := range held {
		s.registerMoleculeSweep(m, a.pos, dir)
	}
	pivot := a.pos
	s.deferCommit(func() {
		a.rot = a.rot.Add(dir)
		rot := hexgrid.NormalizeRotation(dir)
		for i := range a.grips {
			if a.grips[i].active {
				a.grips[i].pos = a.grips[i].pos.RotateAround(pivot, rot)
			}
		}
		for _, m := range held {
			m.RotateAround(pivot, rot)
		}
	})
	return nil
}

func (a *Arm) pivot(s *Sim, dir int) error {
	a.registerStatic(s)
	seen := make(map[*SimMolecule]bool)
	for i := range a.grips {
		g := a.grips[i]
		if !g.active {
			continue
		}
		m, ok := s.moleculeAt(g.pos)
		if !ok || seen[m] {
			continue
		}
		seen[m] = true
		s.registerMoleculeSweep(m, g.pos, dir)
		pivot := g.pos
		mol := m
		s.deferCommit(func() {
			mol.RotateAround(pivot, hexgrid.NormalizeRotation(dir))
		})
	}
	return nil
}

func (a *Arm) telescope(s *Sim, delta int) error {
	if a.kind != codec.PartPistonArm {
		if delta > 0 {
			return a.failf(s, "extend on a non-piston arm")
		}
		return a.failf(s, "retract on a non-piston arm")
	}
	newLen := a.length + delta
	if newLen < 1 {
		return a.failf(s, "retract below length 1")
	}
	if newLen > maxArmLength {
		return a.failf(s, "extend past maximum reach %d", maxArmLength)
	}
	d := hexgrid.Direction(a.rot).Scale(delta)

	s.addCollider(collision.ArmBase, collision.Stay(a.pos))
	tip := a.gripperPos(0)
	s.addCollider(collision.ArmGripper, collision.Slide(tip, tip.Add(d)))
	held := a.heldMolecules(s)
	for _, m := range held {
		s.registerMoleculeSlide(m, d)
	}
	s.deferCommit(func() {
		a.length = newLen
		for i := range a.grips {
			if a.grips[i].active {
				a.grips[i].pos = a.grips[i].pos.Add(d)
			}
		}
		for _, m := range held {
			m.Translate(d)
		}
	})
	return nil
}

func (a *Arm) trackStep(s *Sim, delta int) error {
	if len(a.track) == 0 {
		return a.failf(s, "track movement off any track")
	}
	newIdx := a.trackIdx + delta
	if newIdx < 0 || newIdx >= len(a.track) {
		if !a.trackLoops() {
			// Stepping past an open track end is absorbed.
			a.registerStatic(s)
			return nil
		}
		newIdx = (newIdx + len(a.track)) % len(a.track)
	}
	d := a.track[newIdx].Sub(a.track[a.trackIdx])

	s.addCollider(collision.ArmBase, collision.Slide(a.pos, a.pos.Add(d)))
	for i := range a.grips {
		ty := collision.ArmGripper
		if a.kind == codec.PartBerlo {
			ty = collision.Atom
		}
		tip := a.gripperPos(i)
		s.addCollider(ty, collision.Slide(tip, tip.Add(d)))
	}
	held := a.heldMolecules(s)
	for _, m := range held {
		s.registerMoleculeSlide(m, d)
	}
	idx := newIdx
	s.deferCommit(func() {
		a.trackIdx = idx
		a.pos = a.pos.Add(d)
		for i := range a.grips {
			if a.grips[i].active {
				a.grips[i].pos = a.grips[i].pos.Add(d)
			}
		}
		for _, m := range held {
			m.Translate(d)
		}
	})
	return nil
}

// trackLoops reports whether the track closes on itself: a loop wraps
// movement past either end.
func (a *Arm) trackLoops() bool {
	if len(a.track) < 3 {
		return false
	}
	first, last := a.track[0], a.track[len(a.track)-1]
	d := first.Sub(last)
	for _, dir := range [6]hexgrid.HexIndex{{Q: 1, R: 0}, {Q: 0, R: 1}, {Q: -1, R: 1}, {Q: -1, R: 0}, {Q: 0, R: -1}, {Q: 1, R: -1}} {
		if d == dir {
			return true
		}
	}
	return false
}

// reset drops everything and returns the arm to its starting state in
// a single step.
func (a *Arm) reset(s *Sim) error {
	a.drop(s)
	s.addCollider(collision.ArmBase, collision.Slide(a.pos, a.home.pos))
	target := *a
	target.pos, target.rot, target.length, target.trackIdx = a.home.pos, a.home.rot, a.home.length, a.home.trackIdx
	for i := range a.grips {
		ty := collision.ArmGripper
		if a.kind == codec.PartBerlo {
			ty = collision.Atom
		}
		s.addCollider(ty, collision.Slide(a.gripperPos(i), target.gripperPos(i)))
	}
	s.deferCommit(func() {
		a.pos, a.rot, a.length, a.trackIdx = a.home.pos, a.home.rot, a.home.length, a.home.trackIdx
	})
	return nil
}

// tape is an arm's instruction schedule: sparse entries over a loop
// period. Unlisted cycles are blank, and the whole tape repeats with
// its period, so a solution keeps producing until the run settles.
type tape struct {
	entries map[int]codec.Instruction
	period  int
}

func newTape(instrs []codec.TimedInstruction) tape {
	t := tape{entries: make(map[int]codec.Instruction, len(instrs))}
	for _, ti := range instrs {
		if ti.Cycle < 0 {
			continue
		}
		t.entries[ti.Cycle] = ti.Instruction
		if ti.Cycle+1 > t.period {
			t.period = ti.Cycle + 1
		}
	}
	// A period-override marker pins the loop point regardless of any
	// later entries.
	for _, ti := range instrs {
		if ti.Instruction == codec.InstrPeriodOverride {
			t.period = ti.Cycle + 1
		}
	}
	return t
}

// at returns the instruction for an absolute cycle. An empty tape is
// forever blank.
func (t tape) at(cycle int) codec.Instruction {
	if t.period == 0 {
		return codec.InstrBlank
	}
	return t.entries[cycle%t.period]
}
