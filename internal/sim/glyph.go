package sim

import (
	"fmt"

	"github.com/daniacca/alchesim/internal/chem"
	"github.com/daniacca/alchesim/internal/codec"
	"github.com/daniacca/alchesim/internal/hexgrid"
)

// Glyph is a stationary mechanism applying a fixed chemical transform
// to atoms at fixed offsets from its position. One struct serves all
// glyph kinds; the transform is selected by the type tag, every rule
// deterministic.
type Glyph struct {
	kind  codec.PartType
	label string
	pos   hexgrid.HexIndex
	rot   hexgrid.Rotation
}

func newGlyph(p codec.Part) *Glyph {
	return &Glyph{
		kind:  p.Type,
		label: fmt.Sprintf("%s at (%d,%d)", p.Type, p.Pos.Q, p.Pos.R),
		pos:   p.Pos,
		rot:   hexgrid.NormalizeRotation(p.Rotation),
	}
}

func (g *Glyph) Clone() Part {
	out := *g
	return &out
}

// pad returns the absolute cell at the glyph-relative direction step.
func (g *Glyph) pad(step int) hexgrid.HexIndex {
	return g.pos.Add(hexgrid.Direction(g.rot.Add(step)))
}

func (g *Glyph) Tick(s *Sim, cycleStart bool) error {
	if cycleStart {
		return nil
	}
	switch g.kind {
	case codec.PartBonding:
		s.addBond(g.pos, g.pad(0), chem.NormalBond)
	case codec.PartMultiBonding:
		s.addBond(g.pos, g.pad(0), chem.NormalBond)
		s.addBond(g.pos, g.pad(2), chem.NormalBond)
		s.addBond(g.pos, g.pad(4), chem.NormalBond)
	case codec.PartUnbonding:
		s.removeBond(g.pos, g.pad(0))
	case codec.PartTriplexBonding:
		g.triplex(s)
	case codec.PartCalcification:
		if a, ok := s.atomAt(g.pos); ok && a.IsElemental() {
			if m, ok := s.moleculeAt(g.pos); ok {
				m.SetAtom(g.pos, chem.Salt)
			}
		}
	case codec.PartDuplication:
		g.duplicate(s)
	case codec.PartAnimismus:
		g.animismus(s)
	case codec.PartUnification:
		g.unification(s)
	case codec.PartDispersion:
		g.dispersion(s)
	case codec.PartProjection:
		g.projection(s)
	case codec.PartPurification:
		g.purification(s)
	case codec.PartDisposal:
		if m, _, ok := s.singleFreeAtom(g.pos); ok {
			s.removeMolecule(m)
		}
	}
	return nil
}

// triplex adds one colour component between each pair of its three
// pads. Only fire atoms take triplex bonds.
func (g *Glyph) triplex(s *Sim) {
	a, b, c := g.pos, g.pad(0), g.pad(1)
	fire := func(pos hexgrid.HexIndex) bool {
		atom, ok := s.atomAt(pos)
		return ok && atom == chem.Fire
	}
	pairs := []struct {
		from, to hexgrid.HexIndex
		ty       chem.BondType
	}{
		{a, b, chem.BondType{Triplex: true, Red: true}},
		{b, c, chem.BondType{Triplex: true, Black: true}},
		{a, c, chem.BondType{Triplex: true, Yellow: true}},
	}
	for _, p := range pairs {
		if fire(p.from) && fire(p.to) {
			s.addBond(p.from, p.to, p.ty)
		}
	}
}

// duplicate copies the element under the source pad onto a salt on
// the target pad. Van Berlo wheel atoms are valid sources.
func (g *Glyph) duplicate(s *Sim) {
	src, ok := s.elementAt(g.pos)
	if !ok || !src.IsElemental() {
		return
	}
	target := g.pad(0)
	if a, ok := s.atomAt(target); ok && a == chem.Salt {
		if m, ok := s.moleculeAt(target); ok {
			m.SetAtom(target, src)
		}
	}
}

// animismus consumes two salts and produces vitae and mors on its
// output pads.
func (g *Glyph) animismus(s *Sim) {
	inA, aA, okA := s.singleFreeAtom(g.pos)
	inB, aB, okB := s.singleFreeAtom(g.pad(0))
	if !okA || !okB || aA != chem.Salt || aB != chem.Salt {
		return
	}
	outA, outB := g.pad(1), g.pad(5)
	if s.occupied(outA) || s.occupied(outB) {
		return
	}
	s.removeMolecule(inA)
	s.removeMolecule(inB)
	s.produceAtom(outA, chem.Vitae)
	s.produceAtom(outB, chem.Mors)
}

// unificationPads maps the four element pads around a unification or
// dispersion glyph, by direction step from its rotation.
var unificationPads = [4]struct {
	step int
	atom chem.Atom
}{
	{0, chem.Air},
	{1, chem.Water},
	{3, chem.Fire},
	{4, chem.Earth},
}

// unification consumes one of each classic element and produces
// quintessence at the centre.
func (g *Glyph) unification(s *Sim) {
	var inputs [4]*SimMolecule
	for i, pad := range unificationPads {
		m, a, ok := s.singleFreeAtom(g.pad(pad.step))
		if !ok || a != pad.atom {
			return
		}
		inputs[i] = m
	}
	if s.occupied(g.pos) {
		return
	}
	for _, m := range inputs {
		s.removeMolecule(m)
	}
	s.produceAtom(g.pos, chem.Quintessence)
}

// dispersion consumes quintessence at the centre and produces the
// four classic elements on its pads.
func (g *Glyph) dispersion(s *Sim) {
	in, a, ok := s.singleFreeAtom(g.pos)
	if !ok || a != chem.Quintessence {
		return
	}
	for _, pad := range unificationPads {
		if s.occupied(g.pad(pad.step)) {
			return
		}
	}
	s.removeMolecule(in)
	for _, pad := range unificationPads {
		s.produceAtom(g.pad(pad.step), pad.atom)
	}
}

// projection consumes an unbonded quicksilver and promotes the metal
// on its target pad one step up the chain.
func (g *Glyph) projection(s *Sim) {
	qs, a, ok := s.singleFreeAtom(g.pos)
	if !ok || a != chem.Quicksilver {
		return
	}
	target := g.pad(0)
	atom, ok := s.atomAt(target)
	if !ok {
		return
	}
	promoted, ok := atom.Promoted()
	if !ok {
		return
	}
	if m, ok := s.moleculeAt(target); ok {
		s.removeMolecule(qs)
		m.SetAtom(target, promoted)
	}
}

// purification consumes two equal metals and produces the next metal
// up the chain on its output pad.
func (g *Glyph) purification(s *Sim) {
	inA, aA, okA := s.singleFreeAtom(g.pos)
	inB, aB, okB := s.singleFreeAtom(g.pad(0))
	if !okA || !okB || aA != aB {
		return
	}
	promoted, ok := aA.Promoted()
	if !ok {
		return
	}
	out := g.pad(1)
	if s.occupied(out) {
		return
	}
	s.removeMolecule(inA)
	s.removeMolecule(inB)
	s.produceAtom(out, promoted)
}
