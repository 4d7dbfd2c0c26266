package sim

import (
	"fmt"

	"github.com/daniacca/alchesim/internal/chem"
	"github.com/daniacca/alchesim/internal/codec"
	"github.com/daniacca/alchesim/internal/hexgrid"
)

// placedMolecule transforms a puzzle-frame molecule into board
// coordinates: rotate by the part's reduced rotation, then translate
// to its position.
func placedMolecule(m chem.Molecule, pos hexgrid.HexIndex, rotation int) chem.Molecule {
	rot := hexgrid.NormalizeRotation(rotation)
	return m.RotateAround(hexgrid.HexIndex{}, rot).Translate(pos)
}

// Input deposits copies of its reagent. It fires whenever its
// footprint is clear, so a consumed or carried-away molecule is
// replaced on the next settle pass.
type Input struct {
	label    string
	template chem.Molecule // board coordinates
}

func newInput(p codec.Part, reagent chem.Molecule) *Input {
	return &Input{
		label:    fmt.Sprintf("input at (%d,%d)", p.Pos.Q, p.Pos.R),
		template: placedMolecule(reagent, p.Pos, p.Rotation),
	}
}

func (in *Input) Clone() Part {
	out := *in
	out.template = in.template.Clone()
	return &out
}

func (in *Input) Tick(s *Sim, cycleStart bool) error {
	if cycleStart {
		return nil
	}
	for pos := range in.template.Atoms {
		if _, occupied := s.moleculeAt(pos); occupied {
			return nil
		}
	}
	s.addMolecule(&SimMolecule{Layout: in.template.Clone()})
	s.log.Debugf("cycle %d: %s deposited %d atoms", s.cycle, in.label, len(in.template.Atoms))
	return nil
}

// Output consumes molecules structurally equivalent to its product
// and counts toward the puzzle's required multiplied count. The
// polymer variant shares the behaviour under its own type tag.
type Output struct {
	label    string
	target   chem.Molecule // board coordinates
	required int
	count    int
}

func newOutput(p codec.Part, product chem.Molecule, required int) *Output {
	return &Output{
		label:    fmt.Sprintf("%s at (%d,%d)", p.Type, p.Pos.Q, p.Pos.R),
		target:   placedMolecule(product, p.Pos, p.Rotation),
		required: required,
	}
}

func (o *Output) Clone() Part {
	out := *o
	out.target = o.target.Clone()
	return &out
}

// Complete reports whether the output reached its required count.
func (o *Output) Complete() bool {
	return o.count >= o.required
}

func (o *Output) Tick(s *Sim, cycleStart bool) error {
	if cycleStart || o.Complete() {
		return nil
	}
	// One molecule must cover the footprint; probing a single target
	// cell finds it, equality does the rest.
	var probe hexgrid.HexIndex
	for pos := range o.target.Atoms {
		probe = pos
		break
	}
	m, ok := s.moleculeAt(probe)
	if !ok || m.Grabbed {
		return nil
	}
	if !m.Absolute().Equal(o.target) {
		return nil
	}
	s.removeMolecule(m)
	o.count++
	s.log.Debugf("cycle %d: %s consumed product %d/%d", s.cycle, o.label, o.count, o.required)
	return nil
}

// Conduit teleports dropped molecules between its two endpoints,
// re-orienting them into the receiving frame.
type Conduit struct {
	label   string
	id      int
	pos     hexgrid.HexIndex
	rot     hexgrid.Rotation
	hexes   []hexgrid.HexIndex // absolute footprint
	partner *Conduit
}

func newConduit(p codec.Part) *Conduit {
	return &Conduit{
		label: fmt.Sprintf("conduit %d at (%d,%d)", p.ConduitID, p.Pos.Q, p.Pos.R),
		id:    p.ConduitID,
		pos:   p.Pos,
		rot:   hexgrid.NormalizeRotation(p.Rotation),
		hexes: p.ConduitHexes,
	}
}

func (c *Conduit) Clone() Part {
	out := *c
	return &out
}

// covers reports whether every atom of the molecule lies inside the
// conduit footprint.
func (c *Conduit) covers(m *SimMolecule) bool {
	abs := m.Absolute()
	for pos := range abs.Atoms {
		inside := false
		for _, hex := range c.hexes {
			if hex == pos {
				inside = true
				break
			}
		}
		if !inside {
			return false
		}
	}
	return len(abs.Atoms) > 0
}

func (c *Conduit) Tick(s *Sim, cycleStart bool) error {
	if cycleStart || c.partner == nil {
		return nil
	}
	delta := int(c.partner.rot) - int(c.rot)
	for _, m := range s.molecules {
		if m.Grabbed || s.teleported[m] || !c.covers(m) {
			continue
		}
		abs := m.Absolute().
			Translate(c.pos.Scale(-1)).
			RotateAround(hexgrid.HexIndex{}, hexgrid.NormalizeRotation(delta)).
			Translate(c.partner.pos)
		m.Layout = abs
		m.Pos = hexgrid.HexIndex{}
		s.teleported[m] = true
		s.log.Debugf("cycle %d: %s transferred a molecule", s.cycle, c.label)
	}
	return nil
}
