package sim

import (
	"github.com/daniacca/alchesim/internal/chem"
	"github.com/daniacca/alchesim/internal/hexgrid"
)

// SimMolecule is a live molecule instance on the board: a layout in
// molecule-local coordinates plus an absolute offset. Rotations are
// folded into the layout when they commit, so the offset is the only
// frame difference between layout and board.
type SimMolecule struct {
	Layout  chem.Molecule
	Pos     hexgrid.HexIndex
	Grabbed bool
}

// Contains reports whether the molecule has an atom at the absolute
// board position.
func (m *SimMolecule) Contains(abs hexgrid.HexIndex) bool {
	return m.Layout.Contains(abs.Sub(m.Pos))
}

// AtomAt fetches the atom at an absolute board position.
func (m *SimMolecule) AtomAt(abs hexgrid.HexIndex) (chem.Atom, bool) {
	return m.Layout.AtomAt(abs.Sub(m.Pos))
}

// Absolute returns the layout remapped into board coordinates.
func (m *SimMolecule) Absolute() chem.Molecule {
	return m.Layout.Translate(m.Pos)
}

// SetAtom replaces the atom at an absolute position.
func (m *SimMolecule) SetAtom(abs hexgrid.HexIndex, a chem.Atom) {
	m.Layout.Atoms[abs.Sub(m.Pos)] = a
}

// Translate shifts the whole molecule by d.
func (m *SimMolecule) Translate(d hexgrid.HexIndex) {
	m.Pos = m.Pos.Add(d)
}

// RotateAround pivots the whole molecule around an absolute position.
// The rotation is applied to the layout so the offset frame stays a
// pure translation.
func (m *SimMolecule) RotateAround(abs hexgrid.HexIndex, rot hexgrid.Rotation) {
	pivot := abs.Sub(m.Pos)
	m.Layout = m.Layout.RotateAround(pivot, rot)
}

// Clone returns a deep copy.
func (m *SimMolecule) Clone() *SimMolecule {
	return &SimMolecule{Layout: m.Layout.Clone(), Pos: m.Pos, Grabbed: m.Grabbed}
}

// moleculeAt finds the live molecule occupying an absolute position.
func (s *Sim) moleculeAt(abs hexgrid.HexIndex) (*SimMolecule, bool) {
	for _, m := range s.molecules {
		if m.Contains(abs) {
			return m, true
		}
	}
	return nil, false
}

// atomAt fetches the molecule atom at an absolute position.
func (s *Sim) atomAt(abs hexgrid.HexIndex) (chem.Atom, bool) {
	if m, ok := s.moleculeAt(abs); ok {
		return m.AtomAt(abs)
	}
	return 0, false
}

// elementAt fetches the atom visible to glyphs at an absolute
// position: molecule atoms first, then the fixed atoms riding on a
// Van Berlo wheel.
func (s *Sim) elementAt(abs hexgrid.HexIndex) (chem.Atom, bool) {
	if a, ok := s.atomAt(abs); ok {
		return a, true
	}
	for _, arm := range s.arms {
		if a, ok := arm.berloAtomAt(abs); ok {
			return a, true
		}
	}
	return 0, false
}

func (s *Sim) addMolecule(m *SimMolecule) {
	s.molecules = append(s.molecules, m)
}

func (s *Sim) removeMolecule(target *SimMolecule) {
	for i, m := range s.molecules {
		if m == target {
			s.molecules = append(s.molecules[:i], s.molecules[i+1:]...)
			return
		}
	}
}

// singleFreeAtom reports whether abs holds a one-atom molecule that is
// neither bonded nor grabbed, the only form glyphs may consume.
func (s *Sim) singleFreeAtom(abs hexgrid.HexIndex) (*SimMolecule, chem.Atom, bool) {
	m, ok := s.moleculeAt(abs)
	if !ok || m.Grabbed || len(m.Layout.Atoms) != 1 || len(m.Layout.Bonds) != 0 {
		return nil, 0, false
	}
	a, _ := m.AtomAt(abs)
	return m, a, true
}

// addBond joins the atoms at two absolute positions. Molecules are
// merged eagerly; a bond already in place absorbs triplex colour
// flags instead of duplicating.
func (s *Sim) addBond(a, b hexgrid.HexIndex, ty chem.BondType) {
	ma, okA := s.moleculeAt(a)
	mb, okB := s.moleculeAt(b)
	if !okA || !okB {
		return
	}
	if ma != mb {
		// Fold b's molecule into a's, in a's frame.
		abs := mb.Absolute().Translate(ma.Pos.Scale(-1))
		for pos, atom := range abs.Atoms {
			ma.Layout.Atoms[pos] = atom
		}
		ma.Layout.Bonds = append(ma.Layout.Bonds, abs.Bonds...)
		ma.Grabbed = ma.Grabbed || mb.Grabbed
		s.removeMolecule(mb)
	}
	la, lb := a.Sub(ma.Pos), b.Sub(ma.Pos)
	if i, ok := ma.Layout.BondBetween(la, lb); ok {
		if ty.Triplex && ma.Layout.Bonds[i].Type.Triplex {
			ma.Layout.Bonds[i].Type = ma.Layout.Bonds[i].Type.Merge(ty)
		}
		return
	}
	ma.Layout.Bonds = append(ma.Layout.Bonds, chem.Bond{Start: la, End: lb, Type: ty})
}

// removeBond deletes the bond between two absolute positions, if any.
// The molecule may split; splits are settled by recomputeConnectivity
// at the end of the glyph pass.
func (s *Sim) removeBond(a, b hexgrid.HexIndex) {
	m, ok := s.moleculeAt(a)
	if !ok || !m.Contains(b) {
		return
	}
	la, lb := a.Sub(m.Pos), b.Sub(m.Pos)
	if i, ok := m.Layout.BondBetween(la, lb); ok {
		m.Layout.Bonds = append(m.Layout.Bonds[:i], m.Layout.Bonds[i+1:]...)
	}
}

// recomputeConnectivity splits every molecule into its connected
// components, so atom sets disconnected by an unbonder become
// independent molecules. Merges were already applied by addBond.
func (s *Sim) recomputeConnectivity() {
	var next []*SimMolecule
	for _, m := range s.molecules {
		parts := m.Layout.Components()
		if len(parts) <= 1 {
			next = append(next, m)
			continue
		}
		for _, part := range parts {
			next = append(next, &SimMolecule{Layout: part, Pos: m.Pos})
		}
	}
	s.molecules = next
	s.refreshGrabs()
}

// refreshGrabs rederives every molecule's grabbed flag from the arms'
// current grips. Molecule identity changes across connectivity
// recomputes, so grips track atom positions, not molecule pointers.
func (s *Sim) refreshGrabs() {
	for _, m := range s.molecules {
		m.Grabbed = false
	}
	for _, arm := range s.arms {
		for _, grip := range arm.grips {
			if !grip.active {
				continue
			}
			if m, ok := s.moleculeAt(grip.pos); ok {
				m.Grabbed = true
			}
		}
	}
}
