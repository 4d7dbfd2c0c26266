package chem

import (
	"fmt"
	"sort"

	"github.com/daniacca/alchesim/internal/hexgrid"
)

// BondType describes the kind of bond between two atoms. A triplex
// bond carries up to three independent colour components.
type BondType struct {
	Triplex            bool
	Red, Black, Yellow bool
}

// NormalBond is the plain single bond.
var NormalBond = BondType{}

// Merge combines the colour components of two triplex bond types.
func (t BondType) Merge(o BondType) BondType {
	return BondType{
		Triplex: t.Triplex || o.Triplex,
		Red:     t.Red || o.Red,
		Black:   t.Black || o.Black,
		Yellow:  t.Yellow || o.Yellow,
	}
}

// Bond connects two atom positions within a molecule. Endpoints need
// not be grid-adjacent (quantum bonds are legal).
type Bond struct {
	Start, End hexgrid.HexIndex
	Type       BondType
}

// key returns a direction-independent identity for set comparisons.
func (b Bond) key() bondKey {
	s, e := b.Start, b.End
	if e.Q < s.Q || (e.Q == s.Q && e.R < s.R) {
		s, e = e, s
	}
	return bondKey{start: s, end: e, ty: b.Type}
}

type bondKey struct {
	start, end hexgrid.HexIndex
	ty         BondType
}

// Molecule is an atom/bond graph keyed by hex position. The zero value
// is not usable; construct with NewMolecule.
type Molecule struct {
	Atoms map[hexgrid.HexIndex]Atom
	Bonds []Bond
}

// NewMolecule returns an empty molecule.
func NewMolecule() Molecule {
	return Molecule{Atoms: make(map[hexgrid.HexIndex]Atom)}
}

// Clone returns a deep copy of m.
func (m Molecule) Clone() Molecule {
	out := Molecule{
		Atoms: make(map[hexgrid.HexIndex]Atom, len(m.Atoms)),
		Bonds: make([]Bond, len(m.Bonds)),
	}
	for pos, atom := range m.Atoms {
		out.Atoms[pos] = atom
	}
	copy(out.Bonds, m.Bonds)
	return out
}

// Contains reports whether an atom occupies pos.
func (m Molecule) Contains(pos hexgrid.HexIndex) bool {
	_, ok := m.Atoms[pos]
	return ok
}

// AtomAt fetches the atom at pos.
func (m Molecule) AtomAt(pos hexgrid.HexIndex) (Atom, bool) {
	a, ok := m.Atoms[pos]
	return a, ok
}

// Transform produces a new molecule with every atom key and bond
// endpoint remapped through f. Translation and rotation of a whole
// molecule are both expressed through this single operation.
func (m Molecule) Transform(f func(hexgrid.HexIndex) hexgrid.HexIndex) Molecule {
	out := Molecule{
		Atoms: make(map[hexgrid.HexIndex]Atom, len(m.Atoms)),
		Bonds: make([]Bond, 0, len(m.Bonds)),
	}
	for pos, atom := range m.Atoms {
		out.Atoms[f(pos)] = atom
	}
	for _, b := range m.Bonds {
		out.Bonds = append(out.Bonds, Bond{Start: f(b.Start), End: f(b.End), Type: b.Type})
	}
	return out
}

// Translate shifts every atom and bond by d.
func (m Molecule) Translate(d hexgrid.HexIndex) Molecule {
	return m.Transform(func(h hexgrid.HexIndex) hexgrid.HexIndex { return h.Add(d) })
}

// RotateAround rotates every atom and bond around pivot.
func (m Molecule) RotateAround(pivot hexgrid.HexIndex, rot hexgrid.Rotation) Molecule {
	return m.Transform(func(h hexgrid.HexIndex) hexgrid.HexIndex { return h.RotateAround(pivot, rot) })
}

// BondBetween finds the bond joining a and b, in either direction.
func (m Molecule) BondBetween(a, b hexgrid.HexIndex) (int, bool) {
	for i, bond := range m.Bonds {
		if (bond.Start == a && bond.End == b) || (bond.Start == b && bond.End == a) {
			return i, true
		}
	}
	return 0, false
}

// Equal reports structural equivalence in the same coordinate frame:
// matching atom counts, set-equal bonds (endpoint order ignored) and
// identical atom types at every position.
func (m Molecule) Equal(o Molecule) bool {
	if len(m.Atoms) != len(o.Atoms) || len(m.Bonds) != len(o.Bonds) {
		return false
	}
	for pos, atom := range o.Atoms {
		got, ok := m.Atoms[pos]
		if !ok || got != atom {
			return false
		}
	}
	seen := make(map[bondKey]int, len(m.Bonds))
	for _, b := range m.Bonds {
		seen[b.key()]++
	}
	for _, b := range o.Bonds {
		k := b.key()
		if seen[k] == 0 {
			return false
		}
		seen[k]--
	}
	return true
}

// Validate checks the molecule invariant: every bond endpoint must be
// an atom position present in the molecule.
func (m Molecule) Validate() error {
	for _, b := range m.Bonds {
		if !m.Contains(b.Start) {
			return fmt.Errorf("bond endpoint (%d,%d) has no atom", b.Start.Q, b.Start.R)
		}
		if !m.Contains(b.End) {
			return fmt.Errorf("bond endpoint (%d,%d) has no atom", b.End.Q, b.End.R)
		}
	}
	return nil
}

// Components splits m into its connected sub-molecules by flood fill
// over bond adjacency. Connectivity is always recomputed from scratch
// after bond edits rather than patched incrementally.
func (m Molecule) Components() []Molecule {
	adjacency := make(map[hexgrid.HexIndex][]hexgrid.HexIndex, len(m.Atoms))
	for _, b := range m.Bonds {
		adjacency[b.Start] = append(adjacency[b.Start], b.End)
		adjacency[b.End] = append(adjacency[b.End], b.Start)
	}

	assigned := make(map[hexgrid.HexIndex]int, len(m.Atoms))
	var order []hexgrid.HexIndex
	for pos := range m.Atoms {
		order = append(order, pos)
	}
	// Map iteration order is random; sort for a deterministic result.
	sortHexes(order)

	count := 0
	for _, start := range order {
		if _, ok := assigned[start]; ok {
			continue
		}
		stack := []hexgrid.HexIndex{start}
		assigned[start] = count
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, next := range adjacency[cur] {
				if _, ok := assigned[next]; !ok {
					assigned[next] = count
					stack = append(stack, next)
				}
			}
		}
		count++
	}

	out := make([]Molecule, count)
	for i := range out {
		out[i] = NewMolecule()
	}
	for pos, atom := range m.Atoms {
		out[assigned[pos]].Atoms[pos] = atom
	}
	for _, b := range m.Bonds {
		i := assigned[b.Start]
		out[i].Bonds = append(out[i].Bonds, b)
	}
	return out
}

func sortHexes(hs []hexgrid.HexIndex) {
	sort.Slice(hs, func(i, j int) bool { return hexLess(hs[i], hs[j]) })
}

func hexLess(a, b hexgrid.HexIndex) bool {
	if a.Q != b.Q {
		return a.Q < b.Q
	}
	return a.R < b.R
}
