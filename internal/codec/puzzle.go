package codec

import (
	"github.com/daniacca/alchesim/internal/chem"
	"github.com/daniacca/alchesim/internal/hexgrid"
)

// puzzleTag is the version tag opening every puzzle file.
const puzzleTag = 3

// DecodePuzzle parses a puzzle file.
func DecodePuzzle(data []byte) (*Puzzle, error) {
	r := newReader(data)

	tag, err := r.int32("puzzle tag")
	if err != nil {
		return nil, err
	}
	if tag != puzzleTag {
		return nil, formatErrorf(r.pos-4, "not a puzzle: tag 3", "%d", tag)
	}

	p := &Puzzle{}
	if p.Name, err = r.string("puzzle name"); err != nil {
		return nil, err
	}
	if p.Creator, err = r.int64("creator id"); err != nil {
		return nil, err
	}
	rawPerms, err := r.uint64("permission mask")
	if err != nil {
		return nil, err
	}
	p.Permissions = DecodePermissions(rawPerms)

	if p.Reagents, err = decodeMoleculeList(r, "reagent"); err != nil {
		return nil, err
	}
	if p.Products, err = decodeMoleculeList(r, "product"); err != nil {
		return nil, err
	}

	multiplier, err := r.int32("product multiplier")
	if err != nil {
		return nil, err
	}
	p.ProductMultiplier = int(multiplier)

	// Old-format files end at the multiplier; newer production-type
	// puzzles append a chamber layout.
	if r.remaining() > 0 {
		if p.Production, err = decodeProductionInfo(r); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func decodeMoleculeList(r *reader, what string) ([]chem.Molecule, error) {
	n, err := r.count(what)
	if err != nil {
		return nil, err
	}
	out := make([]chem.Molecule, 0, n)
	for i := 0; i < n; i++ {
		m, err := decodeMolecule(r)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func decodeMolecule(r *reader) (chem.Molecule, error) {
	m := chem.NewMolecule()

	atoms, err := r.count("atom")
	if err != nil {
		return m, err
	}
	for i := 0; i < atoms; i++ {
		atom, err := decodeAtom(r)
		if err != nil {
			return m, err
		}
		pos, err := r.bHexIndex("atom position")
		if err != nil {
			return m, err
		}
		m.Atoms[pos] = atom
	}

	bonds, err := r.count("bond")
	if err != nil {
		return m, err
	}
	for i := 0; i < bonds; i++ {
		b, err := decodeBond(r)
		if err != nil {
			return m, err
		}
		m.Bonds = append(m.Bonds, b)
	}
	return m, nil
}

// atomIDs is the wire byte-id order of the atom enumeration.
var atomIDs = [16]chem.Atom{
	chem.Salt, chem.Air, chem.Earth, chem.Fire, chem.Water,
	chem.Quicksilver, chem.Gold, chem.Silver, chem.Copper,
	chem.Iron, chem.Tin, chem.Lead, chem.Vitae, chem.Mors,
	chem.Repeat, chem.Quintessence,
}

func decodeAtom(r *reader) (chem.Atom, error) {
	id, err := r.byte("atom id")
	if err != nil {
		return 0, err
	}
	if id < 1 || id > 16 {
		return 0, formatErrorf(r.pos-1, "atom id in 1..16", "%d", id)
	}
	return atomIDs[id-1], nil
}

func atomWireID(a chem.Atom) byte {
	for i, atom := range atomIDs {
		if atom == a {
			return byte(i + 1)
		}
	}
	return 0
}

func decodeBond(r *reader) (chem.Bond, error) {
	ty, err := decodeBondType(r)
	if err != nil {
		return chem.Bond{}, err
	}
	start, err := r.bHexIndex("bond start")
	if err != nil {
		return chem.Bond{}, err
	}
	end, err := r.bHexIndex("bond end")
	if err != nil {
		return chem.Bond{}, err
	}
	return chem.Bond{Start: start, End: end, Type: ty}, nil
}

func decodeBondType(r *reader) (chem.BondType, error) {
	b, err := r.byte("bond type")
	if err != nil {
		return chem.BondType{}, err
	}
	if b == 1 {
		return chem.NormalBond, nil
	}
	// Triplex form: bits 1..3 carry the colour flags, everything else
	// must be clear.
	if b&0xF1 != 0 {
		return chem.BondType{}, formatErrorf(r.pos-1, "bond type 1 or triplex flags", "0x%02x", b)
	}
	return chem.BondType{
		Triplex: true,
		Red:     b&0x02 != 0,
		Black:   b&0x04 != 0,
		Yellow:  b&0x08 != 0,
	}, nil
}

func bondTypeWireByte(t chem.BondType) byte {
	if !t.Triplex {
		return 1
	}
	var b byte
	if t.Red {
		b |= 0x02
	}
	if t.Black {
		b |= 0x04
	}
	if t.Yellow {
		b |= 0x08
	}
	return b
}

func decodeProductionInfo(r *reader) (*ProductionInfo, error) {
	present, err := r.byte("production flag")
	if err != nil {
		return nil, err
	}
	if present == 0 {
		return nil, nil
	}

	info := &ProductionInfo{}
	chambers, err := r.count("chamber")
	if err != nil {
		return nil, err
	}
	for i := 0; i < chambers; i++ {
		var c Chamber
		if c.Pos, err = r.iHexIndex("chamber position"); err != nil {
			return nil, err
		}
		if c.Type, err = r.string("chamber type"); err != nil {
			return nil, err
		}
		info.Chambers = append(info.Chambers, c)
	}

	conduits, err := r.count("conduit")
	if err != nil {
		return nil, err
	}
	for i := 0; i < conduits; i++ {
		var c ConduitLayout
		if c.PosA, err = r.iHexIndex("conduit position a"); err != nil {
			return nil, err
		}
		if c.PosB, err = r.iHexIndex("conduit position b"); err != nil {
			return nil, err
		}
		if c.Hexes, err = decodeHexList(r, "conduit hex"); err != nil {
			return nil, err
		}
		info.Conduits = append(info.Conduits, c)
	}
	return info, nil
}

func decodeHexList(r *reader, what string) ([]hexgrid.HexIndex, error) {
	n, err := r.count(what)
	if err != nil {
		return nil, err
	}
	out := make([]hexgrid.HexIndex, 0, n)
	for i := 0; i < n; i++ {
		h, err := r.iHexIndex(what)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, nil
}
