package codec

import (
	"encoding/binary"
	"sort"

	"github.com/daniacca/alchesim/internal/chem"
	"github.com/daniacca/alchesim/internal/hexgrid"
)

// writer mirrors reader, building the same wire layout.
type writer struct {
	data []byte
}

func (w *writer) byte(b byte) {
	w.data = append(w.data, b)
}

func (w *writer) sbyte(v int8) {
	w.data = append(w.data, byte(v))
}

func (w *writer) int32(v int32) {
	w.data = binary.LittleEndian.AppendUint32(w.data, uint32(v))
}

func (w *writer) int64(v int64) {
	w.data = binary.LittleEndian.AppendUint64(w.data, uint64(v))
}

func (w *writer) uint64(v uint64) {
	w.data = binary.LittleEndian.AppendUint64(w.data, v)
}

func (w *writer) varint(v int) {
	for v >= 0x80 {
		w.byte(byte(v) | 0x80)
		v >>= 7
	}
	w.byte(byte(v))
}

func (w *writer) string(s string) {
	w.varint(len(s))
	w.data = append(w.data, s...)
}

func (w *writer) bHexIndex(h hexgrid.HexIndex) {
	w.sbyte(int8(h.Q))
	w.sbyte(int8(h.R))
}

func (w *writer) iHexIndex(h hexgrid.HexIndex) {
	w.int32(int32(h.Q))
	w.int32(int32(h.R))
}

func (w *writer) hexList(hs []hexgrid.HexIndex) {
	w.int32(int32(len(hs)))
	for _, h := range hs {
		w.iHexIndex(h)
	}
}

// EncodePuzzle serialises a puzzle to its wire form. Encoding then
// decoding any well-formed puzzle reproduces an equal value.
func EncodePuzzle(p *Puzzle) []byte {
	w := &writer{}
	w.int32(puzzleTag)
	w.string(p.Name)
	w.int64(p.Creator)
	w.uint64(p.Permissions.Raw())
	encodeMoleculeList(w, p.Reagents)
	encodeMoleculeList(w, p.Products)
	w.int32(int32(p.ProductMultiplier))
	if p.Production != nil {
		w.byte(1)
		w.int32(int32(len(p.Production.Chambers)))
		for _, c := range p.Production.Chambers {
			w.iHexIndex(c.Pos)
			w.string(c.Type)
		}
		w.int32(int32(len(p.Production.Conduits)))
		for _, c := range p.Production.Conduits {
			w.iHexIndex(c.PosA)
			w.iHexIndex(c.PosB)
			w.hexList(c.Hexes)
		}
	}
	return w.data
}

func encodeMoleculeList(w *writer, ms []chem.Molecule) {
	w.int32(int32(len(ms)))
	for i := range ms {
		encodeMolecule(w, ms[i])
	}
}

func encodeMolecule(w *writer, m chem.Molecule) {
	positions := make([]hexgrid.HexIndex, 0, len(m.Atoms))
	for pos := range m.Atoms {
		positions = append(positions, pos)
	}
	sortHexIndexes(positions)

	w.int32(int32(len(positions)))
	for _, pos := range positions {
		w.byte(atomWireID(m.Atoms[pos]))
		w.bHexIndex(pos)
	}
	w.int32(int32(len(m.Bonds)))
	for _, b := range m.Bonds {
		w.byte(bondTypeWireByte(b.Type))
		w.bHexIndex(b.Start)
		w.bHexIndex(b.End)
	}
}

// EncodeSolution serialises a solution to its wire form.
func EncodeSolution(s *Solution) []byte {
	w := &writer{}
	w.int32(solutionTag)
	w.string(s.PuzzleID)
	w.string(s.Name)
	if s.Metrics == nil {
		w.int32(0)
	} else {
		w.int32(4)
		w.int32(0)
		w.int32(int32(s.Metrics.Cycles))
		w.int32(1)
		w.int32(int32(s.Metrics.Cost))
		w.int32(2)
		w.int32(int32(s.Metrics.Area))
		w.int32(3)
		w.int32(int32(s.Metrics.Instructions))
	}
	w.int32(int32(len(s.Parts)))
	for i := range s.Parts {
		encodePart(w, &s.Parts[i])
	}
	return w.data
}

func encodePart(w *writer, p *Part) {
	w.string(partTypeWireNames[p.Type])
	w.byte(1)
	w.iHexIndex(p.Pos)
	w.int32(int32(p.ArmLength))
	w.int32(int32(p.Rotation))
	w.int32(int32(p.Index))
	w.int32(int32(len(p.Instructions)))
	for _, ti := range p.Instructions {
		w.int32(int32(ti.Cycle))
		w.byte(instructionWireBytes[ti.Instruction])
	}
	if p.Type == PartTrack {
		w.hexList(p.TrackHexes)
	}
	w.int32(int32(p.ArmNumber))
	if p.Type == PartConduit {
		w.int32(int32(p.ConduitID))
		w.hexList(p.ConduitHexes)
	}
}

func sortHexIndexes(hs []hexgrid.HexIndex) {
	sort.Slice(hs, func(i, j int) bool {
		if hs[i].Q != hs[j].Q {
			return hs[i].Q < hs[j].Q
		}
		return hs[i].R < hs[j].R
	})
}
