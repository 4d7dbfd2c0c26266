package codec

import (
	"github.com/daniacca/alchesim/internal/chem"
	"github.com/daniacca/alchesim/internal/hexgrid"
)

// Puzzle is a decoded puzzle file: the reagents available, the
// products required and the mechanisms the solution may use.
type Puzzle struct {
	Name              string
	Creator           int64
	Permissions       Permissions
	Reagents          []chem.Molecule
	Products          []chem.Molecule
	ProductMultiplier int
	Production        *ProductionInfo
}

// ProductionInfo is the chamber layout of a production-type puzzle.
type ProductionInfo struct {
	Chambers []Chamber
	Conduits []ConduitLayout
}

// Chamber is one production chamber.
type Chamber struct {
	Pos  hexgrid.HexIndex
	Type string
}

// ConduitLayout links two chamber-side conduit openings.
type ConduitLayout struct {
	PosA, PosB hexgrid.HexIndex
	Hexes      []hexgrid.HexIndex
}

// Solution is a decoded solution file: the placed parts and their
// instruction tapes, plus optionally the metrics the author recorded.
type Solution struct {
	PuzzleID string
	Name     string
	Metrics  *Metrics
	Parts    []Part
}

// Metrics are the recorded score values of a solved solution.
type Metrics struct {
	Cycles       int
	Cost         int
	Area         int
	Instructions int
}

// Part is one placed mechanism.
type Part struct {
	Type         PartType
	Pos          hexgrid.HexIndex
	ArmLength    int
	Rotation     int // raw, unreduced
	Index        int // input/output index depending on type
	ArmNumber    int
	Instructions []TimedInstruction
	TrackHexes   []hexgrid.HexIndex
	ConduitID    int
	ConduitHexes []hexgrid.HexIndex
}

// TimedInstruction schedules an instruction at an absolute cycle.
// Cycles not listed on a tape are implicitly Blank.
type TimedInstruction struct {
	Cycle       int
	Instruction Instruction
}

// PartType tags the kind of a placed mechanism.
type PartType int

const (
	PartInput PartType = iota
	PartOutput
	PartPolymerOutput
	PartArm
	PartBiArm
	PartTriArm
	PartHexArm
	PartPistonArm
	PartTrack
	PartBerlo
	PartEquilibrium
	PartBonding
	PartMultiBonding
	PartUnbonding
	PartTriplexBonding
	PartCalcification
	PartDuplication
	PartAnimismus
	PartUnification
	PartDispersion
	PartProjection
	PartPurification
	PartDisposal
	PartConduit
)

// partTypeNames maps the wire names to part types; partTypeWireNames
// is the inverse, for encoding.
var partTypeNames = map[string]PartType{
	"input":                PartInput,
	"out-std":              PartOutput,
	"out-rep":              PartPolymerOutput,
	"arm1":                 PartArm,
	"arm2":                 PartBiArm,
	"arm3":                 PartTriArm,
	"arm6":                 PartHexArm,
	"piston":               PartPistonArm,
	"track":                PartTrack,
	"baron":                PartBerlo,
	"glyph-marker":         PartEquilibrium,
	"bonder":               PartBonding,
	"bonder-speed":         PartMultiBonding,
	"unbonder":             PartUnbonding,
	"bonder-prisma":        PartTriplexBonding,
	"glyph-calcification":  PartCalcification,
	"glyph-duplication":    PartDuplication,
	"glyph-life-and-death": PartAnimismus,
	"glyph-unification":    PartUnification,
	"glyph-dispersion":     PartDispersion,
	"glyph-projection":     PartProjection,
	"glyph-purification":   PartPurification,
	"glyph-disposal":       PartDisposal,
	"pipe":                 PartConduit,
}

var partTypeWireNames = func() map[PartType]string {
	out := make(map[PartType]string, len(partTypeNames))
	for name, ty := range partTypeNames {
		out[ty] = name
	}
	return out
}()

func (t PartType) String() string {
	if name, ok := partTypeWireNames[t]; ok {
		return name
	}
	return "unknown"
}

// IsArm reports whether t is one of the gripper-arm kinds.
func (t PartType) IsArm() bool {
	switch t {
	case PartArm, PartBiArm, PartTriArm, PartHexArm, PartPistonArm, PartBerlo:
		return true
	}
	return false
}

// Instruction is one tape entry for an arm.
type Instruction int

const (
	InstrBlank Instruction = iota
	InstrGrab
	InstrDrop
	InstrRotateCW
	InstrRotateCCW
	InstrExtend
	InstrRetract
	InstrPivotCW
	InstrPivotCCW
	InstrAdvance
	InstrRetreat
	InstrPeriodOverride
	InstrReset
	InstrRepeat
)

// instructionBytes maps the ASCII wire encoding to instructions.
var instructionBytes = map[byte]Instruction{
	' ': InstrBlank,
	'G': InstrGrab,
	'g': InstrDrop,
	'R': InstrRotateCW,
	'r': InstrRotateCCW,
	'E': InstrExtend,
	'e': InstrRetract,
	'P': InstrPivotCW,
	'p': InstrPivotCCW,
	'A': InstrAdvance,
	'a': InstrRetreat,
	'O': InstrPeriodOverride,
	'X': InstrReset,
	'C': InstrRepeat,
}

var instructionWireBytes = func() map[Instruction]byte {
	out := make(map[Instruction]byte, len(instructionBytes))
	for b, instr := range instructionBytes {
		out[instr] = b
	}
	return out
}()

func (i Instruction) String() string {
	switch i {
	case InstrBlank:
		return "blank"
	case InstrGrab:
		return "grab"
	case InstrDrop:
		return "drop"
	case InstrRotateCW:
		return "rotate-cw"
	case InstrRotateCCW:
		return "rotate-ccw"
	case InstrExtend:
		return "extend"
	case InstrRetract:
		return "retract"
	case InstrPivotCW:
		return "pivot-cw"
	case InstrPivotCCW:
		return "pivot-ccw"
	case InstrAdvance:
		return "advance"
	case InstrRetreat:
		return "retreat"
	case InstrPeriodOverride:
		return "period-override"
	case InstrReset:
		return "reset"
	case InstrRepeat:
		return "repeat"
	}
	return "unknown"
}
