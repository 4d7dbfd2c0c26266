package sim

import (
	"errors"
	"testing"

	"github.com/daniacca/alchesim/internal/chem"
	"github.com/daniacca/alchesim/internal/codec"
	"github.com/daniacca/alchesim/internal/hexgrid"
)

func TestTapeLoops(t *testing.T) {
	tp := newTape([]codec.TimedInstruction{
		{Cycle: 0, Instruction: codec.InstrGrab},
		{Cycle: 2, Instruction: codec.InstrRotateCW},
	})

	tests := []struct {
		cycle int
		want  codec.Instruction
	}{
		{0, codec.InstrGrab},
		{1, codec.InstrBlank},
		{2, codec.InstrRotateCW},
		{3, codec.InstrGrab}, // wrapped
		{5, codec.InstrRotateCW},
		{300, codec.InstrGrab},
	}
	for _, tt := range tests {
		if got := tp.at(tt.cycle); got != tt.want {
			t.Errorf("at(%d) = %v, want %v", tt.cycle, got, tt.want)
		}
	}
}

func TestTapePeriodOverride(t *testing.T) {
	tp := newTape([]codec.TimedInstruction{
		{Cycle: 0, Instruction: codec.InstrGrab},
		{Cycle: 1, Instruction: codec.InstrPeriodOverride},
		{Cycle: 5, Instruction: codec.InstrDrop},
	})
	if tp.period != 2 {
		t.Fatalf("period = %d, want 2 pinned by the override", tp.period)
	}
	if got := tp.at(2); got != codec.InstrGrab {
		t.Errorf("at(2) = %v, want the wrapped grab", got)
	}
}

func TestTapeEmpty(t *testing.T) {
	tp := newTape(nil)
	for _, cycle := range []int{0, 1, 17} {
		if got := tp.at(cycle); got != codec.InstrBlank {
			t.Errorf("at(%d) = %v, want blank", cycle, got)
		}
	}
}

func TestGripperPositions(t *testing.T) {
	tests := []struct {
		name string
		part codec.Part
		want []hexgrid.HexIndex
	}{
		{
			name: "single arm",
			part: codec.Part{Type: codec.PartArm, ArmLength: 2, Rotation: 0},
			want: []hexgrid.HexIndex{{Q: 2, R: 0}},
		},
		{
			name: "bi arm opposes",
			part: codec.Part{Type: codec.PartBiArm, ArmLength: 1, Rotation: 0},
			want: []hexgrid.HexIndex{{Q: 1, R: 0}, {Q: -1, R: 0}},
		},
		{
			name: "tri arm at thirds",
			part: codec.Part{Type: codec.PartTriArm, ArmLength: 1, Rotation: 0},
			want: []hexgrid.HexIndex{{Q: 1, R: 0}, {Q: -1, R: 1}, {Q: 0, R: -1}},
		},
		{
			name: "hex arm covers the ring",
			part: codec.Part{Type: codec.PartHexArm, ArmLength: 1, Rotation: 1},
			want: []hexgrid.HexIndex{{Q: 0, R: 1}, {Q: -1, R: 1}, {Q: -1, R: 0}, {Q: 0, R: -1}, {Q: 1, R: -1}, {Q: 1, R: 0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newArm(tt.part, nil)
			if len(a.grips) != len(tt.want) {
				t.Fatalf("got %d grippers, want %d", len(a.grips), len(tt.want))
			}
			for i, want := range tt.want {
				if got := a.gripperPos(i); got != want {
					t.Errorf("gripper %d at %v, want %v", i, got, want)
				}
			}
		})
	}
}

func TestBerloWheel(t *testing.T) {
	a := newArm(codec.Part{Type: codec.PartBerlo, ArmLength: 3}, nil)
	// The wheel always has reach one regardless of the stored length.
	if a.length != 1 {
		t.Errorf("berlo length = %d, want 1", a.length)
	}
	if len(a.grips) != 6 {
		t.Fatalf("berlo has %d grippers, want 6", len(a.grips))
	}
	for i, want := range berloAtoms {
		got, ok := a.berloAtomAt(a.gripperPos(i))
		if !ok || got != want {
			t.Errorf("spoke %d atom = %v, want %v", i, got, want)
		}
	}
	if _, ok := a.berloAtomAt(hexgrid.HexIndex{Q: 4, R: 4}); ok {
		t.Error("wheel reported an atom off its spokes")
	}
}

func TestBerloRejectsGrab(t *testing.T) {
	puzzle := testPuzzle(
		[]chem.Molecule{singleAtom(chem.Salt)},
		[]chem.Molecule{singleAtom(chem.Salt)},
	)
	solution := &codec.Solution{
		Parts: []codec.Part{
			{
				Type:         codec.PartBerlo,
				Pos:          hexgrid.HexIndex{Q: 0, R: 0},
				Instructions: tapeOf(map[int]codec.Instruction{0: codec.InstrGrab}),
			},
		},
	}

	s, err := New(puzzle, solution, Config{MaxCycles: 3})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	err = s.Run()
	var serr *SimulationError
	if !errors.As(err, &serr) {
		t.Fatalf("Run: got %v, want SimulationError", err)
	}
	if serr.Kind != FailInstruction || serr.Cycle != 0 {
		t.Errorf("got %v at cycle %d, want illegal instruction at 0", serr.Kind, serr.Cycle)
	}
}

func TestTrackLoopDetection(t *testing.T) {
	tests := []struct {
		name  string
		track []hexgrid.HexIndex
		want  bool
	}{
		{name: "triangle loops", track: []hexgrid.HexIndex{{Q: 0, R: 0}, {Q: 1, R: 0}, {Q: 0, R: 1}}, want: true},
		{name: "straight line open", track: []hexgrid.HexIndex{{Q: 0, R: 0}, {Q: 1, R: 0}, {Q: 2, R: 0}}, want: false},
		{name: "two segments open", track: []hexgrid.HexIndex{{Q: 0, R: 0}, {Q: 1, R: 0}}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newArm(codec.Part{
				Type:      codec.PartArm,
				Pos:       tt.track[0],
				ArmLength: 1,
			}, [][]hexgrid.HexIndex{tt.track})
			if a.track == nil {
				t.Fatal("arm not mounted on its track")
			}
			if got := a.trackLoops(); got != tt.want {
				t.Errorf("trackLoops = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTrackMovement(t *testing.T) {
	puzzle := testPuzzle(
		[]chem.Molecule{singleAtom(chem.Salt)},
		[]chem.Molecule{singleAtom(chem.Salt)},
	)
	solution := &codec.Solution{
		Parts: []codec.Part{
			{Type: codec.PartTrack, TrackHexes: []hexgrid.HexIndex{{Q: 0, R: 0}, {Q: 1, R: 0}, {Q: 2, R: 0}}},
			{
				Type:      codec.PartArm,
				Pos:       hexgrid.HexIndex{Q: 0, R: 0},
				ArmLength: 1,
				Instructions: tapeOf(map[int]codec.Instruction{
					0: codec.InstrAdvance,
					1: codec.InstrRetreat,
					2: codec.InstrRetreat, // past the open end, absorbed
					3: codec.InstrPeriodOverride,
				}),
			},
		},
	}

	s, err := New(puzzle, solution, Config{MaxCycles: 8})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	arm := s.arms[0]

	steps := []struct {
		wantPos hexgrid.HexIndex
		wantIdx int
	}{
		{hexgrid.HexIndex{Q: 1, R: 0}, 1}, // advance
		{hexgrid.HexIndex{Q: 0, R: 0}, 0}, // retreat
		{hexgrid.HexIndex{Q: 0, R: 0}, 0}, // absorbed at the end
	}
	for i, step := range steps {
		if err := s.Step(); err != nil {
			t.Fatalf("Step %d: %v", i, err)
		}
		if arm.pos != step.wantPos || arm.trackIdx != step.wantIdx {
			t.Errorf("after step %d: pos %v idx %d, want %v %d", i, arm.pos, arm.trackIdx, step.wantPos, step.wantIdx)
		}
	}
}

func TestPistonTelescope(t *testing.T) {
	puzzle := testPuzzle(
		[]chem.Molecule{singleAtom(chem.Salt)},
		[]chem.Molecule{singleAtom(chem.Salt)},
	)
	solution := &codec.Solution{
		Parts: []codec.Part{
			{
				Type:      codec.PartPistonArm,
				Pos:       hexgrid.HexIndex{Q: 0, R: 0},
				ArmLength: 1,
				Instructions: tapeOf(map[int]codec.Instruction{
					0: codec.InstrExtend,
					1: codec.InstrExtend,
					2: codec.InstrExtend, // past max reach
				}),
			},
		},
	}

	s, err := New(puzzle, solution, Config{MaxCycles: 8})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	arm := s.arms[0]

	for i, want := range []int{2, 3} {
		if err := s.Step(); err != nil {
			t.Fatalf("Step %d: %v", i, err)
		}
		if arm.length != want {
			t.Errorf("after step %d: length %d, want %d", i, arm.length, want)
		}
	}

	err = s.Step()
	var serr *SimulationError
	if !errors.As(err, &serr) {
		t.Fatalf("got %v, want SimulationError", err)
	}
	if serr.Kind != FailInstruction || serr.Cycle != 2 {
		t.Errorf("got %v at cycle %d, want illegal instruction at 2", serr.Kind, serr.Cycle)
	}
}

func TestExtendOnPlainArmFails(t *testing.T) {
	puzzle := testPuzzle(
		[]chem.Molecule{singleAtom(chem.Salt)},
		[]chem.Molecule{singleAtom(chem.Salt)},
	)
	solution := &codec.Solution{
		Parts: []codec.Part{
			{
				Type:         codec.PartArm,
				Pos:          hexgrid.HexIndex{Q: 0, R: 0},
				ArmLength:    1,
				Instructions: tapeOf(map[int]codec.Instruction{0: codec.InstrExtend}),
			},
		},
	}

	s, err := New(puzzle, solution, Config{MaxCycles: 3})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	err = s.Run()
	var serr *SimulationError
	if !errors.As(err, &serr) {
		t.Fatalf("got %v, want SimulationError", err)
	}
	if serr.Kind != FailInstruction {
		t.Errorf("kind = %v, want illegal instruction", serr.Kind)
	}
}

func TestResetReturnsHome(t *testing.T) {
	puzzle := testPuzzle(
		[]chem.Molecule{singleAtom(chem.Salt)},
		[]chem.Molecule{singleAtom(chem.Salt)},
	)
	solution := &codec.Solution{
		Parts: []codec.Part{
			{
				Type:      codec.PartPistonArm,
				Pos:       hexgrid.HexIndex{Q: 0, R: 0},
				ArmLength: 1,
				Rotation:  2,
				Instructions: tapeOf(map[int]codec.Instruction{
					0: codec.InstrExtend,
					1: codec.InstrRotateCW,
					2: codec.InstrReset,
				}),
			},
		},
	}

	s, err := New(puzzle, solution, Config{MaxCycles: 8})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	arm := s.arms[0]

	for i := 0; i < 2; i++ {
		if err := s.Step(); err != nil {
			t.Fatalf("Step %d: %v", i, err)
		}
	}
	if arm.length != 2 || arm.rot != 3 {
		t.Fatalf("pre-reset state length %d rot %d", arm.length, arm.rot)
	}

	if err := s.Step(); err != nil {
		t.Fatalf("reset step: %v", err)
	}
	if arm.length != 1 || arm.rot != 2 || arm.pos != (hexgrid.HexIndex{Q: 0, R: 0}) {
		t.Errorf("reset left length %d rot %d pos %v", arm.length, arm.rot, arm.pos)
	}
}

func TestPivotRotatesHeldMoleculeOnly(t *testing.T) {
	// An atom bonded pair held at one end pivots around the gripper
	// while the arm itself stays put.
	puzzle := testPuzzle(
		[]chem.Molecule{singleAtom(chem.Salt)},
		[]chem.Molecule{singleAtom(chem.Salt)},
	)
	reagent := chem.NewMolecule()
	reagent.Atoms[hexgrid.HexIndex{}] = chem.Water
	reagent.Atoms[hexgrid.HexIndex{Q: 1, R: 0}] = chem.Fire
	reagent.Bonds = append(reagent.Bonds, chem.Bond{
		Start: hexgrid.HexIndex{},
		End:   hexgrid.HexIndex{Q: 1, R: 0},
	})
	puzzle.Reagents = []chem.Molecule{reagent}

	solution := &codec.Solution{
		Parts: []codec.Part{
			{Type: codec.PartInput, Pos: hexgrid.HexIndex{Q: 1, R: 0}},
			{
				Type:      codec.PartArm,
				Pos:       hexgrid.HexIndex{Q: 0, R: 0},
				ArmLength: 1,
				Instructions: tapeOf(map[int]codec.Instruction{
					1: codec.InstrGrab,
					2: codec.InstrPivotCW,
				}),
			},
		},
	}

	s, err := New(puzzle, solution, Config{MaxCycles: 8})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	arm := s.arms[0]

	for i := 0; i < 3; i++ {
		if err := s.Step(); err != nil {
			t.Fatalf("Step %d: %v", i, err)
		}
	}
	if arm.rot != 0 || arm.pos != (hexgrid.HexIndex{Q: 0, R: 0}) {
		t.Errorf("pivot moved the arm: rot %d pos %v", arm.rot, arm.pos)
	}

	m, ok := s.moleculeAt(hexgrid.HexIndex{Q: 1, R: 0})
	if !ok {
		t.Fatal("held molecule lost")
	}
	// The far fire atom swung from (2,0) to (1,1) around the gripper.
	if a, ok := m.AtomAt(hexgrid.HexIndex{Q: 1, R: 1}); !ok || a != chem.Fire {
		t.Errorf("far atom not pivoted: %v", m.Absolute().Atoms)
	}
}
