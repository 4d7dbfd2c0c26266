package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/daniacca/alchesim/internal/chem"
	"github.com/daniacca/alchesim/internal/codec"
	"github.com/daniacca/alchesim/internal/hexgrid"
	"github.com/daniacca/alchesim/internal/sim"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LogLevelDebug},
		{"DEBUG", LogLevelDebug},
		{"info", LogLevelInfo},
		{"warn", LogLevelWarn},
		{"warning", LogLevelWarn},
		{"error", LogLevelError},
		{"nonsense", LogLevelInfo},
		{"", LogLevelInfo},
	}
	for _, tt := range tests {
		if got := parseLogLevel(tt.in); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoggerThreshold(t *testing.T) {
	l := NewLogger("warn")
	if l.shouldLog(LogLevelDebug) || l.shouldLog(LogLevelInfo) {
		t.Error("warn logger accepts lower levels")
	}
	if !l.shouldLog(LogLevelWarn) || !l.shouldLog(LogLevelError) {
		t.Error("warn logger rejects its own level or above")
	}
}

func writeTestFiles(t *testing.T) (string, string) {
	t.Helper()

	salt := chem.NewMolecule()
	salt.Atoms[hexgrid.HexIndex{}] = chem.Salt
	puzzle := &codec.Puzzle{
		Name:              "loader test",
		Permissions:       codec.DecodePermissions(^uint64(0)),
		Reagents:          []chem.Molecule{salt},
		Products:          []chem.Molecule{salt.Clone()},
		ProductMultiplier: 1,
	}
	solution := &codec.Solution{
		PuzzleID: "loader test",
		Name:     "trivial",
		Parts: []codec.Part{
			{Type: codec.PartInput, Pos: hexgrid.HexIndex{Q: 0, R: 0}},
			{Type: codec.PartOutput, Pos: hexgrid.HexIndex{Q: 0, R: 0}},
		},
	}

	dir := t.TempDir()
	puzzlePath := filepath.Join(dir, "test.puzzle")
	solutionPath := filepath.Join(dir, "test.solution")
	if err := os.WriteFile(puzzlePath, codec.EncodePuzzle(puzzle), 0o644); err != nil {
		t.Fatalf("writing puzzle: %v", err)
	}
	if err := os.WriteFile(solutionPath, codec.EncodeSolution(solution), 0o644); err != nil {
		t.Fatalf("writing solution: %v", err)
	}
	return puzzlePath, solutionPath
}

func TestLoadAndRun(t *testing.T) {
	puzzlePath, solutionPath := writeTestFiles(t)

	puzzle, err := loadPuzzle(puzzlePath)
	if err != nil {
		t.Fatalf("loadPuzzle: %v", err)
	}
	if puzzle.Name != "loader test" {
		t.Errorf("puzzle name = %q", puzzle.Name)
	}

	solution, err := loadSolution(solutionPath)
	if err != nil {
		t.Fatalf("loadSolution: %v", err)
	}
	if len(solution.Parts) != 2 {
		t.Fatalf("got %d parts, want 2", len(solution.Parts))
	}

	run, err := sim.New(puzzle, solution, sim.Config{Logger: NewLogger("error")})
	if err != nil {
		t.Fatalf("sim.New: %v", err)
	}
	if err := run.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if run.Status() != sim.Succeeded {
		t.Errorf("status = %v, want succeeded", run.Status())
	}
}

func TestLoadPuzzleRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.puzzle")
	if err := os.WriteFile(path, []byte("not a puzzle"), 0o644); err != nil {
		t.Fatalf("writing file: %v", err)
	}
	if _, err := loadPuzzle(path); err == nil {
		t.Error("garbage puzzle accepted")
	}
	if _, err := loadPuzzle(filepath.Join(dir, "missing.puzzle")); err == nil {
		t.Error("missing file accepted")
	}
}
