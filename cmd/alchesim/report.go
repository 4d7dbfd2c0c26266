package main

import (
	"fmt"
	"sort"

	"github.com/daniacca/alchesim/internal/chem"
	"github.com/daniacca/alchesim/internal/codec"
	"github.com/daniacca/alchesim/internal/hexgrid"
)

// printPuzzle writes a human-readable summary of a decoded puzzle.
func printPuzzle(p *codec.Puzzle) {
	fmt.Printf("Puzzle %q (creator %d)\n", p.Name, p.Creator)
	fmt.Printf("  product multiplier: %d\n", p.ProductMultiplier)
	fmt.Printf("  reagents:\n")
	for i, m := range p.Reagents {
		fmt.Printf("    %d: %s\n", i, describeMolecule(m))
	}
	fmt.Printf("  products:\n")
	for i, m := range p.Products {
		fmt.Printf("    %d: %s\n", i, describeMolecule(m))
	}
	if p.Production != nil {
		fmt.Printf("  production layout: %d chambers, %d conduits\n",
			len(p.Production.Chambers), len(p.Production.Conduits))
	}
}

// printSolution writes a human-readable summary of a decoded solution.
func printSolution(s *codec.Solution) {
	fmt.Printf("Solution %q for puzzle %q\n", s.Name, s.PuzzleID)
	if s.Metrics != nil {
		fmt.Printf("  recorded metrics: %d cycles, %d cost, %d area, %d instructions\n",
			s.Metrics.Cycles, s.Metrics.Cost, s.Metrics.Area, s.Metrics.Instructions)
	}
	fmt.Printf("  parts:\n")
	for i, p := range s.Parts {
		fmt.Printf("    %d: %s at (%d,%d) rotation %d", i, p.Type, p.Pos.Q, p.Pos.R, p.Rotation)
		if p.Type.IsArm() {
			fmt.Printf(" length %d", p.ArmLength)
		}
		if len(p.Instructions) > 0 {
			fmt.Printf(" tape %s", describeTape(p.Instructions))
		}
		fmt.Println()
	}
}

// describeMolecule renders atoms in a deterministic position order.
func describeMolecule(m chem.Molecule) string {
	positions := make([]hexgrid.HexIndex, 0, len(m.Atoms))
	for pos := range m.Atoms {
		positions = append(positions, pos)
	}
	sort.Slice(positions, func(i, j int) bool {
		if positions[i].Q != positions[j].Q {
			return positions[i].Q < positions[j].Q
		}
		return positions[i].R < positions[j].R
	})

	out := ""
	for i, pos := range positions {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%s(%d,%d)", m.Atoms[pos], pos.Q, pos.R)
	}
	return fmt.Sprintf("%d atoms, %d bonds: %s", len(m.Atoms), len(m.Bonds), out)
}

// describeTape renders a sparse instruction tape in cycle order.
func describeTape(instrs []codec.TimedInstruction) string {
	sorted := make([]codec.TimedInstruction, len(instrs))
	copy(sorted, instrs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Cycle < sorted[j].Cycle })

	out := ""
	for i, ti := range sorted {
		if i > 0 {
			out += " "
		}
		out += fmt.Sprintf("%d:%s", ti.Cycle, ti.Instruction)
	}
	return out
}
