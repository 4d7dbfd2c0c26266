package sim

import (
	"fmt"

	"github.com/daniacca/alchesim/internal/codec"
	"github.com/daniacca/alchesim/internal/hexgrid"
)

// Part is one placed mechanism's live state. Every cycle each part is
// ticked twice: once at cycle start (the movement half, where arms
// execute instructions and register colliders) and once after the
// collision check commits (the settle half, where glyphs, inputs,
// outputs and conduits act).
type Part interface {
	Tick(s *Sim, cycleStart bool) error
	Clone() Part
}

// validateSolution checks a decoded solution against its puzzle
// before any simulation state is built. Issues are collected so a
// broken solution reports everything wrong with it at once.
func validateSolution(puzzle *codec.Puzzle, solution *codec.Solution) error {
	verr := &ValidationError{}
	conduitIDs := make(map[int]int)

	for i, p := range solution.Parts {
		where := fmt.Sprintf("part %d (%s)", i, p.Type)

		if !puzzle.Permissions.AllowsPart(p.Type) {
			verr.Addf("%s: forbidden by puzzle permissions", where)
		}

		switch p.Type {
		case codec.PartInput:
			if p.Index < 0 || p.Index >= len(puzzle.Reagents) {
				verr.Addf("%s: reagent index %d out of range (%d reagents)", where, p.Index, len(puzzle.Reagents))
			}
		case codec.PartOutput, codec.PartPolymerOutput:
			if p.Index < 0 || p.Index >= len(puzzle.Products) {
				verr.Addf("%s: product index %d out of range (%d products)", where, p.Index, len(puzzle.Products))
			}
		case codec.PartTrack:
			if len(p.TrackHexes) == 0 {
				verr.Addf("%s: empty track footprint", where)
			}
		case codec.PartConduit:
			conduitIDs[p.ConduitID]++
		}

		if p.Type.IsArm() && p.Type != codec.PartBerlo {
			if p.ArmLength < 1 || p.ArmLength > maxArmLength {
				verr.Addf("%s: arm length %d out of range 1..%d", where, p.ArmLength, maxArmLength)
			}
		}
	}

	for id, n := range conduitIDs {
		if n != 2 {
			verr.Addf("conduit id %d appears %d times, want exactly 2", id, n)
		}
	}

	if verr.HasIssues() {
		return verr
	}
	return nil
}

// buildParts turns validated solution parts into live simulation
// parts, preserving placement order. Track parts contribute no live
// part of their own; their footprints mount arms instead.
func buildParts(puzzle *codec.Puzzle, solution *codec.Solution) []Part {
	var tracks [][]hexgrid.HexIndex
	for _, p := range solution.Parts {
		if p.Type == codec.PartTrack {
			tracks = append(tracks, p.TrackHexes)
		}
	}

	var parts []Part
	for _, p := range solution.Parts {
		switch p.Type {
		case codec.PartInput:
			parts = append(parts, newInput(p, puzzle.Reagents[p.Index]))
		case codec.PartOutput, codec.PartPolymerOutput:
			parts = append(parts, newOutput(p, puzzle.Products[p.Index], requiredCount(puzzle)))
		case codec.PartArm, codec.PartBiArm, codec.PartTriArm, codec.PartHexArm,
			codec.PartPistonArm, codec.PartBerlo:
			parts = append(parts, newArm(p, tracks))
		case codec.PartConduit:
			parts = append(parts, newConduit(p))
		case codec.PartTrack, codec.PartEquilibrium:
			// Track is pure geometry; the equilibrium marker is inert.
		default:
			parts = append(parts, newGlyph(p))
		}
	}
	return parts
}

// requiredCount is how many of each product a run must emit.
func requiredCount(puzzle *codec.Puzzle) int {
	if puzzle.ProductMultiplier < 1 {
		return 1
	}
	return puzzle.ProductMultiplier
}
