package main

import (
	"fmt"
	"os"

	"github.com/daniacca/alchesim/internal/codec"
	"github.com/daniacca/alchesim/internal/sim"
)

func main() {
	cfg := loadRunnerConfig()
	logger := NewLogger(cfg.LogLevel)

	if cfg.PuzzleFile == "" || cfg.SolutionFile == "" {
		fmt.Fprintf(os.Stderr, "error: -puzzle and -solution are required\n")
		os.Exit(2)
	}

	puzzle, err := loadPuzzle(cfg.PuzzleFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading puzzle: %v\n", err)
		os.Exit(1)
	}
	solution, err := loadSolution(cfg.SolutionFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading solution: %v\n", err)
		os.Exit(1)
	}

	printPuzzle(puzzle)
	printSolution(solution)

	run, err := sim.New(puzzle, solution, sim.Config{
		MaxCycles:      cfg.MaxCycles,
		CollisionSteps: cfg.CollisionSteps,
		Logger:         logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error validating solution: %v\n", err)
		os.Exit(1)
	}

	if err := run.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "simulation error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Simulation succeeded in %d cycles\n", run.Cycle())
}

func loadPuzzle(path string) (*codec.Puzzle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading puzzle file: %w", err)
	}
	puzzle, err := codec.DecodePuzzle(data)
	if err != nil {
		return nil, fmt.Errorf("parsing puzzle: %w", err)
	}
	for i, m := range puzzle.Reagents {
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("reagent %d: %w", i, err)
		}
	}
	for i, m := range puzzle.Products {
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("product %d: %w", i, err)
		}
	}
	return puzzle, nil
}

func loadSolution(path string) (*codec.Solution, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading solution file: %w", err)
	}
	solution, err := codec.DecodeSolution(data)
	if err != nil {
		return nil, fmt.Errorf("parsing solution: %w", err)
	}
	return solution, nil
}
