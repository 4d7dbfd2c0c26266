// Package collision tests moving circular colliders for overlap using
// discretized continuous time: every collider's Cartesian position is
// sampled at equally spaced points across one cycle, and any pair
// closer than the sum of their radii at any sample collides. Misses
// between samples are an accepted approximation; the step count trades
// fidelity against cost.
package collision

import (
	"math"

	"github.com/daniacca/alchesim/internal/hexgrid"
)

// Type classifies a collider and fixes its radius.
type Type int

const (
	Atom Type = iota
	ArmBase
	ArmGripper
	ProducedAtom
	ChamberWall
)

// DefaultSteps is the sampling step count used when the caller does
// not configure one.
const DefaultSteps = 16

func (t Type) String() string {
	switch t {
	case Atom:
		return "atom"
	case ArmBase:
		return "arm base"
	case ArmGripper:
		return "arm gripper"
	case ProducedAtom:
		return "produced atom"
	case ChamberWall:
		return "chamber wall"
	}
	return "unknown"
}

// Radius returns the collider's circle radius in Cartesian units.
func (t Type) Radius() float64 {
	switch t {
	case Atom:
		return 29
	case ArmBase:
		return 20
	case ArmGripper:
		return 20
	case ProducedAtom:
		return 15
	case ChamberWall:
		return 20
	}
	return 0
}

// InteractionRadius returns the combined radius at which t and o
// collide, or false for pairs that pass through each other. Grippers
// only ever interact with chamber walls.
func (t Type) InteractionRadius(o Type) (float64, bool) {
	if t == ArmGripper && o != ChamberWall || o == ArmGripper && t != ChamberWall {
		return 0, false
	}
	return t.Radius() + o.Radius(), true
}

// MovementKind selects a Movement variant.
type MovementKind int

const (
	Stationary MovementKind = iota
	Translate
	Rotate
)

// Movement describes one collider's path over a single cycle.
// Stationary stays at Start; Translate interpolates Start to End in
// Cartesian space; Rotate sweeps Start around Around by Rotation
// sixty-degree steps, positive being clockwise.
type Movement struct {
	Kind     MovementKind
	Start    hexgrid.HexIndex
	End      hexgrid.HexIndex
	Around   hexgrid.HexIndex
	Rotation int
}

// Stay returns a stationary movement at pos.
func Stay(pos hexgrid.HexIndex) Movement {
	return Movement{Kind: Stationary, Start: pos}
}

// Slide returns a translation from start to end.
func Slide(start, end hexgrid.HexIndex) Movement {
	return Movement{Kind: Translate, Start: start, End: end}
}

// Sweep returns a rotation of start around a pivot.
func Sweep(start, around hexgrid.HexIndex, rotation int) Movement {
	return Movement{Kind: Rotate, Start: start, Around: around, Rotation: rotation}
}

// PosAt returns the collider's Cartesian position at interpolation
// fraction t in [0,1].
func (m Movement) PosAt(t float64) hexgrid.Vector2 {
	switch m.Kind {
	case Translate:
		start, end := hexgrid.Project(m.Start), hexgrid.Project(m.End)
		return start.Add(end.Sub(start).Scale(t))
	case Rotate:
		// Clockwise hex steps advance the angle positively in this
		// Y-down frame, keeping PosAt(1) on Project(Final()).
		start, around := hexgrid.Project(m.Start), hexgrid.Project(m.Around)
		angle := float64(m.Rotation) * math.Pi / 3 * t
		return start.Sub(around).Rotated(angle).Add(around)
	default:
		return hexgrid.Project(m.Start)
	}
}

// Final returns the hex the collider occupies once the movement has
// completed.
func (m Movement) Final() hexgrid.HexIndex {
	switch m.Kind {
	case Translate:
		return m.End
	case Rotate:
		return m.Start.RotateAround(m.Around, hexgrid.NormalizeRotation(m.Rotation))
	default:
		return m.Start
	}
}

// Collider is one circular region moving through a cycle.
type Collider struct {
	Type     Type
	Movement Movement
}

// Hit identifies the two colliders of a detected collision.
type Hit struct {
	A, B Collider
}

// Check samples every collider across the cycle and reports the first
// colliding pair found, or false when the cycle is clean. steps <= 0
// falls back to DefaultSteps.
func Check(colliders []Collider, steps int) (Hit, bool) {
	if steps <= 0 {
		steps = DefaultSteps
	}
	positions := make([]hexgrid.Vector2, len(colliders))
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		for j, c := range colliders {
			positions[j] = c.Movement.PosAt(t)
		}
		for l := 0; l < len(colliders); l++ {
			for r := l + 1; r < len(colliders); r++ {
				radius, ok := colliders[l].Type.InteractionRadius(colliders[r].Type)
				if !ok {
					continue
				}
				if positions[l].DistSq(positions[r]) < radius*radius {
					return Hit{A: colliders[l], B: colliders[r]}, true
				}
			}
		}
	}
	return Hit{}, false
}
