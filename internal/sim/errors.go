package sim

import (
	"fmt"
	"strings"
)

// ValidationError collects the semantic problems of a well-formed but
// illegal solution. All parts are checked before simulation starts so
// every issue surfaces at once.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "invalid solution: unknown validation error"
	}
	if len(e.Issues) == 1 {
		return e.Issues[0]
	}
	return "solution validation errors: " + strings.Join(e.Issues, "; ")
}

func (e *ValidationError) Add(issue string) {
	e.Issues = append(e.Issues, issue)
}

func (e *ValidationError) Addf(format string, v ...any) {
	e.Issues = append(e.Issues, fmt.Sprintf(format, v...))
}

func (e *ValidationError) HasIssues() bool {
	return len(e.Issues) > 0
}

// FailureKind classifies how a run failed.
type FailureKind int

const (
	// FailCollision is a mechanical overlap between two colliders.
	FailCollision FailureKind = iota
	// FailInstruction is an arm instruction executed outside its
	// preconditions.
	FailInstruction
	// FailIncomplete means the maximum cycle count elapsed before all
	// outputs reached their required counts.
	FailIncomplete
)

func (k FailureKind) String() string {
	switch k {
	case FailCollision:
		return "collision"
	case FailInstruction:
		return "illegal instruction"
	case FailIncomplete:
		return "incomplete"
	}
	return "unknown"
}

// SimulationError terminates a run. It names the cycle and the
// offending entity so a failing solution can be diagnosed.
type SimulationError struct {
	Cycle  int
	Kind   FailureKind
	Entity string
	Detail string
}

func (e *SimulationError) Error() string {
	msg := fmt.Sprintf("cycle %d: %s", e.Cycle, e.Kind)
	if e.Entity != "" {
		msg += " (" + e.Entity + ")"
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}
