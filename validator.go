package main

import (
	"fmt"
)

// VerdictReason says why a committed path was rejected.
type VerdictReason int

const (
	ReasonNone VerdictReason = iota
	ReasonHighRisk
	ReasonUndefined
	ReasonOutOfBounds
)

func (r VerdictReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonHighRisk:
		return "high_risk"
	case ReasonUndefined:
		return "undefined"
	case ReasonOutOfBounds:
		return "out_of_bounds"
	default:
		return fmt.Sprintf("VerdictReason(%d)", int(r))
	}
}

// Verdict is the outcome of checking one path against the live map.
type Verdict struct {
	Unsafe bool
	Reason VerdictReason
	Cell   Cell    // first offending cell, zero when safe
	Risk   float64 // expanded risk at Cell for ReasonHighRisk
}

// Err converts the verdict into an error, nil when the path is safe.
func (v Verdict) Err() error {
	switch v.Reason {
	case ReasonHighRisk:
		return fmt.Errorf("%w: %v risk=%.2f", ErrPathUnsafe, v.Cell, v.Risk)
	case ReasonUndefined:
		return fmt.Errorf("%w: %v", ErrMapInconsistent, v.Cell)
	case ReasonOutOfBounds:
		return fmt.Errorf("%w: %v outside grid", ErrPathUnsafe, v.Cell)
	default:
		return nil
	}
}

// PathValidator decides whether a committed path must be replanned.
type PathValidator struct {
	// Threshold is the expanded risk at or above which a path cell is unsafe.
	Threshold float64
}

// Check scans path in order and stops at the first unsafe cell.
//
// A cell with undefined expanded risk makes the path unsafe and, as a side effect, its raw
// risk is reset to UnknownRisk so the next inflation marks it non-traversable. This is the
// only write the planning core makes to the map. The expanded layer is left alone, so a
// repeated check on an unchanged map returns the same verdict.
func (pv PathValidator) Check(grid GridMap, path Path) Verdict {
	for _, c := range path {
		if !grid.InBounds(c) {
			diagf("path cell %v outside grid", c)
			return Verdict{Unsafe: true, Reason: ReasonOutOfBounds, Cell: c}
		}
		risk, ok := grid.Risk(ExpandedGrid, c)
		if !ok {
			diagf("undefined risk on path at %v, resetting raw risk to %.1f", c, UnknownRisk)
			grid.SetRisk(RawGrid, c, UnknownRisk)
			return Verdict{Unsafe: true, Reason: ReasonUndefined, Cell: c}
		}
		if risk >= pv.Threshold {
			diagf("risk %.2f on path at %v (threshold %.2f)", risk, c, pv.Threshold)
			return Verdict{Unsafe: true, Reason: ReasonHighRisk, Cell: c, Risk: risk}
		}
	}
	return Verdict{}
}
