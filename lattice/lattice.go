package lattice

import (
	"errors"
	"fmt"
)

// Candidates holds, for every sentence position, the ordered list of states
// considered there. A state's position in its list is its index in hypotheses.
type Candidates [][]State

// Size returns the total number of states over all positions.
func (c Candidates) Size() int {
	n := 0
	for _, states := range c {
		n += len(states)
	}
	return n
}

// TransitionScorer scores moving from the state at one position to the state at the next.
type TransitionScorer interface {
	Transition(prev, cur State) float64
}

// TransitionFunc adapts a plain function to TransitionScorer.
type TransitionFunc func(prev, cur State) float64

// Transition calls f(prev, cur).
func (f TransitionFunc) Transition(prev, cur State) float64 {
	return f(prev, cur)
}

// SumLattice is the scored candidate lattice a tagger produces for one sentence.
// Trans is nil for zero-order lattices.
type SumLattice struct {
	Candidates Candidates
	Scores     [][]float64
	Trans      TransitionScorer
}

// ZeroOrder reports whether the lattice carries no transition structure.
func (s *SumLattice) ZeroOrder() bool {
	return s.Trans == nil
}

// Hypothesis is one complete tagging: a candidate index per position and its score.
type Hypothesis struct {
	States []int
	Score  float64
}

// Equal reports whether h selects exactly the given candidate index at every position.
func (h Hypothesis) Equal(indexes []int) bool {
	if len(h.States) != len(indexes) {
		return false
	}
	for i, idx := range h.States {
		if idx != indexes[i] {
			return false
		}
	}
	return true
}

// ErrEmptyCandidates is the reason reported when a position has no candidate.
var ErrEmptyCandidates = errors.New("empty candidate list")

// PositionError is a lattice precondition violation at one sentence position.
type PositionError struct {
	Position int
	Err      error
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("lattice: position %d: %v", e.Position, e.Err)
}

func (e *PositionError) Unwrap() error {
	return e.Err
}

// Validate checks the lattice shape: every position has at least one candidate, a
// score per candidate, and every state is levels deep.
func Validate(c Candidates, scores [][]float64, levels int) error {
	if len(scores) != len(c) {
		return &PositionError{Position: len(scores), Err: fmt.Errorf("%d score rows for %d positions", len(scores), len(c))}
	}
	for pos, states := range c {
		if len(states) == 0 {
			return &PositionError{Position: pos, Err: ErrEmptyCandidates}
		}
		if len(scores[pos]) != len(states) {
			return &PositionError{Position: pos, Err: fmt.Errorf("%d scores for %d candidates", len(scores[pos]), len(states))}
		}
		for i, s := range states {
			if levels > 0 && s.Levels != levels {
				return &PositionError{Position: pos, Err: fmt.Errorf("candidate %d has %d levels, want %d", i, s.Levels, levels)}
			}
		}
	}
	return nil
}

// GoldIndexes maps per-position gold tag stacks onto candidate indexes. It reports
// false when some position has no candidate carrying the gold stack.
func GoldIndexes(c Candidates, gold [][]int) ([]int, bool) {
	if len(gold) != len(c) {
		return nil, false
	}
	indexes := make([]int, len(c))
	for pos, states := range c {
		found := -1
		for i, s := range states {
			if s.Matches(gold[pos]) {
				found = i
				break
			}
		}
		if found < 0 {
			return nil, false
		}
		indexes[pos] = found
	}
	return indexes, true
}
