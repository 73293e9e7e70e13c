package eval

import "github.com/teatak/mtag/lattice"

// Unreachable is the rank of a gold hypothesis that is not in the lattice or not
// among the N best hypotheses.
const Unreachable = -1

// Rank returns the 1-based position of the gold candidate indexes in nbest.
// found is false when the gold stacks could not be mapped onto the candidates.
func Rank(gold []int, found bool, nbest []lattice.Hypothesis) int {
	if !found {
		return Unreachable
	}
	for i, h := range nbest {
		if h.Equal(gold) {
			return i + 1
		}
	}
	return Unreachable
}
