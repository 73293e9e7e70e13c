package lattice

import (
	"errors"
	"fmt"
	"sort"
)

// Kind is the lattice topology.
type Kind int

const (
	ZeroOrder Kind = iota // ZeroOrder scores every position independently.
	Sequence              // Sequence adds first-order transitions seeded by a boundary state.
)

func (k Kind) String() string {
	switch k {
	case ZeroOrder:
		return "zero-order"
	case Sequence:
		return "sequence"
	}
	return "?"
}

// Viterbi searches a scored candidate lattice for the best and the N best hypotheses.
type Viterbi struct {
	kind       Kind
	candidates Candidates
	scores     [][]float64
	trans      TransitionScorer
	boundary   State
	beam       int

	// cells[pos] lists the candidate indexes expanded at pos, ascending.
	cells [][]int

	width  int
	layers [][]item
}

// item is a partial hypothesis ending at one position.
type item struct {
	score  float64
	parent int // rank of the partial hypothesis it extends at pos-1
	cand   int
}

// NewZeroOrder builds a zero-order lattice. At most beam candidates per position,
// the best scoring ones, take part in the search.
func NewZeroOrder(c Candidates, scores [][]float64, beam int) (*Viterbi, error) {
	if err := checkLattice(c, scores, beam); err != nil {
		return nil, err
	}
	v := &Viterbi{kind: ZeroOrder, candidates: c, scores: scores, beam: beam}
	v.cells = make([][]int, len(c))
	for pos := range c {
		v.cells[pos] = topCandidates(scores[pos], beam)
	}
	return v, nil
}

// Decoder builds the search matching the topology of s: zero-order when s has no
// transitions, sequence seeded by boundary otherwise.
func (s *SumLattice) Decoder(boundary State, beam int) (*Viterbi, error) {
	if s.ZeroOrder() {
		return NewZeroOrder(s.Candidates, s.Scores, beam)
	}
	return NewSequence(s.Candidates, s.Scores, s.Trans, boundary, beam)
}

// NewSequence builds a first-order lattice. boundary precedes position 0 and beam
// bounds the number of partial hypotheses kept at each position.
func NewSequence(c Candidates, scores [][]float64, trans TransitionScorer, boundary State, beam int) (*Viterbi, error) {
	if trans == nil {
		return nil, errors.New("lattice: sequence lattice needs a transition scorer")
	}
	if err := checkLattice(c, scores, beam); err != nil {
		return nil, err
	}
	v := &Viterbi{kind: Sequence, candidates: c, scores: scores, trans: trans, boundary: boundary, beam: beam}
	v.cells = make([][]int, len(c))
	for pos, states := range c {
		v.cells[pos] = make([]int, len(states))
		for i := range states {
			v.cells[pos][i] = i
		}
	}
	return v, nil
}

func checkLattice(c Candidates, scores [][]float64, beam int) error {
	if beam < 1 {
		return fmt.Errorf("lattice: beam size %d < 1", beam)
	}
	levels := 0
	if len(c) > 0 && len(c[0]) > 0 {
		levels = c[0][0].Levels
	}
	return Validate(c, scores, levels)
}

// topCandidates returns the indexes of the k best scores, in ascending index order.
func topCandidates(scores []float64, k int) []int {
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	if len(idx) <= k {
		return idx
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return scores[idx[i]] > scores[idx[j]]
	})
	idx = idx[:k]
	sort.Ints(idx)
	return idx
}

// Kind returns the lattice topology.
func (v *Viterbi) Kind() Kind {
	return v.kind
}

// Candidates returns the candidate lists the lattice was built from.
func (v *Viterbi) Candidates() Candidates {
	return v.candidates
}

// Best returns the highest scoring hypothesis.
func (v *Viterbi) Best() Hypothesis {
	return v.NBest(1)[0]
}

// NBest returns up to k complete hypotheses, best first, in non-increasing score order.
func (v *Viterbi) NBest(k int) []Hypothesis {
	if k < 1 {
		k = 1
	}
	if len(v.candidates) == 0 {
		return []Hypothesis{{States: []int{}}}
	}

	// Independent positions make a k-wide search exact; transitions limit it to the beam.
	width := k
	if v.kind == Sequence {
		width = v.beam
	}
	layers := v.search(width)

	last := layers[len(layers)-1]
	if len(last) > k {
		last = last[:k]
	}
	hyps := make([]Hypothesis, len(last))
	for rank := range last {
		hyps[rank] = v.backtrack(layers, rank)
	}
	return hyps
}

func (v *Viterbi) search(width int) [][]item {
	if v.layers != nil && v.width == width {
		return v.layers
	}
	n := len(v.candidates)
	layers := make([][]item, n)

	for pos := 0; pos < n; pos++ {
		parents := 1
		if pos > 0 {
			parents = len(layers[pos-1])
		}
		expansions := make([]item, 0, parents*len(v.cells[pos]))
		for p := 0; p < parents; p++ {
			base := 0.0
			prev := v.boundary
			if pos > 0 {
				it := layers[pos-1][p]
				base = it.score
				prev = v.candidates[pos-1][it.cand]
			}
			for _, c := range v.cells[pos] {
				score := base + v.scores[pos][c]
				if v.kind == Sequence {
					score += v.trans.Transition(prev, v.candidates[pos][c])
				}
				expansions = append(expansions, item{score: score, parent: p, cand: c})
			}
		}
		// Stable: equal scores keep (parent rank, candidate index) order.
		sort.SliceStable(expansions, func(i, j int) bool {
			return expansions[i].score > expansions[j].score
		})
		if len(expansions) > width {
			expansions = expansions[:width]
		}
		layers[pos] = expansions
	}

	v.width, v.layers = width, layers
	return layers
}

func (v *Viterbi) backtrack(layers [][]item, rank int) Hypothesis {
	n := len(layers)
	states := make([]int, n)
	score := layers[n-1][rank].score
	for pos := n - 1; pos >= 0; pos-- {
		it := layers[pos][rank]
		states[pos] = it.cand
		rank = it.parent
	}
	return Hypothesis{States: states, Score: score}
}
