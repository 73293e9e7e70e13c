package lattice

import (
	"errors"
	"reflect"
	"testing"
)

func singleLevel(tags ...int) []State {
	states := make([]State, len(tags))
	for i, t := range tags {
		states[i] = NewState(t)
	}
	return states
}

func hypStates(hyps []Hypothesis) [][]int {
	out := make([][]int, len(hyps))
	for i, h := range hyps {
		out[i] = h.States
	}
	return out
}

func TestZeroOrderSingleCandidate(t *testing.T) {
	c := Candidates{singleLevel(3), singleLevel(5), singleLevel(1)}
	scores := [][]float64{{0.5}, {-1}, {2}}

	v, err := NewZeroOrder(c, scores, 4)
	if err != nil {
		t.Fatal(err)
	}
	best := v.Best()
	if !reflect.DeepEqual(best.States, []int{0, 0, 0}) {
		t.Errorf("Best().States = %v, want [0 0 0]", best.States)
	}
	if best.Score != 1.5 {
		t.Errorf("Best().Score = %v, want 1.5", best.Score)
	}
	if got := v.NBest(5); len(got) != 1 {
		t.Errorf("len(NBest(5)) = %d, want 1", len(got))
	}
}

func TestZeroOrderNBest(t *testing.T) {
	c := Candidates{singleLevel(0, 1), singleLevel(0, 1)}
	scores := [][]float64{{1, 3}, {2, 0.5}}

	v, err := NewZeroOrder(c, scores, 2)
	if err != nil {
		t.Fatal(err)
	}
	got := v.NBest(4)
	want := [][]int{{1, 0}, {1, 1}, {0, 0}, {0, 1}}
	if !reflect.DeepEqual(hypStates(got), want) {
		t.Errorf("NBest(4) = %v, want %v", hypStates(got), want)
	}
	wantScores := []float64{5, 3.5, 3, 1.5}
	for i, h := range got {
		if h.Score != wantScores[i] {
			t.Errorf("NBest(4)[%d].Score = %v, want %v", i, h.Score, wantScores[i])
		}
	}
	if best := v.Best(); !reflect.DeepEqual(best, got[0]) {
		t.Errorf("Best() = %v, want NBest[0] = %v", best, got[0])
	}
}

func TestZeroOrderBeamPrunesCandidates(t *testing.T) {
	c := Candidates{singleLevel(0, 1), singleLevel(0, 1)}
	scores := [][]float64{{1, 3}, {2, 0.5}}

	v, err := NewZeroOrder(c, scores, 1)
	if err != nil {
		t.Fatal(err)
	}
	got := v.NBest(4)
	if want := [][]int{{1, 0}}; !reflect.DeepEqual(hypStates(got), want) {
		t.Errorf("NBest(4) with beam 1 = %v, want %v", hypStates(got), want)
	}
}

func TestTiesFollowCandidateOrder(t *testing.T) {
	c := Candidates{singleLevel(0, 1, 2)}
	scores := [][]float64{{1, 1, 1}}

	v, err := NewZeroOrder(c, scores, 3)
	if err != nil {
		t.Fatal(err)
	}
	want := [][]int{{0}, {1}, {2}}
	if got := hypStates(v.NBest(3)); !reflect.DeepEqual(got, want) {
		t.Errorf("NBest(3) = %v, want %v", got, want)
	}
}

func TestSequenceUsesTransitionsAndBoundary(t *testing.T) {
	c := Candidates{singleLevel(0, 1), singleLevel(0, 1)}
	scores := [][]float64{{0, 0}, {0, 0}}
	trans := TransitionFunc(func(prev, cur State) float64 {
		switch {
		case prev.Tag(0) == BoundaryTag && cur.Tag(0) == 0:
			return 1
		case prev.Tag(0) == 0 && cur.Tag(0) == 1:
			return 2
		}
		return 0
	})

	v, err := NewSequence(c, scores, trans, BoundaryState(0), 2)
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind() != Sequence {
		t.Errorf("Kind() = %v, want sequence", v.Kind())
	}
	got := v.NBest(2)
	want := [][]int{{0, 1}, {0, 0}}
	if !reflect.DeepEqual(hypStates(got), want) {
		t.Errorf("NBest(2) = %v, want %v", hypStates(got), want)
	}
	if got[0].Score != 3 {
		t.Errorf("best score = %v, want 3", got[0].Score)
	}
}

func TestSequenceBeamBoundsNBest(t *testing.T) {
	c := Candidates{singleLevel(0, 1, 2), singleLevel(0, 1, 2)}
	scores := [][]float64{{3, 2, 1}, {3, 2, 1}}
	zero := TransitionFunc(func(prev, cur State) float64 { return 0 })

	v, err := NewSequence(c, scores, zero, BoundaryState(0), 2)
	if err != nil {
		t.Fatal(err)
	}
	if got := v.NBest(10); len(got) != 2 {
		t.Errorf("len(NBest(10)) with beam 2 = %d, want 2", len(got))
	}
}

func TestEmptyCandidateListIsPositionError(t *testing.T) {
	c := Candidates{singleLevel(0), {}}
	scores := [][]float64{{0}, {}}

	_, err := NewZeroOrder(c, scores, 2)
	var perr *PositionError
	if !errors.As(err, &perr) {
		t.Fatalf("NewZeroOrder error = %v, want *PositionError", err)
	}
	if perr.Position != 1 {
		t.Errorf("Position = %d, want 1", perr.Position)
	}
	if !errors.Is(err, ErrEmptyCandidates) {
		t.Errorf("error %v does not wrap ErrEmptyCandidates", err)
	}
}

func TestLevelMismatchIsPositionError(t *testing.T) {
	c := Candidates{{NewState(1, 2)}, {NewState(1)}}
	scores := [][]float64{{0}, {0}}

	_, err := NewZeroOrder(c, scores, 1)
	var perr *PositionError
	if !errors.As(err, &perr) || perr.Position != 1 {
		t.Errorf("NewZeroOrder error = %v, want *PositionError at 1", err)
	}
}

func TestEmptySentence(t *testing.T) {
	v, err := NewZeroOrder(Candidates{}, [][]float64{}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if best := v.Best(); len(best.States) != 0 || best.Score != 0 {
		t.Errorf("Best() = %v, want empty hypothesis", best)
	}
}

func TestGoldIndexes(t *testing.T) {
	c := Candidates{
		{NewState(3, 7), NewState(3, 8)},
		{NewState(1, 2), NewState(3, 8)},
	}

	got, ok := GoldIndexes(c, [][]int{{3, 8}, {3, 8}})
	if !ok || !reflect.DeepEqual(got, []int{1, 1}) {
		t.Errorf("GoldIndexes = %v, %v, want [1 1], true", got, ok)
	}

	if _, ok := GoldIndexes(c, [][]int{{3, 7}, {3, 7}}); ok {
		t.Errorf("GoldIndexes found a stack absent from position 1")
	}
}

func TestSumLatticeDecoder(t *testing.T) {
	c := Candidates{singleLevel(0, 1), singleLevel(0, 1)}
	scores := [][]float64{{0, 1}, {1, 0}}

	sum := &SumLattice{Candidates: c, Scores: scores}
	v, err := sum.Decoder(BoundaryState(0), 2)
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind() != ZeroOrder {
		t.Errorf("Kind() without transitions = %v, want zero-order", v.Kind())
	}
	if best := v.Best(); !reflect.DeepEqual(best.States, []int{1, 0}) {
		t.Errorf("zero-order Best().States = %v, want [1 0]", best.States)
	}

	// Leaving the boundary is worth more than both emissions.
	sum.Trans = TransitionFunc(func(prev, cur State) float64 {
		if prev.Tag(0) == BoundaryTag && cur.Tag(0) == 0 {
			return 5
		}
		return 0
	})
	v, err = sum.Decoder(BoundaryState(0), 2)
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind() != Sequence {
		t.Errorf("Kind() with transitions = %v, want sequence", v.Kind())
	}
	if best := v.Best(); !reflect.DeepEqual(best.States, []int{0, 0}) || best.Score != 6 {
		t.Errorf("sequence Best() = %v %v, want [0 0] 6", best.States, best.Score)
	}

	if _, err := sum.Decoder(BoundaryState(0), 0); err == nil {
		t.Error("Decoder accepted beam 0")
	}
}
