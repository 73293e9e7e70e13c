package eval

import (
	"fmt"
	"log"

	"github.com/teatak/mtag/corpus"
	"github.com/teatak/mtag/lattice"
)

// Policy names.
const (
	PolicyDictionary = "dictionary"
	PolicyRange      = "range"
)

// OOVPolicy decides which form indexes count as out of vocabulary.
type OOVPolicy struct {
	Name  string
	IsOOV func(formIndex int) bool
}

// DictionaryOOV treats a form as OOV when the model never saw it in training.
func DictionaryOOV(model interface{ IsOOV(int) bool }) OOVPolicy {
	return OOVPolicy{Name: PolicyDictionary, IsOOV: model.IsOOV}
}

// RangeOOV treats a form as OOV when its index falls outside a word table of size entries.
func RangeOOV(size int) OOVPolicy {
	return OOVPolicy{
		Name: PolicyRange,
		IsOOV: func(formIndex int) bool {
			return formIndex < 0 || formIndex >= size
		},
	}
}

// Compare scores predicted against gold sentence by sentence, without decoding.
// Both corpora must be indexed against the same tag tables and have the same shape.
// The result carries opts.Ranks empty rank buckets so it folds with live results.
func Compare(gold, predicted []corpus.Sentence, oov OOVPolicy, levels int, opts Options) (*Result, error) {
	if levels < 1 || levels > lattice.MaxLevels {
		return nil, fmt.Errorf("compare: %d levels, want 1 to %d", levels, lattice.MaxLevels)
	}
	if len(gold) != len(predicted) {
		missing := min(len(gold), len(predicted))
		return nil, &SentenceError{Sentence: missing, Err: fmt.Errorf("%d gold sentences, %d predicted", len(gold), len(predicted))}
	}

	ranks := opts.ranks()
	total := NewResult(levels, ranks)
	total.Policy = oov.Name
	for i := range gold {
		r, err := compareSentence(gold[i], predicted[i], oov, levels, ranks)
		if err != nil {
			return nil, &SentenceError{Sentence: i, Err: err}
		}
		if err := total.Add(r); err != nil {
			return nil, err
		}
	}
	log.Printf("compared %d sentences\n%v", total.Sentences, total)
	return total, nil
}

func compareSentence(gold, predicted corpus.Sentence, oov OOVPolicy, levels, ranks int) (*Result, error) {
	if len(gold) != len(predicted) {
		return nil, fmt.Errorf("%d gold tokens, %d predicted", len(gold), len(predicted))
	}
	states := make([]lattice.State, len(predicted))
	for i, w := range predicted {
		if len(w.TagIndexes) != levels {
			return nil, &lattice.PositionError{Position: i, Err: fmt.Errorf("predicted token has %d levels, want %d", len(w.TagIndexes), levels)}
		}
		states[i] = lattice.NewState(w.TagIndexes...)
	}

	r := NewResult(levels, ranks)
	r.Policy = oov.Name
	r.Sentences = 1
	err := r.scoreSentence(gold, func(i int) lattice.State { return states[i] }, oov.IsOOV)
	if err != nil {
		return nil, err
	}
	return r, nil
}
