package eval

import (
	"fmt"

	"github.com/teatak/mtag/corpus"
	"github.com/teatak/mtag/lattice"
)

// TokenOutcome is the level-by-level comparison of one predicted tag stack with gold.
type TokenOutcome struct {
	LevelErrors []bool
	OOV         bool
}

// Wrong reports whether any level of the token is wrong.
func (o TokenOutcome) Wrong() bool {
	for _, e := range o.LevelErrors {
		if e {
			return true
		}
	}
	return false
}

// ScoreToken compares the predicted stack with the gold tag indexes, finest level first.
func ScoreToken(gold []int, predicted lattice.State, oov bool) (TokenOutcome, error) {
	if len(gold) != predicted.Levels {
		return TokenOutcome{}, fmt.Errorf("gold has %d levels, prediction %d", len(gold), predicted.Levels)
	}
	o := TokenOutcome{LevelErrors: make([]bool, len(gold)), OOV: oov}
	for level := len(gold) - 1; level >= 0; level-- {
		o.LevelErrors[level] = gold[level] != predicted.Tag(level)
	}
	return o, nil
}

// addToken counts one scored token.
func (r *Result) addToken(o TokenOutcome) {
	for level, wrong := range o.LevelErrors {
		if !wrong {
			continue
		}
		r.TokenErrors[level]++
		if o.OOV {
			r.OOVErrors[level]++
		}
	}
	if o.Wrong() {
		r.MorphErrors++
		if o.OOV {
			r.MorphOOVErrors++
		}
	}
	if o.OOV {
		r.OOVs++
	}
	r.Tokens++
}

// scoreSentence scores every token of s against predicted(i) and counts a sentence
// error at most once.
func (r *Result) scoreSentence(s corpus.Sentence, predicted func(i int) lattice.State, isOOV func(int) bool) error {
	sentenceError := false
	for i, w := range s {
		o, err := ScoreToken(w.TagIndexes, predicted(i), isOOV(w.FormIndex))
		if err != nil {
			return &lattice.PositionError{Position: i, Err: err}
		}
		if o.Wrong() {
			sentenceError = true
		}
		r.addToken(o)
	}
	if sentenceError {
		r.SentenceErrors++
	}
	return nil
}
