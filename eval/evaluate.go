package eval

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/teatak/mtag/corpus"
	"github.com/teatak/mtag/lattice"
)

// Tagger is what live evaluation needs from a trained model.
// Implementations must be safe for concurrent reads.
type Tagger interface {
	NumLevels() int
	ZeroOrder() bool
	BeamSize() int
	BoundaryState(level int) lattice.State
	SumLattice(s corpus.Sentence) (*lattice.SumLattice, error)
	GoldIndexes(s corpus.Sentence, c lattice.Candidates) ([]int, bool)
	IsOOV(formIndex int) bool
}

// Options controls Evaluate and EvaluateCorpus.
type Options struct {
	Ranks   int // N-best depth and rank histogram length; DefaultRanks if < 1
	Workers int // sentences evaluated in parallel; GOMAXPROCS if < 1
}

func (o Options) ranks() int {
	if o.Ranks < 1 {
		return DefaultRanks
	}
	return o.Ranks
}

func (o Options) workers() int {
	if o.Workers < 1 {
		return runtime.GOMAXPROCS(0)
	}
	return o.Workers
}

// SentenceError reports the sentence at which corpus evaluation stopped.
type SentenceError struct {
	Sentence int
	Err      error
}

func (e *SentenceError) Error() string {
	return fmt.Sprintf("sentence %d: %v", e.Sentence, e.Err)
}

func (e *SentenceError) Unwrap() error {
	return e.Err
}

// ErrTopology is returned when the tagger's order and its lattice disagree.
var ErrTopology = errors.New("lattice topology does not match tagger order")

// Decoder builds the search over sum matching the tagger's order.
func Decoder(tagger Tagger, sum *lattice.SumLattice) (*lattice.Viterbi, error) {
	switch {
	case tagger.ZeroOrder() && !sum.ZeroOrder():
		return nil, fmt.Errorf("%w: zero-order tagger returned transitions", ErrTopology)
	case !tagger.ZeroOrder() && sum.ZeroOrder():
		return nil, fmt.Errorf("%w: sequence tagger returned no transitions", ErrTopology)
	}
	return sum.Decoder(tagger.BoundaryState(tagger.NumLevels()-1), tagger.BeamSize())
}

// Evaluate decodes one gold-annotated, indexed sentence and scores the best
// hypothesis against the gold tags.
func Evaluate(tagger Tagger, s corpus.Sentence, opts Options) (*Result, error) {
	levels := tagger.NumLevels()
	if levels < 1 || levels > lattice.MaxLevels {
		return nil, fmt.Errorf("tagger has %d levels, want 1 to %d", levels, lattice.MaxLevels)
	}
	r := NewResult(levels, opts.ranks())
	r.Policy = PolicyDictionary
	r.Sentences = 1

	start := time.Now()
	sum, err := tagger.SumLattice(s)
	if err != nil {
		return nil, err
	}
	r.SumLatticeTime = time.Since(start)
	if len(sum.Candidates) != len(s) {
		return nil, fmt.Errorf("lattice has %d positions for %d tokens", len(sum.Candidates), len(s))
	}

	v, err := Decoder(tagger, sum)
	if err != nil {
		return nil, err
	}
	best := v.Best()
	r.DecodeTime = time.Since(start)

	for _, states := range sum.Candidates {
		r.States += len(states)
		r.Positions++
	}

	gold, found := tagger.GoldIndexes(s, sum.Candidates)
	if !found {
		r.Unreachable++
	}
	if rank := Rank(gold, found, v.NBest(len(r.Ranks))); rank != Unreachable {
		r.Ranks[rank-1]++
	}

	predicted := func(i int) lattice.State {
		return sum.Candidates[i][best.States[i]]
	}
	if err := r.scoreSentence(s, predicted, tagger.IsOOV); err != nil {
		return nil, err
	}
	return r, nil
}

// EvaluateCorpus evaluates sentences on opts.Workers goroutines and folds the
// per-sentence results in corpus order. The first failing sentence aborts the run.
func EvaluateCorpus(ctx context.Context, tagger Tagger, sentences []corpus.Sentence, opts Options) (*Result, error) {
	results := make([]*Result, len(sentences))
	errs := make([]error, len(sentences))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < opts.workers(); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i], errs[i] = Evaluate(tagger, sentences[i], opts)
				if errs[i] != nil {
					cancel()
				}
			}
		}()
	}

dispatch:
	for i := range sentences {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, &SentenceError{Sentence: i, Err: err}
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	total, err := Fold(tagger.NumLevels(), opts.ranks(), results...)
	if err != nil {
		return nil, err
	}
	log.Printf("evaluated %d sentences\n%v", total.Sentences, total)
	return total, nil
}
