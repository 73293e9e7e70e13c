package eval

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultRanks is the default length of the rank histogram and of the N-best list.
const DefaultRanks = 10

// Result accumulates tagging statistics for one sentence or a whole corpus.
// Per-sentence results are built once and then folded into totals with Add.
type Result struct {
	Policy string // OOV policy the counts were taken under

	Sentences int
	Tokens    int
	OOVs      int

	TokenErrors    []int // per level
	OOVErrors      []int // per level
	MorphErrors    int   // tokens with at least one wrong level
	MorphOOVErrors int
	SentenceErrors int
	Unreachable    int // sentences whose gold hypothesis is not in the lattice

	Ranks []int // Ranks[r-1] counts sentences whose gold hypothesis had rank r

	States    int // candidates over all positions
	Positions int // candidate cells

	SumLatticeTime time.Duration
	DecodeTime     time.Duration
}

// NewResult creates an empty result for the given number of levels and rank buckets.
func NewResult(levels, ranks int) *Result {
	return &Result{
		TokenErrors: make([]int, levels),
		OOVErrors:   make([]int, levels),
		Ranks:       make([]int, ranks),
	}
}

// Levels returns the number of tag levels the result covers.
func (r *Result) Levels() int {
	return len(r.TokenErrors)
}

// ErrMalformedResult is wrapped by Add when a result cannot be folded.
var ErrMalformedResult = errors.New("malformed result")

func (r *Result) validate() error {
	if len(r.OOVErrors) != len(r.TokenErrors) {
		return fmt.Errorf("%w: %d token error levels, %d OOV error levels", ErrMalformedResult, len(r.TokenErrors), len(r.OOVErrors))
	}
	counts := []int{r.Sentences, r.Tokens, r.OOVs, r.MorphErrors, r.MorphOOVErrors, r.SentenceErrors, r.Unreachable, r.States, r.Positions}
	counts = append(counts, r.TokenErrors...)
	counts = append(counts, r.OOVErrors...)
	counts = append(counts, r.Ranks...)
	for _, c := range counts {
		if c < 0 {
			return fmt.Errorf("%w: negative count %d", ErrMalformedResult, c)
		}
	}
	if r.SumLatticeTime < 0 || r.DecodeTime < 0 {
		return fmt.Errorf("%w: negative duration", ErrMalformedResult)
	}
	return nil
}

// Add folds other into r field by field. Nothing is folded when other is malformed
// or shaped differently from r.
func (r *Result) Add(other *Result) error {
	if err := other.validate(); err != nil {
		return err
	}
	if len(other.TokenErrors) != len(r.TokenErrors) {
		return fmt.Errorf("%w: %d levels, want %d", ErrMalformedResult, len(other.TokenErrors), len(r.TokenErrors))
	}
	if len(other.Ranks) != len(r.Ranks) {
		return fmt.Errorf("%w: %d rank buckets, want %d", ErrMalformedResult, len(other.Ranks), len(r.Ranks))
	}
	if r.Policy != "" && other.Policy != "" && r.Policy != other.Policy {
		return fmt.Errorf("%w: OOV policy %q, want %q", ErrMalformedResult, other.Policy, r.Policy)
	}
	if r.Policy == "" {
		r.Policy = other.Policy
	}

	r.Sentences += other.Sentences
	r.Tokens += other.Tokens
	r.OOVs += other.OOVs
	for l := range r.TokenErrors {
		r.TokenErrors[l] += other.TokenErrors[l]
		r.OOVErrors[l] += other.OOVErrors[l]
	}
	r.MorphErrors += other.MorphErrors
	r.MorphOOVErrors += other.MorphOOVErrors
	r.SentenceErrors += other.SentenceErrors
	r.Unreachable += other.Unreachable
	for i := range r.Ranks {
		r.Ranks[i] += other.Ranks[i]
	}
	r.States += other.States
	r.Positions += other.Positions
	r.SumLatticeTime += other.SumLatticeTime
	r.DecodeTime += other.DecodeTime
	return nil
}

// Fold sums results into a new total.
func Fold(levels, ranks int, results ...*Result) (*Result, error) {
	total := NewResult(levels, ranks)
	for i, r := range results {
		if err := total.Add(r); err != nil {
			return nil, fmt.Errorf("result %d: %w", i, err)
		}
	}
	return total, nil
}

// Summary is the reported projection of a Result.
type Summary struct {
	Policy           string        `json:"oov_policy,omitempty"`
	Sentences        int           `json:"sentences"`
	Tokens           int           `json:"tokens"`
	OOVs             int           `json:"oovs"`
	LevelAccuracy    []float64     `json:"level_accuracy"`
	LevelOOVAccuracy []float64     `json:"level_oov_accuracy"`
	MorphAccuracy    float64       `json:"morph_accuracy"`
	MorphOOVAccuracy float64       `json:"morph_oov_accuracy"`
	SentenceAccuracy float64       `json:"sentence_accuracy"`
	UnreachableRate  float64       `json:"unreachable_rate"`
	RankedSentences  int           `json:"ranked_sentences"`
	MeanRank         float64       `json:"mean_rank"`
	Ranks            []int         `json:"ranks"`
	CandidatesPerPos float64       `json:"candidates_per_position"`
	MeanLatticeTime  time.Duration `json:"mean_lattice_time_ns"`
	MeanDecodeTime   time.Duration `json:"mean_decode_time_ns"`
}

// accuracy is 1 - errors/total, and 0 when there is nothing to count.
func accuracy(errors, total int) float64 {
	if total == 0 {
		return 0
	}
	return 1 - float64(errors)/float64(total)
}

func ratio(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}

// Summary computes the report for r.
func (r *Result) Summary() Summary {
	s := Summary{
		Policy:           r.Policy,
		Sentences:        r.Sentences,
		Tokens:           r.Tokens,
		OOVs:             r.OOVs,
		LevelAccuracy:    make([]float64, len(r.TokenErrors)),
		LevelOOVAccuracy: make([]float64, len(r.OOVErrors)),
		MorphAccuracy:    accuracy(r.MorphErrors, r.Tokens),
		MorphOOVAccuracy: accuracy(r.MorphOOVErrors, r.OOVs),
		SentenceAccuracy: accuracy(r.SentenceErrors, r.Sentences),
		UnreachableRate:  ratio(r.Unreachable, r.Sentences),
		Ranks:            append([]int(nil), r.Ranks...),
		CandidatesPerPos: ratio(r.States, r.Positions),
	}
	for l := range r.TokenErrors {
		s.LevelAccuracy[l] = accuracy(r.TokenErrors[l], r.Tokens)
		s.LevelOOVAccuracy[l] = accuracy(r.OOVErrors[l], r.OOVs)
	}
	rankSum := 0
	for i, n := range r.Ranks {
		s.RankedSentences += n
		rankSum += (i + 1) * n
	}
	s.MeanRank = ratio(rankSum, s.RankedSentences)
	if r.Sentences > 0 {
		s.MeanLatticeTime = r.SumLatticeTime / time.Duration(r.Sentences)
		s.MeanDecodeTime = r.DecodeTime / time.Duration(r.Sentences)
	}
	return s
}

func (r *Result) String() string {
	s := r.Summary()
	var b strings.Builder
	fmt.Fprintf(&b, "sentences: %d tokens: %d oovs: %d", s.Sentences, s.Tokens, s.OOVs)
	if s.Policy != "" {
		fmt.Fprintf(&b, " (oov policy: %s)", s.Policy)
	}
	b.WriteByte('\n')
	oovAcc := func(acc float64) string {
		if s.OOVs == 0 {
			return "n/a"
		}
		return fmt.Sprintf("%.2f%%", 100*acc)
	}
	for l := range s.LevelAccuracy {
		fmt.Fprintf(&b, "level %d: accuracy %.2f%% oov accuracy %s\n", l, 100*s.LevelAccuracy[l], oovAcc(s.LevelOOVAccuracy[l]))
	}
	fmt.Fprintf(&b, "morph: accuracy %.2f%% oov accuracy %s\n", 100*s.MorphAccuracy, oovAcc(s.MorphOOVAccuracy))
	fmt.Fprintf(&b, "sentence accuracy: %.2f%%\n", 100*s.SentenceAccuracy)
	fmt.Fprintf(&b, "unreachable: %d (%.2f%%)\n", r.Unreachable, 100*s.UnreachableRate)
	if s.RankedSentences > 0 {
		fmt.Fprintf(&b, "mean rank: %.2f over %d sentences, histogram %v\n", s.MeanRank, s.RankedSentences, s.Ranks)
	}
	if r.Positions > 0 {
		fmt.Fprintf(&b, "candidates per position: %.2f\n", s.CandidatesPerPos)
	}
	fmt.Fprintf(&b, "time per sentence: lattice %v decode %v", s.MeanLatticeTime, s.MeanDecodeTime)
	return b.String()
}
