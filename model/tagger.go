package model

import (
	"fmt"
	"sort"

	"github.com/teatak/mtag/corpus"
	"github.com/teatak/mtag/lattice"
	"github.com/unixpickle/essentials"
)

// LoadModel loads a model from a file.
func LoadModel(path string) (model *Model, err error) {
	defer essentials.AddCtxTo("load model", &err)
	model = NewModel(0, 0, 0)
	if err := model.Load(path); err != nil {
		return nil, err
	}
	if model.Beam < 1 {
		model.Beam = 1
	}
	return model, nil
}

// NumLevels returns the depth of the model's tag stacks.
func (m *Model) NumLevels() int {
	return m.Levels
}

// ZeroOrder reports whether the model scores positions independently.
func (m *Model) ZeroOrder() bool {
	return m.Order == 0
}

// BeamSize bounds candidates per level and partial hypotheses during search.
func (m *Model) BeamSize() int {
	return m.Beam
}

// BoundaryState returns the state preceding position 0, level levels deep.
func (m *Model) BoundaryState(level int) lattice.State {
	return lattice.BoundaryState(level)
}

// IsOOV reports whether the form at index was never observed in training.
func (m *Model) IsOOV(formIndex int) bool {
	return m.Words.Count(formIndex) == 0
}

// GoldIndexes maps the gold tag stacks of s onto candidate indexes.
func (m *Model) GoldIndexes(s corpus.Sentence, c lattice.Candidates) ([]int, bool) {
	return lattice.GoldIndexes(c, s.GoldTags())
}

// Index resolves form and tag indexes of sentences against the model tables.
func (m *Model) Index(sentences []corpus.Sentence) {
	corpus.Index(sentences, m.Words, m.Tags)
}

type partial struct {
	state lattice.State
	score float64
}

// SumLattice builds the scored candidate lattice of s. Level 0 scores every tag;
// each deeper level extends the surviving stacks with the tags seen under their
// parent. At most Beam stacks survive each level.
func (m *Model) SumLattice(s corpus.Sentence) (*lattice.SumLattice, error) {
	for l, tags := range m.Tags {
		if tags.Len() == 0 {
			return nil, fmt.Errorf("model: no tags at level %d", l)
		}
	}
	sum := &lattice.SumLattice{
		Candidates: make(lattice.Candidates, len(s)),
		Scores:     make([][]float64, len(s)),
	}
	for i := range s {
		states := m.candidates(s, i)
		sum.Candidates[i] = make([]lattice.State, len(states))
		sum.Scores[i] = make([]float64, len(states))
		for j, p := range states {
			sum.Candidates[i][j] = p.state
			sum.Scores[i][j] = p.score
		}
	}
	if m.Order > 0 {
		sum.Trans = lattice.TransitionFunc(m.transition)
	}
	return sum, nil
}

func (m *Model) candidates(s corpus.Sentence, idx int) []partial {
	feats := ExtractFeatures(s, idx)
	beam := m.Beam
	if beam < 1 {
		beam = 1
	}

	frontier := []partial{{}}
	for l := 0; l < m.Levels; l++ {
		var next []partial
		for _, p := range frontier {
			levelFeats := feats
			var children []int
			if l > 0 {
				parent := p.state.Tag(l - 1)
				levelFeats = append(append([]string{}, feats...), parentFeature(parent))
				children = m.Allowed[l][parent]
			}
			if len(children) == 0 {
				children = allTags(m.Tags[l].Len())
			}
			for _, tag := range children {
				next = append(next, partial{
					state: p.state.Extend(tag),
					score: p.score + m.emission(l, levelFeats, tag),
				})
			}
		}
		sort.SliceStable(next, func(i, j int) bool {
			return next[i].score > next[j].score
		})
		if len(next) > beam {
			next = next[:beam]
		}
		frontier = next
	}
	return frontier
}

func allTags(n int) []int {
	tags := make([]int, n)
	for i := range tags {
		tags[i] = i
	}
	return tags
}

func (m *Model) emission(level int, feats []string, tag int) float64 {
	score := 0.0
	for _, feat := range feats {
		if weights, ok := m.Feats[level][feat]; ok {
			score += weights[tag]
		}
	}
	return score
}

func (m *Model) transition(prev, cur lattice.State) float64 {
	score := 0.0
	for l := 0; l < m.Levels && l < prev.Levels && l < cur.Levels; l++ {
		score += m.Trans[l][[2]int{prev.Tag(l), cur.Tag(l)}]
	}
	return score
}

// Decode tags s with the model's own beam and returns the candidates and the best
// hypothesis.
func (m *Model) Decode(s corpus.Sentence) (lattice.Candidates, lattice.Hypothesis, error) {
	sum, err := m.SumLattice(s)
	if err != nil {
		return nil, lattice.Hypothesis{}, err
	}
	v, err := sum.Decoder(m.BoundaryState(m.Levels-1), m.BeamSize())
	if err != nil {
		return nil, lattice.Hypothesis{}, err
	}
	return sum.Candidates, v.Best(), nil
}

// Annotate tags s in place: Tags and TagIndexes of every word are replaced by the
// best hypothesis.
func (m *Model) Annotate(s corpus.Sentence) error {
	c, h, err := m.Decode(s)
	if err != nil {
		return err
	}
	for i, w := range s {
		state := c[i][h.States[i]]
		w.TagIndexes = state.Slice()
		w.Tags = make([]string, m.Levels)
		for l := range w.Tags {
			w.Tags[l] = m.Tags[l].ValueOf(state.Tag(l))
		}
	}
	return nil
}
