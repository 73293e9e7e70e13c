package model

import (
	"fmt"
	"log"

	"github.com/teatak/mtag/corpus"
	"github.com/teatak/mtag/lattice"
)

// TrainOptions controls Train.
type TrainOptions struct {
	Levels     int
	Order      int
	Beam       int
	Iterations int
}

// Train builds the word and tag tables from the gold corpus and learns weights
// with the structured perceptron.
func Train(sentences []corpus.Sentence, opts TrainOptions) (*Model, error) {
	if opts.Levels < 1 || opts.Levels > lattice.MaxLevels {
		return nil, fmt.Errorf("train: levels %d outside [1,%d]", opts.Levels, lattice.MaxLevels)
	}
	model := NewModel(opts.Levels, opts.Order, opts.Beam)
	if err := model.Collect(sentences); err != nil {
		return nil, err
	}
	model.Index(sentences)

	for it := 1; it <= opts.Iterations; it++ {
		correctCnt := 0
		totalCnt := 0

		for _, sent := range sentences {
			if len(sent) == 0 {
				continue
			}
			c, h, err := model.Decode(sent)
			if err != nil {
				return nil, err
			}
			pred := make([]lattice.State, len(sent))
			for i := range sent {
				pred[i] = c[i][h.States[i]]
			}
			gold := make([]lattice.State, len(sent))
			for i, w := range sent {
				gold[i] = lattice.NewState(w.TagIndexes...)
			}

			correct := true
			for i := range gold {
				if gold[i] != pred[i] {
					correct = false
					break
				}
			}

			totalCnt++
			if correct {
				correctCnt++
				continue
			}
			model.update(sent, gold, pred)
		}
		log.Printf("Iteration %d: Accuracy %.2f%%", it, percent(correctCnt, totalCnt))
	}
	return model, nil
}

// Collect adds forms, tags and tag combinations of the gold corpus to the model tables.
func (m *Model) Collect(sentences []corpus.Sentence) error {
	for si, sent := range sentences {
		for wi, w := range sent {
			if len(w.Tags) < m.Levels {
				return fmt.Errorf("train: sentence %d word %d has %d tags, want %d", si, wi, len(w.Tags), m.Levels)
			}
			m.Words.Add(w.Form, 1)
			parent := -1
			for l := 0; l < m.Levels; l++ {
				tag, _ := m.Tags[l].Add(w.Tags[l])
				if l > 0 {
					m.Allow(l, parent, tag)
				}
				parent = tag
			}
		}
	}
	return nil
}

func (m *Model) update(sent corpus.Sentence, gold, pred []lattice.State) {
	// Update Emissions
	for i := range sent {
		if gold[i] == pred[i] {
			continue
		}
		feats := ExtractFeatures(sent, i)
		for l := 0; l < m.Levels; l++ {
			m.updateLevel(l, feats, gold[i], 1.0)
			m.updateLevel(l, feats, pred[i], -1.0)
		}
	}
	if m.Order == 0 {
		return
	}

	// Update Transitions
	boundary := m.BoundaryState(m.Levels - 1)
	for i := range sent {
		gPrev, pPrev := boundary, boundary
		if i > 0 {
			gPrev, pPrev = gold[i-1], pred[i-1]
		}
		if gPrev == pPrev && gold[i] == pred[i] {
			continue
		}
		for l := 0; l < m.Levels; l++ {
			m.UpdateTrans(l, gPrev.Tag(l), gold[i].Tag(l), 1.0)
			m.UpdateTrans(l, pPrev.Tag(l), pred[i].Tag(l), -1.0)
		}
	}
}

func (m *Model) updateLevel(level int, feats []string, s lattice.State, delta float64) {
	tag := s.Tag(level)
	for _, f := range feats {
		m.UpdateFeat(level, f, tag, delta)
	}
	if level > 0 {
		m.UpdateFeat(level, parentFeature(s.Tag(level-1)), tag, delta)
	}
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}
