package model

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/teatak/mtag/corpus"
	"github.com/teatak/mtag/lattice"
)

func trainingCorpus() []corpus.Sentence {
	return []corpus.Sentence{
		{
			corpus.NewWord("der", "ART", "case=nom"),
			corpus.NewWord("Hund", "NN", "case=nom"),
			corpus.NewWord("bellt", "VVFIN", "_"),
		},
		{
			corpus.NewWord("den", "ART", "case=acc"),
			corpus.NewWord("Hund", "NN", "case=acc"),
			corpus.NewWord("sieht", "VVFIN", "_"),
		},
	}
}

func TestModel_SaveLoad(t *testing.T) {
	m := NewModel(2, 1, 3)
	m.Tags[0].Add("NN")
	m.Tags[1].Add("case=nom")
	m.Words.Add("Hund", 2)
	m.Allow(1, 0, 0)
	m.UpdateFeat(0, "W0:Hund", 0, 1.5)
	m.UpdateTrans(1, lattice.BoundaryTag, 0, -0.25)

	path := filepath.Join(t.TempDir(), "model.txt")
	if err := m.Save(path); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadModel(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Levels != 2 || loaded.Order != 1 || loaded.Beam != 3 {
		t.Errorf("header = L%d O%d B%d, want L2 O1 B3", loaded.Levels, loaded.Order, loaded.Beam)
	}
	if !reflect.DeepEqual(loaded.Feats, m.Feats) {
		t.Errorf("Feats = %v, want %v", loaded.Feats, m.Feats)
	}
	if !reflect.DeepEqual(loaded.Trans, m.Trans) {
		t.Errorf("Trans = %v, want %v", loaded.Trans, m.Trans)
	}
	if !reflect.DeepEqual(loaded.Allowed, m.Allowed) {
		t.Errorf("Allowed = %v, want %v", loaded.Allowed, m.Allowed)
	}
	if loaded.Tags[1].ValueOf(0) != "case=nom" || loaded.Words.Index("Hund") != 0 {
		t.Errorf("tables not restored")
	}
	for l, set := range loaded.Tags {
		if !set.Frozen {
			t.Errorf("loaded tag set %d is not frozen", l)
		}
	}
	if m.Tags[0].Frozen {
		t.Error("Save froze the source model")
	}
}

func TestParseLineRejectsBadRecords(t *testing.T) {
	m := NewModel(0, 0, 0)
	if err := m.parseLine([]string{"L", "1"}); err != nil {
		t.Fatal(err)
	}
	for _, rec := range [][]string{
		{"G", "3", "NN"},
		{"F", "0", "B"},
		{"T", "0", "x", "1", "0.5"},
		{"L", "9"},
	} {
		if err := m.parseLine(rec); err == nil {
			t.Errorf("parseLine(%v) accepted a bad record", rec)
		}
	}
}

func TestSumLatticeRespectsAllowedAndBeam(t *testing.T) {
	m := NewModel(2, 0, 2)
	for _, tag := range []string{"ART", "NN", "VVFIN"} {
		m.Tags[0].Add(tag)
	}
	for _, tag := range []string{"nom", "acc", "_"} {
		m.Tags[1].Add(tag)
	}
	m.Allow(1, 2, 2) // VVFIN only takes "_"
	m.UpdateFeat(0, "B", 2, 1.0)
	m.UpdateFeat(1, "B", 1, 0.5)

	sum, err := m.SumLattice(corpus.Sentence{corpus.NewWord("bellt")})
	if err != nil {
		t.Fatal(err)
	}
	if !sum.ZeroOrder() {
		t.Error("order 0 model built a sequence lattice")
	}
	got := sum.Candidates[0]
	want := []lattice.State{lattice.NewState(2, 2), lattice.NewState(0, 1)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Candidates[0] = %v, want %v", got, want)
	}
	if !reflect.DeepEqual(sum.Scores[0], []float64{1.0, 0.5}) {
		t.Errorf("Scores[0] = %v, want [1 0.5]", sum.Scores[0])
	}
}

func TestSumLatticeNeedsTags(t *testing.T) {
	m := NewModel(1, 0, 2)
	if _, err := m.SumLattice(corpus.Sentence{corpus.NewWord("x")}); err == nil {
		t.Error("SumLattice succeeded without any tags")
	}
}

func TestTrainLearnsSeparableCorpus(t *testing.T) {
	data := trainingCorpus()
	m, err := Train(data, TrainOptions{Levels: 2, Order: 0, Beam: 8, Iterations: 50})
	if err != nil {
		t.Fatal(err)
	}

	for _, gold := range trainingCorpus() {
		tagged := corpus.Sentence{}
		for _, w := range gold {
			tagged = append(tagged, corpus.NewWord(w.Form))
		}
		if err := m.Annotate(tagged); err != nil {
			t.Fatal(err)
		}
		for i, w := range tagged {
			if !reflect.DeepEqual(w.Tags, gold[i].Tags) {
				t.Errorf("%s tagged %v, want %v", w.Form, w.Tags, gold[i].Tags)
			}
		}
	}

	if m.IsOOV(m.Words.Index("Hund")) {
		t.Error("training word reported as OOV")
	}
	if !m.IsOOV(m.Words.Index("Katze")) {
		t.Error("unknown word not reported as OOV")
	}
}

func TestTrainSequenceModelLearnsTransitions(t *testing.T) {
	m, err := Train(trainingCorpus(), TrainOptions{Levels: 2, Order: 1, Beam: 8, Iterations: 5})
	if err != nil {
		t.Fatal(err)
	}
	if m.ZeroOrder() {
		t.Fatal("order 1 model reports zero order")
	}
	if len(m.Trans[0]) == 0 {
		t.Error("sequence training produced no level 0 transition weights")
	}
	sum, err := m.SumLattice(trainingCorpus()[0])
	if err != nil {
		t.Fatal(err)
	}
	if sum.ZeroOrder() {
		t.Error("order 1 model built a zero-order lattice")
	}
}

func TestTrainRejectsShallowWords(t *testing.T) {
	data := []corpus.Sentence{{corpus.NewWord("Hund", "NN")}}
	if _, err := Train(data, TrainOptions{Levels: 2, Beam: 2, Iterations: 1}); err == nil {
		t.Error("Train accepted a word with fewer tags than levels")
	}
}

func TestExtractFeatures(t *testing.T) {
	s := corpus.Sentence{corpus.NewWord("Der"), corpus.NewWord("Hund")}
	s[1].Features = []string{"capitalized"}
	feats := ExtractFeatures(s, 1)
	want := []string{
		"B", "W0:Hund", "L0:hund", "W-1:Der", "W+1:_EOS_", "SH:Xx",
		"P1:h", "S1:d", "P2:hu", "S2:nd", "P3:hun", "S3:und",
		"X:capitalized",
	}
	if !reflect.DeepEqual(feats, want) {
		t.Errorf("ExtractFeatures = %v, want %v", feats, want)
	}
}

func TestExtractFeaturesPunctuation(t *testing.T) {
	s := corpus.Sentence{corpus.NewWord("e-mail"), corpus.NewWord("!")}
	has := func(feats []string, want string) bool {
		for _, f := range feats {
			if f == want {
				return true
			}
		}
		return false
	}
	if feats := ExtractFeatures(s, 0); !has(feats, "HP") || has(feats, "PU") {
		t.Errorf("ExtractFeatures(e-mail) = %v, want HP only", feats)
	}
	if feats := ExtractFeatures(s, 1); !has(feats, "PU") {
		t.Errorf("ExtractFeatures(!) = %v, want PU", feats)
	}
}
