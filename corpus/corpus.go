package corpus

import (
	"github.com/teatak/mtag/dictionary"
)

// NoTag fills the tag-index slot of a gold tag the model has never seen.
const NoTag = -1

// Word is one token of a sentence.
type Word struct {
	Form       string
	Features   []string
	FormIndex  int
	Tags       []string
	TagIndexes []int
}

// Sentence is an ordered sequence of words.
type Sentence []*Word

// NewWord creates a word whose form is not yet indexed.
func NewWord(form string, tags ...string) *Word {
	return &Word{Form: form, FormIndex: -1, Tags: tags}
}

// Forms returns the surface forms of the sentence.
func (s Sentence) Forms() []string {
	forms := make([]string, len(s))
	for i, w := range s {
		forms[i] = w.Form
	}
	return forms
}

// GoldTags returns the gold tag-index stack of every word.
func (s Sentence) GoldTags() [][]int {
	gold := make([][]int, len(s))
	for i, w := range s {
		gold[i] = w.TagIndexes
	}
	return gold
}

// Index resolves form and tag indexes of every word against the given tables.
// Unknown forms get index -1 and unknown tags NoTag; the tables are not modified.
func Index(sentences []Sentence, words *dictionary.Dictionary, tags []*dictionary.TagSet) {
	for _, s := range sentences {
		for _, w := range s {
			w.FormIndex = words.Index(w.Form)
			w.TagIndexes = make([]int, len(tags))
			for level, set := range tags {
				w.TagIndexes[level] = NoTag
				if level >= len(w.Tags) {
					continue
				}
				if idx, ok := set.IndexOf(w.Tags[level]); ok {
					w.TagIndexes[level] = idx
				}
			}
		}
	}
}

// IndexGrow is Index for corpora compared against each other: forms are looked up
// in words, but unseen tags are added to the tag sets so that two different unseen
// tags never share an index.
func IndexGrow(sentences []Sentence, words *dictionary.Dictionary, tags []*dictionary.TagSet) {
	for _, s := range sentences {
		for _, w := range s {
			w.FormIndex = words.Index(w.Form)
			n := len(tags)
			if len(w.Tags) < n {
				n = len(w.Tags)
			}
			w.TagIndexes = make([]int, n)
			for level := 0; level < n; level++ {
				w.TagIndexes[level], _ = tags[level].Add(w.Tags[level])
			}
		}
	}
}

// CountTokens returns the number of words over all sentences.
func CountTokens(sentences []Sentence) int {
	n := 0
	for _, s := range sentences {
		n += len(s)
	}
	return n
}
