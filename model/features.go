package model

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/teatak/mtag/corpus"
	"github.com/teatak/mtag/util"
)

// ExtractFeatures generates the feature strings for the word at idx.
func ExtractFeatures(s corpus.Sentence, idx int) []string {
	// Helper to safely get a neighbouring form
	getForm := func(offset int) string {
		pos := idx + offset
		if pos < 0 {
			return "_BOS_"
		}
		if pos >= len(s) {
			return "_EOS_"
		}
		return s[pos].Form
	}

	// Feature templates
	// B:   bias
	// W0:  w[i], L0: lowercase w[i]
	// W-1: w[i-1], W+1: w[i+1]
	// SH:  shape of w[i]
	// Pk/Sk: prefix/suffix of length k <= 3
	// PU:  all punctuation, HP: contains punctuation
	// X:   auxiliary token features
	form := s[idx].Form
	lower := strings.ToLower(form)
	feats := []string{
		"B",
		"W0:" + form,
		"L0:" + lower,
		"W-1:" + getForm(-1),
		"W+1:" + getForm(1),
		"SH:" + shape(form),
	}
	runes := []rune(lower)
	for k := 1; k <= 3 && k <= len(runes); k++ {
		n := strconv.Itoa(k)
		feats = append(feats,
			"P"+n+":"+string(runes[:k]),
			"S"+n+":"+string(runes[len(runes)-k:]),
		)
	}
	switch {
	case util.IsPunctuation(form):
		feats = append(feats, "PU")
	case util.ContainsPunctuation(form):
		feats = append(feats, "HP")
	}
	for _, f := range s[idx].Features {
		feats = append(feats, "X:"+f)
	}
	return feats
}

// parentFeature conjoins a level's features with the tag chosen one level up.
func parentFeature(parent int) string {
	return "PT:" + strconv.Itoa(parent)
}

// shape maps uppercase to X, lowercase to x and digits to d, collapsing repeats.
func shape(form string) string {
	var b strings.Builder
	var last rune
	for _, r := range form {
		c := r
		switch {
		case unicode.IsUpper(r):
			c = 'X'
		case unicode.IsLower(r):
			c = 'x'
		case unicode.IsDigit(r):
			c = 'd'
		}
		if c != last {
			b.WriteRune(c)
			last = c
		}
	}
	return b.String()
}
