package corpus

import (
	"fmt"
	"strings"
	"unicode"
)

// Mode selects how word forms are normalized before tagging.
type Mode int

const (
	ModeNone    Mode = iota // ModeNone leaves forms untouched.
	ModeBracket             // ModeBracket restores PTB bracket tokens such as -LRB-.
	ModeLower               // ModeLower also lowercases.
	ModeUmlaut              // ModeUmlaut also folds umlauts and sharp s.
)

var modeNames = []string{"none", "bracket", "lower", "umlaut"}

// ParseMode resolves a mode name.
func ParseMode(name string) (Mode, error) {
	for i, n := range modeNames {
		if n == name {
			return Mode(i), nil
		}
	}
	return ModeNone, fmt.Errorf("unknown normalization mode %q (want one of %s)", name, strings.Join(modeNames, ", "))
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "?"
	}
	return modeNames[m]
}

// CapType classifies the capitalization of a form.
type CapType int

const (
	CapNone        CapType = iota // CapNone means the form has no letters.
	CapLower                      // CapLower: every letter is lowercase.
	CapUpper                      // CapUpper: at least two letters, all uppercase.
	CapCapitalized                // CapCapitalized: first letter uppercase, the rest lowercase.
	CapMixed                      // CapMixed: anything else.
)

func (c CapType) String() string {
	switch c {
	case CapLower:
		return "lower"
	case CapUpper:
		return "upper"
	case CapCapitalized:
		return "capitalized"
	case CapMixed:
		return "mixed"
	}
	return "none"
}

// GetCapType returns the capitalization class of form.
func GetCapType(form string) CapType {
	var letters, upper int
	firstUpper := false
	for _, r := range form {
		if !unicode.IsLetter(r) {
			continue
		}
		if unicode.IsUpper(r) {
			if letters == 0 {
				firstUpper = true
			}
			upper++
		}
		letters++
	}
	switch {
	case letters == 0:
		return CapNone
	case upper == 0:
		return CapLower
	case upper == letters && letters > 1:
		return CapUpper
	case firstUpper && upper == 1:
		return CapCapitalized
	}
	return CapMixed
}

var brackets = strings.NewReplacer(
	"-LRB-", "(", "-RRB-", ")",
	"-LSB-", "[", "-RSB-", "]",
	"-LCB-", "{", "-RCB-", "}",
)

var umlauts = strings.NewReplacer("ä", "ae", "ö", "oe", "ü", "ue", "ß", "ss")

// NormalizeForm normalizes a single form.
func NormalizeForm(form string, mode Mode) string {
	if mode == ModeNone {
		return form
	}
	form = brackets.Replace(form)
	if mode == ModeBracket {
		return form
	}
	form = strings.ToLower(form)
	if mode == ModeUmlaut {
		form = umlauts.Replace(form)
	}
	return form
}

// NormalizeSentence normalizes every form of s in place. Except in ModeNone and
// ModeBracket, a form whose capitalization is not plain lowercase first receives
// its CapType as an extra token feature.
func NormalizeSentence(s Sentence, mode Mode) Sentence {
	if mode == ModeNone {
		return s
	}
	for _, w := range s {
		if mode != ModeBracket {
			if c := GetCapType(w.Form); c != CapNone && c != CapLower {
				w.Features = append(w.Features, c.String())
			}
		}
		w.Form = NormalizeForm(w.Form, mode)
	}
	return s
}

// NormalizeSentences normalizes every sentence in place.
func NormalizeSentences(sentences []Sentence, mode Mode) []Sentence {
	for i, s := range sentences {
		sentences[i] = NormalizeSentence(s, mode)
	}
	return sentences
}
