package corpus

import (
	"strings"

	"github.com/teatak/mtag/util"
)

type textBlock struct {
	runes   []rune
	isPunct bool
}

// Tokenize splits raw text on whitespace and separates punctuation runs from words.
// Punctuation between two word runes ("3,5", "don't", "e-mail") stays inside the word.
func Tokenize(text string) []string {
	var tokens []string
	for _, field := range strings.Fields(text) {
		for _, b := range splitFieldToBlocks([]rune(field)) {
			tokens = append(tokens, string(b.runes))
		}
	}
	return tokens
}

// TokenizeSentence tokenizes text into an untagged sentence.
func TokenizeSentence(text string) Sentence {
	tokens := Tokenize(text)
	s := make(Sentence, len(tokens))
	for i, tok := range tokens {
		s[i] = NewWord(tok)
	}
	return s
}

func splitFieldToBlocks(runes []rune) []textBlock {
	var blocks []textBlock
	var current []rune
	inPunct := false
	for i, r := range runes {
		p := util.IsPunct(r) && !isInfix(runes, i)
		if len(current) > 0 && p != inPunct {
			blocks = append(blocks, textBlock{runes: current, isPunct: inPunct})
			current = nil
		}
		current = append(current, r)
		inPunct = p
	}
	if len(current) > 0 {
		blocks = append(blocks, textBlock{runes: current, isPunct: inPunct})
	}
	return blocks
}

// isInfix reports whether the punctuation rune at i sits between two word runes.
func isInfix(runes []rune, i int) bool {
	if i == 0 || i == len(runes)-1 {
		return false
	}
	return !util.IsPunct(runes[i-1]) && !util.IsPunct(runes[i+1])
}
