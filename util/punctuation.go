package util

import (
	"strings"
	"unicode"
)

// wideForms covers the CJK symbol block and the half/full-width forms block,
// letters and digits of the latter included.
var wideForms = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x3000, Hi: 0x303F, Stride: 1},
		{Lo: 0xFF00, Hi: 0xFFEF, Stride: 1},
	},
}

// IsPunct reports whether r is punctuation, a symbol or a wide form.
func IsPunct(r rune) bool {
	return unicode.In(r, unicode.P, unicode.S, wideForms)
}

// IsPunctuation reports whether s is non-empty and made of IsPunct runes only.
func IsPunctuation(s string) bool {
	return s != "" && strings.IndexFunc(s, func(r rune) bool { return !IsPunct(r) }) < 0
}

// ContainsPunctuation reports whether any rune of s is IsPunct.
func ContainsPunctuation(s string) bool {
	return strings.IndexFunc(s, IsPunct) >= 0
}
