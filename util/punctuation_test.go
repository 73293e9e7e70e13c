package util

import "testing"

func TestIsPunctuation(t *testing.T) {
	tests := []struct {
		in           string
		all, contain bool
	}{
		{"", false, false},
		{"!?", true, true},
		{"。", true, true},
		{"e-mail", false, true},
		{"Hund", false, false},
		{"\u3000", true, true},
		{"ＡＢ", true, true},
		{"€5", false, true},
	}
	for _, tt := range tests {
		if got := IsPunctuation(tt.in); got != tt.all {
			t.Errorf("IsPunctuation(%q) = %v, want %v", tt.in, got, tt.all)
		}
		if got := ContainsPunctuation(tt.in); got != tt.contain {
			t.Errorf("ContainsPunctuation(%q) = %v, want %v", tt.in, got, tt.contain)
		}
	}
}
