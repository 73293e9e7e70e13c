package corpus

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/teatak/mtag/dictionary"
)

const conll09 = `1	Der	der	_	ART	_	case=nom|gender=masc	_
2	Hund	Hund	_	NN	_	case=nom|gender=masc	_

# comment line
1	Er	er	_	PPER	_	case=nom	_
2	bellt	bellen	_	VVFIN	_	_	_
`

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("form-index=1,tag-index=4,morph-index=6,token-feature-index=8")
	if err != nil {
		t.Fatal(err)
	}
	want := Format{FormColumn: 1, TagColumns: []int{4, 6}, FeatureColumn: 8}
	if !reflect.DeepEqual(f, want) {
		t.Errorf("ParseFormat = %+v, want %+v", f, want)
	}
	if f.Levels() != 2 {
		t.Errorf("Levels() = %d, want 2", f.Levels())
	}
	if again, _ := ParseFormat(f.String()); !reflect.DeepEqual(again, f) {
		t.Errorf("ParseFormat(String()) = %+v, want %+v", again, f)
	}

	for _, bad := range []string{"tag-index=4", "form-index=1", "form-index=x,tag-index=1", "form-index=1,tag-index=2,color=3"} {
		if _, err := ParseFormat(bad); err == nil {
			t.Errorf("ParseFormat(%q) accepted a bad format", bad)
		}
	}
}

func TestRead(t *testing.T) {
	f, _ := ParseFormat(DefaultFormat)
	sentences, err := Read(strings.NewReader(conll09), f)
	if err != nil {
		t.Fatal(err)
	}
	if len(sentences) != 2 {
		t.Fatalf("read %d sentences, want 2", len(sentences))
	}
	if got := sentences[0].Forms(); !reflect.DeepEqual(got, []string{"Der", "Hund"}) {
		t.Errorf("Forms() = %v", got)
	}
	if got := sentences[1][1].Tags; !reflect.DeepEqual(got, []string{"VVFIN", "_"}) {
		t.Errorf("Tags = %v, want [VVFIN _]", got)
	}
	if CountTokens(sentences) != 4 {
		t.Errorf("CountTokens = %d, want 4", CountTokens(sentences))
	}
}

func TestReadShortLine(t *testing.T) {
	f, _ := ParseFormat(DefaultFormat)
	if _, err := Read(strings.NewReader("1\tDer\tder\n"), f); err == nil {
		t.Error("Read accepted a line with too few columns")
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	f, _ := ParseFormat("form-index=1,tag-index=2,morph-index=3,token-feature-index=4")
	s := Sentence{NewWord("Katzen", "NN", "case=nom"), NewWord("miauen", "VVFIN", "_")}
	s[0].Features = []string{"capitalized", "plural"}

	var buf bytes.Buffer
	if err := Write(&buf, []Sentence{s}, f); err != nil {
		t.Fatal(err)
	}
	back, err := Read(&buf, f)
	if err != nil {
		t.Fatal(err)
	}
	if len(back) != 1 || len(back[0]) != 2 {
		t.Fatalf("round trip gave %v", back)
	}
	if !reflect.DeepEqual(back[0][0].Features, s[0].Features) || !reflect.DeepEqual(back[0][1].Tags, s[1].Tags) {
		t.Errorf("round trip lost data: %+v %+v", back[0][0], back[0][1])
	}
}

func TestIndex(t *testing.T) {
	words := dictionary.NewDictionary()
	words.Add("Hund", 1)
	pos, morph := dictionary.NewTagSet(2), dictionary.NewTagSet(2)
	pos.Add("NN")
	morph.Add("case=nom")

	s := Sentence{NewWord("Hund", "NN", "case=nom"), NewWord("Katze", "NN", "case=acc")}
	Index([]Sentence{s}, words, []*dictionary.TagSet{pos, morph})

	if s[0].FormIndex != 0 || s[1].FormIndex != -1 {
		t.Errorf("FormIndex = %d, %d, want 0, -1", s[0].FormIndex, s[1].FormIndex)
	}
	want := [][]int{{0, 0}, {0, NoTag}}
	if got := s.GoldTags(); !reflect.DeepEqual(got, want) {
		t.Errorf("GoldTags() = %v, want %v", got, want)
	}
}

func TestIndexGrow(t *testing.T) {
	words := dictionary.NewDictionary()
	words.Add("Hund", 1)
	pos := dictionary.NewTagSet(2)
	pos.Add("NN")

	gold := Sentence{NewWord("Hund", "NN"), NewWord("Katze", "XY")}
	pred := Sentence{NewWord("Hund", "NN"), NewWord("Katze", "ZZ")}
	IndexGrow([]Sentence{gold}, words, []*dictionary.TagSet{pos})
	IndexGrow([]Sentence{pred}, words, []*dictionary.TagSet{pos})

	if !reflect.DeepEqual(gold.GoldTags(), [][]int{{0}, {1}}) {
		t.Errorf("gold GoldTags() = %v, want [[0] [1]]", gold.GoldTags())
	}
	if !reflect.DeepEqual(pred.GoldTags(), [][]int{{0}, {2}}) {
		t.Errorf("pred GoldTags() = %v, want [[0] [2]]", pred.GoldTags())
	}
	if gold[1].FormIndex != -1 || pos.Len() != 3 {
		t.Errorf("FormIndex = %d, tags = %d, want -1, 3", gold[1].FormIndex, pos.Len())
	}
}

func TestCapType(t *testing.T) {
	tests := []struct {
		form string
		want CapType
	}{
		{"haus", CapLower},
		{"Haus", CapCapitalized},
		{"HAUS", CapUpper},
		{"iPhone", CapMixed},
		{"A", CapCapitalized},
		{"1984", CapNone},
	}
	for _, tt := range tests {
		if got := GetCapType(tt.form); got != tt.want {
			t.Errorf("GetCapType(%q) = %v, want %v", tt.form, got, tt.want)
		}
	}
}

func TestNormalizeSentence(t *testing.T) {
	tests := []struct {
		mode     Mode
		form     string
		wantForm string
		wantFeat []string
	}{
		{ModeNone, "Müller", "Müller", nil},
		{ModeBracket, "-LRB-", "(", nil},
		{ModeBracket, "Müller", "Müller", nil},
		{ModeLower, "Müller", "müller", []string{"capitalized"}},
		{ModeUmlaut, "GRÜSSE", "gruesse", []string{"upper"}},
		{ModeUmlaut, "straße", "strasse", nil},
	}
	for _, tt := range tests {
		s := Sentence{NewWord(tt.form)}
		NormalizeSentence(s, tt.mode)
		if s[0].Form != tt.wantForm || !reflect.DeepEqual(s[0].Features, tt.wantFeat) {
			t.Errorf("%v(%q) = %q %v, want %q %v", tt.mode, tt.form, s[0].Form, s[0].Features, tt.wantForm, tt.wantFeat)
		}
	}
}

func TestParseMode(t *testing.T) {
	if m, err := ParseMode("umlaut"); err != nil || m != ModeUmlaut {
		t.Errorf("ParseMode(umlaut) = %v, %v", m, err)
	}
	if _, err := ParseMode("upper"); err == nil {
		t.Error("ParseMode accepted an unknown mode")
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"Der Hund bellt.", []string{"Der", "Hund", "bellt", "."}},
		{"(don't) stop...", []string{"(", "don't", ")", "stop", "..."}},
		{"3,5 Euro", []string{"3,5", "Euro"}},
	}
	for _, tt := range tests {
		if got := Tokenize(tt.text); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Tokenize(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
